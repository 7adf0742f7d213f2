package commands

import (
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/StimulCross/configs/cmd/lintconfig/internal/settings"
	"github.com/StimulCross/configs/glob"
	"github.com/spf13/cobra"
)

func newLsIgnoredCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ls-ignored [path]...",
		Short: "List ignored paths",
		Long: `List the paths the configuration's ignore patterns exclude.

Without arguments the project root is walked; an ignored directory is listed once,
with a trailing slash, and not descended into. When the list re-includes paths with
"!" patterns, ignored directories are walked and their files listed one by one so
re-included files are left out. With arguments only those paths are checked.`,
		RunE: runLsIgnored,
		Example: `  # Everything ignored under the project root
  lintconfig ls-ignored

  # Check specific files and show the deciding pattern
  lintconfig ls-ignored --explain dist/app.js .eslintrc.js`,
	}

	cmd.Flags().Bool("explain", false, "print the pattern that decided each path")

	return cmd
}

func runLsIgnored(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s := getSettings(ctx)
	logger := settings.GetLogger(ctx)
	explain, _ := cmd.Flags().GetBool("explain")

	p, err := loadProject(ctx, s.Config)
	if err != nil {
		return err
	}

	list, err := p.composition.IgnoreList()
	if err != nil {
		return err
	}
	logger.Debug("ignore list", "patterns", list.Patterns())

	out := cmd.OutOrStdout()
	report := func(name string) {
		if explain {
			pattern, _ := list.Decisive(name)
			fmt.Fprintf(out, "%s\t%s\n", name, pattern)
			return
		}
		fmt.Fprintln(out, name)
	}

	var checked, ignored int
	prune := !list.HasNegations()

	if len(args) > 0 {
		for _, arg := range args {
			rel, err := filepath.Rel(p.root, absFile(arg))
			if err != nil {
				return err
			}
			name := glob.Normalize(rel)
			checked++
			if info, err := fs.Stat(p.fsys, name); err == nil && info.IsDir() {
				name += "/"
			}
			if list.IsIgnored(name) {
				ignored++
				report(name)
			}
		}
	} else {
		err = fs.WalkDir(p.fsys, ".", func(name string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if name == "." {
				return nil
			}
			checked++

			if d.IsDir() {
				if prune && list.IsIgnoredDir(name) {
					ignored++
					report(name + "/")
					return fs.SkipDir
				}
				return nil
			}
			if list.IsIgnored(name) {
				ignored++
				report(name)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	errOut := cmd.ErrOrStderr()
	fmt.Fprintln(errOut, newStyles(errOut).detail.Render(printer.Sprintf("%d of %d paths ignored", ignored, checked)))
	return nil
}
