// Package commands implements the lintconfig command line.
package commands

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/StimulCross/configs/cmd/lintconfig/internal/settings"
	"github.com/StimulCross/configs/composer"
	"github.com/StimulCross/configs/config"
	"github.com/StimulCross/configs/pkgmeta"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// settingsKey is used to store the loaded settings in a command context.
type settingsKey struct{}

var printer = message.NewPrinter(language.English)

// NewRootCmd creates the root command with every subcommand attached.
func NewRootCmd() *cobra.Command {
	var settingsFile string

	rootCmd := &cobra.Command{
		Use:   "lintconfig",
		Short: "Compose layered lint configurations and inspect the result for any file",
		Long: `lintconfig resolves a lint configuration built from presets, shared files and
file scoped override blocks, and shows the effective configuration a linter would
apply to a given file.

A configuration document extends presets or other documents, adds its own rules,
plugins, settings and language options, scopes override blocks to glob patterns
and lists ignored paths with gitignore style negation.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip settings loading for help and completion commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			s, err := settings.Load(settingsFile, cmd.Flags())
			if err != nil {
				return err
			}

			logger := settings.NewLogger(s, cmd.ErrOrStderr())
			if s.File != "" {
				logger.Debug("using settings file", "file", s.File)
			}

			ctx := settings.WithLogger(cmd.Context(), logger)
			ctx = context.WithValue(ctx, settingsKey{}, s)
			cmd.SetContext(ctx)

			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&settingsFile, "settings", "", "settings file (default: ./"+settings.DefaultSettingsFile+")")
	flags.StringP("config", "c", "", "composition document, relative to --root (default: "+settings.DefaultConfig+")")
	flags.String("root", "", "project root file patterns are matched against (default: .)")
	flags.String("parser-policy", "", "parser conflict policy: last-wins or strict (default: from the document)")
	flags.Bool("package", true, "derive ecmaVersion and sourceType from package.json in the root")
	flags.Int("concurrency", 0, "files composed in parallel (default: GOMAXPROCS)")
	flags.BoolP("verbose", "v", false, "verbose output")

	_ = rootCmd.RegisterFlagCompletionFunc("parser-policy", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{composer.ParserPolicyLastWins.String(), composer.ParserPolicyStrict.String()}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(newPrintConfigCmd())
	rootCmd.AddCommand(newLsIgnoredCmd())
	rootCmd.AddCommand(newValidateCmd())
	rootCmd.AddCommand(newPresetsCmd())

	return rootCmd
}

func getSettings(ctx context.Context) *settings.Settings {
	if s, ok := ctx.Value(settingsKey{}).(*settings.Settings); ok {
		return s
	}
	s, _ := settings.Load("", nil)
	return s
}

// project is a loaded composition together with the composer built from it.
type project struct {
	root        string
	fsys        fs.FS
	composition *config.Composition
	composer    *composer.Composer
}

// loadProject loads the document named by the settings, relative to the project root.
func loadProject(ctx context.Context, document string) (*project, error) {
	s := getSettings(ctx)
	logger := settings.GetLogger(ctx)

	root, err := filepath.Abs(s.Root)
	if err != nil {
		return nil, err
	}
	fsys := os.DirFS(root)

	name, err := documentName(root, document)
	if err != nil {
		return nil, err
	}

	opts := []config.Option{config.WithFS(fsys), config.WithLogger(logger)}
	if s.Package {
		md, err := pkgmeta.Load(fsys, pkgmeta.LayerName)
		switch {
		case err == nil:
			opts = append(opts, config.WithPackageMetadata(md))
		case !errors.Is(err, fs.ErrNotExist):
			return nil, err
		}
	}

	comp, err := config.Load(name, opts...)
	if err != nil {
		return nil, err
	}

	composerOpts := []composer.Option{composer.WithRoot(root), composer.WithLogger(logger)}
	if s.ParserPolicy != "" {
		policy, err := composer.ParseParserPolicy(s.ParserPolicy)
		if err != nil {
			return nil, err
		}
		composerOpts = append(composerOpts, composer.WithParserPolicy(policy))
	}

	c, err := comp.Composer(composerOpts...)
	if err != nil {
		return nil, err
	}

	return &project{root: root, fsys: fsys, composition: comp, composer: c}, nil
}

// documentName maps a document path given on the command line to a name inside the
// root file system.
func documentName(root, document string) (string, error) {
	if filepath.IsAbs(document) {
		rel, err := filepath.Rel(root, document)
		if err != nil {
			return "", err
		}
		document = rel
	}
	name := path.Clean(filepath.ToSlash(document))
	if !fs.ValidPath(name) {
		return "", config.ErrInvalidConfig.Wrapf("document %q is outside the project root %s", document, root)
	}
	return name, nil
}

// absFile resolves a file argument against the working directory so the composer can
// relate it to the project root.
func absFile(file string) string {
	abs, err := filepath.Abs(file)
	if err != nil {
		return file
	}
	return abs
}
