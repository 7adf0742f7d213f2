package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [document]...",
		Short: "Check composition documents for schema, pattern and extends problems",
		Long: `Load each document with everything it extends and report every problem found:
schema violations with their line and column, malformed override or ignore
patterns, unknown presets and extends cycles.

Without arguments the document from --config is validated.`,
		RunE: runValidate,
		Example: `  # Validate the default document
  lintconfig validate

  # Validate several documents
  lintconfig validate lint.yaml packages/web/lint.yaml`,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s := getSettings(ctx)

	documents := args
	if len(documents) == 0 {
		documents = []string{s.Config}
	}

	out := cmd.OutOrStdout()
	st := newStyles(out)
	failed := 0

	for _, document := range documents {
		p, err := loadProject(ctx, document)
		if err != nil {
			failed++
			fmt.Fprintln(out, st.failed.Render(fmt.Sprintf("Document %q failed validation:", document)))
			// joined errors render one problem per line
			for _, line := range strings.Split(err.Error(), "\n") {
				fmt.Fprintf(out, "  %s\n", line)
			}
			continue
		}

		comp := p.composition
		blocks := len(comp.Overrides)
		for _, l := range comp.Layers {
			blocks += len(l.Overrides)
		}

		fmt.Fprintln(out, st.ok.Render(fmt.Sprintf("Document %q is valid.", document)))
		summary := printer.Sprintf("%d layers, %d override blocks, %d ignore patterns", len(comp.Layers), blocks, len(comp.Ignores))
		fmt.Fprintf(out, "  %s\n", st.detail.Render(summary))
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d documents failed validation", failed, len(documents))
	}
	return nil
}
