package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/StimulCross/configs/cache"
	"github.com/StimulCross/configs/cmd/lintconfig/internal/settings"
	"github.com/StimulCross/configs/json"
	"github.com/StimulCross/configs/query"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

func newPrintConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "print-config <file>...",
		Short: "Print the effective configuration for one or more files",
		Long: `Print the effective configuration a linter would apply to each file.

With several files the output is a mapping from file to configuration, in the
order the files were given. --query selects part of each configuration with a
JSONPath expression. --watch keeps running and prints again, as a new YAML
document, whenever a composition document or package.json changes.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runPrintConfig,
		Example: `  # Effective configuration of a test file
  lintconfig print-config src/app.test.ts

  # Only the no-console setting, as JSON
  lintconfig print-config --format json --query "$.rules['no-console']" src/app.ts

  # Legacy JSONPath dialect
  lintconfig print-config --engine legacy --query '$.plugins[*]' src/app.ts

  # Keep printing as lint.yaml is edited
  lintconfig print-config --watch src/app.ts`,
	}

	cmd.Flags().StringP("format", "f", "", "output format: yaml or json (default: yaml)")
	cmd.Flags().StringP("query", "q", "", "JSONPath expression selecting part of the configuration")
	cmd.Flags().String("engine", "", "JSONPath engine: rfc9535 or legacy (default: rfc9535)")
	cmd.Flags().BoolP("watch", "w", false, "print again whenever a composition document or package.json changes")

	return cmd
}

func runPrintConfig(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s := getSettings(ctx)

	expr, _ := cmd.Flags().GetString("query")
	watch, _ := cmd.Flags().GetBool("watch")
	engine, err := query.ParseEngine(s.Engine)
	if err != nil {
		return err
	}

	printOnce := func() (*project, error) {
		p, err := loadProject(ctx, s.Config)
		if err != nil {
			return nil, err
		}
		if err := printConfigs(ctx, cmd.OutOrStdout(), p, args, expr, engine, s); err != nil {
			return nil, err
		}
		return p, nil
	}

	p, err := printOnce()
	if err != nil || !watch {
		return err
	}

	return watchProject(ctx, p, func() (*project, error) {
		if s.Format == "yaml" {
			fmt.Fprintln(cmd.OutOrStdout(), "---")
		}
		return printOnce()
	})
}

func printConfigs(ctx context.Context, w io.Writer, p *project, files []string, expr string, engine query.Engine, s *settings.Settings) error {
	logger := settings.GetLogger(ctx)

	nodes, err := composeAll(ctx, p, files, expr, engine, s.Concurrency)
	if err != nil {
		return err
	}

	var out *yaml.Node
	if len(files) == 1 {
		out = nodes[0]
	} else {
		out = &yaml.Node{Kind: yaml.MappingNode}
		for i, file := range files {
			out.Content = append(out.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: file},
				nodes[i])
		}
	}

	logger.Debug("composed files", slog.Int("files", len(files)), slog.String("fingerprint", p.composer.Fingerprint()))

	return writeNode(w, out, s.Format)
}

// composeAll composes every file concurrently and returns one node per file, in
// argument order.
func composeAll(ctx context.Context, p *project, files []string, expr string, engine query.Engine, concurrency int) ([]*yaml.Node, error) {
	logger := settings.GetLogger(ctx)
	resolver := &cache.Resolver{}
	nodes := make([]*yaml.Node, len(files))

	var q query.Queryable
	if expr != "" {
		var warnings []string
		var err error
		q, err = query.NewPath(expr, engine, &warnings)
		if err != nil {
			return nil, err
		}
		for _, w := range warnings {
			logger.Warn(w)
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, file := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			abs := absFile(file)
			cfg, err := resolver.Resolve(p.composer, abs)
			if err != nil {
				return fmt.Errorf("%s: %w", file, err)
			}
			logger.Debug("composed", slog.String("file", file), slog.Any("blocks", p.composer.MatchedBlocks(abs)))

			doc, err := query.Node(cfg)
			if err != nil {
				return fmt.Errorf("%s: %w", file, err)
			}
			node := doc.Content[0]

			if q != nil {
				selected := q.Query(doc)
				switch len(selected) {
				case 0:
					node = &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
				case 1:
					node = selected[0]
				default:
					node = &yaml.Node{Kind: yaml.SequenceNode, Content: selected}
				}
			}

			nodes[i] = node
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats := resolver.GetStats()
	logger.Debug("resolver stats", slog.Int64("configurations", stats.Size), slog.Int64("hits", stats.Hits))

	return nodes, nil
}

func writeNode(w io.Writer, node *yaml.Node, format string) error {
	if format == "json" {
		return json.YAMLToJSON(node, 2, w)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		return err
	}
	return enc.Close()
}
