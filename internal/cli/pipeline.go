package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/popper/pkg/errors"
	"github.com/matzehuels/popper/pkg/render"
)

// pipelineOpts holds the command-line flags for the pipeline command.
type pipelineOpts struct {
	output  string // output path; stdout when empty
	dot     bool   // emit DOT source instead of SVG
	noCache bool   // always run Graphviz
}

func (c *CLI) pipelineCommand() *cobra.Command {
	var opts pipelineOpts

	cmd := &cobra.Command{
		Use:   "pipeline [scene]",
		Short: "Render the modifier chain a scene configures",
		Long: `Pipeline draws the scene's modifier chain as a graph: chain order as solid
edges, prerequisites as dotted edges (red when a prerequisite does not run
first) and flip's restart edge. Ignored modifiers are greyed out.`,
		Example: `  popper pipeline tooltip.toml -o chain.svg
  popper pipeline tooltip.toml --dot | dot -Tpng > chain.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPipeline(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&opts.dot, "dot", false, "emit Graphviz DOT instead of SVG")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the rendered SVG cache")

	return cmd
}

func (c *CLI) runPipeline(cmd *cobra.Command, path string, opts pipelineOpts) error {
	logger := loggerFromContext(cmd.Context())

	st, err := loadStage(path, logger)
	if err != nil {
		return err
	}
	dot := render.PipelineDOT(st.Options.Modifiers, render.PipelineOptions{
		Ignored: st.Options.ModifiersIgnored,
		Restart: true,
	})

	data := []byte(dot)
	if !opts.dot {
		svgs := newCache(opts.noCache, logger)
		defer svgs.Close()
		var hit bool
		if data, hit, err = render.CachedSVG(cmd.Context(), svgs, dot); err != nil {
			return err
		}
		logger.Debug("rendered pipeline", "cached", hit)
	}

	if opts.output == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s", opts.output)
	}
	logger.Debug("wrote pipeline", "path", opts.output, "bytes", len(data))
	printFile(opts.output)
	return nil
}
