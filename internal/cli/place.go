package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/popper/pkg/errors"
	"github.com/matzehuels/popper/pkg/render"
	"github.com/matzehuels/popper/pkg/scene"
)

// placeOpts holds the command-line flags for the place command.
type placeOpts struct {
	output string  // result JSON path
	png    string  // snapshot PNG path
	scale  float64 // snapshot scale
	labels bool    // draw ids and placement on the snapshot
}

func (c *CLI) placeCommand() *cobra.Command {
	opts := placeOpts{scale: 1, labels: true}

	cmd := &cobra.Command{
		Use:   "place [scene]",
		Short: "Place the popper of a scene and report where it went",
		Long: `Place runs one update cycle for the scene's popper and prints the final
placement, the popper box and the padded boundaries. The full result can be
written as JSON and the placement drawn as a PNG snapshot.`,
		Example: `  popper place tooltip.toml
  popper place tooltip.toml -o result.json --png tooltip.png --scale 2`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.scale <= 0 {
				return errors.New(errors.ErrCodeInvalidInput, "--scale must be positive")
			}
			return c.runPlace(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the result as JSON")
	cmd.Flags().StringVar(&opts.png, "png", "", "write a PNG snapshot of the placement")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "snapshot scale factor")
	cmd.Flags().BoolVar(&opts.labels, "labels", opts.labels, "draw labels on the snapshot")

	return cmd
}

func (c *CLI) runPlace(cmd *cobra.Command, path string, opts placeOpts) error {
	logger := loggerFromContext(cmd.Context())
	prog := newProgress(logger)

	st, e, err := placeStage(path, logger)
	if err != nil {
		return err
	}
	defer e.Close()

	res := st.NewResult(e)
	prog.done(fmt.Sprintf("Placed %s", res.Scene))
	printResult(res)

	if opts.output != "" {
		if err := res.WriteFile(opts.output); err != nil {
			return err
		}
		printFile(opts.output)
	}
	if opts.png != "" {
		err := render.SavePNG(opts.png, st, e, render.WithScale(opts.scale), render.WithLabels(opts.labels))
		if err != nil {
			return err
		}
		printFile(opts.png)
	}
	return nil
}

// printResult prints the summary of one placement.
func printResult(res scene.Result) {
	if res.Placement == "" {
		printWarning("no placement computed")
		return
	}
	placement := StyleHighlight.Render(res.Placement)
	if res.Flipped {
		placement += StyleDim.Render(" (flipped from " + res.OriginalPlacement + ")")
	}
	printSuccess("%s", placement)
	printKeyValue("popper", formatRect(res.Popper.Left, res.Popper.Top, res.Popper.Width, res.Popper.Height))
	printKeyValue("position", res.Position)
	b := res.Boundaries
	printKeyValue("boundaries", fmt.Sprintf("top %g  right %g  bottom %g  left %g", b.Top, b.Right, b.Bottom, b.Left))
	if res.Arrow != nil {
		printKeyValue("arrow", fmt.Sprintf("%s %g", res.Arrow.Side, res.Arrow.Offset))
	}
}

func formatRect(left, top, width, height float64) string {
	return fmt.Sprintf("%gx%g at (%g, %g)", width, height, left, top)
}
