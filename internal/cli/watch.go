package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/popper/pkg/popper"
	"github.com/matzehuels/popper/pkg/scene"
)

func (c *CLI) watchCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "watch [scene]",
		Short: "Replay a scene's scroll and resize events",
		Long: `Watch places the scene's popper, then replays the events listed in the
scene file one by one and logs every update the engine performs in response.
Events the engine does not listen for are reported as ignored.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runWatch(cmd, args[0], output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the final result as JSON")

	return cmd
}

func (c *CLI) runWatch(cmd *cobra.Command, path, output string) error {
	logger := loggerFromContext(cmd.Context())

	st, e, err := placeStage(path, logger)
	if err != nil {
		return err
	}
	defer e.Close()

	printResult(st.NewResult(e))
	if len(st.Scene.Events) == 0 {
		printWarning("scene has no events")
	}

	var updates int
	err = st.Replay(e, func(i int, ev scene.Event, d *popper.Data) {
		if d == nil {
			logger.Info("event ignored", "index", i, "event", describeEvent(ev))
			return
		}
		updates++
		logger.Info("update",
			"index", i,
			"event", describeEvent(ev),
			"placement", d.Placement,
			"flipped", d.Flipped,
			"top", d.Offsets.Popper.Top,
			"left", d.Offsets.Popper.Left)
	})
	if err != nil {
		return err
	}
	printInfo("%d events, %d updates", len(st.Scene.Events), updates)

	res := st.NewResult(e)
	printResult(res)
	if output != "" {
		if err := res.WriteFile(output); err != nil {
			return err
		}
		printFile(output)
	}
	return nil
}

func describeEvent(ev scene.Event) string {
	switch ev.Type {
	case scene.EventResize:
		return fmt.Sprintf("resize %gx%g", ev.Width, ev.Height)
	case scene.EventScroll:
		target := ev.Target
		if target == "" {
			target = "window"
		}
		return fmt.Sprintf("scroll %s to (%g, %g)", target, ev.X, ev.Y)
	}
	return ev.Type
}
