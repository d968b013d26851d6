package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/nestview/pkg/model"
	"github.com/matzehuels/nestview/pkg/pipeline"
)

// hierarchyCommand creates the hierarchy command.
func (c *CLI) hierarchyCommand() *cobra.Command {
	var (
		opts   runnerOpts
		sizes  bool
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "hierarchy <diagram>",
		Short: "Print the nested hierarchy of a diagram",
		Long: `Print the hierarchy a diagram is built from as an indented tree.

Each line shows the entity's label, name and ID. With --sizes the computed
box size and parent-relative position are added.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runHierarchy(cmd.Context(), args[0], opts, sizes, asJSON)
		},
	}

	cmd.Flags().BoolVar(&sizes, "sizes", false, "show box sizes and positions")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the positioned hierarchy as JSON")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runHierarchy(ctx context.Context, name string, opts runnerOpts, sizes, asJSON bool) error {
	runner, err := c.newRunner(ctx, opts)
	if err != nil {
		return err
	}
	defer runner.Close()

	d, err := runner.Diagram(ctx, name)
	if err != nil {
		return fmt.Errorf("compute diagram %s: %w", name, err)
	}
	if asJSON {
		data, err := runner.Render(ctx, d, pipeline.FormatJSON)
		if err != nil {
			return err
		}
		return c.writeOutput("", data)
	}
	if len(d.Roots) == 0 {
		printWarning("Diagram %s is empty", name)
		return nil
	}
	writeTree(c.Out, d.Roots, sizes)
	return nil
}

// writeTree prints roots depth-first, two spaces of indent per level.
func writeTree(w io.Writer, roots []*model.Node, sizes bool) {
	for _, root := range roots {
		root.Walk(func(n *model.Node, depth int) bool {
			line := strings.Repeat("  ", depth) + styleLabel.Render(n.Label) + " " + n.Name + styleDim.Render(" ("+n.ID+")")
			if sizes {
				line += styleDim.Render(fmt.Sprintf(" %gx%g @ %g,%g", n.Width, n.Height, n.X, n.Y))
			}
			fmt.Fprintln(w, line)
			return true
		})
	}
}
