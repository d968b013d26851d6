package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/nestview/pkg/pipeline"
	"github.com/matzehuels/nestview/pkg/relations"
)

// relationsOpts holds the flags of the relations command.
type relationsOpts struct {
	runnerOpts
	format  string // dot, svg or json
	output  string
	diagram string // diagram whose label colors tint the output
	options bool   // list per-label relationship options instead
}

// relationsCommand creates the relations command.
func (c *CLI) relationsCommand() *cobra.Command {
	opts := relationsOpts{format: pipeline.FormatDOT}

	cmd := &cobra.Command{
		Use:   "relations <label>...",
		Short: "Summarize how entity labels connect",
		Long: `Summarize the relationships that touch entities of the given labels as
label-to-label edges, for example "Group ->[HOSTS] Server".

DOT output can be piped to Graphviz; SVG output is laid out with the
bundled Graphviz. With --options every label of the graph is listed with
the relationship types that lead to other labels, which helps when
writing a label hierarchy.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if opts.options {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.MinimumNArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.options {
				return c.runLabelOptions(cmd.Context(), opts)
			}
			if err := pipeline.ValidateFormat(opts.format, pipeline.RelationFormats); err != nil {
				return err
			}
			return c.runRelations(cmd.Context(), args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: dot, svg, json")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVarP(&opts.diagram, "diagram", "d", "", "use the label colors of this diagram")
	cmd.Flags().BoolVar(&opts.options, "options", false, "list relationship options per label")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even when cached")

	return cmd
}

func (c *CLI) runRelations(ctx context.Context, labels []string, opts relationsOpts) error {
	runner, err := c.newRunner(ctx, opts.runnerOpts)
	if err != nil {
		return err
	}
	defer runner.Close()

	var colors map[string]string
	if opts.diagram != "" {
		d, err := runner.Repo.DiagramOptions(ctx, opts.diagram)
		if err != nil {
			return err
		}
		colors = d.LabelColors
	}

	prog := newProgress(c.Logger)
	rels, err := runner.Relations(ctx, labels)
	if err != nil {
		return fmt.Errorf("resolve relations: %w", err)
	}
	data, err := runner.RenderRelations(ctx, rels, opts.format, colors)
	if err != nil {
		return err
	}
	if err := c.writeOutput(opts.output, data); err != nil {
		return err
	}
	prog.done("resolved relations", "labels", labels, "relations", len(rels.Relations), "cached", rels.CacheHit)

	if opts.output != "" && opts.output != "-" {
		printSuccess("Resolved %d relations", len(rels.Relations))
		printFile(opts.output)
	}
	return nil
}

func (c *CLI) runLabelOptions(ctx context.Context, opts relationsOpts) error {
	runner, err := c.newRunner(ctx, runnerOpts{noCache: true})
	if err != nil {
		return err
	}
	defer runner.Close()

	g, err := runner.Graph(ctx)
	if err != nil {
		return err
	}
	byLabel := relations.LabelOptions(g)

	if opts.format == pipeline.FormatJSON {
		data, err := json.MarshalIndent(byLabel, "", "  ")
		if err != nil {
			return err
		}
		return c.writeOutput(opts.output, append(data, '\n'))
	}
	writeLabelOptions(c.Out, byLabel)
	return nil
}

// writeLabelOptions prints labels in sorted order, each followed by its
// options.
func writeLabelOptions(w io.Writer, byLabel map[string][]relations.Option) {
	labels := make([]string, 0, len(byLabel))
	for l := range byLabel {
		labels = append(labels, l)
	}
	slices.Sort(labels)

	for _, l := range labels {
		fmt.Fprintln(w, styleTitle.Render(l))
		for _, o := range byLabel[l] {
			arrow := "->"
			if o.Direction == relations.From {
				arrow = "<-"
			}
			fmt.Fprintf(w, "  %s[%s] %s\n", arrow, o.RelationType, styleLabel.Render(o.ToLabel))
		}
	}
}
