package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/nestview/pkg/config"
	"github.com/matzehuels/nestview/pkg/observability"
	"github.com/matzehuels/nestview/pkg/pipeline"
	"github.com/matzehuels/nestview/pkg/store"
)

// renderOpts holds the flags of the render command.
type renderOpts struct {
	runnerOpts
	format string // svg or json
	output string // output file, "-" or "" for stdout
	watch  bool   // re-render when the store or config changes
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{format: pipeline.FormatSVG}

	cmd := &cobra.Command{
		Use:   "render <diagram>",
		Short: "Render a diagram as SVG or JSON",
		Long: `Render a configured diagram.

The diagram's label hierarchy is built from the store, laid out as nested
boxes and styled by the enabled formatting rules. SVG draws the boxes;
JSON contains the positioned hierarchy and the flattened blocks.

With --watch the diagram is rendered again whenever the graph, the rules
or the config change. Graph files of the memory store and the config file
are watched for writes; other stores are polled.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := pipeline.ValidateFormat(opts.format, pipeline.DiagramFormats); err != nil {
				return err
			}
			if opts.watch {
				return c.watchRender(cmd.Context(), args[0], opts)
			}
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: svg, json")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "re-render on changes until interrupted")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even when cached")

	return cmd
}

// runRender renders one diagram once.
func (c *CLI) runRender(ctx context.Context, name string, opts renderOpts) error {
	runner, err := c.newRunner(ctx, opts.runnerOpts)
	if err != nil {
		return err
	}
	defer runner.Close()
	return c.renderWith(ctx, runner, name, opts)
}

func (c *CLI) renderWith(ctx context.Context, runner *pipeline.Runner, name string, opts renderOpts) error {
	prog := newProgress(c.Logger)
	d, err := runner.Diagram(ctx, name)
	if err != nil {
		return fmt.Errorf("compute diagram %s: %w", name, err)
	}
	data, err := runner.Render(ctx, d, opts.format)
	if err != nil {
		return err
	}
	if err := c.writeOutput(opts.output, data); err != nil {
		return err
	}
	prog.done("rendered", "diagram", name, "blocks", len(d.Blocks), "cached", d.CacheHit)

	if opts.output != "" && opts.output != "-" {
		printSuccess("Rendered %s", name)
		printFile(opts.output)
		printStats(d.CacheHit,
			"entities", d.Stats.EntityCount,
			"relationships", d.Stats.RelationshipCount,
			"blocks", len(d.Blocks))
	}
	return nil
}

// watchRender renders once and then again on every change until ctx ends.
// Render failures while watching are logged so that a broken edit can be
// fixed without restarting.
func (c *CLI) watchRender(ctx context.Context, name string, opts renderOpts) error {
	if err := c.runRender(ctx, name, opts); err != nil {
		return err
	}

	onChange := func(ctx context.Context, source string) error {
		observability.Store().OnChange(ctx, source)
		c.Logger.Info("change detected", "source", source)
		c.cfg = nil
		if err := c.loadConfig(); err != nil {
			c.Logger.Error("reload config", "err", err)
			return nil
		}
		if err := c.runRender(ctx, name, opts); err != nil {
			c.Logger.Error("render failed", "err", err)
		}
		return nil
	}

	err := c.watch(ctx, opts.runnerOpts, onChange)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// watch blocks until ctx ends, calling onChange for every change to the
// configured sources.
func (c *CLI) watch(ctx context.Context, opts runnerOpts, onChange func(ctx context.Context, source string) error) error {
	var files []string
	if c.cfg.Path != "" {
		files = append(files, c.cfg.Path)
	}
	if c.cfg.Store.Driver == config.DriverMemory || c.cfg.Store.Driver == "" {
		if c.cfg.Store.Graph != "" {
			files = append(files, c.cfg.Store.Graph)
		}
		if len(files) == 0 {
			return fmt.Errorf("nothing to watch: memory store without graph or config file")
		}
		printInfo("Watching %d file(s), press Ctrl+C to stop", len(files))
		return store.WatchFiles(ctx, files, store.DefaultDebounce, onChange)
	}

	interval, err := c.cfg.PollInterval()
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, opts)
	if err != nil {
		return err
	}
	defer runner.Close()

	printInfo("Polling %s store every %s, press Ctrl+C to stop", c.cfg.Store.Driver, interval)
	return store.Watch(ctx, interval, runner.Fingerprint, func(ctx context.Context, _ string) error {
		return onChange(ctx, c.cfg.Store.Driver)
	})
}

// writeOutput writes data to path, or to c.Out for "" and "-".
func (c *CLI) writeOutput(path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := c.Out.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
