package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/nestview/pkg/graph"
	"github.com/matzehuels/nestview/pkg/pipeline"
)

// importCommand creates the import command.
func (c *CLI) importCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <graph.json|graph.yaml>",
		Short: "Load a graph file into the store",
		Long: `Load entities and relationships from a JSON or YAML file into the
configured store. Existing entities and relationships with the same ID are
replaced. Rules and diagrams from the config are written as well.

Importing into the memory store only validates the file, since the store
does not outlive the command.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runImport(cmd.Context(), args[0])
		},
	}
}

func (c *CLI) runImport(ctx context.Context, path string) error {
	g, err := graph.ReadGraphFile(path)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", path, err)
	}
	if err := graph.Validate(g); err != nil {
		return fmt.Errorf("validate %s: %w", path, err)
	}

	repo, err := c.openWritable(ctx)
	if err != nil {
		return err
	}
	defer repo.Close()

	spinner := newSpinnerWithContext(ctx, "Importing graph...")
	spinner.Start()
	if err := repo.Import(ctx, g); err != nil {
		spinner.StopWithError("Import failed")
		return err
	}
	spinner.Stop()

	printSuccess("Imported %s", path)
	printStats(false, "entities", len(g.Entities), "relationships", len(g.Relationships))
	printNewline()
	printNextStep("List diagrams", appName+" diagrams")
	return nil
}

// exportCommand creates the export command.
func (c *CLI) exportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export <graph.json|graph.yaml>",
		Short: "Write the stored graph to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExport(cmd.Context(), args[0])
		},
	}
}

func (c *CLI) runExport(ctx context.Context, path string) error {
	runner, err := c.newRunner(ctx, runnerOpts{noCache: true})
	if err != nil {
		return err
	}
	defer runner.Close()
	return exportGraph(ctx, runner, path)
}

func exportGraph(ctx context.Context, runner *pipeline.Runner, path string) error {
	g, err := runner.Graph(ctx)
	if err != nil {
		return err
	}
	if err := graph.WriteGraphFile(g, path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	printSuccess("Exported graph")
	printFile(path)
	printStats(false, "entities", len(g.Entities), "relationships", len(g.Relationships))
	return nil
}
