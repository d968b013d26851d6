package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"
)

// diagramsCommand creates the diagrams command.
func (c *CLI) diagramsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "diagrams",
		Short: "List the configured diagrams",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDiagrams(cmd.Context())
		},
	}
}

func (c *CLI) runDiagrams(ctx context.Context) error {
	repo, err := c.openRepository(ctx)
	if err != nil {
		return err
	}
	defer repo.Close()

	diagrams, err := repo.Diagrams(ctx)
	if err != nil {
		return err
	}
	if len(diagrams) == 0 {
		printInfo("No diagrams configured")
		printNextStep("Add one", "[[diagram]] in "+c.configName())
		return nil
	}
	for _, d := range diagrams {
		printHeading(d.Name)
		if d.Description != "" {
			printDetail("%s", d.Description)
		}
		printDetail("%s", strings.Join(d.LabelHierarchy, " > "))
	}
	return nil
}
