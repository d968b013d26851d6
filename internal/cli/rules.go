package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/nestview/pkg/model"
	"github.com/matzehuels/nestview/pkg/rules"
)

// rulesCommand creates the rules command.
func (c *CLI) rulesCommand() *cobra.Command {
	var (
		match string
		all   bool
	)

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List formatting rules and the entities they match",
		Long: `List the conditional-formatting rules in evaluation order.

With --match LABEL every entity of that label is shown with the enabled
rules it matches and the resulting style. Use --match all for every
entity.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if match != "" {
				return c.runRuleMatches(cmd.Context(), match)
			}
			return c.runRules(cmd.Context(), all)
		},
	}

	cmd.Flags().StringVarP(&match, "match", "m", "", "show matches for entities of this label (or \"all\")")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "include disabled rules")

	return cmd
}

func (c *CLI) runRules(ctx context.Context, all bool) error {
	repo, err := c.openRepository(ctx)
	if err != nil {
		return err
	}
	defer repo.Close()

	list := repo.EnabledRules
	if all {
		list = repo.Rules
	}
	rs, err := list(ctx)
	if err != nil {
		return err
	}
	if len(rs) == 0 {
		printInfo("No rules configured")
		return nil
	}
	writeRules(c.Out, rs)
	return nil
}

func writeRules(w io.Writer, rs []model.Rule) {
	for i, r := range rs {
		name := r.Name
		if name == "" {
			name = r.ID
		}
		status := ""
		if !r.IsEnabled {
			status = styleDim.Render(" (disabled)")
		}
		fmt.Fprintf(w, "%d. %s%s\n", i+1, styleTitle.Render(name), status)
		if r.IsDefault() {
			fmt.Fprintf(w, "   %s\n", styleDim.Render("every entity"))
		} else {
			fmt.Fprintf(w, "   %s %s %s %q\n", styleLabel.Render(r.Label), r.MetadataKey, r.Operator, r.Value)
		}
		if style := rules.StyleString([]model.Rule{r}); style != "" {
			fmt.Fprintf(w, "   %s\n", styleDim.Render(style))
		}
	}
}

func (c *CLI) runRuleMatches(ctx context.Context, label string) error {
	repo, err := c.openRepository(ctx)
	if err != nil {
		return err
	}
	defer repo.Close()

	rs, err := repo.EnabledRules(ctx)
	if err != nil {
		return err
	}
	var entities []model.Entity
	if label == "all" {
		entities, err = repo.Entities(ctx)
	} else {
		entities, err = repo.EntitiesByLabel(ctx, label)
	}
	if err != nil {
		return err
	}

	matched := 0
	for _, e := range entities {
		hits, style := rules.Evaluate(e, rs)
		if len(hits) == 0 {
			continue
		}
		matched++
		names := make([]string, len(hits))
		for i, r := range hits {
			names[i] = r.Name
			if names[i] == "" {
				names[i] = r.ID
			}
		}
		fmt.Fprintf(c.Out, "%s %s%s\n", styleLabel.Render(e.Label), e.Name, styleDim.Render(" ("+e.ID+")"))
		fmt.Fprintf(c.Out, "  %s\n", strings.Join(names, ", "))
		fmt.Fprintf(c.Out, "  %s\n", styleDim.Render(style))
	}
	printStats(false, "entities", len(entities), "matched", matched)
	return nil
}
