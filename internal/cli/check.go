package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	apperrors "github.com/matzehuels/degreetree/pkg/errors"
	"github.com/matzehuels/degreetree/pkg/pipeline"
	"github.com/matzehuels/degreetree/pkg/tree"
)

// checkCommand creates the check command, which reports the structural
// problems the layout engine recovers from.
func (c *CLI) checkCommand() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "check <tree>",
		Short: "Report structural issues in a degree tree",
		Long: `Report structural issues in a degree tree.

Missing parents, duplicate and empty IDs, and parent cycles never stop a
layout: the affected nodes are promoted to roots or dropped. check lists
each recovery so the source can be fixed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCheck(cmd.Context(), args[0], strict)
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "exit with an error when issues are found")

	return cmd
}

func (c *CLI) runCheck(ctx context.Context, source string, strict bool) error {
	runner, err := c.newRunner(ctx, source, true)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer closeRunner(ctx, runner)

	doc, err := runner.Load(ctx, pipeline.Options{Source: source})
	if err != nil {
		return err
	}
	nodes := doc.TreeNodes()
	issues := pipeline.Issues(nodes)

	printKeyValue("tree", source)
	if doc.Title != "" {
		printKeyValue("title", doc.Title)
	}
	printKeyValue("courses", fmt.Sprint(len(nodes)))
	printKeyValue("tracks", fmt.Sprint(len(tree.Build(nodes).Roots())))
	stats := newTreeStats(nodes)
	for _, st := range statusOrder {
		if n := stats.byStatus[st]; n > 0 {
			printKeyValue(string(st), statusStyle(st).Render(fmt.Sprint(n)))
		}
	}
	printNewline()

	if len(issues) == 0 {
		printSuccess("No issues")
		return nil
	}
	for _, issue := range issues {
		printIssue(issue)
	}
	if strict {
		return apperrors.New(apperrors.ErrCodeInvalidTree, "%d structural issues", len(issues))
	}
	return nil
}
