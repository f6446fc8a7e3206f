package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/kintree/pkg/layout"
)

// layoutCommand creates the layout command.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		write   bool
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Compute member positions for the family tree",
		Long: `Compute member positions for the family tree.

The layout command reads the snapshot from the store, assigns generations,
groups spouses, and places every member card. Positions are printed as a
summary; use -o to save them as JSON and --write to store every member
whose position changed back into the store.

Layouts are cached by tree shape, so re-running after --write is cheap.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), output, write, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write positions JSON to this file")
	cmd.Flags().BoolVar(&write, "write", false, "save changed positions to the store")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runLayout computes the layout and optionally persists it.
func (c *CLI) runLayout(ctx context.Context, output string, write, noCache bool) error {
	s, err := c.open(ctx, noCache)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer s.Close()

	spinner := newSpinner(ctx, "Computing layout...")
	spinner.Start()

	res, err := s.runner.Layout(ctx, c.pipelineOptions())
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	printSuccess("Layout complete")
	printStats(res.Stats.Members, res.Stats.Relationships, len(res.Changes), res.CacheHit)

	if output != "" {
		if err := layout.WritePositionsFile(res.Positions, output); err != nil {
			return fmt.Errorf("write output %s: %w", output, err)
		}
		printFile(output)
	}

	if !write {
		if len(res.Changes) > 0 {
			printNewline()
			printNextStep("Save positions", appName+" layout --write")
		}
		return nil
	}

	report := s.runner.Flush(ctx, res.Changes)
	if err := report.Err(); err != nil {
		printWarning("Saved %d of %d positions", len(report.Written), len(res.Changes))
		for _, f := range report.Failures {
			printDetail("member %d: %v", f.ID, f.Err)
		}
		return err
	}
	printSuccess("Saved %d positions", len(report.Written))
	printDetail("Batch: %s", report.BatchID)
	return nil
}
