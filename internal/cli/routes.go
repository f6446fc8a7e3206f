package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/kintree/pkg/pipeline"
)

// routesCommand creates the routes command.
func (c *CLI) routesCommand() *cobra.Command {
	var (
		output   string
		relayout bool
	)

	cmd := &cobra.Command{
		Use:   "routes",
		Short: "Print relationship line geometry as JSON",
		Long: `Print relationship line geometry as JSON.

Each entry carries the relationship, its start and end points, stroke style,
arrowhead and label. Lines shared by a married couple are routed from the
midpoint between the spouses and appear once. By default stored positions
are used; --relayout routes against a fresh layout instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRoutes(cmd.Context(), output, relayout)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&relayout, "relayout", false, "route against a fresh layout instead of stored positions")

	return cmd
}

func (c *CLI) runRoutes(ctx context.Context, output string, relayout bool) error {
	s, err := c.open(ctx, false)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer s.Close()

	res, err := c.result(ctx, s, relayout)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(s.runner.Routes(res, c.pipelineOptions()), "", "  ")
	if err != nil {
		return fmt.Errorf("encode routes: %w", err)
	}
	data = append(data, '\n')

	if output == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}
	printSuccess("Routes written")
	printFile(output)
	return nil
}

// result returns stored positions, or a fresh unsaved layout when
// relayout is set.
func (c *CLI) result(ctx context.Context, s *session, relayout bool) (*pipeline.Result, error) {
	if relayout {
		res, err := s.runner.Layout(ctx, c.pipelineOptions())
		if err != nil {
			return nil, fmt.Errorf("compute layout: %w", err)
		}
		return res, nil
	}
	res, err := s.runner.Stored(ctx)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return res, nil
}
