package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/kintree/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string // output file path (default: kintree.<format>)
	vizType  string // canvas or nodelink
	format   string // svg, dot or json
	title    string // canvas title
	detailed bool   // lifespans and generations in nodelink labels
	relayout bool   // lay out afresh instead of using stored positions
	noCache  bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{
		vizType: pipeline.DefaultVizType,
		format:  pipeline.FormatSVG,
	}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the family tree to SVG, DOT or JSON",
		Long: `Render the family tree to SVG, DOT or JSON.

Visualization types:
  canvas    member cards at their positions with routed relationship lines
  nodelink  a Graphviz diagram with spouses kept on one rank

The canvas view uses stored positions unless --relayout is given. Use
'kintree layout --write' to persist a layout first.`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if err := pipeline.ValidateVizType(opts.vizType); err != nil {
				return err
			}
			return pipeline.ValidateFormat(opts.format)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: kintree.<format>)")
	cmd.Flags().StringVarP(&opts.vizType, "type", "t", opts.vizType, "visualization type: canvas (default), nodelink")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: svg (default), dot, json")
	cmd.Flags().StringVar(&opts.title, "title", "", "title drawn above the canvas")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show lifespans and generations (nodelink)")
	cmd.Flags().BoolVar(&opts.relayout, "relayout", false, "lay out afresh instead of using stored positions")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	_ = cmd.RegisterFlagCompletionFunc("type", completeFixed(pipeline.VizCanvas, pipeline.VizNodelink))
	_ = cmd.RegisterFlagCompletionFunc("format", completeFixed(pipeline.FormatSVG, pipeline.FormatDOT, pipeline.FormatJSON))

	return cmd
}

func (c *CLI) runRender(ctx context.Context, opts renderOpts) error {
	s, err := c.open(ctx, opts.noCache)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer s.Close()

	res, err := c.result(ctx, s, opts.relayout)
	if err != nil {
		return err
	}

	po := c.pipelineOptions()
	po.VizType = opts.vizType
	po.Format = opts.format
	po.Title = opts.title
	po.Detailed = opts.detailed

	spinner := newSpinner(ctx, fmt.Sprintf("Rendering %s...", opts.vizType))
	spinner.Start()
	data, err := s.runner.Render(ctx, res, po)
	if err != nil {
		spinner.StopWithError("Render failed")
		return fmt.Errorf("render: %w", err)
	}
	spinner.Stop()

	output := opts.output
	if output == "" {
		output = appName + "." + opts.format
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}

	printSuccess("Rendered %d members", res.Stats.Members)
	printFile(output)
	if opts.relayout && len(res.Changes) > 0 {
		printInfo("%d members are drawn away from their stored position", len(res.Changes))
		printNextStep("Save positions", appName+" layout --write")
	}
	return nil
}
