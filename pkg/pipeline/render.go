package pipeline

import (
	"context"
	"encoding/json"

	kerrors "github.com/matzehuels/kintree/pkg/errors"
	"github.com/matzehuels/kintree/pkg/family"
	"github.com/matzehuels/kintree/pkg/render/nodelink"
	"github.com/matzehuels/kintree/pkg/render/svg"
	"github.com/matzehuels/kintree/pkg/route"
)

// Export is the JSON form of a laid-out tree: members at their computed
// positions plus the routed relationship lines.
type Export struct {
	Members []family.Member  `json:"members"`
	Routes  []route.Geometry `json:"routes"`
}

// Routes computes line geometry for every relationship in res using the
// layout positions rather than the stored ones.
func (r *Runner) Routes(res *Result, opts Options) []route.Geometry {
	opts.SetDefaults()
	return route.NewRouterFromLayout(res.Snapshot, res.Positions, opts.Route).RouteAll()
}

// Render produces the requested visualization of res.
func (r *Runner) Render(ctx context.Context, res *Result, opts Options) ([]byte, error) {
	opts.SetDefaults()
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	if opts.VizType == VizNodelink {
		return r.renderNodelink(ctx, res, opts)
	}

	routes := r.Routes(res, opts)
	members := res.Members()
	switch opts.Format {
	case FormatJSON:
		data, err := json.MarshalIndent(Export{Members: members, Routes: routes}, "", "  ")
		if err != nil {
			return nil, kerrors.Wrap(kerrors.ErrCodeInternal, err, "encode export")
		}
		return data, nil
	default:
		svgOpts := []svg.Option{
			svg.WithCardSize(opts.Layout.CardWidth, opts.Layout.CardHeight),
			svg.WithGenerations(res.Generations),
		}
		if opts.Title != "" {
			svgOpts = append(svgOpts, svg.WithTitle(opts.Title))
		}
		return svg.Render(members, routes, svgOpts...), nil
	}
}

func (r *Runner) renderNodelink(ctx context.Context, res *Result, opts Options) ([]byte, error) {
	dot := nodelink.ToDOT(res.Index, nodelink.Options{Detailed: opts.Detailed})
	if opts.Format == FormatDOT {
		return []byte(dot), nil
	}
	data, err := nodelink.RenderSVG(ctx, dot)
	if err != nil {
		return nil, kerrors.Wrap(kerrors.ErrCodeInternal, err, "render nodelink svg")
	}
	return data, nil
}
