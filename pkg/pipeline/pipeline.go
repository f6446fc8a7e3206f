// Package pipeline runs the kintree fetch → layout → flush → render flow.
//
// A Runner reads a snapshot from a store, computes positions (consulting
// the cache first), writes changed positions back, and renders the result.
// The CLI and any embedding service share this code path so behaviour is
// identical everywhere.
//
// # Usage
//
//	runner := pipeline.NewRunner(st, st, c, nil, logger)
//	res, err := runner.Layout(ctx, pipeline.Options{})
//	if err != nil {
//	    return err
//	}
//	report := runner.Flush(ctx, res.Changes)
//	if err := report.Err(); err != nil {
//	    logger.Warn("some positions were not saved", "err", err)
//	}
//	svg, err := runner.Render(ctx, res, pipeline.Options{Format: pipeline.FormatSVG})
//
// Stages can also be run independently: Fetch, ComputeLayout, Flush and
// Routes each take the output of the previous stage.
package pipeline

import (
	"time"

	kerrors "github.com/matzehuels/kintree/pkg/errors"
	"github.com/matzehuels/kintree/pkg/family"
	"github.com/matzehuels/kintree/pkg/layout"
	"github.com/matzehuels/kintree/pkg/route"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultFlushConcurrency bounds the number of in-flight position writes.
	DefaultFlushConcurrency = 8

	// DefaultRetryAttempts is the number of tries per position write.
	DefaultRetryAttempts = 3

	// DefaultRetryDelay is the initial backoff between write attempts.
	DefaultRetryDelay = 100 * time.Millisecond

	// TTLLayout is the default lifetime of cached layouts.
	TTLLayout = 7 * 24 * time.Hour
)

// Visualization types.
const (
	VizCanvas   = "canvas"
	VizNodelink = "nodelink"
)

// Output formats.
const (
	FormatSVG  = "svg"
	FormatDOT  = "dot"
	FormatJSON = "json"
)

// DefaultVizType is the default visualization type.
const DefaultVizType = VizCanvas

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatDOT:  true,
	FormatJSON: true,
}

// ValidVizTypes is the set of supported visualization types.
var ValidVizTypes = map[string]bool{
	VizCanvas:   true,
	VizNodelink: true,
}

// =============================================================================
// Options
// =============================================================================

// Options configures a pipeline run. The zero value lays out with default
// geometry and renders canvas SVG.
type Options struct {
	Layout layout.Options
	Route  route.Options

	// NoCache skips the cache lookup. The fresh layout is still stored.
	NoCache bool

	VizType  string
	Format   string
	Detailed bool   // nodelink only: add lifespans and generation numbers
	Title    string // canvas only
}

// SetDefaults fills unset fields. A zero Layout takes the full default
// geometry; Route always takes its card size from Layout.
func (o *Options) SetDefaults() {
	if o.Layout == (layout.Options{}) {
		o.Layout = layout.DefaultOptions()
	} else {
		o.Layout.SetDefaults()
	}
	if o.Route == (route.Options{}) {
		o.Route = route.OptionsFrom(o.Layout)
	} else {
		o.Route.CardWidth = o.Layout.CardWidth
		o.Route.CardHeight = o.Layout.CardHeight
	}
	if o.VizType == "" {
		o.VizType = DefaultVizType
	}
	if o.Format == "" {
		o.Format = FormatSVG
	}
}

// ValidateForLayout checks the options used by the layout stage.
func (o Options) ValidateForLayout() error {
	if err := o.Layout.Validate(); err != nil {
		return kerrors.Wrap(kerrors.ErrCodeInvalidInput, err, "layout options")
	}
	return nil
}

// ValidateFormat checks that format is a supported output format.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return kerrors.New(kerrors.ErrCodeInvalidFormat, "invalid format: %s (must be svg, dot, or json)", format)
	}
	return nil
}

// ValidateVizType checks that vizType is a supported visualization type.
func ValidateVizType(vizType string) error {
	if !ValidVizTypes[vizType] {
		return kerrors.New(kerrors.ErrCodeInvalidInput, "invalid visualization type: %s (must be canvas or nodelink)", vizType)
	}
	return nil
}

// ValidateForRender checks the options used by the render stage.
func (o Options) ValidateForRender() error {
	if err := ValidateVizType(o.VizType); err != nil {
		return err
	}
	if err := ValidateFormat(o.Format); err != nil {
		return err
	}
	if o.VizType == VizCanvas && o.Format == FormatDOT {
		return kerrors.New(kerrors.ErrCodeInvalidFormat, "dot output requires the nodelink visualization")
	}
	if o.VizType == VizNodelink && o.Format == FormatJSON {
		return kerrors.New(kerrors.ErrCodeInvalidFormat, "json output requires the canvas visualization")
	}
	return nil
}

// =============================================================================
// Results
// =============================================================================

// Result is the output of the layout stage.
type Result struct {
	Snapshot     family.Snapshot
	Index        *family.Index
	Generations  family.Generations
	Stats        family.Stats
	Positions    layout.PositionMap
	Changes      []layout.Change
	SnapshotHash string
	CacheHit     bool
	Duration     time.Duration
}

// Members returns the snapshot's members with layout positions applied.
func (r *Result) Members() []family.Member {
	return r.Positions.Apply(r.Snapshot.Members)
}
