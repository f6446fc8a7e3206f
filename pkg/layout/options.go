package layout

import (
	kerrors "github.com/matzehuels/kintree/pkg/errors"
)

// Default card geometry in canvas units.
const (
	DefaultCardWidth     = 160.0
	DefaultCardHeight    = 80.0
	DefaultHorizontalGap = 40.0
	DefaultVerticalGap   = 80.0
)

// Options controls card geometry and spacing.
type Options struct {
	CardWidth     float64 `json:"card_width" toml:"card_width"`
	CardHeight    float64 `json:"card_height" toml:"card_height"`
	HorizontalGap float64 `json:"horizontal_gap" toml:"horizontal_gap"`
	VerticalGap   float64 `json:"vertical_gap" toml:"vertical_gap"`
	OriginX       float64 `json:"origin_x" toml:"origin_x"`
	OriginY       float64 `json:"origin_y" toml:"origin_y"`
}

// DefaultOptions returns the default card geometry anchored at (0, 0).
func DefaultOptions() Options {
	return Options{
		CardWidth:     DefaultCardWidth,
		CardHeight:    DefaultCardHeight,
		HorizontalGap: DefaultHorizontalGap,
		VerticalGap:   DefaultVerticalGap,
	}
}

// SetDefaults fills zero card dimensions with the defaults. Zero gaps and
// origins are legitimate and left alone.
func (o *Options) SetDefaults() {
	if o.CardWidth == 0 {
		o.CardWidth = DefaultCardWidth
	}
	if o.CardHeight == 0 {
		o.CardHeight = DefaultCardHeight
	}
}

// Validate rejects geometry that cannot produce a usable layout.
func (o Options) Validate() error {
	if o.CardWidth <= 0 || o.CardHeight <= 0 {
		return kerrors.New(kerrors.ErrCodeInvalidInput, "card size must be positive, got %gx%g", o.CardWidth, o.CardHeight)
	}
	if o.HorizontalGap < 0 || o.VerticalGap < 0 {
		return kerrors.New(kerrors.ErrCodeInvalidInput, "gaps must not be negative, got %g/%g", o.HorizontalGap, o.VerticalGap)
	}
	return nil
}

func (o Options) slot() float64 { return o.CardWidth + o.HorizontalGap }

func (o Options) band() float64 { return o.CardHeight + o.VerticalGap }
