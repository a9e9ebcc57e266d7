package smooth

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by Params.Validate.
var (
	ErrNegativeRadius = errors.New("smooth: radius parameters must not be negative")
	ErrBadMinAngle    = errors.New("smooth: minimum angle must be in [0, 360)")
	ErrNegativeLength = errors.New("smooth: minimum length must not be negative")
	ErrBadIterations  = errors.New("smooth: iteration count must not be negative")
)

// Params configures both smoothing engines. Distances are in whatever unit the
// caller supplies; use Scaled to convert to board units.
type Params struct {
	Radius                float64 `toml:"radius"`                  // corner radius for zero-width tracks
	RadiusWidthMultiplier float64 `toml:"radius_width_multiplier"` // radius grows by width times this
	MaxRadius             float64 `toml:"max_radius"`
	MinAngle              float64 `toml:"min_angle"` // degrees; straighter junctions are left alone
	MinLength             float64 `toml:"min_length"`
	Iterations            int     `toml:"iterations"`

	MultiWay        bool `toml:"multiway"`         // run the arc engine before subdivision
	MultiWayShorten bool `toml:"multiway_shorten"` // trim tracks back to the emitted arcs
	FillRegions     bool `toml:"fill_regions"`     // also emit a solid region per arc junction
}

// DefaultParams returns default smoothing parameters, in mils.
func DefaultParams() Params {
	return Params{
		Radius:                5.0,
		RadiusWidthMultiplier: 0.5,
		MaxRadius:             30.0,
		MinAngle:              360.0 / 64.0,
		MinLength:             1.0,
		Iterations:            4,
	}
}

// Scaled returns a copy of params with every distance multiplied by f.
func (p Params) Scaled(f float64) Params {
	p.Radius *= f
	p.MaxRadius *= f
	p.MinLength *= f
	return p
}

// Validate rejects parameters the engines do not handle meaningfully.
func (p Params) Validate() error {
	if p.Radius < 0 || p.MaxRadius < 0 || p.RadiusWidthMultiplier < 0 {
		return fmt.Errorf("%w (radius=%g maxRadius=%g multiplier=%g)",
			ErrNegativeRadius, p.Radius, p.MaxRadius, p.RadiusWidthMultiplier)
	}
	if p.MinAngle < 0 || p.MinAngle >= 360 {
		return fmt.Errorf("%w (got %g)", ErrBadMinAngle, p.MinAngle)
	}
	if p.MinLength < 0 {
		return fmt.Errorf("%w (got %g)", ErrNegativeLength, p.MinLength)
	}
	if p.Iterations < 0 {
		return fmt.Errorf("%w (got %d)", ErrBadIterations, p.Iterations)
	}
	return nil
}
