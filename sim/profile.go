package sim

import (
	"fmt"

	"github.com/rustyeddy/fxdesk/market"
)

// Profile holds every constant the tick engine needs for one asset class.
// Spot and option markets run the same step function with different profiles.
type Profile struct {
	Class market.AssetClass

	// Position revaluation
	PriceVolatility float64 // mark move per unit draw
	PositionPnlWalk float64 // option currency P&L walk per unit draw
	DeltaWalk       float64
	GammaWalk       float64
	VegaWalk        float64
	DeltaLimit      float64 // |delta| never exceeds this

	// Strategy metrics
	PnlScale float64 // currency P&L move per unit draw
	PnlBias  float64 // subtracted from the draw; < 0.5 leans positive
	PipScale float64 // spot only
	PipBias  float64

	// Greek exposure curves, option only
	DeltaCurveScale float64
	GammaCurveScale float64
	VegaCurveScale  float64

	// Churn
	OpenProbability   float64
	AppendProbability float64 // chance a curve grows instead of moving its last point
	MaxPositions      int
	MaxLogs           int
	MaxCurvePoints    int

	// New positions
	PriceFloor  float64
	PriceRange  float64
	MaxQuantity int
	Leverage    int
}

// SpotProfile returns the spot FX constants.
func SpotProfile() Profile {
	return Profile{
		Class:             market.Spot,
		PriceVolatility:   0.0002,
		PnlScale:          5,
		PnlBias:           0.45,
		PipScale:          2,
		PipBias:           0.45,
		OpenProbability:   0.15,
		AppendProbability: 0.3,
		MaxPositions:      8,
		MaxLogs:           20,
		MaxCurvePoints:    60,
		PriceFloor:        1.0500,
		PriceRange:        0.0100,
		MaxQuantity:       5,
		Leverage:          30,
	}
}

// OptionProfile returns the FX option constants.
func OptionProfile() Profile {
	return Profile{
		Class:             market.Option,
		PriceVolatility:   0.0005,
		PositionPnlWalk:   50,
		DeltaWalk:         2,
		GammaWalk:         1,
		VegaWalk:          5,
		DeltaLimit:        100,
		PnlScale:          50,
		PnlBias:           0.45,
		DeltaCurveScale:   5,
		GammaCurveScale:   1,
		VegaCurveScale:    3,
		OpenProbability:   0.15,
		AppendProbability: 0.3,
		MaxPositions:      8,
		MaxLogs:           20,
		MaxCurvePoints:    60,
		PriceFloor:        1.0500,
		PriceRange:        0.0100,
		MaxQuantity:       10,
		Leverage:          1,
	}
}

// ProfileFor returns the default profile for class.
func ProfileFor(class market.AssetClass) (Profile, error) {
	switch class {
	case market.Spot:
		return SpotProfile(), nil
	case market.Option:
		return OptionProfile(), nil
	}
	return Profile{}, fmt.Errorf("%w: %q", ErrUnknownAssetClass, class)
}

func (p Profile) Validate() error {
	if !p.Class.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownAssetClass, p.Class)
	}
	for name, v := range map[string]float64{
		"open probability":   p.OpenProbability,
		"append probability": p.AppendProbability,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("%s profile: %s must be between 0 and 1, got %v", p.Class, name, v)
		}
	}
	if p.MaxPositions <= 0 || p.MaxLogs <= 0 || p.MaxCurvePoints <= 0 {
		return fmt.Errorf("%s profile: position, log and curve caps must be positive", p.Class)
	}
	if p.MaxQuantity <= 0 {
		return fmt.Errorf("%s profile: max quantity must be positive", p.Class)
	}
	if p.PriceFloor <= 0 || p.PriceRange < 0 {
		return fmt.Errorf("%s profile: invalid entry price band", p.Class)
	}
	if p.Class == market.Option && p.DeltaLimit <= 0 {
		return fmt.Errorf("%s profile: delta limit must be positive", p.Class)
	}
	return nil
}
