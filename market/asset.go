package market

import (
	"fmt"
	"strings"
)

// AssetClass selects one of the two simulated markets.
type AssetClass string

const (
	Spot   AssetClass = "SPOT"
	Option AssetClass = "OPTION"
)

// AssetClasses lists every class in display order.
var AssetClasses = []AssetClass{Spot, Option}

func (a AssetClass) Valid() bool {
	return a == Spot || a == Option
}

func (a AssetClass) String() string { return string(a) }

// ParseAssetClass accepts "spot"/"option" in any case.
func ParseAssetClass(s string) (AssetClass, error) {
	a := AssetClass(strings.ToUpper(strings.TrimSpace(s)))
	if !a.Valid() {
		return "", fmt.Errorf("unknown asset class %q (supported: spot, option)", s)
	}
	return a, nil
}

type Side string

const (
	Long  Side = "LONG"
	Short Side = "SHORT"
)

// Sign is +1 for longs and -1 for shorts.
func (s Side) Sign() float64 {
	if s == Short {
		return -1
	}
	return 1
}

// ProductType is the structure of an option position.
type ProductType string

const (
	Call     ProductType = "Call"
	Put      ProductType = "Put"
	Straddle ProductType = "Straddle"
	Strangle ProductType = "Strangle"
)

var Products = []ProductType{Call, Put, Straddle, Strangle}

// Action is a per-ticker decision emitted by a decision cycle.
type Action string

const (
	Buy  Action = "BUY"
	Sell Action = "SELL"
	Hold Action = "HOLD"
)
