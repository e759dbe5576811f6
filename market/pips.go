package market

// PipsPerUnit is the number of pips in one unit of price for
// four-decimal quoted pairs.
const PipsPerUnit = 10_000.0

// PipValuePerLot is the currency value of one pip on one lot.
const PipValuePerLot = 10.0

// Pips converts a price move from entry to mark into pips, signed by side so
// that a favourable move is positive.
func Pips(side Side, entry, mark float64) float64 {
	return side.Sign() * (mark - entry) * PipsPerUnit
}

// PipValue converts pips on a number of lots into currency.
func PipValue(pips float64, lots int) float64 {
	return pips * float64(lots) * PipValuePerLot
}
