// market/instruments.go
package market

import "sort"

// InstrumentMeta describes one quoted pair. Every pair is priced on the
// four-decimal pip scale of Pips.
type InstrumentMeta struct {
	Name          string `json:"name"`
	BaseCurrency  string `json:"baseCurrency"`
	QuoteCurrency string `json:"quoteCurrency"`
}

// Pairs is the set of FX pairs the desk quotes. Order is stable so a seeded
// random source always picks the same pair for the same draw.
var Pairs = []string{"EURUSD", "USDJPY", "GBPUSD", "AUDUSD", "USDCAD", "USDCHF", "NZDUSD"}

var Instruments = map[string]InstrumentMeta{
	"EURUSD": {Name: "EURUSD", BaseCurrency: "EUR", QuoteCurrency: "USD"},
	"USDJPY": {Name: "USDJPY", BaseCurrency: "USD", QuoteCurrency: "JPY"},
	"GBPUSD": {Name: "GBPUSD", BaseCurrency: "GBP", QuoteCurrency: "USD"},
	"AUDUSD": {Name: "AUDUSD", BaseCurrency: "AUD", QuoteCurrency: "USD"},
	"USDCAD": {Name: "USDCAD", BaseCurrency: "USD", QuoteCurrency: "CAD"},
	"USDCHF": {Name: "USDCHF", BaseCurrency: "USD", QuoteCurrency: "CHF"},
	"NZDUSD": {Name: "NZDUSD", BaseCurrency: "NZD", QuoteCurrency: "USD"},
}

// Quoted returns the metadata of every pair in Pairs order.
func Quoted() []InstrumentMeta {
	out := make([]InstrumentMeta, 0, len(Pairs))
	for _, p := range Pairs {
		if m, ok := Lookup(p); ok {
			out = append(out, m)
		}
	}
	return out
}

// Lookup returns the metadata for a pair.
func Lookup(pair string) (InstrumentMeta, bool) {
	m, ok := Instruments[pair]
	return m, ok
}

// Currencies returns the distinct currencies across all quoted pairs, sorted.
func Currencies() []string {
	seen := map[string]struct{}{}
	for _, m := range Instruments {
		seen[m.BaseCurrency] = struct{}{}
		seen[m.QuoteCurrency] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
