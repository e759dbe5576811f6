package journal

import (
	"fmt"
	"strings"
	"time"
)

// FormatCycleOrg renders a CycleRecord as an Org-mode block. Structured
// facts go in the PROPERTIES drawer; prompt, reasoning and decisions
// become subheadings.
func FormatCycleOrg(c CycleRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "** Cycle: %s #%d (%s)\n", c.StrategyID, c.CycleID, shortID(c.EntryID))
	b.WriteString(":PROPERTIES:\n")
	fmt.Fprintf(&b, ":ENTRY_ID: %s\n", c.EntryID)
	fmt.Fprintf(&b, ":ID: %s\n", c.EntryID)
	fmt.Fprintf(&b, ":ASSET_CLASS: %s\n", c.AssetClass)
	fmt.Fprintf(&b, ":CYCLE_ID: %d\n", c.CycleID)
	fmt.Fprintf(&b, ":STRATEGY: %s\n", c.StrategyID)
	fmt.Fprintf(&b, ":STATUS: %s\n", c.Status)
	fmt.Fprintf(&b, ":TIME: %s\n", c.Time.UTC().Format(time.RFC3339))
	b.WriteString(":END:\n")
	b.WriteString("\n")
	fmt.Fprintf(&b, "*** Prompt\n%s\n\n", c.Prompt)
	fmt.Fprintf(&b, "*** Reasoning\n%s\n\n", orgLines(c.Reasoning))
	b.WriteString("*** Decisions\n")
	if len(c.Decisions) == 0 {
		b.WriteString("- none\n")
		return b.String()
	}
	b.WriteString("| Ticker | Action | Reason |\n")
	b.WriteString("|--------+--------+--------|\n")
	for _, d := range c.Decisions {
		fmt.Fprintf(&b, "| %s | %s | %s |\n", d.Ticker, d.Action, d.Reason)
	}
	return b.String()
}

// FormatCyclesOrg renders multiple cycles separated by blank lines.
func FormatCyclesOrg(cycles []CycleRecord) string {
	var b strings.Builder
	for i, c := range cycles {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(FormatCycleOrg(c))
	}
	return b.String()
}

// orgLines turns each reasoning line into a list item.
func orgLines(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, "- "+l)
		}
	}
	return strings.Join(out, "\n")
}

func shortID(full string) string {
	if len(full) <= 8 {
		return full
	}
	return full[:8]
}
