package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/wonny/factscore/internal/contracts"
)

// ═══════════════════════════════════════════════════════════
// Common Formatting Utilities
// Every command prints through these so output stays uniform
// ═══════════════════════════════════════════════════════════

const (
	heavyRule = "═══════════════════════════════════════════════════════════"
	lightRule = "───────────────────────────────────────────────────────────"
)

// PrintHeader prints a titled block with key/value lines
func PrintHeader(title string, fields [][2]string) {
	fmt.Println()
	fmt.Println(heavyRule)
	fmt.Printf("  %s\n", title)
	fmt.Println(lightRule)
	for _, f := range fields {
		fmt.Printf("  %-12s: %s\n", f[0], f[1])
	}
	fmt.Println(lightRule)
}

// PrintChecks prints a scorecard's checks and its tally
func PrintChecks(checks []contracts.ScoringCheck, score, computable int) {
	for _, c := range checks {
		fmt.Printf("  %2d. %-34s %-5s %14s   %s\n", c.Number, c.Name, c.Result, formatNull(c.Value), c.Threshold)
	}
	fmt.Println(lightRule)
	fmt.Printf("  Score: %d / %d computable\n", score, computable)
	fmt.Println(heavyRule)
}

// PrintJSON writes v as indented JSON to stdout
func PrintJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatNull(d decimal.NullDecimal) string {
	if !d.Valid {
		return "-"
	}
	return d.Decimal.StringFixed(2)
}

func formatFields(pairs ...string) [][2]string {
	fields := make([][2]string, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		fields = append(fields, [2]string{pairs[i], strings.TrimSpace(pairs[i+1])})
	}
	return fields
}
