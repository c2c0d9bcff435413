package llm

import "fmt"

// SummaryLength is an ordinal driving the prompt word budget.
type SummaryLength string

const (
	LengthShort  SummaryLength = "SHORT"
	LengthMedium SummaryLength = "MEDIUM"
	LengthLong   SummaryLength = "LONG"
)

// ParseLength validates a length value from settings or a request; empty
// input falls back to MEDIUM.
func ParseLength(name string) (SummaryLength, error) {
	switch SummaryLength(name) {
	case LengthShort, LengthMedium, LengthLong:
		return SummaryLength(name), nil
	case "":
		return LengthMedium, nil
	default:
		return "", fmt.Errorf("unknown summary length %q", name)
	}
}
