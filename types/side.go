package types

import "fmt"

type Side string

type MatchMethod string

const (
	SideTypeBuy  Side = "BUY"
	SideTypeSell Side = "SELL"

	MatchMethodFIFO MatchMethod = "FIFO"
	MatchMethodLIFO MatchMethod = "LIFO"
)

// ParseMatchMethod parses a case-insensitive method name into a MatchMethod.
func ParseMatchMethod(s string) (MatchMethod, error) {
	switch s {
	case "FIFO", "fifo":
		return MatchMethodFIFO, nil
	case "LIFO", "lifo":
		return MatchMethodLIFO, nil
	default:
		return "", fmt.Errorf("unknown match method %q", s)
	}
}
