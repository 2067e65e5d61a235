package pricing

import (
	"fmt"
	"strings"
)

// OptionKind identifies the side of an option contract.
type OptionKind string

const (
	Call OptionKind = "call"
	Put  OptionKind = "put"
)

// ParseOptionKind normalizes raw option type strings as they appear in API
// requests and chain data ("C", "Call", "puts", ...) into an OptionKind.
func ParseOptionKind(raw string) (OptionKind, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "c", "call", "calls":
		return Call, nil
	case "p", "put", "puts":
		return Put, nil
	default:
		return "", fmt.Errorf("unrecognized option type: %q", raw)
	}
}
