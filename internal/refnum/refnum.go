package refnum

import (
	"fmt"
	"strconv"
	"strings"
)

// Width is the zero-padded width of a reference number.
const Width = 6

// Format returns a reference number like "000042".
func Format(n int) string {
	return fmt.Sprintf("%0*d", Width, n)
}

// Parse parses a reference number into its numeric value.
func Parse(ref string) (int, error) {
	trimmed := strings.TrimLeft(ref, "0")
	if trimmed == "" {
		if ref == "" {
			return 0, fmt.Errorf("empty reference number")
		}
		return 0, nil
	}
	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, fmt.Errorf("invalid reference number %q: %w", ref, err)
	}
	return n, nil
}

// Next returns the reference number following last. An empty last (empty
// journal) yields "000001".
func Next(last string) (string, error) {
	if last == "" {
		return Format(1), nil
	}
	n, err := Parse(last)
	if err != nil {
		return "", err
	}
	return Format(n + 1), nil
}
