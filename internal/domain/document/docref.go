package document

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatRef renders a document reference as PREFIX-YEAR-SEQ,
// e.g. IN-2026-000042. The sequence counter is shared across all
// prefixes within a year.
func FormatRef(prefix string, year, seq int) string {
	return fmt.Sprintf("%s-%d-%06d", prefix, year, seq)
}

// ParseRefSequence extracts (year, seq) from a reference of the form
// PREFIX-YEAR-...-SEQ. References that do not follow the generated
// pattern report ok=false and never collide with generated ones.
func ParseRefSequence(ref string) (year, seq int, ok bool) {
	parts := strings.Split(strings.TrimSpace(ref), "-")
	if len(parts) < 3 {
		return 0, 0, false
	}
	year, err := strconv.Atoi(parts[1])
	if err != nil || year <= 0 {
		return 0, 0, false
	}
	seq, err = strconv.Atoi(parts[len(parts)-1])
	if err != nil || seq <= 0 {
		return 0, 0, false
	}
	return year, seq, true
}
