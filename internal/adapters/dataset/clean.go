package dataset

import (
	"strconv"
	"strings"

	"github.com/tbeaumont/wagescout/internal/domain/model"
)

// cleanWageCell coerces a raw wage cell to a number. Currency symbols,
// thousands separators and stray whitespace are stripped first; anything
// left that still fails to parse becomes the missing marker. "missing" is
// true whenever the marker is returned, so callers can count bad cells.
func cleanWageCell(raw string) (value float64, missing bool) {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return model.MissingWage(), true
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return model.MissingWage(), true
	}
	return v, false
}
