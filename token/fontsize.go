package token

import (
	"strconv"

	"github.com/benbjohnson/csstransform/scanner"
)

const (
	baseFontSize = 16.0
	dpi          = 96.0
	pxPerPt      = dpi / 72.0
)

// fontSizeKeywords maps absolute-size keywords to rem lengths.
var fontSizeKeywords = map[string]string{
	"xx-small":  "0.5rem",
	"x-small":   "0.625rem",
	"small":     "0.8rem",
	"medium":    "1rem",
	"large":     "1.125rem",
	"x-large":   "1.5rem",
	"xx-large":  "2rem",
	"xxx-large": "2.55rem",
}

// fontSizeUnits holds the size of each absolute unit in points.
// Pixels are marked with zero and divide by the base font size directly.
var fontSizeUnits = map[string]float64{
	"mm": 2.8346456693,
	"cm": 28.346456693,
	"in": 72,
	"pc": 12,
	"q":  0.708661417325,
	"px": 0,
	"pt": 1.0,
}

// ConvertAbsoluteFontSize rewrites an absolute font size keyword or length
// as rem. It returns true if the token changed.
func (t *Token) ConvertAbsoluteFontSize() bool {
	switch t.Kind {
	case Ident:
		name, ok := t.ASCIILower()
		if !ok {
			return false
		}
		v, ok := fontSizeKeywords[name]
		if !ok {
			return false
		}
		t.SetText(v)
		t.UnitAt = len(t.Text) - len("rem")
		t.Kind = Dimension
		return true

	case Dimension:
		unit, ok := asciiLower(t.Unit())
		if !ok {
			return false
		}
		factor, ok := fontSizeUnits[unit]
		if !ok {
			return false
		}
		old := scanner.ParseNumber(t.Text, t.UnitAt).Float64()
		var v float64
		if factor == 0 {
			v = old / baseFontSize
		} else {
			v = old * factor * pxPerPt / baseFontSize
		}
		if v == old {
			return false
		}
		t.SetText(strconv.FormatFloat(v, 'g', -1, 64))
		t.MarkUnit()
		t.Text = append(t.Text, 'r', 'e', 'm')
		return true
	}
	return false
}
