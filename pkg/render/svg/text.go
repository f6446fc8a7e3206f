package svg

import (
	"bytes"
	"encoding/xml"
)

const (
	fontHeightRatio = 0.28
	fontWidthRatio  = 0.9
	fontCharWidth   = 0.55
	fontSizeMin     = 9.0
	fontSizeMax     = 18.0
)

func fontSizeFor(availWidth, availHeight float64, textLen int) float64 {
	n := max(1, textLen)
	byHeight := availHeight * fontHeightRatio
	byWidth := (availWidth * fontWidthRatio) / (float64(n) * fontCharWidth)
	return max(fontSizeMin, min(fontSizeMax, min(byHeight, byWidth)))
}

// truncate shortens label so it fits w at the given font size.
func truncate(label string, w, fontSize float64) string {
	maxChars := max(3, int(w*fontWidthRatio/(fontSize*fontCharWidth)))
	r := []rune(label)
	if len(r) <= maxChars {
		return label
	}
	return string(r[:maxChars-2]) + ".."
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
