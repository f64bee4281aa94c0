package dotmatrix

import (
	"bufio"
	"io"
	"math"
	"strconv"
)

const svgNamespace = "http://www.w3.org/2000/svg"

// EncodeSVG writes a standalone SVG document of exactly width x height:
// one background rect followed by one circle per dot, in slice order.
// Colours are written verbatim, so callers pass normalised hex strings.
func EncodeSVG(w io.Writer, dots []Dot, width, height int, dotColor, background string) error {
	bw := bufio.NewWriter(w)
	ws := strconv.Itoa(width)
	hs := strconv.Itoa(height)

	bw.WriteString(`<svg width="` + ws + `" height="` + hs +
		`" viewBox="0 0 ` + ws + ` ` + hs + `" xmlns="` + svgNamespace + `">`)
	bw.WriteString(`<rect width="100%" height="100%" fill="` + background + `"/>`)

	fill := `" fill="` + dotColor + `"/>`
	var buf []byte
	for _, d := range dots {
		buf = append(buf[:0], `<circle cx="`...)
		buf = appendNumber(buf, d.X)
		buf = append(buf, `" cy="`...)
		buf = appendNumber(buf, d.Y)
		buf = append(buf, `" r="`...)
		buf = appendFixed2(buf, d.Radius)
		buf = append(buf, fill...)
		bw.Write(buf)
	}

	bw.WriteString(`</svg>`)
	return bw.Flush()
}

// appendNumber formats v in its shortest round-trip form, so whole pixel
// coordinates print without a fraction.
func appendNumber(buf []byte, v float64) []byte {
	return strconv.AppendFloat(buf, v, 'f', -1, 64)
}

// appendFixed2 formats a non-negative v with exactly two decimals. Exact
// ties (only possible for multiples of 1/8) round up rather than to even.
func appendFixed2(buf []byte, v float64) []byte {
	if t := v * 8; t == math.Trunc(t) {
		v = math.Floor(v*100+0.5) / 100
	}
	return strconv.AppendFloat(buf, v, 'f', 2, 64)
}

// FormatRadius returns the radius text used in SVG output.
func FormatRadius(r float64) string {
	return string(appendFixed2(nil, r))
}
