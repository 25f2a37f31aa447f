package normalize

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// geometryAttrs are the geometry-bearing attributes whose numeric literals
// get their precision bounded. viewBox is included: its values feed the
// layout fitter and downstream optimizers.
var geometryAttrs = map[string]struct{}{
	"x": {}, "y": {},
	"x1": {}, "y1": {},
	"x2": {}, "y2": {},
	"cx": {}, "cy": {},
	"r": {}, "rx": {}, "ry": {},
	"width": {}, "height": {},
	"points": {}, "d": {}, "viewBox": {},
}

// overlongDecimalRe matches decimal literals with three or more fractional
// digits — the floating-point noise this step bounds.
var overlongDecimalRe = regexp.MustCompile(`-?\d+\.\d{3,}`)

// reducePrecision rounds every overlong decimal in the geometry attributes to
// the given number of fractional digits. Two digits keep the visual delta
// sub-pixel at typical canvas sizes while making the markup stable for the
// optimizer.
func reducePrecision(root *etree.Element, digits int) {
	walk(root, func(el *etree.Element) {
		for _, attr := range el.Attr {
			if attr.Space != "" {
				continue
			}
			if _, ok := geometryAttrs[attr.Key]; !ok {
				continue
			}
			rounded := roundDecimals(attr.Value, digits)
			if rounded != attr.Value {
				el.CreateAttr(attr.Key, rounded)
			}
		}
	})
}

// roundDecimals rewrites every overlong decimal literal in s to the given
// number of fractional digits, trimming trailing zeros.
func roundDecimals(s string, digits int) string {
	return overlongDecimalRe.ReplaceAllStringFunc(s, func(m string) string {
		v, err := strconv.ParseFloat(m, 64)
		if err != nil {
			return m
		}
		out := strconv.FormatFloat(v, 'f', digits, 64)
		out = strings.TrimRight(out, "0")
		return strings.TrimRight(out, ".")
	})
}
