package optimize

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/image/colornames"
)

// colorAttrs are the attributes whose values are color paints.
var colorAttrs = []string{
	"fill", "stroke", "color",
	"stop-color", "flood-color", "lighting-color",
}

// canonicalizeColors rewrites color values on an element into their most
// compatible, most compact form: named colors become hex, 6-digit hex folds
// to 3-digit shorthand, and currentColor is resolved to an explicit value
// because target renderers handle it inconsistently.
func canonicalizeColors(el *etree.Element) {
	for _, key := range colorAttrs {
		attr := el.SelectAttr(key)
		if attr == nil {
			continue
		}
		canon := canonicalColor(attr.Value, el)
		if canon != attr.Value {
			el.CreateAttr(key, canon)
		}
	}
}

func canonicalColor(value string, el *etree.Element) string {
	v := strings.TrimSpace(value)
	lo := strings.ToLower(v)

	switch lo {
	case "", "none", "transparent", "inherit":
		return value
	case "currentcolor":
		return resolveCurrentColor(el)
	}

	if strings.HasPrefix(lo, "url(") {
		return value
	}

	if strings.HasPrefix(lo, "#") {
		return foldHex(lo)
	}

	if c, ok := colornames.Map[lo]; ok {
		return foldHex(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
	}
	return value
}

// foldHex lowercases a hex color and folds #rrggbb into #rgb when each
// channel repeats its own digit.
func foldHex(hex string) string {
	hex = strings.ToLower(hex)
	if len(hex) != 7 {
		return hex
	}
	if hex[1] == hex[2] && hex[3] == hex[4] && hex[5] == hex[6] {
		return "#" + string([]byte{hex[1], hex[3], hex[5]})
	}
	return hex
}

// resolveCurrentColor walks up the tree looking for an explicit color
// attribute; absent one, the SVG initial value of the color property (black)
// applies.
func resolveCurrentColor(el *etree.Element) string {
	for cur := el; cur != nil; cur = cur.Parent() {
		if c := strings.TrimSpace(cur.SelectAttrValue("color", "")); c != "" && !strings.EqualFold(c, "currentColor") {
			return canonicalColor(c, cur.Parent())
		}
	}
	return "#000"
}
