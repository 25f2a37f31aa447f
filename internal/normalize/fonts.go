package normalize

import (
	"strings"

	"github.com/beevik/etree"
)

// fontSubstitutions maps common non-web font families (lowercased) to widely
// available equivalents. Families not in the table are left untouched — there
// is no fidelity promise outside it.
var fontSubstitutions = map[string]string{
	"nimbus sans":        "Helvetica",
	"nimbus sans l":      "Helvetica",
	"nimbus roman":       "Times New Roman",
	"nimbus roman no9 l": "Times New Roman",
	"nimbus mono":        "Courier New",
	"nimbus mono ps":     "Courier New",
	"nimbus mono l":      "Courier New",

	"liberation sans":  "Arial",
	"liberation serif": "Times New Roman",
	"liberation mono":  "Courier New",

	"dejavu sans":      "Arial",
	"dejavu serif":     "Times New Roman",
	"dejavu sans mono": "Courier New",

	"bitstream vera sans":  "Arial",
	"bitstream vera serif": "Times New Roman",
	"urw gothic":           "Century Gothic",
	"urw bookman":          "Bookman Old Style",
}

// substituteFonts rewrites font-family attribute values through the
// substitution table. Each comma-separated family is stripped of quotes and
// looked up individually; unmatched families pass through unchanged.
func substituteFonts(root *etree.Element) {
	walk(root, func(el *etree.Element) {
		attr := el.SelectAttr("font-family")
		if attr == nil {
			return
		}
		if rewritten, changed := substituteFamilyList(attr.Value); changed {
			el.CreateAttr("font-family", rewritten)
		}
	})
}

func substituteFamilyList(value string) (string, bool) {
	families := strings.Split(value, ",")
	changed := false
	for i, f := range families {
		name := strings.Trim(strings.TrimSpace(f), `'"`)
		if replacement, ok := fontSubstitutions[strings.ToLower(name)]; ok {
			families[i] = replacement
			changed = true
		} else {
			families[i] = name
		}
	}
	if !changed {
		return value, false
	}
	return strings.Join(families, ", "), true
}
