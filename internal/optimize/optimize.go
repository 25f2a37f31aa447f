package optimize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/tdewolff/minify/v2"
	svgminify "github.com/tdewolff/minify/v2/svg"
)

// editorPrefixes are namespace prefixes carrying editor-private data with no
// renderable content.
var editorPrefixes = map[string]struct{}{
	"inkscape": {},
	"sodipodi": {},
	"adobe":    {},
	"sketch":   {},
	"dc":       {},
	"cc":       {},
	"rdf":      {},
}

// Apply runs the profile against the markup. On any failure the attempt is
// worthless: callers must discard it and keep their input, so optimization
// never regresses correctness.
func Apply(markup string, p Profile) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = "", fmt.Errorf("optimization panic: %v", r)
		}
	}()

	tree := etree.NewDocument()
	if perr := tree.ReadFromString(markup); perr != nil {
		return "", fmt.Errorf("parse: %w", perr)
	}
	root := tree.Root()
	if root == nil || root.Tag != "svg" {
		return "", fmt.Errorf("parse: no svg root")
	}

	if p.StripMetadata {
		stripMetadata(tree, root)
	}
	walkElements(root, func(el *etree.Element) {
		if p.NormalizeWhitespace {
			normalizeAttrWhitespace(el)
		}
		if p.CanonicalColors {
			canonicalizeColors(el)
		}
		if p.SimplifyPaths {
			simplifyPath(el)
		}
		if p.MergeTransforms {
			mergeTransforms(el)
		}
	})
	roundGeometry(root, p.Precision)
	if p.DropDimensions {
		dropRedundantDimensions(root)
	}

	serialized, werr := tree.WriteToString()
	if werr != nil {
		return "", fmt.Errorf("serialize: %w", werr)
	}

	minified, merr := minifyMarkup(serialized)
	if merr != nil {
		return "", fmt.Errorf("minify: %w", merr)
	}

	// The optimized result must still be a parseable svg document; anything
	// else means the attempt regressed and must be discarded.
	check := etree.NewDocument()
	if cerr := check.ReadFromString(minified); cerr != nil || check.Root() == nil || check.Root().Tag != "svg" {
		return "", fmt.Errorf("optimized markup failed validation")
	}
	return minified, nil
}

// minifyMarkup runs the final markup-size reduction pass.
func minifyMarkup(markup string) (string, error) {
	m := minify.New()
	m.AddFunc("image/svg+xml", svgminify.Minify)
	return m.String("image/svg+xml", markup)
}

// stripMetadata removes doctype directives, processing instructions,
// comments, <metadata> subtrees, and editor-namespace attributes/elements.
func stripMetadata(doc *etree.Document, root *etree.Element) {
	for _, tok := range append([]etree.Token(nil), doc.Child...) {
		switch tok.(type) {
		case *etree.Directive, *etree.ProcInst, *etree.Comment:
			doc.RemoveChild(tok)
		}
	}
	removeComments(root)
	removeTagged(root, "metadata")

	walkElements(root, func(el *etree.Element) {
		for _, attr := range append([]etree.Attr(nil), el.Attr...) {
			if _, ok := editorPrefixes[attr.Space]; ok {
				el.RemoveAttr(attr.Space + ":" + attr.Key)
				continue
			}
			if attr.Space == "xmlns" {
				if _, ok := editorPrefixes[attr.Key]; ok {
					el.RemoveAttr("xmlns:" + attr.Key)
				}
			}
		}
	})
	for _, child := range append([]*etree.Element(nil), root.ChildElements()...) {
		if _, ok := editorPrefixes[child.Space]; ok {
			root.RemoveChild(child)
		}
	}
}

func removeComments(el *etree.Element) {
	for _, tok := range append([]etree.Token(nil), el.Child...) {
		switch t := tok.(type) {
		case *etree.Comment:
			el.RemoveChild(t)
		case *etree.Element:
			removeComments(t)
		}
	}
}

func removeTagged(root *etree.Element, tag string) {
	for _, child := range append([]*etree.Element(nil), root.ChildElements()...) {
		if child.Tag == tag {
			root.RemoveChild(child)
			continue
		}
		removeTagged(child, tag)
	}
}

var wsRunRe = regexp.MustCompile(`\s+`)

func normalizeAttrWhitespace(el *etree.Element) {
	for _, attr := range el.Attr {
		trimmed := strings.TrimSpace(wsRunRe.ReplaceAllString(attr.Value, " "))
		if trimmed != attr.Value {
			key := attr.Key
			if attr.Space != "" {
				key = attr.Space + ":" + attr.Key
			}
			el.CreateAttr(key, trimmed)
		}
	}
}

// simplifyPath collapses redundant repeated path commands: "L 1 2 L 3 4"
// carries the same meaning as "L 1 2 3 4". Moveto is excluded because a
// repeated M changes meaning (implicit lineto).
func simplifyPath(el *etree.Element) {
	attr := el.SelectAttr("d")
	if attr == nil {
		return
	}
	var b strings.Builder
	b.Grow(len(attr.Value))
	var prev, lastWritten byte
	for i := 0; i < len(attr.Value); i++ {
		c := attr.Value[i]
		if isPathCommand(c) {
			if c == prev && c != 'M' && c != 'm' {
				// Drop the duplicate command letter; keep one separating space.
				if lastWritten != 0 && lastWritten != ' ' {
					b.WriteByte(' ')
					lastWritten = ' '
				}
				continue
			}
			prev = c
		}
		b.WriteByte(c)
		lastWritten = c
	}
	simplified := b.String()
	if simplified != attr.Value {
		el.CreateAttr("d", simplified)
	}
}

func isPathCommand(c byte) bool {
	switch c {
	case 'M', 'm', 'L', 'l', 'H', 'h', 'V', 'v', 'C', 'c', 'S', 's', 'Q', 'q', 'T', 't', 'A', 'a', 'Z', 'z':
		return true
	}
	return false
}

var transformFnRe = regexp.MustCompile(`(translate|scale|rotate|skewX|skewY|matrix)\s*\(([^)]*)\)`)

// mergeTransforms merges consecutive transform functions of the same type
// where the merge is exact: translations add, scales multiply, center-less
// rotations add. Mixed types are left as separate functions.
func mergeTransforms(el *etree.Element) {
	attr := el.SelectAttr("transform")
	if attr == nil {
		return
	}
	matches := transformFnRe.FindAllStringSubmatch(attr.Value, -1)
	if len(matches) < 2 {
		return
	}

	type fn struct {
		name string
		args []float64
	}
	fns := make([]fn, 0, len(matches))
	for _, m := range matches {
		args, ok := parseNumberList(m[2])
		if !ok {
			return // unparseable transform: leave it alone
		}
		fns = append(fns, fn{name: m[1], args: args})
	}

	merged := fns[:1]
	for _, f := range fns[1:] {
		last := &merged[len(merged)-1]
		switch {
		case f.name == "translate" && last.name == "translate":
			lx, ly := pair(last.args)
			fx, fy := pair(f.args)
			last.args = []float64{lx + fx, ly + fy}
		case f.name == "scale" && last.name == "scale":
			lx, ly := scalePair(last.args)
			fx, fy := scalePair(f.args)
			last.args = []float64{lx * fx, ly * fy}
		case f.name == "rotate" && last.name == "rotate" && len(f.args) == 1 && len(last.args) == 1:
			last.args = []float64{last.args[0] + f.args[0]}
		default:
			merged = append(merged, f)
		}
	}
	if len(merged) == len(fns) {
		return
	}

	parts := make([]string, len(merged))
	for i, f := range merged {
		args := make([]string, len(f.args))
		for j, a := range f.args {
			args[j] = trimFloat(a)
		}
		parts[i] = f.name + "(" + strings.Join(args, " ") + ")"
	}
	el.CreateAttr("transform", strings.Join(parts, " "))
}

// trimFloat renders a float in its shortest exact form.
func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func pair(args []float64) (float64, float64) {
	if len(args) >= 2 {
		return args[0], args[1]
	}
	if len(args) == 1 {
		return args[0], 0
	}
	return 0, 0
}

func scalePair(args []float64) (float64, float64) {
	if len(args) >= 2 {
		return args[0], args[1]
	}
	if len(args) == 1 {
		return args[0], args[0]
	}
	return 1, 1
}

func parseNumberList(s string) ([]float64, bool) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t' || r == '\n'
	})
	out := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, false
		}
		out = append(out, v)
	}
	return out, true
}

// geometryAttrs mirrors the normalizer's geometry attribute set.
var geometryAttrs = map[string]struct{}{
	"x": {}, "y": {}, "x1": {}, "y1": {}, "x2": {}, "y2": {},
	"cx": {}, "cy": {}, "r": {}, "rx": {}, "ry": {},
	"width": {}, "height": {}, "points": {}, "d": {}, "viewBox": {},
}

var overlongDecimalRe = regexp.MustCompile(`-?\d+\.\d+`)

// roundGeometry bounds every decimal in the geometry attributes to the
// profile's precision.
func roundGeometry(root *etree.Element, digits int) {
	if digits <= 0 {
		return
	}
	walkElements(root, func(el *etree.Element) {
		for _, attr := range el.Attr {
			if attr.Space != "" {
				continue
			}
			if _, ok := geometryAttrs[attr.Key]; !ok {
				continue
			}
			rounded := overlongDecimalRe.ReplaceAllStringFunc(attr.Value, func(m string) string {
				dot := strings.IndexByte(m, '.')
				if len(m)-dot-1 <= digits {
					return m
				}
				v, err := strconv.ParseFloat(m, 64)
				if err != nil {
					return m
				}
				out := strconv.FormatFloat(v, 'f', digits, 64)
				out = strings.TrimRight(out, "0")
				return strings.TrimRight(out, ".")
			})
			if rounded != attr.Value {
				el.CreateAttr(attr.Key, rounded)
			}
		}
	})
}

// dropRedundantDimensions removes root width/height when they repeat the
// viewBox dimensions. The viewBox is never dropped: it is the invariant that
// carries the intrinsic size downstream.
func dropRedundantDimensions(root *etree.Element) {
	vb := strings.Fields(strings.ReplaceAll(root.SelectAttrValue("viewBox", ""), ",", " "))
	if len(vb) != 4 || vb[0] != "0" || vb[1] != "0" {
		return
	}
	w := root.SelectAttrValue("width", "")
	h := root.SelectAttrValue("height", "")
	if sameNumber(w, vb[2]) && sameNumber(h, vb[3]) {
		root.RemoveAttr("width")
		root.RemoveAttr("height")
	}
}

func sameNumber(a, b string) bool {
	av, aerr := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(a), "px"), 64)
	bv, berr := strconv.ParseFloat(strings.TrimSpace(b), 64)
	return aerr == nil && berr == nil && av == bv
}

func walkElements(el *etree.Element, fn func(*etree.Element)) {
	fn(el)
	for _, child := range el.ChildElements() {
		walkElements(child, fn)
	}
}
