// Package normalize rewrites sanitized SVG markup into the conservative,
// compatibility-safe dialect the slide renderer can display: clip paths
// dropped, stylesheets inlined, identifiers simplified, numeric precision
// bounded, fonts substituted, and the namespace/viewBox invariants enforced.
package normalize

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// Options controls which normalization steps run. All flags default to true.
type Options struct {
	RemoveClipPaths     bool `json:"remove_clip_paths"`
	InlineCSS           bool `json:"inline_css"`
	SimplifyIDs         bool `json:"simplify_ids"`
	OptimizeCoordinates bool `json:"optimize_coordinates"`
	ReplaceNonWebFonts  bool `json:"replace_non_web_fonts"`
}

// DefaultOptions returns the default option set with every step enabled.
func DefaultOptions() Options {
	return Options{
		RemoveClipPaths:     true,
		InlineCSS:           true,
		SimplifyIDs:         true,
		OptimizeCoordinates: true,
		ReplaceNonWebFonts:  true,
	}
}

// svgNamespace is the namespace every normalized root element must declare.
const svgNamespace = "http://www.w3.org/2000/svg"

// Default intrinsic dimensions assumed when a document declares no usable size.
const (
	defaultWidth  = 576.0
	defaultHeight = 432.0
)

// Document is a normalized markup document with its derived size metadata.
// Markup is always well-formed XML with a single <svg> root in the SVG
// namespace; a viewBox is present whenever the intrinsic size is known.
type Document struct {
	Markup      string
	Width       float64
	Height      float64
	AspectRatio float64
}

// Normalizer applies the structural normalization steps in a fixed order.
// Each step assumes the invariants established by the previous one, so the
// ordering is part of the contract.
type Normalizer struct {
	opts Options
}

// New creates a Normalizer with the given options.
func New(opts Options) *Normalizer {
	return &Normalizer{opts: opts}
}

// Normalize runs the normalization steps over the given markup. Any panic in
// the steps is recovered and the normalizer falls back to a minimally-fixed
// version of the original input (namespace and viewBox only) rather than
// failing the request.
func (n *Normalizer) Normalize(markup string) (doc Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			doc, err = minimalFix(markup)
		}
	}()

	tree := etree.NewDocument()
	if perr := tree.ReadFromString(markup); perr != nil {
		return Document{}, fmt.Errorf("解析失败: %w", perr)
	}
	root := tree.Root()
	if root == nil || root.Tag != "svg" {
		return Document{}, fmt.Errorf("解析失败: 缺少 svg 根元素")
	}

	stripPrologue(tree)
	if n.opts.RemoveClipPaths {
		removeClipPaths(root)
	}
	if n.opts.InlineCSS {
		inlineStylesheets(root)
	}
	if n.opts.SimplifyIDs {
		simplifyIdentifiers(root)
	}
	if n.opts.OptimizeCoordinates {
		reducePrecision(root, 2)
	}
	if n.opts.ReplaceNonWebFonts {
		substituteFonts(root)
	}
	normalizeRoot(root)

	w, h := intrinsicSize(root)

	out, werr := tree.WriteToString()
	if werr != nil {
		return minimalFix(markup)
	}
	return Document{Markup: out, Width: w, Height: h, AspectRatio: w / h}, nil
}

// minimalFix is the normalization fallback: it re-parses the original input
// and enforces only the namespace and viewBox invariants.
func minimalFix(markup string) (Document, error) {
	tree := etree.NewDocument()
	if err := tree.ReadFromString(markup); err != nil {
		return Document{}, fmt.Errorf("解析失败: %w", err)
	}
	root := tree.Root()
	if root == nil || root.Tag != "svg" {
		return Document{}, fmt.Errorf("解析失败: 缺少 svg 根元素")
	}
	stripPrologue(tree)
	normalizeRoot(root)
	w, h := intrinsicSize(root)
	out, err := tree.WriteToString()
	if err != nil {
		return Document{}, err
	}
	return Document{Markup: out, Width: w, Height: h, AspectRatio: w / h}, nil
}

// removeClipPaths drops every clip-path reference and every clipPath
// definition. The target renderer does not honor clip paths reliably, so
// keeping unsupported clip geometry is worse than dropping it.
func removeClipPaths(root *etree.Element) {
	walk(root, func(el *etree.Element) {
		if el.SelectAttr("clip-path") != nil {
			el.RemoveAttr("clip-path")
		}
	})
	removeElementsByTag(root, "clipPath")
}

// removeElementsByTag removes every descendant element with the given tag.
func removeElementsByTag(root *etree.Element, tag string) {
	for _, child := range append([]*etree.Element(nil), root.ChildElements()...) {
		if child.Tag == tag {
			root.RemoveChild(child)
			continue
		}
		removeElementsByTag(child, tag)
	}
}

// stripPrologue removes XML declarations, doctypes, comments, and stray
// character data before the root element so the serialized document begins
// with the <svg> tag itself.
func stripPrologue(tree *etree.Document) {
	for _, tok := range append([]etree.Token(nil), tree.Child...) {
		if _, isElement := tok.(*etree.Element); !isElement {
			tree.RemoveChild(tok)
		}
	}
}

// normalizeRoot enforces the root-element invariants: the SVG namespace is
// declared as the first attribute, a viewBox is synthesized from explicit
// width/height when absent, and 100%×100% dimensions are rewritten to the
// viewBox's absolute size.
func normalizeRoot(root *etree.Element) {
	if root.SelectAttrValue("xmlns", "") != svgNamespace {
		root.CreateAttr("xmlns", svgNamespace)
	}
	// The namespace declaration leads the attribute list so the serialized
	// root always reads <svg xmlns="…" …>.
	for i, attr := range root.Attr {
		if attr.Space == "" && attr.Key == "xmlns" {
			if i > 0 {
				copy(root.Attr[1:i+1], root.Attr[:i])
				root.Attr[0] = attr
			}
			break
		}
	}

	width := strings.TrimSpace(root.SelectAttrValue("width", ""))
	height := strings.TrimSpace(root.SelectAttrValue("height", ""))
	viewBox := strings.TrimSpace(root.SelectAttrValue("viewBox", ""))

	if viewBox == "" && width != "" && height != "" {
		w, wok := parseLength(width)
		h, hok := parseLength(height)
		if wok && hok && w > 0 && h > 0 {
			root.CreateAttr("viewBox", fmt.Sprintf("0 0 %s %s", formatNumber(w), formatNumber(h)))
		}
	}

	if width == "100%" && height == "100%" && viewBox != "" {
		if _, _, w, h, ok := parseViewBox(viewBox); ok {
			root.CreateAttr("width", formatNumber(w))
			root.CreateAttr("height", formatNumber(h))
		}
	}
}

// intrinsicSize derives the document's intrinsic width and height from its
// explicit dimensions, falling back to the viewBox and then to 576×432.
func intrinsicSize(root *etree.Element) (float64, float64) {
	w, wok := parseLength(root.SelectAttrValue("width", ""))
	h, hok := parseLength(root.SelectAttrValue("height", ""))
	if wok && hok && w > 0 && h > 0 {
		return w, h
	}
	if _, _, vw, vh, ok := parseViewBox(root.SelectAttrValue("viewBox", "")); ok && vw > 0 && vh > 0 {
		return vw, vh
	}
	return defaultWidth, defaultHeight
}

// parseViewBox parses "minX minY width height".
func parseViewBox(s string) (minX, minY, w, h float64, ok bool) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ' ' || r == ',' || r == '\t' || r == '\n' })
	if len(fields) != 4 {
		return 0, 0, 0, 0, false
	}
	vals := make([]float64, 4)
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return 0, 0, 0, 0, false
		}
		vals[i] = v
	}
	return vals[0], vals[1], vals[2], vals[3], true
}

// parseLength parses an SVG length into user units (px). Percentages and
// empty values are not absolute and report ok=false.
func parseLength(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasSuffix(s, "%") {
		return 0, false
	}
	unit := 1.0
	switch {
	case strings.HasSuffix(s, "px"):
		s = s[:len(s)-2]
	case strings.HasSuffix(s, "pt"):
		s, unit = s[:len(s)-2], 96.0/72.0
	case strings.HasSuffix(s, "pc"):
		s, unit = s[:len(s)-2], 16.0
	case strings.HasSuffix(s, "mm"):
		s, unit = s[:len(s)-2], 96.0/25.4
	case strings.HasSuffix(s, "cm"):
		s, unit = s[:len(s)-2], 96.0/2.54
	case strings.HasSuffix(s, "in"):
		s, unit = s[:len(s)-2], 96.0
	case strings.HasSuffix(s, "em"):
		s, unit = s[:len(s)-2], 16.0
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return v * unit, true
}

// formatNumber renders a float without trailing zeros.
func formatNumber(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}

// walk visits el and every descendant element in document order.
func walk(el *etree.Element, fn func(*etree.Element)) {
	fn(el)
	for _, child := range el.ChildElements() {
		walk(child, fn)
	}
}
