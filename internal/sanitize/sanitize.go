// Package sanitize implements the allow-list security filter for untrusted
// SVG markup. It removes scriptable and active content (script elements,
// event-handler attributes, external references) while preserving the
// case-sensitive names the SVG dialect depends on (viewBox, clipPath,
// feGaussianBlur, …).
package sanitize

import (
	"errors"
	"strings"

	"github.com/beevik/etree"
)

// ErrMalformed is returned when the input cannot be parsed as XML with an
// <svg> root element.
var ErrMalformed = errors.New("markup is not parseable as an svg document")

// Filter applies the element and attribute allow-lists to the given markup
// and returns the filtered document. Filtering is best-effort and never
// panics on malformed input; if the input (or the filtered result) is not a
// parseable document with an <svg> root, ErrMalformed is returned instead of
// an empty document.
func Filter(markup string) (string, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(markup); err != nil {
		return "", ErrMalformed
	}

	root := doc.Root()
	if root == nil || !strings.EqualFold(root.Tag, "svg") {
		return "", ErrMalformed
	}

	filterElement(root)

	out, err := doc.WriteToString()
	if err != nil {
		return "", ErrMalformed
	}
	return out, nil
}

// filterElement walks the tree depth-first, removing forbidden subtrees,
// unwrapping unknown elements, and filtering attributes on kept elements.
func filterElement(el *etree.Element) {
	// Children first: iterate over a copy since the child list mutates.
	for _, child := range append([]*etree.Element(nil), el.ChildElements()...) {
		name := strings.ToLower(child.FullTag())
		if _, bad := forbiddenElements[name]; bad {
			el.RemoveChild(child)
			continue
		}
		if _, ok := allowedElements[strings.ToLower(child.Tag)]; !ok {
			filterElement(child)
			unwrap(child)
			continue
		}
		filterElement(child)
	}
	filterAttributes(el)
}

// unwrap removes an element but keeps its children in place, so benign
// unknown wrappers do not take their visible content with them.
func unwrap(el *etree.Element) {
	parent := el.Parent()
	if parent == nil {
		return
	}
	idx := el.Index()
	children := append([]etree.Token(nil), el.Child...)
	for _, c := range children {
		el.RemoveChild(c)
	}
	parent.RemoveChild(el)
	for i, c := range children {
		parent.InsertChildAt(idx+i, c)
	}
}

func filterAttributes(el *etree.Element) {
	for _, attr := range append([]etree.Attr(nil), el.Attr...) {
		key := attr.Key
		if attr.Space != "" {
			key = attr.Space + ":" + attr.Key
		}
		lo := strings.ToLower(key)

		switch {
		case strings.HasPrefix(lo, "on"):
			// Inline event handlers: onclick, onload, onerror, onmouseover, …
			el.RemoveAttr(key)
		case attr.Space == "xmlns":
			// Namespace declarations other than xlink are dropped; editor
			// namespaces carry no renderable content.
			if lo != "xmlns:xlink" {
				el.RemoveAttr(key)
			}
		case lo == "href" || lo == "xlink:href":
			if !safeReference(attr.Value) {
				el.RemoveAttr(key)
			}
		case lo == "style":
			if !safeStyle(attr.Value) {
				el.RemoveAttr(key)
			}
		default:
			if _, ok := allowedAttributes[lo]; !ok {
				el.RemoveAttr(key)
			}
		}
	}
}

// safeReference reports whether an href value is a same-document fragment or
// an inline raster image. Everything else (http, javascript, file, …) is an
// external or executable reference and is dropped.
func safeReference(v string) bool {
	v = strings.TrimSpace(v)
	return strings.HasPrefix(v, "#") || strings.HasPrefix(v, "data:image/")
}

// safeStyle rejects style values that smuggle script or external loads
// through CSS. url(#…) fragment references are fine.
func safeStyle(v string) bool {
	lo := strings.ToLower(v)
	if strings.Contains(lo, "javascript:") || strings.Contains(lo, "expression(") {
		return false
	}
	if strings.Contains(lo, "@import") {
		return false
	}
	// Reject url() unless it is a fragment reference.
	rest := lo
	for {
		i := strings.Index(rest, "url(")
		if i < 0 {
			return true
		}
		inner := strings.TrimSpace(rest[i+4:])
		inner = strings.TrimLeft(inner, `"'`)
		if !strings.HasPrefix(inner, "#") {
			return false
		}
		rest = rest[i+4:]
	}
}
