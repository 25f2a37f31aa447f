package normalize

import (
	"strings"

	"github.com/beevik/etree"
)

// cssToAttribute maps the supported CSS properties to their equivalent SVG
// presentation attributes. Properties outside this table are ignored — this
// is a fixed compatibility subset, not a CSS engine.
var cssToAttribute = map[string]string{
	"fill":              "fill",
	"stroke":            "stroke",
	"stroke-width":      "stroke-width",
	"stroke-linecap":    "stroke-linecap",
	"stroke-linejoin":   "stroke-linejoin",
	"stroke-miterlimit": "stroke-miterlimit",
	"opacity":           "opacity",
	"fill-opacity":      "fill-opacity",
	"stroke-opacity":    "stroke-opacity",
	"font-family":       "font-family",
	"font-size":         "font-size",
	"font-weight":       "font-weight",
	"text-anchor":       "text-anchor",
}

// simpleSelector matches a single element by tag and/or class.
type simpleSelector struct {
	tag   string
	class string
}

// cssSelector is a chain of simple selectors joined by the descendant
// combinator: the last part must match the element, the preceding parts must
// match ancestors in order.
type cssSelector struct {
	parts []simpleSelector
}

// cssDeclaration is one property:value pair.
type cssDeclaration struct {
	property string
	value    string
}

// cssRule is a parsed rule: one or more selectors sharing a declaration block.
type cssRule struct {
	selectors    []cssSelector
	declarations []cssDeclaration
}

// inlineStylesheets parses every <style> block with the minimal selector
// grammar (tag, class, descendant combinator), applies matching declarations
// as presentation attributes wherever the element does not already set the
// attribute explicitly, and removes the <style> elements afterwards.
func inlineStylesheets(root *etree.Element) {
	var sheets []string
	collectStyleText(root, &sheets)
	if len(sheets) == 0 {
		return
	}

	var rules []cssRule
	for _, sheet := range sheets {
		rules = append(rules, parseStylesheet(sheet)...)
	}

	walk(root, func(el *etree.Element) {
		if el.Tag == "style" {
			return
		}
		// Later rules win among stylesheet rules; explicit attributes win
		// over all of them.
		pending := map[string]string{}
		for _, rule := range rules {
			matched := false
			for _, sel := range rule.selectors {
				if matchSelector(el, sel) {
					matched = true
					break
				}
			}
			if !matched {
				continue
			}
			for _, decl := range rule.declarations {
				attr, ok := cssToAttribute[decl.property]
				if !ok {
					continue
				}
				pending[attr] = decl.value
			}
		}
		for attr, value := range pending {
			if el.SelectAttr(attr) == nil {
				el.CreateAttr(attr, value)
			}
		}
	})

	removeElementsByTag(root, "style")
}

// collectStyleText gathers the character data of every <style> element.
func collectStyleText(el *etree.Element, out *[]string) {
	if el.Tag == "style" {
		if text := el.Text(); strings.TrimSpace(text) != "" {
			*out = append(*out, text)
		}
		return
	}
	for _, child := range el.ChildElements() {
		collectStyleText(child, out)
	}
}

// parseStylesheet parses rule blocks of the form "selectors { declarations }".
// Comments are stripped first; at-rules and anything the minimal grammar
// cannot express are skipped.
func parseStylesheet(text string) []cssRule {
	text = stripCSSComments(text)

	var rules []cssRule
	for {
		open := strings.IndexByte(text, '{')
		if open < 0 {
			break
		}
		closing := strings.IndexByte(text[open:], '}')
		if closing < 0 {
			break
		}
		selText := strings.TrimSpace(text[:open])
		body := text[open+1 : open+closing]
		text = text[open+closing+1:]

		if selText == "" || strings.HasPrefix(selText, "@") {
			continue
		}

		rule := cssRule{}
		for _, raw := range strings.Split(selText, ",") {
			sel, ok := parseSelector(strings.TrimSpace(raw))
			if !ok {
				continue
			}
			rule.selectors = append(rule.selectors, sel)
		}
		for _, raw := range strings.Split(body, ";") {
			prop, value, found := strings.Cut(raw, ":")
			if !found {
				continue
			}
			prop = strings.ToLower(strings.TrimSpace(prop))
			value = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(value), "!important"))
			if prop == "" || value == "" {
				continue
			}
			rule.declarations = append(rule.declarations, cssDeclaration{property: prop, value: value})
		}
		if len(rule.selectors) > 0 && len(rule.declarations) > 0 {
			rules = append(rules, rule)
		}
	}
	return rules
}

func stripCSSComments(s string) string {
	var b strings.Builder
	for {
		i := strings.Index(s, "/*")
		if i < 0 {
			b.WriteString(s)
			return b.String()
		}
		b.WriteString(s[:i])
		j := strings.Index(s[i+2:], "*/")
		if j < 0 {
			return b.String()
		}
		s = s[i+2+j+2:]
	}
}

// parseSelector parses a descendant chain of simple selectors. Returns
// ok=false for anything outside the supported grammar (pseudo-classes,
// attribute selectors, child/sibling combinators, ids).
func parseSelector(s string) (cssSelector, bool) {
	if s == "" || strings.ContainsAny(s, ">+~:[#*") {
		return cssSelector{}, false
	}
	var sel cssSelector
	for _, part := range strings.Fields(s) {
		simple, ok := parseSimpleSelector(part)
		if !ok {
			return cssSelector{}, false
		}
		sel.parts = append(sel.parts, simple)
	}
	if len(sel.parts) == 0 {
		return cssSelector{}, false
	}
	return sel, true
}

// parseSimpleSelector parses "tag", ".class", or "tag.class".
func parseSimpleSelector(s string) (simpleSelector, bool) {
	tag, class, _ := strings.Cut(s, ".")
	if strings.Contains(class, ".") {
		// Multiple classes are outside the minimal grammar.
		return simpleSelector{}, false
	}
	return simpleSelector{tag: tag, class: class}, tag != "" || class != ""
}

// matchSelector reports whether el matches the selector: the last part must
// match el itself, earlier parts must match ancestors in order.
func matchSelector(el *etree.Element, sel cssSelector) bool {
	last := len(sel.parts) - 1
	if !matchSimple(el, sel.parts[last]) {
		return false
	}
	ancestor := el.Parent()
	for i := last - 1; i >= 0; i-- {
		for {
			if ancestor == nil {
				return false
			}
			if matchSimple(ancestor, sel.parts[i]) {
				break
			}
			ancestor = ancestor.Parent()
		}
		ancestor = ancestor.Parent()
	}
	return true
}

func matchSimple(el *etree.Element, s simpleSelector) bool {
	if s.tag != "" && el.Tag != s.tag {
		return false
	}
	if s.class != "" && !hasClass(el, s.class) {
		return false
	}
	return true
}

func hasClass(el *etree.Element, class string) bool {
	for _, c := range strings.Fields(el.SelectAttrValue("class", "")) {
		if c == class {
			return true
		}
	}
	return false
}
