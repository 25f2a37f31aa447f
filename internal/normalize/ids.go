package normalize

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// complexIDLength is the length above which an identifier is always
// considered complex (verbose or obfuscated) and rewritten.
const complexIDLength = 10

// base64ishRe matches tokens drawn from a base64-like alphabet. Together with
// the letter+digit requirement below this catches generated identifiers like
// "a1B2c3D4" without touching short human names.
var base64ishRe = regexp.MustCompile(`^[A-Za-z0-9+/=_-]{8,}$`)

// referenceAttrs are the attributes that can carry #id references
// (url(#id) or bare fragments). Identifier rewriting is scoped to these to
// avoid false-positive replacements in unrelated text content.
var referenceAttrs = []string{
	"href", "xlink:href",
	"fill", "stroke",
	"clip-path", "mask", "filter",
	"marker-start", "marker-mid", "marker-end",
	"style",
}

// simplifyIdentifiers replaces complex element identifiers with short
// sequential names (id1, id2, …; counter local to the document) and rewrites
// every reference so that nothing dangles afterwards.
func simplifyIdentifiers(root *etree.Element) {
	// Collect existing ids first so generated names never collide.
	used := map[string]struct{}{}
	walk(root, func(el *etree.Element) {
		if id := el.SelectAttrValue("id", ""); id != "" {
			used[id] = struct{}{}
		}
	})

	table := map[string]string{}
	counter := 1
	next := func() string {
		for {
			candidate := "id" + strconv.Itoa(counter)
			counter++
			if _, taken := used[candidate]; !taken {
				used[candidate] = struct{}{}
				return candidate
			}
		}
	}

	walk(root, func(el *etree.Element) {
		id := el.SelectAttrValue("id", "")
		if id == "" || !complexIdentifier(id) {
			return
		}
		replacement := next()
		table[id] = replacement
		el.CreateAttr("id", replacement)
	})

	if len(table) == 0 {
		return
	}

	// Replace longest ids first so a shorter id that is a prefix of a longer
	// one cannot clobber it.
	olds := make([]string, 0, len(table))
	for old := range table {
		olds = append(olds, old)
	}
	sort.Slice(olds, func(i, j int) bool { return len(olds[i]) > len(olds[j]) })

	walk(root, func(el *etree.Element) {
		for _, key := range referenceAttrs {
			attr := el.SelectAttr(key)
			if attr == nil || !strings.Contains(attr.Value, "#") {
				continue
			}
			value := attr.Value
			for _, old := range olds {
				value = strings.ReplaceAll(value, "#"+old, "#"+table[old])
			}
			if value != attr.Value {
				el.CreateAttr(key, value)
			}
		}
	})
}

// complexIdentifier reports whether an id should be rewritten: longer than
// complexIDLength, or a base64-like token mixing letters and digits.
func complexIdentifier(id string) bool {
	if len(id) > complexIDLength {
		return true
	}
	if !base64ishRe.MatchString(id) {
		return false
	}
	hasLetter, hasDigit := false, false
	for _, r := range id {
		switch {
		case r >= '0' && r <= '9':
			hasDigit = true
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			hasLetter = true
		}
	}
	return hasLetter && hasDigit
}
