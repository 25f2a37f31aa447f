package sanitize

import (
	"strings"
	"testing"
)

func TestFilter_RemovesScriptElement(t *testing.T) {
	in := `<svg xmlns="http://www.w3.org/2000/svg"><script>alert(1)</script><rect width="10" height="10"/></svg>`
	out, err := Filter(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(out, "<script") || strings.Contains(out, "alert(1)") {
		t.Errorf("script content survived: %s", out)
	}
	if !strings.Contains(out, "<rect") {
		t.Errorf("benign content was lost: %s", out)
	}
}

func TestFilter_RemovesEventHandlers(t *testing.T) {
	in := `<svg xmlns="http://www.w3.org/2000/svg" onload="evil()"><rect onclick="evil()" onmouseover="evil()" width="10" height="10"/></svg>`
	out, err := Filter(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, h := range []string{"onload", "onclick", "onmouseover", "evil"} {
		if strings.Contains(out, h) {
			t.Errorf("event handler %q survived: %s", h, out)
		}
	}
}

func TestFilter_RemovesForbiddenSubtrees(t *testing.T) {
	in := `<svg xmlns="http://www.w3.org/2000/svg"><foreignObject><body>html content</body></foreignObject><iframe src="x"></iframe><circle r="5"/></svg>`
	out, err := Filter(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, bad := range []string{"foreignObject", "iframe", "html content"} {
		if strings.Contains(out, bad) {
			t.Errorf("forbidden content %q survived: %s", bad, out)
		}
	}
	if !strings.Contains(out, "<circle") {
		t.Errorf("circle was lost: %s", out)
	}
}

func TestFilter_PreservesCaseSensitiveNames(t *testing.T) {
	in := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10 10"><defs><clipPath id="c"><rect width="5" height="5"/></clipPath><linearGradient id="g"/></defs><filter id="f"><feGaussianBlur stdDeviation="2"/></filter></svg>`
	out, err := Filter(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, name := range []string{`viewBox="0 0 10 10"`, "<clipPath", "<linearGradient", "<feGaussianBlur", `stdDeviation="2"`} {
		if !strings.Contains(out, name) {
			t.Errorf("case-sensitive name %q was mangled: %s", name, out)
		}
	}
}

func TestFilter_UnwrapsUnknownElements(t *testing.T) {
	in := `<svg xmlns="http://www.w3.org/2000/svg"><unknownwrapper><rect width="3" height="3"/></unknownwrapper></svg>`
	out, err := Filter(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(out, "unknownwrapper") {
		t.Errorf("unknown element survived: %s", out)
	}
	if !strings.Contains(out, "<rect") {
		t.Errorf("unwrapped child was lost: %s", out)
	}
}

func TestFilter_HrefSchemes(t *testing.T) {
	in := `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink">` +
		`<use href="#shape"/>` +
		`<use href="javascript:alert(1)"/>` +
		`<use xlink:href="http://evil.example/x.svg#y"/>` +
		`</svg>`
	out, err := Filter(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, `href="#shape"`) {
		t.Errorf("fragment reference was lost: %s", out)
	}
	if strings.Contains(out, "javascript") || strings.Contains(out, "evil.example") {
		t.Errorf("unsafe reference survived: %s", out)
	}
}

func TestFilter_StyleAttributeScreening(t *testing.T) {
	in := `<svg xmlns="http://www.w3.org/2000/svg">` +
		`<rect style="fill:url(#grad);stroke:red" width="1" height="1"/>` +
		`<rect style="background:url(http://evil.example/x)" width="1" height="1"/>` +
		`</svg>`
	out, err := Filter(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "url(#grad)") {
		t.Errorf("fragment url() in style was lost: %s", out)
	}
	if strings.Contains(out, "evil.example") {
		t.Errorf("external url() in style survived: %s", out)
	}
}

func TestFilter_MalformedInput(t *testing.T) {
	cases := []string{
		"",
		"not xml at all",
		"<svg><unclosed",
		"<html><body>nope</body></html>",
	}
	for _, in := range cases {
		if _, err := Filter(in); err == nil {
			t.Errorf("Filter(%q): expected error, got nil", in)
		}
	}
}

func TestFilter_Idempotent(t *testing.T) {
	in := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 20 20" onload="x()"><script>a</script><g class="layer"><rect width="10" height="10" fill="#ff0000"/></g></svg>`
	once, err := Filter(in)
	if err != nil {
		t.Fatalf("first pass: %v", err)
	}
	twice, err := Filter(once)
	if err != nil {
		t.Fatalf("second pass: %v", err)
	}
	if once != twice {
		t.Errorf("filtering is not idempotent:\nfirst:  %s\nsecond: %s", once, twice)
	}
}
