package optimize

import (
	"strings"
	"testing"
)

// mustApply optimizes the markup and fails the test on error.
func mustApply(t *testing.T, markup string, p Profile) string {
	t.Helper()
	out, err := Apply(markup, p)
	if err != nil {
		t.Fatalf("Apply(%s) failed: %v", p.Name, err)
	}
	return out
}

func TestSelect_Heuristic(t *testing.T) {
	cases := []struct {
		markup string
		want   string
	}{
		{`<svg xmlns="http://www.w3.org/2000/svg"><g clip-path="url(#c)"/></svg>`, "compatible"},
		{`<svg xmlns="http://www.w3.org/2000/svg"><clipPath id="c"/></svg>`, "compatible"},
		{`<svg xmlns="http://www.w3.org/2000/svg"><style>a{}</style></svg>`, "compatible"},
		{`<svg xmlns="http://www.w3.org/2000/svg"><rect width="1" height="1"/></svg>`, "conservative"},
		{``, "compatible"},
		{`garbage`, "compatible"},
	}
	for _, c := range cases {
		if got := Select(c.markup); got.Name != c.want {
			t.Errorf("Select(%q) = %s, want %s", c.markup, got.Name, c.want)
		}
	}
}

func TestByName(t *testing.T) {
	if ByName("conservative").Name != "conservative" {
		t.Error("conservative not selected")
	}
	if ByName("aggressive").Name != "aggressive" {
		t.Error("aggressive not selected")
	}
	if ByName("whatever").Name != "compatible" {
		t.Error("unknown name should default to compatible")
	}
}

func TestApply_ConservativeStripsMetadata(t *testing.T) {
	in := `<?xml version="1.0"?><!-- editor comment --><svg xmlns="http://www.w3.org/2000/svg" xmlns:inkscape="http://www.inkscape.org/namespaces/inkscape" inkscape:version="1.0" viewBox="0 0 10 10"><metadata>junk</metadata><rect width="4" height="4"/></svg>`
	out := mustApply(t, in, Conservative)
	for _, gone := range []string{"editor comment", "<metadata", "inkscape"} {
		if strings.Contains(out, gone) {
			t.Errorf("%q should have been stripped: %s", gone, out)
		}
	}
	if !strings.Contains(out, "<rect") {
		t.Errorf("content was lost: %s", out)
	}
}

func TestApply_CompatibleCanonicalizesColors(t *testing.T) {
	in := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10 10">` +
		`<rect fill="red" width="1" height="1"/>` +
		`<rect fill="#aabbcc" width="1" height="1"/>` +
		`<rect color="#112233" fill="currentColor" width="1" height="1"/>` +
		`<rect fill="currentColor" width="1" height="1"/>` +
		`</svg>`
	out := mustApply(t, in, Compatible)
	if strings.Contains(out, "currentColor") || strings.Contains(out, "currentcolor") {
		t.Errorf("currentColor survived: %s", out)
	}
	if !strings.Contains(out, "#abc") {
		t.Errorf("hex shorthand not applied: %s", out)
	}
	if !strings.Contains(out, "#112233") {
		t.Errorf("currentColor not resolved to the color attribute: %s", out)
	}
}

func TestApply_CompatibleMergesTransforms(t *testing.T) {
	in := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10 10">` +
		`<g transform="translate(1 2) translate(3 4)"><rect width="1" height="1"/></g>` +
		`<g transform="translate(1 2) scale(2)"><rect width="1" height="1"/></g>` +
		`</svg>`
	out := mustApply(t, in, Compatible)
	if !strings.Contains(out, "translate(4 6)") {
		t.Errorf("consecutive translations not merged: %s", out)
	}
	if strings.Contains(out, "matrix(") {
		t.Errorf("transforms must never be fused into a matrix: %s", out)
	}
	if !strings.Contains(out, "scale(2)") {
		t.Errorf("mixed transform chain should stay separate: %s", out)
	}
}

func TestApply_CompatibleSimplifiesPaths(t *testing.T) {
	in := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10 10"><path d="M0 0L1 2L3 4L5 6"/></svg>`
	out := mustApply(t, in, Compatible)
	if strings.Count(out, "L") > 1 {
		t.Errorf("repeated path commands not collapsed: %s", out)
	}
}

func TestApply_AggressiveDropsRedundantDimensions(t *testing.T) {
	in := `<svg xmlns="http://www.w3.org/2000/svg" width="640" height="480" viewBox="0 0 640 480"><rect width="1" height="1"/></svg>`
	out := mustApply(t, in, Aggressive)
	if !strings.Contains(out, "viewBox") {
		t.Errorf("viewBox must never be dropped: %s", out)
	}
	if strings.Contains(out, `width="640"`) || strings.Contains(out, `height="480"`) {
		t.Errorf("redundant dimensions survived: %s", out)
	}
}

func TestApply_KeepsNonRedundantDimensions(t *testing.T) {
	in := `<svg xmlns="http://www.w3.org/2000/svg" width="320" height="240" viewBox="0 0 640 480"><rect width="1" height="1"/></svg>`
	out := mustApply(t, in, Aggressive)
	if !strings.Contains(out, `width="320"`) {
		t.Errorf("non-redundant dimensions must be kept: %s", out)
	}
}

func TestApply_PrecisionPerProfile(t *testing.T) {
	in := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10 10"><circle cx="1.23456" cy="1" r="1"/></svg>`
	if out := mustApply(t, in, Conservative); !strings.Contains(out, "1.235") {
		t.Errorf("conservative should keep 3 decimals: %s", out)
	}
	if out := mustApply(t, in, Compatible); !strings.Contains(out, "1.23") || strings.Contains(out, "1.235") {
		t.Errorf("compatible should keep 2 decimals: %s", out)
	}
	if out := mustApply(t, in, Aggressive); !strings.Contains(out, "1.2") || strings.Contains(out, "1.23") {
		t.Errorf("aggressive should keep 1 decimal: %s", out)
	}
}

func TestApply_ErrorsOnGarbage(t *testing.T) {
	for _, in := range []string{"<svg><broken", "plain text"} {
		if out, err := Apply(in, Compatible); err == nil {
			t.Errorf("Apply(%q) = %q, want an error so the caller keeps its input", in, out)
		}
	}
}

func TestFoldHex(t *testing.T) {
	cases := map[string]string{
		"#AABBCC": "#abc",
		"#aabbcc": "#abc",
		"#aabbcd": "#aabbcd",
		"#abc":    "#abc",
	}
	for in, want := range cases {
		if got := foldHex(strings.ToLower(in)); got != want {
			t.Errorf("foldHex(%q) = %q, want %q", in, got, want)
		}
	}
}
