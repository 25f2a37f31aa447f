package deck

import (
	"bytes"
	"testing"

	gopresentation "github.com/VantageDataChat/GoPPT"

	"vectordeck/internal/emf"
	"vectordeck/internal/layout"
	"vectordeck/internal/pipeline"
)

func markupResult(name string) pipeline.Result {
	return pipeline.Result{
		Name:        name,
		Kind:        pipeline.KindMarkup,
		Markup:      `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10 10"><rect width="4" height="4"/></svg>`,
		Width:       10,
		Height:      10,
		AspectRatio: 1,
		Placement:   layout.Rect{X: 2.6875, Y: 0.5, W: 4.625, H: 4.625},
	}
}

func binaryResult(t *testing.T, name string) pipeline.Result {
	t.Helper()
	payload := []byte("raw metafile bytes")
	uri, err := emf.EncodeDataURI(payload)
	if err != nil {
		t.Fatal(err)
	}
	return pipeline.Result{
		Name:        name,
		Kind:        pipeline.KindBinary,
		DataURI:     uri,
		Width:       96,
		Height:      96,
		AspectRatio: 1,
		Placement:   layout.Rect{X: 2.6875, Y: 0.5, W: 4.625, H: 4.625},
	}
}

func TestBuild_OneSlidePerResult(t *testing.T) {
	results := []pipeline.Result{
		markupResult("a.svg"),
		binaryResult(t, "b.emf"),
	}
	p, err := Build(results, layout.Widescreen)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if p.GetSlideCount() != 2 {
		t.Fatalf("slide count = %d, want 2", p.GetSlideCount())
	}

	for i, slide := range p.GetAllSlides() {
		var found *gopresentation.DrawingShape
		for _, sh := range slide.GetShapes() {
			if ds, ok := sh.(*gopresentation.DrawingShape); ok {
				found = ds
			}
		}
		if found == nil {
			t.Fatalf("slide %d has no picture", i)
		}
		if found.GetName() != results[i].Name {
			t.Errorf("slide %d picture name = %q, want %q", i, found.GetName(), results[i].Name)
		}
		if found.GetOffsetX() != gopresentation.Inch(results[i].Placement.X) {
			t.Errorf("slide %d x offset = %d", i, found.GetOffsetX())
		}
		if found.GetWidth() != gopresentation.Inch(results[i].Placement.W) {
			t.Errorf("slide %d width = %d", i, found.GetWidth())
		}
	}
}

func TestBuild_MediaTypes(t *testing.T) {
	p, err := Build([]pipeline.Result{markupResult("a.svg"), binaryResult(t, "b.emf")}, layout.Widescreen)
	if err != nil {
		t.Fatal(err)
	}
	wantMimes := []string{"image/svg+xml", "image/emf"}
	for i, slide := range p.GetAllSlides() {
		for _, sh := range slide.GetShapes() {
			if ds, ok := sh.(*gopresentation.DrawingShape); ok {
				if ds.GetMimeType() != wantMimes[i] {
					t.Errorf("slide %d mime = %q, want %q", i, ds.GetMimeType(), wantMimes[i])
				}
				if len(ds.GetImageData()) == 0 {
					t.Errorf("slide %d has empty image data", i)
				}
			}
		}
	}
}

func TestBuild_RejectsEmptyResult(t *testing.T) {
	if _, err := Build([]pipeline.Result{{Name: "x.svg", Kind: pipeline.KindMarkup}}, layout.Widescreen); err == nil {
		t.Error("empty markup result should fail the build")
	}
	if _, err := Build([]pipeline.Result{{Name: "x.emf", Kind: pipeline.KindBinary, DataURI: "nonsense"}}, layout.Widescreen); err == nil {
		t.Error("unparseable data URI should fail the build")
	}
}

func TestWrite_ProducesArchive(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, []pipeline.Result{markupResult("a.svg")}, layout.Standard); err != nil {
		t.Fatalf("Write: %v", err)
	}
	// The serialized deck is a ZIP container.
	if buf.Len() < 4 || buf.Bytes()[0] != 'P' || buf.Bytes()[1] != 'K' {
		t.Errorf("output does not look like a pptx archive")
	}
}
