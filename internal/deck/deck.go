// Package deck assembles conversion results into a presentation, one slide
// per input document.
package deck

import (
	"fmt"
	"io"

	gopresentation "github.com/VantageDataChat/GoPPT"

	"vectordeck/internal/emf"
	"vectordeck/internal/layout"
	"vectordeck/internal/pipeline"
)

// svgMimeType is the media type for inline markup results.
const svgMimeType = "image/svg+xml"

// Build creates a presentation sized to the canvas with one slide per
// result, each carrying a single picture positioned by its placement rect.
func Build(results []pipeline.Result, canvas layout.Canvas) (*gopresentation.Presentation, error) {
	p := gopresentation.New()
	p.GetLayout().SetCustomLayout(gopresentation.Inch(canvas.Width), gopresentation.Inch(canvas.Height))

	for i, res := range results {
		data, mime, err := payload(res)
		if err != nil {
			return nil, fmt.Errorf("幻灯片 %d (%s): %w", i+1, res.Name, err)
		}

		slide := p.CreateSlide()
		img := slide.CreateDrawingShape()
		img.SetImageData(data, mime)
		img.SetName(res.Name)
		img.SetDescription(res.Name)
		img.SetPosition(gopresentation.Inch(res.Placement.X), gopresentation.Inch(res.Placement.Y))
		img.SetSize(gopresentation.Inch(res.Placement.W), gopresentation.Inch(res.Placement.H))
	}
	return p, nil
}

// Write builds the presentation and serializes it to w.
func Write(w io.Writer, results []pipeline.Result, canvas layout.Canvas) error {
	p, err := Build(results, canvas)
	if err != nil {
		return err
	}
	return p.WriteTo(w)
}

// payload resolves a result to the raw bytes and media type the slide
// writer embeds.
func payload(res pipeline.Result) ([]byte, string, error) {
	switch res.Kind {
	case pipeline.KindBinary:
		data, mime, err := emf.DecodeDataURI(res.DataURI)
		if err != nil {
			return nil, "", err
		}
		return data, mime, nil
	default:
		if res.Markup == "" {
			return nil, "", fmt.Errorf("结果缺少文档内容")
		}
		return []byte(res.Markup), svgMimeType, nil
	}
}
