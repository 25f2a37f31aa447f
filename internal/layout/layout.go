// Package layout computes placement geometry for converted graphics inside a
// fixed-size slide canvas. All dimensions are in inches.
package layout

// DefaultWidth is the intrinsic width assumed when a document declares no size.
const DefaultWidth = 576.0

// DefaultHeight is the intrinsic height assumed when a document declares no size.
const DefaultHeight = 432.0

// minEdge is the minimum offset from the canvas edge, kept even when the
// placement is clamped against it.
const minEdge = 0.2

// Canvas describes the slide page the graphic is placed onto.
type Canvas struct {
	Width  float64 // page width in inches
	Height float64 // page height in inches
	Margin float64 // uniform margin in inches
}

// The two supported canvas profiles.
var (
	// Widescreen is the default 16:9 profile.
	Widescreen = Canvas{Width: 10, Height: 5.625, Margin: 0.5}
	// Standard is the 4:3 profile.
	Standard = Canvas{Width: 10, Height: 7.5, Margin: 0.5}
)

// ByName returns the canvas profile for the given name.
// Unknown names return the widescreen profile.
func ByName(name string) Canvas {
	switch name {
	case "standard", "screen4x3":
		return Standard
	default:
		return Widescreen
	}
}

// ContentWidth returns the width of the area inside the margins.
func (c Canvas) ContentWidth() float64 {
	return c.Width - 2*c.Margin
}

// ContentHeight returns the height of the area inside the margins.
func (c Canvas) ContentHeight() float64 {
	return c.Height - 2*c.Margin
}

// Rect is a placement rectangle on the canvas, in inches.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Fit computes the placement of a graphic with intrinsic size w×h inside the
// canvas content area. The aspect ratio is preserved; the bound axis is flush
// to the margin and the other axis is centered. Non-positive intrinsic sizes
// fall back to the 576×432 default.
//
// Fit is a pure function: no I/O, no state, deterministic given its inputs.
func Fit(w, h float64, c Canvas) Rect {
	if w <= 0 || h <= 0 {
		w, h = DefaultWidth, DefaultHeight
	}

	aspect := w / h
	canvasRatio := c.ContentWidth() / c.ContentHeight()

	var r Rect
	if aspect > canvasRatio {
		// Wider than the content area: width-bound, centered vertically.
		r.W = c.ContentWidth()
		r.H = r.W / aspect
		r.X = c.Margin
		r.Y = (c.Height - r.H) / 2
	} else {
		// Height-bound, centered horizontally.
		r.H = c.ContentHeight()
		r.W = r.H * aspect
		r.Y = c.Margin
		r.X = (c.Width - r.W) / 2
	}

	// Clamp so the graphic never touches the canvas edge and never exceeds
	// the page minus the minimum edge offsets.
	if r.X < minEdge {
		r.X = minEdge
	}
	if r.Y < minEdge {
		r.Y = minEdge
	}
	if max := c.Width - 2*minEdge; r.W > max {
		r.W = max
	}
	if max := c.Height - 2*minEdge; r.H > max {
		r.H = max
	}
	return r
}
