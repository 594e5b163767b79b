// Package popup positions the ratings popup next to the grade that triggers it
// and tracks whether it is shown.
package popup

// Spacing is the gap between the trigger and the popup, and the minimum
// distance kept from the viewport edges.
const Spacing = 8.0

// Rect is an element's bounding box relative to the viewport.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width" minimum:"0"`
	Height float64 `json:"height" minimum:"0"`
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.Left + r.Width }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Top + r.Height }

// Size is the popup's unconstrained size.
type Size struct {
	Width  float64 `json:"width" minimum:"0"`
	Height float64 `json:"height" minimum:"0"`
}

// Viewport is the visible part of the document.
type Viewport struct {
	ScrollX float64 `json:"scrollX"`
	ScrollY float64 `json:"scrollY"`
	Width   float64 `json:"width" minimum:"0"`
	Height  float64 `json:"height" minimum:"0"`
}

// Point is an absolute document position.
type Point struct {
	Left float64 `json:"left"`
	Top  float64 `json:"top"`
}

// Place returns the absolute top-left corner for the popup.
//
// The popup goes below the trigger unless that overflows the bottom of the
// viewport, in which case it flips above. It aligns with the trigger's left
// edge, shifts left to stay inside the right edge, and never starts closer
// than Spacing to the left edge.
func Place(trigger Rect, size Size, vp Viewport) Point {
	top := trigger.Bottom() + Spacing
	if top+size.Height > vp.Height {
		top = trigger.Top - size.Height - Spacing
	}

	left := trigger.Left
	if left+size.Width > vp.Width {
		left = vp.Width - size.Width - Spacing
	}
	left = max(left, Spacing)

	return Point{Left: left + vp.ScrollX, Top: top + vp.ScrollY}
}
