package order

// Bounds is the vertical extent of one rendered item.
type Bounds struct {
	Top    float64
	Height float64
}

// Midpoint returns the vertical center of b.
func (b Bounds) Midpoint() float64 {
	return b.Top + b.Height/2
}

// ResolveDropTarget returns the index a dragged item lands on: the first item
// whose midpoint lies below pointerY, or len(bounds) past the last one.
func ResolveDropTarget(pointerY float64, bounds []Bounds) int {
	for i, b := range bounds {
		if pointerY < b.Midpoint() {
			return i
		}
	}
	return len(bounds)
}
