package input

// DefaultSwipeThreshold is the minimum horizontal travel, in units, that counts as a swipe.
const DefaultSwipeThreshold = 50

// Point is a pointer position in swipe units.
type Point struct {
	X, Y int
}

// SwipeDetector classifies a press/release pair as a horizontal swipe.
type SwipeDetector struct {
	Threshold int // minimum |dx|; defaults to DefaultSwipeThreshold when zero
	CellUnits int // units per terminal cell for [SwipeDetector.FromCells]; defaults to 1

	start   Point
	pressed bool
}

// Begin records the start of a gesture.
func (d *SwipeDetector) Begin(p Point) {
	d.start = p
	d.pressed = true
}

// End finishes the gesture started by Begin and classifies it.
// Without a matching Begin it returns [None].
func (d *SwipeDetector) End(p Point) Action {
	if !d.pressed {
		return None
	}
	d.pressed = false
	return d.Classify(d.start, p)
}

// Pressed reports whether a gesture is in progress.
func (d *SwipeDetector) Pressed() bool {
	return d.pressed
}

// Classify returns [Advance] for a leftward swipe, [Retreat] for a rightward one, and [None] when the gesture is
// mostly vertical or does not travel past the threshold.
func (d *SwipeDetector) Classify(start, end Point) Action {
	dx, dy := end.X-start.X, end.Y-start.Y
	if abs(dx) <= abs(dy) {
		return None
	}
	if abs(dx) <= d.threshold() {
		return None
	}
	if dx > 0 {
		return Retreat
	}
	return Advance
}

// FromCells converts a terminal cell position into swipe units.
func (d *SwipeDetector) FromCells(col, row int) Point {
	u := d.CellUnits
	if u <= 0 {
		u = 1
	}
	// Terminal cells are roughly twice as tall as they are wide.
	return Point{X: col * u, Y: row * u * 2}
}

func (d *SwipeDetector) threshold() int {
	if d.Threshold <= 0 {
		return DefaultSwipeThreshold
	}
	return d.Threshold
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
