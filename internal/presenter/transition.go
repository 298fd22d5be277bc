package presenter

// Position of a slide relative to the active one after a transition.
type Position int

const (
	Active Position = iota
	Left
	Right
)

func (p Position) String() string {
	switch p {
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "active"
	}
}

// SlideOffset is the horizontal distance, in presentation units, of a slide parked off-screen.
const SlideOffset = 100

// Placement is where one slide rests once a transition completes.
type Placement struct {
	Slide    int
	Position Position
	Offset   int     // -SlideOffset, 0 or +SlideOffset
	Opacity  float64 // 1 for the active slide, 0 otherwise
}

// Transition describes one accepted navigation.
type Transition struct {
	ID         uint64
	From       int
	To         int
	Direction  Direction
	Cause      Cause
	Placements []Placement
}

// Placement returns the placement of slide n, or false if n is outside the deck.
func (t Transition) Placement(n int) (Placement, bool) {
	if n < 1 || n > len(t.Placements) {
		return Placement{}, false
	}
	return t.Placements[n-1], true
}

// EntryOffset is the signed offset the incoming slide starts from: forward travel brings it in from the right.
func (t Transition) EntryOffset() int {
	if t.Direction == Forward {
		return SlideOffset
	}
	return -SlideOffset
}

// place classifies every slide of a deck of size total against the active slide.
// Earlier slides park to the left, later ones to the right.
func place(active, total int) []Placement {
	placements := make([]Placement, total)
	for i := range placements {
		n := i + 1
		switch {
		case n == active:
			placements[i] = Placement{Slide: n, Position: Active, Opacity: 1}
		case n < active:
			placements[i] = Placement{Slide: n, Position: Left, Offset: -SlideOffset}
		default:
			placements[i] = Placement{Slide: n, Position: Right, Offset: SlideOffset}
		}
	}
	return placements
}
