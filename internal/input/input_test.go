package input

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestKeyMap(t *testing.T) {
	keys := NewKeyMap()

	tc := []struct {
		name string
		msg  tea.KeyMsg
		want Action
	}{
		{name: "left", msg: tea.KeyMsg{Type: tea.KeyLeft}, want: Retreat},
		{name: "up", msg: tea.KeyMsg{Type: tea.KeyUp}, want: Retreat},
		{name: "right", msg: tea.KeyMsg{Type: tea.KeyRight}, want: Advance},
		{name: "down", msg: tea.KeyMsg{Type: tea.KeyDown}, want: Advance},
		{name: "space", msg: tea.KeyMsg{Type: tea.KeySpace}, want: Advance},
		{name: "home", msg: tea.KeyMsg{Type: tea.KeyHome}, want: First},
		{name: "end", msg: tea.KeyMsg{Type: tea.KeyEnd}, want: Last},
		{name: "f", msg: runes("f"), want: ToggleFullscreen},
		{name: "f11", msg: tea.KeyMsg{Type: tea.KeyF11}, want: ToggleFullscreen},
		{name: "escape", msg: tea.KeyMsg{Type: tea.KeyEscape}, want: ExitFullscreen},
		{name: "tab", msg: tea.KeyMsg{Type: tea.KeyTab}, want: ToggleMenu},
		{name: "enter", msg: tea.KeyMsg{Type: tea.KeyEnter}, want: Activate},
		{name: "q", msg: runes("q"), want: Quit},
		{name: "ctrl+c", msg: tea.KeyMsg{Type: tea.KeyCtrlC}, want: Quit},
		{name: "unbound", msg: runes("z"), want: None},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := keys.Action(tt.msg); got != tt.want {
				t.Errorf("Action(%q) = %v, want %v", tt.msg.String(), got, tt.want)
			}
		})
	}

	t.Run("help lists navigation keys", func(t *testing.T) {
		if len(keys.ShortHelp()) == 0 || len(keys.FullHelp()) != 3 {
			t.Error("unexpected help layout")
		}
	})
}

func TestSwipeDetector(t *testing.T) {
	tc := []struct {
		name       string
		start, end Point
		want       Action
	}{
		{name: "leftward swipe advances", start: Point{X: 300, Y: 200}, end: Point{X: 100, Y: 200}, want: Advance},
		{name: "rightward swipe retreats", start: Point{X: 100, Y: 200}, end: Point{X: 300, Y: 210}, want: Retreat},
		{name: "at threshold is ignored", start: Point{X: 100}, end: Point{X: 50}, want: None},
		{name: "just past threshold", start: Point{X: 100}, end: Point{X: 49}, want: Advance},
		{name: "vertical dominant", start: Point{X: 300, Y: 0}, end: Point{X: 100, Y: 300}, want: None},
		{name: "diagonal tie", start: Point{X: 0, Y: 0}, end: Point{X: 100, Y: 100}, want: None},
		{name: "tap", start: Point{X: 10, Y: 10}, end: Point{X: 10, Y: 10}, want: None},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			d := &SwipeDetector{Threshold: 50}
			d.Begin(tt.start)
			if got := d.End(tt.end); got != tt.want {
				t.Errorf("swipe %v -> %v = %v, want %v", tt.start, tt.end, got, tt.want)
			}
		})
	}

	t.Run("End without Begin", func(t *testing.T) {
		d := &SwipeDetector{}
		if got := d.End(Point{X: 0}); got != None {
			t.Errorf("expected None, got %v", got)
		}
	})

	t.Run("gesture is consumed", func(t *testing.T) {
		d := &SwipeDetector{}
		d.Begin(Point{X: 300})
		if !d.Pressed() {
			t.Fatal("expected pressed")
		}
		d.End(Point{X: 100})
		if d.Pressed() || d.End(Point{X: 0}) != None {
			t.Error("second End should not reuse the old start")
		}
	})

	t.Run("FromCells scales terminal cells", func(t *testing.T) {
		d := &SwipeDetector{Threshold: 50, CellUnits: 8}
		start, end := d.FromCells(40, 10), d.FromCells(30, 10)
		if start.X != 320 || end.X != 240 {
			t.Fatalf("unexpected scaling: %v %v", start, end)
		}
		if got := d.Classify(start, end); got != Advance {
			t.Errorf("10-cell drag should advance, got %v", got)
		}
		if got := d.Classify(d.FromCells(40, 10), d.FromCells(36, 10)); got != None {
			t.Errorf("4-cell drag should not swipe, got %v", got)
		}
	})
}

func TestWheelDebouncer(t *testing.T) {
	t.Run("only the last event in a burst fires", func(t *testing.T) {
		w := &WheelDebouncer{}
		g1 := w.Bump(1)
		g2 := w.Bump(-1)
		g3 := w.Bump(1)

		if w.Fire(g1) != None || w.Fire(g2) != None {
			t.Error("superseded generations should not fire")
		}
		if got := w.Fire(g3); got != Advance {
			t.Errorf("expected advance, got %v", got)
		}
		if got := w.Fire(g3); got != None {
			t.Errorf("a generation fires once, got %v", got)
		}
	})

	t.Run("direction follows delta sign", func(t *testing.T) {
		w := &WheelDebouncer{}
		if got := w.Fire(w.Bump(-3)); got != Retreat {
			t.Errorf("negative delta: got %v", got)
		}
		if got := w.Fire(w.Bump(0)); got != None {
			t.Errorf("zero delta: got %v", got)
		}
	})

	t.Run("Delay defaults", func(t *testing.T) {
		if got := (&WheelDebouncer{}).Delay(); got != 100*time.Millisecond {
			t.Errorf("default delay = %v", got)
		}
		if got := (&WheelDebouncer{Debounce: 30 * time.Millisecond}).Delay(); got != 30*time.Millisecond {
			t.Errorf("configured delay = %v", got)
		}
	})
}
