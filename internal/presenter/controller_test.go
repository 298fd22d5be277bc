package presenter

import (
	"errors"
	"fmt"
	"testing"

	"github.com/desertthunder/deckx/internal/shared"
)

func newController(t *testing.T, total int) *Controller {
	t.Helper()
	c, err := New(total)
	if err != nil {
		t.Fatalf("New(%d) failed: %v", total, err)
	}
	return c
}

// settle releases the lock held by the transition in out, as a renderer would once its animation ends.
func settle(t *testing.T, c *Controller, out Outcome) {
	t.Helper()
	if !out.Accepted {
		return
	}
	if !c.Complete(out.Transition.ID) {
		t.Fatalf("Complete(%d) was not accepted", out.Transition.ID)
	}
}

func TestController(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		t.Run("starts idle on slide 1", func(t *testing.T) {
			c := newController(t, 20)
			if c.Current() != 1 {
				t.Errorf("expected slide 1, got %d", c.Current())
			}
			if c.Phase() != Idle {
				t.Errorf("expected idle, got %v", c.Phase())
			}
		})

		t.Run("rejects empty decks", func(t *testing.T) {
			if _, err := New(0); !errors.Is(err, shared.ErrEmptyDeck) {
				t.Errorf("expected ErrEmptyDeck, got %v", err)
			}
		})
	})

	t.Run("JumpTo sets current and direction for every slide", func(t *testing.T) {
		const total = 20
		for from := 1; from <= total; from++ {
			for n := 1; n <= total; n++ {
				c := newController(t, total)
				if from != 1 {
					settle(t, c, c.JumpTo(from))
				}

				out := c.JumpTo(n)
				if !out.Accepted {
					t.Fatalf("JumpTo(%d) from %d rejected: %v", n, from, out.Reason)
				}
				if c.Current() != n {
					t.Errorf("JumpTo(%d) from %d: current = %d", n, from, c.Current())
				}
				wantForward := n > from
				if (out.Transition.Direction == Forward) != wantForward {
					t.Errorf("JumpTo(%d) from %d: direction = %v", n, from, out.Transition.Direction)
				}
			}
		}
	})

	t.Run("JumpTo the current slide is a backward transition", func(t *testing.T) {
		c := newController(t, 5)
		out := c.JumpTo(1)
		if !out.Accepted {
			t.Fatalf("expected jump to same slide to be accepted, got %v", out.Reason)
		}
		if out.Transition.Direction != Backward {
			t.Errorf("expected backward, got %v", out.Transition.Direction)
		}
		if c.Phase() != Transitioning {
			t.Error("jump to same slide should still hold the lock")
		}
	})

	t.Run("JumpTo out of bounds is ignored", func(t *testing.T) {
		for _, n := range []int{0, -1, 21, 100} {
			c := newController(t, 20)
			out := c.JumpTo(n)
			if out.Accepted || out.Reason != OutOfBounds {
				t.Errorf("JumpTo(%d): expected OutOfBounds, got %+v", n, out.Reason)
			}
			if c.Current() != 1 || c.Phase() != Idle {
				t.Errorf("JumpTo(%d) changed state", n)
			}
		}
	})

	t.Run("Advance at the last slide is a no-op", func(t *testing.T) {
		c := newController(t, 20)
		settle(t, c, c.JumpTo(20))

		out := c.Advance()
		if out.Accepted || out.Reason != OutOfBounds {
			t.Errorf("expected OutOfBounds, got %v", out.Reason)
		}
		if c.Current() != 20 {
			t.Errorf("expected to stay on 20, got %d", c.Current())
		}
	})

	t.Run("Retreat at the first slide is a no-op", func(t *testing.T) {
		c := newController(t, 20)
		out := c.Retreat()
		if out.Accepted || out.Reason != OutOfBounds {
			t.Errorf("expected OutOfBounds, got %v", out.Reason)
		}
		if c.Current() != 1 || c.Phase() != Idle {
			t.Error("retreat at slide 1 changed state")
		}
	})

	t.Run("requests while transitioning leave state unchanged", func(t *testing.T) {
		c := newController(t, 20)
		first := c.JumpTo(10)
		if !first.Accepted {
			t.Fatal("expected first jump to be accepted")
		}

		for name, req := range map[string]func() Outcome{
			"advance": c.Advance,
			"retreat": c.Retreat,
			"jump":    func() Outcome { return c.JumpTo(3) },
		} {
			out := req()
			if out.Accepted || out.Reason != Busy {
				t.Errorf("%s: expected Busy, got %v", name, out.Reason)
			}
			if c.Current() != 10 {
				t.Errorf("%s: current changed to %d", name, c.Current())
			}
		}
	})

	t.Run("back-to-back advances net a single step", func(t *testing.T) {
		c := newController(t, 20)
		a := c.Advance()
		b := c.Advance()

		if !a.Accepted || b.Accepted {
			t.Fatalf("expected first accepted and second dropped, got %v / %v", a.Reason, b.Reason)
		}
		if c.Current() != 2 {
			t.Errorf("expected slide 2, got %d", c.Current())
		}
	})

	t.Run("three sequential advances with completion between", func(t *testing.T) {
		c := newController(t, 20)
		var out Outcome
		for range 3 {
			out = c.Advance()
			settle(t, c, out)
		}

		if c.Current() != 4 {
			t.Errorf("expected slide 4, got %d", c.Current())
		}
		if !out.View.CanRetreat || !out.View.CanAdvance {
			t.Errorf("expected both controls enabled, got %+v", out.View)
		}
	})

	t.Run("jump to last slide from first", func(t *testing.T) {
		c := newController(t, 20)
		out := c.JumpTo(20)

		if out.Transition.Direction != Forward {
			t.Errorf("expected forward, got %v", out.Transition.Direction)
		}
		if out.View.CanAdvance {
			t.Error("advance control should be disabled on the last slide")
		}
		if !out.View.CanRetreat {
			t.Error("retreat control should be enabled on the last slide")
		}
	})

	t.Run("Complete", func(t *testing.T) {
		t.Run("ignores stale ids", func(t *testing.T) {
			c := newController(t, 5)
			first := c.Advance()
			settle(t, c, first)
			second := c.Advance()

			if c.Complete(first.Transition.ID) {
				t.Error("stale completion should be ignored")
			}
			if c.Phase() != Transitioning {
				t.Error("stale completion released the lock")
			}
			settle(t, c, second)
			if c.Phase() != Idle {
				t.Error("matching completion should release the lock")
			}
		})

		t.Run("is false when idle", func(t *testing.T) {
			c := newController(t, 5)
			if c.Complete(0) || c.Complete(1) {
				t.Error("Complete on an idle controller should report false")
			}
		})
	})

	t.Run("listeners run synchronously with the new view", func(t *testing.T) {
		var got []string
		c, err := New(3, WithListener(ListenerFunc(func(tr Transition, v View) {
			got = append(got, fmt.Sprintf("%d->%d %s", tr.From, tr.To, v.Counter))
		})))
		if err != nil {
			t.Fatal(err)
		}

		out := c.Advance()
		if len(got) != 1 || got[0] != "1->2 2 / 3" {
			t.Fatalf("listener not called before Advance returned: %v", got)
		}
		c.Advance()
		if len(got) != 1 {
			t.Errorf("rejected request notified listeners: %v", got)
		}

		settle(t, c, out)
		c.Subscribe(ListenerFunc(func(Transition, View) { got = append(got, "late") }))
		c.Retreat()
		if len(got) != 3 || got[2] != "late" {
			t.Errorf("subscribed listener not called: %v", got)
		}
	})
}

func TestTransitionPlacements(t *testing.T) {
	tc := []struct {
		name string
		from int
		to   int
	}{
		{name: "forward", from: 1, to: 3},
		{name: "backward", from: 5, to: 2},
		{name: "same slide", from: 1, to: 1},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			c := newController(t, 5)
			if tt.from != 1 {
				settle(t, c, c.JumpTo(tt.from))
			}
			tr := c.JumpTo(tt.to).Transition

			if len(tr.Placements) != 5 {
				t.Fatalf("expected a placement per slide, got %d", len(tr.Placements))
			}
			for _, p := range tr.Placements {
				switch {
				case p.Slide == tt.to:
					if p.Position != Active || p.Offset != 0 || p.Opacity != 1 {
						t.Errorf("slide %d: expected active, got %+v", p.Slide, p)
					}
				case p.Slide < tt.to:
					if p.Position != Left || p.Offset != -SlideOffset || p.Opacity != 0 {
						t.Errorf("slide %d: expected left, got %+v", p.Slide, p)
					}
				default:
					if p.Position != Right || p.Offset != SlideOffset || p.Opacity != 0 {
						t.Errorf("slide %d: expected right, got %+v", p.Slide, p)
					}
				}
			}

			if _, ok := tr.Placement(0); ok {
				t.Error("Placement(0) should not exist")
			}
			if p, ok := tr.Placement(tt.to); !ok || p.Position != Active {
				t.Errorf("Placement(%d) = %+v, %v", tt.to, p, ok)
			}
		})
	}

	t.Run("EntryOffset follows direction", func(t *testing.T) {
		if got := (Transition{Direction: Forward}).EntryOffset(); got != SlideOffset {
			t.Errorf("forward entry offset = %d", got)
		}
		if got := (Transition{Direction: Backward}).EntryOffset(); got != -SlideOffset {
			t.Errorf("backward entry offset = %d", got)
		}
	})
}
