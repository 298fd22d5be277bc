package presenter

import (
	"fmt"
	"slices"
)

// MenuEntry is one row of the navigation menu.
type MenuEntry struct {
	Slide  int  `json:"slide"`
	Active bool `json:"active"`
}

// View is the UI-sync snapshot derived from the controller state.
type View struct {
	Current    int         `json:"current"`
	Total      int         `json:"total"`
	Progress   float64     `json:"progress"`
	Counter    string      `json:"counter"`
	CanRetreat bool        `json:"can_retreat"`
	CanAdvance bool        `json:"can_advance"`
	Menu       []MenuEntry `json:"menu"`
	Staged     []int       `json:"staged"`
	Phase      string      `json:"phase"`
}

// NewView derives the UI-sync state for slide current of total.
func NewView(current, total int, phase Phase) View {
	v := View{
		Current:    current,
		Total:      total,
		Progress:   float64(current) / float64(total),
		Counter:    fmt.Sprintf("%d / %d", current, total),
		CanRetreat: current != 1,
		CanAdvance: current != total,
		Menu:       make([]MenuEntry, total),
		Staged:     Stage(current, total),
		Phase:      phase.String(),
	}
	for i := range v.Menu {
		v.Menu[i] = MenuEntry{Slide: i + 1, Active: i+1 == current}
	}
	return v
}

// ActiveEntry returns the slide number of the active menu entry, or 0 when none is marked.
func (v View) ActiveEntry() int {
	for _, e := range v.Menu {
		if e.Active {
			return e.Slide
		}
	}
	return 0
}

// Stage lists the neighbors of current to keep present-but-hidden: the next two slides and the previous one.
func Stage(current, total int) []int {
	var staged []int
	for _, n := range []int{current + 1, current + 2, current - 1} {
		if n >= 1 && n <= total {
			staged = append(staged, n)
		}
	}
	return staged
}

// Expire returns the staged slides to hide once the prefetch hold elapses: all of them except current.
func Expire(staged []int, current int) []int {
	return slices.DeleteFunc(slices.Clone(staged), func(n int) bool { return n == current })
}
