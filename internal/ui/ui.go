package ui

import (
	"fmt"
	"io"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/x/ansi"
	"github.com/desertthunder/deckx/internal/deck"
	"github.com/desertthunder/deckx/internal/input"
	"github.com/desertthunder/deckx/internal/presenter"
	"github.com/desertthunder/deckx/internal/shared"
)

const (
	frameRate     = 30
	frameInterval = time.Second / frameRate
	toastDuration = 3 * time.Second
	margin        = 2
	defaultWidth  = 80
	defaultHeight = 24
)

// Options configures a [Model].
type Options struct {
	Timing      presenter.Timing
	Input       shared.InputConfig
	CTAMessage  string
	ConfirmExit bool
	TTY         bool // output supports the alternate screen
	Fullscreen  bool // enter fullscreen on start
	Logger      *log.Logger
}

// OptionsFromConfig derives model options from the presentation and input config sections.
func OptionsFromConfig(cfg *shared.Config, tty bool, logger *log.Logger) Options {
	p := cfg.Presentation
	return Options{
		Timing: presenter.Timing{
			Transition:    p.TransitionDuration(),
			RevealBase:    p.RevealBase(),
			RevealStagger: p.RevealStagger(),
			RevealFade:    p.RevealFade(),
			PrefetchHold:  p.PrefetchHold(),
		},
		Input:       cfg.Input,
		CTAMessage:  p.CTAMessage,
		ConfirmExit: p.ConfirmExit,
		TTY:         tty,
		Logger:      logger,
	}
}

type animation struct {
	id       uint64
	active   bool
	frame    int
	frames   int
	pos, vel float64 // horizontal offset in percent of the body width
}

type reveal struct {
	elapsed time.Duration
	done    bool
}

// Model represents the TUI application state.
type Model struct {
	deck     *deck.Deck
	ctrl     *presenter.Controller
	commands *presenter.Commands
	opts     Options
	logger   *log.Logger

	view   presenter.View
	epoch  uint64 // id of the transition that produced the current slide; 0 before the first
	anim   animation
	spring harmonica.Spring
	reveal reveal
	staged []int

	cache      map[int][]string
	cacheWidth int

	width  int
	height int

	screen *screen
	keys   input.KeyMap
	swipe  input.SwipeDetector
	pressX int
	pressY int
	wheel  input.WheelDebouncer

	menu       list.Model
	menuOpen   bool
	confirming bool
	toast      string
	toastID    int

	help     help.Model
	progress progress.Model
}

// NewModel creates a new TUI model over a deck and its controller.
func NewModel(d *deck.Deck, ctrl *presenter.Controller, opts Options) *Model {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	m := &Model{
		deck:   d,
		ctrl:   ctrl,
		opts:   opts,
		logger: logger,
		view:   ctrl.Snapshot(),
		spring: harmonica.NewSpring(harmonica.FPS(frameRate), 8.0, 1.0),
		cache:  make(map[int][]string),
		screen: &screen{tty: opts.TTY},
		keys:   input.NewKeyMap(),
		swipe:  input.SwipeDetector{Threshold: opts.Input.SwipeThreshold, CellUnits: opts.Input.CellUnits},
		wheel:  input.WheelDebouncer{Debounce: opts.Input.WheelDebounce()},
		help:   help.New(),
		progress: progress.New(
			progress.WithDefaultGradient(),
			progress.WithoutPercentage(),
			progress.WithWidth(defaultWidth-2*margin),
		),
	}
	m.commands = presenter.NewCommands(ctrl, m.screen, presenter.CauseRemote, logger)
	m.menu = newMenu(d.Titles(), func() int { return m.view.Current })
	return m
}

// NewProgram wraps m in a program with mouse and focus reporting enabled.
func NewProgram(m *Model, opts ...tea.ProgramOption) *tea.Program {
	base := []tea.ProgramOption{tea.WithMouseCellMotion(), tea.WithReportFocus()}
	return tea.NewProgram(m, append(base, opts...)...)
}

// Init starts the entrance of the first slide.
func (m *Model) Init() tea.Cmd {
	if m.opts.Fullscreen {
		m.enterFullscreen()
	}
	m.staged = slices.Clone(m.view.Staged)
	m.prerender(m.staged)
	return tea.Batch(m.revealTick(m.epoch, 0), m.prefetchTick(m.epoch), m.screen.drain())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.update(msg)
	m.menu.SetSize(menuWidth, m.layout().bodyHeight)
	return m, tea.Batch(cmd, m.screen.drain())
}

func (m *Model) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = max(msg.Width-2*margin, 10)
		m.help.Width = msg.Width
		return nil

	case tea.FocusMsg:
		m.logger.Info("presentation resumed", "slide", m.view.Current)
		return nil

	case tea.BlurMsg:
		m.logger.Info("presentation paused", "slide", m.view.Current)
		return nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case Msg:
		return m.handleMsg(msg)
	}
	return nil
}

func (m *Model) handleMsg(msg Msg) tea.Cmd {
	switch msg.kind {
	case MsgFrame:
		return m.stepFrame(msg.data.(frameData))

	case MsgReveal:
		d := msg.data.(revealData)
		if d.id != m.epoch {
			return nil
		}
		m.reveal.elapsed = d.elapsed
		return m.revealTick(d.id, d.elapsed)

	case MsgPrefetchExpired:
		if msg.data.(uint64) != m.epoch {
			return nil
		}
		released := presenter.Expire(m.staged, m.view.Current)
		m.staged = nil
		m.logger.Debug("prefetch released", "slides", released)
		return nil

	case MsgWheel:
		switch m.wheel.Fire(msg.data.(uint64)) {
		case input.Advance:
			return m.navigate(presenter.KindAdvance, 0, presenter.CauseWheel)
		case input.Retreat:
			return m.navigate(presenter.KindRetreat, 0, presenter.CauseWheel)
		}
		return nil

	case MsgToastExpired:
		if msg.data.(int) == m.toastID {
			m.toast = ""
		}
		return nil

	case MsgCommand:
		d := msg.data.(commandData)
		if !d.taken.CompareAndSwap(false, true) {
			m.logger.Debug("remote command expired before it ran")
			return nil
		}
		out := d.run(m.commands)
		cmd := m.begin(out)
		d.reply <- out
		return cmd
	}
	return nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.confirming {
		switch {
		case key.Matches(msg, m.keys.Yes), msg.Type == tea.KeyCtrlC:
			m.logger.Info("presentation closed", "slide", m.view.Current)
			return tea.Quit
		case key.Matches(msg, m.keys.No):
			m.confirming = false
		}
		return nil
	}

	if m.menuOpen {
		switch {
		case key.Matches(msg, m.keys.Menu), key.Matches(msg, m.keys.Escape):
			m.menuOpen = false
			return nil
		case key.Matches(msg, m.keys.Activate):
			m.menuOpen = false
			if it, ok := m.menu.SelectedItem().(slideItem); ok {
				return m.navigate(presenter.KindJump, it.number, presenter.CauseMenu)
			}
			return nil
		case key.Matches(msg, m.keys.Quit):
			return m.quit()
		}
		var cmd tea.Cmd
		m.menu, cmd = m.menu.Update(msg)
		return cmd
	}

	switch m.keys.Action(msg) {
	case input.Advance:
		return m.navigate(presenter.KindAdvance, 0, presenter.CauseKeyboard)
	case input.Retreat:
		return m.navigate(presenter.KindRetreat, 0, presenter.CauseKeyboard)
	case input.First:
		return m.navigate(presenter.KindJump, 1, presenter.CauseKeyboard)
	case input.Last:
		return m.navigate(presenter.KindJump, m.view.Total, presenter.CauseKeyboard)
	case input.ToggleFullscreen:
		if m.screen.Fullscreen() {
			m.screen.ExitFullscreen()
		} else {
			m.enterFullscreen()
		}
	case input.ExitFullscreen:
		m.screen.ExitFullscreen()
	case input.ToggleMenu:
		m.menuOpen = true
		m.menu.Select(m.view.Current - 1)
	case input.Activate:
		return m.activate(0)
	case input.ToggleHelp:
		m.help.ShowAll = !m.help.ShowAll
	case input.Quit:
		return m.quit()
	}
	return nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if m.confirming {
		return nil
	}

	switch {
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonWheelDown:
		return m.bumpWheel(1)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonWheelUp:
		return m.bumpWheel(-1)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		m.swipe.Begin(m.swipe.FromCells(msg.X, msg.Y))
		m.pressX, m.pressY = msg.X, msg.Y
	case msg.Action == tea.MouseActionRelease:
		if !m.swipe.Pressed() {
			return nil
		}
		switch m.swipe.End(m.swipe.FromCells(msg.X, msg.Y)) {
		case input.Advance:
			return m.navigate(presenter.KindAdvance, 0, presenter.CauseSwipe)
		case input.Retreat:
			return m.navigate(presenter.KindRetreat, 0, presenter.CauseSwipe)
		}
		if abs(msg.X-m.pressX) <= 1 && msg.Y == m.pressY {
			return m.click(m.pressX, m.pressY)
		}
	}
	return nil
}

func (m *Model) bumpWheel(delta int) tea.Cmd {
	gen := m.wheel.Bump(delta)
	return tea.Tick(m.wheel.Delay(), func(time.Time) tea.Msg { return wheelMsg(gen) })
}

// click dispatches a left click on the footer buttons, a CTA or a menu row.
func (m *Model) click(x, y int) tea.Cmd {
	l := m.layout()

	switch {
	case l.prev.contains(x, y):
		if m.view.CanRetreat {
			return m.navigate(presenter.KindRetreat, 0, presenter.CauseButton)
		}
		return nil
	case l.next.contains(x, y):
		if m.view.CanAdvance {
			return m.navigate(presenter.KindAdvance, 0, presenter.CauseButton)
		}
		return nil
	}

	for i, z := range l.ctas {
		if z.contains(x, y) {
			return m.activate(i)
		}
	}

	if m.menuOpen && x < menuWidth && y >= l.bodyTop && y < l.bodyTop+l.bodyHeight {
		if n, ok := menuItemAt(m.menu, y-l.bodyTop); ok {
			m.menuOpen = false
			return m.navigate(presenter.KindJump, n, presenter.CauseMenu)
		}
	}
	return nil
}

func (m *Model) navigate(kind presenter.Kind, target int, cause presenter.Cause) tea.Cmd {
	return m.begin(m.ctrl.Navigate(presenter.Request{Kind: kind, Target: target, Cause: cause}))
}

// begin starts the animation, reveal and prefetch effects of an accepted transition. Rejected outcomes only
// refresh the view.
func (m *Model) begin(out presenter.Outcome) tea.Cmd {
	if !out.Accepted {
		m.view = out.View
		return nil
	}

	t := out.Transition
	m.view = out.View
	m.epoch = t.ID
	m.anim = animation{id: t.ID, active: true, frames: m.frames(), pos: float64(t.EntryOffset())}
	m.reveal = reveal{}
	m.staged = slices.Clone(out.View.Staged)
	m.prerender(m.staged)
	m.menu.Select(t.To - 1)

	var cmds []tea.Cmd
	if m.anim.frames == 0 {
		m.finish()
	} else {
		cmds = append(cmds, m.frameTick(t.ID, 1))
	}
	cmds = append(cmds, m.revealTick(t.ID, 0), m.prefetchTick(t.ID))
	return tea.Batch(cmds...)
}

func (m *Model) frames() int {
	d := m.opts.Timing.Transition
	if d <= 0 {
		return 0
	}
	return max(int(math.Round(float64(d)/float64(frameInterval))), 1)
}

func (m *Model) frameTick(id uint64, frame int) tea.Cmd {
	return tea.Tick(frameInterval, func(time.Time) tea.Msg { return frameMsg(id, frame) })
}

func (m *Model) stepFrame(d frameData) tea.Cmd {
	if !m.anim.active || d.id != m.anim.id {
		return nil
	}

	m.anim.frame = d.frame
	if d.frame >= m.anim.frames {
		m.finish()
		return nil
	}
	m.anim.pos, m.anim.vel = m.spring.Update(m.anim.pos, m.anim.vel, 0)
	return m.frameTick(d.id, d.frame+1)
}

// finish ends the running animation and releases the controller lock.
func (m *Model) finish() {
	m.anim.active = false
	m.anim.pos, m.anim.vel = 0, 0
	m.ctrl.Complete(m.anim.id)
	m.view = m.ctrl.Snapshot()
}

func (m *Model) revealTick(id uint64, elapsed time.Duration) tea.Cmd {
	slide, _ := m.deck.Slide(m.view.Current)
	if elapsed >= m.opts.Timing.RevealDone(len(slide.Elements)) {
		m.reveal.done = true
		return nil
	}

	step := m.opts.Timing.RevealStagger
	if step <= 0 {
		step = frameInterval
	}
	next := elapsed + step
	return tea.Tick(step, func(time.Time) tea.Msg { return revealMsg(id, next) })
}

func (m *Model) prefetchTick(id uint64) tea.Cmd {
	return tea.Tick(m.opts.Timing.PrefetchHold, func(time.Time) tea.Msg { return prefetchExpiredMsg(id) })
}

func (m *Model) enterFullscreen() {
	if err := m.screen.EnterFullscreen(); err != nil {
		m.logger.Warn("error attempting to enable fullscreen", "error", err)
	}
}

func (m *Model) quit() tea.Cmd {
	if m.opts.ConfirmExit && m.view.Current > 1 {
		m.confirming = true
		return nil
	}
	m.logger.Info("presentation closed", "slide", m.view.Current)
	return tea.Quit
}

// activate acknowledges the i-th call to action of the current slide. It never changes the slide.
func (m *Model) activate(i int) tea.Cmd {
	slide, ok := m.deck.Slide(m.view.Current)
	if !ok || i >= len(slide.CTAs) {
		return nil
	}

	cta := slide.CTAs[i]
	m.logger.Info("call to action", "label", cta.Label, "action", cta.Action, "slide", slide.Number)

	msg := m.opts.CTAMessage
	if msg == "" {
		msg = fmt.Sprintf("%s: noted", cta.Label)
	}
	m.toastID++
	id := m.toastID
	m.toast = msg
	return tea.Tick(toastDuration, func(time.Time) tea.Msg { return toastExpiredMsg(id) })
}

// elements returns the fully revealed rendering of each element of slide n, from the render cache when possible.
func (m *Model) elements(n int) []string {
	w := m.bodyWidth()
	if w != m.cacheWidth {
		clear(m.cache)
		m.cacheWidth = w
	}
	if blocks, ok := m.cache[n]; ok {
		return blocks
	}

	slide, ok := m.deck.Slide(n)
	if !ok {
		return nil
	}
	blocks := make([]string, len(slide.Elements))
	for i, e := range slide.Elements {
		blocks[i] = renderElement(e, w, false)
	}
	m.cache[n] = blocks
	return blocks
}

func (m *Model) prerender(slides []int) {
	for _, n := range slides {
		m.elements(n)
	}
}

func (m *Model) size() (int, int) {
	w, h := m.width, m.height
	if w <= 0 {
		w = defaultWidth
	}
	if h <= 0 {
		h = defaultHeight
	}
	return w, h
}

func (m *Model) bodyWidth() int {
	w, _ := m.size()
	if m.menuOpen {
		return max(w-menuWidth-2-margin, 10)
	}
	return max(w-2*margin, 10)
}

// layout is the screen geometry shared by View and mouse hit-testing.
type layout struct {
	width      int
	bodyTop    int
	bodyHeight int
	bodyWidth  int
	ctaY       int // -1 when the slide has no calls to action
	footerY    int
	prev, next zone
	ctas       []zone
}

func (m *Model) layout() layout {
	w, h := m.size()
	l := layout{width: w, bodyTop: 2, bodyWidth: m.bodyWidth(), ctaY: -1}

	helpH := lipgloss.Height(m.helpView())
	l.footerY = h - helpH - 2
	bottom := l.footerY - 1

	if slide, ok := m.deck.Slide(m.view.Current); ok && len(slide.CTAs) > 0 {
		l.ctaY = l.footerY - 2
		bottom = l.ctaY - 1
		x := margin
		for _, c := range slide.CTAs {
			bw := lipgloss.Width(styles.cta.Render(c.Label))
			l.ctas = append(l.ctas, zone{x, x + bw, l.ctaY})
			x += bw + 2
		}
	}
	l.bodyHeight = max(bottom-l.bodyTop, 1)

	x := margin
	pw := lipgloss.Width(button(prevLabel, true))
	l.prev = zone{x, x + pw, l.footerY}
	x += pw + 2 + lipgloss.Width(m.view.Counter) + 2
	l.next = zone{x, x + lipgloss.Width(button(nextLabel, true)), l.footerY}
	return l
}

const (
	prevLabel = "◀ Prev"
	nextLabel = "Next ▶"
)

// View renders the header, the active slide, footer controls, progress bar and help.
func (m *Model) View() string {
	l := m.layout()

	parts := []string{m.headerView(l.width), "", m.bodyView(l), ""}
	if l.ctaY >= 0 {
		parts = append(parts, m.ctaView(), "")
	}
	parts = append(parts, m.footerView(), m.progressView(), m.helpView())
	return strings.Join(parts, "\n")
}

func (m *Model) headerView(width int) string {
	slide, _ := m.deck.Slide(m.view.Current)
	header := styles.title.Render(m.deck.Title) + styles.help.Render(" · "+slide.Title)
	if m.screen.Fullscreen() {
		header += "  " + styles.As("[fullscreen]", lipgloss.Color("#04B575"))
	}
	return ansi.Truncate(header, width, "…")
}

func (m *Model) bodyView(l layout) string {
	slide := fitHeight(m.slideView(l.bodyWidth), l.bodyHeight)
	if !m.menuOpen {
		return lipgloss.NewStyle().PaddingLeft(margin).Render(slide)
	}
	menu := styles.menu.Render(fitHeight(m.menu.View(), l.bodyHeight))
	return lipgloss.JoinHorizontal(lipgloss.Top, menu, " ", slide)
}

// slideView draws the current slide with its reveal state and, mid-transition, its horizontal entry offset.
func (m *Model) slideView(width int) string {
	slide, ok := m.deck.Slide(m.view.Current)
	if !ok {
		return ""
	}

	full := m.elements(slide.Number)
	blocks := make([]string, len(full))
	for i, b := range full {
		if m.reveal.done {
			blocks[i] = b
			continue
		}
		switch revealState(m.opts.Timing, i, m.reveal.elapsed) {
		case hidden:
			blocks[i] = blank(b)
		case fading:
			blocks[i] = renderElement(slide.Elements[i], width, true)
		default:
			blocks[i] = b
		}
	}

	body := compose(slide.Elements, blocks)
	if m.anim.active {
		body = shift(body, int(math.Round(m.anim.pos/100*float64(width))), width)
	}
	return body
}

func (m *Model) ctaView() string {
	slide, _ := m.deck.Slide(m.view.Current)
	buttons := make([]string, len(slide.CTAs))
	for i, c := range slide.CTAs {
		buttons[i] = styles.cta.Render(c.Label)
	}
	return strings.Repeat(" ", margin) + strings.Join(buttons, "  ")
}

func (m *Model) footerView() string {
	return strings.Repeat(" ", margin) +
		button(prevLabel, m.view.CanRetreat) + "  " +
		m.view.Counter + "  " +
		button(nextLabel, m.view.CanAdvance)
}

func (m *Model) progressView() string {
	return strings.Repeat(" ", margin) + m.progress.ViewAs(m.view.Progress)
}

func (m *Model) helpView() string {
	switch {
	case m.confirming:
		return styles.warn.Render("Leave the presentation? (y/n)")
	case m.toast != "":
		return styles.toast.Render(m.toast)
	default:
		return m.help.View(m.keys)
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
