package term

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/dshills/navspy/internal/document"
	"github.com/dshills/navspy/internal/page"
	"github.com/dshills/navspy/internal/spy/geometry"
	"github.com/dshills/navspy/internal/spy/host"
	"github.com/dshills/navspy/internal/spy/registry"
)

// Options configures a Viewer.
type Options struct {
	// Container selects the element holding the navigation links.
	Container string
	// ActiveClass marks the link drawn as active.
	ActiveClass string
	// SidebarWidth is the preferred sidebar width in columns.
	SidebarWidth int
	// ScrollStep is the number of rows moved per wheel notch.
	ScrollStep int
	Logger     *slog.Logger
}

var (
	styleDefault = tcell.StyleDefault
	styleActive  = tcell.StyleDefault.Reverse(true).Bold(true)
	styleHeading = tcell.StyleDefault.Bold(true)
	styleCode    = tcell.StyleDefault.Dim(true)
	styleBorder  = tcell.StyleDefault.Dim(true)
	styleStatus  = tcell.StyleDefault.Reverse(true)
)

// Viewer draws a page on a tcell screen and turns input into page
// scrolling and link activation.
type Viewer struct {
	screen tcell.Screen
	page   *page.Page
	opts   Options
	logger *slog.Logger

	selected    int
	sideOffset  int
	lastButtons tcell.ButtonMask
	quit        bool
}

// New returns a viewer of p on screen. The screen must be initialized.
func New(screen tcell.Screen, p *page.Page, opts Options) *Viewer {
	if opts.Container == "" {
		opts.Container = document.TagNav
	}
	if opts.SidebarWidth <= 0 {
		opts.SidebarWidth = 28
	}
	if opts.ScrollStep <= 0 {
		opts.ScrollStep = 3
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	v := &Viewer{screen: screen, page: p, opts: opts, logger: logger}
	v.layout()
	return v
}

// Configure replaces the options, e.g. after a config reload.
func (v *Viewer) Configure(opts Options) {
	if opts.Logger == nil {
		opts.Logger = v.logger
	}
	nv := New(v.screen, v.page, opts)
	nv.selected = v.selected
	nv.quit = v.quit
	*v = *nv
}

// Post runs fn on the event loop. It is safe to call from any goroutine.
func (v *Viewer) Post(fn func()) {
	if err := v.screen.PostEvent(tcell.NewEventInterrupt(fn)); err != nil {
		v.logger.Warn("event queue full, dropping callback", "error", err)
	}
}

// Quit makes Run return after the current event.
func (v *Viewer) Quit() {
	v.quit = true
}

// Run draws and handles events until Quit or a quit key.
func (v *Viewer) Run() {
	for !v.quit {
		v.Draw()
		ev := v.screen.PollEvent()
		if ev == nil {
			return
		}
		v.Handle(ev)
	}
}

// Selected returns the index of the selected sidebar link.
func (v *Viewer) Selected() int { return v.selected }

// Done reports whether the viewer has been asked to quit.
func (v *Viewer) Done() bool { return v.quit }

func (v *Viewer) links() []*document.Node {
	return v.page.Document().Links(v.opts.Container)
}

func (v *Viewer) sidebarCols(width int) int {
	return min(v.opts.SidebarWidth, width/2)
}

// layout sizes the page to the content pane.
func (v *Viewer) layout() {
	w, h := v.screen.Size()
	sw := v.sidebarCols(w)
	v.page.Resize(max(w-sw-3, 10), float64(max(h-1, 1)))
}

// Handle processes one event.
func (v *Viewer) Handle(ev tcell.Event) {
	switch e := ev.(type) {
	case *tcell.EventInterrupt:
		if fn, ok := e.Data().(func()); ok {
			fn()
		}
	case *tcell.EventResize:
		v.layout()
		v.screen.Sync()
	case *tcell.EventKey:
		v.handleKey(e)
	case *tcell.EventMouse:
		v.handleMouse(e)
	}
}

func (v *Viewer) handleKey(e *tcell.EventKey) {
	step := max(v.page.ViewHeight()-1, 1)
	switch e.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		v.quit = true
	case tcell.KeyUp:
		v.page.ScrollBy(-1)
	case tcell.KeyDown:
		v.page.ScrollBy(1)
	case tcell.KeyPgUp:
		v.page.ScrollBy(-step)
	case tcell.KeyPgDn:
		v.page.ScrollBy(step)
	case tcell.KeyHome:
		v.page.ScrollTo(0)
	case tcell.KeyEnd:
		v.page.ScrollTo(v.page.MaxScroll())
	case tcell.KeyTab:
		v.moveSelection(1)
	case tcell.KeyBacktab:
		v.moveSelection(-1)
	case tcell.KeyEnter:
		v.activateSelected()
	case tcell.KeyRune:
		switch e.Rune() {
		case 'q':
			v.quit = true
		case 'j':
			v.moveSelection(1)
		case 'k':
			v.moveSelection(-1)
		case ' ':
			v.page.ScrollBy(step)
		case 'g':
			v.page.ScrollTo(0)
		case 'G':
			v.page.ScrollTo(v.page.MaxScroll())
		}
	}
}

func (v *Viewer) handleMouse(e *tcell.EventMouse) {
	btns := e.Buttons()
	pressed := btns&tcell.Button1 != 0 && v.lastButtons&tcell.Button1 == 0
	v.lastButtons = btns

	switch {
	case btns&tcell.WheelUp != 0:
		v.page.ScrollBy(-float64(v.opts.ScrollStep))
	case btns&tcell.WheelDown != 0:
		v.page.ScrollBy(float64(v.opts.ScrollStep))
	case pressed:
		x, y := e.Position()
		w, _ := v.screen.Size()
		if x >= v.sidebarCols(w) {
			return
		}
		i := v.sideOffset + y
		if i >= 0 && i < len(v.links()) {
			v.selected = i
			v.activate(v.links()[i])
		}
	}
}

func (v *Viewer) moveSelection(delta int) {
	n := len(v.links())
	if n == 0 {
		return
	}
	v.selected = ((v.selected+delta)%n + n) % n
}

func (v *Viewer) activateSelected() {
	links := v.links()
	if v.selected < len(links) {
		v.activate(links[v.selected])
	}
}

// activate clicks the link. Without click handlers the page jumps straight
// to the target like a plain anchor.
func (v *Viewer) activate(link *document.Node) {
	if link.Click(host.Event{ScrollY: v.page.ScrollY(), Time: time.Now()}) {
		return
	}
	id := registry.TargetID(link.Href())
	target := v.page.ElementByID(id)
	if target == nil {
		v.logger.Debug("link target not found", "href", link.Href())
		return
	}
	v.page.ScrollTo(geometry.Top(target))
	v.page.ReplaceFragment(id)
}

// Draw renders the whole screen.
func (v *Viewer) Draw() {
	s := v.screen
	s.Clear()
	w, h := s.Size()
	if w <= 0 || h <= 0 {
		return
	}
	sw := v.sidebarCols(w)
	body := h - 1

	v.drawSidebar(sw, body)
	for y := 0; y < body; y++ {
		s.SetContent(sw, y, '│', nil, styleBorder)
	}
	v.drawContent(sw+2, w, body)
	v.drawStatus(w, h-1)
	s.Show()
}

func (v *Viewer) drawSidebar(width, height int) {
	links := v.links()
	if v.selected >= len(links) {
		v.selected = max(len(links)-1, 0)
	}
	if v.selected < v.sideOffset {
		v.sideOffset = v.selected
	}
	if v.selected >= v.sideOffset+height {
		v.sideOffset = v.selected - height + 1
	}

	for row := 0; row < height; row++ {
		i := v.sideOffset + row
		if i >= len(links) {
			break
		}
		l := links[i]
		style := styleDefault
		if l.HasClass(v.opts.ActiveClass) {
			style = styleActive
		}
		marker := " "
		if i == v.selected {
			marker = ">"
		}
		label := marker + strings.Repeat("  ", max(l.Level-1, 0)) + l.Text
		drawText(v.screen, 0, row, width, label, style)
	}
}

func (v *Viewer) drawContent(x0, width, height int) {
	rows := v.page.Document().Rows()
	top := int(v.page.ScrollY())
	for y := 0; y < height; y++ {
		i := top + y
		if i >= len(rows) {
			break
		}
		r := rows[i]
		style := styleDefault
		switch r.Kind {
		case document.RowHeading:
			style = styleHeading
		case document.RowCode:
			style = styleCode
		}
		drawText(v.screen, x0, y, width, r.Text, style)
	}
}

func (v *Viewer) drawStatus(width, y int) {
	for x := 0; x < width; x++ {
		v.screen.SetContent(x, y, ' ', nil, styleStatus)
	}
	doc := v.page.Document()
	name := doc.Title
	if doc.Path != "" {
		name = filepath.Base(doc.Path)
	}
	left := " " + name
	if f := v.page.Fragment(); f != "" {
		left += "#" + f
	}

	var right string
	for _, l := range v.links() {
		if l.HasClass(v.opts.ActiveClass) {
			right = l.Text + "  "
			break
		}
	}
	pct := 100
	if m := v.page.MaxScroll(); m > 0 {
		pct = int(v.page.ScrollY() / m * 100)
	}
	right += fmt.Sprintf("%3d%% ", pct)

	drawText(v.screen, 0, y, width, left, styleStatus)
	drawText(v.screen, max(width-runewidth.StringWidth(right), 0), y, width, right, styleStatus)
}

// drawText writes s from column x, stopping before maxX. It returns the
// column after the last cell written.
func drawText(s tcell.Screen, x, y, maxX int, text string, style tcell.Style) int {
	for _, r := range text {
		rw := runewidth.RuneWidth(r)
		if rw == 0 {
			continue
		}
		if x+rw > maxX {
			break
		}
		s.SetContent(x, y, r, nil, style)
		x += rw
	}
	return x
}
