package views

import (
	"context"
	"time"

	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
	"github.com/deevus/embedview/document"
	"github.com/deevus/embedview/host"
	"github.com/deevus/embedview/viewstate"
	"github.com/deevus/embedview/widgets"
)

// Error panel copy. The panel never shows the underlying error.
const (
	ErrorIcon    = "⚠"
	ErrorTitle   = "Page Not Found"
	ErrorMessage = "Unable to load the page. Please check your internet connection and try again."
	RetryLabel   = "Retry"
	LoadingLabel = "Loading..."
)

// ContentViewParams holds configuration for creating a ContentView.
type ContentViewParams struct {
	Controller *viewstate.Controller
	// StallAfter is how long a load may stay in Loading before retry is
	// offered anyway. Zero never offers it.
	StallAfter time.Duration
	// Now defaults to time.Now.
	Now func() time.Time
}

// ContentView shows the embedded page, a loading overlay, or the error
// panel, according to the controller's state.
type ContentView struct {
	ctrl    *viewstate.Controller
	page    *document.Page
	loaded  host.LoadEnd
	spinner widgets.Spinner
	panel   widgets.ErrorPanel
	frame   int

	stallAfter   time.Duration
	now          func() time.Time
	loadingSince time.Time

	scroll     int
	lineCount  int
	viewHeight int
}

// NewContentView creates a ContentView driven by the given controller.
func NewContentView(p ContentViewParams) *ContentView {
	now := p.Now
	if now == nil {
		now = time.Now
	}
	return &ContentView{
		ctrl:         p.Controller,
		stallAfter:   p.StallAfter,
		now:          now,
		loadingSince: now(),
		spinner:      widgets.Spinner{Label: LoadingLabel},
		panel: widgets.ErrorPanel{
			Icon:    ErrorIcon,
			Title:   ErrorTitle,
			Message: ErrorMessage,
			Action:  RetryLabel,
			Hint:    "press r or enter",
		},
	}
}

// State returns the controller's current view state.
func (cv *ContentView) State() viewstate.ViewState {
	return cv.ctrl.State()
}

// Page returns the most recently delivered page, or nil.
func (cv *ContentView) Page() *document.Page {
	return cv.page
}

// LastLoad returns the LoadEnd event that delivered the current page.
func (cv *ContentView) LastLoad() host.LoadEnd {
	return cv.loaded
}

// Scroll returns the index of the first visible line.
func (cv *ContentView) Scroll() int {
	return cv.scroll
}

// Apply feeds a host event to the controller and keeps the page delivered
// by the current attempt. It reports whether the view state changed.
func (cv *ContentView) Apply(ev any) bool {
	if end, ok := ev.(host.LoadEnd); ok && end.Attempt == cv.ctrl.Current() && end.Page != nil {
		if cv.page == nil || cv.page.URL != end.Page.URL {
			cv.scroll = 0
		}
		cv.page = end.Page
		cv.loaded = end
	}
	changed := cv.ctrl.Apply(ev)
	if changed && cv.ctrl.State().Kind() == viewstate.KindLoading {
		cv.restartLoading()
	}
	return changed
}

// Begin tracks an attempt the caller started on the host directly.
func (cv *ContentView) Begin(attempt host.Attempt) bool {
	if !cv.ctrl.Begin(attempt) {
		return false
	}
	cv.restartLoading()
	return true
}

func (cv *ContentView) restartLoading() {
	cv.spinner.Reset()
	cv.frame = 0
	cv.loadingSince = cv.now()
}

// Stalled reports whether the current load has been running longer than
// StallAfter without a terminal event.
func (cv *ContentView) Stalled() bool {
	if cv.stallAfter <= 0 || cv.ctrl.State().Kind() != viewstate.KindLoading {
		return false
	}
	return cv.now().Sub(cv.loadingSince) >= cv.stallAfter
}

// Retry reloads the page if it is showing the error panel or the load has
// stalled. It reports whether a reload was issued.
func (cv *ContentView) Retry(ctx context.Context) bool {
	if cv.ctrl.State().Kind() != viewstate.KindFailed && !cv.Stalled() {
		return false
	}
	cv.ctrl.OnRetry(ctx)
	cv.restartLoading()
	return true
}

// Tick advances the loading animation. It reports whether a redraw is
// needed.
func (cv *ContentView) Tick() bool {
	if !viewstate.LayersFor(cv.ctrl.State()).Indicator {
		return false
	}
	cv.spinner.Advance()
	cv.frame++
	return true
}

// Draw renders the layers for the current state.
func (cv *ContentView) Draw(ctx vxfw.DrawContext) (vxfw.Surface, error) {
	layers := viewstate.LayersFor(cv.ctrl.State())

	if layers.ErrorPanel {
		return cv.panel.Draw(ctx)
	}

	s := vxfw.NewSurface(ctx.Max.Width, ctx.Max.Height, cv)
	if layers.ContentMounted {
		cv.drawPage(&s, ctx)
	}
	if layers.Indicator {
		overlay, err := drawLoadingOverlay(ctx, cv, &cv.spinner, cv.frame)
		if err != nil {
			return vxfw.Surface{}, err
		}
		s.AddChild(0, 0, overlay)
	}
	return s, nil
}

func (cv *ContentView) drawPage(s *vxfw.Surface, ctx vxfw.DrawContext) {
	width := int(ctx.Max.Width)
	height := int(ctx.Max.Height)

	lines := cv.page.Lines(width)
	cv.lineCount = len(lines)
	cv.viewHeight = height
	cv.clampScroll()

	for row := 0; row < height; row++ {
		i := cv.scroll + row
		if i >= len(lines) {
			break
		}
		widgets.WriteText(s, 0, uint16(row), width, lines[i].Text, lineStyle(lines[i]), widgets.AlignLeft)
	}
}

func lineStyle(l document.Line) vaxis.Style {
	switch l.Kind {
	case document.Heading:
		st := vaxis.Style{Attribute: vaxis.AttrBold}
		if l.Level == 1 {
			st.Foreground = vaxis.IndexColor(4)
		}
		return st
	case document.Preformatted:
		return vaxis.Style{Foreground: vaxis.IndexColor(6)}
	case document.Quote:
		return vaxis.Style{Attribute: vaxis.AttrItalic}
	case document.Rule:
		return vaxis.Style{Attribute: vaxis.AttrDim}
	default:
		return vaxis.Style{}
	}
}

func (cv *ContentView) maxScroll() int {
	m := cv.lineCount - cv.viewHeight
	if m < 0 {
		return 0
	}
	return m
}

func (cv *ContentView) clampScroll() {
	if cv.scroll > cv.maxScroll() {
		cv.scroll = cv.maxScroll()
	}
	if cv.scroll < 0 {
		cv.scroll = 0
	}
}

// ScrollBy moves the viewport by delta lines.
func (cv *ContentView) ScrollBy(delta int) {
	cv.scroll += delta
	cv.clampScroll()
}

// HandleEvent scrolls the page while it is visible.
func (cv *ContentView) HandleEvent(ev vaxis.Event, phase vxfw.EventPhase) (vxfw.Command, error) {
	key, ok := ev.(vaxis.Key)
	if !ok || !viewstate.LayersFor(cv.ctrl.State()).ContentVisible {
		return nil, nil
	}

	page := cv.viewHeight - 1
	if page < 1 {
		page = 1
	}

	switch {
	case key.Matches('j'), key.Matches(vaxis.KeyDown):
		cv.ScrollBy(1)
	case key.Matches('k'), key.Matches(vaxis.KeyUp):
		cv.ScrollBy(-1)
	case key.Matches(' '), key.Matches(vaxis.KeyPgDown), key.Matches('d', vaxis.ModCtrl):
		cv.ScrollBy(page)
	case key.Matches(vaxis.KeyPgUp), key.Matches('u', vaxis.ModCtrl):
		cv.ScrollBy(-page)
	case key.Matches('g'), key.Matches(vaxis.KeyHome):
		cv.scroll = 0
	case key.Matches('G'), key.Matches(vaxis.KeyEnd):
		cv.scroll = cv.maxScroll()
	default:
		return nil, nil
	}
	return vxfw.ConsumeAndRedraw(), nil
}
