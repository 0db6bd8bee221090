package app

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
	"git.sr.ht/~rockorager/vaxis/vxfw/richtext"
	"github.com/deevus/embedview/host"
	"github.com/deevus/embedview/viewstate"
	"github.com/deevus/embedview/views"
	"github.com/deevus/embedview/widgets"
	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
)

// Params holds configuration for creating an App.
type Params struct {
	Host   host.ContentHost
	URL    string
	Title  string
	Logger zerolog.Logger
	// StallAfter lets the user retry a load that has been running this
	// long. Zero only allows retry after a failure.
	StallAfter time.Duration
}

// App is the root vxfw widget: a status bar row above the content view.
type App struct {
	host      host.ContentHost
	url       string
	title     string
	log       zerolog.Logger
	ctrl      *viewstate.Controller
	content   *views.ContentView
	status    *widgets.StatusBar
	postEvent func(vaxis.Event)

	// animating mirrors LayersFor(state).Indicator for the ticker goroutine.
	animating atomic.Bool
}

// New creates the root App widget. Nothing is fetched until the vxfw.Init
// event arrives.
func New(p Params) *App {
	ctrl := viewstate.NewController(p.Host)
	a := &App{
		host:    p.Host,
		url:     p.URL,
		title:   p.Title,
		log:     p.Logger,
		ctrl:    ctrl,
		content: views.NewContentView(views.ContentViewParams{Controller: ctrl, StallAfter: p.StallAfter}),
		status:  &widgets.StatusBar{Title: p.Title, URL: p.URL},
	}
	a.animating.Store(viewstate.LayersFor(ctrl.State()).Indicator)
	ctrl.Observe(a.onTransition)
	return a
}

// SetPostEvent sets the function used to post events to the vaxis event loop.
// Must be called before RunTicker.
func (a *App) SetPostEvent(fn func(vaxis.Event)) {
	a.postEvent = fn
}

// State returns the current view state.
func (a *App) State() viewstate.ViewState {
	return a.ctrl.State()
}

// Content returns the content view.
func (a *App) Content() *views.ContentView {
	return a.content
}

// RunTicker posts views.Tick at the given interval until ctx is done.
// Ticks are only posted while the loading indicator is showing.
func (a *App) RunTicker(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if a.postEvent != nil && a.animating.Load() {
				a.postEvent(views.Tick{})
			}
		}
	}
}

func (a *App) onTransition(from, to viewstate.ViewState) {
	a.animating.Store(viewstate.LayersFor(to).Indicator)
	a.logTransition(from, to)
}

func (a *App) logTransition(from, to viewstate.ViewState) {
	ev := a.log.Debug()
	if f, ok := to.(viewstate.Failed); ok {
		ev = a.log.Warn().Str("reason", f.Reason.String())
		if f.StatusCode != 0 {
			ev = ev.Int("status", f.StatusCode)
		}
	}
	ev.Uint64("attempt", uint64(to.AttemptID())).
		Str("from", from.Kind().String()).
		Str("to", to.Kind().String()).
		Msg("view state changed")
}

// Draw renders the status bar, the content view and, when there is room,
// a key hint row at the bottom.
func (a *App) Draw(ctx vxfw.DrawContext) (vxfw.Surface, error) {
	s := vxfw.NewSurface(ctx.Max.Width, ctx.Max.Height, a)
	if ctx.Max.Height == 0 {
		return s, nil
	}

	contentHeight := ctx.Max.Height - 1
	showHints := ctx.Max.Height >= 3
	if showHints {
		contentHeight--
	}

	a.updateStatus()

	// Status bar (1 row)
	barCtx := ctx.WithMax(vxfw.Size{Width: ctx.Max.Width, Height: 1})
	barSurf, err := a.status.Draw(barCtx)
	if err != nil {
		return vxfw.Surface{}, err
	}
	s.AddChild(0, 0, barSurf)

	// Content (remaining space)
	viewCtx := ctx.WithMax(vxfw.Size{Width: ctx.Max.Width, Height: contentHeight})
	viewSurf, err := a.content.Draw(viewCtx)
	if err != nil {
		return vxfw.Surface{}, err
	}
	s.AddChild(0, 1, viewSurf)

	if showHints {
		hints := richtext.New(a.hintSegments())
		hintSurf, err := hints.Draw(ctx.WithMax(vxfw.Size{Width: ctx.Max.Width, Height: 1}))
		if err != nil {
			return vxfw.Surface{}, err
		}
		s.AddChild(0, int(ctx.Max.Height)-1, hintSurf)
	}

	return s, nil
}

// hintSegments lists the keys that do something in the current state.
func (a *App) hintSegments() []vaxis.Segment {
	key := vaxis.Style{Attribute: vaxis.AttrBold}
	label := vaxis.Style{Attribute: vaxis.AttrDim}

	segs := []vaxis.Segment{{Text: " q", Style: key}, {Text: " quit", Style: label}}
	switch a.ctrl.State().Kind() {
	case viewstate.KindLoading:
		if a.content.Stalled() {
			segs = append(segs, vaxis.Segment{Text: "  r", Style: key}, vaxis.Segment{Text: " retry", Style: label})
		}
	case viewstate.KindFailed:
		segs = append(segs, vaxis.Segment{Text: "  r", Style: key}, vaxis.Segment{Text: " retry", Style: label})
	case viewstate.KindReady:
		segs = append(segs,
			vaxis.Segment{Text: "  j/k", Style: key}, vaxis.Segment{Text: " scroll", Style: label},
			vaxis.Segment{Text: "  g/G", Style: key}, vaxis.Segment{Text: " top/bottom", Style: label},
		)
	}
	return segs
}

func (a *App) updateStatus() {
	st := a.ctrl.State()
	a.status.Detail = ""

	switch st.Kind() {
	case viewstate.KindLoading:
		a.status.Badge = "LOADING"
		a.status.BadgeStyle = vaxis.Style{Foreground: vaxis.IndexColor(0), Background: vaxis.IndexColor(3), Attribute: vaxis.AttrBold}
	case viewstate.KindReady:
		a.status.Badge = "READY"
		a.status.BadgeStyle = vaxis.Style{Foreground: vaxis.IndexColor(0), Background: vaxis.IndexColor(2), Attribute: vaxis.AttrBold}
		if last := a.content.LastLoad(); last.Page != nil {
			a.status.Detail = fmt.Sprintf("%s · %s",
				humanize.Bytes(uint64(last.Page.Size)),
				last.Elapsed.Round(time.Millisecond))
		}
	case viewstate.KindFailed:
		a.status.Badge = "OFFLINE"
		a.status.BadgeStyle = vaxis.Style{Foreground: vaxis.IndexColor(15), Background: vaxis.IndexColor(1), Attribute: vaxis.AttrBold}
	}

	a.status.Title = a.title
	if page := a.content.Page(); page != nil && page.Title != "" && st.Kind() == viewstate.KindReady {
		a.status.Title = a.title + " · " + page.Title
	}
}

// CaptureEvent handles global keybindings before the content view sees them.
func (a *App) CaptureEvent(ev vaxis.Event) (vxfw.Command, error) {
	key, ok := ev.(vaxis.Key)
	if !ok {
		return nil, nil
	}
	switch {
	case key.Matches('q'), key.Matches('c', vaxis.ModCtrl):
		return vxfw.QuitCmd{}, nil
	case key.Matches('r'), key.Matches(vaxis.KeyEnter):
		if a.content.Retry(context.Background()) {
			a.log.Info().Uint64("attempt", uint64(a.ctrl.Current())).Msg("retry requested")
			return vxfw.ConsumeAndRedraw(), nil
		}
	}
	return nil, nil
}

// HandleEvent starts the initial load, applies host events, and delegates
// everything else to the content view.
func (a *App) HandleEvent(ev vaxis.Event, phase vxfw.EventPhase) (vxfw.Command, error) {
	switch ev := ev.(type) {
	case vxfw.Init:
		attempt := a.host.Load(context.Background(), a.url)
		a.content.Begin(attempt)
		a.log.Info().Str("url", a.url).Uint64("attempt", uint64(attempt)).Msg("loading")
		return vxfw.RedrawCmd{}, nil
	case host.LoadStart, host.LoadEnd, host.LoadError, host.HTTPError:
		if le, ok := ev.(host.LoadError); ok {
			a.log.Debug().Err(le.Err).Uint64("attempt", uint64(le.Attempt)).Msg("host error")
		}
		if a.content.Apply(ev) {
			return vxfw.RedrawCmd{}, nil
		}
		return nil, nil
	case views.Tick:
		if a.content.Tick() {
			return vxfw.RedrawCmd{}, nil
		}
		return nil, nil
	default:
		return a.content.HandleEvent(ev, phase)
	}
}
