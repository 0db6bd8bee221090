package viewstate

import (
	"context"

	"github.com/deevus/embedview/host"
)

// Reloader issues reload commands to the content host.
type Reloader interface {
	Reload(ctx context.Context) host.Attempt
}

// Controller owns the ViewState for one mounted content screen. It is not
// safe for concurrent use; every method runs on the UI event loop.
//
// Events are matched to attempts. Events from an attempt older than the
// current one are dropped, so a late response from a superseded load can
// never overwrite the state of the load that replaced it. Within one
// attempt a failure is sticky: a LoadEnd arriving after an error leaves the
// state Failed.
type Controller struct {
	state    ViewState
	current  host.Attempt
	reloader Reloader
	observe  func(from, to ViewState)
}

// NewController creates a Controller in the Loading state.
func NewController(r Reloader) *Controller {
	return &Controller{state: Loading{}, reloader: r}
}

// Observe registers fn to be called after every state change.
func (c *Controller) Observe(fn func(from, to ViewState)) {
	c.observe = fn
}

// State returns the current view state.
func (c *Controller) State() ViewState {
	return c.state
}

// Current returns the attempt the controller is tracking.
func (c *Controller) Current() host.Attempt {
	return c.current
}

// Begin makes attempt current and enters Loading. Use it with the ID
// returned by the host when the caller starts a load itself.
func (c *Controller) Begin(attempt host.Attempt) bool {
	if attempt < c.current {
		return false
	}
	c.current = attempt
	return c.set(Loading{Attempt: attempt})
}

// OnLoadStart enters Loading, clearing any failure. A start for a newer
// attempt than the current one is adopted.
func (c *Controller) OnLoadStart(ev host.LoadStart) bool {
	return c.Begin(ev.Attempt)
}

// OnLoadEnd moves Loading to Ready. It never overrides Failed.
func (c *Controller) OnLoadEnd(ev host.LoadEnd) bool {
	if ev.Attempt != c.current {
		return false
	}
	if c.state.Kind() != KindLoading {
		return false
	}
	return c.set(Ready{Attempt: c.current})
}

// OnError fails the current attempt regardless of state.
func (c *Controller) OnError(ev host.LoadError) bool {
	if ev.Attempt != c.current {
		return false
	}
	return c.set(Failed{Attempt: c.current, Reason: NetworkOrRenderError})
}

// OnHTTPError fails the current attempt when the status is 400 or above.
// Lower statuses are not errors and change nothing.
func (c *Controller) OnHTTPError(ev host.HTTPError) bool {
	if ev.Attempt != c.current || ev.StatusCode < 400 {
		return false
	}
	return c.set(Failed{Attempt: c.current, Reason: HTTPStatusError, StatusCode: ev.StatusCode})
}

// OnRetry issues one reload and enters Loading for the new attempt. It is
// meant for the Failed state but tolerated from any state.
func (c *Controller) OnRetry(ctx context.Context) bool {
	return c.Begin(c.reloader.Reload(ctx))
}

// Apply dispatches a host event to its handler. It reports whether the
// state changed; unknown events are ignored.
func (c *Controller) Apply(ev any) bool {
	switch ev := ev.(type) {
	case host.LoadStart:
		return c.OnLoadStart(ev)
	case host.LoadEnd:
		return c.OnLoadEnd(ev)
	case host.LoadError:
		return c.OnError(ev)
	case host.HTTPError:
		return c.OnHTTPError(ev)
	}
	return false
}

func (c *Controller) set(s ViewState) bool {
	if s == c.state {
		return false
	}
	prev := c.state
	c.state = s
	if c.observe != nil {
		c.observe(prev, s)
	}
	return true
}
