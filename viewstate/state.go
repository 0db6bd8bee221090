// Package viewstate tracks whether the embedded page is loading, ready or
// failed, and decides what the content screen shows in each case.
package viewstate

import "github.com/deevus/embedview/host"

// Kind names the active case of a ViewState.
type Kind int

const (
	KindLoading Kind = iota
	KindReady
	KindFailed
)

func (k Kind) String() string {
	switch k {
	case KindLoading:
		return "loading"
	case KindReady:
		return "ready"
	case KindFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ErrorKind classifies why an attempt failed. It decides only whether to
// fail; the error panel looks the same for every kind.
type ErrorKind int

const (
	// NetworkOrRenderError covers DNS, TLS, connection and content failures.
	NetworkOrRenderError ErrorKind = iota + 1
	// HTTPStatusError is a response with status >= 400.
	HTTPStatusError
)

func (k ErrorKind) String() string {
	switch k {
	case NetworkOrRenderError:
		return "network"
	case HTTPStatusError:
		return "http"
	default:
		return "none"
	}
}

// ViewState is one of Loading, Ready or Failed.
type ViewState interface {
	Kind() Kind
	AttemptID() host.Attempt
	isViewState()
}

// Loading means a fetch is in progress.
type Loading struct {
	Attempt host.Attempt
}

// Ready means the attempt finished without error.
type Ready struct {
	Attempt host.Attempt
}

// Failed means the attempt ended in a qualifying error.
type Failed struct {
	Attempt    host.Attempt
	Reason     ErrorKind
	StatusCode int // set only for HTTPStatusError
}

func (Loading) Kind() Kind { return KindLoading }
func (Ready) Kind() Kind   { return KindReady }
func (Failed) Kind() Kind  { return KindFailed }

func (s Loading) AttemptID() host.Attempt { return s.Attempt }
func (s Ready) AttemptID() host.Attempt   { return s.Attempt }
func (s Failed) AttemptID() host.Attempt  { return s.Attempt }

func (Loading) isViewState() {}
func (Ready) isViewState()   {}
func (Failed) isViewState()  {}

// Layers says which surfaces the content screen shows.
type Layers struct {
	Indicator      bool // blocking progress overlay
	ErrorPanel     bool // error panel with retry
	ContentMounted bool // page surface is drawn (possibly underneath)
	ContentVisible bool // page surface is uncovered
}

// LayersFor projects a state onto the surfaces to draw. While loading the
// page stays mounted under the indicator so a reload does not flash. A
// failed state unmounts it so a broken page is never shown.
func LayersFor(s ViewState) Layers {
	switch s.Kind() {
	case KindReady:
		return Layers{ContentMounted: true, ContentVisible: true}
	case KindFailed:
		return Layers{ErrorPanel: true}
	default:
		return Layers{Indicator: true, ContentMounted: true}
	}
}
