// Package host fetches a single remote page and reports the lifecycle of
// each load attempt as events.
package host

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime"
	"strings"
	"sync"
	"time"

	"github.com/deevus/embedview/document"
	"github.com/rs/zerolog"
)

// Attempt identifies one load or reload. Later attempts have larger IDs.
type Attempt uint64

// LoadStart is emitted when an attempt begins fetching.
type LoadStart struct {
	Attempt Attempt
	URL     string
}

// LoadEnd is emitted when an attempt received and rendered a document,
// whatever its HTTP status.
type LoadEnd struct {
	Attempt Attempt
	Page    *document.Page
	Elapsed time.Duration
}

// LoadError is emitted when an attempt fails below HTTP: DNS, TLS,
// connection, timeout or content rendering.
type LoadError struct {
	Attempt Attempt
	Err     error
}

// HTTPError is emitted when the final response of an attempt is not 2xx.
type HTTPError struct {
	Attempt    Attempt
	StatusCode int
	URL        string
}

var (
	// ErrNoURL is reported when Reload is called before any Load.
	ErrNoURL = errors.New("no URL to load")
	// ErrUnsupportedContent is reported for responses that are not text.
	ErrUnsupportedContent = errors.New("unsupported content type")
)

// ContentHost is the capability the view-state controller drives.
type ContentHost interface {
	Load(ctx context.Context, url string) Attempt
	Reload(ctx context.Context) Attempt
	Close() error
}

// Response is the raw result of fetching a URL.
type Response struct {
	StatusCode  int
	FinalURL    string
	ContentType string
	Body        []byte
}

// Fetcher retrieves the document at a URL. Implementations must honour
// ctx cancellation.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Response, error)
}

// Params holds configuration for creating a Host.
type Params struct {
	Fetcher Fetcher
	// Emit receives every lifecycle event. It is called from background
	// goroutines and must be safe for concurrent use.
	Emit   func(any)
	Logger zerolog.Logger
}

// Host runs at most one load attempt at a time. Starting a new attempt
// cancels the one in flight, which then emits nothing further.
type Host struct {
	fetcher Fetcher
	emit    func(any)
	log     zerolog.Logger

	mu      sync.Mutex
	attempt Attempt
	url     string
	cancel  context.CancelFunc
	closed  bool
	wg      sync.WaitGroup
}

// New creates a Host backed by the given params.
func New(p Params) *Host {
	emit := p.Emit
	if emit == nil {
		emit = func(any) {}
	}
	return &Host{
		fetcher: p.Fetcher,
		emit:    emit,
		log:     p.Logger,
	}
}

// Load starts a new attempt for url and returns its ID.
func (h *Host) Load(ctx context.Context, url string) Attempt {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.url = url
	return h.startLocked(ctx)
}

// Reload starts a new attempt for the most recently loaded URL.
func (h *Host) Reload(ctx context.Context) Attempt {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.startLocked(ctx)
}

// URL returns the most recently loaded URL.
func (h *Host) URL() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.url
}

// Close cancels the attempt in flight and waits for it to finish. Later
// Load and Reload calls allocate IDs but fetch nothing.
func (h *Host) Close() error {
	h.mu.Lock()
	h.closed = true
	if h.cancel != nil {
		h.cancel()
		h.cancel = nil
	}
	h.mu.Unlock()
	h.wg.Wait()
	return nil
}

func (h *Host) startLocked(parent context.Context) Attempt {
	if h.cancel != nil {
		h.cancel()
		h.cancel = nil
	}
	h.attempt++
	id := h.attempt
	if h.closed {
		return id
	}

	ctx, cancel := context.WithCancel(parent)
	h.cancel = cancel
	url := h.url

	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		defer cancel()
		h.run(ctx, id, url)
	}()
	return id
}

func (h *Host) run(ctx context.Context, id Attempt, url string) {
	log := h.log.With().Uint64("attempt", uint64(id)).Str("url", url).Logger()
	h.send(ctx, LoadStart{Attempt: id, URL: url})

	if url == "" {
		h.send(ctx, LoadError{Attempt: id, Err: ErrNoURL})
		return
	}

	start := time.Now()
	resp, err := h.fetcher.Fetch(ctx, url)
	if err != nil {
		if ctx.Err() != nil {
			log.Debug().Msg("attempt superseded")
			return
		}
		log.Warn().Err(err).Msg("load failed")
		h.send(ctx, LoadError{Attempt: id, Err: err})
		return
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Info().Int("status", resp.StatusCode).Msg("non-success status")
		h.send(ctx, HTTPError{Attempt: id, StatusCode: resp.StatusCode, URL: resp.FinalURL})
	}

	page, err := render(resp)
	if err != nil {
		log.Warn().Err(err).Msg("render failed")
		h.send(ctx, LoadError{Attempt: id, Err: fmt.Errorf("rendering %s: %w", url, err)})
		return
	}

	elapsed := time.Since(start)
	log.Debug().Dur("elapsed", elapsed).Int("bytes", page.Size).Msg("load finished")
	h.send(ctx, LoadEnd{Attempt: id, Page: page, Elapsed: elapsed})
}

// send emits ev unless the attempt has been superseded or the host closed.
func (h *Host) send(ctx context.Context, ev any) {
	if ctx.Err() != nil {
		return
	}
	h.emit(ev)
}

func render(resp *Response) (*document.Page, error) {
	mediaType := "text/html"
	if resp.ContentType != "" {
		mt, _, err := mime.ParseMediaType(resp.ContentType)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrUnsupportedContent, resp.ContentType)
		}
		mediaType = mt
	}

	body := bytes.NewReader(resp.Body)
	switch {
	case mediaType == "text/html" || mediaType == "application/xhtml+xml":
		return document.Parse(body, resp.FinalURL)
	case strings.HasPrefix(mediaType, "text/"):
		return document.ParseText(body, resp.FinalURL)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedContent, mediaType)
	}
}
