package host

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
)

// ChromeOptions configures a ChromeFetcher.
type ChromeOptions struct {
	UserAgent string
	Timeout   time.Duration
	ExecPath  string // path to the Chrome binary, empty to auto-detect
	// NoSandbox disables the Chrome sandbox, which is required when
	// running as root in a container.
	NoSandbox bool
}

// ChromeFetcher loads pages in headless Chrome so that scripts run before
// the DOM is captured.
type ChromeFetcher struct {
	opts ChromeOptions
}

// NewChromeFetcher creates a ChromeFetcher, applying defaults for unset options.
func NewChromeFetcher(o ChromeOptions) *ChromeFetcher {
	if o.UserAgent == "" {
		o.UserAgent = DefaultUserAgent
	}
	if o.Timeout <= 0 {
		o.Timeout = 45 * time.Second
	}
	return &ChromeFetcher{opts: o}
}

func (f *ChromeFetcher) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts,
		chromedp.UserAgent(f.opts.UserAgent),
		chromedp.WindowSize(1280, 800),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if f.opts.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(f.opts.ExecPath))
	}
	if f.opts.NoSandbox {
		opts = append(opts, chromedp.NoSandbox)
	}
	return opts
}

// Fetch navigates to url and returns the rendered DOM. The status code is
// taken from the main document response.
func (f *ChromeFetcher) Fetch(ctx context.Context, url string) (*Response, error) {
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, f.allocatorOptions()...)
	defer allocCancel()

	ctx, cancel := context.WithTimeout(allocCtx, f.opts.Timeout)
	defer cancel()

	ctx, cancel = chromedp.NewContext(ctx)
	defer cancel()

	if err := chromedp.Run(ctx,
		network.Enable(),
		network.SetExtraHTTPHeaders(network.Headers(map[string]interface{}{
			"Accept-Language": "en-US,en;q=0.9",
		})),
	); err != nil {
		return nil, fmt.Errorf("starting browser: %w", err)
	}

	resp, err := chromedp.RunResponse(ctx, chromedp.Navigate(url))
	if err != nil {
		return nil, fmt.Errorf("navigating to %s: %w", url, err)
	}

	var html, finalURL string
	if err := chromedp.Run(ctx,
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
		chromedp.Location(&finalURL),
	); err != nil {
		return nil, fmt.Errorf("capturing DOM: %w", err)
	}

	status := 200
	if resp != nil {
		status = int(resp.Status)
	}
	return &Response{
		StatusCode:  status,
		FinalURL:    finalURL,
		ContentType: "text/html",
		Body:        []byte(html),
	}, nil
}
