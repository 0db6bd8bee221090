package host

import (
	"testing"
	"time"

	"github.com/chromedp/chromedp"
)

func TestNewChromeFetcher_Defaults(t *testing.T) {
	f := NewChromeFetcher(ChromeOptions{})
	if f.opts.UserAgent != DefaultUserAgent {
		t.Errorf("expected default user agent, got %q", f.opts.UserAgent)
	}
	if f.opts.Timeout != 45*time.Second {
		t.Errorf("expected default timeout 45s, got %s", f.opts.Timeout)
	}

	f = NewChromeFetcher(ChromeOptions{UserAgent: "embedview-test", Timeout: time.Second, ExecPath: "/opt/chrome"})
	if f.opts.UserAgent != "embedview-test" || f.opts.Timeout != time.Second || f.opts.ExecPath != "/opt/chrome" {
		t.Errorf("expected options kept, got %+v", f.opts)
	}
}

func TestChromeFetcher_AllocatorOptions(t *testing.T) {
	base := len(chromedp.DefaultExecAllocatorOptions)

	tests := []struct {
		name string
		opts ChromeOptions
		want int
	}{
		{"defaults", ChromeOptions{}, base + 4},
		{"exec path", ChromeOptions{ExecPath: "/opt/chrome"}, base + 5},
		{"no sandbox", ChromeOptions{NoSandbox: true}, base + 5},
		{"both", ChromeOptions{ExecPath: "/opt/chrome", NoSandbox: true}, base + 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewChromeFetcher(tt.opts).allocatorOptions()
			if len(got) != tt.want {
				t.Errorf("expected %d allocator options, got %d", tt.want, len(got))
			}
		})
	}
}
