package views_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
	"github.com/deevus/embedview/document"
	"github.com/deevus/embedview/host"
	"github.com/deevus/embedview/viewstate"
	"github.com/deevus/embedview/views"
)

type fakeReloader struct {
	next  host.Attempt
	calls int
}

func (f *fakeReloader) Reload(ctx context.Context) host.Attempt {
	f.calls++
	f.next++
	return f.next
}

func newTestView() (*views.ContentView, *fakeReloader) {
	r := &fakeReloader{next: 1}
	cv := views.NewContentView(views.ContentViewParams{Controller: viewstate.NewController(r)})
	cv.Apply(host.LoadStart{Attempt: 1, URL: "https://example.com"})
	return cv, r
}

func testPage(paragraphs int) *document.Page {
	p := &document.Page{
		Title:  "Example",
		URL:    "https://example.com",
		Blocks: []document.Block{{Kind: document.Heading, Level: 1, Text: "Welcome home"}},
	}
	for i := 0; i < paragraphs; i++ {
		p.Blocks = append(p.Blocks, document.Block{Kind: document.Paragraph, Text: fmt.Sprintf("paragraph %d", i)})
	}
	return p
}

func TestContentView_InitialState(t *testing.T) {
	cv := views.NewContentView(views.ContentViewParams{Controller: viewstate.NewController(&fakeReloader{})})
	if cv.State().Kind() != viewstate.KindLoading {
		t.Errorf("expected loading at mount, got %s", cv.State().Kind())
	}
	if cv.Page() != nil {
		t.Error("expected no page at mount")
	}
}

func TestContentView_Draw_Loading(t *testing.T) {
	cv, _ := newTestView()

	s, err := cv.Draw(testDrawContext(80, 24))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s.Children) != 1 {
		t.Fatalf("expected loading overlay child, got %d children", len(s.Children))
	}
	if strings.Contains(surfaceText(s), views.ErrorTitle) {
		t.Error("error panel must not show while loading")
	}
}

func TestContentView_Draw_Ready(t *testing.T) {
	cv, _ := newTestView()
	cv.Apply(host.LoadEnd{Attempt: 1, Page: testPage(3)})

	s, err := cv.Draw(testDrawContext(80, 24))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s.Children) != 0 {
		t.Errorf("expected no overlay when ready, got %d children", len(s.Children))
	}
	text := surfaceText(s)
	if !strings.HasPrefix(text, "Welcome home") {
		t.Errorf("expected page heading on first row, got %q", strings.SplitN(text, "\n", 2)[0])
	}
	if strings.Contains(text, views.ErrorTitle) {
		t.Error("error panel must not show when ready")
	}
}

func TestContentView_Draw_Failed(t *testing.T) {
	cv, _ := newTestView()
	cv.Apply(host.HTTPError{Attempt: 1, StatusCode: 404})
	cv.Apply(host.LoadEnd{Attempt: 1, Page: testPage(1)})

	s, err := cv.Draw(testDrawContext(80, 24))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s.Children) != 0 {
		t.Errorf("expected no loading overlay when failed, got %d children", len(s.Children))
	}
	text := surfaceText(s)
	for _, want := range []string{views.ErrorTitle, "[ " + views.RetryLabel + " ]"} {
		if !strings.Contains(text, want) {
			t.Errorf("expected %q in error panel", want)
		}
	}
	if strings.Contains(text, "404") {
		t.Error("error panel must not show the status code")
	}
	if strings.Contains(text, "Welcome home") {
		t.Error("page content must be hidden when failed")
	}
}

func TestContentView_Draw_ReloadKeepsPageMounted(t *testing.T) {
	cv, _ := newTestView()
	cv.Apply(host.LoadEnd{Attempt: 1, Page: testPage(1)})
	cv.Apply(host.LoadStart{Attempt: 2})

	s, err := cv.Draw(testDrawContext(80, 24))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(surfaceText(s), "Welcome home") {
		t.Error("expected previous page to stay mounted under the overlay")
	}
	if len(s.Children) != 1 {
		t.Errorf("expected overlay child while reloading, got %d", len(s.Children))
	}
}

func TestContentView_Apply_IgnoresStalePage(t *testing.T) {
	cv, r := newTestView()
	cv.Apply(host.LoadError{Attempt: 1})
	cv.Retry(context.Background())

	cv.Apply(host.LoadEnd{Attempt: 1, Page: testPage(1)})
	if cv.Page() != nil {
		t.Error("expected page from superseded attempt to be dropped")
	}
	if cv.State().Kind() != viewstate.KindLoading {
		t.Errorf("expected loading, got %s", cv.State().Kind())
	}

	cv.Apply(host.LoadEnd{Attempt: r.next, Page: testPage(2)})
	if cv.Page() == nil {
		t.Fatal("expected page from current attempt")
	}
	if cv.LastLoad().Attempt != r.next {
		t.Errorf("expected last load from attempt %d, got %d", r.next, cv.LastLoad().Attempt)
	}
}

func TestContentView_Retry(t *testing.T) {
	cv, r := newTestView()
	cv.Apply(host.LoadError{Attempt: 1})

	if !cv.Retry(context.Background()) {
		t.Fatal("expected retry from failed state")
	}
	if r.calls != 1 {
		t.Errorf("expected one reload, got %d", r.calls)
	}
	if cv.State().Kind() != viewstate.KindLoading {
		t.Errorf("expected loading after retry, got %s", cv.State().Kind())
	}
}

func TestContentView_Retry_NotFailed(t *testing.T) {
	cv, r := newTestView()
	if cv.Retry(context.Background()) {
		t.Error("expected no retry while loading")
	}
	cv.Apply(host.LoadEnd{Attempt: 1, Page: testPage(1)})
	if cv.Retry(context.Background()) {
		t.Error("expected no retry while ready")
	}
	if r.calls != 0 {
		t.Errorf("expected no reloads, got %d", r.calls)
	}
}

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func TestContentView_Retry_Stalled(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	r := &fakeReloader{next: 1}
	cv := views.NewContentView(views.ContentViewParams{
		Controller: viewstate.NewController(r),
		StallAfter: 10 * time.Second,
		Now:        clock.Now,
	})
	cv.Begin(1)

	clock.now = clock.now.Add(5 * time.Second)
	if cv.Stalled() {
		t.Error("expected load not stalled before StallAfter")
	}
	if cv.Retry(context.Background()) {
		t.Fatal("expected no retry before the load stalls")
	}

	clock.now = clock.now.Add(5 * time.Second)
	if !cv.Stalled() {
		t.Error("expected load stalled at StallAfter")
	}
	if !cv.Retry(context.Background()) {
		t.Fatal("expected retry once the load stalled")
	}
	if r.calls != 1 {
		t.Errorf("expected one reload, got %d", r.calls)
	}
	if cv.State().Kind() != viewstate.KindLoading || cv.State().AttemptID() != 2 {
		t.Errorf("expected loading for attempt 2, got %s/%d", cv.State().Kind(), cv.State().AttemptID())
	}
	if cv.Stalled() {
		t.Error("expected stall timer to restart with the new attempt")
	}
}

func TestContentView_Stalled_Disabled(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	cv := views.NewContentView(views.ContentViewParams{
		Controller: viewstate.NewController(&fakeReloader{}),
		Now:        clock.Now,
	})
	cv.Begin(1)

	clock.now = clock.now.Add(time.Hour)
	if cv.Stalled() {
		t.Error("expected no stall without StallAfter")
	}
}

func TestContentView_Stalled_OnlyWhileLoading(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	cv := views.NewContentView(views.ContentViewParams{
		Controller: viewstate.NewController(&fakeReloader{}),
		StallAfter: time.Second,
		Now:        clock.Now,
	})
	cv.Begin(1)
	cv.Apply(host.LoadEnd{Attempt: 1, Page: testPage(1)})

	clock.now = clock.now.Add(time.Minute)
	if cv.Stalled() {
		t.Error("expected ready page never to count as stalled")
	}
	if cv.Retry(context.Background()) {
		t.Error("expected no retry while ready")
	}
}

func TestContentView_Tick(t *testing.T) {
	cv, _ := newTestView()
	if !cv.Tick() {
		t.Error("expected tick to redraw while loading")
	}
	cv.Apply(host.LoadEnd{Attempt: 1, Page: testPage(1)})
	if cv.Tick() {
		t.Error("expected tick to be ignored when ready")
	}
}

func TestContentView_HandleEvent_Scroll(t *testing.T) {
	cv, _ := newTestView()
	cv.Apply(host.LoadEnd{Attempt: 1, Page: testPage(50)})
	if _, err := cv.Draw(testDrawContext(40, 10)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cmd, err := cv.HandleEvent(vaxis.Key{Keycode: 'j'}, vxfw.EventPhase(0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmd == nil {
		t.Fatal("expected command for scroll key")
	}
	if cv.Scroll() != 1 {
		t.Errorf("expected scroll 1, got %d", cv.Scroll())
	}

	_, _ = cv.HandleEvent(vaxis.Key{Keycode: 'k'}, vxfw.EventPhase(0))
	_, _ = cv.HandleEvent(vaxis.Key{Keycode: 'k'}, vxfw.EventPhase(0))
	if cv.Scroll() != 0 {
		t.Errorf("expected scroll clamped at 0, got %d", cv.Scroll())
	}

	_, _ = cv.HandleEvent(vaxis.Key{Keycode: vaxis.KeyEnd}, vxfw.EventPhase(0))
	// heading + 50 paragraphs separated by blank rows = 101 lines
	if want := 101 - 10; cv.Scroll() != want {
		t.Errorf("expected scroll %d at end, got %d", want, cv.Scroll())
	}

	_, _ = cv.HandleEvent(vaxis.Key{Keycode: 'j'}, vxfw.EventPhase(0))
	if want := 101 - 10; cv.Scroll() != want {
		t.Errorf("expected scroll clamped at %d, got %d", want, cv.Scroll())
	}

	_, _ = cv.HandleEvent(vaxis.Key{Keycode: vaxis.KeyHome}, vxfw.EventPhase(0))
	if cv.Scroll() != 0 {
		t.Errorf("expected scroll 0 after Home, got %d", cv.Scroll())
	}
}

func TestContentView_HandleEvent_IgnoredWhileLoading(t *testing.T) {
	cv, _ := newTestView()
	cmd, err := cv.HandleEvent(vaxis.Key{Keycode: 'j'}, vxfw.EventPhase(0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmd != nil {
		t.Errorf("expected nil command while loading, got %T", cmd)
	}
}

func TestContentView_HandleEvent_UnhandledKey(t *testing.T) {
	cv, _ := newTestView()
	cv.Apply(host.LoadEnd{Attempt: 1, Page: testPage(1)})
	cmd, err := cv.HandleEvent(vaxis.Key{Keycode: 'x'}, vxfw.EventPhase(0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmd != nil {
		t.Errorf("expected nil command for unhandled key, got %T", cmd)
	}
}
