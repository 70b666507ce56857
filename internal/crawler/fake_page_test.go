package crawler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"cafepick/menuworker/internal/browser"
)

// fakePage is an in-memory browser page driven by a url-to-markup map.
// Clicking the configured next button advances through nextQueue,
// clicking a modal trigger opens the corresponding modals entry, and
// clicking a detail link swaps the document for the matching details
// entry until the next navigation.
type fakePage struct {
	mu sync.Mutex

	pages   map[string]string
	current string

	nextButton string
	nextQueue  []string

	modalTrigger   string
	modalContainer string
	modalClose     string
	modals         []string
	open           int

	detailLink string
	details    []string
	detailHTML string

	navigations []string
	clicks      []string
	escapes     int
	closed      bool
}

func newFakePage(pages map[string]string) *fakePage {
	return &fakePage{pages: pages, open: -1}
}

func (f *fakePage) Navigate(ctx context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.navigations = append(f.navigations, url)
	if _, ok := f.pages[url]; !ok {
		return fmt.Errorf("no such page: %s", url)
	}
	f.current = url
	f.detailHTML = ""
	return nil
}

func (f *fakePage) CurrentURL(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current, nil
}

func (f *fakePage) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if selector == f.modalContainer && f.modalContainer != "" && f.open < 0 {
		return errors.New("wait timed out")
	}
	return nil
}

func (f *fakePage) HTML(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.detailHTML != "" {
		return f.detailHTML, nil
	}
	return f.pages[f.current], nil
}

func (f *fakePage) OuterHTML(ctx context.Context, selector string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if selector == f.modalContainer {
		if f.open < 0 || f.open >= len(f.modals) {
			return "", errors.New("modal not open")
		}
		return f.modals[f.open], nil
	}
	return "", fmt.Errorf("no element: %s", selector)
}

func (f *fakePage) Click(ctx context.Context, selector string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clicks = append(f.clicks, selector)
	switch selector {
	case f.nextButton:
		if len(f.nextQueue) == 0 {
			return errors.New("next button disabled")
		}
		f.current = f.nextQueue[0]
		f.nextQueue = f.nextQueue[1:]
		return nil
	case f.modalClose:
		f.open = -1
		return nil
	}
	return nil
}

func (f *fakePage) ClickNth(ctx context.Context, selector string, n int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clicks = append(f.clicks, fmt.Sprintf("%s[%d]", selector, n))
	switch selector {
	case f.modalTrigger:
		if n >= len(f.modals) {
			return fmt.Errorf("no trigger at index %d", n)
		}
		f.open = n
		return nil
	case f.detailLink:
		if n >= len(f.details) {
			return fmt.Errorf("no detail at index %d", n)
		}
		f.detailHTML = f.details[n]
		return nil
	}
	return nil
}

func (f *fakePage) PressEscape(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.escapes++
	f.open = -1
	return nil
}

func (f *fakePage) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakePage) modalOpen() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.open >= 0
}

// fakeBrowser hands out a single prepared page
type fakeBrowser struct {
	page *fakePage
}

func (b *fakeBrowser) NewPage(ctx context.Context) (browser.Page, error) {
	return b.page, nil
}

func (b *fakeBrowser) Close() error {
	return nil
}
