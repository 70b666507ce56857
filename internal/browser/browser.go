// Package browser abstracts the headless-browser surface the traversal
// strategies are written against: navigation, selector-based reads and
// click simulation. Strategies never import chromedp directly, which is
// what lets tests drive them with an in-memory page.
package browser

import (
	"context"
	"time"
)

// Page is one browser tab. Locating by selector returns zero or more
// matches; reads return optional strings; navigation is asynchronous and
// may time out.
type Page interface {
	// Navigate loads the given URL and waits for the document to be ready
	Navigate(ctx context.Context, url string) error

	// CurrentURL returns the page's URL after any redirects
	CurrentURL(ctx context.Context) (string, error)

	// WaitVisible blocks until the selector matches a visible element or
	// the timeout elapses
	WaitVisible(ctx context.Context, selector string, timeout time.Duration) error

	// HTML returns a snapshot of the full document markup
	HTML(ctx context.Context) (string, error)

	// OuterHTML returns the markup of the first element matching the
	// selector
	OuterHTML(ctx context.Context, selector string) (string, error)

	// Click clicks the first element matching the selector
	Click(ctx context.Context, selector string) error

	// ClickNth clicks the n-th (0-based) element matching the selector
	ClickNth(ctx context.Context, selector string, n int) error

	// PressEscape sends an escape keystroke to the page
	PressEscape(ctx context.Context) error

	// Close releases the tab
	Close() error
}

// Browser opens pages. One browser process backs one crawler run.
type Browser interface {
	NewPage(ctx context.Context) (Page, error)
	Close() error
}

// Options configures browser launch behavior
type Options struct {
	// Headless runs the browser without a window. Always true outside of
	// local selector debugging.
	Headless bool

	// NavigationTimeout bounds every page load
	NavigationTimeout time.Duration

	// UserAgent overrides the browser's default when non-empty
	UserAgent string
}

// DefaultOptions returns the launch options used when a site definition
// does not override them
func DefaultOptions() Options {
	return Options{
		Headless:          true,
		NavigationTimeout: 30 * time.Second,
	}
}
