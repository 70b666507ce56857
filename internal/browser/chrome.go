package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"
)

// ChromeBrowser implements Browser on top of a local headless Chrome
// driven through the devtools protocol.
type ChromeBrowser struct {
	opts        Options
	allocCtx    context.Context
	allocCancel context.CancelFunc
}

// NewChromeBrowser launches a Chrome allocator with the given options.
// The browser process itself starts lazily with the first page.
func NewChromeBrowser(ctx context.Context, opts Options) *ChromeBrowser {
	allocOpts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	allocOpts = append(allocOpts,
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("lang", "ko-KR"),
	)
	if opts.UserAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(opts.UserAgent))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	return &ChromeBrowser{
		opts:        opts,
		allocCtx:    allocCtx,
		allocCancel: allocCancel,
	}
}

// NewPage opens a new tab
func (b *ChromeBrowser) NewPage(ctx context.Context) (Page, error) {
	tabCtx, tabCancel := chromedp.NewContext(b.allocCtx)

	// Start the tab so later actions don't pay the launch cost under
	// their own timeouts
	if err := chromedp.Run(tabCtx); err != nil {
		tabCancel()
		return nil, fmt.Errorf("failed to start browser tab: %w", err)
	}

	return &chromePage{
		ctx:     tabCtx,
		cancel:  tabCancel,
		navWait: b.opts.NavigationTimeout,
	}, nil
}

// Close tears down the allocator and every tab with it
func (b *ChromeBrowser) Close() error {
	b.allocCancel()
	return nil
}

type chromePage struct {
	ctx     context.Context
	cancel  context.CancelFunc
	navWait time.Duration
}

func (p *chromePage) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	runCtx := p.ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(runCtx, timeout)
		defer cancel()
	}
	done := make(chan error, 1)
	go func() { done <- chromedp.Run(runCtx, actions...) }()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *chromePage) Navigate(ctx context.Context, url string) error {
	err := p.run(ctx, p.navWait,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
	)
	if err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	return nil
}

func (p *chromePage) CurrentURL(ctx context.Context) (string, error) {
	var url string
	if err := p.run(ctx, 5*time.Second, chromedp.Location(&url)); err != nil {
		return "", fmt.Errorf("failed to read location: %w", err)
	}
	return url, nil
}

func (p *chromePage) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	err := p.run(ctx, timeout, chromedp.WaitVisible(selector, chromedp.ByQuery))
	if err != nil {
		return fmt.Errorf("element %s not visible: %w", selector, err)
	}
	return nil
}

func (p *chromePage) HTML(ctx context.Context) (string, error) {
	var html string
	err := p.run(ctx, p.navWait, chromedp.OuterHTML("html", &html, chromedp.ByQuery))
	if err != nil {
		return "", fmt.Errorf("failed to snapshot page: %w", err)
	}
	return html, nil
}

func (p *chromePage) OuterHTML(ctx context.Context, selector string) (string, error) {
	var html string
	err := p.run(ctx, p.navWait, chromedp.OuterHTML(selector, &html, chromedp.ByQuery))
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", selector, err)
	}
	return html, nil
}

func (p *chromePage) Click(ctx context.Context, selector string) error {
	err := p.run(ctx, p.navWait, chromedp.Click(selector, chromedp.ByQuery, chromedp.NodeVisible))
	if err != nil {
		return fmt.Errorf("failed to click %s: %w", selector, err)
	}
	return nil
}

func (p *chromePage) ClickNth(ctx context.Context, selector string, n int) error {
	// CSS alone cannot address the n-th match of an arbitrary selector
	// across parents, so click through the devtools query result instead
	script := fmt.Sprintf(
		`(() => { const els = document.querySelectorAll(%q); if (els.length <= %d) return false; els[%d].click(); return true; })()`,
		selector, n, n,
	)
	var clicked bool
	err := p.run(ctx, p.navWait, chromedp.Evaluate(script, &clicked))
	if err != nil {
		return fmt.Errorf("failed to click %s[%d]: %w", selector, n, err)
	}
	if !clicked {
		return fmt.Errorf("no element %s at index %d", selector, n)
	}
	return nil
}

func (p *chromePage) PressEscape(ctx context.Context) error {
	err := p.run(ctx, 5*time.Second, chromedp.KeyEvent(kb.Escape))
	if err != nil {
		return fmt.Errorf("failed to send escape: %w", err)
	}
	return nil
}

func (p *chromePage) Close() error {
	p.cancel()
	return nil
}
