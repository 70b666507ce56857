package crawler

import (
	"context"
	"time"

	"cafepick/menuworker/internal/browser"
	"cafepick/menuworker/logger"
)

// TimeoutAction decides what happens when a bounded wait elapses
type TimeoutAction int

const (
	// ProceedOnTimeout logs a warning and continues with whatever is on
	// the page. Partial extraction beats total failure.
	ProceedOnTimeout TimeoutAction = iota
	// AbortOnTimeout surfaces the timeout to the caller
	AbortOnTimeout
)

// WaitPolicy makes the failure-tolerance of a bounded wait explicit
// instead of scattering magic numbers through the strategies.
type WaitPolicy struct {
	MaxWait   time.Duration
	OnTimeout TimeoutAction
}

// readyPolicy is the default page-readiness wait
var readyPolicy = WaitPolicy{MaxWait: 10 * time.Second, OnTimeout: ProceedOnTimeout}

// Wait blocks until the selector is visible on the page or MaxWait
// elapses, then applies the configured timeout action.
func (p WaitPolicy) Wait(ctx context.Context, page browser.Page, selector string, log *logger.Logger) error {
	if page == nil || selector == "" {
		return nil
	}
	err := page.WaitVisible(ctx, selector, p.MaxWait)
	if err == nil {
		return nil
	}
	if p.OnTimeout == ProceedOnTimeout {
		log.Warn().
			Str("selector", selector).
			Dur("max_wait", p.MaxWait).
			Msg("Wait timed out, proceeding with partial content")
		return nil
	}
	return err
}
