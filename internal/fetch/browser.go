package fetch

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/chromedp/chromedp"
)

// RenderOptions controls one page render.
type RenderOptions struct {
	// WaitSelector is the content-ready signal. Rendering proceeds after it
	// appears or WaitTimeout elapses, whichever comes first.
	WaitSelector string
	WaitTimeout  time.Duration
	// Scroll scrolls to the bottom of the page to trigger lazy loading.
	Scroll  bool
	Verbose bool
}

// DefaultWaitTimeout bounds the wait for the content-ready selector.
const DefaultWaitTimeout = 10 * time.Second

// RenderPage navigates to a URL in a headless browser, waits for content,
// and returns the rendered HTML.
func RenderPage(ctx context.Context, url string, opts RenderOptions) (string, error) {
	if opts.WaitTimeout == 0 {
		opts.WaitTimeout = DefaultWaitTimeout
	}

	if opts.Verbose {
		log.Printf("[browser] rendering %s", url)
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, 60*time.Second)
	defer cancel()

	actions := []chromedp.Action{
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
	}

	if opts.WaitSelector != "" {
		// The selector not appearing is not fatal; extraction strategies
		// fall through on their own when the page yields nothing.
		actions = append(actions, chromedp.ActionFunc(func(ctx context.Context) error {
			waitCtx, waitCancel := context.WithTimeout(ctx, opts.WaitTimeout)
			defer waitCancel()
			if err := chromedp.WaitVisible(opts.WaitSelector).Do(waitCtx); err != nil {
				if opts.Verbose {
					log.Printf("[browser] wait selector %q not found: %v", opts.WaitSelector, err)
				}
			}
			return nil
		}))
	} else {
		actions = append(actions, chromedp.Sleep(3*time.Second))
	}

	if opts.Scroll {
		actions = append(actions,
			chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`, nil),
			chromedp.Sleep(1*time.Second),
		)
	}

	var html string
	actions = append(actions, chromedp.OuterHTML("html", &html))

	if err := chromedp.Run(browserCtx, actions...); err != nil {
		return "", fmt.Errorf("browser rendering failed: %w", err)
	}

	if opts.Verbose {
		log.Printf("[browser] rendered %d bytes", len(html))
	}

	return html, nil
}
