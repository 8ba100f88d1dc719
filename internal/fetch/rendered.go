package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"
)

// Rendered fetches pages whose content only exists after page scripts run,
// using a headless browser. The contract with the page is "wait up to the
// timeout for the wait selector, else fail"; an optional settle delay gives
// slow tables time to finish filling in after the first row appears.
type Rendered struct {
	waitSelector string
	timeout      time.Duration
	settle       time.Duration
	logger       *slog.Logger
}

// NewRendered creates a headless-browser fetcher that waits for the given
// selector to become visible before capturing the document.
func NewRendered(waitSelector string, timeout, settle time.Duration, logger *slog.Logger) *Rendered {
	return &Rendered{
		waitSelector: waitSelector,
		timeout:      timeout,
		settle:       settle,
		logger:       logger,
	}
}

// Fetch navigates to the page, waits for the rendered content, and parses
// the resulting DOM. A fresh browser is launched per fetch: runs are
// minutes apart and a persistent browser is one more thing to leak.
func (f *Rendered) Fetch(ctx context.Context, url string) (*goquery.Document, error) {
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.UserAgent(userAgent),
	)...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	runCtx, cancelRun := context.WithTimeout(browserCtx, f.timeout)
	defer cancelRun()

	f.logger.Debug("rendering page", "url", url, "wait_selector", f.waitSelector)

	tasks := chromedp.Tasks{
		chromedp.Navigate(url),
		chromedp.WaitVisible(f.waitSelector, chromedp.ByQuery),
	}
	if f.settle > 0 {
		tasks = append(tasks, chromedp.Sleep(f.settle))
	}
	var html string
	tasks = append(tasks, chromedp.OuterHTML("html", &html, chromedp.ByQuery))

	if err := chromedp.Run(runCtx, tasks); err != nil {
		return nil, fmt.Errorf("render %s: %w", url, err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse rendered %s: %w", url, err)
	}
	return doc, nil
}
