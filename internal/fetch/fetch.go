// Package fetch renders live pages with a headless browser and hands their
// serialized DOM to the path engine. Declarative shadow roots survive the
// round trip; closed shadow roots and cross-origin frames do not.
package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/mkarolys/pagepath/internal/config"
)

// Snapshotter navigates to URLs and captures the document's outer HTML after
// load settles.
type Snapshotter struct {
	cfg config.FetchConfig
	log *zap.Logger
}

// NewSnapshotter builds a Snapshotter from fetch configuration.
func NewSnapshotter(cfg config.FetchConfig, log *zap.Logger) *Snapshotter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Snapshotter{cfg: cfg, log: log}
}

// Snapshot loads the URL in a fresh browser context and returns the page's
// outer HTML. The whole navigation is bounded by the configured timeout.
func (s *Snapshotter) Snapshot(ctx context.Context, url string) (string, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", s.cfg.Headless),
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
	)
	if s.cfg.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(s.cfg.UserAgent))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	timeout := s.cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	runCtx, cancelRun := context.WithTimeout(browserCtx, timeout)
	defer cancelRun()

	s.log.Debug("fetching page", zap.String("url", url))

	var outer string
	actions := []chromedp.Action{chromedp.Navigate(url)}
	if s.cfg.WaitAfterLoad > 0 {
		// Give client-side rendering a moment to fill the tree in.
		actions = append(actions, chromedp.Sleep(s.cfg.WaitAfterLoad))
	}
	actions = append(actions, chromedp.OuterHTML("html", &outer, chromedp.ByQuery))

	if err := chromedp.Run(runCtx, actions...); err != nil {
		return "", fmt.Errorf("snapshot %s: %w", url, err)
	}

	s.log.Debug("page fetched", zap.String("url", url), zap.Int("bytes", len(outer)))
	return outer, nil
}
