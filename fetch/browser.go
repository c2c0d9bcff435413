package fetch

import (
	"context"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// Browser renders a page in headless Chrome and returns the resulting HTML.
// Used as an opt-in fetch path for articles whose static HTML carries no
// content; disabled unless configured.
type Browser struct {
	logger          *zap.Logger
	ChromedpOptions []chromedp.ExecAllocatorOption
}

func NewBrowser(logger *zap.Logger, proxyURL string) *Browser {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.DisableGPU,
		chromedp.NoSandbox,
		chromedp.Headless,
		chromedp.UserAgent(DesktopUserAgent),
		chromedp.Flag("accept-language", "en-US,en;q=0.9"),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("exclude-switches", "enable-automation"),
	)
	if proxyURL != "" {
		opts = append(opts, chromedp.ProxyServer(proxyURL))
	}
	return &Browser{
		logger:          logger,
		ChromedpOptions: opts,
	}
}

// RenderHTML navigates to pageURL and returns the outer HTML after the DOM
// settles.
func (b *Browser) RenderHTML(ctx context.Context, pageURL string) (string, error) {
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, b.ChromedpOptions...)
	defer allocCancel()
	taskCtx, taskCancel := chromedp.NewContext(allocCtx)
	defer taskCancel()
	timeoutCtx, timeoutCancel := context.WithTimeout(taskCtx, 60*time.Second)
	defer timeoutCancel()

	b.logger.Info("Rendering page in headless browser", zap.String("url", pageURL))

	var html string
	err := chromedp.Run(timeoutCtx,
		chromedp.Navigate(pageURL),
		chromedp.Sleep(2*time.Second),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", err
	}
	return html, nil
}
