package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
)

// Session is a browser tab with a deadline. Cancel releases the tab and
// the browser process.
type Session struct {
	Ctx    context.Context
	cancel []context.CancelFunc
}

// NewSession starts a browser, injects cookies and bounds the whole
// session by timeout
func NewSession(ctx context.Context, headless bool, cookies []*network.Cookie, timeout time.Duration) (*Session, error) {
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, Options(headless)...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	timeoutCtx, timeoutCancel := context.WithTimeout(browserCtx, timeout)

	s := &Session{
		Ctx:    timeoutCtx,
		cancel: []context.CancelFunc{timeoutCancel, browserCancel, allocCancel},
	}

	if err := InjectCookies(s.Ctx, cookies); err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to inject cookies: %w", err)
	}

	return s, nil
}

// Close tears the session down
func (s *Session) Close() {
	for _, c := range s.cancel {
		c()
	}
}

// InjectCookies sets cookies in the browser context
func InjectCookies(ctx context.Context, cookies []*network.Cookie) error {
	return chromedp.Run(ctx,
		chromedp.ActionFunc(func(ctx context.Context) error {
			for _, c := range cookies {
				err := network.SetCookie(c.Name, c.Value).
					WithDomain(c.Domain).
					WithPath(c.Path).
					WithSecure(c.Secure).
					WithHTTPOnly(c.HTTPOnly).
					WithSameSite(c.SameSite).
					Do(ctx)

				if err != nil {
					return err
				}
			}
			return nil
		}),
	)
}

// OuterHTML returns the rendered document
func OuterHTML(ctx context.Context) (string, error) {
	var html string
	if err := chromedp.Run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", err
	}
	return html, nil
}
