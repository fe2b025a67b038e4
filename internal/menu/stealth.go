package menu

import (
	"context"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// Session configuration that lets the headless browser pass for a desktop
// one. Kept apart from the scraping flow so it can be updated on its own when
// the provider's bot detection changes.

const desktopUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36"

// stealthScript runs before any page script: it hides the automation flag,
// fakes a plugin list and language list, and patches permissions.query, the
// usual headless fingerprints.
const stealthScript = `
Object.defineProperty(navigator, 'webdriver', {get: () => undefined});
Object.defineProperty(navigator, 'plugins', {get: () => [1, 2, 3, 4, 5]});
Object.defineProperty(navigator, 'languages', {get: () => ['fr-FR', 'fr', 'en']});
const originalQuery = window.navigator.permissions.query.bind(window.navigator.permissions);
window.navigator.permissions.query = (parameters) => (
  parameters.name === 'notifications'
    ? Promise.resolve({state: Notification.permission})
    : originalQuery(parameters)
);
`

// allocatorOptions returns the browser launch options for one isolated,
// headless session in the target market's locale.
func allocatorOptions(locale string, headless bool) []chromedp.ExecAllocatorOption {
	return append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", headless),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("lang", locale),
		chromedp.UserAgent(desktopUserAgent),
		chromedp.WindowSize(1440, 900),
	)
}

// applyStealth installs the fingerprint overrides for every document the
// session loads.
func applyStealth() chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		_, err := page.AddScriptToEvaluateOnNewDocument(stealthScript).Do(ctx)
		return err
	})
}
