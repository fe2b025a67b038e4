package menu

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"fresh2mealie/internal/config"
	"fresh2mealie/internal/week"
)

// Candidate selector lists for the required page interactions. The provider's
// markup changes without notice, so every interaction tries an ordered list
// of locators until one succeeds; exhausting a list is a hard failure for
// required elements and a silent skip for optional ones.
var (
	cookieSelectors = []string{
		"#onetrust-accept-btn-handler",
		"[data-test-id*='accept']",
		"[id*='accept-cookies']",
		"button[class*='cookie'][class*='accept']",
	}
	emailSelectors = []string{
		"input[type='email']",
		"input[name='email']",
		"#email",
	}
	passwordSelectors = []string{
		"input[type='password']",
		"input[name='password']",
		"#password",
	}
	submitSelectors = []string{
		"button[type='submit']",
		"[data-test-id='login-submit']",
	}
)

const (
	authenticatedPathMarker = "/my-account/"
	authWaitTimeout         = 15 * time.Second
	navigationTimeout       = 60 * time.Second
	menuRegionTimeout       = 20 * time.Second
	candidateTimeout        = 3 * time.Second
)

// Extractor drives a headless browser session through the provider's
// authentication flow and scrapes the weekly menu page.
type Extractor struct {
	cfg *config.Config
	log *zap.Logger
}

// NewExtractor creates a new menu extractor.
func NewExtractor(cfg *config.Config, log *zap.Logger) *Extractor {
	return &Extractor{cfg: cfg, log: log}
}

// WeekTitles opens a fresh browser session, authenticates, and returns the
// recipe titles on the menu for the calendar week weekOffset weeks from now.
// Complimentary items are dropped. Authentication failure or a missing menu
// region aborts the extraction with a diagnostic screenshot; no partial
// result is ever returned. The session is always released on exit.
func (e *Extractor) WeekTitles(ctx context.Context, weekOffset int) ([]string, error) {
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx,
		allocatorOptions(e.cfg.HelloFresh.Locale, !e.cfg.DebugMode)...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	if err := chromedp.Run(browserCtx, applyStealth()); err != nil {
		return nil, fmt.Errorf("failed to start browser session: %w", err)
	}

	if err := e.authenticate(browserCtx); err != nil {
		e.screenshot(browserCtx, "auth_failure")
		return nil, err
	}

	label := week.Label(time.Now(), weekOffset)
	e.log.Info("fetching weekly menu", zap.String("week", label))

	if err := e.navigate(browserCtx, e.menuURL(label)); err != nil {
		e.screenshot(browserCtx, "menu_navigation_failure")
		return nil, fmt.Errorf("failed to open menu page: %w", err)
	}
	pause()

	html, err := e.menuRegionHTML(browserCtx)
	if err != nil {
		e.screenshot(browserCtx, "menu_region_missing")
		return nil, fmt.Errorf("weekly menu region %q not found: %w", menuRegionSelector, err)
	}

	items, err := ParseWeeklyMenu(html)
	if err != nil {
		return nil, err
	}

	titles := make([]string, 0, len(items))
	for _, item := range items {
		if item.Complimentary {
			e.log.Debug("skipping complimentary item", zap.String("title", item.Title))
			continue
		}
		titles = append(titles, item.Title)
	}

	e.log.Info("extracted weekly menu", zap.Int("recipes", len(titles)), zap.String("week", label))
	return titles, nil
}

// authenticate reaches the authenticated account area, either through the
// pre-issued access link or, when none is configured, through the legacy
// login form.
func (e *Extractor) authenticate(ctx context.Context) error {
	hf := e.cfg.HelloFresh

	if hf.MagicLink != "" {
		e.log.Debug("opening access link")
		if err := e.navigate(ctx, hf.MagicLink); err != nil {
			return fmt.Errorf("failed to open access link: %w", err)
		}
		e.acceptCookies(ctx)
		return e.waitAuthenticated(ctx)
	}

	if hf.Email == "" || hf.Password == "" {
		return fmt.Errorf("no access link configured and no credentials to fall back on")
	}

	e.log.Debug("logging in with credentials")
	if err := e.navigate(ctx, hf.BaseURL+"/login"); err != nil {
		return fmt.Errorf("failed to open login page: %w", err)
	}
	e.acceptCookies(ctx)

	if err := e.fillFirst(ctx, emailSelectors, hf.Email); err != nil {
		return fmt.Errorf("email field: %w", err)
	}
	pause()
	if err := e.fillFirst(ctx, passwordSelectors, hf.Password); err != nil {
		return fmt.Errorf("password field: %w", err)
	}
	pause()
	if err := e.clickFirst(ctx, submitSelectors); err != nil {
		return fmt.Errorf("submit button: %w", err)
	}

	return e.waitAuthenticated(ctx)
}

// waitAuthenticated polls the page URL until it reaches the account area,
// with one grace re-check after the deadline.
func (e *Extractor) waitAuthenticated(ctx context.Context) error {
	deadline := time.Now().Add(authWaitTimeout)
	for time.Now().Before(deadline) {
		if e.onAuthenticatedPage(ctx) {
			e.log.Debug("authenticated")
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(500 * time.Millisecond):
		}
	}

	time.Sleep(3 * time.Second)
	if e.onAuthenticatedPage(ctx) {
		e.log.Debug("authenticated")
		return nil
	}
	return fmt.Errorf("authentication failed: account area not reached within %s", authWaitTimeout)
}

func (e *Extractor) onAuthenticatedPage(ctx context.Context) bool {
	var location string
	tctx, cancel := context.WithTimeout(ctx, candidateTimeout)
	defer cancel()
	if err := chromedp.Run(tctx, chromedp.Location(&location)); err != nil {
		return false
	}
	return strings.Contains(location, authenticatedPathMarker)
}

// acceptCookies dismisses the consent dialog when one shows up. Optional: if
// no candidate matches, the extraction continues.
func (e *Extractor) acceptCookies(ctx context.Context) {
	if err := e.clickFirst(ctx, cookieSelectors); err != nil {
		e.log.Debug("no cookie consent dialog found")
		return
	}
	e.log.Debug("cookie consent accepted")
	pause()
}

func (e *Extractor) navigate(ctx context.Context, url string) error {
	tctx, cancel := context.WithTimeout(ctx, navigationTimeout)
	defer cancel()
	return chromedp.Run(tctx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
}

// fillFirst tries each candidate selector until one accepts the value.
func (e *Extractor) fillFirst(ctx context.Context, selectors []string, value string) error {
	for _, sel := range selectors {
		tctx, cancel := context.WithTimeout(ctx, candidateTimeout)
		err := chromedp.Run(tctx,
			chromedp.WaitVisible(sel, chromedp.ByQuery),
			chromedp.Clear(sel, chromedp.ByQuery),
			chromedp.SendKeys(sel, value, chromedp.ByQuery),
		)
		cancel()
		if err == nil {
			return nil
		}
	}
	return fmt.Errorf("no candidate selector matched: %s", strings.Join(selectors, ", "))
}

// clickFirst tries each candidate selector until one click lands.
func (e *Extractor) clickFirst(ctx context.Context, selectors []string) error {
	for _, sel := range selectors {
		tctx, cancel := context.WithTimeout(ctx, candidateTimeout)
		err := chromedp.Run(tctx,
			chromedp.WaitVisible(sel, chromedp.ByQuery),
			chromedp.Click(sel, chromedp.ByQuery),
		)
		cancel()
		if err == nil {
			return nil
		}
	}
	return fmt.Errorf("no candidate selector matched: %s", strings.Join(selectors, ", "))
}

// menuRegionHTML captures the weekly-menu region's markup. A missing region
// is a structural failure, not an empty menu.
func (e *Extractor) menuRegionHTML(ctx context.Context) (string, error) {
	tctx, cancel := context.WithTimeout(ctx, menuRegionTimeout)
	defer cancel()

	var html string
	if err := chromedp.Run(tctx, chromedp.OuterHTML(menuRegionSelector, &html, chromedp.ByQuery)); err != nil {
		return "", err
	}
	return html, nil
}

func (e *Extractor) menuURL(weekLabel string) string {
	hf := e.cfg.HelloFresh
	return fmt.Sprintf("%s/my-account/deliveries/menu?week=%s&subscriptionId=%s&locale=%s",
		hf.BaseURL, weekLabel, hf.SubscriptionID, hf.Locale)
}

// screenshot captures a diagnostic image at a failure checkpoint. Best
// effort: screenshot problems never mask the original failure.
func (e *Extractor) screenshot(ctx context.Context, name string) {
	if e.cfg.ScreenshotDir == "" {
		return
	}

	tctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var buf []byte
	if err := chromedp.Run(tctx, chromedp.CaptureScreenshot(&buf)); err != nil {
		e.log.Debug("failed to capture screenshot", zap.Error(err))
		return
	}

	path := filepath.Join(e.cfg.ScreenshotDir, "hellofresh_"+name+".png")
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		e.log.Debug("failed to write screenshot", zap.Error(err))
		return
	}
	e.log.Info("diagnostic screenshot captured", zap.String("path", path))
}

// pause sleeps a small jittered delay between interactions to resemble human
// pacing. Not a correctness mechanism.
func pause() {
	time.Sleep(time.Duration(800+rand.Intn(900)) * time.Millisecond)
}
