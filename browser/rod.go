package browser

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/ysmood/gson"

	"github.com/paisawise/pricewatch/models"
)

const stealthUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/125.0.0.0 Safari/537.36"

// RodOptions configures a rod-backed backend.
type RodOptions struct {
	Headless   bool
	NoSandbox  bool
	BrowserBin string

	// Stealth enables fingerprint suppression: stealth JS injection,
	// automation-flag removal, realistic headers and viewport.
	Stealth bool

	// VirtualDisplay is the X display to render on when a request asks
	// for one (stealth only). Used only if the display socket exists;
	// otherwise the backend stays headless.
	VirtualDisplay string

	// UseVirtualDisplay asks for windowed rendering under VirtualDisplay.
	UseVirtualDisplay bool
}

// RodBackend launches one Chromium process per page. The process dies with
// the page so attempts never share browser state.
type RodBackend struct {
	opts RodOptions
	log  *slog.Logger
}

// NewRodBackend creates a fast or stealth backend depending on opts.Stealth.
func NewRodBackend(opts RodOptions) *RodBackend {
	name := MethodFast
	if opts.Stealth {
		name = MethodStealth
	}
	return &RodBackend{
		opts: opts,
		log:  slog.Default().With("component", "browser", "backend", name),
	}
}

func (b *RodBackend) Name() string {
	if b.opts.Stealth {
		return MethodStealth
	}
	return MethodFast
}

// NewPage launches a browser and opens a blank tab. The returned page's
// Close kills the whole browser process.
func (b *RodBackend) NewPage(ctx context.Context) (Page, error) {
	l := launcher.New().
		Headless(b.headless()).
		NoSandbox(b.opts.NoSandbox)

	if b.opts.BrowserBin != "" {
		l = l.Bin(b.opts.BrowserBin)
	}

	if b.opts.Stealth {
		l.Set(flags.Flag("disable-blink-features"), "AutomationControlled")
		l.Delete(flags.Flag("enable-automation"))
		l.Set(flags.Flag("disable-features"), "AudioServiceOutOfProcess,TranslateUI")
		l.Set(flags.Flag("disable-infobars"))
		l.Set(flags.Flag("window-size"), "1920,1080")
		l.Set(flags.Flag("user-agent"), stealthUserAgent)
	}
	l.Set(flags.Flag("disable-dev-shm-usage"))
	l.Set(flags.Flag("no-first-run"))
	l.Set(flags.Flag("disable-default-apps"))
	l.Set(flags.Flag("disable-component-update"))

	if b.usingVirtualDisplay() {
		l = l.Env(append(os.Environ(), "DISPLAY="+b.opts.VirtualDisplay)...)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, models.NewExtractError(models.ErrCodeBrowserCrash, "failed to launch browser", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, models.NewExtractError(models.ErrCodeBrowserCrash, "failed to connect to browser", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = browser.Close()
		l.Kill()
		return nil, models.NewExtractError(models.ErrCodeBrowserCrash, "failed to open page", err)
	}

	if b.opts.Stealth {
		if _, evalErr := page.EvalOnNewDocument(stealth.JS); evalErr != nil {
			b.log.Warn("stealth injection failed, proceeding without stealth", "error", evalErr)
		}
		_ = page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
			Width: 1920, Height: 1080, DeviceScaleFactor: 1,
		})
	} else {
		// The fast backend never renders, so skip images, fonts and
		// media to cut navigation time.
		mountResourceBlock(page)
	}

	return &rodPage{page: page, browser: browser, launcher: l, log: b.log}, nil
}

func (b *RodBackend) headless() bool {
	if b.usingVirtualDisplay() {
		return false
	}
	return b.opts.Headless
}

func (b *RodBackend) usingVirtualDisplay() bool {
	if !b.opts.Stealth || !b.opts.UseVirtualDisplay || b.opts.VirtualDisplay == "" {
		return false
	}
	// Xvfb display ":99" listens on /tmp/.X11-unix/X99.
	sock := "/tmp/.X11-unix/X" + strings.TrimPrefix(b.opts.VirtualDisplay, ":")
	if _, err := os.Stat(sock); err != nil {
		return false
	}
	return true
}

// mountResourceBlock installs a hijack router that fails image, font and
// media requests. Runs for the lifetime of the page.
func mountResourceBlock(page *rod.Page) {
	blocked := map[proto.NetworkResourceType]struct{}{
		proto.NetworkResourceTypeImage: {},
		proto.NetworkResourceTypeFont:  {},
		proto.NetworkResourceTypeMedia: {},
	}
	router := page.HijackRequests()
	_ = router.Add("*", "", func(ctx *rod.Hijack) {
		if _, skip := blocked[ctx.Request.Type()]; skip {
			ctx.Response.Fail(proto.NetworkErrorReasonBlockedByClient)
			return
		}
		ctx.ContinueRequest(&proto.FetchContinueRequest{})
	})
	go router.Run()
}

// rodPage adapts *rod.Page to the Page interface. One browser process per
// page; Close tears everything down.
type rodPage struct {
	page     *rod.Page
	browser  *rod.Browser
	launcher *launcher.Launcher
	log      *slog.Logger
}

func (p *rodPage) Navigate(ctx context.Context, target string) error {
	bound := p.page.Context(ctx)

	// A plausible Referer helps against the cheapest bot checks.
	if u, err := url.Parse(target); err == nil {
		headers := proto.NetworkHeaders{
			"Referer": gson.New("https://www.google.com/search?q=" + url.QueryEscape(u.Hostname())),
		}
		_ = proto.NetworkSetExtraHTTPHeaders{Headers: headers}.Call(bound)
	}

	if err := bound.Navigate(target); err != nil {
		return categorizeNavError(err)
	}
	if err := bound.WaitDOMStable(300*time.Millisecond, 0.1); err != nil {
		// Non-converging DOM is common on ad-heavy storefronts; take
		// the page as-is rather than failing the attempt.
		p.log.Debug("DOM did not stabilize, proceeding", "url", target, "error", err)
	}
	return nil
}

func (p *rodPage) CurrentURL() string {
	res, err := p.page.Eval(`() => window.location.href`)
	if err != nil {
		return ""
	}
	return res.Value.Str()
}

func (p *rodPage) Title() string {
	res, err := p.page.Eval(`() => document.title`)
	if err != nil {
		return ""
	}
	return res.Value.Str()
}

func (p *rodPage) HTML() string {
	html, err := p.page.HTML()
	if err != nil {
		return ""
	}
	return html
}

func (p *rodPage) Query(selector string) Element {
	el, err := p.page.Sleeper(rod.NotFoundSleeper).Element(selector)
	if err != nil || el == nil {
		return nil
	}
	return &rodElement{el: el}
}

func (p *rodPage) QueryAll(selector string) []Element {
	els, err := p.page.Elements(selector)
	if err != nil {
		return nil
	}
	out := make([]Element, 0, len(els))
	for _, el := range els {
		out = append(out, &rodElement{el: el})
	}
	return out
}

func (p *rodPage) QueryXPath(xpath string) []Element {
	els, err := p.page.ElementsX(xpath)
	if err != nil {
		return nil
	}
	out := make([]Element, 0, len(els))
	for _, el := range els {
		out = append(out, &rodElement{el: el})
	}
	return out
}

func (p *rodPage) Eval(js string) (string, error) {
	res, err := p.page.Eval(js)
	if err != nil {
		return "", err
	}
	return res.Value.Str(), nil
}

func (p *rodPage) Close() error {
	err := p.page.Close()
	if cerr := p.browser.Close(); err == nil {
		err = cerr
	}
	p.launcher.Kill()
	return err
}

// rodElement adapts *rod.Element. All failures collapse to zero values.
type rodElement struct {
	el *rod.Element
}

func (e *rodElement) Text() string {
	text, err := e.el.Text()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(text)
}

func (e *rodElement) Attr(name string) string {
	val, err := e.el.Attribute(name)
	if err != nil || val == nil {
		return ""
	}
	return *val
}

func (e *rodElement) Visible() bool {
	visible, err := e.el.Visible()
	if err != nil {
		return false
	}
	return visible
}

func (e *rodElement) Parent() Element {
	parent, err := e.el.Parent()
	if err != nil || parent == nil {
		return nil
	}
	return &rodElement{el: parent}
}

func (e *rodElement) Eval(js string) string {
	res, err := e.el.Eval(js)
	if err != nil {
		return ""
	}
	return res.Value.Str()
}

func categorizeNavError(err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return models.NewExtractError(models.ErrCodeTimeout, "navigation deadline exceeded", err)
	case errors.Is(err, context.Canceled):
		return models.NewExtractError(models.ErrCodeTimeout, "navigation canceled", err)
	default:
		return models.NewExtractError(models.ErrCodeNavigation, "navigation to target URL failed", err)
	}
}
