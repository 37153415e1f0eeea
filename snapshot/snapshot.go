package snapshot

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/chromedp/chromedp"

	"pricelabs-dash/utils"
)

// Options describes one capture of the dashboard page.
type Options struct {
	URL       string
	OutPath   string
	Dark      bool
	ChromeBin string
	Timeout   time.Duration
	Width     int64
	Height    int64
	Quality   int
}

func (o Options) withDefaults() Options {
	if o.Timeout <= 0 {
		o.Timeout = 60 * time.Second
	}
	if o.Width <= 0 {
		o.Width = 1440
	}
	if o.Height <= 0 {
		o.Height = 900
	}
	if o.Quality <= 0 || o.Quality > 100 {
		o.Quality = 90
	}
	return o
}

// Capturer renders the dashboard in headless Chrome and saves a
// full-page screenshot.
type Capturer struct {
	logger *utils.Logger
}

// New creates a Capturer.
func New(logger *utils.Logger) *Capturer {
	return &Capturer{logger: logger}
}

// Capture loads opts.URL and writes the screenshot to opts.OutPath.
func (c *Capturer) Capture(ctx context.Context, opts Options) error {
	opts = opts.withDefaults()
	start := time.Now()

	target, err := themedURL(opts.URL, opts.Dark)
	if err != nil {
		return err
	}

	chromeBin := findChromeBinary(opts.ChromeBin)
	c.logger.Info("[snapshot] Using browser binary: %s", chromeBin)

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.WindowSize(int(opts.Width), int(opts.Height)),
	)
	if chromeBin != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer cancelAlloc()

	// Suppress chromedp log noise
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelBrowser()

	runCtx, cancelTimeout := context.WithTimeout(browserCtx, opts.Timeout)
	defer cancelTimeout()

	c.logger.Info("[snapshot] Capturing %s", target)
	var buf []byte
	err = chromedp.Run(runCtx,
		chromedp.EmulateViewport(opts.Width, opts.Height),
		chromedp.Navigate(target),
		chromedp.WaitVisible("footer", chromedp.ByQuery),
		chromedp.FullScreenshot(&buf, opts.Quality),
	)
	if err != nil {
		return fmt.Errorf("snapshot: capture %s: %w", target, err)
	}

	if err := os.MkdirAll(filepath.Dir(opts.OutPath), 0755); err != nil {
		return fmt.Errorf("snapshot: create output dir: %w", err)
	}
	if err := os.WriteFile(opts.OutPath, buf, 0644); err != nil {
		return fmt.Errorf("snapshot: write %q: %w", opts.OutPath, err)
	}

	c.logger.Info("[snapshot] Saved %d bytes to %s", len(buf), opts.OutPath)
	c.logger.Elapsed(start, "[snapshot] Capture")
	return nil
}

// themedURL pins the page theme for a capture.
func themedURL(base string, dark bool) (string, error) {
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("snapshot: invalid dashboard URL %q", base)
	}
	q := u.Query()
	if dark {
		q.Set("theme", "dark")
	} else {
		q.Set("theme", "light")
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// findChromeBinary prefers an explicit path, then CHROME_BIN, then the
// usual install locations. Empty means let chromedp search.
func findChromeBinary(override string) string {
	if override != "" {
		return override
	}
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
		"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
