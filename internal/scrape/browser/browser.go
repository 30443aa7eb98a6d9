// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package browser renders JS-heavy career pages (Workday, iCIMS,
// SuccessFactors) with headless Chrome and extracts the posting fields
// the static scrapers cannot see.
package browser

import (
	"context"
	"os"
	"time"

	"github.com/chromedp/chromedp"
)

const renderTimeout = 60 * time.Second

// descriptionJS tries the tracking systems' known description containers
// before falling back to the whole page body.
const descriptionJS = `(() => {
	const selectors = [
		'[data-automation-id="jobPostingDescription"]',
		'[class*="job-description"]',
		'[class*="jobDescription"]',
		'article', 'main', '[role="main"]'
	];
	for (const sel of selectors) {
		const el = document.querySelector(sel);
		if (el && el.textContent.trim().length > 200) {
			return el.textContent.trim();
		}
	}
	return document.body ? document.body.textContent.trim().substring(0, 10000) : '';
})()`

const titleJS = `(() => {
	const h1 = document.querySelector('h1');
	return h1 ? h1.textContent.trim() : '';
})()`

const locationJS = `(() => {
	const el = document.querySelector('[class*="location"], [data-automation*="location"]');
	return el ? el.textContent.trim() : '';
})()`

// Chrome renders pages with a headless Chrome instance per call.
type Chrome struct {
	// UserAgent is sent with page requests.
	UserAgent string
}

// Render loads url, waits for the app to paint, and pulls out the title,
// location, and description. CHROME_PATH overrides the browser binary.
func (c *Chrome) Render(ctx context.Context, url string) (title, location, description string, err error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if c.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(c.UserAgent))
	}
	if p := os.Getenv("CHROME_PATH"); p != "" {
		opts = append(opts, chromedp.ExecPath(p))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	cctx, cancelCtx := chromedp.NewContext(allocCtx)
	defer cancelCtx()

	runCtx, cancelRun := context.WithTimeout(cctx, renderTimeout)
	defer cancelRun()

	err = chromedp.Run(runCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		// Give the SPA time to fetch and render the posting.
		chromedp.Sleep(3*time.Second),
		chromedp.Evaluate(titleJS, &title),
		chromedp.Evaluate(locationJS, &location),
		chromedp.Evaluate(descriptionJS, &description),
	)
	if err != nil {
		return "", "", "", err
	}
	return title, location, description, nil
}
