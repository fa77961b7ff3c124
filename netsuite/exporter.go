package netsuite

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/browser"
	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/erpsync/netsuite-app-sheets/config"
)

// ErrAuthentication indicates the NetSuite login or a security question answer was rejected.
var ErrAuthentication = errors.New("netsuite authentication failed")

// ErrDownloadTimeout indicates the exported report file never materialized within the bounded wait.
var ErrDownloadTimeout = errors.New("report download timed out")

const loginURL = "https://system.netsuite.com/pages/customerlogin.jsp"

const (
	pageTimeout      = 60 * time.Second
	elementTimeout   = 5 * time.Second
	downloadTimeout  = 120 * time.Second
	settleDelay      = 3 * time.Second
	securityAttempts = 5
)

var emailSelectors = []string{
	`input[name="email"]`,
	`input#email`,
	`input[type="email"]`,
}

var passwordSelectors = []string{
	`input[name="password"]`,
	`input#password`,
	`input[type="password"]`,
}

var submitSelectors = []string{
	`input[type="submit"]`,
	`button[type="submit"]`,
	`#login-submit`,
}

var questionSelectors = []string{
	`label[for="answer"]`,
	`.uir-field-wrapper label`,
	`form td.smalltextnolink`,
}

var answerSelectors = []string{
	`input[name="answer"]`,
	`input#answer`,
	`input[type="text"]`,
}

var exportSelectors = []string{
	`[id*="csv"]`,
	`img[alt*="CSV"]`,
	`img[alt*="Excel"]`,
	`[id*="excel"]`,
	`a[id*="export"]`,
	`div[id*="export"]`,
	`input[value*="Export"]`,
}

// rewrites a saved search results page URL to the equivalent XML spreadsheet export URL
const exportScript = `(function() {
	var url = window.location.href.replace('searchresults.nl', 'searchresults.xls');
	if (url.indexOf('csv=') === -1) {
		url += '&csv=Export&OfficeXML=T&size=1000';
	}
	window.location.href = url;
})()`

// Exporter drives a headless browser session against NetSuite: login (including
// security question challenges), report/saved search export and download. It is
// not safe for concurrent use - the pipeline is strictly sequential.
type Exporter struct {
	credentials config.Credentials
	answers     *Answers
	downloadDir string
	headless    bool
	logger      *zap.Logger

	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
	downloads   chan string

	guard     sync.Mutex
	filenames map[string]string // download GUID -> suggested filename
}

func NewExporter(credentials config.Credentials, downloadDir string, headless bool, logger *zap.Logger) *Exporter {
	if downloadDir == "" {
		downloadDir = filepath.Join(os.TempDir(), fmt.Sprintf("netsuite-%s", uuid.NewString()))
	}

	return &Exporter{
		credentials: credentials,
		answers:     NewAnswers(credentials.SecurityAnswers),
		downloadDir: downloadDir,
		headless:    headless,
		logger:      logger,
		downloads:   make(chan string, 8),
		filenames:   map[string]string{},
	}
}

// DownloadDir returns the directory downloaded report files are written to.
func (e *Exporter) DownloadDir() string {
	return e.downloadDir
}

// Start launches the browser and routes downloads to the session download directory.
func (e *Exporter) Start(ctx context.Context) error {
	if err := os.MkdirAll(e.downloadDir, 0770); err != nil {
		return err
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", e.headless),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.WindowSize(1920, 1080),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, cancel := chromedp.NewContext(allocCtx)

	e.ctx = browserCtx
	e.cancel = cancel
	e.allocCancel = allocCancel

	chromedp.ListenTarget(browserCtx, func(event any) {
		switch v := event.(type) {
		case *browser.EventDownloadWillBegin:
			e.guard.Lock()
			e.filenames[v.GUID] = v.SuggestedFilename
			e.guard.Unlock()

		case *browser.EventDownloadProgress:
			if v.State == browser.DownloadProgressStateCompleted {
				select {
				case e.downloads <- v.GUID:
				default:
				}
			}
		}
	})

	if err := chromedp.Run(browserCtx,
		browser.SetDownloadBehavior(browser.SetDownloadBehaviorBehaviorAllowAndName).
			WithDownloadPath(e.downloadDir).
			WithEventsEnabled(true)); err != nil {
		return fmt.Errorf("unable to start browser (%v)", err)
	}

	return nil
}

// Close releases the browser session. Cookies and cache do not outlive the
// browser process; downloaded files are left to the caller.
func (e *Exporter) Close() {
	if e.cancel != nil {
		e.cancel()
	}

	if e.allocCancel != nil {
		e.allocCancel()
	}
}

// Login authenticates against NetSuite, answering a security question challenge
// from the configured answer list when one is presented.
func (e *Exporter) Login(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	e.logger.Info("logging in to NetSuite", zap.String("url", loginURL))

	navigate, cancel := context.WithTimeout(e.ctx, pageTimeout)
	defer cancel()

	if err := chromedp.Run(navigate,
		chromedp.Navigate(loginURL),
		chromedp.WaitReady(`body`, chromedp.ByQuery)); err != nil {
		return fmt.Errorf("unable to open login page (%v)", err)
	}

	if err := e.fill(emailSelectors, e.credentials.Email, "email"); err != nil {
		return fmt.Errorf("%w: %v", ErrAuthentication, err)
	}

	if err := e.fill(passwordSelectors, e.credentials.Password, "password"); err != nil {
		return fmt.Errorf("%w: %v", ErrAuthentication, err)
	}

	if err := e.click(submitSelectors, "login button"); err != nil {
		return fmt.Errorf("%w: %v", ErrAuthentication, err)
	}

	e.settle()

	location, err := e.location()
	if err != nil {
		return err
	}

	if isSecurityPage(location) {
		if err := e.answerSecurityQuestions(); err != nil {
			return err
		}

		if location, err = e.location(); err != nil {
			return err
		}
	}

	if strings.Contains(strings.ToLower(location), "customerlogin") || isSecurityPage(location) {
		banner := e.errorBanner()
		return fmt.Errorf("%w: login rejected at %s (%s)", ErrAuthentication, location, banner)
	}

	e.logger.Info("NetSuite login succeeded", zap.String("location", location))

	// ... establish the account session (non-fatal, the report URLs carry the account host)
	session, cancel := context.WithTimeout(e.ctx, pageTimeout)
	defer cancel()

	if err := chromedp.Run(session, chromedp.Navigate(e.credentials.BaseURL)); err != nil {
		e.logger.Warn("unable to establish account session", zap.Error(err))
	}

	return nil
}

// Export navigates to a report or saved search page, triggers the export action
// and waits for the downloaded file to materialize. It returns the local file path.
func (e *Exporter) Export(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	e.logger.Info("exporting NetSuite report", zap.String("url", url))

	// The download directory and completion channel are shared across exports,
	// so discard anything left over from a previous report before triggering
	// this one.
	e.drainDownloads()
	started := time.Now()

	if isSavedSearch(url) {
		return e.exportSavedSearch(url, started)
	}

	navigate, cancel := context.WithTimeout(e.ctx, pageTimeout)
	defer cancel()

	if err := chromedp.Run(navigate,
		chromedp.Navigate(url),
		chromedp.WaitReady(`body`, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("unable to open report page (%v)", err)
	}

	e.settle()

	if err := e.click(exportSelectors, "export control"); err != nil {
		return "", fmt.Errorf("unable to trigger report export (%v)", err)
	}

	return e.waitForDownload(started)
}

func (e *Exporter) exportSavedSearch(url string, started time.Time) (string, error) {
	navigate, cancel := context.WithTimeout(e.ctx, pageTimeout)
	defer cancel()

	if err := chromedp.Run(navigate,
		chromedp.Navigate(url),
		chromedp.WaitReady(`body`, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("unable to open saved search page (%v)", err)
	}

	e.settle()

	// ... prefer the export URL rewrite - the export controls on search result
	//     pages vary across NetSuite releases
	script, cancel := context.WithTimeout(e.ctx, elementTimeout)
	defer cancel()

	if err := chromedp.Run(script, chromedp.Evaluate(exportScript, nil)); err != nil {
		e.logger.Debug("export URL rewrite failed, falling back to export controls", zap.Error(err))

		if err := e.click(exportSelectors, "export control"); err != nil {
			return "", fmt.Errorf("unable to trigger saved search export (%v)", err)
		}
	}

	return e.waitForDownload(started)
}

// drainDownloads discards completion events from exports that timed out, so a
// stale event cannot satisfy the next export's wait.
func (e *Exporter) drainDownloads() {
	for {
		select {
		case guid := <-e.downloads:
			e.logger.Warn("discarding stale download", zap.String("guid", guid))

		default:
			return
		}
	}
}

func (e *Exporter) waitForDownload(started time.Time) (string, error) {
	select {
	case guid := <-e.downloads:
		file := filepath.Join(e.downloadDir, guid)

		e.guard.Lock()
		name := e.filenames[guid]
		e.guard.Unlock()

		if name != "" {
			renamed := filepath.Join(e.downloadDir, name)
			if err := os.Rename(file, renamed); err == nil {
				file = renamed
			}
		}

		e.logger.Info("report downloaded", zap.String("file", file))
		return file, nil

	case <-time.After(downloadTimeout):
		// ... the download event is occasionally lost when the page navigates away,
		//     so check the download directory before giving up
		if file := e.latestDownload(started); file != "" {
			e.logger.Info("report found in download directory", zap.String("file", file))
			return file, nil
		}

		return "", fmt.Errorf("%w after %v", ErrDownloadTimeout, downloadTimeout)

	case <-e.ctx.Done():
		return "", e.ctx.Err()
	}
}

// latestDownload returns the most recently modified file written after the
// export was triggered. Files from earlier exports are never returned.
func (e *Exporter) latestDownload(after time.Time) string {
	entries, err := os.ReadDir(e.downloadDir)
	if err != nil {
		return ""
	}

	latest := ""
	modified := time.Time{}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		if info, err := entry.Info(); err == nil && !info.ModTime().Before(after) && info.ModTime().After(modified) {
			latest = filepath.Join(e.downloadDir, entry.Name())
			modified = info.ModTime()
		}
	}

	return latest
}

func (e *Exporter) answerSecurityQuestions() error {
	e.logger.Info("NetSuite security question challenge")

	if e.answers.Empty() {
		return fmt.Errorf("%w: security question challenged but no answers configured (set NETSUITE_SECURITY_ANSWERS)", ErrAuthentication)
	}

	for attempt := 0; attempt < securityAttempts; attempt++ {
		location, err := e.location()
		if err != nil {
			return err
		}

		if !isSecurityPage(location) {
			return nil
		}

		question := e.question()

		answer, ok := e.answers.For(question)
		if !ok {
			return fmt.Errorf("%w: no answer configured for security question '%s'", ErrAuthentication, question)
		}

		e.logger.Info("answering security question", zap.String("question", question))

		if err := e.fill(answerSelectors, answer, "security answer"); err != nil {
			return fmt.Errorf("%w: %v", ErrAuthentication, err)
		}

		if err := e.click(submitSelectors, "security answer submit"); err != nil {
			return fmt.Errorf("%w: %v", ErrAuthentication, err)
		}

		e.settle()
	}

	if location, err := e.location(); err != nil {
		return err
	} else if isSecurityPage(location) {
		return fmt.Errorf("%w: security answers rejected", ErrAuthentication)
	}

	return nil
}

// question returns the text of the current security question prompt (best effort).
func (e *Exporter) question() string {
	for _, selector := range questionSelectors {
		var text string

		ctx, cancel := context.WithTimeout(e.ctx, elementTimeout)
		err := chromedp.Run(ctx, chromedp.Text(selector, &text, chromedp.ByQuery))
		cancel()

		if err == nil && strings.TrimSpace(text) != "" {
			return strings.TrimSpace(text)
		}
	}

	return ""
}

// errorBanner returns the text of a visible login error banner (best effort).
func (e *Exporter) errorBanner() string {
	for _, selector := range []string{`.error`, `.alert`, `[role="alert"]`} {
		var text string

		ctx, cancel := context.WithTimeout(e.ctx, elementTimeout)
		err := chromedp.Run(ctx, chromedp.Text(selector, &text, chromedp.ByQuery))
		cancel()

		if err == nil && strings.TrimSpace(text) != "" {
			return strings.TrimSpace(text)
		}
	}

	return "no error banner"
}

// fill finds the first visible element in the selector list and types the value into it.
func (e *Exporter) fill(selectors []string, value, description string) error {
	for _, selector := range selectors {
		ctx, cancel := context.WithTimeout(e.ctx, elementTimeout)
		err := chromedp.Run(ctx,
			chromedp.WaitVisible(selector, chromedp.ByQuery),
			chromedp.SetValue(selector, "", chromedp.ByQuery),
			chromedp.SendKeys(selector, value, chromedp.ByQuery))
		cancel()

		if err == nil {
			return nil
		}
	}

	return fmt.Errorf("unable to find the %s field", description)
}

// click finds the first visible element in the selector list and clicks it.
func (e *Exporter) click(selectors []string, description string) error {
	for _, selector := range selectors {
		ctx, cancel := context.WithTimeout(e.ctx, elementTimeout)
		err := chromedp.Run(ctx,
			chromedp.WaitVisible(selector, chromedp.ByQuery),
			chromedp.Click(selector, chromedp.ByQuery))
		cancel()

		if err == nil {
			return nil
		}
	}

	return fmt.Errorf("unable to find the %s", description)
}

func (e *Exporter) location() (string, error) {
	var location string

	ctx, cancel := context.WithTimeout(e.ctx, elementTimeout)
	defer cancel()

	if err := chromedp.Run(ctx, chromedp.Location(&location)); err != nil {
		return "", fmt.Errorf("unable to read page location (%v)", err)
	}

	return location, nil
}

func (e *Exporter) settle() {
	select {
	case <-time.After(settleDelay):
	case <-e.ctx.Done():
	}
}

func isSecurityPage(location string) bool {
	return strings.Contains(strings.ToLower(location), "securityquestions")
}

func isSavedSearch(url string) bool {
	return strings.Contains(url, "searchresults.nl") || strings.Contains(url, "searchid=")
}
