// Package browser drives the target application through Playwright.
//
// The package is built around three pieces:
//
//  1. Page and Element: the capability interfaces the navigator, scraper and
//     runner are written against. They expose only what the run needs:
//     waiting for selectors, clicking, filling, counting, and reading text
//     from the rendered DOM.
//  2. Session: a Playwright browser, context and page implementing Page.
//  3. SessionManager: owns the Playwright driver and every open Session.
//
// Tests use the synthetic DOM in the browsertest package instead of a real
// browser.
//
// # Example Usage
//
//	manager := browser.NewSessionManager()
//	if err := manager.Initialize(browser.InstallOptions{Install: true}); err != nil {
//	    return err
//	}
//	defer manager.Shutdown()
//
//	session, err := manager.StartSession("run", browser.SessionOptions{Headless: true})
//	if err != nil {
//	    return err
//	}
//	status, err := session.Goto("https://app.asana.com/-/login", time.Minute)
//
// Snapshots of the live page, cleaned of scripts and styling, can be written
// next to screenshots when a case fails; see CaptureSnapshot.
package browser
