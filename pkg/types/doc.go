// Package types holds the data model shared by the navigator, scraper,
// validator and runner, together with the error taxonomy they report.
//
// Errors fall into three kinds:
//
//   - ConfigurationError: selector catalog, fixture, credential or config
//     problems. These abort the run before the browser is touched.
//   - NavigationError: a project was not found after every retry.
//   - ScrapeError: switching to the list view or reading it failed.
//
// A tag mismatch is not an error; see the validator package.
package types
