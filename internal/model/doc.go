// Package model defines the domain entities shared across the crawler,
// indexer and search engine, plus the response types returned to API
// consumers.
//
// Entities mirror the storage schema one-to-one:
//
//   - Site: one row per configured root URL, carrying the run status
//   - Page: one row per unique (site, path) pair
//   - Lemma: one row per unique (site, normalized token), with a
//     document-frequency counter
//   - Posting: the page-lemma edge, weighted by in-page occurrence count
//
// The package has no dependencies on other internal packages so that any
// component can import it freely.
package model
