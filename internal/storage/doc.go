// Package storage provides SQLite-backed persistence for sites, pages,
// lemmas and postings.
//
// It is the only state shared between concurrent site-runs and the
// search engine; the crawler and searcher never communicate directly.
// Upserts of the same logical row from concurrent writers are serialized
// by SQLite, and detected write contention surfaces through IsContention
// so the indexing engine can retry.
package storage
