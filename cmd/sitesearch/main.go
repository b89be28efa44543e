// Package main provides the entry point for the sitesearch CLI.
//
// sitesearch crawls configured sites, builds an inverted index in a
// local SQLite database, and answers search queries over it.
//
// Usage:
//
//	sitesearch serve
//	sitesearch crawl
//	sitesearch search <query>
//	sitesearch stats
//
// See --help for all available options.
package main

// main is the entry point for sitesearch.
func main() {
	Execute()
}
