// Package config defines configuration types and loading helpers for the
// search engine: CLI-facing defaults, the yaml site-list file, and
// validation.
package config
