// Package sitemirror provides a recursive site mirroring crawler.
// Starting from a root page it follows links up to a bounded hop count and
// writes every page, stylesheet and image it reaches into a local directory
// tree that mirrors the site's URL paths.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, sqlite/, bloom/).
package sitemirror
