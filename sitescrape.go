// Package sitescrape crawls a website, extracts clean text from its pages,
// strips boilerplate repeated across pages, and hands bounded-size chunks
// to an indexing backend for retrieval.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, sqlite/, gemini/).
package sitescrape
