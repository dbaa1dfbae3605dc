// Package dutch centralizes the user-facing message catalog.
//
// Every HTTP error body and capture-side notice is looked up by Kind rather
// than spelled inline, so wording changes happen in one place. The catalog is
// built on golang.org/x/text so a second language can be layered in without
// touching call sites.
package dutch
