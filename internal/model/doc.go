// Package model defines the data structures shared by the crawl, report and
// history packages.
//
// KeywordReport is the result of one `ceo keywords` run. The report writers
// render it and the history database stores it, so it lives here to keep
// those packages free of import cycles.
package model
