// Package main provides the entry point for the webtools CLI.
//
// webtools is a collection of small website crawling utilities. The
// `ceo keywords` command crawls a site breadth-first within its origin and
// reports which keywords from a spreadsheet appear on each catalogue page.
//
// Usage:
//
//	webtools ceo keywords --in keywords.xlsx --out result.json https://books.toscrape.com/
//	webtools history list
//
// See --help for all available options.
package main

func main() {
	Execute()
}
