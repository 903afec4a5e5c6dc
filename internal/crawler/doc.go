// Package crawler implements a breadth-first, same-origin web crawler with
// pluggable page inspection.
//
// # Architecture
//
// The package is built around the Spider type, which owns the frontier
// queue and the visited set for a single run. Fetching and parsing are
// delegated to collaborators: a Fetcher returns raw page bytes and a
// ParseFunc turns them into a *document.Document. Page inspection is
// delegated to hooks registered on a Registry.
//
// # Components
//
//   - Resolver: Resolve and Normalize turn root-relative hrefs into
//     normalized same-origin URLs
//   - Hook and Registry: the inspection contract and its ordered collection
//   - Spider: the fetch, dispatch and enqueue loop with an optional page budget
//   - Error: the failure taxonomy returned by Run (transport or parse)
//
// # Traversal
//
// Pages are visited in strict FIFO order. A URL is marked visited only after
// it has been fetched and parsed, and candidates are filtered against the
// visited set when they are enqueued. The same URL may therefore sit in the
// frontier more than once; the Spider re-checks the visited set when popping
// and skips such duplicates without counting them.
//
// The first fetch or parse failure ends the run. There are no retries.
//
// # Usage
//
//	hook := keyword.NewCatalogueHook(keywords)
//	spider := crawler.NewSpider(fetcher, crawler.WithHooks(hook))
//	pages, err := spider.Run(ctx, "https://books.example", 50)
//	if err != nil {
//	    return err
//	}
//	result := hook.Result()
package crawler
