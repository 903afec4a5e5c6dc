// Package fetch provides the HTTP transports used by the crawler.
//
// Two implementations satisfy crawler.Fetcher:
//   - HTTPFetcher: net/http with cookie jar, header injection, optional
//     SOCKS5 proxy and gzip/deflate/brotli decoding
//   - CollyFetcher: a synchronous wrapper around a gocolly collector
//
// Both read at most Options.MaxBodyBytes of a response body. By default any
// HTTP status is accepted and its body returned; with Options.StrictStatus a
// non-2xx status is reported as a *StatusError.
//
// # Proxies
//
// ProxyURL accepts "socks5://[user:pass@]host:port" or a bare "host:port",
// which is treated as a SOCKS5 address. This is how sites are crawled through
// a local Tor daemon:
//
//	f, err := fetch.NewHTTPFetcher(fetch.Options{ProxyURL: "127.0.0.1:9050"})
package fetch
