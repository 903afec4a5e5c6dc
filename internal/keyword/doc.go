// Package keyword implements catalogue keyword extraction on top of the
// crawler's hook protocol.
//
// Keywords are loaded from a spreadsheet (first column of the first sheet)
// or a delimited text file and lowercased into a Set. A CatalogueHook then
// observes catalogue pages, reads the text of the description panel and
// records which keywords it contains, keyed by page path.
//
// # Usage
//
//	words, err := keyword.Load("keywords.xlsx")
//	if err != nil {
//	    return err
//	}
//	hook := keyword.NewCatalogueHook(keyword.NewSet(words...))
//	spider := crawler.NewSpider(fetcher, crawler.WithHooks(hook))
//	if _, err := spider.Run(ctx, site, 0); err != nil {
//	    return err
//	}
//	data, err := hook.JSON()
package keyword
