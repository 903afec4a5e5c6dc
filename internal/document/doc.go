// Package document provides a queryable view over a parsed HTML page.
//
// Documents are built with goquery on top of golang.org/x/net/html. The
// crawler only needs anchor hrefs, while page inspection hooks need to find
// elements by tag, id and class and read their text content.
//
// # Usage
//
//	doc, err := document.Parse(resp.Body)
//	if err != nil {
//	    return err
//	}
//	for _, href := range doc.Links() {
//	    // resolve and enqueue
//	}
//	text := doc.Text(document.Match{Tag: "div", ID: "panel1", Class: "tabs-panel"})
package document
