package document

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Document is a parsed HTML page.
// It is read-only once built and safe to share between hooks.
type Document struct {
	root *goquery.Document
}

// Match selects elements by tag name, id attribute and class.
// Empty fields match anything. Class may hold several space-separated
// class names, all of which must be present on the element.
type Match struct {
	// Tag is the element name, e.g. "div".
	Tag string

	// ID is the exact value of the id attribute.
	ID string

	// Class is one or more class names.
	Class string
}

// Element is a single matched element.
type Element struct {
	sel *goquery.Selection
}

// Parse reads an HTML document from r.
//
// The HTML5 parsing algorithm accepts any input, so the only failures are
// read errors. Non-HTML bodies such as images or PDFs yield a document with
// no links and no matching elements.
func Parse(r io.Reader) (*Document, error) {
	if r == nil {
		return nil, ErrNilReader
	}

	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}

	node, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}

	return &Document{root: goquery.NewDocumentFromNode(node)}, nil
}

// MustParse parses a document from a string and panics on failure.
// It is intended for tests and static fixtures.
func MustParse(s string) *Document {
	doc, err := Parse(strings.NewReader(s))
	if err != nil {
		panic(err)
	}
	return doc
}

// Links returns the href attribute of every anchor element, in document order.
// Values are returned as written in the markup; resolution is left to the caller.
func (d *Document) Links() []string {
	links := make([]string, 0)
	d.root.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		if href, ok := s.Attr("href"); ok {
			links = append(links, href)
		}
	})
	return links
}

// Title returns the trimmed text of the first <title> element.
func (d *Document) Title() string {
	return strings.TrimSpace(d.root.Find("title").First().Text())
}

// Find returns every element matching m, in document order.
func (d *Document) Find(m Match) []*Element {
	sel := d.selection(m)
	elements := make([]*Element, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		elements = append(elements, &Element{sel: s})
	})
	return elements
}

// Text returns the concatenated text content of every element matching m.
// It returns an empty string when nothing matches.
func (d *Document) Text(m Match) string {
	return d.selection(m).Text()
}

// selection filters the document by m without building a CSS selector,
// so ids and classes containing selector metacharacters still match.
func (d *Document) selection(m Match) *goquery.Selection {
	tag := strings.ToLower(strings.TrimSpace(m.Tag))
	if tag == "" {
		tag = "*"
	}

	classes := strings.Fields(m.Class)
	return d.root.Find(tag).FilterFunction(func(_ int, s *goquery.Selection) bool {
		if m.ID != "" {
			id, ok := s.Attr("id")
			if !ok || id != m.ID {
				return false
			}
		}
		for _, class := range classes {
			if !s.HasClass(class) {
				return false
			}
		}
		return true
	})
}

// Text returns the text content of the element and its descendants.
func (e *Element) Text() string {
	return e.sel.Text()
}

// Attr returns the value of the named attribute.
func (e *Element) Attr(name string) (string, bool) {
	return e.sel.Attr(name)
}

// Tag returns the element name.
func (e *Element) Tag() string {
	return goquery.NodeName(e.sel)
}
