package folio

import (
	"bytes"
	"fmt"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"

	"github.com/tsawler/folio/fragment"
)

// Chapter is one content document in reading order.
//
// Title comes from the first table-of-contents entry pointing at the
// document, and is empty when no entry does or the book has no usable
// navigation document.
type Chapter struct {
	book *Book

	// Index is the zero-based position in the spine.
	Index int

	// ID is the manifest identifier of the content document.
	ID string

	// Href is the document's location relative to the package document.
	Href string

	// MediaType is the declared media type from the manifest.
	MediaType string

	// Title is the label of the first TOC entry referencing this document.
	Title string
}

// Chapters returns the book's content documents in reading order. Titles
// are filled in from the table of contents when one can be parsed; a
// missing or broken navigation document leaves them empty rather than
// failing the listing.
//
// The result is built once and cached for the lifetime of the handle.
func (b *Book) Chapters() ([]Chapter, error) {
	if b.chapters != nil {
		return b.chapters, nil
	}

	spine, err := b.Spine()
	if err != nil {
		return nil, err
	}

	toc, _ := b.Toc()

	chapters := make([]Chapter, 0, len(spine.Items))
	for i, item := range spine.Items {
		ch := Chapter{
			book:      b,
			Index:     i,
			ID:        item.ID,
			Href:      item.Href,
			MediaType: item.MediaType,
		}
		if toc != nil {
			if points := toc.PointsFor(item.Href); len(points) > 0 {
				ch.Title = points[0].Label
			}
		}
		chapters = append(chapters, ch)
	}

	b.chapters = chapters
	return chapters, nil
}

// Chapter returns the content document at the given spine index.
func (b *Book) Chapter(index int) (Chapter, error) {
	chapters, err := b.Chapters()
	if err != nil {
		return Chapter{}, err
	}
	if index < 0 || index >= len(chapters) {
		return Chapter{}, fmt.Errorf("folio: chapter index %d out of range [0,%d)", index, len(chapters))
	}
	return chapters[index], nil
}

// Raw returns the chapter's bytes decoded to UTF-8. The character set is
// sniffed from a byte-order mark, an XML or meta declaration, or the
// content itself.
func (c Chapter) Raw() ([]byte, error) {
	data, err := c.book.readItem(c.Href)
	if err != nil {
		return nil, err
	}

	r, err := charset.NewReader(bytes.NewReader(data), "")
	if err != nil {
		return nil, fmt.Errorf("folio: decode chapter %s: %w", c.Href, err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("folio: decode chapter %s: %w", c.Href, err)
	}
	return buf.Bytes(), nil
}

// parse returns the chapter's parsed document tree.
func (c Chapter) parse() (*html.Node, error) {
	data, err := c.Raw()
	if err != nil {
		return nil, err
	}
	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("folio: parse chapter %s: %w", c.Href, err)
	}
	return doc, nil
}

// Fragment extracts a bounded slice of the chapter's content. See
// fragment.Extract for the boundary semantics.
func (c Chapter) Fragment(opts fragment.Options) (string, error) {
	doc, err := c.parse()
	if err != nil {
		return "", err
	}
	return fragment.Extract(doc, opts)
}

// Text returns the chapter's full text with block boundaries rendered as
// newlines and all markup removed.
func (c Chapter) Text() (string, error) {
	return c.Fragment(fragment.Options{})
}

// Markup returns the chapter's full text with the simplified markup subset
// preserved.
func (c Chapter) Markup() (string, error) {
	return c.Fragment(fragment.Options{KeepMarkup: true})
}

// Markdown converts the chapter's content to Markdown.
func (c Chapter) Markdown() (string, error) {
	data, err := c.Raw()
	if err != nil {
		return "", err
	}

	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	md, err := conv.ConvertString(string(data))
	if err != nil {
		return "", fmt.Errorf("folio: convert chapter %s to markdown: %w", c.Href, err)
	}
	return md, nil
}

// Fragment extracts a bounded slice of the content document at the given
// spine index. It is shorthand for Chapter(index) followed by
// Chapter.Fragment.
func (b *Book) Fragment(index int, opts fragment.Options) (string, error) {
	ch, err := b.Chapter(index)
	if err != nil {
		return "", err
	}
	return ch.Fragment(opts)
}
