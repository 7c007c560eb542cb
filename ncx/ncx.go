// Package ncx parses EPUB navigation documents into the table-of-contents
// model: EPUB 2 NCX files and EPUB 3 XHTML nav documents.
//
// Both parsers preserve source document order exactly. Play-order values in
// NCX navigation points are carried through as data but never used to sort;
// a document whose play-order disagrees with its element order keeps the
// element order.
package ncx

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/htmlindex"

	"github.com/tsawler/folio/model"
)

// Navigation document errors.
var (
	// ErrMalformed indicates the navigation document could not be parsed.
	ErrMalformed = errors.New("ncx: malformed navigation document")

	// ErrMissingNavMap indicates the document has no navigation-map root.
	// Missing labels or content references on individual points are
	// tolerated; a missing map is not.
	ErrMissingNavMap = errors.New("ncx: navigation document has no navMap")
)

// ncxDoc mirrors the NCX document structure.
type ncxDoc struct {
	XMLName xml.Name `xml:"ncx"`
	Title   string   `xml:"docTitle>text"`
	Author  string   `xml:"docAuthor>text"`
	NavMap  *navMap  `xml:"navMap"`
}

type navMap struct {
	NavPoints []navPoint `xml:"navPoint"`
}

type navPoint struct {
	ID        string     `xml:"id,attr"`
	Class     string     `xml:"class,attr"`
	PlayOrder string     `xml:"playOrder,attr"`
	Label     string     `xml:"navLabel>text"`
	Content   contentRef `xml:"content"`
	Children  []navPoint `xml:"navPoint"`
}

type contentRef struct {
	Src string `xml:"src,attr"`
}

// Parse parses an NCX navigation document.
//
// A navigation point without a label or content reference yields empty
// strings rather than an error; real-world documents are often malformed in
// trivial ways. A document without a navMap fails with ErrMissingNavMap.
func Parse(data []byte) (*model.Toc, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = charsetReader

	var doc ncxDoc
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if doc.NavMap == nil {
		return nil, ErrMissingNavMap
	}

	return &model.Toc{
		Title:  strings.TrimSpace(doc.Title),
		Author: strings.TrimSpace(doc.Author),
		Points: convertPoints(doc.NavMap.NavPoints),
	}, nil
}

// convertPoints converts navPoint elements recursively, preserving document
// order at every level.
func convertPoints(points []navPoint) model.NavPointList {
	if len(points) == 0 {
		return nil
	}
	out := make(model.NavPointList, 0, len(points))
	for _, p := range points {
		playOrder, _ := strconv.Atoi(p.PlayOrder)
		out = append(out, &model.NavPoint{
			ID:        p.ID,
			Class:     p.Class,
			PlayOrder: playOrder,
			Label:     strings.TrimSpace(p.Label),
			Source:    strings.TrimSpace(p.Content.Src),
			Children:  convertPoints(p.Children),
		})
	}
	return out
}

// charsetReader decodes XML declared in a legacy charset to UTF-8.
func charsetReader(label string, r io.Reader) (io.Reader, error) {
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("ncx: unsupported charset %q: %w", label, err)
	}
	return enc.NewDecoder().Reader(r), nil
}
