package ncx

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/tsawler/folio/model"
)

// ParseNav parses an EPUB 3 XHTML nav document.
//
// The toc nav element (nav with an epub:type containing "toc") is preferred;
// lacking one, the first nav element is used. A document with no nav element
// at all fails with ErrMissingNavMap. Entries come from the nested ol/li
// structure, in document order.
func ParseNav(data []byte) (*model.Toc, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	nav := doc.Find("nav").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return strings.Contains(s.AttrOr("epub:type", ""), "toc")
	}).First()
	if nav.Length() == 0 {
		nav = doc.Find("nav").First()
	}
	if nav.Length() == 0 {
		return nil, ErrMissingNavMap
	}

	toc := &model.Toc{
		Title: strings.TrimSpace(nav.Find("h1, h2, h3, h4, h5, h6").First().Text()),
	}
	if list := nav.Find("ol").First(); list.Length() > 0 {
		toc.Points = parseNavList(list)
	}

	return toc, nil
}

// parseNavList converts one ol level into sibling navigation points,
// recursing into nested lists.
func parseNavList(ol *goquery.Selection) model.NavPointList {
	var points model.NavPointList

	ol.ChildrenFiltered("li").Each(func(_ int, li *goquery.Selection) {
		p := &model.NavPoint{
			ID: li.AttrOr("id", ""),
		}

		if a := li.ChildrenFiltered("a").First(); a.Length() > 0 {
			p.Label = strings.TrimSpace(a.Text())
			p.Source = strings.TrimSpace(a.AttrOr("href", ""))
			if p.ID == "" {
				p.ID = a.AttrOr("id", "")
			}
		} else if span := li.ChildrenFiltered("span").First(); span.Length() > 0 {
			// Headings without a target are allowed in nav documents.
			p.Label = strings.TrimSpace(span.Text())
		}

		if sub := li.ChildrenFiltered("ol").First(); sub.Length() > 0 {
			p.Children = parseNavList(sub)
		}

		points = append(points, p)
	})

	return points
}
