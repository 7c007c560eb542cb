// Package fragment extracts plain text or filtered markup from a bounded
// range of an XHTML content document.
//
// The range covers document order from an optional start element to an
// optional end element, end exclusive. With markup preservation enabled, a
// fixed allow-list of simple formatting tags survives into the output;
// everything else is reduced to text, with block-level elements contributing
// a separating newline so extracted text reads paragraph by paragraph.
package fragment

import (
	"errors"
	"strings"

	"golang.org/x/net/html"
)

// Extraction errors.
var (
	// ErrStartNotFound indicates no element carries the requested start id.
	ErrStartNotFound = errors.New("fragment: start element not found")

	// ErrEndNotFound indicates the requested end id was never encountered.
	// It is only detected after a full unsuccessful traversal; no partial
	// output is returned.
	ErrEndNotFound = errors.New("fragment: end element not found")
)

// Options bounds and shapes an extraction.
type Options struct {
	// StartID selects the element the walk starts at. When empty the walk
	// covers the document body (or the whole document if there is no body).
	StartID string

	// EndID selects the element the walk stops in front of. The end element
	// itself is not included. When empty the walk runs to the end of the
	// document.
	EndID string

	// KeepMarkup preserves allow-listed tags in the output and
	// entity-escapes text content. When false the output is plain text
	// with newlines separating block-level content.
	KeepMarkup bool
}

// Extract walks doc in document order and returns the textual contents of
// the node range selected by opts.
//
// The walk is iterative with an explicit stack of deferred closing actions,
// so arbitrarily deep documents cannot exhaust the goroutine stack. Entering
// an element pushes exactly one action: its closing tag (allow-listed tags
// under KeepMarkup), a newline (block-level tags), or nothing. Leaving the
// element pops and emits that action; on termination the remaining actions
// are flushed innermost first.
func Extract(doc *html.Node, opts Options) (string, error) {
	cur, err := startNode(doc, opts.StartID)
	if err != nil {
		return "", err
	}
	if cur == nil {
		// Empty subtree. With an end id requested the traversal is over
		// without a match.
		if opts.EndID != "" {
			return "", ErrEndNotFound
		}
		return "", nil
	}

	var buf strings.Builder
	var closers []string

	for cur != nil {
		if opts.EndID != "" && cur.Type == html.ElementNode && attrValue(cur, "id") == opts.EndID {
			flush(&buf, closers)
			return buf.String(), nil
		}

		switch cur.Type {
		case html.TextNode:
			if opts.KeepMarkup {
				buf.WriteString(html.EscapeString(cur.Data))
			} else {
				buf.WriteString(cur.Data)
			}

		case html.ElementNode:
			switch {
			case opts.KeepMarkup && markupTags[cur.Data]:
				buf.WriteByte('<')
				buf.WriteString(cur.Data)
				buf.WriteByte('>')
				if cur.Data == "br" {
					closers = append(closers, "")
				} else {
					closers = append(closers, "</"+cur.Data+">")
				}
			case blockTags[cur.Data], cur.Data == "br":
				closers = append(closers, "\n")
			default:
				closers = append(closers, "")
			}

			if cur.FirstChild != nil {
				cur = cur.FirstChild
				continue
			}

			// Childless element: leave it immediately.
			closers = pop(&buf, closers)
		}

		// Advance to the next node in document order, leaving every element
		// on the way up. Ancestors above the start node were never entered
		// and have no stack entry, so nothing is emitted for them.
		for cur.NextSibling == nil {
			cur = cur.Parent
			if cur == nil {
				if opts.EndID != "" {
					return "", ErrEndNotFound
				}
				flush(&buf, closers)
				return buf.String(), nil
			}
			if cur.Type == html.ElementNode && len(closers) > 0 {
				closers = pop(&buf, closers)
			}
		}
		cur = cur.NextSibling
	}

	if opts.EndID != "" {
		return "", ErrEndNotFound
	}
	flush(&buf, closers)
	return buf.String(), nil
}

// startNode locates the first node of the walk. With a start id it is the
// element carrying that id; otherwise the walk covers the contents of the
// body element (the body itself contributes nothing), falling back to the
// document root when no body exists.
func startNode(doc *html.Node, startID string) (*html.Node, error) {
	if startID != "" {
		n := findByID(doc, startID)
		if n == nil {
			return nil, ErrStartNotFound
		}
		return n, nil
	}

	root := findElement(doc, "body")
	if root == nil {
		root = doc
	}
	return root.FirstChild, nil
}

// pop emits the innermost deferred closing action and returns the shrunk
// stack.
func pop(buf *strings.Builder, closers []string) []string {
	last := len(closers) - 1
	buf.WriteString(closers[last])
	return closers[:last]
}

// flush emits all deferred closing actions, innermost first.
func flush(buf *strings.Builder, closers []string) {
	for i := len(closers) - 1; i >= 0; i-- {
		buf.WriteString(closers[i])
	}
}

// findByID returns the element with the given id attribute, or nil.
func findByID(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode && attrValue(n, "id") == id {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByID(c, id); found != nil {
			return found
		}
	}
	return nil
}

// findElement returns the first element with the given tag name, or nil.
func findElement(n *html.Node, tagName string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tagName {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tagName); found != nil {
			return found
		}
	}
	return nil
}

// attrValue returns the value of the named attribute, or "".
func attrValue(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
