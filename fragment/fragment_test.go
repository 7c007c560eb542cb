package fragment

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/net/html"
)

// parse is a test helper that parses an XHTML body snippet into a document
// tree.
func parse(t *testing.T, body string) *html.Node {
	t.Helper()

	doc, err := html.Parse(strings.NewReader(
		`<html xmlns="http://www.w3.org/1999/xhtml"><head><title>t</title></head><body>` +
			body + `</body></html>`))
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func TestExtractPlainText(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "block elements separated by newlines",
			body: `<p>Hello</p><p>World</p>`,
			want: "Hello\nWorld\n",
		},
		{
			name: "inline elements contribute no separator",
			body: `<p>He<i>ll</i>o</p>`,
			want: "Hello\n",
		},
		{
			name: "nested blocks close innermost first",
			body: `<div><p>A</p><p>B</p></div>`,
			want: "A\nB\n\n",
		},
		{
			name: "headings are blocks",
			body: `<h1>Title</h1><p>Body</p>`,
			want: "Title\nBody\n",
		},
		{
			name: "raw text is not escaped",
			body: `<p>a &amp; b</p>`,
			want: "a & b\n",
		},
		{
			name: "empty body",
			body: ``,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Extract(parse(t, tt.body), Options{})
			if err != nil {
				t.Fatalf("Extract: %v", err)
			}
			if got != tt.want {
				t.Errorf("Extract = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractKeepMarkup(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "allow-listed tags survive",
			body: `<p>A</p><p>B</p>`,
			want: "<p>A</p><p>B</p>",
		},
		{
			name: "attributes are dropped",
			body: `<p class="x" id="y">A</p>`,
			want: "<p>A</p>",
		},
		{
			name: "links are reduced to text",
			body: `<p><a href="x.html">go</a></p>`,
			want: "<p>go</p>",
		},
		{
			name: "lists fall back to block newlines",
			body: `<ul><li>one</li><li>two</li></ul>`,
			want: "one\ntwo\n\n",
		},
		{
			name: "text content is entity escaped",
			body: `<p>a &amp; b &lt;c&gt;</p>`,
			want: "<p>a &amp; b &lt;c&gt;</p>",
		},
		{
			name: "table structure survives",
			body: `<table><tr><th>H</th></tr><tr><td>D</td></tr></table>`,
			want: "<table><tr><th>H</th></tr><tr><td>D</td></tr></table>",
		},
		{
			name: "formatting tags survive",
			body: `<p><strong>A</strong> <b>B</b> <i>C</i> <span>D</span></p>`,
			want: "<p><strong>A</strong> <b>B</b> <i>C</i> <span>D</span></p>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Extract(parse(t, tt.body), Options{KeepMarkup: true})
			if err != nil {
				t.Fatalf("Extract: %v", err)
			}
			if got != tt.want {
				t.Errorf("Extract = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractBounded(t *testing.T) {
	body := `<p id="one">First</p><p id="two">Second</p><p id="three">Third</p>`

	tests := []struct {
		name string
		opts Options
		want string
	}{
		{
			name: "start only runs to document end",
			opts: Options{StartID: "two"},
			want: "Second\nThird\n",
		},
		{
			name: "start and end are end exclusive",
			opts: Options{StartID: "one", EndID: "three"},
			want: "First\nSecond\n",
		},
		{
			name: "end only bounds from the body",
			opts: Options{EndID: "two"},
			want: "First\n",
		},
		{
			name: "start equals end yields nothing",
			opts: Options{StartID: "two", EndID: "two"},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Extract(parse(t, body), tt.opts)
			if err != nil {
				t.Fatalf("Extract: %v", err)
			}
			if got != tt.want {
				t.Errorf("Extract = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractBoundedAcrossSubtrees(t *testing.T) {
	// The start node is nested; the walk must ascend out of its ancestors
	// (emitting nothing for them) and continue through following subtrees.
	// The second div is entered, so its deferred newline flushes when the
	// end id is reached inside it.
	body := `<div><p id="start">A</p></div><div><p>B</p><p id="end">C</p></div>`

	got, err := Extract(parse(t, body), Options{StartID: "start", EndID: "end"})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if want := "A\nB\n\n"; got != want {
		t.Errorf("Extract = %q, want %q", got, want)
	}
}

func TestExtractEndFoundClosesOpenElements(t *testing.T) {
	body := `<div id="start"><p>X</p><p id="end">Y</p></div>`

	got, err := Extract(parse(t, body), Options{StartID: "start", EndID: "end", KeepMarkup: true})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	// The div is still open when the end id is reached; its deferred closing
	// tag is flushed.
	if want := "<div><p>X</p></div>"; got != want {
		t.Errorf("Extract = %q, want %q", got, want)
	}
}

func TestExtractStartNotFound(t *testing.T) {
	_, err := Extract(parse(t, `<p>Hello</p>`), Options{StartID: "missing"})
	if !errors.Is(err, ErrStartNotFound) {
		t.Errorf("err = %v, want ErrStartNotFound", err)
	}
}

func TestExtractEndNotFound(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"end only", Options{EndID: "missing"}},
		{"start present end missing", Options{StartID: "one", EndID: "missing"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Extract(parse(t, `<p id="one">Hello</p>`), tt.opts)
			if !errors.Is(err, ErrEndNotFound) {
				t.Fatalf("err = %v, want ErrEndNotFound", err)
			}
			if got != "" {
				t.Errorf("partial output %q returned with ErrEndNotFound", got)
			}
		})
	}
}

func TestExtractDeeplyNested(t *testing.T) {
	// A pathological nesting depth must not exhaust the stack: the walk is
	// iterative. The chain is built by hand because the parser caps its own
	// open-element stack far below depths the walk must survive.
	const depth = 200000

	doc := &html.Node{Type: html.DocumentNode}
	body := &html.Node{Type: html.ElementNode, Data: "body"}
	doc.AppendChild(body)

	cur := body
	for i := 0; i < depth; i++ {
		span := &html.Node{Type: html.ElementNode, Data: "span"}
		cur.AppendChild(span)
		cur = span
	}
	cur.AppendChild(&html.Node{Type: html.TextNode, Data: "deep"})

	got, err := Extract(doc, Options{})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got != "deep" {
		t.Errorf("Extract = %q, want %q", got, "deep")
	}
}
