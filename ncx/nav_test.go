package ncx

import (
	"errors"
	"testing"
)

const testNav = `<?xml version="1.0" encoding="UTF-8"?>
<html xmlns="http://www.w3.org/1999/xhtml" xmlns:epub="http://www.idpf.org/2007/ops">
<head><title>Contents</title></head>
<body>
  <nav epub:type="landmarks">
    <ol><li><a epub:type="bodymatter" href="chapter1.xhtml">Start</a></li></ol>
  </nav>
  <nav epub:type="toc" id="toc">
    <h2>Table of Contents</h2>
    <ol>
      <li id="li-1"><a href="chapter1.xhtml">Chapter 1</a>
        <ol>
          <li><a id="a-11" href="chapter1.xhtml#s1">Section 1.1</a></li>
        </ol>
      </li>
      <li><span>Part Two</span>
        <ol>
          <li><a href="chapter2.xhtml">Chapter 2</a></li>
        </ol>
      </li>
    </ol>
  </nav>
</body>
</html>`

func TestParseNav(t *testing.T) {
	toc, err := ParseNav([]byte(testNav))
	if err != nil {
		t.Fatalf("ParseNav: %v", err)
	}

	if toc.Title != "Table of Contents" {
		t.Errorf("Title = %q, want %q", toc.Title, "Table of Contents")
	}
	if got := toc.Len(); got != 4 {
		t.Fatalf("Len() = %d, want 4", got)
	}

	ch1 := toc.Points[0]
	if ch1.ID != "li-1" || ch1.Label != "Chapter 1" || ch1.Source != "chapter1.xhtml" {
		t.Errorf("first point = %+v", ch1)
	}
	if len(ch1.Children) != 1 || ch1.Children[0].ID != "a-11" {
		t.Fatalf("first point children = %+v, want one child with id a-11", ch1.Children)
	}

	// The toc nav is selected, not the landmarks nav that precedes it.
	if ch1.Label == "Start" {
		t.Error("landmarks nav was parsed instead of the toc nav")
	}

	// A span heading without a target yields a label-only point.
	part := toc.Points[1]
	if part.Label != "Part Two" || part.Source != "" {
		t.Errorf("span point = %+v, want label-only", part)
	}
	if len(part.Children) != 1 || part.Children[0].Source != "chapter2.xhtml" {
		t.Errorf("span point children = %+v", part.Children)
	}
}

func TestParseNavFallsBackToFirstNav(t *testing.T) {
	const nav = `<html><body>
  <nav><ol><li><a href="only.xhtml">Only</a></li></ol></nav>
</body></html>`

	toc, err := ParseNav([]byte(nav))
	if err != nil {
		t.Fatalf("ParseNav: %v", err)
	}
	if len(toc.Points) != 1 || toc.Points[0].Source != "only.xhtml" {
		t.Errorf("Points = %+v", toc.Points)
	}
}

func TestParseNavMissingNav(t *testing.T) {
	_, err := ParseNav([]byte(`<html><body><p>no navigation here</p></body></html>`))
	if !errors.Is(err, ErrMissingNavMap) {
		t.Errorf("err = %v, want ErrMissingNavMap", err)
	}
}
