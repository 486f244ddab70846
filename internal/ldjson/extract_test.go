package ldjson

import (
	"errors"
	"testing"
)

func page(blocks ...string) string {
	s := "<html><head><title>Job</title>"
	for _, b := range blocks {
		s += `<script type="application/ld+json">` + b + `</script>`
	}
	return s + "</head><body><h1>Job</h1></body></html>"
}

func TestFindInHTML_SinglePosting(t *testing.T) {
	markup := page(`{"@context":"https://schema.org","@type":"JobPosting","title":"Backend Engineer"}`)

	node, ok := FindInHTML(markup, TypeJobPosting)
	if !ok {
		t.Fatal("expected a JobPosting")
	}
	if node["title"] != "Backend Engineer" {
		t.Errorf("title = %v, want Backend Engineer", node["title"])
	}
}

func TestFindInHTML_SkipsOtherTypesAndBlocks(t *testing.T) {
	markup := page(
		`{"@type":"Organization","name":"Acme"}`,
		`{"@type":"BreadcrumbList","itemListElement":[]}`,
		`[{"@type":"WebPage"},{"@type":"JobPosting","title":"Second"}]`,
		`{"@type":"JobPosting","title":"Third"}`,
	)

	node, ok := FindInHTML(markup, TypeJobPosting)
	if !ok {
		t.Fatal("expected a JobPosting")
	}
	if node["title"] != "Second" {
		t.Errorf("title = %v, want the first JobPosting (Second)", node["title"])
	}
}

func TestFindInHTML_TypeList(t *testing.T) {
	markup := page(`{"@type":["Thing","JobPosting"],"title":"Listed"}`)

	node, ok := FindInHTML(markup, TypeJobPosting)
	if !ok || node["title"] != "Listed" {
		t.Fatalf("got %v, %v; want Listed posting", node, ok)
	}
}

func TestFindInHTML_Graph(t *testing.T) {
	markup := page(`{"@context":"https://schema.org","@graph":[{"@type":"WebSite"},{"@type":"JobPosting","title":"In Graph"}]}`)

	node, ok := FindInHTML(markup, TypeJobPosting)
	if !ok || node["title"] != "In Graph" {
		t.Fatalf("got %v, %v; want In Graph posting", node, ok)
	}
}

func TestFindInHTML_RecoversUnescapedNewline(t *testing.T) {
	markup := page("{\"@type\":\"JobPosting\",\"title\":\"Chef\",\"description\":\"<p>Line one\nLine two</p>\"}")

	node, ok := FindInHTML(markup, TypeJobPosting)
	if !ok {
		t.Fatal("expected sanitizer to recover the block")
	}
	if node["description"] != "<p>Line one\nLine two</p>" {
		t.Errorf("description = %q", node["description"])
	}
}

func TestFindInHTML_UnrecoverableBlockSkipped(t *testing.T) {
	markup := page(
		`{"@type":"JobPosting","title":"Broken",}`,
		`{"@type":"JobPosting","title":"Fine"}`,
	)

	node, ok := FindInHTML(markup, TypeJobPosting)
	if !ok || node["title"] != "Fine" {
		t.Fatalf("got %v, %v; want the parseable block", node, ok)
	}
}

func TestFindInHTML_NoPosting(t *testing.T) {
	if _, ok := FindInHTML(page(`{"@type":"Organization"}`), TypeJobPosting); ok {
		t.Error("expected no JobPosting")
	}
	if _, ok := FindInHTML("<html><body>plain</body></html>", TypeJobPosting); ok {
		t.Error("expected no JobPosting in a page without blocks")
	}
}

func TestFindInHTML_CommentWrapped(t *testing.T) {
	markup := page(`<!-- {"@type":"JobPosting","title":"Wrapped"} -->`)

	node, ok := FindInHTML(markup, TypeJobPosting)
	if !ok || node["title"] != "Wrapped" {
		t.Fatalf("got %v, %v; want Wrapped posting", node, ok)
	}
}

func TestParse_Unparseable(t *testing.T) {
	_, err := Parse(`{"title": nope}`)
	if !errors.Is(err, ErrUnparseable) {
		t.Fatalf("Parse error = %v, want ErrUnparseable", err)
	}
}
