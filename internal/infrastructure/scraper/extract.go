package scraper

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	batchapp "github.com/masgolf/backend/internal/application/batch"
)

const maxImages = 20

var reSpaces = regexp.MustCompile(`[ \t\f\r]+`)
var reBlankLines = regexp.MustCompile(`\n{3,}`)

// Extract pulls the title, description, readable text and image URLs out of a
// parsed document. Relative image URLs are resolved against base.
func Extract(root *html.Node, base *url.URL) *batchapp.Page {
	doc := goquery.NewDocumentFromNode(root)
	page := &batchapp.Page{URL: base.String()}

	page.Title = firstNonEmpty(
		metaContent(doc, `meta[property="og:title"]`),
		strings.TrimSpace(doc.Find("title").First().Text()),
		strings.TrimSpace(doc.Find("h1").First().Text()),
	)
	page.Description = firstNonEmpty(
		metaContent(doc, `meta[property="og:description"]`),
		metaContent(doc, `meta[name="description"]`),
	)

	doc.Find("script, style, noscript, iframe, svg, nav, footer, header, form").Remove()

	content := doc.Find("article").First()
	if content.Length() == 0 {
		content = doc.Find("main").First()
	}
	if content.Length() == 0 {
		content = doc.Find("body")
	}
	page.Text = cleanText(blockText(content))

	seen := make(map[string]struct{})
	add := func(raw string) {
		if len(page.Images) >= maxImages {
			return
		}
		abs := resolve(base, raw)
		if abs == "" {
			return
		}
		if _, ok := seen[abs]; ok {
			return
		}
		seen[abs] = struct{}{}
		page.Images = append(page.Images, abs)
	}
	add(metaContent(doc, `meta[property="og:image"]`))
	content.Find("img").Each(func(_ int, img *goquery.Selection) {
		src, _ := img.Attr("src")
		if src == "" || strings.HasPrefix(src, "data:") {
			src, _ = img.Attr("data-src")
		}
		add(src)
	})
	return page
}

// blockText joins block-level elements with newlines so paragraphs survive
func blockText(sel *goquery.Selection) string {
	var b strings.Builder
	sel.Find("p, h1, h2, h3, h4, li, blockquote, td").Each(func(_ int, s *goquery.Selection) {
		if s.Find("p, li").Length() > 0 {
			return
		}
		if t := strings.TrimSpace(s.Text()); t != "" {
			b.WriteString(t)
			b.WriteString("\n")
		}
	})
	if b.Len() == 0 {
		return sel.Text()
	}
	return b.String()
}

func cleanText(s string) string {
	s = reSpaces.ReplaceAllString(s, " ")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	s = strings.Join(lines, "\n")
	s = reBlankLines.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

func metaContent(doc *goquery.Document, selector string) string {
	v, _ := doc.Find(selector).First().Attr("content")
	return strings.TrimSpace(v)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func resolve(base *url.URL, raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	ref, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	abs := base.ResolveReference(ref)
	if abs.Scheme != "http" && abs.Scheme != "https" {
		return ""
	}
	return abs.String()
}
