package classify

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	reScript     = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	reStyle      = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	reTags       = regexp.MustCompile(`<[^>]+>`)
	reWhitespace = regexp.MustCompile(`\s+`)
)

// StripHTML removes markup from an HTML body and collapses whitespace,
// leaving plain text suitable for the classification corpus.
func StripHTML(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err == nil {
		doc.Find("script, style").Remove()
		return collapseWhitespace(doc.Text())
	}
	return stripHTMLFallback(html)
}

// stripHTMLFallback is a regex-based strip for input goquery refuses to
// parse. It also decodes the handful of entities that show up in broker
// and banker emails.
func stripHTMLFallback(html string) string {
	html = reScript.ReplaceAllString(html, "")
	html = reStyle.ReplaceAllString(html, "")
	html = reTags.ReplaceAllString(html, " ")

	html = strings.ReplaceAll(html, "&nbsp;", " ")
	html = strings.ReplaceAll(html, "&amp;", "&")
	html = strings.ReplaceAll(html, "&lt;", "<")
	html = strings.ReplaceAll(html, "&gt;", ">")
	html = strings.ReplaceAll(html, "&quot;", "\"")

	return collapseWhitespace(html)
}

func collapseWhitespace(s string) string {
	return strings.TrimSpace(reWhitespace.ReplaceAllString(s, " "))
}

// bodyText returns the email body as plain text, stripping markup when
// the declared content type is HTML.
func bodyText(b Body) string {
	if strings.HasPrefix(strings.ToLower(b.ContentType), "text/html") {
		return StripHTML(b.Content)
	}
	return collapseWhitespace(b.Content)
}

// buildCorpus assembles the lowercased scoring corpus: subject, stripped
// body, sender display name and sender address, whitespace-collapsed.
func buildCorpus(email RawEmail) string {
	parts := []string{email.Subject, bodyText(email.Body), email.From.Name, email.From.Address}
	return strings.ToLower(collapseWhitespace(strings.Join(parts, " ")))
}

// buildEntityText assembles the case-preserved text the entity extractors
// run against. Proper-noun patterns need original capitalization, so this
// is subject + stripped body without the lowercasing the corpus gets.
func buildEntityText(email RawEmail) string {
	return collapseWhitespace(email.Subject + " " + bodyText(email.Body))
}
