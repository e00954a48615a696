package spl

import (
	"strings"

	"golang.org/x/net/html"
)

// blockElements get a word boundary in plain text so that adjacent
// paragraphs, list items and table cells do not run together.
var blockElements = map[string]bool{
	"paragraph": true,
	"br":        true,
	"list":      true,
	"item":      true,
	"table":     true,
	"caption":   true,
	"thead":     true,
	"tbody":     true,
	"tfoot":     true,
	"tr":        true,
	"td":        true,
	"th":        true,
	"footnote":  true,
}

// plainText returns the descendant text of a markup fragment with runs of
// whitespace collapsed to one space and the ends trimmed. When everyTag is
// set every element boundary separates words, which is what name elements
// with a suffix child need.
func plainText(markup string, everyTag bool) string {
	if markup == "" {
		return ""
	}

	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(markup))
	// The markup is XML, where CDATA sections are ordinary text.
	z.AllowCDATA(true)
	for {
		switch z.Next() {
		case html.ErrorToken:
			return collapseWhitespace(b.String())
		case html.TextToken:
			b.Write(z.Text())
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			if everyTag || blockElements[localName(string(name))] {
				b.WriteByte(' ')
			}
		}
	}
}

// localName strips a namespace prefix such as "hl7:" from a tag name.
func localName(tag string) string {
	if i := strings.LastIndexByte(tag, ':'); i >= 0 {
		return tag[i+1:]
	}
	return tag
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// markupText is plainText for an optional element.
func markupText(m *markupElement, everyTag bool) string {
	if m == nil {
		return ""
	}
	return plainText(m.Inner, everyTag)
}

// nullable returns nil for blank strings so that absent values encode as
// JSON null.
func nullable(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
