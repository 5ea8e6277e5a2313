package weather

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// blockTags break words apart; inline tags such as <b> do not.
var blockTags = map[string]bool{
	"br": true, "p": true, "div": true, "li": true,
	"td": true, "th": true, "tr": true, "table": true,
}

// HTMLToText strips tags, decodes entities and collapses runs of whitespace.
func HTMLToText(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.Join(strings.Fields(s), " ")
	}

	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case html.ErrorToken:
			if z.Err() == io.EOF {
				return strings.Join(strings.Fields(b.String()), " ")
			}
			return strings.Join(strings.Fields(s), " ")
		case html.TextToken:
			b.Write(z.Text())
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			if blockTags[string(name)] {
				b.WriteByte(' ')
			}
		}
	}
}
