package controller

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

const excerptLength = 150

// excerpt strips markup from body, collapses whitespace and cuts the result
// to excerptLength runes.
func excerpt(body string) string {
	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(body))
	skip := 0
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			return truncate(strings.Join(strings.Fields(b.String()), " "))
		case html.StartTagToken, html.EndTagToken:
			name, _ := z.TagName()
			if tag := string(name); tag == "script" || tag == "style" {
				if tt == html.StartTagToken {
					skip++
				} else if skip > 0 {
					skip--
				}
			}
			b.WriteByte(' ')
		case html.SelfClosingTagToken:
			b.WriteByte(' ')
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Text())
			}
		}
	}
}

func truncate(s string) string {
	if utf8.RuneCountInString(s) <= excerptLength {
		return s
	}
	runes := []rune(s)
	return string(runes[:excerptLength]) + "..."
}
