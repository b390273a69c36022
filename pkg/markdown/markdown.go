// Package markdown turns the small markdown subset the model replies with
// (bold, ##/### headings, --- rules, paragraphs, newlines) into HTML fragments.
//
// Input is HTML-escaped before any substitution, so markup coming back from
// the model is shown as text. Rendering already rendered output is not
// idempotent: the tags would be escaped on the second pass.
package markdown

import (
	"html"
	"regexp"
	"strings"
)

const (
	blockStrong  = `<strong class="text-cyan-300 font-semibold">$1</strong>`
	inlineStrong = `<strong class="font-semibold text-cyan-300">$1</strong>`

	h2Open = `<h2 class="text-xl font-bold text-cyan-300 mt-5 mb-2">`
	h3Open = `<h3 class="text-lg font-semibold text-cyan-200 mt-4 mb-2">`
	pOpen  = `<p class="mb-3 leading-relaxed">`
	hr     = `<hr class="my-4 border-slate-600" />`
	br     = `<br />`
)

var (
	boldPattern  = regexp.MustCompile(`\*\*(.*?)\*\*`)
	blankLines   = regexp.MustCompile(`\n\s*\n`)
	newlineChars = strings.NewReplacer("\n", br)
)

// RenderBlocks renders paragraph-oriented markdown, one HTML element per block.
func RenderBlocks(text string) string {
	if text == "" {
		return ""
	}

	var b strings.Builder
	for _, block := range blankLines.Split(html.EscapeString(text), -1) {
		switch {
		case strings.HasPrefix(block, "### "):
			b.WriteString(h3Open)
			b.WriteString(boldPattern.ReplaceAllString(block[4:], blockStrong))
			b.WriteString("</h3>")
		case strings.HasPrefix(block, "## "):
			b.WriteString(h2Open)
			b.WriteString(boldPattern.ReplaceAllString(block[3:], blockStrong))
			b.WriteString("</h2>")
		case strings.TrimSpace(block) == "---":
			b.WriteString(hr)
		case strings.TrimSpace(block) != "":
			b.WriteString(pOpen)
			b.WriteString(newlineChars.Replace(boldPattern.ReplaceAllString(block, blockStrong)))
			b.WriteString("</p>")
		}
	}

	return b.String()
}

// RenderInline renders chat text: bold and line breaks only.
func RenderInline(text string) string {
	if text == "" {
		return ""
	}

	return newlineChars.Replace(boldPattern.ReplaceAllString(html.EscapeString(text), inlineStrong))
}
