package render

import (
	"math"
	"strings"
	"unicode"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/carousel/compose"
)

// Greedy span-aware line breaking. Tokens split at whitespace boundaries,
// break preference at spaces, over-long tokens split mid-word by width.
// Widths are canvas units throughout.

type styledToken struct {
	text string
	bold bool
}

type styledRun struct {
	text string
	bold bool
}

type wrappedLine struct {
	runs  []styledRun
	width float64
}

// wrapSpans breaks weighted spans into lines not exceeding limit. A limit
// <= 0 disables width breaking (explicit newlines still apply).
func wrapSpans(spans []compose.Span, limit float64, regular, bold *canvas.FontFace) []wrappedLine {
	if limit <= 0 {
		limit = math.MaxFloat64
	}
	widthOf := func(tok styledToken) float64 {
		if tok.bold {
			return bold.TextWidth(tok.text)
		}
		return regular.TextWidth(tok.text)
	}

	var tokens []styledToken
	for _, span := range spans {
		for _, t := range tokenize(span.Text) {
			tokens = append(tokens, styledToken{text: t, bold: span.Bold})
		}
	}

	var lines []wrappedLine
	var current []styledToken
	currentWidth := 0.0

	emit := func(force bool) {
		if len(current) == 0 {
			if force {
				lines = append(lines, wrappedLine{})
			}
			return
		}
		lines = append(lines, wrappedLine{runs: mergeRuns(current), width: currentWidth})
		current = nil
		currentWidth = 0
	}
	push := func(tok styledToken) {
		current = append(current, tok)
		currentWidth += widthOf(tok)
	}

	for _, tok := range tokens {
		if tok.text == "\n" {
			emit(true)
			continue
		}
		w := widthOf(tok)
		if currentWidth > 0 && currentWidth+w > limit {
			emit(false)
		}
		if w <= limit {
			push(tok)
			if currentWidth > limit {
				emit(false)
			}
			continue
		}
		face := regular
		if tok.bold {
			face = bold
		}
		for _, chunk := range splitByWidth(tok.text, limit, face) {
			cw := face.TextWidth(chunk)
			if currentWidth > 0 && currentWidth+cw > limit {
				emit(false)
			}
			push(styledToken{text: chunk, bold: tok.bold})
			if currentWidth > limit {
				emit(false)
			}
		}
	}
	emit(true)

	// Drop a trailing empty line produced by a final newline-free flush.
	if n := len(lines); n > 0 && len(lines[n-1].runs) == 0 && n > 1 {
		lines = lines[:n-1]
	}
	return lines
}

// tokenize splits text into alternating space/non-space tokens, newlines
// kept as their own tokens. Carriage returns are dropped.
func tokenize(s string) []string {
	var tokens []string
	var builder strings.Builder
	lastWasSpace := false
	flush := func() {
		if builder.Len() == 0 {
			return
		}
		tokens = append(tokens, builder.String())
		builder.Reset()
	}
	for _, r := range s {
		if r == '\r' {
			continue
		}
		if r == '\n' {
			flush()
			tokens = append(tokens, "\n")
			lastWasSpace = false
			continue
		}
		isSpace := unicode.IsSpace(r)
		if builder.Len() == 0 {
			lastWasSpace = isSpace
		} else if lastWasSpace != isSpace {
			flush()
			lastWasSpace = isSpace
		}
		builder.WriteRune(r)
	}
	flush()
	return tokens
}

// splitByWidth chops a single over-long token into chunks within limit.
func splitByWidth(token string, limit float64, face *canvas.FontFace) []string {
	if limit <= 0 || limit == math.MaxFloat64 {
		return []string{token}
	}
	var parts []string
	var builder strings.Builder
	for _, r := range token {
		builder.WriteRune(r)
		if face.TextWidth(builder.String()) > limit && builder.Len() > 1 {
			runes := []rune(builder.String())
			parts = append(parts, string(runes[:len(runes)-1]))
			builder.Reset()
			builder.WriteRune(r)
		}
	}
	if builder.Len() > 0 {
		parts = append(parts, builder.String())
	}
	return parts
}

// mergeRuns folds consecutive same-weight tokens into single draw runs.
func mergeRuns(tokens []styledToken) []styledRun {
	var runs []styledRun
	for _, tok := range tokens {
		if n := len(runs); n > 0 && runs[n-1].bold == tok.bold {
			runs[n-1].text += tok.text
			continue
		}
		runs = append(runs, styledRun{text: tok.text, bold: tok.bold})
	}
	return runs
}
