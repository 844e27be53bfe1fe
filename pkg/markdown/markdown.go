// Package markdown converts the small markdown dialect used by intake form
// content blocks into HTML. It is line oriented and intentionally forgiving:
// malformed constructs degrade to best-effort output and Render never fails.
//
// Supported blocks: fenced code, headings (1-6), horizontal rules, ordered
// and unordered lists, pipe tables, and paragraphs. Inline spans: bold,
// italic, code, and links. Raw text is HTML-escaped before any inline
// processing, so structural metacharacters are always neutralised. Link
// targets pass through untouched; callers own upstream trust decisions.
package markdown

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	headingRe   = regexp.MustCompile(`^(#{1,6})\s+(.+)`)
	hrRe        = regexp.MustCompile(`^(-{3,}|\*{3,})$`)
	bulletRe    = regexp.MustCompile(`^\s*[-*]\s+(.*)`)
	orderedRe   = regexp.MustCompile(`^\s*\d+\.\s+(.*)`)
	separatorRe = regexp.MustCompile(`^\|[\s:]*-+[\s:]*(\|[\s:]*-+[\s:]*)*\|$`)

	// Paragraph runs stop at any line that opens another block. The list
	// guards here deliberately anchor at column zero, matching how the
	// collector treats indented dashes as paragraph text.
	paraBulletRe  = regexp.MustCompile(`^[-*]\s`)
	paraOrderedRe = regexp.MustCompile(`^\d+\.\s`)

	boldStarRe       = regexp.MustCompile(`\*\*(.+?)\*\*`)
	boldUnderscoreRe = regexp.MustCompile(`__(.+?)__`)
	italicStarRe     = regexp.MustCompile(`\*(.+?)\*`)
	italicUnderRe    = regexp.MustCompile(`_(.+?)_`)
	codeRe           = regexp.MustCompile("`([^`]+)`")
	linkRe           = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)

	escaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
	)
)

type listKind int

const (
	listNone listKind = iota
	listUnordered
	listOrdered
)

// Render converts markdown source into HTML. It is a pure function: the same
// input always yields byte-identical output.
func Render(source string) string {
	lines := strings.Split(source, "\n")
	var out []string
	inList := listNone

	closeList := func() {
		switch inList {
		case listUnordered:
			out = append(out, "</ul>")
		case listOrdered:
			out = append(out, "</ol>")
		}
		inList = listNone
	}

	for i := 0; i < len(lines); {
		line := lines[i]

		// Fenced code block. An unterminated fence consumes to end of input.
		if strings.HasPrefix(strings.TrimLeft(line, " \t"), "```") {
			closeList()
			var code []string
			i++
			for i < len(lines) && !strings.HasPrefix(strings.TrimLeft(lines[i], " \t"), "```") {
				code = append(code, escapeHTML(lines[i]))
				i++
			}
			i++ // closing fence
			out = append(out, `<pre class="bg-gray-100 rounded-lg p-4 text-sm overflow-x-auto my-3"><code>`+strings.Join(code, "\n")+`</code></pre>`)
			continue
		}

		if m := headingRe.FindStringSubmatch(line); m != nil {
			closeList()
			level := strconv.Itoa(len(m[1]))
			out = append(out, "<h"+level+` class="`+headingClass(len(m[1]))+` text-gray-900 mt-4 mb-2">`+renderInline(m[2])+"</h"+level+">")
			i++
			continue
		}

		if hrRe.MatchString(strings.TrimSpace(line)) {
			closeList()
			out = append(out, `<hr class="border-gray-200 my-4" />`)
			i++
			continue
		}

		if m := bulletRe.FindStringSubmatch(line); m != nil {
			if inList != listUnordered {
				closeList()
				inList = listUnordered
				out = append(out, `<ul class="list-disc list-inside space-y-1 my-2 text-gray-700">`)
			}
			out = append(out, "<li>"+renderInline(m[1])+"</li>")
			i++
			continue
		}

		if m := orderedRe.FindStringSubmatch(line); m != nil {
			if inList != listOrdered {
				closeList()
				inList = listOrdered
				out = append(out, `<ol class="list-decimal list-inside space-y-1 my-2 text-gray-700">`)
			}
			out = append(out, "<li>"+renderInline(m[1])+"</li>")
			i++
			continue
		}

		if strings.TrimSpace(line) == "" {
			closeList()
			i++
			continue
		}

		if isTableRow(line) {
			closeList()
			var rows []string
			for i < len(lines) && isTableRow(lines[i]) {
				rows = append(rows, lines[i])
				i++
			}
			// A lone pipe row is not enough to form a table.
			if len(rows) >= 2 {
				out = append(out, renderTable(rows)...)
			}
			continue
		}

		// Paragraph: join consecutive plain lines with single spaces.
		closeList()
		var para []string
		for i < len(lines) && isParagraphLine(lines[i]) {
			para = append(para, lines[i])
			i++
		}
		if len(para) > 0 {
			out = append(out, `<p class="text-gray-700 my-2">`+renderInline(strings.Join(para, " "))+"</p>")
		}
	}

	closeList()
	return strings.Join(out, "\n")
}

func isParagraphLine(line string) bool {
	if strings.TrimSpace(line) == "" {
		return false
	}
	if headingRe.MatchString(line) || paraBulletRe.MatchString(line) || paraOrderedRe.MatchString(line) {
		return false
	}
	if strings.HasPrefix(strings.TrimLeft(line, " \t"), "```") {
		return false
	}
	if hrRe.MatchString(strings.TrimSpace(line)) {
		return false
	}
	return !isTableRow(line)
}

func isTableRow(line string) bool {
	trimmed := strings.TrimSpace(line)
	return strings.HasPrefix(trimmed, "|") && strings.HasSuffix(trimmed, "|") && len(trimmed) > 1
}

func renderTable(rows []string) []string {
	out := []string{`<div class="overflow-x-auto my-3"><table class="w-full text-sm border-collapse">`, "<thead><tr>"}
	for _, cell := range tableCells(rows[0]) {
		out = append(out, `<th class="text-left font-semibold text-gray-900 border-b border-gray-300 px-3 py-2">`+renderInline(cell)+"</th>")
	}
	out = append(out, "</tr></thead>")

	bodyStart := 1
	if separatorRe.MatchString(strings.TrimSpace(rows[1])) {
		bodyStart = 2
	}
	if bodyStart < len(rows) {
		out = append(out, "<tbody>")
		for _, row := range rows[bodyStart:] {
			out = append(out, "<tr>")
			for _, cell := range tableCells(row) {
				out = append(out, `<td class="border-b border-gray-200 px-3 py-2 text-gray-700">`+renderInline(cell)+"</td>")
			}
			out = append(out, "</tr>")
		}
		out = append(out, "</tbody>")
	}

	return append(out, "</table></div>")
}

func tableCells(row string) []string {
	trimmed := strings.TrimSpace(row)
	trimmed = strings.TrimPrefix(trimmed, "|")
	trimmed = strings.TrimSuffix(trimmed, "|")
	cells := strings.Split(trimmed, "|")
	for i, cell := range cells {
		cells[i] = strings.TrimSpace(cell)
	}
	return cells
}

// renderInline applies span-level formatting. Escaping happens first so
// delimiter matching runs over escaped text. Matching is non-greedy with no
// nesting and no delimiter escaping.
func renderInline(text string) string {
	result := escapeHTML(text)
	result = boldStarRe.ReplaceAllString(result, "<strong>$1</strong>")
	result = boldUnderscoreRe.ReplaceAllString(result, "<strong>$1</strong>")
	result = italicStarRe.ReplaceAllString(result, "<em>$1</em>")
	result = replaceUnderscoreItalic(result)
	result = codeRe.ReplaceAllString(result, `<code class="bg-gray-100 px-1 rounded text-sm">$1</code>`)
	result = linkRe.ReplaceAllString(result, `<a href="$2" class="text-blue-600 underline" target="_blank" rel="noopener">$1</a>`)
	return result
}

// replaceUnderscoreItalic handles _text_ spans. The opening underscore must
// not sit inside a word, so snake_case identifiers survive intact. RE2 has no
// lookarounds; boundaries are checked by hand and rejected matches re-scan
// just past the opening delimiter.
func replaceUnderscoreItalic(text string) string {
	var b strings.Builder
	rest := text
	for {
		loc := italicUnderRe.FindStringSubmatchIndex(rest)
		if loc == nil {
			b.WriteString(rest)
			return b.String()
		}
		start, end := loc[0], loc[1]
		if wordByte(rest, start-1) || wordByte(rest, end) {
			b.WriteString(rest[:start+1])
			rest = rest[start+1:]
			continue
		}
		b.WriteString(rest[:start])
		b.WriteString("<em>")
		b.WriteString(rest[loc[2]:loc[3]])
		b.WriteString("</em>")
		rest = rest[end:]
	}
}

func wordByte(s string, i int) bool {
	if i < 0 || i >= len(s) {
		return false
	}
	c := s[i]
	return c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func headingClass(level int) string {
	switch level {
	case 1:
		return "text-2xl font-bold"
	case 2:
		return "text-xl font-bold"
	case 3:
		return "text-lg font-semibold"
	case 4:
		return "text-base font-semibold"
	case 5:
		return "text-sm font-semibold"
	default:
		return "text-sm font-medium"
	}
}

func escapeHTML(text string) string {
	return escaper.Replace(text)
}
