package ingest

import "strings"

// Tokenize splits raw CSV text into rows of trimmed fields. It strips a
// leading byte-order mark, accepts any newline convention, honors
// double-quote escaping (commas and newlines inside quotes are literal, a
// doubled quote is one literal quote), and drops blank lines entirely.
//
// Tokenize is total: malformed quoting never fails. An unbalanced quote
// simply consumes the rest of the input into the open field, mirroring how
// permissive bank export tools behave.
func Tokenize(text string) [][]string {
	text = strings.TrimPrefix(text, "\uFEFF")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var rows [][]string
	var fields []string
	var cur strings.Builder
	inQuotes := false

	flushField := func() {
		fields = append(fields, strings.TrimSpace(cur.String()))
		cur.Reset()
	}
	flushRow := func() {
		flushField()
		if !blankRow(fields) {
			rows = append(rows, fields)
		}
		fields = nil
	}

	for i := 0; i < len(text); i++ {
		ch := text[i]
		switch {
		case ch == '"':
			if inQuotes && i+1 < len(text) && text[i+1] == '"' {
				cur.WriteByte('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
		case ch == ',' && !inQuotes:
			flushField()
		case ch == '\n' && !inQuotes:
			flushRow()
		default:
			cur.WriteByte(ch)
		}
	}
	flushRow()

	return rows
}

// blankRow reports whether every field is empty after trimming. Such rows
// come from blank lines and are never emitted.
func blankRow(fields []string) bool {
	for _, f := range fields {
		if f != "" {
			return false
		}
	}
	return true
}
