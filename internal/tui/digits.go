package tui

import "strings"

const digitRows = 5

// glyphs is a 5-row block font for the clock face. Digits are five columns
// wide and the colon three.
var glyphs = map[rune][digitRows]string{
	'0': {"█████", "█   █", "█   █", "█   █", "█████"},
	'1': {" ██  ", "  █  ", "  █  ", "  █  ", " ███ "},
	'2': {"█████", "    █", "█████", "█    ", "█████"},
	'3': {"█████", "    █", " ████", "    █", "█████"},
	'4': {"█   █", "█   █", "█████", "    █", "    █"},
	'5': {"█████", "█    ", "█████", "    █", "█████"},
	'6': {"█████", "█    ", "█████", "█   █", "█████"},
	'7': {"█████", "    █", "   █ ", "  █  ", "  █  "},
	'8': {"█████", "█   █", "█████", "█   █", "█████"},
	'9': {"█████", "█   █", "█████", "    █", "█████"},
	':': {"   ", " █ ", "   ", " █ ", "   "},
}

// BigText renders s in the block font, one string per row, glyphs separated
// by a single column. Runes without a glyph are skipped.
func BigText(s string) []string {
	var rows [digitRows]strings.Builder
	first := true
	for _, ch := range s {
		g, ok := glyphs[ch]
		if !ok {
			continue
		}
		for i := range rows {
			if !first {
				rows[i].WriteByte(' ')
			}
			rows[i].WriteString(g[i])
		}
		first = false
	}
	out := make([]string, digitRows)
	for i := range rows {
		out[i] = rows[i].String()
	}
	return out
}

// BigTextWidth returns the column width of BigText(s).
func BigTextWidth(s string) int {
	w, n := 0, 0
	for _, ch := range s {
		g, ok := glyphs[ch]
		if !ok {
			continue
		}
		w += len([]rune(g[0]))
		n++
	}
	if n > 1 {
		w += n - 1
	}
	return w
}
