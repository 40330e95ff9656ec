// Package render draws chess positions as Unicode text suitable for a
// plain-text chat message.
package render

import "strings"

var pieceSymbols = map[byte]rune{
	'P': '♟', 'R': '♜', 'N': '♞', 'B': '♝', 'Q': '♛', 'K': '♚',
	'p': '♙', 'r': '♖', 'n': '♘', 'b': '♗', 'q': '♕', 'k': '♔',
}

const (
	topBorder    = "╔═══╤═══╤═══╤═══╤═══╤═══╤═══╤═══╗\n"
	rowSeparator = "╠═══╪═══╪═══╪═══╪═══╪═══╪═══╪═══╣\n"
	bottomBorder = "╚═══╧═══╧═══╧═══╧═══╧═══╧═══╧═══╝\n"
	fileLabels   = "  a   b   c   d   e   f   g   h  \n"
)

// Board renders the piece-placement field of a FEN string as an 8x8
// grid with a box-drawing frame and file labels, rank 8 at the top.
// Malformed input yields a best-effort grid rather than an error; the
// position is authoritative upstream.
func Board(fen string) string {
	placement := fen
	if i := strings.IndexByte(fen, ' '); i >= 0 {
		placement = fen[:i]
	}

	var b strings.Builder
	b.WriteString(topBorder)

	ranks := strings.Split(placement, "/")
	for i := 0; i < 8; i++ {
		var rank string
		if i < len(ranks) {
			rank = ranks[i]
		}
		b.WriteString("║")
		for _, sym := range expandRank(rank) {
			b.WriteRune(' ')
			b.WriteRune(sym)
			b.WriteString(" ║")
		}
		b.WriteString("\n")
		if i < 7 {
			b.WriteString(rowSeparator)
		}
	}

	b.WriteString(bottomBorder)
	b.WriteString(fileLabels)
	return b.String()
}

// expandRank turns one FEN rank ("rnb1kbnr", "4P3") into exactly eight
// display runes.
func expandRank(rank string) [8]rune {
	var out [8]rune
	for i := range out {
		out[i] = ' '
	}

	file := 0
	for i := 0; i < len(rank) && file < 8; i++ {
		c := rank[i]
		switch {
		case c >= '1' && c <= '8':
			file += int(c - '0')
		default:
			if sym, ok := pieceSymbols[c]; ok {
				out[file] = sym
			}
			file++
		}
	}
	return out
}
