package gtp

import (
	"strconv"
	"strings"

	"github.com/kref/gouct/internal/board"
	"github.com/pkg/errors"
)

// columnLetters skips 'I', matching spec.md §6's "letters A..H,J..T
// column" GTP vertex convention.
const columnLetters = "ABCDEFGHJKLMNOPQRST"

// ParseVertex parses a GTP vertex ("pass", or e.g. "Q16") into a board
// point.
func ParseVertex(b *board.Board, v string) (board.Point, error) {
	if strings.EqualFold(v, "pass") {
		return board.PASS, nil
	}
	if len(v) < 2 {
		return board.PASS, errors.Errorf("gtp: malformed vertex %q", v)
	}
	col := strings.IndexByte(columnLetters, byte(strings.ToUpper(v[:1])[0]))
	if col < 0 || col >= b.Size() {
		return board.PASS, errors.Errorf("gtp: column out of range in vertex %q", v)
	}
	rowNum, err := strconv.Atoi(v[1:])
	if err != nil || rowNum < 1 || rowNum > b.Size() {
		return board.PASS, errors.Errorf("gtp: row out of range in vertex %q", v)
	}
	row := b.Size() - rowNum // GTP row 1 is the bottom edge
	return b.Point(row, col), nil
}

// FormatVertex renders a board point as a GTP vertex.
func FormatVertex(b *board.Board, p board.Point) string {
	if p == board.PASS {
		return "pass"
	}
	row, col := b.RowCol(p)
	return string(columnLetters[col]) + strconv.Itoa(b.Size()-row)
}

// renderBoard draws an ASCII board for `showboard`, with GTP-style row
// numbers descending from the top and column letters across the top
// and bottom, following michi.go's Position.__str__ layout in spirit.
func renderBoard(b *board.Board) string {
	var sb strings.Builder
	sb.WriteString("  ")
	for c := 0; c < b.Size(); c++ {
		sb.WriteByte(' ')
		sb.WriteByte(columnLetters[c])
	}
	sb.WriteByte('\n')
	for row := 0; row < b.Size(); row++ {
		rowNum := b.Size() - row
		sb.WriteString(padRight(strconv.Itoa(rowNum), 2))
		for col := 0; col < b.Size(); col++ {
			sb.WriteByte(' ')
			switch b.GetColor(b.Point(row, col)) {
			case board.Black:
				sb.WriteByte('X')
			case board.White:
				sb.WriteByte('O')
			default:
				sb.WriteByte('.')
			}
		}
		sb.WriteString(" " + padRight(strconv.Itoa(rowNum), 2) + "\n")
	}
	sb.WriteString("  ")
	for c := 0; c < b.Size(); c++ {
		sb.WriteByte(' ')
		sb.WriteByte(columnLetters[c])
	}
	return sb.String()
}

func padRight(s string, n int) string {
	for len(s) < n {
		s += " "
	}
	return s
}
