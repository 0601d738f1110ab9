package chess

import (
	"fmt"
	"strconv"
	"strings"
)

// FEN of the position, castling and en passant fields are always "-"
func (b *Board) FEN() string {
	var sb strings.Builder
	sb.WriteString(b.Position.placementFEN())
	sb.WriteString(" - - 0 ")
	sb.WriteString(strconv.Itoa(b.ply/2 + 1))
	return sb.String()
}

// Placement and side to move fields
func (p *Position) placementFEN() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			piece := p.squares[NewSquare(file, rank)]
			if piece == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteByte(piece.Symbol())
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}
	if p.turn == White {
		sb.WriteString(" w")
	} else {
		sb.WriteString(" b")
	}
	return sb.String()
}

func fenError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidFEN, fmt.Sprintf(format, args...))
}

// ParseFEN builds a board from a FEN string. Only the placement, side to
// move and fullmove fields are used, piece ids are assigned in the order
// the pieces appear.
func ParseFEN(fen string) (*Board, error) {
	fields := strings.Fields(fen)
	if len(fields) < 2 {
		return nil, fenError("expected at least 2 fields, got %d", len(fields))
	}

	pos := emptyPosition()
	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return nil, fenError("expected 8 ranks, got %d", len(ranks))
	}

	var used [2][NoRole]Piece
	for i, row := range ranks {
		rank, file := 7-i, 0
		for j := 0; j < len(row); j++ {
			c := row[j]
			if c >= '1' && c <= '8' {
				file += int(c - '0')
				continue
			}
			role, color, ok := roleFromSymbol(c)
			if !ok {
				return nil, fenError("unknown piece symbol %q", c)
			}
			if file > 7 {
				return nil, fenError("rank %d is too long", rank+1)
			}
			r := roleRanges[role]
			if used[color][role] >= r.count {
				return nil, fenError("too many pieces of type %q", c)
			}
			pos.place(color.Offset()+r.first+used[color][role], NewSquare(file, rank))
			used[color][role]++
			file++
		}
		if file != 8 {
			return nil, fenError("rank %d has %d files", rank+1, file)
		}
	}

	switch fields[1] {
	case "w":
		pos.turn = White
	case "b":
		pos.turn = Black
	default:
		return nil, fenError("bad side to move %q", fields[1])
	}

	fullmove := 1
	if len(fields) >= 6 {
		n, err := strconv.Atoi(fields[5])
		if err != nil || n < 1 {
			return nil, fenError("bad fullmove number %q", fields[5])
		}
		fullmove = n
	}

	if err := pos.validate(); err != nil {
		return nil, fenError("%v", err)
	}
	return newBoard(pos, 2*(fullmove-1)+int(pos.turn)), nil
}
