package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseNumberLiteral types a numeric lexeme the way the tally lexer does: a
// decimal point selects float, an explicit sign selects integer, and an
// unsigned run of digits is a whole number.
func ParseNumberLiteral(lexeme string) (Literal, error) {
	text := strings.TrimSpace(lexeme)
	if text == "" {
		return nil, fmt.Errorf("empty number literal")
	}
	switch {
	case strings.Contains(text, "."):
		val, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid float literal %q: %w", lexeme, err)
		}
		return NewFloatLiteral(val), nil
	case text[0] == '+' || text[0] == '-':
		val, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid integer literal %q: %w", lexeme, err)
		}
		return NewIntegerLiteral(val), nil
	default:
		val, err := strconv.ParseUint(text, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid whole literal %q: %w", lexeme, err)
		}
		return NewWholeLiteral(val), nil
	}
}
