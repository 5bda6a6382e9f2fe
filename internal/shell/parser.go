package shell

import (
	"errors"
	"strings"
	"unicode"
)

var (
	ErrUnclosedQuote  = errors.New("unclosed quote")
	ErrTrailingEscape = errors.New("trailing backslash")
)

type tokenState int

const (
	stateOutside tokenState = iota
	stateSingleQuote
	stateDoubleQuote
)

// Tokenize splits a command line on blanks. Single quotes keep everything
// literal, double quotes allow \" and \\ escapes, and a backslash outside
// quotes escapes the next rune. An empty quoted string produces no token.
func Tokenize(line string) ([]string, error) {
	var (
		tokens   []string
		buf      strings.Builder
		state    = stateOutside
		escaping bool
	)

	flush := func() {
		if buf.Len() > 0 {
			tokens = append(tokens, buf.String())
			buf.Reset()
		}
	}

	for _, ch := range line {
		switch state {
		case stateOutside:
			switch {
			case escaping:
				buf.WriteRune(ch)
				escaping = false
			case unicode.IsSpace(ch):
				flush()
			case ch == '\'':
				state = stateSingleQuote
			case ch == '"':
				state = stateDoubleQuote
			case ch == '\\':
				escaping = true
			default:
				buf.WriteRune(ch)
			}

		case stateSingleQuote:
			if ch == '\'' {
				state = stateOutside
			} else {
				buf.WriteRune(ch)
			}

		case stateDoubleQuote:
			switch {
			case escaping:
				if ch != '\\' && ch != '"' {
					buf.WriteRune('\\')
				}
				buf.WriteRune(ch)
				escaping = false
			case ch == '"':
				state = stateOutside
			case ch == '\\':
				escaping = true
			default:
				buf.WriteRune(ch)
			}
		}
	}

	if state != stateOutside {
		return nil, ErrUnclosedQuote
	}
	if escaping {
		return nil, ErrTrailingEscape
	}
	flush()

	return tokens, nil
}
