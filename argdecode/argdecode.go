// Package argdecode implements the Argument Decoder: a family of composable
// decoders over a positional argument vector, built as a combinator library
// of small functions each taking a cursor and returning either an advanced
// cursor plus a value, or an ArgumentError.
package argdecode

import (
	"strconv"

	"github.com/arnegrid/simidx/core"
)

// Cursor walks a positional argument vector.
type Cursor struct {
	argv []string
	pos  int
}

// NewCursor wraps argv for decoding, starting at position 0.
func NewCursor(argv []string) *Cursor {
	return &Cursor{argv: argv}
}

// Pos returns the cursor's current position, for error reporting.
func (c *Cursor) Pos() int { return c.pos }

// Done reports whether the cursor has reached the end of argv.
func (c *Cursor) Done() bool { return c.pos >= len(c.argv) }

// Next consumes and returns the next token, or an ArgumentError if the
// cursor is already at the end.
func (c *Cursor) Next() (string, error) {
	if c.Done() {
		return "", &core.ArgumentError{Pos: c.pos, Msg: "unexpected end of arguments"}
	}
	tok := c.argv[c.pos]
	c.pos++
	return tok, nil
}

// Peek returns the next token without consuming it, or "", false at EOF.
func (c *Cursor) Peek() (string, bool) {
	if c.Done() {
		return "", false
	}
	return c.argv[c.pos], true
}

// Scalar consumes one token and applies convert to it.
func Scalar[T any](c *Cursor, convert func(string) (T, error)) (T, error) {
	var zero T
	pos := c.pos
	tok, err := c.Next()
	if err != nil {
		return zero, err
	}
	v, err := convert(tok)
	if err != nil {
		return zero, &core.ArgumentError{Pos: pos, Msg: err.Error()}
	}
	return v, nil
}

// String consumes one token verbatim.
func String(c *Cursor) (string, error) {
	return Scalar(c, func(s string) (string, error) { return s, nil })
}

// Int consumes one token and parses it as a base-10 int.
func Int(c *Cursor) (int, error) {
	return Scalar(c, func(s string) (int, error) { return strconv.Atoi(s) })
}

// Int64 consumes one token and parses it as a base-10 int64.
func Int64(c *Cursor) (int64, error) {
	return Scalar(c, func(s string) (int64, error) { return strconv.ParseInt(s, 10, 64) })
}

// Uint16 consumes one token and parses it as a base-10 uint16.
func Uint16(c *Cursor) (uint16, error) {
	return Scalar(c, func(s string) (uint16, error) {
		v, err := strconv.ParseUint(s, 10, 16)
		return uint16(v), err
	})
}

// Uint8 consumes one token and parses it as a base-10 uint8.
func Uint8(c *Cursor) (uint8, error) {
	return Scalar(c, func(s string) (uint8, error) {
		v, err := strconv.ParseUint(s, 10, 8)
		return uint8(v), err
	})
}

// FlagSet greedily consumes tokens that appear in vocabulary, stopping at
// the first token not in it (or at EOF). Returns the set of flags seen.
func FlagSet(c *Cursor, vocabulary map[string]struct{}) map[string]struct{} {
	seen := make(map[string]struct{})
	for {
		tok, ok := c.Peek()
		if !ok {
			break
		}
		if _, known := vocabulary[tok]; !known {
			break
		}
		_, _ = c.Next()
		seen[tok] = struct{}{}
	}
	return seen
}

// Repeated decodes a count via countDecoder (defaulting to Int when nil),
// then that many items via itemDecoder.
func Repeated[T any](c *Cursor, itemDecoder func(*Cursor) (T, error), countDecoder func(*Cursor) (int, error)) ([]T, error) {
	if countDecoder == nil {
		countDecoder = Int
	}
	n, err := countDecoder(c)
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, &core.ArgumentError{Pos: c.pos, Msg: "repeated count must be non-negative"}
	}
	items := make([]T, 0, n)
	for i := 0; i < n; i++ {
		v, err := itemDecoder(c)
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	return items, nil
}

// Variadic decodes items via itemDecoder until the cursor reaches the end
// of argv.
func Variadic[T any](c *Cursor, itemDecoder func(*Cursor) (T, error)) ([]T, error) {
	var items []T
	for !c.Done() {
		v, err := itemDecoder(c)
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	return items, nil
}
