package json

import (
	"bytes"
	"fmt"
)

// TrimComments remove the // and /* */ comments outside the strings, the newlines are kept
func TrimComments(data []byte) []byte {
	res, _ := trimComments(data)
	return res
}

// trimComments fails when a block comment is not closed
func trimComments(data []byte) ([]byte, error) {
	var (
		res      bytes.Buffer
		inString bool
		escaped  bool
		line     bool
		block    bool
	)

	for i := 0; i < len(data); i++ {
		c := data[i]
		next := byte(0)
		if i+1 < len(data) {
			next = data[i+1]
		}

		switch {
		case line:
			if c == '\n' || c == '\r' {
				line = false
				res.WriteByte(c)
			}

		case block:
			if c == '*' && next == '/' {
				block = false
				i++
			}

		case inString:
			res.WriteByte(c)
			if escaped {
				escaped = false
			} else if c == '\\' {
				escaped = true
			} else if c == '"' {
				inString = false
			}

		case c == '"':
			inString = true
			res.WriteByte(c)

		case c == '/' && next == '/':
			line = true
			i++

		case c == '/' && next == '*':
			block = true
			i++

		default:
			res.WriteByte(c)
		}
	}

	if block {
		return res.Bytes(), fmt.Errorf("the block comment is not closed")
	}
	return res.Bytes(), nil
}
