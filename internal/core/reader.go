package core

import (
	"bufio"
	"bytes"
	"io"
)

// utf8BOM is the byte order mark Windows tools prepend to exported CSVs.
// Left in place it would become part of the first header cell and break
// the "name" column lookup.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// skipBOM wraps r so that a leading UTF-8 BOM, if present, is consumed
// before any bytes reach the CSV parser. All other content passes
// through untouched.
func skipBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	head, err := br.Peek(len(utf8BOM))
	if err == nil && bytes.Equal(head, utf8BOM) {
		br.Discard(len(utf8BOM))
	}
	return br
}
