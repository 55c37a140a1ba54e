// Package encoding normalizes uploaded bank files to UTF-8. Banks export
// CSVs in whatever charset their core system speaks, so nothing downstream
// should have to care.
package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// peekSize covers BOM sniffing plus enough text for charset heuristics.
const peekSize = 4096

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// NewUTF8Reader wraps r so reads yield UTF-8 regardless of the source
// charset. A UTF-8 BOM is stripped, UTF-16 BOMs select the matching decoder,
// already-valid UTF-8 passes through, and everything else goes through
// chardet with Windows-1252 as the last resort.
func NewUTF8Reader(r io.Reader) (io.Reader, error) {
	br := bufio.NewReader(r)

	head, err := br.Peek(peekSize)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("peeking input: %w", err)
	}

	switch {
	case bytes.HasPrefix(head, bomUTF8):
		_, _ = br.Discard(len(bomUTF8))
		return br, nil
	case bytes.HasPrefix(head, bomUTF16LE):
		return decode(br, unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)), nil
	case bytes.HasPrefix(head, bomUTF16BE):
		return decode(br, unicode.UTF16(unicode.BigEndian, unicode.UseBOM)), nil
	}

	// A peek boundary can split a multibyte rune, so trust chardet calling
	// it UTF-8 even when the raw validity check fails.
	if utf8.Valid(head) || sniffsUTF8(head) {
		return br, nil
	}

	if enc := sniffCharset(head); enc != nil {
		return decode(br, enc), nil
	}

	return decode(br, charmap.Windows1252), nil
}

func sniffsUTF8(head []byte) bool {
	result, err := chardet.NewTextDetector().DetectBest(head)
	return err == nil && result.Charset == "UTF-8"
}

func decode(r io.Reader, enc encoding.Encoding) io.Reader {
	return transform.NewReader(r, enc.NewDecoder())
}

// sniffCharset maps chardet's best guess to a decoder, nil when the guess is
// either UTF-8 (no decoding needed) or something we have no table for.
func sniffCharset(head []byte) encoding.Encoding {
	result, err := chardet.NewTextDetector().DetectBest(head)
	if err != nil {
		return nil
	}

	switch result.Charset {
	case "ISO-8859-1", "windows-1252":
		return charmap.Windows1252
	case "ISO-8859-15":
		return charmap.ISO8859_15
	case "ISO-8859-9":
		return charmap.ISO8859_9
	}

	return nil
}
