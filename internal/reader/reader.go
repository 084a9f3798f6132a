//
// Copyright (c) 2011-2019 Canonical Ltd
// Copyright (c) 2006-2010 Kirill Simonov
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of
// this software and associated documentation files (the "Software"), to deal in
// the Software without restriction, including without limitation the rights to
// use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies
// of the Software, and to permit persons to whom the Software is furnished to do
// so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Package reader implements the byte-reader collaborator described by the
// codec's design notes: it decodes an input stream to a sequence of Unicode
// code points, tracks line/column/code-point offset, and exposes the small
// peek/forward/slice/mark contract the Scanner needs to build token values
// in place.
//
// UTF-16/UTF-32 transcoding is delegated to golang.org/x/text so that the
// Scanner never has to reason about anything but UTF-8 bytes; BOM detection
// and the incremental buffering (needed so Scanner lookahead never blocks on
// partial multi-byte sequences) are hand-rolled here.
package reader

import (
	"bytes"
	"fmt"
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
	"golang.org/x/text/transform"

	"go.yamlcore.dev/yaml/internal/token"
)

// Error is returned for malformed input: invalid UTF sequences, disallowed
// control characters, or an I/O failure from the underlying stream.
type Error struct {
	Problem string
}

func (e *Error) Error() string { return "yaml: " + e.Problem }

func newError(format string, args ...interface{}) error {
	return &Error{Problem: fmt.Sprintf(format, args...)}
}

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
	bomUTF32LE = []byte{0xFF, 0xFE, 0x00, 0x00}
	bomUTF32BE = []byte{0x00, 0x00, 0xFE, 0xFF}
)

// sniffEncoding inspects up to the first 4 bytes of raw for a BOM. When no
// BOM is present UTF-8 is assumed, per the YAML spec. The BOM itself (if
// any) is consumed and its length is returned.
func sniffEncoding(raw []byte) (token.Encoding, int) {
	switch {
	case bytes.HasPrefix(raw, bomUTF32LE):
		return token.UTF32LEEncoding, 4
	case bytes.HasPrefix(raw, bomUTF32BE):
		return token.UTF32BEEncoding, 4
	case bytes.HasPrefix(raw, bomUTF16LE):
		return token.UTF16LEEncoding, 2
	case bytes.HasPrefix(raw, bomUTF16BE):
		return token.UTF16BEEncoding, 2
	case bytes.HasPrefix(raw, bomUTF8):
		return token.UTF8Encoding, 3
	default:
		return token.UTF8Encoding, 0
	}
}

func transformerFor(enc token.Encoding) transform.Transformer {
	switch enc {
	case token.UTF16LEEncoding:
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()
	case token.UTF16BEEncoding:
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder()
	case token.UTF32LEEncoding:
		return utf32.UTF32(utf32.LittleEndian, utf32.IgnoreBOM).NewDecoder()
	case token.UTF32BEEncoding:
		return utf32.UTF32(utf32.BigEndian, utf32.IgnoreBOM).NewDecoder()
	default:
		return nil
	}
}

// allowed reports whether r is in the restricted set of characters YAML
// permits in a stream:
//
//	#x9 | #xA | #xD | [#x20-#x7E] | #x85 | [#xA0-#xD7FF] | [#xE000-#xFFFD] | [#x10000-#x10FFFF]
func allowed(r rune) bool {
	switch {
	case r == 0x09, r == 0x0A, r == 0x0D:
		return true
	case r >= 0x20 && r <= 0x7E:
		return true
	case r == 0x85:
		return true
	case r >= 0xA0 && r <= 0xD7FF:
		return true
	case r >= 0xE000 && r <= 0xFFFD:
		return true
	case r >= 0x10000 && r <= 0x10FFFF:
		return true
	}
	return false
}

// Reader buffers decoded UTF-8 bytes and tracks the rune-based position of
// every byte offset it has handed out. The buffer always ends with a
// trailing NUL once EOF has been reached, matching the sentinel the Scanner
// uses to recognize end of input without a separate "have we hit EOF" check
// on every call.
type Reader struct {
	src      io.Reader
	xform    transform.Transformer
	encoding token.Encoding

	buf      []byte // decoded UTF-8, NUL-terminated once eof
	pos      int    // current rune-decode position within buf
	eof      bool
	sniffed  bool
	rawAhead []byte // bytes read from src but not yet fed to xform/sniffer

	index, line, column int
}

func New(src io.Reader) *Reader {
	return &Reader{src: src}
}

// Mark returns the current position.
func (r *Reader) Mark() token.Mark {
	return token.Mark{Index: r.index, Line: r.line, Column: r.column}
}

func (r *Reader) Encoding() token.Encoding {
	return r.encoding
}

func (r *Reader) ensureSniffed() error {
	if r.sniffed {
		return nil
	}
	head := make([]byte, 4)
	n, err := io.ReadFull(r.src, head)
	head = head[:n]
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return newError("input error: %v", err)
	}
	enc, bomLen := sniffEncoding(head)
	r.encoding = enc
	r.xform = transformerFor(enc)
	r.rawAhead = append(r.rawAhead, head[bomLen:]...)
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		r.eof = true
	}
	r.sniffed = true
	return nil
}

// fill decodes more input until the buffer holds at least length bytes past
// pos, or EOF is reached.
func (r *Reader) fill(length int) error {
	if err := r.ensureSniffed(); err != nil {
		return err
	}
	for len(r.buf)-r.pos < length && (!r.eof || len(r.rawAhead) > 0) {
		if !r.eof {
			chunk := make([]byte, 4096)
			n, err := r.src.Read(chunk)
			r.rawAhead = append(r.rawAhead, chunk[:n]...)
			if err == io.EOF {
				r.eof = true
			} else if err != nil {
				return newError("input error: %v", err)
			}
		}

		var decoded []byte
		if r.xform == nil {
			decoded = r.rawAhead
			r.rawAhead = nil
		} else {
			dst := make([]byte, len(r.rawAhead)*4+16)
			nDst, nSrc, terr := r.xform.Transform(dst, r.rawAhead, r.eof)
			if terr != nil && terr != transform.ErrShortSrc {
				return newError("invalid %v sequence: %v", r.encoding, terr)
			}
			decoded = dst[:nDst]
			r.rawAhead = append([]byte(nil), r.rawAhead[nSrc:]...)
			if r.eof && len(r.rawAhead) > 0 {
				return newError("truncated %v sequence at end of input", r.encoding)
			}
		}

		for i := 0; i < len(decoded); {
			rn, w := decodeRune(decoded[i:])
			if w == 0 {
				return newError("invalid UTF-8 in decoded stream")
			}
			if !allowed(rn) {
				return newError("control characters are not allowed")
			}
			i += w
		}
		r.buf = append(r.buf, decoded...)
	}
	if r.eof {
		r.buf = append(r.buf, 0)
	}
	return nil
}

func decodeRune(b []byte) (rune, int) {
	if len(b) == 0 {
		return 0, 0
	}
	if b[0] < 0x80 {
		return rune(b[0]), 1
	}
	r, w := decodeRuneMultibyte(b)
	return r, w
}

// Peek returns the code point k runes ahead of the current position without
// consuming it. Peek(0) is the current character; NUL is returned at EOF.
func (r *Reader) Peek(k int) (rune, error) {
	// Over-provision: worst case each rune is 4 bytes.
	if err := r.fill((k + 2) * 4); err != nil {
		return 0, err
	}
	p := r.pos
	for i := 0; i < k; i++ {
		if p >= len(r.buf) || r.buf[p] == 0 {
			return 0, nil
		}
		_, w := decodeRune(r.buf[p:])
		p += w
	}
	if p >= len(r.buf) {
		return 0, nil
	}
	rn, _ := decodeRune(r.buf[p:])
	return rn, nil
}

// Forward advances the position by n code points, updating line/column.
func (r *Reader) Forward(n int) error {
	if err := r.fill((n + 2) * 4); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if r.pos >= len(r.buf) || r.buf[r.pos] == 0 {
			return nil
		}
		rn, w := decodeRune(r.buf[r.pos:])
		r.pos += w
		r.index++
		if rn == '\n' || rn == 0x85 || rn == 0x2028 || rn == 0x2029 {
			r.line++
			r.column = 0
		} else if rn != 0xFEFF {
			r.column++
		}
	}
	return nil
}

// Slice returns a view of the next n code points as UTF-8 bytes without
// advancing the position. The returned slice aliases the reader's internal
// buffer and must be copied before the reader advances past it if it needs
// to outlive the next Forward/Peek/Slice call that triggers a refill.
func (r *Reader) Slice(n int) ([]byte, error) {
	if err := r.fill((n + 2) * 4); err != nil {
		return nil, err
	}
	p := r.pos
	for i := 0; i < n; i++ {
		if p >= len(r.buf) || r.buf[p] == 0 {
			break
		}
		_, w := decodeRune(r.buf[p:])
		p += w
	}
	return r.buf[r.pos:p], nil
}
