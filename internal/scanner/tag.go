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

package scanner

import "go.yamlcore.dev/yaml/internal/token"

// fetchTag scans a TAG token, one of the forms '!', '!suffix', '!handle!suffix'
// or the verbatim '!<uri>'.
func (s *Scanner) fetchTag() error {
	if err := s.saveSimpleKey(); err != nil {
		return err
	}
	s.allowSimpleKey = false

	start := s.r.Mark()

	var handle, suffix []byte
	next, err := s.peek(1)
	if err != nil {
		return err
	}
	if next == '<' {
		if err := s.r.Forward(2); err != nil { // eat "!<"
			return err
		}
		suffix, err = s.scanTagURI(false, nil, start)
		if err != nil {
			return err
		}
		c, err := s.peek(0)
		if err != nil {
			return err
		}
		if c != '>' {
			return s.errorf("", start, "did not find the expected '>'")
		}
		if err := s.r.Forward(1); err != nil {
			return err
		}
	} else {
		handle, err = s.scanTagHandle(false, start)
		if err != nil {
			return err
		}
		if len(handle) > 1 && handle[0] == '!' && handle[len(handle)-1] == '!' {
			suffix, err = s.scanTagURI(false, nil, start)
			if err != nil {
				return err
			}
		} else {
			suffix, err = s.scanTagURI(false, handle, start)
			if err != nil {
				return err
			}
			handle = []byte{'!'}
			if len(suffix) == 0 {
				handle, suffix = suffix, handle
			}
		}
	}

	c, err := s.peek(0)
	if err != nil {
		return err
	}
	if !isBlankZ(c) {
		return s.errorf("", start, "did not find expected whitespace or line break")
	}

	s.appendToken(token.Token{Kind: token.Tag, Start: start, End: s.r.Mark(), Value: handle, Suffix: suffix, Divider: -1})
	return nil
}

// scanTagHandle scans a '!', '!suffix!' or '!!' handle. When directive is
// true, a bare '!' immediately followed by something other than '!' is an
// error (this is only legal as part of a TAG-token URI, not a %TAG value).
func (s *Scanner) scanTagHandle(directive bool, start token.Mark) ([]byte, error) {
	c, err := s.peek(0)
	if err != nil {
		return nil, err
	}
	if c != '!' {
		return nil, s.errorf("", start, "did not find expected '!'")
	}
	var name []byte
	name, err = s.read(name)
	if err != nil {
		return nil, err
	}

	c, err = s.peek(0)
	if err != nil {
		return nil, err
	}
	for isAlpha(c) {
		name, err = s.read(name)
		if err != nil {
			return nil, err
		}
		c, err = s.peek(0)
		if err != nil {
			return nil, err
		}
	}

	if c == '!' {
		name, err = s.read(name)
		if err != nil {
			return nil, err
		}
	} else if directive && string(name) != "!" {
		return nil, s.errorf("", start, "did not find expected '!'")
	}
	return name, nil
}

// scanTagURI scans a tag URI, optionally seeded with a previously-scanned
// head (the caller's best-effort handle guess that turned out to just be
// leading URI characters).
func (s *Scanner) scanTagURI(directive bool, head []byte, start token.Mark) ([]byte, error) {
	var uri []byte
	hasTag := len(head) > 0
	if len(head) > 1 {
		uri = append(uri, head[1:]...)
	}

	c, err := s.peek(0)
	if err != nil {
		return nil, err
	}
	for isURIChar(c) {
		if c == '%' {
			uri, err = s.scanURIEscapes(directive, start, uri)
			if err != nil {
				return nil, err
			}
		} else {
			uri, err = s.read(uri)
			if err != nil {
				return nil, err
			}
		}
		hasTag = true
		c, err = s.peek(0)
		if err != nil {
			return nil, err
		}
	}

	if !hasTag {
		return nil, s.errorf("", start, "did not find expected tag URI")
	}
	return uri, nil
}

func runeWidth(lead byte) int {
	switch {
	case lead&0x80 == 0x00:
		return 1
	case lead&0xE0 == 0xC0:
		return 2
	case lead&0xF0 == 0xE0:
		return 3
	case lead&0xF8 == 0xF0:
		return 4
	}
	return 0
}

// scanURIEscapes decodes one percent-escaped UTF-8 code point (one leading
// octet plus however many trailing octets its width implies) into s.
func (s *Scanner) scanURIEscapes(directive bool, start token.Mark, buf []byte) ([]byte, error) {
	width := -1
	for width != 0 {
		c, err := s.peek(0)
		if err != nil {
			return nil, err
		}
		h1, err := s.peek(1)
		if err != nil {
			return nil, err
		}
		h2, err := s.peek(2)
		if err != nil {
			return nil, err
		}
		if c != '%' || !isHex(h1) || !isHex(h2) {
			return nil, s.errorf("", start, "did not find URI escaped octet")
		}
		octet := byte(asHex(h1)<<4 + asHex(h2))
		if width == -1 {
			width = runeWidth(octet)
			if width == 0 {
				return nil, s.errorf("", start, "found an incorrect leading UTF-8 octet")
			}
		} else if octet&0xC0 != 0x80 {
			return nil, s.errorf("", start, "found an incorrect trailing UTF-8 octet")
		}
		buf = append(buf, octet)
		if err := s.r.Forward(3); err != nil {
			return nil, err
		}
		width--
	}
	return buf, nil
}
