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

// fetchFlowScalar scans a single- or double-quoted scalar into a SCALAR
// token, expanding double-quoted escapes as it goes.
func (s *Scanner) fetchFlowScalar(single bool) error {
	if err := s.saveSimpleKey(); err != nil {
		return err
	}
	s.allowSimpleKey = false

	start := s.r.Mark()
	if err := s.r.Forward(1); err != nil { // eat the opening quote
		return err
	}

	var value, leadingBreak, trailingBreaks, whitespace []byte

	for {
		if err := s.checkNoDocumentIndicator(start); err != nil {
			return err
		}

		c, err := s.peek(0)
		if err != nil {
			return err
		}
		if c == 0 {
			return s.errorf("", start, "found unexpected end of stream")
		}

		leadingBlanks := false
		for !isBlankZ(c) {
			if single && c == '\'' {
				next, err := s.peek(1)
				if err != nil {
					return err
				}
				if next == '\'' {
					value = append(value, '\'')
					if err := s.r.Forward(2); err != nil {
						return err
					}
					c, err = s.peek(0)
					if err != nil {
						return err
					}
					continue
				}
				break
			}
			if !single && c == '"' {
				break
			}
			if !single && c == '\\' {
				next, err := s.peek(1)
				if err != nil {
					return err
				}
				if isBreak(next) {
					if err := s.r.Forward(1); err != nil {
						return err
					}
					if err := s.skipLine(); err != nil {
						return err
					}
					leadingBlanks = true
					break
				}
				value, err = s.scanEscape(start, value)
				if err != nil {
					return err
				}
				c, err = s.peek(0)
				if err != nil {
					return err
				}
				continue
			}
			value, err = s.read(value)
			if err != nil {
				return err
			}
			c, err = s.peek(0)
			if err != nil {
				return err
			}
		}

		c, err = s.peek(0)
		if err != nil {
			return err
		}
		if single && c == '\'' {
			break
		}
		if !single && c == '"' {
			break
		}

		for isBlank(c) || isBreak(c) {
			if isBlank(c) {
				if !leadingBlanks {
					whitespace, err = s.read(whitespace)
					if err != nil {
						return err
					}
				} else {
					if err := s.r.Forward(1); err != nil {
						return err
					}
				}
			} else {
				if !leadingBlanks {
					whitespace = whitespace[:0]
					leadingBreak, err = s.readLine(leadingBreak)
					if err != nil {
						return err
					}
					leadingBlanks = true
				} else {
					trailingBreaks, err = s.readLine(trailingBreaks)
					if err != nil {
						return err
					}
				}
			}
			c, err = s.peek(0)
			if err != nil {
				return err
			}
		}

		if leadingBlanks {
			if len(leadingBreak) > 0 && leadingBreak[0] == '\n' {
				if len(trailingBreaks) == 0 {
					value = append(value, ' ')
				} else {
					value = append(value, trailingBreaks...)
				}
			} else {
				value = append(value, leadingBreak...)
				value = append(value, trailingBreaks...)
			}
			trailingBreaks = trailingBreaks[:0]
			leadingBreak = leadingBreak[:0]
		} else {
			value = append(value, whitespace...)
			whitespace = whitespace[:0]
		}
	}

	if err := s.r.Forward(1); err != nil { // eat the closing quote
		return err
	}

	style := token.SingleQuotedScalarStyle
	if !single {
		style = token.DoubleQuotedScalarStyle
	}
	s.appendToken(token.Token{Kind: token.Scalar, Start: start, End: s.r.Mark(), Value: value, Style: style})
	return nil
}

func (s *Scanner) checkNoDocumentIndicator(start token.Mark) error {
	if s.r.Mark().Column != 0 {
		return nil
	}
	ok, err := s.checkDocumentIndicator("---")
	if err != nil {
		return err
	}
	if !ok {
		ok, err = s.checkDocumentIndicator("...")
		if err != nil {
			return err
		}
	}
	if ok {
		return s.errorf("", start, "found unexpected document indicator")
	}
	return nil
}

// scanEscape expands a single backslash escape sequence (double-quoted
// scalars only) and appends the resulting UTF-8 bytes to value.
func (s *Scanner) scanEscape(start token.Mark, value []byte) ([]byte, error) {
	next, err := s.peek(1)
	if err != nil {
		return nil, err
	}
	codeLength := 0
	switch next {
	case '0':
		value = append(value, 0)
	case 'a':
		value = append(value, '\a')
	case 'b':
		value = append(value, '\b')
	case 't', '\t':
		value = append(value, '\t')
	case 'n':
		value = append(value, '\n')
	case 'v':
		value = append(value, '\v')
	case 'f':
		value = append(value, '\f')
	case 'r':
		value = append(value, '\r')
	case 'e':
		value = append(value, 0x1B)
	case ' ':
		value = append(value, ' ')
	case '"':
		value = append(value, '"')
	case '\'':
		value = append(value, '\'')
	case '\\':
		value = append(value, '\\')
	case 'N': // NEL, #x85
		value = append(value, 0xC2, 0x85)
	case '_': // #xA0
		value = append(value, 0xC2, 0xA0)
	case 'L': // LS, #x2028
		value = append(value, 0xE2, 0x80, 0xA8)
	case 'P': // PS, #x2029
		value = append(value, 0xE2, 0x80, 0xA9)
	case 'x':
		codeLength = 2
	case 'u':
		codeLength = 4
	case 'U':
		codeLength = 8
	default:
		return nil, s.errorf("", start, "found unknown escape character")
	}

	if err := s.r.Forward(2); err != nil { // eat '\' and the escape letter
		return nil, err
	}

	if codeLength > 0 {
		value, err = s.scanHexEscape(start, value, codeLength)
		if err != nil {
			return nil, err
		}
	}
	return value, nil
}

func (s *Scanner) scanHexEscape(start token.Mark, value []byte, length int) ([]byte, error) {
	code := 0
	for k := 0; k < length; k++ {
		c, err := s.peek(k)
		if err != nil {
			return nil, err
		}
		if !isHex(c) {
			return nil, s.errorf("", start, "did not find expected hexdecimal number")
		}
		code = code<<4 + asHex(c)
	}
	if code >= 0xD800 && code <= 0xDFFF || code > 0x10FFFF {
		return nil, s.errorf("", start, "found invalid Unicode character escape code")
	}

	switch {
	case code <= 0x7F:
		value = append(value, byte(code))
	case code <= 0x7FF:
		value = append(value, byte(0xC0+(code>>6)), byte(0x80+(code&0x3F)))
	case code <= 0xFFFF:
		value = append(value, byte(0xE0+(code>>12)), byte(0x80+((code>>6)&0x3F)), byte(0x80+(code&0x3F)))
	default:
		value = append(value, byte(0xF0+(code>>18)), byte(0x80+((code>>12)&0x3F)), byte(0x80+((code>>6)&0x3F)), byte(0x80+(code&0x3F)))
	}

	if err := s.r.Forward(length); err != nil {
		return nil, err
	}
	return value, nil
}
