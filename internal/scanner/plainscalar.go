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

// fetchPlainScalar scans an unquoted scalar, ending at a comment, a document
// indicator, an unindented line, or (in flow context) one of ',[]{}', or a
// ': ' that would otherwise look like a mapping value indicator.
func (s *Scanner) fetchPlainScalar() error {
	if err := s.saveSimpleKey(); err != nil {
		return err
	}
	s.allowSimpleKey = false

	indent := s.indent + 1
	start := s.r.Mark()
	end := start

	var value, leadingBreak, trailingBreaks, whitespace []byte
	var leadingBlanks bool

	for {
		if s.r.Mark().Column == 0 {
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
				break
			}
		}

		c, err := s.peek(0)
		if err != nil {
			return err
		}
		if c == '#' {
			break
		}

		for !isBlankZ(c) {
			if c == ':' {
				next, err := s.peek(1)
				if err != nil {
					return err
				}
				if isBlankZ(next) {
					break
				}
			}
			if s.flowLevel > 0 && (c == ',' || c == '?' || c == '[' || c == ']' || c == '{' || c == '}') {
				break
			}

			if leadingBlanks || len(whitespace) > 0 {
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
					leadingBlanks = false
				} else {
					value = append(value, whitespace...)
					whitespace = whitespace[:0]
				}
			}

			value, err = s.read(value)
			if err != nil {
				return err
			}
			end = s.r.Mark()
			c, err = s.peek(0)
			if err != nil {
				return err
			}
		}

		if !(isBlank(c) || isBreak(c)) {
			break
		}

		c, err = s.peek(0)
		if err != nil {
			return err
		}
		for isBlank(c) || isBreak(c) {
			if isBlank(c) {
				if leadingBlanks && s.r.Mark().Column < indent && isTab(c) {
					return s.errorf("", start, "found a tab character that violates indentation")
				}
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

		if s.flowLevel == 0 && s.r.Mark().Column < indent {
			break
		}
	}

	if leadingBlanks {
		s.allowSimpleKey = true
	}

	s.appendToken(token.Token{Kind: token.Scalar, Start: start, End: end, Value: value, Style: token.PlainScalarStyle})
	return nil
}
