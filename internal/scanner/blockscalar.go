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

// fetchBlockScalar scans a '|' (literal) or '>' (folded) block scalar,
// including its chomping/indentation indicators, into a SCALAR token.
func (s *Scanner) fetchBlockScalar(literal bool) error {
	if err := s.saveSimpleKey(); err != nil {
		return err
	}
	s.allowSimpleKey = true

	start := s.r.Mark()
	if err := s.r.Forward(1); err != nil { // eat '|' or '>'
		return err
	}

	var chomping token.Chomping = token.ClipChomping
	haveChomping := false
	increment := 0

	c, err := s.peek(0)
	if err != nil {
		return err
	}
	if c == '+' || c == '-' {
		if c == '+' {
			chomping = token.KeepChomping
		} else {
			chomping = token.StripChomping
		}
		haveChomping = true
		if err := s.r.Forward(1); err != nil {
			return err
		}
		c, err = s.peek(0)
		if err != nil {
			return err
		}
		if isDigit(c) {
			if c == '0' {
				return s.errorf("", start, "found an indentation indicator equal to 0")
			}
			increment = asDigit(c)
			if err := s.r.Forward(1); err != nil {
				return err
			}
		}
	} else if isDigit(c) {
		if c == '0' {
			return s.errorf("", start, "found an indentation indicator equal to 0")
		}
		increment = asDigit(c)
		if err := s.r.Forward(1); err != nil {
			return err
		}
		c, err = s.peek(0)
		if err != nil {
			return err
		}
		if c == '+' || c == '-' {
			if c == '+' {
				chomping = token.KeepChomping
			} else {
				chomping = token.StripChomping
			}
			haveChomping = true
			if err := s.r.Forward(1); err != nil {
				return err
			}
		}
	}
	_ = haveChomping

	c, err = s.peek(0)
	if err != nil {
		return err
	}
	for isBlank(c) {
		if err := s.r.Forward(1); err != nil {
			return err
		}
		c, err = s.peek(0)
		if err != nil {
			return err
		}
	}
	if c == '#' {
		for !isBreakZ(c) {
			if err := s.r.Forward(1); err != nil {
				return err
			}
			c, err = s.peek(0)
			if err != nil {
				return err
			}
		}
	}
	if !isBreakZ(c) {
		return s.errorf("", start, "did not find expected comment or line break")
	}
	if isBreak(c) {
		if err := s.skipLine(); err != nil {
			return err
		}
	}

	end := s.r.Mark()

	indent := 0
	if increment > 0 {
		if s.indent >= 0 {
			indent = s.indent + increment
		} else {
			indent = increment
		}
	}

	var value, leadingBreak, trailingBreaks []byte
	var err2 error
	indent, trailingBreaks, end, err2 = s.scanBlockScalarBreaks(indent, trailingBreaks, end)
	if err2 != nil {
		return err2
	}

	var leadingBlank, trailingBlank bool
	c, err = s.peek(0)
	if err != nil {
		return err
	}
	for s.r.Mark().Column == indent && c != 0 {
		trailingBlank = isBlank(c)

		if !literal && !leadingBlank && !trailingBlank && len(leadingBreak) > 0 && leadingBreak[0] == '\n' {
			if len(trailingBreaks) == 0 {
				value = append(value, ' ')
			}
		} else {
			value = append(value, leadingBreak...)
		}
		leadingBreak = leadingBreak[:0]

		value = append(value, trailingBreaks...)
		trailingBreaks = trailingBreaks[:0]

		leadingBlank = isBlank(c)

		for !isBreakZ(c) {
			value, err = s.read(value)
			if err != nil {
				return err
			}
			c, err = s.peek(0)
			if err != nil {
				return err
			}
		}

		leadingBreak, err = s.readLine(leadingBreak)
		if err != nil {
			return err
		}

		indent, trailingBreaks, end, err2 = s.scanBlockScalarBreaks(indent, trailingBreaks, end)
		if err2 != nil {
			return err2
		}
		c, err = s.peek(0)
		if err != nil {
			return err
		}
	}

	if chomping != token.StripChomping {
		value = append(value, leadingBreak...)
	}
	if chomping == token.KeepChomping {
		value = append(value, trailingBreaks...)
	}

	style := token.LiteralScalarStyle
	if !literal {
		style = token.FoldedScalarStyle
	}
	s.appendToken(token.Token{Kind: token.Scalar, Start: start, End: end, Value: value, Style: style})
	return nil
}

// scanBlockScalarBreaks eats indentation spaces and blank lines, determining
// the block's indentation level from the first non-empty line if indent
// was not already fixed by an explicit indentation indicator.
func (s *Scanner) scanBlockScalarBreaks(indent int, breaks []byte, end token.Mark) (int, []byte, token.Mark, error) {
	end = s.r.Mark()
	maxIndent := 0
	for {
		c, err := s.peek(0)
		if err != nil {
			return indent, breaks, end, err
		}
		for (indent == 0 || s.r.Mark().Column < indent) && isSpace(c) {
			if err := s.r.Forward(1); err != nil {
				return indent, breaks, end, err
			}
			c, err = s.peek(0)
			if err != nil {
				return indent, breaks, end, err
			}
		}
		if s.r.Mark().Column > maxIndent {
			maxIndent = s.r.Mark().Column
		}
		if (indent == 0 || s.r.Mark().Column < indent) && isTab(c) {
			return indent, breaks, end, s.errorf("", end, "found a tab character where an indentation space is expected")
		}
		if !isBreak(c) {
			break
		}
		breaks, err = s.readLine(breaks)
		if err != nil {
			return indent, breaks, end, err
		}
		end = s.r.Mark()
	}

	if indent == 0 {
		indent = maxIndent
		if indent < s.indent+1 {
			indent = s.indent + 1
		}
		if indent < 1 {
			indent = 1
		}
	}
	return indent, breaks, end, nil
}
