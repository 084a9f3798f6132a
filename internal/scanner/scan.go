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

// scanToNextToken skips whitespace, comments and line breaks until the
// reader sits on the first character of the next token (or end of input).
// Tabs are allowed in flow context, and in block context everywhere except
// where a simple key could still start (the beginning of a line, or right
// after '-', '?' or ':').
func (s *Scanner) scanToNextToken() error {
	for {
		c, err := s.peek(0)
		if err != nil {
			return err
		}
		if c == 0xFEFF && s.r.Mark().Column == 0 {
			if err := s.r.Forward(1); err != nil {
				return err
			}
			continue
		}

		for isSpace(c) || (isTab(c) && (s.flowLevel > 0 || !s.allowSimpleKey)) {
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

		if isBreak(c) {
			if err := s.skipLine(); err != nil {
				return err
			}
			if s.flowLevel == 0 {
				s.allowSimpleKey = true
			}
			continue
		}
		return nil
	}
}
