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

// read appends the current code point's UTF-8 bytes to buf and advances one
// rune, mirroring the teacher's read() buffer-builder helper.
func (s *Scanner) read(buf []byte) ([]byte, error) {
	b, err := s.r.Slice(1)
	if err != nil {
		return buf, err
	}
	buf = append(buf, b...)
	if err := s.r.Forward(1); err != nil {
		return buf, err
	}
	return buf, nil
}

// readLine appends a single normalized line break to buf (CR, LF and CRLF
// all collapse to '\n'; NEL collapses to '\n'; LS/PS are kept as-is) and
// advances past it. It is a no-op if the current code point is not a break.
func (s *Scanner) readLine(buf []byte) ([]byte, error) {
	c, err := s.peek(0)
	if err != nil {
		return buf, err
	}
	switch c {
	case '\r':
		buf = append(buf, '\n')
		next, err := s.peek(1)
		if err != nil {
			return buf, err
		}
		if next == '\n' {
			return buf, s.r.Forward(2)
		}
		return buf, s.r.Forward(1)
	case '\n', 0x85:
		buf = append(buf, '\n')
		return buf, s.r.Forward(1)
	case 0x2028, 0x2029:
		b, err := s.r.Slice(1)
		if err != nil {
			return buf, err
		}
		buf = append(buf, b...)
		return buf, s.r.Forward(1)
	}
	return buf, nil
}

// skipLine advances past one line break the same way readLine does, without
// collecting its bytes.
func (s *Scanner) skipLine() error {
	_, err := s.readLine(nil)
	return err
}
