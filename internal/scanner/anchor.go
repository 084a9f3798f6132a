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

// fetchAnchor scans an ANCHOR or ALIAS token: '&'/'*' followed by one or
// more alphanumeric characters, terminated by whitespace or one of the
// indicator characters that may legally follow a node.
func (s *Scanner) fetchAnchor(kind token.Kind) error {
	if err := s.saveSimpleKey(); err != nil {
		return err
	}
	s.allowSimpleKey = false

	start := s.r.Mark()
	if err := s.r.Forward(1); err != nil {
		return err
	}

	var name []byte
	c, err := s.peek(0)
	if err != nil {
		return err
	}
	for isAlpha(c) {
		name, err = s.read(name)
		if err != nil {
			return err
		}
		c, err = s.peek(0)
		if err != nil {
			return err
		}
	}

	if len(name) == 0 || !(isBlankZ(c) || c == '?' || c == ':' || c == ',' || c == ']' || c == '}' || c == '%' || c == '@' || c == '`') {
		return s.errorf("", start, "did not find expected alphabetic or numeric character")
	}

	s.appendToken(token.Token{Kind: kind, Start: start, End: s.r.Mark(), Value: name})
	return nil
}
