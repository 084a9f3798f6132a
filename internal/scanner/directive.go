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

const maxVersionNumberDigits = 2

// fetchDirective scans a %YAML or %TAG directive line into a DIRECTIVE
// token, then eats the remainder of the line (including any trailing
// comment) up to and including its line break.
func (s *Scanner) fetchDirective() error {
	if err := s.unrollIndent(-1); err != nil {
		return err
	}
	if err := s.removeSimpleKey(); err != nil {
		return err
	}
	s.allowSimpleKey = false

	start := s.r.Mark()
	if err := s.r.Forward(1); err != nil { // eat '%'
		return err
	}

	name, err := s.scanDirectiveName(start)
	if err != nil {
		return err
	}

	var tok token.Token
	switch string(name) {
	case "YAML":
		major, minor, err := s.scanVersionDirectiveValue(start)
		if err != nil {
			return err
		}
		tok = token.Token{
			Kind:      token.Directive,
			Start:     start,
			Directive: token.YAMLDirective,
			Value:     name,
			Major:     major,
			Minor:     minor,
		}
	case "TAG":
		handle, prefix, err := s.scanTagDirectiveValue(start)
		if err != nil {
			return err
		}
		tok = token.Token{
			Kind:      token.Directive,
			Start:     start,
			Directive: token.TagDirectiveKind,
			Value:     handle,
			Prefix:    prefix,
		}
	default:
		return s.errorf("", start, "found unknown directive name")
	}

	c, err := s.peek(0)
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

	tok.End = s.r.Mark()
	s.appendToken(tok)
	return nil
}

func (s *Scanner) scanDirectiveName(start token.Mark) ([]byte, error) {
	var name []byte
	c, err := s.peek(0)
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
	if len(name) == 0 {
		return nil, s.errorf("", start, "could not find expected directive name")
	}
	if !isBlankZ(c) {
		return nil, s.errorf("", start, "found unexpected non-alphabetical character")
	}
	return name, nil
}

func (s *Scanner) scanVersionDirectiveValue(start token.Mark) (major, minor int8, _ error) {
	c, err := s.peek(0)
	if err != nil {
		return 0, 0, err
	}
	for isBlank(c) {
		if err := s.r.Forward(1); err != nil {
			return 0, 0, err
		}
		c, err = s.peek(0)
		if err != nil {
			return 0, 0, err
		}
	}

	major, err = s.scanVersionDirectiveNumber(start)
	if err != nil {
		return 0, 0, err
	}

	c, err = s.peek(0)
	if err != nil {
		return 0, 0, err
	}
	if c != '.' {
		return 0, 0, s.errorf("", start, "did not find expected digit or '.' character")
	}
	if err := s.r.Forward(1); err != nil {
		return 0, 0, err
	}

	minor, err = s.scanVersionDirectiveNumber(start)
	if err != nil {
		return 0, 0, err
	}
	return major, minor, nil
}

func (s *Scanner) scanVersionDirectiveNumber(start token.Mark) (int8, error) {
	var value, length int8
	c, err := s.peek(0)
	if err != nil {
		return 0, err
	}
	for isDigit(c) {
		length++
		if length > maxVersionNumberDigits {
			return 0, s.errorf("", start, "found extremely long version number")
		}
		value = value*10 + int8(asDigit(c))
		if err := s.r.Forward(1); err != nil {
			return 0, err
		}
		c, err = s.peek(0)
		if err != nil {
			return 0, err
		}
	}
	if length == 0 {
		return 0, s.errorf("", start, "did not find expected version number")
	}
	return value, nil
}

func (s *Scanner) scanTagDirectiveValue(start token.Mark) (handle, prefix []byte, _ error) {
	c, err := s.peek(0)
	if err != nil {
		return nil, nil, err
	}
	for isBlank(c) {
		if err := s.r.Forward(1); err != nil {
			return nil, nil, err
		}
		c, err = s.peek(0)
		if err != nil {
			return nil, nil, err
		}
	}

	handle, err = s.scanTagHandle(true, start)
	if err != nil {
		return nil, nil, err
	}

	c, err = s.peek(0)
	if err != nil {
		return nil, nil, err
	}
	if !isBlank(c) {
		return nil, nil, s.errorf("", start, "did not find expected whitespace")
	}
	for isBlank(c) {
		if err := s.r.Forward(1); err != nil {
			return nil, nil, err
		}
		c, err = s.peek(0)
		if err != nil {
			return nil, nil, err
		}
	}

	prefix, err = s.scanTagURI(true, nil, start)
	if err != nil {
		return nil, nil, err
	}

	c, err = s.peek(0)
	if err != nil {
		return nil, nil, err
	}
	if !isBlankZ(c) {
		return nil, nil, s.errorf("", start, "did not find expected whitespace or line break")
	}
	return handle, prefix, nil
}
