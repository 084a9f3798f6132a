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

func (s *Scanner) fetchStreamStart() {
	s.indent = -1
	s.possibleSimpleKeys = make(map[int]token.SimpleKey)
	s.allowSimpleKey = true
	s.streamStartProduced = true
	m := s.r.Mark()
	s.appendToken(token.Token{Kind: token.StreamStart, Start: m, End: m, Encoding: s.r.Encoding()})
}

func (s *Scanner) fetchStreamEnd() error {
	if err := s.unrollIndent(-1); err != nil {
		return err
	}
	if err := s.removeSimpleKey(); err != nil {
		return err
	}
	s.allowSimpleKey = false
	s.possibleSimpleKeys = make(map[int]token.SimpleKey)
	m := s.r.Mark()
	s.appendToken(token.Token{Kind: token.StreamEnd, Start: m, End: m})
	s.done = true
	return nil
}

func (s *Scanner) checkDocumentIndicator(three string) (bool, error) {
	for i, want := range three {
		c, err := s.peek(i)
		if err != nil {
			return false, err
		}
		if c != want {
			return false, nil
		}
	}
	c, err := s.peek(3)
	if err != nil {
		return false, err
	}
	return isBlankZ(c), nil
}

func (s *Scanner) fetchDocumentIndicator(kind token.Kind) error {
	if err := s.unrollIndent(-1); err != nil {
		return err
	}
	if err := s.removeSimpleKey(); err != nil {
		return err
	}
	s.allowSimpleKey = false
	start := s.r.Mark()
	if err := s.r.Forward(3); err != nil {
		return err
	}
	end := s.r.Mark()
	s.appendToken(token.Token{Kind: kind, Start: start, End: end})
	return nil
}

func (s *Scanner) fetchFlowCollectionStart(kind token.Kind) error {
	if err := s.saveSimpleKey(); err != nil {
		return err
	}
	if err := s.increaseFlowLevel(); err != nil {
		return err
	}
	s.allowSimpleKey = true
	start := s.r.Mark()
	if err := s.r.Forward(1); err != nil {
		return err
	}
	end := s.r.Mark()
	s.appendToken(token.Token{Kind: kind, Start: start, End: end})
	return nil
}

func (s *Scanner) fetchFlowCollectionEnd(kind token.Kind) error {
	if err := s.removeSimpleKey(); err != nil {
		return err
	}
	s.decreaseFlowLevel()
	s.allowSimpleKey = false
	start := s.r.Mark()
	if err := s.r.Forward(1); err != nil {
		return err
	}
	end := s.r.Mark()
	s.appendToken(token.Token{Kind: kind, Start: start, End: end})
	return nil
}

func (s *Scanner) fetchFlowEntry() error {
	if err := s.removeSimpleKey(); err != nil {
		return err
	}
	s.allowSimpleKey = true
	start := s.r.Mark()
	if err := s.r.Forward(1); err != nil {
		return err
	}
	end := s.r.Mark()
	s.appendToken(token.Token{Kind: token.FlowEntry, Start: start, End: end})
	return nil
}

func (s *Scanner) fetchBlockEntry() error {
	if s.flowLevel == 0 {
		if !s.allowSimpleKey {
			return s.errorf("", token.Mark{}, "block sequence entries are not allowed in this context")
		}
		m := s.r.Mark()
		if err := s.rollIndent(m.Column, -1, token.BlockSequenceStart, m); err != nil {
			return err
		}
	}
	if err := s.removeSimpleKey(); err != nil {
		return err
	}
	s.allowSimpleKey = true
	start := s.r.Mark()
	if err := s.r.Forward(1); err != nil {
		return err
	}
	end := s.r.Mark()
	s.appendToken(token.Token{Kind: token.BlockEntry, Start: start, End: end})
	return nil
}

func (s *Scanner) fetchKey() error {
	if s.flowLevel == 0 {
		if !s.allowSimpleKey {
			return s.errorf("", token.Mark{}, "mapping keys are not allowed in this context")
		}
		m := s.r.Mark()
		if err := s.rollIndent(m.Column, -1, token.BlockMappingStart, m); err != nil {
			return err
		}
	}
	if err := s.removeSimpleKey(); err != nil {
		return err
	}
	s.allowSimpleKey = s.flowLevel == 0
	start := s.r.Mark()
	if err := s.r.Forward(1); err != nil {
		return err
	}
	end := s.r.Mark()
	s.appendToken(token.Token{Kind: token.Key, Start: start, End: end})
	return nil
}

func (s *Scanner) fetchValue() error {
	key, hasKey := s.possibleSimpleKeys[s.flowLevel]
	if hasKey && key.Possible {
		// Insert the KEY token retroactively at the saved position, then
		// (in block context, at increased indent) insert BLOCK-MAPPING-START
		// at the same saved position: the second insert shifts KEY one slot
		// later, landing BLOCK-MAPPING-START ahead of it.
		pos := key.TokenNumber
		if pos > -1 {
			pos -= s.tokensTaken
		}
		s.insertToken(pos, token.Token{Kind: token.Key, Start: key.Mark, End: key.Mark})

		if err := s.rollIndent(key.Mark.Column, key.TokenNumber, token.BlockMappingStart, key.Mark); err != nil {
			return err
		}

		delete(s.possibleSimpleKeys, s.flowLevel)
		s.allowSimpleKey = false

		start := s.r.Mark()
		if err := s.r.Forward(1); err != nil {
			return err
		}
		end := s.r.Mark()
		s.appendToken(token.Token{Kind: token.Value, Start: start, End: end})
		return nil
	}

	if s.flowLevel == 0 {
		if !s.allowSimpleKey {
			return s.errorf("", token.Mark{}, "mapping values are not allowed in this context")
		}
		m := s.r.Mark()
		if err := s.rollIndent(m.Column, -1, token.BlockMappingStart, m); err != nil {
			return err
		}
	}
	s.allowSimpleKey = s.flowLevel == 0
	start := s.r.Mark()
	if err := s.r.Forward(1); err != nil {
		return err
	}
	end := s.r.Mark()
	s.appendToken(token.Token{Kind: token.Value, Start: start, End: end})
	return nil
}
