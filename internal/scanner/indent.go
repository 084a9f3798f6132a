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

// rollIndent pushes a new indentation level and emits the matching
// BLOCK-SEQUENCE-START or BLOCK-MAPPING-START token, but only in block
// context and only when column increases past the current indent -
// maintaining the invariant that s.indents is monotonically increasing
// from the bottom and s.indent always equals its top (or -1 at the root).
//
// tokenNumber is the absolute token count (as recorded in a SimpleKey), or
// -1 to mean "insert at the current queue tail".
func (s *Scanner) rollIndent(column, tokenNumber int, kind token.Kind, m token.Mark) error {
	if s.flowLevel > 0 {
		return nil
	}
	if s.indent < column {
		s.indents = append(s.indents, s.indent)
		s.indent = column
		tok := token.Token{Kind: kind, Start: m, End: m}
		if tokenNumber > -1 {
			tokenNumber -= s.tokensTaken
		}
		s.insertToken(tokenNumber, tok)
	}
	return nil
}

// unrollIndent pops indents while indent > column, emitting one BLOCK-END
// per pop. A no-op in flow context: flow collections are bracket-delimited
// and never participate in the indentation stack.
func (s *Scanner) unrollIndent(column int) error {
	if s.flowLevel > 0 {
		return nil
	}
	m := s.r.Mark()
	for s.indent > column {
		s.indent = s.indents[len(s.indents)-1]
		s.indents = s.indents[:len(s.indents)-1]
		s.appendToken(token.Token{Kind: token.BlockEnd, Start: m, End: m})
	}
	return nil
}

func (s *Scanner) increaseFlowLevel() error {
	s.possibleSimpleKeys[s.flowLevel] = token.SimpleKey{}
	s.flowLevel++
	return nil
}

func (s *Scanner) decreaseFlowLevel() {
	if s.flowLevel > 0 {
		s.flowLevel--
		delete(s.possibleSimpleKeys, s.flowLevel+1)
	}
}

// saveSimpleKey records the current position as a possible simple key for
// the current flow level. Required-ness holds exactly when the key begins
// a new block mapping line: flowLevel==0 && indent==column.
func (s *Scanner) saveSimpleKey() error {
	required := s.flowLevel == 0 && s.indent == s.r.Mark().Column
	if s.allowSimpleKey {
		if err := s.removeSimpleKey(); err != nil {
			return err
		}
		s.possibleSimpleKeys[s.flowLevel] = token.SimpleKey{
			Possible:    true,
			Required:    required,
			TokenNumber: s.tokensTaken + len(s.tokens) - s.tokensHead,
			Mark:        s.r.Mark(),
		}
	}
	return nil
}

func (s *Scanner) removeSimpleKey() error {
	key, ok := s.possibleSimpleKeys[s.flowLevel]
	if ok && key.Possible && key.Required {
		return s.errorf("while scanning a simple key", key.Mark, "could not find expected ':'")
	}
	delete(s.possibleSimpleKeys, s.flowLevel)
	return nil
}

// stalePossibleSimpleKeys invalidates any recorded simple key that has
// crossed a line or exceeded the 1024-character window. Invalidating a
// required key is an error.
func (s *Scanner) stalePossibleSimpleKeys() error {
	m := s.r.Mark()
	for level, key := range s.possibleSimpleKeys {
		if !key.Possible {
			continue
		}
		if key.Mark.Line != m.Line || m.Index-key.Mark.Index > token.MaxSimpleKeyLength {
			if key.Required {
				return s.errorf("while scanning a simple key", key.Mark, "could not find expected ':'")
			}
			delete(s.possibleSimpleKeys, level)
		}
	}
	return nil
}
