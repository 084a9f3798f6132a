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

// Package scanner turns a character stream into a token stream. It owns
// indentation tracking, the possible-simple-key lookahead set and flow/block
// context, as described by the scanning state machine section of the YAML
// 1.1 grammar.
package scanner

import (
	"fmt"
	"io"

	"go.yamlcore.dev/yaml/internal/reader"
	"go.yamlcore.dev/yaml/internal/token"
)

// Error is a ScannerError: malformed input, bad indentation, unterminated
// scalars, bad escapes, or a simple key that could not be confirmed.
type Error struct {
	Context     string
	ContextMark token.Mark
	Problem     string
	ProblemMark token.Mark
}

func (e *Error) Error() string {
	if e.Context == "" {
		return fmt.Sprintf("yaml: %s at %s", e.Problem, e.ProblemMark)
	}
	return fmt.Sprintf("yaml: %s at %s: %s at %s", e.Context, e.ContextMark, e.Problem, e.ProblemMark)
}

func (s *Scanner) errorf(context string, contextMark token.Mark, problem string, args ...interface{}) error {
	return &Error{
		Context:     context,
		ContextMark: contextMark,
		Problem:     fmt.Sprintf(problem, args...),
		ProblemMark: s.r.Mark(),
	}
}

// Scanner converts a character stream into tokens, lazily. Tokens already
// recognized but not yet returned to the Parser sit in an internal queue,
// because a KEY token may need to be spliced in behind the current queue
// position once a ':' retroactively confirms a simple key.
type Scanner struct {
	r *reader.Reader

	streamStartProduced bool
	streamEndProduced   bool
	done                bool

	flowLevel int
	indent    int
	indents   []int

	allowSimpleKey bool
	// possibleSimpleKeys is keyed by flow level (0 == block context).
	possibleSimpleKeys map[int]token.SimpleKey

	tokens     []token.Token
	tokensHead int
	tokensTaken int

	tagDirectives []token.TagDirective // raw directive tokens seen, informational only
}

func New(src io.Reader) *Scanner {
	return &Scanner{
		r:                  reader.New(src),
		indent:             -1,
		possibleSimpleKeys: make(map[int]token.SimpleKey),
	}
}

// HasMore reports whether fetching the next token succeeds and its kind is
// one of kinds (or always true if kinds is empty).
func (s *Scanner) HasMore(kinds ...token.Kind) (bool, error) {
	tok, err := s.Peek()
	if err != nil {
		return false, err
	}
	if tok == nil {
		return false, nil
	}
	if len(kinds) == 0 {
		return true, nil
	}
	for _, k := range kinds {
		if tok.Kind == k {
			return true, nil
		}
	}
	return false, nil
}

// Peek returns the next token without consuming it.
func (s *Scanner) Peek() (*token.Token, error) {
	if s.tokensHead >= len(s.tokens) {
		if err := s.fetchMoreTokens(); err != nil {
			return nil, err
		}
	}
	if s.tokensHead >= len(s.tokens) {
		return nil, nil
	}
	return &s.tokens[s.tokensHead], nil
}

// Get returns and consumes the next token.
func (s *Scanner) Get() (*token.Token, error) {
	tok, err := s.Peek()
	if err != nil || tok == nil {
		return tok, err
	}
	s.tokensHead++
	s.tokensTaken++
	return tok, nil
}

// insertToken appends tok to the queue; when pos >= 0 it is then moved back
// to sit at queue position pos (relative to the current head), shifting
// later tokens forward by one. pos < 0 leaves it at the tail.
func (s *Scanner) insertToken(pos int, tok token.Token) {
	s.tokens = append(s.tokens, tok)
	if pos < 0 {
		return
	}
	copy(s.tokens[s.tokensHead+pos+1:], s.tokens[s.tokensHead+pos:])
	s.tokens[s.tokensHead+pos] = tok
}

func (s *Scanner) appendToken(tok token.Token) {
	s.tokens = append(s.tokens, tok)
}

// fetchMoreTokens keeps scanning until at least one token is ready, or the
// next token could start a simple key (in which case we must keep scanning
// until that's resolved one way or another), matching the teacher's
// lookahead discipline.
func (s *Scanner) fetchMoreTokens() error {
	for {
		if err := s.stalePossibleSimpleKeys(); err != nil {
			return err
		}
		needMore := false
		for level, key := range s.possibleSimpleKeys {
			_ = level
			if key.Possible {
				needMore = true
				break
			}
		}
		if !needMore {
			if len(s.tokens) > s.tokensHead {
				return nil
			}
		}
		if err := s.fetchNextToken(); err != nil {
			return err
		}
		if len(s.tokens) > s.tokensHead {
			return nil
		}
	}
}

func mark(r *reader.Reader) token.Mark { return r.Mark() }

func (s *Scanner) peek(k int) (rune, error) { return s.r.Peek(k) }

func (s *Scanner) fetchNextToken() error {
	if !s.streamStartProduced {
		s.fetchStreamStart()
		return nil
	}
	if err := s.scanToNextToken(); err != nil {
		return err
	}
	if err := s.stalePossibleSimpleKeys(); err != nil {
		return err
	}

	m := s.r.Mark()
	if err := s.unrollIndent(m.Column); err != nil {
		return err
	}

	c, err := s.peek(0)
	if err != nil {
		return err
	}

	if c == 0 {
		return s.fetchStreamEnd()
	}
	if m.Column == 0 && c == '%' {
		return s.fetchDirective()
	}
	if m.Column == 0 && c == '-' {
		ok, err := s.checkDocumentIndicator("---")
		if err != nil {
			return err
		}
		if ok {
			return s.fetchDocumentIndicator(token.DocumentStart)
		}
	}
	if m.Column == 0 && c == '.' {
		ok, err := s.checkDocumentIndicator("...")
		if err != nil {
			return err
		}
		if ok {
			return s.fetchDocumentIndicator(token.DocumentEnd)
		}
	}
	switch c {
	case '[':
		return s.fetchFlowCollectionStart(token.FlowSequenceStart)
	case '{':
		return s.fetchFlowCollectionStart(token.FlowMappingStart)
	case ']':
		return s.fetchFlowCollectionEnd(token.FlowSequenceEnd)
	case '}':
		return s.fetchFlowCollectionEnd(token.FlowMappingEnd)
	case ',':
		return s.fetchFlowEntry()
	case '-':
		if next, _ := s.peek(1); isBlankZ(next) {
			return s.fetchBlockEntry()
		}
	case '?':
		if s.flowLevel > 0 {
			return s.fetchKey()
		}
		if next, _ := s.peek(1); isBlankZ(next) {
			return s.fetchKey()
		}
	case ':':
		if s.flowLevel > 0 {
			return s.fetchValue()
		}
		if next, _ := s.peek(1); isBlankZ(next) {
			return s.fetchValue()
		}
	case '*':
		return s.fetchAnchor(token.Alias)
	case '&':
		return s.fetchAnchor(token.Anchor)
	case '!':
		return s.fetchTag()
	case '|':
		if s.flowLevel == 0 {
			return s.fetchBlockScalar(true)
		}
	case '>':
		if s.flowLevel == 0 {
			return s.fetchBlockScalar(false)
		}
	case '\'':
		return s.fetchFlowScalar(true)
	case '"':
		return s.fetchFlowScalar(false)
	}

	if ok, err := s.plainScalarMayStart(c); err != nil {
		return err
	} else if ok {
		return s.fetchPlainScalar()
	}

	return s.errorf("while scanning for the next token", token.Mark{}, "found character %q that cannot start any token", c)
}

// plainScalarMayStart implements the first-character rule: a plain scalar
// cannot begin with one of the indicator characters, except that '-', '?'
// and ':' may begin one when followed by a non-space, and '?'/':' are only
// exempted in block context.
func (s *Scanner) plainScalarMayStart(c rune) (bool, error) {
	switch c {
	case '-', '?', ':':
		next, err := s.peek(1)
		if err != nil {
			return false, err
		}
		if isBlankZ(next) {
			return false, nil
		}
		if (c == '?' || c == ':') && s.flowLevel > 0 {
			return false, nil
		}
		return true, nil
	case ',', '[', ']', '{', '}', '#', '&', '*', '!', '|', '>', '\'', '"', '%', '@', '`':
		return false, nil
	case 0, '\n', 0x85, 0x2028, 0x2029, ' ', '\t', '\r':
		return false, nil
	}
	return true, nil
}

func isBlankZ(c rune) bool {
	return c == ' ' || c == '\t' || isBreakZ(c)
}

func isBreakZ(c rune) bool {
	return c == 0 || c == '\n' || c == '\r' || c == 0x85 || c == 0x2028 || c == 0x2029
}

func isBreak(c rune) bool {
	return c == '\n' || c == '\r' || c == 0x85 || c == 0x2028 || c == 0x2029
}

func isBlank(c rune) bool {
	return c == ' ' || c == '\t'
}
