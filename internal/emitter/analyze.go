package emitter

import (
	"bytes"
	"unicode/utf8"

	"go.yamlcore.dev/yaml/internal/token"
)

func (e *Emitter) analyzeAnchor(anchor []byte, alias bool) error {
	if len(anchor) == 0 {
		if alias {
			return errorf("alias value must not be empty")
		}
		return errorf("anchor value must not be empty")
	}
	for _, r := range string(anchor) {
		if !isAlphaRune(r) {
			if alias {
				return errorf("alias value must contain alphanumerical characters only")
			}
			return errorf("anchor value must contain alphanumerical characters only")
		}
	}
	e.anchor = anchor
	e.alias = alias
	return nil
}

func isAlphaRune(r rune) bool {
	return r == '-' || r == '_' ||
		(r >= '0' && r <= '9') || (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z')
}

func (e *Emitter) analyzeTag(tag []byte) error {
	if len(tag) == 0 {
		return errorf("tag value must not be empty")
	}
	for _, td := range e.tagDirectives {
		if bytes.HasPrefix(tag, td.Prefix) {
			e.tagHandle = td.Handle
			e.tagSuffix = tag[len(td.Prefix):]
			return nil
		}
	}
	e.tagHandle = nil
	e.tagSuffix = tag
	return nil
}

// analyzeScalar implements spec.md §4.5's single-pass scalar analysis.
func (e *Emitter) analyzeScalar(value []byte) {
	e.scalar = value

	if len(value) == 0 {
		e.multiline = false
		e.flowPlainOK = false
		e.blockPlainOK = true
		e.singleQuotedOK = true
		e.blockOK = false
		return
	}

	var blockIndicators, flowIndicators, lineBreaks, special, tabs bool
	var leadingSpace, leadingBreak, trailingSpace, trailingBreak, breakSpace, spaceBreak bool
	var precededByWS, followedByWS, prevSpace, prevBreak bool

	if len(value) >= 3 {
		if (value[0] == '-' && value[1] == '-' && value[2] == '-') || (value[0] == '.' && value[1] == '.' && value[2] == '.') {
			blockIndicators = true
			flowIndicators = true
		}
	}

	precededByWS = true
	i := 0
	for i < len(value) {
		r, w := utf8.DecodeRune(value[i:])
		followedByWS = i+w >= len(value) || isBlankByte(value[i+w:])

		if i == 0 {
			switch r {
			case '#', ',', '[', ']', '{', '}', '&', '*', '!', '|', '>', '\'', '"', '%', '@', '`':
				flowIndicators = true
				blockIndicators = true
			case '?', ':':
				flowIndicators = true
				if followedByWS {
					blockIndicators = true
				}
			case '-':
				if followedByWS {
					flowIndicators = true
					blockIndicators = true
				}
			}
		} else {
			switch r {
			case ',', '?', '[', ']', '{', '}':
				flowIndicators = true
			case ':':
				flowIndicators = true
				if followedByWS {
					blockIndicators = true
				}
			case '#':
				if precededByWS {
					flowIndicators = true
					blockIndicators = true
				}
			}
		}

		if r == '\t' {
			tabs = true
		} else if !isPrintable(r) {
			special = true
		}

		if r == ' ' {
			if i == 0 {
				leadingSpace = true
			}
			if i+w == len(value) {
				trailingSpace = true
			}
			if prevBreak {
				breakSpace = true
			}
			prevSpace = true
			prevBreak = false
		} else if isBreakRune(r) {
			lineBreaks = true
			if i == 0 {
				leadingBreak = true
			}
			if i+w == len(value) {
				trailingBreak = true
			}
			if prevSpace {
				spaceBreak = true
			}
			prevSpace = false
			prevBreak = true
		} else {
			prevSpace = false
			prevBreak = false
		}

		precededByWS = r == ' ' || r == '\t' || isBreakRune(r)
		i += w
	}

	e.multiline = lineBreaks
	e.flowPlainOK = true
	e.blockPlainOK = true
	e.singleQuotedOK = true
	e.blockOK = true

	if leadingSpace || leadingBreak || trailingSpace || trailingBreak {
		e.flowPlainOK = false
		e.blockPlainOK = false
	}
	if trailingSpace {
		e.blockOK = false
	}
	if breakSpace {
		e.flowPlainOK = false
		e.blockPlainOK = false
		e.singleQuotedOK = false
	}
	if spaceBreak || tabs || special {
		e.flowPlainOK = false
		e.blockPlainOK = false
		e.singleQuotedOK = false
	}
	if spaceBreak || special {
		e.blockOK = false
	}
	if lineBreaks {
		e.flowPlainOK = false
		e.blockPlainOK = false
	}
	if flowIndicators {
		e.flowPlainOK = false
	}
	if blockIndicators {
		e.blockPlainOK = false
	}
}

func isBlankByte(rest []byte) bool {
	if len(rest) == 0 {
		return true
	}
	r, _ := utf8.DecodeRune(rest)
	return r == ' ' || r == '\t' || isBreakRune(r) || r == 0
}

func isBreakRune(r rune) bool {
	return r == '\n' || r == '\r' || r == 0x85 || r == 0x2028 || r == 0x2029
}

func isPrintable(r rune) bool {
	switch {
	case r == '\n' || r == 0x85:
		return true
	case r >= 0x20 && r <= 0x7E:
		return true
	case r == 0xA0 || (r >= 0xA1 && r <= 0xD7FF):
		return true
	case r >= 0xE000 && r <= 0xFFFD && r != 0xFEFF:
		return true
	case r >= 0x10000 && r <= 0x10FFFF:
		return true
	}
	return false
}

func (e *Emitter) analyzeEvent(ev *token.Event) error {
	e.anchor = nil
	e.tagHandle = nil
	e.tagSuffix = nil
	e.scalar = nil

	switch ev.Kind {
	case token.AliasEvent:
		return e.analyzeAnchor(ev.Anchor, true)
	case token.ScalarEvent:
		if len(ev.Anchor) > 0 {
			if err := e.analyzeAnchor(ev.Anchor, false); err != nil {
				return err
			}
		}
		if len(ev.Tag) > 0 && !ev.Implicit && !ev.QuotedImplicit {
			if err := e.analyzeTag(ev.Tag); err != nil {
				return err
			}
		}
		e.analyzeScalar(ev.Value)
	case token.SequenceStartEvent, token.MappingStartEvent:
		if len(ev.Anchor) > 0 {
			if err := e.analyzeAnchor(ev.Anchor, false); err != nil {
				return err
			}
		}
		if len(ev.Tag) > 0 && !ev.Implicit {
			if err := e.analyzeTag(ev.Tag); err != nil {
				return err
			}
		}
	}
	return nil
}
