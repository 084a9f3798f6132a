package emitter

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"go.yamlcore.dev/yaml/internal/token"
)

func (e *Emitter) writeVersionDirective(vd *token.VersionDirective) error {
	if err := e.writeIndicator("%YAML", true, false, false); err != nil {
		return err
	}
	if err := e.writeIndicator(fmt.Sprintf("%d.%d", vd.Major, vd.Minor), true, false, false); err != nil {
		return err
	}
	return e.writeIndent()
}

func (e *Emitter) writeTagDirective(td token.TagDirective) error {
	if err := e.writeIndicator("%TAG", true, false, false); err != nil {
		return err
	}
	if err := e.writeIndicator(string(td.Handle), true, false, false); err != nil {
		return err
	}
	if err := e.writeIndicator(writeTagHandleURI(td.Prefix), true, false, false); err != nil {
		return err
	}
	return e.writeIndent()
}

func (e *Emitter) processAnchor() error {
	if len(e.anchor) == 0 {
		return nil
	}
	indicator := "&"
	if e.alias {
		indicator = "*"
	}
	if err := e.writeIndicator(indicator, true, false, false); err != nil {
		return err
	}
	return e.writeAll(e.anchor)
}

func (e *Emitter) processTag() error {
	if len(e.tagHandle) == 0 && len(e.tagSuffix) == 0 {
		return nil
	}
	if len(e.tagHandle) > 0 {
		if err := e.writeIndicator(string(e.tagHandle), true, false, false); err != nil {
			return err
		}
		if len(e.tagSuffix) > 0 {
			return e.writeAll(writeTagHandleURIBytes(e.tagSuffix))
		}
		return nil
	}
	if err := e.writeIndicator("!<", true, false, false); err != nil {
		return err
	}
	if err := e.writeAll(writeTagHandleURIBytes(e.tagSuffix)); err != nil {
		return err
	}
	return e.writeIndicator(">", false, false, false)
}

func writeTagHandleURI(b []byte) string { return string(writeTagHandleURIBytes(b)) }

// writeTagHandleURIBytes percent-encodes every byte outside the URI
// unreserved and sub-delims sets and the ':', '/' and '@' characters, per
// spec.md §4.5's tag-writing rule.
func writeTagHandleURIBytes(b []byte) []byte {
	out := make([]byte, 0, len(b))
	for _, c := range b {
		if isURISafe(c) {
			out = append(out, c)
			continue
		}
		out = append(out, '%', hexDigit(c>>4), hexDigit(c&0xF))
	}
	return out
}

func isURISafe(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == '-' || c == '_' || c == '.' || c == '~':
		return true
	case c == '!' || c == '$' || c == '&' || c == '\'' || c == '(' || c == ')' ||
		c == '*' || c == '+' || c == ',' || c == ';' || c == '=' || c == ':' || c == '/' || c == '@':
		return true
	}
	return false
}

func hexDigit(n byte) byte {
	const digits = "0123456789ABCDEF"
	return digits[n&0xF]
}

// selectScalarStyle starts from the event's own style, else the configured
// default style, else plain. Canonical mode and a multiline simple key force
// double-quoted. Plain falls back to single-quoted when the analysis forbids
// plain in the current context, or when the value is empty inside a flow
// collection or a simple key; single-quoted falls back to double-quoted when
// the analysis forbids it; literal and folded fall back to double-quoted
// inside a flow collection, in a simple key, or when block style is forbidden.
func (e *Emitter) selectScalarStyle(ev *token.Event) error {
	style := ev.ScalarStyle
	if style == token.AnyScalarStyle {
		style = e.opt.DefaultScalarStyle
	}
	if style == token.AnyScalarStyle {
		style = token.PlainScalarStyle
	}
	if len(e.tagHandle) == 0 && len(e.tagSuffix) == 0 && !ev.Implicit && !ev.QuotedImplicit {
		return errorf("neither tag nor implicit flag is specified")
	}

	if e.opt.Canonical {
		style = token.DoubleQuotedScalarStyle
	}
	if e.simpleKey && e.multiline {
		style = token.DoubleQuotedScalarStyle
	}

	if style == token.PlainScalarStyle {
		if (e.flowLevel > 0 && !e.flowPlainOK) || (e.flowLevel == 0 && !e.blockPlainOK) {
			style = token.SingleQuotedScalarStyle
		}
		if len(e.scalar) == 0 && (e.flowLevel > 0 || e.simpleKey) {
			style = token.SingleQuotedScalarStyle
		}
	}
	if style == token.SingleQuotedScalarStyle && !e.singleQuotedOK {
		style = token.DoubleQuotedScalarStyle
	}
	if (style == token.LiteralScalarStyle || style == token.FoldedScalarStyle) &&
		(e.flowLevel > 0 || e.simpleKey || !e.blockOK) {
		style = token.DoubleQuotedScalarStyle
	}

	e.chosenStyle = style
	return nil
}

func (e *Emitter) writeScalarValue() error {
	switch e.chosenStyle {
	case token.PlainScalarStyle:
		return e.writePlainScalar()
	case token.SingleQuotedScalarStyle:
		return e.writeSingleQuotedScalar()
	case token.LiteralScalarStyle:
		return e.writeLiteralScalar()
	case token.FoldedScalarStyle:
		return e.writeFoldedScalar()
	default:
		return e.writeDoubleQuotedScalar()
	}
}

func (e *Emitter) writePlainScalar() error {
	if !e.lastCharWhite {
		if err := e.put(' '); err != nil {
			return err
		}
	}
	spaces, breaks := false, false
	for i := 0; i < len(e.scalar); {
		r, w := decodeScalarRune(e.scalar[i:])
		if r == ' ' {
			if !spaces && i > 0 && i+w == len(e.scalar) && e.column+1 > e.opt.Width && !e.simpleKey {
				if err := e.writeIndent(); err != nil {
					return err
				}
			} else if err := e.put(' '); err != nil {
				return err
			}
			spaces = true
		} else if isBreakRune(r) {
			if !breaks {
				if err := e.putBreak(); err != nil {
					return err
				}
			}
			breaks = true
		} else {
			if spaces || breaks {
				spaces, breaks = false, false
			}
			if err := e.writeAll(e.scalar[i : i+w]); err != nil {
				return err
			}
		}
		i += w
	}
	return nil
}

func (e *Emitter) writeSingleQuotedScalar() error {
	if err := e.writeIndicator("'", true, false, false); err != nil {
		return err
	}
	spaces, breaks := false, false
	for i := 0; i < len(e.scalar); {
		r, w := decodeScalarRune(e.scalar[i:])
		if r == ' ' {
			if err := e.put(' '); err != nil {
				return err
			}
			spaces = true
		} else if isBreakRune(r) {
			if !breaks {
				if err := e.putBreak(); err != nil {
					return err
				}
			}
			breaks = true
		} else if r == '\'' {
			if err := e.writeAll([]byte("''")); err != nil {
				return err
			}
			spaces, breaks = false, false
		} else {
			spaces, breaks = false, false
			if err := e.writeAll(e.scalar[i : i+w]); err != nil {
				return err
			}
		}
		i += w
	}
	return e.writeIndicator("'", false, false, false)
}

func (e *Emitter) writeDoubleQuotedScalar() error {
	if err := e.writeIndicator("\"", true, false, false); err != nil {
		return err
	}
	for i := 0; i < len(e.scalar); {
		r, w := decodeScalarRune(e.scalar[i:])
		if !isPrintable(r) || r == '"' || r == '\\' {
			if err := e.writeAll([]byte(escapeRune(r))); err != nil {
				return err
			}
		} else if r == ' ' && i+w == len(e.scalar) && e.column+1 > e.opt.Width {
			if err := e.writeAll([]byte("\\")); err != nil {
				return err
			}
			if err := e.writeIndent(); err != nil {
				return err
			}
		} else {
			if err := e.writeAll(e.scalar[i : i+w]); err != nil {
				return err
			}
		}
		i += w
	}
	return e.writeIndicator("\"", false, false, false)
}

func escapeRune(r rune) string {
	switch r {
	case 0:
		return `\0`
	case '\a':
		return `\a`
	case '\b':
		return `\b`
	case '\t':
		return `\t`
	case '\n':
		return `\n`
	case '\v':
		return `\v`
	case '\f':
		return `\f`
	case '\r':
		return `\r`
	case 0x1B:
		return `\e`
	case '"':
		return `\"`
	case '\\':
		return `\\`
	case 0x85:
		return `\N`
	case 0xA0:
		return `\_`
	case 0x2028:
		return `\L`
	case 0x2029:
		return `\P`
	}
	switch {
	case r <= 0xFF:
		return `\x` + pad(strconv.FormatInt(int64(r), 16), 2)
	case r <= 0xFFFF:
		return `\u` + pad(strconv.FormatInt(int64(r), 16), 4)
	default:
		return `\U` + pad(strconv.FormatInt(int64(r), 16), 8)
	}
}

func pad(s string, n int) string {
	for len(s) < n {
		s = "0" + s
	}
	return s
}

func (e *Emitter) writeBlockScalarHints() (string, error) {
	hints := ""
	if len(e.scalar) > 0 && (e.scalar[0] == ' ' || e.scalar[0] == '\n') {
		hints += strconv.Itoa(e.opt.Indent)
	}
	if len(e.scalar) == 0 {
		return hints + "-", nil
	}
	last := e.scalar[len(e.scalar)-1]
	if !isBreakByte(last) {
		return hints + "-", nil
	}
	if len(e.scalar) == 1 || isBreakByte(e.scalar[len(e.scalar)-2]) {
		return hints + "+", nil
	}
	return hints, nil
}

func isBreakByte(b byte) bool { return b == '\n' }

func (e *Emitter) writeLiteralScalar() error {
	hints, err := e.writeBlockScalarHints()
	if err != nil {
		return err
	}
	if err := e.writeIndicator("|"+hints, true, false, false); err != nil {
		return err
	}
	e.openEnded = false
	if err := e.putBreak(); err != nil {
		return err
	}
	e.lastCharIndent = true
	breaks := true
	for i := 0; i < len(e.scalar); {
		r, w := decodeScalarRune(e.scalar[i:])
		if isBreakRune(r) {
			if err := e.putBreak(); err != nil {
				return err
			}
			breaks = true
		} else {
			if breaks {
				if err := e.writeIndent(); err != nil {
					return err
				}
			}
			breaks = false
			if err := e.writeAll(e.scalar[i : i+w]); err != nil {
				return err
			}
		}
		i += w
	}
	return nil
}

func (e *Emitter) writeFoldedScalar() error {
	hints, err := e.writeBlockScalarHints()
	if err != nil {
		return err
	}
	if err := e.writeIndicator(">"+hints, true, false, false); err != nil {
		return err
	}
	e.openEnded = false
	if err := e.putBreak(); err != nil {
		return err
	}
	e.lastCharIndent = true

	leadingBlank, breaks := false, true
	for i := 0; i < len(e.scalar); {
		r, w := decodeScalarRune(e.scalar[i:])
		if isBreakRune(r) {
			if !breaks && !leadingBlank && i+w < len(e.scalar) && e.scalar[i+w] != ' ' {
				if err := e.putBreak(); err != nil {
					return err
				}
			}
			if err := e.putBreak(); err != nil {
				return err
			}
			breaks = true
		} else {
			if breaks {
				if err := e.writeIndent(); err != nil {
					return err
				}
				leadingBlank = r == ' '
			}
			breaks = false
			if err := e.writeAll(e.scalar[i : i+w]); err != nil {
				return err
			}
		}
		i += w
	}
	return nil
}

// decodeScalarRune is a thin alias over utf8.DecodeRune used while walking
// the already-expanded scalar accumulator.
func decodeScalarRune(b []byte) (rune, int) {
	if len(b) == 0 {
		return 0, 0
	}
	return utf8.DecodeRune(b)
}
