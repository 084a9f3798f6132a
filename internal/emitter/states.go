package emitter

import (
	"sort"

	"go.yamlcore.dev/yaml/internal/token"
)

func (e *Emitter) dispatch(ev *token.Event) error {
	switch e.state {
	case stateStreamStart:
		return e.emitStreamStart(ev)
	case stateFirstDocumentStart:
		return e.emitDocumentStart(ev, true)
	case stateDocumentStart:
		return e.emitDocumentStart(ev, false)
	case stateDocumentContent:
		return e.emitDocumentContent(ev)
	case stateDocumentEnd:
		return e.emitDocumentEnd(ev)
	case stateFlowSequenceFirstItem:
		return e.emitFlowSequenceItem(ev, true, false)
	case stateFlowSequenceTrailItem:
		return e.emitFlowSequenceItem(ev, false, true)
	case stateFlowSequenceItem:
		return e.emitFlowSequenceItem(ev, false, false)
	case stateFlowMappingFirstKey:
		return e.emitFlowMappingKey(ev, true, false)
	case stateFlowMappingTrailKey:
		return e.emitFlowMappingKey(ev, false, true)
	case stateFlowMappingKey:
		return e.emitFlowMappingKey(ev, false, false)
	case stateFlowMappingSimpleValue:
		return e.emitFlowMappingValue(ev, true)
	case stateFlowMappingValue:
		return e.emitFlowMappingValue(ev, false)
	case stateBlockSequenceFirstItem:
		return e.emitBlockSequenceItem(ev, true)
	case stateBlockSequenceItem:
		return e.emitBlockSequenceItem(ev, false)
	case stateBlockMappingFirstKey:
		return e.emitBlockMappingKey(ev, true)
	case stateBlockMappingKey:
		return e.emitBlockMappingKey(ev, false)
	case stateBlockMappingSimpleValue:
		return e.emitBlockMappingValue(ev, true)
	case stateBlockMappingValue:
		return e.emitBlockMappingValue(ev, false)
	case stateEnd:
		return errorf("expected nothing after STREAM-END")
	}
	panic("yaml: invalid emitter state")
}

func (e *Emitter) emitStreamStart(ev *token.Event) error {
	if ev.Kind != token.StreamStartEvent {
		return errorf("expected STREAM-START, got %s", ev.Kind)
	}
	e.indent = -1
	e.line = 0
	e.column = 0
	e.lastCharWhite = true
	e.lastCharIndent = true
	e.state = stateFirstDocumentStart
	return nil
}

func (e *Emitter) emitDocumentStart(ev *token.Event, first bool) error {
	if ev.Kind == token.DocumentStartEvent {
		var versionDirective *token.VersionDirective
		var tagDirectives []token.TagDirective
		if first {
			versionDirective = ev.VersionDirective
			tagDirectives = ev.TagDirectives
		}

		if versionDirective != nil {
			if err := e.writeVersionDirective(versionDirective); err != nil {
				return err
			}
		}

		e.tagDirectives = nil
		if len(tagDirectives) > 0 {
			sorted := append([]token.TagDirective(nil), tagDirectives...)
			sort.Slice(sorted, func(i, j int) bool { return string(sorted[i].Handle) < string(sorted[j].Handle) })
			for _, td := range sorted {
				if err := e.appendTagDirective(td, false); err != nil {
					return err
				}
				if err := e.writeTagDirective(td); err != nil {
					return err
				}
			}
		}
		for _, td := range token.DefaultTagDirectives {
			if err := e.appendTagDirective(td, true); err != nil {
				return err
			}
		}

		implicit := ev.Implicit && !e.opt.Canonical && versionDirective == nil && len(tagDirectives) == 0 && !e.explicitDocumentNeeded()
		if !implicit {
			if err := e.writeIndent(); err != nil {
				return err
			}
			if err := e.writeIndicator("---", true, false, false); err != nil {
				return err
			}
			if e.opt.Canonical {
				if err := e.writeIndent(); err != nil {
					return err
				}
			}
		}
		e.pushState(stateDocumentEnd)
		e.state = stateDocumentContent
		return nil
	}

	if ev.Kind == token.StreamEndEvent {
		if e.openEnded {
			if err := e.writeIndicator("...", true, false, false); err != nil {
				return err
			}
			if err := e.writeIndent(); err != nil {
				return err
			}
		}
		e.state = stateEnd
		return nil
	}

	return errorf("expected DOCUMENT-START or STREAM-END, got %s", ev.Kind)
}

func (e *Emitter) explicitDocumentNeeded() bool { return e.opt.ExplicitStart }

func (e *Emitter) emitDocumentContent(ev *token.Event) error {
	return e.emitNode(ev, true, false, false, false)
}

func (e *Emitter) emitDocumentEnd(ev *token.Event) error {
	if ev.Kind != token.DocumentEndEvent {
		return errorf("expected DOCUMENT-END, got %s", ev.Kind)
	}
	if err := e.writeIndent(); err != nil {
		return err
	}
	if !ev.Implicit || e.opt.ExplicitEnd {
		if err := e.writeIndicator("...", true, false, false); err != nil {
			return err
		}
		if err := e.writeIndent(); err != nil {
			return err
		}
	}
	e.openEnded = false
	e.state = stateDocumentStart
	return nil
}

// emitNode dispatches on event kind, the way parse_node dispatches on
// token kind: it is the single entry point used for document content,
// sequence items and mapping keys/values alike.
func (e *Emitter) emitNode(ev *token.Event, root, sequence, mapping, simpleKey bool) error {
	e.root = root
	e.simpleKey = simpleKey
	switch ev.Kind {
	case token.AliasEvent:
		return e.emitAlias()
	case token.ScalarEvent:
		return e.emitScalar(ev)
	case token.SequenceStartEvent:
		return e.emitSequenceStart(ev)
	case token.MappingStartEvent:
		return e.emitMappingStart(ev)
	}
	return errorf("expected a node event but got %s", ev.Kind)
}

func (e *Emitter) emitAlias() error {
	if err := e.processAnchor(); err != nil {
		return err
	}
	e.state = e.popState()
	return nil
}

func (e *Emitter) emitScalar(ev *token.Event) error {
	if err := e.selectScalarStyle(ev); err != nil {
		return err
	}
	if err := e.processAnchor(); err != nil {
		return err
	}
	if err := e.processTag(); err != nil {
		return err
	}
	e.increaseIndent(true, false)
	if err := e.writeScalarValue(); err != nil {
		return err
	}
	e.popIndent()
	e.state = e.popState()
	return nil
}

func (e *Emitter) emitSequenceStart(ev *token.Event) error {
	if err := e.processAnchor(); err != nil {
		return err
	}
	if err := e.processTag(); err != nil {
		return err
	}
	flow := ev.CollectionStyle == token.FlowCollectionStyle || e.opt.Canonical
	if flow {
		e.state = stateFlowSequenceFirstItem
		return nil
	}
	e.state = stateBlockSequenceFirstItem
	return nil
}

func (e *Emitter) emitMappingStart(ev *token.Event) error {
	if err := e.processAnchor(); err != nil {
		return err
	}
	if err := e.processTag(); err != nil {
		return err
	}
	flow := ev.CollectionStyle == token.FlowCollectionStyle || e.opt.Canonical
	if flow {
		e.state = stateFlowMappingFirstKey
		return nil
	}
	e.state = stateBlockMappingFirstKey
	return nil
}

func (e *Emitter) emitFlowSequenceItem(ev *token.Event, first, trail bool) error {
	if first {
		if err := e.writeIndicator("[", true, true, false); err != nil {
			return err
		}
		e.increaseIndent(true, false)
		e.flowLevel++
	}
	if ev.Kind == token.SequenceEndEvent {
		e.flowLevel--
		e.popIndent()
		if e.opt.Canonical && !first && !trail {
			if err := e.writeIndicator(",", false, false, false); err != nil {
				return err
			}
			if err := e.writeIndent(); err != nil {
				return err
			}
		}
		if err := e.writeIndicator("]", false, false, false); err != nil {
			return err
		}
		e.state = e.popState()
		return nil
	}
	if !first {
		if err := e.writeIndicator(",", false, false, false); err != nil {
			return err
		}
	}
	if e.opt.Canonical || e.column > e.opt.Width {
		if err := e.writeIndent(); err != nil {
			return err
		}
	}
	e.pushState(stateFlowSequenceItem)
	return e.emitNode(ev, false, true, false, false)
}

func (e *Emitter) emitFlowMappingKey(ev *token.Event, first, trail bool) error {
	if first {
		if err := e.writeIndicator("{", true, true, false); err != nil {
			return err
		}
		e.increaseIndent(true, false)
		e.flowLevel++
	}
	if ev.Kind == token.MappingEndEvent {
		e.flowLevel--
		e.popIndent()
		if e.opt.Canonical && !first && !trail {
			if err := e.writeIndicator(",", false, false, false); err != nil {
				return err
			}
			if err := e.writeIndent(); err != nil {
				return err
			}
		}
		if err := e.writeIndicator("}", false, false, false); err != nil {
			return err
		}
		e.state = e.popState()
		return nil
	}
	if !first {
		if err := e.writeIndicator(",", false, false, false); err != nil {
			return err
		}
	}
	if e.opt.Canonical || e.column > e.opt.Width {
		if err := e.writeIndent(); err != nil {
			return err
		}
	}
	if !e.opt.Canonical && e.isSimpleKey(ev) {
		e.pushState(stateFlowMappingSimpleValue)
		return e.emitNode(ev, false, false, true, true)
	}
	if err := e.writeIndicator("?", true, false, false); err != nil {
		return err
	}
	e.pushState(stateFlowMappingValue)
	return e.emitNode(ev, false, false, true, false)
}

func (e *Emitter) emitFlowMappingValue(ev *token.Event, simple bool) error {
	if simple {
		if err := e.writeIndicator(":", false, false, false); err != nil {
			return err
		}
	} else {
		if err := e.writeIndent(); err != nil {
			return err
		}
		if err := e.writeIndicator(":", true, false, false); err != nil {
			return err
		}
	}
	e.pushState(stateFlowMappingKey)
	return e.emitNode(ev, false, false, true, false)
}

func (e *Emitter) emitBlockSequenceItem(ev *token.Event, first bool) error {
	if first {
		e.increaseIndent(false, e.root && e.blockSeqIndentless())
	}
	if ev.Kind == token.SequenceEndEvent {
		e.popIndent()
		e.state = e.popState()
		return nil
	}
	if err := e.writeIndent(); err != nil {
		return err
	}
	if err := e.writeIndicator("-", true, false, true); err != nil {
		return err
	}
	e.pushState(stateBlockSequenceItem)
	return e.emitNode(ev, false, true, false, false)
}

func (e *Emitter) blockSeqIndentless() bool { return false }

func (e *Emitter) emitBlockMappingKey(ev *token.Event, first bool) error {
	if first {
		e.increaseIndent(false, false)
	}
	if ev.Kind == token.MappingEndEvent {
		e.popIndent()
		e.state = e.popState()
		return nil
	}
	if err := e.writeIndent(); err != nil {
		return err
	}
	if e.isSimpleKey(ev) {
		e.pushState(stateBlockMappingSimpleValue)
		return e.emitNode(ev, false, false, true, true)
	}
	if err := e.writeIndicator("?", true, false, true); err != nil {
		return err
	}
	e.pushState(stateBlockMappingValue)
	return e.emitNode(ev, false, false, true, false)
}

func (e *Emitter) emitBlockMappingValue(ev *token.Event, simple bool) error {
	if simple {
		if err := e.writeIndicator(":", false, false, false); err != nil {
			return err
		}
	} else {
		if err := e.writeIndent(); err != nil {
			return err
		}
		if err := e.writeIndicator(":", true, false, true); err != nil {
			return err
		}
	}
	e.pushState(stateBlockMappingKey)
	return e.emitNode(ev, false, false, true, false)
}

// isSimpleKey reports whether ev, if used as a mapping key, may be written
// without the explicit '?' indicator: a short, single-line scalar (or an
// alias), matching the teacher's simple-key heuristic for emission.
func (e *Emitter) isSimpleKey(ev *token.Event) bool {
	switch ev.Kind {
	case token.AliasEvent:
		return true
	case token.ScalarEvent:
		return !e.wouldBeMultiline(ev) && len(ev.Value) <= 128
	}
	return false
}

func (e *Emitter) wouldBeMultiline(ev *token.Event) bool {
	for _, b := range ev.Value {
		if b == '\n' {
			return true
		}
	}
	return false
}
