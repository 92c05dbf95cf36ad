package syntax

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// ErrEmptyForest is returned when the producer output maps no files.
var ErrEmptyForest = errors.New("tree producer returned no files")

// DecodeError describes malformed producer output.
type DecodeError struct {
	Path   string // file key in the forest, empty when the envelope itself is broken
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	msg := "malformed syntax tree"
	if e.Path != "" {
		msg += " for " + e.Path
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DecodeError) Unwrap() error { return e.Err }

// WirePosition mirrors Position on the wire.
type WirePosition struct {
	Line      int `json:"Line" msgpack:"l"`
	Character int `json:"Character" msgpack:"c"`
}

// WireSpan mirrors Span on the wire.
type WireSpan struct {
	Start     WirePosition `json:"Start" msgpack:"s"`
	End       WirePosition `json:"End" msgpack:"e"`
	SpanStart *int         `json:"SpanStart,omitempty" msgpack:"o,omitempty"`
}

// WireTrivia mirrors Trivia on the wire.
type WireTrivia struct {
	Kind      string   `json:"Kind" msgpack:"k"`
	Text      string   `json:"Text" msgpack:"x"`
	Span      WireSpan `json:"Span" msgpack:"p"`
	SpanStart int      `json:"SpanStart" msgpack:"o"`
}

// WireElement is one node or token as emitted by the tree producer.
type WireElement struct {
	Type            string         `json:"Type" msgpack:"t"`
	ASTType         string         `json:"ASTType" msgpack:"a"`
	Kind            string         `json:"Kind,omitempty" msgpack:"k,omitempty"`
	Value           any            `json:"Value,omitempty" msgpack:"v,omitempty"`
	Text            string         `json:"Text" msgpack:"x"`
	TrimmedText     string         `json:"TrimmedText" msgpack:"tx"`
	Span            WireSpan       `json:"Span" msgpack:"p"`
	SpanStart       int            `json:"SpanStart" msgpack:"o"`
	Children        []*WireElement `json:"Children,omitempty" msgpack:"ch,omitempty"`
	LeadingTrivia   []WireTrivia   `json:"LeadingTrivia,omitempty" msgpack:"lt,omitempty"`
	TrailingTrivia  []WireTrivia   `json:"TrailingTrivia,omitempty" msgpack:"tt,omitempty"`
	Modifiers       []string       `json:"Modifiers,omitempty" msgpack:"m,omitempty"`
	Identifier      *WireElement   `json:"Identifier,omitempty" msgpack:"id,omitempty"`
	ReturnType      *WireElement   `json:"ReturnType,omitempty" msgpack:"rt,omitempty"`
	PropertyType    *WireElement   `json:"PropertyType,omitempty" msgpack:"pt,omitempty"`
	DeclarationType *WireElement   `json:"DeclarationType,omitempty" msgpack:"dt,omitempty"`
	BaseTypes       []*WireElement `json:"BaseTypes,omitempty" msgpack:"bt,omitempty"`
	Members         []*WireElement `json:"Members,omitempty" msgpack:"mb,omitempty"`
	References      []WireSpan     `json:"References,omitempty" msgpack:"rf,omitempty"`
}

// WireForest is the producer output envelope.
type WireForest map[string]*WireElement

// DecodeJSON reads producer output and builds the forest.
func DecodeJSON(r io.Reader) (Forest, WireForest, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("read tree: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil, ErrEmptyForest
	}
	var wf WireForest
	if err := json.Unmarshal(data, &wf); err != nil {
		return nil, nil, &DecodeError{Reason: "invalid JSON", Err: err}
	}
	forest, err := wf.Build()
	if err != nil {
		return nil, nil, err
	}
	return forest, wf, nil
}

// EncodeMsgpack serializes a wire forest for the tree cache.
func EncodeMsgpack(wf WireForest) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetSortMapKeys(true)
	if err := enc.Encode(wf); err != nil {
		return nil, fmt.Errorf("encode tree: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeMsgpack restores a wire forest written by EncodeMsgpack.
func DecodeMsgpack(data []byte) (WireForest, error) {
	var wf WireForest
	if err := msgpack.Unmarshal(data, &wf); err != nil {
		return nil, &DecodeError{Reason: "invalid cache payload", Err: err}
	}
	return wf, nil
}

// Build converts the wire envelope into tree elements.
func (wf WireForest) Build() (Forest, error) {
	if len(wf) == 0 {
		return nil, ErrEmptyForest
	}
	out := make(Forest, len(wf))
	for path, w := range wf {
		if w == nil {
			return nil, &DecodeError{Path: path, Reason: "null root"}
		}
		el, err := w.build()
		if err != nil {
			return nil, &DecodeError{Path: path, Reason: "bad element", Err: err}
		}
		root, ok := el.(*Node)
		if !ok {
			return nil, &DecodeError{Path: path, Reason: "root is not a syntax node"}
		}
		out[path] = root
	}
	return out, nil
}

func (w *WireElement) build() (Element, error) {
	switch w.Type {
	case TypeToken:
		return w.buildToken(), nil
	case TypeSyntax:
		return w.buildNode()
	default:
		return nil, fmt.Errorf("unknown element type %q (%s)", w.Type, w.ASTType)
	}
}

func (w *WireElement) buildToken() *Token {
	return &Token{
		Kind:        w.Kind,
		Value:       w.Value,
		Text:        w.Text,
		TrimmedText: w.TrimmedText,
		Span:        w.Span.span(),
		SpanStart:   w.SpanStart,
		Leading:     buildTrivia(w.LeadingTrivia),
		Trailing:    buildTrivia(w.TrailingTrivia),
	}
}

func (w *WireElement) buildNode() (*Node, error) {
	n := &Node{
		Kind:        w.ASTType,
		Text:        w.Text,
		TrimmedText: w.TrimmedText,
		Span:        w.Span.span(),
		SpanStart:   w.SpanStart,
		Modifiers:   w.Modifiers,
	}
	if len(w.Children) > 0 {
		n.Children = make([]Element, 0, len(w.Children))
	}
	for i, c := range w.Children {
		if c == nil {
			return nil, fmt.Errorf("%s: child %d is null", w.ASTType, i)
		}
		el, err := c.build()
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, el)
	}
	if w.Identifier != nil {
		n.Identifier = w.Identifier.buildToken()
	}
	var err error
	if n.ReturnType, err = buildOptional(w.ReturnType); err != nil {
		return nil, err
	}
	if n.PropertyType, err = buildOptional(w.PropertyType); err != nil {
		return nil, err
	}
	if n.DeclarationType, err = buildOptional(w.DeclarationType); err != nil {
		return nil, err
	}
	if n.BaseTypes, err = buildNodes(w.BaseTypes); err != nil {
		return nil, err
	}
	if n.Members, err = buildNodes(w.Members); err != nil {
		return nil, err
	}
	for _, r := range w.References {
		loc := Location{Span: r.span(), Offset: -1}
		if r.SpanStart != nil {
			loc.Offset = *r.SpanStart
		}
		n.References = append(n.References, loc)
	}
	return n, nil
}

func buildOptional(w *WireElement) (*Node, error) {
	if w == nil {
		return nil, nil
	}
	// type subtrees are sometimes a bare token (e.g. a keyword)
	if w.Type == TypeToken {
		tok := w.buildToken()
		return &Node{
			Kind:        w.ASTType,
			Text:        w.Text,
			TrimmedText: w.TrimmedText,
			Span:        tok.Span,
			SpanStart:   tok.SpanStart,
			Children:    []Element{tok},
		}, nil
	}
	return w.buildNode()
}

func buildNodes(ws []*WireElement) ([]*Node, error) {
	if len(ws) == 0 {
		return nil, nil
	}
	out := make([]*Node, 0, len(ws))
	for _, w := range ws {
		if w == nil {
			continue
		}
		n, err := buildOptional(w)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func buildTrivia(ws []WireTrivia) []Trivia {
	if len(ws) == 0 {
		return nil
	}
	out := make([]Trivia, len(ws))
	for i, w := range ws {
		out[i] = Trivia{Kind: w.Kind, Text: w.Text, Span: w.Span.span(), SpanStart: w.SpanStart}
	}
	return out
}

func (s WireSpan) span() Span {
	return Span{
		Start: Position{Line: s.Start.Line, Character: s.Start.Character},
		End:   Position{Line: s.End.Line, Character: s.End.Character},
	}
}
