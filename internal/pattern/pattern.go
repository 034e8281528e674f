// Package pattern implements structural matching of HTML documents against a
// typed skeleton of the expected markup with named capture points.
//
// A pattern is built out of the following node kinds:
//
//   - *Element: a fixed element, matched by tag, attribute constraints and an
//     ordered subsequence of its children.
//   - *Repeat: a repeatable group, each sibling satisfying the inner element
//     yields one Row.
//   - Text: literal text that must be present.
//   - Capture: a text-content placeholder, the text (not attributes) of the
//     nodes at its position is captured under its name.
//
// Attribute constraints are either AttrEquals (the attribute must exist with
// that value) or AttrCapture (the attribute must exist, its value is captured).
package pattern

import (
	"fmt"
	"strings"
)

// Node is one of *Element, *Repeat, Text or Capture.
type Node interface {
	node()
	render(out *strings.Builder)
}

// AttrMatcher is one of AttrEquals or AttrCapture.
type AttrMatcher interface {
	attrMatcher()
	render(out *strings.Builder)
}

type Element struct {
	Tag      string
	Attrs    []AttrMatcher
	Children []Node
}

// Repeat matches zero or more siblings satisfying Inner.
type Repeat struct {
	Inner *Element
}

// Text matches a text node with exactly this (whitespace-normalized) content.
type Text string

// Capture captures text content under the given name.
type Capture string

type AttrEquals struct {
	Key   string
	Value string
}

// AttrCapture captures the value of the attribute Key under Name.
type AttrCapture struct {
	Key  string
	Name string
}

func (*Element) node() {}
func (*Repeat) node()  {}
func (Text) node()     {}
func (Capture) node()  {}

func (AttrEquals) attrMatcher()  {}
func (AttrCapture) attrMatcher() {}

// El creates an element node.
func El(tag string, children ...Node) *Element {
	return &Element{Tag: tag, Children: children}
}

// Where returns a copy of the element with the attribute constraints appended.
func (e *Element) Where(attrs ...AttrMatcher) *Element {
	out := *e
	out.Attrs = append(append([]AttrMatcher{}, e.Attrs...), attrs...)
	return &out
}

// Rep marks an element as repeatable.
func Rep(inner *Element) *Repeat {
	return &Repeat{Inner: inner}
}

// Eq creates an attribute equality constraint.
func Eq(key, value string) AttrEquals {
	return AttrEquals{Key: key, Value: value}
}

// Bind creates an attribute-value placeholder.
func Bind(key, name string) AttrCapture {
	return AttrCapture{Key: key, Name: name}
}

// Pattern is a validated pattern tree, it is immutable once created.
type Pattern struct {
	root       *Element
	names      []string
	repeatable bool
}

// New validates a pattern tree: tags must be non-empty, nodes must not be nil
// and every placeholder name must be non-empty and unique.
func New(root *Element) (Pattern, error) {
	if root == nil {
		return Pattern{}, fmt.Errorf("pattern: nil root")
	}
	v := validator{seen: map[string]bool{}}
	err := v.element(root)
	if err != nil {
		return Pattern{}, err
	}
	return Pattern{
		root:       root,
		names:      v.names,
		repeatable: v.repeatable,
	}, nil
}

// MustNew is like New but panics if the pattern is invalid, it is meant for
// patterns declared as package level variables.
func MustNew(root *Element) Pattern {
	p, err := New(root)
	if err != nil {
		panic(err)
	}
	return p
}

// Names returns every placeholder name in the order they appear in the pattern.
func (p Pattern) Names() []string {
	return append([]string{}, p.names...)
}

// Repeatable reports if the pattern contains a Repeat node, repeatable patterns
// yield one Row per occurrence while others yield at most one Row.
func (p Pattern) Repeatable() bool {
	return p.repeatable
}

func (p Pattern) String() string {
	if p.root == nil {
		return ""
	}
	var out strings.Builder
	p.root.render(&out)
	return out.String()
}

type validator struct {
	seen       map[string]bool
	names      []string
	repeatable bool
}

func (v *validator) name(name string) error {
	if name == "" {
		return fmt.Errorf("pattern: empty placeholder name")
	}
	if v.seen[name] {
		return fmt.Errorf("pattern: duplicate placeholder %q", name)
	}
	v.seen[name] = true
	v.names = append(v.names, name)
	return nil
}

func (v *validator) element(e *Element) error {
	if e == nil {
		return fmt.Errorf("pattern: nil element")
	}
	if strings.TrimSpace(e.Tag) == "" {
		return fmt.Errorf("pattern: element without a tag")
	}
	for _, a := range e.Attrs {
		switch a := a.(type) {
		case AttrEquals:
			if a.Key == "" {
				return fmt.Errorf("pattern: <%s> has an attribute constraint without a key", e.Tag)
			}
		case AttrCapture:
			if a.Key == "" {
				return fmt.Errorf("pattern: <%s> has an attribute placeholder without a key", e.Tag)
			}
			err := v.name(a.Name)
			if err != nil {
				return err
			}
		default:
			return fmt.Errorf("pattern: <%s> has a nil attribute matcher", e.Tag)
		}
	}
	for _, child := range e.Children {
		err := v.node(child)
		if err != nil {
			return err
		}
	}
	return nil
}

func (v *validator) node(n Node) error {
	switch n := n.(type) {
	case *Element:
		return v.element(n)
	case *Repeat:
		if n == nil || n.Inner == nil {
			return fmt.Errorf("pattern: repeat without an inner element")
		}
		v.repeatable = true
		return v.element(n.Inner)
	case Capture:
		return v.name(string(n))
	case Text:
		if strings.TrimSpace(string(n)) == "" {
			return fmt.Errorf("pattern: blank literal text")
		}
		return nil
	default:
		return fmt.Errorf("pattern: nil node")
	}
}

func (e *Element) render(out *strings.Builder) {
	out.WriteString("<")
	out.WriteString(e.Tag)
	for _, a := range e.Attrs {
		a.render(out)
	}
	out.WriteString(">")
	for _, child := range e.Children {
		child.render(out)
	}
	out.WriteString("</")
	out.WriteString(e.Tag)
	out.WriteString(">")
}

func (r *Repeat) render(out *strings.Builder) {
	out.WriteString("(")
	r.Inner.render(out)
	out.WriteString(")*")
}

func (t Text) render(out *strings.Builder) {
	out.WriteString(string(t))
}

func (c Capture) render(out *strings.Builder) {
	out.WriteString("{{")
	out.WriteString(string(c))
	out.WriteString("}}")
}

func (a AttrEquals) render(out *strings.Builder) {
	fmt.Fprintf(out, " %s=%q", a.Key, a.Value)
}

func (a AttrCapture) render(out *strings.Builder) {
	fmt.Fprintf(out, ` %s="{{%s}}"`, a.Key, a.Name)
}
