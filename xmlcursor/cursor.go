// Package xmlcursor provides a forward-only cursor over the nodes of an XML
// element tree. The tree is flattened once in document order; every element
// contributes a start node, the nodes of its children and a matching end node.
package xmlcursor

import (
	"bytes"
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/net/html/charset"
	"golang.org/x/xerrors"
)

type NodeKind int

const (
	Element NodeKind = iota
	EndElement
	Text
)

func (k NodeKind) String() string {
	switch k {
	case Element:
		return "Element"
	case EndElement:
		return "EndElement"
	case Text:
		return "Text"
	}
	return "Unknown"
}

// Node is a single position of the cursor.
type Node struct {
	Kind  NodeKind
	Space string
	Local string
	Attrs []etree.Attr
	// Text is the trimmed text content of the whole subtree for Element nodes
	// and the trimmed character data for Text nodes.
	Text  string
	Depth int
	// Leaf is set on Element nodes without child elements.
	Leaf bool
}

type Cursor struct {
	nodes []Node
	pos   int
}

// New flattens root and positions the cursor on it.
func New(root *etree.Element) *Cursor {
	c := &Cursor{}
	if root != nil {
		c.flatten(root, 0)
	}
	return c
}

// FromBytes parses b and returns a cursor positioned on the document root.
func FromBytes(b []byte) (*Cursor, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charset.NewReaderLabel
	if err := doc.ReadFromBytes(bytes.TrimSpace(b)); err != nil {
		return nil, xerrors.Errorf("failed to read XML: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, xerrors.New("XML document has no root element")
	}
	return New(root), nil
}

func (c *Cursor) flatten(el *etree.Element, depth int) {
	start := len(c.nodes)
	c.nodes = append(c.nodes, Node{
		Kind:  Element,
		Space: el.Space,
		Local: el.Tag,
		Attrs: el.Attr,
		Depth: depth,
		Leaf:  len(el.ChildElements()) == 0,
	})

	var text strings.Builder
	for _, tok := range el.Child {
		switch t := tok.(type) {
		case *etree.Element:
			c.flatten(t, depth+1)
		case *etree.CharData:
			if t.IsWhitespace() {
				continue
			}
			c.nodes = append(c.nodes, Node{Kind: Text, Text: strings.TrimSpace(t.Data), Depth: depth + 1})
		}
	}
	for _, n := range c.nodes[start+1:] {
		if n.Kind == Text {
			text.WriteString(n.Text)
		}
	}
	c.nodes[start].Text = text.String()

	c.nodes = append(c.nodes, Node{Kind: EndElement, Space: el.Space, Local: el.Tag, Depth: depth})
}

func (c *Cursor) EOF() bool {
	return c.pos >= len(c.nodes)
}

func (c *Cursor) Pos() int {
	return c.pos
}

// Node returns the current node, or the zero Node at EOF.
func (c *Cursor) Node() Node {
	if c.EOF() {
		return Node{Kind: -1, Depth: -1}
	}
	return c.nodes[c.pos]
}

func (c *Cursor) Kind() NodeKind { return c.Node().Kind }

func (c *Cursor) Local() string { return c.Node().Local }

func (c *Cursor) Depth() int { return c.Node().Depth }

func (c *Cursor) IsElement() bool {
	return !c.EOF() && c.nodes[c.pos].Kind == Element
}

// IsElementNamed reports whether the cursor is on a start tag with the given local name.
func (c *Cursor) IsElementNamed(local string) bool {
	return c.IsElement() && c.nodes[c.pos].Local == local
}

// IsEmptyElement reports whether the current element has neither child elements nor text.
func (c *Cursor) IsEmptyElement() bool {
	n := c.Node()
	return n.Kind == Element && n.Leaf && n.Text == ""
}

// Attr looks up an attribute of the current element by its local name.
func (c *Cursor) Attr(local string) (string, bool) {
	for _, a := range c.Node().Attrs {
		if a.Key == local && a.Space != "xmlns" {
			return a.Value, true
		}
	}
	return "", false
}

func (c *Cursor) AttrValue(local string) string {
	v, _ := c.Attr(local)
	return v
}

func (c *Cursor) Text() string {
	return c.Node().Text
}

// Next advances to the following node and reports whether one exists.
func (c *Cursor) Next() bool {
	if c.EOF() {
		return false
	}
	c.pos++
	return !c.EOF()
}

// NextElement advances to the next start tag.
func (c *Cursor) NextElement() bool {
	for c.Next() {
		if c.nodes[c.pos].Kind == Element {
			return true
		}
	}
	return false
}

// Skip moves past the end of the current element. On any other node it behaves like Next.
func (c *Cursor) Skip() bool {
	if !c.IsElement() {
		return c.Next()
	}
	depth := c.nodes[c.pos].Depth
	for c.Next() {
		n := c.nodes[c.pos]
		if n.Kind == EndElement && n.Depth == depth {
			return c.Next()
		}
	}
	return false
}

// AtEndOf reports whether the cursor is on the end tag closing an element at depth.
func (c *Cursor) AtEndOf(depth int) bool {
	n := c.Node()
	return n.Kind == EndElement && n.Depth == depth
}
