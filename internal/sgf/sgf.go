// Package sgf implements SGF game-tree persistence (spec.md §6,
// component C9): a recursive-descent parser over a bufio.Reader and a
// printer, for the line-based, parenthesis-delimited format with `;`
// node separators and bracketed property values. The GameTree/Node
// shape follows IU9-Team-exe-go-game-backend's sgf.go package (a
// property-map-per-node tree with child variations), fleshed out here
// with an actual parser/printer since that package only declares the
// types.
package sgf

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// Node is one SGF node: an ordered set of properties, each with one or
// more bracketed values (e.g. `AB[aa][bb]` has Properties["AB"] ==
// []string{"aa", "bb"}).
type Node struct {
	Properties map[string][]string
	order      []string // property insertion order, preserved for Print
}

// Get returns a node's first value for key, if present.
func (n *Node) Get(key string) (string, bool) {
	v, ok := n.Properties[key]
	if !ok || len(v) == 0 {
		return "", false
	}
	return v[0], true
}

// Set replaces a property's values entirely.
func (n *Node) Set(key string, values ...string) {
	if n.Properties == nil {
		n.Properties = make(map[string][]string)
	}
	if _, exists := n.Properties[key]; !exists {
		n.order = append(n.order, key)
	}
	n.Properties[key] = values
}

// GameTree is one SGF game tree: a main-line sequence of nodes plus any
// variations branching off its last node.
type GameTree struct {
	Nodes    []*Node
	Children []*GameTree
}

// Collection is a full SGF file: one or more top-level game trees.
type Collection struct {
	Trees []*GameTree
}

// Parse reads a full SGF collection from r.
func Parse(r io.Reader) (*Collection, error) {
	p := &parser{br: bufio.NewReader(r)}
	p.skipSpace()
	col := &Collection{}
	for {
		c, err := p.peek()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if c != '(' {
			break
		}
		tree, err := p.parseTree()
		if err != nil {
			return nil, errors.Wrap(err, "sgf: parse")
		}
		col.Trees = append(col.Trees, tree)
		p.skipSpace()
	}
	if len(col.Trees) == 0 {
		return nil, errors.New("sgf: no game tree found")
	}
	return col, nil
}

type parser struct {
	br *bufio.Reader
}

func (p *parser) peek() (byte, error) {
	b, err := p.br.ReadByte()
	if err != nil {
		return 0, err
	}
	return b, p.br.UnreadByte()
}

func (p *parser) skipSpace() {
	for {
		b, err := p.br.ReadByte()
		if err != nil {
			return
		}
		if b == ' ' || b == '\t' || b == '\n' || b == '\r' {
			continue
		}
		_ = p.br.UnreadByte()
		return
	}
}

func (p *parser) parseTree() (*GameTree, error) {
	if b, err := p.br.ReadByte(); err != nil || b != '(' {
		return nil, errors.New("sgf: expected '('")
	}
	tree := &GameTree{}
	p.skipSpace()
	for {
		c, err := p.peek()
		if err != nil {
			return nil, errors.New("sgf: unterminated game tree")
		}
		switch c {
		case ';':
			p.br.ReadByte()
			node, err := p.parseNode()
			if err != nil {
				return nil, err
			}
			tree.Nodes = append(tree.Nodes, node)
			p.skipSpace()
		case '(':
			child, err := p.parseTree()
			if err != nil {
				return nil, err
			}
			tree.Children = append(tree.Children, child)
			p.skipSpace()
		case ')':
			p.br.ReadByte()
			return tree, nil
		default:
			return nil, errors.Errorf("sgf: unexpected byte %q in game tree", c)
		}
	}
}

func (p *parser) parseNode() (*Node, error) {
	node := &Node{Properties: make(map[string][]string)}
	p.skipSpace()
	for {
		c, err := p.peek()
		if err != nil || c == ';' || c == '(' || c == ')' {
			return node, nil
		}
		if !isIdentByte(c) {
			return nil, errors.Errorf("sgf: unexpected byte %q starting a property", c)
		}
		key, err := p.parseIdent()
		if err != nil {
			return nil, err
		}
		var values []string
		for {
			c, err := p.peek()
			if err != nil || c != '[' {
				break
			}
			v, err := p.parseBracketed()
			if err != nil {
				return nil, err
			}
			values = append(values, v)
			p.skipSpace()
		}
		if len(values) == 0 {
			return nil, errors.Errorf("sgf: property %q has no bracketed value", key)
		}
		node.Properties[key] = values
		node.order = append(node.order, key)
		p.skipSpace()
	}
}

func isIdentByte(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

func (p *parser) parseIdent() (string, error) {
	var sb strings.Builder
	for {
		c, err := p.peek()
		if err != nil || !isIdentByte(c) {
			break
		}
		p.br.ReadByte()
		sb.WriteByte(c)
	}
	if sb.Len() == 0 {
		return "", errors.New("sgf: empty property identifier")
	}
	return strings.ToUpper(sb.String()), nil
}

// parseBracketed reads a `[...]` value, unescaping `\]` and `\\` (the
// only two escapes spec.md §6 names for plain properties — composite
// properties' `:` separator is left intact for the caller to split).
func (p *parser) parseBracketed() (string, error) {
	if b, err := p.br.ReadByte(); err != nil || b != '[' {
		return "", errors.New("sgf: expected '['")
	}
	var sb strings.Builder
	for {
		b, err := p.br.ReadByte()
		if err != nil {
			return "", errors.New("sgf: unterminated property value")
		}
		if b == '\\' {
			next, err := p.br.ReadByte()
			if err != nil {
				return "", errors.New("sgf: dangling escape at end of input")
			}
			sb.WriteByte(next)
			continue
		}
		if b == ']' {
			return sb.String(), nil
		}
		sb.WriteByte(b)
	}
}

// Print writes col back out in SGF form, escaping `]` and `\` in every
// value. `:` is never escaped, including inside composite-property
// values (see escapeValue).
func Print(w io.Writer, col *Collection) error {
	bw := bufio.NewWriter(w)
	for _, t := range col.Trees {
		printTree(bw, t)
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

func printTree(w *bufio.Writer, t *GameTree) {
	w.WriteByte('(')
	for _, n := range t.Nodes {
		printNode(w, n)
	}
	for _, c := range t.Children {
		printTree(w, c)
	}
	w.WriteByte(')')
}

func printNode(w *bufio.Writer, n *Node) {
	w.WriteByte(';')
	keys := n.order
	if len(keys) == 0 {
		for k := range n.Properties {
			keys = append(keys, k)
		}
	}
	for _, key := range keys {
		values := n.Properties[key]
		w.WriteString(key)
		for _, v := range values {
			w.WriteByte('[')
			w.WriteString(escapeValue(v))
			w.WriteByte(']')
		}
	}
}

// escapeValue escapes `]` and `\` (spec.md §6's "backslash escapes `]`
// and backslash itself"); the composite-property `:` separator is left
// alone here since this printer does not track which properties are
// composite — a caller writing one joins its two halves with a literal
// `:` itself, as michi-style SGF writers do.
func escapeValue(v string) string {
	var sb strings.Builder
	for _, r := range v {
		if r == ']' || r == '\\' {
			sb.WriteByte('\\')
		}
		fmt.Fprintf(&sb, "%c", r)
	}
	return sb.String()
}
