package jsast

import (
	"context"
	"fmt"
	"strings"
)

// Program parses a whole snippet with the shared parser.
func Program(src string) (*Node, error) {
	return defaultParser().Parse(context.Background(), []byte(src))
}

// Expression parses src as a single expression and returns it detached,
// without leading trivia.
func Expression(src string) (*Node, error) {
	program, err := Program("(" + src + "\n)")
	if err != nil {
		return nil, fmt.Errorf("expression %q: %w", src, err)
	}

	stmt := program.FirstNamedChild()
	if !stmt.Is(TypeExpressionStatement) {
		return nil, fmt.Errorf("%w: expression %q", ErrSnippet, src)
	}

	paren := stmt.FirstNamedChild()
	if !paren.Is(TypeParenthesized) {
		return nil, fmt.Errorf("%w: expression %q", ErrSnippet, src)
	}

	expr := paren.FirstNamedChild()
	if expr == nil {
		return nil, fmt.Errorf("%w: expression %q", ErrSnippet, src)
	}

	return detach(expr), nil
}

// Statement parses src and returns its first statement detached.
func Statement(src string) (*Node, error) {
	program, err := Program(src)
	if err != nil {
		return nil, fmt.Errorf("statement %q: %w", src, err)
	}

	stmt := program.FirstNamedChild()
	if stmt == nil {
		return nil, fmt.Errorf("%w: statement %q", ErrSnippet, src)
	}

	return detach(stmt), nil
}

// Entry parses src as one object literal entry (pair, method or shorthand).
func Entry(src string) (*Node, error) {
	obj, err := Expression("{" + src + "}")
	if err != nil {
		return nil, err
	}

	entries := Entries(obj)
	if !obj.Is(TypeObject) || len(entries) != 1 {
		return nil, fmt.Errorf("%w: entry %q", ErrSnippet, src)
	}

	return detach(entries[0]), nil
}

// MustExpression is Expression for compile-time constant snippets.
func MustExpression(src string) *Node {
	expr, err := Expression(src)
	if err != nil {
		panic(err)
	}

	return expr
}

// MustEntry is Entry for compile-time constant snippets.
func MustEntry(src string) *Node {
	entry, err := Entry(src)
	if err != nil {
		panic(err)
	}

	return entry
}

func detach(targetNode *Node) *Node {
	targetNode.Detach()
	targetNode.Field = ""
	targetNode.SetLeadingTrivia("")

	return targetNode
}

// Substitute replaces every identifier named hole inside root with
// replacement. When the hole occurs more than once, later occurrences get
// clones. It returns the number of substitutions.
func Substitute(root *Node, hole string, replacement *Node) int {
	var holes []*Node

	Walk(root, func(targetNode *Node) bool {
		if targetNode.Type == TypeIdentifier && targetNode.Token == hole {
			holes = append(holes, targetNode)
		}

		return true
	})

	for idx, found := range holes {
		repl := replacement
		if idx > 0 {
			repl = replacement.Clone()
		}

		found.Replace(repl)
	}

	return len(holes)
}

// WrapMember replaces target with the member expression target.property and
// returns the new member node.
func WrapMember(target *Node, property string) *Node {
	member := MustExpression("__target__." + property)
	target.Replace(member)
	Substitute(member, "__target__", target)

	return member
}

// NewIdentifier creates a detached identifier leaf.
func NewIdentifier(name string) *Node {
	return NewLeaf(TypeIdentifier, name, true)
}

// NewThis creates a detached this leaf.
func NewThis() *Node {
	return NewLeaf(TypeThis, "this", true)
}

// StringValue returns the unquoted content of a string literal as written,
// escapes included.
func StringValue(str *Node) string {
	text := str.Text()
	if len(text) < 2 { //nolint:mnd // opening and closing quote.
		return ""
	}

	return text[1 : len(text)-1]
}

// SetStringValue rewrites a string literal's content, keeping its quote style.
func SetStringValue(str *Node, value string) {
	quote := `'`
	if text := str.Text(); text != "" {
		quote = text[:1]
	}

	escaped := strings.ReplaceAll(value, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, quote, `\`+quote)

	lead := str.LeadingTrivia()
	open := NewLeaf(Type(quote), quote, false)
	open.Lead = lead
	fragment := NewLeaf(TypeStringFragment, escaped, true)
	closing := NewLeaf(Type(quote), quote, false)

	for _, child := range str.Children {
		child.Parent = nil
	}

	str.Children = nil
	str.Token = ""
	str.Lead = ""
	str.AppendChild(open, fragment, closing)
}

// Quote renders value as a single-quoted JavaScript string literal.
func Quote(value string) string {
	escaped := strings.ReplaceAll(value, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `'`, `\'`)
	escaped = strings.ReplaceAll(escaped, "\n", `\n`)

	return "'" + escaped + "'"
}

// IsIdentifierName reports whether name can be written as a bare property key.
func IsIdentifierName(name string) bool {
	if name == "" {
		return false
	}

	for idx, r := range name {
		switch {
		case r == '_' || r == '$':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case idx > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}

	return true
}
