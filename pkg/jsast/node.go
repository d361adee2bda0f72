// Package jsast provides a lossless, mutable JavaScript syntax tree built on
// tree-sitter, together with the traversal, scope and construction helpers
// used by source-to-source rewrites.
//
// Every leaf keeps the exact source trivia (whitespace and comments) that
// preceded it, so printing an unmodified tree reproduces its input byte for
// byte and edits only disturb the text they touch.
package jsast

import (
	"slices"
	"strings"
)

// Type is a tree-sitter node type such as "call_expression" or "{".
type Type string

// Node types the rewrite passes rely on.
const (
	TypeProgram               Type = "program"
	TypeExpressionStatement   Type = "expression_statement"
	TypeExportStatement       Type = "export_statement"
	TypeImportStatement       Type = "import_statement"
	TypeLexicalDeclaration    Type = "lexical_declaration"
	TypeVariableDeclaration   Type = "variable_declaration"
	TypeVariableDeclarator    Type = "variable_declarator"
	TypeReturnStatement       Type = "return_statement"
	TypeStatementBlock        Type = "statement_block"
	TypeFunctionDeclaration   Type = "function_declaration"
	TypeFunctionExpression    Type = "function_expression"
	TypeFunction              Type = "function"
	TypeGeneratorFunction     Type = "generator_function"
	TypeGeneratorDeclaration  Type = "generator_function_declaration"
	TypeArrowFunction         Type = "arrow_function"
	TypeMethodDefinition      Type = "method_definition"
	TypeFormalParameters      Type = "formal_parameters"
	TypeClassDeclaration      Type = "class_declaration"
	TypeCallExpression        Type = "call_expression"
	TypeNewExpression         Type = "new_expression"
	TypeMemberExpression      Type = "member_expression"
	TypeSubscriptExpression   Type = "subscript_expression"
	TypeAssignmentExpression  Type = "assignment_expression"
	TypeAugmentedAssignment   Type = "augmented_assignment_expression"
	TypeUpdateExpression      Type = "update_expression"
	TypeParenthesized         Type = "parenthesized_expression"
	TypeArguments             Type = "arguments"
	TypeObject                Type = "object"
	TypeArray                 Type = "array"
	TypePair                  Type = "pair"
	TypeSpreadElement         Type = "spread_element"
	TypeComputedPropertyName  Type = "computed_property_name"
	TypeShorthandProperty     Type = "shorthand_property_identifier"
	TypeShorthandPattern      Type = "shorthand_property_identifier_pattern"
	TypeObjectPattern         Type = "object_pattern"
	TypeArrayPattern          Type = "array_pattern"
	TypePairPattern           Type = "pair_pattern"
	TypeAssignmentPattern     Type = "assignment_pattern"
	TypeObjectAssignPattern   Type = "object_assignment_pattern"
	TypeRestPattern           Type = "rest_pattern"
	TypeIdentifier            Type = "identifier"
	TypePropertyIdentifier    Type = "property_identifier"
	TypeThis                  Type = "this"
	TypeString                Type = "string"
	TypeStringFragment        Type = "string_fragment"
	TypeTemplateString        Type = "template_string"
	TypeNumber                Type = "number"
	TypeTrue                  Type = "true"
	TypeFalse                 Type = "false"
	TypeNull                  Type = "null"
	TypeUndefined             Type = "undefined"
	TypeRegex                 Type = "regex"
	TypeBinaryExpression      Type = "binary_expression"
	TypeForStatement          Type = "for_statement"
	TypeForInStatement        Type = "for_in_statement"
	TypeCatchClause           Type = "catch_clause"
	TypeSwitchBody            Type = "switch_body"
	TypeComment               Type = "comment"
	TypeError                 Type = "ERROR"
)

// Node is a mutable syntax tree node.
//
// Leaves carry Token and the trivia that precedes it in Lead. Inner nodes
// carry only Children; their text is the concatenation of their leaves.
// Trail is printed right after the node and is used for synthesized
// trailing comments and for the end-of-file trivia of the root.
type Node struct {
	Type     Type
	Field    string
	Token    string
	Lead     string
	Trail    string
	Children []*Node
	Parent   *Node
	Named    bool
}

// NewLeaf creates a detached leaf node.
func NewLeaf(nodeType Type, token string, named bool) *Node {
	return &Node{Type: nodeType, Token: token, Named: named}
}

// IsLeaf reports whether the node is a token.
func (targetNode *Node) IsLeaf() bool {
	return len(targetNode.Children) == 0
}

// Is reports whether the node has one of the given types.
func (targetNode *Node) Is(types ...Type) bool {
	if targetNode == nil {
		return false
	}

	return slices.Contains(types, targetNode.Type)
}

// ChildByField returns the first child carrying the given field name.
func (targetNode *Node) ChildByField(name string) *Node {
	if targetNode == nil {
		return nil
	}

	for _, child := range targetNode.Children {
		if child.Field == name {
			return child
		}
	}

	return nil
}

// NamedChildren returns the named children, skipping punctuation and keywords.
func (targetNode *Node) NamedChildren() []*Node {
	if targetNode == nil {
		return nil
	}

	named := make([]*Node, 0, len(targetNode.Children))

	for _, child := range targetNode.Children {
		if child.Named {
			named = append(named, child)
		}
	}

	return named
}

// FirstNamedChild returns the first named child or nil.
func (targetNode *Node) FirstNamedChild() *Node {
	if targetNode == nil {
		return nil
	}

	for _, child := range targetNode.Children {
		if child.Named {
			return child
		}
	}

	return nil
}

// HasToken reports whether one of the direct children is an anonymous token
// with the given text (for example the "const" keyword of a declaration).
func (targetNode *Node) HasToken(token string) bool {
	for _, child := range targetNode.Children {
		if !child.Named && child.IsLeaf() && child.Token == token {
			return true
		}
	}

	return false
}

// FirstLeaf returns the leftmost leaf of the subtree.
func (targetNode *Node) FirstLeaf() *Node {
	cur := targetNode
	for cur != nil && len(cur.Children) > 0 {
		cur = cur.Children[0]
	}

	return cur
}

// LastLeaf returns the rightmost leaf of the subtree.
func (targetNode *Node) LastLeaf() *Node {
	cur := targetNode
	for cur != nil && len(cur.Children) > 0 {
		cur = cur.Children[len(cur.Children)-1]
	}

	return cur
}

// LeadingTrivia returns the trivia printed before the node.
func (targetNode *Node) LeadingTrivia() string {
	if leaf := targetNode.FirstLeaf(); leaf != nil {
		return leaf.Lead
	}

	return ""
}

// SetLeadingTrivia replaces the trivia printed before the node.
func (targetNode *Node) SetLeadingTrivia(lead string) {
	if leaf := targetNode.FirstLeaf(); leaf != nil {
		leaf.Lead = lead
	}
}

// Text returns the source text of the node without its leading trivia.
func (targetNode *Node) Text() string {
	if targetNode == nil {
		return ""
	}

	var buf strings.Builder

	writeNode(&buf, targetNode)

	return strings.TrimPrefix(buf.String(), targetNode.LeadingTrivia())
}

// Index returns the position of the node among its parent's children, or -1.
func (targetNode *Node) Index() int {
	if targetNode.Parent == nil {
		return -1
	}

	return slices.Index(targetNode.Parent.Children, targetNode)
}

// NextSibling returns the following sibling (named or not), or nil.
func (targetNode *Node) NextSibling() *Node {
	idx := targetNode.Index()
	if idx < 0 || idx+1 >= len(targetNode.Parent.Children) {
		return nil
	}

	return targetNode.Parent.Children[idx+1]
}

// PrevSibling returns the preceding sibling (named or not), or nil.
func (targetNode *Node) PrevSibling() *Node {
	idx := targetNode.Index()
	if idx <= 0 {
		return nil
	}

	return targetNode.Parent.Children[idx-1]
}

// Root returns the topmost ancestor.
func (targetNode *Node) Root() *Node {
	cur := targetNode
	for cur.Parent != nil {
		cur = cur.Parent
	}

	return cur
}

// Closest returns the nearest ancestor (excluding the node itself) of one of
// the given types.
func (targetNode *Node) Closest(types ...Type) *Node {
	for cur := targetNode.Parent; cur != nil; cur = cur.Parent {
		if slices.Contains(types, cur.Type) {
			return cur
		}
	}

	return nil
}

// IsDescendantOf reports whether ancestor lies on the parent chain of the node.
func (targetNode *Node) IsDescendantOf(ancestor *Node) bool {
	for cur := targetNode.Parent; cur != nil; cur = cur.Parent {
		if cur == ancestor {
			return true
		}
	}

	return false
}

// Clone returns a deep copy of the subtree. The copy is detached.
func (targetNode *Node) Clone() *Node {
	if targetNode == nil {
		return nil
	}

	dup := &Node{
		Type:  targetNode.Type,
		Field: targetNode.Field,
		Token: targetNode.Token,
		Lead:  targetNode.Lead,
		Trail: targetNode.Trail,
		Named: targetNode.Named,
	}

	if len(targetNode.Children) > 0 {
		dup.Children = make([]*Node, len(targetNode.Children))

		for idx, child := range targetNode.Children {
			childCopy := child.Clone()
			childCopy.Parent = dup
			dup.Children[idx] = childCopy
		}
	}

	return dup
}

// Replace puts replacement where the node currently is. The replacement
// inherits the node's field name and leading trivia. Returns false when the
// node is detached.
func (targetNode *Node) Replace(replacement *Node) bool {
	parent := targetNode.Parent
	if parent == nil {
		return false
	}

	idx := slices.Index(parent.Children, targetNode)
	if idx < 0 {
		return false
	}

	lead := targetNode.LeadingTrivia()

	if replacement.Parent != nil && replacement.Parent != parent {
		replacement.Detach()
	}

	replacement.Field = targetNode.Field
	replacement.Parent = parent
	replacement.SetLeadingTrivia(lead)
	parent.Children[idx] = replacement
	targetNode.Parent = nil

	return true
}

// Detach removes the node from its parent, leaving siblings untouched.
func (targetNode *Node) Detach() {
	parent := targetNode.Parent
	if parent == nil {
		return
	}

	if idx := slices.Index(parent.Children, targetNode); idx >= 0 {
		parent.Children = slices.Delete(parent.Children, idx, idx+1)
	}

	targetNode.Parent = nil
}

// InsertChild inserts children at position idx.
func (targetNode *Node) InsertChild(idx int, children ...*Node) {
	for _, child := range children {
		if child.Parent != nil {
			child.Detach()
		}

		child.Parent = targetNode
	}

	targetNode.Children = slices.Insert(targetNode.Children, idx, children...)
}

// AppendChild appends children at the end.
func (targetNode *Node) AppendChild(children ...*Node) {
	targetNode.InsertChild(len(targetNode.Children), children...)
}

// String renders the node as an S-expression for debugging.
func (targetNode *Node) String() string {
	var buf strings.Builder

	sexpr(&buf, targetNode)

	return buf.String()
}

func sexpr(buf *strings.Builder, targetNode *Node) {
	if targetNode.IsLeaf() {
		if targetNode.Named {
			buf.WriteString("(" + string(targetNode.Type) + " " + targetNode.Token + ")")
		} else {
			buf.WriteString(`"` + targetNode.Token + `"`)
		}

		return
	}

	buf.WriteString("(" + string(targetNode.Type))

	for _, child := range targetNode.Children {
		buf.WriteByte(' ')

		if child.Field != "" {
			buf.WriteString(child.Field + ": ")
		}

		sexpr(buf, child)
	}

	buf.WriteByte(')')
}
