package jsast

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/alexaandru/go-sitter-forest/javascript"
	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/Sumatoshi-tech/mp2vue/pkg/safeconv"
)

// Sentinel errors for parsing.
var (
	// ErrSyntax reports source the grammar could not parse without recovery.
	ErrSyntax = errors.New("syntax error")

	// ErrSnippet reports a construction snippet that did not produce the expected node.
	ErrSnippet = errors.New("unexpected snippet shape")

	errNoRootNode = errors.New("jsast: no root node")
	errPoolType   = errors.New("jsast: pool returned unexpected type")
)

// fieldNames lists, per parent type, the grammar fields worth recording on
// children. Fields not listed here are left blank.
//
//nolint:gochecknoglobals // Static grammar table.
var fieldNames = map[string][]string{
	"call_expression":                 {"function", "arguments"},
	"new_expression":                  {"constructor", "arguments"},
	"member_expression":               {"object", "property"},
	"subscript_expression":            {"object", "index"},
	"pair":                            {"key", "value"},
	"pair_pattern":                    {"key", "value"},
	"method_definition":               {"name", "parameters", "body"},
	"function_expression":             {"name", "parameters", "body"},
	"function":                        {"name", "parameters", "body"},
	"generator_function":              {"name", "parameters", "body"},
	"function_declaration":            {"name", "parameters", "body"},
	"generator_function_declaration":  {"name", "parameters", "body"},
	"arrow_function":                  {"parameter", "parameters", "body"},
	"class_declaration":               {"name", "body"},
	"class":                           {"name", "body"},
	"variable_declarator":             {"name", "value"},
	"assignment_expression":           {"left", "right"},
	"augmented_assignment_expression": {"left", "right"},
	"assignment_pattern":              {"left", "right"},
	"object_assignment_pattern":       {"left", "right"},
	"update_expression":               {"argument"},
	"unary_expression":                {"argument"},
	"binary_expression":               {"left", "right"},
	"ternary_expression":              {"condition", "consequence", "alternative"},
	"export_statement":                {"declaration", "value", "source"},
	"import_statement":                {"source"},
	"import_specifier":                {"name", "alias"},
	"for_in_statement":                {"left", "right", "body"},
	"catch_clause":                    {"parameter", "body"},
	"if_statement":                    {"condition", "consequence", "alternative"},
}

// Parser converts JavaScript source into lossless trees. It is safe for
// concurrent use: tree-sitter parsers are pooled per instance.
type Parser struct {
	pool sync.Pool
}

// NewParser creates a Parser for the JavaScript grammar.
func NewParser() *Parser {
	lang := sitter.NewLanguage(javascript.GetLanguage())

	return &Parser{
		pool: sync.Pool{
			New: func() any {
				tsParser := sitter.NewParser()
				tsParser.SetLanguage(lang)

				return tsParser
			},
		},
	}
}

// defaultParser backs the package-level snippet helpers.
//
//nolint:gochecknoglobals // Lazily built shared parser.
var defaultParser = sync.OnceValue(NewParser)

// Parse parses source into a tree rooted at a program node. Source that only
// parses with error recovery yields ErrSyntax with the first error position.
func (parser *Parser) Parse(ctx context.Context, source []byte) (*Node, error) {
	tsParser, ok := parser.pool.Get().(*sitter.Parser)
	if !ok {
		return nil, errPoolType
	}

	defer parser.pool.Put(tsParser)

	tree, err := tsParser.ParseString(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("jsast: failed to parse: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.IsNull() {
		return nil, errNoRootNode
	}

	if root.HasError() {
		return nil, syntaxError(root)
	}

	conv := &converter{source: source}
	program := conv.convert(root, "")
	program.Trail = string(source[conv.last:])

	return program, nil
}

func syntaxError(root sitter.Node) error {
	bad := firstError(root)
	if bad.IsNull() {
		return ErrSyntax
	}

	point := bad.StartPoint()

	return fmt.Errorf("%w at line %d, column %d", ErrSyntax, point.Row+1, point.Column+1)
}

func firstError(tsNode sitter.Node) sitter.Node {
	if tsNode.Type() == string(TypeError) || tsNode.IsMissing() {
		return tsNode
	}

	for idx := range tsNode.ChildCount() {
		child := tsNode.Child(idx)
		if !child.HasError() && !child.IsMissing() {
			continue
		}

		if found := firstError(child); !found.IsNull() {
			return found
		}
	}

	var none sitter.Node

	return none
}

type span struct {
	start, end uint
	typ        string
}

type converter struct {
	source []byte
	last   int
}

func (conv *converter) convert(tsNode sitter.Node, field string) *Node {
	result := &Node{
		Type:  Type(tsNode.Type()),
		Field: field,
		Named: tsNode.IsNamed(),
	}

	start := safeconv.MustUintToInt(tsNode.StartByte())
	end := safeconv.MustUintToInt(tsNode.EndByte())

	if tsNode.ChildCount() == 0 {
		result.Lead = string(conv.source[conv.last:start])
		result.Token = string(conv.source[start:end])
		conv.last = end

		return result
	}

	fields := conv.fieldsOf(tsNode)

	for idx := range tsNode.ChildCount() {
		child := tsNode.Child(idx)
		if child.Type() == string(TypeComment) {
			continue
		}

		key := span{start: child.StartByte(), end: child.EndByte(), typ: child.Type()}
		converted := conv.convert(child, fields[key])
		converted.Parent = result
		result.Children = append(result.Children, converted)
	}

	// A node whose only children were comments still has to print its text.
	if len(result.Children) == 0 {
		result.Lead = string(conv.source[conv.last:start])
		result.Token = string(conv.source[start:end])
		conv.last = end
	}

	return result
}

func (conv *converter) fieldsOf(tsNode sitter.Node) map[span]string {
	names, ok := fieldNames[tsNode.Type()]
	if !ok {
		return nil
	}

	fields := make(map[span]string, len(names))

	for _, name := range names {
		child := tsNode.ChildByFieldName(name)
		if child.IsNull() {
			continue
		}

		fields[span{start: child.StartByte(), end: child.EndByte(), typ: child.Type()}] = name
	}

	return fields
}
