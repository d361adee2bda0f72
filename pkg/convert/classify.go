package convert

import (
	"strings"

	"github.com/Sumatoshi-tech/mp2vue/pkg/jsast"
)

// Classification describes where a module registers itself.
type Classification struct {
	// Statement is the top-level statement holding the registration.
	Statement *jsast.Node
	// Call is the registration call expression.
	Call *jsast.Node
	// Options is the object literal passed to Call, nil when the argument is
	// not a literal.
	Options *jsast.Node
	// Factory is the function returning the registration of a Behavior2.
	Factory       *jsast.Node
	Kind          Kind
	AlreadyTarget bool
}

// registrations lists registration functions in classification order.
//
//nolint:gochecknoglobals // Static precedence table.
var registrations = []struct {
	name string
	kind Kind
}{
	{"Page", KindPage},
	{"Component", KindComponent},
	{"VantComponent", KindVantComponent},
	{"Behavior", KindBehavior},
	{"App", KindApp},
}

// targetKeys are option names that only appear in modules already written
// for the target framework.
//
//nolint:gochecknoglobals // Static key set.
var targetKeys = []string{"data", "methods", "props", "computed", "watch", "components", "mixins"}

// webpackSignatures mark a module produced by the webpack runtime.
//
//nolint:gochecknoglobals // Static marker list.
var webpackSignatures = []string{"__webpack_require__", "webpackJsonp", "modules[moduleId].call("}

// Classify assigns a Kind to a parsed module. It is a pure function of the
// tree: every tree maps to exactly one kind.
func Classify(root *jsast.Node, scriptOnly bool) Classification {
	statements := root.NamedChildren()

	if alreadyTarget(statements) {
		return Classification{Kind: KindPlainScript, AlreadyTarget: true}
	}

	for _, reg := range registrations {
		for _, stmt := range statements {
			if call := findRegistration(stmt, reg.name); call != nil {
				found := newClassification(stmt, call, reg.kind)
				if found.Kind == KindPage && scriptOnly {
					return Classification{Kind: KindPlainScript}
				}

				return found
			}

			if reg.kind != KindBehavior {
				continue
			}

			if factory, call := findFactoryRegistration(stmt, reg.name); call != nil {
				found := newClassification(stmt, call, KindBehavior2)
				found.Factory = factory

				return found
			}
		}
	}

	if isWebpackBundle(jsast.Print(root)) {
		return Classification{Kind: KindWebpack}
	}

	return Classification{Kind: KindPlainScript}
}

func newClassification(stmt, call *jsast.Node, kind Kind) Classification {
	found := Classification{Statement: stmt, Call: call, Kind: kind}

	if args := jsast.CallArguments(call); len(args) > 0 {
		if obj := jsast.Unparen(args[0]); obj.Is(jsast.TypeObject) {
			found.Options = obj
		}
	}

	return found
}

func alreadyTarget(statements []*jsast.Node) bool {
	for _, stmt := range statements {
		if !stmt.Is(jsast.TypeExportStatement) {
			continue
		}

		value := stmt.ChildByField("value")
		if value == nil || !jsast.Unparen(value).Is(jsast.TypeObject) {
			continue
		}

		for _, key := range targetKeys {
			if jsast.FindEntry(jsast.Unparen(value), key) != nil {
				return true
			}
		}
	}

	return false
}

func isWebpackBundle(text string) bool {
	for _, marker := range webpackSignatures {
		if strings.Contains(text, marker) {
			return true
		}
	}

	return false
}

// findRegistration returns the call name(...) carried by a top-level
// statement, looking through exports, assignments and declarations.
func findRegistration(stmt *jsast.Node, name string) *jsast.Node {
	for _, expr := range statementExpressions(stmt) {
		if isCallTo(expr, name) {
			return expr
		}
	}

	return nil
}

// findFactoryRegistration finds `function (...) { return name(...) }` shapes.
func findFactoryRegistration(stmt *jsast.Node, name string) (factory, call *jsast.Node) {
	candidates := statementExpressions(stmt)

	switch {
	case stmt.Is(jsast.TypeFunctionDeclaration):
		candidates = append(candidates, stmt)
	case stmt.Is(jsast.TypeExportStatement):
		if decl := stmt.ChildByField("declaration"); decl.Is(jsast.TypeFunctionDeclaration) {
			candidates = append(candidates, decl)
		}
	}

	for _, fn := range candidates {
		if !jsast.IsFunction(fn) {
			continue
		}

		if found := returnedCall(fn, name); found != nil {
			return fn, found
		}
	}

	return nil, nil
}

func returnedCall(fn *jsast.Node, name string) *jsast.Node {
	body := fn.ChildByField("body")
	if body == nil {
		return nil
	}

	if !body.Is(jsast.TypeStatementBlock) {
		if expr := jsast.Unparen(body); isCallTo(expr, name) {
			return expr
		}

		return nil
	}

	for _, stmt := range body.NamedChildren() {
		if !stmt.Is(jsast.TypeReturnStatement) {
			continue
		}

		if arg := stmt.FirstNamedChild(); arg != nil && isCallTo(jsast.Unparen(arg), name) {
			return jsast.Unparen(arg)
		}
	}

	return nil
}

// statementExpressions lists the expressions a top-level statement evaluates
// at module level: the statement expression, exported values, assignment
// right-hand sides and declarator initialisers.
func statementExpressions(stmt *jsast.Node) []*jsast.Node {
	var exprs []*jsast.Node

	switch stmt.Type {
	case jsast.TypeExpressionStatement:
		exprs = expandExpression(stmt.FirstNamedChild())
	case jsast.TypeExportStatement:
		if value := stmt.ChildByField("value"); value != nil {
			exprs = expandExpression(value)
		}

		if decl := stmt.ChildByField("declaration"); decl != nil {
			exprs = append(exprs, declaratorValues(decl)...)
		}
	case jsast.TypeLexicalDeclaration, jsast.TypeVariableDeclaration:
		exprs = declaratorValues(stmt)
	}

	return exprs
}

func declaratorValues(decl *jsast.Node) []*jsast.Node {
	if !decl.Is(jsast.TypeLexicalDeclaration, jsast.TypeVariableDeclaration) {
		return nil
	}

	var exprs []*jsast.Node

	for _, declarator := range decl.NamedChildren() {
		if value := declarator.ChildByField("value"); value != nil {
			exprs = append(exprs, expandExpression(value)...)
		}
	}

	return exprs
}

func expandExpression(expr *jsast.Node) []*jsast.Node {
	if expr == nil {
		return nil
	}

	expr = jsast.Unparen(expr)
	exprs := []*jsast.Node{expr}

	switch expr.Type {
	case jsast.TypeAssignmentExpression:
		exprs = append(exprs, expandExpression(expr.ChildByField("right"))...)
	case "sequence_expression":
		for _, part := range expr.NamedChildren() {
			exprs = append(exprs, expandExpression(part)...)
		}
	}

	return exprs
}

func isCallTo(expr *jsast.Node, name string) bool {
	if !expr.Is(jsast.TypeCallExpression) {
		return false
	}

	callee := expr.ChildByField("function")

	return callee.Is(jsast.TypeIdentifier) && callee.Token == name
}
