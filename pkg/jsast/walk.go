package jsast

import "slices"

// Walk visits the subtree rooted at root in pre-order. Returning false from
// fn skips the children of the visited node. Children are snapshotted before
// descending, so fn may edit the tree around the node it is visiting.
func Walk(root *Node, fn func(*Node) bool) {
	if root == nil {
		return
	}

	if !fn(root) {
		return
	}

	for _, child := range slices.Clone(root.Children) {
		Walk(child, fn)
	}
}

// PostOrder visits the subtree rooted at root children-first. fn may replace
// the node it is visiting; the children of a replacement are not revisited.
func PostOrder(root *Node, fn func(*Node)) {
	if root == nil {
		return
	}

	for _, child := range slices.Clone(root.Children) {
		PostOrder(child, fn)
	}

	fn(root)
}

// Find returns every node in the subtree for which predicate holds, in
// pre-order.
func Find(root *Node, predicate func(*Node) bool) []*Node {
	var found []*Node

	Walk(root, func(targetNode *Node) bool {
		if predicate(targetNode) {
			found = append(found, targetNode)
		}

		return true
	})

	return found
}

// FindType returns every node of the given types in pre-order.
func FindType(root *Node, types ...Type) []*Node {
	return Find(root, func(targetNode *Node) bool {
		return slices.Contains(types, targetNode.Type)
	})
}

// Leaves returns the leaves of the subtree in print order.
func Leaves(root *Node) []*Node {
	return Find(root, (*Node).IsLeaf)
}

// IsFunction reports whether the node introduces a function body.
func IsFunction(targetNode *Node) bool {
	return targetNode.Is(
		TypeFunctionDeclaration, TypeFunctionExpression, TypeFunction,
		TypeGeneratorFunction, TypeGeneratorDeclaration,
		TypeArrowFunction, TypeMethodDefinition,
	)
}

// IsFunctionValue reports whether the node is a function written as an
// expression (the value side of a pair).
func IsFunctionValue(targetNode *Node) bool {
	return targetNode.Is(TypeFunctionExpression, TypeFunction, TypeGeneratorFunction, TypeArrowFunction)
}

// Unparen strips any parentheses around an expression.
func Unparen(expr *Node) *Node {
	for expr.Is(TypeParenthesized) {
		inner := expr.FirstNamedChild()
		if inner == nil {
			return expr
		}

		expr = inner
	}

	return expr
}

// CallArguments returns the argument expressions of a call or new expression.
func CallArguments(call *Node) []*Node {
	return call.ChildByField("arguments").NamedChildren()
}

// CalleeProperty returns the property name when the callee of call is a
// member expression, otherwise "".
func CalleeProperty(call *Node) string {
	callee := call.ChildByField("function")
	if !callee.Is(TypeMemberExpression) {
		return ""
	}

	return callee.ChildByField("property").Text()
}
