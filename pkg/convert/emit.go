package convert

import "github.com/Sumatoshi-tech/mp2vue/pkg/jsast"

// emit renders the module tree. A function expression used directly as a
// callee is parenthesised, otherwise `function () {}()` would not parse.
func emit(root *jsast.Node) string {
	for _, call := range jsast.FindType(root, jsast.TypeCallExpression) {
		callee := call.ChildByField("function")
		if !jsast.IsFunctionValue(callee) {
			continue
		}

		wrapped := jsast.MustExpression("(__callee__)")
		callee.Replace(wrapped)
		jsast.Substitute(wrapped, "__callee__", callee)
	}

	return jsast.Print(root)
}
