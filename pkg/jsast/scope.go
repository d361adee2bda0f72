package jsast

// BindingKind classifies how a name was introduced.
type BindingKind int

// Binding kinds.
const (
	BindVar BindingKind = iota
	BindLet
	BindConst
	BindParam
	BindFunction
	BindClass
	BindImport
	BindCatch
)

// Binding is one declared name.
type Binding struct {
	// Ident is the declaring identifier node.
	Ident *Node
	// Init is the initializer of a variable declarator, nil otherwise.
	Init  *Node
	Scope *Scope
	Name  string
	Kind  BindingKind
}

// InitializedWithThis reports whether the binding is a `this` alias such as
// `const that = this`.
func (binding *Binding) InitializedWithThis() bool {
	return binding != nil && binding.Init != nil && Unparen(binding.Init).Is(TypeThis)
}

// Scope is a lexical scope attached to a function, block or program node.
type Scope struct {
	Node     *Node
	Parent   *Scope
	bindings map[string]*Binding
	order    []*Binding
}

// Bindings returns the scope's bindings in declaration order.
func (scope *Scope) Bindings() []*Binding {
	return scope.order
}

// Lookup returns the binding declared directly in this scope.
func (scope *Scope) Lookup(name string) *Binding {
	return scope.bindings[name]
}

func (scope *Scope) declare(binding *Binding) {
	if _, exists := scope.bindings[binding.Name]; exists {
		return
	}

	binding.Scope = scope
	scope.bindings[binding.Name] = binding
	scope.order = append(scope.order, binding)
}

// Scopes is the result of scope analysis over a tree. It stays valid while
// the analysed nodes keep their ancestry; re-run Analyze after moving
// declarations around.
type Scopes struct {
	byNode map[*Node]*Scope
}

// Analyze collects every binding declared in the subtree rooted at root.
func Analyze(root *Node) *Scopes {
	scopes := &Scopes{byNode: make(map[*Node]*Scope)}

	Walk(root, func(targetNode *Node) bool {
		scopes.collect(targetNode)

		return true
	})

	return scopes
}

// Resolve returns the binding a reference resolves to, or nil for free names.
func (scopes *Scopes) Resolve(ref *Node) *Binding {
	if ref == nil {
		return nil
	}

	return scopes.Lookup(ref, ref.Token)
}

// Lookup returns the binding of name visible at node at.
func (scopes *Scopes) Lookup(at *Node, name string) *Binding {
	for cur := at; cur != nil; cur = cur.Parent {
		scope, ok := scopes.byNode[cur]
		if !ok {
			continue
		}

		if binding := scope.bindings[name]; binding != nil {
			return binding
		}
	}

	return nil
}

// Visible returns the bindings visible at node at, innermost scope first.
func (scopes *Scopes) Visible(at *Node) []*Binding {
	var visible []*Binding

	seen := make(map[string]bool)

	for cur := at; cur != nil; cur = cur.Parent {
		scope, ok := scopes.byNode[cur]
		if !ok {
			continue
		}

		for _, binding := range scope.order {
			if seen[binding.Name] {
				continue
			}

			seen[binding.Name] = true
			visible = append(visible, binding)
		}
	}

	return visible
}

// ScopeOf returns the innermost scope enclosing the node.
func (scopes *Scopes) ScopeOf(targetNode *Node) *Scope {
	for cur := targetNode; cur != nil; cur = cur.Parent {
		if scope, ok := scopes.byNode[cur]; ok {
			return scope
		}
	}

	return nil
}

// All returns every scope that holds at least one binding.
func (scopes *Scopes) All() []*Scope {
	all := make([]*Scope, 0, len(scopes.byNode))

	for _, scope := range scopes.byNode {
		if len(scope.order) > 0 {
			all = append(all, scope)
		}
	}

	return all
}

// IsThisLike reports whether expr evaluates to the receiver: `this` itself or
// an identifier whose visible binding was initialised with `this`.
func (scopes *Scopes) IsThisLike(expr *Node) bool {
	if expr == nil {
		return false
	}

	expr = Unparen(expr)

	switch expr.Type {
	case TypeThis:
		return true
	case TypeIdentifier:
		return scopes.Resolve(expr).InitializedWithThis()
	default:
		return false
	}
}

// ThisAlias returns the nearest visible `this` alias name at node at, or "".
func (scopes *Scopes) ThisAlias(at *Node) string {
	for _, binding := range scopes.Visible(at) {
		if binding.InitializedWithThis() {
			return binding.Name
		}
	}

	return ""
}

func (scopes *Scopes) scopeFor(owner *Node) *Scope {
	if scope, ok := scopes.byNode[owner]; ok {
		return scope
	}

	scope := &Scope{Node: owner, bindings: make(map[string]*Binding)}

	for cur := owner.Parent; cur != nil; cur = cur.Parent {
		if createsScope(cur) {
			scope.Parent = scopes.scopeFor(cur)

			break
		}
	}

	scopes.byNode[owner] = scope

	return scope
}

func createsScope(targetNode *Node) bool {
	return targetNode.Parent == nil || IsFunction(targetNode) || isBlock(targetNode)
}

func isBlock(targetNode *Node) bool {
	return targetNode.Is(TypeProgram, TypeStatementBlock, TypeForStatement, TypeForInStatement,
		TypeCatchClause, TypeSwitchBody)
}

// enclosing returns the scope owner above the node that satisfies accept;
// the root always qualifies.
func enclosing(targetNode *Node, accept func(*Node) bool) *Node {
	cur := targetNode.Parent
	for cur != nil {
		if cur.Parent == nil || accept(cur) {
			return cur
		}

		cur = cur.Parent
	}

	return targetNode
}

func isVarOwner(targetNode *Node) bool {
	return IsFunction(targetNode) || targetNode.Is(TypeProgram)
}

func isBlockOwner(targetNode *Node) bool {
	return IsFunction(targetNode) || isBlock(targetNode)
}

func (scopes *Scopes) collect(targetNode *Node) {
	switch targetNode.Type {
	case TypeVariableDeclarator:
		scopes.collectDeclarator(targetNode)
	case TypeFormalParameters:
		if owner := targetNode.Parent; owner != nil {
			scope := scopes.scopeFor(owner)
			for _, param := range targetNode.NamedChildren() {
				scopes.bindPattern(scope, param, BindParam, nil)
			}
		}
	case TypeArrowFunction:
		if param := targetNode.ChildByField("parameter"); param != nil {
			scopes.bindPattern(scopes.scopeFor(targetNode), param, BindParam, nil)
		}
	case TypeFunctionDeclaration, TypeGeneratorDeclaration, TypeClassDeclaration:
		if name := targetNode.ChildByField("name"); name != nil {
			kind := BindFunction
			if targetNode.Type == TypeClassDeclaration {
				kind = BindClass
			}

			scope := scopes.scopeFor(enclosing(targetNode, isBlockOwner))
			scope.declare(&Binding{Name: name.Token, Ident: name, Kind: kind})
		}
	case TypeFunctionExpression, TypeFunction, TypeGeneratorFunction:
		if name := targetNode.ChildByField("name"); name != nil {
			scopes.scopeFor(targetNode).declare(&Binding{Name: name.Token, Ident: name, Kind: BindFunction})
		}
	case TypeCatchClause:
		if param := targetNode.ChildByField("parameter"); param != nil {
			scopes.bindPattern(scopes.scopeFor(targetNode), param, BindCatch, nil)
		}
	case TypeForInStatement:
		if left := targetNode.ChildByField("left"); left != nil {
			switch {
			case targetNode.HasToken("var"):
				scopes.bindPattern(scopes.scopeFor(enclosing(targetNode, isVarOwner)), left, BindVar, nil)
			case targetNode.HasToken("let"), targetNode.HasToken("const"):
				scopes.bindPattern(scopes.scopeFor(targetNode), left, BindLet, nil)
			}
		}
	case TypeImportStatement:
		scopes.collectImport(targetNode)
	}
}

func (scopes *Scopes) collectDeclarator(declarator *Node) {
	decl := declarator.Parent
	if decl == nil {
		return
	}

	name := declarator.ChildByField("name")
	value := declarator.ChildByField("value")

	switch {
	case decl.Is(TypeVariableDeclaration):
		scopes.bindPattern(scopes.scopeFor(enclosing(decl, isVarOwner)), name, BindVar, value)
	case decl.HasToken("const"):
		scopes.bindPattern(scopes.scopeFor(enclosing(decl, isBlockOwner)), name, BindConst, value)
	default:
		scopes.bindPattern(scopes.scopeFor(enclosing(decl, isBlockOwner)), name, BindLet, value)
	}
}

func (scopes *Scopes) collectImport(stmt *Node) {
	Walk(stmt, func(targetNode *Node) bool {
		switch targetNode.Type {
		case "import_specifier":
			name := targetNode.ChildByField("alias")
			if name == nil {
				name = targetNode.ChildByField("name")
			}

			scopes.bindImport(stmt, name)

			return false
		case "namespace_import", "import_clause":
			for _, child := range targetNode.NamedChildren() {
				if child.Is(TypeIdentifier) {
					scopes.bindImport(stmt, child)
				}
			}
		}

		return true
	})
}

func (scopes *Scopes) bindImport(stmt, name *Node) {
	if name == nil {
		return
	}

	scope := scopes.scopeFor(enclosing(stmt, isVarOwner))
	scope.declare(&Binding{Name: name.Text(), Ident: name, Kind: BindImport})
}

func (scopes *Scopes) bindPattern(scope *Scope, pattern *Node, kind BindingKind, init *Node) {
	if pattern == nil {
		return
	}

	switch pattern.Type {
	case TypeIdentifier, TypeShorthandPattern:
		scope.declare(&Binding{Name: pattern.Token, Ident: pattern, Kind: kind, Init: init})
	case TypeObjectPattern, TypeArrayPattern:
		for _, child := range pattern.NamedChildren() {
			scopes.bindPattern(scope, child, kind, nil)
		}
	case TypePairPattern:
		scopes.bindPattern(scope, pattern.ChildByField("value"), kind, nil)
	case TypeAssignmentPattern, TypeObjectAssignPattern:
		scopes.bindPattern(scope, pattern.ChildByField("left"), kind, nil)
	case TypeRestPattern:
		scopes.bindPattern(scope, pattern.FirstNamedChild(), kind, nil)
	}
}
