package convert

import (
	"regexp"
	"strings"

	"github.com/Sumatoshi-tech/mp2vue/pkg/diag"
	"github.com/Sumatoshi-tech/mp2vue/pkg/jsast"
)

//nolint:gochecknoglobals // Compiled once.
var (
	assetLiteral     = regexp.MustCompile(`(?i)^(/|\.+/).*?\.(jpe?g|gif|svg|png|mp3)$`)
	bindPrefix       = regexp.MustCompile(`(\w+)\.`)
	expressionMarker = regexp.MustCompile(`['"+\[\]]`)
)

const escapeMethod = `escape2Html(str) {
  const entities = { lt: '<', gt: '>', nbsp: ' ', amp: '&', quot: '"' }
  return String(str).replace(/&(lt|gt|nbsp|amp|quot);/gi, function (all, name) {
    return entities[name]
  })
}`

// repair runs the reference repair passes over the instantiated module.
func (u *unit) repair() {
	u.resolveLifecycle()
	u.scopes = jsast.Analyze(u.root)

	if u.opts.RewriteAssetPaths && u.opts.ResolveAsset != nil {
		u.rewriteAssets()
	}

	for _, call := range jsast.FindType(u.root, jsast.TypeCallExpression) {
		if call.Root() == u.root {
			u.repairCall(call)
		}
	}

	for _, member := range postOrderMembers(u.root) {
		if member.Root() == u.root {
			u.repairMember(member)
		}
	}
}

// resolveLifecycle inserts the lifecycle entries at the sentinel and
// removes it.
func (u *unit) resolveLifecycle() {
	sentinel := u.inst.sentinel
	if sentinel == nil {
		return
	}

	obj := sentinel.Parent
	for _, field := range u.groups.Lifecycle.Fields() {
		jsast.InsertEntryBefore(obj, sentinel, field.Node)
	}

	jsast.RemoveEntry(sentinel)
	u.inst.sentinel = nil
}

func (u *unit) rewriteAssets() {
	dir := u.in.Dir()

	for _, str := range jsast.FindType(u.root, jsast.TypeString) {
		value := jsast.StringValue(str)
		if !assetLiteral.MatchString(value) {
			continue
		}

		if rewritten := u.opts.ResolveAsset(value, u.opts.ProjectRoot, dir); rewritten != value {
			jsast.SetStringValue(str, rewritten)
		}
	}
}

func (u *unit) repairCall(call *jsast.Node) {
	callee := call.ChildByField("function")

	if callee.Is(jsast.TypeIdentifier) {
		if callee.Token == "requirePlugin" {
			u.bag.Warn(diag.CodeUnsupportedAPI, "requirePlugin has no equivalent outside the original platform; manual fix required")
		}

		return
	}

	if !callee.Is(jsast.TypeMemberExpression) {
		return
	}

	object := jsast.Unparen(callee.ChildByField("object"))
	property := callee.ChildByField("property")

	switch property.Text() {
	case "createWorker":
		if u.isPlatformObject(object) {
			u.rewriteWorkerPath(call)
		}
	case "requestPayment":
		if u.isPlatformObject(object) {
			u.stats.PaymentCalls++
		}
	case "triggerEvent":
		if u.scopes.IsThisLike(object) {
			rewriteTriggerEvent(call, property)
		}
	case "wxParse":
		u.rewriteWxParse(call)
	}
}

func (u *unit) isPlatformObject(object *jsast.Node) bool {
	if !object.Is(jsast.TypeIdentifier) {
		return false
	}

	return object.Token == u.opts.platform() || object.Token == targetKeyword
}

func (u *unit) rewriteWorkerPath(call *jsast.Node) {
	args := jsast.CallArguments(call)
	if len(args) == 0 || !args[0].Is(jsast.TypeString) {
		return
	}

	jsast.SetStringValue(args[0], "./static/"+jsast.StringValue(args[0]))
}

// rewriteTriggerEvent turns triggerEvent(name) into $emit(name) and
// triggerEvent(name, payload) into $emit(name, {detail: payload}). Other
// arities are left alone.
func rewriteTriggerEvent(call, property *jsast.Node) {
	args := jsast.CallArguments(call)

	switch len(args) {
	case 1:
		property.Token = "$emit"
	case 2: //nolint:mnd // name and payload.
		property.Token = "$emit"

		payload := args[1]
		wrapper := jsast.MustExpression("{detail: __payload__}")
		payload.Replace(wrapper)
		jsast.Substitute(wrapper, "__payload__", payload)
	}
}

// rewriteWxParse replaces a rich-text parse call with a decoded assignment
// (static bind name) or a setData call (computed bind name). The original
// call is kept as a trailing comment.
func (u *unit) rewriteWxParse(call *jsast.Node) {
	args := jsast.CallArguments(call)
	if len(args) < 2 { //nolint:mnd // bind name and type.
		return
	}

	original := call.Text()
	target := "this"

	if len(args) > 3 { //nolint:mnd // target is the fourth argument.
		target = args[3].Text()
	}

	var data *jsast.Node
	if len(args) > 2 { //nolint:mnd // data is the third argument.
		data = args[2]
	} else {
		data = jsast.NewIdentifier("undefined")
	}

	var replacement *jsast.Node

	if bind := jsast.Unparen(args[0]); bind.Is(jsast.TypeString) {
		name := "article_" + jsast.StringValue(bind)
		if jsast.StringValue(bind) == "article" {
			name = "article"
		}

		access := target + "." + name
		if !jsast.IsIdentifierName(name) {
			access = target + "[" + jsast.Quote(name) + "]"
		}

		replacement = jsast.MustExpression(access + " = " + target + ".escape2Html(__data__)")
		u.injectData(name, "''")
		u.injectEscapeMethod()
	} else {
		bindText := bind.Text()
		replacement = jsast.MustExpression(target + ".setData({ [" + bindText + "]: __data__ })")
		u.bag.Error(diag.CodeUnresolvedReference,
			"rich text bound to the computed name %s was rewritten to setData; manual fix required", bindText)

		if !expressionMarker.MatchString(bindText) {
			if match := bindPrefix.FindStringSubmatch(bindText); match != nil && jsast.IsIdentifierName(match[1]) {
				u.injectData(match[1], "{}")
			}
		}
	}

	call.Replace(replacement)
	jsast.Substitute(replacement, "__data__", data)

	replacement.Trail = " /* " + strings.ReplaceAll(original, "*/", "* /") + " */"
}

func (u *unit) injectData(name, zero string) {
	if u.inst.data == nil || u.symbols.DataNames.Has(name) {
		return
	}

	entry := jsast.MustEntry(keyLiteral(name) + ": " + zero)
	jsast.AppendEntry(u.inst.data, entry)
	u.groups.Data.Add(Field{Name: name, Node: entry})
	u.symbols.DataNames.Add(name)
}

func (u *unit) injectEscapeMethod() {
	if u.inst.methods == nil || u.groups.Methods.Has("escape2Html") {
		return
	}

	entry := jsast.MustEntry(escapeMethod)
	jsast.AppendEntry(u.inst.methods, entry)
	u.groups.Methods.Add(Field{Name: "escape2Html", Node: entry})
}

func (u *unit) repairMember(member *jsast.Node) {
	object := member.ChildByField("object")
	property := member.ChildByField("property")

	if object == nil || !property.Is(jsast.TypePropertyIdentifier) {
		return
	}

	name := property.Token

	switch {
	case name == "data" && u.scopes.IsThisLike(object):
		flattenData(member, object)
	case name == "properties" && u.scopes.IsThisLike(object):
		u.flattenProperties(member, object)
	case name == "__route__":
		property.Token = "route"
	case u.class.Kind == KindApp:
		u.relinkAppAccessor(member, object, name)
	default:
		u.redirectAlias(member, object, property)
		u.routeGlobalData(member, object, name)
	}
}

// flattenData rewrites this.data.x to this.x and a bare this.data to this.
// The assignment target `this.data = v` is left alone.
func flattenData(member, object *jsast.Node) {
	parent := member.Parent

	switch {
	case parent.Is(jsast.TypeMemberExpression, jsast.TypeSubscriptExpression) && member.Field == "object":
	case parent.Is(jsast.TypeAssignmentExpression, jsast.TypeAugmentedAssignment) && member.Field == "left":
		return
	case parent.Is(jsast.TypeUpdateExpression):
		return
	}

	member.Replace(object)
}

// flattenProperties rewrites this.properties.x for known props and the
// destructuring `const {a, b} = this.properties`.
func (u *unit) flattenProperties(member, object *jsast.Node) {
	parent := member.Parent

	switch {
	case parent.Is(jsast.TypeMemberExpression) && member.Field == "object":
		if prop := parent.ChildByField("property"); prop == nil || !u.symbols.PropNames.Has(prop.Text()) {
			return
		}
	case parent.Is(jsast.TypeVariableDeclarator) && member.Field == "value":
		if !u.knownPropsPattern(parent.ChildByField("name")) {
			return
		}
	default:
		return
	}

	member.Replace(object)
}

func (u *unit) knownPropsPattern(pattern *jsast.Node) bool {
	if pattern.Is(jsast.TypeIdentifier) {
		return true
	}

	if !pattern.Is(jsast.TypeObjectPattern) {
		return false
	}

	for _, item := range pattern.NamedChildren() {
		if item.Is(jsast.TypeObjectAssignPattern) {
			item = item.ChildByField("left")
		}

		if !u.symbols.PropNames.Has(jsast.PropertyName(item)) {
			return false
		}
	}

	return true
}

// relinkAppAccessor rewrites getApp().m inside the App module to use the
// nearest this alias, or this.
func (u *unit) relinkAppAccessor(member, object *jsast.Node, name string) {
	if name == "globalData" || !isCallTo(jsast.Unparen(object), "getApp") {
		return
	}

	receiver := jsast.NewThis()
	if alias := u.scopes.ThisAlias(member); alias != "" {
		receiver = jsast.NewIdentifier(alias)
	}

	object.Replace(receiver)
}

// redirectAlias points references of a renamed method at its alias. Names
// renamed for colliding with data are redirected at call sites only.
func (u *unit) redirectAlias(member, object, property *jsast.Node) {
	alias, ok := u.symbols.MethodAlias[property.Token]
	if !ok || !u.scopes.IsThisLike(object) {
		return
	}

	if member.Parent.Is(jsast.TypeAssignmentExpression) && member.Field == "left" {
		return
	}

	isCallee := member.Parent.Is(jsast.TypeCallExpression) && member.Field == "function"
	if !isCallee && !u.symbols.aliasAllReads.Has(property.Token) {
		return
	}

	property.Token = alias
}

// routeGlobalData sends members read through getApp() to globalData, where
// the App module keeps them after conversion.
func (u *unit) routeGlobalData(member, object *jsast.Node, name string) {
	if name == "globalData" || !u.isAppAccessor(object) {
		return
	}

	app, ok := u.appEntry()

	switch {
	case ok && !app.GlobalMember(name):
		return
	case !ok && appHooks.Has(name):
		return
	}

	jsast.WrapMember(object, "globalData")
}

func (u *unit) appEntry() (RegistryEntry, bool) {
	if u.reg != nil {
		if app, ok := u.reg.App(); ok {
			return app, true
		}
	}

	if !u.missingAppNoted {
		u.missingAppNoted = true
		u.bag.Info(diag.CodeUnresolvedReference, "app module not available, getApp() members routed to globalData without checking")
	}

	return RegistryEntry{}, false
}

// isAppAccessor reports whether expr is getApp() or a local bound to it.
func (u *unit) isAppAccessor(expr *jsast.Node) bool {
	expr = jsast.Unparen(expr)

	if isCallTo(expr, "getApp") {
		return true
	}

	if !expr.Is(jsast.TypeIdentifier) || !u.symbols.GlobalAppAliases.Has(expr.Token) {
		return false
	}

	binding := u.scopes.Resolve(expr)

	return binding != nil && binding.Init != nil && isCallTo(jsast.Unparen(binding.Init), "getApp")
}
