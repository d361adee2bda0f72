package convert

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Sumatoshi-tech/mp2vue/pkg/diag"
	"github.com/Sumatoshi-tech/mp2vue/pkg/jsast"
)

// lifecycleSentinel marks where lifecycle entries are inserted. It is long
// enough not to clash with real option names.
const lifecycleSentinel = "life_cycle_flag_375890534"

var errNoSkeleton = errors.New("no skeleton for kind")

const componentSkeleton = `export default {
  data() {
    return DATA
  },
  components: {},
  props: PROPS,
  watch: WATCH,
  computed: COMPUTED,
  life_cycle_flag_375890534: LIFECYCLE,
  methods: METHODS
}`

const behaviorSkeleton = `module.exports = {
  data() {
    return DATA
  },
  props: PROPS,
  watch: WATCH,
  computed: COMPUTED,
  life_cycle_flag_375890534: LIFECYCLE,
  methods: METHODS
}`

const behaviorFactorySkeleton = `export default function (PARAMS) {
  return {
    data() {
      return DATA
    },
    props: PROPS,
    watch: WATCH,
    computed: COMPUTED,
    life_cycle_flag_375890534: LIFECYCLE,
    methods: METHODS
  }
}`

const appSkeleton = `export default {
  life_cycle_flag_375890534: LIFECYCLE,
  methods: METHODS
}`

// skeletons parses each skeleton once; instantiation clones the result.
//
//nolint:gochecknoglobals // Parsed-once constant trees.
var skeletons = map[Kind]func() (*jsast.Node, error){
	KindPage:          sync.OnceValues(func() (*jsast.Node, error) { return jsast.Program(componentSkeleton) }),
	KindComponent:     sync.OnceValues(func() (*jsast.Node, error) { return jsast.Program(componentSkeleton) }),
	KindVantComponent: sync.OnceValues(func() (*jsast.Node, error) { return jsast.Program(componentSkeleton) }),
	KindBehavior:      sync.OnceValues(func() (*jsast.Node, error) { return jsast.Program(behaviorSkeleton) }),
	KindBehavior2:     sync.OnceValues(func() (*jsast.Node, error) { return jsast.Program(behaviorFactorySkeleton) }),
	KindApp:           sync.OnceValues(func() (*jsast.Node, error) { return jsast.Program(appSkeleton) }),
}

// instance is an instantiated skeleton spliced into the module tree.
type instance struct {
	statement  *jsast.Node
	data       *jsast.Node
	methods    *jsast.Node
	components *jsast.Node
	sentinel   *jsast.Node
}

// instantiate replaces the registration statement with the kind skeleton,
// filling every hole with its field group.
func (u *unit) instantiate() error {
	build, ok := skeletons[u.class.Kind]
	if !ok {
		return fmt.Errorf("%w: %s", errNoSkeleton, u.class.Kind)
	}

	tmpl, err := build()
	if err != nil {
		return fmt.Errorf("skeleton %s: %w", u.class.Kind, err)
	}

	program := tmpl.Clone()
	inst := &instance{}

	inst.data = fillHole(program, "DATA", u.groups.Data)
	inst.methods = fillHole(program, "METHODS", u.groups.Methods)
	fillHole(program, "PROPS", u.groups.Props)
	fillOptionalHole(program, "WATCH", u.groups.Watch)
	fillOptionalHole(program, "COMPUTED", u.groups.Computed)

	if sentinel := findHole(program, "LIFECYCLE"); sentinel != nil {
		inst.sentinel = sentinel.Parent
	}

	if u.class.Kind == KindBehavior2 {
		u.fillParams(program)
	}

	stmt := program.FirstNamedChild()
	if obj := jsast.FindType(stmt, jsast.TypeObject); len(obj) > 0 {
		inst.components = jsast.EntryValue(jsast.FindEntry(obj[0], "components"))
	}

	stmt.Detach()
	u.class.Statement.Replace(stmt)
	inst.statement = stmt

	u.inst = inst
	u.fillComponents()

	return nil
}

func findHole(root *jsast.Node, hole string) *jsast.Node {
	found := jsast.Find(root, func(n *jsast.Node) bool {
		return n.Is(jsast.TypeIdentifier) && n.Token == hole
	})
	if len(found) == 0 {
		return nil
	}

	return found[0]
}

func fillHole(root *jsast.Node, hole string, group *FieldGroup) *jsast.Node {
	ident := findHole(root, hole)
	if ident == nil {
		return nil
	}

	obj := jsast.NewObject(group.Nodes(), jsast.LineIndent(ident))
	ident.Replace(obj)

	return obj
}

// fillOptionalHole drops the whole option when the group is empty: the
// target framework rejects empty watch and computed objects.
func fillOptionalHole(root *jsast.Node, hole string, group *FieldGroup) {
	if group.Len() > 0 {
		fillHole(root, hole, group)

		return
	}

	if ident := findHole(root, hole); ident != nil {
		jsast.RemoveEntry(ident.Parent)
	}
}

func (u *unit) fillParams(program *jsast.Node) {
	params := findHole(program, "PARAMS")
	if params == nil {
		return
	}

	text := "()"

	switch factory := u.class.Factory; {
	case factory.ChildByField("parameters") != nil:
		text = factory.ChildByField("parameters").Text()
	case factory.ChildByField("parameter") != nil:
		text = "(" + factory.ChildByField("parameter").Text() + ")"
	}

	fn, err := jsast.Statement("function f" + text + " {}")
	if err != nil {
		u.bag.Warn(diag.CodeDynamicOptions, "factory parameters %s could not be copied", text)

		return
	}

	params.Parent.Replace(fn.ChildByField("parameters"))
}

// fillComponents registers the used components and imports them.
func (u *unit) fillComponents() {
	if u.inst.components == nil || len(u.in.UsingComponents) == 0 {
		return
	}

	tags := make([]string, 0, len(u.in.UsingComponents))
	for tag := range u.in.UsingComponents {
		tags = append(tags, tag)
	}

	sort.Strings(tags)

	var imports []string

	for _, tag := range tags {
		target := u.in.UsingComponents[tag]

		switch {
		case u.opts.HasVant && strings.HasPrefix(tag, "van-"):
			continue
		case strings.HasPrefix(target, "plugin://"):
			u.bag.Warn(diag.CodeUnsupportedAPI, "plugin component %q cannot be imported", tag)

			continue
		}

		name := camelCase(tag)
		if !jsast.IsIdentifierName(name) {
			u.bag.Warn(diag.CodeUnknownComponent, "component tag %q is not a valid identifier", tag)

			continue
		}

		importPath := relativeImport(u.in.Dir(), target)

		jsast.AppendEntry(u.inst.components, jsast.NewLeaf(jsast.TypeShorthandProperty, name, true))
		imports = append(imports, "import "+name+" from "+jsast.Quote(importPath))
		u.components[name] = importPath

		u.checkComponent(tag, modulePath(u.in.Dir(), target))
	}

	u.insertImports(imports)
}

// checkComponent warns when the registry knows the target is not a component.
func (u *unit) checkComponent(tag, target string) {
	if u.reg == nil {
		return
	}

	entry, ok := u.reg.Lookup(target)
	if !ok || entry.Kind.componentLike() || entry.Kind == KindPage {
		return
	}

	u.bag.Warn(diag.CodeUnknownComponent, "component %q resolves to a %s module", tag, entry.Kind)
}

// insertImports adds import statements after the existing ones.
func (u *unit) insertImports(imports []string) {
	at := 0

	for idx, stmt := range u.root.Children {
		if stmt.Is(jsast.TypeImportStatement) {
			at = idx + 1
		}
	}

	stmts := make([]*jsast.Node, 0, len(imports))

	for _, src := range imports {
		stmt, err := jsast.Statement(src)
		if err != nil {
			u.bag.Warn(diag.CodeUnknownComponent, "cannot build %s", src)

			continue
		}

		stmt.SetLeadingTrivia("\n")
		stmts = append(stmts, stmt)
	}

	if len(stmts) == 0 {
		return
	}

	if at == 0 {
		stmts[0].SetLeadingTrivia("")

		if len(u.root.Children) > 0 {
			first := u.root.Children[0]
			if lead := first.LeadingTrivia(); !strings.HasPrefix(lead, "\n") {
				first.SetLeadingTrivia("\n" + lead)
			}
		}
	}

	u.root.InsertChild(at, stmts...)
}

// camelCase turns a tag name such as my-card into myCard.
func camelCase(tag string) string {
	parts := strings.Split(tag, "-")
	title := cases.Title(language.Und, cases.NoLower)

	for idx := 1; idx < len(parts); idx++ {
		parts[idx] = title.String(parts[idx])
	}

	return strings.Join(parts, "")
}

// relativeImport makes a project-rooted component path relative to dir.
func relativeImport(dir, target string) string {
	if !strings.HasPrefix(target, "/") {
		return target
	}

	rel, err := filepath.Rel(filepath.FromSlash(dir), filepath.FromSlash(strings.TrimPrefix(target, "/")))
	if err != nil {
		return target
	}

	rel = filepath.ToSlash(rel)
	if !strings.HasPrefix(rel, ".") {
		rel = "./" + rel
	}

	return rel
}

// modulePath resolves a component path to the module path used as
// registry key.
func modulePath(dir, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}

	return path.Join(dir, target)
}
