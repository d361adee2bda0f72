package convert

// Kind is the structural role of a source module.
type Kind uint8

// Module kinds.
const (
	// KindPlainScript is a module without a recognised registration call.
	KindPlainScript Kind = iota
	// KindApp is the single app registration file.
	KindApp
	// KindPage is a page registration.
	KindPage
	// KindComponent is a component registration.
	KindComponent
	// KindVantComponent is a component written against the vant weapp helper.
	KindVantComponent
	// KindBehavior is a behavior registration.
	KindBehavior
	// KindBehavior2 is a behavior registration returned by a factory function.
	KindBehavior2
	// KindWebpack is a pre-bundled module passed through unchanged.
	KindWebpack
)

//nolint:gochecknoglobals // Name table.
var kindNames = [...]string{
	KindPlainScript:   "PlainScript",
	KindApp:           "App",
	KindPage:          "Page",
	KindComponent:     "Component",
	KindVantComponent: "VantComponent",
	KindBehavior:      "Behavior",
	KindBehavior2:     "Behavior2",
	KindWebpack:       "Webpack",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}

	return "Unknown"
}

// MarshalText renders the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Transformed reports whether modules of this kind go through the engine
// rather than being passed through.
func (k Kind) Transformed() bool {
	return k != KindPlainScript && k != KindWebpack
}

// componentLike reports whether the kind uses the component option layout.
func (k Kind) componentLike() bool {
	switch k {
	case KindComponent, KindVantComponent, KindBehavior, KindBehavior2:
		return true
	default:
		return false
	}
}

// SingleFile reports whether the converted module becomes the script block of
// a single-file component.
func (k Kind) SingleFile() bool {
	switch k {
	case KindApp, KindPage, KindComponent, KindVantComponent:
		return true
	default:
		return false
	}
}
