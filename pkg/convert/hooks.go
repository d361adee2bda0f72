package convert

// Lifecycle hook names per framework.
//
//nolint:gochecknoglobals // Static name tables.
var (
	pageHooks = nameSetOf(
		"onLoad", "onShow", "onReady", "onHide", "onUnload", "onPullDownRefresh",
		"onReachBottom", "onShareAppMessage", "onShareTimeline", "onAddToFavorites",
		"onPageScroll", "onResize", "onTabItemTap", "onSaveExitState",
	)

	appHooks = nameSetOf(
		"onLaunch", "onShow", "onHide", "onError", "onPageNotFound",
		"onUnhandledRejection", "onThemeChange",
	)

	vueHooks = nameSetOf(
		"beforeCreate", "created", "beforeMount", "mounted", "beforeUpdate", "updated",
		"beforeDestroy", "destroyed", "activated", "deactivated", "errorCaptured",
	)

	// componentHooks maps component lifetimes to their target hooks. An
	// empty target means the lifetime has no equivalent.
	componentHooks = map[string]string{
		"created":  "created",
		"attached": "beforeMount",
		"ready":    "mounted",
		"detached": "destroyed",
		"error":    "errorCaptured",
		"moved":    "",
	}

	// reservedNames cannot be used as method names in the target framework.
	reservedNames = nameSetOf(
		"break", "case", "catch", "class", "const", "continue", "debugger", "default",
		"delete", "do", "else", "enum", "export", "extends", "false", "finally", "for",
		"function", "if", "import", "in", "instanceof", "let", "new", "null", "return",
		"super", "switch", "this", "throw", "true", "try", "typeof", "var", "void",
		"while", "with", "yield", "data", "props", "methods", "watch", "computed",
		"components", "mixins",
	)
)

func nameSetOf(names ...string) NameSet {
	set := make(NameSet, len(names))
	set.Add(names...)

	return set
}

// isHook reports whether name is a lifecycle hook in either framework.
func isHook(name string) bool {
	return pageHooks.Has(name) || appHooks.Has(name) || vueHooks.Has(name)
}
