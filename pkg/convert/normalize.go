package convert

import "regexp"

// Source rewrites applied before parsing. They undo wrappers some build
// tools put around registration calls.
//
//nolint:gochecknoglobals // Compiled once.
var (
	exportDefaultApp = regexp.MustCompile(`(?m)export default App\b;?`)
	getAppPageCall   = regexp.MustCompile(`(?m)^getApp\(\)\.page\(\{`)
	exportsDefault   = regexp.MustCompile(`(?m)^exports\.default\s+=\s+App\(\{`)
	chainedPageCall  = regexp.MustCompile(`,\s*Page\(\s*\{`)
)

// normalizeSource prepares raw module text for parsing.
func normalizeSource(text string) string {
	text = exportDefaultApp.ReplaceAllString(text, "")
	text = getAppPageCall.ReplaceAllString(text, "Page({")
	text = exportsDefault.ReplaceAllString(text, "App({")

	return chainedPageCall.ReplaceAllString(text, "; Page({")
}
