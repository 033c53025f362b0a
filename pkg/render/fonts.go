package render

import (
	"sort"
	"strings"
)

// The engine draws with a built-in bitmap face, so the font catalog controls
// validation only: a requested font must be one the deployment claims to
// ship. Sizes in the job's font specs are advisory for bitmap rendering.
var fontCatalog = []string{
	"Fira Code",
	"Hack",
	"JetBrains Mono",
	"Source Code Pro",
	"Cascadia Code",
	"IBM Plex Mono",
	"Inconsolata",
	"Ubuntu Mono",
}

var fontIndex = func() map[string]string {
	index := make(map[string]string, len(fontCatalog))
	for _, name := range fontCatalog {
		index[strings.ToLower(name)] = name
	}
	return index
}()

func lookupFont(name string) (string, bool) {
	canonical, ok := fontIndex[strings.ToLower(strings.TrimSpace(name))]
	return canonical, ok
}

func fontNames() []string {
	names := make([]string, len(fontCatalog))
	copy(names, fontCatalog)
	sort.Strings(names)
	return names
}
