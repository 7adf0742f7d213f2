// Package presets embeds the shareable rule sets: base, node, typescript, style and jsdoc.
//
// Each preset is a configuration document in the format read by package config and is
// referenced from `extends` by name.
package presets

import (
	"embed"
	"io/fs"
	"path"
	"slices"
	"strings"

	"github.com/StimulCross/configs/errors"
)

// ErrUnknownPreset is returned for names that are not embedded
const ErrUnknownPreset = errors.Error("unknown preset")

const (
	Base       = "base"
	Node       = "node"
	TypeScript = "typescript"
	Style      = "style"
	JSDoc      = "jsdoc"
)

//go:embed data/*.yaml
var data embed.FS

// Names returns the embedded preset names, sorted.
func Names() []string {
	entries, err := fs.ReadDir(data, "data")
	if err != nil {
		panic(err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), path.Ext(e.Name())))
	}
	slices.Sort(names)
	return names
}

// Has reports whether name is an embedded preset
func Has(name string) bool {
	return slices.Contains(Names(), name)
}

// Read returns the document of the named preset.
func Read(name string) ([]byte, error) {
	if !Has(name) {
		return nil, ErrUnknownPreset.Wrapf("%q, available: %s", name, strings.Join(Names(), ", "))
	}
	return fs.ReadFile(data, FileName(name))
}

// FileName is the path of the preset inside FS.
func FileName(name string) string {
	return "data/" + name + ".yaml"
}

// FS exposes the embedded documents.
func FS() fs.FS {
	return data
}
