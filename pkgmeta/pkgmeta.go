// Package pkgmeta reads the parts of a package.json manifest that influence language
// options: the module type and the supported Node.js range.
package pkgmeta

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"regexp"
	"slices"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/StimulCross/configs/composer"
	"github.com/StimulCross/configs/errors"
	"github.com/StimulCross/configs/options"
	"github.com/StimulCross/configs/sequencedmap"
)

const (
	// ErrInvalidManifest is returned when package.json cannot be decoded
	ErrInvalidManifest = errors.Error("invalid package manifest")
	// ErrInvalidEngineRange is returned when engines.node is neither a version nor a range
	ErrInvalidEngineRange = errors.Error("invalid node engine range")
)

// LayerName is the name of the layer produced by Layer
const LayerName = "package.json"

// Metadata is the decoded subset of a package manifest.
type Metadata struct {
	Name string
	// Type is "module", "commonjs" or empty
	Type string
	// NodeRange is engines.node as written
	NodeRange string

	minNode *semver.Version
}

type manifest struct {
	Name    string            `json:"name"`
	Type    string            `json:"type"`
	Engines map[string]string `json:"engines"`
}

// Parse decodes a package.json document.
func Parse(data []byte) (*Metadata, error) {
	var m manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, ErrInvalidManifest.Wrap(err)
	}

	md := &Metadata{
		Name:      m.Name,
		Type:      m.Type,
		NodeRange: strings.TrimSpace(m.Engines["node"]),
	}
	if md.NodeRange != "" {
		v, err := minimumVersion(md.NodeRange)
		if err != nil {
			return nil, err
		}
		md.minNode = v
	}
	return md, nil
}

// Load reads and parses name from fsys.
func Load(fsys fs.FS, name string) (*Metadata, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, err
	}
	md, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return md, nil
}

// MinNodeVersion returns the lowest Node.js version engines.node admits.
func (m *Metadata) MinNodeVersion() (*semver.Version, bool) {
	if m == nil || m.minNode == nil {
		return nil, false
	}
	return m.minNode, true
}

// SourceType maps the manifest type to languageOptions.sourceType.
func (m *Metadata) SourceType() string {
	if m != nil && m.Type == "module" {
		return "module"
	}
	return "commonjs"
}

// EcmaVersion returns the newest ECMAScript edition the minimum supported Node.js major
// fully implements, and false when engines.node is not set.
func (m *Metadata) EcmaVersion() (int, bool) {
	v, ok := m.MinNodeVersion()
	if !ok {
		return 0, false
	}
	return EcmaVersionForNode(v.Major()), true
}

// EcmaVersionForNode maps a Node.js major version to an ECMAScript edition.
func EcmaVersionForNode(major uint64) int {
	switch {
	case major >= 24:
		return 2025
	case major >= 22:
		return 2024
	case major >= 18:
		return 2023
	case major >= 16:
		return 2022
	case major >= 14:
		return 2020
	case major >= 12:
		return 2019
	default:
		return 2018
	}
}

// Layer returns the language options the manifest implies.
func (m *Metadata) Layer() composer.Layer {
	lo := sequencedmap.New[string, options.Value]()
	if ev, ok := m.EcmaVersion(); ok {
		lo.Set("ecmaVersion", options.Int(int64(ev)))
	}
	lo.Set("sourceType", options.String(m.SourceType()))
	return composer.Layer{Name: LayerName, LanguageOptions: lo}
}

// versionToken finds the versions a range is written in terms of
var versionToken = regexp.MustCompile(`\d+(?:\.\d+){0,2}`)

// minimumVersion returns the lowest release rng admits. The lowest admitted version is
// always 0.0.0, a version written in the range, or the first release after one of them,
// so only those are tried.
func minimumVersion(rng string) (*semver.Version, error) {
	if v, err := semver.NewVersion(rng); err == nil {
		return v, nil
	}

	c, err := semver.NewConstraint(rng)
	if err != nil {
		return nil, ErrInvalidEngineRange.Wrapf("%q: %s", rng, err)
	}

	candidates := []*semver.Version{semver.New(0, 0, 0, "", "")}
	for _, tok := range versionToken.FindAllString(rng, -1) {
		v, err := semver.NewVersion(tok)
		if err != nil {
			continue
		}
		next, nextMinor, nextMajor := v.IncPatch(), v.IncMinor(), v.IncMajor()
		candidates = append(candidates, v, &next, &nextMinor, &nextMajor)
	}
	slices.SortFunc(candidates, func(a, b *semver.Version) int { return a.Compare(b) })

	for _, v := range candidates {
		if c.Check(v) {
			return v, nil
		}
	}
	return nil, ErrInvalidEngineRange.Wrapf("%q admits no Node.js release", rng)
}
