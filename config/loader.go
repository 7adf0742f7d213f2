// Package config loads composition documents, resolves their `extends` chains and turns
// them into composer layers, override blocks and an ignore list.
//
// A document looks like:
//
//	extends: [base, node, ./shared/team.yaml]
//	plugins: [unicorn]
//	languageOptions: {ecmaVersion: 2022}
//	rules:
//	  no-console: warn
//	  indent: [error, 2]
//	overrides:
//	  - name: tests
//	    files: ["**/*.test.*"]
//	    rules: {no-console: off}
//	ignores: [node_modules, "!.*.js"]
//	parserPolicy: strict
//
// Documents whose name ends in .toml are written in TOML with the same keys.
//
// Extended documents become layers, in depth-first order, before the document that
// extends them. Their override blocks stay attached to their layer. The root document's
// override blocks are the top-level blocks and are applied last.
package config

import (
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path"
	"slices"
	"strings"

	"github.com/StimulCross/configs/composer"
	"github.com/StimulCross/configs/errors"
	"github.com/StimulCross/configs/ignore"
	"github.com/StimulCross/configs/pkgmeta"
	"github.com/StimulCross/configs/presets"
	"github.com/StimulCross/configs/system"
)

const (
	// ErrInvalidConfig is returned for documents that fail the schema or cannot be decoded
	ErrInvalidConfig = errors.Error("invalid configuration")
	// ErrExtendsCycle is returned when a document extends itself directly or indirectly
	ErrExtendsCycle = errors.Error("extends cycle")
	// ErrUnknownPreset is returned for extends entries naming no embedded preset
	ErrUnknownPreset = presets.ErrUnknownPreset
)

const presetPrefix = "preset:"

type Option func(o *Options)

type Options struct {
	FS      system.VirtualFS
	Package *pkgmeta.Metadata
	Logger  *slog.Logger
}

// WithFS reads documents from fsys instead of the operating system.
func WithFS(fsys fs.FS) Option {
	return func(o *Options) {
		o.FS = fsys
	}
}

// WithPackageMetadata inserts a layer derived from package.json right before the root
// document's own layer.
func WithPackageMetadata(md *pkgmeta.Metadata) Option {
	return func(o *Options) {
		o.Package = md
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

func newOptions(opts ...Option) *Options {
	o := &Options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.FS == nil {
		o.FS = &system.FileSystem{}
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o
}

// Composition is a fully resolved document tree.
type Composition struct {
	// Root is the location of the document that was loaded
	Root string
	// Documents lists every loaded document in layer order
	Documents    []string
	Layers       []composer.Layer
	Overrides    []composer.OverrideBlock
	Ignores      []string
	ParserPolicy composer.ParserPolicy
}

// Load reads the document called name and everything it extends. Patterns are compiled
// once so that malformed globs fail here rather than on the first file.
func Load(name string, opts ...Option) (*Composition, error) {
	o := newOptions(opts...)
	l := &loader{opts: o}

	doc, err := l.read(name)
	if err != nil {
		return nil, err
	}
	return l.compose(doc)
}

// LoadPreset resolves an embedded preset as if it were the root document.
func LoadPreset(name string, opts ...Option) (*Composition, error) {
	return Load(presetPrefix+name, opts...)
}

// FromDocument resolves an already parsed document. Relative extends are resolved
// against doc.Location.
func FromDocument(doc *Document, opts ...Option) (*Composition, error) {
	l := &loader{opts: newOptions(opts...)}
	return l.compose(doc)
}

// Composer builds a composer for the composition. The document's parser policy is applied
// before opts, so opts may override it.
func (c *Composition) Composer(opts ...composer.Option) (*composer.Composer, error) {
	all := append([]composer.Option{composer.WithParserPolicy(c.ParserPolicy)}, opts...)
	return composer.New(c.Layers, c.Overrides, all...)
}

// IgnoreList compiles the ignore patterns of every document, in layer order.
func (c *Composition) IgnoreList() (*ignore.List, error) {
	return ignore.New(c.Ignores)
}

type loader struct {
	opts  *Options
	stack []string
	comp  *Composition
}

func (l *loader) compose(doc *Document) (*Composition, error) {
	l.comp = &Composition{Root: doc.Location}
	l.stack = []string{doc.Location}

	if err := l.resolve(doc, true); err != nil {
		return nil, err
	}

	if _, err := l.comp.Composer(); err != nil {
		return nil, fmt.Errorf("%s: %w", doc.Location, err)
	}
	if _, err := l.comp.IgnoreList(); err != nil {
		return nil, fmt.Errorf("%s: ignores: %w", doc.Location, err)
	}

	return l.comp, nil
}

func (l *loader) resolve(doc *Document, isRoot bool) error {
	for _, ref := range doc.Extends {
		location, err := extendsLocation(doc.Location, ref)
		if err != nil {
			return err
		}
		if slices.Contains(l.stack, location) {
			return ErrExtendsCycle.Wrapf("%s", strings.Join(append(slices.Clone(l.stack), location), " -> "))
		}

		child, err := l.read(location)
		if err != nil {
			return fmt.Errorf("%s: extends %q: %w", doc.Location, ref, err)
		}

		l.stack = append(l.stack, location)
		if err := l.resolve(child, false); err != nil {
			return err
		}
		l.stack = l.stack[:len(l.stack)-1]
	}

	if isRoot && l.opts.Package != nil {
		l.comp.Layers = append(l.comp.Layers, l.opts.Package.Layer())
		l.comp.Documents = append(l.comp.Documents, pkgmeta.LayerName)
	}

	l.comp.Layers = append(l.comp.Layers, doc.layer(!isRoot))
	l.comp.Documents = append(l.comp.Documents, doc.Location)
	l.comp.Ignores = append(l.comp.Ignores, doc.Ignores...)

	if doc.ParserPolicy != "" {
		p, err := composer.ParseParserPolicy(doc.ParserPolicy)
		if err != nil {
			return fmt.Errorf("%s: %w", doc.Location, err)
		}
		l.comp.ParserPolicy = p
	}

	if isRoot {
		for _, o := range doc.Overrides {
			l.comp.Overrides = append(l.comp.Overrides, o.block())
		}
	}

	l.opts.Logger.Debug("resolved document",
		slog.String("document", doc.Location),
		slog.Int("rules", doc.Rules.Len()),
		slog.Int("overrides", len(doc.Overrides)),
		slog.Int("depth", len(l.stack)-1))

	return nil
}

func (l *loader) read(location string) (*Document, error) {
	var (
		data []byte
		err  error
	)
	if name, ok := strings.CutPrefix(location, presetPrefix); ok {
		data, err = presets.Read(name)
	} else {
		data, err = fs.ReadFile(l.opts.FS, location)
	}
	if err != nil {
		return nil, err
	}

	return Parse(location, data)
}

// extendsLocation maps an extends entry to a document location: preset names become
// "preset:<name>", file references are resolved against the extending document.
func extendsLocation(parent, ref string) (string, error) {
	if !isFileRef(ref) {
		if !presets.Has(ref) {
			return "", ErrUnknownPreset.Wrapf("%q extended by %s, available: %s", ref, parent, strings.Join(presets.Names(), ", "))
		}
		return presetPrefix + ref, nil
	}

	if strings.HasPrefix(parent, presetPrefix) {
		return "", ErrInvalidConfig.Wrapf("%s: presets cannot extend files (%q)", parent, ref)
	}
	if path.IsAbs(ref) {
		return path.Clean(ref), nil
	}
	return path.Join(path.Dir(parent), ref), nil
}

func isFileRef(ref string) bool {
	switch {
	case strings.HasPrefix(ref, "./"), strings.HasPrefix(ref, "../"), strings.HasPrefix(ref, "/"):
		return true
	case strings.HasSuffix(ref, ".yaml"), strings.HasSuffix(ref, ".yml"), strings.HasSuffix(ref, ".toml"):
		return true
	default:
		return false
	}
}

// layer converts the document into a composer layer named after it.
func (d *Document) layer(withOverrides bool) composer.Layer {
	layer := composer.Layer{
		Name:            d.layerName(),
		Rules:           d.Rules,
		Plugins:         d.Plugins,
		Settings:        d.Settings,
		LanguageOptions: d.LanguageOptions,
		OverrideParser:  d.OverrideParser,
	}
	if withOverrides {
		for _, o := range d.Overrides {
			layer.Overrides = append(layer.Overrides, o.block())
		}
	}
	return layer
}

func (d *Document) layerName() string {
	if name, ok := strings.CutPrefix(d.Location, presetPrefix); ok {
		return name
	}
	return d.Location
}

func (o Override) block() composer.OverrideBlock {
	return composer.OverrideBlock{
		Name:            o.Name,
		Files:           o.Files,
		Rules:           o.Rules,
		Plugins:         o.Plugins,
		Settings:        o.Settings,
		LanguageOptions: o.LanguageOptions,
		OverrideParser:  o.OverrideParser,
	}
}
