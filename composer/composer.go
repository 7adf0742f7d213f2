// Package composer merges ordered configuration layers and file scoped override blocks
// into the effective configuration of a single file.
//
// Merge rules:
//
//   - rules: a later layer or matching block overwrites the whole setting of a rule it names
//   - plugins: unioned; declaring the same plugin twice is a no-op
//   - settings and languageOptions: shallow, later top-level keys replace earlier ones,
//     except additive keys (languageOptions.globals by default) whose mappings are unioned
//     key by key with later entries winning
//
// All base layers are merged first. Layer-local override blocks follow in layer order,
// then top-level override blocks in listed order. A rule absent from every contributor is
// absent from the result.
package composer

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"

	"github.com/StimulCross/configs/errors"
	"github.com/StimulCross/configs/glob"
	"github.com/StimulCross/configs/hashing"
	"github.com/StimulCross/configs/options"
)

// Composer holds compiled layers and override blocks. It is immutable after New and safe
// for concurrent use.
type Composer struct {
	opts      *Options
	layers    []Layer
	overrides []OverrideBlock
	blocks    []compiledBlock
	hash      string
}

type compiledBlock struct {
	// id is "<layer>/<block>" for layer-local blocks and "<block>" for top-level ones.
	// Names may repeat, so ids are for display only.
	id string
	// pos is the block's position in application order and identifies it uniquely
	pos   int
	block OverrideBlock
	files glob.Set
}

// New validates every override pattern, layer-local and top-level, before any file is
// composed. All pattern errors are reported together.
func New(layers []Layer, overrides []OverrideBlock, opts ...Option) (*Composer, error) {
	c := &Composer{
		opts:      NewOptions(opts...),
		layers:    slices.Clone(layers),
		overrides: slices.Clone(overrides),
	}

	var errs []error
	add := func(id string, b OverrideBlock) {
		if len(b.Files) == 0 {
			errs = append(errs, ErrInvalidOption.Wrapf("override block %q has no file patterns", id))
			return
		}
		set, err := glob.CompileSet(b.Files)
		if err != nil {
			errs = append(errs, fmt.Errorf("override block %q: %w", id, err))
			return
		}
		c.blocks = append(c.blocks, compiledBlock{id: id, pos: len(c.blocks), block: b, files: set})
	}

	for li, l := range c.layers {
		for bi, b := range l.Overrides {
			add(blockID(layerName(l, li), b.Name, bi), b)
		}
	}
	for bi, b := range c.overrides {
		add(blockID("", b.Name, bi), b)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	c.hash = hashing.Hash(fingerprintInput{
		Layers:       c.layers,
		Overrides:    c.overrides,
		ParserPolicy: c.opts.ParserPolicy.String(),
		Additive:     c.opts.Additive,
		Root:         c.opts.Root,
	})

	return c, nil
}

// Compose is the one-shot form of New followed by Compose.
func Compose(layers []Layer, overrides []OverrideBlock, filePath string, opts ...Option) (*EffectiveConfig, error) {
	c, err := New(layers, overrides, opts...)
	if err != nil {
		return nil, err
	}
	return c.Compose(filePath)
}

// Compose returns the effective configuration for filePath. On error no partial
// configuration is returned.
func (c *Composer) Compose(filePath string) (*EffectiveConfig, error) {
	log := c.opts.Logger.With(slog.String("file", filePath))

	m := newMerger(c.opts)
	for i, l := range c.layers {
		contrib := l.contribution()
		contrib.name = layerName(l, i)
		if err := m.apply(contrib); err != nil {
			return nil, err
		}
		log.Debug("applied layer", slog.String("layer", contrib.name), slog.Int("rules", l.Rules.Len()))
	}

	for _, b := range c.matching(filePath) {
		contrib := b.block.contribution()
		contrib.name = b.id
		if err := m.apply(contrib); err != nil {
			return nil, err
		}
		log.Debug("applied override block", slog.String("block", b.id), slog.Any("files", b.files.Strings()))
	}

	return m.cfg, nil
}

// MatchedBlocks lists the ids of the override blocks that apply to filePath, in the order
// they are applied.
func (c *Composer) MatchedBlocks(filePath string) []string {
	matched := c.matching(filePath)
	ids := make([]string, 0, len(matched))
	for _, b := range matched {
		ids = append(ids, b.id)
	}
	return ids
}

// Signature identifies the set of override blocks applying to filePath. Files with equal
// signatures under the same composer have equal effective configurations. Blocks are
// identified by position, since block and layer names need not be unique.
func (c *Composer) Signature(filePath string) string {
	matched := c.matching(filePath)
	positions := make([]int, len(matched))
	for i, b := range matched {
		positions[i] = b.pos
	}
	return hashing.Hash(positions)
}

// Fingerprint hashes the layers, override blocks and options the composer was built from.
func (c *Composer) Fingerprint() string {
	return c.hash
}

// Layers returns the layer names in merge order
func (c *Composer) Layers() []string {
	names := make([]string, len(c.layers))
	for i, l := range c.layers {
		names[i] = layerName(l, i)
	}
	return names
}

func (c *Composer) matching(filePath string) []compiledBlock {
	rel, ok := c.relative(filePath)
	if !ok {
		return nil
	}
	var out []compiledBlock
	for _, b := range c.blocks {
		if b.files.Match(rel) {
			out = append(out, b)
		}
	}
	return out
}

// relative maps filePath into the composition root; ok is false for paths outside it.
func (c *Composer) relative(filePath string) (string, bool) {
	p := filePath
	if c.opts.Root != "" && filepath.IsAbs(p) {
		rel, err := filepath.Rel(c.opts.Root, p)
		if err != nil {
			return "", false
		}
		p = rel
	}

	p = glob.Normalize(p)
	if p == "" || p == ".." || strings.HasPrefix(p, "../") {
		return "", false
	}
	return p, true
}

type fingerprintInput struct {
	Layers       []Layer
	Overrides    []OverrideBlock
	ParserPolicy string
	Additive     map[string][]string
	Root         string
}

func layerName(l Layer, i int) string {
	if l.Name != "" {
		return l.Name
	}
	return fmt.Sprintf("layer[%d]", i)
}

func blockID(layer, name string, i int) string {
	if name == "" {
		name = fmt.Sprintf("overrides[%d]", i)
	}
	if layer == "" {
		return name
	}
	return layer + "/" + name
}

// merger accumulates contributions into one EffectiveConfig.
type merger struct {
	opts *Options
	cfg  *EffectiveConfig
	// parserOwner names the contributor that set the current parser
	parserOwner string
}

func newMerger(opts *Options) *merger {
	return &merger{opts: opts, cfg: newEffectiveConfig()}
}

func (m *merger) apply(c contribution) error {
	if err := m.checkParser(c); err != nil {
		return err
	}

	for id, s := range c.rules.All() {
		m.cfg.Rules.Set(id, s)
	}

	for _, p := range c.plugins {
		if !slices.Contains(m.cfg.Plugins, p) {
			m.cfg.Plugins = append(m.cfg.Plugins, p)
		}
	}

	m.mergeValues(SectionSettings, m.cfg.Settings, c.settings)
	m.mergeValues(SectionLanguageOptions, m.cfg.LanguageOptions, c.languageOptions)

	if c.languageOptions.Has(ParserKey) {
		m.parserOwner = c.name
	}

	return nil
}

func (m *merger) checkParser(c contribution) error {
	if m.opts.ParserPolicy != ParserPolicyStrict || c.overrideParser {
		return nil
	}
	next, ok := c.languageOptions.Get(ParserKey)
	if !ok {
		return nil
	}
	current, ok := m.cfg.LanguageOptions.Get(ParserKey)
	if !ok || current.Equal(next) {
		return nil
	}
	return &ConflictError{
		Key:         SectionLanguageOptions + "." + ParserKey,
		First:       m.parserOwner,
		FirstValue:  current,
		Second:      c.name,
		SecondValue: next,
	}
}

func (m *merger) mergeValues(section string, dst, src *Values) {
	for key, v := range src.All() {
		if m.opts.isAdditive(section, key) {
			if union, ok := unionMaps(dst.GetOrZero(key), v); ok {
				dst.Set(key, union)
				continue
			}
		}
		dst.Set(key, v)
	}
}

// unionMaps merges two map values key by key, later entries winning. It never modifies
// either input.
func unionMaps(prev, next options.Value) (options.Value, bool) {
	pm, ok := prev.AsMap()
	if !ok {
		return options.Value{}, false
	}
	nm, ok := next.AsMap()
	if !ok {
		return options.Value{}, false
	}
	out := pm.Clone()
	for k, v := range nm.All() {
		out.Set(k, v)
	}
	return options.MapOf(out), true
}
