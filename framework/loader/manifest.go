package loader

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/km-arc/go-simple-di/framework/container"
	"github.com/km-arc/go-simple-di/framework/validation"
)

// Manifest is the decoded content of one module file.
type Manifest struct {
	Modules []ModuleSpec `yaml:"modules"`
}

// ModuleSpec declares one module. Exactly one of Factory and Value is set.
type ModuleSpec struct {
	// Name may use the "Name (tag1, tag2)" syntax.
	Name      string            `yaml:"name"`
	Tags      []string          `yaml:"tags"`
	Lifecycle string            `yaml:"lifecycle"`
	Factory   string            `yaml:"factory"`
	Value     any               `yaml:"value"`
	Needs     []string          `yaml:"needs"`
	Aliases   map[string]string `yaml:"aliases"`
}

// Config is the content of a .simple-di file found by LoadFromDir.
type Config struct {
	// Root stops the walk towards the filesystem root.
	Root bool `yaml:"root"`
	// Load lists glob patterns relative to the config file; "!" excludes.
	Load []string `yaml:"load"`
}

var moduleRules = validation.Rules{
	"name":      "required|max:200",
	"factory":   "required_without:value|prohibited_with:value",
	"lifecycle": "nullable|in:singleton,transient",
}

// Validate reports every problem in the manifest at once.
func (m Manifest) Validate() error {
	var errs []error
	for i, spec := range m.Modules {
		if err := spec.validate(); err != nil {
			label := strings.TrimSpace(spec.Name)
			if label == "" {
				label = fmt.Sprintf("#%d", i)
			}
			errs = append(errs, fmt.Errorf("module %s: %w", label, err))
		}
	}
	return errors.Join(errs...)
}

func (s ModuleSpec) validate() error {
	data := map[string]string{
		"name":      s.Name,
		"factory":   s.Factory,
		"lifecycle": s.Lifecycle,
	}
	if s.Value != nil {
		data["value"] = "set"
	}
	rules := validation.Rules{}
	for field, rule := range moduleRules {
		rules[field] = rule
	}
	for i, need := range s.Needs {
		field := fmt.Sprintf("needs.%d", i)
		data[field] = need
		rules[field] = "required|identifier"
	}
	for i, tag := range s.Tags {
		field := fmt.Sprintf("tags.%d", i)
		data[field] = tag
		rules[field] = "required|identifier"
	}
	for local, target := range s.Aliases {
		field := "aliases." + local
		data[field] = target
		rules[field] = "required|identifier|not_in:" + container.OwnerName
	}
	return validation.Make(data, rules).Validate()
}

// options turns the declarative fields into registration options.
func (s ModuleSpec) options() ([]container.RegisterOption, error) {
	lifecycle, err := container.ParseLifecycle(s.Lifecycle)
	if err != nil {
		return nil, err
	}
	opts := []container.RegisterOption{container.WithLifecycle(lifecycle)}
	if len(s.Tags) > 0 {
		opts = append(opts, container.WithTags(s.Tags...))
	}
	for _, need := range s.Needs {
		if strings.TrimSpace(need) == container.OwnerName {
			opts = append(opts, container.NeedsOwner())
			continue
		}
		opts = append(opts, container.Needs(need))
	}
	if len(s.Aliases) > 0 {
		opts = append(opts, container.WithAliases(s.Aliases))
	}
	return opts, nil
}

// constructor returns the catalog entry for Factory, or a factory returning
// Value.
func (s ModuleSpec) constructor(catalog *Catalog) (any, error) {
	if s.Factory == "" {
		v := s.Value
		return container.Factory(func([]any) (any, error) { return v, nil }), nil
	}
	ctor, ok := catalog.Lookup(s.Factory)
	if !ok {
		return nil, fmt.Errorf("unknown factory %q", s.Factory)
	}
	return ctor, nil
}

// register adds every module of m to c.
func (m Manifest) register(c *container.Container, catalog *Catalog) error {
	for _, spec := range m.Modules {
		ctor, err := spec.constructor(catalog)
		if err != nil {
			return fmt.Errorf("module %s: %w", spec.Name, err)
		}
		opts, err := spec.options()
		if err != nil {
			return fmt.Errorf("module %s: %w", spec.Name, err)
		}
		if err := c.Register(spec.Name, ctor, opts...); err != nil {
			return err
		}
	}
	return nil
}

// ── Decoding ─────────────────────────────────────────────────────────────────

// Supported manifest extensions.
const (
	extYAML = ".yaml"
	extYML  = ".yml"
	extJSON = ".json"
	extHCL  = ".hcl"
)

func isManifestFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case extYAML, extYML, extJSON, extHCL:
		return true
	}
	return false
}

// DecodeManifest parses data according to the extension of filename.
func DecodeManifest(filename string, data []byte) (Manifest, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case extYAML, extYML, extJSON:
		return decodeYAMLManifest(data)
	case extHCL:
		return decodeHCLManifest(filename, data)
	default:
		return Manifest{}, fmt.Errorf("unsupported manifest type %q", filepath.Ext(filename))
	}
}

// DecodeConfig parses a .simple-di config according to the extension of
// filename.
func DecodeConfig(filename string, data []byte) (Config, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case extYAML, extYML, extJSON:
		return decodeYAMLConfig(data)
	case extHCL:
		return decodeHCLConfig(filename, data)
	default:
		return Config{}, fmt.Errorf("unsupported config type %q", filepath.Ext(filename))
	}
}
