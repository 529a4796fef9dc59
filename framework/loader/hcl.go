package loader

import (
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// hclManifest is the HCL shape of a manifest:
//
//	module "Circle (shape)" {
//	  factory = "geometry.circle"
//	  needs   = ["Constants"]
//	}
//
//	module "Pi" {
//	  value = 3.14159
//	}
type hclManifest struct {
	Modules []*hclModule `hcl:"module,block"`
}

type hclModule struct {
	Name      string            `hcl:"name,label"`
	Tags      []string          `hcl:"tags,optional"`
	Lifecycle string            `hcl:"lifecycle,optional"`
	Factory   string            `hcl:"factory,optional"`
	Value     cty.Value         `hcl:"value,optional"`
	Needs     []string          `hcl:"needs,optional"`
	Aliases   map[string]string `hcl:"aliases,optional"`
}

type hclConfig struct {
	Root bool     `hcl:"root,optional"`
	Load []string `hcl:"load,optional"`
}

func parseHCL(filename string, data []byte, out any) error {
	file, diags := hclparse.NewParser().ParseHCL(data, filename)
	if diags.HasErrors() {
		return fmt.Errorf("parse: %w", diags)
	}
	if diags := gohcl.DecodeBody(file.Body, nil, out); diags.HasErrors() {
		return fmt.Errorf("decode: %w", diags)
	}
	return nil
}

func decodeHCLManifest(filename string, data []byte) (Manifest, error) {
	var root hclManifest
	if err := parseHCL(filename, data, &root); err != nil {
		return Manifest{}, err
	}

	m := Manifest{Modules: make([]ModuleSpec, 0, len(root.Modules))}
	for _, mod := range root.Modules {
		value, err := ctyToNative(mod.Value)
		if err != nil {
			return Manifest{}, fmt.Errorf("module %s: value: %w", mod.Name, err)
		}
		m.Modules = append(m.Modules, ModuleSpec{
			Name:      mod.Name,
			Tags:      mod.Tags,
			Lifecycle: mod.Lifecycle,
			Factory:   mod.Factory,
			Value:     value,
			Needs:     mod.Needs,
			Aliases:   mod.Aliases,
		})
	}
	return m, nil
}

func decodeHCLConfig(filename string, data []byte) (Config, error) {
	var cfg hclConfig
	if err := parseHCL(filename, data, &cfg); err != nil {
		return Config{}, err
	}
	return Config{Root: cfg.Root, Load: cfg.Load}, nil
}

// ctyToNative converts a cty.Value into plain Go values: string, float64,
// bool, []any and map[string]any. Null and unknown values become nil.
func ctyToNative(v cty.Value) (any, error) {
	if v.IsNull() || !v.IsKnown() {
		return nil, nil
	}

	ty := v.Type()
	switch {
	case ty == cty.String:
		return v.AsString(), nil

	case ty == cty.Number:
		var f float64
		if err := gocty.FromCtyValue(v, &f); err != nil {
			return nil, err
		}
		return f, nil

	case ty == cty.Bool:
		return v.True(), nil

	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		out := make([]any, 0, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			_, elem := it.Element()
			native, err := ctyToNative(elem)
			if err != nil {
				return nil, err
			}
			out = append(out, native)
		}
		return out, nil

	case ty.IsObjectType() || ty.IsMapType():
		out := make(map[string]any, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			key, elem := it.Element()
			native, err := ctyToNative(elem)
			if err != nil {
				return nil, fmt.Errorf("in attribute %q: %w", key.AsString(), err)
			}
			out[key.AsString()] = native
		}
		return out, nil

	default:
		return nil, fmt.Errorf("unsupported value type %s", ty.FriendlyName())
	}
}
