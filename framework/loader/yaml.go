package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// decodeYAML strictly decodes data into out. JSON documents are valid YAML
// and go through the same path. An empty document leaves out untouched.
func decodeYAML(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}

func decodeYAMLManifest(data []byte) (Manifest, error) {
	var m Manifest
	if err := decodeYAML(data, &m); err != nil {
		return Manifest{}, err
	}
	return m, nil
}

func decodeYAMLConfig(data []byte) (Config, error) {
	var cfg Config
	if err := decodeYAML(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
