package load

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"powerflow/network"
)

// YAML loads a network from a standardized YAML case file. The schema is
// the JSON one with lowercase keys.
func YAML(path string) (*network.Network, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeYAML(f)
}

// DecodeYAML reads a standardized YAML case from r.
func DecodeYAML(r io.Reader) (*network.Network, error) {
	var cf caseFile
	if err := yaml.NewDecoder(r).Decode(&cf); err != nil {
		return nil, fmt.Errorf("load: decode yaml case: %w", err)
	}
	return cf.network()
}
