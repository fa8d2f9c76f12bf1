package load

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"powerflow/network"
)

// JSON loads a network from a standardized JSON case file.
func JSON(path string) (*network.Network, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeJSON(f)
}

// DecodeJSON reads a standardized JSON case from r.
func DecodeJSON(r io.Reader) (*network.Network, error) {
	var cf caseFile
	if err := json.NewDecoder(r).Decode(&cf); err != nil {
		return nil, fmt.Errorf("load: decode json case: %w", err)
	}
	return cf.network()
}
