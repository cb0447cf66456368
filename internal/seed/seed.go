// Package seed provides the sample conditions and decodes condition files.
package seed

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/tailscale/hujson"

	"github.com/solatis/rulebuilder/internal/types"
)

//go:embed conditions.jsonc
var conditionsJSONC []byte

// Conditions returns the built-in sample conditions.
func Conditions() ([]types.Condition, error) {
	cs, err := Decode(conditionsJSONC)
	if err != nil {
		return nil, fmt.Errorf("embedded conditions: %w", err)
	}
	return cs, nil
}

// Decode parses a JSON or JSONC array of conditions. Ids may be empty; the
// store assigns one on save.
func Decode(data []byte) ([]types.Condition, error) {
	std, err := hujson.Standardize(data)
	if err != nil {
		return nil, err
	}
	var cs []types.Condition
	if err := json.Unmarshal(std, &cs); err != nil {
		return nil, err
	}
	for i, c := range cs {
		if c.Effects == nil {
			cs[i].Effects = []types.Effect{}
		}
	}
	return cs, nil
}

// ReadFile decodes a conditions file.
func ReadFile(path string) ([]types.Condition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cs, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cs, nil
}
