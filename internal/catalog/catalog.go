// Package catalog lists the fields the editors offer and the suggested
// values for each.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/tailscale/hujson"
)

// CustomFieldsPrefix namespaces user-defined fields.
const CustomFieldsPrefix = "custom_fields."

//go:embed options.jsonc
var optionsJSONC []byte

var loadOptions = sync.OnceValue(func() map[string][]string {
	m, err := ParseOptions(optionsJSONC)
	if err != nil {
		panic(fmt.Sprintf("catalog: embedded options: %v", err))
	}
	return m
})

// ParseOptions decodes a field-options document (JSONC).
func ParseOptions(data []byte) (map[string][]string, error) {
	std, err := hujson.Standardize(data)
	if err != nil {
		return nil, err
	}
	var m map[string][]string
	if err := json.Unmarshal(std, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// Options returns the suggested values for field, or nil when none are
// predefined. The custom_fields. namespace is ignored.
func Options(field string) []string {
	opts := loadOptions()[strings.TrimPrefix(field, CustomFieldsPrefix)]
	if opts == nil {
		return nil
	}
	return append([]string(nil), opts...)
}

// HasOptions reports whether field has predefined values.
func HasOptions(field string) bool {
	_, ok := loadOptions()[strings.TrimPrefix(field, CustomFieldsPrefix)]
	return ok
}

// OptionFields returns the field names with predefined values, sorted.
func OptionFields() []string {
	m := loadOptions()
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Field is a selectable field with its display label.
type Field struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// TriggerFields are the fields offered on the left of a clause.
var TriggerFields = []Field{
	{"applies_to_part", "applies to part"},
	{"custom_fields.issue_category_l1", "issue category L1"},
	{"custom_fields.issue_category_l2", "issue category L2"},
	{"custom_fields.issue_category_l3", "issue category L3"},
	{"user.role", "user role"},
	{"custom_fields.priority", "priority"},
	{"custom_fields.status", "status"},
	{"custom_fields.category", "category"},
	{"custom_fields.department", "department"},
}

// TargetFields are the fields an effect may target.
var TargetFields = []Field{
	{"custom_fields.issue_category_l1", "issue category L1"},
	{"custom_fields.issue_category_l2", "issue category L2"},
	{"custom_fields.issue_category_l3", "issue category L3"},
	{"custom_fields.priority", "priority"},
	{"custom_fields.status", "status"},
	{"custom_fields.department", "department"},
}

// FieldLabel returns the display label of a field. Unlisted fields lose the
// custom_fields. namespace and have underscores replaced by spaces.
func FieldLabel(field string) string {
	for _, list := range [][]Field{TriggerFields, TargetFields} {
		for _, f := range list {
			if f.Value == field {
				return f.Label
			}
		}
	}
	return strings.ReplaceAll(strings.TrimPrefix(field, CustomFieldsPrefix), "_", " ")
}
