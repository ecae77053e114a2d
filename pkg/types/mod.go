package types

import (
	"fmt"
	"sort"
	"time"
)

// AttributePakDictionary is the mod attribute holding the PakDictionary
const AttributePakDictionary = "pakDictionary"

// PakDictionary maps a generated archive filename to the original basename
// of the archive it replaced.
type PakDictionary map[string]string

// Lookup returns the original basename recorded for a generated name.
func (d PakDictionary) Lookup(generated string) (string, bool) {
	if d == nil {
		return "", false
	}
	original, ok := d[generated]
	return original, ok
}

// Originals returns the distinct original basenames, sorted.
func (d PakDictionary) Originals() []string {
	seen := make(map[string]bool, len(d))
	var out []string
	for _, original := range d {
		if !seen[original] {
			seen[original] = true
			out = append(out, original)
		}
	}
	sort.Strings(out)
	return out
}

// GeneratedNames returns the generated names, sorted.
func (d PakDictionary) GeneratedNames() []string {
	out := make([]string, 0, len(d))
	for name := range d {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// ModRecord is the host's persisted record of an installed mod.
type ModRecord struct {
	ID          string                 `json:"id" yaml:"id" toml:"id"`
	GameID      string                 `json:"gameId" yaml:"gameId" toml:"gameId"`
	Type        string                 `json:"type,omitempty" yaml:"type,omitempty" toml:"type,omitempty"`
	InstallPath string                 `json:"installPath,omitempty" yaml:"installPath,omitempty" toml:"installPath,omitempty"`
	InstallTime time.Time              `json:"installTime,omitempty" yaml:"installTime,omitempty" toml:"installTime"`
	Attributes  map[string]interface{} `json:"attributes,omitempty" yaml:"attributes,omitempty" toml:"attributes,omitempty"`
}

// PakDictionary decodes the pakDictionary attribute. Decoded TOML and YAML
// documents hold it as map[string]interface{}, freshly cataloged records as
// PakDictionary or map[string]string.
func (m *ModRecord) PakDictionary() (PakDictionary, error) {
	if m == nil || m.Attributes == nil {
		return nil, nil
	}
	raw, ok := m.Attributes[AttributePakDictionary]
	if !ok || raw == nil {
		return nil, nil
	}

	switch v := raw.(type) {
	case PakDictionary:
		return v, nil
	case map[string]string:
		return PakDictionary(v), nil
	case map[string]interface{}:
		dict := make(PakDictionary, len(v))
		for k, val := range v {
			s, ok := val.(string)
			if !ok {
				return nil, fmt.Errorf("pakDictionary entry %q is %T, not a string", k, val)
			}
			dict[k] = s
		}
		return dict, nil
	default:
		return nil, fmt.Errorf("pakDictionary attribute has unexpected type %T", raw)
	}
}

// SetAttribute stores an attribute, creating the map when needed.
func (m *ModRecord) SetAttribute(key string, value interface{}) {
	if m.Attributes == nil {
		m.Attributes = make(map[string]interface{})
	}
	m.Attributes[key] = value
}
