package script

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"

	"go.uber.org/multierr"
	"sigs.k8s.io/yaml"
)

// Catalog holds scripts in their presentation order.
type Catalog struct {
	keys     []string
	scripts  map[string]Script
	commands []CommandRef
}

func NewCatalog(scripts ...Script) *Catalog {
	c := &Catalog{scripts: make(map[string]Script)}
	c.Add(scripts...)
	return c
}

// Add inserts scripts. A script whose key is already known replaces the
// existing one in place; new keys are appended.
func (c *Catalog) Add(scripts ...Script) {
	for _, s := range scripts {
		if _, ok := c.scripts[s.Key]; !ok {
			c.keys = append(c.keys, s.Key)
		}
		c.scripts[s.Key] = s
	}
}

func (c *Catalog) SetCommands(refs ...CommandRef) {
	c.commands = slices.Clone(refs)
}

func (c *Catalog) Commands() []CommandRef {
	return slices.Clone(c.commands)
}

func (c *Catalog) Get(key string) (Script, bool) {
	s, ok := c.scripts[key]
	return s, ok
}

func (c *Catalog) Keys() []string {
	return slices.Clone(c.keys)
}

func (c *Catalog) Scripts() []Script {
	scripts := make([]Script, 0, len(c.keys))
	for _, k := range c.keys {
		scripts = append(scripts, c.scripts[k])
	}
	return scripts
}

func (c *Catalog) Len() int {
	return len(c.keys)
}

// Validate returns all problems found in the catalog combined into one error.
func (c *Catalog) Validate() error {
	var errs []error
	for _, s := range c.Scripts() {
		errs = append(errs, s.validate())
	}
	return multierr.Combine(errs...)
}

// Merge adds the scripts of a parsed file. Commands, if any, replace the
// catalog's command reference.
func (c *Catalog) Merge(f *ScriptsFile) {
	c.Add(f.Scripts...)
	if len(f.Commands) > 0 {
		c.SetCommands(f.Commands...)
	}
}

// Unmarshal parses a YAML scripts file.
// Duplicate keys within one file are rejected.
func Unmarshal(raw []byte) (*ScriptsFile, error) {
	jsonBytes, err := yaml.YAMLToJSON(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to convert scripts from YAML to JSON: %w", err)
	}

	parsed := &ScriptsFile{}
	if err := json.Unmarshal(jsonBytes, parsed); err != nil {
		return nil, fmt.Errorf("failed to unmarshal scripts: %w", err)
	}

	seen := make(map[string]bool, len(parsed.Scripts))
	var errs []error
	for _, s := range parsed.Scripts {
		if seen[s.Key] {
			errs = append(errs, fmt.Errorf("duplicate script key %q", s.Key))
		}
		seen[s.Key] = true
		errs = append(errs, s.validate())
	}
	if err := multierr.Combine(errs...); err != nil {
		return nil, fmt.Errorf("invalid scripts: %w", err)
	}
	return parsed, nil
}

// LoadFile reads scripts from the given YAML file.
func LoadFile(path string) (*ScriptsFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scripts file %s: %w", path, err)
	}
	f, err := Unmarshal(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to load scripts file %s: %w", path, err)
	}
	return f, nil
}
