// Package catalog holds control definitions: the embedded built-in
// catalog plus organization-supplied catalog files.
//
// Built-in controls ship as YAML compiled into the binary. Additional
// catalog files are validated against a CUE schema before any control
// is accepted, so a malformed file can never half-load.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/veriflowhq/veriflow/internal/model"
)

//go:embed builtin.yaml
var builtinYAML []byte

// controlFile mirrors the YAML catalog file layout.
type controlFile struct {
	Controls []controlDef `yaml:"controls"`
}

type controlDef struct {
	ID          string       `yaml:"id"`
	Title       string       `yaml:"title"`
	Description string       `yaml:"description"`
	Domain      string       `yaml:"domain"`
	Risk        string       `yaml:"risk"`
	Mappings    []mappingDef `yaml:"mappings"`
}

type mappingDef struct {
	FrameworkID string `yaml:"framework_id"`
	ClauseID    string `yaml:"clause_id"`
	ClauseTitle string `yaml:"clause_title"`
}

// Catalog is an immutable set of built-in control definitions.
// Custom controls are organization state, not catalog state; combine
// the two views with WithCustom.
type Catalog struct {
	controls []model.Control
	byID     map[string]model.Control
}

// New loads the embedded built-in catalog.
func New() (*Catalog, error) {
	c := &Catalog{byID: make(map[string]model.Control)}
	if err := c.addYAML(builtinYAML, "builtin.yaml"); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadFile validates and appends a catalog file. The file is checked
// against the CUE schema first; on any violation nothing is loaded.
func (c *Catalog) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("catalog: read %s: %w", path, err)
	}
	return c.addYAML(data, path)
}

func (c *Catalog) addYAML(data []byte, source string) error {
	if err := ValidateYAML(data, source); err != nil {
		return err
	}
	var file controlFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("catalog: parse %s: %w", source, err)
	}
	for _, def := range file.Controls {
		if _, dup := c.byID[def.ID]; dup {
			return fmt.Errorf("catalog: %s: duplicate control id %q", source, def.ID)
		}
		ctrl := model.Control{
			ID:          def.ID,
			Title:       def.Title,
			Description: def.Description,
			Domain:      def.Domain,
			Risk:        model.RiskLevel(def.Risk),
		}
		for _, m := range def.Mappings {
			ctrl.Mappings = append(ctrl.Mappings, model.FrameworkMapping{
				FrameworkID: m.FrameworkID,
				ClauseID:    m.ClauseID,
				ClauseTitle: m.ClauseTitle,
			})
		}
		c.controls = append(c.controls, ctrl)
		c.byID[ctrl.ID] = ctrl
	}
	return nil
}

// Controls returns the built-in controls in catalog order.
func (c *Catalog) Controls() []model.Control {
	out := make([]model.Control, len(c.controls))
	copy(out, c.controls)
	return out
}

// ByID returns the built-in control with the given id.
func (c *Catalog) ByID(id string) (model.Control, bool) {
	ctrl, ok := c.byID[id]
	return ctrl, ok
}

// WithCustom returns built-in controls plus active custom controls.
// Soft-deleted custom controls are excluded.
func (c *Catalog) WithCustom(customs []model.CustomControl) []model.Control {
	out := c.Controls()
	for _, cc := range customs {
		if cc.IsActive {
			out = append(out, cc.Control())
		}
	}
	return out
}

// Domains returns the distinct domains across the given controls,
// sorted.
func Domains(controls []model.Control) []string {
	seen := make(map[string]bool)
	var out []string
	for _, ctrl := range controls {
		if !seen[ctrl.Domain] {
			seen[ctrl.Domain] = true
			out = append(out, ctrl.Domain)
		}
	}
	sort.Strings(out)
	return out
}

// Frameworks returns the distinct framework ids mapped across the
// given controls, sorted.
func Frameworks(controls []model.Control) []string {
	seen := make(map[string]bool)
	var out []string
	for _, ctrl := range controls {
		for _, m := range ctrl.Mappings {
			if !seen[m.FrameworkID] {
				seen[m.FrameworkID] = true
				out = append(out, m.FrameworkID)
			}
		}
	}
	sort.Strings(out)
	return out
}

// ByDomain filters controls to one domain, preserving order.
func ByDomain(controls []model.Control, domain string) []model.Control {
	var out []model.Control
	for _, ctrl := range controls {
		if ctrl.Domain == domain {
			out = append(out, ctrl)
		}
	}
	return out
}
