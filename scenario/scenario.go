// Package scenario replays scripted sessions against a scroller attached to
// a terminal list, without a terminal. Scenarios are YAML:
//
//	name: downward shift
//	strategy: summation
//	rows: [40, 40, 40, {height: 5, row: false}, 50]
//	steps:
//	  - set: {pageShiftSize: "3"}
//	  - set: {recalculate: "1"}
//	  - flush: 1
//	  - scroll: 500
//	  - remove_first: 3
//	  - set: {shift: '{"direction":"down"}'}
//	  - flush: 1
//	  - expect: {scrollTop: 380, pending: null}
//
// Attribute writes inside one set step apply in file order.
package scenario

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario is one scripted session.
type Scenario struct {
	Name     string    `yaml:"name"`
	Strategy string    `yaml:"strategy"`
	Marker   string    `yaml:"marker"`
	Viewport int       `yaml:"viewport"`
	Gap      int       `yaml:"gap"`
	Rows     []RowSpec `yaml:"rows"`
	Steps    []Step    `yaml:"steps"`
}

// RowSpec is a list child. In YAML it is either a bare height (a marked row)
// or a mapping {height: n, row: false}.
type RowSpec struct {
	Height int
	Row    bool
}

func (r *RowSpec) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode {
		r.Row = true
		return n.Decode(&r.Height)
	}
	var raw struct {
		Height int   `yaml:"height"`
		Row    *bool `yaml:"row"`
	}
	if err := n.Decode(&raw); err != nil {
		return err
	}
	r.Height = raw.Height
	r.Row = raw.Row == nil || *raw.Row
	return nil
}

// Step is one action. Exactly one field should be set.
type Step struct {
	Set         Attrs     `yaml:"set"`
	Remove      string    `yaml:"remove"`
	Flush       *int      `yaml:"flush"`
	Scroll      *int      `yaml:"scroll"`
	RemoveFirst int       `yaml:"remove_first"`
	RemoveLast  int       `yaml:"remove_last"`
	Append      []RowSpec `yaml:"append"`
	Prepend     []RowSpec `yaml:"prepend"`
	Detach      bool      `yaml:"detach"`
	Attach      bool      `yaml:"attach"`
	Expect      *Expect   `yaml:"expect"`
}

// Attr is one attribute write.
type Attr struct {
	Name, Value string
}

// Attrs keeps the mapping order of a set step.
type Attrs []Attr

func (a *Attrs) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: set wants a mapping", n.Line)
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		*a = append(*a, Attr{Name: n.Content[i].Value, Value: n.Content[i+1].Value})
	}
	return nil
}

// Expect checks the state after the preceding steps. Unset fields are not
// checked.
type Expect struct {
	ScrollTop   *int   `yaml:"scrollTop"`
	ScrollPos   *int   `yaml:"scrollPos"`
	AboveHeight Maybe  `yaml:"aboveHeight"`
	Pending     Maybe  `yaml:"pending"`
	Queued      *int   `yaml:"queued"`
	Phase       string `yaml:"phase"`
}

func (e *Expect) UnmarshalYAML(n *yaml.Node) error {
	type plain Expect
	if err := n.Decode((*plain)(e)); err != nil {
		return err
	}
	// yaml skips unmarshalers for null values, so "unset" is read here.
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i+1].ShortTag() != "!!null" {
			continue
		}
		switch n.Content[i].Value {
		case "aboveHeight":
			e.AboveHeight = Maybe{Given: true, Null: true}
		case "pending":
			e.Pending = Maybe{Given: true, Null: true}
		}
	}
	return nil
}

// Maybe is an optional expectation that can also demand "unset" with null.
type Maybe struct {
	Given bool
	Null  bool
	Value int
}

func (m *Maybe) UnmarshalYAML(n *yaml.Node) error {
	m.Given = true
	return n.Decode(&m.Value)
}

// Parse decodes a scenario.
func Parse(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if sc.Viewport <= 0 {
		sc.Viewport = 10
	}
	return &sc, nil
}

// Load reads and decodes a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	sc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if sc.Name == "" {
		sc.Name = path
	}
	return sc, nil
}
