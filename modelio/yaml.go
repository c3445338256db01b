package modelio

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/specmodel/model"
)

// documentVersion is the only YAML layout written and accepted.
const documentVersion = 1

type document struct {
	Version    int                 `yaml:"version"`
	Components []componentDocument `yaml:"components"`
}

type componentDocument struct {
	Kind       string              `yaml:"kind"`
	Name       string              `yaml:"name,omitempty"`
	Parameters []parameterDocument `yaml:"parameters"`
}

type parameterDocument struct {
	Name  string       `yaml:"name"`
	Value float64      `yaml:"value"`
	Min   *float64     `yaml:"min,omitempty"`
	Max   *float64     `yaml:"max,omitempty"`
	Fixed bool         `yaml:"fixed,omitempty"`
	Tie   *tieDocument `yaml:"tie,omitempty"`
}

type tieDocument struct {
	Factor float64 `yaml:"factor"`
	Target int     `yaml:"target"`
	Param  string  `yaml:"param"`
}

// MarshalYAML renders m as a versioned YAML document of component records.
func MarshalYAML(m *model.Composite) ([]byte, error) {
	if m == nil || m.Len() == 0 {
		return nil, ErrEmptyModel
	}
	snap := m.Clone()
	if err := snap.ResolveTies(); err != nil {
		return nil, fmt.Errorf("modelio: marshal: %w", err)
	}

	doc := document{Version: documentVersion}
	for _, c := range snap.Components() {
		cd := componentDocument{Kind: c.Kind.String(), Name: c.Name}
		for _, p := range c.Params {
			pd := parameterDocument{
				Name:  p.Name,
				Value: p.Value,
				Min:   p.Bounds.Min,
				Max:   p.Bounds.Max,
				Fixed: p.Fixed,
			}
			if p.Tied != nil {
				pd.Tie = &tieDocument{Factor: p.Tied.Factor, Target: p.Tied.Target, Param: p.Tied.Param}
			}
			cd.Parameters = append(cd.Parameters, pd)
		}
		doc.Components = append(doc.Components, cd)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("modelio: marshal: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("modelio: marshal: %w", err)
	}
	return buf.Bytes(), nil
}

// UnmarshalYAML builds a model from a document written by MarshalYAML.
// Parameters may be listed in any order and omitted ones keep their
// defaults. Every failure is a *ParseError.
func UnmarshalYAML(data []byte, opts ...Option) (*model.Composite, error) {
	return unmarshalYAML("", data, buildOptions(opts))
}

func unmarshalYAML(path string, data []byte, o options) (*model.Composite, error) {
	fail := func(line int, cause error, format string, args ...any) error {
		return &ParseError{Path: path, Line: line, Msg: fmt.Sprintf(format, args...), Err: cause}
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fail(0, err, "yaml")
	}
	if root.Kind == 0 {
		return nil, fail(0, ErrNoModel, "empty document")
	}
	var doc document
	if err := root.Decode(&doc); err != nil {
		return nil, fail(0, err, "yaml")
	}
	if doc.Version != documentVersion {
		return nil, fail(0, ErrUnsupportedVersion, "version %d", doc.Version)
	}
	if len(doc.Components) == 0 {
		return nil, fail(0, ErrNoModel, "no components")
	}

	lines := componentLines(&root)
	comps := make([]*model.Component, 0, len(doc.Components))
	for i, cd := range doc.Components {
		line := 0
		if i < len(lines) {
			line = lines[i]
		}
		kind, err := o.reg.Lookup(cd.Kind)
		if err != nil {
			return nil, fail(line, err, "component %d", i)
		}
		c, err := model.NewComponent(kind, cd.Name)
		if err != nil {
			return nil, fail(line, err, "component %d", i)
		}
		for _, pd := range cd.Parameters {
			p, err := c.Param(pd.Name)
			if err != nil {
				return nil, fail(line, err, "component %d", i)
			}
			p.Value = pd.Value
			p.Bounds = model.Bounds{Min: pd.Min, Max: pd.Max}
			p.Fixed = pd.Fixed
			if pd.Tie != nil {
				p.Tied = &model.Tie{Factor: pd.Tie.Factor, Target: pd.Tie.Target, Param: pd.Tie.Param}
			}
		}
		if err = c.Validate(); err != nil {
			return nil, fail(line, err, "component %d", i)
		}
		comps = append(comps, c)
	}

	m, err := model.FromComponents(comps, model.WithLogger(o.log))
	if err != nil {
		line := 0
		if len(lines) > 0 {
			line = lines[0]
		}
		return nil, fail(line, err, "invalid model")
	}
	return m, nil
}

// componentLines returns the source line of each record under
// "components", for error locations.
func componentLines(root *yaml.Node) []int {
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil
	}
	top := root.Content[0]
	if top.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(top.Content); i += 2 {
		if top.Content[i].Value != "components" {
			continue
		}
		seq := top.Content[i+1]
		if seq.Kind != yaml.SequenceNode {
			return nil
		}
		out := make([]int, len(seq.Content))
		for j, n := range seq.Content {
			out[j] = n.Line
		}
		return out
	}
	return nil
}

