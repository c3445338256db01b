package modelio

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/katalvlaran/specmodel/model"
	"github.com/katalvlaran/specmodel/registry"
)

// modelVar is the name the model is bound to in written files.
const modelVar = "model1"

// Serializer writes composite models as python-shaped text.
// It holds no mutable state and is safe for concurrent use.
type Serializer struct {
	reg *registry.Registry
}

// NewSerializer returns a serializer restricted to the kinds of reg;
// nil selects registry.Default().
func NewSerializer(reg *registry.Registry) *Serializer {
	if reg == nil {
		reg = registry.Default()
	}
	return &Serializer{reg: reg}
}

// Serialize writes m with the default registry.
func Serialize(m *model.Composite) ([]byte, error) {
	return NewSerializer(nil).Serialize(m)
}

// Serialize renders m. Ties are resolved on a copy first, so the written
// values of tied parameters agree with their expressions.
//
// Errors:
//   - ErrEmptyModel           - m has no components.
//   - registry.ErrUnknownKind - a component kind is not in the registry.
//   - model.ErrTieCycle, model.ErrDanglingTie from resolution.
func (s *Serializer) Serialize(m *model.Composite) ([]byte, error) {
	if m == nil || m.Len() == 0 {
		return nil, ErrEmptyModel
	}
	snap := m.Clone()
	if err := snap.ResolveTies(); err != nil {
		return nil, fmt.Errorf("modelio: serialize: %w", err)
	}
	comps := snap.Components()
	if len(comps) == 0 {
		return nil, ErrEmptyModel
	}

	var buf bytes.Buffer
	seen := make(map[registry.Kind]bool, len(comps))
	for _, c := range comps {
		if !s.reg.Has(c.Kind) {
			return nil, fmt.Errorf("modelio: serialize: %w: %s", registry.ErrUnknownKind, c.Kind)
		}
		if seen[c.Kind] {
			continue
		}
		seen[c.Kind] = true
		fmt.Fprintf(&buf, "from %s import %s\n", c.Kind.Module(), c.Kind)
	}
	buf.WriteString("\n" + modelVar + " = \\\n")

	for i, c := range comps {
		if i > 0 {
			buf.WriteString(" + \\\n")
		}
		writeComponent(&buf, c)
	}
	buf.WriteByte('\n')

	return buf.Bytes(), nil
}

// writeComponent emits one kind call, arguments aligned under the
// opening parenthesis, without a trailing newline.
func writeComponent(buf *bytes.Buffer, c *model.Component) {
	kind := c.Kind.String()
	indent := strings.Repeat(" ", len(kind)+1)

	buf.WriteString(kind + "(")
	if c.Name != "" {
		buf.WriteString("name=" + quote(c.Name) + ",\n")
	} else {
		buf.WriteString("\n")
	}

	for _, p := range c.Params {
		fmt.Fprintf(buf, "%s%s = %s,\n", indent, p.Name, formatFloat(p.Value))
	}

	entries := make([]string, len(c.Params))
	for i, p := range c.Params {
		entries[i] = fmt.Sprintf("'%s': (%s, %s)", p.Name, bound(p.Bounds.Min), bound(p.Bounds.Max))
	}
	fmt.Fprintf(buf, "%sbounds = {%s},\n", indent, strings.Join(entries, ", "))

	for i, p := range c.Params {
		entries[i] = fmt.Sprintf("'%s': %s", p.Name, pyBool(p.Fixed))
	}
	fmt.Fprintf(buf, "%sfixed = {%s},\n", indent, strings.Join(entries, ", "))

	for i, p := range c.Params {
		entries[i] = fmt.Sprintf("'%s': %s", p.Name, tieExpr(p.Tied))
	}
	fmt.Fprintf(buf, "%stied = {%s},\n", indent, strings.Join(entries, ", "))

	buf.WriteString(indent + ")")
}

func bound(v *float64) string {
	if v == nil {
		return "None"
	}
	return formatFloat(*v)
}

func pyBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

// tieExpr renders "lambda m: <factor> * m[<target>].<param>", or False.
func tieExpr(t *model.Tie) string {
	if t == nil {
		return "False"
	}
	return "lambda m: " + formatFloat(t.Factor) + " * m[" + strconv.Itoa(t.Target) + "]." + t.Param
}
