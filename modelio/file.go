package modelio

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/katalvlaran/specmodel/model"
)

// Format selects the codec of a model file.
type Format int

const (
	// FormatAuto picks YAML for .yaml/.yml paths and text otherwise.
	FormatAuto Format = iota
	// FormatText is the python-shaped text format.
	FormatText
	// FormatYAML is the versioned YAML document.
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatText:
		return "text"
	case FormatYAML:
		return "yaml"
	default:
		return "auto"
	}
}

// ParseFormat maps "text", "yaml" and "auto" (or "") to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return FormatAuto, nil
	case "text", "py", "python":
		return FormatText, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return FormatAuto, fmt.Errorf("modelio: unknown format %q", s)
}

// WithFormat overrides extension-based codec selection.
func WithFormat(f Format) Option {
	return func(o *options) {
		o.format = f
	}
}

// filePerm is the mode of written model files.
const filePerm = 0o644

func resolveFormat(path string, f Format) Format {
	if f != FormatAuto {
		return f
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatText
}

// Encode renders m in format f; FormatAuto means text.
func Encode(m *model.Composite, f Format, opts ...Option) ([]byte, error) {
	o := buildOptions(opts)
	if f == FormatYAML {
		return MarshalYAML(m)
	}
	return NewSerializer(o.reg).Serialize(m)
}

// SaveFile writes m to path. The bytes go to a temporary file in the same
// directory which is then renamed over path, so readers never see a
// partial model.
func SaveFile(path string, m *model.Composite, opts ...Option) error {
	o := buildOptions(opts)
	data, err := Encode(m, resolveFormat(path, o.format), opts...)
	if err != nil {
		return fmt.Errorf("modelio: save %s: %w", path, err)
	}
	if err = writeAtomic(path, data); err != nil {
		return fmt.Errorf("modelio: save %s: %w", path, err)
	}
	o.log.V(1).Info("model saved", "path", path, "components", m.Len(), "bytes", len(data))
	return nil
}

// LoadFile reads a model from path. Parse failures are *ParseError values
// carrying path.
func LoadFile(path string, opts ...Option) (*model.Composite, error) {
	o := buildOptions(opts)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("modelio: load: %w", err)
	}

	var m *model.Composite
	switch resolveFormat(path, o.format) {
	case FormatYAML:
		m, err = unmarshalYAML(path, data, o)
	default:
		m, err = (&Parser{reg: o.reg, log: o.log}).parse(path, data)
	}
	if err != nil {
		return nil, err
	}
	o.log.V(1).Info("model loaded", "path", path, "components", m.Len())
	return m, nil
}

func writeAtomic(dest string, data []byte) error {
	dir := filepath.Dir(dest)
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	_ = os.Chmod(tmpPath, filePerm)

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err = tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err = os.Rename(tmpPath, dest); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	// Best effort: persist the rename.
	if d, err := os.Open(dir); err == nil {
		_ = d.Sync()
		_ = d.Close()
	}
	return nil
}
