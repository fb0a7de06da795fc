package output

import (
	"io"

	"github.com/goccy/go-yaml"
	"github.com/naclports/naclports/internal/domain/presubmit"
)

// YAMLFormatter formats gate results as YAML.
type YAMLFormatter struct {
	writer io.Writer
}

// NewYAMLFormatter creates a new YAML formatter.
func NewYAMLFormatter(w io.Writer) *YAMLFormatter {
	return &YAMLFormatter{writer: w}
}

// Format writes the gate result as YAML.
func (f *YAMLFormatter) Format(result *presubmit.GateResult) error {
	encoder := yaml.NewEncoder(f.writer, yaml.Indent(2))

	if err := encoder.Encode(result); err != nil {
		return err
	}

	return encoder.Close()
}
