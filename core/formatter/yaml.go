package formatter

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// YAMLFormatter formats output as YAML with record keys in column order.
type YAMLFormatter struct{}

// NewYAMLFormatter creates a new YAML formatter.
func NewYAMLFormatter() *YAMLFormatter {
	return &YAMLFormatter{}
}

// Name returns the formatter name.
func (f *YAMLFormatter) Name() string {
	return "yaml"
}

// Description returns the formatter description.
func (f *YAMLFormatter) Description() string {
	return "YAML output format"
}

// FormatRecord formats a single record as YAML.
func (f *YAMLFormatter) FormatRecord(w io.Writer, record map[string]any, opts FormatOptions) error {
	body, err := orderedNode(record, orderKeys(record, opts.Columns))
	if err != nil {
		return err
	}

	if opts.Model != "" {
		body = &yaml.Node{
			Kind: yaml.MappingNode,
			Content: []*yaml.Node{
				scalar("model"), scalar(opts.Model),
				scalar("data"), body,
			},
		}
	}

	return f.encode(w, body)
}

// FormatErrors formats a field error map as YAML.
func (f *YAMLFormatter) FormatErrors(w io.Writer, errs map[string][]string, opts FormatOptions) error {
	output := map[string]any{"errors": errs}
	if opts.Model != "" {
		output["model"] = opts.Model
	}
	return f.encode(w, output)
}

// FormatError formats an error as YAML.
func (f *YAMLFormatter) FormatError(w io.Writer, err error) error {
	output := map[string]any{
		"error": err.Error(),
	}
	return f.encode(w, output)
}

// encode writes YAML to the writer.
func (f *YAMLFormatter) encode(w io.Writer, data any) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()
	return encoder.Encode(data)
}

func orderedNode(record map[string]any, keys []string) (*yaml.Node, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, k := range keys {
		value := &yaml.Node{}
		if err := value.Encode(record[k]); err != nil {
			return nil, fmt.Errorf("encode %q: %w", k, err)
		}
		node.Content = append(node.Content, scalar(k), value)
	}
	return node, nil
}

func scalar(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

func init() {
	if err := Register(NewYAMLFormatter()); err != nil {
		fmt.Printf("failed to register yaml formatter: %v\n", err)
	}
}
