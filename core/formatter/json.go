package formatter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// JSONFormatter formats output as JSON with record keys in column order.
type JSONFormatter struct{}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Name returns the formatter name.
func (f *JSONFormatter) Name() string {
	return "json"
}

// Description returns the formatter description.
func (f *JSONFormatter) Description() string {
	return "JSON output format"
}

// FormatRecord formats a single record as JSON.
func (f *JSONFormatter) FormatRecord(w io.Writer, record map[string]any, opts FormatOptions) error {
	body, err := marshalOrdered(record, orderKeys(record, opts.Columns))
	if err != nil {
		return err
	}

	if opts.Model != "" {
		model, _ := json.Marshal(opts.Model)
		var buf bytes.Buffer
		buf.WriteString(`{"model":`)
		buf.Write(model)
		buf.WriteString(`,"data":`)
		buf.Write(body)
		buf.WriteByte('}')
		body = buf.Bytes()
	}

	return f.write(w, body, opts.Compact)
}

// FormatErrors formats a field error map as JSON.
func (f *JSONFormatter) FormatErrors(w io.Writer, errs map[string][]string, opts FormatOptions) error {
	output := map[string]any{"errors": errs}
	if opts.Model != "" {
		output["model"] = opts.Model
	}
	body, err := json.Marshal(output)
	if err != nil {
		return err
	}
	return f.write(w, body, opts.Compact)
}

// FormatError formats an error as JSON.
func (f *JSONFormatter) FormatError(w io.Writer, err error) error {
	body, mErr := json.Marshal(map[string]any{"error": err.Error()})
	if mErr != nil {
		return mErr
	}
	return f.write(w, body, false)
}

func (f *JSONFormatter) write(w io.Writer, compact []byte, keepCompact bool) error {
	var buf bytes.Buffer
	if keepCompact {
		buf.Write(compact)
	} else if err := json.Indent(&buf, compact, "", "  "); err != nil {
		return err
	}
	buf.WriteByte('\n')
	_, err := w.Write(buf.Bytes())
	return err
}

// marshalOrdered encodes record as a JSON object with keys in the given order.
func marshalOrdered(record map[string]any, keys []string) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(record[k])
		if err != nil {
			return nil, fmt.Errorf("encode %q: %w", k, err)
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func init() {
	if err := Register(NewJSONFormatter()); err != nil {
		fmt.Printf("failed to register json formatter: %v\n", err)
	}
}
