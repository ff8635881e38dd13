package formatter

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func testRecord() map[string]any {
	return map[string]any{
		"name":      "Alice",
		"age":       30,
		"email":     "alice@example.com",
		"is_active": true,
	}
}

var testColumns = []string{"name", "email", "age"}

// ===========================================
// Registry Tests
// ===========================================

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	require.NotNil(t, r)
	assert.Equal(t, "json", r.defaultFmt)
	assert.Nil(t, r.Default())
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(NewJSONFormatter()))

	err := r.Register(NewJSONFormatter())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}

func TestRegistry_Lookup(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(NewYAMLFormatter()))

	f, err := r.Lookup("yaml")
	require.NoError(t, err)
	assert.Equal(t, "yaml", f.Name())

	_, err = r.Lookup("xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown format "xml"`)
}

func TestRegistry_Default_Fallback(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(NewTableFormatter()))

	f := r.Default()
	require.NotNil(t, f)
	assert.Equal(t, "table", f.Name())
}

func TestRegistry_SetDefault(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(NewJSONFormatter()))
	require.NoError(t, r.Register(NewTableFormatter()))

	require.NoError(t, r.SetDefault("table"))
	assert.Equal(t, "table", r.Default().Name())
	assert.Error(t, r.SetDefault("xml"))
}

func TestGlobalFunctions(t *testing.T) {
	assert.Equal(t, []string{"json", "table", "yaml"}, List())
	assert.Equal(t, "json", Default().Name())

	_, ok := Get("table")
	assert.True(t, ok)
	_, err := Lookup("csv")
	assert.Error(t, err)
}

func TestOrderKeys(t *testing.T) {
	keys := orderKeys(testRecord(), []string{"name", "missing", "email", "name"})
	assert.Equal(t, []string{"name", "email", "age", "is_active"}, keys)

	assert.Equal(t, []string{"age", "email", "is_active", "name"}, orderKeys(testRecord(), nil))
	assert.Empty(t, orderKeys(map[string]any{}, testColumns))
}

// ===========================================
// JSON Formatter Tests
// ===========================================

func TestJSONFormatter_FormatRecord_Order(t *testing.T) {
	var buf bytes.Buffer
	f := NewJSONFormatter()

	err := f.FormatRecord(&buf, testRecord(), FormatOptions{Columns: testColumns, Compact: true})
	require.NoError(t, err)
	assert.Equal(t, `{"name":"Alice","email":"alice@example.com","age":30,"is_active":true}`+"\n", buf.String())
}

func TestJSONFormatter_FormatRecord_Indented(t *testing.T) {
	var buf bytes.Buffer
	err := NewJSONFormatter().FormatRecord(&buf, map[string]any{"a": 1}, FormatOptions{})
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": 1\n}\n", buf.String())
}

func TestJSONFormatter_FormatRecord_Nested(t *testing.T) {
	var buf bytes.Buffer
	record := map[string]any{"child": map[string]any{"name": "x"}, "tags": []string{"a"}}
	require.NoError(t, NewJSONFormatter().FormatRecord(&buf, record, FormatOptions{}))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, map[string]any{"name": "x"}, decoded["child"])
	assert.Equal(t, []any{"a"}, decoded["tags"])
}

func TestJSONFormatter_FormatRecord_Model(t *testing.T) {
	var buf bytes.Buffer
	err := NewJSONFormatter().FormatRecord(&buf, map[string]any{"a": 1}, FormatOptions{Model: "Widget", Compact: true})
	require.NoError(t, err)
	assert.Equal(t, `{"model":"Widget","data":{"a":1}}`+"\n", buf.String())
}

func TestJSONFormatter_FormatRecord_Unencodable(t *testing.T) {
	var buf bytes.Buffer
	err := NewJSONFormatter().FormatRecord(&buf, map[string]any{"ch": make(chan int)}, FormatOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"ch"`)
}

func TestJSONFormatter_FormatErrors(t *testing.T) {
	var buf bytes.Buffer
	errs := map[string][]string{"name": {"Missing data for required field."}}
	require.NoError(t, NewJSONFormatter().FormatErrors(&buf, errs, FormatOptions{Model: "Widget"}))

	var decoded struct {
		Model  string              `json:"model"`
		Errors map[string][]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "Widget", decoded.Model)
	assert.Equal(t, errs, decoded.Errors)
}

func TestJSONFormatter_FormatError(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONFormatter().FormatError(&buf, errors.New("boom")))
	assert.Contains(t, buf.String(), `"error": "boom"`)
}

// ===========================================
// YAML Formatter Tests
// ===========================================

func TestYAMLFormatter_FormatRecord_Order(t *testing.T) {
	var buf bytes.Buffer
	err := NewYAMLFormatter().FormatRecord(&buf, testRecord(), FormatOptions{Columns: testColumns})
	require.NoError(t, err)
	assert.Equal(t, "name: Alice\nemail: alice@example.com\nage: 30\nis_active: true\n", buf.String())
}

func TestYAMLFormatter_FormatRecord_Model(t *testing.T) {
	var buf bytes.Buffer
	err := NewYAMLFormatter().FormatRecord(&buf, map[string]any{"a": 1}, FormatOptions{Model: "Widget"})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "Widget", decoded["model"])
	assert.Equal(t, map[string]any{"a": 1}, decoded["data"])
}

func TestYAMLFormatter_FormatErrors(t *testing.T) {
	var buf bytes.Buffer
	errs := map[string][]string{"age": {"Not a valid integer."}}
	require.NoError(t, NewYAMLFormatter().FormatErrors(&buf, errs, FormatOptions{}))
	assert.Contains(t, buf.String(), "age:")
	assert.Contains(t, buf.String(), "Not a valid integer.")
}

func TestYAMLFormatter_FormatError(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewYAMLFormatter().FormatError(&buf, errors.New("boom")))
	assert.Equal(t, "error: boom\n", buf.String())
}

// ===========================================
// Table Formatter Tests
// ===========================================

func TestTableFormatter_FormatRecord(t *testing.T) {
	var buf bytes.Buffer
	err := NewTableFormatter().FormatRecord(&buf, testRecord(), FormatOptions{Columns: testColumns, Model: "Person"})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "Person", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "Name:"))
	assert.True(t, strings.HasPrefix(lines[2], "Email:"))
	assert.True(t, strings.HasPrefix(lines[3], "Age:"))
	assert.True(t, strings.HasPrefix(lines[4], "Is Active:"))
	assert.Contains(t, lines[4], "yes")
}

func TestTableFormatter_FormatRecord_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTableFormatter().FormatRecord(&buf, nil, FormatOptions{}))
	assert.Equal(t, "No fields set.\n", buf.String())
}

func TestTableFormatter_FormatErrors(t *testing.T) {
	var buf bytes.Buffer
	errs := map[string][]string{"b": {"one.", "two."}, "a": {"three."}}
	require.NoError(t, NewTableFormatter().FormatErrors(&buf, errs, FormatOptions{}))
	assert.Equal(t, "a:  three.\nb:  one. two.\n", buf.String())

	buf.Reset()
	require.NoError(t, NewTableFormatter().FormatErrors(&buf, nil, FormatOptions{}))
	assert.Equal(t, "No errors.\n", buf.String())
}

func TestTableFormatter_FormatError(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTableFormatter().FormatError(&buf, errors.New("boom")))
	assert.Equal(t, "Error: boom\n", buf.String())
}

func TestTableFormatter_FormatValue(t *testing.T) {
	f := NewTableFormatter()
	tests := []struct {
		name     string
		val      any
		maxWidth int
		want     string
	}{
		{"nil", nil, 0, "-"},
		{"string", "hello", 0, "hello"},
		{"true", true, 0, "yes"},
		{"false", false, 0, "no"},
		{"whole float", 3.0, 0, "3"},
		{"fraction", 3.14159, 0, "3.14"},
		{"int", 42, 0, "42"},
		{"map", map[string]any{"a": 1}, 0, `{"a":1}`},
		{"truncated", "abcdefghij", 6, "abc..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.formatValue(tt.val, tt.maxWidth))
		})
	}
}

func TestTableFormatter_FormatLabel(t *testing.T) {
	f := NewTableFormatter()
	assert.Equal(t, "Name", f.formatLabel("name"))
	assert.Equal(t, "Created At", f.formatLabel("created_at"))
	assert.Equal(t, "A  B", f.formatLabel("a__b"))
}
