package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const personYAML = `
model: person
fields:
  name: { type: string, required: true }
  age:  { type: integer, default: 18 }
`

const parentYAML = `
model: parent
extends: person
meta: { strict_constructor: true }
fields:
  child: { type: model, to: person }
`

func writeDefinitions(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("MODELKIT_OUTPUT_COMPACT", "true")
	t.Setenv("MODELKIT_LOG_LEVEL", "error")

	resetFlags()
	t.Cleanup(resetFlags)

	var out bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "none.yaml")}, args...))

	err := rootCmd.Execute()
	return out.String(), err
}

// resetFlags restores the global flag values so one command line does not
// leak into the next.
func resetFlags() {
	cfgFile = "modelkit.yaml"
	definitionsDir = ""
	outputFormat = ""
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "modelkit dev")
}

func TestCheck_Valid(t *testing.T) {
	dir := writeDefinitions(t, map[string]string{"person.yaml": personYAML})

	out, err := execute(t, `{"name": "Tester", "age": "100"}`, "check", "person", "-d", dir, "-o", "json")
	require.NoError(t, err)
	assert.Equal(t, `{"model":"person","data":{"name":"Tester","age":100}}`+"\n", out)
}

func TestCheck_DefaultsDumped(t *testing.T) {
	dir := writeDefinitions(t, map[string]string{"person.yaml": personYAML})

	out, err := execute(t, "name: Tester\n", "check", "person", "-d", dir, "-o", "json")
	require.NoError(t, err)
	assert.Equal(t, `{"model":"person","data":{"name":"Tester","age":18}}`+"\n", out)
}

func TestCheck_Invalid(t *testing.T) {
	dir := writeDefinitions(t, map[string]string{"person.yaml": personYAML})

	out, err := execute(t, `{"age": 3}`, "check", "person", "-d", dir, "-o", "json")
	require.ErrorIs(t, err, errInvalid)
	assert.Equal(t, `{"errors":{"name":["Missing data for required field."]},"model":"person"}`+"\n", out)
}

func TestCheck_Sequence(t *testing.T) {
	dir := writeDefinitions(t, map[string]string{"person.yaml": personYAML})

	input := "- {name: A, age: 1}\n- {age: 2}\n- {name: C}\n"
	out, err := execute(t, input, "check", "person", "-d", dir, "-o", "json")
	require.ErrorIs(t, err, errInvalid)
	assert.Contains(t, err.Error(), "1 of 3 person record(s) failed")

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], `"errors"`)
}

func TestCheck_StrictConstructor(t *testing.T) {
	dir := writeDefinitions(t, map[string]string{"person.yaml": personYAML, "parent.yaml": parentYAML})

	out, err := execute(t, `{"name": "P", "age": "old"}`, "check", "parent", "-d", dir, "-o", "json")
	require.ErrorIs(t, err, errInvalid)
	assert.Contains(t, out, `"error"`)
	assert.Contains(t, out, "age")
}

func TestCheck_FromFile(t *testing.T) {
	dir := writeDefinitions(t, map[string]string{"person.yaml": personYAML})
	path := filepath.Join(t.TempDir(), "record.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: Tester\nage: 5\n"), 0o644))

	out, err := execute(t, "", "check", "person", path, "-d", dir, "-o", "table")
	require.NoError(t, err)
	assert.Contains(t, out, "Name:")
	assert.Contains(t, out, "Tester")
}

func TestCheck_UnknownType(t *testing.T) {
	dir := writeDefinitions(t, map[string]string{"person.yaml": personYAML})

	_, err := execute(t, `{}`, "check", "robot", "-d", dir, "-o", "json")
	assert.ErrorContains(t, err, `unknown type "robot"`)
}

func TestCheck_UnknownFormat(t *testing.T) {
	dir := writeDefinitions(t, map[string]string{"person.yaml": personYAML})

	_, err := execute(t, `{}`, "check", "person", "-d", dir, "-o", "xml")
	assert.ErrorContains(t, err, `unknown format "xml"`)
}

func TestTypes(t *testing.T) {
	dir := writeDefinitions(t, map[string]string{"person.yaml": personYAML, "parent.yaml": parentYAML})

	out, err := execute(t, "", "types", "-d", dir, "-o", "json")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, []string{"NAME", "EXTENDS", "FIELDS", "STRICT", "STRICT", "CONSTRUCTOR"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"parent", "person", "3", "yes", "yes"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"person", "-", "2", "yes", "no"}, strings.Fields(lines[2]))
}

func TestTypesShow(t *testing.T) {
	dir := writeDefinitions(t, map[string]string{"person.yaml": personYAML, "parent.yaml": parentYAML})

	out, err := execute(t, "", "types", "show", "parent", "-d", dir, "-o", "json")
	require.NoError(t, err)

	assert.Contains(t, out, "extends: person")
	assert.Contains(t, out, "model(person)")

	var age []string
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "age") {
			age = strings.Fields(line)
		}
	}
	assert.Equal(t, []string{"age", "integer", "no", "18", "-"}, age)
}

func TestValidate(t *testing.T) {
	dir := writeDefinitions(t, map[string]string{"person.yaml": personYAML, "parent.yaml": parentYAML})

	out, err := execute(t, "", "validate", "-d", dir, "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, "Definitions parse: 2 file(s)")
	assert.Contains(t, out, "Types build: 2 type(s)")
}

func TestValidate_UnknownReference(t *testing.T) {
	dir := writeDefinitions(t, map[string]string{"parent.yaml": parentYAML})

	out, err := execute(t, "", "validate", "-d", dir, "-o", "json")
	require.Error(t, err)
	assert.Contains(t, out, crossMark+" References resolve")
}
