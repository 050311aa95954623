package schemas

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bookSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["title"],
  "properties": {
    "title": {"type": "string", "minLength": 1},
    "year": {"type": "integer"}
  }
}`

func TestValidateJSONString_Valid(t *testing.T) {
	err := ValidateJSONString(bookSchema, `{"title": "Dune", "year": 1965}`)

	assert.NoError(t, err)
}

func TestValidateJSONString_MissingRequiredField(t *testing.T) {
	err := ValidateJSONString(bookSchema, `{"year": 1965}`)

	require.Error(t, err)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Len(t, validationErr.Errors, 1)
	assert.Equal(t, "(root)", validationErr.Errors[0].Field)
	assert.Contains(t, validationErr.Errors[0].Message, "title")
}

func TestValidateJSONString_WrongType(t *testing.T) {
	err := ValidateJSONString(bookSchema, `{"title": "Dune", "year": "nineteen sixty-five"}`)

	require.Error(t, err)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "year", validationErr.Errors[0].Field)
}

func TestValidateJSONString_BrokenSchema(t *testing.T) {
	err := ValidateJSONString(`{"type": [not json`, `{}`)

	require.Error(t, err)
	var loadErr *SchemaLoadError
	assert.ErrorAs(t, err, &loadErr)
}

func TestValidationError_FormatsAllErrors(t *testing.T) {
	ve := &ValidationError{Errors: []FieldError{
		{Field: "title", Message: "is required"},
		{Field: "year", Message: "must be an integer"},
	}}

	msg := ve.Error()

	assert.Contains(t, msg, "1. title: is required")
	assert.Contains(t, msg, "2. year: must be an integer")
}

func TestValidateJSON_Files(t *testing.T) {
	dir := t.TempDir()
	schemaPath := filepath.Join(dir, "book.schema.json")
	docPath := filepath.Join(dir, "book.json")
	require.NoError(t, os.WriteFile(schemaPath, []byte(bookSchema), 0o644))
	require.NoError(t, os.WriteFile(docPath, []byte(`{"title": "Dune"}`), 0o644))

	assert.NoError(t, ValidateJSON(schemaPath, docPath))
}

func TestValidateJSON_MissingFiles(t *testing.T) {
	dir := t.TempDir()
	schemaPath := filepath.Join(dir, "book.schema.json")
	require.NoError(t, os.WriteFile(schemaPath, []byte(bookSchema), 0o644))

	err := ValidateJSON(schemaPath, filepath.Join(dir, "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JSON file not found")

	err = ValidateJSON(filepath.Join(dir, "missing.schema.json"), schemaPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema file not found")
}

func TestResolveSchemaPath_FindsExistingFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "x.schema.json"), []byte("{}"), 0o644))

	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(cwd) })

	resolved := ResolveSchemaPath("x.schema.json")
	assert.NotEmpty(t, resolved)

	assert.Empty(t, ResolveSchemaPath("definitely-not-there.schema.json"))
}
