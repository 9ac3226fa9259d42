// Package openapi derives renderable form definitions from OpenAPI documents.
// An operation's JSON request body schema maps onto a component tree: scalar
// properties become input components, nested objects become panels, and
// constraints carry over into component validation.
package openapi

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formhost/pkg/formio"
)

// Document wraps a parsed OpenAPI specification.
type Document struct {
	spec *openapi3.T
}

// Operation is a summary of one buildable operation in a document.
type Operation struct {
	ID      string
	Method  string
	Path    string
	Summary string
}

// Load parses an OpenAPI document from raw JSON or YAML bytes.
func Load(ctx context.Context, raw []byte) (*Document, error) {
	if len(raw) == 0 {
		return nil, errors.New("openapi: document payload is empty")
	}
	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	return &Document{spec: spec}, nil
}

// LoadFile parses an OpenAPI document from a JSON or YAML file on disk.
func LoadFile(ctx context.Context, path string) (*Document, error) {
	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("openapi: load %s: %w", path, err)
	}
	return &Document{spec: spec}, nil
}

// Operations lists the operations that carry a JSON request body, sorted by
// operation ID. Operations without an explicit operationId get a synthetic
// method:path one.
func (d *Document) Operations() []Operation {
	var out []Operation
	if d.spec == nil || d.spec.Paths == nil {
		return out
	}
	for path, item := range d.spec.Paths.Map() {
		if item == nil {
			continue
		}
		for method, op := range item.Operations() {
			if requestSchema(op) == nil {
				continue
			}
			out = append(out, Operation{
				ID:      operationID(method, path, op),
				Method:  method,
				Path:    path,
				Summary: op.Summary,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// BuildForm converts the request body schema of the named operation into a
// form definition. The operation is matched by operationId, falling back to
// the synthetic method:path identifier.
func (d *Document) BuildForm(operationID string) (*formio.Form, error) {
	op, err := d.findOperation(operationID)
	if err != nil {
		return nil, err
	}
	schema := requestSchema(op)
	if schema == nil {
		return nil, fmt.Errorf("openapi: operation %q has no JSON request body", operationID)
	}
	value := schema.Value
	if value == nil {
		return nil, fmt.Errorf("openapi: operation %q request schema is unresolved", operationID)
	}
	if !value.Type.Is(openapi3.TypeObject) && len(value.Properties) == 0 {
		return nil, fmt.Errorf("openapi: operation %q request body is not an object", operationID)
	}

	form := &formio.Form{
		Title:      formTitle(op, operationID),
		Name:       formName(operationID),
		Path:       formName(operationID),
		Type:       "form",
		Display:    "form",
		Components: objectComponents(value),
	}
	form.Components = append(form.Components, formio.Component{
		Type:  formio.TypeButton,
		Key:   "submit",
		Label: "Submit",
		Input: true,
	})
	return form, nil
}

func (d *Document) findOperation(id string) (*openapi3.Operation, error) {
	if d.spec == nil || d.spec.Paths == nil {
		return nil, errors.New("openapi: document has no paths")
	}
	for path, item := range d.spec.Paths.Map() {
		if item == nil {
			continue
		}
		for method, op := range item.Operations() {
			if operationID(method, path, op) == id {
				return op, nil
			}
		}
	}
	return nil, fmt.Errorf("openapi: operation %q not found", id)
}

func operationID(method, path string, op *openapi3.Operation) string {
	if op.OperationID != "" {
		return op.OperationID
	}
	return strings.ToLower(method) + ":" + path
}

func requestSchema(op *openapi3.Operation) *openapi3.SchemaRef {
	if op == nil || op.RequestBody == nil || op.RequestBody.Value == nil {
		return nil
	}
	content := op.RequestBody.Value.Content
	for _, mediaType := range []string{"application/json", "application/x-www-form-urlencoded"} {
		if mt, ok := content[mediaType]; ok && mt.Schema != nil {
			return mt.Schema
		}
	}
	return nil
}

// objectComponents converts an object schema's properties, in sorted property
// order so generated forms are stable across runs.
func objectComponents(schema *openapi3.Schema) []formio.Component {
	names := make([]string, 0, len(schema.Properties))
	for name := range schema.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	required := make(map[string]bool, len(schema.Required))
	for _, name := range schema.Required {
		required[name] = true
	}

	out := make([]formio.Component, 0, len(names))
	for _, name := range names {
		ref := schema.Properties[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		out = append(out, buildComponent(name, ref.Value, required[name]))
	}
	return out
}

func buildComponent(key string, schema *openapi3.Schema, required bool) formio.Component {
	c := formio.Component{
		Key:         key,
		Label:       labelFor(key, schema),
		Input:       true,
		Description: schema.Description,
		TableView:   true,
	}
	if schema.Default != nil {
		c.DefaultValue = schema.Default
	}

	switch {
	case len(schema.Enum) > 0:
		c.Type = formio.TypeSelect
		c.Data = selectData(schema.Enum)
	case schema.Type.Is(openapi3.TypeBoolean):
		c.Type = formio.TypeCheckbox
		c.TableView = false
	case schema.Type.Is(openapi3.TypeNumber) || schema.Type.Is(openapi3.TypeInteger):
		c.Type = formio.TypeNumber
	case schema.Type.Is(openapi3.TypeObject):
		c.Type = formio.TypePanel
		c.Input = false
		c.TableView = false
		c.Components = objectComponents(schema)
	case schema.Type.Is(openapi3.TypeArray):
		c.Type = formio.TypeSelect
		c.Multiple = true
		if schema.Items != nil && schema.Items.Value != nil && len(schema.Items.Value.Enum) > 0 {
			c.Data = selectData(schema.Items.Value.Enum)
		}
	default:
		c.Type = stringComponentType(schema)
	}

	if v := buildValidation(schema, required); v != nil {
		c.Validate = v
	}
	return c
}

func stringComponentType(schema *openapi3.Schema) string {
	switch schema.Format {
	case "email":
		return formio.TypeEmail
	case "date", "date-time":
		return formio.TypeDateTime
	default:
		if schema.MaxLength != nil && *schema.MaxLength > 200 {
			return formio.TypeTextArea
		}
		return formio.TypeTextField
	}
}

func buildValidation(schema *openapi3.Schema, required bool) *formio.Validation {
	v := &formio.Validation{Required: required}
	populated := required

	if schema.MinLength != 0 {
		v.MinLength = int(schema.MinLength)
		populated = true
	}
	if schema.MaxLength != nil {
		v.MaxLength = int(*schema.MaxLength)
		populated = true
	}
	if schema.Pattern != "" {
		v.Pattern = schema.Pattern
		populated = true
	}
	if schema.Min != nil {
		value := *schema.Min
		v.Min = &value
		populated = true
	}
	if schema.Max != nil {
		value := *schema.Max
		v.Max = &value
		populated = true
	}
	if !populated {
		return nil
	}
	return v
}

func selectData(enum []any) *formio.SelectData {
	values := make([]formio.SelectValue, 0, len(enum))
	for _, item := range enum {
		values = append(values, formio.SelectValue{
			Label: labelFromToken(fmt.Sprintf("%v", item)),
			Value: item,
		})
	}
	return &formio.SelectData{Values: values}
}

func labelFor(key string, schema *openapi3.Schema) string {
	if schema.Title != "" {
		return schema.Title
	}
	return labelFromToken(key)
}

// labelFromToken turns a camelCase or snake_case property name into a
// human-readable label.
func labelFromToken(token string) string {
	if token == "" {
		return token
	}
	var b strings.Builder
	runes := []rune(token)
	for i, r := range runes {
		switch {
		case r == '_' || r == '-':
			b.WriteRune(' ')
		case i > 0 && r >= 'A' && r <= 'Z' && runes[i-1] >= 'a' && runes[i-1] <= 'z':
			b.WriteRune(' ')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	label := b.String()
	return strings.ToUpper(label[:1]) + label[1:]
}

func formName(operationID string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '-'
		}
	}, operationID)
	name = strings.Trim(name, "-")
	if name == "" {
		name = url.PathEscape(operationID)
	}
	return name
}

func formTitle(op *openapi3.Operation, operationID string) string {
	if op.Summary != "" {
		return op.Summary
	}
	return labelFromToken(operationID)
}
