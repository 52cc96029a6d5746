package tool

import (
	"fmt"

	"github.com/fogfish/opts"
	"github.com/invopop/jsonschema"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Definition declares one tool offered to a model. Parameters is the JSON
// schema of the tool's argument object; a nil schema means the tool takes no
// arguments.
type Definition struct {
	Name        string
	Description string
	Parameters  *jsonschema.Schema
}

var reflector = jsonschema.Reflector{
	AllowAdditionalProperties: true,
	DoNotReference:            true,
}

// Option configures a Definition during construction.
type Option = opts.Option[Definition]

// WithDescription sets the tool description shown to the model.
var WithDescription = opts.ForName[Definition, string]("Description")

// WithSchema sets the full parameter schema.
var WithSchema = opts.ForName[Definition, *jsonschema.Schema]("Parameters")

// WithParameter adds one named property to the parameter schema, preserving
// declaration order. Required parameters are marked as such.
func WithParameter(name string, schema *jsonschema.Schema, required bool) Option {
	return opts.Type[Definition](func(d *Definition) error {
		if d.Parameters == nil {
			d.Parameters = emptyObjectSchema()
		}
		if d.Parameters.Properties == nil {
			d.Parameters.Properties = orderedmap.New[string, *jsonschema.Schema]()
		}
		d.Parameters.Properties.Set(name, schema)
		if required {
			d.Parameters.Required = append(d.Parameters.Required, name)
		}
		return nil
	})
}

// WithParametersFor reflects the parameter schema from a Go struct type.
func WithParametersFor[T any]() Option {
	return opts.Type[Definition](func(d *Definition) error {
		var v T
		schema := reflector.Reflect(&v)
		schema.Version = ""
		d.Parameters = schema
		return nil
	})
}

// New builds a tool definition. The name is mandatory.
func New(name string, options ...Option) (Definition, error) {
	if name == "" {
		return Definition{}, fmt.Errorf("tool name cannot be empty")
	}
	def := Definition{Name: name}
	if err := opts.Apply(&def, options); err != nil {
		return Definition{}, err
	}
	return def, nil
}

// Must is New, panicking on error. Intended for package-level declarations.
func Must(name string, options ...Option) Definition {
	def, err := New(name, options...)
	if err != nil {
		panic(err)
	}
	return def
}

// Schema returns the parameter schema, substituting an empty object schema
// when none was declared so vendors always receive a valid schema.
func (d Definition) Schema() *jsonschema.Schema {
	if d.Parameters != nil {
		return d.Parameters
	}
	return emptyObjectSchema()
}

func emptyObjectSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:       "object",
		Properties: orderedmap.New[string, *jsonschema.Schema](),
	}
}
