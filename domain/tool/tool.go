package tool

import (
	"context"
	"fmt"
)

// Tool is a named operation an external reasoning component can invoke with a
// single string argument.
type Tool interface {
	// Name returns the stable string identifier for the tool.
	Name() string

	// Description returns the usage text shown to the reasoning component.
	Description() string

	// InputSchema returns the JSON Schema of the function-calling envelope.
	InputSchema() Schema

	// Annotations returns the tool's behavioral annotations.
	Annotations() Annotations

	// Invoke runs the tool. It never panics and never fails: every failure is
	// rendered into the returned string.
	Invoke(ctx context.Context, input string) string
}

// Handler is the function signature for tool execution.
type Handler func(ctx context.Context, input string) (string, error)

// Definition is a concrete implementation of Tool.
type Definition struct {
	name        string
	description string
	inputSchema Schema
	annotations Annotations
	handler     Handler
}

// Name returns the tool name.
func (d *Definition) Name() string {
	return d.name
}

// Description returns the tool description.
func (d *Definition) Description() string {
	return d.description
}

// InputSchema returns the input schema.
func (d *Definition) InputSchema() Schema {
	return d.inputSchema
}

// Annotations returns the tool annotations.
func (d *Definition) Annotations() Annotations {
	return d.annotations
}

// Invoke runs the handler and stringifies any error it returns.
func (d *Definition) Invoke(ctx context.Context, input string) (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = Stringify(&Error{Kind: KindUpstream, Action: "running " + d.name, Err: fmt.Errorf("%v", r)})
		}
	}()

	if d.handler == nil {
		return Stringify(ErrNoHandler)
	}

	result, err := d.handler(ctx, input)
	if err != nil {
		return Stringify(err)
	}
	return result
}

// Builder provides a fluent API for constructing tools.
type Builder struct {
	def *Definition
}

// NewBuilder creates a new tool builder with the given name.
func NewBuilder(name string) *Builder {
	return &Builder{
		def: &Definition{
			name:        name,
			inputSchema: StringInputSchema(""),
			annotations: DefaultAnnotations(),
		},
	}
}

// WithDescription sets the tool description. The input schema picks up the
// same text so function-calling clients see the argument format.
func (b *Builder) WithDescription(desc string) *Builder {
	b.def.description = desc
	b.def.inputSchema = StringInputSchema(desc)
	return b
}

// WithInputSchema overrides the input schema.
func (b *Builder) WithInputSchema(schema Schema) *Builder {
	b.def.inputSchema = schema
	return b
}

// WithAnnotations sets the tool annotations.
func (b *Builder) WithAnnotations(annotations Annotations) *Builder {
	b.def.annotations = annotations
	return b
}

// ReadOnly marks the tool as read-only.
func (b *Builder) ReadOnly() *Builder {
	b.def.annotations.ReadOnly = true
	b.def.annotations.Idempotent = true
	b.def.annotations.RiskLevel = RiskNone
	return b
}

// Mutating marks the tool as one that writes to the upstream service.
func (b *Builder) Mutating() *Builder {
	b.def.annotations.ReadOnly = false
	if b.def.annotations.RiskLevel < RiskMedium {
		b.def.annotations.RiskLevel = RiskMedium
	}
	return b
}

// WithTags adds tags to the tool.
func (b *Builder) WithTags(tags ...string) *Builder {
	b.def.annotations.Tags = append(b.def.annotations.Tags, tags...)
	return b
}

// WithHandler sets the tool handler function.
func (b *Builder) WithHandler(handler Handler) *Builder {
	b.def.handler = handler
	return b
}

// Build constructs the tool definition.
func (b *Builder) Build() (Tool, error) {
	if b.def.name == "" {
		return nil, ErrEmptyName
	}
	if b.def.handler == nil {
		return nil, ErrNoHandler
	}
	return b.def, nil
}

// MustBuild constructs the tool definition or panics on error.
func (b *Builder) MustBuild() Tool {
	t, err := b.Build()
	if err != nil {
		panic(err)
	}
	return t
}
