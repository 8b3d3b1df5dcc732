// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// ParseResult is what a successful schema-checked parse yields.
type ParseResult[T any] struct {
	// Value is the decoded Go value.
	Value *T

	// Unified is the CUE value after unification with the schema, kept
	// for callers that need metadata the Go decoding discards.
	Unified cue.Value
}

// ParseAndDecode compiles data, unifies it against the definition named by
// schemaPath (e.g. "#Config") inside the embedded schema, validates the
// result, and decodes it into T. Validation errors come back as
// *ValidationError with the offending CUE path rendered for the user.
//
// By default validation requires concrete values; pass WithConcrete(false)
// when the input is allowed to leave fields open for later defaulting.
func ParseAndDecode[T any](schema, data []byte, schemaPath string, opts ...Option) (*ParseResult[T], error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	filename := options.filename
	if filename == "" {
		filename = "<input>"
	}

	// Size gate before handing the bytes to the evaluator.
	if err := CheckFileSize(data, options.maxFileSize, filename); err != nil {
		return nil, err
	}

	ctx := cuecontext.New()

	schemaRoot, err := compileSchemaRoot(ctx, schema, schemaPath)
	if err != nil {
		return nil, err
	}

	userValue := ctx.CompileBytes(data, cue.Filename(filename))
	if userValue.Err() != nil {
		return nil, FormatError(userValue.Err(), filename)
	}

	unified := schemaRoot.Unify(userValue)
	if err := unified.Validate(cue.Concrete(options.concrete)); err != nil {
		return nil, FormatError(err, filename)
	}

	var decoded T
	if err := unified.Decode(&decoded); err != nil {
		return nil, FormatError(err, filename)
	}

	return &ParseResult[T]{Value: &decoded, Unified: unified}, nil
}

// ParseAndDecodeString accepts the schema as a string, matching how
// //go:embed exposes embedded .cue files declared as string constants.
func ParseAndDecodeString[T any](schema string, data []byte, schemaPath string, opts ...Option) (*ParseResult[T], error) {
	return ParseAndDecode[T]([]byte(schema), data, schemaPath, opts...)
}

// compileSchemaRoot compiles the embedded schema and resolves the root
// definition. Failures here are programmer errors in the shipped schema,
// not user input problems, so they are not run through FormatError.
func compileSchemaRoot(ctx *cue.Context, schema []byte, schemaPath string) (cue.Value, error) {
	schemaValue := ctx.CompileBytes(schema)
	if schemaValue.Err() != nil {
		return cue.Value{}, fmt.Errorf("internal error: failed to compile schema: %w", schemaValue.Err())
	}

	root := schemaValue.LookupPath(cue.ParsePath(schemaPath))
	if root.Err() != nil {
		return cue.Value{}, fmt.Errorf("internal error: schema definition %s not found: %w", schemaPath, root.Err())
	}
	return root, nil
}
