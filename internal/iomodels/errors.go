package iomodels

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnmsf/pkg/errcode"
)

// ReadError creates an error for a model definition file or directory that
// cannot be read or parsed.
func ReadError(path string, err error) error {
	msg := `Cannot load model definitions

<em>Path:</em> %s

<em>Possible causes:</em>
  - Path does not exist
  - Invalid YAML format or unknown field
  - Permission denied`

	vars := []any{path}

	return &gn.Error{
		Code: errcode.ModelDefinitionReadError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("failed to read model definitions %s: %w", path, err),
	}
}

// NoDefinitionsError creates an error for a models directory without any
// YAML file.
func NoDefinitionsError(path string) error {
	msg := "No <em>*.yaml</em> model definitions found in %s"
	vars := []any{path}
	return &gn.Error{
		Code: errcode.ModelDefinitionReadError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("no model definitions in %s", path),
	}
}
