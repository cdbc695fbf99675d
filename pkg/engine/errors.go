package engine

import (
	"errors"

	"github.com/gnames/gn"
	"github.com/gnames/gnmsf/pkg/errcode"
)

// NoModelsError is returned when a run has no valid model to search for.
func NoModelsError() error {
	msg := "No valid models to search for"
	return &gn.Error{
		Code: errcode.NoModelsError,
		Msg:  msg,
		Err:  errors.New("model catalog is empty"),
	}
}
