package iosearch

import (
	"errors"

	"github.com/gnames/gn"
	"github.com/gnames/gnmsf/pkg/errcode"
)

// NoHitsError is returned when a search is started without a hit table.
func NoHitsError() error {
	msg := `No hit table given

Use <em>gnmsf search --hits hits.tsv</em>`
	return &gn.Error{
		Code: errcode.NoHitsError,
		Msg:  msg,
		Err:  errors.New("hit table path is empty"),
	}
}
