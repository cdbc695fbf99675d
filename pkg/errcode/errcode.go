package errcode

import (
	"github.com/gnames/gn"
)

const (
	UnknownError gn.ErrorCode = iota

	// File System errors
	CreateDirError
	CopyFileError
	ReadFileError
	WriteFileError

	// Logging errors
	CreateLogFileError

	// Input errors
	HitValidationError
	HitUnknownGeneError
	HitBelowThresholdError
	HitTableReadError
	TopologyReadError

	// Model errors
	ModelValidationError
	ModelConsistencyError
	ModelDuplicateError
	ModelDefinitionReadError
	ModelNotFoundError

	// Engine errors
	NoModelsError
	NoHitsError
	EnumerationTruncatedError
	CandidateStateError

	// Report and store errors
	ReportWriteError
	StoreConnectionError
	StoreSchemaError
	StoreSaveError
	MetricsWriteError
)
