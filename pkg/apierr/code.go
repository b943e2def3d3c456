package apierr

// Code is a machine-readable error code returned in API responses.
type Code string

// Common errors.
const (
	CodeInvalidRequestBody Code = "INVALID_REQUEST_BODY"
	CodeInternalError      Code = "INTERNAL_ERROR"
)

// Extraction errors.
const (
	CodeNoUnits          Code = "NO_UNITS"
	CodeUnitNameRequired Code = "UNIT_NAME_REQUIRED"
	CodePersistFailed    Code = "PERSIST_FAILED"
)

// Run errors.
const (
	CodeRunNotFound   Code = "RUN_NOT_FOUND"
	CodeInvalidRunID  Code = "INVALID_RUN_ID"
	CodeRunListFailed Code = "RUN_LIST_FAILED"
	CodeRowListFailed Code = "ROW_LIST_FAILED"
)

// Graph errors.
const (
	CodeGraphUnavailable  Code = "GRAPH_UNAVAILABLE"
	CodeGraphQueryFailed  Code = "GRAPH_QUERY_FAILED"
	CodeTableNameRequired Code = "TABLE_NAME_REQUIRED"
)

// Health errors.
const (
	CodeDatabaseNotReady Code = "DATABASE_NOT_READY"
)
