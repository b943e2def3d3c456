package apierr

import "net/http"

// --- Common ---

func InvalidRequestBody() *Error {
	return New(CodeInvalidRequestBody, http.StatusBadRequest, "Invalid request body")
}

func InternalError(cause error) *Error {
	return Wrap(CodeInternalError, http.StatusInternalServerError, "Internal server error", cause)
}

// --- Extraction ---

func NoUnits() *Error {
	return New(CodeNoUnits, http.StatusBadRequest, "Request must contain at least one unit")
}

func UnitNameRequired() *Error {
	return New(CodeUnitNameRequired, http.StatusBadRequest, "Each unit must have a source name")
}

func PersistFailed(cause error) *Error {
	return Wrap(CodePersistFailed, http.StatusInternalServerError, "Failed to persist extraction run", cause)
}

// --- Runs ---

func RunNotFound() *Error {
	return New(CodeRunNotFound, http.StatusNotFound, "Extraction run not found")
}

func InvalidRunID() *Error {
	return New(CodeInvalidRunID, http.StatusBadRequest, "Invalid run ID")
}

func RunListFailed(cause error) *Error {
	return Wrap(CodeRunListFailed, http.StatusInternalServerError, "Failed to list extraction runs", cause)
}

func RowListFailed(cause error) *Error {
	return Wrap(CodeRowListFailed, http.StatusInternalServerError, "Failed to list lineage rows", cause)
}

// --- Graph ---

func GraphUnavailable() *Error {
	return New(CodeGraphUnavailable, http.StatusServiceUnavailable, "Join graph is not configured")
}

func GraphQueryFailed(cause error) *Error {
	return Wrap(CodeGraphQueryFailed, http.StatusInternalServerError, "Join graph query failed", cause)
}

func TableNameRequired() *Error {
	return New(CodeTableNameRequired, http.StatusBadRequest, "Table name is required")
}

// --- Health ---

func DatabaseNotReady() *Error {
	return New(CodeDatabaseNotReady, http.StatusServiceUnavailable, "Database not ready")
}
