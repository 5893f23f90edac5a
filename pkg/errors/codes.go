package errors

import "net/http"

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string { return string(c) }

// Common error codes shared by every module.
const (
	ErrCodeInternal       ErrorCode = "COMMON_001"
	ErrCodeBadRequest     ErrorCode = "COMMON_002"
	ErrCodeNotFound       ErrorCode = "COMMON_003"
	ErrCodeValidation     ErrorCode = "COMMON_004"
	ErrCodeSerialization  ErrorCode = "COMMON_005"
	ErrCodeCacheError     ErrorCode = "COMMON_006"
	ErrCodeUnavailable    ErrorCode = "COMMON_007"
	ErrCodeNotImplemented ErrorCode = "COMMON_008"

	// CodeOK and CodeUnknown are sentinel values used by GetCode.
	CodeOK      ErrorCode = "OK"
	CodeUnknown ErrorCode = "UNKNOWN"
)

// Occurrence / spatial module error codes.
const (
	ErrCodeOccurrenceInvalid  ErrorCode = "OCC_001"
	ErrCodeCoordinatesInvalid ErrorCode = "OCC_002"
)

// Density-analysis module error codes.
const (
	ErrCodeDensityRadiusInvalid ErrorCode = "DEN_001"
)

// Genetics module error codes.
const (
	ErrCodeSequenceInvalid ErrorCode = "GEN_001"
	ErrCodeTreeBuildFailed ErrorCode = "GEN_002"
)

// Viability-simulation module error codes.
const (
	ErrCodeSimParamsInvalid ErrorCode = "SIM_001"
	ErrCodeSimFailed        ErrorCode = "SIM_002"
)

// Aliases kept short for the most common call sites.
const (
	CodeInternal     = ErrCodeInternal
	CodeInvalidParam = ErrCodeBadRequest
	CodeNotFound     = ErrCodeNotFound
	CodeValidation   = ErrCodeValidation
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes for the API layer.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:       http.StatusInternalServerError,
	ErrCodeBadRequest:     http.StatusBadRequest,
	ErrCodeNotFound:       http.StatusNotFound,
	ErrCodeValidation:     http.StatusUnprocessableEntity,
	ErrCodeSerialization:  http.StatusInternalServerError,
	ErrCodeCacheError:     http.StatusInternalServerError,
	ErrCodeUnavailable:    http.StatusServiceUnavailable,
	ErrCodeNotImplemented: http.StatusNotImplemented,

	ErrCodeOccurrenceInvalid:  http.StatusBadRequest,
	ErrCodeCoordinatesInvalid: http.StatusBadRequest,

	ErrCodeDensityRadiusInvalid: http.StatusBadRequest,

	ErrCodeSequenceInvalid: http.StatusBadRequest,
	ErrCodeTreeBuildFailed: http.StatusInternalServerError,

	ErrCodeSimParamsInvalid: http.StatusBadRequest,
	ErrCodeSimFailed:        http.StatusInternalServerError,
}

// HTTPStatus returns the HTTP status associated with the code, defaulting to
// 500 for unmapped codes.
func (c ErrorCode) HTTPStatus() int {
	if s, ok := ErrorCodeHTTPStatus[c]; ok {
		return s
	}
	return http.StatusInternalServerError
}
