// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package params

import (
	"strings"

	"github.com/juju/errors"
)

// ErrMalformedError is returned when an error payload is neither a code
// string nor an object carrying one.
const ErrMalformedError = errors.ConstError("malformed error payload")

// Well known error codes that the connection itself relies on.
const (
	CodeAuthenticationFailed = "E_AUTHENTICATION_FAILED"
	CodeMethodNotFound       = "E_METHOD_NOT_FOUND"
	CodeParamsNotSupported   = "E_PARAMS_NOT_SUPPORTED"
	CodeMissingParam         = "E_MISSING_PARAM"
	CodeMissingParams        = "E_MISSING_PARAMS"
	CodeInvalidParams        = "E_INVALID_PARAMS"
	CodeInvalidParam         = "E_INVALID_PARAM"
	CodeFilterInvalid        = "E_FILTER_INVALID"
	CodeFilterProperty       = "E_FILTER_PROPERTY"
	CodeAccessDenied         = "E_ACCESS_DENIED"
	CodeTaskNotFound         = "E_TASK_NOT_FOUND"
	CodeLicenseNotActive     = "E_LICENSE_NOT_ACTIVE"
)

// Error is an application error returned by the appliance for a single
// request. It does not affect the connection or any other request.
type Error struct {
	// Code is the wire error code, such as E_POD_NOT_FOUND.
	Code string

	// Message holds the optional detail sent with the code.
	Message string

	unmapped bool
}

// Error implements error.
func (e *Error) Error() string {
	if e.Message == "" {
		return "[" + e.Code + "]"
	}
	return "[" + e.Code + "] " + e.Message
}

// ErrorCode returns the wire error code.
func (e *Error) ErrorCode() string {
	return e.Code
}

// Unmapped reports whether the code was not found in the catalog used to
// decode it.
func (e *Error) Unmapped() bool {
	return e.unmapped
}

// Is maps families of codes onto the well known juju/errors types so that
// callers can write errors.Is(err, errors.NotFound).
func (e *Error) Is(target error) bool {
	switch target {
	case errors.NotImplemented:
		return e.Code == CodeMethodNotFound
	case errors.Unauthorized:
		return e.Code == CodeAuthenticationFailed
	case errors.Forbidden:
		return e.Code == CodeAccessDenied
	case errors.NotFound:
		return e.Code != CodeMethodNotFound && strings.HasSuffix(e.Code, "_NOT_FOUND")
	case errors.BadRequest:
		switch e.Code {
		case CodeParamsNotSupported, CodeMissingParam, CodeMissingParams,
			CodeInvalidParams, CodeInvalidParam, CodeFilterInvalid, CodeFilterProperty:
			return true
		}
	case errors.AlreadyExists:
		return strings.HasPrefix(e.Code, "E_DUPLICATE_") ||
			strings.HasPrefix(e.Code, "E_ALREADY_") ||
			strings.HasSuffix(e.Code, "_NOT_UNIQUE")
	}
	return false
}

// ErrCode returns the error code associated with the given error, or the
// empty string if there is none.
func ErrCode(err error) string {
	var coder interface{ ErrorCode() string }
	if errors.As(err, &coder) {
		return coder.ErrorCode()
	}
	return ""
}

// Catalog maps known error codes to a description of their meaning.
type Catalog map[string]string

// Decode converts a wire error payload into an error. The payload is either
// a bare code string or an object {"message": code, "data": {"message":
// detail}}. Codes missing from the catalog still produce an *Error, with
// Unmapped returning true.
func (c Catalog) Decode(raw any) error {
	var code, detail string
	switch v := raw.(type) {
	case string:
		code = v
	case map[string]any:
		s, ok := v["message"].(string)
		if !ok {
			return errors.Annotatef(ErrMalformedError, "error code %v", v["message"])
		}
		code = s
		if data, ok := v["data"].(map[string]any); ok {
			detail, _ = data["message"].(string)
		}
	default:
		return errors.Annotatef(ErrMalformedError, "unexpected %T", raw)
	}
	_, known := c[code]
	return &Error{Code: code, Message: detail, unmapped: !known}
}

// Description returns the catalog description of code.
func (c Catalog) Description(code string) (string, bool) {
	d, ok := c[code]
	return d, ok
}

// DefaultCatalog holds the codes that every request may return, plus the
// codes used by the session and task machinery.
var DefaultCatalog = Catalog{
	"E_NETLAB_ERROR":           "Base error from the appliance.",
	CodeAuthenticationFailed:   "Connection could not be authenticated.",
	CodeMethodNotFound:         "The requested method could not be found.",
	CodeParamsNotSupported:     "Some parameters were incorrect.",
	CodeMissingParam:           "Parameter was missing.",
	CodeMissingParams:          "Parameters were missing.",
	CodeInvalidParams:          "Parameters are in some way incorrect.",
	CodeInvalidParam:           "Parameter is in some way incorrect.",
	CodeFilterInvalid:          "Filter is not a valid filter.",
	CodeFilterProperty:         "Filter contains an invalid property or operator.",
	CodeAccessDenied:           "Caller did not have required privilege.",
	"E_DATES_END_BEFORE_START": "End date is before start date.",
	"E_ITEM_DEPENDENCY":        "The item is in use.",
	"E_INVALID_TIME":           "The time format provided is not valid.",
	CodeTaskNotFound:           "task_id is not found.",
	"E_INVALID_PROPERTIES":     "The properties requested could not be found.",
	CodeLicenseNotActive:       "Software license is not active.",
	"E_POD_NOT_FOUND":          "A pod could not be located from that request.",
	"E_CLASS_NOT_FOUND":        "Requested cls_id was not found.",
	"E_ACCOUNT_NOT_FOUND":      "acc_id not found.",
	"E_RESERVATION_NOT_FOUND":  "res_id is not found.",
	"E_VM_NOT_FOUND":           "vm_id could not be found.",
	"E_DUPLICATE_POD_ID":       "pod_id already exists.",
	"E_POD_BUSY":               "Pod is currently busy performing another task.",
	"E_LOGINS_DISABLED_SYSTEM": "Logins have been disabled globally on system.",
}
