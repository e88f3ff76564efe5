package response

import "errors"

type Response struct {
	ResponseError `json:"error,omitzero"`
}

type ResponseError struct {
	Code string `json:"code"`
	Message  string `json:"message"`
}

//Error Codes
type ErrCode string
var (
	FAILED_REQUEST ErrCode = "REQUEST_FAILED"
	BAD_REQUEST ErrCode = "FAILED_TO_DECODE"
	NOT_FOUND ErrCode = "NOT_FOUND"
	UNAUTHORIZED ErrCode = "UNAUTHORIZED"
	SESSION_EXPIRED ErrCode = "SESSION_EXPIRED"
	FORBIDDEN ErrCode = "FORBIDDEN"
	NO_SELECTION ErrCode = "NO_SELECTION"
	DAY_NOT_SELECTABLE ErrCode = "DAY_NOT_SELECTABLE"
	CANCEL_NOT_ELIGIBLE ErrCode = "CANCEL_NOT_ELIGIBLE"
	UPSTREAM_FAILED ErrCode = "UPSTREAM_FAILED"
)

var (
	ErrBadRequest = errors.New("bad request")
	ErrNotFound = errors.New("resource not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrAuthExpired = errors.New("session expired")
	ErrForbidden = errors.New("forbidden")
	ErrNoSelection = errors.New("date and slot must be selected")
	ErrDayNotSelectable = errors.New("day is not selectable")
	ErrNotEligible = errors.New("cancellation is not allowed less than 24 hours in advance")
	ErrUpstream = errors.New("upstream request failed")
)

func Error(code, msg string) Response {
	return Response{
		ResponseError: ResponseError{
			Code:    code,
			Message: msg,
		},
	}
}
