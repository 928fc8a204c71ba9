// Package httputil provides JSON request and response helpers for the
// degreetree HTTP API.
//
// # Responses
//
// [WriteJSON] encodes a value with a status code. [WriteError] maps an
// error to a status through its [apperrors.Code] and writes an
// [ErrorBody]:
//
//	{"code": "TREE_NOT_FOUND", "message": "tree not found"}
//
// Errors without a code are reported as INTERNAL_ERROR, and their text is
// not sent to the client.
//
// # Requests
//
// [DecodeJSON] reads a bounded request body and rejects unknown fields, so
// a misspelled field is a 400 rather than a silently ignored value.
package httputil
