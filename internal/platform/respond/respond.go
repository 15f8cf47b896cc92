// Copyright (c) 2026 Trailhead. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package respond provides HTTP response helpers used by all API handlers.
//
// # Architecture
//
// This package centralizes the presentation logic for HTTP responses.
// Every JSON response shares one envelope: a status of "success", "fail"
// or "error", plus optional data, message, token and results keys.
//
// [Error] is the single error translator of the API. Operational errors
// ([apperr.AppError]) surface their message; anything else is flattened to a
// generic internal error unless the request was marked verbose.
package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/taibuivan/trailhead/internal/platform/apperr"
	"github.com/taibuivan/trailhead/internal/platform/ctxutil"
)

// # Envelope Statuses

const (
	StatusSuccess = "success"
	StatusFail    = "fail"
	StatusError   = "error"
)

// Envelope is the JSON envelope shared by every API response.
type Envelope struct {
	Status  string              `json:"status"`
	Results *int                `json:"results,omitempty"`
	Token   string              `json:"token,omitempty"`
	Message string              `json:"message,omitempty"`
	Code    string              `json:"code,omitempty"`
	Details []apperr.FieldError `json:"details,omitempty"`
	Data    any                 `json:"data,omitempty"`

	// Error carries the internal cause in verbose mode only.
	Error string `json:"error,omitempty"`
}

// Doc wraps a single document or list as {"data": ...}, the shape used by
// the generic resource handlers.
type Doc struct {
	Data any `json:"data"`
}

// JSON writes a JSON response with the given status code.
func JSON(writer http.ResponseWriter, statusCode int, payload any) {
	writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	writer.WriteHeader(statusCode)
	_ = json.NewEncoder(writer).Encode(payload)
}

// OK writes a 200 OK response with data wrapped in the success envelope.
func OK(writer http.ResponseWriter, data any) {
	JSON(writer, http.StatusOK, Envelope{Status: StatusSuccess, Data: data})
}

// Resource writes a single document as {"status":"success","data":{"data":doc}}.
func Resource(writer http.ResponseWriter, statusCode int, document any) {
	JSON(writer, statusCode, Envelope{Status: StatusSuccess, Data: Doc{Data: document}})
}

// List writes a 200 OK response carrying a result count.
func List(writer http.ResponseWriter, items any, count int) {
	JSON(writer, http.StatusOK, Envelope{Status: StatusSuccess, Results: &count, Data: Doc{Data: items}})
}

// Token writes a session token alongside the authenticated user.
func Token(writer http.ResponseWriter, statusCode int, token string, data any) {
	JSON(writer, statusCode, Envelope{Status: StatusSuccess, Token: token, Data: data})
}

// Message writes a 200 OK response with a human-readable message.
func Message(writer http.ResponseWriter, message string) {
	JSON(writer, http.StatusOK, Envelope{Status: StatusSuccess, Message: message})
}

// NoContent writes a 204 No Content response.
func NoContent(writer http.ResponseWriter) {
	writer.WriteHeader(http.StatusNoContent)
}

// Error converts any Go error into a standardized JSON API error response.
func Error(writer http.ResponseWriter, request *http.Request, err error) {
	appError := Classify(request, err)

	JSON(writer, appError.HTTPStatus, Envelope{
		Status:  appError.Status(),
		Message: appError.Message,
		Code:    appError.Code,
		Details: appError.Details,
		Error:   detail(request, appError),
	})
}

// Classify resolves err to an operational error and logs server faults.
// Page renderers share it with [Error].
func Classify(request *http.Request, err error) *apperr.AppError {
	logger := ctxutil.GetLogger(request.Context())

	appError := apperr.As(err)
	if appError == nil {
		// Unexpected internal error: log full details but hide them from the client.
		logger.ErrorContext(request.Context(), "unhandled_error",
			slog.String("error", err.Error()),
			slog.String("request_id", ctxutil.GetRequestID(request.Context())),
		)
		return apperr.Internal(err)
	}

	// Always log 5xx errors as they indicate server-side issues.
	if appError.HTTPStatus >= http.StatusInternalServerError {
		logger.ErrorContext(request.Context(), "api_server_error",
			slog.String("code", appError.Code),
			slog.String("request_id", ctxutil.GetRequestID(request.Context())),
			slog.Any("cause", appError.Cause),
		)
	}

	return appError
}

// detail returns the internal cause for verbose requests.
func detail(request *http.Request, appError *apperr.AppError) string {
	if !ctxutil.IsVerbose(request.Context()) || appError.Cause == nil {
		return ""
	}
	return appError.Cause.Error()
}
