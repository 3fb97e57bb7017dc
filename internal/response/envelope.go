package response

import (
	"net/http"
	"time"
)

// DefaultSuccessMessage is used when an operation does not supply its own message.
const DefaultSuccessMessage = "Request completed successfully"

// StatusTransportFailure marks client-side envelopes built from network or
// decode failures; no server ever produced them.
const StatusTransportFailure = 0

// Envelope is the uniform result of every product operation.
// Data is non-nil exactly when Success is true.
type Envelope[T any] struct {
	Success    bool                `json:"success"`
	StatusCode int                 `json:"statusCode"`
	Message    string              `json:"message"`
	Data       *T                  `json:"data"`
	Errors     map[string][]string `json:"errors"`
	Timestamp  time.Time           `json:"timestamp"`
}

// Success wraps data in a 200 envelope. An empty message selects DefaultSuccessMessage.
func Success[T any](data T, message string) Envelope[T] {
	if message == "" {
		message = DefaultSuccessMessage
	}
	return Envelope[T]{
		Success:    true,
		StatusCode: http.StatusOK,
		Message:    message,
		Data:       &data,
		Errors:     map[string][]string{},
		Timestamp:  time.Now().UTC(),
	}
}

// Created wraps data in a 201 envelope.
func Created[T any](data T, message string) Envelope[T] {
	env := Success(data, message)
	env.StatusCode = http.StatusCreated
	return env
}

// Failure builds an error envelope. A zero status code defaults to 400.
func Failure[T any](message string, statusCode int) Envelope[T] {
	if statusCode == 0 {
		statusCode = http.StatusBadRequest
	}
	return failure[T](message, statusCode, nil)
}

// NotFound builds a 404 envelope.
func NotFound[T any](message string) Envelope[T] {
	return failure[T](message, http.StatusNotFound, nil)
}

// Internal builds a 500 envelope.
func Internal[T any](message string) Envelope[T] {
	return failure[T](message, http.StatusInternalServerError, nil)
}

// ValidationFailure builds a 400 envelope carrying per-field messages.
func ValidationFailure[T any](message string, fieldErrors map[string][]string) Envelope[T] {
	return failure[T](message, http.StatusBadRequest, fieldErrors)
}

// TransportFailure builds the envelope a client returns when it never got a
// usable answer from the server.
func TransportFailure[T any](message string) Envelope[T] {
	return failure[T](message, StatusTransportFailure, nil)
}

func failure[T any](message string, statusCode int, fieldErrors map[string][]string) Envelope[T] {
	if fieldErrors == nil {
		fieldErrors = map[string][]string{}
	}
	return Envelope[T]{
		Success:    false,
		StatusCode: statusCode,
		Message:    message,
		Errors:     fieldErrors,
		Timestamp:  time.Now().UTC(),
	}
}

// Payload returns the carried value and whether the envelope is a success.
func (e Envelope[T]) Payload() (T, bool) {
	if !e.Success || e.Data == nil {
		var zero T
		return zero, false
	}
	return *e.Data, true
}
