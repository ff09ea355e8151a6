// Package types holds the JSON envelope shapes shared by every API response.
package types

// SuccessEnvelope wraps successful payloads under a single data key.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the public error body. Details carries field-level validation
// messages and is omitted for untrusted errors.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
