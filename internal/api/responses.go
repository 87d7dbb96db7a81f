// Package api defines the request and response shapes shared by the HTTP handlers.
package api

// ErrorResponse is returned by endpoints that fail outside the watchlist/dashboard envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse carries a short status message.
type MessageResponse struct {
	Message string `json:"message"`
}

// Result is the {success, message} envelope used by watchlist and dashboard actions.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// Unauthorized is the body sent when a persistence-backed action has no user.
var Unauthorized = Result{Success: false, Message: "Unauthorized"}

// Symbol is a code and display name pair as sent by clients.
type Symbol struct {
	Code string `json:"code" binding:"required"`
	Name string `json:"name"`
}
