package dto

import "time"

// ErrorResponse is the standard JSON error body returned by the API.
//
// Fields:
//   - Message: Human-readable description of what went wrong.
//   - ErrorDetails: Optional underlying error text, omitted when empty.
//   - Timestamp: When the error response was produced.
//
// swagger:model ErrorResponse
type ErrorResponse struct {
	Message      string    `json:"message" example:"run not found"`
	ErrorDetails string    `json:"error,omitempty" example:"sql: no rows in result set"`
	Timestamp    time.Time `json:"timestamp"`
}

// Error implements the error interface so an ErrorResponse can travel
// through error-returning call chains.
func (e ErrorResponse) Error() string {
	if e.ErrorDetails != "" {
		return e.Message + ": " + e.ErrorDetails
	}
	return e.Message
}

// NewErrorResponse builds an ErrorResponse with the current timestamp.
// A nil err leaves ErrorDetails empty.
func NewErrorResponse(message string, err error) ErrorResponse {
	resp := ErrorResponse{
		Message:   message,
		Timestamp: time.Now(),
	}
	if err != nil {
		resp.ErrorDetails = err.Error()
	}
	return resp
}
