package model

// APIResponse is the envelope every endpoint responds with.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	Error   interface{} `json:"error"`
	TraceID string      `json:"trace_id"`
}

// ErrorBody describes a failed request inside the envelope.
type ErrorBody struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details"`
}

// NewSuccessResponse wraps data in a successful envelope.
func NewSuccessResponse(data interface{}, traceID string) APIResponse {
	return APIResponse{
		Success: true,
		Data:    data,
		Error:   map[string]interface{}{},
		TraceID: traceID,
	}
}

// NewErrorResponse builds a failed envelope. nil details are rendered as {}.
func NewErrorResponse(code, message string, details map[string]interface{}, traceID string) APIResponse {
	if details == nil {
		details = map[string]interface{}{}
	}
	return APIResponse{
		Success: false,
		Data:    nil,
		Error:   ErrorBody{Code: code, Message: message, Details: details},
		TraceID: traceID,
	}
}

// DeleteResult is the data payload of DELETE /org/delete
type DeleteResult struct {
	Deleted bool `json:"deleted"`
}
