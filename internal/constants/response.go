package constants

// APIResponse is the uniform response envelope. Every handler, success or
// failure, replies with this shape.
type APIResponse struct {
	StatusCode int      `json:"statusCode"`
	Data       any      `json:"data"`
	Message    string   `json:"message"`
	Success    bool     `json:"success"`
	Errors     []string `json:"errors"`
}

// BuildSuccessResponse wraps data in the standard success envelope
func BuildSuccessResponse(statusCode int, data any, message string) APIResponse {
	return APIResponse{
		StatusCode: statusCode,
		Data:       data,
		Message:    message,
		Success:    true,
	}
}

// BuildErrorResponse wraps a failure in the standard error envelope.
// Data is always null and Errors is always present, possibly empty.
func BuildErrorResponse(statusCode int, message string, errs ...string) APIResponse {
	if errs == nil {
		errs = []string{}
	}
	return APIResponse{
		StatusCode: statusCode,
		Data:       nil,
		Message:    message,
		Success:    false,
		Errors:     errs,
	}
}
