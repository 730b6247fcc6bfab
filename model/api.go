package model

// APIError carries a stable numeric code plus a message that deliberately
// does not reveal which internal check failed.
type APIError struct {
	Code    int64  `json:"code"`
	Message string `json:"message"`
}

// APIResponse is the uniform envelope for all JSON endpoints.
type APIResponse struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *APIError `json:"error,omitempty"`
}

func Success(data any) APIResponse {
	return APIResponse{Success: true, Data: data}
}

func Failure(code int64, message string) APIResponse {
	return APIResponse{Success: false, Error: &APIError{Code: code, Message: message}}
}
