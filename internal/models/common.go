package models

// SuccessResponse is the envelope returned on success.
type SuccessResponse struct {
	Status string      `json:"status"`
	Data   interface{} `json:"data"`
}

// ErrorBody is the machine-readable failure payload.
type ErrorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// FailResponse is the envelope returned on failure.
type FailResponse struct {
	Status string    `json:"status"`
	Error  ErrorBody `json:"error"`
}

// Success wraps data in a success envelope.
func Success(data interface{}) SuccessResponse {
	return SuccessResponse{Status: "success", Data: data}
}

// Fail wraps an error kind and message in a failure envelope.
func Fail(kind, message string) FailResponse {
	return FailResponse{Status: "fail", Error: ErrorBody{Kind: kind, Message: message}}
}
