package serverutils

// BaseResponse is the envelope every handler returns.
type BaseResponse[T any] struct {
	Success bool   `json:"success"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data,omitempty"`
}

func SuccessResponse(message string, data interface{}) BaseResponse[interface{}] {
	return BaseResponse[interface{}]{
		Success: true,
		Code:    200,
		Message: message,
		Data:    data,
	}
}

func ErrorResponse(code int, message string) BaseResponse[interface{}] {
	return BaseResponse[interface{}]{
		Success: false,
		Code:    code,
		Message: message,
	}
}
