package dto

// Response is the envelope of every JSON reply.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func OK(data interface{}, message string) Response {
	return Response{Success: true, Data: data, Message: message}
}

func Fail(err, message string) Response {
	return Response{Success: false, Error: err, Message: message}
}
