package response

// ErrorBody is the error shape every endpoint returns: a bare object with a
// single user-facing message, matching what the web client displays as-is.
type ErrorBody struct {
	Error string `json:"error"`
}

// Error builds an error response body.
func Error(message string) ErrorBody {
	return ErrorBody{Error: message}
}

// Message is the shape for operations that only acknowledge success.
type Message struct {
	Message string `json:"message"`
}

// OK builds an acknowledgement body.
func OK(message string) Message {
	return Message{Message: message}
}
