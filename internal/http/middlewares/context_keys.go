package middlewares

const (
	// gin context key carrying the request id set by RequestID
	CtxRequestID = "request_id"
)
