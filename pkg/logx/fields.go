package logx

const (
	FieldAppName         = "app-name"
	FieldAppVersion      = "app-version"
	FieldDurationMs      = "duration-ms"
	FieldError           = "error"
	FieldHTTPMethod      = "http-method"
	FieldHTTPRequest     = "http-request"
	FieldHTTPResponse    = "http-response"
	FieldIP              = "ip"
	FieldRequestBody     = "request-body"
	FieldRequestID       = "request-id"
	FieldResponseBody    = "response-body"
	FieldResponseHeaders = "response-headers"
	FieldResponseStatus  = "response-status"
	FieldStack           = "stack"
	FieldTraceID         = "trace-id"
	FieldURL             = "url"
	FieldPoolTestID      = "pool-test-id"
	FieldRainfallID      = "rainfall-id"
	FieldPoolField       = "pool-field"
	FieldStatus          = "status"
	FieldTestDate        = "test-date"
	FieldNextTestDate    = "next-test-date"
	FieldTaskID          = "task-id"
	FieldFile            = "file"
	FieldCount           = "count"
)
