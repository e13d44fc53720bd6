package logging

// Structured field names shared by every component.
const (
	FieldError   = "error"
	FieldPath    = "path"
	FieldRoot    = "root"
	FieldURI     = "uri"
	FieldToken   = "token"
	FieldVersion = "version"
	FieldState   = "state"
	FieldSources = "sources"
	FieldCount   = "count"
)
