package constants

// Context keys
const (
	ContextKeyUserID = "user_id"
	ContextKeyUser   = "user"
)

// Credential validation bounds
const (
	MinUsernameLength = 4
	MaxUsernameLength = 20
	MinPasswordLength = 4
	MaxPasswordLength = 20
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)
