package model

import "github.com/m-mizutani/goerr/v2"

// Store and validation errors shared by every repository backend. Backends wrap the
// store-specific cause (SQLite/Postgres constraint codes, gRPC codes) with one of these.
var (
	ErrNotFound         = goerr.New("record not found")
	ErrConflict         = goerr.New("unique constraint violated")
	ErrProtected        = goerr.New("record is referenced by other records")
	ErrInvalidReference = goerr.New("referenced record does not exist")
	ErrValidation       = goerr.New("validation failed")
)

// Context keys for error values
const (
	IDKey             = "id"
	NameKey           = "name"
	ProtocolNumberKey = "protocol_number"
	ExternalIDKey     = "external_id"
	ReferenceKey      = "reference"
)
