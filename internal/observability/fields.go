package observability

import "go.uber.org/zap"

// Field aliases so call sites don't need to import zap directly.
//
//nolint:gochecknoglobals // Aliases to pure constructors
var (
	String   = zap.String
	Int      = zap.Int
	Int64    = zap.Int64
	Bool     = zap.Bool
	Float64  = zap.Float64
	Duration = zap.Duration
	Any      = zap.Any
	Error    = zap.Error
)
