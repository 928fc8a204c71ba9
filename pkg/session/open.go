package session

import (
	"context"

	apperrors "github.com/matzehuels/degreetree/pkg/errors"
)

// Backend names accepted by [Open].
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
)

// Options selects and configures a backend.
type Options struct {
	Backend   string // memory, file or redis; empty means memory
	Dir       string // file backend directory
	RedisAddr string // redis backend address
}

// Open creates the backend named by opts.Backend.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case BackendMemory, "":
		return NewMemoryStore(), nil
	case BackendFile:
		return NewFileStore(opts.Dir)
	case BackendRedis:
		return NewRedisStore(ctx, RedisConfig{Addr: opts.RedisAddr})
	default:
		return nil, apperrors.New(apperrors.ErrCodeInvalidConfig, "unknown session backend %q", opts.Backend)
	}
}
