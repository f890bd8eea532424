package redis

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/milo0914/ChemPatent-Pro/internal/infrastructure/monitoring/logging"
	"github.com/milo0914/ChemPatent-Pro/pkg/errors"
)

var (
	ErrLockNotAcquired = errors.New(errors.ErrCodeConflict, "failed to acquire lock")
	ErrLockNotHeld     = errors.New(errors.ErrCodeConflict, "lock not held by this owner")
)

// Locker hands out short-lived exclusive leases keyed by name.  The worker
// takes one per correlation ID so a redelivered request is not analysed by
// two replicas at once.
type Locker struct {
	client *Client
	logger logging.Logger
	prefix string
	ttl    time.Duration
}

// Lease is a held lock.  Release it exactly once.
type Lease struct {
	locker *Locker
	key    string
	token  string
}

var unlockScript = redis.NewScript(`
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("DEL", KEYS[1])
	else
		return 0
	end
`)

var extendScript = redis.NewScript(`
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("PEXPIRE", KEYS[1], ARGV[2])
	else
		return 0
	end
`)

// NewLocker builds a Locker whose leases expire after ttl unless extended.
func NewLocker(client *Client, log logging.Logger, ttl time.Duration) *Locker {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &Locker{client: client, logger: log, prefix: "chempatent:lock:", ttl: ttl}
}

// TryAcquire takes the lease without waiting.  It returns ErrLockNotAcquired
// when another owner holds it.
func (l *Locker) TryAcquire(ctx context.Context, name string) (*Lease, error) {
	key := l.prefix + name
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeCacheError, "failed to set lock")
	}
	if !ok {
		return nil, ErrLockNotAcquired
	}
	return &Lease{locker: l, key: key, token: token}, nil
}

// Acquire retries TryAcquire every retryDelay until ctx is done.
func (l *Locker) Acquire(ctx context.Context, name string, retryDelay time.Duration) (*Lease, error) {
	for {
		lease, err := l.TryAcquire(ctx, name)
		if err == nil || err != ErrLockNotAcquired {
			return lease, err
		}
		select {
		case <-ctx.Done():
			return nil, errors.Wrap(ctx.Err(), errors.ErrCodeTimeout, "lock wait cancelled")
		case <-time.After(retryDelay):
		}
	}
}

// Release deletes the key if this lease still owns it.
func (le *Lease) Release(ctx context.Context) error {
	res, err := unlockScript.Run(ctx, le.locker.client.Underlying(), []string{le.key}, le.token).Int64()
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "failed to release lock")
	}
	if res == 0 {
		le.locker.logger.Warn("Lock expired before release", logging.String("key", le.key))
		return ErrLockNotHeld
	}
	return nil
}

// Extend resets the lease expiry to ttl.
func (le *Lease) Extend(ctx context.Context, ttl time.Duration) error {
	res, err := extendScript.Run(ctx, le.locker.client.Underlying(), []string{le.key}, le.token, ttl.Milliseconds()).Int64()
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "failed to extend lock")
	}
	if res == 0 {
		return ErrLockNotHeld
	}
	return nil
}

//Personal.AI order the ending
