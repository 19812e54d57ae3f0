package listview

import (
	"context"
	"time"

	pkgerrors "github.com/pusdatin-klh/sinta-admin-web/pkg/errors"
)

// lockTTL caps how long a mutation lock can linger if a release is lost. Any
// legitimate approve/reject round trip finishes well inside it.
const lockTTL = 30 * time.Second

type lockStore interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) error
	ActionLockKey(sessionID, action string) string
}

// MutationGuard rejects a duplicate submission of the same action while the
// first one is still in flight. One click, one upstream call.
type MutationGuard struct {
	store lockStore
}

func NewMutationGuard(store lockStore) MutationGuard {
	return MutationGuard{store: store}
}

// Acquire takes the per-session action lock. The returned release must be
// called once the mutation settles; a second concurrent Acquire fails with a
// validation error carrying the double-submit notice.
func (g MutationGuard) Acquire(ctx context.Context, sessionID, action string) (func(), error) {
	if g.store == nil || sessionID == "" {
		return func() {}, nil
	}
	key := g.store.ActionLockKey(sessionID, action)
	ok, err := g.store.SetNX(ctx, key, "1", lockTTL)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Permintaan sedang diproses. Mohon tunggu.")
	}
	return func() {
		_ = g.store.Del(context.WithoutCancel(ctx), key)
	}, nil
}
