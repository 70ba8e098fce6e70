package session

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aretw0/concierge/pkg/domain"
)

type nopStore struct{}

func (nopStore) Save(ctx context.Context, sessionID string, state *domain.State) error { return nil }
func (nopStore) Load(ctx context.Context, sessionID string) (*domain.State, error) {
	return domain.NewState(sessionID), nil
}
func (nopStore) Delete(ctx context.Context, sessionID string) error { return nil }
func (nopStore) List(ctx context.Context) ([]string, error)         { return nil, nil }

func TestManager_LockLifecycle(t *testing.T) {
	mgr := NewManager(nopStore{})
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 1000; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sid := fmt.Sprintf("session-%d", i%50)
			_, _ = mgr.GetOrCreate(ctx, sid)
			_ = mgr.Delete(ctx, sid)
		}(i)
	}
	wg.Wait()

	mgr.mu.Lock()
	defer mgr.mu.Unlock()
	assert.Empty(t, mgr.locks, "lock entries must be released once unused")
}
