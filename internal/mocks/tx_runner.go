package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/tasklist-api/internal/store"
)

// MockTxRunner runs fn directly with a nil transaction. In-memory stores
// ignore the transaction in WithTx, so nothing is rolled back on error.
type MockTxRunner struct {
	// Err, when set, is returned without running fn.
	Err error

	mu    sync.Mutex
	Calls int
}

var _ store.TxRunner = (*MockTxRunner)(nil)

// RunInTx implements store.TxRunner.
func (m *MockTxRunner) RunInTx(ctx context.Context, fn store.TxFn) error {
	m.mu.Lock()
	m.Calls++
	m.mu.Unlock()

	if m.Err != nil {
		return m.Err
	}
	return fn(ctx, nil)
}
