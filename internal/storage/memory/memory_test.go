// internal/storage/memory/memory_test.go
package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geoglobe/internal/storage"
	"geoglobe/internal/storage/storagetest"
)

// Verify Backend implements storage.Backend interface
var _ storage.Backend = (*Backend)(nil)

func TestBackend(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Backend {
		b := New()
		require.NoError(t, b.Init())
		t.Cleanup(func() { b.Close() })
		return b
	})
}

func TestConcurrentAccess(t *testing.T) {
	b := New()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("k%d", i%4)
			_ = b.Save(ctx, key, []string{fmt.Sprint(i)})
			_, _, _ = b.Load(ctx, key)
		}(i)
	}
	wg.Wait()

	for i := 0; i < 4; i++ {
		_, ok, err := b.Load(ctx, fmt.Sprintf("k%d", i))
		require.NoError(t, err)
		assert.True(t, ok)
	}
}
