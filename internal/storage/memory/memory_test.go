package memory

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/julianstephens/tracker/internal/storage"
	"github.com/julianstephens/tracker/internal/storage/storagetest"
)

func TestProviderContract(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Provider {
		return New()
	})
}

func TestNotify(t *testing.T) {
	s := New()
	var calls atomic.Int32
	s.OnExternalUpdate(func() { calls.Add(1) })

	assert.NoError(t, s.StartWatching())
	s.Notify()
	s.Notify()
	s.StopWatching()

	assert.Equal(t, int32(2), calls.Load())
}
