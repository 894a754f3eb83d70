package node

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeStartAndStop(t *testing.T) {
	config := DefaultConfig()
	config.Port = "0" // let the kernel pick a free port
	config.Addr = "127.0.0.1:0"
	config.SeedPeers = nil
	config.SyncInterval = 20 * time.Millisecond

	n := New(config)

	errCh := make(chan error, 1)
	go func() { errCh <- n.Start() }()

	// Let the sync loop tick a few times against an empty peer set
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, n.Stop())

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, http.ErrServerClosed)
	case <-time.After(time.Second):
		t.Fatal("server did not shut down")
	}

	assert.Equal(t, 0, n.Ledger().Chain().Length())
}
