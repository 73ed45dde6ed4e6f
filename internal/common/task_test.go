package common

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShutdownWaitsForTasks(t *testing.T) {
	bt := NewBackgroundTask()
	done := make(chan struct{})
	bt.Run(func(shtdwnCtx context.Context) {
		<-shtdwnCtx.Done()
		close(done)
	})
	require.NoError(t, bt.Shutdown(time.Second))
	select {
	case <-done:
	default:
		t.Fatal("task did not observe shutdown")
	}
}

func TestShutdownReportsTimeout(t *testing.T) {
	bt := NewBackgroundTask()
	release := make(chan struct{})
	bt.Run(func(context.Context) { <-release })
	assert.Error(t, bt.Shutdown(10*time.Millisecond))
	close(release)
}
