package main

import (
	"context"
	"testing"
)

// ---------------------------------------------------------------------------
// TestNotifyContext - Parent cancellation propagates
// ---------------------------------------------------------------------------

func TestNotifyContext(t *testing.T) {
	t.Parallel()

	parent, cancel := context.WithCancel(context.Background())
	ctx, stop := notifyContext(parent)
	defer stop()

	cancel()
	<-ctx.Done()
	if ctx.Err() == nil {
		t.Error("context not canceled with its parent")
	}
}
