package main

import (
	"context"
	"io"
	"testing"

	"personahub/internal/ipc"
	"personahub/internal/logger"
)

func TestInvokeBeforeStartup(t *testing.T) {
	t.Parallel()
	app := NewApp(logger.New("[test] ", logger.LevelError, io.Discard))

	reg := ipc.NewRegistry()
	var gotCtx context.Context
	reg.Register(ipc.Channel("app:getVersion"), func(ctx context.Context, _ any) (any, error) {
		gotCtx = ctx
		return "1.0.0", nil
	})
	app.SetRegistry(reg)

	// The runtime context only arrives at startup; an early invoke must
	// still dispatch.
	resp, err := app.Invoke("app:getVersion", nil)
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if !resp.Success {
		t.Fatalf("Invoke failed: %s", resp.Error)
	}
	if gotCtx == nil {
		t.Fatal("handler received a nil context")
	}
}

func TestInvokeWithoutRegistry(t *testing.T) {
	t.Parallel()
	app := NewApp(logger.New("[test] ", logger.LevelError, io.Discard))

	if _, err := app.Invoke("app:getVersion", nil); err == nil {
		t.Fatal("expected a transport error with no registry wired")
	}
}
