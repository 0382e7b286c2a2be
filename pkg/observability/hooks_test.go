package observability

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	p := NoopPipelineHooks{}
	p.OnPackStart(ctx, "packing", "packing-50-0-0-250-18")
	p.OnPackComplete(ctx, "packing", 120, 0.4, time.Second, nil)
	p.OnRenderStart(ctx, "svg")
	p.OnRenderComplete(ctx, "svg", 2048, time.Second, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "layout")
	c.OnCacheMiss(ctx, "artifact")
	c.OnCacheSet(ctx, "artifact", 1024)

	s := NoopServerHooks{}
	s.OnRequest(ctx, "GET", "/v1/packing")
	s.OnResponse(ctx, "GET", "/v1/packing", 200, time.Millisecond)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	defer Reset()

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := Server().(NoopServerHooks); !ok {
		t.Error("Server() should return NoopServerHooks by default")
	}

	hooks := NewLogHooks(nil)
	SetPipelineHooks(hooks)
	SetCacheHooks(hooks)
	SetServerHooks(hooks)
	if Pipeline() != PipelineHooks(hooks) || Cache() != CacheHooks(hooks) || Server() != ServerHooks(hooks) {
		t.Error("Set*Hooks should register custom hooks")
	}

	SetPipelineHooks(nil)
	if Pipeline() != PipelineHooks(hooks) {
		t.Error("SetPipelineHooks(nil) should be ignored")
	}

	Reset()
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset() should restore NoopPipelineHooks")
	}
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	h := NewLogHooks(log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel}))
	ctx := context.Background()

	h.OnPackComplete(ctx, "grid", 52, 0.7, time.Millisecond, nil)
	h.OnRenderComplete(ctx, "png", 10, time.Millisecond, errors.New("boom"))
	h.OnCacheMiss(ctx, "layout")

	out := buf.String()
	for _, want := range []string{"pack complete", "circles=52", "render complete", "boom", "cache miss", "hooks"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}
