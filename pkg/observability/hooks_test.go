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

type countingCacheHooks struct {
	NoopCacheHooks
	hits int
}

func (h *countingCacheHooks) OnCacheHit(context.Context, string) { h.hits++ }

func TestInstallPartial(t *testing.T) {
	Reset()
	defer Reset()

	h := &countingCacheHooks{}
	restore := Install(h)

	if Cache() != h {
		t.Errorf("Cache() = %T, want *countingCacheHooks", Cache())
	}
	if _, ok := Layout().(NoopLayoutHooks); !ok {
		t.Errorf("Layout() = %T, want NoopLayoutHooks", Layout())
	}

	Cache().OnCacheHit(context.Background(), "colors")
	if h.hits != 1 {
		t.Errorf("hits = %d, want 1", h.hits)
	}

	restore()
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Errorf("after restore Cache() = %T, want NoopCacheHooks", Cache())
	}
}

func TestSetNilIgnored(t *testing.T) {
	Reset()
	defer Reset()

	h := &countingCacheHooks{}
	SetCacheHooks(h)
	SetCacheHooks(nil)
	SetLayoutHooks(nil)
	SetColorHooks(nil)

	if Cache() != h {
		t.Error("SetCacheHooks(nil) replaced the registered hooks")
	}
	if _, ok := Layout().(NoopLayoutHooks); !ok {
		t.Error("SetLayoutHooks(nil) replaced the defaults")
	}
}

func TestLogHooks(t *testing.T) {
	Reset()
	defer Reset()

	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	defer Install(NewLogHooks(logger))()

	ctx := context.Background()
	Layout().OnLayoutStart(ctx, "stacked", 3)
	Layout().OnRenderComplete(ctx, []string{"svg"}, time.Millisecond, errors.New("disk full"))
	Color().OnAnnealComplete(ctx, 3, 10000, 0.5, time.Second)
	Cache().OnCacheSet(ctx, "colors", 64)

	out := buf.String()
	for _, want := range []string{"layout start", "entities=3", "render failed", "disk full", "annealed", "cache set", "bytes=64"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestLogHooksQuietAtInfo(t *testing.T) {
	var buf bytes.Buffer
	h := NewLogHooks(log.NewWithOptions(&buf, log.Options{Level: log.InfoLevel}))
	h.OnCacheMiss(context.Background(), "colors")

	if buf.Len() != 0 {
		t.Errorf("info-level logger wrote %q", buf.String())
	}
}
