package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Placement hooks
	p := NoopPlacementHooks{}
	p.OnUpdate("e1", "bottom", false, time.Millisecond)
	p.OnFlip("e1", "bottom", "top")
	p.OnModifierSkipped("e1", "arrow", "keepTogether missing")

	// HTTP hooks
	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "POST", "/v1/place")
	h.OnResponse(ctx, "POST", "/v1/place", 200, time.Second)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Placement().(NoopPlacementHooks); !ok {
		t.Error("Placement() should return NoopPlacementHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	// Set custom hooks
	customPlacement := &testPlacementHooks{}
	SetPlacementHooks(customPlacement)
	if Placement() != customPlacement {
		t.Error("SetPlacementHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	// Setting nil should not change hooks
	SetPlacementHooks(nil)
	if Placement() != customPlacement {
		t.Error("SetPlacementHooks(nil) should not change hooks")
	}
	SetHTTPHooks(nil)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks(nil) should not change hooks")
	}

	// Reset should restore defaults
	Reset()
	if _, ok := Placement().(NoopPlacementHooks); !ok {
		t.Error("Reset() should restore NoopPlacementHooks")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("Reset() should restore NoopHTTPHooks")
	}
}

func TestCustomHooksReceiveEvents(t *testing.T) {
	Reset()
	defer Reset()

	hooks := &testPlacementHooks{}
	SetPlacementHooks(hooks)

	Placement().OnUpdate("e1", "top", true, time.Millisecond)
	Placement().OnFlip("e1", "bottom", "top")

	if hooks.updates != 1 || hooks.flips != 1 {
		t.Errorf("updates=%d flips=%d, want 1 and 1", hooks.updates, hooks.flips)
	}
	if hooks.lastPlacement != "top" {
		t.Errorf("lastPlacement = %q, want top", hooks.lastPlacement)
	}
}

type testPlacementHooks struct {
	updates       int
	flips         int
	skipped       int
	lastPlacement string
}

func (h *testPlacementHooks) OnUpdate(_, placement string, _ bool, _ time.Duration) {
	h.updates++
	h.lastPlacement = placement
}
func (h *testPlacementHooks) OnFlip(string, string, string)            { h.flips++ }
func (h *testPlacementHooks) OnModifierSkipped(string, string, string) { h.skipped++ }

type testHTTPHooks struct{}

func (testHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (testHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}
