package webhook

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"habitquest/core"
	"habitquest/engine"
)

func TestSink_OnEventPostsToEndpoints(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		body, _ := io.ReadAll(r.Body)
		_ = r.Body.Close()
		var ev engine.Event
		if err := json.Unmarshal(body, &ev); err != nil {
			t.Errorf("bad payload: %v", err)
		}
		if ev.Type != engine.EventReward || ev.Reward == nil || ev.Reward.Kind != core.RewardCritical {
			t.Errorf("unexpected event: %+v", ev)
		}
	}))
	defer srv.Close()

	sink := New([]string{srv.URL})
	sink.OnEvent(engine.NewRewardEvent("u1", core.NewCritical(80)))

	if atomic.LoadInt32(&hits) != 1 {
		t.Fatalf("expected 1 hit, got %d", hits)
	}
}

func TestAttachBridgesBus(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer srv.Close()

	bus := engine.NewEventBus(engine.DispatchSync)
	defer bus.Close()

	unsub := Attach(bus, New([]string{srv.URL}))
	bus.Publish(context.Background(), engine.NewProfileSaved("u1", 40, 1))
	bus.Publish(context.Background(), engine.NewRewardEvent("u1", core.NewQuestComplete(80)))

	if atomic.LoadInt32(&hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", hits)
	}

	unsub()
	bus.Publish(context.Background(), engine.NewProfileSaved("u1", 80, 1))
	if atomic.LoadInt32(&hits) != 2 {
		t.Fatalf("expected no hit after unsubscribe, got %d", hits)
	}
}
