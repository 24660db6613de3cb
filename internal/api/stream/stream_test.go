package stream

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"haunted_slot/internal/events"
	"haunted_slot/internal/model"

	"github.com/shopspring/decimal"
)

func TestOutcomesStream(t *testing.T) {
	bus := events.NewBus()
	defer bus.Close()
	srv := httptest.NewServer(http.HandlerFunc(NewHandler(HandlerDeps{Bus: bus}).Outcomes))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer res.Body.Close()
	if ct := res.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("content type %q", ct)
	}
	if bus.Subscribers() != 1 {
		t.Fatalf("subscribers=%d", bus.Subscribers())
	}

	if err := bus.Publish(ctx, &model.Outcome{SpinID: "spin-7", Bet: decimal.NewFromInt(10)}); err != nil {
		t.Fatal(err)
	}

	sc := bufio.NewScanner(res.Body)
	var event, data string
	for sc.Scan() {
		line := sc.Text()
		if v, ok := strings.CutPrefix(line, "event: "); ok {
			event = v
		}
		if v, ok := strings.CutPrefix(line, "data: "); ok {
			data = v
			break
		}
	}
	if event != "outcome" || !strings.Contains(data, `"spin_id":"spin-7"`) {
		t.Fatalf("event=%q data=%q err=%v", event, data, sc.Err())
	}
}

func TestOutcomesEndsWhenBusCloses(t *testing.T) {
	bus := events.NewBus()
	h := NewHandler(HandlerDeps{Bus: bus})

	done := make(chan struct{})
	w := httptest.NewRecorder()
	go func() {
		h.Outcomes(w, httptest.NewRequest(http.MethodGet, "/events", nil))
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for bus.Subscribers() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	bus.Close()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("handler did not return after bus close")
	}
}
