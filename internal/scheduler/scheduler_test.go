package scheduler

import (
	"context"
	"errors"
	"testing"

	roofdata "solar21_precheck/internal/roofdata/transport"
	"solar21_precheck/platform/logger"

	"github.com/hibiken/asynq"
)

func TestRoofPrefetchTaskRoundTrip(t *testing.T) {
	task, err := NewRoofPrefetchTask(RoofPrefetchPayload{Address: "  Seestrasse 12, 6004 Luzern "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.Type() != TaskRoofPrefetch {
		t.Fatalf("unexpected task type %q", task.Type())
	}

	payload, err := ParseRoofPrefetchPayload(task)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if payload.Address != "Seestrasse 12, 6004 Luzern" {
		t.Fatalf("unexpected address %q", payload.Address)
	}
}

func TestRoofPrefetchTaskRejectsEmptyAddress(t *testing.T) {
	if _, err := NewRoofPrefetchTask(RoofPrefetchPayload{Address: "   "}); err == nil {
		t.Fatalf("expected error for empty address")
	}

	_, err := ParseRoofPrefetchPayload(asynq.NewTask(TaskRoofPrefetch, []byte(`{"address":""}`)))
	if !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("empty payload must not be retried, got %v", err)
	}
}

type fakeWarmer struct {
	calls []string
	err   error
}

func (f *fakeWarmer) Lookup(_ context.Context, address string) (*roofdata.RoofData, error) {
	f.calls = append(f.calls, address)
	if f.err != nil {
		return nil, f.err
	}
	return &roofdata.RoofData{Address: address, Found: true, Canton: "LU"}, nil
}

func TestHandleRoofPrefetch(t *testing.T) {
	warmer := &fakeWarmer{}
	w := &Worker{roofs: warmer, log: logger.Discard()}

	task, err := NewRoofPrefetchTask(RoofPrefetchPayload{Address: "Seestrasse 12, 6004 Luzern"})
	if err != nil {
		t.Fatalf("task: %v", err)
	}
	if err := w.handleRoofPrefetch(context.Background(), task); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(warmer.calls) != 1 {
		t.Fatalf("expected one lookup, got %d", len(warmer.calls))
	}

	warmer.err = errors.New("geoadmin timeout")
	if err := w.handleRoofPrefetch(context.Background(), task); !errors.Is(err, warmer.err) {
		t.Fatalf("lookup failures must be returned for retry, got %v", err)
	}
}

func TestNewClientRequiresRedis(t *testing.T) {
	if _, err := NewClient(&fakeConfig{}); err == nil {
		t.Fatalf("expected error without redis url")
	}
}

type fakeConfig struct{}

func (fakeConfig) GetRedisURL() string { return "" }
func (fakeConfig) GetRedisTLSInsecure() bool { return false }
func (fakeConfig) IsRedisEnabled() bool { return false }
func (fakeConfig) GetAsynqQueueName() string { return "" }
func (fakeConfig) GetAsynqConcurrency() int { return 0 }
