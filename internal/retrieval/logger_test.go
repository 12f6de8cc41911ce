package retrieval

import (
	"bytes"
	"encoding/json"
	"sync"
	"testing"
	"time"
)

func TestQueryLogger_ThreadSafety(t *testing.T) {
	var buf bytes.Buffer
	logger := NewQueryLogger(&buf)

	concurrency := 50
	iterations := 100
	var wg sync.WaitGroup

	wg.Add(concurrency)
	for i := 0; i < concurrency; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				logger.Log(QueryLogEntry{
					Query:    "test",
					Duration: time.Millisecond,
				})
			}
		}()
	}
	wg.Wait()

	decoder := json.NewDecoder(&buf)
	count := 0
	for decoder.More() {
		var entry QueryLogEntry
		if err := decoder.Decode(&entry); err != nil {
			t.Fatalf("failed to decode entry %d: %v", count, err)
		}
		count++
	}

	expected := concurrency * iterations
	if count != expected {
		t.Errorf("expected %d entries, got %d", expected, count)
	}
}

func TestQueryLogger_LatencyDerivedFromDuration(t *testing.T) {
	var buf bytes.Buffer
	logger := NewQueryLogger(&buf)

	logger.Log(QueryLogEntry{Query: "q", NumResults: 2, Duration: 42 * time.Millisecond})

	var entry QueryLogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to decode entry: %v", err)
	}
	if entry.LatencyMs != 42 {
		t.Errorf("expected latency 42ms, got %d", entry.LatencyMs)
	}
	if entry.Timestamp.IsZero() {
		t.Error("expected timestamp to be set")
	}
}
