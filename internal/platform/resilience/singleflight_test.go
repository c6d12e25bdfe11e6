package resilience

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSingleFlightCollapsesConcurrentCalls(t *testing.T) {
	var g SingleFlight
	var executions int32
	var shared int32

	const workers = 20
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			value, err, wasShared := g.Do("event-page-1", func() (any, error) {
				atomic.AddInt32(&executions, 1)
				time.Sleep(20 * time.Millisecond)
				return "payload", nil
			})
			if err != nil {
				t.Errorf("singleflight call failed: %v", err)
			}
			if value != "payload" {
				t.Errorf("unexpected shared value: %v", value)
			}
			if wasShared {
				atomic.AddInt32(&shared, 1)
			}
		}()
	}

	close(start)
	wg.Wait()

	if got := atomic.LoadInt32(&executions); got != 1 {
		t.Fatalf("expected function to run once, got %d", got)
	}
	if got := atomic.LoadInt32(&shared); got != workers-1 {
		t.Fatalf("expected %d shared results, got %d", workers-1, got)
	}
}

func TestSingleFlightIndependentKeys(t *testing.T) {
	var g SingleFlight
	var executions int32

	var wg sync.WaitGroup
	for _, key := range []string{"event-1", "event-2"} {
		key := key
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, _ = g.Do(key, func() (any, error) {
				atomic.AddInt32(&executions, 1)
				return key, nil
			})
		}()
	}
	wg.Wait()

	if got := atomic.LoadInt32(&executions); got != 2 {
		t.Fatalf("expected one execution per key, got %d", got)
	}
}
