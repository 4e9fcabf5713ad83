package equitywire

import (
	"sync"
	"testing"
)

func TestSingleListener(t *testing.T) {
	emitter := NewEventEmitter[string, int]()
	var mu sync.Mutex
	var results []int

	emitter.On("event", func(data int) {
		mu.Lock()
		results = append(results, data)
		mu.Unlock()
	})

	emitter.Emit("event", 42)

	mu.Lock()
	defer mu.Unlock()
	if len(results) != 1 || results[0] != 42 {
		t.Errorf("Expected to receive [42], but got %v", results)
	}
}

func TestMultipleListeners(t *testing.T) {
	emitter := NewEventEmitter[string, int]()
	var mu sync.Mutex
	var results []int

	emitter.On("event", func(data int) {
		mu.Lock()
		results = append(results, data)
		mu.Unlock()
	})

	emitter.On("event", func(data int) {
		mu.Lock()
		results = append(results, data*2)
		mu.Unlock()
	})

	emitter.Emit("event", 10)

	mu.Lock()
	defer mu.Unlock()
	if len(results) != 2 {
		t.Errorf("Expected 2 callbacks, but got %d", len(results))
	}

	found10, found20 := false, false
	for _, v := range results {
		if v == 10 {
			found10 = true
		}
		if v == 20 {
			found20 = true
		}
	}
	if !found10 || !found20 {
		t.Errorf("Expected results 10 and 20, but got %v", results)
	}
}

func TestNoListeners(t *testing.T) {
	emitter := NewEventEmitter[string, int]()
	// Emitting an event with no listeners should be a no-op.
	emitter.Emit("nonexistentEvent", 100)
}

func TestMultipleEvents(t *testing.T) {
	emitter := NewEventEmitter[string, int]()
	var event1Result, event2Result int

	emitter.On("event1", func(data int) {
		event1Result = data
	})
	emitter.On("event2", func(data int) {
		event2Result = data
	})

	emitter.Emit("event1", 5)
	emitter.Emit("event2", 15)

	if event1Result != 5 {
		t.Errorf("For 'event1', expected 5, got %d", event1Result)
	}
	if event2Result != 15 {
		t.Errorf("For 'event2', expected 15, got %d", event2Result)
	}
}

func TestOff(t *testing.T) {
	emitter := NewEventEmitter[string, int]()
	var calls int

	emitter.On("event", func(int) {
		calls++
	})

	emitter.Emit("event", 1)
	emitter.Off("event")
	emitter.Emit("event", 2)

	if calls != 1 {
		t.Errorf("Expected 1 call after Off, got %d", calls)
	}
}

func TestCloseRejectsNewListeners(t *testing.T) {
	emitter := NewEventEmitter[string, int]()
	var calls int

	emitter.Close()
	emitter.On("event", func(int) {
		calls++
	})
	emitter.Emit("event", 1)

	if calls != 0 {
		t.Errorf("Expected no calls after Close, got %d", calls)
	}
}

func TestConcurrent(t *testing.T) {
	emitter := NewEventEmitter[string, int]()
	var mu sync.Mutex
	var results []int
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			emitter.On("event", func(data int) {
				mu.Lock()
				results = append(results, data+i)
				mu.Unlock()
			})
		}(i)
	}
	wg.Wait()

	for j := 0; j < 10; j++ {
		wg.Add(1)
		go func(j int) {
			defer wg.Done()
			emitter.Emit("event", j)
		}(j)
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	if len(results) != 100 {
		t.Errorf("Expected 100 callbacks, but got %d", len(results))
	}
}
