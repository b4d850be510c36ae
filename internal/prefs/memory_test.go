package prefs

import (
	"context"
	"sync"
	"testing"

	"fx-signal-bot/internal/model"
)

var (
	_ model.PairStore = (*Memory)(nil)
	_ model.PairStore = (*Redis)(nil)
)

func TestMemory_GetSet(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	if _, ok, _ := s.Get(ctx, 42); ok {
		t.Error("fresh store should have no selection")
	}

	eurusd := model.Pair{Base: "EUR", Quote: "USD"}
	if err := s.Set(ctx, 42, eurusd); err != nil {
		t.Fatalf("Set: %v", err)
	}
	p, ok, err := s.Get(ctx, 42)
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if p != eurusd {
		t.Errorf("got %s, want EUR/USD", p)
	}

	// Replacing a selection
	usdjpy := model.Pair{Base: "USD", Quote: "JPY"}
	if err := s.Set(ctx, 42, usdjpy); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if p, _, _ := s.Get(ctx, 42); p != usdjpy {
		t.Errorf("got %s, want USD/JPY after replace", p)
	}

	// Other chats unaffected
	if _, ok, _ := s.Get(ctx, 43); ok {
		t.Error("chat 43 should have no selection")
	}
}

func TestMemory_ConcurrentAccess(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()
	p := model.Pair{Base: "GBP", Quote: "USD"}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			if err := s.Set(ctx, id, p); err != nil {
				t.Errorf("Set: %v", err)
			}
			if _, _, err := s.Get(ctx, id); err != nil {
				t.Errorf("Get: %v", err)
			}
		}(int64(i))
	}
	wg.Wait()
}
