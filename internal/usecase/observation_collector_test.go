package usecase

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"TradeScout/internal/domain/models"
	"TradeScout/internal/service/marketdata"
)

// scriptedStream plays one failing read session followed by a healthy one.
type scriptedStream struct {
	mu         sync.Mutex
	reads      int
	reconnects int
}

func (s *scriptedStream) Connect(context.Context) error   { return nil }
func (s *scriptedStream) Subscribe(context.Context) error { return nil }
func (s *scriptedStream) Close() error                    { return nil }
func (s *scriptedStream) IsConnected() bool               { return true }

func (s *scriptedStream) Reconnect(context.Context) error {
	s.mu.Lock()
	s.reconnects++
	s.mu.Unlock()
	return nil
}

func (s *scriptedStream) Read(context.Context) (<-chan *models.TickUpdate, <-chan error) {
	s.mu.Lock()
	s.reads++
	session := s.reads
	s.mu.Unlock()

	ticks := make(chan *models.TickUpdate, 4)
	errs := make(chan error, 1)

	if session == 1 {
		// the connection dies immediately and both channels close,
		// exactly as a failed websocket read session ends
		errs <- fmt.Errorf("read: connection reset")
		close(ticks)
		close(errs)
	} else {
		// healthy session after the reconnect
		ticks <- &models.TickUpdate{Ticker: "XYZ", Price: 20, Volume: 7, Timestamp: time.Now().Unix()}
	}
	return ticks, errs
}

func (s *scriptedStream) counts() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reads, s.reconnects
}

func TestCollectorResumesAfterStreamFailure(t *testing.T) {
	stream := &scriptedStream{}
	store := marketdata.NewSnapshotStore(0)
	c := NewObservationCollector(stream, NewTickApplier(store, &stubMetrics{}), &stubMetrics{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := c.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		if _, ok := store.Snapshot().Observations["XYZ"]; ok {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("tick from the reconnected session never consumed")
		}
		time.Sleep(10 * time.Millisecond)
	}

	reads, reconnects := stream.counts()
	if reconnects != 1 {
		t.Fatalf("reconnects got %d, want 1", reconnects)
	}
	if reads < 2 {
		t.Fatalf("collector must re-acquire channels after reconnect, reads=%d", reads)
	}
}
