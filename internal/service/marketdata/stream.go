package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"TradeScout/internal/domain/models"
	drepo "TradeScout/internal/domain/repository"
	"TradeScout/pkg/logger"

	"github.com/gorilla/websocket"
)

// Stream implements a MarketStream backed by the provider WebSocket feed.
type Stream struct {
	apiKey         string
	websocketURL   string
	symbols        []string
	reconnectDelay time.Duration
	pingInterval   time.Duration
	log            *logger.Logger

	conn      *websocket.Conn
	connected bool
}

// NewStream creates a provider MarketStream.
func NewStream(apiKey, websocketURL string, symbols []string, reconnectDelay, pingInterval time.Duration, log *logger.Logger) drepo.MarketStream {
	return &Stream{
		apiKey:         apiKey,
		websocketURL:   websocketURL,
		symbols:        symbols,
		reconnectDelay: reconnectDelay,
		pingInterval:   pingInterval,
		log:            log,
	}
}

// Connect establishes the WebSocket connection.
func (s *Stream) Connect(ctx context.Context) error {
	u := fmt.Sprintf("%s?token=%s", s.websocketURL, s.apiKey)
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u, nil)
	if err != nil {
		return fmt.Errorf("provider connect: %w", err)
	}
	s.conn = conn
	s.connected = true
	s.log.Info("provider stream connected")
	return nil
}

// Subscribe subscribes to configured symbols.
func (s *Stream) Subscribe(ctx context.Context) error {
	if s.conn == nil || !s.connected {
		return fmt.Errorf("provider stream not connected")
	}
	for _, sym := range s.symbols {
		msg := map[string]string{"type": "subscribe", "symbol": sym}
		if err := s.conn.WriteJSON(msg); err != nil {
			return fmt.Errorf("subscribe %s: %w", sym, err)
		}
		s.log.Debug("subscribed", logger.String("symbol", sym))
	}
	return nil
}

type wsTick struct {
	S string  `json:"s"`
	P float64 `json:"p"`
	V float64 `json:"v"`
	T int64   `json:"t"` // ms
}

type wsMessage struct {
	Type string   `json:"type"`
	Data []wsTick `json:"data"`
}

// Read streams TickUpdate events and errors.
func (s *Stream) Read(ctx context.Context) (<-chan *models.TickUpdate, <-chan error) {
	ticks := make(chan *models.TickUpdate, 1024)
	errs := make(chan error, 1)

	// ping loop
	go func() {
		ticker := time.NewTicker(s.pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if s.conn != nil {
					_ = s.conn.WriteMessage(websocket.PingMessage, nil)
				}
			}
		}
	}()

	// read loop
	go func() {
		defer close(ticks)
		defer close(errs)
		for {
			select {
			case <-ctx.Done():
				return
			default:
				if s.conn == nil {
					errs <- fmt.Errorf("provider conn nil")
					return
				}
				_, b, err := s.conn.ReadMessage()
				if err != nil {
					errs <- fmt.Errorf("provider read: %w", err)
					return
				}
				var m wsMessage
				if err := json.Unmarshal(b, &m); err != nil {
					// ignore non-trade frames
					continue
				}
				if m.Type != "trade" {
					continue
				}
				for _, d := range m.Data {
					tick := &models.TickUpdate{
						Ticker:    d.S,
						Price:     d.P,
						Volume:    int64(d.V),
						Timestamp: d.T / 1000,
					}
					select {
					case ticks <- tick:
					default:
						// drop on backpressure
					}
				}
			}
		}
	}()

	return ticks, errs
}

// Reconnect closes and reconnects. The delay keeps a dead endpoint from
// being hammered in a tight retry loop.
func (s *Stream) Reconnect(ctx context.Context) error {
	_ = s.Close()
	delay := s.reconnectDelay
	if delay <= 0 {
		delay = time.Second
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
	}
	if err := s.Connect(ctx); err != nil {
		return err
	}
	return s.Subscribe(ctx)
}

// Close closes the WS connection.
func (s *Stream) Close() error {
	s.connected = false
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

// IsConnected indicates status.
func (s *Stream) IsConnected() bool { return s.connected }
