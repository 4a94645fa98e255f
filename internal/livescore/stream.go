// Package livescore maintains a WebSocket connection to a live result
// feed and hands final scores to the rating engine.
package livescore

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/soccer-predictor/internal/logger"
	"github.com/yourusername/soccer-predictor/internal/metrics"
)

// StreamClient handles the WebSocket connection to the live score feed
type StreamClient struct {
	conn            *websocket.Conn
	streamURL       string
	apiKey          string
	mu              sync.RWMutex
	isConnected     bool
	handlers        []ResultHandler
	reconnectConfig ReconnectConfig
	lastMessageTime time.Time
	log             *logger.StreamLogger
}

// ReconnectConfig controls reconnection behavior
type ReconnectConfig struct {
	MaxRetries        int
	InitialBackoff    time.Duration
	MaxBackoff        time.Duration
	BackoffMultiplier float64
}

// ResultHandler is called for each final result received on the stream
type ResultHandler func(result ResultEvent) error

// ResultEvent is a final score pushed by the feed
type ResultEvent struct {
	MatchID   string    `json:"match_id"`
	League    string    `json:"league"`
	HomeTeam  string    `json:"home_team"`
	AwayTeam  string    `json:"away_team"`
	HomeGoals int       `json:"home_goals"`
	AwayGoals int       `json:"away_goals"`
	PlayedAt  time.Time `json:"played_at"`
}

type streamMessage struct {
	Op     string       `json:"op"`
	Result *ResultEvent `json:"result,omitempty"`
}

// DefaultReconnectConfig returns default reconnection configuration
func DefaultReconnectConfig() ReconnectConfig {
	return ReconnectConfig{
		MaxRetries:        10,
		InitialBackoff:    1 * time.Second,
		MaxBackoff:        30 * time.Second,
		BackoffMultiplier: 1.5,
	}
}

// NewStreamClient creates a new stream client
func NewStreamClient(streamURL, apiKey string, baseLogger *logrus.Logger) *StreamClient {
	if baseLogger == nil {
		baseLogger = logrus.New()
	}

	return &StreamClient{
		streamURL:       streamURL,
		apiKey:          apiKey,
		handlers:        make([]ResultHandler, 0),
		reconnectConfig: DefaultReconnectConfig(),
		log:             logger.NewStreamLogger(baseLogger),
	}
}

// SetReconnectConfig overrides the reconnection behavior. Call before
// Connect.
func (s *StreamClient) SetReconnectConfig(cfg ReconnectConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reconnectConfig = cfg
}

// Connect establishes the WebSocket connection and starts the read loop
func (s *StreamClient) Connect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isConnected {
		return fmt.Errorf("already connected")
	}

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	conn, _, err := dialer.DialContext(ctx, s.streamURL, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to stream: %w", err)
	}

	s.conn = conn
	s.isConnected = true
	s.lastMessageTime = time.Now()

	if s.apiKey != "" {
		authMsg := map[string]interface{}{
			"op":      "auth",
			"api_key": s.apiKey,
		}
		if err := conn.WriteJSON(authMsg); err != nil {
			s.isConnected = false
			conn.Close()
			return fmt.Errorf("failed to authenticate stream: %w", err)
		}
	}

	go s.readMessages()

	return nil
}

// ConnectWithRetry keeps dialing with exponential backoff until
// connected, retries are exhausted, or the context ends.
func (s *StreamClient) ConnectWithRetry(ctx context.Context) error {
	backoff := s.reconnectConfig.InitialBackoff
	var lastErr error

	for attempt := 1; attempt <= s.reconnectConfig.MaxRetries; attempt++ {
		if err := s.Connect(ctx); err == nil {
			s.log.LogConnect(s.streamURL, attempt)
			return nil
		} else {
			lastErr = err
			s.log.LogDisconnect(err.Error(), backoff.Seconds())
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}

		backoff = time.Duration(float64(backoff) * s.reconnectConfig.BackoffMultiplier)
		if backoff > s.reconnectConfig.MaxBackoff {
			backoff = s.reconnectConfig.MaxBackoff
		}
	}

	return fmt.Errorf("stream connection failed after %d attempts: %w", s.reconnectConfig.MaxRetries, lastErr)
}

// AddHandler registers a result handler
func (s *StreamClient) AddHandler(handler ResultHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers = append(s.handlers, handler)
}

// readMessages reads messages from the WebSocket connection
func (s *StreamClient) readMessages() {
	defer s.Close()

	for {
		var raw json.RawMessage
		err := s.conn.ReadJSON(&raw)
		if err != nil {
			s.log.LogDisconnect(err.Error(), 0)
			s.mu.Lock()
			s.isConnected = false
			s.mu.Unlock()
			return
		}

		s.mu.Lock()
		s.lastMessageTime = time.Now()
		s.mu.Unlock()

		s.dispatch(raw)
	}
}

func (s *StreamClient) dispatch(raw json.RawMessage) {
	var msg streamMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		s.log.LogDroppedMessage(len(raw), err.Error())
		return
	}

	switch msg.Op {
	case "result":
		if msg.Result == nil {
			s.log.LogDroppedMessage(len(raw), "result op without payload")
			return
		}
		metrics.LiveResultsTotal.Inc()
		s.log.LogResult(msg.Result.HomeTeam, msg.Result.AwayTeam,
			msg.Result.HomeGoals, msg.Result.AwayGoals, msg.Result.League)

		s.mu.RLock()
		handlers := s.handlers
		s.mu.RUnlock()

		for _, handler := range handlers {
			if err := handler(*msg.Result); err != nil {
				s.log.WithField("error", err.Error()).Warn("Result handler failed")
			}
		}
	case "heartbeat", "auth_ok":
		// Keepalive traffic, nothing to do.
	default:
		s.log.LogDroppedMessage(len(raw), "unknown op "+msg.Op)
	}
}

// IsConnected returns whether the stream is connected
func (s *StreamClient) IsConnected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isConnected
}

// LastMessageTime returns the time of the last received message
func (s *StreamClient) LastMessageTime() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastMessageTime
}

// Close closes the stream connection
func (s *StreamClient) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return nil
	}

	s.isConnected = false
	return s.conn.Close()
}

// Ping sends a ping message to keep the connection alive
func (s *StreamClient) Ping() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isConnected || s.conn == nil {
		return fmt.Errorf("not connected")
	}
	return s.conn.WriteJSON(map[string]interface{}{"op": "ping"})
}
