package livescore

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

// streamServer upgrades the connection, captures the auth message if an
// API key is expected, then pushes the given payloads.
func streamServer(t *testing.T, expectAuth bool, payloads []string) (*httptest.Server, chan map[string]interface{}) {
	t.Helper()

	authCh := make(chan map[string]interface{}, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := testUpgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer conn.Close()

		if expectAuth {
			var auth map[string]interface{}
			require.NoError(t, conn.ReadJSON(&auth))
			authCh <- auth
		}

		for _, payload := range payloads {
			require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(payload)))
		}

		// Hold the connection open briefly so the client read loop
		// processes everything before the server side closes.
		time.Sleep(200 * time.Millisecond)
	}))

	return srv, authCh
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestConnectSendsAuth(t *testing.T) {
	srv, authCh := streamServer(t, true, nil)
	defer srv.Close()

	client := NewStreamClient(wsURL(srv), "secret-key", testLogger())
	require.NoError(t, client.Connect(context.Background()))
	defer client.Close()

	select {
	case auth := <-authCh:
		assert.Equal(t, "auth", auth["op"])
		assert.Equal(t, "secret-key", auth["api_key"])
	case <-time.After(2 * time.Second):
		t.Fatal("auth message not received")
	}

	assert.True(t, client.IsConnected())
}

func TestConnectTwiceFails(t *testing.T) {
	srv, _ := streamServer(t, false, nil)
	defer srv.Close()

	client := NewStreamClient(wsURL(srv), "", testLogger())
	require.NoError(t, client.Connect(context.Background()))
	defer client.Close()

	err := client.Connect(context.Background())
	assert.Error(t, err)
}

func TestResultDispatch(t *testing.T) {
	payload := `{"op":"result","result":{"match_id":"41","league":"Premier League","home_team":"Arsenal","away_team":"Chelsea","home_goals":2,"away_goals":1}}`
	srv, _ := streamServer(t, false, []string{payload})
	defer srv.Close()

	client := NewStreamClient(wsURL(srv), "", testLogger())

	received := make(chan ResultEvent, 1)
	client.AddHandler(func(event ResultEvent) error {
		received <- event
		return nil
	})

	require.NoError(t, client.Connect(context.Background()))
	defer client.Close()

	select {
	case event := <-received:
		assert.Equal(t, "41", event.MatchID)
		assert.Equal(t, "Arsenal", event.HomeTeam)
		assert.Equal(t, "Chelsea", event.AwayTeam)
		assert.Equal(t, 2, event.HomeGoals)
		assert.Equal(t, 1, event.AwayGoals)
		assert.Equal(t, "Premier League", event.League)
	case <-time.After(2 * time.Second):
		t.Fatal("result event not dispatched")
	}
}

func TestDispatchIgnoresKeepalives(t *testing.T) {
	client := NewStreamClient("ws://unused", "", testLogger())

	called := false
	client.AddHandler(func(ResultEvent) error {
		called = true
		return nil
	})

	client.dispatch(json.RawMessage(`{"op":"heartbeat"}`))
	client.dispatch(json.RawMessage(`{"op":"auth_ok"}`))
	client.dispatch(json.RawMessage(`{"op":"odds_update"}`))
	client.dispatch(json.RawMessage(`not json`))
	client.dispatch(json.RawMessage(`{"op":"result"}`))

	assert.False(t, called)
}

func TestConnectWithRetryExhausts(t *testing.T) {
	client := NewStreamClient("ws://127.0.0.1:1", "", testLogger())
	client.reconnectConfig = ReconnectConfig{
		MaxRetries:        2,
		InitialBackoff:    10 * time.Millisecond,
		MaxBackoff:        20 * time.Millisecond,
		BackoffMultiplier: 1.5,
	}

	err := client.ConnectWithRetry(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 2 attempts")
}

func TestConnectWithRetryLogsConnectOnce(t *testing.T) {
	srv, _ := streamServer(t, false, nil)
	defer srv.Close()

	var buf bytes.Buffer
	log := logrus.New()
	log.SetOutput(&buf)
	log.SetLevel(logrus.InfoLevel)

	client := NewStreamClient(wsURL(srv), "", log)
	require.NoError(t, client.ConnectWithRetry(context.Background()))
	defer client.Close()

	assert.Equal(t, 1, strings.Count(buf.String(), "Live score stream connected"))
}

func TestConnectWithRetryHonorsContext(t *testing.T) {
	client := NewStreamClient("ws://127.0.0.1:1", "", testLogger())
	client.reconnectConfig = ReconnectConfig{
		MaxRetries:        10,
		InitialBackoff:    time.Second,
		MaxBackoff:        time.Second,
		BackoffMultiplier: 1.0,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := client.ConnectWithRetry(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestPingRequiresConnection(t *testing.T) {
	client := NewStreamClient("ws://unused", "", testLogger())
	assert.Error(t, client.Ping())
}
