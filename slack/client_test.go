package slack

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	slackapi "github.com/slack-go/slack"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient("xoxb-test", slackapi.OptionAPIURL(srv.URL+"/")), srv
}

func TestSendToChannelPrivateFallback(t *testing.T) {
	listCalls := 0
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/conversations.list":
			listCalls++
			require.NoError(t, r.ParseForm())
			switch r.FormValue("types") {
			case "public_channel":
				w.Write([]byte(`{"ok": true, "channels": []}`))
			case "private_channel":
				w.Write([]byte(`{"ok": true, "channels": [{"id": "G777", "name": "deploys"}]}`))
			default:
				t.Errorf("unexpected types param: %s", r.FormValue("types"))
			}
		case "/chat.postMessage":
			require.NoError(t, r.ParseForm())
			require.Equal(t, "G777", r.FormValue("channel"))
			w.Write([]byte(`{"ok": true, "channel": "G777", "ts": "9.9"}`))
		default:
			t.Errorf("unexpected Slack call: %s", r.URL.Path)
		}
	})

	res, err := c.SendToChannel(context.Background(), "#deploys", "build passed")
	require.NoError(t, err)
	require.Equal(t, "G777", res.Channel)
	require.Equal(t, 2, listCalls)
}

func TestSendToChannelNotFound(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok": true, "channels": []}`))
	})

	_, err := c.SendToChannel(context.Background(), "ghosts", "boo")
	require.EqualError(t, err, "channel 'ghosts' not found")
}

func TestSendToChannelAcceptsRawID(t *testing.T) {
	posted := false
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/conversations.list":
			w.Write([]byte(`{"ok": true, "channels": []}`))
		case "/chat.postMessage":
			posted = true
			require.NoError(t, r.ParseForm())
			require.Equal(t, "C12345678", r.FormValue("channel"))
			w.Write([]byte(`{"ok": true, "channel": "C12345678", "ts": "1.2"}`))
		}
	})

	_, err := c.SendToChannel(context.Background(), "C12345678", "hi there")
	require.NoError(t, err)
	require.True(t, posted)
}

func TestSendToUserNotFound(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		require.Equal(t, "/users.list", r.URL.Path)
		w.Write([]byte(`{"ok": true, "members": [{"id": "U1", "name": "bob", "real_name": "Bob", "profile": {"display_name": "Bob"}}]}`))
	})

	_, err := c.SendToUser(context.Background(), "alice", "hello")
	require.EqualError(t, err, "user 'alice' not found in the workspace")
}

func TestSendToUserMatchesDisplayName(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/users.list":
			w.Write([]byte(`{"ok": true, "members": [
				{"id": "U1", "name": "asmith", "real_name": "Alice Smith", "profile": {"display_name": "Alice"}}
			]}`))
		case "/conversations.open":
			w.Write([]byte(`{"ok": true, "channel": {"id": "D9"}}`))
		case "/chat.postMessage":
			w.Write([]byte(`{"ok": true, "channel": "D9", "ts": "3.4"}`))
		}
	})

	res, err := c.SendToUser(context.Background(), "Alice", "ping")
	require.NoError(t, err)
	require.Equal(t, "D9", res.Channel)
	require.Equal(t, "3.4", res.Timestamp)
}

func TestNormalizeError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok": false, "error": "invalid_auth"}`))
	})

	_, err := c.SendToUser(context.Background(), "alice", "hello")
	require.EqualError(t, err, "invalid Slack token")
}
