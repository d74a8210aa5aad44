package app

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MecanumDash/internal/model"
)

func dialWS(t *testing.T, httpURL string) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(httpURL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readStatus(t *testing.T, conn *websocket.Conn) model.StatusMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var msg model.StatusMessage
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func TestWSGreetsWithSerialStatus(t *testing.T) {
	_, _, srv := newTestApp(t)
	conn := dialWS(t, srv.URL)

	msg := readStatus(t, conn)
	assert.Equal(t, "serial_status", msg.Type)
	assert.Equal(t, "Disconnected", msg.Status)
}

func TestWSControlEventDrivesMotors(t *testing.T) {
	a, mock, srv := newTestApp(t)
	require.NoError(t, a.Session.Connect("/dev/ttyTEST", 9600))

	conn := dialWS(t, srv.URL)
	readStatus(t, conn) // greeting

	require.NoError(t, conn.WriteJSON(model.ControlEvent{Action: "forward"}))

	// the write happens on the server's read loop; poll briefly
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if len(mock.Lines()) > 0 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	require.NotEmpty(t, mock.Lines())
	assert.Equal(t, "150,150,150,150", mock.Lines()[0])
}

func TestWSInvalidActionReportsError(t *testing.T) {
	a, _, srv := newTestApp(t)
	require.NoError(t, a.Session.Connect("/dev/ttyTEST", 9600))

	conn := dialWS(t, srv.URL)
	readStatus(t, conn) // greeting

	require.NoError(t, conn.WriteJSON(model.ControlEvent{Action: "warp"}))
	msg := readStatus(t, conn)
	assert.Equal(t, "error", msg.Type)
	assert.Contains(t, msg.Message, "invalid control action")
}

func TestWSNotConnectedSurfacesError(t *testing.T) {
	_, _, srv := newTestApp(t)
	conn := dialWS(t, srv.URL)
	readStatus(t, conn) // greeting

	require.NoError(t, conn.WriteJSON(model.ControlEvent{Action: "forward"}))
	msg := readStatus(t, conn)
	assert.Equal(t, "error", msg.Type)
	assert.Contains(t, msg.Message, "not connected")
}

func TestWSBroadcastsConnectionChanges(t *testing.T) {
	a, _, srv := newTestApp(t)
	conn := dialWS(t, srv.URL)
	readStatus(t, conn) // greeting

	require.NoError(t, a.Session.Connect("/dev/ttyTEST", 9600))
	msg := readStatus(t, conn)
	assert.Equal(t, "serial_status", msg.Type)
	assert.Equal(t, "Connected", msg.Status)
}
