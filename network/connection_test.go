package network

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoHandler struct{}

func (echoHandler) HandleMessage(conn *Connection, message []byte) {
	conn.SendMessage(map[string]string{"echo": string(message)})
}

func TestConnectionEcho(t *testing.T) {
	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		conn := NewConnection(ws, nil)
		go conn.WritePump()
		conn.ReadPump(echoHandler{})
	}))
	defer server.Close()

	client, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http"), nil)
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, client.WriteMessage(websocket.TextMessage, []byte("hello")))
	require.NoError(t, client.SetReadDeadline(time.Now().Add(5*time.Second)))

	var reply map[string]string
	require.NoError(t, client.ReadJSON(&reply))
	assert.Equal(t, "hello", reply["echo"])
}

func TestSendAfterClose(t *testing.T) {
	conn := NewConnection(nil, nil)
	assert.NotEmpty(t, conn.ID)

	require.NoError(t, conn.SendMessage("queued"))
	conn.Close()
	conn.Close()

	assert.ErrorIs(t, conn.SendMessage("late"), ErrConnectionClosed)
}
