package feed

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
)

//feedServer sends the messages on every connection and closes it normally
func feedServer(t *testing.T, connections *int32, messages ...string) string {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		atomic.AddInt32(connections, 1)
		for i, m := range messages {
			kind := websocket.TextMessage
			if i%2 == 1 {
				kind = websocket.BinaryMessage
			}
			if err := conn.WriteMessage(kind, []byte(m)); err != nil {
				return
			}
		}
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestWebsocketDecodesMessages(t *testing.T) {
	var connections int32
	url := feedServer(t, &connections,
		sampleRecord,
		`{"index":4,"metadata":{"block_number":9}}`,
		"garbage",
	)
	src := &Websocket{URL: url, MinBackoff: time.Millisecond, MaxBackoff: 2 * time.Millisecond, Logger: quiet}

	records := collect(t, src, 4)
	ids := make([]string, 0, len(records))
	for _, fb := range records {
		ids = append(ids, fb.ID())
	}
	assert.Equal(t, []string{"9_2", "9_4", "9_2", "9_4"}, ids, "the malformed message is skipped and the closed connection redialled")
	assert.GreaterOrEqual(t, atomic.LoadInt32(&connections), int32(2))
}

func TestWebsocketRetriesFailedDial(t *testing.T) {
	var connections, dials int32
	url := feedServer(t, &connections, sampleRecord)
	var d net.Dialer
	src := &Websocket{
		URL: url,
		Dialer: &websocket.Dialer{
			NetDialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
				if atomic.AddInt32(&dials, 1) < 3 {
					return nil, errors.New("connection refused")
				}
				return d.DialContext(ctx, network, addr)
			},
		},
		MinBackoff: time.Millisecond,
		MaxBackoff: 2 * time.Millisecond,
		Logger:     quiet,
	}

	records := collect(t, src, 1)
	assert.Equal(t, "9_2", records[0].ID())
	assert.GreaterOrEqual(t, atomic.LoadInt32(&dials), int32(3))
}
