package feed

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gorilla/websocket"
)

//Websocket receives one JSON record per message from a flashblocks endpoint
//the connection is redialled with backoff until ctx ends
type Websocket struct {
	URL        string
	Dialer     *websocket.Dialer //nil means websocket.DefaultDialer
	MinBackoff time.Duration
	MaxBackoff time.Duration
	Logger     *log.Logger
}

func (w *Websocket) logger() *log.Logger {
	if w.Logger != nil {
		return w.Logger
	}
	return log.Default()
}

func (w *Websocket) Run(ctx context.Context, out chan<- *Flashblock) error {
	return retrySessions(ctx, true, newBackoff(w.MinBackoff, w.MaxBackoff), w.logger(),
		func(ctx context.Context) (int, error) { return w.session(ctx, out) })
}

//session reads one connection until it fails, returns the count of delivered records
func (w *Websocket) session(ctx context.Context, out chan<- *Flashblock) (int, error) {
	dialer := w.Dialer
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}
	conn, _, err := dialer.DialContext(ctx, w.URL, nil)
	if err != nil {
		return 0, fmt.Errorf("dial feed: %w", err)
	}
	defer conn.Close()
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()
	conn.SetReadLimit(maxLineSize)

	received := 0
	for {
		//text and binary frames both carry a JSON record
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return received, nil
			}
			return received, fmt.Errorf("read feed: %w", err)
		}
		ok, err := deliver(ctx, out, msg, w.logger())
		if err != nil {
			return received, err
		}
		if ok {
			received++
		}
	}
}
