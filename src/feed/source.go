package feed

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net"
	"os"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

//default source options
const (
	DefInterval   = 200 * time.Millisecond //flashblock cadence of the simulated source
	DefPerBlock   = 10                     //flashblocks per block of the simulated source
	DefStartBlock = 1
	DefMinBackoff = 250 * time.Millisecond
	DefMaxBackoff = 10 * time.Second
	maxLineSize   = 4 << 20
)

var ErrUnknownSource = errors.New("unknown feed source")

//Source delivers flashblock records until ctx is cancelled or the source is exhausted
//Run does not close out
type Source interface {
	Run(ctx context.Context, out chan<- *Flashblock) error
}

//Simulated emits synthetic flashblocks on a fixed cadence
type Simulated struct {
	Interval   time.Duration
	PerBlock   int
	StartBlock uint64
	Seed       int64
}

func NewSimulated() *Simulated {
	return &Simulated{
		Interval:   DefInterval,
		PerBlock:   DefPerBlock,
		StartBlock: DefStartBlock,
		Seed:       time.Now().UnixNano(),
	}
}

func (s *Simulated) Run(ctx context.Context, out chan<- *Flashblock) error {
	perBlock := s.PerBlock
	if perBlock <= 0 {
		perBlock = DefPerBlock
	}
	interval := s.Interval
	if interval <= 0 {
		interval = DefInterval
	}
	rnd := rand.New(rand.NewSource(s.Seed))
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	block, index := s.StartBlock, 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		fb := s.synthesize(rnd, block, index)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case out <- fb:
		}
		index++
		if index == perBlock {
			block, index = block+1, 0
		}
	}
}

//synthesize builds a record carrying a few random transactions
func (s *Simulated) synthesize(rnd *rand.Rand, block uint64, index int) *Flashblock {
	fb := &Flashblock{
		PayloadID: fmt.Sprintf("0x%016x", block),
		Index:     index,
		Metadata: Metadata{
			BlockNumber: block,
			Receipts:    map[string]json.RawMessage{},
		},
	}
	if index == 0 {
		fb.Base = &Base{BlockNumber: fmt.Sprintf("0x%x", block)}
	}
	n := rnd.Intn(5)
	for i := 0; i < n; i++ {
		hash := fmt.Sprintf("0x%016x%016x", rnd.Uint64(), rnd.Uint64())
		fb.Diff.Transactions = append(fb.Diff.Transactions, hash)
		fb.Metadata.Receipts[hash] = json.RawMessage(`{}`)
	}
	return fb
}

//Opener opens the underlying byte stream of a Stream source
type Opener func(ctx context.Context) (io.ReadCloser, error)

//Stream reads newline-delimited JSON records, reopening the stream on failure
//malformed lines are logged and skipped
type Stream struct {
	Open       Opener
	MinBackoff time.Duration
	MaxBackoff time.Duration
	//Reconnect is false for finite inputs such as files, Run returns at EOF
	Reconnect bool
	Logger    *log.Logger
}

func (s *Stream) logger() *log.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return log.Default()
}

func (s *Stream) Run(ctx context.Context, out chan<- *Flashblock) error {
	return retrySessions(ctx, s.Reconnect, newBackoff(s.MinBackoff, s.MaxBackoff), s.logger(),
		func(ctx context.Context) (int, error) { return s.session(ctx, out) })
}

//newBackoff builds the reconnect policy, the wait doubles from min up to max and never gives up
func newBackoff(minWait, maxWait time.Duration) *backoff.ExponentialBackOff {
	if minWait <= 0 {
		minWait = DefMinBackoff
	}
	if maxWait <= 0 {
		maxWait = DefMaxBackoff
	}
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = minWait
	b.MaxInterval = maxWait
	b.Multiplier = 2
	b.MaxElapsedTime = 0
	b.Reset()
	return b
}

//retrySessions runs session until ctx ends
//without reconnect the first session's outcome is returned,
//otherwise every end of a session is retried and a session that delivered records restarts the backoff
func retrySessions(ctx context.Context, reconnect bool, policy *backoff.ExponentialBackOff, logger *log.Logger,
	session func(ctx context.Context) (int, error)) error {
	op := func() error {
		received, err := session(ctx)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return backoff.Permanent(ctxErr)
		}
		if !reconnect {
			return backoff.Permanent(err)
		}
		if received > 0 {
			policy.Reset()
		}
		if err == nil {
			err = io.EOF
		}
		return err
	}
	notify := func(err error, wait time.Duration) {
		logger.Printf("feed: stream interrupted (%v), reconnecting in %v", err, wait.Round(time.Millisecond))
	}
	return backoff.RetryNotify(op, backoff.WithContext(policy, ctx), notify)
}

//deliver decodes one record and hands it to out, malformed records are logged and dropped
//returns true when a record was delivered
func deliver(ctx context.Context, out chan<- *Flashblock, data []byte, logger *log.Logger) (bool, error) {
	fb, err := Decode(data)
	if err != nil {
		logger.Printf("feed: skipping record: %v", err)
		return false, nil
	}
	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case out <- fb:
		return true, nil
	}
}

//session reads one opened stream to its end, returns the count of delivered records
func (s *Stream) session(ctx context.Context, out chan<- *Flashblock) (int, error) {
	rc, err := s.Open(ctx)
	if err != nil {
		return 0, fmt.Errorf("open feed: %w", err)
	}
	defer rc.Close()
	//unblock the scanner when the context ends
	stop := context.AfterFunc(ctx, func() { rc.Close() })
	defer stop()

	received := 0
	scanner := bufio.NewScanner(rc)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		ok, err := deliver(ctx, out, line, s.logger())
		if err != nil {
			return received, err
		}
		if ok {
			received++
		}
	}
	if err := scanner.Err(); err != nil {
		return received, fmt.Errorf("read feed: %w", err)
	}
	return received, nil
}

//NewSource builds a source from its command line form:
//sim, - or stdin, file:<path>, tcp://<host:port>, ws://<url> or wss://<url>
func NewSource(uri string, logger *log.Logger) (Source, error) {
	switch {
	case uri == "" || uri == "sim":
		return NewSimulated(), nil
	case uri == "-" || uri == "stdin":
		return &Stream{
			Open: func(context.Context) (io.ReadCloser, error) {
				return io.NopCloser(os.Stdin), nil
			},
			Logger: logger,
		}, nil
	case strings.HasPrefix(uri, "file:"):
		path := strings.TrimPrefix(uri, "file:")
		return &Stream{
			Open: func(context.Context) (io.ReadCloser, error) {
				return os.Open(path)
			},
			Logger: logger,
		}, nil
	case strings.HasPrefix(uri, "ws://") || strings.HasPrefix(uri, "wss://"):
		return &Websocket{URL: uri, Logger: logger}, nil
	case strings.HasPrefix(uri, "tcp://"):
		addr := strings.TrimPrefix(uri, "tcp://")
		return &Stream{
			Open: func(ctx context.Context) (io.ReadCloser, error) {
				var d net.Dialer
				return d.DialContext(ctx, "tcp", addr)
			},
			Reconnect: true,
			Logger:    logger,
		}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownSource, uri)
}
