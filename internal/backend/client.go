package backend

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"sync"

	"moss/internal/bridge"
	"moss/internal/config"
	"moss/pkg/types"
	"moss/pkg/utils"
)

var ErrClientClosed = errors.New("backend client is closed")

// maxFrameSize caps a single backend frame. Progress payloads are tiny;
// results carry at most a path or URL.
const maxFrameSize = 1 << 20

// Client talks to the moss backend over its unix socket using
// newline-delimited JSON frames. Responses are correlated to requests by
// id; progress notifications are addressed to per-invocation channel
// tokens. It implements bridge.Commander and is safe for concurrent use.
type Client struct {
	conn net.Conn

	writeMu sync.Mutex // serializes frame writes

	mu      sync.Mutex
	nextID  uint64
	pending map[uint64]chan callResult
	subs    map[string]*progressSub
	closed  bool
	failErr error
}

type callResult struct {
	frame frame
	err   error
}

// progressSub guards one invocation's progress channel so delivery and
// closure never race.
type progressSub struct {
	mu     sync.Mutex
	ch     chan<- types.ProgressUpdate
	closed bool
}

func (s *progressSub) deliver(update types.ProgressUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.ch <- update
}

func (s *progressSub) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.ch)
}

// Dial connects to the backend socket and starts the read loop.
func Dial(cfg *config.BackendConfig) (*Client, error) {
	conn, err := net.DialTimeout("unix", cfg.SocketPath, cfg.DialTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to moss backend at %s: %w", cfg.SocketPath, err)
	}
	return NewClient(conn), nil
}

// NewClient wraps an established connection to the backend.
func NewClient(conn net.Conn) *Client {
	c := &Client{
		conn:    conn,
		pending: make(map[uint64]chan callResult),
		subs:    make(map[string]*progressSub),
	}
	go c.readLoop()
	return c
}

// Close tears down the connection. Pending calls fail with a transport
// error and open progress channels are closed.
func (c *Client) Close() error {
	err := c.conn.Close()
	c.fail(ErrClientClosed)
	return err
}

// CompileFolder implements bridge.Commander. The progress channel is
// subscribed under a fresh token before the request goes out, so no
// notification can slip past the demux.
func (c *Client) CompileFolder(ctx context.Context, req bridge.CompileRequest, progress chan<- types.ProgressUpdate) (types.Result[string], error) {
	sub := &progressSub{ch: progress}

	token, err := utils.GenerateCode(channelTokenLength)
	if err != nil {
		sub.close()
		return types.Result[string]{}, fmt.Errorf("failed to generate progress channel token: %w", err)
	}

	params, err := utils.EncodeJSON(req)
	if err != nil {
		sub.close()
		return types.Result[string]{}, fmt.Errorf("failed to encode compile request: %w", err)
	}

	c.addSub(token, sub)
	fr, err := c.call(ctx, request{Command: cmdCompileFolder, Channel: token, Params: params})
	if err != nil {
		c.removeSub(token)
		return types.Result[string]{}, err
	}
	res, decodeErr := utils.DecodeJSON[types.Result[string]](fr.Result)
	if !req.Watch || decodeErr != nil || res.Status != types.StatusOK {
		// Plain compiles stop streaming once the call settles, and a failed
		// watch compile never opened a stream the backend would close.
		// Successful watch compiles keep the subscription until the backend
		// ends it.
		c.removeSub(token)
	}
	return res, decodeErr
}

// SystemStatus implements bridge.Commander.
func (c *Client) SystemStatus(ctx context.Context) (types.Result[types.SystemStatus], error) {
	fr, err := c.call(ctx, request{Command: cmdSystemStatus})
	if err != nil {
		return types.Result[types.SystemStatus]{}, err
	}
	return utils.DecodeJSON[types.Result[types.SystemStatus]](fr.Result)
}

// InstallFinderIntegration implements bridge.Commander.
func (c *Client) InstallFinderIntegration(ctx context.Context) (types.Result[struct{}], error) {
	fr, err := c.call(ctx, request{Command: cmdInstallFinderIntegration})
	if err != nil {
		return types.Result[struct{}]{}, err
	}
	return utils.DecodeJSON[types.Result[struct{}]](fr.Result)
}

// call sends one request frame and waits for its response or context
// cancellation. Cancellation abandons the wait; the backend is not asked
// to stop.
func (c *Client) call(ctx context.Context, req request) (frame, error) {
	respCh := make(chan callResult, 1)

	c.mu.Lock()
	if c.closed {
		err := c.failErr
		c.mu.Unlock()
		return frame{}, err
	}
	c.nextID++
	req.ID = c.nextID
	c.pending[req.ID] = respCh
	c.mu.Unlock()

	line, err := utils.EncodeJSON(req)
	if err != nil {
		c.removePending(req.ID)
		return frame{}, fmt.Errorf("failed to encode request: %w", err)
	}

	c.writeMu.Lock()
	_, err = c.conn.Write(append(line, '\n'))
	c.writeMu.Unlock()
	if err != nil {
		c.removePending(req.ID)
		return frame{}, fmt.Errorf("failed to write to moss backend: %w", err)
	}

	select {
	case <-ctx.Done():
		c.removePending(req.ID)
		return frame{}, ctx.Err()
	case res := <-respCh:
		return res.frame, res.err
	}
}

// readLoop demuxes inbound frames until the connection dies, then fails
// everything still in flight.
func (c *Client) readLoop() {
	scanner := bufio.NewScanner(c.conn)
	scanner.Buffer(make([]byte, 0, 64*1024), maxFrameSize)

	for scanner.Scan() {
		fr, err := utils.DecodeJSON[frame](scanner.Bytes())
		if err != nil {
			log.Printf("Dropping malformed backend frame: %v", err)
			continue
		}

		switch fr.Event {
		case eventProgress:
			c.dispatchProgress(fr)
		case eventClosed:
			c.removeSub(fr.Channel)
		default:
			c.resolve(fr)
		}
	}

	err := scanner.Err()
	if err == nil {
		err = io.EOF
	}
	c.fail(fmt.Errorf("moss backend connection lost: %w", err))
}

func (c *Client) dispatchProgress(fr frame) {
	update, err := utils.DecodeJSON[types.ProgressUpdate](fr.Data)
	if err != nil {
		log.Printf("Dropping malformed progress update on channel %s: %v", fr.Channel, err)
		return
	}

	c.mu.Lock()
	sub := c.subs[fr.Channel]
	c.mu.Unlock()
	if sub == nil {
		// Stream already torn down; late updates are dropped.
		return
	}
	sub.deliver(update)
}

func (c *Client) resolve(fr frame) {
	c.mu.Lock()
	respCh := c.pending[fr.ID]
	delete(c.pending, fr.ID)
	c.mu.Unlock()
	if respCh == nil {
		log.Printf("Dropping response for unknown request id %d", fr.ID)
		return
	}
	respCh <- callResult{frame: fr}
}

func (c *Client) addSub(token string, sub *progressSub) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subs[token] = sub
}

// removeSub unregisters and closes a progress subscription. Safe to call
// more than once per token.
func (c *Client) removeSub(token string) {
	c.mu.Lock()
	sub := c.subs[token]
	delete(c.subs, token)
	c.mu.Unlock()
	if sub != nil {
		sub.close()
	}
}

func (c *Client) removePending(id uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.pending, id)
}

// fail marks the client dead, rejects every pending call with the
// transport error and closes every open progress channel.
func (c *Client) fail(err error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.failErr = err
	pending := c.pending
	subs := c.subs
	c.pending = make(map[uint64]chan callResult)
	c.subs = make(map[string]*progressSub)
	c.mu.Unlock()

	for _, respCh := range pending {
		respCh <- callResult{err: err}
	}
	for _, sub := range subs {
		sub.close()
	}
}
