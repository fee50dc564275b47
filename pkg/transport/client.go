package transport

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/vango-dev/vtree/pkg/livetree"
	"github.com/vango-dev/vtree/pkg/protocol"
	"github.com/vango-dev/vtree/pkg/vdom"
)

// ErrNotGreeted is returned by Dial when the server's first frame is not a
// Hello.
var ErrNotGreeted = errors.New("transport: server did not send hello")

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithClientLogger sets the client's logger.
func WithClientLogger(l *slog.Logger) ClientOption {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithTree mirrors into an existing live tree instead of a fresh one.
func WithTree(t *livetree.Tree) ClientOption {
	return func(c *Client) {
		if t != nil {
			c.tree = t
		}
	}
}

// WithWindow sets the window advertised in acknowledgments.
func WithWindow(n uint64) ClientOption {
	return func(c *Client) {
		c.window = n
	}
}

// Client mirrors a hub's tree into a local live tree.
type Client struct {
	conn      *websocket.Conn
	tree      *livetree.Tree
	logger    *slog.Logger
	sessionID string
	window    uint64

	wmu sync.Mutex

	mu      sync.Mutex
	seq     uint64
	updated chan struct{} // closed and replaced whenever seq changes
	resyncs int
}

// Dial connects to a hub's WebSocket endpoint and waits for its Hello.
func Dial(ctx context.Context, url string, opts ...ClientOption) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}

	c := &Client{
		conn:    conn,
		logger:  slog.Default(),
		window:  protocol.DefaultWindow,
		updated: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.tree == nil {
		c.tree = livetree.New(livetree.WithLogger(c.logger))
	}

	if deadline, ok := ctx.Deadline(); ok {
		conn.SetReadDeadline(deadline)
	}
	_, msg, err := conn.ReadMessage()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("read hello: %w", err)
	}
	conn.SetReadDeadline(time.Time{})

	frame, err := protocol.DecodeFrame(msg)
	if err != nil {
		conn.Close()
		return nil, err
	}
	if frame.Type != protocol.FrameHello {
		conn.Close()
		return nil, ErrNotGreeted
	}
	hello, err := protocol.DecodeHello(frame.Payload)
	if err != nil {
		conn.Close()
		return nil, err
	}
	if err := hello.CheckVersion(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("server speaks version %d: %w", hello.Version, err)
	}
	c.sessionID = hello.SessionID
	c.logger = c.logger.With("session_id", c.sessionID)
	return c, nil
}

// Run processes frames until ctx is cancelled, the server closes the
// connection, or the server reports a fatal error. Cancellation is not an
// error.
func (c *Client) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	done := make(chan struct{})

	g.Go(func() error {
		defer close(done)
		return c.readLoop()
	})
	g.Go(func() error {
		select {
		case <-gctx.Done():
			c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second))
			c.conn.Close()
		case <-done:
		}
		return nil
	})

	err := g.Wait()
	if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		return nil
	}
	if ctx.Err() != nil && !errors.As(err, new(*protocol.ErrorMessage)) {
		return nil
	}
	return err
}

func (c *Client) readLoop() error {
	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			return err
		}
		frame, err := protocol.DecodeFrame(msg)
		if err != nil {
			c.report(protocol.ErrInvalidFrame, err.Error())
			continue
		}
		if err := c.handle(frame); err != nil {
			return err
		}
	}
}

func (c *Client) handle(frame *protocol.Frame) error {
	switch frame.Type {
	case protocol.FrameMount:
		seq, root, err := protocol.DecodeMount(frame.Payload)
		if err != nil {
			c.report(protocol.ErrInvalidFrame, err.Error())
			return nil
		}
		if err := c.tree.Mount(root); err != nil {
			c.logger.Error("mount rejected", "error", err)
			return err
		}
		if frame.Flags.Has(protocol.FlagResync) {
			c.mu.Lock()
			c.resyncs++
			c.mu.Unlock()
		}
		c.advance(seq)
		return c.ack(seq)

	case protocol.FramePatches:
		pf, err := protocol.DecodePatches(frame.Payload)
		if err != nil {
			c.report(protocol.ErrInvalidFrame, err.Error())
			return nil
		}
		if want := c.Seq() + 1; pf.Seq != want {
			c.logger.Warn("patch batch out of order", "seq", pf.Seq, "want", want)
			c.report(protocol.ErrOutOfSync, fmt.Sprintf("got batch %d, want %d", pf.Seq, want))
			return nil
		}
		if err := c.tree.Apply(pf.Patches); err != nil {
			c.report(protocol.ErrApplyFailed, err.Error())
			return nil
		}
		c.advance(pf.Seq)
		return c.ack(pf.Seq)

	case protocol.FrameError:
		em, err := protocol.DecodeErrorMessage(frame.Payload)
		if err != nil {
			return err
		}
		c.logger.Warn("server reported error", "code", em.Code, "message", em.Message)
		if em.IsFatal() {
			return em
		}
		return nil

	case protocol.FrameHello:
		return nil

	default:
		c.report(protocol.ErrInvalidFrame, "unexpected "+frame.Type.String()+" frame")
		return nil
	}
}

func (c *Client) advance(seq uint64) {
	c.mu.Lock()
	c.seq = seq
	close(c.updated)
	c.updated = make(chan struct{})
	c.mu.Unlock()
}

func (c *Client) ack(seq uint64) error {
	payload := protocol.EncodeAck(protocol.NewAck(seq, c.window))
	return c.write(protocol.NewFrame(protocol.FrameAck, payload))
}

func (c *Client) report(code protocol.ErrorCode, message string) {
	payload := protocol.EncodeErrorMessage(protocol.NewError(code, message))
	if err := c.write(protocol.NewFrame(protocol.FrameError, payload)); err != nil {
		c.logger.Debug("error report not delivered", "error", err)
	}
}

func (c *Client) write(frame *protocol.Frame) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(DefaultWriteTimeout))
	return c.conn.WriteMessage(websocket.BinaryMessage, frame.Encode())
}

// Dispatch reports an event on the node at a traversal index of the
// mirrored tree. The server runs the listener.
func (c *Client) Dispatch(index int, event string, arg vdom.Value) error {
	ev := &protocol.EventMessage{Seq: c.Seq(), Index: index, Event: event, Arg: arg}
	return c.write(protocol.NewFrame(protocol.FrameEvent, protocol.EncodeEvent(ev)))
}

// WaitSeq blocks until the mirror has caught up to seq.
func (c *Client) WaitSeq(ctx context.Context, seq uint64) error {
	for {
		c.mu.Lock()
		cur, ch := c.seq, c.updated
		c.mu.Unlock()
		if cur >= seq {
			return nil
		}
		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Seq returns the sequence number the mirror is at.
func (c *Client) Seq() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seq
}

// Resyncs returns how many resync mounts the client has received.
func (c *Client) Resyncs() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resyncs
}

// SessionID returns the session ID assigned by the hub.
func (c *Client) SessionID() string {
	return c.sessionID
}

// Tree returns the mirrored live tree.
func (c *Client) Tree() *livetree.Tree {
	return c.tree
}

// Snapshot returns the mirrored tree as a vdom tree.
func (c *Client) Snapshot() *vdom.Node {
	return c.tree.Snapshot()
}

// Close closes the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}
