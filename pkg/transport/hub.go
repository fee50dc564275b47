package transport

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/vtree/pkg/livetree"
	"github.com/vango-dev/vtree/pkg/protocol"
	"github.com/vango-dev/vtree/pkg/render"
	"github.com/vango-dev/vtree/pkg/vdom"
)

// Defaults for HubConfig.
const (
	DefaultPath           = "/ws"
	DefaultWriteTimeout   = 10 * time.Second
	DefaultMaxMessageSize = 64 * 1024
)

// ErrHubClosed is returned by Mount and Apply after Close.
var ErrHubClosed = errors.New("transport: hub closed")

// HubConfig configures a Hub.
type HubConfig struct {
	// Path is the WebSocket endpoint. Default: "/ws".
	Path string

	// WriteTimeout bounds each frame write. Default: 10s.
	WriteTimeout time.Duration

	// MaxMessageSize caps frames read from clients. Default: 64KB.
	MaxMessageSize int64

	// CheckOrigin validates the Origin header. Default: allow all.
	CheckOrigin func(r *http.Request) bool

	// Registry, when set, receives the hub's metrics and is served
	// on /metrics.
	Registry *prometheus.Registry

	// Logger for connection events. Default: slog.Default().
	Logger *slog.Logger
}

func (c *HubConfig) withDefaults() *HubConfig {
	out := HubConfig{}
	if c != nil {
		out = *c
	}
	if out.Path == "" {
		out.Path = DefaultPath
	}
	if out.WriteTimeout <= 0 {
		out.WriteTimeout = DefaultWriteTimeout
	}
	if out.MaxMessageSize <= 0 {
		out.MaxMessageSize = DefaultMaxMessageSize
	}
	if out.CheckOrigin == nil {
		out.CheckOrigin = func(*http.Request) bool { return true }
	}
	if out.Logger == nil {
		out.Logger = slog.Default()
	}
	return &out
}

// Hub fans a rendered tree out to remote mirrors over WebSocket.
//
// Hub implements the renderer side of a render cycle: Mount and Apply keep
// an authoritative live tree and forward the same operations to every
// connected client. Events reported by clients are dispatched to the
// listeners of that live tree.
type Hub struct {
	config   *HubConfig
	logger   *slog.Logger
	upgrader websocket.Upgrader
	router   chi.Router
	metrics  *hubMetrics

	// mirror holds the listeners that client events are dispatched to.
	mirror *livetree.Tree

	mu      sync.Mutex
	seq     uint64
	mounted bool
	clients map[string]*peer
	closed  bool
}

// peer is one connected client.
type peer struct {
	id      string
	conn    *websocket.Conn
	wmu     sync.Mutex
	acked   uint64
	timeout time.Duration
}

// NewHub creates a hub with an empty tree.
func NewHub(config *HubConfig) *Hub {
	cfg := config.withDefaults()
	h := &Hub{
		config: cfg,
		logger: cfg.Logger.With("component", "hub"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     cfg.CheckOrigin,
		},
		mirror:  livetree.New(livetree.WithLogger(cfg.Logger)),
		clients: make(map[string]*peer),
	}
	if cfg.Registry != nil {
		h.metrics = newHubMetrics(cfg.Registry)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get(cfg.Path, h.HandleWebSocket)
	r.Get("/", h.handleDocument)
	if cfg.Registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Registry, promhttp.HandlerOpts{}))
	}
	h.router = r
	return h
}

// Handler returns the hub's HTTP routes: the WebSocket endpoint, a
// server-rendered view of the current tree on "/", and /metrics when a
// registry is configured.
func (h *Hub) Handler() http.Handler {
	return h.router
}

// Mount replaces the whole tree and sends it to every client. Mounts after
// the first are flagged as resyncs. A tree too deep or too large for a
// client to decode is refused and the current tree is kept.
func (h *Hub) Mount(root *vdom.Node) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return ErrHubClosed
	}
	if err := protocol.CheckTree(root); err != nil {
		return err
	}
	var flags protocol.FrameFlags
	if h.mounted {
		flags = protocol.FlagResync
	}
	frame := protocol.NewFrameWithFlags(protocol.FrameMount, flags, protocol.EncodeMount(h.seq+1, root))
	if err := frame.Check(); err != nil {
		return err
	}
	if err := h.mirror.Mount(root); err != nil {
		return err
	}

	h.mounted = true
	h.seq++
	h.broadcastLocked(frame)
	return nil
}

// Apply applies a patch batch to the authoritative tree and forwards it to
// every client. A batch that fails locally, or that a client could not
// decode, is not forwarded.
func (h *Hub) Apply(patches []vdom.Patch) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return ErrHubClosed
	}
	if err := protocol.CheckPatches(patches); err != nil {
		return err
	}
	payload := protocol.EncodePatches(&protocol.PatchesFrame{Seq: h.seq + 1, Patches: patches})
	frame := protocol.NewFrame(protocol.FramePatches, payload)
	if err := frame.Check(); err != nil {
		return err
	}
	if err := h.mirror.Apply(patches); err != nil {
		return err
	}

	h.seq++
	h.broadcastLocked(frame)
	return nil
}

// Seq returns the sequence number of the last Mount or Apply.
func (h *Hub) Seq() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.seq
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Acked returns the last sequence number a client acknowledged.
func (h *Hub) Acked(sessionID string) (uint64, bool) {
	h.mu.Lock()
	p, ok := h.clients[sessionID]
	h.mu.Unlock()
	if !ok {
		return 0, false
	}
	p.wmu.Lock()
	defer p.wmu.Unlock()
	return p.acked, true
}

// Close disconnects every client. Further Mount and Apply calls fail.
func (h *Hub) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for id, p := range h.clients {
		p.conn.Close()
		delete(h.clients, id)
	}
	h.metrics.setClients(0)
	return nil
}

// HandleWebSocket upgrades the request and serves one client until it
// disconnects.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "error", err)
		return
	}
	conn.SetReadLimit(h.config.MaxMessageSize)

	p := &peer{id: uuid.NewString(), conn: conn, timeout: h.config.WriteTimeout}

	// Registration and the initial frames happen under the hub lock so no
	// broadcast can slip between the snapshot and the client joining.
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	err = h.greetLocked(p)
	if err == nil {
		h.clients[p.id] = p
		h.metrics.setClients(len(h.clients))
	}
	h.mu.Unlock()
	if err != nil {
		h.logger.Warn("client greeting failed", "session_id", p.id, "error", err)
		conn.Close()
		return
	}

	h.logger.Info("client connected", "session_id", p.id, "remote", r.RemoteAddr)
	h.readLoop(r.Context(), p)

	h.mu.Lock()
	delete(h.clients, p.id)
	h.metrics.setClients(len(h.clients))
	h.mu.Unlock()
	conn.Close()
	h.logger.Info("client disconnected", "session_id", p.id)
}

func (h *Hub) greetLocked(p *peer) error {
	hello := protocol.NewFrame(protocol.FrameHello, protocol.EncodeHello(protocol.NewHello(p.id)))
	if err := h.send(p, hello); err != nil {
		return err
	}
	return h.send(p, h.mountFrameLocked(0))
}

func (h *Hub) mountFrameLocked(flags protocol.FrameFlags) *protocol.Frame {
	return protocol.NewFrameWithFlags(protocol.FrameMount, flags,
		protocol.EncodeMount(h.seq, h.mirror.Snapshot()))
}

func (h *Hub) readLoop(ctx context.Context, p *peer) {
	for {
		if ctx.Err() != nil {
			return
		}
		_, msg, err := p.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("read failed", "session_id", p.id, "error", err)
			}
			return
		}
		frame, err := protocol.DecodeFrame(msg)
		if err != nil {
			h.reject(p, protocol.ErrInvalidFrame, err)
			continue
		}
		h.metrics.received(frame.Type)

		switch frame.Type {
		case protocol.FrameEvent:
			h.handleEvent(p, frame.Payload)
		case protocol.FrameAck:
			ack, err := protocol.DecodeAck(frame.Payload)
			if err != nil {
				h.reject(p, protocol.ErrInvalidFrame, err)
				continue
			}
			p.wmu.Lock()
			if ack.LastSeq > p.acked {
				p.acked = ack.LastSeq
			}
			p.wmu.Unlock()
		case protocol.FrameError:
			em, err := protocol.DecodeErrorMessage(frame.Payload)
			if err != nil {
				h.reject(p, protocol.ErrInvalidFrame, err)
				continue
			}
			h.handleClientError(p, em)
		default:
			h.reject(p, protocol.ErrInvalidFrame, protocol.ErrInvalidFrameType)
		}
	}
}

// handleEvent dispatches a client event. Events addressed against a tree
// the hub has since moved past are refused, since their index may point at
// a different node now.
func (h *Hub) handleEvent(p *peer, payload []byte) {
	ev, err := protocol.DecodeEvent(payload)
	if err != nil {
		h.reject(p, protocol.ErrInvalidFrame, err)
		return
	}

	// The listener is resolved under h.mu so that no patch can move the
	// index between the seq check and the lookup. It runs unlocked since
	// it may render and call back into Apply.
	h.mu.Lock()
	stale := ev.Seq != h.seq
	var cb *vdom.Callback
	if !stale {
		cb = h.mirror.Listener(ev.Index, ev.Event)
	}
	h.mu.Unlock()

	switch {
	case stale:
		h.sendError(p, protocol.NewError(protocol.ErrOutOfSync, "event addressed a stale tree"))
	case cb == nil:
		h.sendError(p, protocol.NewError(protocol.ErrEventTarget, "no listener for "+ev.Event))
	default:
		cb.Call(ev.Arg)
	}
}

// handleClientError resends the whole tree when a client reports that it
// lost track of the patch stream.
func (h *Hub) handleClientError(p *peer, em *protocol.ErrorMessage) {
	h.logger.Warn("client reported error", "session_id", p.id, "code", em.Code, "message", em.Message)
	if !em.Code.Resyncable() {
		return
	}
	h.mu.Lock()
	err := h.send(p, h.mountFrameLocked(protocol.FlagResync))
	h.mu.Unlock()
	if err != nil {
		h.logger.Warn("resync failed", "session_id", p.id, "error", err)
	}
}

func (h *Hub) reject(p *peer, code protocol.ErrorCode, err error) {
	h.logger.Debug("rejected frame", "session_id", p.id, "error", err)
	h.sendError(p, protocol.NewError(code, err.Error()))
}

func (h *Hub) sendError(p *peer, em *protocol.ErrorMessage) {
	frame := protocol.NewFrame(protocol.FrameError, protocol.EncodeErrorMessage(em))
	if err := h.send(p, frame); err != nil {
		h.logger.Debug("error frame not delivered", "session_id", p.id, "error", err)
	}
}

// broadcastLocked writes a frame to every client, dropping those whose
// write fails. The caller holds h.mu.
func (h *Hub) broadcastLocked(frame *protocol.Frame) {
	for id, p := range h.clients {
		if err := h.send(p, frame); err != nil {
			h.logger.Warn("dropping client", "session_id", id, "error", err)
			p.conn.Close()
			delete(h.clients, id)
		}
	}
	h.metrics.setClients(len(h.clients))
}

func (h *Hub) send(p *peer, frame *protocol.Frame) error {
	data := frame.Encode()
	p.wmu.Lock()
	defer p.wmu.Unlock()
	p.conn.SetWriteDeadline(time.Now().Add(p.timeout))
	if err := p.conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
		return err
	}
	h.metrics.sent(frame.Type, len(data))
	return nil
}

// handleDocument serves the current tree as HTML.
func (h *Hub) handleDocument(w http.ResponseWriter, r *http.Request) {
	root := h.mirror.Snapshot()
	if root == nil {
		http.Error(w, "nothing mounted", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	renderer := render.NewRenderer(render.RendererConfig{})
	if err := renderer.RenderToWriter(w, root); err != nil {
		h.logger.Error("render failed", "error", err)
	}
}

// hubMetrics are nil-safe so a hub without a registry skips recording.
type hubMetrics struct {
	clients    prometheus.Gauge
	framesSent *prometheus.CounterVec
	framesRecv *prometheus.CounterVec
	bytesSent  prometheus.Counter
}

func newHubMetrics(reg prometheus.Registerer) *hubMetrics {
	f := promauto.With(reg)
	return &hubMetrics{
		clients: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "vtree",
			Subsystem: "hub",
			Name:      "clients",
			Help:      "Number of connected mirror clients.",
		}),
		framesSent: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vtree",
			Subsystem: "hub",
			Name:      "frames_sent_total",
			Help:      "Frames written to clients by type.",
		}, []string{"type"}),
		framesRecv: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vtree",
			Subsystem: "hub",
			Name:      "frames_received_total",
			Help:      "Frames read from clients by type.",
		}, []string{"type"}),
		bytesSent: f.NewCounter(prometheus.CounterOpts{
			Namespace: "vtree",
			Subsystem: "hub",
			Name:      "bytes_sent_total",
			Help:      "Bytes written to clients.",
		}),
	}
}

func (m *hubMetrics) setClients(n int) {
	if m == nil {
		return
	}
	m.clients.Set(float64(n))
}

func (m *hubMetrics) sent(ft protocol.FrameType, n int) {
	if m == nil {
		return
	}
	m.framesSent.WithLabelValues(ft.String()).Inc()
	m.bytesSent.Add(float64(n))
}

func (m *hubMetrics) received(ft protocol.FrameType) {
	if m == nil {
		return
	}
	m.framesRecv.WithLabelValues(ft.String()).Inc()
}
