package gateway

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/7lmtv/rendezvous/internal/config"
	"github.com/7lmtv/rendezvous/internal/match"
	"github.com/7lmtv/rendezvous/pkg/logger"
)

type eventKind int

const (
	eventConnect eventKind = iota
	eventMessage
	eventDisconnect
)

// event is one unit of work for the hub loop.
type event struct {
	kind eventKind
	conn *Connection
	msg  *ClientMessage
}

// Hub owns the matchmaking state: the waiting queue, the room registry and the
// connection registry. All three are mutated exclusively by the single run
// loop, which processes connect, message and disconnect events one at a time.
// The cross-structure invariants (one queue entry per identity, room existence
// tied to both members' back-references) hold because no other goroutine ever
// touches these collections.
type Hub struct {
	cfg      config.ServerConfig
	registry *Registry
	queue    *match.Queue
	rooms    *match.Rooms

	events  chan event
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.Mutex
	running bool

	stats HubStats
}

// HubStats holds statistics about the hub
type HubStats struct {
	ConnectionsTotal  int64     `json:"connections_total"`
	ConnectionsActive int       `json:"connections_active"`
	Waiting           int       `json:"waiting"`
	ActiveRooms       int       `json:"active_rooms"`
	MatchesTotal      int64     `json:"matches_total"`
	SignalsRelayed    int64     `json:"signals_relayed"`
	ChatRelayed       int64     `json:"chat_relayed"`
	LastMatchTime     time.Time `json:"last_match_time"`
	mu                sync.RWMutex
}

// NewHub creates a hub with empty matchmaking state.
func NewHub(cfg config.ServerConfig) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		cfg:      cfg,
		registry: NewRegistry(),
		queue:    match.NewQueue(),
		rooms:    match.NewRooms(),
		events:   make(chan event, 1024),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start starts the hub's event loop.
func (h *Hub) Start() error {
	h.mu.Lock()
	if h.running {
		h.mu.Unlock()
		return nil
	}
	h.running = true
	h.mu.Unlock()

	logger.Info("Starting matchmaking hub",
		logger.Int("send_buffer", h.cfg.SendBuffer),
		logger.Duration("ping_interval", h.cfg.PingInterval),
	)

	h.wg.Add(1)
	go h.run()
	return nil
}

// Stop stops the event loop and closes every remaining connection.
func (h *Hub) Stop() {
	h.mu.Lock()
	if !h.running {
		h.mu.Unlock()
		return
	}
	h.running = false
	h.mu.Unlock()

	logger.Info("Stopping matchmaking hub")
	h.cancel()
	h.wg.Wait()

	for _, conn := range h.registry.GetAll() {
		conn.Close()
	}
	logger.Info("Matchmaking hub stopped")
}

// Register hands a freshly upgraded connection to the hub and starts its
// read/write pumps.
func (h *Hub) Register(conn *Connection) {
	h.post(event{kind: eventConnect, conn: conn})

	h.wg.Add(2)
	go h.writePump(conn)
	go h.readPump(conn)
}

// ConnectionCount returns the number of live connections.
func (h *Hub) ConnectionCount() int {
	return h.registry.Count()
}

// post submits an event to the run loop unless the hub is shutting down.
func (h *Hub) post(ev event) {
	select {
	case h.events <- ev:
	case <-h.ctx.Done():
	}
}

// run is the single goroutine that owns all matchmaking state.
func (h *Hub) run() {
	defer h.wg.Done()

	for {
		select {
		case <-h.ctx.Done():
			return
		case ev := <-h.events:
			h.dispatch(ev)
		}
	}
}

func (h *Hub) dispatch(ev event) {
	switch ev.kind {
	case eventConnect:
		h.handleConnect(ev.conn)
	case eventDisconnect:
		h.handleDisconnect(ev.conn)
	case eventMessage:
		h.handleMessage(ev.conn, ev.msg)
	}
}

func (h *Hub) handleConnect(conn *Connection) {
	h.registry.Add(conn)
	connectionsTotal.Inc()
	h.stats.mu.Lock()
	h.stats.ConnectionsTotal++
	h.stats.mu.Unlock()

	logger.Info("Connection registered",
		logger.String("connection_id", conn.ID),
		logger.Int("online", h.registry.Count()),
	)
	h.broadcastOnlineCount()
}

// handleDisconnect is the unconditional cleanup path: queue removal, room
// teardown, registry removal, then an online-count broadcast. Both pumps
// report the same disconnect, so the registry check makes the second report
// a no-op.
func (h *Hub) handleDisconnect(conn *Connection) {
	if !h.registry.Remove(conn.ID) {
		return
	}

	h.queue.Remove(conn.ID)
	h.syncQueueGauge()
	h.leaveRoom(conn)
	conn.Close()

	logger.Info("Connection unregistered",
		logger.String("connection_id", conn.ID),
		logger.Int("online", h.registry.Count()),
	)
	h.broadcastOnlineCount()
}

func (h *Hub) handleMessage(conn *Connection, msg *ClientMessage) {
	// Both pumps post the disconnect, so a buffered inbound frame can arrive
	// after cleanup already ran. Messages from a torn-down connection must not
	// re-enter it into the queue or rooms.
	if _, live := h.registry.Get(conn.ID); !live {
		logger.Debug("Dropping message from closed connection",
			logger.String("connection_id", conn.ID),
			logger.String("message_type", string(msg.Type)),
		)
		return
	}

	switch msg.Type {
	case MessageTypeJoinQueue:
		h.handleJoinQueue(conn, msg.MatchPrefs())
	case MessageTypeLeaveQueue:
		h.handleLeaveQueue(conn)
	case MessageTypeNext:
		h.handleNext(conn, msg.MatchPrefs())
	case MessageTypeSignal:
		h.relaySignal(conn, msg.Payload)
	case MessageTypeChat:
		h.relayChat(conn, msg.Text)
	default:
		// Unknown types are ignored, the connection keeps its state.
		logger.Debug("Ignoring unknown message type",
			logger.String("connection_id", conn.ID),
			logger.String("message_type", string(msg.Type)),
		)
	}
}

// handleJoinQueue moves the connection to the queued state. Joining while
// paired leaves the room first, so the peer is told immediately instead of
// talking to a dead room.
func (h *Hub) handleJoinQueue(conn *Connection, prefs match.Prefs) {
	h.leaveRoom(conn)
	h.queue.Enqueue(conn.ID, prefs)

	logger.Debug("Connection queued",
		logger.String("connection_id", conn.ID),
		logger.Int("waiting", h.queue.Len()),
	)
	h.tryMatch()
	h.syncQueueGauge()
}

func (h *Hub) handleLeaveQueue(conn *Connection) {
	if h.queue.Remove(conn.ID) {
		logger.Debug("Connection left queue",
			logger.String("connection_id", conn.ID),
			logger.Int("waiting", h.queue.Len()),
		)
	}
	h.syncQueueGauge()
}

// handleNext leaves the current room, if any, and re-queues with the given
// preferences.
func (h *Hub) handleNext(conn *Connection, prefs match.Prefs) {
	h.leaveRoom(conn)
	h.queue.Enqueue(conn.ID, prefs)

	logger.Debug("Connection requeued",
		logger.String("connection_id", conn.ID),
		logger.Int("waiting", h.queue.Len()),
	)
	h.tryMatch()
	h.syncQueueGauge()
}

// tryMatch runs one pairing attempt. Called once per enqueue; a dequeue can
// never create a new pair.
func (h *Hub) tryMatch() {
	a, b, ok := h.queue.FindPair()
	if !ok {
		return
	}

	connA, okA := h.registry.Get(a.ID)
	connB, okB := h.registry.Get(b.ID)
	if !okA || !okB {
		// Disconnects remove queue entries in this same loop, so a stale
		// entry here means a bug; keep the surviving side queued.
		logger.Warn("Matched entry without live connection",
			logger.String("a", a.ID), logger.Bool("a_live", okA),
			logger.String("b", b.ID), logger.Bool("b_live", okB),
		)
		if okA {
			h.queue.Enqueue(a.ID, a.Prefs)
		}
		if okB {
			h.queue.Enqueue(b.ID, b.Prefs)
		}
		// Each retry discards at least one stale entry, so this terminates.
		h.tryMatch()
		return
	}

	roomID := h.rooms.Create(a.ID, b.ID)
	connA.TrySend(MatchFoundMessage(roomID, b.ID))
	connB.TrySend(MatchFoundMessage(roomID, a.ID))

	matchesTotal.Inc()
	h.stats.mu.Lock()
	h.stats.MatchesTotal++
	h.stats.LastMatchTime = time.Now()
	h.stats.mu.Unlock()

	logger.Info("Match made",
		logger.String("room_id", roomID),
		logger.String("connection_a", a.ID),
		logger.String("connection_b", b.ID),
	)
	h.broadcastRoomsCount()
}

// leaveRoom tears down the sender's room, if any. The peer gets a single
// partnerLeft notification; a second call for the same room is a no-op, which
// covers next and close racing for the same connection.
func (h *Hub) leaveRoom(conn *Connection) {
	roomID, peerID, ok := h.rooms.Leave(conn.ID)
	if !ok {
		return
	}

	if peer, live := h.registry.Get(peerID); live {
		peer.TrySend(PartnerLeftMessage())
	}

	logger.Debug("Room closed",
		logger.String("room_id", roomID),
		logger.String("connection_id", conn.ID),
		logger.String("partner_id", peerID),
	)
	h.broadcastRoomsCount()
}

// relaySignal forwards an opaque signaling payload to the sender's partner.
// Signals from an unpaired connection are expected after teardown and are
// silently dropped.
func (h *Hub) relaySignal(conn *Connection, payload json.RawMessage) {
	peerID, ok := h.rooms.Peer(conn.ID)
	if !ok {
		return
	}
	peer, live := h.registry.Get(peerID)
	if !live {
		return
	}
	if peer.TrySend(SignalMessage(conn.ID, payload)) {
		messagesRelayed.WithLabelValues(string(MessageTypeSignal)).Inc()
		h.stats.mu.Lock()
		h.stats.SignalsRelayed++
		h.stats.mu.Unlock()
	}
}

// relayChat forwards a chat line to the sender's partner, same rules as
// relaySignal.
func (h *Hub) relayChat(conn *Connection, text string) {
	peerID, ok := h.rooms.Peer(conn.ID)
	if !ok {
		return
	}
	peer, live := h.registry.Get(peerID)
	if !live {
		return
	}
	if peer.TrySend(ChatMessage(conn.ID, text)) {
		messagesRelayed.WithLabelValues(string(MessageTypeChat)).Inc()
		h.stats.mu.Lock()
		h.stats.ChatRelayed++
		h.stats.mu.Unlock()
	}
}

// broadcastOnlineCount sends the current connection count to every client.
// The value is read from the registry at broadcast time, never tracked
// incrementally.
func (h *Hub) broadcastOnlineCount() {
	count := h.registry.Count()
	onlineConnections.Set(float64(count))

	msg := OnlineCountMessage(count)
	for _, conn := range h.registry.GetAll() {
		conn.TrySend(msg)
	}
}

// broadcastRoomsCount sends the current room count to every client.
func (h *Hub) broadcastRoomsCount() {
	count := h.rooms.Count()
	activeRooms.Set(float64(count))
	h.stats.mu.Lock()
	h.stats.ActiveRooms = count
	h.stats.mu.Unlock()

	msg := RoomsCountMessage(count)
	for _, conn := range h.registry.GetAll() {
		conn.TrySend(msg)
	}
}

func (h *Hub) syncQueueGauge() {
	n := h.queue.Len()
	waitingClients.Set(float64(n))
	h.stats.mu.Lock()
	h.stats.Waiting = n
	h.stats.mu.Unlock()
}

// GetStats returns a snapshot of hub statistics.
func (h *Hub) GetStats() HubStats {
	h.stats.mu.RLock()
	defer h.stats.mu.RUnlock()

	return HubStats{
		ConnectionsTotal:  h.stats.ConnectionsTotal,
		ConnectionsActive: h.registry.Count(),
		Waiting:           h.stats.Waiting,
		ActiveRooms:       h.stats.ActiveRooms,
		MatchesTotal:      h.stats.MatchesTotal,
		SignalsRelayed:    h.stats.SignalsRelayed,
		ChatRelayed:       h.stats.ChatRelayed,
		LastMatchTime:     h.stats.LastMatchTime,
	}
}

// writePump pumps queued messages onto the WebSocket connection and keeps the
// link alive with pings.
func (h *Hub) writePump(conn *Connection) {
	defer h.wg.Done()
	defer h.post(event{kind: eventDisconnect, conn: conn})
	// Closing the socket unblocks the read pump, so a stop or write failure
	// tears the whole connection down.
	defer conn.Conn.Close()

	ticker := time.NewTicker(h.cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-h.ctx.Done():
			return

		case message, ok := <-conn.send:
			conn.Conn.SetWriteDeadline(time.Now().Add(h.cfg.WriteTimeout))
			if !ok {
				// Channel closed
				conn.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			conn.Conn.SetWriteDeadline(time.Now().Add(h.cfg.WriteTimeout))
			if err := conn.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump pumps inbound frames from the WebSocket connection into the hub's
// event loop. Malformed frames are dropped without touching connection state.
func (h *Hub) readPump(conn *Connection) {
	defer h.wg.Done()
	defer h.post(event{kind: eventDisconnect, conn: conn})

	conn.Conn.SetReadDeadline(time.Now().Add(h.cfg.ReadTimeout))
	conn.Conn.SetPongHandler(func(string) error {
		conn.Conn.SetReadDeadline(time.Now().Add(h.cfg.ReadTimeout))
		return nil
	})

	for {
		_, message, err := conn.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Debug("WebSocket error",
					logger.ErrorField(err),
					logger.String("connection_id", conn.ID),
				)
			}
			break
		}

		var clientMsg ClientMessage
		if err := json.Unmarshal(message, &clientMsg); err != nil {
			logger.Debug("Ignoring malformed message",
				logger.ErrorField(err),
				logger.String("connection_id", conn.ID),
			)
			continue
		}

		h.post(event{kind: eventMessage, conn: conn, msg: &clientMsg})
	}
}
