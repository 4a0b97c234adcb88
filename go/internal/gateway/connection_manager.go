// Package gateway pushes roster events to websocket clients watching a team.
package gateway

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/mcdev12/sportsball/go/internal/events"
	"github.com/mcdev12/sportsball/go/internal/models"
	"github.com/rs/zerolog/log"
)

// ConnectionManager manages WebSocket connections for roster events
type ConnectionManager struct {
	// Connection pools organized by team ID
	teamConnections map[uuid.UUID]map[*Connection]bool
	mu              sync.RWMutex

	upgrader websocket.Upgrader
	config   ConnectionConfig

	broadcastCh chan broadcastMessage
}

// Connection represents a WebSocket connection to a client
type Connection struct {
	ID      string
	UserID  string
	TeamID  uuid.UUID
	Conn    *websocket.Conn
	Send    chan []byte
	Manager *ConnectionManager

	ConnectedAt time.Time
}

// ConnectionConfig holds configuration for WebSocket connections
type ConnectionConfig struct {
	WriteTimeout    time.Duration
	ReadTimeout     time.Duration
	PingInterval    time.Duration
	MaxMessageSize  int64
	ReadBufferSize  int
	WriteBufferSize int
	CheckOrigin     func(r *http.Request) bool
}

type broadcastMessage struct {
	TeamID uuid.UUID
	Data   []byte
	Type   models.RosterEventType
}

// DefaultConnectionConfig returns default WebSocket configuration
func DefaultConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		WriteTimeout:    10 * time.Second,
		ReadTimeout:     60 * time.Second,
		PingInterval:    30 * time.Second,
		MaxMessageSize:  1024,
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			// Origins are enforced by the CORS layer in front of the router
			return true
		},
	}
}

// NewConnectionManager creates a new WebSocket connection manager
func NewConnectionManager(config ConnectionConfig) *ConnectionManager {
	return &ConnectionManager{
		teamConnections: make(map[uuid.UUID]map[*Connection]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
		config:      config,
		broadcastCh: make(chan broadcastMessage, 1000),
	}
}

// Start processes broadcasts until ctx is done
func (cm *ConnectionManager) Start(ctx context.Context) {
	log.Info().Msg("connection manager started")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("connection manager shutting down")
			cm.closeAll()
			return
		case message := <-cm.broadcastCh:
			cm.handleBroadcast(message)
		}
	}
}

// Publish queues event for every client watching its team. It never blocks;
// when the queue is full the event is dropped for websocket clients only.
func (cm *ConnectionManager) Publish(ctx context.Context, event models.RosterEvent) error {
	data, err := events.Encode(event)
	if err != nil {
		return err
	}

	select {
	case cm.broadcastCh <- broadcastMessage{TeamID: event.TeamID, Data: data, Type: event.EventType}:
	default:
		log.Warn().Str("team_id", event.TeamID.String()).Msg("broadcast channel full, dropping message")
	}
	return nil
}

// UpgradeConnection upgrades an HTTP connection to WebSocket and subscribes it to teamID
func (cm *ConnectionManager) UpgradeConnection(w http.ResponseWriter, r *http.Request, userID string, teamID uuid.UUID) error {
	conn, err := cm.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return fmt.Errorf("failed to upgrade connection: %w", err)
	}

	connection := &Connection{
		ID:          uuid.New().String(),
		UserID:      userID,
		TeamID:      teamID,
		Conn:        conn,
		Send:        make(chan []byte, 256),
		Manager:     cm,
		ConnectedAt: time.Now(),
	}

	cm.registerConnection(connection)

	go connection.writePump()
	go connection.readPump()

	log.Info().
		Str("connection_id", connection.ID).
		Str("user_id", userID).
		Str("team_id", teamID.String()).
		Msg("WebSocket connection established")
	return nil
}

// ConnectionCount returns the number of clients watching teamID
func (cm *ConnectionManager) ConnectionCount(teamID uuid.UUID) int {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return len(cm.teamConnections[teamID])
}

func (cm *ConnectionManager) registerConnection(conn *Connection) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if cm.teamConnections[conn.TeamID] == nil {
		cm.teamConnections[conn.TeamID] = make(map[*Connection]bool)
	}
	cm.teamConnections[conn.TeamID][conn] = true

	log.Debug().
		Str("connection_id", conn.ID).
		Str("team_id", conn.TeamID.String()).
		Int("total_connections", len(cm.teamConnections[conn.TeamID])).
		Msg("connection registered")
}

func (cm *ConnectionManager) unregisterConnection(conn *Connection) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	connections, exists := cm.teamConnections[conn.TeamID]
	if !exists {
		return
	}
	if _, exists := connections[conn]; !exists {
		return
	}
	delete(connections, conn)
	close(conn.Send)
	if len(connections) == 0 {
		delete(cm.teamConnections, conn.TeamID)
	}

	log.Info().
		Str("connection_id", conn.ID).
		Str("user_id", conn.UserID).
		Str("team_id", conn.TeamID.String()).
		Msg("connection unregistered")
}

func (cm *ConnectionManager) handleBroadcast(message broadcastMessage) {
	cm.mu.RLock()
	var targets []*Connection
	for conn := range cm.teamConnections[message.TeamID] {
		targets = append(targets, conn)
	}
	cm.mu.RUnlock()

	for _, conn := range targets {
		select {
		case conn.Send <- message.Data:
		default:
			log.Warn().
				Str("connection_id", conn.ID).
				Str("user_id", conn.UserID).
				Msg("connection send buffer full, closing connection")
			cm.unregisterConnection(conn)
			conn.Conn.Close()
		}
	}

	log.Debug().
		Str("event_type", string(message.Type)).
		Str("team_id", message.TeamID.String()).
		Int("connections", len(targets)).
		Msg("event broadcasted")
}

func (cm *ConnectionManager) closeAll() {
	cm.mu.RLock()
	var all []*Connection
	for _, connections := range cm.teamConnections {
		for conn := range connections {
			all = append(all, conn)
		}
	}
	cm.mu.RUnlock()

	for _, conn := range all {
		cm.unregisterConnection(conn)
	}
}

// writePump handles sending messages to the WebSocket connection
func (c *Connection) writePump() {
	ticker := time.NewTicker(c.Manager.config.PingInterval)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
		c.Manager.unregisterConnection(c)
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(c.Manager.config.WriteTimeout))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Error().
					Err(err).
					Str("connection_id", c.ID).
					Msg("failed to write message to WebSocket")
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(c.Manager.config.WriteTimeout))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Error().
					Err(err).
					Str("connection_id", c.ID).
					Msg("failed to send ping")
				return
			}
		}
	}
}

// readPump drains the connection so pongs and close frames are processed.
// Clients have nothing to send; anything they do send is ignored.
func (c *Connection) readPump() {
	defer func() {
		c.Manager.unregisterConnection(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(c.Manager.config.MaxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(c.Manager.config.ReadTimeout))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(c.Manager.config.ReadTimeout))
		return nil
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Error().
					Err(err).
					Str("connection_id", c.ID).
					Msg("unexpected WebSocket close error")
			}
			return
		}
		c.Conn.SetReadDeadline(time.Now().Add(c.Manager.config.ReadTimeout))
	}
}
