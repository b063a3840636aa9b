// internal/handlers/command_ws.go
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/engfrosh/euchre/internal/auth"
	"github.com/engfrosh/euchre/internal/database"
	"github.com/engfrosh/euchre/internal/middleware"
	"github.com/engfrosh/euchre/internal/models"
)

// Custom WebSocket close codes used by the command gateway.
const (
	BadSubprotocolError   = 3000 // Client connected with an unsupported subprotocol.
	InvalidAuthTokenError = 3001 // Provided auth token was invalid or expired.
	InvalidUserIDError    = 3002 // User ID derived from the token was malformed.
)

// connEntry tracks one live client connection keyed by Discord ID.
type connEntry struct {
	conn *websocket.Conn
}

func (s *CommandServer) registerConn(discordID string, c *websocket.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conns[discordID] = &connEntry{conn: c}
}

func (s *CommandServer) unregisterConn(discordID string, c *websocket.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry, ok := s.conns[discordID]; ok && entry.conn == c {
		delete(s.conns, discordID)
	}
}

// connFor returns the live connection of a Discord user, or nil.
func (s *CommandServer) connFor(discordID string) *websocket.Conn {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry, ok := s.conns[discordID]; ok {
		return entry.conn
	}
	return nil
}

// Deliver sends a reply. Ephemeral replies go only to the sender's
// connection; public replies fan out to every recipient that currently has a
// connection, the sender included.
func (s *CommandServer) Deliver(sender *websocket.Conn, senderDiscordID string, reply *Reply) {
	data, err := json.Marshal(map[string]interface{}{
		"type":      "reply",
		"text":      reply.Text,
		"ephemeral": reply.Ephemeral,
	})
	if err != nil {
		s.Logger.Errorf("failed to marshal reply: %v", err)
		return
	}

	if reply.Ephemeral || len(reply.Recipients) == 0 {
		writeWithTimeout(sender, data, s.Logger, senderDiscordID)
		return
	}

	for _, discordID := range reply.Recipients {
		c := s.connFor(discordID)
		if c == nil {
			continue
		}
		go writeWithTimeout(c, data, s.Logger, discordID)
	}
}

func writeWithTimeout(c *websocket.Conn, data []byte, logger *logrus.Logger, discordID string) {
	if c == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := c.Write(ctx, websocket.MessageText, data); err != nil {
		logger.Warnf("failed to write reply to %s: %v", discordID, err)
	}
}

// CommandWSHandler upgrades the HTTP connection to a WebSocket, authenticates
// the user from the session cookie, and runs the command read loop.
func CommandWSHandler(logger *logrus.Logger, s *CommandServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols:   []string{"euchre"},
			OriginPatterns: []string{"*"}, // Adjust for production security.
		})
		if err != nil {
			logger.Warnf("WebSocket accept error: %v", err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "Internal server error during handler exit.")

		if c.Subprotocol() != "euchre" {
			logger.Warnf("Client connected with invalid subprotocol: %s", c.Subprotocol())
			c.Close(websocket.StatusPolicyViolation, "Client must use the 'euchre' subprotocol.")
			return
		}

		user, err := authenticateRequest(r)
		if err != nil {
			logger.Warnf("WebSocket authentication failed: %v", err)
			c.Close(websocket.StatusPolicyViolation, "Authentication failed.")
			return
		}
		middleware.LogWebSocketConnect(logger, r.RemoteAddr, r.URL.Path)

		s.registerConn(user.DiscordID, c)
		defer s.unregisterConn(user.DiscordID, c)

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		readErr := readCommands(ctx, c, s, user, logger)
		middleware.LogWebSocketDisconnect(logger, r.RemoteAddr, r.URL.Path, readErr)
	}
}

// authenticateRequest resolves the session cookie to a stored user.
func authenticateRequest(r *http.Request) (*models.User, error) {
	token := extractCookieToken(r.Header.Get("Cookie"), "auth_token")
	if token == "" {
		return nil, fmt.Errorf("missing auth_token cookie")
	}
	sub, err := auth.AuthenticateJWT(token)
	if err != nil {
		return nil, err
	}
	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID in token: %w", err)
	}
	return database.GetUserByID(r.Context(), userID)
}

// readCommands reads and dispatches command messages until the connection
// closes or the context is canceled.
func readCommands(ctx context.Context, c *websocket.Conn, s *CommandServer, user *models.User, logger *logrus.Logger) error {
	for {
		msgType, data, err := c.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
				return nil
			}
			return err
		}
		if msgType != websocket.MessageText {
			logger.Warnf("Ignoring non-text message from %s.", user.DiscordID)
			continue
		}

		var cmd Command
		if err := json.Unmarshal(data, &cmd); err != nil {
			logger.Warnf("Invalid JSON from %s: %v", user.DiscordID, err)
			sendWsError(c, "Invalid JSON format.")
			continue
		}

		if cmd.Type == "ping" {
			writeWithTimeout(c, []byte(`{"type":"pong"}`), logger, user.DiscordID)
			continue
		}

		reply, err := s.Dispatch(ctx, user, cmd)
		if err != nil {
			logger.Warnf("Command %s from %s failed: %v", cmd.Type, user.DiscordID, err)
			sendWsError(c, fmt.Sprintf("Command failed: %s", cmd.Type))
			continue
		}
		s.Deliver(c, user.DiscordID, reply)

		select {
		case <-ctx.Done():
			return nil
		default:
		}
	}
}

// sendWsError sends a structured error message to the client.
func sendWsError(c *websocket.Conn, errorMsg string) {
	data, err := json.Marshal(map[string]interface{}{
		"type":    "error",
		"message": errorMsg,
	})
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = c.Write(ctx, websocket.MessageText, data)
}

// extractCookieToken extracts a named cookie value from the Cookie header, or
// returns empty if not found.
func extractCookieToken(cookieHeader, cookieName string) string {
	parts := strings.Split(cookieHeader, cookieName+"=")
	if len(parts) < 2 {
		return ""
	}
	token := parts[1]
	if idx := strings.Index(token, ";"); idx != -1 {
		token = token[:idx]
	}
	return token
}
