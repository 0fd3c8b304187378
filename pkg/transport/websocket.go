package transport

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Diegoval-Dev/R-Lab2/emitter/pkg/config"
)

// WebSocketSender envía el sobre como mensaje de texto por WebSocket.
type WebSocketSender struct {
	url     string
	timeout time.Duration
}

// NewWebSocketSender crea un sender hacia rawURL (ws://host:port/path).
func NewWebSocketSender(rawURL string, timeout time.Duration) *WebSocketSender {
	return &WebSocketSender{url: rawURL, timeout: timeout}
}

// WebSocketURL arma la URL ws:// del receptor.
func WebSocketURL(cfg config.Receiver) string {
	path := cfg.Path
	if path == "" {
		path = "/"
	}
	u := url.URL{Scheme: "ws", Host: cfg.Address(), Path: path}
	return u.String()
}

// Send implementa Sender.
func (s *WebSocketSender) Send(ctx context.Context, env Envelope) error {
	data, err := env.Marshal()
	if err != nil {
		return err
	}

	// 1) Conexión
	dialer := websocket.Dialer{HandshakeTimeout: s.timeout}
	conn, _, err := dialer.DialContext(ctx, s.url, nil)
	if err != nil {
		return fmt.Errorf("conectando a %s: %w", s.url, err)
	}
	defer conn.Close()

	// 2) Deadline para la escritura
	deadline := time.Now().Add(s.timeout)
	if err := conn.SetWriteDeadline(deadline); err != nil {
		return fmt.Errorf("configurando deadline: %w", err)
	}

	// 3) Enviar trama
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("enviando trama a %s: %w", s.url, err)
	}

	closeMsg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	if err := conn.WriteControl(websocket.CloseMessage, closeMsg, deadline); err != nil && err != websocket.ErrCloseSent {
		return fmt.Errorf("cerrando conexión: %w", err)
	}
	return nil
}
