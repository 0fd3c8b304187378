package transport

import (
	"context"
	"fmt"
	"net"
	"time"
)

// TCPSender abre una conexión por trama, escribe el sobre y la cierra.
type TCPSender struct {
	addr    string
	timeout time.Duration
}

// NewTCPSender crea un sender hacia addr (host:port).
func NewTCPSender(addr string, timeout time.Duration) *TCPSender {
	return &TCPSender{addr: addr, timeout: timeout}
}

// Send implementa Sender.
func (s *TCPSender) Send(ctx context.Context, env Envelope) error {
	data, err := env.Marshal()
	if err != nil {
		return err
	}

	dialer := net.Dialer{Timeout: s.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", s.addr)
	if err != nil {
		return fmt.Errorf("conectando a %s: %w", s.addr, err)
	}
	defer conn.Close()

	if err := conn.SetWriteDeadline(time.Now().Add(s.timeout)); err != nil {
		return fmt.Errorf("configurando deadline: %w", err)
	}
	if _, err := conn.Write(data); err != nil {
		return fmt.Errorf("enviando trama a %s: %w", s.addr, err)
	}
	return nil
}
