package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Diegoval-Dev/R-Lab2/emitter/pkg/config"
)

// DefaultTimeout limita la conexión y la escritura de cada trama.
const DefaultTimeout = 5 * time.Second

// Envelope es el objeto JSON que espera el receptor.
type Envelope struct {
	NumMensaje *int   `json:"NumMensaje,omitempty"`
	Algo       string `json:"algo"`
	Trama      string `json:"trama"`
}

// Marshal serializa el sobre como una línea JSON terminada en '\n'.
func (e Envelope) Marshal() ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("serializando sobre: %w", err)
	}
	return append(data, '\n'), nil
}

// Sender envía una trama al receptor. Cada llamada termina antes de volver.
type Sender interface {
	Send(ctx context.Context, env Envelope) error
}

// New crea el Sender indicado por cfg.Transport.
func New(cfg config.Receiver) (Sender, error) {
	switch cfg.Transport {
	case "", "tcp":
		return NewTCPSender(cfg.Address(), DefaultTimeout), nil
	case "ws":
		return NewWebSocketSender(WebSocketURL(cfg), DefaultTimeout), nil
	default:
		return nil, fmt.Errorf("transporte no soportado: %q", cfg.Transport)
	}
}
