package application

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/Diegoval-Dev/R-Lab2/emitter/pkg/emitter"
	"github.com/Diegoval-Dev/R-Lab2/emitter/pkg/frame"
)

// ExitCommand termina el modo interactivo.
const ExitCommand = "salir"

// ErrExit indica que el usuario pidió salir.
var ErrExit = errors.New("el usuario terminó la sesión")

// MessageConfig contiene la configuración del mensaje a enviar
type MessageConfig struct {
	Text      string       // Mensaje de texto a enviar
	Algorithm string       // nombre tal como lo escribió el usuario
	Scheme    frame.Scheme // esquema resuelto a partir de Algorithm
	BER       float64      // probabilidad de error por bit (0.0 a 1.0)
}

// Processor procesa un mensaje completo. *emitter.Emitter lo implementa.
type Processor interface {
	ProcessMessage(ctx context.Context, text string, scheme frame.Scheme, p float64, num *int) (*emitter.TransmissionResult, error)
}

// ApplicationLayer maneja la interacción con el usuario
type ApplicationLayer struct {
	scanner  *bufio.Scanner
	out      io.Writer
	fletcher frame.FletcherScheme
}

// NewApplicationLayer crea una nueva instancia que lee de in y escribe en
// out. fletcher es el esquema que se usa cuando se elige Fletcher.
func NewApplicationLayer(in io.Reader, out io.Writer, fletcher frame.FletcherScheme) *ApplicationLayer {
	return &ApplicationLayer{
		scanner:  bufio.NewScanner(in),
		out:      out,
		fletcher: fletcher,
	}
}

// ParseAlgorithm traduce Hamming/Fletcher/CRC, sin distinguir mayúsculas.
func (app *ApplicationLayer) ParseAlgorithm(name string) (frame.Scheme, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "hamming":
		return frame.HammingScheme{}, nil
	case "fletcher":
		return app.fletcher, nil
	case "crc", "crc32", "crc-32":
		return frame.CRC32Scheme{}, nil
	default:
		return nil, &frame.SchemeError{Name: name}
	}
}

func (app *ApplicationLayer) ask(prompt string) (string, error) {
	fmt.Fprint(app.out, prompt)
	if !app.scanner.Scan() {
		if err := app.scanner.Err(); err != nil {
			return "", fmt.Errorf("error leyendo entrada: %w", err)
		}
		return "", io.EOF
	}
	return strings.TrimSpace(app.scanner.Text()), nil
}

// SolicitarMensaje pide mensaje y algoritmo. Si el algoritmo no es válido
// vuelve a pedir ambos. Devuelve ErrExit si el mensaje es "salir" e io.EOF
// si se acabó la entrada.
func (app *ApplicationLayer) SolicitarMensaje(ber float64) (*MessageConfig, error) {
	for {
		text, err := app.ask("Mensaje a enviar (o 'salir' para terminar): ")
		if err != nil {
			return nil, err
		}
		if strings.EqualFold(text, ExitCommand) {
			return nil, ErrExit
		}

		algo, err := app.ask("Algoritmo (Hamming/Fletcher/CRC): ")
		if err != nil {
			return nil, err
		}

		scheme, err := app.ParseAlgorithm(algo)
		if err != nil {
			fmt.Fprintln(app.out, "❌ Algoritmo no válido. Por favor, intente de nuevo.")
			continue
		}

		config := &MessageConfig{Text: text, Algorithm: algo, Scheme: scheme, BER: ber}
		if err := app.ValidarConfiguracion(config); err != nil {
			fmt.Fprintf(app.out, "❌ %v\n", err)
			continue
		}
		return config, nil
	}
}

// MostrarConfiguracion muestra la configuración seleccionada
func (app *ApplicationLayer) MostrarConfiguracion(config *MessageConfig) {
	fmt.Fprintln(app.out, "\n📋 Configuración:")
	fmt.Fprintf(app.out, "   Mensaje: %q\n", config.Text)
	fmt.Fprintf(app.out, "   Algoritmo: %s\n", config.Scheme.Name())
	fmt.Fprintf(app.out, "   BER: %.3f (%.1f%%)\n", config.BER, config.BER*100)
}

// MostrarResultado muestra el resultado de la transmisión
func (app *ApplicationLayer) MostrarResultado(result *emitter.TransmissionResult) {
	fmt.Fprintf(app.out, "%s → %s\n", result.Text, result.DataBits)
	fmt.Fprintf(app.out, "✅ Enviado: %s\n", result.Envelope.Trama)
	fmt.Fprintf(app.out, "   %d bits codificados, %d invertidos por el canal\n",
		result.Encoded.Codeword.Len(), result.BitsFlipped())
	fmt.Fprintln(app.out, "\n--- Listo para enviar otro mensaje ---")
}

// MostrarError muestra un error de transmisión sin terminar la sesión.
func (app *ApplicationLayer) MostrarError(err error) {
	fmt.Fprintf(app.out, "❌ Error en transmisión: %v\n", err)
}

// ValidarConfiguracion valida que la configuración sea válida
func (app *ApplicationLayer) ValidarConfiguracion(config *MessageConfig) error {
	if config == nil {
		return fmt.Errorf("configuración es nil")
	}

	if config.Text == "" {
		return fmt.Errorf("el mensaje no puede estar vacío")
	}

	if config.Scheme == nil {
		return fmt.Errorf("algoritmo inválido: %s", config.Algorithm)
	}

	if math.IsNaN(config.BER) || config.BER < 0.0 || config.BER > 1.0 {
		return fmt.Errorf("BER inválido: %.3f (debe estar entre 0.0 y 1.0)", config.BER)
	}

	return nil
}

// Run ejecuta el ciclo interactivo hasta "salir" o fin de entrada. Los
// errores de envío se muestran y el ciclo continúa.
func (app *ApplicationLayer) Run(ctx context.Context, p Processor, ber float64) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		config, err := app.SolicitarMensaje(ber)
		switch {
		case errors.Is(err, ErrExit):
			fmt.Fprintln(app.out, "Saliendo...")
			return nil
		case errors.Is(err, io.EOF):
			fmt.Fprintln(app.out)
			return nil
		case err != nil:
			return err
		}

		app.MostrarConfiguracion(config)
		result, err := p.ProcessMessage(ctx, config.Text, config.Scheme, config.BER, nil)
		if err != nil {
			app.MostrarError(err)
			continue
		}
		app.MostrarResultado(result)
	}
}
