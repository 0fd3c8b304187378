package emitter

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/segmentio/ksuid"
	log "github.com/sirupsen/logrus"

	"github.com/Diegoval-Dev/R-Lab2/emitter/pkg/frame"
	"github.com/Diegoval-Dev/R-Lab2/emitter/pkg/logging"
	"github.com/Diegoval-Dev/R-Lab2/emitter/pkg/noise"
	"github.com/Diegoval-Dev/R-Lab2/emitter/pkg/presentation"
	"github.com/Diegoval-Dev/R-Lab2/emitter/pkg/report"
	"github.com/Diegoval-Dev/R-Lab2/emitter/pkg/transport"
)

// Largo de los mensajes aleatorios del modo test.
const (
	MinTestMessageLen = 5
	MaxTestMessageLen = 15
)

// RowWriter recibe una fila por mensaje del modo test.
type RowWriter interface {
	Write(row report.Row) error
}

// Emitter recorre las capas: presentación, enlace, ruido y transmisión.
type Emitter struct {
	presentation *presentation.PresentationLayer
	noise        *noise.NoiseLayer
	sender       transport.Sender
	log          *logging.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// New crea un emisor que envía por sender. Una semilla 0 usa la hora actual.
func New(sender transport.Sender, seed int64) *Emitter {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Emitter{
		presentation: presentation.NewPresentationLayer(),
		noise:        noise.NewNoiseLayerWithSeed(seed),
		sender:       sender,
		log:          logging.NewLogger("emitter"),
		rng:          rand.New(rand.NewSource(seed + 1)),
	}
}

// TransmissionResult contiene el resultado de una transmisión
type TransmissionResult struct {
	NumMensaje       *int
	Text             string
	Scheme           frame.Scheme
	DataBits         frame.BitString
	Encoded          *frame.Result
	Noise            *noise.ErrorResult
	Envelope         transport.Envelope
	Probability      float64
	StartTime        time.Time
	TransmissionTime time.Duration
	TotalTime        time.Duration
}

// BitsFlipped devuelve cuántos bits cambió el canal.
func (r *TransmissionResult) BitsFlipped() int {
	return r.Noise.ErrorsInjected
}

// Encode pasa el texto por presentación y enlace, sin ruido ni envío.
func (e *Emitter) Encode(text string, scheme frame.Scheme) (frame.BitString, *frame.Result, error) {
	bits, err := e.presentation.TextToBits(text)
	if err != nil {
		return "", nil, fmt.Errorf("error en presentación: %w", err)
	}
	stats := log.Fields{}
	for k, v := range e.presentation.ObtenerEstadisticas(text) {
		stats[k] = v
	}
	e.log.WithFields(stats).Debug("mensaje convertido a bits")

	res, err := frame.Encode(string(bits), scheme)
	if err != nil {
		return "", nil, fmt.Errorf("error en enlace: %w", err)
	}
	return bits, res, nil
}

// ProcessMessage codifica text con scheme, aplica ruido con probabilidad p
// y envía la trama. num es el número de mensaje; nil lo omite del sobre.
func (e *Emitter) ProcessMessage(ctx context.Context, text string, scheme frame.Scheme, p float64, num *int) (*TransmissionResult, error) {
	result, err := e.prepare(text, scheme, p, num)
	if err != nil {
		return nil, err
	}
	if err := e.send(ctx, result); err != nil {
		return nil, err
	}
	return result, nil
}

// prepare recorre presentación, enlace y ruido, y arma el sobre.
func (e *Emitter) prepare(text string, scheme frame.Scheme, p float64, num *int) (*TransmissionResult, error) {
	if scheme == nil {
		return nil, &frame.SchemeError{Name: "<nil>"}
	}
	result := &TransmissionResult{
		NumMensaje:  num,
		Text:        text,
		Scheme:      scheme,
		Probability: p,
		StartTime:   time.Now(),
	}

	bits, encoded, err := e.Encode(text, scheme)
	if err != nil {
		return nil, err
	}
	result.DataBits = bits
	result.Encoded = encoded

	noisy, err := e.noise.ApplyNoise(encoded.Codeword, p)
	if err != nil {
		return nil, fmt.Errorf("error aplicando ruido: %w", err)
	}
	result.Noise = noisy

	result.Envelope = transport.Envelope{
		NumMensaje: num,
		Algo:       scheme.WireName(),
		Trama:      string(noisy.NoisyBits),
	}
	return result, nil
}

func (e *Emitter) send(ctx context.Context, result *TransmissionResult) error {
	fields := log.Fields{
		"algo":     result.Scheme.Name(),
		"bits":     result.DataBits.Len(),
		"codeword": result.Encoded.Codeword.Len(),
		"flipped":  result.Noise.ErrorsInjected,
		"prob":     result.Probability,
	}
	if result.NumMensaje != nil {
		fields["num"] = *result.NumMensaje
	}
	entry := e.log.WithFields(fields)
	entry.Debug("trama codificada")

	sendStart := time.Now()
	if err := e.sender.Send(ctx, result.Envelope); err != nil {
		entry.WithError(err).Warn("error de transmisión")
		return fmt.Errorf("error en transmisión: %w", err)
	}
	result.TransmissionTime = time.Since(sendStart)
	result.TotalTime = time.Since(result.StartTime)

	entry.WithField("elapsed", result.TransmissionTime).Info("trama enviada")
	return nil
}

// TestResult resume una corrida del modo test.
type TestResult struct {
	RunID            ksuid.KSUID
	Requested        int
	Sent             int
	PerScheme        map[string]int
	TotalBitsFlipped int
	StartTime        time.Time
	TotalTime        time.Duration
}

// RunTest envía mensajes aleatorios repartidos en partes iguales entre
// schemes y, dentro de cada uno, entre probs. Los restos de la división se
// descartan. Cada mensaje queda en rows antes de enviarse; rows puede ser
// nil. El primer error de envío detiene la corrida.
func (e *Emitter) RunTest(ctx context.Context, total int, schemes []frame.Scheme, probs []float64, rows RowWriter) (*TestResult, error) {
	if total <= 0 {
		return nil, fmt.Errorf("la cantidad de mensajes debe ser mayor a 0: %d", total)
	}
	if len(schemes) == 0 {
		return nil, fmt.Errorf("no hay algoritmos para probar")
	}
	if len(probs) == 0 {
		return nil, fmt.Errorf("no hay probabilidades de ruido para probar")
	}

	res := &TestResult{
		RunID:     ksuid.New(),
		Requested: total,
		PerScheme: make(map[string]int, len(schemes)),
		StartTime: time.Now(),
	}
	runLog := e.log.WithField("run", res.RunID.String())

	perScheme := total / len(schemes)
	perProb := perScheme / len(probs)
	if perProb == 0 {
		runLog.WithFields(log.Fields{
			"total":   total,
			"schemes": len(schemes),
			"probs":   len(probs),
		}).Warn("la cantidad de mensajes no alcanza para ninguna combinación")
	}
	runLog.WithFields(log.Fields{"total": total, "per_prob": perProb}).Info("iniciando test")

	counter := 1
	for _, scheme := range schemes {
		for _, p := range probs {
			for i := 0; i < perProb; i++ {
				if err := ctx.Err(); err != nil {
					return nil, err
				}

				num := counter
				sent, err := e.testMessage(ctx, scheme, p, num, rows)
				if err != nil {
					runLog.WithError(err).WithField("num", num).Error("test abortado")
					return nil, fmt.Errorf("mensaje %d (%s, prob=%g): %w", num, scheme.WireName(), p, err)
				}

				res.Sent++
				res.PerScheme[scheme.Name()]++
				res.TotalBitsFlipped += sent.BitsFlipped()
				counter++
			}
		}
	}

	res.TotalTime = time.Since(res.StartTime)
	runLog.WithFields(log.Fields{
		"sent":    res.Sent,
		"flipped": res.TotalBitsFlipped,
		"elapsed": res.TotalTime,
	}).Info("test completado")
	return res, nil
}

// testMessage genera un mensaje aleatorio y lo registra en rows antes de
// enviarlo.
func (e *Emitter) testMessage(ctx context.Context, scheme frame.Scheme, p float64, num int, rows RowWriter) (*TransmissionResult, error) {
	result, err := e.prepare(e.randomMessage(), scheme, p, &num)
	if err != nil {
		return nil, err
	}

	if rows != nil {
		row := report.Row{
			NumMensaje:     num,
			Algoritmo:      scheme.WireName(),
			MensajeASCII:   result.Text,
			MensajeBinario: string(result.DataBits),
			Codificado:     string(result.Encoded.Codeword),
			Enviado:        string(result.Noise.NoisyBits),
			NoiseProb:      p,
			BitsFlipped:    noise.BitsFlipped(result.Encoded.Codeword, result.Noise.NoisyBits),
		}
		if err := rows.Write(row); err != nil {
			return nil, fmt.Errorf("error en reporte: %w", err)
		}
	}

	if err := e.send(ctx, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (e *Emitter) randomMessage() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return presentation.RandomMessage(e.rng, MinTestMessageLen, MaxTestMessageLen)
}
