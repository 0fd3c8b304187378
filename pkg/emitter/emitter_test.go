package emitter

import (
	"bytes"
	"context"
	"errors"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Diegoval-Dev/R-Lab2/emitter/pkg/frame"
	"github.com/Diegoval-Dev/R-Lab2/emitter/pkg/logging"
	"github.com/Diegoval-Dev/R-Lab2/emitter/pkg/report"
	"github.com/Diegoval-Dev/R-Lab2/emitter/pkg/transport"
)

type fakeSender struct {
	mu     sync.Mutex
	sent   []transport.Envelope
	failAt int // 1-based; 0 nunca falla
}

func (f *fakeSender) Send(_ context.Context, env transport.Envelope) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAt > 0 && len(f.sent)+1 == f.failAt {
		return errors.New("conexión rechazada")
	}
	f.sent = append(f.sent, env)
	return nil
}

type rowSink struct {
	rows []report.Row
}

func (r *rowSink) Write(row report.Row) error {
	r.rows = append(r.rows, row)
	return nil
}

func intPtr(v int) *int { return &v }

func TestProcessMessage_NoNoise(t *testing.T) {
	sender := &fakeSender{}
	e := New(sender, 42)

	res, err := e.ProcessMessage(context.Background(), "A", frame.HammingScheme{}, 0, nil)
	require.NoError(t, err)

	assert.Equal(t, frame.BitString("01000001"), res.DataBits)
	assert.Equal(t, frame.BitString("100010010001"), res.Encoded.Codeword)
	assert.Equal(t, res.Encoded.Codeword, res.Noise.NoisyBits)
	assert.Zero(t, res.BitsFlipped())

	require.Len(t, sender.sent, 1)
	assert.Nil(t, sender.sent[0].NumMensaje)
	assert.Equal(t, "hamming", sender.sent[0].Algo)
	assert.Equal(t, "100010010001", sender.sent[0].Trama)
}

func TestProcessMessage_FullNoise(t *testing.T) {
	sender := &fakeSender{}
	e := New(sender, 42)

	res, err := e.ProcessMessage(context.Background(), "Hi", frame.CRC32Scheme{}, 1, intPtr(3))
	require.NoError(t, err)

	assert.Equal(t, res.Encoded.Codeword.Len(), res.BitsFlipped())
	require.Len(t, sender.sent, 1)
	assert.Equal(t, 3, *sender.sent[0].NumMensaje)
	assert.Equal(t, "crc", sender.sent[0].Algo)
	for i := 0; i < res.Encoded.Codeword.Len(); i++ {
		assert.NotEqual(t, res.Encoded.Codeword[i], sender.sent[0].Trama[i])
	}
}

func TestProcessMessage_Errors(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		scheme  frame.Scheme
		p       float64
		wantErr error
	}{
		{"empty text", "", frame.CRC32Scheme{}, 0, nil},
		{"non ascii", "ñ", frame.CRC32Scheme{}, 0, nil},
		{"nil scheme", "hola", nil, 0, frame.ErrUnsupportedScheme},
		{"bad width", "hola", frame.FletcherScheme{Width: 12}, 0, frame.ErrInvalidInput},
		{"bad probability", "hola", frame.HammingScheme{}, 1.5, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender := &fakeSender{}
			_, err := New(sender, 1).ProcessMessage(context.Background(), tt.text, tt.scheme, tt.p, nil)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			assert.Empty(t, sender.sent)
		})
	}
}

func TestProcessMessage_SendError(t *testing.T) {
	_, err := New(&fakeSender{failAt: 1}, 1).ProcessMessage(context.Background(), "hola", frame.CRC32Scheme{}, 0, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "conexión rechazada")
}

func TestRunTest_Distribution(t *testing.T) {
	sender := &fakeSender{}
	rows := &rowSink{}
	schemes := []frame.Scheme{
		frame.HammingScheme{},
		frame.FletcherScheme{Width: 16, Variant: frame.FletcherPadZero},
		frame.CRC32Scheme{},
	}
	probs := []float64{0.01, 0.05, 0.1}

	res, err := New(sender, 7).RunTest(context.Background(), 100, schemes, probs, rows)
	require.NoError(t, err)

	// 100/3 = 33 por algoritmo, 33/3 = 11 por probabilidad
	assert.Equal(t, 99, res.Sent)
	assert.Equal(t, 100, res.Requested)
	assert.Equal(t, 33, res.PerScheme["hamming"])
	assert.Equal(t, 33, res.PerScheme["crc32"])
	assert.False(t, res.RunID.IsNil())

	require.Len(t, sender.sent, 99)
	require.Len(t, rows.rows, 99)

	flipped := 0
	for i, env := range sender.sent {
		require.NotNil(t, env.NumMensaje)
		assert.Equal(t, i+1, *env.NumMensaje)

		row := rows.rows[i]
		assert.Equal(t, i+1, row.NumMensaje)
		assert.Equal(t, env.Algo, row.Algoritmo)
		assert.Equal(t, env.Trama, row.Enviado)
		assert.GreaterOrEqual(t, len(row.MensajeASCII), MinTestMessageLen)
		assert.LessOrEqual(t, len(row.MensajeASCII), MaxTestMessageLen)
		assert.Equal(t, 8*len(row.MensajeASCII), len(row.MensajeBinario))
		assert.Equal(t, len(row.Codificado), len(row.Enviado))
		flipped += row.BitsFlipped
	}
	assert.Equal(t, flipped, res.TotalBitsFlipped)

	assert.Equal(t, "hamming", sender.sent[0].Algo)
	assert.Equal(t, 0.01, rows.rows[0].NoiseProb)
	assert.Equal(t, 0.05, rows.rows[11].NoiseProb)
	assert.Equal(t, "fletcher", sender.sent[33].Algo)
	assert.Equal(t, "crc", sender.sent[98].Algo)
	assert.Equal(t, 0.1, rows.rows[98].NoiseProb)
}

func TestRunTest_Deterministic(t *testing.T) {
	run := func() []transport.Envelope {
		sender := &fakeSender{}
		_, err := New(sender, 99).RunTest(context.Background(), 6, []frame.Scheme{frame.CRC32Scheme{}}, []float64{0.1}, nil)
		require.NoError(t, err)
		return sender.sent
	}
	assert.Equal(t, run(), run())
}

func TestRunTest_AbortsOnSendError(t *testing.T) {
	sender := &fakeSender{failAt: 4}
	rows := &rowSink{}

	_, err := New(sender, 1).RunTest(context.Background(), 30, []frame.Scheme{frame.CRC32Scheme{}}, []float64{0.01}, rows)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mensaje 4")

	assert.Len(t, sender.sent, 3)
	// la fila se escribe antes del envío
	assert.Len(t, rows.rows, 4)
}

func TestRunTest_InvalidArgs(t *testing.T) {
	e := New(&fakeSender{}, 1)
	ctx := context.Background()
	schemes := []frame.Scheme{frame.CRC32Scheme{}}

	_, err := e.RunTest(ctx, 0, schemes, []float64{0.1}, nil)
	assert.Error(t, err)
	_, err = e.RunTest(ctx, 10, nil, []float64{0.1}, nil)
	assert.Error(t, err)
	_, err = e.RunTest(ctx, 10, schemes, nil, nil)
	assert.Error(t, err)
}

func TestRunTest_TooFewMessages(t *testing.T) {
	sender := &fakeSender{}
	res, err := New(sender, 1).RunTest(context.Background(), 2, []frame.Scheme{frame.CRC32Scheme{}}, []float64{0.01, 0.05, 0.1}, nil)
	require.NoError(t, err)
	assert.Zero(t, res.Sent)
	assert.Empty(t, sender.sent)
}

func TestRunTest_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(&fakeSender{}, 1).RunTest(ctx, 10, []frame.Scheme{frame.CRC32Scheme{}}, []float64{0.1}, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEncode_LogsMessageStats(t *testing.T) {
	var buf bytes.Buffer
	logging.SetOutput(&buf)
	defer logging.SetOutput(os.Stderr)
	require.NoError(t, logging.Configure("debug", "json"))
	defer logging.Configure("info", "text")

	bits, res, err := New(&fakeSender{}, 1).Encode("Hola 42!", frame.CRC32Scheme{})
	require.NoError(t, err)
	assert.Equal(t, 64, bits.Len())
	assert.Equal(t, 96, res.Codeword.Len())

	out := buf.String()
	assert.Contains(t, out, `"msg":"mensaje convertido a bits"`)
	assert.Contains(t, out, `"caracteres":8`)
	assert.Contains(t, out, `"letras":4`)
	assert.Contains(t, out, `"numeros":2`)
	assert.Contains(t, out, `"espacios":1`)
	assert.Contains(t, out, `"especiales":1`)
}
