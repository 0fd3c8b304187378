package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"
)

// Header es la cabecera del reporte del cliente, en el orden que lee el receptor.
var Header = []string{
	"NumMensaje",
	"Algoritmo",
	"MensajeOriginalASCII",
	"LargoOriginalASCII",
	"MensajeBinario",
	"LargoBinario",
	"MensajeCodificado",
	"LargoCodificado",
	"MensajeEnviado",
	"NoiseProb",
	"BitsFlippeados",
}

// Row es una fila del reporte: un mensaje enviado en modo test.
type Row struct {
	NumMensaje     int
	Algoritmo      string
	MensajeASCII   string
	MensajeBinario string
	Codificado     string
	Enviado        string
	NoiseProb      float64
	BitsFlipped    int
}

// Record devuelve la fila lista para encoding/csv.
func (r Row) Record() []string {
	return []string{
		strconv.Itoa(r.NumMensaje),
		r.Algoritmo,
		r.MensajeASCII,
		strconv.Itoa(len(r.MensajeASCII)),
		r.MensajeBinario,
		strconv.Itoa(len(r.MensajeBinario)),
		r.Codificado,
		strconv.Itoa(len(r.Codificado)),
		r.Enviado,
		strconv.FormatFloat(r.NoiseProb, 'g', -1, 64),
		strconv.Itoa(r.BitsFlipped),
	}
}

// ClientReport escribe filas CSV y hace flush después de cada una, así el
// receptor puede leer el archivo mientras la prueba sigue corriendo.
type ClientReport struct {
	mu     sync.Mutex
	w      *csv.Writer
	closer io.Closer
	rows   int
}

// New escribe la cabecera en w.
func New(w io.Writer) (*ClientReport, error) {
	r := &ClientReport{w: csv.NewWriter(w)}
	if c, ok := w.(io.Closer); ok {
		r.closer = c
	}
	if err := r.write(Header); err != nil {
		return nil, fmt.Errorf("escribiendo cabecera: %w", err)
	}
	return r, nil
}

// Create trunca path y escribe la cabecera.
func Create(path string) (*ClientReport, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creando reporte %s: %w", path, err)
	}
	r, err := New(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return r, nil
}

// Write agrega una fila.
func (r *ClientReport) Write(row Row) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.write(row.Record()); err != nil {
		return fmt.Errorf("escribiendo fila %d: %w", row.NumMensaje, err)
	}
	r.rows++
	return nil
}

// Rows devuelve cuántas filas se escribieron, sin contar la cabecera.
func (r *ClientReport) Rows() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rows
}

// Close cierra el archivo subyacente, si lo hay.
func (r *ClientReport) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.w.Flush()
	if err := r.w.Error(); err != nil {
		return err
	}
	if r.closer != nil {
		return r.closer.Close()
	}
	return nil
}

func (r *ClientReport) write(record []string) error {
	if err := r.w.Write(record); err != nil {
		return err
	}
	r.w.Flush()
	return r.w.Error()
}
