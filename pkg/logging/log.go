package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rifflock/lfshook"
	log "github.com/sirupsen/logrus"
)

// base es el logger compartido por todos los módulos.
var base = newBase()

func newBase() *log.Logger {
	l := log.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&log.TextFormatter{
		DisableColors:    false,
		DisableTimestamp: false,
		FullTimestamp:    true,
	})
	l.SetLevel(log.InfoLevel)
	return l
}

// Logger es un *log.Entry con el nombre del módulo como campo.
type Logger struct {
	*log.Entry
}

// NewLogger crea un logger para module
func NewLogger(module string) *Logger {
	return &Logger{base.WithField("module", module)}
}

// Configure ajusta nivel y formato ("text" o "json") del logger compartido.
func Configure(level, format string) error {
	lvl, err := log.ParseLevel(strings.ToLower(level))
	if err != nil {
		return fmt.Errorf("nivel de log inválido: %w", err)
	}
	base.SetLevel(lvl)

	switch strings.ToLower(format) {
	case "", "text":
		base.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	case "json":
		base.SetFormatter(&log.JSONFormatter{})
	default:
		return fmt.Errorf("formato de log inválido: %q (usar 'text' o 'json')", format)
	}
	return nil
}

// SetOutput redirige la salida del logger compartido.
func SetOutput(w io.Writer) {
	base.SetOutput(w)
}

// AddTraceFile agrega un hook que escribe debug/trace en path.trace y
// warn/error en path.warn, en JSON.
func AddTraceFile(path string) {
	pathMap := lfshook.PathMap{
		log.TraceLevel: path + ".trace",
		log.DebugLevel: path + ".trace",
		log.WarnLevel:  path + ".warn",
		log.ErrorLevel: path + ".warn",
	}
	hook := lfshook.NewHook(
		pathMap,
		&log.JSONFormatter{
			TimestampFormat: "Jan _2 2006 15:04:05.000000",
		},
	)
	base.Hooks.Add(hook)
}

// ResetHooks elimina los hooks instalados.
func ResetHooks() {
	base.ReplaceHooks(make(log.LevelHooks))
}
