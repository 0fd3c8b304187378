package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Diegoval-Dev/R-Lab2/emitter/pkg/config"
	"github.com/Diegoval-Dev/R-Lab2/emitter/pkg/logging"
)

// rootOptions son los flags globales y la configuración resultante.
type rootOptions struct {
	configPath string
	host       string
	port       int
	transport  string
	logLevel   string
	logFormat  string
	traceFile  string

	cfg *config.Config
}

// newRootCmd arma el árbol de comandos completo.
func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "emitter",
		Short: "Emisor con detección y corrección de errores",
		Long: `Emisor del laboratorio de detección y corrección de errores.

Codifica mensajes con CRC-32, Fletcher o Hamming, simula un canal con
ruido y envía la trama al receptor como JSON.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "Archivo de configuración YAML")
	flags.StringVar(&opts.host, "host", "", "Host del receptor")
	flags.IntVar(&opts.port, "port", 0, "Puerto del receptor")
	flags.StringVar(&opts.transport, "transport", "", "Transporte: tcp o ws")
	flags.StringVar(&opts.logLevel, "log-level", "", "Nivel de log (trace, debug, info, warn, error)")
	flags.StringVar(&opts.logFormat, "log-format", "", "Formato de log: text o json")
	flags.StringVar(&opts.traceFile, "trace-file", "", "Prefijo de archivos .trace/.warn para los logs")

	rootCmd.AddCommand(
		newEncodeCmd(opts),
		newSendCmd(opts),
		newTestCmd(opts),
		newChannelCmd(opts),
		newConfigCmd(opts),
	)
	return rootCmd
}

// load lee el archivo de configuración, aplica los flags explícitos y
// configura el logger.
func (o *rootOptions) load(cmd *cobra.Command) error {
	cfg := config.DefaultConfig()
	if o.configPath != "" {
		loaded, err := config.LoadConfig(o.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("host") {
		cfg.Receiver.Host = o.host
	}
	if flags.Changed("port") {
		cfg.Receiver.Port = o.port
	}
	if flags.Changed("transport") {
		cfg.Receiver.Transport = o.transport
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = o.logLevel
	}
	if flags.Changed("log-format") {
		cfg.Logging.Format = o.logFormat
	}
	if flags.Changed("trace-file") {
		cfg.Logging.TraceFile = o.traceFile
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuración inválida: %w", err)
	}

	if err := logging.Configure(cfg.Logging.Level, cfg.Logging.Format); err != nil {
		return err
	}
	logging.ResetHooks()
	if cfg.Logging.TraceFile != "" {
		logging.AddTraceFile(cfg.Logging.TraceFile)
	}

	o.cfg = cfg
	return nil
}

// Execute ejecuta el comando raíz. Se llama una vez desde main.main().
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
