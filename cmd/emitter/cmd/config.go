package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Diegoval-Dev/R-Lab2/emitter/pkg/config"
)

func newConfigCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "config <archivo>",
		Short: "Escribe la configuración efectiva en un archivo YAML",
		Long: `Escribe la configuración efectiva (valores por defecto, archivo --config
y flags globales) en el archivo indicado, para usarla luego con --config.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.SaveConfig(root.cfg, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Configuración guardada en %s\n", args[0])
			return nil
		},
	}
}
