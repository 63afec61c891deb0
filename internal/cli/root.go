// Package cli, eloquence komut satırı aracını tanımlar: model grafiğini
// listeler ve relation path'lerinin ürettiği SQL'i gösterir.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ceopag/eloquence-base/internal/config"
)

// Execute, root komutu çalıştırır ve process çıkış kodunu döner.
func Execute() int {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// NewRootCmd, alt komutlarıyla birlikte root komutu oluşturur.
func NewRootCmd() *cobra.Command {
	var (
		configFile string
		envFile    string
	)

	rootCmd := &cobra.Command{
		Use:           "eloquence",
		Short:         "Relation path join compiler",
		Long:          "Compiles dotted relation paths (venue.sections.seats) into SQL JOIN clauses.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file (empty disables)")
	rootCmd.PersistentFlags().StringP("output", "o", "text", "output format: text or json")

	load := func() (*config.Config, error) {
		return config.Load(config.WithFile(configFile), config.WithEnvFile(envFile))
	}

	rootCmd.AddCommand(newModelsCmd(load))
	rootCmd.AddCommand(newExplainCmd(load))
	return rootCmd
}

type configLoader func() (*config.Config, error)

func getOutputFormat(cmd *cobra.Command) string {
	output, _ := cmd.Flags().GetString("output")
	return output
}
