package main

import (
	"fmt"
	"os"

	"github.com/printforge/meshedit/internal/logger"
	"github.com/spf13/cobra"
)

var (
	flagLogLevel string
	flagLogFile  string
)

var rootCmd = &cobra.Command{
	Use:   "meshedit",
	Short: "Edit triangulated meshes for 3D printing",
	Long: `meshedit cuts, mirrors, repairs, scales, carves and bores triangulated
surface meshes in STL and OBJ formats. Every operation reads one mesh,
transforms a copy and writes the result; the input file is never
modified.`,
	Version:       "1.0.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logger.Init(flagLogLevel, flagLogFile)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "also log to this file, with rotation")
}

func main() {
	defer logger.Sync()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
