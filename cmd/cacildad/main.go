package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cacildafilmes/cacilda/internal/cli/admin"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "cacildad",
		Short:         "Cacilda Filmes chat API",
		Long:          "Cacilda Filmes chat API server and catalog administration",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(admin.ServeCmd())
	rootCmd.AddCommand(admin.MigrateCmd())
	rootCmd.AddCommand(admin.VideoCmd())
	rootCmd.AddCommand(admin.KnowledgeCmd())

	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
