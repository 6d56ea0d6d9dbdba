// Package main provides atsctl, the operational CLI for the ProConsultancy backend.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "atsctl",
	Short: "ProConsultancy operations CLI",
	Long:  "atsctl manages the ProConsultancy database: schema migration and seeding of the initial admin user.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
