// Package main is the mood-rx server binary.
//
//	moodrx serve            # run the HTTP API
//	moodrx migrate          # apply the schema and exit
//	moodrx token --user u1  # mint a bearer token for local testing
//
// Configuration comes from the environment; a .env file in the working
// directory is loaded first when present.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

// @title						Mood-Rx API
// @version					1.0
// @description				Emotional journaling backend: situation in, short prescription out.
// @BasePath					/api/v1
// @securityDefinitions.apikey	BearerAuth
// @in							header
// @name						Authorization
func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "moodrx",
	Short: "Mood-Rx emotional journaling backend",
	Long: `moodrx serves the Mood-Rx HTTP API.

A journaling entry (situation, emotion, energy) is screened for crisis
keywords, checked against the caller's daily quota, and turned into a short
AI-written prescription that can be saved, listed and shared.`,
	Version:      version,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(tokenCmd)
}
