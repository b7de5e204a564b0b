/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tomoncle/charstore"
	"github.com/tomoncle/charstore/database"
	"github.com/tomoncle/charstore/model"
	"github.com/tomoncle/charstore/telemetry"
	"github.com/tomoncle/charstore/utils"
)

var (
	configPath string
	verbose    bool
	trace      bool
	logFormat  string

	shutdownTracing telemetry.ShutdownFunc
)

var logger *utils.Logger

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "charstore",
	Short: "Character store backed by a relational database",
	Long: `charstore keeps characters and their dispositions in PostgreSQL, MySQL
or SQLite. Rows are keyed by sortable 128-bit identifiers.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := utils.EnvDefaultString("LOG_LEVEL", "info")
		if verbose {
			level = "debug"
		}
		utils.ConfigureLogLevel(level)
		utils.ConfigureConsoleLogFormat(logFormat)
		logger = utils.NewLogger("CLI")

		cfg, err := telemetry.ConfigFromEnv()
		if err != nil {
			return err
		}
		cfg.Disabled = cfg.Disabled || !trace
		shutdownTracing, err = telemetry.Init(cmd.Context(), cfg)
		return err
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if err := database.CloseDB(); err != nil {
			logger.WithError(err).Warn("close database")
		}
		if shutdownTracing != nil {
			return shutdownTracing(context.Background())
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file (defaults plus DB_* environment overrides when empty)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().BoolVar(&trace, "trace", false, "Export traces over OTLP/HTTP")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", utils.EnvDefaultString("LOG_FORMAT", "text"), "Console log format: text or json")
}

// loadConfig reads --config, or the built-in defaults when it is empty.
func loadConfig() (*database.Config, error) {
	if configPath == "" {
		return database.DefaultConfig(), nil
	}
	return database.LoadConfig(configPath)
}

// openService connects the global database and returns a service over it.
// Migrations run when the config enables them on startup.
func openService() (charstore.CharacterService, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	cfg.ConnectionConfig.EnableTracing = cfg.ConnectionConfig.EnableTracing || trace
	model.Register()
	if _, err := database.InitDB(cfg); err != nil {
		return nil, err
	}
	return charstore.NewCharacterService(nil), nil
}

func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
