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
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tomoncle/charstore/database"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check connectivity and print pool statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := openService(); err != nil {
			return err
		}
		manager := database.GetDatabaseManager()
		if manager == nil {
			return fmt.Errorf("database manager not initialized")
		}
		if err := manager.Ping(cmd.Context()); err != nil {
			return err
		}
		return printJSON(map[string]any{
			"type":   database.GetConfig().ConnectionConfig.Type,
			"health": database.GetHealthStatus(cmd.Context()),
			"stats":  database.GetDatabaseStats(),
		})
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
