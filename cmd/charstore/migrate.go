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
	"github.com/spf13/cobra"

	"github.com/tomoncle/charstore/database"
	"github.com/tomoncle/charstore/model"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the schema and record applied migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		model.Register()
		if _, err := database.InitDatabaseWithOptions(cfg, false); err != nil {
			return err
		}
		if err := database.RunMigrations(cmd.Context()); err != nil {
			return err
		}

		mm := database.NewMigrationManager(database.GetDB(), database.GetLogger()).
			WithConfig(&database.GetConfig().DataMigrateConfig)
		applied, err := mm.GetAppliedMigrations(cmd.Context())
		if err != nil {
			return err
		}
		for _, m := range applied {
			logger.WithField("version", m.Version).
				WithField("applied_at", m.AppliedAt).
				Info(m.Name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
