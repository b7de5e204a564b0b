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
)

var characterDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Remove a character and its dispositions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		svc, err := openService()
		if err != nil {
			return err
		}
		if err := svc.Delete(cmd.Context(), id); err != nil {
			return err
		}
		logger.WithField("id", id).Info("character deleted")
		return nil
	},
}

var characterTombstoneCmd = &cobra.Command{
	Use:   "tombstone [id]",
	Short: "Mark a character deleted without removing the row",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		svc, err := openService()
		if err != nil {
			return err
		}
		if err := svc.QuasiDelete(cmd.Context(), id); err != nil {
			return err
		}
		logger.WithField("id", id).Info("character tombstoned")
		return nil
	},
}

func init() {
	characterCmd.AddCommand(characterDeleteCmd)
	characterCmd.AddCommand(characterTombstoneCmd)
}
