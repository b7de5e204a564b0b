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
)

var (
	listOffset int
	listLimit  int
	listActive bool
	listJSON   bool
)

var characterListCmd = &cobra.Command{
	Use:   "list",
	Short: "List characters in identifier order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openService()
		if err != nil {
			return err
		}
		characters, err := svc.List(cmd.Context(), listOffset, listLimit, listActive)
		if err != nil {
			return err
		}

		if listJSON {
			return printJSON(characters)
		}
		for _, c := range characters {
			state := ""
			if c.Tombstoned() {
				state = " (deleted)"
			}
			fmt.Printf("%s %s%s\n", c.ID, c.Name, state)
		}
		return nil
	},
}

func init() {
	characterCmd.AddCommand(characterListCmd)
	characterListCmd.Flags().IntVar(&listOffset, "offset", 0, "Rows to skip")
	characterListCmd.Flags().IntVar(&listLimit, "limit", 20, "Maximum rows to return")
	characterListCmd.Flags().BoolVar(&listActive, "active", false, "Hide quasi-deleted characters")
	characterListCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
}
