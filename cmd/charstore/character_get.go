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

	"github.com/tomoncle/charstore"
	"github.com/tomoncle/charstore/model"
)

var getByName bool

var characterGetCmd = &cobra.Command{
	Use:   "get [id|name]",
	Short: "Show a character and its dispositions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openService()
		if err != nil {
			return err
		}

		var c *model.Character
		if getByName {
			c, err = svc.GetByName(cmd.Context(), args[0])
		} else {
			id, perr := parseID(args[0])
			if perr != nil {
				return perr
			}
			c, err = svc.Get(cmd.Context(), id)
		}
		if err != nil {
			return err
		}
		if c == nil {
			return fmt.Errorf("%w: %s", charstore.ErrNotFound, args[0])
		}

		dispositions, err := svc.Dispositions(cmd.Context(), c.PrimaryKey())
		if err != nil {
			return err
		}
		return printJSON(struct {
			*model.Character
			Dispositions []*model.Disposition `json:"dispositions"`
		}{c, dispositions})
	},
}

func init() {
	characterCmd.AddCommand(characterGetCmd)
	characterGetCmd.Flags().BoolVar(&getByName, "name", false, "Look the character up by name")
}
