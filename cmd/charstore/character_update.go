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

	"github.com/tomoncle/charstore/model"
)

var (
	updateName        string
	updateDescription string
	updateOutfit      string
	updateExtras      []string
)

var characterUpdateCmd = &cobra.Command{
	Use:   "update [id]",
	Short: "Change the given fields of a character",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		extras, err := parseExtras(updateExtras)
		if err != nil {
			return err
		}

		in := &model.CharacterUpdate{ExtraVariables: extras}
		flags := cmd.Flags()
		if flags.Changed("name") {
			in.Name = &updateName
		}
		if flags.Changed("description") {
			in.Description = &updateDescription
		}
		if flags.Changed("outfit") {
			in.DefaultOutfit = &updateOutfit
		}

		svc, err := openService()
		if err != nil {
			return err
		}
		c, err := svc.Update(cmd.Context(), id, in)
		if err != nil {
			return err
		}
		return printJSON(c)
	},
}

func init() {
	characterCmd.AddCommand(characterUpdateCmd)
	characterUpdateCmd.Flags().StringVar(&updateName, "name", "", "New name")
	characterUpdateCmd.Flags().StringVarP(&updateDescription, "description", "d", "", "New description")
	characterUpdateCmd.Flags().StringVar(&updateOutfit, "outfit", "", "New default outfit")
	characterUpdateCmd.Flags().StringArrayVar(&updateExtras, "extra", nil, "Replace extra variables, key=value (repeatable)")
}
