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
	createDescription string
	createOutfit      string
	createExtras      []string
)

var characterCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a character",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		extras, err := parseExtras(createExtras)
		if err != nil {
			return err
		}
		in := &model.CharacterCreate{
			Name:           args[0],
			Description:    createDescription,
			ExtraVariables: extras,
		}
		if cmd.Flags().Changed("outfit") {
			in.DefaultOutfit = &createOutfit
		}

		svc, err := openService()
		if err != nil {
			return err
		}
		c, err := svc.Create(cmd.Context(), in)
		if err != nil {
			return err
		}
		return printJSON(c)
	},
}

func init() {
	characterCmd.AddCommand(characterCreateCmd)
	characterCreateCmd.Flags().StringVarP(&createDescription, "description", "d", "", "Character description")
	characterCreateCmd.Flags().StringVar(&createOutfit, "outfit", "", "Default outfit")
	characterCreateCmd.Flags().StringArrayVar(&createExtras, "extra", nil, "Extra variable as key=value (repeatable)")
}
