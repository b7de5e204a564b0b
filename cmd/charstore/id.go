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
	"encoding/hex"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomoncle/charstore/identifier"
)

var (
	idRepr  string
	idCount int
)

var idCmd = &cobra.Command{
	Use:   "id",
	Short: "Generate and convert identifiers",
}

var idNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Generate identifiers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		repr, err := identifier.ParseRepresentation(idRepr)
		if err != nil {
			return err
		}
		for i := 0; i < idCount; i++ {
			s, err := formatID(identifier.New(), repr)
			if err != nil {
				return err
			}
			fmt.Println(s)
		}
		return nil
	},
}

var idInspectCmd = &cobra.Command{
	Use:   "inspect [id]",
	Short: "Show the timestamp and every storage form of an identifier",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return printJSON(map[string]any{
			"text":      id.String(),
			"uuid":      id.UUID().String(),
			"hex":       id.Hex(),
			"integer":   id.BigInt().String(),
			"timestamp": id.Timestamp(),
			"time":      id.Time().UTC().Format(time.RFC3339Nano),
			"entropy":   hex.EncodeToString(id.Entropy()),
		})
	},
}

var idEncodeCmd = &cobra.Command{
	Use:   "encode [id]",
	Short: "Print an identifier in the given representation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		repr, err := identifier.ParseRepresentation(idRepr)
		if err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		s, err := formatID(id, repr)
		if err != nil {
			return err
		}
		fmt.Println(s)
		return nil
	},
}

// formatID renders the storage form of id. Binary storage prints as hex.
func formatID(id identifier.ID, repr identifier.Representation) (string, error) {
	v, err := identifier.Encode(id, repr)
	if err != nil {
		return "", err
	}
	switch t := v.(type) {
	case []byte:
		return hex.EncodeToString(t), nil
	case fmt.Stringer:
		return t.String(), nil
	default:
		return fmt.Sprint(t), nil
	}
}

func init() {
	rootCmd.AddCommand(idCmd)
	idCmd.AddCommand(idNewCmd, idInspectCmd, idEncodeCmd)
	idCmd.PersistentFlags().StringVarP(&idRepr, "repr", "r", identifier.Text26.Name(), "Representation: binary-16, uuid-16 or text-26")
	idNewCmd.Flags().IntVarP(&idCount, "count", "n", 1, "Number of identifiers")
}
