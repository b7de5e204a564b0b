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
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tomoncle/charstore/identifier"
	"github.com/tomoncle/charstore/types"
)

var characterCmd = &cobra.Command{
	Use:     "character",
	Aliases: []string{"char"},
	Short:   "Manage characters",
}

func init() {
	rootCmd.AddCommand(characterCmd)
}

func parseID(s string) (identifier.ID, error) {
	id, err := identifier.Parse(s)
	if err != nil {
		return identifier.Nil, err
	}
	if id.IsZero() {
		return identifier.Nil, fmt.Errorf("identifier must not be empty")
	}
	return id, nil
}

// parseExtras turns repeated key=value flags into a JSON object. Values that
// parse as JSON keep their type; anything else is stored as a string.
func parseExtras(pairs []string) (types.JsonObject, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(types.JsonObject, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid --extra %q, want key=value", p)
		}
		var decoded interface{}
		if err := json.Unmarshal([]byte(v), &decoded); err != nil {
			decoded = v
		}
		out[k] = decoded
	}
	return out, nil
}
