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
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomoncle/charstore/identifier"
)

func TestParseExtras(t *testing.T) {
	got, err := parseExtras([]string{"age=31", "mood=calm", `tags=["a","b"]`, "empty="})
	require.NoError(t, err)
	assert.Equal(t, float64(31), got["age"])
	assert.Equal(t, "calm", got["mood"])
	assert.Equal(t, []interface{}{"a", "b"}, got["tags"])
	assert.Equal(t, "", got["empty"])

	_, err = parseExtras([]string{"novalue"})
	assert.Error(t, err)

	got, err = parseExtras(nil)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestParseID(t *testing.T) {
	id := identifier.New()
	got, err := parseID(id.UUID().String())
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = parseID("")
	assert.Error(t, err)
	_, err = parseID("not-an-id")
	assert.Error(t, err)
}

func TestFormatID(t *testing.T) {
	id := identifier.MustParse("01ARZ3NDEKTSV4RRFFQ69G5FAV")

	s, err := formatID(id, identifier.Text26)
	require.NoError(t, err)
	assert.Equal(t, "01ARZ3NDEKTSV4RRFFQ69G5FAV", s)

	s, err = formatID(id, identifier.UUID16)
	require.NoError(t, err)
	assert.Equal(t, id.UUID().String(), s)

	s, err = formatID(id, identifier.Binary16)
	require.NoError(t, err)
	assert.Equal(t, id.Hex(), s)
}

func TestCharacterLifecycleThroughCLI(t *testing.T) {
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "charstore.yaml")
	yml := "connection_config:\n  type: sqlite\n  dbname: " + filepath.Join(dir, "cli") + "\n  health_check_interval: 0s\n"
	require.NoError(t, os.WriteFile(cfgFile, []byte(yml), 0o644))
	t.Setenv("OTEL_SDK_DISABLED", "true")

	run := func(args ...string) string {
		t.Helper()
		stdout := os.Stdout
		r, w, err := os.Pipe()
		require.NoError(t, err)
		os.Stdout = w
		rootCmd.SetArgs(append([]string{"--config", cfgFile}, args...))
		execErr := rootCmd.Execute()
		os.Stdout = stdout
		require.NoError(t, w.Close())
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(r)
		require.NoError(t, execErr)
		return buf.String()
	}

	run("migrate")
	out := run("status")
	assert.Contains(t, out, `"healthy": true`)
	assert.Contains(t, out, `"type": "sqlite"`)

	out = run("character", "create", "Aria", "-d", "a bard", "--extra", "level=3")
	assert.Contains(t, out, `"name": "Aria"`)
	assert.Contains(t, out, `"level": 3`)

	out = run("character", "get", "--name", "Aria")
	assert.Contains(t, out, `"description": "a bard"`)
	assert.Contains(t, out, `"dispositions": []`)
}
