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

package database

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_CONN_MAX_LIFETIME", "90s")
	t.Setenv("DB_ENABLE_QUERY_LOG", "true")

	cfg := DefaultConnectionConfig()
	cfg.Username = "keep"
	require.NoError(t, ApplyEnvOverrides(cfg))

	assert.Equal(t, "db.internal", cfg.Host)
	assert.Equal(t, 5433, cfg.Port)
	assert.Equal(t, 90*time.Second, cfg.ConnMaxLifetime)
	assert.True(t, cfg.EnableQueryLog)
	assert.Equal(t, "keep", cfg.Username)
	assert.Equal(t, "sqlite", cfg.Type)
}

func TestApplyEnvOverridesRejectsBadValues(t *testing.T) {
	t.Setenv("DB_PORT", "not-a-port")
	assert.Error(t, ApplyEnvOverrides(DefaultConnectionConfig()))
}

func TestCreateFromConfigRejectsUnknownType(t *testing.T) {
	f := NewDatabaseFactory()
	_, err := f.CreateFromConfig(&ConnectionConfig{Type: "oracle"})
	assert.ErrorContains(t, err, "unsupported database type")

	_, err = f.CreateFromConfig(nil)
	assert.Error(t, err)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "charstore.yaml")
	yml := `
connection_config:
  type: postgres
  host: localhost
  port: 5432
  dbname: charstore
  slow_query_time: 500ms
data_migrate_config:
  enable_foreign_key: false
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.ConnectionConfig.Type)
	assert.Equal(t, 5432, cfg.ConnectionConfig.Port)
	assert.Equal(t, 500*time.Millisecond, cfg.ConnectionConfig.SlowQueryTime)
	assert.Equal(t, 100, cfg.ConnectionConfig.MaxOpenConns)
	assert.False(t, cfg.DataMigrateConfig.EnableForeignKey)
	assert.True(t, cfg.DataMigrateConfig.EnableMigrateOnStartup)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
