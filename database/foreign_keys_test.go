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
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultForeignKeys(t *testing.T) {
	fkm := NewForeignKeyManager(nil)
	assert.Empty(t, fkm.ValidateConstraints())

	got := fkm.GetConstraintsByTable(`"disposition"`)
	require.Len(t, got, 1)
	assert.Equal(t, "fk_disposition_character_id", got[0].GenerateConstraintName())
	assert.Equal(t,
		"ALTER TABLE disposition ADD CONSTRAINT fk_disposition_character_id FOREIGN KEY (character_id) REFERENCES character(id) ON DELETE CASCADE",
		got[0].GenerateSQL())
	assert.Empty(t, fkm.GetConstraintsByTable("character"))
}

func TestValidateConstraints(t *testing.T) {
	fkm := &ForeignKeyManager{constraints: []ForeignKeyConstraint{
		{Table: "a", Column: "b_id", ReferenceTable: "b", ReferenceColumn: "id", OnDelete: "set null"},
		{Table: "a", Column: "", ReferenceTable: "b", ReferenceColumn: "id", OnUpdate: "EXPLODE"},
	}}
	errs := fkm.ValidateConstraints()
	require.Len(t, errs, 2)
	assert.ErrorContains(t, errs[0], "column name cannot be empty")
	assert.ErrorContains(t, errs[1], "invalid update policy")
}

func TestForeignKeyConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "fk.yaml")
	require.NoError(t, NewForeignKeyManager(nil).ExportToConfig(path))

	loaded, err := LoadForeignKeyConfig(path)
	require.NoError(t, err)
	assert.Equal(t, getForeignKeyConstraints(), loaded)
}

func TestConfigurableForeignKeyManagerFallsBack(t *testing.T) {
	fkm := NewConfigurableForeignKeyManager(nil, filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Equal(t, getForeignKeyConstraints(), fkm.ListAllConstraints())

	_, err := LoadForeignKeyConfig("")
	assert.Error(t, err)
}
