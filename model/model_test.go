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

package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomoncle/charstore/database"
	"github.com/tomoncle/charstore/identifier"
)

func TestStampCreated(t *testing.T) {
	var ts Timestamps
	now := time.Date(2024, 1, 2, 3, 4, 5, 678912345, time.FixedZone("X", 3600))
	ts.Stamp(now, true)

	assert.Equal(t, time.UTC, ts.CreatedAt.Location())
	assert.Equal(t, 678912000, ts.CreatedAt.Nanosecond())
	assert.True(t, ts.CreatedAt.Equal(ts.UpdatedAt))
}

func TestStampUpdateMovesForward(t *testing.T) {
	var ts Timestamps
	now := time.Now()
	ts.Stamp(now, true)
	created := ts.CreatedAt

	ts.Stamp(now, false)
	assert.True(t, ts.UpdatedAt.After(created))
	assert.Equal(t, time.Microsecond, ts.UpdatedAt.Sub(created))

	ts.Stamp(now.Add(-time.Hour), false)
	assert.Equal(t, 2*time.Microsecond, ts.UpdatedAt.Sub(created))

	later := now.Add(time.Hour)
	ts.Stamp(later, false)
	assert.True(t, ts.UpdatedAt.Equal(Normalize(later)))
	assert.True(t, ts.CreatedAt.Equal(created))
}

func TestTombstoneKeepsFirstValue(t *testing.T) {
	var ts Timestamps
	assert.False(t, ts.Tombstoned())

	first := time.Now()
	ts.Tombstone(first)
	require.True(t, ts.Tombstoned())
	ts.Tombstone(first.Add(time.Hour))
	assert.True(t, ts.DeletedAt.Equal(Normalize(first)))
}

func TestCharacterPrimaryKey(t *testing.T) {
	var c Character
	assert.True(t, c.PrimaryKey().IsZero())

	id := identifier.New()
	c.AssignPrimaryKey(id)
	assert.Equal(t, id, c.PrimaryKey())
	assert.Equal(t, identifier.UUID16, c.ID.Representation())

	var d Disposition
	d.AssignPrimaryKey(id)
	assert.Equal(t, id, d.PrimaryKey())
}

func TestRegisterIsIdempotent(t *testing.T) {
	Register()
	Register()

	var found []interface{}
	for _, m := range database.GetRegisteredModels() {
		switch m.Instance().(type) {
		case *Character, *Disposition:
			found = append(found, m.Instance())
		}
	}
	require.Len(t, found, 2)
	assert.IsType(t, (*Character)(nil), found[0])
	assert.IsType(t, (*Disposition)(nil), found[1])
}
