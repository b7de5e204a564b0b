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

package identifier

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldValue(t *testing.T) {
	id := New()

	v, err := FieldOf[Binary](id).Value()
	require.NoError(t, err)
	assert.Equal(t, id.Bytes(), v)

	v, err = FieldOf[UUID](id).Value()
	require.NoError(t, err)
	assert.Equal(t, uuid.UUID(id).String(), v)

	v, err = FieldOf[Text](id).Value()
	require.NoError(t, err)
	assert.Equal(t, id.String(), v)
}

func TestFieldNullable(t *testing.T) {
	var f Field[Text]
	v, err := f.Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	f = FieldOf[Text](New())
	require.NoError(t, f.Scan(nil))
	assert.True(t, f.IsZero())
}

func TestFieldScanAcceptsAnyLayout(t *testing.T) {
	id := New()
	for _, src := range []any{id.Bytes(), id.String(), uuid.UUID(id).String(), []byte(uuid.UUID(id).String())} {
		var f Field[Binary]
		require.NoError(t, f.Scan(src))
		assert.Equal(t, id, f.ID())
	}

	var f Field[UUID]
	assert.ErrorIs(t, f.Scan([]byte{1, 2, 3}), ErrDecode)
}

func TestFieldRepresentation(t *testing.T) {
	assert.Equal(t, Binary16, Field[Binary]{}.Representation())
	assert.Equal(t, UUID16, Field[UUID]{}.Representation())
	assert.Equal(t, Text26, Field[Text]{}.Representation())
}

func TestFieldJSON(t *testing.T) {
	type row struct {
		ID     Field[UUID] `json:"id"`
		Parent Field[UUID] `json:"parent"`
	}
	id := New()
	data, err := json.Marshal(row{ID: FieldOf[UUID](id)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"`+id.String()+`","parent":null}`, string(data))

	var back row
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, id, back.ID.ID())
	assert.True(t, back.Parent.IsZero())
}
