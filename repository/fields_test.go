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

package repository

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomoncle/charstore/identifier"
	"github.com/tomoncle/charstore/model"
	"github.com/tomoncle/charstore/types"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

func columnNames(cols []column) []string {
	names := make([]string, 0, len(cols))
	for _, c := range cols {
		names = append(names, c.name)
	}
	return names
}

func TestPayloadColumnsFromStruct(t *testing.T) {
	d := sqlitedialect.New()

	cols, err := payloadColumns(d, &model.CharacterUpdate{Name: strPtr("Nova")})
	require.NoError(t, err)
	assert.Equal(t, []string{"name"}, columnNames(cols))

	cols, err = payloadColumns(d, model.CharacterCreate{Name: "Aria", ExtraVariables: types.JsonObject{}})
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "description", "extra_variables"}, columnNames(cols))

	cols, err = payloadColumns(d, (*model.CharacterUpdate)(nil))
	require.NoError(t, err)
	assert.Empty(t, cols)

	cols, err = payloadColumns(d, nil)
	require.NoError(t, err)
	assert.Empty(t, cols)
}

func TestPayloadColumnsFromMap(t *testing.T) {
	d := sqlitedialect.New()

	cols, err := payloadColumns(d, map[string]any{"name": "Aria", "outfit": nil, "b": 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "name"}, columnNames(cols))

	_, err = payloadColumns(d, map[int]string{1: "x"})
	assert.ErrorIs(t, err, ErrInvalidPayload)

	_, err = payloadColumns(d, "name=Aria")
	assert.ErrorIs(t, err, ErrInvalidPayload)
}

func TestAssignConversions(t *testing.T) {
	var c model.Character
	strct := reflect.ValueOf(&c).Elem()
	id := identifier.New()

	require.NoError(t, assign(strct.FieldByName("ID"), reflect.ValueOf(id)))
	assert.Equal(t, id, c.ID.ID())

	other := identifier.New()
	require.NoError(t, assign(strct.FieldByName("ID"), reflect.ValueOf(other.UUID().String())))
	assert.Equal(t, other, c.ID.ID())

	require.NoError(t, assign(strct.FieldByName("Name"), reflect.ValueOf(strPtr("Nova"))))
	assert.Equal(t, "Nova", c.Name)

	require.NoError(t, assign(strct.FieldByName("DefaultOutfit"), reflect.ValueOf("cloak")))
	require.NotNil(t, c.DefaultOutfit)
	assert.Equal(t, "cloak", *c.DefaultOutfit)

	require.NoError(t, assign(strct.FieldByName("ExtraVariables"), reflect.ValueOf(map[string]interface{}{"k": "v"})))
	assert.Equal(t, "v", c.ExtraVariables["k"])

	err := assign(strct.FieldByName("Name"), reflect.ValueOf(42))
	assert.ErrorIs(t, err, ErrInvalidPayload)

	err = assign(strct.FieldByName("ID"), reflect.ValueOf("not-an-id"))
	assert.ErrorIs(t, err, ErrInvalidPayload)
}
