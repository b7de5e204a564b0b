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
	"github.com/tomoncle/charstore/identifier"
	"github.com/tomoncle/charstore/types"
	"github.com/uptrace/bun"
)

// Character is a named persona with free-form extra variables.
type Character struct {
	bun.BaseModel `bun:"table:character,alias:c"`

	ID             identifier.Field[identifier.UUID] `bun:"id,pk,type:uuid" json:"id"`
	Name           string                            `bun:"name,unique,notnull" json:"name"`
	Description    string                            `bun:"description,type:text,notnull" json:"description"`
	DefaultOutfit  *string                           `bun:"default_outfit" json:"default_outfit,omitempty"`
	ExtraVariables types.JsonObject                  `bun:"extra_variables,type:jsonb" json:"extra_variables,omitempty"`
	Timestamps
}

func (c *Character) PrimaryKey() identifier.ID { return c.ID.ID() }

func (c *Character) AssignPrimaryKey(id identifier.ID) {
	c.ID = identifier.FieldOf[identifier.UUID](id)
}

// Disposition is a categorized trait attached to a character.
type Disposition struct {
	bun.BaseModel `bun:"table:disposition,alias:d"`

	ID          identifier.Field[identifier.UUID] `bun:"id,pk,type:uuid" json:"id"`
	Category    string                            `bun:"category,notnull" json:"category"`
	Trait       string                            `bun:"trait,notnull" json:"trait"`
	CharacterID identifier.Field[identifier.UUID] `bun:"character_id,type:uuid,notnull" json:"character_id"`
	Timestamps
}

func (d *Disposition) PrimaryKey() identifier.ID { return d.ID.ID() }

func (d *Disposition) AssignPrimaryKey(id identifier.ID) {
	d.ID = identifier.FieldOf[identifier.UUID](id)
}

// CharacterCreate carries the columns supplied when creating a character.
// Nil fields are left to the column default.
type CharacterCreate struct {
	Name           string           `bun:"name" json:"name"`
	Description    string           `bun:"description" json:"description"`
	DefaultOutfit  *string          `bun:"default_outfit" json:"default_outfit,omitempty"`
	ExtraVariables types.JsonObject `bun:"extra_variables" json:"extra_variables,omitempty"`
}

// CharacterUpdate carries a partial update. Nil fields are left unchanged.
type CharacterUpdate struct {
	Name           *string          `bun:"name" json:"name,omitempty"`
	Description    *string          `bun:"description" json:"description,omitempty"`
	DefaultOutfit  *string          `bun:"default_outfit" json:"default_outfit,omitempty"`
	ExtraVariables types.JsonObject `bun:"extra_variables" json:"extra_variables,omitempty"`
}

// DispositionCreate carries the columns supplied when creating a disposition.
type DispositionCreate struct {
	Category    string        `bun:"category" json:"category"`
	Trait       string        `bun:"trait" json:"trait"`
	CharacterID identifier.ID `bun:"character_id" json:"character_id"`
}
