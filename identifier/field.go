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
	"database/sql/driver"
)

// Storage selects a Representation at compile time so that a column's
// layout is part of the model definition.
type Storage interface {
	Representation() Representation
}

// Binary stores identifiers as 16 raw bytes (bytea, blob, binary(16)).
type Binary struct{}

// UUID stores identifiers in a native uuid column.
type UUID struct{}

// Text stores identifiers as char(26).
type Text struct{}

func (Binary) Representation() Representation { return Binary16 }

func (UUID) Representation() Representation { return UUID16 }

func (Text) Representation() Representation { return Text26 }

// Field is an identifier column whose storage layout is S. A zero Field
// reads and writes SQL NULL, which nullable foreign keys rely on.
//
//	type Character struct {
//		ID identifier.Field[identifier.UUID] `bun:"id,pk,type:uuid"`
//	}
type Field[S Storage] ID

// FieldOf wraps id for a column stored as S.
func FieldOf[S Storage](id ID) Field[S] {
	return Field[S](id)
}

// ID returns the in-memory identifier.
func (f Field[S]) ID() ID { return ID(f) }

func (f Field[S]) IsZero() bool { return ID(f).IsZero() }

func (f Field[S]) String() string { return ID(f).String() }

// Representation reports the column layout chosen by S.
func (f Field[S]) Representation() Representation {
	var s S
	return s.Representation()
}

// Value implements driver.Valuer.
func (f Field[S]) Value() (driver.Value, error) {
	return driverValue(ID(f), f.Representation())
}

// Scan implements sql.Scanner. Any decodable form is accepted regardless of S.
func (f *Field[S]) Scan(src any) error {
	id, err := Decode(src)
	if err != nil {
		return err
	}
	*f = Field[S](id)
	return nil
}

func (f Field[S]) MarshalJSON() ([]byte, error) {
	return ID(f).MarshalJSON()
}

func (f *Field[S]) UnmarshalJSON(data []byte) error {
	return (*ID)(f).UnmarshalJSON(data)
}

func (f Field[S]) MarshalText() ([]byte, error) {
	return ID(f).MarshalText()
}

func (f *Field[S]) UnmarshalText(text []byte) error {
	return (*ID)(f).UnmarshalText(text)
}
