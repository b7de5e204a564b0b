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
	"bytes"
	"database/sql/driver"
	"encoding/hex"
	"encoding/json"
	"io"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// ID is a 128-bit lexicographically sortable identifier: a 48-bit
// millisecond timestamp followed by 80 bits of entropy, big-endian.
// The zero value is Nil and means "no identifier".
type ID [16]byte

// Nil is the absent identifier.
var Nil ID

// New returns an identifier for the current instant. Identifiers created
// within the same millisecond by this process are strictly increasing.
func New() ID {
	return ID(ulid.Make())
}

// NewAt returns an identifier for t using the given entropy source.
func NewAt(t time.Time, entropy io.Reader) (ID, error) {
	u, err := ulid.New(ulid.Timestamp(t), entropy)
	if err != nil {
		return Nil, err
	}
	return ID(u), nil
}

// MustParse is like Parse but panics on error. Use only for constants and tests.
func MustParse(s string) ID {
	id, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return id
}

// IsZero reports whether id is the absent identifier.
func (id ID) IsZero() bool {
	return id == Nil
}

// String returns the 26-character canonical form, or "" for Nil.
func (id ID) String() string {
	if id.IsZero() {
		return ""
	}
	return ulid.ULID(id).String()
}

// Timestamp returns the embedded creation time in Unix milliseconds.
func (id ID) Timestamp() uint64 {
	return ulid.ULID(id).Time()
}

// Time returns the embedded creation time.
func (id ID) Time() time.Time {
	return ulid.Time(id.Timestamp()).UTC()
}

// Entropy returns a copy of the 10 random bytes.
func (id ID) Entropy() []byte {
	return ulid.ULID(id).Entropy()
}

// Bytes returns a copy of the raw 16 bytes.
func (id ID) Bytes() []byte {
	b := make([]byte, len(id))
	copy(b, id[:])
	return b
}

// UUID reinterprets the 16 bytes as a standard UUID.
func (id ID) UUID() uuid.UUID {
	return uuid.UUID(id)
}

// Hex returns the 32-character lowercase hex form.
func (id ID) Hex() string {
	return hex.EncodeToString(id[:])
}

// BigInt returns the identifier as an unsigned 128-bit integer.
func (id ID) BigInt() *big.Int {
	return new(big.Int).SetBytes(id[:])
}

// Compare returns -1, 0 or +1. Ordering matches creation order whenever
// timestamps differ.
func (id ID) Compare(other ID) int {
	return bytes.Compare(id[:], other[:])
}

// MarshalText implements encoding.TextMarshaler.
func (id ID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *ID) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// MarshalJSON encodes Nil as null and anything else as the canonical string.
func (id ID) MarshalJSON() ([]byte, error) {
	if id.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(id.String())
}

// UnmarshalJSON accepts null or any string form understood by Parse.
func (id *ID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*id = Nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return &DecodeError{Type: "json", Input: string(data), Err: err}
	}
	return id.UnmarshalText([]byte(s))
}

// Value implements driver.Valuer using DefaultRepresentation.
func (id ID) Value() (driver.Value, error) {
	return driverValue(id, DefaultRepresentation)
}

// Scan implements sql.Scanner.
func (id *ID) Scan(src any) error {
	decoded, err := Decode(src)
	if err != nil {
		return err
	}
	*id = decoded
	return nil
}
