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
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/tomoncle/charstore/types"
)

// Representation is the on-disk layout of an identifier column. It is fixed
// when the schema is defined and never changes at runtime.
type Representation int

const (
	// Binary16 stores the raw 16 bytes.
	Binary16 Representation = iota + 1
	// UUID16 stores the same 16 bytes as a standard UUID.
	UUID16
	// Text26 stores the 26-character base-32 canonical form.
	Text26
)

// DefaultRepresentation is used by ID's own driver.Valuer.
const DefaultRepresentation = UUID16

var _ types.BaseEnum = Representation(0)

var representationNames = map[Representation][2]string{
	Binary16: {"binary-16", "raw 16-byte binary"},
	UUID16:   {"uuid-16", "16 bytes in standard UUID layout"},
	Text26:   {"text-26", "26-character base-32 canonical string"},
}

// ParseRepresentation accepts the canonical names and their short aliases.
func ParseRepresentation(s string) (Representation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "binary-16", "binary", "bytes":
		return Binary16, nil
	case "uuid-16", "uuid":
		return UUID16, nil
	case "text-26", "text", "string":
		return Text26, nil
	}
	return Representation(types.IllegalValue), fmt.Errorf("identifier: unknown representation %q", s)
}

func (r Representation) IsValid() bool {
	_, ok := representationNames[r]
	return ok
}

func (r Representation) Number() int {
	if !r.IsValid() {
		return types.IllegalValue
	}
	return int(r)
}

func (r Representation) Name() string {
	if n, ok := representationNames[r]; ok {
		return n[0]
	}
	return types.IllegalName
}

func (r Representation) String() string { return r.Name() }

func (r Representation) Desc() string {
	if n, ok := representationNames[r]; ok {
		return n[1]
	}
	return types.IllegalDesc
}

// Encode produces the storage form of id: []byte for Binary16, uuid.UUID
// for UUID16 and the canonical string for Text26.
func Encode(id ID, r Representation) (any, error) {
	switch r {
	case Binary16:
		return id.Bytes(), nil
	case UUID16:
		return uuid.UUID(id), nil
	case Text26:
		return ulid.ULID(id).String(), nil
	}
	return nil, fmt.Errorf("identifier: cannot encode with representation %d", int(r))
}

// driverValue is Encode narrowed to what database/sql drivers accept.
// Nil maps to SQL NULL.
func driverValue(id ID, r Representation) (driver.Value, error) {
	if id.IsZero() {
		return nil, nil
	}
	v, err := Encode(id, r)
	if err != nil {
		return nil, err
	}
	if u, ok := v.(uuid.UUID); ok {
		return u.String(), nil
	}
	return v, nil
}

// Decode normalizes any supported input to an ID. Empty strings, empty byte
// slices, nil and all-zero values decode to Nil without error. Integers of
// every width are accepted; negative values fail with ErrRange. Any other
// type fails with ErrUnsupportedType naming that type.
func Decode(raw any) (ID, error) {
	switch v := raw.(type) {
	case nil:
		return Nil, nil
	case ID:
		return v, nil
	case *ID:
		if v == nil {
			return Nil, nil
		}
		return *v, nil
	case ulid.ULID:
		return ID(v), nil
	case uuid.UUID:
		return FromUUID(v), nil
	case [16]byte:
		return ID(v), nil
	case string:
		return Parse(v)
	case []byte:
		return FromBytes(v)
	case *big.Int:
		return FromBigInt(v)
	case uint:
		return FromUint64(uint64(v)), nil
	case uint8:
		return FromUint64(uint64(v)), nil
	case uint16:
		return FromUint64(uint64(v)), nil
	case uint32:
		return FromUint64(uint64(v)), nil
	case uint64:
		return FromUint64(v), nil
	case int:
		return fromSigned(int64(v), raw)
	case int8:
		return fromSigned(int64(v), raw)
	case int16:
		return fromSigned(int64(v), raw)
	case int32:
		return fromSigned(int64(v), raw)
	case int64:
		return fromSigned(v, raw)
	case interface{ ID() ID }:
		// Field[S] of any storage.
		return v.ID(), nil
	}
	return Nil, &DecodeError{Type: fmt.Sprintf("%T", raw), Err: ErrUnsupportedType}
}

// Parse accepts the canonical 26-character form (case-insensitive), 32
// hex digits, or any UUID string form.
func Parse(s string) (ID, error) {
	switch len(s) {
	case 0:
		return Nil, nil
	case ulid.EncodedSize:
		u, err := ulid.ParseStrict(s)
		if err != nil {
			return Nil, &DecodeError{Type: "string", Input: s, Err: err}
		}
		return ID(u), nil
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return Nil, &DecodeError{Type: "string", Input: s, Err: err}
	}
	return FromUUID(u), nil
}

// FromBytes accepts 16 raw bytes. Drivers hand TEXT columns back as byte
// slices, so textual lengths are parsed as strings.
func FromBytes(b []byte) (ID, error) {
	switch len(b) {
	case 0:
		return Nil, nil
	case len(Nil):
		var id ID
		copy(id[:], b)
		return id, nil
	case ulid.EncodedSize, 32, 36, 38, 45:
		id, err := Parse(string(b))
		var de *DecodeError
		if errors.As(err, &de) {
			return Nil, &DecodeError{Type: "[]byte", Input: de.Input, Err: de.Err}
		}
		return id, err
	}
	return Nil, &DecodeError{Type: "[]byte", Input: fmt.Sprintf("%x", b), Err: ErrLength}
}

// FromUUID reinterprets a UUID's bytes.
func FromUUID(u uuid.UUID) ID {
	return ID(u)
}

// FromBigInt accepts an unsigned integer of at most 128 bits.
func FromBigInt(n *big.Int) (ID, error) {
	if n == nil {
		return Nil, nil
	}
	if n.Sign() < 0 || n.BitLen() > 128 {
		return Nil, &DecodeError{Type: "*big.Int", Input: n.String(), Err: ErrRange}
	}
	var id ID
	n.FillBytes(id[:])
	return id, nil
}

// FromUint64 places n in the low 64 bits.
func FromUint64(n uint64) ID {
	var id ID
	for i := 0; i < 8; i++ {
		id[15-i] = byte(n >> (8 * i))
	}
	return id
}

func fromSigned(n int64, raw any) (ID, error) {
	if n < 0 {
		return Nil, &DecodeError{Type: fmt.Sprintf("%T", raw), Input: fmt.Sprint(n), Err: ErrRange}
	}
	return FromUint64(uint64(n)), nil
}

// IsDecodeError reports whether err came from Decode or one of its helpers.
func IsDecodeError(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}
