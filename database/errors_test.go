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
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestIsSqlErrorDriverTypes(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want SQLError
	}{
		{"mysql duplicate", &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'Aria'"}, DuplicateKeyErr},
		{"mysql fk", &mysql.MySQLError{Number: 1216}, ForeignKeyViolationErr},
		{"pq unique", &pq.Error{Code: "23505"}, DuplicateKeyErr},
		{"pq not null", &pq.Error{Code: "23502"}, NotNullViolationErr},
		{"pq undefined table", &pq.Error{Code: "42P01"}, NoTableErr},
		{"wrapped pq", fmt.Errorf("insert: %w", &pq.Error{Code: "23503"}), ForeignKeyViolationErr},
		{"no rows", fmt.Errorf("get: %w", sql.ErrNoRows), NoRowsErr},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			is, kind := IsSqlError(tc.err)
			assert.True(t, is)
			assert.Equal(t, tc.want, kind)
		})
	}
}

func TestIsSqlErrorMessages(t *testing.T) {
	cases := map[string]SQLError{
		"constraint failed: UNIQUE constraint failed: character.name (2067)": DuplicateKeyErr,
		"NOT NULL constraint failed: character.description":                 NotNullViolationErr,
		"no such table: character":                                          NoTableErr,
		"no such column: nickname":                                          NoColumnErr,
		"FOREIGN KEY constraint failed":                                     ForeignKeyViolationErr,
	}
	for msg, want := range cases {
		is, kind := IsSqlError(errors.New(msg))
		assert.True(t, is, msg)
		assert.Equal(t, want, kind, msg)
	}

	is, kind := IsSqlError(errors.New("connection refused"))
	assert.False(t, is)
	assert.Equal(t, UnknownErr, kind)

	is, _ = IsSqlError(nil)
	assert.False(t, is)
}

func TestSQLErrorString(t *testing.T) {
	assert.Equal(t, "duplicate_key", DuplicateKeyErr.String())
	assert.Equal(t, "unknown", SQLError(99).String())
}
