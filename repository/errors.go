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
	"errors"
	"fmt"

	"github.com/tomoncle/charstore/database"
)

var (
	// ErrConflict matches every *ConflictError via errors.Is.
	ErrConflict       = errors.New("repository: conflict")
	ErrInvalidRange   = errors.New("repository: offset and limit must be non-negative")
	ErrInvalidPayload = errors.New("repository: invalid payload")
)

// ConflictError reports a uniqueness violation raised by the storage engine
// during create or update. The nested scope has already been rolled back.
type ConflictError struct {
	Table string
	Cause error
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("repository: unique constraint violated on %s: %v", e.Table, e.Cause)
}

func (e *ConflictError) Unwrap() error { return e.Cause }

func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

func invalidPayload(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidPayload, fmt.Sprintf(format, args...))
}

// classify turns duplicate key errors into *ConflictError and wraps the rest
// with the operation and table name.
func classify(op, table string, err error) error {
	if err == nil {
		return nil
	}
	if is, kind := database.IsSqlError(err); is && kind == database.DuplicateKeyErr {
		return &ConflictError{Table: table, Cause: err}
	}
	return fmt.Errorf("%s %s: %w", op, table, err)
}
