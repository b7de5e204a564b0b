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
	"context"
	"time"

	"github.com/tomoncle/charstore/identifier"
	"github.com/tomoncle/charstore/types"
	"github.com/uptrace/bun"
)

// Entity is implemented by pointers to repository-managed models. The
// timestamp methods come from embedding model.Timestamps.
type Entity interface {
	PrimaryKey() identifier.ID
	AssignPrimaryKey(id identifier.ID)
	Stamp(now time.Time, created bool)
	Tombstone(now time.Time)
	Tombstoned() bool
}

// EntityPtr constrains P to *T implementing Entity.
type EntityPtr[T any] interface {
	*T
	Entity
}

// CrudRepository defines the basic lifecycle of an entity row. Every call
// receives the session it runs on; writes open a nested scope on it, which
// is a savepoint when db is already a bun.Tx.
type CrudRepository[T any] interface {
	// Get returns nil, nil when the row does not exist.
	Get(ctx context.Context, db bun.IDB, id identifier.ID) (*T, error)

	// List returns rows ordered by primary key.
	List(ctx context.Context, db bun.IDB, offset, limit int) ([]*T, error)

	Create(ctx context.Context, db bun.IDB, payload any) (*T, error)

	// Update applies the set fields of payload and returns the stored row.
	Update(ctx context.Context, db bun.IDB, entity *T, payload any) (*T, error)

	// Delete is a no-op for a missing id.
	Delete(ctx context.Context, db bun.IDB, id identifier.ID) error

	// QuasiDelete tombstones the row. An existing tombstone is kept.
	QuasiDelete(ctx context.Context, db bun.IDB, id identifier.ID) error
}

// QueryRepository defines read helpers beyond point lookups.
type QueryRepository[T any] interface {
	ListActive(ctx context.Context, db bun.IDB, offset, limit int) ([]*T, error)
	ListByIDs(ctx context.Context, db bun.IDB, ids []identifier.ID, offset, limit int) ([]*T, error)
	FindOne(ctx context.Context, db bun.IDB, filter *types.QueryFilter) (*T, error)
	Query(ctx context.Context, db bun.IDB, query string, args ...interface{}) ([]*T, error)
}

// PageQueryRepository defines pagination functionality for listing entities.
type PageQueryRepository[T any] interface {
	Page(ctx context.Context, db bun.IDB, page *types.PageRequest) (*types.Pagination[T], error)
}

// Repository combines CRUD, query and pagination operations.
type Repository[T any] interface {
	CrudRepository[T]
	QueryRepository[T]
	PageQueryRepository[T]
}
