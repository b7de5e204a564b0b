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
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/tomoncle/charstore/database"
	"github.com/tomoncle/charstore/identifier"
	"github.com/tomoncle/charstore/types"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/schema"
)

const deletedAtColumn = "deleted_at"

type options struct {
	now    func() time.Time
	newID  func() identifier.ID
	logger database.Logger
}

// Option configures a repository.
type Option func(*options)

// WithClock replaces the clock used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithIDGenerator replaces identifier.New for rows created without an id.
func WithIDGenerator(gen func() identifier.ID) Option {
	return func(o *options) { o.newID = gen }
}

func WithLogger(logger database.Logger) Option {
	return func(o *options) { o.logger = logger }
}

type baseRepositoryImpl[T any, P EntityPtr[T]] struct {
	options
	typ reflect.Type
}

// NewRepository returns a generic repository for the model T. The
// repository holds no session; callers pass one to every method.
func NewRepository[T any, P EntityPtr[T]](opts ...Option) Repository[T] {
	r := &baseRepositoryImpl[T, P]{
		options: options{
			now:    time.Now,
			newID:  identifier.New,
			logger: database.GetLogger(),
		},
		typ: reflect.TypeOf((*T)(nil)).Elem(),
	}
	for _, opt := range opts {
		opt(&r.options)
	}
	return r
}

func (r *baseRepositoryImpl[T, P]) table(db bun.IDB) *schema.Table {
	return db.Dialect().Tables().Get(r.typ)
}

func (r *baseRepositoryImpl[T, P]) primaryKey(table *schema.Table) (*schema.Field, error) {
	if len(table.PKs) != 1 {
		return nil, fmt.Errorf("repository: %s must have exactly one primary key column, has %d", table.Name, len(table.PKs))
	}
	return table.PKs[0], nil
}

func (r *baseRepositoryImpl[T, P]) Get(ctx context.Context, db bun.IDB, id identifier.ID) (*T, error) {
	if id.IsZero() {
		return nil, nil
	}
	entity := P(new(T))
	entity.AssignPrimaryKey(id)
	err := db.NewSelect().Model(entity).WherePK().Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, classify("get", r.table(db).Name, err)
	}
	return (*T)(entity), nil
}

func (r *baseRepositoryImpl[T, P]) List(ctx context.Context, db bun.IDB, offset, limit int) ([]*T, error) {
	return r.list(ctx, db, offset, limit, nil)
}

func (r *baseRepositoryImpl[T, P]) ListActive(ctx context.Context, db bun.IDB, offset, limit int) ([]*T, error) {
	return r.list(ctx, db, offset, limit, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.? IS NULL", bun.Ident(deletedAtColumn))
	})
}

func (r *baseRepositoryImpl[T, P]) ListByIDs(ctx context.Context, db bun.IDB, ids []identifier.ID, offset, limit int) ([]*T, error) {
	table := r.table(db)
	pk, err := r.primaryKey(table)
	if err != nil {
		return nil, err
	}
	values := make([]interface{}, 0, len(ids))
	for _, id := range ids {
		if id.IsZero() {
			continue
		}
		probe := P(new(T))
		probe.AssignPrimaryKey(id)
		values = append(values, pk.Value(reflect.ValueOf(probe).Elem()).Interface())
	}
	if len(values) == 0 {
		return make([]*T, 0), nil
	}
	return r.list(ctx, db, offset, limit, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?PKs IN (?)", bun.In(values))
	})
}

func (r *baseRepositoryImpl[T, P]) list(ctx context.Context, db bun.IDB, offset, limit int, scope func(*bun.SelectQuery) *bun.SelectQuery) ([]*T, error) {
	if offset < 0 || limit < 0 {
		return nil, ErrInvalidRange
	}
	entities := make([]*T, 0)
	if limit == 0 {
		return entities, nil
	}
	query := db.NewSelect().Model(&entities)
	if scope != nil {
		query = scope(query)
	}
	err := query.
		OrderExpr("?PKs").
		Offset(offset).
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, classify("list", r.table(db).Name, err)
	}
	return entities, nil
}

func (r *baseRepositoryImpl[T, P]) FindOne(ctx context.Context, db bun.IDB, filter *types.QueryFilter) (*T, error) {
	entity := new(T)
	query := db.NewSelect().Model(entity)
	if filter != nil {
		query = query.Where(filter.Schema, filter.Args...)
	}
	err := query.OrderExpr("?PKs").Limit(1).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, classify("find", r.table(db).Name, err)
	}
	return entity, nil
}

func (r *baseRepositoryImpl[T, P]) Query(ctx context.Context, db bun.IDB, query string, args ...interface{}) ([]*T, error) {
	entities := make([]*T, 0)
	err := db.NewSelect().Model(&entities).Where(query, args...).OrderExpr("?PKs").Scan(ctx)
	if err != nil {
		return nil, classify("query", r.table(db).Name, err)
	}
	return entities, nil
}

func (r *baseRepositoryImpl[T, P]) Page(ctx context.Context, db bun.IDB, pageRequest *types.PageRequest) (*types.Pagination[T], error) {
	if pageRequest == nil {
		pageRequest = types.NewDefaultPageRequest(1, types.DefaultPageSize)
	}
	entities := make([]*T, 0)
	query := db.NewSelect().Model(&entities)
	if pageRequest.GetFilter() != nil {
		query = query.Where(pageRequest.GetFilter().Schema, pageRequest.GetFilter().Args...)
	}
	pagination := types.NewDefaultPagination[T](pageRequest.GetPage(), pageRequest.GetPageSize())
	total, err := query.Count(ctx)
	if err != nil || total == 0 {
		return pagination, classify("page", r.table(db).Name, err)
	}
	if orders := pageRequest.GetOrders(); len(orders) > 0 {
		query = query.Order(orders...)
	} else {
		query = query.OrderExpr("?PKs")
	}
	err = query.
		Offset(pageRequest.GetOffset()).
		Limit(pageRequest.GetPageSize()).
		Scan(ctx)
	if err != nil {
		return nil, classify("page", r.table(db).Name, err)
	}
	pagination.Total = total
	pagination.Items = entities
	return pagination, nil
}

// apply copies payload columns into entity and returns the touched column
// names. The primary key may only be supplied on create.
func (r *baseRepositoryImpl[T, P]) apply(dialect schema.Dialect, table *schema.Table, entity P, payload any, allowPK bool) ([]string, error) {
	cols, err := payloadColumns(dialect, payload)
	if err != nil {
		return nil, err
	}
	strct := reflect.ValueOf(entity).Elem()
	names := make([]string, 0, len(cols)+3)
	for _, c := range cols {
		field, ok := table.FieldMap[c.name]
		if !ok {
			return nil, invalidPayload("%s has no column %q", table.Name, c.name)
		}
		if field.IsPK && !allowPK {
			return nil, invalidPayload("primary key %q of %s cannot be updated", c.name, table.Name)
		}
		if err := assign(field.Value(strct), c.value); err != nil {
			return nil, fmt.Errorf("column %q: %w", c.name, err)
		}
		names = appendColumn(names, c.name)
	}
	return names, nil
}

func appendColumn(cols []string, name string) []string {
	for _, c := range cols {
		if c == name {
			return cols
		}
	}
	return append(cols, name)
}

// Create inserts a row built from payload. Only supplied columns, the
// primary key and the timestamps are written; everything else keeps its
// column default. The stored row is read back after the nested scope ends.
func (r *baseRepositoryImpl[T, P]) Create(ctx context.Context, db bun.IDB, payload any) (*T, error) {
	table := r.table(db)
	pk, err := r.primaryKey(table)
	if err != nil {
		return nil, err
	}
	entity := P(new(T))
	cols, err := r.apply(db.Dialect(), table, entity, payload, true)
	if err != nil {
		return nil, err
	}
	if entity.PrimaryKey().IsZero() {
		entity.AssignPrimaryKey(r.newID())
	}
	cols = appendColumn(cols, pk.Name)
	entity.Stamp(r.now(), true)
	cols = r.timestampColumns(table, cols, "created_at", "updated_at")

	err = db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewInsert().Model(entity).Column(cols...).Exec(ctx)
		return err
	})
	if err != nil {
		return nil, classify("create", table.Name, err)
	}
	r.logger.Debug("Entity created", "table", table.Name, "id", entity.PrimaryKey().String())
	return r.refresh(ctx, db, entity)
}

// Update applies payload to entity and writes the touched columns. entity
// is modified in place; the returned value is re-read from storage.
func (r *baseRepositoryImpl[T, P]) Update(ctx context.Context, db bun.IDB, entity *T, payload any) (*T, error) {
	if entity == nil {
		return nil, invalidPayload("update of nil entity")
	}
	table := r.table(db)
	current := P(entity)
	if current.PrimaryKey().IsZero() {
		return nil, invalidPayload("update of %s without primary key", table.Name)
	}

	working := new(T)
	*working = *entity
	cols, err := r.apply(db.Dialect(), table, P(working), payload, false)
	if err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		return r.refresh(ctx, db, current)
	}
	P(working).Stamp(r.now(), false)
	cols = r.timestampColumns(table, cols, "updated_at")

	err = db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewUpdate().Model(working).Column(cols...).WherePK().Exec(ctx)
		return err
	})
	if err != nil {
		return nil, classify("update", table.Name, err)
	}
	*entity = *working
	r.logger.Debug("Entity updated", "table", table.Name, "id", current.PrimaryKey().String(), "columns", cols)
	return r.refresh(ctx, db, current)
}

func (r *baseRepositoryImpl[T, P]) Delete(ctx context.Context, db bun.IDB, id identifier.ID) error {
	if id.IsZero() {
		return nil
	}
	entity := P(new(T))
	entity.AssignPrimaryKey(id)
	err := db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewDelete().Model(entity).WherePK().Exec(ctx)
		return err
	})
	if err != nil {
		return classify("delete", r.table(db).Name, err)
	}
	r.logger.Debug("Entity deleted", "table", r.table(db).Name, "id", id.String())
	return nil
}

func (r *baseRepositoryImpl[T, P]) QuasiDelete(ctx context.Context, db bun.IDB, id identifier.ID) error {
	if id.IsZero() {
		return nil
	}
	table := r.table(db)
	if _, ok := table.FieldMap[deletedAtColumn]; !ok {
		return fmt.Errorf("repository: %s has no %s column", table.Name, deletedAtColumn)
	}
	entity := P(new(T))
	entity.AssignPrimaryKey(id)
	entity.Tombstone(r.now())
	err := db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewUpdate().
			Model(entity).
			Column(deletedAtColumn).
			WherePK().
			Where("? IS NULL", bun.Ident(deletedAtColumn)).
			Exec(ctx)
		return err
	})
	if err != nil {
		return classify("quasi_delete", table.Name, err)
	}
	r.logger.Debug("Entity tombstoned", "table", table.Name, "id", id.String())
	return nil
}

func (r *baseRepositoryImpl[T, P]) timestampColumns(table *schema.Table, cols []string, names ...string) []string {
	for _, name := range names {
		if _, ok := table.FieldMap[name]; ok {
			cols = appendColumn(cols, name)
		}
	}
	return cols
}

func (r *baseRepositoryImpl[T, P]) refresh(ctx context.Context, db bun.IDB, entity P) (*T, error) {
	stored, err := r.Get(ctx, db, entity.PrimaryKey())
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return (*T)(entity), nil
	}
	return stored, nil
}
