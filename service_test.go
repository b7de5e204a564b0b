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

package charstore

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomoncle/charstore/database"
	"github.com/tomoncle/charstore/identifier"
	"github.com/tomoncle/charstore/model"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func newTestService(t *testing.T) (CharacterService, *bun.DB) {
	t.Helper()
	sqldb, err := sql.Open(sqliteshim.ShimName, "file::memory:")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)
	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { _ = db.Close() })

	err = database.NewMigrationManager(db, nil).
		WithModels(model.Models()...).
		WithConfig(&database.DataMigrateConfig{EnableForeignKey: true}).
		RunMigrations(context.Background())
	require.NoError(t, err)
	return NewCharacterService(db), db
}

func strPtr(s string) *string { return &s }

func TestCreateRejectsTakenName(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	aria, err := svc.Create(ctx, &model.CharacterCreate{Name: "Aria", Description: "desc"})
	require.NoError(t, err)
	assert.False(t, aria.ID.IsZero())

	_, err = svc.Create(ctx, &model.CharacterCreate{Name: "Aria", Description: "again"})
	assert.ErrorIs(t, err, ErrNameTaken)

	_, err = svc.Create(ctx, &model.CharacterCreate{Name: "  ", Description: "blank"})
	assert.ErrorIs(t, err, ErrNameEmpty)

	byName, err := svc.GetByName(ctx, "Aria")
	require.NoError(t, err)
	require.NotNil(t, byName)
	assert.Equal(t, aria.ID, byName.ID)

	missing, err := svc.GetByName(ctx, "Nova")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUpdateChecksRename(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.Create(ctx, &model.CharacterCreate{Name: "Aria", Description: "a"})
	require.NoError(t, err)
	nova, err := svc.Create(ctx, &model.CharacterCreate{Name: "Nova", Description: "n"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, nova.ID.ID(), &model.CharacterUpdate{Name: strPtr("Aria")})
	assert.ErrorIs(t, err, ErrNameTaken)

	same, err := svc.Update(ctx, nova.ID.ID(), &model.CharacterUpdate{Name: strPtr("Nova"), Description: strPtr("renamed")})
	require.NoError(t, err)
	assert.Equal(t, "renamed", same.Description)
	assert.True(t, same.UpdatedAt.After(nova.UpdatedAt))

	_, err = svc.Update(ctx, identifier.New(), &model.CharacterUpdate{Description: strPtr("x")})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteAndTombstone(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	aria, err := svc.Create(ctx, &model.CharacterCreate{Name: "Aria", Description: "a"})
	require.NoError(t, err)
	nova, err := svc.Create(ctx, &model.CharacterCreate{Name: "Nova", Description: "n"})
	require.NoError(t, err)

	require.NoError(t, svc.QuasiDelete(ctx, aria.ID.ID()))
	got, err := svc.Get(ctx, aria.ID.ID())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Tombstoned())

	active, err := svc.List(ctx, 0, 10, true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, nova.ID, active[0].ID)

	require.NoError(t, svc.Delete(ctx, nova.ID.ID()))
	require.NoError(t, svc.Delete(ctx, nova.ID.ID()))
	all, err := svc.List(ctx, 0, 10, false)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, aria.ID, all[0].ID)
}

func TestDispositions(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	aria, err := svc.Create(ctx, &model.CharacterCreate{Name: "Aria", Description: "a"})
	require.NoError(t, err)

	_, err = svc.AddDisposition(ctx, aria.ID.ID(), "temper", "calm")
	require.NoError(t, err)
	_, err = svc.AddDisposition(ctx, aria.ID.ID(), "humor", "dry")
	require.NoError(t, err)

	_, err = svc.AddDisposition(ctx, identifier.New(), "temper", "calm")
	assert.ErrorIs(t, err, ErrNotFound)

	list, err := svc.Dispositions(ctx, aria.ID.ID())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "calm", list[0].Trait)
	assert.Equal(t, "dry", list[1].Trait)
}

func TestServiceWithoutDatabase(t *testing.T) {
	svc := NewCharacterService(nil)
	_, err := svc.Get(context.Background(), identifier.New())
	assert.Error(t, err)
}
