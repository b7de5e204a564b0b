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
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/tomoncle/charstore/database"
	"github.com/tomoncle/charstore/identifier"
	"github.com/tomoncle/charstore/model"
	"github.com/tomoncle/charstore/repository"
	"github.com/tomoncle/charstore/types"
	"github.com/uptrace/bun"
)

var (
	ErrNameTaken = errors.New("charstore: character name already taken")
	ErrNotFound  = errors.New("charstore: character not found")
	ErrNameEmpty = errors.New("charstore: character name is required")
)

// CharacterService runs each call in its own transaction on the session it
// was built with; repository writes nest inside it.
type CharacterService interface {
	// Create fails with ErrNameTaken when the name is in use.
	Create(ctx context.Context, in *model.CharacterCreate) (*model.Character, error)

	// Get returns nil, nil for an unknown id.
	Get(ctx context.Context, id identifier.ID) (*model.Character, error)

	// GetByName returns nil, nil when no character has the name.
	GetByName(ctx context.Context, name string) (*model.Character, error)

	List(ctx context.Context, offset, limit int, activeOnly bool) ([]*model.Character, error)

	Page(ctx context.Context, page *types.PageRequest) (*types.Pagination[model.Character], error)

	// Update fails with ErrNotFound for an unknown id and ErrNameTaken when
	// renaming onto another character's name.
	Update(ctx context.Context, id identifier.ID, in *model.CharacterUpdate) (*model.Character, error)

	Delete(ctx context.Context, id identifier.ID) error

	QuasiDelete(ctx context.Context, id identifier.ID) error

	AddDisposition(ctx context.Context, characterID identifier.ID, category, trait string) (*model.Disposition, error)

	Dispositions(ctx context.Context, characterID identifier.ID) ([]*model.Disposition, error)
}

type characterServiceImpl struct {
	db           bun.IDB
	once         sync.Once
	characters   repository.Repository[model.Character]
	dispositions repository.Repository[model.Disposition]
}

// NewCharacterService returns a service over db. A nil db means the global
// connection from database.InitDB, resolved on first use.
func NewCharacterService(db bun.IDB, opts ...repository.Option) CharacterService {
	return &characterServiceImpl{
		db:           db,
		characters:   repository.NewRepository[model.Character](opts...),
		dispositions: repository.NewRepository[model.Disposition](opts...),
	}
}

func (s *characterServiceImpl) session() (bun.IDB, error) {
	s.once.Do(func() {
		if s.db == nil {
			if db := database.GetDB(); db != nil {
				s.db = db
			}
		}
	})
	if s.db == nil {
		return nil, fmt.Errorf("charstore: database not initialized")
	}
	return s.db, nil
}

func (s *characterServiceImpl) inTx(ctx context.Context, fn func(ctx context.Context, tx bun.Tx) error) error {
	db, err := s.session()
	if err != nil {
		return err
	}
	return db.RunInTx(ctx, nil, fn)
}

func (s *characterServiceImpl) findByName(ctx context.Context, db bun.IDB, name string) (*model.Character, error) {
	return s.characters.FindOne(ctx, db, types.NewQueryFilter("?TableAlias.name = ?", name))
}

func (s *characterServiceImpl) Create(ctx context.Context, in *model.CharacterCreate) (*model.Character, error) {
	if in == nil || strings.TrimSpace(in.Name) == "" {
		return nil, ErrNameEmpty
	}
	var created *model.Character
	err := s.inTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		existing, err := s.findByName(ctx, tx, in.Name)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrNameTaken
		}
		created, err = s.characters.Create(ctx, tx, in)
		if errors.Is(err, repository.ErrConflict) {
			return fmt.Errorf("%w: %v", ErrNameTaken, err)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *characterServiceImpl) Get(ctx context.Context, id identifier.ID) (*model.Character, error) {
	db, err := s.session()
	if err != nil {
		return nil, err
	}
	return s.characters.Get(ctx, db, id)
}

func (s *characterServiceImpl) GetByName(ctx context.Context, name string) (*model.Character, error) {
	db, err := s.session()
	if err != nil {
		return nil, err
	}
	return s.findByName(ctx, db, name)
}

func (s *characterServiceImpl) List(ctx context.Context, offset, limit int, activeOnly bool) ([]*model.Character, error) {
	db, err := s.session()
	if err != nil {
		return nil, err
	}
	if activeOnly {
		return s.characters.ListActive(ctx, db, offset, limit)
	}
	return s.characters.List(ctx, db, offset, limit)
}

func (s *characterServiceImpl) Page(ctx context.Context, page *types.PageRequest) (*types.Pagination[model.Character], error) {
	db, err := s.session()
	if err != nil {
		return nil, err
	}
	return s.characters.Page(ctx, db, page)
}

func (s *characterServiceImpl) Update(ctx context.Context, id identifier.ID, in *model.CharacterUpdate) (*model.Character, error) {
	if in != nil && in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return nil, ErrNameEmpty
	}
	var updated *model.Character
	err := s.inTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		current, err := s.characters.Get(ctx, tx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return ErrNotFound
		}
		if in != nil && in.Name != nil && *in.Name != current.Name {
			other, err := s.findByName(ctx, tx, *in.Name)
			if err != nil {
				return err
			}
			if other != nil {
				return ErrNameTaken
			}
		}
		updated, err = s.characters.Update(ctx, tx, current, in)
		if errors.Is(err, repository.ErrConflict) {
			return fmt.Errorf("%w: %v", ErrNameTaken, err)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *characterServiceImpl) Delete(ctx context.Context, id identifier.ID) error {
	return s.inTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return s.characters.Delete(ctx, tx, id)
	})
}

func (s *characterServiceImpl) QuasiDelete(ctx context.Context, id identifier.ID) error {
	return s.inTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return s.characters.QuasiDelete(ctx, tx, id)
	})
}

func (s *characterServiceImpl) AddDisposition(ctx context.Context, characterID identifier.ID, category, trait string) (*model.Disposition, error) {
	var created *model.Disposition
	err := s.inTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		owner, err := s.characters.Get(ctx, tx, characterID)
		if err != nil {
			return err
		}
		if owner == nil {
			return ErrNotFound
		}
		created, err = s.dispositions.Create(ctx, tx, &model.DispositionCreate{
			Category:    category,
			Trait:       trait,
			CharacterID: characterID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *characterServiceImpl) Dispositions(ctx context.Context, characterID identifier.ID) ([]*model.Disposition, error) {
	db, err := s.session()
	if err != nil {
		return nil, err
	}
	return s.dispositions.Query(ctx, db, "?TableAlias.character_id = ?",
		identifier.FieldOf[identifier.UUID](characterID))
}
