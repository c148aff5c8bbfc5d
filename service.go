/*
 * Copyright 2026 tomoncle.
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

package colibri

import (
	"context"
	"reflect"
	"sync"

	"github.com/tomoncle/colibri/database"
	"github.com/tomoncle/colibri/mapper"
	"github.com/tomoncle/colibri/repository"
	"github.com/tomoncle/colibri/types"
	"github.com/tomoncle/colibri/utils"

	"github.com/sirupsen/logrus"
)

// CRUDService is the operation set every entity service exposes,
// parameterized by entity, identifier, and transfer-object types. Every
// operation reports through the types.Result envelope: persistence and
// mapping failures are caught and wrapped, a lookup that finds nothing is a
// success with nil data, and mutating operations run inside their own
// transaction.
type CRUDService[E any, ID comparable, D any] interface {
	// FindAll returns the DTOs matching spec in the given order. The
	// match-all specification returns every record.
	FindAll(ctx context.Context, spec types.Specification, sort types.Sort) *types.Result[[]*D]

	// Retrieve returns one page of DTOs plus page metadata. spec is
	// combined with any specification already carried by page.
	Retrieve(ctx context.Context, spec types.Specification, page *types.PageRequest) *types.Result[*types.Page[D]]

	// FindByID returns the DTO for id, or nil data when absent.
	FindByID(ctx context.Context, id ID) *types.Result[*D]

	// FindOne returns a single DTO matching spec, or nil data when nothing
	// matches.
	FindOne(ctx context.Context, spec types.Specification) *types.Result[*D]

	// Save converts the DTO to an entity and persists it, inserting or
	// updating per the entity's primary key.
	Save(ctx context.Context, dto *D) *types.Result[bool]

	// Delete removes the record with the given identifier.
	Delete(ctx context.Context, id ID) *types.Result[bool]

	// DeleteAll removes all listed identifiers in one transaction,
	// all-or-nothing.
	DeleteAll(ctx context.Context, ids []ID) *types.Result[bool]

	// ConvertEntityToDTO maps an entity to a fresh DTO.
	ConvertEntityToDTO(entity *E) (*D, error)

	// ConvertDTOToEntity maps a DTO to a fresh entity.
	ConvertDTOToEntity(dto *D) (*E, error)
}

type simpleCRUDService[E any, ID comparable, D any] struct {
	repo        repository.Repository[E, ID]
	entityToDTO *mapper.Converter[E, D]
	dtoToEntity *mapper.Converter[D, E]
	logger      *logrus.Logger
	entityName  string
	once        sync.Once
}

// NewService returns a CRUD service for E backed by the global database
// connection, converting between E and D structurally.
func NewService[E any, ID comparable, D any]() CRUDService[E, ID, D] {
	return newSimpleCRUDService[E, ID, D](nil, mapper.New[E, D](), mapper.New[D, E]())
}

// NewServiceWith returns a CRUD service on an explicit repository and
// converter pair, for tests and custom wiring.
func NewServiceWith[E any, ID comparable, D any](
	repo repository.Repository[E, ID],
	entityToDTO *mapper.Converter[E, D],
	dtoToEntity *mapper.Converter[D, E],
) CRUDService[E, ID, D] {
	return newSimpleCRUDService[E, ID, D](repo, entityToDTO, dtoToEntity)
}

func newSimpleCRUDService[E any, ID comparable, D any](
	repo repository.Repository[E, ID],
	entityToDTO *mapper.Converter[E, D],
	dtoToEntity *mapper.Converter[D, E],
) *simpleCRUDService[E, ID, D] {
	return &simpleCRUDService[E, ID, D]{
		repo:        repo,
		entityToDTO: entityToDTO,
		dtoToEntity: dtoToEntity,
		logger:      utils.NewLogger("CRUD"),
		entityName:  reflect.TypeOf((*E)(nil)).Elem().Name(),
	}
}

func (s *simpleCRUDService[E, ID, D]) baseRepo() repository.Repository[E, ID] {
	s.once.Do(func() {
		if s.repo == nil {
			s.repo = repository.NewRepository[E, ID](database.GetDB())
		}
	})
	return s.repo
}

func (s *simpleCRUDService[E, ID, D]) FindAll(ctx context.Context, spec types.Specification, sort types.Sort) *types.Result[[]*D] {
	s.logger.Debugf("[%s] find all [spec: %q, sort: %v]", s.entityName, spec.Expr(), sort.Orders())
	entities, err := s.baseRepo().Find(ctx, spec, sort)
	if err != nil {
		return types.Fail[[]*D](err)
	}
	dtos, err := s.entityToDTO.ConvertAll(entities)
	if err != nil {
		return types.Fail[[]*D](err)
	}
	return types.OK(dtos)
}

func (s *simpleCRUDService[E, ID, D]) Retrieve(ctx context.Context, spec types.Specification, page *types.PageRequest) *types.Result[*types.Page[D]] {
	s.logger.Debugf("[%s] retrieve [spec: %q, page: %d, size: %d]", s.entityName, spec.Expr(), page.Page(), page.PageSize())
	request := types.NewPageRequest(page.Page(), page.PageSize()).
		WithSpec(spec.And(page.Spec())).
		WithSort(page.Sort())
	entityPage, err := s.baseRepo().FindPage(ctx, request)
	if err != nil {
		return types.Fail[*types.Page[D]](err)
	}
	items, err := s.entityToDTO.ConvertAll(entityPage.Items)
	if err != nil {
		return types.Fail[*types.Page[D]](err)
	}
	return types.OK(&types.Page[D]{
		Page:     entityPage.Page,
		PageSize: entityPage.PageSize,
		Total:    entityPage.Total,
		Items:    items,
	})
}

func (s *simpleCRUDService[E, ID, D]) FindByID(ctx context.Context, id ID) *types.Result[*D] {
	s.logger.Debugf("[%s] find by id [id: %v]", s.entityName, id)
	entity, err := s.baseRepo().GetByID(ctx, id)
	if err != nil {
		return types.Fail[*D](err)
	}
	if entity == nil {
		s.logger.Debugf("[%s] no record found [id: %v]", s.entityName, id)
		return types.OK[*D](nil)
	}
	return s.toDTOResult(entity)
}

func (s *simpleCRUDService[E, ID, D]) FindOne(ctx context.Context, spec types.Specification) *types.Result[*D] {
	s.logger.Debugf("[%s] find one [spec: %q]", s.entityName, spec.Expr())
	entity, err := s.baseRepo().FindOne(ctx, spec)
	if err != nil {
		return types.Fail[*D](err)
	}
	if entity == nil {
		s.logger.Debugf("[%s] no record found [spec: %q]", s.entityName, spec.Expr())
		return types.OK[*D](nil)
	}
	return s.toDTOResult(entity)
}

func (s *simpleCRUDService[E, ID, D]) Save(ctx context.Context, dto *D) *types.Result[bool] {
	s.logger.Debugf("[%s] save", s.entityName)
	entity, err := s.ConvertDTOToEntity(dto)
	if err != nil {
		return types.Fail[bool](err)
	}
	if err := s.baseRepo().Save(ctx, entity); err != nil {
		return types.Fail[bool](err)
	}
	return types.OK(true)
}

func (s *simpleCRUDService[E, ID, D]) Delete(ctx context.Context, id ID) *types.Result[bool] {
	s.logger.Debugf("[%s] delete by id [id: %v]", s.entityName, id)
	if err := s.baseRepo().DeleteByID(ctx, id); err != nil {
		return types.Fail[bool](err)
	}
	return types.OK(true)
}

func (s *simpleCRUDService[E, ID, D]) DeleteAll(ctx context.Context, ids []ID) *types.Result[bool] {
	s.logger.Debugf("[%s] delete all by ids [ids: %v]", s.entityName, ids)
	if err := s.baseRepo().DeleteByIDs(ctx, ids); err != nil {
		return types.Fail[bool](err)
	}
	return types.OK(true)
}

func (s *simpleCRUDService[E, ID, D]) ConvertEntityToDTO(entity *E) (*D, error) {
	return s.entityToDTO.Convert(entity)
}

func (s *simpleCRUDService[E, ID, D]) ConvertDTOToEntity(dto *D) (*E, error) {
	return s.dtoToEntity.Convert(dto)
}

func (s *simpleCRUDService[E, ID, D]) toDTOResult(entity *E) *types.Result[*D] {
	dto, err := s.ConvertEntityToDTO(entity)
	if err != nil {
		return types.Fail[*D](err)
	}
	return types.OK(dto)
}
