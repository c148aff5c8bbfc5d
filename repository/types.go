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

package repository

import (
	"context"

	"github.com/tomoncle/colibri/types"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/schema"
)

// KeyedRepository defines basic keyed persistence operations for a generic
// entity type.
type KeyedRepository[E any, ID comparable] interface {
	// GetByID returns the entity for id, or (nil, nil) when absent.
	GetByID(ctx context.Context, id ID) (*E, error)

	// Save inserts the entity, or updates it when its key already exists.
	Save(ctx context.Context, entity *E) error

	// DeleteByID removes the entity with the given identifier.
	DeleteByID(ctx context.Context, id ID) error

	// DeleteByIDs removes all listed identifiers in a single transaction.
	DeleteByIDs(ctx context.Context, ids []ID) error

	// FindAll returns every entity in the given order.
	FindAll(ctx context.Context, sort types.Sort) ([]*E, error)

	// FindPage returns one page of entities plus page metadata.
	FindPage(ctx context.Context, page *types.PageRequest) (*types.Page[E], error)
}

// SpecificationExecutor defines predicate-based querying over a generic
// entity type.
type SpecificationExecutor[E any] interface {
	// FindOne returns a single entity matching spec, or (nil, nil) when
	// nothing matches.
	FindOne(ctx context.Context, spec types.Specification) (*E, error)

	// Find returns the entities matching spec in the given order.
	Find(ctx context.Context, spec types.Specification, sort types.Sort) ([]*E, error)
}

// TransactionalRepository defines mutating operations executed within a
// caller-owned transaction.
type TransactionalRepository[E any, ID comparable] interface {
	SaveTx(ctx context.Context, tx *bun.Tx, entity *E) error
	DeleteByIDTx(ctx context.Context, tx *bun.Tx, id ID) error
	DeleteByIDsTx(ctx context.Context, tx *bun.Tx, ids []ID) error
}

// Repository combines keyed persistence, specification querying, and
// transactional variants, and exposes Bun query builders for advanced use
// cases.
type Repository[E any, ID comparable] interface {
	KeyedRepository[E, ID]
	SpecificationExecutor[E]
	TransactionalRepository[E, ID]
	Dialect() schema.Dialect
	NewSelect() *bun.SelectQuery
	NewInsert() *bun.InsertQuery
	NewUpdate() *bun.UpdateQuery
	NewDelete() *bun.DeleteQuery
}
