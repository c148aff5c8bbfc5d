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
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/tomoncle/colibri/types"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/feature"
	"github.com/uptrace/bun/schema"
)

type baseRepositoryImpl[E any, ID comparable] struct {
	db *bun.DB
}

// NewRepository returns a generic repository backed by the provided Bun DB.
func NewRepository[E any, ID comparable](db *bun.DB) Repository[E, ID] {
	return &baseRepositoryImpl[E, ID]{db: db}
}

func (r *baseRepositoryImpl[E, ID]) Dialect() schema.Dialect { return r.db.Dialect() }

func (r *baseRepositoryImpl[E, ID]) NewSelect() *bun.SelectQuery { return r.db.NewSelect() }

func (r *baseRepositoryImpl[E, ID]) NewInsert() *bun.InsertQuery { return r.db.NewInsert() }

func (r *baseRepositoryImpl[E, ID]) NewUpdate() *bun.UpdateQuery { return r.db.NewUpdate() }

func (r *baseRepositoryImpl[E, ID]) NewDelete() *bun.DeleteQuery { return r.db.NewDelete() }

func (r *baseRepositoryImpl[E, ID]) GetByID(ctx context.Context, id ID) (*E, error) {
	var entity E
	err := r.db.NewSelect().Model(&entity).Where("id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entity, nil
}

func (r *baseRepositoryImpl[E, ID]) FindOne(ctx context.Context, spec types.Specification) (*E, error) {
	var entity E
	query := applySpec(r.db.NewSelect().Model(&entity), spec)
	err := query.Limit(1).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entity, nil
}

func (r *baseRepositoryImpl[E, ID]) Find(ctx context.Context, spec types.Specification, sort types.Sort) ([]*E, error) {
	var entities []*E
	query := applySort(applySpec(r.db.NewSelect().Model(&entities), spec), sort)
	if err := query.Scan(ctx); err != nil {
		return nil, err
	}
	return entities, nil
}

func (r *baseRepositoryImpl[E, ID]) FindAll(ctx context.Context, sort types.Sort) ([]*E, error) {
	return r.Find(ctx, types.All(), sort)
}

func (r *baseRepositoryImpl[E, ID]) FindPage(ctx context.Context, page *types.PageRequest) (*types.Page[E], error) {
	var entities []*E
	query := applySpec(r.db.NewSelect().Model(&entities), page.Spec())
	result := types.EmptyPage[E](page.Page(), page.PageSize())
	total, err := query.Count(ctx)
	if err != nil || total == 0 {
		return result, err
	}
	err = applySort(query, page.Sort()).
		Offset(page.Offset()).
		Limit(page.PageSize()).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	result.Total = total
	result.Items = entities
	return result, nil
}

func (r *baseRepositoryImpl[E, ID]) Save(ctx context.Context, entity *E) error {
	return r.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		return r.save(ctx, tx, entity)
	})
}

func (r *baseRepositoryImpl[E, ID]) DeleteByID(ctx context.Context, id ID) error {
	return r.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		return r.deleteByID(ctx, tx, id)
	})
}

func (r *baseRepositoryImpl[E, ID]) DeleteByIDs(ctx context.Context, ids []ID) error {
	return r.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		return r.deleteByIDs(ctx, tx, ids)
	})
}

func (r *baseRepositoryImpl[E, ID]) SaveTx(ctx context.Context, tx *bun.Tx, entity *E) error {
	return r.save(ctx, tx, entity)
}

func (r *baseRepositoryImpl[E, ID]) DeleteByIDTx(ctx context.Context, tx *bun.Tx, id ID) error {
	return r.deleteByID(ctx, tx, id)
}

func (r *baseRepositoryImpl[E, ID]) DeleteByIDsTx(ctx context.Context, tx *bun.Tx, ids []ID) error {
	return r.deleteByIDs(ctx, tx, ids)
}

// save performs an insert-or-update keyed on the entity's primary key. The
// conflict clause depends on the dialect: ON CONFLICT for PostgreSQL/SQLite,
// ON DUPLICATE KEY for MySQL, and a separate insert-then-update fallback
// elsewhere.
func (r *baseRepositoryImpl[E, ID]) save(ctx context.Context, idb bun.IDB, entity *E) error {
	table := r.db.Table(reflect.TypeOf(entity).Elem())
	if len(table.PKs) == 0 {
		return fmt.Errorf("entity %T has no primary key", entity)
	}

	switch {
	case r.db.HasFeature(feature.InsertOnConflict):
		return r.saveOnConflict(ctx, idb, table, entity)
	case r.db.HasFeature(feature.InsertOnDuplicateKey):
		return r.saveOnDuplicateKey(ctx, idb, table, entity)
	default:
		return r.saveFallback(ctx, idb, entity)
	}
}

func (r *baseRepositoryImpl[E, ID]) saveOnConflict(ctx context.Context, idb bun.IDB, table *schema.Table, entity *E) error {
	keys := make([]string, 0, len(table.PKs))
	for _, pk := range table.PKs {
		keys = append(keys, pk.Name)
	}
	insert := idb.NewInsert().Model(entity)
	if len(table.DataFields) == 0 {
		_, err := insert.On("CONFLICT (" + strings.Join(keys, ", ") + ") DO NOTHING").Exec(ctx)
		return err
	}
	sets := make([]string, 0, len(table.DataFields))
	for _, field := range table.DataFields {
		sets = append(sets, fmt.Sprintf("%s = EXCLUDED.%s", field.Name, field.Name))
	}
	_, err := insert.
		On("CONFLICT (" + strings.Join(keys, ", ") + ") DO UPDATE").
		Set(strings.Join(sets, ", ")).
		Exec(ctx)
	return err
}

func (r *baseRepositoryImpl[E, ID]) saveOnDuplicateKey(ctx context.Context, idb bun.IDB, table *schema.Table, entity *E) error {
	insert := idb.NewInsert().Model(entity)
	if len(table.DataFields) == 0 {
		_, err := insert.Ignore().Exec(ctx)
		return err
	}
	sets := make([]string, 0, len(table.DataFields))
	for _, field := range table.DataFields {
		sets = append(sets, fmt.Sprintf("%s = VALUES(%s)", field.Name, field.Name))
	}
	_, err := insert.On("DUPLICATE KEY UPDATE " + strings.Join(sets, ", ")).Exec(ctx)
	return err
}

func (r *baseRepositoryImpl[E, ID]) saveFallback(ctx context.Context, idb bun.IDB, entity *E) error {
	if _, err := idb.NewInsert().Model(entity).Exec(ctx); err != nil {
		if _, updateErr := idb.NewUpdate().Model(entity).WherePK().Exec(ctx); updateErr != nil {
			return fmt.Errorf("save failed for %T: insert error: %v, update error: %v", entity, err, updateErr)
		}
	}
	return nil
}

func (r *baseRepositoryImpl[E, ID]) deleteByID(ctx context.Context, idb bun.IDB, id ID) error {
	var entity E
	_, err := idb.NewDelete().Model(&entity).Where("id = ?", id).Exec(ctx)
	return err
}

func (r *baseRepositoryImpl[E, ID]) deleteByIDs(ctx context.Context, idb bun.IDB, ids []ID) error {
	if len(ids) == 0 {
		return nil
	}
	var entity E
	_, err := idb.NewDelete().Model(&entity).Where("id IN (?)", bun.In(ids)).Exec(ctx)
	return err
}

func applySpec(query *bun.SelectQuery, spec types.Specification) *bun.SelectQuery {
	if spec.IsAll() {
		return query
	}
	return query.Where(spec.Expr(), spec.Args()...)
}

func applySort(query *bun.SelectQuery, sort types.Sort) *bun.SelectQuery {
	if sort.IsUnsorted() {
		return query
	}
	return query.Order(sort.Orders()...)
}
