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
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/tomoncle/colibri/types"
)

type book struct {
	bun.BaseModel `bun:"table:books,alias:b"`

	ID    int64  `bun:"id,pk" json:"id"`
	Name  string `bun:"name,notnull" json:"name"`
	Pages int    `bun:"pages" json:"pages"`
}

type device struct {
	bun.BaseModel `bun:"table:devices,alias:d"`

	ID   string `bun:"id,pk" json:"id"`
	Name string `bun:"name" json:"name"`
}

func newTestDB(t *testing.T, models ...interface{}) *bun.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	sqlDB, err := sql.Open(sqliteshim.ShimName, dsn)
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	db := bun.NewDB(sqlDB, sqlitedialect.New())
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	for _, model := range models {
		_, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx)
		require.NoError(t, err)
	}
	return db
}

func newBookRepository(t *testing.T) Repository[book, int64] {
	t.Helper()
	return NewRepository[book, int64](newTestDB(t, (*book)(nil)))
}

func seedBooks(t *testing.T, repo Repository[book, int64], books ...*book) {
	t.Helper()
	ctx := context.Background()
	for _, b := range books {
		require.NoError(t, repo.Save(ctx, b))
	}
}

func TestSaveInsertsAndGetByID(t *testing.T) {
	repo := newBookRepository(t)
	ctx := context.Background()

	seedBooks(t, repo,
		&book{ID: 1, Name: "a", Pages: 100},
		&book{ID: 2, Name: "b", Pages: 200},
	)

	got, err := repo.GetByID(ctx, 2)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "b", got.Name)
	assert.Equal(t, 200, got.Pages)
}

func TestGetByIDAbsentReturnsNil(t *testing.T) {
	repo := newBookRepository(t)

	got, err := repo.GetByID(context.Background(), 404)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSaveUpdatesExistingRow(t *testing.T) {
	repo := newBookRepository(t)
	ctx := context.Background()

	seedBooks(t, repo, &book{ID: 1, Name: "a", Pages: 100})
	seedBooks(t, repo, &book{ID: 1, Name: "a2", Pages: 150})

	got, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "a2", got.Name)
	assert.Equal(t, 150, got.Pages)

	all, err := repo.FindAll(ctx, types.Sort{})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestFindOne(t *testing.T) {
	repo := newBookRepository(t)
	ctx := context.Background()

	seedBooks(t, repo, &book{ID: 1, Name: "a", Pages: 100})

	got, err := repo.FindOne(ctx, types.Where("name = ?", "a"))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(1), got.ID)

	missing, err := repo.FindOne(ctx, types.Where("name = ?", "zzz"))
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestFindWithSpecificationAndSort(t *testing.T) {
	repo := newBookRepository(t)
	ctx := context.Background()

	seedBooks(t, repo,
		&book{ID: 1, Name: "a", Pages: 100},
		&book{ID: 2, Name: "b", Pages: 300},
		&book{ID: 3, Name: "c", Pages: 200},
	)

	got, err := repo.Find(ctx, types.Where("pages > ?", 100), types.SortDesc("pages"))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].Name)
	assert.Equal(t, "c", got[1].Name)
}

func TestFindAllMatchAll(t *testing.T) {
	repo := newBookRepository(t)
	ctx := context.Background()

	seedBooks(t, repo,
		&book{ID: 2, Name: "b"},
		&book{ID: 1, Name: "a"},
	)

	got, err := repo.FindAll(ctx, types.SortAsc("id"))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].ID)
	assert.Equal(t, int64(2), got[1].ID)
}

func TestFindPage(t *testing.T) {
	repo := newBookRepository(t)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		seedBooks(t, repo, &book{ID: int64(i), Name: fmt.Sprintf("book-%d", i), Pages: i * 10})
	}

	page, err := repo.FindPage(ctx, types.NewPageRequest(2, 2).WithSort(types.SortAsc("id")))
	require.NoError(t, err)
	assert.Equal(t, 5, page.Total)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 2, page.PageSize)
	require.Len(t, page.Items, 2)
	assert.Equal(t, int64(3), page.Items[0].ID)
	assert.Equal(t, int64(4), page.Items[1].ID)
}

func TestFindPageNoMatches(t *testing.T) {
	repo := newBookRepository(t)

	page, err := repo.FindPage(context.Background(),
		types.NewPageRequest(1, 10).WithSpec(types.Where("pages > ?", 10000)))
	require.NoError(t, err)
	assert.Zero(t, page.Total)
	assert.Empty(t, page.Items)
}

func TestDeleteByID(t *testing.T) {
	repo := newBookRepository(t)
	ctx := context.Background()

	seedBooks(t, repo, &book{ID: 1, Name: "a"})
	require.NoError(t, repo.DeleteByID(ctx, 1))

	got, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, got)

	// deleting an absent id is not an error
	assert.NoError(t, repo.DeleteByID(ctx, 404))
}

func TestDeleteByIDs(t *testing.T) {
	repo := newBookRepository(t)
	ctx := context.Background()

	seedBooks(t, repo,
		&book{ID: 1, Name: "a"},
		&book{ID: 2, Name: "b"},
		&book{ID: 3, Name: "c"},
	)

	require.NoError(t, repo.DeleteByIDs(ctx, []int64{1, 3}))

	all, err := repo.FindAll(ctx, types.Sort{})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, int64(2), all[0].ID)

	// empty id list is a no-op
	assert.NoError(t, repo.DeleteByIDs(ctx, nil))
}

func TestTransactionalOperations(t *testing.T) {
	db := newTestDB(t, (*book)(nil))
	repo := NewRepository[book, int64](db)
	ctx := context.Background()

	err := db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if err := repo.SaveTx(ctx, &tx, &book{ID: 1, Name: "a"}); err != nil {
			return err
		}
		return repo.SaveTx(ctx, &tx, &book{ID: 2, Name: "b"})
	})
	require.NoError(t, err)

	all, err := repo.FindAll(ctx, types.Sort{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestTransactionRollsBackOnError(t *testing.T) {
	db := newTestDB(t, (*book)(nil))
	repo := NewRepository[book, int64](db)
	ctx := context.Background()

	err := db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if err := repo.SaveTx(ctx, &tx, &book{ID: 1, Name: "a"}); err != nil {
			return err
		}
		return fmt.Errorf("abort")
	})
	require.Error(t, err)

	all, err := repo.FindAll(ctx, types.Sort{})
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestStringKeyedRepository(t *testing.T) {
	db := newTestDB(t, (*device)(nil))
	repo := NewRepository[device, string](db)
	ctx := context.Background()

	id := uuid.NewString()
	require.NoError(t, repo.Save(ctx, &device{ID: id, Name: "sensor"}))

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "sensor", got.Name)

	require.NoError(t, repo.DeleteByIDs(ctx, []string{id}))
	got, err = repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFindPropagatesQueryErrors(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = sqlDB.Close() }()

	mock.ExpectQuery("SELECT").WillReturnError(fmt.Errorf("connection reset"))

	db := bun.NewDB(sqlDB, sqlitedialect.New())
	repo := NewRepository[book, int64](db)

	_, err = repo.Find(context.Background(), types.All(), types.Sort{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
	assert.NoError(t, mock.ExpectationsWereMet())
}
