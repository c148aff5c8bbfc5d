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

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortBuilding(t *testing.T) {
	s := SortAsc("name").Desc("created_at")
	assert.False(t, s.IsUnsorted())
	assert.Equal(t, []string{"name ASC", "created_at DESC"}, s.Orders())

	var unsorted Sort
	assert.True(t, unsorted.IsUnsorted())
}

func TestSortValueSemantics(t *testing.T) {
	base := SortAsc("a")
	extended := base.Desc("b")

	assert.Equal(t, []string{"a ASC"}, base.Orders())
	assert.Equal(t, []string{"a ASC", "b DESC"}, extended.Orders())
}

func TestPageRequestDefaults(t *testing.T) {
	p := NewPageRequest(0, 0)
	assert.Equal(t, 1, p.Page())
	assert.Equal(t, 10, p.PageSize())
	assert.Equal(t, 0, p.Offset())
	assert.True(t, p.Spec().IsAll())
	assert.True(t, p.Sort().IsUnsorted())
}

func TestPageRequestOffset(t *testing.T) {
	p := NewPageRequest(3, 20)
	assert.Equal(t, 40, p.Offset())
}

func TestPageRequestWithSpecAndSort(t *testing.T) {
	p := NewPageRequest(1, 5).
		WithSpec(Where("name = ?", "a")).
		WithSort(SortDesc("id"))
	assert.Equal(t, "name = ?", p.Spec().Expr())
	assert.Equal(t, []string{"id DESC"}, p.Sort().Orders())
}

func TestEmptyPage(t *testing.T) {
	p := EmptyPage[int](2, 10)
	assert.Equal(t, 2, p.Page)
	assert.Equal(t, 10, p.PageSize)
	assert.Zero(t, p.Total)
	assert.NotNil(t, p.Items)
	assert.Empty(t, p.Items)
}
