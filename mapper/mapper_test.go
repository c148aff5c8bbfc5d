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

package mapper

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type userEntity struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userDTO struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	// no Password field: it must not leak into the DTO
}

func TestConvertStructural(t *testing.T) {
	c := New[userEntity, userDTO]()
	dto, err := c.Convert(&userEntity{ID: 1, Name: "a", Email: "a@x.io", Password: "secret"})
	require.NoError(t, err)
	require.NotNil(t, dto)
	assert.Equal(t, int64(1), dto.ID)
	assert.Equal(t, "a", dto.Name)
	assert.Equal(t, "a@x.io", dto.Email)
}

func TestConvertBackFillsMissingWithZero(t *testing.T) {
	c := New[userDTO, userEntity]()
	entity, err := c.Convert(&userDTO{ID: 2, Name: "b"})
	require.NoError(t, err)
	require.NotNil(t, entity)
	assert.Equal(t, int64(2), entity.ID)
	assert.Equal(t, "b", entity.Name)
	assert.Empty(t, entity.Password)
}

func TestConvertNil(t *testing.T) {
	c := New[userEntity, userDTO]()
	dto, err := c.Convert(nil)
	require.NoError(t, err)
	assert.Nil(t, dto)
}

func TestConvertAllPreservesOrder(t *testing.T) {
	c := New[userEntity, userDTO]()
	dtos, err := c.ConvertAll([]*userEntity{
		{ID: 1, Name: "a"},
		nil,
		{ID: 2, Name: "b"},
	})
	require.NoError(t, err)
	require.Len(t, dtos, 3)
	assert.Equal(t, "a", dtos[0].Name)
	assert.Nil(t, dtos[1])
	assert.Equal(t, "b", dtos[2].Name)
}

func TestConvertTypeMismatch(t *testing.T) {
	type src struct {
		Amount string `json:"amount"`
	}
	type dst struct {
		Amount int `json:"amount"`
	}

	c := New[src, dst]()
	_, err := c.Convert(&src{Amount: "not a number"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMapping)
}

func TestConvertUnmarshalableSource(t *testing.T) {
	type src struct {
		C chan int `json:"c"`
	}
	type dst struct{}

	c := New[src, dst]()
	_, err := c.Convert(&src{C: make(chan int)})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMapping)
}

func TestNewFuncConverter(t *testing.T) {
	c := NewFunc(func(e *userEntity) (*userDTO, error) {
		return &userDTO{ID: e.ID, Name: "custom:" + e.Name}, nil
	})
	dto, err := c.Convert(&userEntity{ID: 7, Name: "x"})
	require.NoError(t, err)
	assert.Equal(t, "custom:x", dto.Name)
}

func TestNewFuncConverterError(t *testing.T) {
	c := NewFunc(func(e *userEntity) (*userDTO, error) {
		return nil, fmt.Errorf("%w: unsupported user", ErrMapping)
	})
	_, err := c.Convert(&userEntity{})
	assert.ErrorIs(t, err, ErrMapping)
}
