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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultOK(t *testing.T) {
	r := OK("hello")
	assert.True(t, r.Success)
	assert.Equal(t, "hello", r.Data)
	assert.Empty(t, r.Message)
	assert.NoError(t, r.Err())

	v, err := r.Get()
	require.NoError(t, err)
	assert.Equal(t, "hello", v)
}

func TestResultOKNilData(t *testing.T) {
	r := OK[*string](nil)
	assert.True(t, r.Success)
	assert.Nil(t, r.Data)
	assert.NoError(t, r.Err())
}

func TestResultFail(t *testing.T) {
	cause := errors.New("boom")
	r := Fail[int](cause)
	assert.False(t, r.Success)
	assert.Equal(t, "boom", r.Message)
	assert.Zero(t, r.Data)
	assert.ErrorIs(t, r.Err(), cause)

	v, err := r.Get()
	assert.ErrorIs(t, err, cause)
	assert.Zero(t, v)
}

func TestResultFailNilErrorIsSuccess(t *testing.T) {
	r := Fail[int](nil)
	assert.True(t, r.Success)
	assert.Zero(t, r.Data)
	assert.NoError(t, r.Err())
}
