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
	"github.com/stretchr/testify/require"
)

func TestJSONObjectValueAndScan(t *testing.T) {
	obj := JSONObject{"key": "value", "count": float64(3)}

	v, err := obj.Value()
	require.NoError(t, err)

	var scanned JSONObject
	require.NoError(t, scanned.Scan(v))
	assert.Equal(t, obj, scanned)
}

func TestJSONObjectScanNil(t *testing.T) {
	var obj JSONObject
	require.NoError(t, obj.Scan(nil))
	assert.NotNil(t, obj)
	assert.Empty(t, obj)
}

func TestJSONObjectScanWrongType(t *testing.T) {
	var obj JSONObject
	assert.Error(t, obj.Scan(42))
}

func TestJSONArrayValueAndScan(t *testing.T) {
	arr := JSONArray{{"name": "a"}, {"name": "b"}}

	v, err := arr.Value()
	require.NoError(t, err)

	var scanned JSONArray
	require.NoError(t, scanned.Scan(v))
	assert.Equal(t, arr, scanned)
}

func TestJSONNilValue(t *testing.T) {
	v, err := JSONObject(nil).Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = JSONArray(nil).Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}
