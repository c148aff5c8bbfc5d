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
	"database/sql/driver"
	"errors"

	"github.com/goccy/go-json"
)

// JSONObject maps a JSON column to a generic object.
type JSONObject map[string]interface{}

// JSONArray maps a JSON column to an array of objects.
type JSONArray []JSONObject

// Value implements driver.Valuer for JSONObject.
func (j JSONObject) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan implements sql.Scanner for JSONObject.
func (j *JSONObject) Scan(value interface{}) error {
	if value == nil {
		*j = make(JSONObject)
		return nil
	}
	raw, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion must be []byte")
	}
	return json.Unmarshal(raw, j)
}

// Value implements driver.Valuer for JSONArray.
func (j JSONArray) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan implements sql.Scanner for JSONArray.
func (j *JSONArray) Scan(value interface{}) error {
	if value == nil {
		*j = make(JSONArray, 0)
		return nil
	}
	raw, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion must be []byte")
	}
	return json.Unmarshal(raw, j)
}
