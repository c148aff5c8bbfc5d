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

// Result is the uniform envelope returned by every service operation. It
// carries either a success value or a failure; callers get one contract for
// both. A lookup that finds nothing is a success with zero-valued Data, not
// a failure.
type Result[T any] struct {
	Data    T      `json:"data"`
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`

	err error
}

// OK wraps a success value.
func OK[T any](data T) *Result[T] {
	return &Result[T]{Data: data, Success: true}
}

// Fail wraps a failure. A nil error yields a success result.
func Fail[T any](err error) *Result[T] {
	if err == nil {
		var zero T
		return OK(zero)
	}
	return &Result[T]{Success: false, Message: err.Error(), err: err}
}

// Err returns the failure cause, or nil for success results.
func (r *Result[T]) Err() error {
	return r.err
}

// Get unpacks the result into the usual Go (value, error) pair.
func (r *Result[T]) Get() (T, error) {
	return r.Data, r.err
}
