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

package database

import (
	"slices"
	"sync"
)

var defaultRegistry = &modelRegistry{}

// SQLModel is a database model that participates in automatic table creation
// and relation registration. Instance returns a Bun-compatible struct pointer;
// Priority orders model initialization, lower values first.
type SQLModel interface {
	Instance() any
	Priority() int
}

type modelRegistry struct {
	mu     sync.RWMutex
	models []SQLModel
}

func (r *modelRegistry) register(models ...SQLModel) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.models = append(r.models, models...)
}

func (r *modelRegistry) sorted() []SQLModel {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := slices.Clone(r.models)
	slices.SortStableFunc(out, func(a, b SQLModel) int {
		return a.Priority() - b.Priority()
	})
	return out
}

type modelAdapter struct {
	instance any
	priority int
}

// NewModelAdapter wraps a struct instance and a priority into an SQLModel.
func NewModelAdapter(instance any, priority int) SQLModel {
	return &modelAdapter{instance: instance, priority: priority}
}

func (a *modelAdapter) Instance() any { return a.instance }

func (a *modelAdapter) Priority() int { return a.priority }

// RegisteredModel adds one or more models to the default registry. Models
// should be registered before InitDB so that migrations and Bun relation
// registration see them.
func RegisteredModel(models ...SQLModel) {
	defaultRegistry.register(models...)
}

// GetRegisteredModels returns all registered models in ascending priority.
func GetRegisteredModels() []SQLModel {
	return defaultRegistry.sorted()
}

// RegisteredModelInstances returns the struct instances of all registered
// models in ascending priority.
func RegisteredModelInstances() []any {
	models := GetRegisteredModels()
	instances := make([]any, len(models))
	for i, m := range models {
		instances[i] = m.Instance()
	}
	return instances
}
