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

// Package mapper converts between entity and transfer-object shapes by
// structural field mapping: fields with matching names and compatible types
// carry over, nothing else. No defaulting, validation, or transformation
// logic lives here.
package mapper

import (
	"fmt"

	"github.com/goccy/go-json"
)

// ErrMapping marks a failed conversion between two shapes.
var ErrMapping = fmt.Errorf("mapper: conversion failed")

// Converter converts *S values into *T values.
type Converter[S any, T any] struct {
	fn func(*S) (*T, error)
}

// New returns a structural converter. Mapping goes through a JSON
// round-trip, so field correspondence follows the json struct tags (or the
// field names where untagged), mirroring how both shapes serialize.
func New[S any, T any]() *Converter[S, T] {
	return &Converter[S, T]{}
}

// NewFunc returns a converter backed by an explicit per-pair conversion
// function instead of reflection; mapping mistakes become compile errors in
// the supplied function.
func NewFunc[S any, T any](fn func(*S) (*T, error)) *Converter[S, T] {
	return &Converter[S, T]{fn: fn}
}

// Convert maps src into a freshly allocated target value. A nil src yields
// a nil target.
func (c *Converter[S, T]) Convert(src *S) (*T, error) {
	if src == nil {
		return nil, nil
	}
	if c.fn != nil {
		return c.fn(src)
	}
	raw, err := json.Marshal(src)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal %T: %v", ErrMapping, src, err)
	}
	target := new(T)
	if err := json.Unmarshal(raw, target); err != nil {
		return nil, fmt.Errorf("%w: unmarshal into %T: %v", ErrMapping, target, err)
	}
	return target, nil
}

// ConvertAll maps every element of src, preserving order.
func (c *Converter[S, T]) ConvertAll(src []*S) ([]*T, error) {
	targets := make([]*T, 0, len(src))
	for _, item := range src {
		target, err := c.Convert(item)
		if err != nil {
			return nil, err
		}
		targets = append(targets, target)
	}
	return targets, nil
}
