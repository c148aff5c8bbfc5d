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

// Sort is an ordered list of "column ASC|DESC" terms. The zero value means
// natural order.
type Sort struct {
	orders []string
}

// Asc appends an ascending order term for the given column.
func (s Sort) Asc(column string) Sort {
	return s.with(column + " ASC")
}

// Desc appends a descending order term for the given column.
func (s Sort) Desc(column string) Sort {
	return s.with(column + " DESC")
}

func (s Sort) with(order string) Sort {
	orders := make([]string, len(s.orders), len(s.orders)+1)
	copy(orders, s.orders)
	return Sort{orders: append(orders, order)}
}

// Orders returns the order terms in declaration order.
func (s Sort) Orders() []string {
	return s.orders
}

// IsUnsorted reports whether no order terms were declared.
func (s Sort) IsUnsorted() bool {
	return len(s.orders) == 0
}

// SortAsc starts a sort with an ascending term for the given column.
func SortAsc(column string) Sort {
	return Sort{}.Asc(column)
}

// SortDesc starts a sort with a descending term for the given column.
func SortDesc(column string) Sort {
	return Sort{}.Desc(column)
}

// PageRequest describes 1-based pagination with an optional specification
// and ordering.
type PageRequest struct {
	page     int
	pageSize int
	spec     Specification
	sort     Sort
}

// NewPageRequest constructs a PageRequest for the given page and size.
func NewPageRequest(page, pageSize int) *PageRequest {
	return &PageRequest{page: page, pageSize: pageSize}
}

// WithSpec sets the specification restricting the paged result set.
func (p *PageRequest) WithSpec(spec Specification) *PageRequest {
	p.spec = spec
	return p
}

// WithSort sets the ordering of the paged result set.
func (p *PageRequest) WithSort(sort Sort) *PageRequest {
	p.sort = sort
	return p
}

// Page returns the 1-based page index, defaulting to 1.
func (p *PageRequest) Page() int {
	if p.page < 1 {
		p.page = 1
	}
	return p.page
}

// PageSize returns the page size, defaulting to 10.
func (p *PageRequest) PageSize() int {
	if p.pageSize < 1 {
		p.pageSize = 10
	}
	return p.pageSize
}

// Offset returns the row offset of the first item on the page.
func (p *PageRequest) Offset() int {
	return (p.Page() - 1) * p.PageSize()
}

// Spec returns the specification; the zero value matches every record.
func (p *PageRequest) Spec() Specification {
	return p.spec
}

// Sort returns the requested ordering.
func (p *PageRequest) Sort() Sort {
	return p.sort
}

// Page holds one bounded slice of a larger result set plus its metadata.
type Page[T any] struct {
	Page     int  `json:"page"`
	PageSize int  `json:"page_size"`
	Total    int  `json:"total"`
	Items    []*T `json:"items"`
}

// EmptyPage constructs a page container with no items.
func EmptyPage[T any](page, pageSize int) *Page[T] {
	return &Page[T]{Page: page, PageSize: pageSize, Items: make([]*T, 0)}
}
