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
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/uptrace/bun"
)

var sqlSilentMode bool

// EnableSQLSilent suppresses all query hook output, e.g. while migrations run.
func EnableSQLSilent(b bool) { sqlSilentMode = b }

var (
	selectColor = color.New(color.FgGreen)
	insertColor = color.New(color.FgBlue)
	updateColor = color.New(color.FgYellow)
	deleteColor = color.New(color.FgMagenta)
	otherColor  = color.New(color.FgRed)
	errorColor  = color.New(color.BgRed, color.FgWhite)
)

func colorizeQuery(event *bun.QueryEvent) string {
	switch event.Operation() {
	case "SELECT":
		return selectColor.Sprint(event.Query)
	case "INSERT":
		return insertColor.Sprint(event.Query)
	case "UPDATE":
		return updateColor.Sprint(event.Query)
	case "DELETE":
		return deleteColor.Sprint(event.Query)
	default:
		return otherColor.Sprint(event.Query)
	}
}

// QueryHook prints executed queries colorized by operation. The env variable
// overrides the configured state at runtime: unset keeps the configured
// value, "0" disables, "2" enables verbose mode.
type QueryHook struct {
	envName string
	enabled bool
	verbose bool
	writer  io.Writer
}

var _ bun.QueryHook = (*QueryHook)(nil)

// NewQueryHook creates a query log hook controlled by the given env variable.
func NewQueryHook(envName string, verbose bool) *QueryHook {
	return &QueryHook{
		envName: envName,
		enabled: true,
		verbose: verbose,
		writer:  os.Stdout,
	}
}

func (h *QueryHook) BeforeQuery(ctx context.Context, event *bun.QueryEvent) context.Context {
	return ctx
}

func (h *QueryHook) AfterQuery(ctx context.Context, event *bun.QueryEvent) {
	if sqlSilentMode {
		return
	}
	enabled := h.enabled
	verbose := h.verbose
	if env, ok := os.LookupEnv(h.envName); ok {
		enabled = env != "" && env != "0"
		verbose = env == "2"
	}
	if !enabled {
		return
	}

	if !verbose {
		switch {
		case event.Err == nil, errors.Is(event.Err, sql.ErrNoRows), errors.Is(event.Err, sql.ErrTxDone):
			return
		}
	}

	now := time.Now()
	args := []interface{}{
		now.Format("2006-01-02 15:04:05.000"),
		fmt.Sprintf("%17s", now.Sub(event.StartTime).Round(time.Microsecond)),
		"  ", colorizeQuery(event),
	}
	if event.Err != nil {
		args = append(args, "\t", errorColor.Sprintf(" %s ", event.Err.Error()))
	}
	_, _ = fmt.Fprintln(h.writer, args...)
}

// SlowQueryHook warns about successful queries slower than a threshold.
type SlowQueryHook struct {
	slowTime time.Duration
	logger   Logger
}

var _ bun.QueryHook = (*SlowQueryHook)(nil)

// NewSlowQueryHook creates a hook that reports queries exceeding slowTime.
func NewSlowQueryHook(slowTime time.Duration, logger Logger) *SlowQueryHook {
	return &SlowQueryHook{slowTime: slowTime, logger: logger}
}

func (h *SlowQueryHook) BeforeQuery(ctx context.Context, event *bun.QueryEvent) context.Context {
	return ctx
}

func (h *SlowQueryHook) AfterQuery(ctx context.Context, event *bun.QueryEvent) {
	if sqlSilentMode || event.Err != nil {
		return
	}
	duration := time.Since(event.StartTime)
	if duration <= h.slowTime {
		return
	}
	logger := h.logger
	if logger == nil {
		logger = GetLogger()
	}
	logger.Warn("Database slow query detected",
		"duration", duration,
		"slow_threshold", h.slowTime,
		"query", event.Query,
	)
}
