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
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// healthCollector exposes the connectivity state of a DatabaseManager as a
// prometheus gauge.
type healthCollector struct {
	manager DatabaseManager
	desc    *prometheus.Desc
}

func newHealthCollector(manager DatabaseManager, dbName string) *healthCollector {
	return &healthCollector{
		manager: manager,
		desc: prometheus.NewDesc(
			"db_up",
			"Whether the database connection is healthy (1) or not (0).",
			nil,
			prometheus.Labels{"db_name": dbName},
		),
	}
}

func (c *healthCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.desc
}

func (c *healthCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var up float64
	if status := c.manager.HealthCheck(ctx); status != nil && status.Healthy {
		up = 1
	}
	ch <- prometheus.MustNewConstMetric(c.desc, prometheus.GaugeValue, up)
}

// RegisterMetrics registers connection pool statistics and a health gauge for
// the given manager with the provided prometheus registerer. Passing nil uses
// the default registerer.
func RegisterMetrics(manager DatabaseManager, dbName string, reg prometheus.Registerer) error {
	if manager == nil {
		return fmt.Errorf("database manager is nil")
	}
	sqlDB := manager.GetSQLDB()
	if sqlDB == nil {
		return fmt.Errorf("database not connected")
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	if err := reg.Register(collectors.NewDBStatsCollector(sqlDB, dbName)); err != nil {
		return fmt.Errorf("failed to register db stats collector: %w", err)
	}
	if err := reg.Register(newHealthCollector(manager, dbName)); err != nil {
		return fmt.Errorf("failed to register db health collector: %w", err)
	}
	return nil
}
