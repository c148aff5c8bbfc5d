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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	content := `
connection:
  type: postgres
  host: db.internal
  port: 5432
  username: app
  password: secret
  dbname: app_db
  sslmode: require
  max_open_conns: 50
migrate:
  enable_migrate_on_startup: true
init:
  auto_init_on_migration: true
  environment: staging
  filepath: configs/sql
`
	path := filepath.Join(t.TempDir(), "database.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.ConnectionConfig.Type)
	assert.Equal(t, "db.internal", cfg.ConnectionConfig.Host)
	assert.Equal(t, 5432, cfg.ConnectionConfig.Port)
	assert.Equal(t, "require", cfg.ConnectionConfig.SSLMode)
	assert.Equal(t, 50, cfg.ConnectionConfig.MaxOpenConns)
	assert.True(t, cfg.DataMigrateConfig.EnableMigrateOnStartup)
	assert.True(t, cfg.DataInitConfig.AutoInitOnMigration)
	assert.Equal(t, "staging", cfg.DataInitConfig.Environment)

	// unset connection values fall back to defaults
	assert.Equal(t, 10, cfg.ConnectionConfig.MaxIdleConns)
	assert.Equal(t, time.Hour, cfg.ConnectionConfig.ConnMaxLifetime)
	assert.Equal(t, time.Second*10, cfg.ConnectionConfig.ConnectTimeout)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("connection: [not a map"), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestDefaultConnectionConfig(t *testing.T) {
	cfg := DefaultConnectionConfig()
	assert.Equal(t, 100, cfg.MaxOpenConns)
	assert.True(t, cfg.EnableReconnect)
	assert.Equal(t, 3, cfg.MaxReconnectTries)
	assert.Equal(t, time.Second*2, cfg.SlowQueryTime)
}
