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

// Package utils provides named logrus loggers with a compact log4j-style
// console format. Loggers are kept in a registry so their levels can be
// adjusted at runtime by name.
package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
)

// Logger is an alias so callers do not need to import logrus directly.
type Logger = logrus.Logger

var (
	loggerRegistryMu sync.RWMutex
	loggerRegistry   = map[string]*logrus.Logger{}

	defaultLevel     = ParseLogLevel(EnvDefaultString("LOG_LEVEL", "debug"))
	consoleLogFormat = EnvDefaultString("CONSOLE_LOG_FORMAT", "text")
)

// ParseLogLevel converts a level string to a logrus level. Unknown or empty
// values map to Info.
func ParseLogLevel(s string) logrus.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return logrus.TraceLevel
	case "debug":
		return logrus.DebugLevel
	case "info", "":
		return logrus.InfoLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	case "fatal":
		return logrus.FatalLevel
	case "panic":
		return logrus.PanicLevel
	default:
		return logrus.InfoLevel
	}
}

// NewLogger creates a named logger and registers it. The console format is
// text (colored, log4j-like) unless CONSOLE_LOG_FORMAT=json.
func NewLogger(name string) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	l.SetLevel(defaultLevel)
	l.SetReportCaller(true)
	if consoleLogFormat == "json" {
		l.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05.000",
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime: "timestamp",
			},
		})
	} else {
		l.SetFormatter(&textFormatter{loggerName: name, nameWidth: 10})
	}
	RegisterLogger(name, l)
	return l
}

// RegisterLogger adds a logger to the registry, replacing any previous logger
// registered under the same name.
func RegisterLogger(name string, l *logrus.Logger) {
	loggerRegistryMu.Lock()
	defer loggerRegistryMu.Unlock()
	loggerRegistry[name] = l
}

// SetLoggerLevel sets the level of a registered logger by name. It reports
// whether a logger with that name exists.
func SetLoggerLevel(name string, lvlStr string) bool {
	lvl := ParseLogLevel(lvlStr)
	loggerRegistryMu.RLock()
	l, ok := loggerRegistry[name]
	loggerRegistryMu.RUnlock()
	if !ok {
		return false
	}
	l.SetLevel(lvl)
	return true
}

// SetAllLoggersLevel sets the level of every registered logger.
func SetAllLoggersLevel(lvl logrus.Level) {
	loggerRegistryMu.RLock()
	for _, l := range loggerRegistry {
		l.SetLevel(lvl)
	}
	loggerRegistryMu.RUnlock()
	defaultLevel = lvl
}

var (
	colorLevelDebug = color.New(color.FgCyan).SprintFunc()
	colorLevelInfo  = color.New(color.FgGreen).SprintFunc()
	colorLevelWarn  = color.New(color.FgYellow).SprintFunc()
	colorLevelError = color.New(color.FgRed).SprintFunc()
	colorName       = color.New(color.FgCyan).SprintFunc()
	colorCaller     = color.New(color.Faint).SprintFunc()
)

func colorLevel(s string, level logrus.Level) string {
	switch level {
	case logrus.TraceLevel, logrus.DebugLevel:
		return colorLevelDebug(s)
	case logrus.InfoLevel:
		return colorLevelInfo(s)
	case logrus.WarnLevel:
		return colorLevelWarn(s)
	default:
		return colorLevelError(s)
	}
}

// textFormatter renders entries as
//
//	2026-01-02 15:04:05.000   DEBUG 1234 ---   DATABASE base.go:42 : message k=v
type textFormatter struct {
	loggerName string
	nameWidth  int
}

func (f *textFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	ts := entry.Time.Format("2006-01-02 15:04:05.000")
	lvl := colorLevel(fmt.Sprintf("%7s", strings.ToUpper(entry.Level.String())), entry.Level)
	name := colorName(fmt.Sprintf("%*s", f.nameWidth, limitRunes(f.loggerName, f.nameWidth)))

	caller := ""
	if entry.Caller != nil {
		caller = colorCaller(fmt.Sprintf(" %s:%d", filepath.Base(entry.Caller.File), entry.Caller.Line))
	}

	fields := ""
	if len(entry.Data) > 0 {
		keys := make([]string, 0, len(entry.Data))
		for k := range entry.Data {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var b strings.Builder
		for _, k := range keys {
			fmt.Fprintf(&b, " %s=%v", k, entry.Data[k])
		}
		fields = b.String()
	}

	line := fmt.Sprintf("%s %s %d --- %s%s : %s%s\n",
		ts, lvl, os.Getpid(), name, caller, entry.Message, fields)
	return []byte(line), nil
}

func limitRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[len(r)-n:])
}

// EnvDefaultString returns the value of an environment variable or a default.
func EnvDefaultString(key string, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

// EnvDefaultBool returns a boolean environment variable or a default.
func EnvDefaultBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return def
	}
}
