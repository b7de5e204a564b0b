/*
 * Copyright 2025 tomoncle.
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
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

func TestMetricsHookCountsByStatus(t *testing.T) {
	h, err := NewMetricsHook(prometheus.NewRegistry())
	require.NoError(t, err)

	ctx := context.Background()
	for _, e := range []error{nil, nil, sql.ErrNoRows, errors.New("boom")} {
		h.AfterQuery(ctx, &bun.QueryEvent{Query: "SELECT 1", StartTime: time.Now(), Err: e})
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(h.queries.WithLabelValues("SELECT", queryStatusOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(h.queries.WithLabelValues("SELECT", queryStatusNoRows)))
	assert.Equal(t, 1.0, testutil.ToFloat64(h.queries.WithLabelValues("SELECT", queryStatusError)))
}

func TestMetricsHookReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewMetricsHook(reg)
	require.NoError(t, err)
	second, err := NewMetricsHook(reg)
	require.NoError(t, err)

	assert.Same(t, first.queries, second.queries)
	assert.Same(t, first.duration, second.duration)
}

type recordingLogger struct {
	warnings []string
}

func (l *recordingLogger) SetLevel(LogLevel) {}
func (l *recordingLogger) Debug(string, ...interface{}) {}
func (l *recordingLogger) Info(string, ...interface{}) {}
func (l *recordingLogger) Error(string, ...interface{}) {}
func (l *recordingLogger) Warn(msg string, _ ...interface{}) { l.warnings = append(l.warnings, msg) }

func TestSlowQueryHook(t *testing.T) {
	log := &recordingLogger{}
	h := NewSlowQueryHook(50*time.Millisecond, log)
	ctx := context.Background()

	h.AfterQuery(ctx, &bun.QueryEvent{Query: "SELECT 1", StartTime: time.Now()})
	assert.Empty(t, log.warnings)

	h.AfterQuery(ctx, &bun.QueryEvent{Query: "SELECT 1", StartTime: time.Now().Add(-time.Second)})
	assert.Len(t, log.warnings, 1)
}
