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

package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSamplerNames(t *testing.T) {
	assert.Equal(t, "AlwaysOnSampler", Sampler("always_on", 1).Description())
	assert.Equal(t, "AlwaysOffSampler", Sampler("always_off", 1).Description())
	assert.Contains(t, Sampler("traceidratio", 0.5).Description(), "TraceIDRatioBased{0.5}")
	assert.Contains(t, Sampler("bogus", 1).Description(), "ParentBased{root:AlwaysOnSampler")
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("OTEL_SDK_DISABLED", "true")
	t.Setenv("OTEL_SERVICE_NAME", "svc")
	t.Setenv("OTEL_TRACES_SAMPLER_ARG", "0.25")

	cfg, err := ConfigFromEnv()
	require.NoError(t, err)
	assert.True(t, cfg.Disabled)
	assert.Equal(t, "svc", cfg.ServiceName)
	assert.Equal(t, "parentbased_always_on", cfg.Sampler)
	assert.Equal(t, 0.25, cfg.SamplerArg)

	t.Setenv("OTEL_TRACES_SAMPLER_ARG", "lots")
	_, err = ConfigFromEnv()
	assert.Error(t, err)
}

func TestInitDisabled(t *testing.T) {
	shutdown, err := Init(context.Background(), Config{Disabled: true})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}
