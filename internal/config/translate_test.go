// Copyright 2026 The wgtund Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslate_AllSentinels(t *testing.T) {
	s := Defaults()
	cfg := Translate(s)

	assert.Nil(t, cfg.TunFD)
	assert.Nil(t, cfg.UDP4FD)
	assert.Nil(t, cfg.UDP6FD)
	assert.Equal(t, 4, cfg.NumThreads)
	assert.True(t, cfg.UseConnectedSocket)
}

func TestTranslate_DescriptorsIndependent(t *testing.T) {
	// Each descriptor converts on its own; one being present never
	// affects the others.
	s := Defaults()
	s.TunFD = 7

	cfg := Translate(s)

	require.NotNil(t, cfg.TunFD)
	assert.Equal(t, 7, *cfg.TunFD)
	assert.Nil(t, cfg.UDP4FD)
	assert.Nil(t, cfg.UDP6FD)
}

func TestTranslate_SharedUDPDescriptor(t *testing.T) {
	// A single inherited UDP socket serves both address families. The
	// values match but the pointers are distinct, so neither slot can
	// mutate the other.
	s := Defaults()
	s.UDPFD = 9

	cfg := Translate(s)

	require.NotNil(t, cfg.UDP4FD)
	require.NotNil(t, cfg.UDP6FD)
	assert.Equal(t, 9, *cfg.UDP4FD)
	assert.Equal(t, 9, *cfg.UDP6FD)
	assert.NotSame(t, cfg.UDP4FD, cfg.UDP6FD)
}

func TestTranslate_ZeroIsAValidDescriptor(t *testing.T) {
	s := Defaults()
	s.TunFD = 0

	cfg := Translate(s)

	require.NotNil(t, cfg.TunFD)
	assert.Equal(t, 0, *cfg.TunFD)
}

func TestTranslate_ConnectedSocketNegation(t *testing.T) {
	s := Defaults()
	assert.True(t, Translate(s).UseConnectedSocket)

	s.DisableConnectedUDP = true
	assert.False(t, Translate(s).UseConnectedSocket)
}

func TestTranslate_ThreadsCopiedVerbatim(t *testing.T) {
	s := Defaults()
	s.Threads = 12

	assert.Equal(t, 12, Translate(s).NumThreads)
}
