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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noFlags(string) bool { return false }

func noEnv(string) string { return "" }

func TestDefaults(t *testing.T) {
	s := Defaults()

	assert.Equal(t, 4, s.Threads)
	assert.Equal(t, "error", s.Verbosity)
	assert.Equal(t, UnsetFD, s.UAPIFD)
	assert.Equal(t, UnsetFD, s.TunFD)
	assert.Equal(t, UnsetFD, s.UDPFD)
	assert.Equal(t, "/tmp/wgtund.out", s.LogFile)
	assert.False(t, s.Foreground)
	assert.False(t, s.DisableDropPrivileges)
	assert.False(t, s.DisableConnectedUDP)
	assert.False(t, s.DisableMultiQueue)
}

func TestLoadFile_Missing(t *testing.T) {
	file, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Nil(t, file)
}

func TestLoadFile_Valid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `threads: 8
verbosity: debug
log_file: /var/log/wgtund.out
disable_drop_privileges: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	file, err := LoadFile(path)
	require.NoError(t, err)
	require.NotNil(t, file)

	require.NotNil(t, file.Threads)
	assert.Equal(t, 8, *file.Threads)
	require.NotNil(t, file.Verbosity)
	assert.Equal(t, "debug", *file.Verbosity)
	require.NotNil(t, file.LogFile)
	assert.Equal(t, "/var/log/wgtund.out", *file.LogFile)
	require.NotNil(t, file.DisableDropPrivileges)
	assert.True(t, *file.DisableDropPrivileges)
	// Absent keys stay nil so they cannot override anything.
	assert.Nil(t, file.DisableConnectedUDP)
	assert.Nil(t, file.DisableMultiQueue)
}

func TestLoadFile_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("threads: [not a number"), 0644))

	_, err := LoadFile(path)
	assert.ErrorContains(t, err, "failed to parse settings file")
}

func TestResolve_EnvironmentOverridesDefaults(t *testing.T) {
	s := Defaults()
	getenv := func(key string) string {
		switch key {
		case EnvThreads:
			return "2"
		case EnvVerbosity:
			return "trace"
		case EnvTunFD:
			return "5"
		}
		return ""
	}

	require.NoError(t, Resolve(&s, nil, noFlags, getenv))

	assert.Equal(t, 2, s.Threads)
	assert.Equal(t, "trace", s.Verbosity)
	assert.Equal(t, 5, s.TunFD)
	assert.Equal(t, UnsetFD, s.UDPFD)
}

func TestResolve_ExplicitFlagIgnoresEnvironment(t *testing.T) {
	s := Defaults()
	s.Threads = 6 // as if --threads 6 was given
	flagSet := func(name string) bool { return name == FlagThreads }
	getenv := func(key string) string {
		if key == EnvThreads {
			return "99"
		}
		return ""
	}

	require.NoError(t, Resolve(&s, nil, flagSet, getenv))
	assert.Equal(t, 6, s.Threads)
}

func TestResolve_FileFillsRemainingGaps(t *testing.T) {
	s := Defaults()
	threads, verbosity := 3, "info"
	file := &File{Threads: &threads, Verbosity: &verbosity}
	getenv := func(key string) string {
		if key == EnvVerbosity {
			return "debug"
		}
		return ""
	}

	require.NoError(t, Resolve(&s, file, noFlags, getenv))

	assert.Equal(t, 3, s.Threads)
	// The environment named the verbosity, so the file loses.
	assert.Equal(t, "debug", s.Verbosity)
}

func TestResolve_InvalidIntegerEnvironment(t *testing.T) {
	s := Defaults()
	getenv := func(key string) string {
		if key == EnvUDPFD {
			return "three"
		}
		return ""
	}

	err := Resolve(&s, nil, noFlags, getenv)
	assert.ErrorContains(t, err, EnvUDPFD)
}

func TestEnvBool(t *testing.T) {
	assert.True(t, envBool("true"))
	assert.True(t, envBool("1"))
	assert.False(t, envBool("false"))
	assert.False(t, envBool("0"))
	assert.True(t, envBool("anything else"))
}

func TestDefaultFilePath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")

	path, err := DefaultFilePath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/xdg/wgtund/config.yaml", path)
}
