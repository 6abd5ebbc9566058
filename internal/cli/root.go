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

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/arver/wgtund/internal/config"
	"github.com/arver/wgtund/internal/device"
	"github.com/arver/wgtund/internal/log"
)

// Execute runs the root command.
func Execute() error {
	return NewRootCommand().Execute()
}

// NewRootCommand creates the root wgtund command.
func NewRootCommand() *cobra.Command {
	settings := config.Defaults()
	var configPath string

	cmd := &cobra.Command{
		Use:   "wgtund <interface-name>",
		Short: "Userspace WireGuard tunnel daemon",
		Long: `wgtund creates a userspace WireGuard tunnel device and serves it until
shutdown. By default it detaches into the background and the invoking
process exits once the tunnel is confirmed up; use -f to stay in the
foreground.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := resolveSettings(cmd.Flags(), args, &settings, configPath, os.Getenv); err != nil {
				return err
			}
			return run(settings)
		},
	}

	registerFlags(cmd, &settings)
	cmd.Flags().StringVar(&configPath, "config", "", "path to the settings file (default: $XDG_CONFIG_HOME/wgtund/config.yaml)")

	cmd.AddCommand(NewVersionCommand())

	return cmd
}

// registerFlags binds the startup flags to the settings snapshot. The flag
// names are shared constants so the resolver can ask which ones were set
// explicitly.
func registerFlags(cmd *cobra.Command, s *config.Settings) {
	f := cmd.Flags()

	f.BoolVarP(&s.Foreground, config.FlagForeground, "f", s.Foreground, "run in the foreground")
	f.IntVarP(&s.Threads, config.FlagThreads, "t", s.Threads, "number of OS threads for the tunnel engine")
	f.StringVarP(&s.Verbosity, config.FlagVerbosity, "v", s.Verbosity, "log verbosity (error, info, debug, trace)")
	f.IntVar(&s.UAPIFD, config.FlagUAPIFD, s.UAPIFD, "inherited descriptor for the control interface")
	f.IntVar(&s.TunFD, config.FlagTunFD, s.TunFD, "inherited descriptor for an already-open TUN device")
	f.IntVar(&s.UDPFD, config.FlagUDPFD, s.UDPFD, "inherited descriptor for an already-open UDP socket")
	f.StringVarP(&s.LogFile, config.FlagLogFile, "l", s.LogFile, "log file used in background mode")
	f.BoolVar(&s.DisableDropPrivileges, config.FlagDisableDropPrivileges, s.DisableDropPrivileges, "keep root privileges after device creation")
	f.BoolVar(&s.DisableConnectedUDP, config.FlagDisableConnectedUDP, s.DisableConnectedUDP, "do not use connected UDP sockets to peers")

	addPlatformFlags(cmd, s)
}

// resolveSettings assembles the final settings snapshot: positional
// interface name, then precedence resolution across flags, environment,
// and the settings file, then validation. getenv is a parameter so tests
// control the environment.
func resolveSettings(flags *pflag.FlagSet, args []string, s *config.Settings, configPath string, getenv func(string) string) error {
	s.InterfaceName = args[0]
	if err := device.CheckName(s.InterfaceName); err != nil {
		return err
	}

	file, err := loadSettingsFile(configPath)
	if err != nil {
		return err
	}

	if err := config.Resolve(s, file, flags.Changed, getenv); err != nil {
		return err
	}

	if !log.ValidLevel(s.Verbosity) {
		return fmt.Errorf("invalid verbosity %q (want error, info, debug, or trace)", s.Verbosity)
	}
	if s.Threads < 1 {
		return fmt.Errorf("invalid thread count %d", s.Threads)
	}
	return nil
}

// loadSettingsFile loads the settings file. An explicit --config that does
// not exist is an error; the default location is allowed to be absent.
func loadSettingsFile(configPath string) (*config.File, error) {
	if configPath != "" {
		file, err := config.LoadFile(configPath)
		if err != nil {
			return nil, err
		}
		if file == nil {
			return nil, fmt.Errorf("settings file %s does not exist", configPath)
		}
		return file, nil
	}

	defaultPath, err := config.DefaultFilePath()
	if err != nil {
		// No home directory; run on flags and environment alone.
		return nil, nil
	}
	return config.LoadFile(defaultPath)
}
