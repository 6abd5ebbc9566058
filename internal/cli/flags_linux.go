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

//go:build linux

package cli

import (
	"github.com/spf13/cobra"

	"github.com/arver/wgtund/internal/config"
)

func addPlatformFlags(cmd *cobra.Command, s *config.Settings) {
	cmd.Flags().BoolVar(&s.DisableMultiQueue, config.FlagDisableMultiQueue, s.DisableMultiQueue, "do not use a multi-queue TUN device")
}
