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

// Package cli implements the wgtund command-line interface.
//
// A single invocation serves three roles, decided at startup:
//
//   - launcher: the default. Spawns a detached daemon and waits for it to
//     report whether the tunnel came up, then exits with the outcome.
//   - daemon: the spawned half of a background start, recognized by the
//     readiness descriptor in its environment.
//   - foreground: requested with -f; the device runs in the invoking
//     process and logs to the console.
package cli
