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

/*
Package lifecycle manages daemon process startup and the launcher
handshake.

In background mode the launching process does not simply disown the
daemon: it blocks until the daemon has either finished initializing or
died, and exits with a code reflecting that outcome. The coordination
primitive is a connected datagram socket pair created before the daemon
is spawned:

	parent, child, err := lifecycle.NewReadinessChannel()
	pid, err := spawner.SpawnDaemon(binary, args, logFile, child.File(), id)
	err = parent.Wait() // nil only if the daemon sent the success byte

The spawned daemon recovers its end from an inherited descriptor and
reports exactly once:

	ready, err := lifecycle.ChildEndpointFromEnv()
	ready.Signal(true)

Exactly one byte ever crosses the channel. A failure byte, an empty
read, or the daemon exiting without reporting (which closes its end)
all count as a failed launch; the launcher cannot hang because every
daemon outcome either writes or closes.

The Supervisor ties the pieces together: privilege drop, device
construction, and the handshake, in that order, in both foreground and
background mode.
*/
package lifecycle
