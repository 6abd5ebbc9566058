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

package device

// Config is the validated device configuration, built once at startup and
// immutable afterwards. Descriptor fields are explicit optionals: nil means
// the device opens its own resource. Platform-conditional fields live in an
// embedded per-platform struct and simply do not exist where the kernel
// interface they describe does not exist.
type Config struct {
	// NumThreads is the requested worker thread count. Engines that size
	// their own pools treat it as a hint.
	NumThreads int

	// UseConnectedSocket enables a connected UDP socket per peer.
	UseConnectedSocket bool

	// TunFD is an already-open TUN device descriptor, if supplied.
	TunFD *int

	// UDP4FD and UDP6FD are already-open UDP socket descriptors for the
	// two address families, if supplied.
	UDP4FD *int
	UDP6FD *int

	platform
}
