// Copyright 2025 walteh LLC
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

package operation

import (
	"github.com/walteh/archivist/pkg/pattern"
	"gitlab.com/tozd/go/errors"
)

// 🚦 Process exit codes
const (
	ExitOK            = 0
	ExitInvalidArgs   = 1  // missing root, invalid arguments or job file
	ExitInvalidFormat = 2  // malformed date format descriptor
	ExitFatal         = 10 // I/O failure while acting on files
)

var (
	// ErrRootNotFound is returned when the source (or, for archive mode, the destination) is missing.
	ErrRootNotFound = errors.New("root directory not found")
	// ErrInvalidJob is returned for job settings that can not be run.
	ErrInvalidJob = errors.New("invalid job")
)

// 🎯 ExitCode maps an error returned by this package to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, pattern.ErrInvalidDescriptor):
		return ExitInvalidFormat
	case errors.Is(err, ErrRootNotFound), errors.Is(err, ErrInvalidJob):
		return ExitInvalidArgs
	default:
		return ExitFatal
	}
}
