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
	"strings"

	"gitlab.com/tozd/go/errors"
)

// 🎛️ Mode is the action applied to eligible files
type Mode int

const (
	ModeArchive Mode = iota + 1 // move into DestinationRoot/<unit>/<yyyy-MM-dd>
	ModeDelete                  // remove permanently
)

func (m Mode) String() string {
	switch m {
	case ModeArchive:
		return "archive"
	case ModeDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// ParseMode accepts "archive" or "delete" ("purge" is an alias), case-insensitively.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "archive", "":
		return ModeArchive, nil
	case "delete", "purge":
		return ModeDelete, nil
	default:
		return 0, errors.Errorf("%w: unknown mode %q", ErrInvalidJob, s)
	}
}

// 📊 Stats counts files for a unit or a whole run
type Stats struct {
	Seen      int // candidates found by the scanner
	Eligible  int // inside the retention window
	Attempted int // action started
	Succeeded int // action completed (or simulated in demo mode)
}

// Add accumulates o into s.
func (s *Stats) Add(o Stats) {
	s.Seen += o.Seen
	s.Eligible += o.Eligible
	s.Attempted += o.Attempted
	s.Succeeded += o.Succeeded
}

// Failed is the number of attempted files that did not succeed.
func (s Stats) Failed() int {
	return s.Attempted - s.Succeeded
}
