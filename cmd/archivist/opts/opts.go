package opts

import (
	"io"
	"time"

	"github.com/spf13/afero"
	"github.com/walteh/archivist/pkg/log"
	"github.com/walteh/archivist/pkg/operation"
)

// RootOpts contains shared options used by all commands
type RootOpts struct {
	Debug   bool
	LogFile string

	Fs     afero.Fs
	Now    func() time.Time // nil means time.Now
	Stdout io.Writer        // human progress and summary
	Stderr io.Writer        // structured logs

	// set once flags are parsed
	Console *log.Logger
	Closer  io.Closer
}

// Runner builds an operation runner that reports to the console
func (o *RootOpts) Runner() *operation.Runner {
	var reporter operation.Reporter
	if o.Console != nil {
		reporter = o.Console
	}
	return operation.NewRunner(operation.Options{
		Fs:       o.Fs,
		Reporter: reporter,
		Now:      o.Now,
	})
}
