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

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/walteh/archivist/cmd/archivist/opts"
	"github.com/walteh/archivist/pkg/operation"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], &opts.RootOpts{
		Fs:     afero.NewOsFs(),
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	})
	stop()
	os.Exit(code)
}

// run executes the CLI and maps the outcome to an exit code
func run(ctx context.Context, args []string, o *opts.RootOpts) int {
	cmd := newRootCmd(o)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	if o.Closer != nil {
		_ = o.Closer.Close()
	}
	if err != nil {
		printError(o.Stderr, err)
	}
	return operation.ExitCode(err)
}

func printError(w io.Writer, err error) {
	if w == nil {
		w = os.Stderr
	}
	fmt.Fprintf(w, "%s %v\n", color.New(color.FgRed, color.Bold).Sprint("❌ archivist:"), err)
}
