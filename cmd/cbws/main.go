// Package main is the entry point for cbws, the CloudBrain websocket bridge.
//
// Every failure (bad flags, missing configuration, a port that is taken, an
// unreachable broker, even a panic) is logged once here together with its
// cause chain. The process then exits normally.
package main

import (
	"fmt"

	"github.com/cloudbrain/cbws/cmd/cbws/commands"
	"github.com/cloudbrain/cbws/internal/logging"
)

func main() {
	commands.SetupCommands()

	if err := run(commands.RootCmd.Execute); err != nil {
		logging.Exception(err, "Websocket server failed")
	}
}

// run calls execute and converts a panic into an error.
func run(execute func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = fmt.Errorf("panic: %w", e)
				return
			}
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return execute()
}
