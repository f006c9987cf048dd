// Package utils contains utility functions for the cbws command.
package utils

import (
	"fmt"
	"io"
)

// DisplayLogo prints the cbws logo with version information
func DisplayLogo(w io.Writer, version string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, ` ░░░░░░░░░░░░░░░░░░
 ░█▀▀░█▀▄░█░█░█▀▀░
 ░█░░░█▀▄░█▄█░▀▀█░
 ░▀▀▀░▀▀░░▀░▀░▀▀▀░
 ░░░░░░░░░░░░░░░░░░`)
	fmt.Fprintf(w, "\n cbws v%s - CloudBrain websocket bridge\n", version)
	fmt.Fprintln(w, " RabbitMQ exchanges streamed to websocket clients")
	fmt.Fprintln(w)
}
