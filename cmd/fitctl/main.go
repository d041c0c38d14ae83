// Command fitctl runs the fittrack analytics offline, against a snapshot file
// instead of the service database.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
