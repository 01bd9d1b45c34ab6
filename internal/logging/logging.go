package logging

import (
	"log"
	"os"
)

func init() {
	// Set the global logger to use standard output and drop the default
	// timestamp prefix, since most callers embed their own component prefix.
	log.SetOutput(os.Stdout)
	log.SetFlags(0)
}
