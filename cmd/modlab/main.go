// Command modlab is the terminal client for a ModLab store.
package main

import (
	"os"
)

// Version is set at build time.
var Version = "dev"

func main() {
	os.Exit(run(os.Args[1:]))
}
