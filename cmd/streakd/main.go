package main

import (
	"os"

	// Embedded zone database so engine.timezone resolves on hosts without one.
	_ "time/tzdata"
)

func main() {
	os.Exit(Execute())
}
