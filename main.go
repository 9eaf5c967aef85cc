package main

import (
	"shelter-sync/cmd"

	// Embedded zoneinfo so the scheduler timezone resolves in minimal images.
	_ "time/tzdata"
)

func main() {
	cmd.Execute()
}
