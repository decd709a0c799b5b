package main

import (
	"os"

	"github.com/dvasyliev/cv-responder/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
