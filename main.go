package main

import (
	"os"

	"github.com/puffgino/bookgen/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
