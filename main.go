package main

import (
	"os"

	"github.com/jcastellanos/legajo/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
