package main

import (
	"os"

	"github.com/olehluchkiv/spigen/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
