package main

import (
	"os"

	"github.com/x7ian/jstopia/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
