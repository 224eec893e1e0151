package main

import (
	"os"

	"github.com/wanjiru/soma/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
