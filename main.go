package main

import (
	"os"

	"github.com/realjck/scorm-iframe-packager/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
