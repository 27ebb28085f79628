package main

import (
	"log"
	"os"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
