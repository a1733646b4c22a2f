package main

import (
	"log"

	"github.com/jobdeck/jobdeck-assistant/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
