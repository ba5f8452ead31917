package main

import (
	"log"

	"golang-p2p-risk/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatalf("p2p-risk: %v", err)
	}
}
