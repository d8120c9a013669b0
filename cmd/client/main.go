package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/plainchat/plainchat/pkg/client"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:14934", "Server address")
	flag.Parse()

	c, err := client.Connect(*addr, os.Stdout)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}

	fmt.Println()
	fmt.Println("My chat room client. Version Two.")
	fmt.Println()

	// Print server messages as they arrive
	go c.Listen()

	if err := c.Run(os.Stdin); err != nil {
		log.Fatalf("Client error: %v", err)
	}
}
