package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/plainchat/plainchat/pkg/client"
)

const loremIpsum = "Lorem ipsum dolor sit amet consectetur adipiscing elit sed do eiusmod tempor incididunt ut labore et dolore magna aliqua"

var loremWords = strings.Fields(loremIpsum)

func randomMessage(rng *rand.Rand) string {
	count := 3 + rng.Intn(10)
	words := make([]string, count)
	for i := range words {
		words[i] = loremWords[rng.Intn(len(loremWords))]
	}
	return strings.Join(words, " ")
}

func main() {
	addr := flag.String("addr", "127.0.0.1:14934", "Server address")
	clients := flag.Int("clients", 10, "Number of concurrent clients")
	duration := flag.Duration("duration", 30*time.Second, "Test duration")
	interval := flag.Duration("interval", 500*time.Millisecond, "Delay between messages per client")
	flag.Parse()

	var sent, received atomic.Int64
	deadline := time.Now().Add(*duration)

	var wg sync.WaitGroup
	for i := 0; i < *clients; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()

			rng := rand.New(rand.NewSource(time.Now().UnixNano() + int64(n)))
			username := fmt.Sprintf("load%04d", n)

			c, err := client.Connect(*addr, io.Discard)
			if err != nil {
				log.Printf("client %d: connect failed: %v", n, err)
				return
			}
			defer c.Close()

			// Count every delivery that reaches this client
			go func() {
				for {
					if _, err := c.Receive(); err != nil {
						return
					}
					received.Add(1)
				}
			}()

			// Account may exist from a previous run; login regardless
			c.Send(fmt.Sprintf("newuser %s pass%02d", username, n%100))
			c.Send(fmt.Sprintf("login %s pass%02d", username, n%100))

			for time.Now().Before(deadline) {
				if err := c.Send("send all " + randomMessage(rng)); err != nil {
					log.Printf("client %d: send failed: %v", n, err)
					return
				}
				sent.Add(1)
				time.Sleep(*interval)
			}
		}(i)
	}

	wg.Wait()

	secs := (*duration).Seconds()
	log.Printf("clients=%d duration=%s", *clients, *duration)
	log.Printf("sent %d messages (%.1f/s)", sent.Load(), float64(sent.Load())/secs)
	log.Printf("received %d deliveries (%.1f/s)", received.Load(), float64(received.Load())/secs)
}
