package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

func main() {
	baseURL := flag.String("url", "http://localhost:5000", "Storefront base URL")
	paths := flag.String("paths", "/,/catalog,/categories,/blog,/about,/catalog?page=2", "Comma separated paths to browse")
	concurrency := flag.Int("c", 10, "Number of concurrent workers")
	duration := flag.Duration("d", 30*time.Second, "Duration of the load test")
	rps := flag.Int("rps", 200, "Requests per second limit")
	slow := flag.Duration("slow", time.Second, "Latency above which a response counts as slow")
	flag.Parse()

	targets := strings.Split(*paths, ",")
	log.Printf("Starting load test on %s (%d paths)", *baseURL, len(targets))
	log.Printf("Concurrency: %d, Duration: %s, RPS: %d", *concurrency, *duration, *rps)

	var wg sync.WaitGroup
	var okCount, clientErrCount, serverErrCount, failedCount, slowCount atomic.Int64
	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	limiter := rate.NewLimiter(rate.Limit(*rps), *rps/10+1)

	for i := 0; i < *concurrency; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			client := &http.Client{Timeout: 5 * time.Second}

			for n := workerID; ; n++ {
				if err := limiter.Wait(ctx); err != nil {
					return
				}

				req, err := http.NewRequestWithContext(ctx, http.MethodGet, *baseURL+targets[n%len(targets)], nil)
				if err != nil {
					failedCount.Add(1)
					continue
				}
				req.Header.Set("X-Request-ID", uuid.NewString())

				start := time.Now()
				resp, err := client.Do(req)
				if err != nil {
					if errors.Is(err, context.DeadlineExceeded) && ctx.Err() != nil {
						return
					}
					failedCount.Add(1)
					continue
				}
				io.Copy(io.Discard, resp.Body)
				resp.Body.Close()
				if time.Since(start) > *slow {
					slowCount.Add(1)
				}

				switch {
				case resp.StatusCode >= 500:
					serverErrCount.Add(1)
				case resp.StatusCode >= 400:
					clientErrCount.Add(1)
				default:
					okCount.Add(1)
				}
			}
		}(i)
	}

	wg.Wait()

	totalRequests := okCount.Load() + clientErrCount.Load() + serverErrCount.Load() + failedCount.Load()
	actualRPS := float64(totalRequests) / duration.Seconds()

	log.Println("Load test finished.")
	log.Printf("Total Requests: %d", totalRequests)
	log.Printf("Successful (2xx/3xx): %d", okCount.Load())
	log.Printf("Client errors (4xx): %d", clientErrCount.Load())
	log.Printf("Server errors (5xx): %d", serverErrCount.Load())
	log.Printf("Transport failures: %d", failedCount.Load())
	log.Printf("Slow responses (> %s): %d", *slow, slowCount.Load())
	log.Printf("Actual RPS: %.2f", actualRPS)
}
