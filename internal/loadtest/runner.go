// Package loadtest generates signed method requests and drives them
// against a running scoring service.
package loadtest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/okian/clientscore/internal/auth"
	"github.com/okian/clientscore/internal/domain/request"
	"github.com/okian/clientscore/pkg/logger"
)

const percentageMultiplier = 100

// Run executes the complete load run: health check, request generation,
// concurrent submission, and a final statistics report.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{StartTime: time.Now()}

	logger.Get().Info(ctx, "starting scoring load run",
		logger.String("baseURL", config.BaseURL),
		logger.Int("requests", config.NumRequests),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.String("login", config.Login),
		logger.Any("verbose", config.Verbose))

	client := &http.Client{Timeout: config.Timeout}

	if err := checkServiceHealth(ctx, client, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	requests := generateRequests(config, stats)

	if err := submitRequests(ctx, client, config, requests, stats); err != nil {
		return fmt.Errorf("request submission failed: %w", err)
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	logger.Get().Info(ctx, "load run completed")
	return nil
}

// checkServiceHealth verifies the service is running before the run.
func checkServiceHealth(ctx context.Context, client *http.Client, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, config.BaseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("failed to build health request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close response body", logger.Error(err))
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// generateRequests builds the signed request mix: two thirds score
// lookups with randomized argument subsets, one third interest lookups.
func generateRequests(config *Config, stats *Stats) []methodRequest {
	authn := auth.New(config.Salt, "")
	token := authn.UserDigest(config.Account, config.Login)

	rng := rand.New(rand.NewSource(time.Now().UnixNano())) //nolint:gosec // load mix, not crypto

	requests := make([]methodRequest, 0, config.NumRequests)
	for i := 0; i < config.NumRequests; i++ {
		req := methodRequest{
			Account: config.Account,
			Login:   config.Login,
			Token:   token,
		}
		if i%3 == 2 {
			req.Method = request.MethodClientsInterests
			ids := make([]any, 1+rng.Intn(4))
			for j := range ids {
				ids[j] = rng.Intn(100)
			}
			req.Arguments = map[string]any{"client_ids": ids}
		} else {
			req.Method = request.MethodOnlineScore
			args := map[string]any{
				"phone": "7" + strconv.Itoa(9000000000+rng.Intn(999999999)),
				"email": uuid.NewString() + "@example.com",
			}
			if rng.Intn(2) == 0 {
				args["first_name"] = "load"
				args["last_name"] = "tester"
			}
			if rng.Intn(2) == 0 {
				args["gender"] = rng.Intn(3)
				args["birthday"] = "01.01.1990"
			}
			req.Arguments = args
		}
		requests = append(requests, req)
	}

	stats.RequestsGenerated = len(requests)
	return requests
}

// submitRequests drives the request set through a bounded worker pool.
func submitRequests(ctx context.Context, client *http.Client, config *Config, requests []methodRequest, stats *Stats) error {
	var okCount, rejectedCount, failedCount, submittedCount int64

	jobs := make(chan methodRequest)
	var wg sync.WaitGroup

	for w := 0; w < config.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for req := range jobs {
				atomic.AddInt64(&submittedCount, 1)
				code, err := postMethod(ctx, client, config.BaseURL, req)
				switch {
				case err != nil:
					atomic.AddInt64(&failedCount, 1)
					if config.Verbose {
						logger.Get().Warn(ctx, "request failed", logger.Error(err))
					}
				case code == http.StatusOK:
					atomic.AddInt64(&okCount, 1)
				default:
					atomic.AddInt64(&rejectedCount, 1)
					if config.Verbose {
						logger.Get().Warn(ctx, "request rejected",
							logger.String("method", req.Method),
							logger.Int("code", code))
					}
				}
			}
		}()
	}

	for _, req := range requests {
		select {
		case jobs <- req:
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return ctx.Err()
		}
	}
	close(jobs)
	wg.Wait()

	stats.RequestsSubmitted = int(submittedCount)
	stats.RequestsOK = int(okCount)
	stats.RequestsRejected = int(rejectedCount)
	stats.RequestsFailed = int(failedCount)
	return nil
}

// postMethod posts one signed request and returns the envelope code.
func postMethod(ctx context.Context, client *http.Client, baseURL string, mReq methodRequest) (int, error) {
	body, err := json.Marshal(mReq)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/method", bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to post request: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close response body", logger.Error(err))
		}
	}()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return resp.StatusCode, fmt.Errorf("failed to decode envelope: %w", err)
	}
	return env.Code, nil
}

// displayFinalStats prints the final run statistics.
func displayFinalStats(stats *Stats) {
	var successRate, requestsPerSecond float64

	if stats.RequestsSubmitted > 0 {
		successRate = float64(stats.RequestsOK) / float64(stats.RequestsSubmitted) * percentageMultiplier
	}

	if stats.Duration > 0 {
		requestsPerSecond = float64(stats.RequestsSubmitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("requestsGenerated", stats.RequestsGenerated),
		logger.Int("requestsSubmitted", stats.RequestsSubmitted),
		logger.Int("requestsOK", stats.RequestsOK),
		logger.Int("requestsRejected", stats.RequestsRejected),
		logger.Int("requestsFailed", stats.RequestsFailed),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("successRate", successRate),
		logger.Float64("requestsPerSecond", requestsPerSecond))
}
