package common_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"ai-world-tracker/internal/common"
)

// ExampleDo_basic demonstrates basic usage of the retry mechanism.
func ExampleDo_basic() {
	ctx := context.Background()

	err := common.Do(ctx, func() error {
		// Your API call here
		return nil
	})

	if err != nil {
		fmt.Println("Failed:", err)
	}
	// Output:
}

// ExampleDo_withOptions demonstrates retry with custom configuration.
func ExampleDo_withOptions() {
	ctx := context.Background()

	err := common.Do(ctx,
		func() error {
			// Your API call here
			return nil
		},
		common.WithMaxRetries(5),
		common.WithInitialDelay(time.Second),
		common.WithMaxDelay(30*time.Second),
	)

	if err != nil {
		fmt.Println("Failed:", err)
	}
	// Output:
}

// ExampleDo_ollamaHealth shows how to use retry when probing a local
// Ollama server that may still be starting up.
func ExampleDo_ollamaHealth() {
	ctx := context.Background()

	err := common.Do(ctx,
		func() error {
			resp, err := http.Get("http://localhost:11434/api/tags")
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode >= 500 {
				return errors.New("server error")
			}

			if resp.StatusCode == 429 {
				return errors.New("rate limited")
			}

			return nil
		},
		common.WithMaxRetries(2),
		common.WithInitialDelay(500*time.Millisecond),
	)

	if err != nil {
		fmt.Println("Ollama health check failed:", err)
		return
	}

	fmt.Println("Ollama is up")
}

// ExampleDo_webhook shows how to use retry with webhook delivery.
func ExampleDo_webhook() {
	ctx := context.Background()

	webhookURL := "https://open.feishu.cn/open-apis/bot/v2/hook/xxx"
	message := "Critical AI news detected!"

	err := common.Do(ctx,
		func() error {
			resp, err := http.Post(webhookURL, "application/json", nil)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode != 200 {
				return fmt.Errorf("webhook failed with status: %d", resp.StatusCode)
			}

			return nil
		},
		common.WithMaxRetries(3),
		common.WithInitialDelay(500*time.Millisecond),
		common.WithMaxDelay(5*time.Second),
	)

	if err != nil {
		fmt.Println("Notification failed:", err)
		return
	}

	fmt.Println("Notification sent:", message)
}

// ExampleDo_contextTimeout demonstrates using retry with context timeout.
func ExampleDo_contextTimeout() {
	// Create a context with 10 second timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := common.Do(ctx,
		func() error {
			// Long-running operation
			return errors.New("temporary failure")
		},
		common.WithMaxRetries(10),
		common.WithInitialDelay(time.Second),
	)

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			fmt.Println("Operation timed out")
		} else {
			fmt.Println("Operation failed:", err)
		}
	}
}
