package utils

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

type RetryHandler struct {
	timeout    time.Duration
	interval   time.Duration
	maxRetries int
}

func NewRetryHandler(timeout, interval time.Duration, maxRetries int) RetryHandler {
	return RetryHandler{
		timeout:    timeout,
		interval:   interval,
		maxRetries: maxRetries,
	}
}

// Do runs fn until it succeeds, the retry budget is spent or the timeout elapses.
func (r RetryHandler) Do(fn func() error) error {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	var err error
	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		if err = fn(); err == nil {
			return nil
		}

		log.Debug().Err(err).Msgf("retry %d of %d failed", attempt+1, r.maxRetries)

		select {
		case <-ctx.Done():
			return err
		case <-time.After(r.interval):
		}
	}

	return err
}
