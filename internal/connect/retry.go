// Package connect establishes backend connections with bounded exponential backoff.
package connect

import (
	"context"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/bookmarks/internal/logger"
)

// Policy defines connection retry behavior.
type Policy struct {
	ConnectTimeout time.Duration // Total time allowed for connection attempts (ex: 30s)
	RetryInterval  time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	MaxWait        time.Duration // max wait between retries (ex: 10s)
	PingTimeout    time.Duration // timeout for each ping attempt (ex: 5s)
	WarnThreshold  int           // warn after this many attempts
}

// PingFunc checks a backend once.
type PingFunc func(ctx context.Context) error

// Validate ensures all policy values are usable.
func (p Policy) Validate() error {
	if p.ConnectTimeout <= 0 {
		return fmt.Errorf("ConnectTimeout must be > 0, got %v", p.ConnectTimeout)
	}
	if p.RetryInterval <= 0 {
		return fmt.Errorf("RetryInterval must be > 0, got %v", p.RetryInterval)
	}
	if p.MaxWait <= 0 {
		return fmt.Errorf("MaxWait must be > 0, got %v", p.MaxWait)
	}
	if p.PingTimeout <= 0 {
		return fmt.Errorf("PingTimeout must be > 0, got %v", p.PingTimeout)
	}
	if p.WarnThreshold < 0 {
		return fmt.Errorf("WarnThreshold must be >= 0, got %d", p.WarnThreshold)
	}
	return nil
}

// connectionLogger handles all connection logging for one backend.
type connectionLogger struct {
	logger  logger.Logger
	backend string
	addr    string
}

func (cl *connectionLogger) logConnectionStart(timeout time.Duration) {
	cl.logger.Info("connecting to "+cl.backend,
		logger.String("addr", cl.addr),
		logger.Duration("timeout", timeout))
}

func (cl *connectionLogger) logSuccess(attempts int, elapsed time.Duration) {
	if attempts > 1 {
		cl.logger.Warn("connected to "+cl.backend+" after retry",
			logger.String("addr", cl.addr),
			logger.Int("attempts", attempts),
			logger.Duration("elapsed", elapsed))
		return
	}
	cl.logger.Info("connected to "+cl.backend,
		logger.String("addr", cl.addr))
}

func (cl *connectionLogger) logTimeout(attempts int, timeout time.Duration, err error) {
	cl.logger.Error(cl.backend+" unavailable - failed to connect after timeout",
		logger.String("addr", cl.addr),
		logger.Int("attempts", attempts),
		logger.Duration("timeout", timeout),
		logger.Error(err))
}

func (cl *connectionLogger) logRetry(attempt int, remaining, nextRetry time.Duration, warnThreshold int, err error) {
	switch {
	case remaining < 10*time.Second:
		cl.logger.Error(cl.backend+" still down - retrying but timeout approaching",
			logger.String("addr", cl.addr),
			logger.Int("attempt", attempt),
			logger.Duration("remaining", remaining),
			logger.Duration("next_retry_in", nextRetry),
			logger.Error(err))
	case attempt <= warnThreshold:
		cl.logger.Warn(cl.backend+" connection failed, retrying",
			logger.String("addr", cl.addr),
			logger.Int("attempt", attempt),
			logger.Duration("next_retry_in", nextRetry),
			logger.Error(err))
	default:
		cl.logger.Error(cl.backend+" still unavailable - connection attempts failing",
			logger.String("addr", cl.addr),
			logger.Int("attempt", attempt),
			logger.Duration("next_retry_in", nextRetry),
			logger.Error(err))
	}
}

// Retry pings until it succeeds or the policy's ConnectTimeout is exhausted.
// The wait between attempts doubles up to MaxWait. backend and addr are only
// used for logging; addr must not contain credentials.
func Retry(ctx context.Context, backend, addr string, p Policy, ping PingFunc, log logger.Logger) error {
	if err := p.Validate(); err != nil {
		log.Error("invalid connection policy", logger.Backend(backend), logger.Error(err))
		return err
	}

	cl := &connectionLogger{logger: log, backend: backend, addr: addr}

	ctx, cancel := context.WithTimeout(ctx, p.ConnectTimeout)
	defer cancel()

	cl.logConnectionStart(p.ConnectTimeout)
	attempt := 0
	wait := p.RetryInterval

	for {
		attempt++

		pingCtx, pingCancel := context.WithTimeout(ctx, p.PingTimeout)
		err := ping(pingCtx)
		pingCancel()

		if err == nil {
			cl.logSuccess(attempt, p.ConnectTimeout-timeLeft(ctx))
			return nil
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			cl.logTimeout(attempt, p.ConnectTimeout, err)
			return fmt.Errorf("%s unavailable at %s after %d attempts (timeout: %v): %w",
				backend, addr, attempt, p.ConnectTimeout, err)

		case <-timer.C:
			cl.logRetry(attempt, timeLeft(ctx), wait, p.WarnThreshold, err)
			wait *= 2
			if wait > p.MaxWait {
				wait = p.MaxWait
			}
		}
	}
}

// timeLeft returns the remaining time before context deadline.
func timeLeft(ctx context.Context) time.Duration {
	deadline, ok := ctx.Deadline()
	if !ok {
		return 0
	}
	return time.Until(deadline)
}
