package connect

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MrSnakeDoc/bookmarks/internal/logger"
)

func testPolicy() Policy {
	return Policy{
		ConnectTimeout: 500 * time.Millisecond,
		RetryInterval:  5 * time.Millisecond,
		MaxWait:        20 * time.Millisecond,
		PingTimeout:    50 * time.Millisecond,
		WarnThreshold:  2,
	}
}

func TestRetry_SucceedsAfterFailures(t *testing.T) {
	log := logger.NewNop()
	calls := 0
	ping := func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("connection refused")
		}
		return nil
	}

	if err := Retry(context.Background(), "test", "localhost:0", testPolicy(), ping, log); err != nil {
		t.Fatalf("Retry() error = %v, want nil", err)
	}
	if calls != 3 {
		t.Errorf("ping called %d times, want 3", calls)
	}
}

func TestRetry_TimesOut(t *testing.T) {
	log := logger.NewNop()
	cause := errors.New("connection refused")
	p := testPolicy()
	p.ConnectTimeout = 60 * time.Millisecond

	err := Retry(context.Background(), "test", "localhost:0", p, func(context.Context) error { return cause }, log)
	if err == nil {
		t.Fatal("Retry() error = nil, want timeout error")
	}
	if !errors.Is(err, cause) {
		t.Errorf("Retry() error = %v, should wrap the last ping error", err)
	}
}

func TestPolicyValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Policy)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Policy) {}, wantErr: false},
		{name: "zero connect timeout", mutate: func(p *Policy) { p.ConnectTimeout = 0 }, wantErr: true},
		{name: "zero retry interval", mutate: func(p *Policy) { p.RetryInterval = 0 }, wantErr: true},
		{name: "zero max wait", mutate: func(p *Policy) { p.MaxWait = 0 }, wantErr: true},
		{name: "zero ping timeout", mutate: func(p *Policy) { p.PingTimeout = 0 }, wantErr: true},
		{name: "negative warn threshold", mutate: func(p *Policy) { p.WarnThreshold = -1 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testPolicy()
			tt.mutate(&p)
			err := p.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
