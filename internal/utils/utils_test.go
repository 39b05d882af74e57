package utils

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/MrSnakeDoc/bookmarks/internal/logger"
)

func TestIPMatcher(t *testing.T) {
	m := NewIPMatcher([]string{"10.0.0.0/8", " 192.168.1.10 ", "::1", "not-an-ip", ""})

	if m.IsEmpty() || m.Len() != 3 {
		t.Fatalf("expected 3 valid rules, got %d", m.Len())
	}

	tests := []struct {
		ip   string
		want bool
	}{
		{"10.1.2.3", true},
		{"192.168.1.10", true},
		{"192.168.1.11", false},
		{"::1", true},
		{"::ffff:10.0.0.1", true},
		{"garbage", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := m.Allow(tt.ip); got != tt.want {
			t.Errorf("Allow(%q) = %v, want %v", tt.ip, got, tt.want)
		}
	}

	if !NewIPMatcher(nil).IsEmpty() {
		t.Error("nil list should produce an empty matcher")
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		trustProxy bool
		want       string
	}{
		{name: "remote addr", remoteAddr: "1.2.3.4:5678", want: "1.2.3.4"},
		{name: "ipv6 remote addr", remoteAddr: "[::1]:5678", want: "::1"},
		{
			name:       "xff ignored without trust",
			remoteAddr: "1.2.3.4:5678",
			headers:    map[string]string{"X-Forwarded-For": "9.9.9.9"},
			want:       "1.2.3.4",
		},
		{
			name:       "cf header first",
			remoteAddr: "127.0.0.1:1",
			headers:    map[string]string{"CF-Connecting-IP": "8.8.8.8", "X-Forwarded-For": "9.9.9.9"},
			trustProxy: true,
			want:       "8.8.8.8",
		},
		{
			name:       "left-most xff",
			remoteAddr: "127.0.0.1:1",
			headers:    map[string]string{"X-Forwarded-For": " 9.9.9.9 , 10.0.0.1"},
			trustProxy: true,
			want:       "9.9.9.9",
		},
		{
			name:       "x-real-ip fallback",
			remoteAddr: "127.0.0.1:1",
			headers:    map[string]string{"X-Real-IP": "7.7.7.7"},
			trustProxy: true,
			want:       "7.7.7.7",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := ClientIP(r, tt.trustProxy); got != tt.want {
				t.Errorf("ClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCloseAll(t *testing.T) {
	var order []string
	boom := errors.New("boom")

	err := CloseAll(context.Background(), logger.NewNop(),
		Closer{Name: "first", Close: func(context.Context) error { order = append(order, "first"); return nil }},
		Closer{Name: "second", Close: func(context.Context) error { order = append(order, "second"); return boom }},
		Closer{Name: "skipped"},
		Closer{Name: "third", Close: func(context.Context) error { order = append(order, "third"); return nil }},
	)

	if !errors.Is(err, boom) {
		t.Errorf("CloseAll() error = %v, want %v", err, boom)
	}
	want := []string{"third", "second", "first"}
	if len(order) != len(want) {
		t.Fatalf("closed %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("closed %v, want %v", order, want)
			break
		}
	}
}
