package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExpiration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		ttl  time.Duration
		want int32
	}{
		{name: "zero", ttl: 0, want: 0},
		{name: "negative", ttl: -time.Second, want: 0},
		{name: "sub-second rounds up", ttl: 500 * time.Millisecond, want: 1},
		{name: "fractional seconds round up", ttl: 1500 * time.Millisecond, want: 2},
		{name: "whole minutes", ttl: 10 * time.Minute, want: 600},
		{name: "at the limit", ttl: MaxTTL, want: 2592000},
		{name: "beyond the limit is clamped", ttl: 60 * 24 * time.Hour, want: 2592000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, expiration(tt.ttl))
		})
	}
}
