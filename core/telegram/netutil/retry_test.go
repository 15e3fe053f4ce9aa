package netutil

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestShouldRetry(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain", errors.New("bad request"), false},
		{"canceled", fmt.Errorf("send: %w", context.Canceled), false},
		{"dial", &net.OpError{Op: "dial", Err: errors.New("refused")}, true},
		{"reset", fmt.Errorf("read: %w", syscall.ECONNRESET), true},
		{"url timeout", &url.Error{Op: "Post", URL: "https://api.telegram.org", Err: timeoutErr{}}, true},
		{"wrapped timeout", fmt.Errorf("x: %w", timeoutErr{}), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ShouldRetry(tc.err))
		})
	}
}
