package telegram

import (
	"bytes"
	"errors"
	"net"
	"net/http"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedTransport struct {
	errs  []error
	calls int
	body  []string
}

func (s *scriptedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	s.calls++
	if req.Body != nil {
		buf := new(bytes.Buffer)
		_, _ = buf.ReadFrom(req.Body)
		s.body = append(s.body, buf.String())
	}
	if len(s.errs) > 0 {
		err := s.errs[0]
		s.errs = s.errs[1:]
		if err != nil {
			return nil, err
		}
	}
	return &http.Response{StatusCode: http.StatusOK, Body: http.NoBody, Request: req}, nil
}

func TestRetryTransportReplaysBodyOnTransientError(t *testing.T) {
	base := &scriptedTransport{errs: []error{
		&net.OpError{Op: "read", Err: syscall.ECONNRESET},
	}}
	client := BuildHTTPClient(HTTPClientOptions{RetryAttempts: 2, RetryBackoff: time.Millisecond, Base: base})

	resp, err := client.Post("http://api.invalid/sendMessage", "application/json", strings.NewReader(`{"text":"hi"}`))
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, 2, base.calls)
	assert.Equal(t, []string{`{"text":"hi"}`, `{"text":"hi"}`}, base.body)
}

func TestRetryTransportStopsOnPermanentError(t *testing.T) {
	permanent := errors.New("boom")
	base := &scriptedTransport{errs: []error{permanent}}
	client := BuildHTTPClient(HTTPClientOptions{RetryAttempts: 3, RetryBackoff: time.Millisecond, Base: base})

	_, err := client.Get("http://api.invalid/getMe")
	require.Error(t, err)
	assert.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, base.calls)
}
