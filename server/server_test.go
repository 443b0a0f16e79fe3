// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/stacklok/procenv/httperr"
	"github.com/stacklok/procenv/procenv"
	"github.com/stacklok/procenv/procenv/mocks"
)

type enumeratingStrategy struct {
	*mocks.MockStrategy
	*mocks.MockEnumerator
}

func newTestServer(t *testing.T, family procenv.Family, s procenv.Strategy, opts ...Option) http.Handler {
	t.Helper()
	logger := slog.New(slog.DiscardHandler)
	r, err := procenv.NewReader(
		procenv.WithFamily(family),
		procenv.WithStrategy(family, s),
		procenv.WithLogger(logger),
	)
	require.NoError(t, err)
	return New(r, append([]Option{WithLogger(logger)}, opts...)...).Handler()
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) httperr.Body {
	t.Helper()
	var body httperr.Body
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHealth(t *testing.T) {
	t.Parallel()

	h := newTestServer(t, procenv.FamilyLinux, nil)
	rec := get(t, h, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestVariable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		target     string
		expect     func(m *mocks.MockStrategy)
		wantCode   int
		wantBody   string
		wantErrMsg string
	}{
		{
			name:   "found",
			target: "/v1/processes/4242/environment/HOME",
			expect: func(m *mocks.MockStrategy) {
				m.EXPECT().Lookup(gomock.Any(), 4242, "HOME").Return(procenv.Found("/home/agent"))
			},
			wantCode: http.StatusOK,
			wantBody: `{"pid":4242,"name":"HOME","value":"/home/agent"}`,
		},
		{
			name:   "found empty",
			target: "/v1/processes/4242/environment/EMPTY",
			expect: func(m *mocks.MockStrategy) {
				m.EXPECT().Lookup(gomock.Any(), 4242, "EMPTY").Return(procenv.Found(""))
			},
			wantCode: http.StatusOK,
			wantBody: `{"pid":4242,"name":"EMPTY","value":""}`,
		},
		{
			name:   "not found",
			target: "/v1/processes/4242/environment/MISSING",
			expect: func(m *mocks.MockStrategy) {
				m.EXPECT().Lookup(gomock.Any(), 4242, "MISSING").Return(procenv.NotFound())
			},
			wantCode:   http.StatusNotFound,
			wantErrMsg: `variable "MISSING" not available in process 4242: not_found`,
		},
		{
			name:   "command failed",
			target: "/v1/processes/4242/environment/HOME",
			expect: func(m *mocks.MockStrategy) {
				m.EXPECT().Lookup(gomock.Any(), 4242, "HOME").
					Return(procenv.Result{Status: procenv.StatusCommandFailed, Detail: "exit 1"})
			},
			wantCode:   http.StatusNotFound,
			wantErrMsg: `variable "HOME" not available in process 4242: command_failed`,
		},
		{
			name:       "non-numeric pid",
			target:     "/v1/processes/self/environment/HOME",
			wantCode:   http.StatusBadRequest,
			wantErrMsg: `process id must be positive: "self"`,
		},
		{
			name:       "zero pid",
			target:     "/v1/processes/0/environment/HOME",
			wantCode:   http.StatusBadRequest,
			wantErrMsg: `process id must be positive: "0"`,
		},
		{
			name:     "name with equals",
			target:   "/v1/processes/1/environment/" + url.PathEscape("A=B"),
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctrl := gomock.NewController(t)
			m := mocks.NewMockStrategy(ctrl)
			if tt.expect != nil {
				tt.expect(m)
			}

			rec := get(t, newTestServer(t, procenv.FamilyLinux, m), tt.target)
			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, rec.Body.String())
			}
			if tt.wantErrMsg != "" {
				assert.Equal(t, tt.wantErrMsg, decodeError(t, rec).Error)
			}
		})
	}
}

func TestVariable_UnsupportedPlatform(t *testing.T) {
	t.Parallel()

	h := newTestServer(t, "plan9", nil)
	rec := get(t, h, "/v1/processes/1/environment/HOME")
	assert.Equal(t, http.StatusNotImplemented, rec.Code)
	assert.Equal(t, http.StatusNotImplemented, decodeError(t, rec).Status)
}

func TestVariable_Timeout(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	m := mocks.NewMockStrategy(ctrl)
	m.EXPECT().Lookup(gomock.Any(), 7, "HOME").
		DoAndReturn(func(ctx context.Context, _ int, _ string) procenv.Result {
			deadline, ok := ctx.Deadline()
			assert.True(t, ok)
			assert.WithinDuration(t, time.Now().Add(time.Minute), deadline, 10*time.Second)
			return procenv.Found("/root")
		})

	rec := get(t, newTestServer(t, procenv.FamilyLinux, m, WithTimeout(time.Minute)), "/v1/processes/7/environment/HOME")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestEnvironment(t *testing.T) {
	t.Parallel()

	t.Run("enumerated", func(t *testing.T) {
		t.Parallel()
		ctrl := gomock.NewController(t)
		s := enumeratingStrategy{mocks.NewMockStrategy(ctrl), mocks.NewMockEnumerator(ctrl)}
		s.MockEnumerator.EXPECT().Environ(gomock.Any(), 12).
			Return(map[string]string{"A": "1", "B": "x=y"}, procenv.Found(""))

		rec := get(t, newTestServer(t, procenv.FamilyLinux, s), "/v1/processes/12/environment")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"pid":12,"environment":{"A":"1","B":"x=y"}}`, rec.Body.String())
	})

	t.Run("unreadable", func(t *testing.T) {
		t.Parallel()
		ctrl := gomock.NewController(t)
		s := enumeratingStrategy{mocks.NewMockStrategy(ctrl), mocks.NewMockEnumerator(ctrl)}
		s.MockEnumerator.EXPECT().Environ(gomock.Any(), 12).
			Return(nil, procenv.Result{Status: procenv.StatusParseError})

		rec := get(t, newTestServer(t, procenv.FamilyLinux, s), "/v1/processes/12/environment")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("lookup-only strategy", func(t *testing.T) {
		t.Parallel()
		ctrl := gomock.NewController(t)
		rec := get(t, newTestServer(t, procenv.FamilyDarwin, mocks.NewMockStrategy(ctrl)), "/v1/processes/12/environment")
		assert.Equal(t, http.StatusNotImplemented, rec.Code)
	})
}

func TestMatch(t *testing.T) {
	t.Parallel()

	t.Run("matches", func(t *testing.T) {
		t.Parallel()
		ctrl := gomock.NewController(t)
		s := enumeratingStrategy{mocks.NewMockStrategy(ctrl), mocks.NewMockEnumerator(ctrl)}
		s.MockEnumerator.EXPECT().Environ(gomock.Any(), 5).
			Return(map[string]string{"ROLE": "worker"}, procenv.Found(""))

		expr := `env["ROLE"] == "worker"`
		rec := get(t, newTestServer(t, procenv.FamilyLinux, s), "/v1/processes/5/match?expr="+url.QueryEscape(expr))
		assert.Equal(t, http.StatusOK, rec.Code)

		var body MatchResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, MatchResponse{PID: 5, Expression: expr, Matched: true}, body)
	})

	t.Run("missing expression", func(t *testing.T) {
		t.Parallel()
		rec := get(t, newTestServer(t, procenv.FamilyLinux, nil), "/v1/processes/5/match")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid expression", func(t *testing.T) {
		t.Parallel()
		rec := get(t, newTestServer(t, procenv.FamilyLinux, nil), "/v1/processes/5/match?expr="+url.QueryEscape("env["))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	exprTests := []struct {
		name        string
		expr        string
		wantCode    int
		wantMatched bool
		wantErrMsg  string
	}{
		{
			name:       "missing key fails evaluation",
			expr:       `env["APP_ROLE"] == "worker"`,
			wantCode:   http.StatusUnprocessableEntity,
			wantErrMsg: "process 5",
		},
		{
			name:     "guarded key does not match",
			expr:     `"APP_ROLE" in env && env["APP_ROLE"] == "worker"`,
			wantCode: http.StatusOK,
		},
	}

	for _, tt := range exprTests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctrl := gomock.NewController(t)
			s := enumeratingStrategy{mocks.NewMockStrategy(ctrl), mocks.NewMockEnumerator(ctrl)}
			s.MockEnumerator.EXPECT().Environ(gomock.Any(), 5).
				Return(map[string]string{"OTHER": "1"}, procenv.Found(""))

			rec := get(t, newTestServer(t, procenv.FamilyLinux, s), "/v1/processes/5/match?expr="+url.QueryEscape(tt.expr))
			require.Equal(t, tt.wantCode, rec.Code)

			if tt.wantErrMsg != "" {
				body := decodeError(t, rec)
				assert.Equal(t, http.StatusUnprocessableEntity, body.Status)
				assert.Contains(t, body.Error, tt.wantErrMsg)
				return
			}
			var body MatchResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantMatched, body.Matched)
		})
	}
}

func TestResponseHeaders(t *testing.T) {
	t.Parallel()

	h := newTestServer(t, procenv.FamilyLinux, nil, WithResponseHeaders(map[string]string{"Cache-Control": "no-store"}))
	rec := get(t, h, "/healthz")
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

	rec = get(t, h, "/v1/processes/x/environment")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}

func TestUnknownRoute(t *testing.T) {
	t.Parallel()

	rec := get(t, newTestServer(t, procenv.FamilyLinux, nil), "/v2/anything")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	t.Parallel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	r, err := procenv.NewReader(procenv.WithLogger(slog.New(slog.DiscardHandler)))
	require.NoError(t, err)
	srv := New(r, WithLogger(slog.New(slog.DiscardHandler)))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.Serve(ctx, ln)
	}()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not stop")
	}
}
