package main

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareHttp_Recovery(t *testing.T) {
	tests := []struct {
		name     string
		handler  http.HandlerFunc
		wantCode int
		wantBody string
	}{
		{
			name: "panic before writing",
			handler: func(http.ResponseWriter, *http.Request) {
				panic("boom")
			},
			wantCode: http.StatusInternalServerError,
			wantBody: "{\"message\":\"internal server error\"}\n",
		},
		{
			name: "panic after writing",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusAccepted)
				_, _ = w.Write([]byte("partial"))
				panic("boom")
			},
			wantCode: http.StatusAccepted,
			wantBody: "partial",
		},
		{
			name: "no panic",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte("ok"))
			},
			wantCode: http.StatusOK,
			wantBody: "ok",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			counter := HttpTotalRequests.WithLabelValues(PathHealth, http.MethodGet, fmt.Sprintf("%d", tt.wantCode))
			before := testutil.ToFloat64(counter)

			w := httptest.NewRecorder()
			middlewareHttp(newTestApp(), tt.handler).ServeHTTP(w, httptest.NewRequest(http.MethodGet, PathHealth, nil))

			require.Equal(t, tt.wantCode, w.Code)
			require.Equal(t, tt.wantBody, w.Body.String())
			require.Equal(t, before+1, testutil.ToFloat64(counter))
		})
	}
}
