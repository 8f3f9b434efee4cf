package dataservice

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/impulsehq/impulse/pkg/core"
	"github.com/impulsehq/impulse/pkg/logger"
	zerologger "github.com/impulsehq/impulse/pkg/logger/zerolog"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() logger.Logger {
	nop := zerolog.Nop()
	return zerologger.NewAdapter(&nop)
}

func ts(v int64) *int64 {
	return &v
}

func TestGetMetric_ParsesDatapoints(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/data/cpu.usage", r.URL.Path)
		assert.Equal(t, "sekrit", r.Header.Get(TokenHeader))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]core.Datapoint{
			{Timestamp: ts(100), Value: 0.5, Dimensions: map[string]any{"host": "a"}},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, testLogger(), WithToken("sekrit"))
	datapoints, err := client.GetMetric(context.Background(), "cpu.usage")

	require.NoError(t, err)
	require.Len(t, datapoints, 1)
	assert.Equal(t, int64(100), *datapoints[0].Timestamp)
	assert.Equal(t, 0.5, datapoints[0].Value)
	assert.Equal(t, map[string]any{"host": "a"}, datapoints[0].Dimensions)
}

func TestGetMetric_OmitsTokenHeaderWhenUnset(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, present := r.Header[TokenHeader]
		assert.False(t, present)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("[]"))
	}))
	defer server.Close()

	_, err := NewClient(server.URL, testLogger()).GetMetric(context.Background(), "m")
	require.NoError(t, err)
}

func TestHandleResponse_SuccessAnomaliesYieldNoData(t *testing.T) {
	cases := map[string]func(w http.ResponseWriter){
		"empty body": func(w http.ResponseWriter) {
			w.Header().Set("Content-Type", "application/json")
		},
		"whitespace body": func(w http.ResponseWriter) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte("   "))
		},
		"non-JSON content type": func(w http.ResponseWriter) {
			w.Header().Set("Content-Type", "text/plain")
			w.Write([]byte("hello"))
		},
		"malformed JSON": func(w http.ResponseWriter) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte("{not json"))
		},
	}

	for name, respond := range cases {
		t.Run(name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				respond(w)
			}))
			defer server.Close()

			datapoints, err := NewClient(server.URL, testLogger()).GetMetric(context.Background(), "m")
			require.NoError(t, err)
			assert.Empty(t, datapoints)
		})
	}
}

func TestHandleResponse_ErrorMessageExtraction(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"detail field", http.StatusNotFound, `{"detail": "metric not found"}`, "metric not found"},
		{"message fallback", http.StatusForbidden, `{"message": "token expired"}`, "token expired"},
		{"detail wins over message", http.StatusBadRequest, `{"detail": "d", "message": "m"}`, "d"},
		{"generic fallback", http.StatusBadGateway, "not json at all", "HTTP 502"},
		{"empty body", http.StatusInternalServerError, "", "HTTP 500"},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := NewClient(server.URL, testLogger()).GetMetric(context.Background(), "m")

			var serviceErr *core.ServiceError
			require.ErrorAs(t, err, &serviceErr)
			assert.Equal(t, tt.status, serviceErr.Status)
			assert.Equal(t, tt.message, serviceErr.Message)
			assert.False(t, serviceErr.IsTransport())
		})
	}
}

func TestErrorBodyIsCarriedOnServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"detail": "dup", "code": 42}`))
	}))
	defer server.Close()

	_, err := NewClient(server.URL, testLogger()).GetMetric(context.Background(), "m")

	var serviceErr *core.ServiceError
	require.ErrorAs(t, err, &serviceErr)
	assert.Equal(t, "dup", serviceErr.Data["detail"])
	assert.Equal(t, float64(42), serviceErr.Data["code"])
}

func TestTransportFailureHasStatusZero(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	server.Close() // nothing listening anymore

	_, err := NewClient(server.URL, testLogger()).GetMetric(context.Background(), "m")

	var serviceErr *core.ServiceError
	require.ErrorAs(t, err, &serviceErr)
	assert.Equal(t, 0, serviceErr.Status)
	assert.True(t, serviceErr.IsTransport())
	assert.Nil(t, serviceErr.Data)
}

func TestServiceErrorsAreNotRetried(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := NewClient(server.URL, testLogger(), WithRetry(3)).GetMetric(context.Background(), "m")

	require.Error(t, err)
	assert.Equal(t, 1, requests)
}

func TestAddDatapoints_PostsBody(t *testing.T) {
	var received []core.Datapoint
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/data/expenses", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &received))
	}))
	defer server.Close()

	datapoints := []core.Datapoint{{Timestamp: ts(1), Value: 2.5}}
	err := NewClient(server.URL, testLogger()).AddDatapoints(context.Background(), "expenses", datapoints)

	require.NoError(t, err)
	require.Len(t, received, 1)
	assert.Equal(t, 2.5, received[0].Value)
}

func TestDeleteMetric(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/data/old.metric", r.URL.Path)
	}))
	defer server.Close()

	err := NewClient(server.URL, testLogger()).DeleteMetric(context.Background(), "old.metric")
	require.NoError(t, err)
}

func TestListMetrics(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/data", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`["a", "b"]`))
	}))
	defer server.Close()

	names, err := NewClient(server.URL, testLogger()).ListMetrics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names)
}
