package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mustafayusufaksoy/camlica360/internal/domain/attendance"
)

type staticTokens struct{}

func (staticTokens) AccessToken() string { return "test-token" }
func (staticTokens) CompanyID() string   { return "CML" }

func envelope(success bool, message string, data interface{}) []byte {
	body, _ := json.Marshal(map[string]interface{}{
		"success": success,
		"message": message,
		"code":    200,
		"data":    data,
	})
	return body
}

func TestSubmitAttendanceLogSendsAuthHeaders(t *testing.T) {
	t.Parallel()

	var gotAuth, gotCompany, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotCompany = r.Header.Get("X-Company-Code")
		gotPath = r.URL.Path
		w.Write(envelope(true, "created", map[string]string{"id": "log-1"}))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, staticTokens{})
	logged, err := client.SubmitAttendanceLog(context.Background(), attendance.CreateLogRequest{
		PersonnelID:         "user-1",
		WorkplaceLocationID: "wp-1",
		Timestamp:           time.Now().UTC(),
		Latitude:            41.0,
		Longitude:           29.0,
	})
	require.NoError(t, err)
	assert.Equal(t, "log-1", logged.ID)
	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.Equal(t, "CML", gotCompany)
	assert.Equal(t, "/hr/attendance-log/create", gotPath)
}

func TestGetAttendanceLogsQueriesWindow(t *testing.T) {
	t.Parallel()

	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write(envelope(true, "", []map[string]string{{"id": "log-1"}}))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, staticTokens{})
	from := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	logs, err := client.GetAttendanceLogs(context.Background(), "user-1", from, from.Add(24*time.Hour))
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Contains(t, gotQuery, "from=2026-08-30T00%3A00%3A00Z")
}

func TestStatusCodeClassification(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		status int
		want   error
	}{
		{"unauthorized", http.StatusUnauthorized, ErrUnauthorized},
		{"forbidden", http.StatusForbidden, ErrForbidden},
		{"not found", http.StatusNotFound, ErrNotFound},
		{"bad request", http.StatusBadRequest, ErrValidation},
		{"unprocessable", http.StatusUnprocessableEntity, ErrValidation},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write(envelope(false, "nope", nil))
			}))
			defer srv.Close()

			client := NewClient(srv.URL, time.Second, staticTokens{})
			_, err := client.FetchWorkplaceLocations(context.Background(), "CML")
			assert.ErrorIs(t, err, tc.want)
			assert.False(t, IsTransient(err), "HTTP rejections are permanent")
		})
	}
}

func TestServerFailureStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write(envelope(false, "upstream exploded", nil))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, staticTokens{})
	_, err := client.FetchWorkplaceLocations(context.Background(), "CML")

	var serverErr *ServerError
	require.ErrorAs(t, err, &serverErr)
	assert.Equal(t, http.StatusBadGateway, serverErr.StatusCode)
	assert.Equal(t, "upstream exploded", serverErr.Message)
}

func TestEnvelopeFailureBecomesServerError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(envelope(false, "company mismatch", nil))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, staticTokens{})
	_, err := client.GetWorkplaceLocation(context.Background(), "wp-1")

	var serverErr *ServerError
	require.ErrorAs(t, err, &serverErr)
	assert.Equal(t, "company mismatch", serverErr.Message)
}

func TestTimeoutIsTransient(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 50*time.Millisecond, staticTokens{})
	_, err := client.FetchWorkplaceLocations(context.Background(), "CML")

	assert.ErrorIs(t, err, ErrTimeout)
	assert.True(t, IsTransient(err))
}

func TestConnectionRefusedIsTransient(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listens anymore

	client := NewClient(srv.URL, time.Second, staticTokens{})
	_, err := client.FetchWorkplaceLocations(context.Background(), "CML")

	assert.ErrorIs(t, err, ErrNoConnectivity)
	assert.True(t, IsTransient(err))
}

func TestMissingDataYieldsErrNoData(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(envelope(true, "", nil))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, staticTokens{})
	_, err := client.GetWorkplaceLocation(context.Background(), "wp-1")
	assert.ErrorIs(t, err, ErrNoData)
}
