package datasource

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/clinic-scheduler/internal/model"
	"github.com/jwalitptl/clinic-scheduler/internal/repository/memory"
	apperrors "github.com/jwalitptl/clinic-scheduler/pkg/errors"
)

const feedBody = `[
	{"name": "John Doe", "phonenumber": "1234567890", "age": 41, "complaint": "Tooth pain", "time": "10:30"},
	{"name": "Jane Smith", "phonenumber": "9876543210", "followup": "Regular checkup", "time": "14:00:00"},
	{"name": "Bad Record", "phonenumber": "5551234567", "time": "noonish"}
]`

func newFeed(t *testing.T, hits *int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*hits++
		assert.Equal(t, "/appointments", r.URL.Path)
		assert.Equal(t, "2023-06-10", r.URL.Query().Get("date"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(feedBody))
	}))
}

func TestSeed(t *testing.T) {
	var hits int
	srv := newFeed(t, &hits)
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL})
	repo := memory.NewAppointmentRepository()
	date := time.Date(2023, time.June, 10, 0, 0, 0, 0, time.UTC)

	n, err := client.Seed(context.Background(), repo, date)
	require.NoError(t, err)

	// The malformed record is skipped, not coerced.
	assert.Equal(t, 2, n)
	assert.Equal(t, 2, repo.Count())

	apts := repo.List()
	assert.Equal(t, "John Doe", apts[0].PatientName)
	assert.Equal(t, time.Date(2023, time.June, 10, 10, 30, 0, 0, time.UTC), apts[0].DateTime)
	assert.Equal(t, "Tooth pain", apts[0].Complaint)
	assert.Equal(t, model.AppointmentStatusConfirmed, apts[0].Status)

	// Followup text stands in for the complaint.
	assert.Equal(t, "Regular checkup", apts[1].Complaint)
	assert.Equal(t, 14, apts[1].DateTime.Hour())
}

func TestFetchDayCaches(t *testing.T) {
	var hits int
	srv := newFeed(t, &hits)
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL})
	date := time.Date(2023, time.June, 10, 0, 0, 0, 0, time.UTC)

	_, err := client.FetchDay(context.Background(), date)
	require.NoError(t, err)
	_, err = client.FetchDay(context.Background(), date)
	require.NoError(t, err)

	assert.Equal(t, 1, hits)
}

func TestReloadBypassesCache(t *testing.T) {
	var hits int
	srv := newFeed(t, &hits)
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL})
	repo := memory.NewAppointmentRepository()
	date := time.Date(2023, time.June, 10, 0, 0, 0, 0, time.UTC)

	_, err := client.Seed(context.Background(), repo, date)
	require.NoError(t, err)
	_, err = client.Reload(context.Background(), repo, date)
	require.NoError(t, err)

	assert.Equal(t, 2, hits)
	// Replace assigns fresh IDs; the collection size is unchanged.
	assert.Equal(t, 2, repo.Count())
}

func TestFetchDayServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL})
	_, err := client.FetchDay(context.Background(), time.Date(2023, time.June, 10, 0, 0, 0, 0, time.UTC))
	require.Error(t, err)

	_, ok := apperrors.AsDataSource(err)
	assert.True(t, ok)
}

func TestFetchDayBadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("{not json"))
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL})
	_, err := client.FetchDay(context.Background(), time.Date(2023, time.June, 10, 0, 0, 0, 0, time.UTC))
	require.Error(t, err)

	_, ok := apperrors.AsDataSource(err)
	assert.True(t, ok)
}

func TestMapRecordsRFC3339Time(t *testing.T) {
	date := time.Date(2023, time.June, 10, 0, 0, 0, 0, time.UTC)
	apts := MapRecords(date, []model.ScheduleRecord{
		{Name: "John Doe", PhoneNumber: "555", Time: "2023-06-10T16:45:00Z"},
	})

	require.Len(t, apts, 1)
	assert.Equal(t, time.Date(2023, time.June, 10, 16, 45, 0, 0, time.UTC), apts[0].DateTime)
}
