// Package datasource fetches the day's schedule from the clinic's reception
// feed and seeds the appointment repository with it. The feed is a cold-start
// seed, not a live stream: on failure the only recovery is a full reload.
package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/clinic-scheduler/internal/model"
	"github.com/jwalitptl/clinic-scheduler/internal/repository"
	apperrors "github.com/jwalitptl/clinic-scheduler/pkg/errors"
)

const dateParam = "2006-01-02"

type Config struct {
	BaseURL  string
	Timeout  time.Duration
	CacheTTL time.Duration
}

type Client struct {
	http    *http.Client
	baseURL string
	cache   *gocache.Cache
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	ttl := cfg.CacheTTL
	if ttl == 0 {
		ttl = 5 * time.Minute
	}

	return &Client{
		http:    &http.Client{Timeout: timeout},
		baseURL: cfg.BaseURL,
		cache:   gocache.New(ttl, 2*ttl),
	}
}

// FetchDay returns the feed's records for the given date. Responses are
// cached per date so repeated navigation over the same day stays cheap.
func (c *Client) FetchDay(ctx context.Context, date time.Time) ([]model.ScheduleRecord, error) {
	key := date.Format(dateParam)
	if cached, ok := c.cache.Get(key); ok {
		return cached.([]model.ScheduleRecord), nil
	}

	records, err := c.fetch(ctx, date)
	if err != nil {
		return nil, err
	}

	c.cache.SetDefault(key, records)
	return records, nil
}

func (c *Client) fetch(ctx context.Context, date time.Time) ([]model.ScheduleRecord, error) {
	u, err := url.Parse(c.baseURL + "/appointments")
	if err != nil {
		return nil, apperrors.NewDataSource("fetch", err)
	}
	q := u.Query()
	q.Set("date", date.Format(dateParam))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, apperrors.NewDataSource("fetch", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperrors.NewDataSource("fetch", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.NewDataSource("fetch", fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var records []model.ScheduleRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, apperrors.NewDataSource("decode", err)
	}
	return records, nil
}

// Seed fetches the date's records and replaces the repository's collection
// with them. Returns the number of seeded appointments. Records with
// unparseable times are skipped with a warning, never silently coerced.
func (c *Client) Seed(ctx context.Context, repo repository.AppointmentRepository, date time.Time) (int, error) {
	records, err := c.FetchDay(ctx, date)
	if err != nil {
		return 0, err
	}

	seeded := repo.Replace(MapRecords(date, records))
	return len(seeded), nil
}

// Reload drops the cached response for the date and seeds again. This is the
// coarse reload-and-retry path the reception UI exposes.
func (c *Client) Reload(ctx context.Context, repo repository.AppointmentRepository, date time.Time) (int, error) {
	c.cache.Delete(date.Format(dateParam))
	return c.Seed(ctx, repo, date)
}

// MapRecords converts feed records into confirmed appointments on the given
// date. Followup text doubles as the complaint for follow-up visits.
func MapRecords(date time.Time, records []model.ScheduleRecord) []model.Appointment {
	apts := make([]model.Appointment, 0, len(records))
	for _, rec := range records {
		hour, minute, err := parseRecordTime(rec.Time)
		if err != nil {
			log.Warn().
				Str("name", rec.Name).
				Str("time", rec.Time).
				Msg("skipping schedule record with malformed time")
			continue
		}

		complaint := rec.Complaint
		if complaint == "" {
			complaint = rec.Followup
		}

		year, month, day := date.Date()
		apts = append(apts, model.Appointment{
			PatientName: rec.Name,
			Phone:       rec.PhoneNumber,
			DateTime:    time.Date(year, month, day, hour, minute, 0, 0, date.Location()),
			Complaint:   complaint,
			Status:      model.AppointmentStatusConfirmed,
		})
	}
	return apts
}

// parseRecordTime accepts the feed's text timestamps: either a bare HH:MM
// (possibly with seconds) or a full RFC 3339 instant, truncated to HH:MM.
func parseRecordTime(s string) (hour, minute int, err error) {
	for _, layout := range []string{"15:04", "15:04:05", time.RFC3339} {
		if t, perr := time.Parse(layout, s); perr == nil {
			return t.Hour(), t.Minute(), nil
		}
	}
	return 0, 0, fmt.Errorf("unrecognized time %q", s)
}
