package calendar

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
	"gorm.io/gorm"

	"github.com/meetsched/meeting-scheduler/internal/config"
	domain "github.com/meetsched/meeting-scheduler/internal/domain/schedule"
	"github.com/meetsched/meeting-scheduler/internal/models"
)

// OAuthConfig builds the Google OAuth2 config, or nil when the
// integration is not configured. A nil config disables the connect
// endpoints and the busy-time lookups degrade to "no busy times".
func OAuthConfig(cfg *config.Config) *oauth2.Config {
	if cfg.GoogleClientID == "" || cfg.GoogleClientSecret == "" || cfg.GoogleRedirectURL == "" {
		return nil
	}

	return &oauth2.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURL,
		Scopes: []string{
			gcal.CalendarReadonlyScope,
		},
		Endpoint: google.Endpoint,
	}
}

// GoogleBusyProvider resolves a host's linked Google calendar into busy
// intervals via the FreeBusy API.
type GoogleBusyProvider struct {
	db    *gorm.DB
	oauth *oauth2.Config
}

func NewGoogleBusyProvider(db *gorm.DB, oauth *oauth2.Config) *GoogleBusyProvider {
	return &GoogleBusyProvider{db: db, oauth: oauth}
}

func (p *GoogleBusyProvider) BusyIntervals(
	ctx context.Context,
	hostID uint,
	startUTC time.Time,
	endUTC time.Time,
) ([]domain.BusyInterval, error) {

	if p.oauth == nil {
		return nil, nil
	}

	var conn models.CalendarConnection
	err := p.db.WithContext(ctx).
		Where("user_id = ? AND provider = 'google'", hostID).
		First(&conn).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var token oauth2.Token
	if err := json.Unmarshal([]byte(conn.TokenJSON), &token); err != nil {
		return nil, err
	}

	client := p.oauth.Client(ctx, &token)
	srv, err := gcal.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, err
	}

	calendarID := conn.CalendarID
	if calendarID == "" {
		calendarID = "primary"
	}

	resp, err := srv.Freebusy.Query(&gcal.FreeBusyRequest{
		TimeMin: startUTC.Format(time.RFC3339),
		TimeMax: endUTC.Format(time.RFC3339),
		Items: []*gcal.FreeBusyRequestItem{
			{Id: calendarID},
		},
	}).Context(ctx).Do()
	if err != nil {
		return nil, err
	}

	cal, ok := resp.Calendars[calendarID]
	if !ok {
		return nil, nil
	}

	intervals := make([]domain.BusyInterval, 0, len(cal.Busy))
	for _, period := range cal.Busy {
		start, err := time.Parse(time.RFC3339, period.Start)
		if err != nil {
			continue
		}
		end, err := time.Parse(time.RFC3339, period.End)
		if err != nil {
			continue
		}
		intervals = append(intervals, domain.BusyInterval{
			Start: start.UTC(),
			End:   end.UTC(),
		})
	}
	return intervals, nil
}

// SaveConnection stores or replaces the host's Google Calendar link.
func SaveConnection(
	ctx context.Context,
	db *gorm.DB,
	hostID uint,
	token *oauth2.Token,
	calendarID string,
) error {

	tokenJSON, err := json.Marshal(token)
	if err != nil {
		return err
	}
	if calendarID == "" {
		calendarID = "primary"
	}

	var conn models.CalendarConnection
	err = db.WithContext(ctx).
		Where("user_id = ? AND provider = 'google'", hostID).
		First(&conn).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		conn = models.CalendarConnection{
			UserID:     hostID,
			Provider:   "google",
			CalendarID: calendarID,
			TokenJSON:  string(tokenJSON),
		}
		return db.WithContext(ctx).Create(&conn).Error
	}
	if err != nil {
		return err
	}

	conn.TokenJSON = string(tokenJSON)
	conn.CalendarID = calendarID
	return db.WithContext(ctx).Save(&conn).Error
}

var _ domain.BusyTimeProvider = (*GoogleBusyProvider)(nil)
