package google

import (
	"context"
	"fmt"
	"time"

	"github.com/kalendo/kalendo/internal/config"
	"github.com/kalendo/kalendo/pkg/calendar"
	"github.com/kalendo/kalendo/pkg/credential"
	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

const (
	defaultEventSummary = "Untitled Event"
	maxEventsPerWindow  = 250
)

// UserInfo is the subset of the Google account profile the app uses.
type UserInfo struct {
	Email string
	Name  string
}

// Client talks to Google's OAuth and Calendar APIs. It implements
// calendar.RemoteEventSource and credential.TokenRefresher.
type Client struct {
	oauthConfig *oauth2.Config

	// apiEndpoint overrides the Google API base URL in tests.
	apiEndpoint string
}

func NewClient(cfg config.Application) *Client {
	oauthConfig := &oauth2.Config{
		ClientID:     cfg.Google.ClientId,
		ClientSecret: cfg.Google.ClientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  cfg.Host + "/api/auth/google/callback",
		Scopes:       []string{gcal.CalendarReadonlyScope, oauth2api.UserinfoEmailScope, oauth2api.UserinfoProfileScope},
	}
	return &Client{oauthConfig: oauthConfig}
}

// AuthCodeURL builds the consent page URL carrying the given state. Offline
// access is requested so the exchange returns a refresh token.
func (c *Client) AuthCodeURL(state string) string {
	return c.oauthConfig.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// Exchange trades an authorization code for a token set.
func (c *Client) Exchange(ctx context.Context, code string) (credential.Credential, error) {
	token, err := c.oauthConfig.Exchange(ctx, code)
	if err != nil {
		err := fmt.Errorf("unable to exchange code for token: %v", err)
		log.Error(err)
		return credential.Credential{}, err
	}
	return credential.Credential{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		Expiry:       token.Expiry,
		TokenType:    token.TokenType,
	}, nil
}

// Refresh exchanges a refresh token for a fresh access token.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (credential.RefreshedToken, error) {
	source := c.oauthConfig.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	token, err := source.Token()
	if err != nil {
		return credential.RefreshedToken{}, fmt.Errorf("unable to refresh access token: %v", err)
	}
	return credential.RefreshedToken{
		AccessToken: token.AccessToken,
		Expiry:      token.Expiry,
	}, nil
}

// UserInfo fetches the profile of the account the token belongs to.
func (c *Client) UserInfo(ctx context.Context, accessToken string) (UserInfo, error) {
	service, err := oauth2api.NewService(ctx, c.clientOptions(accessToken)...)
	if err != nil {
		return UserInfo{}, fmt.Errorf("unable to create userinfo client: %v", err)
	}

	info, err := service.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		err := fmt.Errorf("unable to retrieve user info from Google: %v", err)
		log.Error(err)
		return UserInfo{}, err
	}
	return UserInfo{Email: info.Email, Name: info.Name}, nil
}

// FetchEvents lists the user's primary calendar events overlapping [from, to].
// Recurring events are expanded into single instances.
func (c *Client) FetchEvents(ctx context.Context, accessToken string, from, to time.Time) ([]calendar.RemoteEvent, error) {
	service, err := gcal.NewService(ctx, c.clientOptions(accessToken)...)
	if err != nil {
		return nil, fmt.Errorf("unable to create calendar client: %v", err)
	}

	googleEvents, err := service.Events.List("primary").
		TimeMin(from.Format(time.RFC3339)).
		TimeMax(to.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		MaxResults(maxEventsPerWindow).
		Context(ctx).
		Do()
	if err != nil {
		err := fmt.Errorf("unable to retrieve events from Google Calendar: %v", err)
		log.Error(err)
		return nil, err
	}

	events := make([]calendar.RemoteEvent, 0, len(googleEvents.Items))
	for _, item := range googleEvents.Items {
		events = append(events, googleEventToRemoteEvent(item))
	}
	return events, nil
}

func (c *Client) clientOptions(accessToken string) []option.ClientOption {
	opts := []option.ClientOption{
		option.WithTokenSource(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})),
	}
	if c.apiEndpoint != "" {
		opts = append(opts, option.WithEndpoint(c.apiEndpoint))
	}
	return opts
}

// googleEventToRemoteEvent maps a Google event to the provider-neutral shape.
// An event whose start carries only a date (no dateTime) is all-day; the
// classification happens here, once, and is stored with the event.
func googleEventToRemoteEvent(item *gcal.Event) calendar.RemoteEvent {
	summary := item.Summary
	if summary == "" {
		summary = defaultEventSummary
	}

	isAllDay := item.Start != nil && item.Start.DateTime == ""
	return calendar.RemoteEvent{
		ExternalId:  item.Id,
		Summary:     summary,
		Description: item.Description,
		StartTime:   parseEventTime(item.Start),
		EndTime:     parseEventTime(item.End),
		Location:    item.Location,
		Color:       item.ColorId,
		IsAllDay:    isAllDay,
	}
}

func parseEventTime(edt *gcal.EventDateTime) time.Time {
	if edt == nil {
		return time.Time{}
	}
	if edt.DateTime != "" {
		t, err := time.Parse(time.RFC3339, edt.DateTime)
		if err != nil {
			log.Warnf("unparseable event time %q: %v", edt.DateTime, err)
			return time.Time{}
		}
		return t
	}
	t, err := time.Parse("2006-01-02", edt.Date)
	if err != nil {
		log.Warnf("unparseable event date %q: %v", edt.Date, err)
		return time.Time{}
	}
	return t
}
