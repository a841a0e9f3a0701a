package nws

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/cicconee/marine-forecast/internal/zone"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker/v2"
)

const (
	// MarineURL is the directory of coastal and offshore bulletins,
	// laid out as {layer}/{region}/{zone}.txt.
	MarineURL = "https://tgftp.nws.noaa.gov/data/forecasts/marine"

	// RawURL is the directory of high seas bulletins.
	RawURL = "https://tgftp.nws.noaa.gov/data/raw/fz"

	maxBulletinBytes = 1 << 20
)

type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client fetches marine bulletins from the NWS text service. Requests go
// through a circuit breaker that opens after repeated upstream failures.
type Client struct {
	HTTP      HTTPDoer
	UserAgent string

	// Override the bulletin locations. Empty means MarineURL and RawURL.
	MarineURL string
	RawURL    string

	Logger *logrus.Logger

	once    sync.Once
	breaker *gobreaker.CircuitBreaker[*http.Response]
}

var DefaultClient = &Client{
	HTTP: defaultHTTP(),
}

func (c *Client) http() HTTPDoer {
	if c.HTTP == nil {
		return DefaultClient.HTTP
	}

	return c.HTTP
}

func (c *Client) cb() *gobreaker.CircuitBreaker[*http.Response] {
	c.once.Do(func() {
		c.breaker = gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
			Name:        "nws",
			MaxRequests: 1,
			Interval:    60 * time.Second,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures > 5
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				if c.Logger != nil {
					c.Logger.WithFields(logrus.Fields{
						"breaker": name,
						"from":    from.String(),
						"to":      to.String(),
					}).Warn("circuit breaker state changed")
				}
			},
		})
	})

	return c.breaker
}

func (c *Client) marineURL() string {
	if c.MarineURL != "" {
		return strings.TrimRight(c.MarineURL, "/")
	}
	return MarineURL
}

func (c *Client) rawURL() string {
	if c.RawURL != "" {
		return strings.TrimRight(c.RawURL, "/")
	}
	return RawURL
}

// get executes a GET request through the circuit breaker. 5xx responses
// count as breaker failures and are returned as *StatusCodeError.
func (c *Client) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed creating GET request: %w", err)
	}

	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	res, err := c.cb().Execute(func() (*http.Response, error) {
		res, err := c.http().Do(req)
		if err != nil {
			return nil, err
		}

		if res.StatusCode >= http.StatusInternalServerError {
			defer res.Body.Close()
			return nil, statusError(url, res)
		}

		return res, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute GET request: %w", err)
	}

	return res, nil
}

func statusError(url string, res *http.Response) *StatusCodeError {
	detail, _ := io.ReadAll(io.LimitReader(res.Body, 256))
	return &StatusCodeError{
		URL:        url,
		StatusCode: res.StatusCode,
		Detail:     strings.TrimSpace(string(detail)),
	}
}

// BulletinURL returns the location of the bulletin of a zone. Coastal
// and offshore zones follow {layer}/{region}/{zone}.txt where region is
// the two letter area prefix of the zone ID. High seas zones are looked
// up by name in a fixed table.
func (c *Client) BulletinURL(zoneID string, layer zone.Layer) (string, error) {
	switch layer {
	case zone.Coastal, zone.Offshore:
		id := strings.ToLower(strings.TrimSpace(zoneID))
		if len(id) < 4 || id[2] != 'z' {
			return "", &UnknownZoneError{ZoneID: zoneID, Reason: "malformed zone id"}
		}

		return fmt.Sprintf("%s/%s/%s/%s.txt", c.marineURL(), layer, id[:2], id), nil
	case zone.HighSeas:
		file, ok := highSeasFiles[zoneID]
		if !ok {
			return "", &UnknownZoneError{ZoneID: zoneID, Reason: "no high seas bulletin for this region"}
		}

		return fmt.Sprintf("%s/%s", c.rawURL(), file), nil
	}

	return "", &UnknownZoneError{ZoneID: zoneID, Reason: fmt.Sprintf("unknown layer %q", layer)}
}

// Fetch returns the raw bulletin text of a zone.
func (c *Client) Fetch(ctx context.Context, zoneID string, layer zone.Layer) (string, error) {
	url, err := c.BulletinURL(zoneID, layer)
	if err != nil {
		return "", err
	}

	res, err := c.get(ctx, url)
	if err != nil {
		return "", fmt.Errorf("failed getting http response: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return "", statusError(url, res)
	}

	body, err := io.ReadAll(io.LimitReader(res.Body, maxBulletinBytes))
	if err != nil {
		return "", fmt.Errorf("failed reading bulletin: %w", err)
	}

	text := string(body)
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("empty bulletin (url=%s)", url)
	}

	return text, nil
}
