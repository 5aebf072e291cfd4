// Package hermes fetches signed Pyth price attestations from a Hermes endpoint.
package hermes

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/rs/zerolog"

	"allweather/internal/assets"
)

// ErrNoUpdates is returned when Hermes answers without any price update payload.
var ErrNoUpdates = errors.New("hermes returned no price updates")

// Client talks to the Hermes REST API.
type Client struct {
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

// NewClient creates a Hermes client. A zero timeout leaves the request unbounded.
func NewClient(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		log:     log.With().Str("client", "hermes").Logger(),
	}
}

type binaryUpdate struct {
	Encoding string   `json:"encoding"`
	Data     []string `json:"data"`
}

type latestResponse struct {
	Binary binaryUpdate `json:"binary"`
}

// LatestUpdates returns the latest update payloads covering ids as 0x-prefixed hex.
// Hermes may merge several feeds into one payload, so the result can be shorter than ids.
func (c *Client) LatestUpdates(ctx context.Context, ids []assets.FeedID) ([]string, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("no feed ids requested")
	}

	q := url.Values{}
	for _, id := range ids {
		q.Add("ids[]", id.Hex())
	}
	q.Set("encoding", "hex")

	var resp latestResponse
	if err := c.getJSON(ctx, "/v2/updates/price/latest", q, &resp); err != nil {
		return nil, err
	}

	updates := make([]string, 0, len(resp.Binary.Data))
	for _, item := range resp.Binary.Data {
		normalized, err := normalize(resp.Binary.Encoding, item)
		if err != nil {
			return nil, err
		}
		updates = append(updates, normalized)
	}
	if len(updates) == 0 {
		return nil, ErrNoUpdates
	}

	c.log.Info().Int("feeds", len(ids)).Int("updates", len(updates)).Msg("Received price updates")
	return updates, nil
}

// FeedInfo is the metadata Hermes publishes for a price feed.
type FeedInfo struct {
	ID         string            `json:"id"`
	Attributes map[string]string `json:"attributes"`
}

// Symbol returns the display symbol, or an empty string when Hermes has none.
func (f FeedInfo) Symbol() string {
	return f.Attributes["symbol"]
}

// PriceFeeds lists the feeds Hermes knows about.
func (c *Client) PriceFeeds(ctx context.Context) ([]FeedInfo, error) {
	var feeds []FeedInfo
	if err := c.getJSON(ctx, "/v2/price_feeds", nil, &feeds); err != nil {
		return nil, err
	}
	return feeds, nil
}

// Find returns the entry matching id, comparing without the 0x prefix.
func Find(feeds []FeedInfo, id assets.FeedID) (FeedInfo, bool) {
	want := strings.TrimPrefix(id.Hex(), "0x")
	for _, f := range feeds {
		if strings.EqualFold(strings.TrimPrefix(f.ID, "0x"), want) {
			return f, true
		}
	}
	return FeedInfo{}, false
}

func (c *Client) getJSON(ctx context.Context, path string, q url.Values, out interface{}) error {
	endpoint := c.baseURL + path
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}
	c.log.Debug().Str("url", endpoint).Msg("Fetching")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("hermes request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("hermes returned status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to parse hermes response: %w", err)
	}
	return nil
}

// normalize converts one payload to lowercase 0x-prefixed hex.
func normalize(encoding, item string) (string, error) {
	switch strings.ToLower(encoding) {
	case "base64":
		raw, err := base64.StdEncoding.DecodeString(item)
		if err != nil {
			return "", fmt.Errorf("decode base64 update: %w", err)
		}
		return NormalizeBytes(raw), nil
	case "", "hex":
		return NormalizeHex(item)
	default:
		return "", fmt.Errorf("unsupported update encoding %q", encoding)
	}
}

// NormalizeHex adds the 0x marker when missing and checks the payload is valid hex.
func NormalizeHex(s string) (string, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if !strings.HasPrefix(s, "0x") {
		s = "0x" + s
	}
	if _, err := hexutil.Decode(s); err != nil {
		return "", fmt.Errorf("invalid hex update: %w", err)
	}
	return s, nil
}

// NormalizeBytes hex-encodes a raw payload with the 0x marker.
func NormalizeBytes(b []byte) string {
	return hexutil.Encode(b)
}
