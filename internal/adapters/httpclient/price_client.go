package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ratesync/internal/domain"
)

const usdSymbol = "USD"

// PriceClient fetches spot conversion rates from a CryptoCompare-style
// price endpoint: GET {base}/data/price?fsym=<asset>&tsyms=<codes>.
type PriceClient struct {
	http    *http.Client
	baseURL string
	now     func() time.Time
}

type errorEnvelope struct {
	Response string `json:"Response"`
	Message  string `json:"Message"`
}

func (c *PriceClient) GetConversionRate(ctx context.Context, quote string, base string, includeUSD bool) (domain.RateQuote, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return domain.RateQuote{}, fmt.Errorf("failed to parse base URL: %w", err)
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/data/price"

	fsym := strings.ToUpper(base)
	tsyms := strings.ToUpper(quote)
	if includeUSD && !strings.EqualFold(quote, usdSymbol) {
		tsyms += "," + usdSymbol
	}
	q := u.Query()
	q.Set("fsym", fsym)
	q.Set("tsyms", tsyms)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return domain.RateQuote{}, fmt.Errorf("failed to create request for pair %q/%q: %w", base, quote, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.RateQuote{}, fmt.Errorf("failed to execute request for pair %q/%q: %w", base, quote, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.RateQuote{}, fmt.Errorf("unexpected status %d for pair %q/%q: %s", resp.StatusCode, base, quote, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.RateQuote{}, fmt.Errorf("failed to read response for pair %q/%q: %w", base, quote, err)
	}

	// The price endpoint reports failures inside a 200 response.
	var env errorEnvelope
	if err = json.Unmarshal(body, &env); err == nil && env.Response == "Error" {
		return domain.RateQuote{}, fmt.Errorf("%w: %s", domain.ErrUpstreamRejected, env.Message)
	}

	var rates map[string]float64
	if err = json.Unmarshal(body, &rates); err != nil {
		return domain.RateQuote{}, fmt.Errorf("failed to decode response for pair %q/%q: %w", base, quote, err)
	}

	rate, ok := rates[strings.ToUpper(quote)]
	if !ok {
		return domain.RateQuote{}, fmt.Errorf("response for %q is missing rate for %q", base, quote)
	}

	result := domain.RateQuote{
		ConversionDate: c.now().UnixMilli(),
		ConversionRate: rate,
	}
	if includeUSD {
		if usd, ok := rates[usdSymbol]; ok {
			result.USDConversionRate = &usd
		}
	}
	return result, nil
}

func NewPriceClient(httpClient *http.Client, baseURL string) *PriceClient {
	return &PriceClient{http: httpClient, baseURL: baseURL, now: time.Now}
}
