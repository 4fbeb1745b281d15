// Package portal implements the Fetcher (spec.md §4.8): HTTP GET
// against the legacy portal with Latin-1 response decoding, a
// configurable per-attempt timeout, and bounded retries with uniform
// jitter backoff on transport and 5xx errors.
package portal

import (
	"context"
	"io"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/saludunivalle/cosecha/internal/herrors"
	"github.com/saludunivalle/cosecha/internal/normalize"
)

// Config configures one Fetcher instance.
type Config struct {
	Timeout    time.Duration
	MaxRetries int // default 3
	DelayMin   time.Duration // default 500ms
	DelayMax   time.Duration // default 1s
	UserAgent  string
}

// DefaultConfig matches spec.md §4.8's defaults.
func DefaultConfig() Config {
	return Config{
		Timeout:    20 * time.Second,
		MaxRetries: 3,
		DelayMin:   500 * time.Millisecond,
		DelayMax:   1 * time.Second,
		UserAgent:  "cosecha/1.0 (+https://github.com/saludunivalle/cosecha)",
	}
}

// Fetcher issues GET requests against the portal and decodes the
// response as Latin-1.
type Fetcher struct {
	cfg    Config
	client *http.Client
}

func NewFetcher(cfg Config) *Fetcher {
	return &Fetcher{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// minBodyBytes is the threshold below which a response is treated as
// EmptyOrErrorPage (spec.md §4.8).
const minBodyBytes = 100

// FetchDecoded retrieves url, retrying per Config on transport failures
// and 5xx responses, and returns the body decoded through the Text
// Normalizer pipeline (Latin-1 decode, entity decode, mojibake repair).
func (f *Fetcher) FetchDecoded(ctx context.Context, url string) (string, error) {
	raw, err := f.fetchBytes(ctx, url)
	if err != nil {
		return "", err
	}
	if len(raw) < minBodyBytes {
		return "", &herrors.EmptyOrErrorPageError{URL: url, Reason: "body shorter than 100 bytes"}
	}

	decoded := normalize.Pipeline(raw)
	if strings.Contains(strings.ToLower(decoded), "error") {
		return "", &herrors.EmptyOrErrorPageError{URL: url, Reason: "document contains literal \"error\" marker"}
	}
	return decoded, nil
}

// uniformJitterBackOff implements backoff.BackOff with a flat uniform
// random delay in [min, max] on every attempt, per spec.md §4.8 (as
// opposed to the library's usual exponential growth).
type uniformJitterBackOff struct {
	min, max time.Duration
}

func (b *uniformJitterBackOff) NextBackOff() time.Duration {
	if b.max <= b.min {
		return b.min
	}
	span := int64(b.max - b.min)
	return b.min + time.Duration(rand.Int63n(span))
}

func (b *uniformJitterBackOff) Reset() {}

func (f *Fetcher) fetchBytes(ctx context.Context, url string) ([]byte, error) {
	var result []byte

	retries := f.cfg.MaxRetries - 1
	if retries < 0 {
		retries = 0
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(&uniformJitterBackOff{min: f.cfg.DelayMin, max: f.cfg.DelayMax}, uint64(retries)),
		ctx,
	)

	err := backoff.Retry(func() error {
		body, err := f.doRequest(ctx, url)
		if err != nil {
			if !isRetryable(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		result = body
		return nil
	}, policy)

	if err != nil {
		if perm, ok := err.(*backoff.PermanentError); ok {
			return nil, perm.Err
		}
		return nil, err
	}
	return result, nil
}

func (f *Fetcher) doRequest(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &herrors.TransportError{URL: url, Err: err}
	}
	req.Header.Set("User-Agent", f.cfg.UserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &herrors.TransportError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &herrors.HTTPError{URL: url, Code: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &herrors.TransportError{URL: url, Err: err}
	}
	return body, nil
}

func isRetryable(err error) bool {
	switch e := err.(type) {
	case *herrors.TransportError:
		return true
	case *herrors.HTTPError:
		return e.Retryable()
	default:
		return false
	}
}
