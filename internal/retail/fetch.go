package retail

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"golang.org/x/net/html/charset"

	domain "github.com/donaldgifford/slash/pkg/types"
)

const (
	defaultTimeout   = 15 * time.Second
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
)

type options struct {
	timeout    time.Duration
	userAgent  string
	httpClient *http.Client
}

// Option configures the HTTP behaviour of a source.
type Option func(*options)

// WithTimeout bounds a single fetch.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithUserAgent overrides the User-Agent header sent to retailers.
func WithUserAgent(ua string) Option {
	return func(o *options) {
		if ua != "" {
			o.userAgent = ua
		}
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.httpClient = c
	}
}

func newRestyClient(opts []Option) *resty.Client {
	o := options{timeout: defaultTimeout, userAgent: defaultUserAgent}
	for _, opt := range opts {
		opt(&o)
	}

	var rc *resty.Client
	if o.httpClient != nil {
		rc = resty.NewWithClient(o.httpClient)
	} else {
		rc = resty.New()
	}

	return rc.
		SetTimeout(o.timeout).
		SetHeader("User-Agent", o.userAgent).
		SetHeader("Accept-Language", "en-US,en;q=0.9")
}

// get issues exactly one GET request and returns the response body, or a
// typed *Error describing the failure.
func get(
	ctx context.Context,
	rc *resty.Client,
	site domain.Site,
	url string,
	params map[string]string,
	accept string,
) (*resty.Response, error) {
	resp, err := rc.R().
		SetContext(ctx).
		SetHeader("Accept", accept).
		SetQueryParams(params).
		Get(url)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Site: site, Err: err}
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, &Error{
			Kind:       KindStatus,
			Site:       site,
			StatusCode: resp.StatusCode(),
			Err:        errors.New(http.StatusText(resp.StatusCode())),
		}
	}

	return resp, nil
}

// fetchDocument GETs an HTML page, converts it to UTF-8 and parses it.
func fetchDocument(
	ctx context.Context,
	rc *resty.Client,
	site domain.Site,
	url string,
	params map[string]string,
) (*goquery.Document, error) {
	resp, err := get(ctx, rc, site, url, params, "text/html,application/xhtml+xml")
	if err != nil {
		return nil, err
	}

	body, err := toUTF8(resp.Body(), resp.Header().Get("Content-Type"))
	if err != nil {
		return nil, &Error{Kind: KindParse, Site: site, Err: err}
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, &Error{Kind: KindParse, Site: site, Err: fmt.Errorf("parsing HTML: %w", err)}
	}

	return doc, nil
}

// toUTF8 determines the encoding from the Content-Type header and body and
// converts the body to UTF-8 when needed.
func toUTF8(body []byte, contentType string) (io.Reader, error) {
	enc, name, _ := charset.DetermineEncoding(body, contentType)
	if name == "utf-8" {
		return bytes.NewReader(body), nil
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, enc.NewDecoder().Reader(bytes.NewReader(body))); err != nil {
		return nil, fmt.Errorf("converting %s body to UTF-8: %w", name, err)
	}
	return &buf, nil
}
