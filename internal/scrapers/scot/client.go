package scot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cattleprices/internal/components/assert"
	"cattleprices/internal/components/restyutil"
	"cattleprices/internal/components/telemetry"
	"cattleprices/internal/pattern"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"golang.org/x/net/html"
	"golang.org/x/time/rate"
)

const DefaultBaseUrl = "https://www.scotconsultoria.com.br"

const (
	report_client_extract = "client.extract"
	report_client_decode  = "client.decode"
	report_client_got     = "client.got-table"
)

// ErrTableNotFound is reported when a page was fetched but holds no subtree
// matching the table pattern.
var ErrTableNotFound = errors.New("table not found")

type Options struct {
	BaseUrl           string
	Timeout           time.Duration
	RequestsPerSecond float64
	UserAgent         string
	CloudflareBypass  bool
	// Dump receives every fetched page, it may be nil.
	Dump              restyutil.Output
}

// Client fetches Scot Consultoria pages and extracts their price tables.
type Client struct {
	http    *resty.Client
	limiter *rate.Limiter
	tel     telemetry.API
}

func NewClient(opts Options, tel telemetry.API) (Client, error) {
	assert.NotNil(tel)

	if opts.BaseUrl == "" {
		opts.BaseUrl = DefaultBaseUrl
	}
	if opts.RequestsPerSecond < 0 {
		return Client{}, fmt.Errorf("requests per second must not be negative, got %v", opts.RequestsPerSecond)
	}

	tel = telemetry.NewScopedAPI("scot_client", tel)

	client := resty.New()
	client.SetBaseURL(strings.TrimSuffix(opts.BaseUrl, "/"))
	if opts.Timeout > 0 {
		client.SetTimeout(opts.Timeout)
	}
	if opts.UserAgent != "" {
		client.SetHeader("user-agent", opts.UserAgent)
	}
	if opts.CloudflareBypass {
		client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	}

	c := Client{
		http: client,
		tel:  tel,
	}
	if opts.RequestsPerSecond > 0 {
		burst := max(1, int(opts.RequestsPerSecond))
		c.limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
		client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
			return c.limiter.Wait(req.Context())
		})
	}
	telemetry.InstrumentResty(client, tel)
	restyutil.InstrumentClient(client, nil, opts.Dump, tel)

	return c, nil
}

func (c Client) fetch(ctx context.Context, path string) (*html.Node, error) {
	res, err := c.http.R().
		SetContext(ctx).
		Get(path)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	if res.IsError() {
		return nil, fmt.Errorf("fetch: unexpected status %s", res.Status())
	}

	body, encoding := decodeBody(res.Body(), res.Header().Get("content-type"))
	c.tel.ReportDebug(report_client_decode, path, encoding)

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	return doc.Get(0), nil
}

// Extract fetches the page holding the table and returns its rows. Any failure
// (network, decoding or the table not being present) is reported as broken and
// yields ok == false, it never panics.
func (c Client) Extract(ctx context.Context, table TableType) (rows []pattern.Row, ok bool) {
	path := table.Path()

	doc, err := c.fetch(ctx, path)
	if err != nil {
		c.tel.ReportBroken(report_client_extract, err, table.String(), path)
		return nil, false
	}

	rows = pattern.Match(table.Pattern(), doc)
	if len(rows) == 0 {
		c.tel.ReportBroken(report_client_extract, ErrTableNotFound, table.String(), path)
		return nil, false
	}
	c.tel.ReportDebug(report_client_got, table.String(), len(rows))

	return table.Filter(rows), true
}
