// Package restyutil traces resty requests with otel spans and can dump every
// exchange somewhere for later inspection (ex. to refresh test fixtures).
package restyutil

import (
	"fmt"
	"net/url"
	"strings"
	"sync/atomic"

	"cattleprices/internal/components/telemetry"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/semconv/v1.13.0/httpconv"
	"go.opentelemetry.io/otel/trace"
)

const (
	report_dump_write = "dump.write"
)

type Output interface {
	Write(id string, contents string) error
}

type instrumentCtx struct {
	output    Output
	tracer    trace.Tracer
	tel       telemetry.API
	idcounter *uint64
}

// InstrumentClient starts a span for every request. `tracer` can be nil, it will
// default to a library name of "resty". `output` can also be nil, if it isn't every
// response is written to it.
func InstrumentClient(client *resty.Client, tracer trace.Tracer, output Output, tel telemetry.API) {
	if tracer == nil {
		tracer = otel.Tracer("resty")
	}

	var idcounter uint64
	i := instrumentCtx{
		output:    output,
		tracer:    tracer,
		tel:       tel,
		idcounter: &idcounter,
	}
	client.OnBeforeRequest(i.onBeforeRequest)
	client.OnAfterResponse(i.onAfterResponse)
	client.OnError(i.onError)
}

func (i instrumentCtx) onBeforeRequest(_ *resty.Client, req *resty.Request) error {
	ctx, _ := i.tracer.Start(req.Context(), fmt.Sprintf("http %s", req.Method))
	req.SetContext(ctx)
	return nil
}

// messageId names a dump after the order it was received in and the request path.
func messageId(n uint64, rawUrl string) string {
	name := "root"
	parsed, err := url.Parse(rawUrl)
	if err == nil {
		trimmed := strings.Trim(parsed.Path, "/")
		if trimmed != "" {
			name = strings.ReplaceAll(trimmed, "/", "_")
		}
	}
	return fmt.Sprintf("%04d-%s.http", n, name)
}

func (i instrumentCtx) onAfterResponse(_ *resty.Client, res *resty.Response) error {
	span := trace.SpanFromContext(res.Request.Context())
	defer span.End()

	if res.RawResponse != nil {
		span.SetAttributes(httpconv.ClientResponse(res.RawResponse)...)
	}
	if res.Request.RawRequest != nil {
		span.SetAttributes(httpconv.ClientRequest(res.Request.RawRequest)...)
	}
	if res.IsError() {
		span.SetStatus(codes.Error, res.Status())
	}

	if i.output == nil {
		return nil
	}
	id := messageId(atomic.AddUint64(i.idcounter, 1), res.Request.URL)
	err := i.output.Write(id, FormatExchange(res))
	if err != nil {
		i.tel.ReportWarning(report_dump_write, err, id)
	}
	return nil
}

func (i instrumentCtx) onError(req *resty.Request, err error) {
	span := trace.SpanFromContext(req.Context())
	defer span.End()

	span.RecordError(err)
	span.SetStatus(codes.Error, "request failed")
	if req.RawRequest != nil {
		span.SetAttributes(httpconv.ClientRequest(req.RawRequest)...)
	}
}
