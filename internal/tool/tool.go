// Package tool exposes KPI retrieval as a callable tool for an orchestration layer.
package tool

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/j-veylop/kpi-dashboard-tui/internal/query"
	"github.com/j-veylop/kpi-dashboard-tui/internal/services/kpi"
)

// Name is the tool name advertised to callers.
const Name = "getKPI"

// Fetcher performs the network call for a validated descriptor.
type Fetcher interface {
	Fetch(ctx context.Context, d *query.Descriptor) (json.RawMessage, error)
}

// GetKPI validates tool arguments, fetches the data and returns the decoded JSON.
type GetKPI struct {
	builder *query.Builder
	fetcher Fetcher
}

// NewGetKPI creates the tool. A nil builder validates against the default catalog.
func NewGetKPI(builder *query.Builder, fetcher Fetcher) *GetKPI {
	if builder == nil {
		builder = query.NewBuilder(nil)
	}
	return &GetKPI{builder: builder, fetcher: fetcher}
}

// Name returns the tool name.
func (g *GetKPI) Name() string {
	return Name
}

// Description returns the catalog-derived description shown to the caller.
func (g *GetKPI) Description() string {
	return g.builder.Catalog().ToolDescription()
}

// DecodeArgs decodes raw tool arguments into a candidate. Unknown fields and
// anything after the object are rejected.
func DecodeArgs(args json.RawMessage) (query.Candidate, error) {
	var c query.Candidate
	dec := json.NewDecoder(bytes.NewReader(args))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&c); err != nil {
		return query.Candidate{}, &query.ValidationError{Message: fmt.Sprintf("malformed arguments: %v", err)}
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return query.Candidate{}, &query.ValidationError{Message: "malformed arguments: trailing data after object"}
	}
	return c, nil
}

// Call runs the tool. Errors are *query.ValidationError or *kpi.ExecutionError.
func (g *GetKPI) Call(ctx context.Context, args json.RawMessage) (any, error) {
	c, err := DecodeArgs(args)
	if err != nil {
		return nil, err
	}
	return g.CallCandidate(ctx, c)
}

// CallCandidate runs the tool for an already decoded candidate.
func (g *GetKPI) CallCandidate(ctx context.Context, c query.Candidate) (any, error) {
	d, err := g.builder.Build(c)
	if err != nil {
		return nil, err
	}

	body, err := g.fetcher.Fetch(ctx, d)
	if err != nil {
		return nil, err
	}

	var out any
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, &kpi.ExecutionError{Kind: kpi.KindParse, Err: err}
	}
	return out, nil
}
