// Package query validates candidate KPI queries and turns them into request descriptors.
package query

import (
	"fmt"
	"math"
	"net/url"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/j-veylop/kpi-dashboard-tui/internal/catalog"
)

// datePattern is matched against the whole date string; no other formats are accepted.
var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// maxLimit bounds the row limit so it always fits an int on every platform.
const maxLimit = math.MaxInt32

// Candidate is an unvalidated query as received from a caller.
// Element and Site are treated as absent when empty.
type Candidate struct {
	Technology string   `json:"technology"`
	StartDate  string   `json:"start_date"`
	EndDate    string   `json:"end_date"`
	Element    string   `json:"element,omitempty"`
	Site       string   `json:"site,omitempty"`
	KPI        []string `json:"kpi"`
	Limit      *float64 `json:"limit,omitempty"`
}

// Descriptor is a validated query ready to be sent to the KPI API.
type Descriptor struct {
	Technology catalog.Technology `json:"technology"`
	StartDate  string             `json:"start_date"`
	EndDate    string             `json:"end_date"`
	Element    string             `json:"element,omitempty"`
	Site       string             `json:"site,omitempty"`
	KPIs       []string           `json:"kpi"`
	Limit      int                `json:"limit,omitempty"` // 0 means no limit
}

// HasLimit reports whether a row limit was requested.
func (d *Descriptor) HasLimit() bool {
	return d.Limit > 0
}

// Values encodes the descriptor as URL query parameters. KPI keys are
// repeated once per entry, in order.
func (d *Descriptor) Values() url.Values {
	v := url.Values{}
	v.Set("technology", d.Technology.String())
	v.Set("start_date", d.StartDate)
	v.Set("end_date", d.EndDate)
	if d.Element != "" {
		v.Set("element", d.Element)
	}
	if d.Site != "" {
		v.Set("site", d.Site)
	}
	for _, key := range d.KPIs {
		v.Add("kpi", key)
	}
	if d.HasLimit() {
		v.Set("limit", strconv.Itoa(d.Limit))
	}
	return v
}

// Encode renders the query string with parameters in request order:
// technology, start_date, end_date, element, site, each kpi, limit.
// url.Values.Encode would sort the keys instead.
func (d *Descriptor) Encode() string {
	var b strings.Builder
	add := func(key, value string) {
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(value))
	}

	add("technology", d.Technology.String())
	add("start_date", d.StartDate)
	add("end_date", d.EndDate)
	if d.Element != "" {
		add("element", d.Element)
	}
	if d.Site != "" {
		add("site", d.Site)
	}
	for _, key := range d.KPIs {
		add("kpi", key)
	}
	if d.HasLimit() {
		add("limit", strconv.Itoa(d.Limit))
	}
	return b.String()
}

// ValidationError reports the first rule a candidate failed.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "invalid query: " + e.Message
	}
	return fmt.Sprintf("invalid query: %s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// Builder validates candidates against a catalog.
type Builder struct {
	catalog *catalog.Catalog
}

// NewBuilder creates a builder bound to cat. A nil catalog means catalog.Default().
func NewBuilder(cat *catalog.Catalog) *Builder {
	if cat == nil {
		cat = catalog.Default()
	}
	return &Builder{catalog: cat}
}

// Catalog returns the catalog the builder validates against.
func (b *Builder) Catalog() *catalog.Catalog {
	return b.catalog
}

// Build validates c against the default catalog.
func Build(c Candidate) (*Descriptor, error) {
	return NewBuilder(nil).Build(c)
}

// Build validates c and returns a descriptor, or a *ValidationError for the
// first failing rule. Rules run in this order: technology, dates, kpi list,
// element/site presence, limit.
func (b *Builder) Build(c Candidate) (*Descriptor, error) {
	tech := catalog.Technology(c.Technology)
	if !b.catalog.HasTechnology(tech) {
		return nil, invalid("technology", "must be one of %s", joinTechnologies(b.catalog.Technologies()))
	}

	if !datePattern.MatchString(c.StartDate) {
		return nil, invalid("start_date", "must be YYYY-MM-DD")
	}
	if !datePattern.MatchString(c.EndDate) {
		return nil, invalid("end_date", "must be YYYY-MM-DD")
	}

	if len(c.KPI) == 0 {
		return nil, invalid("kpi", "You must request at least one KPI")
	}
	// Keys are checked against the union of all technologies, not the selected one.
	for i, key := range c.KPI {
		if !b.catalog.IsGlobalKey(key) {
			return nil, invalid(fmt.Sprintf("kpi.%d", i), "unknown KPI %q", key)
		}
	}

	if c.Element == "" && c.Site == "" {
		return nil, invalid("element", "You must provide at least one of `element` or `site`")
	}

	limit := 0
	if c.Limit != nil {
		v := *c.Limit
		switch {
		case math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v):
			return nil, invalid("limit", "must be an integer")
		case v <= 0:
			return nil, invalid("limit", "must be a positive integer")
		case v > maxLimit:
			return nil, invalid("limit", "must not exceed %d", maxLimit)
		}
		limit = int(v)
	}

	return &Descriptor{
		Technology: tech,
		StartDate:  c.StartDate,
		EndDate:    c.EndDate,
		Element:    c.Element,
		Site:       c.Site,
		KPIs:       slices.Clone(c.KPI),
		Limit:      limit,
	}, nil
}

func joinTechnologies(techs []catalog.Technology) string {
	names := make([]string, len(techs))
	for i, t := range techs {
		names[i] = t.String()
	}
	return strings.Join(names, ", ")
}
