// Package catalog holds the static registry of technologies and the KPI keys each one exposes.
package catalog

import (
	"fmt"
	"slices"
	"strings"
	"sync"
)

// Technology identifies a network generation table on the KPI API.
type Technology string

const (
	// GSM is the 2G table.
	GSM Technology = "gsm"
	// UMTS is the 3G table.
	UMTS Technology = "umts"
	// LMBB is the 4G/LTE mobile broadband table.
	LMBB Technology = "lmbb"
)

// String returns the wire name of the technology.
func (t Technology) String() string {
	return string(t)
}

// Metadata describes how a KPI key is presented to users.
type Metadata struct {
	DisplayName string   `json:"displayName"`
	Synonyms    []string `json:"synonyms"`
}

// Catalog is an immutable mapping of technologies to their KPI keys.
// All methods are safe for concurrent use.
type Catalog struct {
	technologies []Technology
	kpis         map[Technology][]string
	metadata     map[string]Metadata
	global       []string
	globalSet    map[string]struct{}
}

// New builds a catalog from per-technology key lists and metadata.
// Technology order follows the order of the techs slice.
func New(techs []Technology, kpis map[Technology][]string, metadata map[string]Metadata) *Catalog {
	c := &Catalog{
		technologies: slices.Clone(techs),
		kpis:         make(map[Technology][]string, len(kpis)),
		metadata:     make(map[string]Metadata, len(metadata)),
		globalSet:    make(map[string]struct{}),
	}

	for _, tech := range c.technologies {
		keys := kpis[tech]
		seen := make(map[string]struct{}, len(keys))
		deduped := make([]string, 0, len(keys))
		for _, key := range keys {
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			deduped = append(deduped, key)

			if _, ok := c.globalSet[key]; !ok {
				c.globalSet[key] = struct{}{}
				c.global = append(c.global, key)
			}
		}
		c.kpis[tech] = deduped
	}

	for key, meta := range metadata {
		c.metadata[key] = Metadata{
			DisplayName: meta.DisplayName,
			Synonyms:    slices.Clone(meta.Synonyms),
		}
	}

	return c
}

var defaultCatalog = sync.OnceValue(func() *Catalog {
	return New(
		[]Technology{GSM, UMTS, LMBB},
		defaultKPIs,
		defaultMetadata,
	)
})

// Default returns the process-wide catalog. It is built on first use and never changes.
func Default() *Catalog {
	return defaultCatalog()
}

// Technologies returns the known technologies in catalog order.
func (c *Catalog) Technologies() []Technology {
	return slices.Clone(c.technologies)
}

// ParseTechnology resolves a wire name (case-insensitive) to a known technology.
func (c *Catalog) ParseTechnology(name string) (Technology, error) {
	candidate := Technology(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := c.kpis[candidate]; ok {
		return candidate, nil
	}
	return "", fmt.Errorf("unknown technology %q (expected one of %s)", name, c.technologyList())
}

// HasTechnology reports whether the exact wire name is a known technology.
func (c *Catalog) HasTechnology(t Technology) bool {
	_, ok := c.kpis[t]
	return ok
}

// AllowedKPIs returns the KPI keys legal for a technology, in catalog order.
// Unknown technologies yield nil.
func (c *Catalog) AllowedKPIs(t Technology) []string {
	return slices.Clone(c.kpis[t])
}

// Metadata returns the display metadata for a KPI key.
func (c *Catalog) Metadata(key string) (Metadata, bool) {
	meta, ok := c.metadata[key]
	if !ok {
		return Metadata{}, false
	}
	return Metadata{
		DisplayName: meta.DisplayName,
		Synonyms:    slices.Clone(meta.Synonyms),
	}, true
}

// DisplayName returns the human label for a key, falling back to the key itself.
func (c *Catalog) DisplayName(key string) string {
	if meta, ok := c.metadata[key]; ok && meta.DisplayName != "" {
		return meta.DisplayName
	}
	return key
}

// GlobalKeys returns the union of every technology's KPI keys, each key once,
// in first-seen catalog order.
func (c *Catalog) GlobalKeys() []string {
	return slices.Clone(c.global)
}

// IsGlobalKey reports whether key belongs to any technology.
//
// Request validation checks keys against this union rather than against the
// selected technology, so a key from another technology passes. Callers that
// need the stricter check should use AllowedKPIs.
func (c *Catalog) IsGlobalKey(key string) bool {
	_, ok := c.globalSet[key]
	return ok
}

// Search returns the keys whose name, display name or synonyms contain term,
// case-insensitively, in global order. An empty term matches everything.
func (c *Catalog) Search(term string) []string {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return c.GlobalKeys()
	}

	var matches []string
	for _, key := range c.global {
		if matchesTerm(key, c.metadata[key], term) {
			matches = append(matches, key)
		}
	}
	return matches
}

// Matches reports whether key matches term under the same rules as Search.
func (c *Catalog) Matches(key, term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	return term == "" || matchesTerm(key, c.metadata[key], term)
}

func matchesTerm(key string, meta Metadata, term string) bool {
	if strings.Contains(strings.ToLower(key), term) {
		return true
	}
	if strings.Contains(strings.ToLower(meta.DisplayName), term) {
		return true
	}
	for _, syn := range meta.Synonyms {
		if strings.Contains(strings.ToLower(syn), term) {
			return true
		}
	}
	return false
}

func (c *Catalog) technologyList() string {
	names := make([]string, len(c.technologies))
	for i, t := range c.technologies {
		names[i] = t.String()
	}
	return strings.Join(names, ", ")
}

// ToolDescription renders the catalog as the description handed to the query tool's caller.
func (c *Catalog) ToolDescription() string {
	var b strings.Builder

	b.WriteString("Retrieve KPI metrics from the KPI API.\n\n")
	b.WriteString("Supported technologies and their KPIs:\n")
	for _, tech := range c.technologies {
		fmt.Fprintf(&b, "  - %s: %s\n", tech, strings.Join(c.kpis[tech], ", "))
	}

	b.WriteString("\nKPI metadata:\n")
	for _, key := range c.global {
		meta, ok := c.metadata[key]
		if !ok {
			continue
		}
		if len(meta.Synonyms) > 0 {
			fmt.Fprintf(&b, "  - %s -> %s (synonyms: %s)\n", key, meta.DisplayName, strings.Join(meta.Synonyms, ", "))
		} else {
			fmt.Fprintf(&b, "  - %s -> %s\n", key, meta.DisplayName)
		}
	}

	b.WriteString("\nThe tool requires a technology, a start_date/end_date (YYYY-MM-DD) and at least one KPI from the list above.\n")
	b.WriteString("You must also filter by either element or site substring. Optionally specify a limit.\n")
	return b.String()
}
