// Package bank holds the statement-convention registry used to identify
// which institution produced a block of statement text.
package bank

import (
	"regexp"
	"sync"
)

// Statement layout hints a profile can declare.
const (
	LayoutTabular   = "tabular"
	LayoutNarrative = "narrative"
	LayoutCSV       = "csv"
	LayoutAuto      = "auto"
)

// GenericKey identifies the fallback profile used when no signature matches.
const GenericKey = "generic"

// detectWindow bounds how much of the statement is sampled for signatures.
const detectWindow = 2000

// Profile describes one institution's statement conventions. Profiles are
// treated as immutable once registered.
type Profile struct {
	Key         string
	Name        string
	Detection   []*regexp.Regexp
	DateFormats []string // regex sources, tried before the universal set
	Layouts     []string
	Currency    string
	Adaptive    bool // broaden parsing for unknown statement shapes
}

// Registry is an ordered collection of profiles. Registration order is the
// detection order. The zero value is an empty registry ready to use; only
// NewRegistry pre-loads the built-in profiles.
type Registry struct {
	mu       sync.RWMutex
	order    []string
	profiles map[string]Profile
}

// NewRegistry returns a registry pre-loaded with the built-in profiles.
func NewRegistry() *Registry {
	r := &Registry{profiles: map[string]Profile{}}
	for _, p := range builtinProfiles() {
		r.Register(p.Key, p)
	}
	return r
}

// Register adds or replaces a profile. Re-registering a key keeps its
// original position in detection order.
func (r *Registry) Register(key string, p Profile) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.profiles == nil {
		r.profiles = map[string]Profile{}
	}
	p.Key = key
	if _, exists := r.profiles[key]; !exists {
		r.order = append(r.order, key)
	}
	r.profiles[key] = p
}

// Get returns the profile registered under key.
func (r *Registry) Get(key string) (Profile, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.profiles[key]
	return p, ok
}

// Keys returns the registered keys in detection order.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Detect samples the head of the statement text against every registered
// profile's signatures and returns the first match in registration order.
// The generic profile never participates in the pass; it is the fallback.
func (r *Registry) Detect(text string) Profile {
	sample := text
	if len(sample) > detectWindow {
		sample = sample[:detectWindow]
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, key := range r.order {
		if key == GenericKey {
			continue
		}
		p := r.profiles[key]
		for _, re := range p.Detection {
			if re.MatchString(sample) {
				return p
			}
		}
	}
	return r.profiles[GenericKey]
}

func builtinProfiles() []Profile {
	return []Profile{
		{
			Key:  "chase",
			Name: "Chase",
			Detection: []*regexp.Regexp{
				regexp.MustCompile(`(?i)JPMorgan Chase`),
				regexp.MustCompile(`(?i)Chase Bank`),
				regexp.MustCompile(`(?i)chase\.com`),
			},
			DateFormats: []string{`\b\d{2}/\d{2}\b`},
			Layouts:     []string{LayoutTabular},
			Currency:    "$",
		},
		{
			Key:  "bofa",
			Name: "Bank of America",
			Detection: []*regexp.Regexp{
				regexp.MustCompile(`(?i)Bank of America`),
				regexp.MustCompile(`(?i)bankofamerica\.com`),
			},
			DateFormats: []string{`\b\d{2}/\d{2}/\d{2,4}\b`},
			Layouts:     []string{LayoutTabular},
			Currency:    "$",
		},
		{
			Key:  "wellsfargo",
			Name: "Wells Fargo",
			Detection: []*regexp.Regexp{
				regexp.MustCompile(`(?i)Wells Fargo`),
				regexp.MustCompile(`(?i)wellsfargo\.com`),
			},
			DateFormats: []string{`\b\d{1,2}/\d{1,2}\b`},
			Layouts:     []string{LayoutNarrative, LayoutTabular},
			Currency:    "$",
		},
		{
			Key:  "citi",
			Name: "Citibank",
			Detection: []*regexp.Regexp{
				regexp.MustCompile(`(?i)Citibank`),
				regexp.MustCompile(`(?i)citi(?:group|cards)`),
			},
			DateFormats: []string{`\b\d{2}/\d{2}/\d{2}\b`},
			Layouts:     []string{LayoutTabular},
			Currency:    "$",
		},
		{
			Key:  "capitalone",
			Name: "Capital One",
			Detection: []*regexp.Regexp{
				regexp.MustCompile(`(?i)Capital One`),
				regexp.MustCompile(`(?i)capitalone\.com`),
			},
			DateFormats: []string{`\b(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)\s+\d{1,2}\b`},
			Layouts:     []string{LayoutTabular, LayoutCSV},
			Currency:    "$",
		},
		{
			Key:      GenericKey,
			Name:     "Unknown Bank",
			Layouts:  []string{LayoutAuto},
			Currency: "$",
			Adaptive: true,
		},
	}
}
