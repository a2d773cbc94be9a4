// Package types defines the shared domain and wire types exchanged between
// the coldopen workflow, the generation service, and its clients.
package types

// ScrapeTier records how much of a prospect profile was recovered before
// opener generation ran.
type ScrapeTier string

const (
	// TierFull means a scrape succeeded and structured fields were parsed.
	TierFull ScrapeTier = "full"
	// TierPartial means a scrape succeeded but only loose text was recovered.
	TierPartial ScrapeTier = "partial"
	// TierManual means the profile text was supplied by the operator.
	TierManual ScrapeTier = "manual"
	// TierFailed means no usable profile could be obtained.
	TierFailed ScrapeTier = "failed"
)

// Research depth levels accepted by the generation service.
const (
	DepthLight  = "light"
	DepthMedium = "medium"
	DepthDeep   = "deep"
)

// Request defaults applied when a field is left empty.
const (
	DefaultCharLimit     = 300
	DefaultTone          = "professional"
	DefaultResearchDepth = DepthMedium
)

// BatchOptions carries the operator-tunable settings that apply to every
// URL in a batch.
type BatchOptions struct {
	MustInclude   string
	CharLimit     int
	Tone          string
	ResearchDepth string
}

// WithDefaults returns a copy of the options with zero values replaced by
// the documented defaults.
func (o BatchOptions) WithDefaults() BatchOptions {
	if o.CharLimit <= 0 {
		o.CharLimit = DefaultCharLimit
	}
	if o.Tone == "" {
		o.Tone = DefaultTone
	}
	if o.ResearchDepth == "" {
		o.ResearchDepth = DefaultResearchDepth
	}
	return o
}

// GenerationRequest is the body of POST /api/generate.
type GenerationRequest struct {
	URLs           []string          `json:"urls" validate:"required,min=1,dive,required"`
	MustInclude    string            `json:"must_include"`
	CharLimit      int               `json:"char_limit" validate:"omitempty,gte=50,lte=1000"`
	Tone           string            `json:"tone"`
	ResearchDepth  string            `json:"research_depth" validate:"omitempty,oneof=light medium deep"`
	ManualProfiles map[string]string `json:"manual_profiles,omitempty"`
}

// ApplyDefaults fills unset request fields in place.
func (r *GenerationRequest) ApplyDefaults() {
	if r.CharLimit <= 0 {
		r.CharLimit = DefaultCharLimit
	}
	if r.Tone == "" {
		r.Tone = DefaultTone
	}
	if r.ResearchDepth == "" {
		r.ResearchDepth = DefaultResearchDepth
	}
	if r.ManualProfiles == nil {
		r.ManualProfiles = map[string]string{}
	}
}

// GenerationResult is one per-URL entry in the service response.
type GenerationResult struct {
	URL              string     `json:"url"`
	Name             string     `json:"name,omitempty"`
	Opener           string     `json:"opener,omitempty"`
	ResearchSnippets []string   `json:"research_snippets,omitempty"`
	ScrapeTier       ScrapeTier `json:"scrape_tier"`
	Error            string     `json:"error,omitempty"`
}

// NeedsManual reports whether the result should be offered for a manual
// profile override: the scrape failed and no override exists for its URL.
func (r GenerationResult) NeedsManual(overrides map[string]string) bool {
	if r.ScrapeTier != TierFailed {
		return false
	}
	_, ok := overrides[r.URL]
	return !ok
}

// GenerateResponse is the body of a successful POST /api/generate.
type GenerateResponse struct {
	Results []GenerationResult `json:"results"`
}

// HealthStatus is the body of GET /api/health.
type HealthStatus struct {
	Status        string `json:"status"`
	LLMConfigured bool   `json:"llm_configured"`
}
