// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the usdm-repo client.
// The content types mirror the repository's JSON shapes, so their tags use
// the camelCase names the front-end consumes.
package types

// AuthType selects which authentication header the request client attaches.
type AuthType string

const (
	AuthBearer AuthType = "bearer"
	AuthAPIKey AuthType = "api-key"
	AuthBasic  AuthType = "basic"
)

// AuthConfig holds repository credentials. A nil *AuthConfig means the
// client is unauthenticated.
type AuthConfig struct {
	// Type selects the header: bearer, api-key, or basic. Any other value
	// attaches no header.
	Type AuthType `json:"type" yaml:"type" mapstructure:"type"`

	// APIKey is the credential value. An empty key attaches no header.
	APIKey string `json:"apiKey,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`
}

// SearchAll is the SearchConfig.Type sentinel that disables type filtering.
const SearchAll = "all"

// SearchConfig describes a repository search.
type SearchConfig struct {
	// Query is the free-text search string, sent as q.
	Query string `json:"query" yaml:"query"`

	// Type is "all" or a content category name (e.g. "activities").
	Type string `json:"type" yaml:"type"`

	// Filters narrows the search. Empty fields are unconstrained.
	Filters FilterSet `json:"filters" yaml:"filters"`
}

// FilterSet holds the optional search filters. The url tags give the
// snake_case parameter names the repository expects.
type FilterSet struct {
	Phase           string `json:"phase,omitempty" yaml:"phase,omitempty" url:"phase,omitempty"`
	TherapeuticArea string `json:"therapeuticArea,omitempty" yaml:"therapeutic_area,omitempty" url:"therapeutic_area,omitempty"`
	StudyType       string `json:"studyType,omitempty" yaml:"study_type,omitempty" url:"study_type,omitempty"`
	DateFrom        string `json:"dateFrom,omitempty" yaml:"date_from,omitempty" url:"date_from,omitempty"`
	DateTo          string `json:"dateTo,omitempty" yaml:"date_to,omitempty" url:"date_to,omitempty"`
}

// ResultItem is a search hit normalized from whatever field names the
// repository used.
type ResultItem struct {
	ID              string `json:"id" yaml:"id"`
	Title           string `json:"title" yaml:"title"`
	Description     string `json:"description" yaml:"description"`
	Type            string `json:"type" yaml:"type"`
	Phase           string `json:"phase,omitempty" yaml:"phase,omitempty"`
	TherapeuticArea string `json:"therapeuticArea,omitempty" yaml:"therapeutic_area,omitempty"`
	StudyType       string `json:"studyType,omitempty" yaml:"study_type,omitempty"`
	CreatedDate     string `json:"createdDate,omitempty" yaml:"created_date,omitempty"`
	ModifiedDate    string `json:"modifiedDate,omitempty" yaml:"modified_date,omitempty"`
}

// Relationship links a content item to another repository object.
type Relationship struct {
	Type        string `json:"type" yaml:"type"`
	Target      string `json:"target" yaml:"target"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// DetailedContent is the full record for a single content item.
type DetailedContent struct {
	ID            string         `json:"id" yaml:"id"`
	Title         string         `json:"title" yaml:"title"`
	Description   string         `json:"description" yaml:"description"`
	Type          string         `json:"type" yaml:"type"`
	Metadata      map[string]any `json:"metadata" yaml:"metadata"`
	Properties    map[string]any `json:"properties" yaml:"properties"`
	Relationships []Relationship `json:"relationships" yaml:"relationships"`

	// Raw is the repository's answer when it was not a JSON object.
	Raw any `json:"raw,omitempty" yaml:"raw,omitempty"`
}

// DownloadMetadata describes a JSON download bundle.
type DownloadMetadata struct {
	// DownloadDate is an RFC 3339 timestamp.
	DownloadDate string         `json:"downloadDate" yaml:"download_date"`
	ItemCount    int            `json:"itemCount" yaml:"item_count"`
	Options      map[string]any `json:"options" yaml:"options"`
}

// DownloadBundle is the structured form of a bulk download. JSON bundles
// carry Metadata; bundles for other formats carry a suggested Filename.
type DownloadBundle struct {
	Format   string            `json:"format" yaml:"format"`
	Content  []DetailedContent `json:"content" yaml:"content"`
	Metadata *DownloadMetadata `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	Filename string            `json:"filename,omitempty" yaml:"filename,omitempty"`
}

// Download is the result of a bulk download request.
type Download struct {
	Format string

	// Bundle is set for generated bundles and for JSON responses shaped as
	// a bundle object or a bare content array.
	Bundle *DownloadBundle

	// Payload holds the raw bytes of a live response. It is nil for
	// generated bundles.
	Payload []byte
}

// ConnectionResult reports a successful connectivity probe. Data is the
// decoded JSON body, the body as a string when it is not JSON, or nil.
type ConnectionResult struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}
