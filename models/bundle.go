package models

import (
	"errors"
	"strings"
	"time"
)

// Bundle types used by the engine.
const (
	BundleTypeSearchSet           = "searchset"
	BundleTypeTransaction         = "transaction"
	BundleTypeTransactionResponse = "transaction-response"
	BundleTypeBatchResponse       = "batch-response"
)

// Bundle is a container of resources, used for search pages, summary counts
// and transaction uploads.
type Bundle struct {
	ResourceType string        `json:"resourceType"`
	Type         string        `json:"type"`
	Total        *int          `json:"total,omitempty"`
	Link         []BundleLink  `json:"link,omitempty"`
	Entry        []BundleEntry `json:"entry,omitempty"`
}

// BundleLink is a navigation link of a search page.
type BundleLink struct {
	Relation string `json:"relation"`
	URL      string `json:"url"`
}

// BundleEntry is a single entry of a bundle.
type BundleEntry struct {
	FullURL  string               `json:"fullUrl,omitempty"`
	Resource *Resource            `json:"resource,omitempty"`
	Request  *BundleEntryRequest  `json:"request,omitempty"`
	Response *BundleEntryResponse `json:"response,omitempty"`
}

// BundleEntryRequest describes the HTTP interaction of a transaction entry.
type BundleEntryRequest struct {
	Method  string `json:"method"`
	URL     string `json:"url"`
	IfMatch string `json:"ifMatch,omitempty"`
}

// BundleEntryResponse is the outcome of a transaction entry.
type BundleEntryResponse struct {
	Status       string     `json:"status"`
	Location     string     `json:"location,omitempty"`
	Etag         string     `json:"etag,omitempty"`
	LastModified *time.Time `json:"lastModified,omitempty"`
	Outcome      *Resource  `json:"outcome,omitempty"`
}

// NextLink returns the url of the "next" link, or "".
func (b Bundle) NextLink() string {
	for _, l := range b.Link {
		if l.Relation == "next" {
			return l.URL
		}
	}
	return ""
}

// IsSuccess reports whether the entry status is 2xx.
func (r BundleEntryResponse) IsSuccess() bool {
	return strings.HasPrefix(strings.TrimSpace(r.Status), "2")
}

// VersionID extracts the version from a weak or strong etag (W/"3" -> 3).
func (r BundleEntryResponse) VersionID() string {
	return VersionFromETag(r.Etag)
}

// VersionFromETag strips the weak marker and quotes from an etag.
func VersionFromETag(etag string) string {
	etag = strings.TrimSpace(etag)
	etag = strings.TrimPrefix(etag, "W/")
	return strings.Trim(etag, `"`)
}

// WeakETag formats a version id as a weak etag.
func WeakETag(versionID string) string {
	return `W/"` + versionID + `"`
}

// OperationOutcome is the error payload of the remote API.
type OperationOutcome struct {
	ResourceType string                  `json:"resourceType"`
	Issue        []OperationOutcomeIssue `json:"issue,omitempty"`
}

// OperationOutcomeIssue is a single issue of an OperationOutcome.
type OperationOutcomeIssue struct {
	Severity    string `json:"severity,omitempty"`
	Code        string `json:"code,omitempty"`
	Diagnostics string `json:"diagnostics,omitempty"`
}

// ErrEmptyOperationOutcome is returned for an OperationOutcome without issues.
var ErrEmptyOperationOutcome = errors.New("server returned an empty operation outcome")

// Err converts the outcome into an error.
func (o OperationOutcome) Err() error {
	if len(o.Issue) == 0 {
		return ErrEmptyOperationOutcome
	}
	msgs := make([]string, 0, len(o.Issue))
	for _, issue := range o.Issue {
		msg := issue.Diagnostics
		if msg == "" {
			msg = issue.Code
		}
		msgs = append(msgs, msg)
	}
	return &OutcomeError{Diagnostics: strings.Join(msgs, "; ")}
}

// OutcomeError is an OperationOutcome turned into an error.
type OutcomeError struct {
	Diagnostics string
}

func (e *OutcomeError) Error() string {
	return e.Diagnostics
}
