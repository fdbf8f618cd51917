package delta

import "time"

// Kind distinguishes the record collections in tallies and receipts.
type Kind string

const (
	KindTrainingLog    Kind = "training_log"
	KindRecommendation Kind = "recommendation"
)

// Status is the per-record import outcome.
type Status string

const (
	StatusImported Status = "imported"
	StatusSkipped  Status = "skipped"
	StatusError    Status = "error"
)

// Detail is one record's import outcome.
type Detail struct {
	ClientID string `json:"clientId"`
	Kind     Kind   `json:"kind"`
	Status   Status `json:"status"`
	Detail   string `json:"detail,omitempty"`
}

// Result tallies an import. One bad record never stops the rest.
type Result struct {
	Imported   int      `json:"imported"`
	Skipped    int      `json:"skipped"`
	Errors     int      `json:"errors"`
	Unresolved int      `json:"unresolved"`
	Details    []Detail `json:"details"`
}

// AddImported records a successful insert.
func (r *Result) AddImported(kind Kind, clientID string) {
	r.Imported++
	r.Details = append(r.Details, Detail{ClientID: clientID, Kind: kind, Status: StatusImported})
}

// AddSkipped records a record that already existed.
func (r *Result) AddSkipped(kind Kind, clientID string) {
	r.Skipped++
	r.Details = append(r.Details, Detail{ClientID: clientID, Kind: kind, Status: StatusSkipped})
}

// AddError records an unexpected per-record failure.
func (r *Result) AddError(kind Kind, clientID string, err error) {
	r.Errors++
	d := Detail{ClientID: clientID, Kind: kind, Status: StatusError}
	if err != nil {
		d.Detail = err.Error()
	}
	r.Details = append(r.Details, d)
}

// AddUnresolved counts an imported training log with a dangling reference.
func (r *Result) AddUnresolved() { r.Unresolved++ }

// Receipt is returned to the field device so it can mark records synced.
type Receipt struct {
	SchemaVersion   int       `json:"schemaVersion"`
	BundleID        string    `json:"bundleId"`
	ImportedAt      time.Time `json:"importedAt"`
	Results         []Detail  `json:"results"`
	UnresolvedCount int       `json:"unresolvedCount"`
}

// NewReceipt builds the receipt for an import of b.
func NewReceipt(b *Bundle, res Result, now time.Time) Receipt {
	details := res.Details
	if details == nil {
		details = []Detail{}
	}
	return Receipt{
		SchemaVersion:   SchemaVersion,
		BundleID:        b.BundleID,
		ImportedAt:      now.UTC(),
		Results:         details,
		UnresolvedCount: res.Unresolved,
	}
}

// ImportedClientIDs lists the client ids the authority actually inserted.
// Only these are marked synced on the field device.
func (r Receipt) ImportedClientIDs() []string {
	var ids []string
	for _, d := range r.Results {
		if d.Status == StatusImported {
			ids = append(ids, d.ClientID)
		}
	}
	return ids
}
