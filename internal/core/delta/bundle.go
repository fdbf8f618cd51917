package delta

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// IntegrityCode identifies why a whole bundle was rejected.
type IntegrityCode string

const (
	CodeChecksumMismatch  IntegrityCode = "checksum_mismatch"
	CodeUnknownLine       IntegrityCode = "unknown_line"
	CodeUnsupportedSchema IntegrityCode = "unsupported_schema"
)

// IntegrityError rejects an entire bundle. Nothing from it is applied.
type IntegrityError struct {
	Code   IntegrityCode
	Detail string
}

func (e *IntegrityError) Error() string {
	if e.Detail == "" {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Detail)
}

// Is matches any IntegrityError carrying the same code.
func (e *IntegrityError) Is(target error) bool {
	t, ok := target.(*IntegrityError)
	return ok && t.Code == e.Code
}

// Sentinels for errors.Is.
var (
	ErrChecksumMismatch  = &IntegrityError{Code: CodeChecksumMismatch}
	ErrUnknownLine       = &IntegrityError{Code: CodeUnknownLine}
	ErrUnsupportedSchema = &IntegrityError{Code: CodeUnsupportedSchema}
)

// Bundle is a versioned, checksummed export of unsynced records for one line.
type Bundle struct {
	SchemaVersion  int         `json:"schemaVersion"`
	BundleID       string      `json:"bundleId"`
	ExportedAt     time.Time   `json:"exportedAt"`
	SourceDeviceID string      `json:"sourceDeviceId"`
	TargetLineID   string      `json:"targetLineId"`
	SeedVersion    int64       `json:"seedVersion"`
	UsersVersion   int64       `json:"usersVersion"`
	RecordCount    RecordCount `json:"recordCount"`
	Records        Records     `json:"records"`
	Checksum       string      `json:"checksum"`
}

// ExportInput carries everything BuildBundle needs; id and time are supplied
// by the caller.
type ExportInput struct {
	BundleID     string
	ExportedAt   time.Time
	DeviceID     string
	LineID       string
	SeedVersion  int64
	UsersVersion int64
	Logs         []TrainingLog
	Recs         []Recommendation
}

// Checksum is the hex SHA-256 of the canonical JSON encoding of records.
// Timestamps are encoded in UTC so the digest survives a JSON round trip.
func Checksum(records Records) (string, error) {
	data, err := json.Marshal(canonical(records))
	if err != nil {
		return "", fmt.Errorf("failed to encode records: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// BuildBundle assembles a bundle from the unsynced records of one line.
// Records belonging to other lines or already synced are left out.
// Returns nil when there is nothing to send.
func BuildBundle(in ExportInput) (*Bundle, error) {
	var records Records
	for _, l := range in.Logs {
		if l.LineID == in.LineID && !l.SyncedToAuthority {
			records.TrainingLogs = append(records.TrainingLogs, l)
		}
	}
	for _, r := range in.Recs {
		if r.LineID == in.LineID && !r.SyncedToAuthority {
			records.PendingRecommendations = append(records.PendingRecommendations, r)
		}
	}
	if records.Empty() {
		return nil, nil
	}

	records = canonical(records)
	sum, err := Checksum(records)
	if err != nil {
		return nil, err
	}

	return &Bundle{
		SchemaVersion:  SchemaVersion,
		BundleID:       in.BundleID,
		ExportedAt:     in.ExportedAt.UTC(),
		SourceDeviceID: in.DeviceID,
		TargetLineID:   in.LineID,
		SeedVersion:    in.SeedVersion,
		UsersVersion:   in.UsersVersion,
		RecordCount: RecordCount{
			TrainingLogs:           len(records.TrainingLogs),
			PendingRecommendations: len(records.PendingRecommendations),
		},
		Records:  records,
		Checksum: sum,
	}, nil
}

// Verify checks a received bundle before any record is applied.
// lineKnown reports whether the target line exists locally.
func Verify(b *Bundle, lineKnown bool) error {
	if b.SchemaVersion != SchemaVersion {
		return &IntegrityError{
			Code:   CodeUnsupportedSchema,
			Detail: fmt.Sprintf("got %d, want %d", b.SchemaVersion, SchemaVersion),
		}
	}

	sum, err := Checksum(b.Records)
	if err != nil {
		return err
	}
	if sum != b.Checksum {
		return &IntegrityError{Code: CodeChecksumMismatch, Detail: b.BundleID}
	}

	if !lineKnown {
		return &IntegrityError{Code: CodeUnknownLine, Detail: b.TargetLineID}
	}
	return nil
}

// canonical returns a copy with every timestamp in UTC.
func canonical(r Records) Records {
	out := Records{}
	if r.TrainingLogs != nil {
		out.TrainingLogs = make([]TrainingLog, len(r.TrainingLogs))
		for i, l := range r.TrainingLogs {
			l.Timestamp = l.Timestamp.UTC()
			l.ImportedAt = utcPtr(l.ImportedAt)
			out.TrainingLogs[i] = l
		}
	}
	if r.PendingRecommendations != nil {
		out.PendingRecommendations = make([]Recommendation, len(r.PendingRecommendations))
		for i, rec := range r.PendingRecommendations {
			rec.CreatedAt = rec.CreatedAt.UTC()
			rec.ActionedAt = utcPtr(rec.ActionedAt)
			out.PendingRecommendations[i] = rec
		}
	}
	return out
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
