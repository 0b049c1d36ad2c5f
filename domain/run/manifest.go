package run

import (
	"time"

	"hypotest/domain/core"
	"hypotest/internal/errors"
)

// Manifest describes one execution of an analysis plan
type Manifest struct {
	RunID       core.RunID  `json:"run_id"`
	Plan        string      `json:"plan"`
	Rows        int         `json:"rows"`
	Fingerprint Fingerprint `json:"fingerprint"`
	StartedAt   time.Time   `json:"started_at"`
}

// NewManifest starts a manifest with a fresh run ID
func NewManifest(plan string, rows int, fingerprint Fingerprint) Manifest {
	return Manifest{
		RunID:       core.NewRunID(),
		Plan:        plan,
		Rows:        rows,
		Fingerprint: fingerprint,
		StartedAt:   time.Now(),
	}
}

// Validate checks if the manifest is complete
func (m Manifest) Validate() error {
	if _, err := core.ParseRunID(m.RunID.String()); err != nil {
		return errors.Wrap(err, "run manifest")
	}
	if m.Fingerprint.Fingerprint.IsEmpty() {
		return errors.InvalidInput("run manifest: fingerprint cannot be empty")
	}
	if m.Rows < 0 {
		return errors.InvalidInput("run manifest: rows cannot be negative")
	}
	return nil
}
