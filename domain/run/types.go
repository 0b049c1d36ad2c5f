package run

import (
	"hypotest/domain/core"
)

// Fingerprint identifies the inputs of a run. Identical plan and data give
// identical fingerprints, so two reports can be checked for comparability.
type Fingerprint struct {
	PlanHash    core.Hash `json:"plan_hash"`
	DataHash    core.Hash `json:"data_hash"`
	Fingerprint core.Hash `json:"fingerprint"` // Hash of all above
}

// NewFingerprint combines the plan and data hashes
func NewFingerprint(planHash, dataHash core.Hash) Fingerprint {
	return Fingerprint{
		PlanHash:    planHash,
		DataHash:    dataHash,
		Fingerprint: core.HashParts("plan:"+planHash.String(), "data:"+dataHash.String()),
	}
}

// SameInputs reports whether two runs used the same plan and data
func (f Fingerprint) SameInputs(other Fingerprint) bool {
	return f.Fingerprint == other.Fingerprint
}
