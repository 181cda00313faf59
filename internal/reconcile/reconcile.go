// Package reconcile decides whether a freshly discovered asset should be
// inserted, updated, or skipped relative to its previously stored
// fingerprint.
package reconcile

import "metacat/internal/domain"

// Decision is the reconciler's verdict for one discovery event.
type Decision struct {
	Action        domain.ReconcileAction
	SchemaChanged bool
}

// Decide compares the stored fingerprint (nil when the asset has never been
// seen) against the newly computed one.
//
// Policy:
//   - no existing fingerprint          → Insert
//   - schema hash differs              → Update (schema drift forces a full
//     metadata refresh regardless of the content hash)
//   - schema equal, content differs    → Skip (content-only drift does not
//     rewrite the asset record; lineage and business metadata are
//     schema-scoped and expensive to recompute — intentional economization)
//   - both equal                       → Skip
//
// Decide is a pure function. The caller resolves the existing fingerprint
// by (connectorID, normalized path) and must serialize the
// read-decide-write sequence per key; two workers racing on the same path
// without store-level locking can both observe "no existing row".
func Decide(existing *domain.AssetFingerprint, next domain.AssetFingerprint) Decision {
	if existing == nil {
		return Decision{Action: domain.ActionInsert}
	}
	if existing.SchemaHash != next.SchemaHash {
		return Decision{Action: domain.ActionUpdate, SchemaChanged: true}
	}
	return Decision{Action: domain.ActionSkip}
}
