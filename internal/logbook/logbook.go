package logbook

import (
	"fmt"
	"time"

	"github.com/axisproperty/dealengine/internal/canon"
)

// Action labels why a version was appended.
type Action string

const (
	ActionInitialSubmission Action = "initial_submission"
	ActionDocumentAdded     Action = "document_added"
	ActionDocumentReplaced  Action = "document_replaced"
	ActionFieldUpdated      Action = "field_updated"
	ActionStatusChanged     Action = "status_changed"
	ActionAxisReview        Action = "axis_review"
	ActionResubmission      Action = "resubmission"
)

// ErrIllegalTransition is returned when an append would move a logbook
// between statuses the state machine forbids.
type ErrIllegalTransition struct {
	From, To Status
}

func (e *ErrIllegalTransition) Error() string {
	return fmt.Sprintf("ILLEGAL_STATUS_TRANSITION: %s -> %s", e.From, e.To)
}

// Version is one immutable entry in a logbook's history.
type Version struct {
	VersionNumber   int
	Action          Action
	Snapshot        Submission
	StatusAtVersion Status
	Timestamp       time.Time

	// PrevHash is the hash of the previous version (empty for v1); Hash
	// covers this version's own fields plus PrevHash, forming a chain
	// that detects tampering with any prior version (spec.md section 9,
	// "Immutability of submissions").
	PrevHash string
	Hash     string
}

// hashInput is the subset of Version fields that feed the hash, isolated
// from Hash itself to avoid self-reference.
type hashInput struct {
	VersionNumber   int
	Action          Action
	Snapshot        Submission
	StatusAtVersion Status
	Timestamp       time.Time
	PrevHash        string
}

// Logbook is the append-only version history for one property submission.
type Logbook struct {
	PropertyID    string
	Versions      []Version
	CurrentStatus Status
}

// New creates a logbook's first version from an initial submission
// snapshot. Status is derived from the snapshot's completeness, per
// spec.md section 4.10: SUBMITTED if every mandatory field and document
// is present, else INCOMPLETE.
func New(propertyID string, submission Submission, now time.Time) (*Logbook, error) {
	status := StatusIncomplete
	if submission.IsComplete() {
		status = StatusSubmitted
	}

	v, err := buildVersion(1, ActionInitialSubmission, submission, status, "", now)
	if err != nil {
		return nil, err
	}

	return &Logbook{
		PropertyID:    propertyID,
		Versions:      []Version{v},
		CurrentStatus: status,
	}, nil
}

// Current returns the most recent version's submission snapshot.
func (l *Logbook) Current() Submission {
	return l.Versions[len(l.Versions)-1].Snapshot
}

// Version returns version n (1-indexed), matching the external read API's
// GET /property/{id}/version/{n}.
func (l *Logbook) Version(n int) (Version, bool) {
	if n < 1 || n > len(l.Versions) {
		return Version{}, false
	}
	return l.Versions[n-1], true
}

// AppendDocumentReplacement appends a new version reflecting a document
// upload: document_added if none of the changed document types existed in
// the previous version's snapshot, document_replaced if any of them did.
// Status is recomputed from completeness as a side effect.
func (l *Logbook) AppendDocumentReplacement(updated Submission, now time.Time) error {
	action := documentAppendAction(l.Current(), updated)
	return l.append(action, updated, l.completenessStatus(updated), now)
}

// documentAppendAction compares prior against updated and reports whether
// this append is introducing brand new document types (document_added) or
// overwriting at least one that was already present (document_replaced).
func documentAppendAction(prior, updated Submission) Action {
	for docType, record := range updated.Documents {
		if previous, existed := prior.Documents[docType]; existed && previous != record {
			return ActionDocumentReplaced
		}
	}
	return ActionDocumentAdded
}

// AppendFieldUpdate appends a version reflecting an edit to submission
// fields other than documents, recomputing completeness-derived status as
// a side effect, mirroring AppendDocumentReplacement.
func (l *Logbook) AppendFieldUpdate(updated Submission, now time.Time) error {
	return l.append(ActionFieldUpdated, updated, l.completenessStatus(updated), now)
}

// completenessStatus recomputes status from updated's completeness, but
// only while the logbook is still in the pre-submission DRAFT/INCOMPLETE
// phase — once under review or further along, a field or document edit
// doesn't silently revert current_status.
func (l *Logbook) completenessStatus(updated Submission) Status {
	status := l.CurrentStatus
	if status == StatusDraft || status == StatusIncomplete {
		if updated.IsComplete() {
			status = StatusSubmitted
		} else {
			status = StatusIncomplete
		}
	}
	return status
}

// TransitionStatus appends a version moving the logbook to newStatus,
// rejecting the change if the state machine forbids it.
func (l *Logbook) TransitionStatus(newStatus Status, now time.Time) error {
	if !CanTransition(l.CurrentStatus, newStatus) {
		return &ErrIllegalTransition{From: l.CurrentStatus, To: newStatus}
	}
	return l.append(ActionStatusChanged, l.Current(), newStatus, now)
}

// AppendAxisReview appends a version recording that an Axis reviewer
// inspected the submission, without changing its content or status —
// distinct from TransitionStatus, which always moves current_status.
func (l *Logbook) AppendAxisReview(now time.Time) error {
	return l.append(ActionAxisReview, l.Current(), l.CurrentStatus, now)
}

// AppendResubmission reintroduces a WITHDRAWN or REJECTED submission with
// an updated snapshot, moving it back into the active pipeline as
// INCOMPLETE or SUBMITTED depending on completeness. Any other current
// status is illegal to resubmit from.
func (l *Logbook) AppendResubmission(updated Submission, now time.Time) error {
	if l.CurrentStatus != StatusWithdrawn && l.CurrentStatus != StatusRejected {
		return &ErrIllegalTransition{From: l.CurrentStatus, To: StatusSubmitted}
	}
	status := StatusIncomplete
	if updated.IsComplete() {
		status = StatusSubmitted
	}
	return l.append(ActionResubmission, updated, status, now)
}

func (l *Logbook) append(action Action, snapshot Submission, status Status, now time.Time) error {
	prev := l.Versions[len(l.Versions)-1]
	v, err := buildVersion(prev.VersionNumber+1, action, snapshot, status, prev.Hash, now)
	if err != nil {
		return err
	}
	l.Versions = append(l.Versions, v)
	l.CurrentStatus = status
	return nil
}

func buildVersion(number int, action Action, snapshot Submission, status Status, prevHash string, now time.Time) (Version, error) {
	snap := snapshot.clone()

	input := hashInput{
		VersionNumber:   number,
		Action:          action,
		Snapshot:        snap,
		StatusAtVersion: status,
		Timestamp:       now,
		PrevHash:        prevHash,
	}
	hash, err := canon.Hash(input)
	if err != nil {
		return Version{}, fmt.Errorf("logbook: hash version: %w", err)
	}

	return Version{
		VersionNumber:   number,
		Action:          action,
		Snapshot:        snap,
		StatusAtVersion: status,
		Timestamp:       now,
		PrevHash:        prevHash,
		Hash:            hash,
	}, nil
}

// VerifyChain recomputes every version's hash from its recorded fields and
// confirms each links to the previous version's hash, detecting any
// tampering with historical versions (spec.md section 8 invariant 6).
func (l *Logbook) VerifyChain() error {
	prevHash := ""
	for _, v := range l.Versions {
		if v.PrevHash != prevHash {
			return fmt.Errorf("logbook: version %d prev_hash mismatch", v.VersionNumber)
		}

		input := hashInput{
			VersionNumber:   v.VersionNumber,
			Action:          v.Action,
			Snapshot:        v.Snapshot,
			StatusAtVersion: v.StatusAtVersion,
			Timestamp:       v.Timestamp,
			PrevHash:        v.PrevHash,
		}
		recomputed, err := canon.Hash(input)
		if err != nil {
			return fmt.Errorf("logbook: recompute hash for version %d: %w", v.VersionNumber, err)
		}
		if recomputed != v.Hash {
			return fmt.Errorf("logbook: version %d hash mismatch, chain tampered", v.VersionNumber)
		}

		prevHash = v.Hash
	}
	return nil
}
