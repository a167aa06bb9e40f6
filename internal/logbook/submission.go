// Package logbook implements the append-only submission logbook (spec.md
// section 4.10, C11): a hash-chained version history for each submitted
// property, gated by a fixed status state machine.
package logbook

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/axisproperty/dealengine/internal/documents"
)

// SaleRoute enumerates how a property is being marketed (spec.md section
// 6.2).
type SaleRoute string

const (
	SaleRouteAuction       SaleRoute = "auction"
	SaleRoutePrivateTreaty SaleRoute = "private_treaty"
	SaleRouteOffMarket     SaleRoute = "off_market"
)

// Submission is the deep-copyable snapshot stored in every version. Free
// text marketing copy is deliberately absent from this type — the
// submission portal rejects it before a Submission is ever constructed.
type Submission struct {
	FullAddress string
	Postcode    string
	PropertyType string
	Tenure       string

	FloorAreaSqm float64
	GuidePrice   int
	SaleRoute    SaleRoute

	AgentFirm  string
	AgentName  string
	AgentEmail string

	Bedrooms        *int
	Bathrooms       *int
	YearBuilt       *int
	CouncilTaxBand  string
	EPCRating       string

	LeaseYearsRemaining  *int
	GroundRentAnnual     *int
	ServiceChargeAnnual  *int

	HasPlanningApplication bool

	Documents map[documents.DocumentType]documents.Record
}

// clone returns a deep copy of s so that version snapshots never share
// mutable state with each other or with the caller's working copy (spec.md
// section 4.10 invariant).
func (s Submission) clone() Submission {
	out := s
	out.Documents = make(map[documents.DocumentType]documents.Record, len(s.Documents))
	for k, v := range s.Documents {
		out.Documents[k] = v
	}
	out.Bedrooms = clonePtr(s.Bedrooms)
	out.Bathrooms = clonePtr(s.Bathrooms)
	out.YearBuilt = clonePtr(s.YearBuilt)
	out.LeaseYearsRemaining = clonePtr(s.LeaseYearsRemaining)
	out.GroundRentAnnual = clonePtr(s.GroundRentAnnual)
	out.ServiceChargeAnnual = clonePtr(s.ServiceChargeAnnual)
	return out
}

func clonePtr(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// mandatoryDocuments returns the document types required for s to reach
// SUBMITTED (spec.md section 4.10).
func (s Submission) mandatoryDocuments() []documents.DocumentType {
	required := []documents.DocumentType{
		documents.DocumentTypeTitleRegister,
		documents.DocumentTypeEPC,
		documents.DocumentTypeFloorPlan,
	}
	if s.Tenure == "LEASEHOLD" {
		required = append(required, documents.DocumentTypeLease)
	}
	if s.HasPlanningApplication {
		required = append(required, documents.DocumentTypePlanningApproval)
	}
	return required
}

// IsComplete reports whether s has every mandatory field and document
// required to reach SUBMITTED rather than INCOMPLETE.
func (s Submission) IsComplete() bool {
	if s.FullAddress == "" || s.Postcode == "" || s.PropertyType == "" || s.Tenure == "" {
		return false
	}
	if s.FloorAreaSqm <= 0 || s.GuidePrice <= 0 || s.SaleRoute == "" {
		return false
	}
	if s.AgentFirm == "" || s.AgentName == "" || s.AgentEmail == "" {
		return false
	}
	for _, docType := range s.mandatoryDocuments() {
		if _, ok := s.Documents[docType]; !ok {
			return false
		}
	}
	return true
}

// GeneratePropertyID derives a new "PROP-" + 12 lowercase hex character
// identifier from a cryptographically strong random source (spec.md
// section 6.4, section 9 identifier-generation design note).
func GeneratePropertyID() string {
	return "PROP-" + randomHex(6)
}

// GenerateSubmissionID derives a new "SUB-" identifier with the same
// shape as GeneratePropertyID.
func GenerateSubmissionID() string {
	return "SUB-" + randomHex(6)
}

func randomHex(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Sprintf("logbook: crypto/rand unavailable: %v", err))
	}
	return hex.EncodeToString(buf)
}
