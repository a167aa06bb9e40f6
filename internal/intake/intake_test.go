package intake

import (
	"testing"
	"time"

	"github.com/axisproperty/dealengine/internal/documents"
	"github.com/axisproperty/dealengine/internal/logbook"
	"github.com/axisproperty/dealengine/internal/schema"
	"github.com/axisproperty/dealengine/internal/validate"
	"github.com/stretchr/testify/require"
)

func completeSubmission() logbook.Submission {
	return logbook.Submission{
		FullAddress:  "1 Example Road",
		Postcode:     "SW1A 1AA",
		PropertyType: "flat",
		Tenure:       "freehold",
		FloorAreaSqm: 65,
		GuidePrice:   300_000,
		SaleRoute:    logbook.SaleRouteAuction,
		AgentFirm:    "Example Agents",
		AgentName:    "Jane Doe",
		AgentEmail:   "jane@example.test",
		Documents: map[documents.DocumentType]documents.Record{
			documents.DocumentTypeTitleRegister: {DocumentID: "doc-1"},
			documents.DocumentTypeEPC:            {DocumentID: "doc-2"},
			documents.DocumentTypeFloorPlan:      {DocumentID: "doc-3"},
		},
	}
}

func testValidator() *validate.Validator {
	propertyTypes := schema.NormaliseTable{"flat": string(schema.PropertyTypeFlat)}
	tenures := schema.NormaliseTable{"freehold": string(schema.TenureFreehold)}
	return validate.New(propertyTypes, tenures)
}

func TestConvertCompleteSubmissionProducesValidatedAsset(t *testing.T) {
	now := time.Date(2026, 8, 6, 0, 0, 0, 0, time.UTC)
	lb, err := logbook.New(logbook.GeneratePropertyID(), completeSubmission(), now)
	require.NoError(t, err)

	bridge := NewBridge(testValidator(), "London")
	result := bridge.Convert(lb)

	require.True(t, result.Accepted)
	require.Equal(t, "London", result.Asset.City)
	require.Equal(t, schema.PropertyTypeFlat, result.Asset.PropertyType)
	require.Equal(t, schema.TenureFreehold, result.Asset.Tenure)
	require.Equal(t, 300_000, result.Asset.AskingPrice)
	require.Equal(t, lb.PropertyID, result.Asset.Source.SourceListingID)
}

func TestConvertRejectsSubmissionWithUnmappedPropertyType(t *testing.T) {
	now := time.Date(2026, 8, 6, 0, 0, 0, 0, time.UTC)
	submission := completeSubmission()
	submission.PropertyType = "houseboat"

	lb, err := logbook.New(logbook.GeneratePropertyID(), submission, now)
	require.NoError(t, err)

	bridge := NewBridge(testValidator(), "London")
	result := bridge.Convert(lb)

	require.False(t, result.Accepted)
	require.Equal(t, schema.RejectionUnmappedPropertyType, result.Rejection.RejectionCode)
}

func TestToRawListingCarriesPropertyIDAsSourceListingID(t *testing.T) {
	raw := ToRawListing("PROP-abc123", completeSubmission(), time.Now())
	require.Equal(t, "PROP-abc123", raw.SourceListingID)
	require.Equal(t, 300_000, raw.AskingPrice)
}
