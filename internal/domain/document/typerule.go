package document

import "github.com/wms/backend/internal/domain/shared"

// TypeRule describes which location fields a document type demands on
// every line. The line editor and the close validator both consult the
// same table, so a line that was accepted cannot fail the structural
// pass at close time.
type TypeRule struct {
	NeedsFrom bool
	NeedsTo   bool

	// Distinct forbids from == to unless a handling unit keeps the
	// move meaningful within one location.
	Distinct bool
}

var typeRules = map[DocType]TypeRule{
	DocTypeInbound:   {NeedsTo: true},
	DocTypeOutbound:  {},
	DocTypeMove:      {NeedsFrom: true, NeedsTo: true, Distinct: true},
	DocTypeWriteOff:  {NeedsFrom: true},
	DocTypeInventory: {NeedsTo: true},
}

// RuleFor returns the location rule of a document type.
func RuleFor(t DocType) TypeRule {
	return typeRules[t]
}

// CheckLineLocations validates one line's location fields against the
// type rule. fromHu and toHu are the handling units effective for the
// line. Outbound lines pass with no source at all; a missing source
// switches the document into auto-allocation at close time.
func CheckLineLocations(t DocType, fromLocationID, toLocationID *int64, fromHu, toHu string) *shared.DomainError {
	rule := RuleFor(t)
	switch {
	case rule.NeedsFrom && rule.NeedsTo && (fromLocationID == nil || toLocationID == nil):
		return shared.NewDomainError("MISSING_LOCATION", "source and destination locations are required")
	case rule.NeedsFrom && fromLocationID == nil:
		return shared.NewDomainError("MISSING_LOCATION", "source location is required")
	case rule.NeedsTo && toLocationID == nil:
		if t == DocTypeInventory {
			return shared.NewDomainError("MISSING_LOCATION", "counted location is required")
		}
		return shared.NewDomainError("MISSING_LOCATION", "receiving location is required")
	}
	if rule.Distinct && *fromLocationID == *toLocationID &&
		NormalizeHu(fromHu) == "" && NormalizeHu(toHu) == "" {
		return shared.NewDomainError("INVALID_LOCATION", "source and destination locations must differ")
	}
	return nil
}
