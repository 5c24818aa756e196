package document

import "strings"

// HuPair is the handling unit assignment of one ledger movement.
// Empty strings mean "no handling unit" on that side.
type HuPair struct {
	From string
	To   string
}

// NormalizeHu trims a handling unit code; empty means none.
func NormalizeHu(code string) string {
	return strings.TrimSpace(code)
}

// ResolveLedgerHu decides which handling unit each side of a line's
// ledger movement belongs to.
//
// Line-level codes win over the header code. A move that names only a
// source unit between two different locations carries the whole unit:
// stock leaves and arrives under the same code. A header code applies
// to the receiving side for inbound and inventory documents and to the
// issuing side for outbound and write-off documents.
func ResolveLedgerHu(docType DocType, docHu string, line DocLineView) HuPair {
	docHu = NormalizeHu(docHu)
	from := NormalizeHu(line.FromHu)
	to := NormalizeHu(line.ToHu)

	if docType == DocTypeMove {
		if from != "" || to != "" {
			if from != "" && to == "" &&
				line.FromLocationID != nil && line.ToLocationID != nil &&
				*line.FromLocationID != *line.ToLocationID {
				return HuPair{From: from, To: from}
			}
			return HuPair{From: from, To: to}
		}
		if docHu != "" {
			return HuPair{To: docHu}
		}
		return HuPair{}
	}

	if docHu != "" {
		if docType == DocTypeInbound || docType == DocTypeInventory {
			return HuPair{To: docHu}
		}
		return HuPair{From: docHu}
	}
	return HuPair{From: from, To: to}
}

// headerHuSide returns the line side whose handling unit codes can
// stand in for a blank document header.
func headerHuSide(docType DocType, line DocLineView) string {
	switch docType {
	case DocTypeOutbound, DocTypeWriteOff:
		return NormalizeHu(line.FromHu)
	default:
		return NormalizeHu(line.ToHu)
	}
}

// InferHeaderHu derives a header handling unit from the lines when the
// header is blank: the lines must name exactly one distinct code on the
// side relevant for the document type. Lines without a code are
// ignored; mixed codes infer nothing.
func InferHeaderHu(docType DocType, lines []DocLineView) string {
	inferred := ""
	for _, line := range lines {
		code := headerHuSide(docType, line)
		if code == "" {
			continue
		}
		if inferred == "" {
			inferred = code
			continue
		}
		if !strings.EqualFold(inferred, code) {
			return ""
		}
	}
	return inferred
}

// ResolveHeaderHu picks the header-carried handling unit for a line
// copied from an order: receiving side for stock-increasing documents,
// issuing side otherwise.
func ResolveHeaderHu(docType DocType, headerHu string) (fromHu, toHu string) {
	headerHu = NormalizeHu(headerHu)
	if headerHu == "" {
		return "", ""
	}
	switch docType {
	case DocTypeOutbound, DocTypeWriteOff:
		return headerHu, ""
	default:
		return "", headerHu
	}
}
