package calc

// GSTSplit is the CGST/SGST/IGST breakdown of a GST percentage.
type GSTSplit struct {
	CGST float64 `json:"cgst"`
	SGST float64 `json:"sgst"`
	IGST float64 `json:"igst"`
}

// SplitGST decides intra-state vs inter-state tax from the state codes in
// the first two characters of the seller and buyer GSTINs. Same state:
// the rate splits evenly into CGST and SGST. Different states: the full
// rate is IGST. If either GSTIN is missing or shorter than 2 characters
// the intra-state split is used — a permissive default for unregistered
// or half-entered parties, not an error.
func SplitGST(sellerGSTIN, buyerGSTIN string, gstPercent float64) GSTSplit {
	gstPercent = Num(gstPercent)

	if len(sellerGSTIN) >= 2 && len(buyerGSTIN) >= 2 && sellerGSTIN[:2] != buyerGSTIN[:2] {
		return GSTSplit{IGST: gstPercent}
	}
	return GSTSplit{CGST: gstPercent / 2, SGST: gstPercent / 2}
}

// SplitGSTAmount applies a split to a taxable amount, returning the rupee
// amounts for each component, rounded.
func SplitGSTAmount(split GSTSplit, taxable float64) GSTSplit {
	taxable = Num(taxable)
	return GSTSplit{
		CGST: Round2(taxable * split.CGST / 100),
		SGST: Round2(taxable * split.SGST / 100),
		IGST: Round2(taxable * split.IGST / 100),
	}
}
