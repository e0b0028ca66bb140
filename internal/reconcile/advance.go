package reconcile

import "sort"

// AdvanceUse records how much of one payment's leftover went into a new
// bill. The payment service turns these into persisted allocation rows.
type AdvanceUse struct {
	PaymentID     string  `json:"payment_id"`
	ReceiptNumber string  `json:"receipt_number"`
	Amount        float64 `json:"amount"`
}

// AdvanceResult is the outcome of applying a party's advance to a bill.
type AdvanceResult struct {
	Allocated   float64      `json:"allocated"`
	Uses        []AdvanceUse `json:"uses"`
	Outstanding float64      `json:"outstanding"` // bill outstanding after advance
}

// PartyAdvance returns the party's unallocated payment balance: total
// received minus total allocated, across all given payments. The raw
// value may go negative on corrupt data; use AvailableAdvance when
// deciding how much credit can actually be handed out.
func PartyAdvance(partyID string, payments []Payment) float64 {
	var sum float64
	for _, p := range payments {
		if p.PartyID != partyID {
			continue
		}
		sum += p.Unallocated()
	}
	return sum
}

// AvailableAdvance is PartyAdvance clamped at zero.
func AvailableAdvance(partyID string, payments []Payment) float64 {
	adv := PartyAdvance(partyID, payments)
	if adv < 0 {
		return 0
	}
	return adv
}

// AllocateAdvance applies a party's available advance to a bill's
// outstanding amount, drawing from under-allocated payments oldest first.
// It never draws more than a payment's unallocated remainder, and the
// total allocated never exceeds min(available advance, bill outstanding).
// Pure: the caller persists the returned uses.
func AllocateAdvance(partyID string, billOutstanding float64, payments []Payment) AdvanceResult {
	if billOutstanding < 0 {
		billOutstanding = 0
	}

	target := AvailableAdvance(partyID, payments)
	if billOutstanding < target {
		target = billOutstanding
	}

	result := AdvanceResult{Outstanding: billOutstanding}
	if target <= 0 {
		return result
	}

	order := make([]int, 0, len(payments))
	for i, p := range payments {
		if p.PartyID == partyID && p.Unallocated() > 0 {
			order = append(order, i)
		}
	}
	sort.SliceStable(order, func(i, j int) bool {
		return payments[order[i]].Date.Before(payments[order[j]].Date)
	})

	for _, idx := range order {
		if result.Allocated >= target {
			break
		}
		leftover := payments[idx].Unallocated()
		use := target - result.Allocated
		if leftover < use {
			use = leftover
		}
		result.Allocated += use
		result.Uses = append(result.Uses, AdvanceUse{
			PaymentID:     payments[idx].ID,
			ReceiptNumber: payments[idx].ReceiptNumber,
			Amount:        use,
		})
	}

	result.Outstanding = billOutstanding - result.Allocated
	return result
}
