package reader

// Card is the balance-carrying side of a partner found by card TID.
type Card struct {
	PartnerID int64
	TID       string
	Balance   int64
}

// PaymentResult is the outcome of debiting a card.
type PaymentResult struct {
	Outcome    Outcome
	OldBalance int64
	NewBalance int64
}

// Charge debits amount from the card's balance. A card that does not cover the
// amount is left untouched and reported as OutcomeInsufficientBalance.
func Charge(card Card, amount int64) PaymentResult {
	if card.Balance < amount {
		return PaymentResult{Outcome: OutcomeInsufficientBalance, OldBalance: card.Balance, NewBalance: card.Balance}
	}

	return PaymentResult{Outcome: OutcomeSuccess, OldBalance: card.Balance, NewBalance: card.Balance - amount}
}
