package scoring

import "math"

// Trust tiers.
const (
	LevelHigh    = "HIGH"
	LevelMedium  = "MEDIUM"
	LevelLow     = "LOW"
	LevelVeryLow = "VERY_LOW"
)

// Sigmoid transaction-limit parameters.
const (
	sigmoidMaxLimit = 2000.0
	sigmoidK        = 0.08
	sigmoidMidpoint = 55.0

	tierHigh   = 75
	tierMedium = 50
	tierLow    = 25

	capHigh   = 1000
	capMedium = 500
	capLow    = 100
)

// Recommendation advises how much value to risk with an agent and how to
// structure escrow. Derived deterministically from the final score.
type Recommendation struct {
	Level          string `json:"level"`
	Text           string `json:"text"`
	MaxTransaction int    `json:"max_transaction"`
	EscrowTerms    string `json:"escrow_terms"`
	EscrowPct      int    `json:"escrow_pct"`
}

// recommend maps a final score to a trust tier with a sigmoid-shaped
// transaction limit, capped per tier.
func recommend(score int) Recommendation {
	sigmoidLimit := int(math.Round(sigmoidMaxLimit / (1 + math.Exp(-sigmoidK*(float64(score)-sigmoidMidpoint)))))

	switch {
	case score >= tierHigh:
		return Recommendation{
			Level:          LevelHigh,
			Text:           "High confidence. Safe for standard transactions.",
			MaxTransaction: min(sigmoidLimit, capHigh),
			EscrowTerms:    "100% upfront acceptable",
			EscrowPct:      10,
		}
	case score >= tierMedium:
		return Recommendation{
			Level:          LevelMedium,
			Text:           "Medium confidence. Use escrow for larger amounts.",
			MaxTransaction: min(sigmoidLimit, capMedium),
			EscrowTerms:    "50% upfront, 50% on completion",
			EscrowPct:      50,
		}
	case score >= tierLow:
		return Recommendation{
			Level:          LevelLow,
			Text:           "Low confidence. Escrow recommended for all transactions.",
			MaxTransaction: min(sigmoidLimit, capLow),
			EscrowTerms:    "100% escrowed, release on completion",
			EscrowPct:      100,
		}
	default:
		return Recommendation{
			Level:          LevelVeryLow,
			Text:           "Very low confidence. Transaction not recommended.",
			MaxTransaction: 0,
			EscrowTerms:    "Do not transact",
			EscrowPct:      100,
		}
	}
}
