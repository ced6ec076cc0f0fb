package classify

// categoryThreshold is the minimum score a category must strictly exceed
// to win; a score of exactly 0.1 does not qualify.
const categoryThreshold = 0.1

// resolveCategory turns the three category scores into a single category
// and confidence. The decision order is asymmetric on purpose: deal beats
// investor beats broker in a tie above threshold. Do not replace this
// with an argmax - callers depend on the exact ordering. Only the 0.1
// threshold comparison is strict; the inter-score comparisons are not,
// which is what gives deal the tie.
func resolveCategory(dealScore, investorScore, brokerScore float64) (Category, float64) {
	switch {
	case dealScore >= investorScore && dealScore >= brokerScore && dealScore > categoryThreshold:
		return CategoryDeal, capConfidence(dealScore)
	case investorScore >= brokerScore && investorScore > categoryThreshold:
		return CategoryInvestor, capConfidence(investorScore)
	case brokerScore > categoryThreshold:
		return CategoryBroker, capConfidence(brokerScore)
	default:
		return CategoryGeneral, 0
	}
}

func capConfidence(score float64) float64 {
	if score > 1.0 {
		return 1.0
	}
	return score
}
