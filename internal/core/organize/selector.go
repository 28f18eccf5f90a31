package organize

import "github.com/snipvault/snipvault/internal/core/domain"

// SelectPlan picks one plan out of candidates according to the selection
// strategy. Unknown strategies behave like balanced, which is also the
// default. ok is false when candidates is empty.
func SelectPlan(plans []domain.OrganizationPlan, strategy domain.SelectionStrategy) (domain.OrganizationPlan, bool) {
	if len(plans) == 0 {
		return domain.OrganizationPlan{}, false
	}

	better := balancedBetter
	switch strategy {
	case domain.SelectAggressive:
		better = aggressiveBetter
	case domain.SelectConservative:
		better = conservativeBetter
	}

	best := plans[0]
	for _, p := range plans[1:] {
		if better(p, best) {
			best = p
		}
	}
	return best, true
}

// aggressiveBetter chases the largest predicted accuracy improvement.
func aggressiveBetter(a, b domain.OrganizationPlan) bool {
	return a.ExpectedOutcome.ImprovedAccuracy > b.ExpectedOutcome.ImprovedAccuracy
}

// conservativeBetter favors plan confidence and breaks ties on how much of
// the plan can run unattended.
func conservativeBetter(a, b domain.OrganizationPlan) bool {
	if a.Confidence != b.Confidence {
		return a.Confidence > b.Confidence
	}
	return autoCount(a) > autoCount(b)
}

func balancedBetter(a, b domain.OrganizationPlan) bool {
	return balancedScore(a) > balancedScore(b)
}

// balancedScore blends confidence, predicted accuracy and the share of
// actions that can run unattended. Plans without actions score no automation
// credit.
func balancedScore(p domain.OrganizationPlan) float64 {
	auto := 0.0
	if len(p.Actions) > 0 {
		auto = float64(autoCount(p)) / float64(len(p.Actions))
	}
	return 0.4*p.Confidence + 0.3*p.ExpectedOutcome.ImprovedAccuracy + 0.3*auto
}

func autoCount(p domain.OrganizationPlan) int {
	n := 0
	for _, a := range p.Actions {
		if a.AutoExecutable {
			n++
		}
	}
	return n
}
