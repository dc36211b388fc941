package suggest

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/blackwell-systems/artawatch/internal/analyzer"
)

// maxListed bounds the dimension and office rules.
const maxListed = 5

func share(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total)
}

// CharterAwareness explains how respondents came to know the Citizen's
// Charter (CC1).
func CharterAwareness(ctx *AnalysisContext) []Suggestion {
	b := ctx.Charter.CC1
	total := b.Answered()
	if total == 0 {
		return nil
	}
	knewAndSaw := b.Count(analyzer.CC1KnewAndSaw)
	learned := b.Count(analyzer.CC1LearnedOnVisit)
	knewPct := share(knewAndSaw, total) * 100
	learnedPct := share(learned, total) * 100

	s := Suggestion{Category: CategoryCharter}
	switch {
	case float64(knewAndSaw) > float64(total)*0.6:
		s.Priority = PriorityLow
		s.Title = "Charter awareness is strong"
		s.Description = fmt.Sprintf(
			"Strong charter awareness: %.0f%% of clients were already familiar with and saw the charter. "+
				"This indicates effective pre-visit information dissemination.",
			knewPct,
		)
	case float64(learned) > float64(total)*0.5:
		s.Priority = PriorityMedium
		s.Title = "Improve pre-visit charter awareness"
		s.Description = fmt.Sprintf(
			"%.0f%% of clients learned about the Citizen's Charter during their visit, "+
				"suggesting an opportunity to improve pre-visit awareness through marketing and orientation.",
			learnedPct,
		)
	default:
		s.Priority = PriorityMedium
		s.Title = "Mixed charter awareness"
		s.Description = fmt.Sprintf(
			"Mixed awareness levels detected. %.0f%% knew and saw the charter, while %.0f%% learned about it on-site. "+
				"Consider enhancing both pre-visit and on-site communication strategies.",
			knewPct, learnedPct,
		)
	}
	s.ImpactScore = ComputeImpact(total, 1-share(knewAndSaw, total), severityWeight(s.Priority), 10)
	return []Suggestion{s}
}

// CharterVisibility reports how easy the charter was to see (CC2).
func CharterVisibility(ctx *AnalysisContext) []Suggestion {
	b := ctx.Charter.CC2
	total := b.Answered()
	if total == 0 {
		return nil
	}
	easy := b.Count(analyzer.CC2Easy)
	seen := easy + b.Count(analyzer.CC2SomewhatEasy)
	hidden := b.Count(analyzer.CC2Difficult) + b.Count(analyzer.CC2NotVisible)
	easyPct := share(easy, total) * 100

	s := Suggestion{Category: CategoryCharter}
	switch {
	case float64(seen) > float64(total)*0.8:
		s.Priority = PriorityLow
		s.Title = "Charter visibility is excellent"
		s.Description = fmt.Sprintf(
			"Excellent visibility: %.0f%% found the charter easy to see. "+
				"The current placement and visibility strategy is working well.",
			easyPct,
		)
	case float64(hidden) > float64(total)*0.3:
		s.Priority = PriorityCritical
		s.Title = "Charter is hard to see"
		s.Description = fmt.Sprintf(
			"Visibility concern: %.0f%% of clients found the charter difficult to see or not visible. "+
				"Immediate action needed to improve charter placement and signage.",
			share(hidden, total)*100,
		)
	default:
		s.Priority = PriorityMedium
		s.Title = "Improve charter visibility"
		s.Description = fmt.Sprintf(
			"Moderate visibility: %.0f%% found it easy to see. "+
				"Consider enhancing charter visibility through better placement, larger displays, or additional signage.",
			easyPct,
		)
	}
	s.ImpactScore = ComputeImpact(total, 1-share(seen, total), severityWeight(s.Priority), 10)
	return []Suggestion{s}
}

// CharterHelpfulness reports whether the charter helped the transaction (CC3).
func CharterHelpfulness(ctx *AnalysisContext) []Suggestion {
	b := ctx.Charter.CC3
	total := b.Answered()
	if total == 0 {
		return nil
	}
	veryHelpful := b.Count(analyzer.CC3HelpedVeryMuch)
	notHelpful := b.Count(analyzer.CC3DidNotHelp)
	veryPct := share(veryHelpful, total) * 100

	s := Suggestion{Category: CategoryCharter}
	switch {
	case float64(veryHelpful) > float64(total)*0.7:
		s.Priority = PriorityLow
		s.Title = "Charter is highly effective"
		s.Description = fmt.Sprintf(
			"High effectiveness: %.0f%% found the charter very helpful. "+
				"The charter is successfully guiding clients through their transactions.",
			veryPct,
		)
	case float64(notHelpful) > float64(total)*0.3:
		s.Priority = PriorityHigh
		s.Title = "Charter has limited effectiveness"
		s.Description = fmt.Sprintf(
			"Limited effectiveness: %.0f%% found the charter unhelpful. "+
				"Review charter content, clarity, and relevance to ensure it meets client needs.",
			share(notHelpful, total)*100,
		)
	default:
		s.Priority = PriorityMedium
		s.Title = "Increase charter helpfulness"
		s.Description = fmt.Sprintf(
			"Moderate helpfulness: %.0f%% found it very helpful. "+
				"Consider improving charter content, format, or presentation to increase its practical value to clients.",
			veryPct,
		)
	}
	s.ImpactScore = ComputeImpact(total, 1-share(veryHelpful, total), severityWeight(s.Priority), 10)
	return []Suggestion{s}
}

// ProblemAreas flags each charter metric and dimension scoring below the
// problem threshold. Scores interpreted as Low or Very Low are critical.
func ProblemAreas(ctx *AnalysisContext) []Suggestion {
	var suggestions []Suggestion
	threshold := ctx.Thresholds.Problem
	for _, pa := range ctx.Summary.ProblemAreas {
		priority := PriorityHigh
		if analyzer.Interpret(pa.Score).Rank() <= analyzer.LevelLow.Rank() {
			priority = PriorityCritical
		}
		category := CategoryServiceQuality
		if pa.Type == analyzer.AreaCC {
			category = CategoryCharter
		}
		gap := (threshold - pa.Score) / 100
		suggestions = append(suggestions, Suggestion{
			Category: category,
			Priority: priority,
			Title:    fmt.Sprintf("Raise %s", pa.Area),
			Description: fmt.Sprintf(
				"%s scores %.1f%% (%s), below the %.0f%% target across %d responses.",
				pa.Area, pa.Score, analyzer.Interpret(pa.Score), threshold, ctx.TotalResponses,
			),
			ImpactScore: ComputeImpact(ctx.TotalResponses, gap, severityWeight(priority), 5),
		})
	}
	return suggestions
}

// DimensionsNeedingImprovement lists up to five dimensions whose negative
// answer share reaches the configured limit.
func DimensionsNeedingImprovement(ctx *AnalysisContext) []Suggestion {
	var suggestions []Suggestion
	for _, row := range ctx.DimensionIssues {
		if len(suggestions) == maxListed {
			break
		}
		neg, err := strconv.ParseFloat(row.NegativePercentage, 64)
		if err != nil || neg < ctx.Thresholds.DimensionNegative {
			continue
		}
		suggestions = append(suggestions, Suggestion{
			Category: CategoryServiceQuality,
			Priority: PriorityHigh,
			Title:    fmt.Sprintf("Address negative ratings on %s (%s)", row.Dimension, row.Name),
			Description: fmt.Sprintf(
				"%s%% of %d valid answers on %q disagree or strongly disagree.",
				row.NegativePercentage, row.ValidResponses, row.Description,
			),
			ImpactScore: ComputeImpact(row.ValidResponses, neg/100, severityWeight(PriorityHigh), 5),
		})
	}
	return suggestions
}

// OfficesRequiringAttention lists up to five offices whose dissatisfaction
// rate reaches the alert level.
func OfficesRequiringAttention(ctx *AnalysisContext) []Suggestion {
	var suggestions []Suggestion
	for _, row := range ctx.OfficeIssues {
		if len(suggestions) == maxListed {
			break
		}
		rate, err := strconv.ParseFloat(row.DissatisfactionRate, 64)
		if err != nil || rate < ctx.Thresholds.DissatisfactionAlert {
			continue
		}
		desc := fmt.Sprintf("%s%% of %d responses at %s report at least one negative rating.",
			row.DissatisfactionRate, row.TotalResponses, row.Office)
		if len(row.TopIssues) > 0 {
			desc += " Most frequent issues: " + strings.Join(row.TopIssues, ", ") + "."
		}
		suggestions = append(suggestions, Suggestion{
			Category:    CategoryOffice,
			Priority:    PriorityHigh,
			Title:       fmt.Sprintf("Follow up on dissatisfaction at %s", row.Office),
			Description: desc,
			ImpactScore: ComputeImpact(row.TotalResponses, rate/100, severityWeight(PriorityHigh), 5),
		})
	}
	return suggestions
}

// LowPerformingOffices flags offices with enough responses whose overall
// service quality score falls below the problem threshold.
func LowPerformingOffices(ctx *AnalysisContext) []Suggestion {
	var suggestions []Suggestion
	threshold := ctx.Thresholds.Problem
	for _, o := range ctx.Offices {
		if o.TotalResponses < ctx.Thresholds.LowOfficeMinResponses {
			continue
		}
		if o.OverallSQDScore <= 0 || o.OverallSQDScore >= threshold {
			continue
		}
		suggestions = append(suggestions, Suggestion{
			Category: CategoryOffice,
			Priority: PriorityMedium,
			Title:    fmt.Sprintf("Review service quality at %s", o.Office),
			Description: fmt.Sprintf(
				"%s has an overall SQD score of %.1f%% (%s) across %d responses. "+
					"Replicate practices from higher scoring offices.",
				o.Office, o.OverallSQDScore, o.OverallSQDLevel, o.TotalResponses,
			),
			ImpactScore: ComputeImpact(o.TotalResponses, (threshold-o.OverallSQDScore)/100, severityWeight(PriorityMedium), 5),
		})
	}
	return suggestions
}
