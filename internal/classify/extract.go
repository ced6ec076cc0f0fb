package classify

import (
	"regexp"
	"strconv"
	"strings"
)

// Each entity field is extracted by an ordered chain of rules: the first
// rule whose pattern matches wins and the chain stops. First match, not
// best match. Company and investor names need original capitalization,
// so these run against the case-preserved entity text, not the corpus.

const (
	properNoun = `[A-Z][A-Za-z0-9&'-]*`
	nounPhrase = properNoun + `(?:\s+` + properNoun + `)*`
	corpSuffix = `(?:(?:Inc|Corp|LLC|Ltd|Company)\b|Co\.)`
)

// extractRule is one step of a chain: a pattern and the capture group
// that holds the extracted value.
type extractRule struct {
	re    *regexp.Regexp
	group int
}

var companyRules = []extractRule{
	// Preferred: suffix phrase introduced by from/about/regarding.
	{regexp.MustCompile(`\b(?i:from|about|regarding)\s+(` + nounPhrase + `\s+` + corpSuffix + `)`), 1},
	// Fallback: bare suffix phrase anywhere.
	{regexp.MustCompile(`\b(` + nounPhrase + `\s+` + corpSuffix + `)`), 1},
}

var investorRules = []extractRule{
	// Preferred: label-prefixed name ("Investor: Sequoia", "LP: CalPERS").
	{regexp.MustCompile(`\b(?i:limited partner|general partner|investor|lp|gp)\s*:\s*(` + nounPhrase + `)`), 1},
	// Fallback: firm-suffix phrase ("Benchmark Capital", "Tiger Fund").
	{regexp.MustCompile(`\b(` + nounPhrase + `\s+(?:Fund|Capital|Partners|Investments))\b`), 1},
}

// firstMatch runs a rule chain and returns the first capture, or "".
func firstMatch(rules []extractRule, text string) string {
	for _, rule := range rules {
		if m := rule.re.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[rule.group])
		}
	}
	return ""
}

func extractCompanyName(text string) string {
	return firstMatch(companyRules, text)
}

func extractInvestorName(text string) string {
	return firstMatch(investorRules, text)
}

var (
	// "$2.5 million", "$500k", "$1B" - amount followed by a unit word.
	reValueWithUnit = regexp.MustCompile(`(?i)\$\s*([0-9][0-9,]*(?:\.[0-9]+)?)\s*(million|billion|thousand|m|b|k)\b`)
	// Bare "$10,000" with no unit suffix.
	reValueBare = regexp.MustCompile(`\$\s*([0-9][0-9,]*(?:\.[0-9]+)?)`)
)

var unitFactors = map[string]float64{
	"million":  1e6,
	"m":        1e6,
	"billion":  1e9,
	"b":        1e9,
	"thousand": 1e3,
	"k":        1e3,
}

// extractDealValue pulls a monetary amount out of text, normalized to
// absolute currency units. Returns nil when no amount is present.
func extractDealValue(text string) *float64 {
	if m := reValueWithUnit.FindStringSubmatch(text); m != nil {
		return parseAmount(m[1], unitFactors[strings.ToLower(m[2])])
	}
	if m := reValueBare.FindStringSubmatch(text); m != nil {
		return parseAmount(m[1], 1)
	}
	return nil
}

func parseAmount(literal string, factor float64) *float64 {
	n, err := strconv.ParseFloat(strings.ReplaceAll(literal, ",", ""), 64)
	if err != nil {
		return nil
	}
	v := n * factor
	return &v
}

// stageRules maps pipeline stages to their trigger keywords. The slice
// order is the decision order: the first stage with any keyword present
// in the lowercased text wins, regardless of how many keywords later
// stages would match.
var stageRules = []struct {
	stage    DealStage
	keywords []string
}{
	{StageProspect, []string{"initial", "first", "intro", "introduction", "outreach"}},
	{StageResponse, []string{"response", "reply", "interested", "feedback"}},
	{StageDiligence, []string{"due diligence", "dd", "review", "analysis", "evaluation"}},
	{StageTermSheet, []string{"term sheet", "terms", "proposal", "offer"}},
	{StageClosing, []string{"closing", "final", "signature", "execution", "complete"}},
}

// extractDealStage returns the first stage triggered by the text, or ""
// when no stage keyword is present.
func extractDealStage(lowerText string) DealStage {
	for _, rule := range stageRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lowerText, kw) {
				return rule.stage
			}
		}
	}
	return ""
}
