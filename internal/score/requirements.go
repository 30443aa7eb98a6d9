// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package score

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/jrhoades1/job-application-system/pkg/types"
)

// Many ATS pages append the full application form (dropdowns, EEO and
// disability disclosures) after the actual description. Lines matching one
// of these anchors mark the cutoff; everything below is discarded before
// requirement extraction so form field options like "-- No answer --"
// never become requirements.
var formCutoffPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^Apply\s+(?:for this position|Now|Today)`),
	regexp.MustCompile(`(?i)^Submit\s+Application`),
	regexp.MustCompile(`(?i)^(?:Required|Optional)\s*\*`),
	regexp.MustCompile(`(?i)^\*\s*First Name`),
	regexp.MustCompile(`(?i)^First Name\s*$`),
	regexp.MustCompile(`(?i)^Human Check`),
	regexp.MustCompile(`(?i)^Voluntary Self-Identification`),
	regexp.MustCompile(`(?i)^Invitation for Job Applicants to Self-Identify`),
	regexp.MustCompile(`(?i)^PUBLIC BURDEN STATEMENT`),
	regexp.MustCompile(`(?i)^The following questions are entirely optional`),
}

var eeoBoilerplateRes = []*regexp.Regexp{
	regexp.MustCompile(`(?is)(?:is an? )?Equal (?:Employment )?Opportunity (?:Employer|and Affirmative Action).*?(?:\n\n|\z)`),
	regexp.MustCompile(`(?is)Unfortunately,.*?(?:not currently hiring|Territories)\.`),
}

// stripApplicationForm removes application form content and EEO boilerplate
// from description text.
func stripApplicationForm(text string) string {
	lines := strings.Split(text, "\n")
	cutoff := len(lines)
	for i, line := range lines {
		stripped := strings.TrimSpace(line)
		for _, re := range formCutoffPatterns {
			if re.MatchString(stripped) {
				cutoff = i
				break
			}
		}
		if cutoff < len(lines) {
			break
		}
	}

	cleaned := strings.Join(lines[:cutoff], "\n")
	for _, re := range eeoBoilerplateRes {
		cleaned = re.ReplaceAllString(cleaned, "")
	}
	return strings.TrimSpace(cleaned)
}

type sectionPattern struct {
	name string
	re   *regexp.Regexp
}

// Section header detection runs against lowercased lines shorter than 80
// characters; longer lines are prose that merely mentions a section word.
var sectionPatterns = []sectionPattern{
	{"requirements", regexp.MustCompile(`(?:requirements?|qualifications?|what you.?(?:ll)?\s*need|must have|minimum|experience|education|skills?\s+(?:and|&)\s+(?:knowledge|skills)|specialized knowledge|technical skills|what (?:we|you).+(?:look|need)|who you are)`)},
	{"preferred", regexp.MustCompile(`(?:preferred|nice to have|bonus|desired|plus|ideally|good to have|additional|differenti)`)},
	{"responsibilities", regexp.MustCompile(`(?:responsibilities|what you.?(?:ll)?\s*do|duties|role|about the (?:role|position)|key (?:areas|functions)|you will|your (?:impact|mission|role))`)},
}

var (
	reqBulletRe   = regexp.MustCompile(`^[-•*]\s*(.+)$`)
	reqNumberedRe = regexp.MustCompile(`^\d+[.)]\s*(.+)$`)
	plainSkipRe   = regexp.MustCompile(`^(?:Travel|Note|Image|About|Share)\b`)
)

// ExtractRequirements decomposes job description text into hard
// requirements, preferred qualifications and responsibilities, plus the
// keyword and red-flag scans. Keywords run against the original text for
// broader coverage; red flags run against the form-stripped text to avoid
// false positives from application form content.
func ExtractRequirements(description string) types.RequirementSet {
	set := types.RequirementSet{
		HardRequirements: []string{},
		Preferred:        []string{},
		Responsibilities: []string{},
		Keywords:         []string{},
		RedFlags:         []string{},
	}
	if description == "" {
		return set
	}

	cleaned := stripApplicationForm(description)

	var currentSection string
	for _, line := range strings.Split(cleaned, "\n") {
		stripped := strings.TrimSpace(line)
		if stripped == "" {
			continue
		}

		lower := strings.ToLower(stripped)
		for _, sp := range sectionPatterns {
			if sp.re.MatchString(lower) && len(stripped) < 80 {
				currentSection = sp.name
				break
			}
		}

		m := reqBulletRe.FindStringSubmatch(stripped)
		if m == nil {
			m = reqNumberedRe.FindStringSubmatch(stripped)
		}

		switch {
		case m != nil:
			item := strings.TrimSpace(m[1])
			switch currentSection {
			case "requirements":
				set.HardRequirements = append(set.HardRequirements, item)
			case "preferred":
				set.Preferred = append(set.Preferred, item)
			case "responsibilities":
				set.Responsibilities = append(set.Responsibilities, item)
			default:
				if isRequirement(item) {
					set.HardRequirements = append(set.HardRequirements, item)
				} else if isPreferred(item) {
					set.Preferred = append(set.Preferred, item)
				} else {
					set.Responsibilities = append(set.Responsibilities, item)
				}
			}
		case currentSection == "requirements" && len(stripped) > 15 && len(stripped) < 200:
			if !plainSkipRe.MatchString(stripped) {
				set.HardRequirements = append(set.HardRequirements, stripped)
			}
		case currentSection == "preferred" && len(stripped) > 15 && len(stripped) < 200:
			if !plainSkipRe.MatchString(stripped) {
				set.Preferred = append(set.Preferred, stripped)
			}
		}
	}

	set.Keywords = extractKeywords(description)
	set.RedFlags = detectRedFlags(cleaned)
	return set
}

var skipIndicatorRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:no special physical demands|travel up to|office environment)`),
	regexp.MustCompile(`(?i)(?:-- No answer|background check|drug screen|e-verify)`),
	regexp.MustCompile(`(?i)(?:salary|compensation|benefits|401|pto|paid time)`),
	regexp.MustCompile(`(?i)(?:equal (?:employment )?opportunity|affirmative action)`),
	regexp.MustCompile(`(?i)(?:visa sponsorship|legally eligible)`),
}

var reqIndicatorRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\d+\+?\s*years?`),
	regexp.MustCompile(`(?i)(?:must|required|minimum)`),
	regexp.MustCompile(`(?i)(?:degree|bachelor|master|phd)`),
	regexp.MustCompile(`(?i)(?:experience (?:with|in|leading|building|managing|developing|driving))`),
	regexp.MustCompile(`(?i)(?:proficiency in|expertise in|deep expertise|proven)`),
	regexp.MustCompile(`(?i)(?:certification|certified)`),
	regexp.MustCompile(`(?i)(?:track record|demonstrated|strong (?:strategic|technical|communication))`),
	regexp.MustCompile(`(?i)(?:knowledge of|ability to|skilled in|familiarity with)`),
}

var prefIndicatorRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:preferred|nice to have|plus|bonus|ideally|advantageous)`),
	regexp.MustCompile(`(?i)(?:familiarity with|exposure to|knowledge of)`),
}

func isRequirement(text string) bool {
	for _, re := range skipIndicatorRes {
		if re.MatchString(text) {
			return false
		}
	}
	for _, re := range reqIndicatorRes {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

func isPreferred(text string) bool {
	for _, re := range prefIndicatorRes {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

var keywordRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(?:Python|Java|JavaScript|TypeScript|Go|Rust|C\+\+|Ruby|Scala|Kotlin)\b`),
	regexp.MustCompile(`(?i)\b(?:AWS|Azure|GCP|Google Cloud|Kubernetes|Docker|Terraform)\b`),
	regexp.MustCompile(`(?i)\b(?:React|Angular|Vue|Next\.js|Node\.js|FastAPI|Django|Flask|Spring)\b`),
	regexp.MustCompile(`(?i)\b(?:PostgreSQL|MySQL|MongoDB|Redis|DynamoDB|Elasticsearch)\b`),
	regexp.MustCompile(`(?i)\b(?:CI/CD|DevOps|Agile|Scrum|Kanban)\b`),
	regexp.MustCompile(`(?i)\b(?:HL7|FHIR|DICOM|HIPAA|SOC2|HITRUST|EHR|EMR)\b`),
	regexp.MustCompile(`(?i)\b(?:PHI|PII|FDA|CMS|ICD-10)\b`),
	regexp.MustCompile(`(?i)\b(?:AI|ML|NLP|LLM|GPT|machine learning|deep learning|neural network)\b`),
	regexp.MustCompile(`(?i)\b(?:TensorFlow|PyTorch|scikit-learn|LangChain)\b`),
	regexp.MustCompile(`(?i)\b(?:microservices|scalability|architecture|system design)\b`),
	regexp.MustCompile(`(?i)\b(?:team building|mentoring|roadmap|OKR|KPI)\b`),
}

// extractKeywords scans for technology and skill keywords, deduplicated
// case-insensitively in first-seen order.
func extractKeywords(text string) []string {
	seen := map[string]bool{}
	var keywords []string
	for _, re := range keywordRes {
		for _, m := range re.FindAllString(text, -1) {
			m = strings.TrimSpace(m)
			key := strings.ToLower(m)
			if !seen[key] {
				seen[key] = true
				keywords = append(keywords, m)
			}
		}
	}
	if keywords == nil {
		return []string{}
	}
	return keywords
}

type redFlagPattern struct {
	re   *regexp.Regexp
	flag string
}

var redFlagPatterns = []redFlagPattern{
	{regexp.MustCompile(`wear many hats`), "Vague role scope: 'wear many hats'"},
	{regexp.MustCompile(`fast[- ]paced`), "Fast-paced environment (potential burnout signal)"},
	{regexp.MustCompile(`must be willing to work (?:nights|weekends|overtime)`), "Expects overtime"},
	{regexp.MustCompile(`(?:ninja|rockstar|guru|wizard|unicorn)`), "Buzzword-heavy role description"},
	{regexp.MustCompile(`unlimited (?:pto|vacation)`), "Unlimited PTO (often means less PTO taken)"},
	{regexp.MustCompile(`competitive salary`), "No salary range listed: 'competitive salary'"},
}

const maxReasonableYears = 15

var yearsRe = regexp.MustCompile(`(\d+)\+?\s*years?`)

func detectRedFlags(text string) []string {
	flags := []string{}
	lower := strings.ToLower(text)

	for _, p := range redFlagPatterns {
		if p.re.MatchString(lower) {
			flags = append(flags, p.flag)
		}
	}

	maxYears := 0
	for _, m := range yearsRe.FindAllStringSubmatch(lower, -1) {
		if y, err := strconv.Atoi(m[1]); err == nil && y > maxYears {
			maxYears = y
		}
	}
	if maxYears > maxReasonableYears {
		flags = append(flags, "Requires "+strconv.Itoa(maxYears)+"+ years, unusually high")
	}

	return flags
}
