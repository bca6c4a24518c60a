package assembler

import (
	"context"
	"strings"
	"time"

	"github.com/gitclixlogix/contentry-knowledge/internal/config"
	"github.com/gitclixlogix/contentry-knowledge/internal/domain/docModel"
	"github.com/gitclixlogix/contentry-knowledge/internal/knowledge/retrieval"
	"github.com/gitclixlogix/contentry-knowledge/internal/metrics"
	"github.com/gitclixlogix/contentry-knowledge/pkg/logger_i"
)

// Request carries everything the tier inclusion policy needs. ProfileType
// decides how strict the directive framing is and whether the professional
// tier participates at all.
type Request struct {
	Query          string
	UserId         string
	CompanyId      string
	ProfileId      string
	ProfileType    docModel.ProfileType
	ResultsPerTier int
}

type Assembler struct {
	retriever retrieval.Retriever
	logger    *logger_i.Logger
}

func New(retriever retrieval.Retriever) *Assembler {
	return &Assembler{
		retriever: retriever,
		logger:    logger_i.NewLogger("Context Assembler"),
	}
}

type tierQuery struct {
	tier    docModel.Tier
	scopeId string
}

type tierSection struct {
	tier    docModel.Tier
	results []docModel.RetrievalResult
}

// tierPlan applies the inclusion policy, in priority order:
//  1. company_universal: any company, regardless of profile type
//  2. company_professional: company profiles only - personal profiles never
//     receive professional brand knowledge, intentionally
//  3. user: whenever a user is known
//  4. profile: whenever a profile is known
func tierPlan(req Request) []tierQuery {
	var plan []tierQuery
	if req.CompanyId != "" {
		plan = append(plan, tierQuery{docModel.TierCompanyUniversal, req.CompanyId})
	}
	if req.CompanyId != "" && req.ProfileType == docModel.ProfileCompany {
		plan = append(plan, tierQuery{docModel.TierCompanyProfessional, req.CompanyId})
	}
	if req.UserId != "" {
		plan = append(plan, tierQuery{docModel.TierUser, req.UserId})
	}
	if req.ProfileId != "" {
		plan = append(plan, tierQuery{docModel.TierProfile, req.ProfileId})
	}
	return plan
}

// Assemble merges per-tier retrieval results into one directive-annotated
// context string. Each tier is queried independently; a failing tier
// contributes nothing but never aborts the others. No contribution at all
// yields an empty string, which callers must treat as "no context".
func (a *Assembler) Assemble(ctx context.Context, req Request) string {
	start := time.Now()

	if req.ResultsPerTier <= 0 {
		req.ResultsPerTier = config.DefaultResultsPerTier
	}

	var sections []tierSection
	for _, q := range tierPlan(req) {
		results, err := a.retriever.Query(ctx, q.tier, q.scopeId, req.Query, req.ResultsPerTier)
		if err != nil {
			a.logger.Error("tier query failed, continuing without it", "tier", q.tier, "error", err)
			continue
		}
		if len(results) == 0 {
			continue
		}
		sections = append(sections, tierSection{tier: q.tier, results: results})
	}

	if len(sections) == 0 {
		metrics.CaptureAssemblyMetrics("empty", time.Since(start))
		return ""
	}

	var builder strings.Builder
	builder.WriteString(preamble(req.ProfileType))
	for _, section := range sections {
		builder.WriteString("\n\n")
		builder.WriteString(tierLabel(section.tier))
		builder.WriteString("\n")
		for _, result := range section.results {
			builder.WriteString("- ")
			builder.WriteString(result.Content)
			builder.WriteString("\n")
		}
	}
	builder.WriteString("\n")
	builder.WriteString(closing(req.ProfileType))

	metrics.CaptureAssemblyMetrics("assembled", time.Since(start))
	return builder.String()
}

func tierLabel(tier docModel.Tier) string {
	switch tier {
	case docModel.TierCompanyUniversal:
		return "=== COMPANY UNIVERSAL POLICY (NON-NEGOTIABLE) ==="
	case docModel.TierCompanyProfessional:
		return "=== COMPANY BRAND & PROFESSIONAL KNOWLEDGE ==="
	case docModel.TierUser:
		return "=== PERSONAL KNOWLEDGE & GUIDELINES ==="
	case docModel.TierProfile:
		return "=== PROFILE-SPECIFIC KNOWLEDGE ==="
	}
	return "=== KNOWLEDGE ==="
}

func preamble(profileType docModel.ProfileType) string {
	if profileType == docModel.ProfileCompany {
		return "You are producing content on behalf of a company. The knowledge below is binding brand" +
			" and compliance material: company universal policy overrides everything else, followed by" +
			" brand knowledge, then personal and profile guidance. Do not contradict any of it."
	}
	return "The knowledge below provides context for this request. Company universal policy, if present," +
		" is always binding; the remaining sections are personal guidelines and background to draw on" +
		" where relevant."
}

func closing(profileType docModel.ProfileType) string {
	if profileType == docModel.ProfileCompany {
		return "Reminder: every statement you produce must comply with the company universal policy and" +
			" stay on brand. When knowledge sections conflict, the earlier section wins."
	}
	return "Reminder: respect the company universal policy where present, and use the personal guidelines" +
		" to keep the output in the author's own style."
}
