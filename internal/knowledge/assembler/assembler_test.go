package assembler

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/gitclixlogix/contentry-knowledge/internal/domain/docModel"
)

type mockRetriever struct {
	onQuery func(ctx context.Context, tier docModel.Tier, scopeId string, query string, n int) ([]docModel.RetrievalResult, error)
	calls   []docModel.Tier
}

func (m *mockRetriever) Query(ctx context.Context, tier docModel.Tier, scopeId string, query string, n int) ([]docModel.RetrievalResult, error) {
	m.calls = append(m.calls, tier)
	if m.onQuery != nil {
		return m.onQuery(ctx, tier, scopeId, query, n)
	}
	return nil, nil
}

func hit(content string) []docModel.RetrievalResult {
	return []docModel.RetrievalResult{{Content: content, Distance: 0.1}}
}

func TestTierPlan_InclusionPolicy(t *testing.T) {
	tests := []struct {
		name     string
		req      Request
		expected []docModel.Tier
	}{
		{
			name: "company profile gets all four tiers",
			req:  Request{UserId: "u1", CompanyId: "c1", ProfileId: "p1", ProfileType: docModel.ProfileCompany},
			expected: []docModel.Tier{
				docModel.TierCompanyUniversal, docModel.TierCompanyProfessional,
				docModel.TierUser, docModel.TierProfile,
			},
		},
		{
			name: "personal profile never sees professional tier",
			req:  Request{UserId: "u1", CompanyId: "c1", ProfileId: "p1", ProfileType: docModel.ProfilePersonal},
			expected: []docModel.Tier{
				docModel.TierCompanyUniversal, docModel.TierUser, docModel.TierProfile,
			},
		},
		{
			name:     "no company drops both company tiers",
			req:      Request{UserId: "u1", ProfileId: "p1", ProfileType: docModel.ProfileCompany},
			expected: []docModel.Tier{docModel.TierUser, docModel.TierProfile},
		},
		{
			name:     "user only",
			req:      Request{UserId: "u1", ProfileType: docModel.ProfilePersonal},
			expected: []docModel.Tier{docModel.TierUser},
		},
		{
			name:     "nothing to query",
			req:      Request{ProfileType: docModel.ProfilePersonal},
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := tierPlan(tt.req)
			if len(plan) != len(tt.expected) {
				t.Fatalf("Plan length got %d, want %d", len(plan), len(tt.expected))
			}
			for i, q := range plan {
				if q.tier != tt.expected[i] {
					t.Errorf("Plan[%d] got %s, want %s", i, q.tier, tt.expected[i])
				}
			}
		})
	}
}

func TestAssemble_PriorityOrder(t *testing.T) {
	retriever := &mockRetriever{
		onQuery: func(ctx context.Context, tier docModel.Tier, scopeId string, query string, n int) ([]docModel.RetrievalResult, error) {
			return hit("content for " + string(tier)), nil
		},
	}
	a := New(retriever)

	assembled := a.Assemble(context.Background(), Request{
		Query: "q", UserId: "u1", CompanyId: "c1", ProfileId: "p1",
		ProfileType: docModel.ProfileCompany,
	})

	universal := strings.Index(assembled, "COMPANY UNIVERSAL POLICY")
	professional := strings.Index(assembled, "COMPANY BRAND & PROFESSIONAL")
	personal := strings.Index(assembled, "PERSONAL KNOWLEDGE")
	profile := strings.Index(assembled, "PROFILE-SPECIFIC")

	if universal < 0 || professional < 0 || personal < 0 || profile < 0 {
		t.Fatalf("Missing a tier section:\n%s", assembled)
	}
	if !(universal < professional && professional < personal && personal < profile) {
		t.Errorf("Sections out of priority order: %d %d %d %d", universal, professional, personal, profile)
	}
}

func TestAssemble_TierFailureIsTolerated(t *testing.T) {
	retriever := &mockRetriever{
		onQuery: func(ctx context.Context, tier docModel.Tier, scopeId string, query string, n int) ([]docModel.RetrievalResult, error) {
			if tier == docModel.TierUser {
				return nil, errors.New("collection timeout")
			}
			return hit("content for " + string(tier)), nil
		},
	}
	a := New(retriever)

	assembled := a.Assemble(context.Background(), Request{
		Query: "q", UserId: "u1", CompanyId: "c1",
		ProfileType: docModel.ProfileCompany,
	})

	if assembled == "" {
		t.Fatal("One failed tier must not empty the whole context")
	}
	if strings.Contains(assembled, "PERSONAL KNOWLEDGE") {
		t.Error("Failed tier should contribute nothing")
	}
	if !strings.Contains(assembled, "COMPANY UNIVERSAL POLICY") {
		t.Error("Surviving tiers should still be present")
	}
}

func TestAssemble_EmptyWhenNothingMatches(t *testing.T) {
	a := New(&mockRetriever{}) //every query returns no results

	assembled := a.Assemble(context.Background(), Request{
		Query: "q", UserId: "u1", CompanyId: "c1", ProfileId: "p1",
		ProfileType: docModel.ProfileCompany,
	})

	if assembled != "" {
		t.Errorf("No contributions must yield the empty string, got %q", assembled)
	}
}

func TestAssemble_SkipsEmptyTiers(t *testing.T) {
	retriever := &mockRetriever{
		onQuery: func(ctx context.Context, tier docModel.Tier, scopeId string, query string, n int) ([]docModel.RetrievalResult, error) {
			if tier == docModel.TierUser {
				return hit("my writing style is terse"), nil
			}
			return nil, nil
		},
	}
	a := New(retriever)

	assembled := a.Assemble(context.Background(), Request{
		Query: "q", UserId: "u1", CompanyId: "c1", ProfileId: "p1",
		ProfileType: docModel.ProfilePersonal,
	})

	if !strings.Contains(assembled, "my writing style is terse") {
		t.Error("User tier hit missing from output")
	}
	if strings.Contains(assembled, "COMPANY UNIVERSAL POLICY") || strings.Contains(assembled, "PROFILE-SPECIFIC") {
		t.Errorf("Empty tiers must not emit headers:\n%s", assembled)
	}
}

func TestAssemble_ProfileTypeFraming(t *testing.T) {
	retriever := &mockRetriever{
		onQuery: func(ctx context.Context, tier docModel.Tier, scopeId string, query string, n int) ([]docModel.RetrievalResult, error) {
			return hit("x"), nil
		},
	}
	a := New(retriever)

	companyCtx := a.Assemble(context.Background(), Request{
		Query: "q", UserId: "u1", CompanyId: "c1", ProfileType: docModel.ProfileCompany,
	})
	personalCtx := a.Assemble(context.Background(), Request{
		Query: "q", UserId: "u1", ProfileType: docModel.ProfilePersonal,
	})

	if !strings.Contains(companyCtx, "on behalf of a company") {
		t.Error("Company framing missing its binding preamble")
	}
	if strings.Contains(personalCtx, "on behalf of a company") {
		t.Error("Personal framing must not use the company preamble")
	}
}

func TestAssemble_DefaultResultsPerTier(t *testing.T) {
	var requested int
	retriever := &mockRetriever{
		onQuery: func(ctx context.Context, tier docModel.Tier, scopeId string, query string, n int) ([]docModel.RetrievalResult, error) {
			requested = n
			return nil, nil
		},
	}
	a := New(retriever)

	a.Assemble(context.Background(), Request{Query: "q", UserId: "u1", ProfileType: docModel.ProfilePersonal})
	if requested != 3 {
		t.Errorf("Unset ResultsPerTier should default to 3, got %d", requested)
	}
}
