package analyzer

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"

	"github.com/leadweaver/leadweaver/internal/config"
	"github.com/leadweaver/leadweaver/internal/crawler"
)

// Outreach priority bands derived from the overall quality score.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Analysis is the narrative assessment of one lead, plus a draft
// outreach email.
type Analysis struct {
	CompanyName     string    `json:"companyName"`
	Website         string    `json:"website"`
	Summary         string    `json:"summary"`
	Priority        string    `json:"priority"`
	OutreachSubject string    `json:"outreachSubject"`
	OutreachBody    string    `json:"outreachBody"`
	AnalyzedAt      time.Time `json:"analyzedAt"`
}

// Analyzer turns crawl results into narrative analyses through an
// OpenAI-compatible chat endpoint (Qwen by default). Without an API key
// it degrades to a deterministic score-band analysis.
type Analyzer struct {
	client *openai.Client
	model  string
}

// NewAnalyzer creates an analyzer from cfg. A missing API key is not an
// error; Analyze then always takes the fallback path.
func NewAnalyzer(cfg *config.Config) *Analyzer {
	if cfg.AnalyzerAPIKey == "" {
		return &Analyzer{}
	}

	clientCfg := openai.DefaultConfig(cfg.AnalyzerAPIKey)
	clientCfg.BaseURL = cfg.AnalyzerBaseURL

	return &Analyzer{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.AnalyzerModel,
	}
}

const systemPrompt = `You are a B2B lead-qualification assistant. Given crawled
company data, write a short assessment of the company as a sales lead:
what they do, how reachable they are, and one concrete angle for a first
outreach email. Answer in plain prose, at most 120 words.`

// Analyze produces the narrative for one crawl result. API failures never
// propagate; they degrade to the fallback analysis like every other
// partial failure in the pipeline.
func (a *Analyzer) Analyze(ctx context.Context, r *crawler.CrawlResult) *Analysis {
	analysis := fallbackAnalysis(r)
	if a.client == nil {
		return analysis
	}

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(r)},
		},
	})
	if err != nil || len(resp.Choices) == 0 {
		logrus.Warnf("Lead analysis for %s fell back to heuristics: %v", r.CompanyName, err)
		return analysis
	}

	if summary := strings.TrimSpace(resp.Choices[0].Message.Content); summary != "" {
		analysis.Summary = summary
	}
	return analysis
}

// buildPrompt serializes the crawl result into the user message.
func buildPrompt(r *crawler.CrawlResult) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Company: %s\nWebsite: %s\n", r.CompanyName, r.Website)
	if r.Description != "" {
		fmt.Fprintf(&sb, "Description: %s\n", r.Description)
	}
	if r.BusinessInfo.Industry != "" {
		fmt.Fprintf(&sb, "Industry: %s\n", r.BusinessInfo.Industry)
	}
	if r.BusinessInfo.FoundedYear != "" {
		fmt.Fprintf(&sb, "Founded: %s\n", r.BusinessInfo.FoundedYear)
	}
	if r.BusinessInfo.Employees != "" {
		fmt.Fprintf(&sb, "Employees: %s\n", r.BusinessInfo.Employees)
	}
	fmt.Fprintf(&sb, "Contact emails: %d, phones: %d, addresses: %d\n",
		len(r.ContactEmails), len(r.Phones), len(r.Addresses))
	if r.SocialMedia.LinkedIn != "" {
		fmt.Fprintf(&sb, "LinkedIn: %s\n", r.SocialMedia.LinkedIn)
	}
	fmt.Fprintf(&sb, "Quality score: %d/100 (relevance %d, credibility %d, contact %d)\n",
		r.Score.Overall, r.Score.Relevance, r.Score.Credibility, r.Score.Contact)

	return sb.String()
}

// fallbackAnalysis derives priority and a templated outreach draft from
// the quality score alone.
func fallbackAnalysis(r *crawler.CrawlResult) *Analysis {
	priority := PriorityLow
	switch {
	case r.Score.Overall >= 70:
		priority = PriorityHigh
	case r.Score.Overall >= 40:
		priority = PriorityMedium
	}

	summary := fmt.Sprintf(
		"%s scored %d/100 as a lead. Contact score %d with %d email(s) and %d phone(s) on the site.",
		r.CompanyName, r.Score.Overall, r.Score.Contact, len(r.ContactEmails), len(r.Phones))
	if r.Error != "" {
		summary = fmt.Sprintf("%s could not be analyzed: %s", r.Website, r.Error)
	}

	return &Analysis{
		CompanyName:     r.CompanyName,
		Website:         r.Website,
		Summary:         summary,
		Priority:        priority,
		OutreachSubject: fmt.Sprintf("Partnership opportunity for %s", r.CompanyName),
		OutreachBody: fmt.Sprintf(
			"Hi %s team,\n\nI came across your website and was impressed by what you do. "+
				"I'd love to explore how we could work together.\n\nBest regards", r.CompanyName),
		AnalyzedAt: time.Now(),
	}
}
