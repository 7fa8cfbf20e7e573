package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"personahub/internal/logger"
	"personahub/internal/storage"
)

// HexagonScores holds the six personality dimensions, each on a 0-100
// scale.
type HexagonScores struct {
	Security    float64 `json:"security"`
	Achievement float64 `json:"achievement"`
	Freedom     float64 `json:"freedom"`
	Belonging   float64 `json:"belonging"`
	Novelty     float64 `json:"novelty"`
	Control     float64 `json:"control"`
	Summary     string  `json:"summary"`
}

// AnalysisResult bundles everything one analysis run produced.
type AnalysisResult struct {
	Analysis *storage.Analysis     `json:"analysis"`
	Hexagon  *storage.HexagonModel `json:"hexagon"`
	Scores   HexagonScores         `json:"scores"`
}

// Analyzer runs hexagon personality analysis for a profile: it gathers
// the profile's quotes and experiences, asks the configured model for
// scores, and persists the result.
type Analyzer struct {
	svc   *Service
	store storage.Storage
	log   *logger.Logger
}

// NewAnalyzer returns an Analyzer using svc for LLM access and store for
// profile data and result persistence.
func NewAnalyzer(svc *Service, store storage.Storage, log *logger.Logger) *Analyzer {
	return &Analyzer{svc: svc, store: store, log: log}
}

const hexagonSystemPrompt = `You are a personality analyst. Given a person's profile, ` +
	`their quotes and their life experiences, rate them on six dimensions, ` +
	`each from 0 to 100: security, achievement, freedom, belonging, novelty, control. ` +
	`Respond with a single JSON object of the form ` +
	`{"security":0,"achievement":0,"freedom":0,"belonging":0,"novelty":0,"control":0,"summary":""} ` +
	`where summary is a short paragraph explaining the scores. Respond with JSON only.`

// AnalyzeProfile runs a full analysis for the profile. An empty configID
// uses the default LLM config.
func (a *Analyzer) AnalyzeProfile(ctx context.Context, profileID int64, configID string) (*AnalysisResult, error) {
	profile, err := a.store.GetProfileByID(ctx, profileID)
	if err != nil {
		return nil, err
	}
	quotes, err := a.store.GetQuotesByProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}
	experiences, err := a.store.GetExperienceTimeline(ctx, profileID)
	if err != nil {
		return nil, err
	}

	prompt := buildAnalysisPrompt(profile, quotes, experiences)
	a.log.Info("[Analysis] analyzing profile %d (%d quotes, %d experiences)",
		profileID, len(quotes), len(experiences))

	result, err := a.svc.Query(ctx, configID, []ChatMessage{
		{Role: "system", Content: hexagonSystemPrompt},
		{Role: "user", Content: prompt},
	})
	if err != nil {
		return nil, fmt.Errorf("analysis request failed: %w", err)
	}

	scores, err := ParseHexagonScores(result.Content)
	if err != nil {
		return nil, err
	}

	hexagon, err := a.store.CreateHexagon(ctx, &storage.HexagonModel{
		ProfileID:   profileID,
		Security:    scores.Security,
		Achievement: scores.Achievement,
		Freedom:     scores.Freedom,
		Belonging:   scores.Belonging,
		Novelty:     scores.Novelty,
		Control:     scores.Control,
		Notes:       scores.Summary,
	})
	if err != nil {
		return nil, fmt.Errorf("save hexagon model: %w", err)
	}

	analysis, err := a.store.CreateAnalysis(ctx, &storage.Analysis{
		ID:        uuid.NewString(),
		ProfileID: profileID,
		HexagonID: hexagon.ID,
		Provider:  string(result.Provider),
		Model:     result.Model,
		Content:   result.Content,
	})
	if err != nil {
		return nil, fmt.Errorf("save analysis: %w", err)
	}

	return &AnalysisResult{Analysis: analysis, Hexagon: hexagon, Scores: *scores}, nil
}

func buildAnalysisPrompt(profile *storage.Profile, quotes []*storage.Quote, experiences []*storage.Experience) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Name: %s\n", profile.Name)
	if profile.Title != "" {
		fmt.Fprintf(&sb, "Title: %s\n", profile.Title)
	}
	if profile.Bio != "" {
		fmt.Fprintf(&sb, "Bio: %s\n", profile.Bio)
	}
	if len(profile.Tags) > 0 {
		fmt.Fprintf(&sb, "Tags: %s\n", strings.Join(profile.Tags, ", "))
	}

	if len(quotes) > 0 {
		sb.WriteString("\nQuotes:\n")
		for _, q := range quotes {
			fmt.Fprintf(&sb, "- %q", q.Content)
			if q.Source != "" {
				fmt.Fprintf(&sb, " (%s)", q.Source)
			}
			sb.WriteString("\n")
		}
	}

	if len(experiences) > 0 {
		sb.WriteString("\nExperiences:\n")
		for _, e := range experiences {
			fmt.Fprintf(&sb, "- %s", e.Title)
			if !e.StartDate.IsZero() {
				fmt.Fprintf(&sb, " (from %s", e.StartDate.Format("2006-01"))
				if e.EndDate != nil {
					fmt.Fprintf(&sb, " to %s", e.EndDate.Format("2006-01"))
				}
				sb.WriteString(")")
			}
			if e.Description != "" {
				fmt.Fprintf(&sb, ": %s", e.Description)
			}
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// ParseHexagonScores extracts the six-dimension JSON object from a model
// reply. Models often wrap JSON in prose or markdown fences, so the
// parser works on the outermost braces. Scores are clamped to [0, 100].
func ParseHexagonScores(content string) (*HexagonScores, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in analysis response")
	}

	var scores HexagonScores
	if err := json.Unmarshal([]byte(content[start:end+1]), &scores); err != nil {
		return nil, fmt.Errorf("parse analysis response: %w", err)
	}

	scores.Security = clampScore(scores.Security)
	scores.Achievement = clampScore(scores.Achievement)
	scores.Freedom = clampScore(scores.Freedom)
	scores.Belonging = clampScore(scores.Belonging)
	scores.Novelty = clampScore(scores.Novelty)
	scores.Control = clampScore(scores.Control)
	return &scores, nil
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
