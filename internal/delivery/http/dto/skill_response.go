package dto

import "skillstack/internal/domain/skill"

// SkillResponse always carries all eight keys; nullable fields encode as null.
type SkillResponse struct {
	ID           int64   `json:"id"`
	SkillName    string  `json:"skill_name"`
	ResourceType string  `json:"resource_type"`
	Platform     string  `json:"platform"`
	Progress     *string `json:"progress"`
	HoursSpent   float64 `json:"hours_spent"`
	Difficulty   int     `json:"difficulty"`
	Notes        *string `json:"notes"`
}

func NewSkillResponse(s skill.Skill) SkillResponse {
	return SkillResponse{
		ID:           s.ID,
		SkillName:    s.SkillName,
		ResourceType: s.ResourceType,
		Platform:     s.Platform,
		Progress:     s.Progress,
		HoursSpent:   s.HoursSpent,
		Difficulty:   s.Difficulty,
		Notes:        s.Notes,
	}
}

func NewSkillListResponse(items []skill.Skill) []SkillResponse {
	out := make([]SkillResponse, 0, len(items))
	for _, s := range items {
		out = append(out, NewSkillResponse(s))
	}
	return out
}

type CountResponse struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

type HoursEntryResponse struct {
	ID         int64   `json:"id"`
	SkillName  string  `json:"skill_name"`
	HoursSpent float64 `json:"hours_spent"`
}

type InsightsResponse struct {
	TotalSkills    int                  `json:"total_skills"`
	TotalHours     float64              `json:"total_hours"`
	Progress       map[string]int       `json:"progress"`
	ByPlatform     []CountResponse      `json:"by_platform"`
	ByResourceType []CountResponse      `json:"by_resource_type"`
	ByDifficulty   []CountResponse      `json:"by_difficulty"`
	TopByHours     []HoursEntryResponse `json:"top_by_hours"`
}

func NewInsightsResponse(in skill.Insights) InsightsResponse {
	progress := map[string]int(in.Progress)
	if progress == nil {
		progress = map[string]int{}
	}

	top := make([]HoursEntryResponse, 0, len(in.TopByHours))
	for _, e := range in.TopByHours {
		top = append(top, HoursEntryResponse{ID: e.ID, SkillName: e.SkillName, HoursSpent: e.HoursSpent})
	}

	return InsightsResponse{
		TotalSkills:    in.TotalSkills,
		TotalHours:     in.TotalHours,
		Progress:       progress,
		ByPlatform:     counts(in.ByPlatform),
		ByResourceType: counts(in.ByResourceType),
		ByDifficulty:   counts(in.ByDifficulty),
		TopByHours:     top,
	}
}

func counts(in []skill.Count) []CountResponse {
	out := make([]CountResponse, 0, len(in))
	for _, c := range in {
		out = append(out, CountResponse{Label: c.Label, Count: c.Count})
	}
	return out
}
