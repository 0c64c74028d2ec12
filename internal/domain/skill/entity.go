package skill

const (
	DefaultProgress   = "started"
	DefaultDifficulty = 1

	// UnknownProgress buckets records whose progress is NULL or empty.
	UnknownProgress = "unknown"

	MinDifficulty = 1
	MaxDifficulty = 5

	MaxSkillNameLen    = 100
	MaxResourceTypeLen = 50
	MaxPlatformLen     = 50
	MaxProgressLen     = 20
)

// Skill is one tracked learning item. Progress and Notes are nullable.
type Skill struct {
	ID           int64
	SkillName    string
	ResourceType string
	Platform     string
	Progress     *string
	HoursSpent   float64
	Difficulty   int
	Notes        *string
}

// ProgressLabel is the distribution bucket the record counts towards.
func (s Skill) ProgressLabel() string {
	if s.Progress == nil || *s.Progress == "" {
		return UnknownProgress
	}
	return *s.Progress
}

// Apply overwrites exactly the fields set in p.
func (s *Skill) Apply(p Patch) {
	if p.SkillName != nil {
		s.SkillName = *p.SkillName
	}
	if p.ResourceType != nil {
		s.ResourceType = *p.ResourceType
	}
	if p.Platform != nil {
		s.Platform = *p.Platform
	}
	if p.Progress.Set {
		s.Progress = p.Progress.Value
	}
	if p.HoursSpent != nil {
		s.HoursSpent = *p.HoursSpent
	}
	if p.Difficulty != nil {
		s.Difficulty = *p.Difficulty
	}
	if p.Notes.Set {
		s.Notes = p.Notes.Value
	}
}

// New builds an unsaved record from a creation patch, filling defaults for
// every optional field the patch leaves unset. Required fields are checked
// by the caller through Patch.MissingRequired.
func New(p Patch) Skill {
	progress := DefaultProgress
	s := Skill{
		Progress:   &progress,
		HoursSpent: 0,
		Difficulty: DefaultDifficulty,
	}
	s.Apply(p)
	return s
}

// Distribution maps a progress label to the number of records holding it.
type Distribution map[string]int

type Count struct {
	Label string
	Count int
}

type HoursEntry struct {
	ID         int64
	SkillName  string
	HoursSpent float64
}

// Insights are the dashboard aggregates over all records.
type Insights struct {
	TotalSkills    int
	TotalHours     float64
	Progress       Distribution
	ByPlatform     []Count
	ByResourceType []Count
	ByDifficulty   []Count
	TopByHours     []HoursEntry
}

const TopByHoursLimit = 5
