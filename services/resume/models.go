package resume

// ContactInfo holds the contact block of a parsed resume
type ContactInfo struct {
	Phone    string `json:"phone,omitempty"`
	Email    string `json:"email,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	Location string `json:"location,omitempty"`
}

// EducationEntry is one education record. NFQLevel follows the Irish National
// Framework of Qualifications: 8 honours bachelor, 9 master's, 10 doctorate.
type EducationEntry struct {
	Degree      string `json:"degree"`
	Field       string `json:"field,omitempty"`
	Institution string `json:"institution"`
	Year        string `json:"year"`
	NFQLevel    int    `json:"nfq_level,omitempty" validate:"omitempty,gte=7,lte=10"`
}

// ExperienceEntry is one employment record
type ExperienceEntry struct {
	Title   string   `json:"title"`
	Company string   `json:"company"`
	Dates   string   `json:"dates"`
	Bullets []string `json:"bullets,omitempty"`
}

// SkillCategory groups related skills under a heading
type SkillCategory struct {
	Name  string   `json:"name"`
	Items []string `json:"items"`
}

// Project is one project record
type Project struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Tech        []string `json:"tech,omitempty"`
}

// Certification is one certification record
type Certification struct {
	Name   string `json:"name"`
	Issuer string `json:"issuer,omitempty"`
}

// Resume is the structured form extracted from raw resume text
type Resume struct {
	Name           string                 `json:"name" validate:"required"`
	Contact        ContactInfo            `json:"contact"`
	Summary        string                 `json:"summary,omitempty"`
	Education      []EducationEntry       `json:"education" validate:"min=1"`
	Experience     []ExperienceEntry      `json:"experience,omitempty"`
	Skills         []SkillCategory        `json:"skills" validate:"min=1"`
	Projects       []Project              `json:"projects,omitempty"`
	Certifications []Certification        `json:"certifications,omitempty"`
	VisaNotes      map[string]interface{} `json:"visa_notes,omitempty"`
}

// TailoredResume is the rewrite produced for one specific job application
type TailoredResume struct {
	ProfessionalSummary string   `json:"professional_summary" validate:"required"`
	AchievementBullets  []string `json:"achievement_bullets" validate:"min=5,max=7"`
	KeySkills           []string `json:"key_skills" validate:"min=10,max=15"`
}
