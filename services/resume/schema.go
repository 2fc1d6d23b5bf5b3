package resume

import "github.com/yshmodi/eiregate/services/llm"

// ResumeSchema is the structured-output contract for extraction
func ResumeSchema() *llm.Schema {
	return &llm.Schema{
		Name: "Resume",
		Definition: map[string]interface{}{
			"type":     "object",
			"required": []string{"name", "contact", "education", "skills"},
			"properties": map[string]interface{}{
				"name":    map[string]interface{}{"type": "string"},
				"summary": map[string]interface{}{"type": "string"},
				"contact": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"phone":    map[string]interface{}{"type": "string"},
						"email":    map[string]interface{}{"type": "string"},
						"linkedin": map[string]interface{}{"type": "string"},
						"location": map[string]interface{}{"type": "string"},
					},
				},
				"education": map[string]interface{}{
					"type":     "array",
					"minItems": 1,
					"items": map[string]interface{}{
						"type":     "object",
						"required": []string{"degree", "institution", "year"},
						"properties": map[string]interface{}{
							"degree":      map[string]interface{}{"type": "string"},
							"field":       map[string]interface{}{"type": "string"},
							"institution": map[string]interface{}{"type": "string"},
							"year":        map[string]interface{}{"type": "string"},
							"nfq_level":   map[string]interface{}{"type": "integer", "minimum": 7, "maximum": 10},
						},
					},
				},
				"experience": map[string]interface{}{
					"type": "array",
					"items": map[string]interface{}{
						"type":     "object",
						"required": []string{"title", "company", "dates"},
						"properties": map[string]interface{}{
							"title":   map[string]interface{}{"type": "string"},
							"company": map[string]interface{}{"type": "string"},
							"dates":   map[string]interface{}{"type": "string"},
							"bullets": map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "string"}},
						},
					},
				},
				"skills": map[string]interface{}{
					"type":     "array",
					"minItems": 1,
					"items": map[string]interface{}{
						"type":     "object",
						"required": []string{"name", "items"},
						"properties": map[string]interface{}{
							"name":  map[string]interface{}{"type": "string"},
							"items": map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "string"}},
						},
					},
				},
				"projects": map[string]interface{}{
					"type": "array",
					"items": map[string]interface{}{
						"type":     "object",
						"required": []string{"title"},
						"properties": map[string]interface{}{
							"title":       map[string]interface{}{"type": "string"},
							"description": map[string]interface{}{"type": "string"},
							"tech":        map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "string"}},
						},
					},
				},
				"certifications": map[string]interface{}{
					"type": "array",
					"items": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"name":   map[string]interface{}{"type": "string"},
							"issuer": map[string]interface{}{"type": "string"},
						},
					},
				},
				"visa_notes": map[string]interface{}{"type": "object"},
			},
		},
	}
}

// TailoredResumeSchema is the structured-output contract for tailoring
func TailoredResumeSchema() *llm.Schema {
	return &llm.Schema{
		Name: "TailoredResume",
		Definition: map[string]interface{}{
			"type":     "object",
			"required": []string{"professional_summary", "achievement_bullets", "key_skills"},
			"properties": map[string]interface{}{
				"professional_summary": map[string]interface{}{
					"type":        "string",
					"description": "4-6 sentence ATS-friendly summary",
				},
				"achievement_bullets": map[string]interface{}{
					"type":     "array",
					"minItems": 5,
					"maxItems": 7,
					"items":    map[string]interface{}{"type": "string"},
				},
				"key_skills": map[string]interface{}{
					"type":     "array",
					"minItems": 10,
					"maxItems": 15,
					"items":    map[string]interface{}{"type": "string"},
				},
			},
		},
	}
}
