package model

// Skill is a categorized competency inferred from a project.
type Skill struct {
	ID                  int64  `json:"id"`
	Name                string `json:"name"`
	Description         string `json:"description"`
	Category            string `json:"category"`
	CategoryDisplayName string `json:"categoryDisplayName"`
	Level               Level  `json:"level"`
	LevelDisplay        string `json:"levelDisplay"`
	ProjectName         string `json:"projectName"`
}
