package view

import "github.com/okian/skillview/internal/domain/model"

// SkillGroup is one category section of the skill list.
type SkillGroup struct {
	Category    string
	DisplayName string
	Skills      []model.Skill
}

// GroupByCategory groups skills by category. Groups appear in the order
// their first skill appears; skills keep server order within a group.
func GroupByCategory(skills []model.Skill) []SkillGroup {
	index := make(map[string]int)
	var groups []SkillGroup
	for _, s := range skills {
		i, ok := index[s.Category]
		if !ok {
			i = len(groups)
			index[s.Category] = i
			groups = append(groups, SkillGroup{Category: s.Category, DisplayName: s.CategoryDisplayName})
		}
		groups[i].Skills = append(groups[i].Skills, s)
	}
	return groups
}
