package catalog

import (
	"strings"

	"github.com/studylane/studylane-backend/internal/types"
)

// NormalizedAliases returns the skill's aliases plus its key, trimmed and
// lower-cased, preserving declaration order. Matching tries them in this
// order; first hit wins.
func NormalizedAliases(skill SkillDefinition) []string {
	out := make([]string, 0, len(skill.Aliases)+1)
	for _, alias := range skill.Aliases {
		out = append(out, strings.ToLower(strings.TrimSpace(alias)))
	}
	out = append(out, strings.ToLower(strings.TrimSpace(skill.Key)))
	return out
}

// StateIndex maps a normalized alias to the authoritative persisted state row
// for that alias. Built once per request.
type StateIndex map[string]*types.StudentSkillState

// BuildStateIndex scans a student's state rows and keeps, per normalized
// alias, the row with the latest updated_at.
func BuildStateIndex(states []*types.StudentSkillState) StateIndex {
	indexed := make(StateIndex, len(states))
	for _, st := range states {
		if st == nil {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(st.Skill))
		if key == "" {
			continue
		}
		if existing, ok := indexed[key]; !ok || existing.UpdatedAt.Before(st.UpdatedAt) {
			indexed[key] = st
		}
	}
	return indexed
}

// MatchState resolves a skill definition against the state index through its
// aliases.
func MatchState(skill SkillDefinition, index StateIndex) *types.StudentSkillState {
	for _, alias := range NormalizedAliases(skill) {
		if st, ok := index[alias]; ok {
			return st
		}
	}
	return nil
}
