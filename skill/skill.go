// Package skill supports Claude-compatible Agent Skills: modular
// capabilities that extend what an agent can do through SKILL.md files
// containing YAML frontmatter and a Markdown body.
//
// A skill file looks like:
//
//	---
//	name: code-reviewer
//	description: Review code for best practices and potential issues.
//	allowed-tools:
//	  - Read
//	  - Grep
//	  - Glob
//	---
//
//	# Code Reviewer
//	1. Read the target files
//	2. Analyze for common issues
//	3. Provide actionable feedback
//
// Skills are discovered from .agentcore/skills/ and .claude/skills/ under both
// the project directory and the user's home directory, project paths
// taking precedence. The first skill found with a given name wins.
package skill

// Skill is a loaded skill: its identity, the instructions an agent should
// follow once it's active, and an optional tool allowlist.
type Skill struct {
	// Name identifies the skill, from frontmatter or derived from its path.
	Name string

	// Description is shown to the LLM so it can decide when to invoke the
	// skill.
	Description string

	// Instructions is the Markdown body following the frontmatter.
	Instructions string

	// AllowedTools restricts which tools may run while this skill is
	// active. Empty means no restriction.
	AllowedTools []string

	// FilePath is the source file, kept for diagnostics.
	FilePath string
}

// SkillConfig is the YAML frontmatter shape of a SKILL.md file.
type SkillConfig struct {
	Name         string   `yaml:"name"`
	Description  string   `yaml:"description"`
	AllowedTools []string `yaml:"allowed-tools,omitempty"`
}

// IsToolAllowed reports whether toolName may run while this skill is
// active. A skill with no AllowedTools permits everything; otherwise the
// name must match an entry case-insensitively.
func (s *Skill) IsToolAllowed(toolName string) bool {
	if len(s.AllowedTools) == 0 {
		return true
	}
	for _, allowed := range s.AllowedTools {
		if equalsIgnoreCase(allowed, toolName) {
			return true
		}
	}
	return false
}

func equalsIgnoreCase(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if ca >= 'A' && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if cb >= 'A' && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}
