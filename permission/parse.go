package permission

import (
	"fmt"
	"strings"
)

// ParseRule parses a string like "Bash(go test *)" into a Rule.
// The format is: ToolPattern or ToolPattern(specifier).
func ParseRule(ruleType RuleType, spec string) (Rule, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Rule{}, fmt.Errorf("empty rule spec")
	}

	// Check for parameterized pattern: ToolName(specifier)
	if idx := strings.Index(spec, "("); idx > 0 && strings.HasSuffix(spec, ")") {
		toolPattern := strings.TrimSpace(spec[:idx])
		specifier := strings.TrimSpace(spec[idx+1 : len(spec)-1])
		if specifier == "" {
			return Rule{}, fmt.Errorf("empty specifier in rule %q", spec)
		}
		return Rule{
			Type:      ruleType,
			Tool:      toolPattern,
			Specifier: specifier,
		}, nil
	}

	// Simple tool pattern
	return Rule{
		Type: ruleType,
		Tool: spec,
	}, nil
}

// ParseRuleWithSpecifier parses a tool pattern and specifier into a Rule.
func ParseRuleWithSpecifier(ruleType RuleType, toolPattern, specifier string) Rule {
	return Rule{
		Type:      ruleType,
		Tool:      toolPattern,
		Specifier: specifier,
	}
}

// ApplyRuleSpecs parses each rule spec ("ToolPattern" or "ToolPattern(specifier)")
// under ruleType and appends the resulting rules to cfg.Rules. This is the
// entry point a settings loader uses to turn a project's string-based rule
// lists (e.g. permissions.allow: ["Bash(go test *)"] in a settings file) into
// the Rule values EvaluateToolUse consults, without callers having to know
// the "(specifier)" syntax themselves.
func ApplyRuleSpecs(cfg *Config, ruleType RuleType, specs []string) error {
	for _, spec := range specs {
		rule, err := ParseRule(ruleType, spec)
		if err != nil {
			return fmt.Errorf("parsing rule %q: %w", spec, err)
		}
		cfg.Rules = append(cfg.Rules, rule)
	}
	return nil
}
