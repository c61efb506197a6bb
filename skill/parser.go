package skill

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
)

const frontmatterDelimiter = "---"

// ParseSkillFile reads filePath and parses it as a skill.
func ParseSkillFile(filePath string) (*Skill, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("reading skill file: %w", err)
	}
	return ParseSkillContent(content, filePath)
}

// ParseSkillContent parses skill content already read into memory. content
// must start with a YAML frontmatter block delimited by "---" lines; the
// remainder is the skill's instructions. filePath is used to derive a name
// when the frontmatter omits one, and is stored on the returned Skill.
func ParseSkillContent(content []byte, filePath string) (*Skill, error) {
	content = bytes.TrimLeft(content, " \t\r\n")

	if !bytes.HasPrefix(content, []byte(frontmatterDelimiter)) {
		return nil, fmt.Errorf("skill file must start with YAML frontmatter (---)")
	}
	content = content[len(frontmatterDelimiter):]

	idx := bytes.Index(content, []byte("\n"+frontmatterDelimiter))
	if idx == -1 {
		return nil, fmt.Errorf("missing closing frontmatter delimiter (---)")
	}

	frontmatter := content[:idx]
	body := bytes.TrimLeft(content[idx+len("\n"+frontmatterDelimiter):], "\r\n")

	var config SkillConfig
	if err := yaml.Unmarshal(frontmatter, &config); err != nil {
		return nil, fmt.Errorf("parsing skill frontmatter: %w", err)
	}

	if config.Name == "" {
		config.Name = deriveSkillName(filePath)
	}
	if config.Name == "" {
		return nil, fmt.Errorf("skill name is required")
	}

	return &Skill{
		Name:         config.Name,
		Description:  config.Description,
		Instructions: strings.TrimSpace(string(body)),
		AllowedTools: config.AllowedTools,
		FilePath:     filePath,
	}, nil
}

// deriveSkillName falls back to the parent directory name for SKILL.md
// files (directory-form skills) or the filename minus ".md" otherwise
// (flat-form skills).
func deriveSkillName(filePath string) string {
	base := filepath.Base(filePath)
	if strings.EqualFold(base, "SKILL.md") {
		return filepath.Base(filepath.Dir(filePath))
	}
	return strings.TrimSuffix(base, ".md")
}
