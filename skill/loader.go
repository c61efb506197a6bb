package skill

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Logger receives diagnostic messages during skill loading. Implementations
// are typically backed by whatever structured logger the host process uses.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
}

// LoaderOptions configures where a Loader searches for skills.
type LoaderOptions struct {
	// ProjectDir is searched for ProjectDir/.agentcore/skills and
	// ProjectDir/.claude/skills. Defaults to the current working directory.
	ProjectDir string

	// HomeDir is searched for HomeDir/.agentcore/skills and HomeDir/.claude/skills.
	// Defaults to os.UserHomeDir().
	HomeDir string

	// Logger receives debug/warn messages. May be nil.
	Logger Logger

	// AdditionalPaths are searched last, in order, after the default paths.
	AdditionalPaths []string

	// DisableClaudePaths skips the .claude/skills search paths.
	DisableClaudePaths bool

	// DisableAgentcorePaths skips the .agentcore/skills search paths.
	DisableAgentcorePaths bool
}

// Loader discovers and parses skills from the configured search paths. It
// is not safe for concurrent use.
type Loader struct {
	opts   LoaderOptions
	skills map[string]*Skill
}

// NewLoader returns a Loader with no skills loaded yet; call LoadSkills to
// populate it.
func NewLoader(opts LoaderOptions) *Loader {
	return &Loader{opts: opts, skills: make(map[string]*Skill)}
}

// LoadSkills scans all configured search paths in priority order and
// (re)populates the loader's skill set. Safe to call again to pick up
// filesystem changes. A malformed skill file is logged and skipped, not
// fatal; this only returns an error if the search paths themselves can't
// be determined.
func (l *Loader) LoadSkills() error {
	l.skills = make(map[string]*Skill)

	paths, err := l.searchPaths()
	if err != nil {
		return fmt.Errorf("getting search paths: %w", err)
	}
	for _, p := range paths {
		if err := l.loadFromPath(p); err != nil {
			l.logWarn("failed to load skills from %s: %v", p, err)
		}
	}
	return nil
}

// GetSkill returns the skill with the given exact name.
func (l *Loader) GetSkill(name string) (*Skill, bool) {
	s, ok := l.skills[name]
	return s, ok
}

// ListSkills returns all loaded skills sorted by name.
func (l *Loader) ListSkills() []*Skill {
	out := make([]*Skill, 0, len(l.skills))
	for _, s := range l.skills {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ListSkillNames returns the names of all loaded skills, sorted.
func (l *Loader) ListSkillNames() []string {
	names := make([]string, 0, len(l.skills))
	for name := range l.skills {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SkillCount returns the number of loaded skills.
func (l *Loader) SkillCount() int {
	return len(l.skills)
}

// searchPaths returns directories to scan, in priority order: project
// agentcore, project Claude, home agentcore, home Claude, then AdditionalPaths.
func (l *Loader) searchPaths() ([]string, error) {
	var paths []string

	projectDir := l.opts.ProjectDir
	if projectDir == "" {
		var err error
		projectDir, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
	}

	homeDir := l.opts.HomeDir
	if homeDir == "" {
		var err error
		homeDir, err = os.UserHomeDir()
		if err != nil {
			l.logWarn("could not determine home directory: %v", err)
			homeDir = ""
		}
	}

	if !l.opts.DisableAgentcorePaths {
		paths = append(paths, filepath.Join(projectDir, ".agentcore", "skills"))
	}
	if !l.opts.DisableClaudePaths {
		paths = append(paths, filepath.Join(projectDir, ".claude", "skills"))
	}
	if homeDir != "" {
		if !l.opts.DisableAgentcorePaths {
			paths = append(paths, filepath.Join(homeDir, ".agentcore", "skills"))
		}
		if !l.opts.DisableClaudePaths {
			paths = append(paths, filepath.Join(homeDir, ".claude", "skills"))
		}
	}
	paths = append(paths, l.opts.AdditionalPaths...)
	return paths, nil
}

// loadFromPath scans a single directory for directory-form skills (a
// subdirectory containing SKILL.md) and flat-form skills (a standalone
// .md file). A missing directory is not an error.
func (l *Loader) loadFromPath(searchPath string) error {
	entries, err := os.ReadDir(searchPath)
	if os.IsNotExist(err) {
		l.logDebug("skill path does not exist: %s", searchPath)
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			l.loadFile(filepath.Join(searchPath, entry.Name(), "SKILL.md"))
		} else if strings.HasSuffix(strings.ToLower(entry.Name()), ".md") {
			l.loadFile(filepath.Join(searchPath, entry.Name()))
		}
	}
	return nil
}

// loadFile parses a single skill file and, if a skill by that name isn't
// already loaded, registers it. A nonexistent file is silently skipped;
// a parse failure is logged, not fatal.
func (l *Loader) loadFile(filePath string) {
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return
	}

	s, err := ParseSkillFile(filePath)
	if err != nil {
		l.logWarn("failed to parse skill file %s: %v", filePath, err)
		return
	}

	if _, exists := l.skills[s.Name]; exists {
		l.logDebug("skill %s already loaded, ignoring %s", s.Name, filePath)
		return
	}
	l.skills[s.Name] = s
	l.logDebug("loaded skill %s from %s", s.Name, filePath)
}

func (l *Loader) logDebug(format string, args ...any) {
	if l.opts.Logger != nil {
		l.opts.Logger.Debug(fmt.Sprintf(format, args...))
	}
}

func (l *Loader) logWarn(format string, args ...any) {
	if l.opts.Logger != nil {
		l.opts.Logger.Warn(fmt.Sprintf(format, args...))
	}
}
