package ai

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Skill is a reusable generation instruction set loaded from a SKILL.md
// definition file.
type Skill struct {
	Name         string
	Description  string
	Instructions string
}

type skillFrontmatter struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// SkillSet is the registry of loaded skills.
type SkillSet struct {
	skills map[string]Skill
}

// LoadSkills reads every skills/<name>/SKILL.md under dir. A SKILL.md holds
// optional yaml frontmatter between "---" markers followed by the system
// instructions.
func LoadSkills(dir string) (*SkillSet, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read skills dir: %w", err)
	}

	set := &SkillSet{skills: make(map[string]Skill)}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name(), "SKILL.md")
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("read skill %s: %w", entry.Name(), err)
		}

		skill, err := parseSkill(entry.Name(), string(data))
		if err != nil {
			return nil, fmt.Errorf("parse skill %s: %w", entry.Name(), err)
		}
		set.skills[skill.Name] = skill
	}
	return set, nil
}

// Get returns the named skill.
func (s *SkillSet) Get(name string) (Skill, bool) {
	skill, ok := s.skills[name]
	return skill, ok
}

// Names lists the loaded skill names.
func (s *SkillSet) Names() []string {
	names := make([]string, 0, len(s.skills))
	for name := range s.skills {
		names = append(names, name)
	}
	return names
}

func parseSkill(dirName, content string) (Skill, error) {
	skill := Skill{Name: dirName}

	parts := strings.SplitN(content, "---", 3)
	if len(parts) >= 3 {
		var meta skillFrontmatter
		if err := yaml.Unmarshal([]byte(parts[1]), &meta); err != nil {
			return Skill{}, fmt.Errorf("frontmatter: %w", err)
		}
		if meta.Name != "" {
			skill.Name = meta.Name
		}
		skill.Description = meta.Description
		skill.Instructions = strings.TrimSpace(parts[2])
	} else {
		skill.Instructions = strings.TrimSpace(content)
	}

	if skill.Instructions == "" {
		return Skill{}, fmt.Errorf("skill %s has no instructions", dirName)
	}
	return skill, nil
}
