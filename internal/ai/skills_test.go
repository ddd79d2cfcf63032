package ai

import (
	"os"
	"path/filepath"
	"testing"
)

func writeSkill(t *testing.T, dir, name, content string) {
	t.Helper()
	skillDir := filepath.Join(dir, name)
	if err := os.MkdirAll(skillDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(skillDir, "SKILL.md"), []byte(content), 0o644); err != nil {
		t.Fatalf("write skill: %v", err)
	}
}

func TestLoadSkillsWithFrontmatter(t *testing.T) {
	dir := t.TempDir()
	writeSkill(t, dir, "lesson-summarizer", `---
name: lesson-summarizer
description: Summarizes lesson content for a HUD display.
---
You are a summarizer. Keep it short.`)

	set, err := LoadSkills(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	skill, ok := set.Get("lesson-summarizer")
	if !ok {
		t.Fatal("skill not found")
	}
	if skill.Description != "Summarizes lesson content for a HUD display." {
		t.Fatalf("unexpected description %q", skill.Description)
	}
	if skill.Instructions != "You are a summarizer. Keep it short." {
		t.Fatalf("unexpected instructions %q", skill.Instructions)
	}
}

func TestLoadSkillsWithoutFrontmatter(t *testing.T) {
	dir := t.TempDir()
	writeSkill(t, dir, "urdu-translator", "Translate everything to Urdu.")

	set, err := LoadSkills(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	skill, ok := set.Get("urdu-translator")
	if !ok {
		t.Fatal("skill not found")
	}
	if skill.Instructions != "Translate everything to Urdu." {
		t.Fatalf("unexpected instructions %q", skill.Instructions)
	}
}

func TestLoadSkillsEmptyInstructions(t *testing.T) {
	dir := t.TempDir()
	writeSkill(t, dir, "broken", `---
name: broken
---
`)
	if _, err := LoadSkills(dir); err == nil {
		t.Fatal("expected error for empty instructions")
	}
}

func TestLoadSkillsMissingDir(t *testing.T) {
	if _, err := LoadSkills(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatal("expected error for missing dir")
	}
}
