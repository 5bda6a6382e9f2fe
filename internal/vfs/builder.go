package vfs

import (
	"fmt"
	"strings"

	"termfolio/internal/content"
)

// Labels shown next to each top-level entry by tree.
var categoryLabels = map[string]string{
	content.CategoryAbout:     "About me",
	content.CategoryEducation: "Academic background",
	content.CategorySkills:    "Technical skills",
	content.CategoryProjects:  "Portfolio projects",
	content.CategoryContact:   "Contact information",
}

// Build turns a snapshot into a complete tree. It never fails: a missing
// category is left out of the root listing and recorded in Tree.Missing, and a
// record whose id cannot be a path segment is recorded in Tree.Skipped.
func Build(snap *content.Snapshot) *Tree {
	t := &Tree{nodes: make(map[string]*Node)}
	root := &Node{Path: Root, Name: Root, Kind: KindDir}

	for _, category := range content.Categories {
		if !snap.Has(category) {
			t.Missing = append(t.Missing, category)
			continue
		}

		var n *Node
		switch category {
		case content.CategoryAbout:
			n = fileNode(category, aboutLines(snap.Personal))
		case content.CategorySkills:
			n = fileNode(category, skillLines(snap.Skills, snap.Technologies))
		case content.CategoryContact:
			n = fileNode(category, contactLines(snap.Contact))
		case content.CategoryEducation:
			n = t.buildEducation(snap.Education)
		case content.CategoryProjects:
			n = t.buildProjects(snap.Projects)
		}
		n.Label = categoryLabels[category]
		t.add(n)
		root.Children = append(root.Children, category)
	}

	t.add(root)
	return t
}

func fileNode(name string, lines []string) *Node {
	return &Node{Path: Join(Root, name), Name: name, Kind: KindFile, Lines: lines}
}

func (t *Tree) buildEducation(records []content.Education) *Node {
	dir := &Node{Path: Join(Root, content.CategoryEducation), Name: content.CategoryEducation, Kind: KindDir}
	seen := make(map[string]bool)

	for _, e := range records {
		if reason := invalidID(e.ID, seen); reason != "" {
			t.Skipped = append(t.Skipped, fmt.Sprintf("%s: %s", content.CategoryEducation, reason))
			continue
		}
		seen[e.ID] = true

		heading := e.Institution
		if e.Year != "" {
			heading = fmt.Sprintf("%s (%s)", e.Institution, e.Year)
		}
		lines := []string{heading, ""}
		lines = appendField(lines, "Degree", e.Degree)
		lines = appendField(lines, "Description", e.Description)
		lines = appendParagraph(lines, e.Details)

		t.add(&Node{
			Path:  Join(dir.Path, e.ID),
			Name:  e.ID,
			Kind:  KindFile,
			Lines: lines,
			Label: e.Institution,
		})
		dir.Children = append(dir.Children, e.ID)
	}
	return dir
}

func (t *Tree) buildProjects(records []content.Project) *Node {
	dir := &Node{Path: Join(Root, content.CategoryProjects), Name: content.CategoryProjects, Kind: KindDir}
	seen := make(map[string]bool)

	for _, p := range records {
		if reason := invalidID(p.ID, seen); reason != "" {
			t.Skipped = append(t.Skipped, fmt.Sprintf("%s: %s", content.CategoryProjects, reason))
			continue
		}
		seen[p.ID] = true

		lines := []string{p.Title, ""}
		lines = appendField(lines, "Language", strings.Join(p.Tech, ", "))
		if p.Lines > 0 {
			lines = append(lines, fmt.Sprintf("Lines of Code: ~%d", p.Lines))
		}
		lines = appendField(lines, "Time", p.Time)
		if p.Description != "" {
			lines = append(lines, "", "Description: "+p.Description)
		}
		lines = appendParagraph(lines, p.Details)

		t.add(&Node{
			Path:  Join(dir.Path, p.ID),
			Name:  p.ID,
			Kind:  KindFile,
			Lines: lines,
			Label: p.Title,
		})
		dir.Children = append(dir.Children, p.ID)
	}
	return dir
}

// invalidID returns why id cannot name a node, or "" if it can.
func invalidID(id string, seen map[string]bool) string {
	switch {
	case strings.TrimSpace(id) == "":
		return "skipped record with empty id"
	case id == "." || id == ".." || id == Root:
		return fmt.Sprintf("skipped record with reserved id %q", id)
	case strings.ContainsAny(id, "/ \t"):
		return fmt.Sprintf("skipped record with invalid id %q", id)
	case seen[id]:
		return fmt.Sprintf("skipped duplicate id %q", id)
	}
	return ""
}

func aboutLines(p *content.Personal) []string {
	var lines []string
	lines = appendField(lines, "Name", p.Name)
	if p.Age > 0 {
		lines = append(lines, fmt.Sprintf("Age: %d", p.Age))
	}
	lines = appendField(lines, "Location", p.Location)
	lines = appendField(lines, "Education", p.Degree)
	lines = appendField(lines, "Expected Graduation", p.GraduationYear)
	lines = appendField(lines, "Coding Since", p.CodingSince)
	return append(lines, "", p.Description)
}

func skillLines(skills []content.Skill, tech []content.TechGroup) []string {
	lines := []string{"Programming Languages:"}
	for _, s := range skills {
		lines = append(lines, fmt.Sprintf("  • %-12s %s %d%% - %d years, %d+ projects",
			s.Name, skillBar(s.Level), s.Level, s.Years, s.Projects))
	}
	if len(tech) > 0 {
		lines = append(lines, "", "Technologies:")
		for _, g := range tech {
			lines = append(lines, fmt.Sprintf("  %s: %s", g.Label, strings.Join(g.Items, ", ")))
		}
	}
	return lines
}

// skillBar renders a level percentage as a ten-cell bar.
func skillBar(level int) string {
	filled := level / 10
	if filled < 0 {
		filled = 0
	}
	if filled > 10 {
		filled = 10
	}
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", 10-filled) + "]"
}

func contactLines(c *content.Contact) []string {
	var lines []string
	lines = appendField(lines, "Email", c.Email)
	if c.GitHub != "" {
		lines = append(lines, "GitHub: github.com/"+c.GitHub)
	}
	lines = appendField(lines, "Location", c.Location)
	return appendParagraph(lines, c.Note)
}

func appendField(lines []string, label, value string) []string {
	if value == "" {
		return lines
	}
	return append(lines, label+": "+value)
}

// appendParagraph adds a blank separator and text, unless text is empty.
func appendParagraph(lines []string, text string) []string {
	if text == "" {
		return lines
	}
	return append(lines, "", text)
}
