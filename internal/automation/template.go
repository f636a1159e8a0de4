package automation

import (
	"fmt"
	"time"

	"github.com/novahq/nova/internal/util"
)

// Template is an immutable plan blueprint: a title, a description and an
// ordered list of step descriptions. Instantiating a template produces a
// fresh Plan each time; templates themselves are never mutated.
type Template struct {
	Name        string
	Title       string
	Description string
	Actions     []string
}

// Instantiate creates a new Plan from the template with a fresh identity,
// a creation timestamp and every task reset to pending. The task list is
// copied; the returned plan shares no mutable state with the template.
func (t Template) Instantiate() (*Plan, error) {
	if len(t.Actions) == 0 {
		return nil, fmt.Errorf("template %q has no actions", t.Name)
	}

	id, err := util.GenerateShortID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate plan id: %w", err)
	}

	tasks := make([]Task, len(t.Actions))
	for i, action := range t.Actions {
		tasks[i] = Task{
			ID:     util.GenerateTaskID(i),
			Action: action,
			Status: TaskStatusPending,
		}
	}

	return &Plan{
		ID:          id,
		Title:       t.Title,
		Description: t.Description,
		CreatedAt:   time.Now(),
		Status:      PlanStatusReady,
		Tasks:       tasks,
	}, nil
}

// BuiltinTemplates returns the built-in plan catalog shown by the dashboard.
func BuiltinTemplates() []Template {
	return []Template{
		{
			Name:        "organize-downloads",
			Title:       "Organize Downloads Folder",
			Description: "Sort the Downloads folder into subfolders by file type.",
			Actions: []string{
				"Scan Downloads folder for files",
				"Group files by type (documents, images, archives, installers)",
				"Create destination subfolders",
				"Move files into matching subfolders",
				"Remove empty leftover folders",
			},
		},
		{
			Name:        "clean-temp-files",
			Title:       "Clean Temporary Files",
			Description: "Find and remove stale temporary files to free disk space.",
			Actions: []string{
				"Locate temporary file directories",
				"Identify files older than 30 days",
				"Calculate space to be reclaimed",
				"Delete stale temporary files",
			},
		},
		{
			Name:        "backup-documents",
			Title:       "Back Up Documents",
			Description: "Copy the Documents folder to the configured backup location.",
			Actions: []string{
				"Verify backup destination is reachable",
				"Compare documents against last backup",
				"Copy new and changed files",
				"Verify copied file checksums",
				"Write backup manifest",
			},
		},
		{
			Name:        "daily-report",
			Title:       "Prepare Daily Report",
			Description: "Collect activity from today and assemble a summary document.",
			Actions: []string{
				"Collect calendar events for today",
				"Gather recently edited documents",
				"Draft summary document",
			},
		},
	}
}

// FindTemplate looks up a built-in template by name.
func FindTemplate(name string) (Template, bool) {
	for _, t := range BuiltinTemplates() {
		if t.Name == name {
			return t, true
		}
	}
	return Template{}, false
}
