package automation

import "testing"

func TestInstantiate(t *testing.T) {
	tmpl := Template{
		Name:        "test-template",
		Title:       "Test Template",
		Description: "A test template",
		Actions:     []string{"First step", "Second step", "Third step"},
	}

	plan, err := tmpl.Instantiate()
	if err != nil {
		t.Fatalf("Instantiate() error: %v", err)
	}

	if plan.ID == "" {
		t.Error("plan ID is empty")
	}
	if plan.Title != tmpl.Title {
		t.Errorf("Title = %q, want %q", plan.Title, tmpl.Title)
	}
	if plan.Status != PlanStatusReady {
		t.Errorf("Status = %q, want %q", plan.Status, PlanStatusReady)
	}
	if plan.CreatedAt.IsZero() {
		t.Error("CreatedAt is zero")
	}
	if len(plan.Tasks) != len(tmpl.Actions) {
		t.Fatalf("len(Tasks) = %d, want %d", len(plan.Tasks), len(tmpl.Actions))
	}

	for i, task := range plan.Tasks {
		if task.Action != tmpl.Actions[i] {
			t.Errorf("Tasks[%d].Action = %q, want %q", i, task.Action, tmpl.Actions[i])
		}
		if task.Status != TaskStatusPending {
			t.Errorf("Tasks[%d].Status = %q, want %q", i, task.Status, TaskStatusPending)
		}
		if task.StartedAt != nil || task.CompletedAt != nil {
			t.Errorf("Tasks[%d] has timestamps before execution", i)
		}
	}
}

func TestInstantiateFreshIdentity(t *testing.T) {
	tmpl := Template{
		Name:    "test-template",
		Title:   "Test Template",
		Actions: []string{"Only step"},
	}

	first, err := tmpl.Instantiate()
	if err != nil {
		t.Fatalf("Instantiate() error: %v", err)
	}
	second, err := tmpl.Instantiate()
	if err != nil {
		t.Fatalf("Instantiate() error: %v", err)
	}

	if first.ID == second.ID {
		t.Errorf("two instantiations share plan id %q", first.ID)
	}
}

func TestInstantiateEmptyActions(t *testing.T) {
	tmpl := Template{Name: "empty", Title: "Empty"}
	if _, err := tmpl.Instantiate(); err == nil {
		t.Error("Instantiate() with no actions = nil error, want error")
	}
}

func TestBuiltinTemplates(t *testing.T) {
	templates := BuiltinTemplates()
	if len(templates) == 0 {
		t.Fatal("BuiltinTemplates() is empty")
	}

	seen := make(map[string]bool)
	for _, tmpl := range templates {
		if tmpl.Name == "" || tmpl.Title == "" {
			t.Errorf("template %+v missing name or title", tmpl)
		}
		if len(tmpl.Actions) == 0 {
			t.Errorf("template %q has no actions", tmpl.Name)
		}
		if seen[tmpl.Name] {
			t.Errorf("duplicate template name %q", tmpl.Name)
		}
		seen[tmpl.Name] = true
	}
}

func TestFindTemplate(t *testing.T) {
	tmpl, ok := FindTemplate("organize-downloads")
	if !ok {
		t.Fatal("FindTemplate(organize-downloads) not found")
	}
	if tmpl.Name != "organize-downloads" {
		t.Errorf("Name = %q, want %q", tmpl.Name, "organize-downloads")
	}

	if _, ok := FindTemplate("no-such-template"); ok {
		t.Error("FindTemplate(no-such-template) found, want not found")
	}
}
