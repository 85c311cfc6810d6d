package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/arjunvg/devclean/internal/model"
	"github.com/arjunvg/devclean/internal/progress"
)

func sampleProject(name string, size int64) model.Project {
	return model.Project{
		Root:          "/tmp/" + name,
		Name:          name,
		Kind:          model.ProjectKind{DisplayName: "Node.js", Icon: "N"},
		CleanableSize: size,
	}
}

func TestProjectItem_TitleReflectsSelection(t *testing.T) {
	item := projectItem{project: sampleProject("a", 100), selected: true}
	if !strings.Contains(item.Title(), "[x]") {
		t.Error("selected item title should show a checked box")
	}
	if !strings.Contains(item.Title(), "a") {
		t.Error("title should contain the project name")
	}

	item.selected = false
	if strings.Contains(item.Title(), "[x]") {
		t.Error("unselected item title should not show a checked box")
	}
}

func TestProjectItem_DescriptionIncludesSizeAndRoot(t *testing.T) {
	item := projectItem{project: sampleProject("b", 2048)}
	desc := item.Description()
	if !strings.Contains(desc, "/tmp/b") {
		t.Errorf("expected root in description, got %q", desc)
	}
}

func TestNewSelectModel_AllSelectedByDefault(t *testing.T) {
	projects := []model.Project{sampleProject("a", 10), sampleProject("b", 20)}
	m := NewSelectModel(projects, nil, false)
	if len(m.selected()) != 2 {
		t.Errorf("expected both projects selected by default, got %d", len(m.selected()))
	}
}

func TestSelectModel_ToggleAndSelectNone(t *testing.T) {
	projects := []model.Project{sampleProject("a", 10), sampleProject("b", 20)}
	m := NewSelectModel(projects, nil, false)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})
	sm := updated.(SelectModel)
	if len(sm.selected()) != 0 {
		t.Errorf("expected 'n' to deselect all, got %d selected", len(sm.selected()))
	}

	updated, _ = sm.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")})
	sm = updated.(SelectModel)
	if len(sm.selected()) != 2 {
		t.Errorf("expected 'a' to select all, got %d selected", len(sm.selected()))
	}
}

func TestSelectModel_EnterMovesToConfirm(t *testing.T) {
	projects := []model.Project{sampleProject("a", 10)}
	m := NewSelectModel(projects, nil, false)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	sm := updated.(SelectModel)
	if sm.state != StateConfirm {
		t.Errorf("expected state StateConfirm, got %v", sm.state)
	}
}

func TestSelectModel_DryRunCleanDoesNotInvokeDeleteFunc(t *testing.T) {
	called := false
	del := func(p model.Project) (int64, error) {
		called = true
		return p.CleanableSize, nil
	}
	projects := []model.Project{sampleProject("a", 10)}
	m := NewSelectModel(projects, del, true)
	m.state = StateConfirm

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
	sm := updated.(SelectModel)
	if sm.state != StateCleaning {
		t.Fatalf("expected StateCleaning, got %v", sm.state)
	}
	if cmd == nil {
		t.Fatal("expected a cleanNext command")
	}
	msg := cmd()
	cm, ok := msg.(cleanedMsg)
	if !ok {
		t.Fatalf("expected cleanedMsg, got %T", msg)
	}
	if cm.size != 10 {
		t.Errorf("expected dry-run size 10, got %d", cm.size)
	}
	if called {
		t.Error("expected DeleteFunc not to be invoked in dry-run mode")
	}
}

func TestNewScanModel_ReflectsReporterSnapshot(t *testing.T) {
	r := progress.New()
	r.IncDirectoriesScanned()
	r.AddProjectsFound(3)
	r.MarkComplete()

	m := NewScanModel(r)
	updated, _ := m.Update(scanTickMsg{})
	sm := updated.(ScanModel)
	if !sm.quitting {
		t.Error("expected ScanModel to quit once the reporter reports complete")
	}
	if sm.snapshot.ProjectsFound != 3 {
		t.Errorf("ProjectsFound = %d, want 3", sm.snapshot.ProjectsFound)
	}
}
