package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Dicklesworthstone/dcg/internal/tui/request"
)

func TestNew(t *testing.T) {
	m := New()
	if m.dashboard == nil {
		t.Error("dashboard model should not be nil")
	}
	if m.view != ViewDashboard {
		t.Error("initial view should be ViewDashboard")
	}
}

func TestNewWithOptions(t *testing.T) {
	opts := Options{
		ProjectPath:     "/tmp/test",
		Theme:           "latte",
		DisableMouse:    true,
		RefreshInterval: 10,
	}
	m := NewWithOptions(opts)
	if m.options.ProjectPath != "/tmp/test" {
		t.Errorf("expected project path /tmp/test, got %s", m.options.ProjectPath)
	}
	if m.options.DisableMouse != true {
		t.Error("expected DisableMouse to be true")
	}
}

func TestModelInit(t *testing.T) {
	m := New()
	cmd := m.Init()
	_ = cmd
}

func TestModelUpdate(t *testing.T) {
	m := New()
	updated, cmd := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	if updated == nil {
		t.Error("Update should return non-nil model")
	}
	_ = cmd

	um := updated.(Model)
	if um.width != 80 || um.height != 24 {
		t.Errorf("expected dimensions 80x24, got %dx%d", um.width, um.height)
	}
}

func TestModelView(t *testing.T) {
	m := New()
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = updated.(Model)

	view := m.View()
	if view == "" {
		t.Error("View should return non-empty string")
	}
}

func TestNavigateToPatterns(t *testing.T) {
	m := New()
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = updated.(Model)

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'m'}})
	um := updated.(Model)
	if um.view != ViewPatterns {
		t.Errorf("expected view to be ViewPatterns, got %d", um.view)
	}
}

func TestNavigateToHistory(t *testing.T) {
	m := New()
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = updated.(Model)

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'H'}})
	um := updated.(Model)
	if um.view != ViewHistory {
		t.Errorf("expected view to be ViewHistory, got %d", um.view)
	}
}

func TestNavigateBackFromPatterns(t *testing.T) {
	m := New()
	m.view = ViewPatterns

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	um := updated.(Model)
	if um.view != ViewDashboard {
		t.Errorf("expected view to be ViewDashboard, got %d", um.view)
	}
}

func TestNavigateBackFromHistory(t *testing.T) {
	m := New()
	m.view = ViewHistory

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'b'}})
	um := updated.(Model)
	if um.view != ViewDashboard {
		t.Errorf("expected view to be ViewDashboard, got %d", um.view)
	}
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	if opts.RefreshInterval != 5 {
		t.Errorf("expected default refresh interval 5, got %d", opts.RefreshInterval)
	}
	if opts.DisableMouse != false {
		t.Error("expected default DisableMouse to be false")
	}
	if opts.Theme != "" {
		t.Errorf("expected default theme to be empty, got %s", opts.Theme)
	}
}

// ============== Placeholder Model Tests ==============

func TestPlaceholderModelInit(t *testing.T) {
	m := placeholderModel{}
	cmd := m.Init()
	if cmd != nil {
		t.Error("Init should return nil")
	}
}

func TestPlaceholderModelUpdate(t *testing.T) {
	m := placeholderModel{}

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})
	if cmd != nil {
		t.Error("Non-quit key should not return quit command")
	}
	_ = updated

	updated, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	_ = cmd
	_ = updated

	updated, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	_ = cmd
	_ = updated

	updated, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	_ = cmd
	_ = updated
}

func TestPlaceholderModelView(t *testing.T) {
	m := placeholderModel{}
	view := m.View()
	if view == "" {
		t.Error("View should return non-empty string")
	}
	if len(view) < 10 {
		t.Error("View should return a meaningful message")
	}
}

// ============== Init Tests for Different Views ==============

func TestModelInitHistory(t *testing.T) {
	m := New()
	m.view = ViewHistory
	cmd := m.Init()
	_ = cmd
}

func TestModelInitPatterns(t *testing.T) {
	m := New()
	m.view = ViewPatterns
	cmd := m.Init()
	_ = cmd
}

func TestModelInitRequestDetail(t *testing.T) {
	m := New()
	m.view = ViewRequestDetail
	cmd := m.Init()
	if cmd != nil {
		t.Error("Init with nil detail should return nil")
	}
}

func testPendingItem() *request.PendingItem {
	return &request.PendingItem{
		ShortCode: "test-123",
		Command:   "test command",
		Reason:    "matched destructive pattern",
		CWD:       "/tmp",
	}
}

func TestModelInitRequestDetailWithModel(t *testing.T) {
	m := New()
	m.view = ViewRequestDetail
	m.detail = request.NewDetailModel(testPendingItem(), nil)
	cmd := m.Init()
	_ = cmd
}

// ============== View Tests for Different Views ==============

func TestModelViewHistory(t *testing.T) {
	m := New()
	m.view = ViewHistory
	view := m.View()
	if view == "" {
		t.Error("History view should return non-empty string")
	}
}

func TestModelViewPatterns(t *testing.T) {
	m := New()
	m.view = ViewPatterns
	view := m.View()
	if view == "" {
		t.Error("Patterns view should return non-empty string")
	}
}

func TestModelViewRequestDetailNil(t *testing.T) {
	m := New()
	m.view = ViewRequestDetail
	m.detail = nil
	view := m.View()
	if view != "Loading..." {
		t.Errorf("expected 'Loading...' for nil detail, got '%s'", view)
	}
}

func TestModelViewRequestDetailWithModel(t *testing.T) {
	m := New()
	m.view = ViewRequestDetail
	m.detail = request.NewDetailModel(testPendingItem(), nil)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = updated.(Model)
	m.view = ViewRequestDetail
	view := m.View()
	if view == "" {
		t.Error("RequestDetail view should return non-empty string")
	}
}

func TestModelViewDashboardNil(t *testing.T) {
	m := New()
	m.dashboard = nil
	view := m.View()
	if view != "Loading..." {
		t.Errorf("expected 'Loading...' for nil dashboard, got '%s'", view)
	}
}

// ============== Navigation Tests ==============

func TestNavigateBackFromRequestDetail(t *testing.T) {
	m := New()
	m.view = ViewRequestDetail
	m.detail = request.NewDetailModel(testPendingItem(), nil)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	um := updated.(Model)
	if um.view != ViewDashboard {
		t.Errorf("expected view to be ViewDashboard, got %d", um.view)
	}
}

func TestNavigateBackFromHistoryEsc(t *testing.T) {
	m := New()
	m.view = ViewHistory

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	um := updated.(Model)
	if um.view != ViewDashboard {
		t.Errorf("expected view to be ViewDashboard, got %d", um.view)
	}
}

func TestNavigateBackFromPatternsB(t *testing.T) {
	m := New()
	m.view = ViewPatterns

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'b'}})
	um := updated.(Model)
	if um.view != ViewDashboard {
		t.Errorf("expected view to be ViewDashboard, got %d", um.view)
	}
}

func TestNavigateBackFromRequestDetailB(t *testing.T) {
	m := New()
	m.view = ViewRequestDetail

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'b'}})
	um := updated.(Model)
	if um.view != ViewDashboard {
		t.Errorf("expected view to be ViewDashboard, got %d", um.view)
	}
}

func TestNavigateToRequestDetailEmptyID(t *testing.T) {
	m := New()
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = updated.(Model)

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	um := updated.(Model)
	if um.view != ViewDashboard {
		t.Errorf("expected view to remain ViewDashboard, got %d", um.view)
	}
}

// ============== updateCurrentView Tests ==============

func TestForwardUpdateHistory(t *testing.T) {
	m := New()
	m.view = ViewHistory
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	um := updated.(Model)
	if um.view != ViewHistory {
		t.Errorf("expected view to remain ViewHistory, got %d", um.view)
	}
}

func TestForwardUpdatePatterns(t *testing.T) {
	m := New()
	m.view = ViewPatterns
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	um := updated.(Model)
	if um.view != ViewPatterns {
		t.Errorf("expected view to remain ViewPatterns, got %d", um.view)
	}
}

func TestForwardUpdateRequestDetail(t *testing.T) {
	m := New()
	m.view = ViewRequestDetail
	m.detail = request.NewDetailModel(testPendingItem(), nil)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	um := updated.(Model)
	if um.view != ViewRequestDetail {
		t.Errorf("expected view to remain ViewRequestDetail, got %d", um.view)
	}
}

func TestForwardUpdateRequestDetailNil(t *testing.T) {
	m := New()
	m.view = ViewRequestDetail
	m.detail = nil
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	um := updated.(Model)
	if um.view != ViewRequestDetail {
		t.Errorf("expected view to remain ViewRequestDetail, got %d", um.view)
	}
}

// ============== handleNavigation Tests ==============

func TestHandleNavigationToDashboard(t *testing.T) {
	m := New()
	m.view = ViewPatterns

	updated, _ := m.Update(navigateMsg{view: ViewDashboard})
	um := updated.(Model)
	if um.view != ViewDashboard {
		t.Errorf("expected view to be ViewDashboard, got %d", um.view)
	}
	if um.dashboard == nil {
		t.Error("dashboard should be kept after navigating back")
	}
}

func TestHandleNavigationToRequestDetailWithID(t *testing.T) {
	m := New()
	updated, _ := m.Update(navigateMsg{view: ViewRequestDetail, requestID: "nonexistent-id"})
	um := updated.(Model)
	if um.view != ViewDashboard {
		t.Errorf("expected fallback to ViewDashboard, got %d", um.view)
	}
}

func TestHandleNavigationToRequestDetailNoID(t *testing.T) {
	m := New()
	updated, _ := m.Update(navigateMsg{view: ViewRequestDetail, requestID: ""})
	um := updated.(Model)
	if um.view != ViewDashboard {
		t.Errorf("expected fallback to ViewDashboard, got %d", um.view)
	}
}

// ============== Callback Setup Tests ==============

func TestSetupDashboardCallbacksNil(t *testing.T) {
	m := New()
	m.dashboard = nil
	m.setupDashboardCallbacks()
}

func TestSetupDashboardCallbacks(t *testing.T) {
	m := New()
	m.setupDashboardCallbacks()
	if m.dashboard.OnPatterns == nil {
		t.Error("OnPatterns callback should be set")
	}
	if m.dashboard.OnHistory == nil {
		t.Error("OnHistory callback should be set")
	}
}

func TestSetupDetailCallbacksNil(t *testing.T) {
	m := New()
	m.detail = nil
	m.setupDetailCallbacks()
}

func TestSetupDetailCallbacks(t *testing.T) {
	m := New()
	m.detail = request.NewDetailModel(testPendingItem(), nil)
	m.setupDetailCallbacks()

	if m.detail.OnBack == nil {
		t.Error("OnBack callback should be set")
	}
	if m.detail.OnApprove == nil {
		t.Error("OnApprove callback should be set")
	}
	if m.detail.OnReject == nil {
		t.Error("OnReject callback should be set")
	}
}

func TestSetupDetailCallbacksOnBack(t *testing.T) {
	m := New()
	m.detail = request.NewDetailModel(testPendingItem(), nil)
	m.setupDetailCallbacks()

	cmd := m.detail.OnBack()
	if cmd == nil {
		t.Error("OnBack should return a command")
	}
	msg := cmd()
	if navMsg, ok := msg.(navigateMsg); ok {
		if navMsg.view != ViewDashboard {
			t.Errorf("OnBack should navigate to dashboard, got view %d", navMsg.view)
		}
	} else {
		t.Errorf("OnBack should return navigateMsg, got %T", msg)
	}
}

func TestSetupHistoryCallbacks(t *testing.T) {
	m := New()
	m.setupHistoryCallbacks()
	if m.history.OnBack == nil {
		t.Error("OnBack callback should be set")
	}
	if m.history.OnSelect == nil {
		t.Error("OnSelect callback should be set")
	}
}

func TestSetupPatternsCallbacks(t *testing.T) {
	m := New()
	m.setupPatternsCallbacks()
	if m.patterns.OnBack == nil {
		t.Error("OnBack callback should be set")
	}
}

// ============== Approve/Reject Request Tests ==============

func TestApproveRequestCommand(t *testing.T) {
	m := New()
	cmd := m.approveRequest("test-123", "approved")
	if cmd == nil {
		t.Error("approveRequest should return a command")
	}
	msg := cmd()
	if navMsg, ok := msg.(navigateMsg); ok {
		if navMsg.view != ViewDashboard {
			t.Errorf("approveRequest should navigate to dashboard, got view %d", navMsg.view)
		}
	}
}

func TestRejectRequestCommand(t *testing.T) {
	m := New()
	cmd := m.rejectRequest("test-123", "rejected")
	if cmd == nil {
		t.Error("rejectRequest should return a command")
	}
	msg := cmd()
	if navMsg, ok := msg.(navigateMsg); ok {
		if navMsg.view != ViewDashboard {
			t.Errorf("rejectRequest should navigate to dashboard, got view %d", navMsg.view)
		}
	}
}

// ============== Other Message Types ==============

func TestUpdateWithOtherMessage(t *testing.T) {
	m := New()
	type customMsg struct{}
	updated, _ := m.Update(customMsg{})
	if updated == nil {
		t.Error("Update should return non-nil model")
	}
}

func TestUpdateKeyPressOnDashboardNonNavigation(t *testing.T) {
	m := New()
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = updated.(Model)

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	um := updated.(Model)
	if um.view != ViewDashboard {
		t.Errorf("non-navigation key should keep dashboard view, got %d", um.view)
	}
}
