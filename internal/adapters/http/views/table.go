package views

import "fmt"

// ActionKind tells the template how to render a row action and the page script
// how to apply its result
type ActionKind string

const (
	ActionEdit    ActionKind = "edit"
	ActionView    ActionKind = "view"
	ActionPrint   ActionKind = "print"
	ActionDelete  ActionKind = "delete"
	ActionApprove ActionKind = "approve"
	ActionReject  ActionKind = "reject"
	ActionStatus  ActionKind = "status"
)

// Table is a generic list view: one row per item, one cell per column
type Table struct {
	Title        string
	Columns      []string
	Rows         []Row
	CreateURL    string
	CreateLabel  string
	Empty        string
	StatusColumn string
}

// Row is one item of a table
type Row struct {
	ID      uint
	Cells   []string
	Actions []Action
}

// Action is a link or a post-back button on a row
type Action struct {
	Kind    ActionKind
	Label   string
	URL     string
	Confirm string
	Options []Option
	Value   string
}

// IsLink reports whether the action navigates instead of posting
func (a Action) IsLink() bool {
	return a.Kind == ActionEdit || a.Kind == ActionView || a.Kind == ActionPrint
}

// XHR is the local update the page script applies once the action succeeds
func (a Action) XHR() string {
	switch a.Kind {
	case ActionDelete:
		return "remove"
	case ActionApprove, ActionReject, ActionStatus:
		return "update"
	}
	return ""
}

// ColSpan is the width of the empty-state row
func (t Table) ColSpan() int {
	return len(t.Columns) + 1
}

// IsStatus reports whether the i-th cell holds the status the script updates
func (t Table) IsStatus(i int) bool {
	return t.StatusColumn != "" && i < len(t.Columns) && t.Columns[i] == t.StatusColumn
}

// EmptyText is shown when there are no rows
func (t Table) EmptyText() string {
	if t.Empty != "" {
		return t.Empty
	}
	return "No records found."
}

// Edit links to the edit form of an item under base
func Edit(base string, id uint) Action {
	return Action{Kind: ActionEdit, Label: "Edit", URL: fmt.Sprintf("%s/%d/edit", base, id)}
}

// Delete posts to the delete route of an item under base after a confirmation
func Delete(base string, id uint, what string) Action {
	return Action{
		Kind:    ActionDelete,
		Label:   "Delete",
		URL:     fmt.Sprintf("%s/%d/delete", base, id),
		Confirm: fmt.Sprintf("Delete this %s?", what),
	}
}
