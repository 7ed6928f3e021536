// Package interaction defines the narrow contract between the chat gateway
// and the catalog core: the events the gateway delivers (button press, menu
// submit, form submit) and the render directives the core hands back. The
// gateway owns all widget rendering; nothing here touches the chat platform
// directly.
package interaction

import (
	"strings"

	"github.com/readnextapp/readnext-server/internal/domain"
)

// EventType identifies the kind of interaction the gateway delivered.
type EventType string

// Interaction event types.
const (
	EventButton     EventType = "button"
	EventMenuSubmit EventType = "menu_submit"
	EventFormSubmit EventType = "form_submit"
)

// Event is one user interaction forwarded by the chat gateway. Each event is
// handled as a discrete task; any state the core needs across the gap
// between presenting a surface and receiving its submission must ride in the
// surface's custom ID.
type Event struct {
	Type     EventType         `json:"type"`
	Member   domain.Member     `json:"member"`
	CustomID string            `json:"custom_id"`
	Values   []string          `json:"values,omitempty"` // selected menu values
	Fields   map[string]string `json:"fields,omitempty"` // submitted form fields
}

// DirectiveType identifies what the gateway should do with a directive.
type DirectiveType string

// Render directive types.
const (
	DirectiveShowMenu      DirectiveType = "show_menu"
	DirectiveShowForm      DirectiveType = "show_form"
	DirectiveUpdateSummary DirectiveType = "update_summary"
	DirectiveNotice        DirectiveType = "notice"
)

// Directive is one render instruction for the gateway.
type Directive struct {
	Type    DirectiveType `json:"type"`
	Menu    *Menu         `json:"menu,omitempty"`
	Form    *Form         `json:"form,omitempty"`
	Summary string        `json:"summary,omitempty"`
	Notice  string        `json:"notice,omitempty"`
}

// Response is the ordered set of directives answering one event.
type Response struct {
	Directives []Directive `json:"directives"`
}

// Menu describes a bounded choice menu for the gateway to present.
// An empty Options slice is a valid, displayable menu.
type Menu struct {
	CustomID  string       `json:"custom_id"`
	Prompt    string       `json:"prompt"`
	MinValues int          `json:"min_values"`
	MaxValues int          `json:"max_values"`
	Options   []MenuOption `json:"options"`
}

// MenuOption is one selectable menu entry. Default marks it pre-checked.
type MenuOption struct {
	Label   string `json:"label"`
	Value   string `json:"value"`
	Default bool   `json:"default,omitempty"`
}

// Form describes a modal form for the gateway to open.
type Form struct {
	CustomID string      `json:"custom_id"`
	Title    string      `json:"title"`
	Fields   []FormField `json:"fields"`
}

// FormField is one input on a form.
type FormField struct {
	Name        string `json:"name"`
	Label       string `json:"label"`
	Value       string `json:"value,omitempty"` // pre-filled default
	Placeholder string `json:"placeholder,omitempty"`
	Required    bool   `json:"required"`
	Long        bool   `json:"long,omitempty"` // multi-line input
}

// ShowMenu wraps a menu in a directive.
func ShowMenu(m *Menu) Directive {
	return Directive{Type: DirectiveShowMenu, Menu: m}
}

// ShowForm wraps a form in a directive.
func ShowForm(f *Form) Directive {
	return Directive{Type: DirectiveShowForm, Form: f}
}

// UpdateSummary instructs the gateway to replace the catalog summary text.
func UpdateSummary(summary string) Directive {
	return Directive{Type: DirectiveUpdateSummary, Summary: summary}
}

// Notice carries an ephemeral message to the acting member.
func Notice(text string) Directive {
	return Directive{Type: DirectiveNotice, Notice: text}
}

// Custom ID layout: "action" or "action:payload". The payload carries the
// per-surface state (e.g. the title key an edit form targets).
const customIDSeparator = ":"

// CustomID joins an action with an optional payload.
func CustomID(action, payload string) string {
	if payload == "" {
		return action
	}
	return action + customIDSeparator + payload
}

// ParseCustomID splits a custom ID into its action and payload.
func ParseCustomID(customID string) (action, payload string) {
	action, payload, _ = strings.Cut(customID, customIDSeparator)
	return action, payload
}
