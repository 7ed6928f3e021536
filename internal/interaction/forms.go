package interaction

import (
	"strconv"

	"github.com/readnextapp/readnext-server/internal/domain"
)

// Form field names shared with the gateway.
const (
	FieldTitle         = "title"
	FieldChapters      = "chapters"
	FieldNextChapter   = "next_chapter"
	FieldTotalChapters = "total_chapters"
	FieldNotes         = "notes"
)

// Custom ID actions understood by the dispatcher.
const (
	ActionAdd            = "add"
	ActionAddForm        = "add-form"
	ActionEdit           = "edit"
	ActionEditMenu       = "edit-menu"
	ActionEditForm       = "edit-form"
	ActionRemove         = "remove"
	ActionRemoveMenu     = "remove-menu"
	ActionPrioritize     = "prioritize"
	ActionPrioritizeMenu = "prioritize-menu"
)

// AddForm builds the blank suggestion submission form.
func AddForm() *Form {
	return &Form{
		CustomID: ActionAddForm,
		Title:    "Add",
		Fields: []FormField{
			{Name: FieldTitle, Label: "Title", Required: true},
			{Name: FieldChapters, Label: "Number of chapters/sections", Placeholder: "(leave blank if there are none)"},
			{Name: FieldNotes, Label: "Notes", Required: true, Long: true},
		},
	}
}

// RefilledAddForm rebuilds the add form with the member's rejected values so
// the gateway can reopen it for correction.
func RefilledAddForm(fields map[string]string) *Form {
	f := AddForm()
	for i := range f.Fields {
		f.Fields[i].Value = fields[f.Fields[i].Name]
	}
	return f
}

// EditForm builds the edit form pre-filled from a suggestion. The form's
// custom ID carries the title key so the later submission, a separate task,
// can find its target.
func EditForm(sug *domain.Suggestion) *Form {
	f := &Form{
		CustomID: CustomID(ActionEditForm, sug.Key),
		Title:    "Edit",
		Fields: []FormField{
			{Name: FieldTitle, Label: "Title", Required: true},
			{Name: FieldNextChapter, Label: "Last-Read Chapter", Placeholder: "0"},
			{Name: FieldTotalChapters, Label: "Total number of chapters/sections", Placeholder: "(0 if none)"},
			{Name: FieldNotes, Label: "Notes", Required: true, Long: true},
		},
	}
	defaults := FormDefaults(sug)
	for i := range f.Fields {
		f.Fields[i].Value = defaults[f.Fields[i].Name]
	}
	return f
}

// RefilledEditForm rebuilds the edit form for the same target with the
// member's rejected values.
func RefilledEditForm(key string, fields map[string]string) *Form {
	f := EditForm(&domain.Suggestion{Key: key})
	for i := range f.Fields {
		f.Fields[i].Value = fields[f.Fields[i].Name]
	}
	return f
}

// FormDefaults projects a suggestion onto edit-form default values.
// Pure; kept separate from form construction so the projection is testable
// without any widget concerns.
func FormDefaults(sug *domain.Suggestion) map[string]string {
	return map[string]string{
		FieldTitle:         sug.Title,
		FieldNextChapter:   strconv.Itoa(sug.NextChapter),
		FieldTotalChapters: strconv.Itoa(sug.TotalChapters),
		FieldNotes:         sug.Notes,
	}
}
