package models

import (
	"time"

	"github.com/google/uuid"
)

// Script is the shared document being collaboratively edited: an ordered set
// of numbered lines plus the permission sets gating access to them.
type Script struct {
	ID          uuid.UUID   `json:"id" db:"id"`
	Title       string      `json:"title" db:"title"`
	Description string      `json:"description" db:"description"`
	IsActive    bool        `json:"isActive" db:"is_active"`
	ViewRoles   []string    `json:"viewRoles" db:"view_roles"`
	EditRoles   []string    `json:"editRoles" db:"edit_roles"`
	ViewUsers   []uuid.UUID `json:"viewUsers" db:"view_users"`
	EditUsers   []uuid.UUID `json:"editUsers" db:"edit_users"`
	CreatedBy   uuid.UUID   `json:"createdBy" db:"created_by"`
	CreatedAt   time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time   `json:"updatedAt" db:"updated_at"`
}

// LineFormatting holds derived display attributes for a line. The color is
// assigned automatically from the dialogue content, never set by the client.
type LineFormatting struct {
	Color string `json:"color"`
}

// ScriptLine is a single addressable unit of a script. LineNumber is unique
// within the script and immutable once assigned.
type ScriptLine struct {
	ID            uuid.UUID      `json:"id" db:"id"`
	ScriptID      uuid.UUID      `json:"scriptId" db:"script_id"`
	LineNumber    int            `json:"lineNumber" db:"line_number"`
	CharacterName string         `json:"characterName" db:"character_name"`
	Dialogue      string         `json:"dialogue" db:"dialogue"`
	Lighting      string         `json:"lighting" db:"lighting"`
	AudioVideo    string         `json:"audioVideo" db:"audio_video"`
	Notes         string         `json:"notes" db:"notes"`
	Formatting    LineFormatting `json:"formatting" db:"formatting"`
	LastEditedBy  uuid.UUID      `json:"lastEditedBy" db:"last_edited_by"`
	CreatedAt     time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time      `json:"updatedAt" db:"updated_at"`
}

// ScriptLock is a time-boxed advisory claim on a script or on one of its
// lines. LineNumber == nil means the whole script. Expiry is purely
// query-time: expired rows stay in storage but are never returned.
type ScriptLock struct {
	ID         uuid.UUID `json:"id" db:"id"`
	ScriptID   uuid.UUID `json:"scriptId" db:"script_id"`
	LineNumber *int      `json:"lineNumber,omitempty" db:"line_number"`
	LockedBy   uuid.UUID `json:"lockedBy" db:"locked_by"`
	LockedAt   time.Time `json:"lockedAt" db:"locked_at"`
	ExpiresAt  time.Time `json:"expiresAt" db:"expires_at"`
}

// ScriptEditSession records that a user is editing a script. Liveness is a
// read-time property (IsActive plus a staleness window on LastActivity);
// a silent session keeps IsActive=true in storage until explicitly ended.
type ScriptEditSession struct {
	ID           uuid.UUID `json:"id" db:"id"`
	ScriptID     uuid.UUID `json:"scriptId" db:"script_id"`
	UserID       uuid.UUID `json:"userId" db:"user_id"`
	UserName     string    `json:"userName" db:"user_name"`
	StartedAt    time.Time `json:"startedAt" db:"started_at"`
	LastActivity time.Time `json:"lastActivity" db:"last_activity"`
	IsActive     bool      `json:"isActive" db:"is_active"`
}

// ScriptVersion is an immutable, user-triggered checkpoint of a script's
// title/description. Version numbers are strictly increasing per script,
// starting at 1.
type ScriptVersion struct {
	ID                uuid.UUID `json:"id" db:"id"`
	ScriptID          uuid.UUID `json:"scriptId" db:"script_id"`
	Version           int       `json:"version" db:"version"`
	Title             string    `json:"title" db:"title"`
	Description       string    `json:"description" db:"description"`
	ChangeDescription string    `json:"changeDescription" db:"change_description"`
	CreatedBy         uuid.UUID `json:"createdBy" db:"created_by"`
	CreatedAt         time.Time `json:"createdAt" db:"created_at"`
}

// ChangeType classifies a line-history entry.
type ChangeType string

const (
	ChangeTypeCreate ChangeType = "create"
	ChangeTypeUpdate ChangeType = "update"
	ChangeTypeDelete ChangeType = "delete"
)

// ScriptLineHistory is an append-only full-field snapshot of one line
// mutation. A delete entry snapshots the line's last state before removal.
type ScriptLineHistory struct {
	ID                uuid.UUID      `json:"id" db:"id"`
	ScriptLineID      uuid.UUID      `json:"scriptLineId" db:"script_line_id"`
	ScriptID          uuid.UUID      `json:"scriptId" db:"script_id"`
	LineNumber        int            `json:"lineNumber" db:"line_number"`
	CharacterName     string         `json:"characterName" db:"character_name"`
	Dialogue          string         `json:"dialogue" db:"dialogue"`
	Lighting          string         `json:"lighting" db:"lighting"`
	AudioVideo        string         `json:"audioVideo" db:"audio_video"`
	Notes             string         `json:"notes" db:"notes"`
	Formatting        LineFormatting `json:"formatting" db:"formatting"`
	ChangeType        ChangeType     `json:"changeType" db:"change_type"`
	ChangeDescription string         `json:"changeDescription" db:"change_description"`
	EditedBy          uuid.UUID      `json:"editedBy" db:"edited_by"`
	EditedAt          time.Time      `json:"editedAt" db:"edited_at"`
}

// ScriptScene is a named range of line numbers used for navigation and print
// segmentation. The boundaries are not validated against existing lines: they
// may reference lines not yet created or already deleted.
type ScriptScene struct {
	ID              uuid.UUID `json:"id" db:"id"`
	ScriptID        uuid.UUID `json:"scriptId" db:"script_id"`
	SceneNumber     int       `json:"sceneNumber" db:"scene_number"`
	Title           string    `json:"title" db:"title"`
	Description     string    `json:"description" db:"description"`
	StartLineNumber int       `json:"startLineNumber" db:"start_line_number"`
	EndLineNumber   int       `json:"endLineNumber" db:"end_line_number"`
	CreatedBy       uuid.UUID `json:"createdBy" db:"created_by"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time `json:"updatedAt" db:"updated_at"`
}

// ScriptPrintSettings is the page layout for printing a script. Saves append
// rows; retrieval returns the most recent record (last write wins).
type ScriptPrintSettings struct {
	ID                uuid.UUID `json:"id" db:"id"`
	ScriptID          uuid.UUID `json:"scriptId" db:"script_id"`
	PageSize          string    `json:"pageSize" db:"page_size"`
	Orientation       string    `json:"orientation" db:"orientation"`
	FontSize          int       `json:"fontSize" db:"font_size"`
	MarginTop         int       `json:"marginTop" db:"margin_top"`
	MarginBottom      int       `json:"marginBottom" db:"margin_bottom"`
	MarginLeft        int       `json:"marginLeft" db:"margin_left"`
	MarginRight       int       `json:"marginRight" db:"margin_right"`
	IncludeCharacters bool      `json:"includeCharacters" db:"include_characters"`
	IncludeLighting   bool      `json:"includeLighting" db:"include_lighting"`
	IncludeAudioVideo bool      `json:"includeAudioVideo" db:"include_audio_video"`
	IncludeNotes      bool      `json:"includeNotes" db:"include_notes"`
	CreatedBy         uuid.UUID `json:"createdBy" db:"created_by"`
	CreatedAt         time.Time `json:"createdAt" db:"created_at"`
}

// DefaultPrintSettings returns the layout used when a script has no saved
// settings record yet.
func DefaultPrintSettings(scriptID uuid.UUID) *ScriptPrintSettings {
	return &ScriptPrintSettings{
		ScriptID:          scriptID,
		PageSize:          "A4",
		Orientation:       "portrait",
		FontSize:          11,
		MarginTop:         20,
		MarginBottom:      20,
		MarginLeft:        25,
		MarginRight:       15,
		IncludeCharacters: true,
		IncludeLighting:   true,
		IncludeAudioVideo: true,
		IncludeNotes:      true,
	}
}

// PrintData is the read-only aggregate used to render a printable script.
type PrintData struct {
	Script   *Script              `json:"script"`
	Lines    []ScriptLine         `json:"lines"`
	Scenes   []ScriptScene        `json:"scenes"`
	Settings *ScriptPrintSettings `json:"settings"`
}
