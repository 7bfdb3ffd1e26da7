package handler

// Field length ceilings enforced at the boundary. Services trust these; the
// durable store has no column limits of its own.
const (
	maxTitleLength             = 200
	maxDescriptionLength       = 2000
	maxCharacterNameLength     = 100
	maxDialogueLength          = 5000
	maxLightingLength          = 1000
	maxAudioVideoLength        = 1000
	maxNotesLength             = 1000
	maxChangeDescriptionLength = 500

	minLockMinutes = 1
	maxLockMinutes = 120

	minUsernameLength = 3
	maxUsernameLength = 30
	minPasswordLength = 8
	maxPasswordLength = 100
)

// ErrorResponse is the JSON shape of every error answer.
type ErrorResponse struct {
	Error string `json:"error"`
}

type registerRequest struct {
	Username    string `json:"username" binding:"required"`
	DisplayName string `json:"displayName"`
	Password    string `json:"password" binding:"required"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type logoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type createScriptRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`
	ViewRoles   []string `json:"viewRoles"`
	EditRoles   []string `json:"editRoles"`
	ViewUsers   []string `json:"viewUsers"`
	EditUsers   []string `json:"editUsers"`
}

type updateScriptRequest struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	IsActive    *bool     `json:"isActive"`
	ViewRoles   *[]string `json:"viewRoles"`
	EditRoles   *[]string `json:"editRoles"`
	ViewUsers   *[]string `json:"viewUsers"`
	EditUsers   *[]string `json:"editUsers"`
}

type createLineRequest struct {
	LineNumber    int    `json:"lineNumber" binding:"required,min=1"`
	CharacterName string `json:"characterName"`
	Dialogue      string `json:"dialogue"`
	Lighting      string `json:"lighting"`
	AudioVideo    string `json:"audioVideo"`
	Notes         string `json:"notes"`
}

type updateLineRequest struct {
	CharacterName *string `json:"characterName"`
	Dialogue      *string `json:"dialogue"`
	Lighting      *string `json:"lighting"`
	AudioVideo    *string `json:"audioVideo"`
	Notes         *string `json:"notes"`
}

type acquireLockRequest struct {
	LineNumber      *int `json:"lineNumber"`
	DurationMinutes int  `json:"durationMinutes"`
}

type releaseLockRequest struct {
	LineNumber *int `json:"lineNumber"`
}

type createVersionRequest struct {
	ChangeDescription string `json:"changeDescription" binding:"required"`
}

type createSceneRequest struct {
	Title           string `json:"title" binding:"required"`
	Description     string `json:"description"`
	StartLineNumber int    `json:"startLineNumber"`
	EndLineNumber   int    `json:"endLineNumber"`
}

type printSettingsRequest struct {
	PageSize          string `json:"pageSize" binding:"required,oneof=A4 A5 Letter Legal"`
	Orientation       string `json:"orientation" binding:"required,oneof=portrait landscape"`
	FontSize          int    `json:"fontSize" binding:"required,min=6,max=24"`
	MarginTop         int    `json:"marginTop" binding:"min=0,max=100"`
	MarginBottom      int    `json:"marginBottom" binding:"min=0,max=100"`
	MarginLeft        int    `json:"marginLeft" binding:"min=0,max=100"`
	MarginRight       int    `json:"marginRight" binding:"min=0,max=100"`
	IncludeCharacters bool   `json:"includeCharacters"`
	IncludeLighting   bool   `json:"includeLighting"`
	IncludeAudioVideo bool   `json:"includeAudioVideo"`
	IncludeNotes      bool   `json:"includeNotes"`
}
