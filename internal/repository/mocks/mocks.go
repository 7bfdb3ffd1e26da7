package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"scaenahub/internal/models"
)

// Mock ScriptRepository
type ScriptRepository struct {
	mock.Mock
}

func (m *ScriptRepository) Create(ctx context.Context, script *models.Script) error {
	args := m.Called(ctx, script)
	return args.Error(0)
}
func (m *ScriptRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Script, error) {
	args := m.Called(ctx, id)
	script, _ := args.Get(0).(*models.Script)
	return script, args.Error(1)
}
func (m *ScriptRepository) ListActive(ctx context.Context) ([]models.Script, error) {
	args := m.Called(ctx)
	scripts, _ := args.Get(0).([]models.Script)
	return scripts, args.Error(1)
}
func (m *ScriptRepository) Update(ctx context.Context, script *models.Script) error {
	args := m.Called(ctx, script)
	return args.Error(0)
}
func (m *ScriptRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// Mock LineRepository
type LineRepository struct {
	mock.Mock
}

func (m *LineRepository) Create(ctx context.Context, line *models.ScriptLine) error {
	args := m.Called(ctx, line)
	return args.Error(0)
}
func (m *LineRepository) ListByScript(ctx context.Context, scriptID uuid.UUID) ([]models.ScriptLine, error) {
	args := m.Called(ctx, scriptID)
	lines, _ := args.Get(0).([]models.ScriptLine)
	return lines, args.Error(1)
}
func (m *LineRepository) GetByNumber(ctx context.Context, scriptID uuid.UUID, lineNumber int) (*models.ScriptLine, error) {
	args := m.Called(ctx, scriptID, lineNumber)
	line, _ := args.Get(0).(*models.ScriptLine)
	return line, args.Error(1)
}
func (m *LineRepository) Update(ctx context.Context, line *models.ScriptLine) error {
	args := m.Called(ctx, line)
	return args.Error(0)
}
func (m *LineRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// Mock LockRepository
type LockRepository struct {
	mock.Mock
}

func (m *LockRepository) Create(ctx context.Context, lock *models.ScriptLock) error {
	args := m.Called(ctx, lock)
	return args.Error(0)
}
func (m *LockRepository) ListUnexpired(ctx context.Context, scriptID uuid.UUID, now time.Time) ([]models.ScriptLock, error) {
	args := m.Called(ctx, scriptID, now)
	locks, _ := args.Get(0).([]models.ScriptLock)
	return locks, args.Error(1)
}
func (m *LockRepository) ListConflicting(ctx context.Context, scriptID uuid.UUID, lineNumber *int, now time.Time) ([]models.ScriptLock, error) {
	args := m.Called(ctx, scriptID, lineNumber, now)
	locks, _ := args.Get(0).([]models.ScriptLock)
	return locks, args.Error(1)
}
func (m *LockRepository) Release(ctx context.Context, scriptID uuid.UUID, lineNumber *int, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, scriptID, lineNumber, userID)
	return args.Get(0).(int64), args.Error(1)
}

// Mock SessionRepository
type SessionRepository struct {
	mock.Mock
}

func (m *SessionRepository) Create(ctx context.Context, session *models.ScriptEditSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}
func (m *SessionRepository) Touch(ctx context.Context, sessionID uuid.UUID, now time.Time) error {
	args := m.Called(ctx, sessionID, now)
	return args.Error(0)
}
func (m *SessionRepository) End(ctx context.Context, sessionID uuid.UUID) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}
func (m *SessionRepository) ListActive(ctx context.Context, scriptID uuid.UUID, cutoff time.Time) ([]models.ScriptEditSession, error) {
	args := m.Called(ctx, scriptID, cutoff)
	sessions, _ := args.Get(0).([]models.ScriptEditSession)
	return sessions, args.Error(1)
}

// Mock VersionRepository
type VersionRepository struct {
	mock.Mock
}

func (m *VersionRepository) Create(ctx context.Context, version *models.ScriptVersion) error {
	args := m.Called(ctx, version)
	return args.Error(0)
}
func (m *VersionRepository) MaxVersion(ctx context.Context, scriptID uuid.UUID) (int, error) {
	args := m.Called(ctx, scriptID)
	return args.Int(0), args.Error(1)
}
func (m *VersionRepository) ListByScript(ctx context.Context, scriptID uuid.UUID) ([]models.ScriptVersion, error) {
	args := m.Called(ctx, scriptID)
	versions, _ := args.Get(0).([]models.ScriptVersion)
	return versions, args.Error(1)
}

// Mock HistoryRepository
type HistoryRepository struct {
	mock.Mock
}

func (m *HistoryRepository) Create(ctx context.Context, entry *models.ScriptLineHistory) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}
func (m *HistoryRepository) ListByScript(ctx context.Context, scriptID uuid.UUID, lineNumber *int) ([]models.ScriptLineHistory, error) {
	args := m.Called(ctx, scriptID, lineNumber)
	entries, _ := args.Get(0).([]models.ScriptLineHistory)
	return entries, args.Error(1)
}

// Mock SceneRepository
type SceneRepository struct {
	mock.Mock
}

func (m *SceneRepository) Create(ctx context.Context, scene *models.ScriptScene) error {
	args := m.Called(ctx, scene)
	return args.Error(0)
}
func (m *SceneRepository) MaxSceneNumber(ctx context.Context, scriptID uuid.UUID) (int, error) {
	args := m.Called(ctx, scriptID)
	return args.Int(0), args.Error(1)
}
func (m *SceneRepository) ListByScript(ctx context.Context, scriptID uuid.UUID) ([]models.ScriptScene, error) {
	args := m.Called(ctx, scriptID)
	scenes, _ := args.Get(0).([]models.ScriptScene)
	return scenes, args.Error(1)
}

// Mock PrintSettingsRepository
type PrintSettingsRepository struct {
	mock.Mock
}

func (m *PrintSettingsRepository) Create(ctx context.Context, settings *models.ScriptPrintSettings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}
func (m *PrintSettingsRepository) GetLatest(ctx context.Context, scriptID uuid.UUID) (*models.ScriptPrintSettings, error) {
	args := m.Called(ctx, scriptID)
	settings, _ := args.Get(0).(*models.ScriptPrintSettings)
	return settings, args.Error(1)
}

// Mock UserRepository
type UserRepository struct {
	mock.Mock
}

func (m *UserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}
func (m *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

// Mock TokenRepository
type TokenRepository struct {
	mock.Mock
}

func (m *TokenRepository) SetToken(ctx context.Context, userID uuid.UUID, td *models.TokenDetails) error {
	args := m.Called(ctx, userID, td)
	return args.Error(0)
}
func (m *TokenRepository) FetchUserID(ctx context.Context, tokenUUID string) (uuid.UUID, error) {
	args := m.Called(ctx, tokenUUID)
	id, _ := args.Get(0).(uuid.UUID)
	return id, args.Error(1)
}
func (m *TokenRepository) DeleteToken(ctx context.Context, tokenUUID string) error {
	args := m.Called(ctx, tokenUUID)
	return args.Error(0)
}
func (m *TokenRepository) DeleteAllForUser(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}
