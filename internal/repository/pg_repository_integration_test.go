package repository_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/docker/docker/client"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"scaenahub/internal/models"
	"scaenahub/internal/repository"
	"scaenahub/internal/store"
	"scaenahub/migrations"
)

// RepositoryIntegrationSuite exercises the Postgres and Redis repositories
// against real containers.
type RepositoryIntegrationSuite struct {
	suite.Suite
	ctx         context.Context
	pgContainer *postgres.PostgresContainer
	rdContainer *tcredis.RedisContainer
	pgPool      *pgxpool.Pool
	redisClient *redis.Client
	logger      *zap.Logger

	scriptRepo  repository.ScriptRepository
	lineRepo    repository.LineRepository
	lockRepo    repository.LockRepository
	sessionRepo repository.SessionRepository
	versionRepo repository.VersionRepository
	historyRepo repository.HistoryRepository
	sceneRepo   repository.SceneRepository
	printRepo   repository.PrintSettingsRepository
	userRepo    repository.UserRepository
	tokenRepo   repository.TokenRepository
}

func (s *RepositoryIntegrationSuite) SetupSuite() {
	s.ctx = context.Background()
	var err error

	s.logger, err = zap.NewDevelopment()
	require.NoError(s.T(), err, "Failed to create logger for tests")

	s.pgContainer, err = postgres.Run(s.ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("test_db"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Minute),
		),
	)
	require.NoError(s.T(), err, "Failed to start postgres container")

	pgConnStr, err := s.pgContainer.ConnectionString(s.ctx, "sslmode=disable")
	require.NoError(s.T(), err, "Failed to get postgres connection string")

	s.pgPool, err = pgxpool.New(s.ctx, pgConnStr)
	require.NoError(s.T(), err, "Failed to connect to test postgres")

	require.NoError(s.T(), s.runMigrations(pgConnStr), "Failed to run migrations")

	s.rdContainer, err = tcredis.Run(s.ctx,
		"docker.io/redis:7-alpine",
		testcontainers.WithWaitStrategy(
			wait.ForLog("* Ready to accept connections").
				WithOccurrence(1).
				WithStartupTimeout(1*time.Minute),
		),
	)
	require.NoError(s.T(), err, "Failed to start redis container")

	redisHost, err := s.rdContainer.Host(s.ctx)
	require.NoError(s.T(), err)
	redisPort, err := s.rdContainer.MappedPort(s.ctx, "6379/tcp")
	require.NoError(s.T(), err)

	s.redisClient = redis.NewClient(&redis.Options{Addr: fmt.Sprintf("%s:%s", redisHost, redisPort.Port())})
	_, err = s.redisClient.Ping(s.ctx).Result()
	require.NoError(s.T(), err, "Failed to connect to test redis")

	pgStore := store.NewPgStore(s.pgPool, s.logger)
	s.scriptRepo = repository.NewPgScriptRepository(pgStore, s.logger)
	s.lineRepo = repository.NewPgLineRepository(pgStore, s.logger)
	s.lockRepo = repository.NewPgLockRepository(pgStore, s.logger)
	s.sessionRepo = repository.NewPgSessionRepository(pgStore, s.logger)
	s.versionRepo = repository.NewPgVersionRepository(pgStore, s.logger)
	s.historyRepo = repository.NewPgHistoryRepository(pgStore, s.logger)
	s.sceneRepo = repository.NewPgSceneRepository(pgStore, s.logger)
	s.printRepo = repository.NewPgPrintSettingsRepository(pgStore, s.logger)
	s.userRepo = repository.NewPgUserRepository(pgStore, s.logger)
	s.tokenRepo = repository.NewRedisTokenRepository(s.redisClient, s.logger)
}

func (s *RepositoryIntegrationSuite) TearDownSuite() {
	if s.pgPool != nil {
		s.pgPool.Close()
	}
	if s.redisClient != nil {
		s.redisClient.Close()
	}
	if s.pgContainer != nil {
		if err := s.pgContainer.Terminate(s.ctx); err != nil {
			s.logger.Error("Failed to terminate postgres container", zap.Error(err))
		}
	}
	if s.rdContainer != nil {
		if err := s.rdContainer.Terminate(s.ctx); err != nil {
			s.logger.Error("Failed to terminate redis container", zap.Error(err))
		}
	}
}

func (s *RepositoryIntegrationSuite) SetupTest() {
	require.NoError(s.T(), s.redisClient.FlushDB(s.ctx).Err(), "Failed to flush Redis DB")
	// scripts cascades into every dependent table.
	_, err := s.pgPool.Exec(s.ctx, "TRUNCATE TABLE scripts, users CASCADE")
	require.NoError(s.T(), err, "Failed to truncate tables")
}

func (s *RepositoryIntegrationSuite) runMigrations(dbURL string) error {
	sourceDriver, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("failed to create iofs source driver: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", sourceDriver, dbURL)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer m.Close()
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

func TestRepositoryIntegrationSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}
	cli, err := client.NewClientWithOpts(client.FromEnv)
	if err != nil {
		t.Fatalf("Docker client init error: %v. Ensure Docker is running and accessible.", err)
	}
	if _, err := cli.Ping(context.Background()); err != nil {
		t.Fatalf("Docker daemon is not running or accessible: %v", err)
	}
	cli.Close()

	suite.Run(t, new(RepositoryIntegrationSuite))
}

func (s *RepositoryIntegrationSuite) insertScript(title string) *models.Script {
	t := s.T()
	script := &models.Script{
		ID:          uuid.New(),
		Title:       title,
		Description: "An integration test script",
		IsActive:    true,
		ViewRoles:   []string{models.RoleViewer},
		EditRoles:   []string{models.RoleEditor},
		ViewUsers:   []uuid.UUID{},
		EditUsers:   []uuid.UUID{uuid.New()},
		CreatedBy:   uuid.New(),
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}
	require.NoError(t, s.scriptRepo.Create(s.ctx, script))
	return script
}

func (s *RepositoryIntegrationSuite) TestScriptRoundTrip() {
	t := s.T()
	script := s.insertScript("Roundtrip")

	got, err := s.scriptRepo.GetByID(s.ctx, script.ID)
	require.NoError(t, err)
	require.Equal(t, script.Title, got.Title)
	require.Equal(t, script.ViewRoles, got.ViewRoles)
	require.Equal(t, script.EditUsers, got.EditUsers)

	got.Title = "Renamed"
	got.IsActive = false
	require.NoError(t, s.scriptRepo.Update(s.ctx, got))

	// Inactive scripts drop out of the active listing.
	active, err := s.scriptRepo.ListActive(s.ctx)
	require.NoError(t, err)
	require.Empty(t, active)

	require.NoError(t, s.scriptRepo.Delete(s.ctx, script.ID))
	_, err = s.scriptRepo.GetByID(s.ctx, script.ID)
	require.ErrorIs(t, err, models.ErrNotFound)
}

func (s *RepositoryIntegrationSuite) TestLineUniqueNumberPerScript() {
	t := s.T()
	script := s.insertScript("Lines")
	editor := uuid.New()

	line := &models.ScriptLine{
		ID:           uuid.New(),
		ScriptID:     script.ID,
		LineNumber:   1,
		Dialogue:     "To be, or not to be",
		Formatting:   models.LineFormatting{Color: "#2196F3"},
		LastEditedBy: editor,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
	require.NoError(t, s.lineRepo.Create(s.ctx, line))

	dup := *line
	dup.ID = uuid.New()
	require.ErrorIs(t, s.lineRepo.Create(s.ctx, &dup), models.ErrConflict)

	got, err := s.lineRepo.GetByNumber(s.ctx, script.ID, 1)
	require.NoError(t, err)
	require.Equal(t, "To be, or not to be", got.Dialogue)
	require.Equal(t, "#2196F3", got.Formatting.Color)

	// Script deletion cascades into its lines.
	require.NoError(t, s.scriptRepo.Delete(s.ctx, script.ID))
	_, err = s.lineRepo.GetByNumber(s.ctx, script.ID, 1)
	require.ErrorIs(t, err, models.ErrNotFound)
}

func (s *RepositoryIntegrationSuite) TestLockExpiryAndRelease() {
	t := s.T()
	script := s.insertScript("Locks")
	holder := uuid.New()
	lineOne := 1
	now := time.Now().UTC()

	live := &models.ScriptLock{
		ID:         uuid.New(),
		ScriptID:   script.ID,
		LineNumber: &lineOne,
		LockedBy:   holder,
		LockedAt:   now,
		ExpiresAt:  now.Add(30 * time.Minute),
	}
	expired := &models.ScriptLock{
		ID:        uuid.New(),
		ScriptID:  script.ID,
		LockedBy:  holder,
		LockedAt:  now.Add(-time.Hour),
		ExpiresAt: now.Add(-30 * time.Minute),
	}
	require.NoError(t, s.lockRepo.Create(s.ctx, live))
	require.NoError(t, s.lockRepo.Create(s.ctx, expired))

	// Expired rows stay in storage but are never returned.
	locks, err := s.lockRepo.ListUnexpired(s.ctx, script.ID, now)
	require.NoError(t, err)
	require.Len(t, locks, 1)
	require.Equal(t, live.ID, locks[0].ID)

	conflicts, err := s.lockRepo.ListConflicting(s.ctx, script.ID, &lineOne, now)
	require.NoError(t, err)
	require.Len(t, conflicts, 1)

	lineTwo := 2
	conflicts, err = s.lockRepo.ListConflicting(s.ctx, script.ID, &lineTwo, now)
	require.NoError(t, err)
	require.Empty(t, conflicts)

	removed, err := s.lockRepo.Release(s.ctx, script.ID, &lineOne, holder)
	require.NoError(t, err)
	require.EqualValues(t, 1, removed)

	removed, err = s.lockRepo.Release(s.ctx, script.ID, &lineOne, holder)
	require.NoError(t, err)
	require.Zero(t, removed)
}

func (s *RepositoryIntegrationSuite) TestWholeScriptLockConflictsWithAnyLine() {
	t := s.T()
	script := s.insertScript("WholeScriptLock")
	now := time.Now().UTC()

	whole := &models.ScriptLock{
		ID:        uuid.New(),
		ScriptID:  script.ID,
		LockedBy:  uuid.New(),
		LockedAt:  now,
		ExpiresAt: now.Add(10 * time.Minute),
	}
	require.NoError(t, s.lockRepo.Create(s.ctx, whole))

	lineFive := 5
	conflicts, err := s.lockRepo.ListConflicting(s.ctx, script.ID, &lineFive, now)
	require.NoError(t, err)
	require.Len(t, conflicts, 1, "A whole-script lock should conflict with any line request")

	conflicts, err = s.lockRepo.ListConflicting(s.ctx, script.ID, nil, now)
	require.NoError(t, err)
	require.Len(t, conflicts, 1)
}

func (s *RepositoryIntegrationSuite) TestSessionLifecycle() {
	t := s.T()
	script := s.insertScript("Sessions")
	now := time.Now().UTC()

	session := &models.ScriptEditSession{
		ID:           uuid.New(),
		ScriptID:     script.ID,
		UserID:       uuid.New(),
		UserName:     "Alice",
		StartedAt:    now.Add(-10 * time.Minute),
		LastActivity: now.Add(-10 * time.Minute),
		IsActive:     true,
	}
	require.NoError(t, s.sessionRepo.Create(s.ctx, session))

	// Stale beyond the cutoff until touched.
	active, err := s.sessionRepo.ListActive(s.ctx, script.ID, now.Add(-5*time.Minute))
	require.NoError(t, err)
	require.Empty(t, active)

	require.NoError(t, s.sessionRepo.Touch(s.ctx, session.ID, now))
	active, err = s.sessionRepo.ListActive(s.ctx, script.ID, now.Add(-5*time.Minute))
	require.NoError(t, err)
	require.Len(t, active, 1)
	require.Equal(t, "Alice", active[0].UserName)

	require.NoError(t, s.sessionRepo.End(s.ctx, session.ID))
	active, err = s.sessionRepo.ListActive(s.ctx, script.ID, now.Add(-5*time.Minute))
	require.NoError(t, err)
	require.Empty(t, active)
}

func (s *RepositoryIntegrationSuite) TestVersionNumbering() {
	t := s.T()
	script := s.insertScript("Versions")
	author := uuid.New()

	max, err := s.versionRepo.MaxVersion(s.ctx, script.ID)
	require.NoError(t, err)
	require.Zero(t, max)

	for v := 1; v <= 3; v++ {
		require.NoError(t, s.versionRepo.Create(s.ctx, &models.ScriptVersion{
			ID:                uuid.New(),
			ScriptID:          script.ID,
			Version:           v,
			Title:             script.Title,
			ChangeDescription: fmt.Sprintf("checkpoint %d", v),
			CreatedBy:         author,
			CreatedAt:         time.Now().UTC(),
		}))
	}

	max, err = s.versionRepo.MaxVersion(s.ctx, script.ID)
	require.NoError(t, err)
	require.Equal(t, 3, max)

	// Version numbers are unique per script.
	err = s.versionRepo.Create(s.ctx, &models.ScriptVersion{
		ID:        uuid.New(),
		ScriptID:  script.ID,
		Version:   3,
		CreatedBy: author,
		CreatedAt: time.Now().UTC(),
	})
	require.ErrorIs(t, err, models.ErrConflict)

	versions, err := s.versionRepo.ListByScript(s.ctx, script.ID)
	require.NoError(t, err)
	require.Len(t, versions, 3)
}

func (s *RepositoryIntegrationSuite) TestHistoryNewestFirstWithLineFilter() {
	t := s.T()
	script := s.insertScript("History")
	editor := uuid.New()
	base := time.Now().UTC().Add(-time.Hour)

	for i, change := range []models.ChangeType{models.ChangeTypeCreate, models.ChangeTypeUpdate, models.ChangeTypeDelete} {
		require.NoError(t, s.historyRepo.Create(s.ctx, &models.ScriptLineHistory{
			ID:           uuid.New(),
			ScriptLineID: uuid.New(),
			ScriptID:     script.ID,
			LineNumber:   1,
			Dialogue:     fmt.Sprintf("draft %d", i),
			ChangeType:   change,
			EditedBy:     editor,
			EditedAt:     base.Add(time.Duration(i) * time.Minute),
		}))
	}
	require.NoError(t, s.historyRepo.Create(s.ctx, &models.ScriptLineHistory{
		ID:           uuid.New(),
		ScriptLineID: uuid.New(),
		ScriptID:     script.ID,
		LineNumber:   2,
		ChangeType:   models.ChangeTypeCreate,
		EditedBy:     editor,
		EditedAt:     base,
	}))

	all, err := s.historyRepo.ListByScript(s.ctx, script.ID, nil)
	require.NoError(t, err)
	require.Len(t, all, 4)

	lineOne := 1
	entries, err := s.historyRepo.ListByScript(s.ctx, script.ID, &lineOne)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	require.Equal(t, models.ChangeTypeDelete, entries[0].ChangeType, "History should be newest-first")
}

func (s *RepositoryIntegrationSuite) TestSceneNumbering() {
	t := s.T()
	script := s.insertScript("Scenes")

	max, err := s.sceneRepo.MaxSceneNumber(s.ctx, script.ID)
	require.NoError(t, err)
	require.Zero(t, max)

	require.NoError(t, s.sceneRepo.Create(s.ctx, &models.ScriptScene{
		ID:              uuid.New(),
		ScriptID:        script.ID,
		SceneNumber:     1,
		Title:           "Act I",
		StartLineNumber: 1,
		EndLineNumber:   40,
		CreatedBy:       uuid.New(),
		CreatedAt:       time.Now().UTC(),
		UpdatedAt:       time.Now().UTC(),
	}))

	max, err = s.sceneRepo.MaxSceneNumber(s.ctx, script.ID)
	require.NoError(t, err)
	require.Equal(t, 1, max)

	scenes, err := s.sceneRepo.ListByScript(s.ctx, script.ID)
	require.NoError(t, err)
	require.Len(t, scenes, 1)
	require.Equal(t, "Act I", scenes[0].Title)
}

func (s *RepositoryIntegrationSuite) TestPrintSettingsLatestWins() {
	t := s.T()
	script := s.insertScript("Print")
	author := uuid.New()

	_, err := s.printRepo.GetLatest(s.ctx, script.ID)
	require.ErrorIs(t, err, models.ErrNotFound)

	older := models.DefaultPrintSettings(script.ID)
	older.ID = uuid.New()
	older.CreatedBy = author
	older.CreatedAt = time.Now().UTC().Add(-time.Hour)
	require.NoError(t, s.printRepo.Create(s.ctx, older))

	newer := models.DefaultPrintSettings(script.ID)
	newer.ID = uuid.New()
	newer.PageSize = "Letter"
	newer.CreatedBy = author
	newer.CreatedAt = time.Now().UTC()
	require.NoError(t, s.printRepo.Create(s.ctx, newer))

	got, err := s.printRepo.GetLatest(s.ctx, script.ID)
	require.NoError(t, err)
	require.Equal(t, "Letter", got.PageSize)
}

func (s *RepositoryIntegrationSuite) TestUserUniqueUsername() {
	t := s.T()
	user := &models.User{
		ID:           uuid.New(),
		Username:     "alice",
		DisplayName:  "Alice",
		PasswordHash: "hash",
		Roles:        []string{models.RoleViewer},
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
	require.NoError(t, s.userRepo.Create(s.ctx, user))

	dup := *user
	dup.ID = uuid.New()
	require.ErrorIs(t, s.userRepo.Create(s.ctx, &dup), models.ErrConflict)

	got, err := s.userRepo.GetByUsername(s.ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, user.ID, got.ID)

	got, err = s.userRepo.GetByID(s.ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, "alice", got.Username)
}

func (s *RepositoryIntegrationSuite) TestTokenStoreRoundTrip() {
	t := s.T()
	userID := uuid.New()
	now := time.Now()
	td := &models.TokenDetails{
		AccessUUID:  uuid.NewString(),
		RefreshUUID: uuid.NewString(),
		AtExpires:   now.Add(time.Minute).Unix(),
		RtExpires:   now.Add(time.Hour).Unix(),
	}
	require.NoError(t, s.tokenRepo.SetToken(s.ctx, userID, td))

	got, err := s.tokenRepo.FetchUserID(s.ctx, td.AccessUUID)
	require.NoError(t, err)
	require.Equal(t, userID, got)
	got, err = s.tokenRepo.FetchUserID(s.ctx, td.RefreshUUID)
	require.NoError(t, err)
	require.Equal(t, userID, got)

	require.NoError(t, s.tokenRepo.DeleteToken(s.ctx, td.AccessUUID))
	_, err = s.tokenRepo.FetchUserID(s.ctx, td.AccessUUID)
	require.ErrorIs(t, err, models.ErrNotFound)

	require.NoError(t, s.tokenRepo.DeleteAllForUser(s.ctx, userID))
	_, err = s.tokenRepo.FetchUserID(s.ctx, td.RefreshUUID)
	require.ErrorIs(t, err, models.ErrNotFound)
}
