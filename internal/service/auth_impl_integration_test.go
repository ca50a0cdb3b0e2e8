package service_test // Используем _test пакет для изоляции

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"rehab-server/internal/config"
	"rehab-server/internal/models"
	"rehab-server/internal/records"
	"rehab-server/internal/repository"
	"rehab-server/internal/service"
	"rehab-server/migrations"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	// Докер клиент для проверки доступности
	"github.com/docker/docker/client"
)

// IntegrationTestSuite содержит состояние для наших интеграционных тестов
type IntegrationTestSuite struct {
	suite.Suite
	ctx           context.Context
	pgContainer   *postgres.PostgresContainer
	pgPool        *pgxpool.Pool
	config        *config.Config
	userRepo      repository.UserRepository
	authService   service.AuthService
	profileEngine *records.Engine[models.Profile]
	rehabEngine   *records.Engine[models.Rehabilitation]
	logger        *zap.Logger
}

// SetupSuite выполняется один раз перед всеми тестами в наборе
func (s *IntegrationTestSuite) SetupSuite() {
	s.ctx = context.Background()
	var err error

	s.logger, err = zap.NewDevelopment()
	require.NoError(s.T(), err, "Failed to create logger for tests")
	s.logger.Info("Setting up integration test suite...")

	// Запускаем контейнер PostgreSQL
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
	s.logger.Info("PostgreSQL container started")

	pgConnStr, err := s.pgContainer.ConnectionString(s.ctx, "sslmode=disable")
	require.NoError(s.T(), err, "Failed to get postgres connection string")

	s.pgPool, err = pgxpool.New(s.ctx, pgConnStr)
	require.NoError(s.T(), err, "Failed to connect to test postgres")
	s.logger.Info("Connected to test PostgreSQL")

	// Применяем те же встроенные миграции, что и при старте сервера
	err = migrations.Apply(s.pgPool, s.logger)
	require.NoError(s.T(), err, "Failed to run migrations")
	s.logger.Info("Database migrations applied")

	s.config = &config.Config{
		DBSSLMode: "disable",
		JWTSecret: "test-jwt-secret",
		TokenTTL:  time.Hour,
		Env:       "test",
		LogLevel:  "debug",
	}
	s.logger.Info("Test configuration created")

	// Инициализируем зависимости
	s.userRepo = repository.NewPgUserRepository(s.pgPool, s.logger)
	s.authService = service.NewAuthService(s.userRepo, s.config, s.logger)

	profileRepo := repository.NewPgProfileRepository(s.pgPool, s.logger)
	rehabRepo := repository.NewPgRehabilitationRepository(s.pgPool, s.logger)
	s.profileEngine = records.NewEngine[models.Profile](profileRepo, (*models.Profile).Validate, models.EmptyProfile, s.logger)
	s.rehabEngine = records.NewEngine[models.Rehabilitation](rehabRepo, (*models.Rehabilitation).Validate, models.EmptyRehabilitation, s.logger)

	s.logger.Info("Test suite setup complete.")
}

// TearDownSuite выполняется один раз после всех тестов в наборе
func (s *IntegrationTestSuite) TearDownSuite() {
	s.logger.Info("Tearing down integration test suite...")
	if s.pgPool != nil {
		s.pgPool.Close()
	}
	if s.pgContainer != nil {
		if err := s.pgContainer.Terminate(s.ctx); err != nil {
			s.logger.Error("Failed to terminate postgres container", zap.Error(err))
		}
	}
	s.logger.Info("Test suite teardown complete.")
}

// Перед каждым тестом очищаем таблицы БД
func (s *IntegrationTestSuite) SetupTest() {
	// ОСТОРОЖНО: НЕ запускать на production БД!
	// profiles и rehabilitations удаляются каскадно по внешнему ключу
	_, err := s.pgPool.Exec(s.ctx, "TRUNCATE TABLE users RESTART IDENTITY CASCADE")
	require.NoError(s.T(), err, "Failed to truncate users table")
}

// TestIntegrationTestSuite запускает набор тестов
func TestIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}
	// Проверяем доступность Docker перед запуском
	cli, err := client.NewClientWithOpts(client.FromEnv)
	if err != nil {
		t.Fatalf("Docker client init error: %v. Ensure Docker is running and accessible.", err)
	}
	if _, err := cli.Ping(context.Background()); err != nil {
		t.Fatalf("Docker daemon is not running or accessible: %v", err)
	}
	cli.Close()

	suite.Run(t, new(IntegrationTestSuite))
}

// --- Сами Тестовые Функции ---

// signUpUser - хелпер: регистрирует пользователя и возвращает его ID из токена
func (s *IntegrationTestSuite) signUpUser(email, password string) uuid.UUID {
	t := s.T()
	token, err := s.authService.SignUp(s.ctx, email, password)
	require.NoError(t, err, "SignUp should succeed")
	require.NotEmpty(t, token)

	claims, err := s.authService.VerifyToken(s.ctx, token)
	require.NoError(t, err, "Issued token should verify")
	return claims.UserID
}

func (s *IntegrationTestSuite) TestSignUpAndSignIn_Success() {
	t := s.T()
	ctx := s.ctx
	email := "athlete@example.com"
	password := "password123"

	// 1. Регистрация
	userID := s.signUpUser(email, password)
	require.NotEqual(t, uuid.Nil, userID, "User ID should be assigned")

	// Пользователь сохранен с хешем, а не с паролем
	storedUser, err := s.userRepo.GetUserByEmail(ctx, email)
	require.NoError(t, err)
	require.Equal(t, email, storedUser.Email)
	require.NotEmpty(t, storedUser.PasswordHash)
	require.NotEqual(t, password, storedUser.PasswordHash, "Password must not be stored in plain text")

	// Повторная регистрация с тем же email - ошибка
	_, err = s.authService.SignUp(ctx, email, "anotherpassword")
	require.Error(t, err, "Registering existing email should fail")
	require.True(t, errors.Is(err, models.ErrEmailAlreadyExists), "Error should be ErrEmailAlreadyExists")

	// Email нормализуется перед сравнением
	_, err = s.authService.SignUp(ctx, "  ATHLETE@example.com ", "anotherpassword")
	require.True(t, errors.Is(err, models.ErrEmailAlreadyExists), "Case-insensitive duplicate should be rejected")

	// 2. Вход
	token, err := s.authService.SignIn(ctx, email, password)
	require.NoError(t, err, "SignIn should succeed")
	claims, err := s.authService.VerifyToken(ctx, token)
	require.NoError(t, err)
	require.Equal(t, userID, claims.UserID, "Token from signin should carry the same user ID")

	// 3. Вход с неверным паролем
	_, err = s.authService.SignIn(ctx, email, "wrongpassword")
	require.True(t, errors.Is(err, models.ErrInvalidCredentials), "Error should be ErrInvalidCredentials")

	// 4. Вход несуществующего пользователя - та же ошибка
	_, err = s.authService.SignIn(ctx, "ghost@example.com", password)
	require.True(t, errors.Is(err, models.ErrInvalidCredentials), "Error should be ErrInvalidCredentials")
}

func (s *IntegrationTestSuite) TestSignUp_InvalidInput() {
	t := s.T()

	_, err := s.authService.SignUp(s.ctx, "not-an-email", "password123")
	var validationErr *models.ValidationError
	require.ErrorAs(t, err, &validationErr, "invalid email format should produce a validation error")

	_, err = s.authService.SignUp(s.ctx, "valid@example.com", "")
	require.ErrorAs(t, err, &validationErr, "empty password should produce a validation error")
}

// Гонка на регистрацию одного email: уникальный индекс должен пропустить
// ровно одного.
func (s *IntegrationTestSuite) TestSignUp_ConcurrentSameEmail() {
	t := s.T()
	email := "raced@example.com"
	const attempts = 5

	var wg sync.WaitGroup
	results := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = s.authService.SignUp(s.ctx, email, "password123")
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range results {
		if err == nil {
			successes++
		} else {
			require.True(t, errors.Is(err, models.ErrEmailAlreadyExists),
				"losing signup should fail with ErrEmailAlreadyExists, got: %v", err)
		}
	}
	require.Equal(t, 1, successes, "exactly one concurrent signup must win")
}

func (s *IntegrationTestSuite) TestProfileLifecycle() {
	t := s.T()
	ctx := s.ctx
	userID := s.signUpUser("profile@example.com", "password123")

	// 1. До сохранения - дефолтная пустая запись, не ошибка
	profile, err := s.profileEngine.Get(ctx, userID)
	require.NoError(t, err)
	require.True(t, profile.IsEmpty(), "unsaved profile should be the empty shape")
	require.Equal(t, userID, profile.UserID)

	// 2. Первое сохранение создает запись
	saved, err := s.profileEngine.Upsert(ctx, userID, &models.Profile{
		UserID:      userID,
		Name:        "Jane Runner",
		Gender:      models.GenderFemale,
		DateOfBirth: time.Date(1990, 5, 14, 0, 0, 0, 0, time.UTC),
		Country:     "Netherlands",
		Height:      172,
		Weight:      64.5,
	})
	require.NoError(t, err)
	require.Equal(t, "Jane Runner", saved.Name)
	require.NotZero(t, saved.UpdatedAt)

	// 3. Чтение возвращает сохраненное
	loaded, err := s.profileEngine.Get(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, "Jane Runner", loaded.Name)
	require.Equal(t, models.GenderFemale, loaded.Gender)
	require.Equal(t, 172.0, loaded.Height)
	require.Equal(t, 64.5, loaded.Weight)
	require.Equal(t, "1990-05-14", loaded.DateOfBirth.Format("2006-01-02"))

	// 4. Невалидное сохранение ничего не меняет
	_, err = s.profileEngine.Upsert(ctx, userID, &models.Profile{
		UserID:      userID,
		Name:        "Jane Runner",
		Gender:      models.GenderFemale,
		DateOfBirth: time.Date(1990, 5, 14, 0, 0, 0, 0, time.UTC),
		Country:     "Netherlands",
		Height:      301, // Вне диапазона
		Weight:      64.5,
	})
	var validationErr *models.ValidationError
	require.ErrorAs(t, err, &validationErr)

	unchanged, err := s.profileEngine.Get(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, 172.0, unchanged.Height, "rejected upsert must not alter the stored profile")

	// 5. Повторное сохранение перезаписывает запись целиком, строка одна
	_, err = s.profileEngine.Upsert(ctx, userID, &models.Profile{
		UserID:      userID,
		Name:        "Jane Sprinter",
		Gender:      models.GenderFemale,
		DateOfBirth: time.Date(1990, 5, 14, 0, 0, 0, 0, time.UTC),
		Country:     "Belgium",
		Height:      173,
		Weight:      63,
	})
	require.NoError(t, err)

	var rowCount int
	err = s.pgPool.QueryRow(ctx, "SELECT COUNT(*) FROM profiles WHERE user_id = $1", userID).Scan(&rowCount)
	require.NoError(t, err)
	require.Equal(t, 1, rowCount, "repeated upserts must keep a single row per user")

	overwritten, err := s.profileEngine.Get(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, "Jane Sprinter", overwritten.Name)
	require.Equal(t, "Belgium", overwritten.Country)
}

func (s *IntegrationTestSuite) TestRehabilitationLifecycle() {
	t := s.T()
	ctx := s.ctx
	userID := s.signUpUser("rehab@example.com", "password123")

	// 1. До сохранения - дефолтная пустая запись
	rehab, err := s.rehabEngine.Get(ctx, userID)
	require.NoError(t, err)
	require.Empty(t, rehab.Description)
	require.False(t, rehab.HasAudio())

	// 2. Пустое описание отклоняется
	_, err = s.rehabEngine.Upsert(ctx, userID, &models.Rehabilitation{UserID: userID, Description: "   "})
	var validationErr *models.ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Equal(t, "Description is required", validationErr.Message)

	// 3. Сохранение с аудио
	audio := []byte{0x1a, 0x45, 0xdf, 0xa3, 0x01, 0x02, 0x03}
	mimeType := "audio/webm"
	saved, err := s.rehabEngine.Upsert(ctx, userID, &models.Rehabilitation{
		UserID:         userID,
		Description:    "  knee recovery program  ",
		AudioRecording: audio,
		AudioMimeType:  &mimeType,
	})
	require.NoError(t, err)
	require.Equal(t, "knee recovery program", saved.Description, "description should be stored trimmed")
	require.Equal(t, audio, saved.AudioRecording, "audio bytes must survive storage unchanged")

	// 4. Чтение возвращает байты как есть
	loaded, err := s.rehabEngine.Get(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, audio, loaded.AudioRecording)
	require.NotNil(t, loaded.AudioMimeType)
	require.Equal(t, mimeType, *loaded.AudioMimeType)

	// 5. Текстовое пересохранение без файла не затирает аудио
	resaved, err := s.rehabEngine.Upsert(ctx, userID, &models.Rehabilitation{
		UserID:      userID,
		Description: "updated program",
	})
	require.NoError(t, err)
	require.Equal(t, "updated program", resaved.Description)
	require.Equal(t, audio, resaved.AudioRecording, "text-only resave must keep the stored recording")

	// 6. Новый файл заменяет старый
	newAudio := []byte{0xff, 0xfe, 0xfd}
	newMime := "audio/ogg"
	replaced, err := s.rehabEngine.Upsert(ctx, userID, &models.Rehabilitation{
		UserID:         userID,
		Description:    "updated program",
		AudioRecording: newAudio,
		AudioMimeType:  &newMime,
	})
	require.NoError(t, err)
	require.Equal(t, newAudio, replaced.AudioRecording)
	require.Equal(t, newMime, *replaced.AudioMimeType)

	var rowCount int
	err = s.pgPool.QueryRow(ctx, "SELECT COUNT(*) FROM rehabilitations WHERE user_id = $1", userID).Scan(&rowCount)
	require.NoError(t, err)
	require.Equal(t, 1, rowCount, "repeated upserts must keep a single row per user")
}

// Записи разных пользователей не пересекаются
func (s *IntegrationTestSuite) TestRecordsIsolatedPerUser() {
	t := s.T()
	ctx := s.ctx
	alice := s.signUpUser("alice@example.com", "password123")
	bob := s.signUpUser("bob@example.com", "password123")

	_, err := s.rehabEngine.Upsert(ctx, alice, &models.Rehabilitation{UserID: alice, Description: "alice program"})
	require.NoError(t, err)

	bobRehab, err := s.rehabEngine.Get(ctx, bob)
	require.NoError(t, err)
	require.Empty(t, bobRehab.Description, "one user's record must not leak to another")
}
