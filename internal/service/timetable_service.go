package service

import (
	"context"
	"database/sql"
	"errors"
	"math/rand"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/edusched/timetable-api/internal/dto"
	"github.com/edusched/timetable-api/internal/models"
	appErrors "github.com/edusched/timetable-api/pkg/errors"
)

const reportCacheKey = "timetable:last_report"

type timetableClassGroupReader interface {
	ListActive(ctx context.Context, ids []string) ([]models.ClassGroup, error)
}

type timetableTeacherReader interface {
	ListActive(ctx context.Context) ([]models.Teacher, error)
}

type timetableRoomReader interface {
	ListActiveByCapacity(ctx context.Context) ([]models.Room, error)
}

type timetableDisciplineReader interface {
	ListActive(ctx context.Context) ([]models.Discipline, error)
}

type availabilityReader interface {
	ListRulesByTeacher(ctx context.Context, teacherID string) ([]models.AvailabilityRule, error)
	ListBlocksByTeacher(ctx context.Context, teacherID string, reference time.Time) ([]models.TemporaryBlock, error)
}

type sessionWriter interface {
	ListActive(ctx context.Context) ([]models.Session, error)
	BulkCreateWithTx(ctx context.Context, tx *sqlx.Tx, sessions []models.Session) error
	DeleteAllWithTx(ctx context.Context, tx *sqlx.Tx) error
}

type txProvider interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

type reportCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

type generationObserver interface {
	ObserveGeneration(duration time.Duration, attempts, sessionsCreated int, success bool)
}

// TimetableConfig governs generation behaviour.
type TimetableConfig struct {
	MaxAttempts     int
	MaxConflictsOut int
	ReportCacheTTL  time.Duration
}

// TimetableService loads the scheduling snapshot, drives the engine and
// persists the winning timetable in one transaction.
type TimetableService struct {
	classGroups  timetableClassGroupReader
	teachers     timetableTeacherReader
	rooms        timetableRoomReader
	disciplines  timetableDisciplineReader
	availability availabilityReader
	sessions     sessionWriter
	tx           txProvider
	cache        reportCache
	metrics      generationObserver
	validator    *validator.Validate
	logger       *zap.Logger
	cfg          TimetableConfig
}

// NewTimetableService wires the generation dependencies.
func NewTimetableService(
	classGroups timetableClassGroupReader,
	teachers timetableTeacherReader,
	rooms timetableRoomReader,
	disciplines timetableDisciplineReader,
	availability availabilityReader,
	sessions sessionWriter,
	tx txProvider,
	cache reportCache,
	metrics generationObserver,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg TimetableConfig,
) *TimetableService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 50
	}
	if cfg.MaxConflictsOut <= 0 {
		cfg.MaxConflictsOut = 50
	}
	if cfg.ReportCacheTTL <= 0 {
		cfg.ReportCacheTTL = 24 * time.Hour
	}
	return &TimetableService{
		classGroups:  classGroups,
		teachers:     teachers,
		rooms:        rooms,
		disciplines:  disciplines,
		availability: availability,
		sessions:     sessions,
		tx:           tx,
		cache:        cache,
		metrics:      metrics,
		validator:    validate,
		logger:       logger,
		cfg:          cfg,
	}
}

// Generate builds a full weekly timetable and persists it. Scheduling
// failures are reported in the response body, not as errors; only invalid
// payloads and infrastructure faults surface as errors.
func (s *TimetableService) Generate(ctx context.Context, req dto.GenerateTimetableRequest) (*dto.GenerateTimetableResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid timetable generation payload")
	}

	reference := time.Now().UTC().Truncate(24 * time.Hour)
	if req.ReferenceDate != "" {
		parsed, err := time.Parse("2006-01-02", req.ReferenceDate)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "referenceDate must use the 2006-01-02 layout")
		}
		reference = parsed
	}

	seed := time.Now().UnixNano()
	if req.Seed != nil {
		seed = *req.Seed
	}
	rng := rand.New(rand.NewSource(seed))

	maxAttempts := s.cfg.MaxAttempts
	if req.MaxAttempts > 0 {
		maxAttempts = req.MaxAttempts
	}

	started := time.Now()
	snapshot, err := s.loadSnapshot(ctx, req, reference)
	if err != nil {
		return nil, err
	}

	engine := newTimetableEngine(*snapshot, engineOptions{
		RespectPreferences: req.RespectPreferencesOrDefault(),
		AvoidGaps:          req.AvoidGapsOrDefault(),
		DistributeDays:     req.DistributeDaysOrDefault(),
		MaxAttempts:        maxAttempts,
	}, rng)
	result := engine.Run()

	report := &dto.GenerateTimetableResponse{
		Success:              result.Placed,
		Attempts:             result.Attempts,
		ClassGroupsProcessed: len(snapshot.ClassGroups),
		Conflicts:            truncateConflicts(result.Conflicts, s.cfg.MaxConflictsOut),
	}

	if !result.Placed {
		report.Error = "could not place every session"
		s.finishRun(ctx, report, time.Since(started))
		return report, nil
	}

	if err := s.persist(ctx, req.ClearPrevious, result.Sessions); err != nil {
		return nil, err
	}
	report.SessionsCreated = len(result.Sessions)
	s.finishRun(ctx, report, time.Since(started))

	s.logger.Info("timetable generated",
		zap.Int("sessions", report.SessionsCreated),
		zap.Int("classGroups", report.ClassGroupsProcessed),
		zap.Int("attempts", report.Attempts),
		zap.Int64("seed", seed),
	)
	return report, nil
}

// LastReport returns the cached report of the most recent generation run.
func (s *TimetableService) LastReport(ctx context.Context) (*dto.GenerateTimetableResponse, error) {
	if s.cache == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no generation report available")
	}
	var report dto.GenerateTimetableResponse
	if err := s.cache.Get(ctx, reportCacheKey, &report); err != nil {
		if errors.Is(err, appErrors.ErrCacheMiss) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no generation report available")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load generation report")
	}
	return &report, nil
}

func (s *TimetableService) loadSnapshot(ctx context.Context, req dto.GenerateTimetableRequest, reference time.Time) (*engineSnapshot, error) {
	groups, err := s.classGroups.ListActive(ctx, req.ClassGroupIDs)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class groups")
	}
	teachers, err := s.teachers.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teachers")
	}
	rooms, err := s.rooms.ListActiveByCapacity(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load rooms")
	}
	disciplineList, err := s.disciplines.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load disciplines")
	}
	disciplines := make(map[string]models.Discipline, len(disciplineList))
	for _, d := range disciplineList {
		disciplines[d.ID] = d
	}

	rules := make(map[string][]models.AvailabilityRule, len(teachers))
	blocks := make(map[string][]models.TemporaryBlock, len(teachers))
	for _, teacher := range teachers {
		teacherRules, err := s.availability.ListRulesByTeacher(ctx, teacher.ID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load availability rules")
		}
		rules[teacher.ID] = teacherRules
		teacherBlocks, err := s.availability.ListBlocksByTeacher(ctx, teacher.ID, reference)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load temporary blocks")
		}
		blocks[teacher.ID] = teacherBlocks
	}

	var existing []models.Session
	if !req.ClearPrevious {
		existing, err = s.sessions.ListActive(ctx)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load existing sessions")
		}
	}

	return &engineSnapshot{
		ClassGroups: groups,
		Disciplines: disciplines,
		Teachers:    teachers,
		Rooms:       rooms,
		Existing:    existing,
		Evaluator:   newAvailabilityEvaluator(rules, blocks),
		Reference:   reference,
	}, nil
}

func (s *TimetableService) persist(ctx context.Context, clearPrevious bool, sessions []models.Session) error {
	if s.tx == nil {
		return appErrors.Clone(appErrors.ErrInternal, "transaction provider missing")
	}
	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if clearPrevious {
		if err = s.sessions.DeleteAllWithTx(ctx, tx); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear previous timetable")
		}
	}
	if err = s.sessions.BulkCreateWithTx(ctx, tx, sessions); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist sessions")
	}
	if err = tx.Commit(); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit timetable transaction")
	}
	return nil
}

func (s *TimetableService) finishRun(ctx context.Context, report *dto.GenerateTimetableResponse, elapsed time.Duration) {
	if s.metrics != nil {
		s.metrics.ObserveGeneration(elapsed, report.Attempts, report.SessionsCreated, report.Success)
	}
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, reportCacheKey, report, s.cfg.ReportCacheTTL); err != nil {
		s.logger.Warn("failed to cache generation report", zap.Error(err))
	}
	if report.Success {
		if err := s.cache.DeleteByPattern(ctx, "timetable:export:*"); err != nil {
			s.logger.Warn("failed to invalidate cached exports", zap.Error(err))
		}
	}
}

func truncateConflicts(conflicts []string, limit int) []string {
	if limit <= 0 || len(conflicts) <= limit {
		return conflicts
	}
	return conflicts[:limit]
}
