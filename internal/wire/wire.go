// Package wire provides dependency injection for the skillmatrix application.
// It creates singleton services with lazy initialization.
package wire

import (
	"io"
	"log"
	"os"
	"sync"

	"go.uber.org/zap"

	cliadapter "github.com/example/skillmatrix/internal/adapters/cli"
	"github.com/example/skillmatrix/internal/adapters/excel"
	"github.com/example/skillmatrix/internal/adapters/filesystem"
	"github.com/example/skillmatrix/internal/adapters/sqlite"
	"github.com/example/skillmatrix/internal/adapters/system"
	"github.com/example/skillmatrix/internal/adapters/zaplog"
	"github.com/example/skillmatrix/internal/app"
	"github.com/example/skillmatrix/internal/config"
	"github.com/example/skillmatrix/internal/db"
	"github.com/example/skillmatrix/internal/logging"
	"github.com/example/skillmatrix/internal/ports/primary"
	"github.com/example/skillmatrix/internal/ports/secondary"
)

var (
	configDir string
	started   bool

	cfg    *config.Config
	logger *zap.Logger

	lineService       primary.LineService
	skillService      primary.SkillService
	attendanceService primary.AttendanceService
	rotationService   primary.RotationService
	auditService      primary.AuditService
	trainingService   primary.TrainingService
	syncService       primary.SyncService
	matrixService     primary.MatrixService
	analysisService   primary.AnalysisService
	logService        primary.LogService

	once sync.Once
)

// SetConfigDir sets the directory holding .skillmatrix/config.yaml.
// It must be called before the first service is requested to take effect.
func SetConfigDir(dir string) {
	configDir = dir
}

// ConfigDir returns the directory configuration is read from, defaulting
// to the user's home directory.
func ConfigDir() string {
	if configDir != "" {
		return configDir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

// Config returns the loaded configuration.
func Config() *config.Config {
	once.Do(initServices)
	return cfg
}

// Logger returns the application logger.
func Logger() *zap.Logger {
	once.Do(initServices)
	return logger
}

// LineService returns the singleton LineService instance.
func LineService() primary.LineService {
	once.Do(initServices)
	return lineService
}

// SkillService returns the singleton SkillService instance.
func SkillService() primary.SkillService {
	once.Do(initServices)
	return skillService
}

// AttendanceService returns the singleton AttendanceService instance.
func AttendanceService() primary.AttendanceService {
	once.Do(initServices)
	return attendanceService
}

// RotationService returns the singleton RotationService instance.
func RotationService() primary.RotationService {
	once.Do(initServices)
	return rotationService
}

// AuditService returns the singleton AuditService instance.
func AuditService() primary.AuditService {
	once.Do(initServices)
	return auditService
}

// TrainingService returns the singleton TrainingService instance.
func TrainingService() primary.TrainingService {
	once.Do(initServices)
	return trainingService
}

// SyncService returns the singleton SyncService instance.
func SyncService() primary.SyncService {
	once.Do(initServices)
	return syncService
}

// MatrixService returns the singleton MatrixService instance.
func MatrixService() primary.MatrixService {
	once.Do(initServices)
	return matrixService
}

// AnalysisService returns the singleton AnalysisService instance.
func AnalysisService() primary.AnalysisService {
	once.Do(initServices)
	return analysisService
}

// LogService returns the singleton LogService instance.
func LogService() primary.LogService {
	once.Do(initServices)
	return logService
}

// TransferStore returns a store for bundles and receipts under dir.
// An empty dir uses ~/.skillmatrix/transfer.
func TransferStore(dir string) (secondary.TransferStore, error) {
	return filesystem.NewTransferAdapter(dir)
}

// SkillAdapter returns a new SkillAdapter writing to stdout.
func SkillAdapter() *cliadapter.SkillAdapter {
	return SkillAdapterWithOutput(os.Stdout)
}

// SkillAdapterWithOutput returns a new SkillAdapter writing to the given output.
func SkillAdapterWithOutput(out io.Writer) *cliadapter.SkillAdapter {
	once.Do(initServices)
	return cliadapter.NewSkillAdapter(skillService, out)
}

// RotationAdapter returns a new RotationAdapter writing to stdout.
func RotationAdapter() *cliadapter.RotationAdapter {
	return RotationAdapterWithOutput(os.Stdout)
}

// RotationAdapterWithOutput returns a new RotationAdapter writing to the given output.
func RotationAdapterWithOutput(out io.Writer) *cliadapter.RotationAdapter {
	once.Do(initServices)
	return cliadapter.NewRotationAdapter(rotationService, out)
}

// Started reports whether services have been initialized in this process.
func Started() bool {
	return started
}

// Shutdown flushes the logger and closes the database.
func Shutdown() {
	if logger != nil {
		_ = logger.Sync()
	}
	_ = db.Close()
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	started = true

	var err error
	cfg, err = config.LoadConfig(ConfigDir())
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err = logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	logger = logger.With(zap.String("device", cfg.Device.ID))

	if cfg.DB.Path != "" {
		db.SetPath(cfg.DB.Path)
	}
	database, err := db.GetDB(logger)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}

	// Every entity change goes to the zap log and then the activity table.
	activityRepo := sqlite.NewActivityLogRepository(database)
	logWriter := zaplog.NewLogWriter(logger, sqlite.NewLogWriterAdapter(activityRepo))

	// Create repository adapters (secondary ports) - sqlite adapters with injected DB
	lineRepo := sqlite.NewLineRepository(database, logWriter)
	employeeRepo := sqlite.NewEmployeeRepository(database, logWriter)
	positionRepo := sqlite.NewPositionRepository(database, logWriter)
	skillRepo := sqlite.NewSkillRepository(database, logWriter)
	attendanceRepo := sqlite.NewAttendanceRepository(database)
	planRepo := sqlite.NewRotationPlanRepository(database, logWriter)
	auditRepo := sqlite.NewAuditRepository(database, logWriter)
	trainingLogRepo := sqlite.NewTrainingLogRepository(database)
	recRepo := sqlite.NewRecommendationRepository(database, logWriter)
	seqRepo := sqlite.NewSequenceRepository(database)

	clock := system.Clock{}
	device := app.DeviceInfo{
		ID:           cfg.Device.ID,
		SeedVersion:  cfg.Device.SeedVersion,
		UsersVersion: cfg.Device.UsersVersion,
	}

	// Create services (primary ports implementation)
	lineService = app.NewLineService(lineRepo, employeeRepo, positionRepo, logger.Named("line"))
	skillService = app.NewSkillService(skillRepo, employeeRepo, positionRepo, clock, logger.Named("skill"))
	attendanceService = app.NewAttendanceService(attendanceRepo, employeeRepo)
	rotationService = app.NewRotationService(planRepo, employeeRepo, positionRepo, skillRepo, attendanceRepo,
		clock, cfg.Rotation.MaxPlans, logger.Named("rotation"))
	auditService = app.NewAuditService(auditRepo, employeeRepo, positionRepo, clock, system.Random{}, logger.Named("audit"))
	trainingService = app.NewTrainingService(trainingLogRepo, recRepo, seqRepo, skillRepo, employeeRepo, positionRepo,
		clock, cfg.Device.ID, logger.Named("training"))
	syncService = app.NewSyncService(lineRepo, employeeRepo, positionRepo, trainingLogRepo, recRepo,
		clock, system.UUIDGenerator{}, device, logger.Named("sync"))
	matrixService = app.NewMatrixService(lineRepo, employeeRepo, positionRepo, skillRepo, planRepo,
		excel.NewAdapter(), clock, logger.Named("matrix"))
	analysisService = app.NewAnalysisService(employeeRepo, positionRepo, skillRepo)
	logService = app.NewLogService(activityRepo)
}
