package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/scholalink/school-service/internal/cache"
	"github.com/scholalink/school-service/internal/config"
	"github.com/scholalink/school-service/internal/events"
	"github.com/scholalink/school-service/internal/repositories"
	"github.com/scholalink/school-service/internal/validator"
)

// ServiceManagerConfig holds configuration for the service manager.
type ServiceManagerConfig struct {
	LogLevel slog.Level

	Insight config.InsightConfig

	DefaultTimeout time.Duration
}

// serviceManager implements ServiceManager.
type serviceManager struct {
	// Dependencies
	repo      repositories.Repository
	cache     *cache.CacheManager
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator
	config    ServiceManagerConfig

	// Service instances
	analyticsService  AnalyticsService
	gradebookService  GradebookService
	attendanceService AttendanceService
	rosterService     RosterService
	scheduleService   ScheduleService
	messagingService  MessagingService
	dashboardService  DashboardService
	insightService    InsightService
	exportService     ExportService

	// Lifecycle management
	initialized bool
	shutdown    bool
	mu          sync.RWMutex
}

// NewServiceManager creates a service manager with all dependencies.
func NewServiceManager(repo repositories.Repository, cacheManager *cache.CacheManager, publisher events.EventPublisher, logger *slog.Logger, v *validator.Validator, cfg ServiceManagerConfig) ServiceManager {
	return &serviceManager{
		repo:      repo,
		cache:     cacheManager,
		publisher: publisher,
		logger:    logger,
		validator: v,
		config:    cfg,
	}
}

// NewDefaultServiceManager creates a service manager with default configuration.
func NewDefaultServiceManager(repo repositories.Repository, cacheManager *cache.CacheManager, publisher events.EventPublisher, logger *slog.Logger, v *validator.Validator, insight config.InsightConfig) ServiceManager {
	cfg := ServiceManagerConfig{
		LogLevel:       slog.LevelInfo,
		Insight:        insight,
		DefaultTimeout: 30 * time.Second,
	}
	return NewServiceManager(repo, cacheManager, publisher, logger, v, cfg)
}

// Initialize sets up all services and their dependencies.
func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	sm.logger.Info("Initializing service manager")

	sm.analyticsService = NewAnalyticsService(sm.repo, sm.cache, sm.logger)
	sm.gradebookService = NewGradebookService(sm.repo, sm.cache, sm.publisher, sm.logger, sm.validator)
	sm.attendanceService = NewAttendanceService(sm.repo, sm.cache, sm.publisher, sm.logger, sm.validator)
	sm.rosterService = NewRosterService(sm.repo, sm.publisher, sm.logger, sm.validator)
	sm.scheduleService = NewScheduleService(sm.repo, sm.publisher, sm.logger, sm.validator)
	sm.messagingService = NewMessagingService(sm.repo, sm.publisher, sm.logger, sm.validator)
	sm.dashboardService = NewDashboardService(sm.repo, sm.analyticsService, sm.logger)
	sm.insightService = NewInsightService(sm.repo, sm.config.Insight, sm.logger)
	sm.exportService = NewExportService(sm.repo, sm.analyticsService, sm.logger)

	sm.initialized = true
	sm.logger.Info("Service manager initialized successfully")

	return nil
}

// mustInit panics when a service is requested before Initialize ran.
// Callers hold at least a read lock.
func (sm *serviceManager) mustInit(name string) {
	if !sm.initialized {
		panic(fmt.Sprintf("%s service requested before initialization", name))
	}
}

// Service getters
func (sm *serviceManager) Analytics() AnalyticsService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustInit("analytics")
	return sm.analyticsService
}

func (sm *serviceManager) Gradebook() GradebookService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustInit("gradebook")
	return sm.gradebookService
}

func (sm *serviceManager) Attendance() AttendanceService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustInit("attendance")
	return sm.attendanceService
}

func (sm *serviceManager) Roster() RosterService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustInit("roster")
	return sm.rosterService
}

func (sm *serviceManager) Schedule() ScheduleService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustInit("schedule")
	return sm.scheduleService
}

func (sm *serviceManager) Messaging() MessagingService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustInit("messaging")
	return sm.messagingService
}

func (sm *serviceManager) Dashboard() DashboardService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustInit("dashboard")
	return sm.dashboardService
}

func (sm *serviceManager) Insight() InsightService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustInit("insight")
	return sm.insightService
}

func (sm *serviceManager) Export() ExportService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustInit("export")
	return sm.exportService
}

// Health and lifecycle
func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		return fmt.Errorf("service manager not initialized")
	}
	if sm.shutdown {
		return fmt.Errorf("service manager is shut down")
	}

	if err := sm.repo.Ping(ctx); err != nil {
		return fmt.Errorf("repository health check failed: %w", err)
	}

	return nil
}

func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.shutdown {
		return nil
	}

	sm.logger.Info("Shutting down service manager")

	if err := sm.publisher.Close(); err != nil {
		sm.logger.Error("Failed to close event publisher", "error", err)
	}

	sm.shutdown = true
	sm.logger.Info("Service manager shut down completed")

	return nil
}
