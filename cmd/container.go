// container.go
package main

import (
	"context"
	"fmt"
	"time"

	"github.com/proconsultancy/backend/pkg/ats/activity/activityapi"
	"github.com/proconsultancy/backend/pkg/ats/activity/activityinfra"
	"github.com/proconsultancy/backend/pkg/ats/activity/activitysrv"
	"github.com/proconsultancy/backend/pkg/ats/application/applicationapi"
	"github.com/proconsultancy/backend/pkg/ats/application/applicationinfra"
	"github.com/proconsultancy/backend/pkg/ats/application/applicationsrv"
	"github.com/proconsultancy/backend/pkg/ats/candidate/candidateapi"
	"github.com/proconsultancy/backend/pkg/ats/candidate/candidateinfra"
	"github.com/proconsultancy/backend/pkg/ats/candidate/candidatesrv"
	"github.com/proconsultancy/backend/pkg/ats/client/clientapi"
	"github.com/proconsultancy/backend/pkg/ats/client/clientinfra"
	"github.com/proconsultancy/backend/pkg/ats/client/clientsrv"
	"github.com/proconsultancy/backend/pkg/ats/job/jobapi"
	"github.com/proconsultancy/backend/pkg/ats/job/jobinfra"
	"github.com/proconsultancy/backend/pkg/ats/job/jobsrv"
	"github.com/proconsultancy/backend/pkg/ats/report/reportapi"
	"github.com/proconsultancy/backend/pkg/ats/report/reportinfra"
	"github.com/proconsultancy/backend/pkg/ats/report/reportsrv"
	"github.com/proconsultancy/backend/pkg/ats/submission/submissionapi"
	"github.com/proconsultancy/backend/pkg/ats/submission/submissioninfra"
	"github.com/proconsultancy/backend/pkg/ats/submission/submissionsrv"
	"github.com/proconsultancy/backend/pkg/config"
	"github.com/proconsultancy/backend/pkg/eventx"
	"github.com/proconsultancy/backend/pkg/fsx"
	"github.com/proconsultancy/backend/pkg/fsx/fsxlocal"
	"github.com/proconsultancy/backend/pkg/fsx/fsxs3"
	"github.com/proconsultancy/backend/pkg/iam/auth"
	"github.com/proconsultancy/backend/pkg/iam/auth/authinfra"
	"github.com/proconsultancy/backend/pkg/iam/user/userapi"
	"github.com/proconsultancy/backend/pkg/iam/user/userinfra"
	"github.com/proconsultancy/backend/pkg/iam/user/usersrv"
	"github.com/proconsultancy/backend/pkg/logx"
	"github.com/proconsultancy/backend/pkg/ratelimit"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
)

// Container holds all application dependencies
type Container struct {
	// Config
	Config *config.Config

	// Infrastructure
	DB          *sqlx.DB
	Redis       *redis.Client
	FileSystem  fsx.FileSystem
	S3Client    *s3.Client
	Publisher   eventx.Publisher
	RateLimiter *ratelimit.RedisLimiter

	// IAM Services
	TokenService *auth.JWTService
	UserService  *usersrv.UserService

	// ATS Services
	ClientService      *clientsrv.ClientService
	CandidateService   *candidatesrv.CandidateService
	JobService         *jobsrv.JobService
	SubmissionService  *submissionsrv.SubmissionService
	ApplicationService *applicationsrv.ApplicationService
	ActivityService    *activitysrv.ActivityService
	ReportService      *reportsrv.ReportService

	// API Handlers
	AuthHandlers        *auth.AuthHandlers
	UserHandlers        *userapi.UserHandlers
	ClientHandlers      *clientapi.ClientHandlers
	CandidateHandlers   *candidateapi.CandidateHandlers
	JobHandlers         *jobapi.JobHandlers
	SubmissionHandlers  *submissionapi.SubmissionHandlers
	ApplicationHandlers *applicationapi.ApplicationHandlers
	ActivityHandlers    *activityapi.ActivityHandlers
	ReportHandlers      *reportapi.ReportHandlers

	// Middleware
	AuthMiddleware *auth.TokenMiddleware

	// Background Services
	RetentionPruner *activitysrv.RetentionPruner
}

// NewContainer initializes the dependency injection container
func NewContainer(cfg *config.Config) *Container {
	logx.Info("🔧 Initializing dependency container...")

	c := &Container{
		Config: cfg,
	}

	c.initInfrastructure()
	c.initServices()

	logx.Info("✅ Container initialized successfully")
	return c
}

func (c *Container) initInfrastructure() {
	logx.Info("🏗️ Initializing infrastructure...")

	// 1. Database Connection
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Config.Database.Host,
		c.Config.Database.Port,
		c.Config.Database.User,
		c.Config.Database.Password,
		c.Config.Database.Name,
		c.Config.Database.SSLMode,
	)

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		logx.Fatalf("Failed to connect to database: %v", err)
	}
	db.SetMaxOpenConns(c.Config.Database.MaxOpenConns)
	db.SetMaxIdleConns(c.Config.Database.MaxIdleConns)
	db.SetConnMaxLifetime(c.Config.Database.ConnMaxLifetime)
	c.DB = db
	logx.Info("✅ Database connected")

	// 2. Redis Connection
	c.Redis = redis.NewClient(&redis.Options{
		Addr:     c.Config.Redis.Address(),
		Password: c.Config.Redis.Password,
		DB:       c.Config.Redis.DB,
	})
	if _, err := c.Redis.Ping(context.Background()).Result(); err != nil {
		logx.Fatalf("Failed to connect to Redis: %v (Redis is required for sessions and rate limiting)", err)
	} else {
		logx.Info("✅ Redis connected")
	}
	c.RateLimiter = ratelimit.NewRedisLimiter(c.Redis)

	// 3. File Storage Configuration (Local or S3)
	c.initFileStorage()

	// 4. Event Publisher (Kafka or Noop)
	c.initPublisher()

	logx.Info("✅ Infrastructure initialized")
}

func (c *Container) initFileStorage() {
	switch c.Config.Storage.Mode {
	case "s3":
		awsCfg, err := awsConfig.LoadDefaultConfig(context.TODO(),
			awsConfig.WithRegion(c.Config.Storage.AWSRegion))
		if err != nil {
			logx.Fatalf("Unable to load AWS SDK config: %v", err)
		}
		c.S3Client = s3.NewFromConfig(awsCfg)
		c.FileSystem = fsxs3.NewS3FileSystem(c.S3Client, c.Config.Storage.AWSBucket, "")
		logx.Infof("✅ S3 file system configured (bucket: %s, region: %s)",
			c.Config.Storage.AWSBucket, c.Config.Storage.AWSRegion)

	case "local":
		localFS, err := fsxlocal.NewLocalFileSystem(c.Config.Storage.UploadDir)
		if err != nil {
			logx.Fatalf("Failed to initialize local file system: %v", err)
		}
		c.FileSystem = localFS
		logx.Infof("✅ Local file system configured (path: %s)", localFS.GetBasePath())

	default:
		logx.Fatalf("Unknown STORAGE_MODE: %s (use 'local' or 's3')", c.Config.Storage.Mode)
	}
}

func (c *Container) initPublisher() {
	if !c.Config.Events.Enabled {
		c.Publisher = eventx.NewNoopPublisher()
		logx.Info("ℹ️  Event publishing disabled (using noop publisher)")
		return
	}

	c.Publisher = eventx.NewKafkaPublisher(
		c.Config.Events.Broker,
		c.Config.Events.Topic,
		c.Config.Events.Username,
		c.Config.Events.Password,
		c.Config.Events.WriteTimeout,
	)
	logx.Infof("✅ Kafka publisher configured (broker: %s, topic: %s)",
		c.Config.Events.Broker, c.Config.Events.Topic)
}

func (c *Container) initServices() {
	logx.Info("🗄️  Initializing repositories and services...")

	// --- Repositories ---
	userRepo := userinfra.NewPostgresUserRepository(c.DB)
	clientRepo := clientinfra.NewPostgresClientRepository(c.DB)
	candidateRepo := candidateinfra.NewPostgresCandidateRepository(c.DB)
	jobRepo := jobinfra.NewPostgresJobRepository(c.DB)
	submissionRepo := submissioninfra.NewPostgresSubmissionRepository(c.DB)
	applicationRepo := applicationinfra.NewPostgresApplicationRepository(c.DB)
	activityRepo := activityinfra.NewPostgresEntryRepository(c.DB)
	reportRepo := reportinfra.NewPostgresReportRepository(c.DB)

	// --- Infrastructure Services ---
	passwordSvc := authinfra.NewBcryptPasswordService(c.Config.Auth.Password.BcryptCost)
	refreshStore := authinfra.NewRedisTokenStore(c.Redis, c.Config.Auth.JWT.RefreshTokenTTL)
	c.TokenService = auth.NewJWTServiceFromConfig(&c.Config.Auth.JWT)

	// --- Domain Services ---
	c.ActivityService = activitysrv.NewActivityService(activityRepo)
	recorder := c.ActivityService

	c.UserService = usersrv.NewUserService(userRepo, passwordSvc)
	c.ClientService = clientsrv.NewClientService(clientRepo, recorder)
	c.CandidateService = candidatesrv.NewCandidateService(
		candidateRepo,
		c.FileSystem,
		recorder,
		c.Config.Storage.MaxCVMB,
	)
	c.JobService = jobsrv.NewJobService(jobRepo, clientRepo, recorder)
	c.SubmissionService = submissionsrv.NewSubmissionService(
		submissionRepo,
		candidateRepo,
		jobRepo,
		recorder,
		c.Publisher,
	)
	c.ApplicationService = applicationsrv.NewApplicationService(
		applicationRepo,
		jobRepo,
		candidateRepo,
		c.SubmissionService,
		c.FileSystem,
		recorder,
	)
	c.ReportService = reportsrv.NewReportService(reportRepo, c.Redis, 5*time.Minute)

	// --- API Handlers ---
	c.AuthHandlers = auth.NewAuthHandlers(
		userRepo,
		passwordSvc,
		c.TokenService,
		refreshStore,
		c.Config,
	)
	c.UserHandlers = userapi.NewUserHandlers(c.UserService)
	c.ClientHandlers = clientapi.NewClientHandlers(c.ClientService)
	c.CandidateHandlers = candidateapi.NewCandidateHandlers(c.CandidateService)
	c.JobHandlers = jobapi.NewJobHandlers(c.JobService)
	c.SubmissionHandlers = submissionapi.NewSubmissionHandlers(c.SubmissionService)
	c.ApplicationHandlers = applicationapi.NewApplicationHandlers(c.ApplicationService)
	c.ActivityHandlers = activityapi.NewActivityHandlers(c.ActivityService)
	c.ReportHandlers = reportapi.NewReportHandlers(c.ReportService)

	// --- Middleware ---
	c.AuthMiddleware = auth.NewTokenMiddleware(c.TokenService)

	// --- Background Services ---
	c.RetentionPruner = activitysrv.NewRetentionPruner(
		activityRepo,
		time.Duration(c.Config.Activity.RetentionDays)*24*time.Hour,
		c.Config.Activity.PruneInterval,
	)

	logx.Info("✅ All services and handlers initialized")
}

// StartBackgroundServices starts background workers
func (c *Container) StartBackgroundServices(ctx context.Context) {
	logx.Info("🔄 Starting background services...")

	go c.RetentionPruner.Start(ctx)
	logx.Info("✅ Activity retention pruner started")
}

// Cleanup closes all connections and stops workers
func (c *Container) Cleanup() {
	logx.Info("🧹 Cleaning up resources...")

	if c.Publisher != nil {
		if err := c.Publisher.Close(); err != nil {
			logx.Errorf("Error closing event publisher: %v", err)
		}
	}

	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			logx.Errorf("Error closing database: %v", err)
		} else {
			logx.Info("✅ Database connection closed")
		}
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			logx.Errorf("Error closing Redis: %v", err)
		} else {
			logx.Info("✅ Redis connection closed")
		}
	}

	logx.Info("✅ Cleanup completed")
}
