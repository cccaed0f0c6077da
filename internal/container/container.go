package container

import (
	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/civicresolve/backend/config"
	"github.com/civicresolve/backend/internal/domain/repository"
	"github.com/civicresolve/backend/pkg/helpers"
	"github.com/civicresolve/backend/pkg/mailer"
)

// App-level container for components constructed once at startup and shared
// across packages. Router modules auto-wire from these singletons.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	pgPool      *pgxpool.Pool
	redisClient *redis.Client
	gcsClient   *storage.Client

	jwtManager *helpers.JWTManager

	mailgunClient *mailer.Mailgun
	rabbitPub     *helpers.RabbitPublisher
	esClient      *elasticsearch.Client

	// Repositories are bound at startup to either the in-memory stores or
	// the Postgres implementations, per config.
	userRepo   repository.UserRepository
	issueRepo  repository.IssueRepository
	aadhaarDir repository.AadhaarDirectory
)

func SetConfig(c *config.Config)   { cfg = c }
func GetConfig() *config.Config    { return cfg }
func SetLogger(l *logrus.Logger)   { logger = l }
func GetLogger() *logrus.Logger    { return logger }
func SetPGPool(p *pgxpool.Pool)    { pgPool = p }
func GetPGPool() *pgxpool.Pool     { return pgPool }
func SetRedis(r *redis.Client)     { redisClient = r }
func GetRedis() *redis.Client      { return redisClient }
func SetGCS(s *storage.Client)     { gcsClient = s }
func GetGCS() *storage.Client      { return gcsClient }
func SetJWT(m *helpers.JWTManager) { jwtManager = m }
func GetJWT() *helpers.JWTManager  { return jwtManager }

func SetMailgun(m *mailer.Mailgun)            { mailgunClient = m }
func GetMailgun() *mailer.Mailgun             { return mailgunClient }
func SetRabbitPub(p *helpers.RabbitPublisher) { rabbitPub = p }
func GetRabbitPub() *helpers.RabbitPublisher  { return rabbitPub }
func SetES(c *elasticsearch.Client)           { esClient = c }
func GetES() *elasticsearch.Client            { return esClient }

func SetUserRepo(r repository.UserRepository)     { userRepo = r }
func GetUserRepo() repository.UserRepository      { return userRepo }
func SetIssueRepo(r repository.IssueRepository)   { issueRepo = r }
func GetIssueRepo() repository.IssueRepository    { return issueRepo }
func SetAadhaarDir(d repository.AadhaarDirectory) { aadhaarDir = d }
func GetAadhaarDir() repository.AadhaarDirectory  { return aadhaarDir }
