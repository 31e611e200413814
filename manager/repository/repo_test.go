package repository

import (
	"context"
	"testing"
	"time"

	"github.com/Gthulhu/erp/config"
	"github.com/Gthulhu/erp/manager/domain"
	"github.com/Gthulhu/erp/manager/migration"
	"github.com/Gthulhu/erp/pkg/container"
	"github.com/Gthulhu/erp/pkg/logger"
	"github.com/Gthulhu/erp/pkg/util"
	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RepositoryTestSuite))
}

type RepositoryTestSuite struct {
	suite.Suite
	ctx            context.Context
	repo           *repo
	containerBuild *container.ContainerBuilder
	mongoCfg       config.MongoDBConfig
}

func (suite *RepositoryTestSuite) SetupSuite() {
	logger.InitLogger()
	suite.ctx = context.Background()

	builder, err := container.NewContainerBuilder("")
	suite.Require().NoError(err, "init container builder")
	suite.containerBuild = builder

	cfg, err := config.InitManagerConfig("manager_config.test.toml", config.GetAbsPath("config"))
	suite.Require().NoError(err, "load test config")
	cfg.MongoDB.Port = "27018"

	mongoCfg, err := container.RunMongoContainer(builder, "erp_repo_test_mongo", cfg.MongoDB)
	suite.Require().NoError(err, "start mongo container")
	suite.mongoCfg = mongoCfg

	repoInst, err := NewRepository(Params{MongoConfig: mongoCfg})
	suite.Require().NoError(err, "init repository")

	r, ok := repoInst.(*repo)
	suite.Require().True(ok, "repository type assertion")
	suite.repo = r
}

func (suite *RepositoryTestSuite) TearDownSuite() {
	if suite.repo != nil {
		_ = suite.repo.client.Disconnect(suite.ctx)
	}
	if suite.containerBuild != nil {
		err := suite.containerBuild.PruneAll()
		suite.Require().NoError(err, "prune containers")
	}
}

func (suite *RepositoryTestSuite) SetupTest() {
	suite.Require().NotNil(suite.repo, "repository not initialized")
	err := util.MongoCleanup(suite.repo.client, suite.mongoCfg.Database)
	suite.Require().NoError(err, "cleanup database")
	err = migration.RunMongoMigration(suite.mongoCfg)
	suite.Require().NoError(err, "run migrations")
}

func (suite *RepositoryTestSuite) newUser(email string, role domain.Role) *domain.User {
	user := &domain.User{
		Name:     "test user",
		Email:    email,
		Password: domain.EncryptedPassword("secret"),
		Status:   domain.UserStatusActive,
		Role:     role,
	}
	err := suite.repo.CreateUser(suite.ctx, user)
	suite.Require().NoError(err, "create user")
	return user
}

func (suite *RepositoryTestSuite) TestCreateAndQueryUser() {
	user := suite.newUser("sales@company.com", domain.RoleSales)
	suite.NotZero(user.ID, "user id should be assigned")
	suite.NotZero(user.CreatedTime, "created time should be assigned")

	opts := &domain.QueryUserOptions{
		Emails: []string{user.Email},
	}
	err := suite.repo.QueryUsers(suite.ctx, opts)
	suite.Require().NoError(err, "query users")
	suite.Require().Len(opts.Result, 1, "expect one user")
	got := opts.Result[0]
	suite.Equal(user.Email, got.Email, "email should match")
	suite.Equal(domain.RoleSales, got.Role, "role should round trip")

	ok, err := got.Password.Cmp("secret")
	suite.Require().NoError(err, "compare password")
	suite.True(ok, "stored password should be hashed and verifiable")
}

func (suite *RepositoryTestSuite) TestCreateUserDuplicateEmail() {
	suite.newUser("dup@company.com", domain.RoleViewer)

	err := suite.repo.CreateUser(suite.ctx, &domain.User{
		Email:    "dup@company.com",
		Password: domain.EncryptedPassword("secret"),
		Status:   domain.UserStatusActive,
		Role:     domain.RoleAdmin,
	})
	suite.ErrorIs(err, domain.ErrDuplicateUser)
}

func (suite *RepositoryTestSuite) TestQueryUsersByRole() {
	suite.newUser("a@company.com", domain.RoleSales)
	suite.newUser("b@company.com", domain.RoleInventory)
	suite.newUser("c@company.com", domain.RoleSales)

	opts := &domain.QueryUserOptions{Roles: []domain.Role{domain.RoleSales}}
	err := suite.repo.QueryUsers(suite.ctx, opts)
	suite.Require().NoError(err, "query users by role")
	suite.Len(opts.Result, 2, "expect two sales users")
}

func (suite *RepositoryTestSuite) TestUpdateUserRoleAndStatus() {
	user := suite.newUser("update@company.com", domain.RoleViewer)

	user.Status = domain.UserStatusInactive
	user.Role = domain.RoleManager
	err := suite.repo.UpdateUser(suite.ctx, user)
	suite.Require().NoError(err, "update user")

	opts := &domain.QueryUserOptions{IDs: []bson.ObjectID{user.ID}}
	err = suite.repo.QueryUsers(suite.ctx, opts)
	suite.Require().NoError(err, "query users by id")
	suite.Require().Len(opts.Result, 1, "expect one user after update")
	suite.Equal(domain.UserStatusInactive, opts.Result[0].Status, "status should be updated")
	suite.Equal(domain.RoleManager, opts.Result[0].Role, "role should be updated")
}

func (suite *RepositoryTestSuite) TestUpdateUserNotFound() {
	err := suite.repo.UpdateUser(suite.ctx, &domain.User{
		BaseEntity: domain.BaseEntity{ID: bson.NewObjectID()},
		Email:      "ghost@company.com",
	})
	suite.ErrorIs(err, domain.ErrNotFound)
}

func (suite *RepositoryTestSuite) TestUnknownStoredRoleDecodesToNone() {
	_, err := suite.repo.db.Collection(userCollection).InsertOne(suite.ctx, bson.M{
		"email":  "legacy@company.com",
		"status": domain.UserStatusActive,
		"role":   "warehouse_lead",
	})
	suite.Require().NoError(err, "insert legacy user")

	opts := &domain.QueryUserOptions{Emails: []string{"legacy@company.com"}}
	err = suite.repo.QueryUsers(suite.ctx, opts)
	suite.Require().NoError(err, "query legacy user")
	suite.Require().Len(opts.Result, 1)
	suite.Equal(domain.RoleNone, opts.Result[0].Role)
}

func (suite *RepositoryTestSuite) TestAuditLogs() {
	uid := bson.NewObjectID()
	base := time.Now().UnixMilli()
	entries := []*domain.AuditLog{
		{UserID: uid, Role: domain.RoleSales, Action: "access.check", Permissions: []string{"stock.adjust"}, Mode: domain.AccessModeAll, Allowed: false, Timestamp: base - 2000},
		{UserID: uid, Role: domain.RoleSales, Action: "access.check", Permissions: []string{"stock.view"}, Mode: domain.AccessModeAll, Allowed: true, Timestamp: base - 1000},
		{UserID: bson.NewObjectID(), Role: domain.RoleViewer, Action: "users.list", Permissions: []string{"users.view"}, Mode: domain.AccessModeAll, Allowed: false, Timestamp: base},
	}
	for _, entry := range entries {
		suite.Require().NoError(suite.repo.CreateAuditLog(suite.ctx, entry), "create audit log")
	}

	all := &domain.QueryAuditLogOptions{}
	suite.Require().NoError(suite.repo.QueryAuditLogs(suite.ctx, all))
	suite.Require().Len(all.Result, 3)
	suite.Equal(base, all.Result[0].Timestamp, "newest first")

	denied := &domain.QueryAuditLogOptions{AllowedOnly: util.Ptr(false), UserIDs: []bson.ObjectID{uid}}
	suite.Require().NoError(suite.repo.QueryAuditLogs(suite.ctx, denied))
	suite.Require().Len(denied.Result, 1)
	suite.Equal([]string{"stock.adjust"}, denied.Result[0].Permissions)
	suite.False(denied.Result[0].Allowed)

	window := &domain.QueryAuditLogOptions{TimestampGTE: base - 1500, Limit: 1}
	suite.Require().NoError(suite.repo.QueryAuditLogs(suite.ctx, window))
	suite.Require().Len(window.Result, 1)
	suite.Equal(domain.RoleViewer, window.Result[0].Role)
}

func (suite *RepositoryTestSuite) TestNilQueryInput() {
	suite.ErrorIs(suite.repo.QueryUsers(suite.ctx, nil), domain.ErrNilQueryInput)
	suite.ErrorIs(suite.repo.QueryAuditLogs(suite.ctx, nil), domain.ErrNilQueryInput)
}
