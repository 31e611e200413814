package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/Gthulhu/erp/config"
	"github.com/Gthulhu/erp/manager/domain"
	"github.com/Gthulhu/erp/manager/errs"
	"github.com/Gthulhu/erp/pkg/logger"
	"github.com/Gthulhu/erp/pkg/util"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}

type ServiceTestSuite struct {
	suite.Suite
	ctx    context.Context
	cfg    config.ManageConfig
	repo   *domain.MockRepository
	svc    *Service
	users  map[bson.ObjectID]*domain.User
	audits []*domain.AuditLog
}

func (suite *ServiceTestSuite) SetupSuite() {
	logger.InitLoggerWithOptions(logger.Options{Level: "error"})
	suite.ctx = context.Background()
	cfg, err := config.InitManagerConfig("manager_config.test.toml", config.GetAbsPath("config"))
	suite.Require().NoError(err, "load test config")
	suite.cfg = cfg
}

func (suite *ServiceTestSuite) SetupTest() {
	suite.users = map[bson.ObjectID]*domain.User{}
	suite.audits = nil
	suite.repo = domain.NewMockRepository(suite.T())
	suite.wireRepo()

	authCfg := suite.cfg.Auth
	authCfg.AuditAllowed = false
	svc, err := newService(Params{
		Repo:       suite.repo,
		KeyConfig:  suite.cfg.Key,
		AuthConfig: authCfg,
		Registerer: prometheus.NewRegistry(),
	})
	suite.Require().NoError(err, "init service")
	suite.svc = svc
}

// wireRepo backs the mock repository with an in-memory user table.
func (suite *ServiceTestSuite) wireRepo() {
	suite.repo.EXPECT().QueryUsers(mock.Anything, mock.Anything).RunAndReturn(func(_ context.Context, opt *domain.QueryUserOptions) error {
		opt.Result = nil
		for _, u := range suite.users {
			if len(opt.IDs) > 0 && !containsID(opt.IDs, u.ID) {
				continue
			}
			if len(opt.Emails) > 0 && !containsString(opt.Emails, u.Email) {
				continue
			}
			cp := *u
			opt.Result = append(opt.Result, &cp)
		}
		return nil
	}).Maybe()
	suite.repo.EXPECT().CreateUser(mock.Anything, mock.Anything).RunAndReturn(func(_ context.Context, user *domain.User) error {
		for _, u := range suite.users {
			if u.Email == user.Email {
				return domain.ErrDuplicateUser
			}
		}
		if user.ID.IsZero() {
			user.ID = bson.NewObjectID()
		}
		cp := *user
		if !util.IsArgon2Hash(string(cp.Password)) {
			hash, err := util.CreateArgon2Hash(string(cp.Password))
			if err != nil {
				return err
			}
			cp.Password = domain.EncryptedPassword(hash)
		}
		suite.users[cp.ID] = &cp
		return nil
	}).Maybe()
	suite.repo.EXPECT().UpdateUser(mock.Anything, mock.Anything).RunAndReturn(func(_ context.Context, user *domain.User) error {
		if _, ok := suite.users[user.ID]; !ok {
			return domain.ErrNotFound
		}
		cp := *user
		suite.users[cp.ID] = &cp
		return nil
	}).Maybe()
	suite.repo.EXPECT().CreateAuditLog(mock.Anything, mock.Anything).RunAndReturn(func(_ context.Context, log *domain.AuditLog) error {
		suite.audits = append(suite.audits, log)
		return nil
	}).Maybe()
}

func containsID(ids []bson.ObjectID, id bson.ObjectID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func containsString(values []string, s string) bool {
	for _, v := range values {
		if v == s {
			return true
		}
	}
	return false
}

func (suite *ServiceTestSuite) addUser(email string, role domain.Role, status domain.UserStatus) *domain.User {
	user := &domain.User{
		Name:     email,
		Email:    email,
		Password: domain.EncryptedPassword("password"),
		Status:   status,
		Role:     role,
	}
	suite.Require().NoError(suite.repo.CreateUser(suite.ctx, user))
	return user
}

func (suite *ServiceTestSuite) login(email string) (string, domain.Claims) {
	token, err := suite.svc.Login(suite.ctx, email, "password")
	suite.Require().NoError(err, "login %s", email)
	claims, err := suite.svc.VerifyJWTToken(suite.ctx, token, domain.RequestMeta{})
	suite.Require().NoError(err, "verify %s", email)
	return token, claims
}

func (suite *ServiceTestSuite) requireStatus(err error, status int) {
	suite.Require().Error(err)
	httpErr, ok := errs.IsHTTPStatusError(err)
	suite.Require().True(ok, "expected HTTPStatusError, got %v", err)
	suite.Equal(status, httpErr.StatusCode, err.Error())
}

func (suite *ServiceTestSuite) TestLoginAndVerify() {
	user := suite.addUser("manager@company.com", domain.RoleManager, domain.UserStatusActive)

	token, claims := suite.login(user.Email)
	suite.Equal(user.ID.Hex(), claims.UID)
	suite.Equal(domain.RoleManager, claims.Role)
	suite.NotEmpty(claims.ID, "token id")

	_, err := suite.svc.VerifyJWTToken(suite.ctx, token, domain.RequestMeta{Action: "products.bulk"},
		domain.ProductsView, domain.ProductsEdit, domain.ProductsBulkEdit)
	suite.NoError(err)
	suite.Empty(suite.audits, "granted checks are not audited by default")

	_, err = suite.svc.VerifyJWTToken(suite.ctx, token, domain.RequestMeta{Action: "products.delete", RequestID: "req-1"}, domain.ProductsDelete)
	suite.requireStatus(err, http.StatusForbidden)
	suite.ErrorIs(err, domain.ErrPermissionDenied)

	suite.Require().Len(suite.audits, 1)
	entry := suite.audits[0]
	suite.False(entry.Allowed)
	suite.Equal(user.ID, entry.UserID)
	suite.Equal(domain.RoleManager, entry.Role)
	suite.Equal([]string{"products.delete"}, entry.Permissions)
	suite.Equal("req-1", entry.RequestID)
}

func (suite *ServiceTestSuite) TestLoginFailures() {
	suite.addUser("sales@company.com", domain.RoleSales, domain.UserStatusActive)
	suite.addUser("banned@company.com", domain.RoleSales, domain.UserStatusBanned)

	_, err := suite.svc.Login(suite.ctx, "sales@company.com", "wrong")
	suite.requireStatus(err, http.StatusUnauthorized)

	_, err = suite.svc.Login(suite.ctx, "nobody@company.com", "password")
	suite.requireStatus(err, http.StatusUnauthorized)

	_, err = suite.svc.Login(suite.ctx, "banned@company.com", "password")
	suite.requireStatus(err, http.StatusForbidden)
	suite.ErrorIs(err, domain.ErrUserInactive)
}

func (suite *ServiceTestSuite) TestVerifyRejectsGarbage() {
	_, err := suite.svc.VerifyJWTToken(suite.ctx, "not-a-token", domain.RequestMeta{})
	suite.requireStatus(err, http.StatusUnauthorized)
}

func (suite *ServiceTestSuite) TestLogoutRevokesToken() {
	suite.addUser("viewer@company.com", domain.RoleViewer, domain.UserStatusActive)
	token, claims := suite.login("viewer@company.com")

	suite.Require().NoError(suite.svc.Logout(suite.ctx, &claims))
	_, err := suite.svc.VerifyJWTToken(suite.ctx, token, domain.RequestMeta{})
	suite.requireStatus(err, http.StatusUnauthorized)
	suite.ErrorIs(err, domain.ErrTokenRevoked)

	suite.Equal(0, suite.svc.PruneRevokedTokens(suite.ctx), "token has not expired yet")
	suite.svc.now = func() time.Time { return time.Now().Add(2 * suite.cfg.Auth.TokenDuration()) }
	suite.Equal(1, suite.svc.PruneRevokedTokens(suite.ctx))

	suite.requireStatus(suite.svc.Logout(suite.ctx, &domain.Claims{}), http.StatusUnauthorized)
}

func (suite *ServiceTestSuite) TestRoleChangeReachesExistingSession() {
	admin := suite.addUser("admin@company.com", domain.RoleAdmin, domain.UserStatusActive)
	sales := suite.addUser("sales@company.com", domain.RoleSales, domain.UserStatusActive)
	_, adminClaims := suite.login(admin.Email)
	salesToken, _ := suite.login(sales.Email)

	_, err := suite.svc.VerifyJWTToken(suite.ctx, salesToken, domain.RequestMeta{}, domain.StockAdjust)
	suite.requireStatus(err, http.StatusForbidden)

	err = suite.svc.UpdateUserRole(suite.ctx, &adminClaims, sales.ID.Hex(), domain.RoleInventory)
	suite.Require().NoError(err)

	claims, err := suite.svc.VerifyJWTToken(suite.ctx, salesToken, domain.RequestMeta{}, domain.StockAdjust)
	suite.Require().NoError(err)
	suite.Equal(domain.RoleInventory, claims.Role)
}

func (suite *ServiceTestSuite) TestCreateNewUserRespectsSeniority() {
	admin := suite.addUser("admin@company.com", domain.RoleAdmin, domain.UserStatusActive)
	_, claims := suite.login(admin.Email)

	_, err := suite.svc.CreateNewUser(suite.ctx, &claims, domain.CreateUserOptions{
		Email: "root@company.com", Password: "pw", Role: domain.RoleSuperAdmin,
	})
	suite.requireStatus(err, http.StatusForbidden)

	user, err := suite.svc.CreateNewUser(suite.ctx, &claims, domain.CreateUserOptions{
		Name: "Peer", Email: "peer@company.com", Password: "pw", Role: domain.RoleAdmin,
	})
	suite.Require().NoError(err, "same rank is assignable")
	suite.Equal(domain.UserStatusWaitChangePassword, user.Status)
	suite.Equal(admin.ID, user.CreatorID)

	_, err = suite.svc.CreateNewUser(suite.ctx, &claims, domain.CreateUserOptions{
		Email: "peer@company.com", Password: "pw", Role: domain.RoleViewer,
	})
	suite.requireStatus(err, http.StatusConflict)

	_, err = suite.svc.CreateNewUser(suite.ctx, &claims, domain.CreateUserOptions{
		Email: "none@company.com", Password: "pw",
	})
	suite.requireStatus(err, http.StatusBadRequest)

	_, err = suite.svc.CreateNewUser(suite.ctx, &claims, domain.CreateUserOptions{Role: domain.RoleViewer})
	suite.requireStatus(err, http.StatusBadRequest)
}

func (suite *ServiceTestSuite) TestUpdateUserRoleGuards() {
	admin := suite.addUser("admin@company.com", domain.RoleAdmin, domain.UserStatusActive)
	manager := suite.addUser("manager@company.com", domain.RoleManager, domain.UserStatusActive)
	_, managerClaims := suite.login(manager.Email)

	err := suite.svc.UpdateUserRole(suite.ctx, &managerClaims, admin.ID.Hex(), domain.RoleViewer)
	suite.requireStatus(err, http.StatusForbidden)

	err = suite.svc.UpdateUserRole(suite.ctx, &managerClaims, manager.ID.Hex(), domain.RoleViewer)
	suite.requireStatus(err, http.StatusUnprocessableEntity)

	err = suite.svc.UpdateUserRole(suite.ctx, &managerClaims, "zzz", domain.RoleViewer)
	suite.requireStatus(err, http.StatusBadRequest)

	err = suite.svc.UpdateUserRole(suite.ctx, &managerClaims, bson.NewObjectID().Hex(), domain.RoleViewer)
	suite.requireStatus(err, http.StatusNotFound)

	err = suite.svc.UpdateUserRole(suite.ctx, &managerClaims, admin.ID.Hex(), domain.RoleNone)
	suite.requireStatus(err, http.StatusBadRequest)
}

func (suite *ServiceTestSuite) TestDeactivateUserEndsSession() {
	admin := suite.addUser("admin@company.com", domain.RoleSuperAdmin, domain.UserStatusActive)
	viewer := suite.addUser("viewer@company.com", domain.RoleViewer, domain.UserStatusActive)
	_, adminClaims := suite.login(admin.Email)
	viewerToken, viewerClaims := suite.login(viewer.Email)

	suite.Require().NoError(suite.svc.DeactivateUser(suite.ctx, &adminClaims, viewer.ID.Hex()))
	suite.Equal(domain.UserStatusInactive, suite.users[viewer.ID].Status)

	_, err := suite.svc.VerifyJWTToken(suite.ctx, viewerToken, domain.RequestMeta{})
	suite.requireStatus(err, http.StatusUnauthorized)
	suite.Equal(domain.RoleNone, suite.svc.CurrentRole(suite.ctx, &viewerClaims))
}

func (suite *ServiceTestSuite) TestCurrentRole() {
	suite.Equal(domain.RoleNone, suite.svc.CurrentRole(suite.ctx, nil))
	suite.Equal(domain.RoleNone, suite.svc.CurrentRole(suite.ctx, &domain.Claims{}))
	suite.Equal(domain.RoleNone, suite.svc.CurrentRole(suite.ctx, &domain.Claims{UID: bson.NewObjectID().Hex()}))

	inv := suite.addUser("inv@company.com", domain.RoleInventory, domain.UserStatusActive)
	suite.Equal(domain.RoleInventory, suite.svc.CurrentRole(suite.ctx, &domain.Claims{UID: inv.ID.Hex()}))

	self, err := suite.svc.GetSelf(suite.ctx, &domain.Claims{UID: inv.ID.Hex()})
	suite.Require().NoError(err)
	suite.Equal(inv.Email, self.Email)
}

func (suite *ServiceTestSuite) TestCheckAccess() {
	sales := suite.addUser("sales@company.com", domain.RoleSales, domain.UserStatusActive)
	viewer := suite.addUser("viewer@company.com", domain.RoleViewer, domain.UserStatusActive)
	manager := suite.addUser("manager@company.com", domain.RoleManager, domain.UserStatusActive)
	salesClaims := &domain.Claims{UID: sales.ID.Hex()}

	decision, err := suite.svc.CheckAccess(suite.ctx, salesClaims, domain.RequestMeta{Action: "access.check"}, domain.AccessCheck{
		Permissions: []domain.Permission{domain.StockView, domain.StockAdjust},
	})
	suite.Require().NoError(err)
	suite.Equal(domain.RoleSales, decision.Role)
	suite.Equal(domain.AccessModeAll, decision.Mode)
	suite.False(decision.Allowed)
	suite.Equal([]domain.Permission{domain.StockAdjust}, decision.Missing)
	suite.Require().Len(suite.audits, 1)
	suite.Equal("access.check", suite.audits[0].Action)

	decision, err = suite.svc.CheckAccess(suite.ctx, salesClaims, domain.RequestMeta{}, domain.AccessCheck{
		Permissions: []domain.Permission{domain.StockView, domain.StockAdjust},
		Mode:        domain.AccessModeAny,
	})
	suite.Require().NoError(err)
	suite.True(decision.Allowed)
	suite.Len(suite.audits, 1, "granted checks are not audited by default")

	_, err = suite.svc.CheckAccess(suite.ctx, &domain.Claims{UID: viewer.ID.Hex()}, domain.RequestMeta{}, domain.AccessCheck{
		Role:        domain.RoleAdmin,
		Permissions: []domain.Permission{domain.UsersDelete},
	})
	suite.requireStatus(err, http.StatusForbidden)

	decision, err = suite.svc.CheckAccess(suite.ctx, &domain.Claims{UID: manager.ID.Hex()}, domain.RequestMeta{}, domain.AccessCheck{
		Role:        domain.RoleAdmin,
		Permissions: []domain.Permission{domain.UsersDelete},
	})
	suite.Require().NoError(err)
	suite.False(decision.Allowed, "admin is senior to manager yet lacks users.delete")

	_, err = suite.svc.CheckAccess(suite.ctx, salesClaims, domain.RequestMeta{}, domain.AccessCheck{Mode: "some"})
	suite.requireStatus(err, http.StatusBadRequest)
}

func (suite *ServiceTestSuite) TestAuditAllowedRecordsGrants() {
	suite.svc.authCfg.AuditAllowed = true
	sales := suite.addUser("sales@company.com", domain.RoleSales, domain.UserStatusActive)
	token, _ := suite.login(sales.Email)

	_, err := suite.svc.VerifyJWTToken(suite.ctx, token, domain.RequestMeta{Action: "invoices.create"}, domain.InvoicesCreate)
	suite.Require().NoError(err)
	suite.Require().Len(suite.audits, 1)
	suite.True(suite.audits[0].Allowed)
}

func (suite *ServiceTestSuite) TestRoleQueries() {
	summaries := suite.svc.RoleSummaries(suite.ctx)
	suite.Require().Len(summaries, domain.RoleCount)
	suite.Equal(domain.RoleSuperAdmin, summaries[0].Role)
	suite.Equal(domain.RoleViewer, summaries[len(summaries)-1].Role)

	aSenior, bSenior := suite.svc.CompareRoles(suite.ctx, domain.RoleAdmin, domain.RoleManager)
	suite.True(aSenior)
	suite.False(bSenior)

	aSenior, bSenior = suite.svc.CompareRoles(suite.ctx, domain.RoleSales, domain.RoleSales)
	suite.False(aSenior)
	suite.False(bSenior)

	suite.Equal(7, suite.svc.RoleSummary(suite.ctx, domain.RoleViewer).Grants.Len())
	suite.Same(domain.DefaultMatrix(), suite.svc.Matrix())
}

func (suite *ServiceTestSuite) TestBootstrapAccounts() {
	suite.Require().NoError(suite.svc.CreateAdminUserIfNotExists(suite.ctx, "root@company.com", "password"))
	suite.Require().NoError(suite.svc.CreateAdminUserIfNotExists(suite.ctx, "root@company.com", "password"))
	suite.Require().NoError(suite.svc.CreateDemoUserIfNotExists(suite.ctx, "john.doe@company.com", "password"))
	suite.Require().NoError(suite.svc.CreateDemoUserIfNotExists(suite.ctx, "", ""))
	suite.Len(suite.users, 2)

	_, claims := suite.login("root@company.com")
	suite.Equal(domain.RoleSuperAdmin, claims.Role)
	_, claims = suite.login("john.doe@company.com")
	suite.Equal(domain.RoleManager, claims.Role)

	suite.Error(suite.svc.CreateAdminUserIfNotExists(suite.ctx, "", ""))
}

func TestMetricsShareRegisterer(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := newMetrics(reg)
	if err != nil {
		t.Fatal(err)
	}
	second, err := newMetrics(reg)
	if err != nil {
		t.Fatal(err)
	}
	if first.decisions != second.decisions {
		t.Fatal("expected the registered collector to be reused")
	}
}
