package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/Gthulhu/erp/manager/domain"
	"github.com/Gthulhu/erp/manager/errs"
	"github.com/Gthulhu/erp/pkg/logger"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func (svc *Service) CreateAdminUserIfNotExists(ctx context.Context, email, password string) error {
	return svc.createUserIfNotExists(ctx, email, password, "Administrator", domain.RoleSuperAdmin)
}

// CreateDemoUserIfNotExists seeds a manager account. An empty email disables
// seeding.
func (svc *Service) CreateDemoUserIfNotExists(ctx context.Context, email, password string) error {
	if email == "" {
		return nil
	}
	return svc.createUserIfNotExists(ctx, email, password, "John Doe", domain.RoleManager)
}

func (svc *Service) createUserIfNotExists(ctx context.Context, email, password, name string, role domain.Role) error {
	if email == "" || password == "" {
		return fmt.Errorf("%s account requires email and password", role)
	}
	_, err := svc.getUserByEmail(ctx, email)
	if err == nil {
		logger.Logger(ctx).Debug().Str("email", email).Msgf("%s account already exists", role)
		return nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	user := &domain.User{
		BaseEntity: domain.NewBaseEntity(nil),
		Name:       name,
		Email:      email,
		Password:   domain.EncryptedPassword(password),
		Status:     domain.UserStatusActive,
		Role:       role,
	}
	if err := svc.Repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateUser) {
			return nil
		}
		return err
	}
	logger.Logger(ctx).Info().Str("email", email).Str("role", role.String()).Msg("seeded account")
	return nil
}

func (svc *Service) GetSelf(ctx context.Context, claims *domain.Claims) (*domain.User, error) {
	id, err := claims.GetBsonObjectUID()
	if err != nil {
		return nil, errs.NewUnauthorized(err)
	}
	user, err := svc.getUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, errs.NewHTTPStatusError(http.StatusNotFound, "user not found", err)
		}
		return nil, err
	}
	return user, nil
}

// CreateNewUser creates an account on behalf of operator. The new account's
// role may not rank above the operator's own.
func (svc *Service) CreateNewUser(ctx context.Context, operator *domain.Claims, opt domain.CreateUserOptions) (*domain.User, error) {
	operatorID, err := operator.GetBsonObjectUID()
	if err != nil {
		return nil, errs.NewUnauthorized(err)
	}
	opt.Email = strings.TrimSpace(opt.Email)
	if opt.Email == "" || opt.Password == "" {
		return nil, errs.NewHTTPStatusError(http.StatusBadRequest, "email and password are required", nil)
	}
	if !opt.Role.Valid() {
		return nil, errs.NewHTTPStatusError(http.StatusBadRequest, "invalid role", domain.ErrUnknownRole)
	}
	if err := svc.checkAssignable(ctx, operator, opt.Role); err != nil {
		return nil, err
	}

	user := &domain.User{
		BaseEntity: domain.NewBaseEntity(&operatorID),
		Name:       opt.Name,
		Email:      opt.Email,
		Avatar:     opt.Avatar,
		Password:   domain.EncryptedPassword(opt.Password),
		Status:     domain.UserStatusWaitChangePassword,
		Role:       opt.Role,
	}
	if err := svc.Repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateUser) {
			return nil, errs.NewHTTPStatusError(http.StatusConflict, "user already exists", err)
		}
		return nil, err
	}
	return user, nil
}

// UpdateUserRole moves userID to role. Operators cannot change their own role
// and can only act on users, and assign roles, not senior to their own.
func (svc *Service) UpdateUserRole(ctx context.Context, operator *domain.Claims, userID string, role domain.Role) error {
	operatorID, err := operator.GetBsonObjectUID()
	if err != nil {
		return errs.NewUnauthorized(err)
	}
	if !role.Valid() {
		return errs.NewHTTPStatusError(http.StatusBadRequest, "invalid role", domain.ErrUnknownRole)
	}
	user, err := svc.getManagedUser(ctx, operator, operatorID, userID)
	if err != nil {
		return err
	}
	if err := svc.checkAssignable(ctx, operator, role); err != nil {
		return err
	}
	if user.Role == role {
		return nil
	}

	previous := user.Role
	user.Role = role
	user.Touch(operatorID)
	if err := svc.Repo.UpdateUser(ctx, user); err != nil {
		return err
	}
	svc.sessions.Delete(user.ID.Hex())
	logger.Logger(ctx).Info().Str("operator", operator.UID).Str("uid", userID).
		Str("from", previous.String()).Str("to", role.String()).Msg("user role changed")
	return nil
}

// DeactivateUser marks userID inactive. Its sessions stop verifying once the
// cached session state expires, immediately on this instance.
func (svc *Service) DeactivateUser(ctx context.Context, operator *domain.Claims, userID string) error {
	operatorID, err := operator.GetBsonObjectUID()
	if err != nil {
		return errs.NewUnauthorized(err)
	}
	user, err := svc.getManagedUser(ctx, operator, operatorID, userID)
	if err != nil {
		return err
	}
	if user.Status == domain.UserStatusInactive {
		return nil
	}
	user.Status = domain.UserStatusInactive
	user.Touch(operatorID)
	if err := svc.Repo.UpdateUser(ctx, user); err != nil {
		return err
	}
	svc.sessions.Delete(user.ID.Hex())
	logger.Logger(ctx).Info().Str("operator", operator.UID).Str("uid", userID).Msg("user deactivated")
	return nil
}

func (svc *Service) QueryUsers(ctx context.Context, opt *domain.QueryUserOptions) error {
	return svc.Repo.QueryUsers(ctx, opt)
}

// getManagedUser loads userID for a management action by operator.
func (svc *Service) getManagedUser(ctx context.Context, operator *domain.Claims, operatorID bson.ObjectID, userID string) (*domain.User, error) {
	id, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		return nil, errs.NewHTTPStatusError(http.StatusBadRequest, "invalid user id", err)
	}
	if id == operatorID {
		return nil, errs.NewHTTPStatusError(http.StatusUnprocessableEntity, "cannot manage your own account", nil)
	}
	user, err := svc.getUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, errs.NewHTTPStatusError(http.StatusNotFound, "user not found", err)
		}
		return nil, err
	}
	if svc.matrix.IsSenior(user.Role, svc.CurrentRole(ctx, operator)) {
		return nil, errs.NewForbidden(errors.WithMessagef(domain.ErrPermissionDenied, "user %s holds a more senior role", userID))
	}
	return user, nil
}

func (svc *Service) checkAssignable(ctx context.Context, operator *domain.Claims, role domain.Role) error {
	operatorRole := svc.CurrentRole(ctx, operator)
	if svc.matrix.IsSenior(role, operatorRole) {
		return errs.NewForbidden(errors.WithMessagef(domain.ErrPermissionDenied, "%s cannot assign the more senior role %s", operatorRole, role))
	}
	return nil
}

func (svc *Service) getUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	opts := &domain.QueryUserOptions{
		Emails: []string{email},
	}
	if err := svc.Repo.QueryUsers(ctx, opts); err != nil {
		return nil, err
	}
	if len(opts.Result) == 0 {
		return nil, errors.WithMessagef(domain.ErrNotFound, "user with email %s", email)
	}
	return opts.Result[0], nil
}

func (svc *Service) getUserByID(ctx context.Context, id bson.ObjectID) (*domain.User, error) {
	opts := &domain.QueryUserOptions{
		IDs: []bson.ObjectID{id},
	}
	if err := svc.Repo.QueryUsers(ctx, opts); err != nil {
		return nil, err
	}
	if len(opts.Result) == 0 {
		return nil, errors.WithMessagef(domain.ErrNotFound, "user %s", id.Hex())
	}
	return opts.Result[0], nil
}
