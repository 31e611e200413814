package service

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Gthulhu/erp/manager/domain"
	"github.com/Gthulhu/erp/manager/errs"
	"github.com/Gthulhu/erp/pkg/logger"
	"github.com/pkg/errors"
)

// CheckAccess evaluates check against the matrix. A check without a role
// evaluates the operator's current role; evaluating anyone else's requires
// users.view.
func (svc *Service) CheckAccess(ctx context.Context, operator *domain.Claims, meta domain.RequestMeta, check domain.AccessCheck) (domain.AccessDecision, error) {
	operatorRole := svc.CurrentRole(ctx, operator)
	role := check.Role
	if role == domain.RoleNone {
		role = operatorRole
	}
	if role != operatorRole && !svc.matrix.HasPermission(operatorRole, domain.UsersView) {
		return domain.AccessDecision{}, errs.NewForbidden(errors.WithMessagef(domain.ErrPermissionDenied, "%s cannot inspect role %s", operatorRole, role))
	}

	mode := check.Mode
	if mode == "" {
		mode = domain.AccessModeAll
	}

	decision := domain.AccessDecision{
		Role:        role,
		Permissions: check.Permissions,
		Mode:        mode,
	}
	switch mode {
	case domain.AccessModeAll:
		decision.Allowed = svc.matrix.HasAll(role, check.Permissions...)
	case domain.AccessModeAny:
		decision.Allowed = svc.matrix.HasAny(role, check.Permissions...)
	default:
		return domain.AccessDecision{}, errs.NewHTTPStatusError(http.StatusBadRequest, "invalid mode", fmt.Errorf("unknown access mode %q", mode))
	}
	decision.Missing = svc.matrix.Missing(role, check.Permissions...)

	svc.metrics.observeDecision(role, "access_check", decision.Allowed)
	if !decision.Allowed || svc.authCfg.AuditAllowed {
		svc.recordDecision(ctx, operator, meta, decision)
	}
	return decision, nil
}

func (svc *Service) QueryAuditLogs(ctx context.Context, opt *domain.QueryAuditLogOptions) error {
	return svc.Repo.QueryAuditLogs(ctx, opt)
}

// recordDecision appends decision to the audit log. Failures are logged and
// never change the decision.
func (svc *Service) recordDecision(ctx context.Context, claims *domain.Claims, meta domain.RequestMeta, decision domain.AccessDecision) {
	entry := &domain.AuditLog{
		Role:        decision.Role,
		Action:      meta.Action,
		Permissions: domain.NewPermissionSet(decision.Permissions...).Strings(),
		Mode:        decision.Mode,
		Allowed:     decision.Allowed,
		RequestID:   meta.RequestID,
		Timestamp:   svc.now().UnixMilli(),
		IP:          meta.IP,
	}
	if claims != nil {
		if uid, err := claims.GetBsonObjectUID(); err == nil {
			entry.UserID = uid
		}
	}

	log := logger.Logger(ctx).Info()
	if !decision.Allowed {
		log = logger.Logger(ctx).Warn()
	}
	log.Str("role", decision.Role.String()).Str("action", meta.Action).Strs("permissions", entry.Permissions).
		Bool("allowed", decision.Allowed).Str("req_id", meta.RequestID).Msg("authorization decision")

	if err := svc.Repo.CreateAuditLog(ctx, entry); err != nil {
		logger.Logger(ctx).Error().Err(err).Str("req_id", meta.RequestID).Msg("write audit log")
	}
}
