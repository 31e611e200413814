package service

import (
	"context"

	"github.com/Gthulhu/erp/manager/domain"
)

// RoleSummaries describes every role, most senior first.
func (svc *Service) RoleSummaries(ctx context.Context) []domain.RoleSummary {
	roles := svc.matrix.Roles()
	summaries := make([]domain.RoleSummary, 0, len(roles))
	for _, role := range roles {
		summaries = append(summaries, svc.matrix.Summary(role))
	}
	return summaries
}

func (svc *Service) RoleSummary(ctx context.Context, role domain.Role) domain.RoleSummary {
	return svc.matrix.Summary(role)
}

func (svc *Service) CompareRoles(ctx context.Context, a, b domain.Role) (bool, bool) {
	return svc.matrix.IsSenior(a, b), svc.matrix.IsSenior(b, a)
}
