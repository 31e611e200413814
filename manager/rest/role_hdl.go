package rest

import (
	"net/http"

	"github.com/Gthulhu/erp/manager/domain"
)

type CategoryPermissions struct {
	Category    domain.Category     `json:"category"`
	Permissions []domain.Permission `json:"permissions"`
}

type RoleSummaryResponse struct {
	Role        domain.Role           `json:"role"`
	DisplayName string                `json:"displayName"`
	Description string                `json:"description"`
	Rank        int                   `json:"rank"`
	Permissions []domain.Permission   `json:"permissions"`
	Categories  []CategoryPermissions `json:"categories"`
}

func newRoleSummaryResponse(summary domain.RoleSummary) RoleSummaryResponse {
	resp := RoleSummaryResponse{
		Role:        summary.Role,
		DisplayName: summary.DisplayName,
		Description: summary.Description,
		Rank:        summary.Rank,
		Permissions: summary.Grants.Slice(),
		Categories:  make([]CategoryPermissions, 0, len(summary.Categories)),
	}
	for _, c := range summary.Categories {
		resp.Categories = append(resp.Categories, CategoryPermissions{
			Category:    c.Category,
			Permissions: c.Permissions,
		})
	}
	return resp
}

type ListRolesResponse struct {
	Roles []RoleSummaryResponse `json:"roles"`
}

// ListRoles godoc
// @Summary List roles
// @Description Every role with its grants, most senior first.
// @Tags Roles
// @Produce json
// @Security BearerAuth
// @Success 200 {object} SuccessResponse[ListRolesResponse]
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /api/v1/roles [get]
func (h *Handler) ListRoles(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	summaries := h.Svc.RoleSummaries(ctx)
	respData := ListRolesResponse{Roles: make([]RoleSummaryResponse, 0, len(summaries))}
	for _, s := range summaries {
		respData.Roles = append(respData.Roles, newRoleSummaryResponse(s))
	}
	response := NewSuccessResponse(&respData)
	h.JSONResponse(ctx, w, http.StatusOK, response)
}

// GetRole godoc
// @Summary Get role
// @Tags Roles
// @Produce json
// @Security BearerAuth
// @Param role path string true "Role key"
// @Success 200 {object} SuccessResponse[RoleSummaryResponse]
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/roles/{role} [get]
func (h *Handler) GetRole(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	role, err := domain.ParseRole(h.GetPathParam(r, "role"))
	if err != nil {
		h.ErrorResponse(ctx, w, http.StatusNotFound, "Role not found", err)
		return
	}
	respData := newRoleSummaryResponse(h.Svc.RoleSummary(ctx, role))
	response := NewSuccessResponse(&respData)
	h.JSONResponse(ctx, w, http.StatusOK, response)
}

type CompareRolesResponse struct {
	A       domain.Role `json:"a"`
	B       domain.Role `json:"b"`
	ASenior bool        `json:"aSenior"`
	BSenior bool        `json:"bSenior"`
}

// CompareRoles godoc
// @Summary Compare role seniority
// @Description Seniority only orders roles; it never implies grants.
// @Tags Roles
// @Produce json
// @Security BearerAuth
// @Param a query string true "Role key"
// @Param b query string true "Role key"
// @Success 200 {object} SuccessResponse[CompareRolesResponse]
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /api/v1/roles/compare [get]
func (h *Handler) CompareRoles(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()
	a, err := domain.ParseRole(query.Get("a"))
	if err != nil {
		h.ErrorResponse(ctx, w, http.StatusBadRequest, "Invalid role a", err)
		return
	}
	b, err := domain.ParseRole(query.Get("b"))
	if err != nil {
		h.ErrorResponse(ctx, w, http.StatusBadRequest, "Invalid role b", err)
		return
	}
	aSenior, bSenior := h.Svc.CompareRoles(ctx, a, b)
	respData := CompareRolesResponse{A: a, B: b, ASenior: aSenior, BSenior: bSenior}
	response := NewSuccessResponse(&respData)
	h.JSONResponse(ctx, w, http.StatusOK, response)
}

type ListPermissionsResponse struct {
	Categories []CategoryPermissions `json:"categories"`
}

// ListPermissions godoc
// @Summary Permission catalog
// @Description Every permission grouped by category.
// @Tags Roles
// @Produce json
// @Security BearerAuth
// @Success 200 {object} SuccessResponse[ListPermissionsResponse]
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /api/v1/permissions [get]
func (h *Handler) ListPermissions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	categories := domain.Categories()
	respData := ListPermissionsResponse{Categories: make([]CategoryPermissions, 0, len(categories))}
	for _, c := range categories {
		respData.Categories = append(respData.Categories, CategoryPermissions{
			Category:    c,
			Permissions: c.Permissions(),
		})
	}
	response := NewSuccessResponse(&respData)
	h.JSONResponse(ctx, w, http.StatusOK, response)
}
