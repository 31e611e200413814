package rest

import (
	"errors"
	"net/http"

	"github.com/Gthulhu/erp/manager/domain"
)

type UserResponse struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	Avatar      string      `json:"avatar,omitempty"`
	Role        domain.Role `json:"role"`
	Status      string      `json:"status"`
	CreatedTime int64       `json:"createdTime"`
}

func newUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:          user.ID.Hex(),
		Name:        user.Name,
		Email:       user.Email,
		Avatar:      user.Avatar,
		Role:        user.Role,
		Status:      user.Status.String(),
		CreatedTime: user.CreatedTime,
	}
}

type GetSelfUserResponse struct {
	User UserResponse `json:"user"`
	// Access is the caller's current role and everything it grants.
	Access RoleSummaryResponse `json:"access"`
}

// GetSelfUser godoc
// @Summary Current user
// @Description The caller's profile with the permissions of their current role.
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} SuccessResponse[GetSelfUserResponse]
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/users/self [get]
func (h *Handler) GetSelfUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims, ok := h.GetClaimsFromContext(ctx)
	if !ok {
		h.ErrorResponse(ctx, w, http.StatusUnauthorized, "Unauthorized", errors.New("claims not found"))
		return
	}
	user, err := h.Svc.GetSelf(ctx, &claims)
	if err != nil {
		h.HandleError(ctx, w, err)
		return
	}
	respData := GetSelfUserResponse{
		User:   newUserResponse(user),
		Access: newRoleSummaryResponse(h.Svc.RoleSummary(ctx, claims.Role)),
	}
	response := NewSuccessResponse(&respData)
	h.JSONResponse(ctx, w, http.StatusOK, response)
}

type ListUsersResponse struct {
	Users []UserResponse `json:"users"`
}

// ListUsers godoc
// @Summary List users
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param role query string false "Only users holding this role"
// @Success 200 {object} SuccessResponse[ListUsersResponse]
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /api/v1/users [get]
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := domain.QueryUserOptions{}
	if roleKey := r.URL.Query().Get("role"); roleKey != "" {
		role, err := domain.ParseRole(roleKey)
		if err != nil {
			h.ErrorResponse(ctx, w, http.StatusBadRequest, "Invalid role", err)
			return
		}
		query.Roles = []domain.Role{role}
	}
	err := h.Svc.QueryUsers(ctx, &query)
	if err != nil {
		h.HandleError(ctx, w, err)
		return
	}
	respData := ListUsersResponse{Users: make([]UserResponse, 0, len(query.Result))}
	for _, user := range query.Result {
		respData.Users = append(respData.Users, newUserResponse(user))
	}
	response := NewSuccessResponse(&respData)
	h.JSONResponse(ctx, w, http.StatusOK, response)
}

type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Avatar   string `json:"avatar,omitempty"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// CreateUser godoc
// @Summary Create user
// @Description Create an account. The role may not be senior to the caller's.
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateUserRequest true "New account"
// @Success 200 {object} SuccessResponse[UserResponse]
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/users [post]
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req CreateUserRequest
	err := h.JSONBind(r, &req)
	if err != nil {
		h.ErrorResponse(ctx, w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	role, err := domain.ParseRole(req.Role)
	if err != nil {
		h.ErrorResponse(ctx, w, http.StatusBadRequest, "Invalid role", err)
		return
	}

	claims, ok := h.GetClaimsFromContext(ctx)
	if !ok {
		h.ErrorResponse(ctx, w, http.StatusUnauthorized, "Unauthorized", errors.New("claims not found"))
		return
	}

	user, err := h.Svc.CreateNewUser(ctx, &claims, domain.CreateUserOptions{
		Name:     req.Name,
		Email:    req.Email,
		Avatar:   req.Avatar,
		Password: req.Password,
		Role:     role,
	})
	if err != nil {
		h.HandleError(ctx, w, err)
		return
	}

	respData := newUserResponse(user)
	response := NewSuccessResponse(&respData)
	h.JSONResponse(ctx, w, http.StatusOK, response)
}

type UpdateUserRoleRequest struct {
	UserID string `json:"userID"`
	Role   string `json:"role"`
}

// UpdateUserRole godoc
// @Summary Change a user's role
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateUserRoleRequest true "Target user and role"
// @Success 200 {object} SuccessResponse[EmptyResponse]
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /api/v1/users/role [put]
func (h *Handler) UpdateUserRole(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req UpdateUserRoleRequest
	err := h.JSONBind(r, &req)
	if err != nil {
		h.ErrorResponse(ctx, w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	role, err := domain.ParseRole(req.Role)
	if err != nil {
		h.ErrorResponse(ctx, w, http.StatusBadRequest, "Invalid role", err)
		return
	}
	claims, ok := h.GetClaimsFromContext(ctx)
	if !ok {
		h.ErrorResponse(ctx, w, http.StatusUnauthorized, "Unauthorized", errors.New("claims not found"))
		return
	}

	err = h.Svc.UpdateUserRole(ctx, &claims, req.UserID, role)
	if err != nil {
		h.HandleError(ctx, w, err)
		return
	}
	response := NewSuccessResponse(&EmptyResponse{})
	h.JSONResponse(ctx, w, http.StatusOK, response)
}

type DeleteUserRequest struct {
	UserID string `json:"userID"`
}

// DeleteUser godoc
// @Summary Deactivate a user
// @Description Mark the account inactive. Its sessions stop verifying.
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body DeleteUserRequest true "Target user"
// @Success 200 {object} SuccessResponse[EmptyResponse]
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/users [delete]
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req DeleteUserRequest
	err := h.JSONBind(r, &req)
	if err != nil {
		h.ErrorResponse(ctx, w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	claims, ok := h.GetClaimsFromContext(ctx)
	if !ok {
		h.ErrorResponse(ctx, w, http.StatusUnauthorized, "Unauthorized", errors.New("claims not found"))
		return
	}

	err = h.Svc.DeactivateUser(ctx, &claims, req.UserID)
	if err != nil {
		h.HandleError(ctx, w, err)
		return
	}
	response := NewSuccessResponse(&EmptyResponse{})
	h.JSONResponse(ctx, w, http.StatusOK, response)
}
