package rest

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Gthulhu/erp/manager/domain"
	"github.com/Gthulhu/erp/pkg/util"
	"go.mongodb.org/mongo-driver/v2/bson"
)

const (
	defaultAuditLimit = 100
	maxAuditLimit     = 1000
)

type CheckAccessRequest struct {
	// Role defaults to the caller's current role.
	Role        string   `json:"role,omitempty"`
	Permissions []string `json:"permissions"`
	Mode        string   `json:"mode,omitempty"`
}

type CheckAccessResponse struct {
	Role        domain.Role         `json:"role"`
	Mode        domain.AccessMode   `json:"mode"`
	Permissions []domain.Permission `json:"permissions"`
	Allowed     bool                `json:"allowed"`
	Missing     []domain.Permission `json:"missing"`
}

// CheckAccess godoc
// @Summary Evaluate permissions
// @Description Check whether a role holds all (or any) of the given permissions. Checking a role other than your own requires users.view.
// @Tags Access
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CheckAccessRequest true "Access query"
// @Success 200 {object} SuccessResponse[CheckAccessResponse]
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /api/v1/access/check [post]
func (h *Handler) CheckAccess(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req CheckAccessRequest
	err := h.JSONBind(r, &req)
	if err != nil {
		h.ErrorResponse(ctx, w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	check := domain.AccessCheck{Mode: domain.AccessMode(req.Mode)}
	if req.Role != "" {
		check.Role, err = domain.ParseRole(req.Role)
		if err != nil {
			h.ErrorResponse(ctx, w, http.StatusBadRequest, "Invalid role", err)
			return
		}
	}
	check.Permissions, err = domain.ParsePermissions(req.Permissions)
	if err != nil {
		h.ErrorResponse(ctx, w, http.StatusBadRequest, err.Error(), err)
		return
	}

	claims, ok := h.GetClaimsFromContext(ctx)
	if !ok {
		h.ErrorResponse(ctx, w, http.StatusUnauthorized, "Unauthorized", errors.New("claims not found"))
		return
	}
	decision, err := h.Svc.CheckAccess(ctx, &claims, h.requestMeta(r), check)
	if err != nil {
		h.HandleError(ctx, w, err)
		return
	}

	respData := CheckAccessResponse{
		Role:        decision.Role,
		Mode:        decision.Mode,
		Permissions: decision.Permissions,
		Allowed:     decision.Allowed,
		Missing:     decision.Missing,
	}
	if respData.Permissions == nil {
		respData.Permissions = []domain.Permission{}
	}
	if respData.Missing == nil {
		respData.Missing = []domain.Permission{}
	}
	response := NewSuccessResponse(&respData)
	h.JSONResponse(ctx, w, http.StatusOK, response)
}

type AuditLogResponse struct {
	ID          string            `json:"id"`
	UserID      string            `json:"userID,omitempty"`
	Role        domain.Role       `json:"role"`
	Action      string            `json:"action"`
	Permissions []string          `json:"permissions"`
	Mode        domain.AccessMode `json:"mode"`
	Allowed     bool              `json:"allowed"`
	RequestID   string            `json:"requestID,omitempty"`
	IP          string            `json:"ip,omitempty"`
	Timestamp   int64             `json:"timestamp"`
}

type ListAuditLogsResponse struct {
	Logs []AuditLogResponse `json:"logs"`
}

// ListAuditLogs godoc
// @Summary Authorization audit log
// @Description Recorded authorization decisions, newest first.
// @Tags Access
// @Produce json
// @Security BearerAuth
// @Param from query int false "Earliest timestamp (unix ms)"
// @Param to query int false "Latest timestamp (unix ms)"
// @Param userID query string false "Only decisions for this user"
// @Param allowed query bool false "Only granted (true) or denied (false) decisions"
// @Param limit query int false "Maximum entries, default 100"
// @Success 200 {object} SuccessResponse[ListAuditLogsResponse]
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /api/v1/audit [get]
func (h *Handler) ListAuditLogs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query, err := parseAuditQuery(r)
	if err != nil {
		h.ErrorResponse(ctx, w, http.StatusBadRequest, "Invalid query", err)
		return
	}
	err = h.Svc.QueryAuditLogs(ctx, query)
	if err != nil {
		h.HandleError(ctx, w, err)
		return
	}

	respData := ListAuditLogsResponse{Logs: make([]AuditLogResponse, 0, len(query.Result))}
	for _, log := range query.Result {
		entry := AuditLogResponse{
			ID:          log.ID.Hex(),
			Role:        log.Role,
			Action:      log.Action,
			Permissions: log.Permissions,
			Mode:        log.Mode,
			Allowed:     log.Allowed,
			RequestID:   log.RequestID,
			IP:          log.IP,
			Timestamp:   log.Timestamp,
		}
		if !log.UserID.IsZero() {
			entry.UserID = log.UserID.Hex()
		}
		respData.Logs = append(respData.Logs, entry)
	}
	response := NewSuccessResponse(&respData)
	h.JSONResponse(ctx, w, http.StatusOK, response)
}

func parseAuditQuery(r *http.Request) (*domain.QueryAuditLogOptions, error) {
	values := r.URL.Query()
	opt := &domain.QueryAuditLogOptions{Limit: defaultAuditLimit}
	var err error
	if v := values.Get("from"); v != "" {
		if opt.TimestampGTE, err = strconv.ParseInt(v, 10, 64); err != nil {
			return nil, err
		}
	}
	if v := values.Get("to"); v != "" {
		if opt.TimestampLTE, err = strconv.ParseInt(v, 10, 64); err != nil {
			return nil, err
		}
	}
	if v := values.Get("userID"); v != "" {
		uid, err := bson.ObjectIDFromHex(v)
		if err != nil {
			return nil, err
		}
		opt.UserIDs = []bson.ObjectID{uid}
	}
	if v := values.Get("allowed"); v != "" {
		allowed, err := strconv.ParseBool(v)
		if err != nil {
			return nil, err
		}
		opt.AllowedOnly = util.Ptr(allowed)
	}
	if v := values.Get("limit"); v != "" {
		limit, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, err
		}
		if limit > 0 {
			opt.Limit = min(limit, maxAuditLimit)
		}
	}
	return opt, nil
}
