package handler

import (
	accountingapp "github.com/flockbooks/backend/internal/application/accounting"
	"github.com/gin-gonic/gin"
)

// GroupHandler serves the chart of accounts.
type GroupHandler struct {
	BaseHandler
	groups  groupService
	reports reportService
}

// NewGroupHandler creates a GroupHandler
func NewGroupHandler(groups groupService, reports reportService) *GroupHandler {
	return &GroupHandler{groups: groups, reports: reports}
}

// Tree handles GET /groups
func (h *GroupHandler) Tree(c *gin.Context) {
	nodes, err := h.groups.Tree(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, nodes)
}

// Create handles POST /groups
func (h *GroupHandler) Create(c *gin.Context) {
	var req accountingapp.CreateGroupRequest
	if !h.bindJSON(c, &req) {
		return
	}
	group, err := h.groups.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, group)
}

// Update handles PUT /groups/:id
func (h *GroupHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req accountingapp.UpdateGroupRequest
	if !h.bindJSON(c, &req) {
		return
	}
	group, err := h.groups.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, group)
}

// Delete handles DELETE /groups/:id
func (h *GroupHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.groups.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Summary handles GET /groups/:id/summary?from=&to=
func (h *GroupHandler) Summary(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	w, err := accountingapp.ParseWindow(c.Query("from"), c.Query("to"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	summary, err := h.reports.GroupSummary(c.Request.Context(), id, w)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}
