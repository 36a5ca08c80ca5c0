package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"telecare/utils"
)

// IssueAdminToken exchanges the shared admin secret for a signed JWT. Real
// identity management lives outside this service.
func (hb *HandlerBundle) IssueAdminToken(c *gin.Context) {
	var req struct {
		Subject string `json:"subject" binding:"required"`
		Secret  string `json:"secret" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	token, err := utils.AdminTokenForSecret(req.Subject, req.Secret, 12*time.Hour)
	if err != nil {
		utils.JSONError(c, http.StatusUnauthorized, "invalid admin credentials", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// ListReconciliationConflicts returns the operator queue of payments that
// completed against exhausted slots. ?all=true includes resolved entries.
func (hb *HandlerBundle) ListReconciliationConflicts(c *gin.Context) {
	unresolvedOnly := c.Query("all") != "true"
	conflicts, err := hb.Records.ListReconciliationConflicts(c.Request.Context(), unresolvedOnly)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, conflicts)
}

// ConnectProviderSession registers a provider's live notification session.
func (hb *HandlerBundle) ConnectProviderSession(c *gin.Context) {
	var req struct {
		SessionID string `json:"sessionId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	if err := hb.Sessions.Connect(c.Request.Context(), c.Param("id"), req.SessionID); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to register session", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"connected": true})
}

// DisconnectProviderSession drops a provider's live notification session.
func (hb *HandlerBundle) DisconnectProviderSession(c *gin.Context) {
	var req struct {
		SessionID string `json:"sessionId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	if err := hb.Sessions.Disconnect(c.Request.Context(), c.Param("id"), req.SessionID); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to drop session", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"disconnected": true})
}
