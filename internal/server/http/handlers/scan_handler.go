package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/safepick/internal/server/http/dto"
)

// ScanHandler serves the security desk.
type ScanHandler struct {
	facade ScanFacade
}

// NewScanHandler constructs ScanHandler.
func NewScanHandler(facade ScanFacade) *ScanHandler {
	return &ScanHandler{facade: facade}
}

// Verify handles POST /api/scan/verify.
func (h *ScanHandler) Verify(c *gin.Context) {
	token, ok := scannedToken(c)
	if !ok {
		return
	}

	snapshot, err := h.facade.VerifyScanToken(c.Request.Context(), token)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderDetail(snapshot))
}

// Complete handles POST /api/scan/complete.
func (h *ScanHandler) Complete(c *gin.Context) {
	token, ok := scannedToken(c)
	if !ok {
		return
	}

	result, err := h.facade.CompleteByScan(c.Request.Context(), token, CurrentUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCompletion(result))
}

func scannedToken(c *gin.Context) (string, bool) {
	var req dto.ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return "", false
	}
	token := strings.TrimSpace(req.Token)
	if token == "" {
		badRequest(c)
		return "", false
	}
	return token, true
}
