package handler

import (
	"log/slog"
	"net/http"

	"tgdrive/internal/domain/services"
	"tgdrive/internal/httputil"
)

// TreeHandler serves folder tree snapshots to operators
type TreeHandler struct {
	treeService services.TreeService
	logger      *slog.Logger
}

// NewTreeHandler creates a new tree handler
func NewTreeHandler(treeService services.TreeService, logger *slog.Logger) *TreeHandler {
	return &TreeHandler{
		treeService: treeService,
		logger:      logger,
	}
}

// GetTree returns the nested folder/file tree of a chat user
func (h *TreeHandler) GetTree(w http.ResponseWriter, r *http.Request) {
	userID, err := httputil.PathInt64(r, "id")
	if err != nil {
		handleError(w, err)
		return
	}

	tree, err := h.treeService.GetUserTree(r.Context(), userID)
	if err != nil {
		h.logger.Warn("tree lookup failed",
			"operator_id", httputil.GetOperatorID(r),
			"user_id", userID,
			"error", err,
		)
		handleError(w, err)
		return
	}

	h.logger.Info("tree served",
		"operator_id", httputil.GetOperatorID(r),
		"user_id", userID,
		"folders", len(tree.Folders),
	)
	httputil.RespondJSON(w, http.StatusOK, tree)
}
