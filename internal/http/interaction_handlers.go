package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"kay-social/internal/domain"
)

// stateField names the boolean in toggle and status responses ("liked",
// "bookmarked").
func stateField(kind domain.InteractionKind) string {
	if kind == domain.KindBookmark {
		return "bookmarked"
	}
	return "liked"
}

func (h *Handler) addInteraction(kind domain.InteractionKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		postID, ok := parseID(c, "id")
		if !ok {
			return
		}
		created, err := h.interactions.Create(c.Request.Context(), kind, currentClaims(c).UserID, postID)
		if err != nil {
			h.fail(c, err)
			return
		}
		status := http.StatusOK
		if created {
			status = http.StatusCreated
		}
		c.JSON(status, gin.H{"created": created})
	}
}

func (h *Handler) removeInteraction(kind domain.InteractionKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		postID, ok := parseID(c, "id")
		if !ok {
			return
		}
		removed, err := h.interactions.Remove(c.Request.Context(), kind, currentClaims(c).UserID, postID)
		if err != nil {
			h.fail(c, err)
			return
		}
		status := http.StatusOK
		if !removed {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"removed": removed})
	}
}

func (h *Handler) toggleInteraction(kind domain.InteractionKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		postID, ok := parseID(c, "id")
		if !ok {
			return
		}
		present, err := h.interactions.Toggle(c.Request.Context(), kind, currentClaims(c).UserID, postID)
		if err != nil {
			h.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{stateField(kind): present})
	}
}

func (h *Handler) interactionStatus(kind domain.InteractionKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		postID, ok := parseID(c, "id")
		if !ok {
			return
		}
		ctx := c.Request.Context()
		count, err := h.interactions.CountForPost(ctx, kind, postID)
		if err != nil {
			h.fail(c, err)
			return
		}
		has, err := h.interactions.Exists(ctx, kind, currentClaims(c).UserID, postID)
		if err != nil {
			h.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"count": count, stateField(kind): has})
	}
}

func (h *Handler) listMine(kind domain.InteractionKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		recs, err := h.interactions.ListForUser(c.Request.Context(), kind, currentClaims(c).UserID)
		if err != nil {
			h.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, interactionsToResponse(recs))
	}
}

func (h *Handler) listForPost(kind domain.InteractionKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		postID, ok := parseID(c, "id")
		if !ok {
			return
		}
		recs, err := h.interactions.ListForPost(c.Request.Context(), kind, postID)
		if err != nil {
			h.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, interactionsToResponse(recs))
	}
}
