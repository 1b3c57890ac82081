package utils

import (
	"github.com/gin-gonic/gin"

	"github.com/taskboard-dev/taskboard/internal/models"
)

// ContextUserIDKey is where the auth middleware stores the resolved user id.
const ContextUserIDKey = "user_id"

// ResolveUserID picks the effective user id for a request: token first,
// then an explicit query or body value, then the default sentinel. An
// unknown id is not an error; it just scopes the query.
func ResolveUserID(ctx *gin.Context, bodyUserID string) string {
	if v, exists := ctx.Get(ContextUserIDKey); exists {
		if id, ok := v.(string); ok && id != "" {
			return id
		}
	}

	if id := ctx.Query("userId"); id != "" {
		return id
	}

	if bodyUserID != "" {
		return bodyUserID
	}

	return models.DefaultUserID
}
