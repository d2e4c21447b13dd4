package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/moodwatch/moodwatch-backend/internal/http/response"
	errs "github.com/moodwatch/moodwatch-backend/internal/pkg/errors"
	"github.com/moodwatch/moodwatch-backend/internal/platform/ctxutil"
	"github.com/moodwatch/moodwatch-backend/internal/services"
)

// userResolver turns a UUID or health ID into the user's UUID. Requests that
// carry no identifier fall back to the bearer token's subject.
type userResolver struct {
	users services.UserService
}

func (r userResolver) resolve(c *gin.Context, identifier string) (uuid.UUID, bool) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		if rd := ctxutil.GetRequestData(c.Request.Context()); rd != nil && rd.UserID != uuid.Nil {
			identifier = rd.UserID.String()
		}
	}
	if identifier == "" {
		response.RespondAPIError(c, errs.Newf(errs.ErrInvalidArgument, "userId is required"))
		return uuid.Nil, false
	}
	u, err := r.users.Resolve(c.Request.Context(), identifier)
	if err != nil {
		response.RespondAPIError(c, err)
		return uuid.Nil, false
	}
	return u.ID, true
}

func (r userResolver) fromParam(c *gin.Context) (uuid.UUID, bool) {
	return r.resolve(c, c.Param("userId"))
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return false
	}
	return true
}

// parseDate accepts RFC 3339 timestamps or bare YYYY-MM-DD dates.
func parseDate(field, raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, errs.Newf(errs.ErrInvalidArgument, "%s must be an ISO date", field)
}

func queryInt(c *gin.Context, key string) (int, bool) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		response.RespondAPIError(c, errs.Newf(errs.ErrInvalidArgument, "%s must be an integer", key))
		return 0, false
	}
	return n, true
}
