package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sangkips/counterpos/internal/domain/entity"
	"github.com/sangkips/counterpos/internal/domain/repository"
	"github.com/sangkips/counterpos/internal/logger"
	"github.com/sangkips/counterpos/internal/presentation/http/dto/response"
	"github.com/sangkips/counterpos/pkg/apperror"
)

const (
	// IdempotencyKeyHeader is the HTTP header for idempotency keys
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyKeyTTL is how long keys are valid
	IdempotencyKeyTTL = 24 * time.Hour
)

// IdempotencyConfig holds configuration for the idempotency middleware
type IdempotencyConfig struct {
	Repo   repository.IdempotencyRepository
	Logger *logger.Logger
}

// responseWriter wraps gin.ResponseWriter to capture the response body
type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// ErrIdempotencyKeyReused is returned when a key is retried with a
// different request body.
var ErrIdempotencyKeyReused = &apperror.AppError{
	Code:      http.StatusUnprocessableEntity,
	ErrorCode: "IDEMPOTENCY_KEY_REUSED",
	Message:   "Idempotency-Key was already used for a different request",
}

// Idempotency replays the stored response when a staff member repeats a
// write to the same endpoint with the same Idempotency-Key. Only 2xx
// responses are stored, so a rejected order can be fixed and resubmitted
// under the same key.
func Idempotency(config IdempotencyConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != "POST" && c.Request.Method != "PUT" && c.Request.Method != "PATCH" {
			c.Next()
			return
		}

		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			c.Next()
			return
		}

		value, exists := c.Get(StaffIDKey)
		if !exists {
			c.Next()
			return
		}
		staffID, ok := value.(uuid.UUID)
		if !ok {
			c.Next()
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			response.BadRequest(c, "Unable to read request body")
			c.Abort()
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))
		sum := sha256.Sum256(body)
		requestHash := hex.EncodeToString(sum[:])

		scope := entity.IdempotencyScope{
			StaffID:  staffID,
			Endpoint: c.Request.Method + " " + c.FullPath(),
			Key:      key,
		}

		existing, err := config.Repo.Find(c.Request.Context(), scope)
		if err != nil {
			if config.Logger != nil {
				config.Logger.Warnw("idempotency lookup failed", "key", key, "endpoint", scope.Endpoint, "error", err)
			}
			c.Next()
			return
		}

		if existing != nil && !existing.IsExpired() {
			if !existing.Matches(requestHash) {
				response.Error(c, ErrIdempotencyKeyReused)
				c.Abort()
				return
			}
			c.Header("X-Idempotency-Replayed", "true")
			c.Data(existing.ResponseCode, "application/json", []byte(existing.ResponseBody))
			c.Abort()
			return
		}

		blw := &responseWriter{body: bytes.NewBufferString(""), ResponseWriter: c.Writer}
		c.Writer = blw

		c.Next()

		status := c.Writer.Status()
		if status < 200 || status >= 300 {
			return
		}

		ikey := &entity.IdempotencyKey{
			StaffID:      scope.StaffID,
			Endpoint:     scope.Endpoint,
			Key:          scope.Key,
			RequestHash:  requestHash,
			ResponseCode: status,
			ResponseBody: blw.body.String(),
			ExpiresAt:    time.Now().Add(IdempotencyKeyTTL),
		}
		if err := config.Repo.Save(c.Request.Context(), ikey); err != nil && config.Logger != nil {
			config.Logger.Warnw("idempotency store failed", "key", key, "endpoint", scope.Endpoint, "error", err)
		}
	}
}
