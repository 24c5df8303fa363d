package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/orgchart-service/internal/api/dto"
	"github.com/spec-kit/orgchart-service/internal/hierarchy"
	apperrors "github.com/spec-kit/orgchart-service/pkg/util/errorutil"
)

func bindAndValidate(c *fiber.Ctx, req any) error {
	if err := c.BodyParser(req); err != nil {
		return apperrors.NewValidationError("invalid payload", map[string]any{"body": err.Error()})
	}
	return dto.Validate(req)
}

func parseBoolQuery(c *fiber.Ctx, key string, defaultVal bool) bool {
	if val := c.Query(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}

func parseIntQuery(c *fiber.Ctx, key string, defaultVal int) int {
	if val := c.Query(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultVal
}

func optionalQuery(c *fiber.Ctx, key string) *string {
	if val := strings.TrimSpace(c.Query(key)); val != "" {
		return &val
	}
	return nil
}

// parseExpansion reads ?expanded=k1,k2 or ?expanded=*; normalize maps keys to
// the forest's matching rules.
func parseExpansion(c *fiber.Ctx, normalize func(string) string) *hierarchy.Expansion {
	e := hierarchy.NewExpansion()
	raw := strings.TrimSpace(c.Query("expanded"))
	if raw == "*" {
		e.ExpandAll()
		return e
	}
	for _, key := range strings.Split(raw, ",") {
		if key = strings.TrimSpace(key); key != "" {
			e.Expand(normalize(key))
		}
	}
	return e
}
