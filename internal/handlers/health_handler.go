package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/ahmetcoskunkizilkaya/waitlist-backend/internal/cache"
	"github.com/ahmetcoskunkizilkaya/waitlist-backend/internal/dto"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db    *gorm.DB
	pages cache.PageCache
}

func NewHealthHandler(db *gorm.DB, pages cache.PageCache) *HealthHandler {
	return &HealthHandler{db: db, pages: pages}
}

// Check reports the database and cache. A disabled cache is not a failure.
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	dbStatus := "ok"
	if sqlDB, err := h.db.DB(); err != nil {
		dbStatus = "unhealthy: " + err.Error()
	} else if err := sqlDB.Ping(); err != nil {
		dbStatus = "unhealthy: " + err.Error()
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()
	cacheStatus := "ok"
	if err := h.pages.Ping(ctx); err != nil {
		if errors.Is(err, cache.ErrDisabled) {
			cacheStatus = "disabled"
		} else {
			cacheStatus = "unhealthy: " + err.Error()
		}
	}

	status := "ok"
	if dbStatus != "ok" {
		status = "degraded"
	}

	return c.JSON(dto.HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		DB:        dbStatus,
		Cache:     cacheStatus,
	})
}
