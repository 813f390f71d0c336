// Package services serves the workout routes.
package services

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"activeflow/auth"
	"activeflow/events"
	"activeflow/models"
	"activeflow/observability"
	"activeflow/store"
)

var (
	errMissingUserID = errors.New("user_id is required")
	errNotOwner      = errors.New("workout belongs to another user")
)

const publishTimeout = 5 * time.Second

type Workouts struct {
	Store    store.WorkoutStore
	Events   events.Publisher
	Tokens   *auth.Tokens
	Sessions store.SessionStore
	Log      logrus.FieldLogger
}

// RegisterRoutes mounts the workout group. Reads and creates are open;
// changing or deleting a workout requires its owner's token.
func (h *Workouts) RegisterRoutes(rg *gin.RouterGroup) {
	required := auth.AuthMiddleware(h.Tokens, h.Sessions, h.Log)

	rg.POST("", auth.OptionalAuth(h.Tokens, h.Sessions), h.Create())
	rg.GET("", h.List())
	rg.GET("/:user_id", h.ListByPath())
	rg.PUT("/:id", required, h.Update())
	rg.DELETE("/:id", required, h.Delete())
}

func (h *Workouts) Create() gin.HandlerFunc {
	return func(c *gin.Context) {
		var workout models.Workout
		if err := c.ShouldBindJSON(&workout); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if workout.UserID == "" {
			if userID, ok := auth.UserID(c); ok {
				workout.UserID = userID
			}
		}
		if workout.UserID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": errMissingUserID.Error()})
			return
		}

		id, err := h.Store.Create(c.Request.Context(), &workout)
		if err != nil {
			h.Log.WithError(err).WithField("user_id", workout.UserID).Error("create workout failed")
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		observability.RecordWorkoutCreated(workout.Type)
		h.publishCreated(c.Request.Context(), workout)

		c.JSON(http.StatusOK, gin.H{
			"message": "Workout added successfully",
			"id":      id,
			"workout": workout,
		})
	}
}

// publishCreated never fails the request; the workout is already stored.
func (h *Workouts) publishCreated(ctx context.Context, workout models.Workout) {
	if h.Events == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := h.Events.PublishWorkoutCreated(ctx, events.NewWorkoutCreated(workout, time.Now())); err != nil {
		h.Log.WithError(err).WithField("workout_id", workout.ID).Warn("publish workout event failed")
	}
}

func (h *Workouts) List() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Query("user_id")
		if userID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": errMissingUserID.Error()})
			return
		}
		h.respondList(c, userID)
	}
}

func (h *Workouts) ListByPath() gin.HandlerFunc {
	return func(c *gin.Context) {
		h.respondList(c, c.Param("user_id"))
	}
}

func (h *Workouts) respondList(c *gin.Context, userID string) {
	workouts, err := h.Store.ListByUser(c.Request.Context(), userID)
	if err != nil {
		h.Log.WithError(err).WithField("user_id", userID).Error("list workouts failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, workouts)
}

func (h *Workouts) Update() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		userID, _ := auth.UserID(c)

		var workout models.Workout
		if err := c.ShouldBindJSON(&workout); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		existing, err := h.Store.Get(c.Request.Context(), id)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if existing.UserID != userID {
			c.JSON(http.StatusBadRequest, gin.H{"error": errNotOwner.Error()})
			return
		}

		workout.UserID = existing.UserID
		if err := h.Store.Update(c.Request.Context(), id, &workout); err != nil {
			h.Log.WithError(err).WithField("workout_id", id).Error("update workout failed")
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Workout updated", "workout": workout})
	}
}

func (h *Workouts) Delete() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		userID, _ := auth.UserID(c)

		existing, err := h.Store.Get(c.Request.Context(), id)
		switch {
		case errors.Is(err, store.ErrWorkoutNotFound), errors.Is(err, store.ErrInvalidID):
			// deleting something that is not there still succeeds
		case err != nil:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		case existing.UserID != userID:
			c.JSON(http.StatusBadRequest, gin.H{"error": errNotOwner.Error()})
			return
		}

		if err := h.Store.Delete(c.Request.Context(), id); err != nil {
			h.Log.WithError(err).WithField("workout_id", id).Error("delete workout failed")
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Workout deleted"})
	}
}
