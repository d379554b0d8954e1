package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/julianstephens/tintrack/internal/constants"
	"github.com/julianstephens/tintrack/internal/models"
	"github.com/julianstephens/tintrack/internal/validation"
)

func (s *Server) handleListHabits(c *gin.Context) {
	habits, err := s.store.GetHabitsForUser(userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"habits": habits})
}

func (s *Server) handleCreateHabit(c *gin.Context) {
	habit, ok := s.bindHabit(c)
	if !ok {
		return
	}
	habit.UserID = userID(c)

	if err := s.store.CreateHabit(&habit); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"habit": habit})
}

func (s *Server) handleGetHabit(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	habit, err := s.store.GetHabit(id, userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"habit": habit})
}

func (s *Server) handleUpdateHabit(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	habit, ok := s.bindHabit(c)
	if !ok {
		return
	}
	habit.ID = id
	habit.UserID = userID(c)

	if err := s.store.UpdateHabit(&habit); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"habit": habit})
}

func (s *Server) handleDeleteHabit(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := s.store.DeleteHabit(id, userID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (s *Server) bindHabit(c *gin.Context) (models.Habit, bool) {
	var payload validation.HabitPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondInvalid(c, err)
		return models.Habit{}, false
	}
	if err := validation.CheckHabit(payload); err != nil {
		respondInvalid(c, err)
		return models.Habit{}, false
	}

	icon := payload.IconName
	if icon == "" {
		icon = constants.DefaultIconName
	}

	habit := models.Habit{
		Activity: models.Activity{
			Name:            payload.Name,
			PersonalMessage: payload.PersonalMessage,
			IsActive:        true,
		},
		IconName:     icon,
		ToBeEnforced: payload.ToBeEnforced,
		TargetPeriod: models.TargetPeriod(payload.TargetPeriod),
		TargetValue:  payload.TargetValue,
	}
	habit.Touch(s.now())

	return habit, true
}

func (s *Server) handleRecordOccurrence(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var intro models.Introspective
	if err := c.ShouldBindJSON(&intro); err != nil {
		respondInvalid(c, err)
		return
	}

	// ownership check before the blind increment
	if _, err := s.store.GetHabitCounterByID(id, userID(c)); err != nil {
		respondError(c, err)
		return
	}

	if err := s.planner.RecordOccurrence(id, intro); err != nil {
		respondError(c, err)
		return
	}

	counter, err := s.store.GetHabitCounterByID(id, userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"counter": counter})
}
