package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/julianstephens/tintrack/internal/constants"
	"github.com/julianstephens/tintrack/internal/models"
	"github.com/julianstephens/tintrack/internal/validation"
)

func (s *Server) handleListTasks(c *gin.Context) {
	tasks, err := s.store.GetTasksForUser(userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

func (s *Server) handleCreateTask(c *gin.Context) {
	task, ok := s.bindTask(c)
	if !ok {
		return
	}
	task.UserID = userID(c)

	if err := s.store.CreateTask(&task); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"task": task})
}

func (s *Server) handleGetTask(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	task, err := s.store.GetTask(id, userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"task": task})
}

func (s *Server) handleUpdateTask(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	task, ok := s.bindTask(c)
	if !ok {
		return
	}
	task.ID = id
	task.UserID = userID(c)

	if err := s.store.UpdateTask(&task); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"task": task})
}

func (s *Server) handleDeleteTask(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := s.store.DeleteTask(id, userID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (s *Server) handleTaskKpis(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	task, err := s.store.GetTask(id, userID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := s.kpis.TaskKpis(task, s.now().UTC())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"kpis": result})
}

// bindTask parses and validates the request body into a task stamped
// with a fresh signature.
func (s *Server) bindTask(c *gin.Context) (models.Task, bool) {
	var payload validation.TaskPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondInvalid(c, err)
		return models.Task{}, false
	}

	schedules, err := validation.CheckTask(payload)
	if err != nil {
		respondInvalid(c, err)
		return models.Task{}, false
	}

	icon := payload.IconName
	if icon == "" {
		icon = constants.DefaultIconName
	}

	task := models.Task{
		Activity: models.Activity{
			Name:            payload.Name,
			PersonalMessage: payload.PersonalMessage,
			IsActive:        true,
		},
		DurationEstimate: payload.DurationEstimate,
		IconName:         icon,
		WeekSchedules:    schedules,
	}
	task.Touch(s.now())

	return task, true
}

type plannedTaskPatch struct {
	Status             *string `json:"status"`
	RegisteredDuration *int    `json:"registered_duration"`
	PreviousActivity   *string `json:"previous_activity"`
	AsFeltBefore       *string `json:"as_felt_before"`
	NextActivity       *string `json:"next_activity"`
	AsFeltAfterwards   *string `json:"as_felt_afterwards"`
}

func (s *Server) handleUpdatePlannedTask(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var patch plannedTaskPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondInvalid(c, err)
		return
	}

	row, err := s.store.GetPlannedTask(id, userID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	if patch.Status != nil {
		status := models.PlannedTaskStatus(*patch.Status)
		if status != models.PlannedTaskPending && status != models.PlannedTaskDone {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
			return
		}
		row.Status = status
		if status == models.PlannedTaskDone {
			doneAt := s.now().UTC()
			row.MarkedDoneAt = &doneAt
		} else {
			row.MarkedDoneAt = nil
		}
	}
	if patch.RegisteredDuration != nil {
		row.RegisteredDuration = *patch.RegisteredDuration
	}
	if patch.PreviousActivity != nil {
		row.PreviousActivity = *patch.PreviousActivity
	}
	if patch.AsFeltBefore != nil {
		row.AsFeltBefore = *patch.AsFeltBefore
	}
	if patch.NextActivity != nil {
		row.NextActivity = *patch.NextActivity
	}
	if patch.AsFeltAfterwards != nil {
		row.AsFeltAfterwards = *patch.AsFeltAfterwards
	}

	if err := s.store.UpdatePlannedTask(&row); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"planned_task": row})
}
