// Package server exposes the HTTP API over gin.
package server

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/julianstephens/tintrack/internal/auth"
	"github.com/julianstephens/tintrack/internal/dashboard"
	"github.com/julianstephens/tintrack/internal/kpi"
	"github.com/julianstephens/tintrack/internal/planner"
	"github.com/julianstephens/tintrack/internal/storage"
)

type Server struct {
	store   storage.Provider
	tokens  *auth.TokenManager
	planner *planner.Planner
	kpis    *kpi.Engine
	boards  *dashboard.Assembler

	now func() time.Time
}

func New(store storage.Provider, tokens *auth.TokenManager) *Server {
	p := planner.New(store)
	e := kpi.NewEngine(store)

	return &Server{
		store:   store,
		tokens:  tokens,
		planner: p,
		kpis:    e,
		boards:  dashboard.NewAssembler(store, p, e),
		now:     time.Now,
	}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.POST("/auth/register", s.handleRegister)
	r.POST("/auth/login", s.handleLogin)

	me := r.Group("/me", s.requireAuth)
	me.POST("/logout", s.handleLogout)

	me.GET("/tasks", s.handleListTasks)
	me.POST("/tasks", s.handleCreateTask)
	me.GET("/tasks/:id", s.handleGetTask)
	me.PUT("/tasks/:id", s.handleUpdateTask)
	me.DELETE("/tasks/:id", s.handleDeleteTask)
	me.GET("/tasks/:id/kpis", s.handleTaskKpis)

	me.GET("/habits", s.handleListHabits)
	me.POST("/habits", s.handleCreateHabit)
	me.GET("/habits/:id", s.handleGetHabit)
	me.PUT("/habits/:id", s.handleUpdateHabit)
	me.DELETE("/habits/:id", s.handleDeleteHabit)

	me.GET("/dashboard", s.handleDashboard)
	me.PATCH("/planned-tasks/:id", s.handleUpdatePlannedTask)
	me.POST("/habit-counters/:id/occurrences", s.handleRecordOccurrence)

	return r
}
