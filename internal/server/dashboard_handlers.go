package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/julianstephens/tintrack/internal/constants"
)

func (s *Server) handleDashboard(c *gin.Context) {
	user, err := s.store.GetUser(userID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	dateParam := c.Query("date")
	if dateParam == "" {
		dateParam = s.now().UTC().Format(constants.DateFormat)
	}
	date, err := time.Parse(constants.DateFormat, dateParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, want YYYY-MM-DD"})
		return
	}

	hoursOffset := 0
	if raw := c.Query("hours_offset"); raw != "" {
		hoursOffset, err = strconv.Atoi(raw)
		if err != nil || hoursOffset < -23 || hoursOffset > 23 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid hours_offset"})
			return
		}
	}

	board, err := s.boards.Assemble(user, date, hoursOffset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, board)
}
