package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/julianstephens/tintrack/internal/auth"
	"github.com/julianstephens/tintrack/internal/models"
	"github.com/julianstephens/tintrack/internal/storage"
	"github.com/julianstephens/tintrack/internal/validation"
)

func (s *Server) handleRegister(c *gin.Context) {
	var payload validation.RegisterPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondInvalid(c, err)
		return
	}

	now := s.now().UTC()
	dob, err := validation.CheckRegister(payload, now)
	if err != nil {
		respondInvalid(c, err)
		return
	}

	salt, err := auth.GenerateSalt()
	if err != nil {
		respondError(c, err)
		return
	}
	hash, err := auth.HashPassword(payload.Password, salt)
	if err != nil {
		respondError(c, err)
		return
	}

	user := models.User{
		Name:         payload.Name,
		Email:        payload.Email,
		DateOfBirth:  dob,
		PasswordHash: hash,
		UserSalt:     salt,
		Ranking:      models.RankingStarter,
		MemberSince:  now,
	}
	if err := s.store.CreateUser(&user); err != nil {
		respondError(c, err)
		return
	}

	token, err := s.tokens.Issue(user, now)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"token": token, "user": user})
}

func (s *Server) handleLogin(c *gin.Context) {
	var payload validation.LoginPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondInvalid(c, err)
		return
	}
	if err := validation.CheckLogin(payload); err != nil {
		respondInvalid(c, err)
		return
	}

	user, err := s.store.GetUserByEmail(payload.Email)
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	if !auth.CheckPassword(user.PasswordHash, payload.Password, user.UserSalt) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, err := s.tokens.Issue(user, s.now().UTC())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

func (s *Server) handleLogout(c *gin.Context) {
	jti := c.GetString(ctxJti)
	if err := s.tokens.Revoke(jti, userID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "logged out"})
}
