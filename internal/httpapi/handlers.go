package httpapi

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/subba5076/Pizza-Delivery-agent/internal/domain"
)

// chatRequest is the body of POST /api/sessions/:id/chat.
type chatRequest struct {
	Message string `json:"message"`
}

// turnResponse mirrors the web client contract: reply text, the menu
// payload when the client should (re)display it, the order and the state.
type turnResponse struct {
	SessionID string             `json:"session_id,omitempty"`
	Reply     string             `json:"reply"`
	Menu      map[string]any     `json:"menu"`
	Order     domain.Order       `json:"structured_order"`
	State     *domain.OrderState `json:"state"`
}

type sessionResponse struct {
	ID      string             `json:"session_id"`
	State   *domain.OrderState `json:"state"`
	History []domain.Exchange  `json:"history"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) newTurnResponse(id string, res *domain.TurnResult) turnResponse {
	resp := turnResponse{
		SessionID: id,
		Reply:     res.Reply,
		Order:     res.State.Order,
		State:     res.State,
	}
	if res.ShowMenu {
		resp.Menu = s.cat.Data()
	}
	return resp
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleMenu(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"menu": s.cat.Data(),
		"text": s.cat.MenuText(),
	})
}

func (s *Server) handleCreateSession(c *gin.Context) {
	sess, res, err := s.asst.Start(c.Request.Context())
	if err != nil {
		s.log.Error("create session: %v", err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "could not start session"})
		return
	}
	c.JSON(http.StatusCreated, s.newTurnResponse(sess.ID, res))
}

func (s *Server) handleGetSession(c *gin.Context) {
	sess, err := s.asst.Session(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.sessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse{ID: sess.ID, State: sess.State, History: sess.History})
}

func (s *Server) handleDeleteSession(c *gin.Context) {
	if err := s.asst.End(c.Request.Context(), c.Param("id")); err != nil {
		s.sessionError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	s.turn(c, req.Message)
}

func (s *Server) handleRestart(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), s.turnTimeout)
	defer cancel()

	id := c.Param("id")
	res, err := s.asst.Restart(ctx, id)
	if err != nil {
		s.sessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.newTurnResponse(id, res))
}

func (s *Server) turn(c *gin.Context, message string) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), s.turnTimeout)
	defer cancel()

	id := c.Param("id")
	res, err := s.asst.Chat(ctx, id, message)
	if err != nil {
		s.sessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.newTurnResponse(id, res))
}

// handleListen transcribes one uploaded clip. It never touches a session;
// the client sends the transcript back through chat.
func (s *Server) handleListen(c *gin.Context) {
	fh, err := c.FormFile("audio_data")
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "No audio file provided"})
		return
	}
	if fh.Size > s.maxAudio {
		c.JSON(http.StatusRequestEntityTooLarge, errorResponse{Error: "Audio file too large"})
		return
	}

	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "Could not process audio"})
		return
	}
	defer f.Close()

	audio, err := io.ReadAll(io.LimitReader(f, s.maxAudio))
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "Could not process audio"})
		return
	}

	text, err := s.asst.Transcribe(c.Request.Context(), audio)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "Could not process audio"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"transcript": text})
}

func (s *Server) sessionError(c *gin.Context, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		c.JSON(http.StatusNotFound, errorResponse{Error: "session not found"})
		return
	}
	s.log.Error("session %s: %v", c.Param("id"), err)
	c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
}
