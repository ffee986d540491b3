// Package server exposes the variable store over HTTP so external
// producers and consumers can insert, resolve and inspect variables
// without linking the engine in-process.
package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/saranshbhandari/TaskManagerUtil/runtime"
	"github.com/saranshbhandari/TaskManagerUtil/vars"
)

type Server struct {
	l     *slog.Logger
	store *vars.Store
}

func New(l *slog.Logger, store *vars.Store) *Server {
	return &Server{l: l, store: store}
}

// Register mounts the API on a gin engine.
func (s *Server) Register(g *gin.Engine) {
	g.GET("/variables", s.handleListVariables)
	g.POST("/variables", s.handleAddVariables)
	g.DELETE("/variables/:scope/:key", s.handleRemoveVariable)
	g.POST("/variables/clear", s.handleClear)
	g.GET("/value", s.handleGetValue)
	g.POST("/resolve", s.handleResolve)
}

// handleListVariables dumps every base variable in its textual form.
func (s *Server) handleListVariables(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"variables": runtime.ToStringValueMap(s.store.Snapshot())})
}

// handleAddVariables batch-inserts variables. Entries are applied
// independently; malformed names are reported but do not block the rest.
func (s *Server) handleAddVariables(c *gin.Context) {
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Wrong request body format"})
		return
	}

	if err := s.store.AddAll(body); err != nil {
		s.l.Error("Batch insert had malformed names", "error", err.Error())
		c.JSON(http.StatusMultiStatus, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

func (s *Server) handleRemoveVariable(c *gin.Context) {
	name := c.Param("scope") + "." + c.Param("key")
	if err := s.store.Remove(name); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

func (s *Server) handleClear(c *gin.Context) {
	s.store.Clear()
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// handleGetValue resolves a single expression, e.g.
// GET /value?expr=${Task1.ResponseBody[0].key1}
func (s *Server) handleGetValue(c *gin.Context) {
	expr := c.Query("expr")
	value, err := s.store.GetValue(expr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"value": vars.Stringify(value), "found": value != nil})
}

type resolveRequest struct {
	Template string `json:"template"`
}

// handleResolve interpolates a template under the store's missing-variable
// policy. A ThrowError miss maps to 422 with the offending variable.
func (s *Server) handleResolve(c *gin.Context) {
	var req resolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Wrong request body format"})
		return
	}

	out, err := s.store.ResolveVariables(req.Template)
	if err != nil {
		var notFound *vars.VariableNotFoundError
		if errors.As(err, &notFound) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"message":  "unresolved variable",
				"variable": notFound.Variable,
			})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": out})
}
