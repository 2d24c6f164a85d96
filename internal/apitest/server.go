// Package apitest runs an in-process stand-in for the remote backend so
// store and gateway tests can exercise the real HTTP path end to end. It
// mirrors the surface this client consumes: SimpleJWT-style token endpoints
// and a role-filtered project collection where only workers may mutate.
package apitest

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

const signingSecret = "apitest-secret"

type account struct {
	id       int
	username string
	email    string
	hash     []byte
	role     string
}

type owner struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

type project struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedBy   owner     `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// Server is the fake backend. Close it when the test is done.
type Server struct {
	*httptest.Server

	mu            sync.Mutex
	accounts      map[string]*account
	projects      []project
	nextAccountID int
	nextProjectID int
	accessTTL     time.Duration
}

func New() *Server {
	s := &Server{
		accounts:      make(map[string]*account),
		nextAccountID: 1,
		nextProjectID: 1,
		accessTTL:     time.Hour,
	}

	e := echo.New()
	e.HideBanner = true
	e.POST("/api/auth/register/", s.register)
	e.POST("/api/token/", s.token)
	e.POST("/api/token/refresh/", s.refresh)
	e.GET("/api/projects/", s.listProjects)
	e.POST("/api/projects/", s.createProject)
	e.PUT("/api/projects/:id/", s.updateProject)
	e.DELETE("/api/projects/:id/", s.deleteProject)

	s.Server = httptest.NewServer(e)
	return s
}

// Seed creates an account directly, bypassing the register endpoint.
func (s *Server) Seed(username, email, password, role string) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[username] = &account{
		id:       s.nextAccountID,
		username: username,
		email:    email,
		hash:     hash,
		role:     role,
	}
	s.nextAccountID++
}

// SetAccessTTL shortens token lifetimes for refresh tests.
func (s *Server) SetAccessTTL(ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessTTL = ttl
}

func (s *Server) register(c echo.Context) error {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "invalid payload"})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accounts[req.Username]; exists {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"username": []string{"A user with that username already exists."},
		})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.MinCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "hash failed"})
	}
	acc := &account{
		id:       s.nextAccountID,
		username: req.Username,
		email:    req.Email,
		hash:     hash,
		role:     req.Role,
	}
	s.nextAccountID++
	s.accounts[req.Username] = acc

	return c.JSON(http.StatusCreated, echo.Map{
		"id":       acc.id,
		"username": acc.username,
		"email":    acc.email,
		"role":     acc.role,
	})
}

func (s *Server) token(c echo.Context) error {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "invalid payload"})
	}

	s.mu.Lock()
	acc := s.accounts[req.Username]
	ttl := s.accessTTL
	s.mu.Unlock()

	if acc == nil || bcrypt.CompareHashAndPassword(acc.hash, []byte(req.Password)) != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"detail": "No active account found with the given credentials",
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"access":   s.issueToken(acc, "access", ttl),
		"refresh":  s.issueToken(acc, "refresh", 24*time.Hour),
		"username": acc.username,
		"role":     acc.role,
	})
}

func (s *Server) refresh(c echo.Context) error {
	var req struct {
		Refresh string `json:"refresh"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "invalid payload"})
	}

	acc, kind := s.parseToken(req.Refresh)
	if acc == nil || kind != "refresh" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"detail": "Token is invalid or expired"})
	}

	s.mu.Lock()
	ttl := s.accessTTL
	s.mu.Unlock()

	return c.JSON(http.StatusOK, echo.Map{"access": s.issueToken(acc, "access", ttl)})
}

func (s *Server) listProjects(c echo.Context) error {
	acc := s.authenticate(c)
	if acc == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"detail": "Given token not valid for any token type"})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	visible := make([]project, 0, len(s.projects))
	for _, p := range s.projects {
		if acc.role == "ADMIN" || p.CreatedBy.Username == acc.username {
			visible = append(visible, p)
		}
	}
	return c.JSON(http.StatusOK, visible)
}

func (s *Server) createProject(c echo.Context) error {
	acc := s.authenticate(c)
	if acc == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"detail": "Given token not valid for any token type"})
	}
	if acc.role != "WORKER" {
		return c.JSON(http.StatusForbidden, echo.Map{"detail": "Admins cannot create projects."})
	}

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "invalid payload"})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := project{
		ID:          s.nextProjectID,
		Name:        req.Name,
		Description: req.Description,
		CreatedBy:   owner{ID: acc.id, Username: acc.username, Email: acc.email, Role: acc.role},
		CreatedAt:   time.Now().UTC(),
	}
	s.nextProjectID++
	s.projects = append(s.projects, p)

	return c.JSON(http.StatusCreated, p)
}

func (s *Server) updateProject(c echo.Context) error {
	acc := s.authenticate(c)
	if acc == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"detail": "Given token not valid for any token type"})
	}
	if acc.role != "WORKER" {
		return c.JSON(http.StatusForbidden, echo.Map{"detail": "Admins cannot update projects."})
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"detail": "Not found."})
	}

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "invalid payload"})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.projects {
		if s.projects[i].ID != id {
			continue
		}
		if s.projects[i].CreatedBy.Username != acc.username {
			return c.JSON(http.StatusForbidden, echo.Map{"detail": "You can only update your own projects."})
		}
		s.projects[i].Name = req.Name
		s.projects[i].Description = req.Description
		return c.JSON(http.StatusOK, s.projects[i])
	}
	return c.JSON(http.StatusNotFound, echo.Map{"detail": "Not found."})
}

func (s *Server) deleteProject(c echo.Context) error {
	acc := s.authenticate(c)
	if acc == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"detail": "Given token not valid for any token type"})
	}
	if acc.role != "WORKER" {
		return c.JSON(http.StatusForbidden, echo.Map{"detail": "Admins cannot delete projects."})
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"detail": "Not found."})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.projects {
		if s.projects[i].ID != id {
			continue
		}
		if s.projects[i].CreatedBy.Username != acc.username {
			return c.JSON(http.StatusForbidden, echo.Map{"detail": "You can only delete your own projects."})
		}
		s.projects = append(s.projects[:i], s.projects[i+1:]...)
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusNotFound, echo.Map{"detail": "Not found."})
}

func (s *Server) authenticate(c echo.Context) *account {
	header := c.Request().Header.Get("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return nil
	}
	acc, kind := s.parseToken(parts[1])
	if kind != "access" {
		return nil
	}
	return acc
}

func (s *Server) issueToken(acc *account, kind string, ttl time.Duration) string {
	claims := jwt.MapClaims{
		"username":   acc.username,
		"role":       acc.role,
		"token_type": kind,
		"exp":        time.Now().Add(ttl).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(signingSecret))
	if err != nil {
		panic(err)
	}
	return signed
}

func (s *Server) parseToken(raw string) (*account, string) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(signingSecret), nil
	})
	if err != nil || !tkn.Valid {
		return nil, ""
	}
	username, _ := claims["username"].(string)
	kind, _ := claims["token_type"].(string)

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accounts[username], kind
}
