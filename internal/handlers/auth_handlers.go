package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"clipsquad/internal/api"
	"clipsquad/internal/engine/actors"
	"clipsquad/internal/middleware"

	"github.com/google/uuid"
)

// RegisterRequest represents a request to register a new identity
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents a request to log in
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleRegister handles requests to register a new identity
func (s *Server) HandleRegister() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}

		req.Email = strings.TrimSpace(req.Email)
		if req.Email == "" || req.Password == "" {
			http.Error(w, "Email and password are required", http.StatusBadRequest)
			return
		}

		future := s.Context.RequestFuture(
			s.Engine.GetProfileActor(),
			&actors.RegisterMsg{
				Email:    req.Email,
				Password: req.Password,
			},
			s.RequestTimeout,
		)

		result, err := future.Result()
		if err != nil {
			http.Error(w, "Failed to register", http.StatusInternalServerError)
			return
		}

		identity, ok := resolveActorResult(w, result)
		if !ok {
			return
		}

		respondJSON(w, http.StatusCreated, identity)
	}
}

// HandleLogin handles requests to log in
func (s *Server) HandleLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}

		future := s.Context.RequestFuture(
			s.Engine.GetProfileActor(),
			&actors.LoginMsg{
				Email:    strings.TrimSpace(req.Email),
				Password: req.Password,
			},
			s.RequestTimeout,
		)

		result, err := future.Result()
		if err != nil {
			log.Printf("HTTP Handler: Error getting login result: %v", err)
			http.Error(w, "Failed to process login", http.StatusInternalServerError)
			return
		}

		loginResp, ok := result.(*api.LoginResponse)
		if !ok {
			log.Printf("HTTP Handler: Invalid response type: %T", result)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		// Only generate token if login was successful
		if loginResp.Success {
			userID, err := uuid.Parse(loginResp.UserID)
			if err != nil {
				log.Printf("HTTP Handler: Invalid user ID format: %v", err)
				http.Error(w, "Internal server error", http.StatusInternalServerError)
				return
			}

			token, err := middleware.GenerateToken(userID, loginResp.Email)
			if err != nil {
				log.Printf("HTTP Handler: Failed to generate token: %v", err)
				http.Error(w, "Failed to generate auth token", http.StatusInternalServerError)
				return
			}

			loginResp.Token = token
		}

		status := http.StatusOK
		if !loginResp.Success {
			status = http.StatusUnauthorized
		}
		respondJSON(w, status, loginResp)
	}
}
