package http

import (
	"net/http"

	applog "comeback/internal/log"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := readJSON(r, &req); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := s.ids.SignUp(r.Context(), req.Email, req.Password)
	if err != nil {
		errorJSON(w, authStatus(err), err.Error())
		return
	}

	s.logger.InfoContext(r.Context(), "User signed up", applog.FieldUserID, user.ID)
	writeJSON(w, http.StatusCreated, user)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := readJSON(r, &req); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, err := s.ids.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		errorJSON(w, authStatus(err), "invalid credentials")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r.Context())

	// Close first so the final flush happens before the response; the
	// sign-out broadcast then finds nothing left to do.
	s.registry.close(userID)
	s.ids.SignOut(userID)

	s.logger.InfoContext(r.Context(), "User signed out", applog.FieldUserID, userID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePasswordResetRequest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := readJSON(r, &req); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.ids.SendPasswordReset(r.Context(), req.Email); err != nil {
		s.logger.ErrorContext(r.Context(), "Password-reset mail failed", applog.FieldError, err)
		errorJSON(w, http.StatusInternalServerError, "could not send reset mail")
		return
	}
	// Same response whether or not the account exists.
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) handlePasswordResetConfirm(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if err := readJSON(r, &req); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.ids.ResetPassword(r.Context(), req.Token, req.Password); err != nil {
		errorJSON(w, authStatus(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
