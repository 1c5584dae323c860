package server

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"friendbook/internal/forms"
	"friendbook/internal/repository"
)

const (
	errFillAllFields  = "Please fill out all fields"
	errLoginTaken     = "Login is already taken"
	errRegistration   = "Registration failed"
	errBadCredentials = "Invalid login or password"
	errUserNotFound   = "User not found"
	errSaveFailed     = "Failed to save"
	errGeneric        = "Something went wrong"
)

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	if currentUser(r) != nil {
		http.Redirect(w, r, "/mypage", http.StatusFound)
		return
	}
	s.render(w, r, http.StatusOK, "home", nil)
}

func (s *Server) handleRegisterForm(w http.ResponseWriter, r *http.Request) {
	if currentUser(r) != nil {
		http.Redirect(w, r, "/mypage", http.StatusFound)
		return
	}
	s.render(w, r, http.StatusOK, "register", nil)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	form := forms.ParseRegister(r)
	if err := s.validate.Struct(form); err != nil {
		s.render(w, r, http.StatusBadRequest, "register", map[string]any{"Error": errFillAllFields})
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(form.Password), bcrypt.DefaultCost)
	if err != nil {
		s.log.Error("hash password", "error", err)
		s.render(w, r, http.StatusInternalServerError, "register", map[string]any{"Error": errRegistration})
		return
	}
	user, err := s.users.Create(r.Context(), form.Login, string(hash), form.DisplayName)
	if err != nil {
		if errors.Is(err, repository.ErrLoginTaken) {
			s.render(w, r, http.StatusBadRequest, "register", map[string]any{"Error": errLoginTaken})
			return
		}
		s.log.Error("create user", "error", err)
		s.render(w, r, http.StatusInternalServerError, "register", map[string]any{"Error": errRegistration})
		return
	}
	sid, err := s.sessions.Create(r.Context(), user)
	if err != nil {
		s.log.Error("create session", "error", err)
		s.render(w, r, http.StatusInternalServerError, "register", map[string]any{"Error": errRegistration})
		return
	}
	s.setSessionCookie(w, sid)
	http.Redirect(w, r, "/mypage", http.StatusFound)
}

func (s *Server) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	if currentUser(r) != nil {
		http.Redirect(w, r, "/mypage", http.StatusFound)
		return
	}
	s.render(w, r, http.StatusOK, "login", nil)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	form := forms.ParseLogin(r)
	if err := s.validate.Struct(form); err != nil {
		s.render(w, r, http.StatusBadRequest, "login", map[string]any{"Error": errBadCredentials})
		return
	}
	user, err := s.users.GetByLogin(r.Context(), form.Login)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// Same message as a wrong password so logins cannot be
			// enumerated.
			s.render(w, r, http.StatusBadRequest, "login", map[string]any{"Error": errBadCredentials})
			return
		}
		s.log.Error("query user", "error", err)
		s.render(w, r, http.StatusInternalServerError, "login", map[string]any{"Error": errGeneric})
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(form.Password)) != nil {
		s.render(w, r, http.StatusBadRequest, "login", map[string]any{"Error": errBadCredentials})
		return
	}
	sid, err := s.sessions.Create(r.Context(), user)
	if err != nil {
		s.log.Error("create session", "error", err)
		s.render(w, r, http.StatusInternalServerError, "login", map[string]any{"Error": errGeneric})
		return
	}
	s.setSessionCookie(w, sid)
	http.Redirect(w, r, "/mypage", http.StatusFound)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if auth := authFrom(r); auth != nil {
		if err := s.sessions.Destroy(r.Context(), auth.SessionID); err != nil {
			s.log.Error("destroy session", "error", err)
		}
		s.clearSessionCookie(w)
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

func (s *Server) handleMyPage(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/u/"+url.PathEscape(currentUser(r).Login), http.StatusFound)
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	login := chi.URLParam(r, "login")
	profile, err := s.users.GetByLogin(r.Context(), login)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.handleNotFound(w, r)
			return
		}
		s.log.Error("query user", "error", err)
		s.render(w, r, http.StatusInternalServerError, "404", map[string]any{"Error": errGeneric})
		return
	}
	friends, err := s.friends.ListFriends(r.Context(), profile.ID)
	if err != nil {
		s.log.Error("list friends", "error", err)
		s.render(w, r, http.StatusInternalServerError, "404", map[string]any{"Error": errGeneric})
		return
	}
	viewer := currentUser(r)
	s.render(w, r, http.StatusOK, "profile", map[string]any{
		"Profile": profile.Public(),
		"Friends": friends,
		"IsOwn":   viewer != nil && viewer.ID == profile.ID,
	})
}

func (s *Server) handleFriends(w http.ResponseWriter, r *http.Request) {
	friends, err := s.friends.ListFriends(r.Context(), currentUser(r).ID)
	if err != nil {
		s.log.Error("list friends", "error", err)
		s.render(w, r, http.StatusInternalServerError, "friends", map[string]any{"Error": errGeneric})
		return
	}
	s.render(w, r, http.StatusOK, "friends", map[string]any{"Friends": friends})
}

func (s *Server) handleFriendAdd(w http.ResponseWriter, r *http.Request) {
	form := forms.ParseAddFriend(r)
	if err := s.validate.Struct(form); err != nil {
		// A blank target login behaves like an unknown one.
		s.render(w, r, http.StatusNotFound, "friends", map[string]any{"Error": errUserNotFound})
		return
	}
	target, err := s.users.GetByLogin(r.Context(), form.Login)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.render(w, r, http.StatusNotFound, "friends", map[string]any{"Error": errUserNotFound})
			return
		}
		s.log.Error("query user", "error", err)
		s.render(w, r, http.StatusInternalServerError, "friends", map[string]any{"Error": errGeneric})
		return
	}
	owner := currentUser(r)
	if target.ID == owner.ID {
		http.Redirect(w, r, "/friends", http.StatusFound)
		return
	}
	if err := s.friends.Add(r.Context(), owner.ID, target.ID); err != nil {
		s.log.Error("add friend", "error", err)
	}
	http.Redirect(w, r, "/friends", http.StatusFound)
}

func (s *Server) handleFriendRemove(w http.ResponseWriter, r *http.Request) {
	form := forms.ParseRemoveFriend(r)
	targetID, err := strconv.ParseInt(strings.TrimSpace(form.UserID), 10, 64)
	if err != nil {
		http.Redirect(w, r, "/friends", http.StatusFound)
		return
	}
	if err := s.friends.Remove(r.Context(), currentUser(r).ID, targetID); err != nil {
		s.log.Error("remove friend", "error", err)
		s.render(w, r, http.StatusInternalServerError, "friends", map[string]any{"Error": errGeneric})
		return
	}
	http.Redirect(w, r, "/friends", http.StatusFound)
}

func (s *Server) handleSettingsForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "settings", map[string]any{"User": currentUser(r).Public()})
}

func (s *Server) handleSettingsSave(w http.ResponseWriter, r *http.Request) {
	auth := authFrom(r)
	user := auth.User
	form := forms.ParseSettings(r)

	hash := user.PasswordHash
	if strings.TrimSpace(form.Password) != "" {
		h, err := bcrypt.GenerateFromPassword([]byte(form.Password), bcrypt.DefaultCost)
		if err != nil {
			s.log.Error("hash password", "error", err)
			s.render(w, r, http.StatusInternalServerError, "settings", map[string]any{
				"User": user.Public(), "Error": errSaveFailed,
			})
			return
		}
		hash = string(h)
	}

	// A blank display name keeps the current one; a blank bio clears
	// the stored bio.
	displayName := form.DisplayName
	if displayName == "" {
		displayName = user.DisplayName
	}

	updated, err := s.users.Update(r.Context(), user.ID, displayName, form.Bio, hash)
	if err != nil {
		s.log.Error("update user", "error", err)
		s.render(w, r, http.StatusInternalServerError, "settings", map[string]any{
			"User": user.Public(), "Error": errSaveFailed,
		})
		return
	}
	if err := s.sessions.Update(r.Context(), auth.SessionID, updated); err != nil {
		s.log.Error("refresh session snapshot", "error", err)
		s.render(w, r, http.StatusInternalServerError, "settings", map[string]any{
			"User": user.Public(), "Error": errSaveFailed,
		})
		return
	}
	http.Redirect(w, r, "/settings", http.StatusFound)
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusNotFound, "404", nil)
}
