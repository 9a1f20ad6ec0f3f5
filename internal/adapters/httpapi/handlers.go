package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.trai.ch/herd/internal/core/domain"
	"go.trai.ch/herd/internal/engine/query"
	"go.trai.ch/zerr"
)

var errBadPayload = zerr.New("malformed request payload")

type sidRequest struct {
	Sid           string `json:"sid"`
	AmountOfPosts int    `json:"amount_of_posts"`
	CountRequests int    `json:"count_requests"`
}

type usernameRequest struct {
	Username      string `json:"username"`
	AmountOfPosts int    `json:"amount_of_posts"`
}

type postRequest struct {
	ShareLink     string `json:"share_link"`
	WebLink       string `json:"web_link"`
	ShortLink     string `json:"short_link"`
	AwemeID       string `json:"aweme_id"`
	CountRequests int    `json:"count_requests"`
}

func (p postRequest) query() query.PostQuery {
	return query.PostQuery{
		ID:        p.AwemeID,
		ShareLink: p.ShareLink,
		WebLink:   p.WebLink,
		ShortLink: p.ShortLink,
	}
}

func (s *Server) handleSearchBySid(w http.ResponseWriter, r *http.Request) {
	var req sidRequest
	if !s.decode(w, r, &req) {
		return
	}
	res, err := s.queries.ProfileByID(r.Context(), req.Sid, req.AmountOfPosts)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newSearchResponse(res, false))
}

func (s *Server) handleSearch(full bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req usernameRequest
		if !s.decode(w, r, &req) {
			return
		}
		res, err := s.queries.ProfileByUsername(r.Context(), req.Username, req.AmountOfPosts)
		if err != nil {
			s.fail(w, err)
			return
		}
		writeJSON(w, http.StatusOK, newSearchResponse(res, full))
	}
}

func (s *Server) handlePost(w http.ResponseWriter, r *http.Request) {
	var req postRequest
	if !s.decode(w, r, &req) {
		return
	}
	post, err := s.queries.PostByLink(r.Context(), req.query())
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, postResponse{Posts: post})
}

func (s *Server) handleLiked(w http.ResponseWriter, r *http.Request) {
	var req sidRequest
	if !s.decode(w, r, &req) {
		return
	}
	posts, err := s.queries.LikedPosts(r.Context(), req.Sid, req.AmountOfPosts)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, likedResponse{Posts: nonNil(posts)})
}

func (s *Server) handleBuildProfile(w http.ResponseWriter, r *http.Request) {
	var req sidRequest
	if !s.decode(w, r, &req) {
		return
	}
	reqs, err := s.queries.BuildProfileRequests(r.Context(), req.Sid, req.CountRequests)
	s.writeBuilt(w, reqs, err)
}

func (s *Server) handleBuildPosts(w http.ResponseWriter, r *http.Request) {
	var req sidRequest
	if !s.decode(w, r, &req) {
		return
	}
	reqs, err := s.queries.BuildPostsRequests(r.Context(), req.Sid, req.AmountOfPosts, req.CountRequests)
	s.writeBuilt(w, reqs, err)
}

func (s *Server) handleBuildPost(w http.ResponseWriter, r *http.Request) {
	var req postRequest
	if !s.decode(w, r, &req) {
		return
	}
	reqs, err := s.queries.BuildPostRequests(r.Context(), req.query(), req.CountRequests)
	s.writeBuilt(w, reqs, err)
}

func (s *Server) writeBuilt(w http.ResponseWriter, reqs []domain.RequestInfo, err error) {
	if err != nil {
		s.fail(w, err)
		return
	}
	if reqs == nil {
		reqs = []domain.RequestInfo{}
	}
	writeJSON(w, http.StatusOK, builtResponse{Request: reqs})
}

// decode reads a JSON payload into v. An empty body leaves v zero.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		s.fail(w, zerr.Wrap(errBadPayload, err.Error()))
		return false
	}
	return true
}

// fail maps err to a status code and writes the error body. Server-side
// failures are logged.
func (s *Server) fail(w http.ResponseWriter, err error) {
	status, msg := classify(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error(err)
	}
	writeJSON(w, status, errorBody{Error: msg})
}

func classify(err error) (int, string) {
	for _, sentinel := range []error{
		errBadPayload,
		domain.ErrMissingUserID,
		domain.ErrMissingUsername,
		domain.ErrNoIdentifier,
		domain.ErrInvalidLink,
	} {
		if errors.Is(err, sentinel) {
			return http.StatusBadRequest, sentinel.Error()
		}
	}
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, domain.ErrNotFound.Error()
	case errors.Is(err, domain.ErrExhausted):
		return http.StatusInternalServerError, domain.ErrExhausted.Error()
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
