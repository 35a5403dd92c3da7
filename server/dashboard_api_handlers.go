package server

import (
	"encoding/json"
	"io"
	"mime"
	"net/http"

	"github.com/jrsteele09/traveline-backoffice/dashboard"
	apperrors "github.com/jrsteele09/traveline-backoffice/internal/errors"
)

const maxRequestBody = 1 << 20

type rejectRequest struct {
	RejectedReason string `json:"rejectedReason"`
}

type statusResponse struct {
	Status string `json:"status"`
}

// resourceHandler resolves {resource} and hands the handler its entry.
func (s *Server) resourceHandler(fn func(w http.ResponseWriter, r *http.Request, res dashboard.Resource)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := s.dashboard.Resource(chiParam(r, "resource"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		fn(w, r, res)
	}
}

func unsupported(res dashboard.Resource, op string) error {
	return apperrors.Wrapf(apperrors.ErrUnsupported, "%s does not support %s", res.Name, op)
}

// readBody accepts only application/json bodies. Forms and text/plain are
// what a cross-site page can send without a preflight, so they are refused.
func readBody(w http.ResponseWriter, r *http.Request) (json.RawMessage, error) {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/json" {
		return nil, apperrors.Wrapf(apperrors.ErrUnsupportedMediaType, "request body must be application/json")
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidArgument, "unreadable request body: %v", err)
	}
	if !json.Valid(body) {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidArgument, "request body is not JSON")
	}
	return body, nil
}

func (s *Server) ResourceNamesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.dashboard.ResourceNames())
	}
}

func (s *Server) ProfileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile, err := s.auth.Profile(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, profile)
	}
}

func (s *Server) ResourceListHandler() http.HandlerFunc {
	return s.resourceHandler(func(w http.ResponseWriter, r *http.Request, res dashboard.Resource) {
		if res.List == nil {
			writeError(w, r, unsupported(res, "list"))
			return
		}
		data, err := res.List(r.Context(), r.URL.Query())
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, data)
	})
}

func (s *Server) ResourceGetHandler() http.HandlerFunc {
	return s.resourceHandler(func(w http.ResponseWriter, r *http.Request, res dashboard.Resource) {
		if res.Get == nil {
			writeError(w, r, unsupported(res, "get"))
			return
		}
		data, err := res.Get(r.Context(), chiParam(r, "id"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, data)
	})
}

func (s *Server) ResourceCreateHandler() http.HandlerFunc {
	return s.resourceHandler(func(w http.ResponseWriter, r *http.Request, res dashboard.Resource) {
		if res.Create == nil {
			writeError(w, r, unsupported(res, "create"))
			return
		}
		body, err := readBody(w, r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		data, err := res.Create(r.Context(), body)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, data)
	})
}

func (s *Server) ResourceUpdateHandler() http.HandlerFunc {
	return s.resourceHandler(func(w http.ResponseWriter, r *http.Request, res dashboard.Resource) {
		if res.Update == nil {
			writeError(w, r, unsupported(res, "update"))
			return
		}
		body, err := readBody(w, r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		data, err := res.Update(r.Context(), body)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, data)
	})
}

func (s *Server) ResourceDeleteHandler() http.HandlerFunc {
	return s.resourceHandler(func(w http.ResponseWriter, r *http.Request, res dashboard.Resource) {
		if res.Delete == nil {
			writeError(w, r, unsupported(res, "delete"))
			return
		}
		if err := res.Delete(r.Context(), chiParam(r, "id")); err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, statusResponse{Status: "deleted"})
	})
}

func (s *Server) ResourceApproveHandler() http.HandlerFunc {
	return s.resourceHandler(func(w http.ResponseWriter, r *http.Request, res dashboard.Resource) {
		if res.Approve == nil {
			writeError(w, r, unsupported(res, "approve"))
			return
		}
		if err := res.Approve(r.Context(), chiParam(r, "id")); err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, statusResponse{Status: "approved"})
	})
}

// ResourceRejectHandler forwards {"rejectedReason": ...} from a JSON body.
func (s *Server) ResourceRejectHandler() http.HandlerFunc {
	return s.resourceHandler(func(w http.ResponseWriter, r *http.Request, res dashboard.Resource) {
		if res.Reject == nil {
			writeError(w, r, unsupported(res, "reject"))
			return
		}
		reason, err := rejectReason(w, r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if err := res.Reject(r.Context(), chiParam(r, "id"), reason); err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, statusResponse{Status: "rejected"})
	})
}

func rejectReason(w http.ResponseWriter, r *http.Request) (string, error) {
	body, err := readBody(w, r)
	if err != nil {
		return "", err
	}
	var req rejectRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return "", apperrors.Wrapf(apperrors.ErrInvalidArgument, "malformed reject body: %v", err)
	}
	return req.RejectedReason, nil
}
