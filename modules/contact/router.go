// Package contact exposes the contact-form endpoint. Submissions are
// validated and forwarded to the support inbox; the endpoint is public.
package contact

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AMR-Works/toolshub/pkg/email"
	"github.com/AMR-Works/toolshub/pkg/httpserver"
)

type Service struct {
	sender       email.EmailSender
	supportEmail string
	log          *slog.Logger
}

func NewService(sender email.EmailSender, supportEmail string, log *slog.Logger) *Service {
	if sender == nil {
		panic("contact: email sender is required")
	}
	if supportEmail == "" {
		panic("contact: support email is required")
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Service{sender: sender, supportEmail: supportEmail, log: log}
}

func (s *Service) Handle() http.Handler {
	r := chi.NewRouter()
	r.Post("/", s.submit)
	return r
}

type submitRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

func (s *Service) submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpserver.JSON(w, http.StatusBadRequest, map[string]string{"error": "malformed request body"})
		return
	}

	msg := email.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Reason:  req.Reason,
		Message: req.Message,
	}
	if err := msg.Validate(); err != nil {
		httpserver.JSON(w, http.StatusBadRequest, map[string]string{
			"error":   "invalid request",
			"details": err.Error(),
		})
		return
	}

	if err := s.sender.SendEmail(r.Context(), msg.Render(s.supportEmail)); err != nil {
		if errors.Is(err, email.ErrInvalidParams) {
			httpserver.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request", "details": err.Error()})
			return
		}
		s.log.Error("failed to forward contact message", "error", err)
		httpserver.JSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to send message"})
		return
	}

	s.log.Info("contact message forwarded", "reason", req.Reason)
	httpserver.JSON(w, http.StatusOK, map[string]bool{"success": true})
}
