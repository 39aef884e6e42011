package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/abhisek/anamnesis/internal/freeform"
	"github.com/abhisek/anamnesis/internal/interview"
)

type caseView struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	ChiefComplaint string `json:"chief_complaint"`
	Age            int    `json:"age,omitempty"`
	Sex            string `json:"sex,omitempty"`
}

func (s *Server) listCases(w http.ResponseWriter, r *http.Request) {
	all := s.engine.Cases().All()
	out := make([]caseView, 0, len(all))
	for _, c := range all {
		out = append(out, caseView{ID: c.ID, Title: c.Title, ChiefComplaint: c.ChiefComplaint, Age: c.Age, Sex: c.Sex})
	}
	JSON(w, http.StatusOK, out)
}

type startRequest struct {
	CaseID    string `json:"case_id"`
	PersonaID string `json:"persona_id,omitempty"`
	Seed      uint64 `json:"seed,omitempty"`
}

type sessionView struct {
	SessionID string                    `json:"session_id"`
	Case      caseView                  `json:"case"`
	PersonaID string                    `json:"persona_id"`
	Seed      uint64                    `json:"seed"`
	Phase     string                    `json:"phase"`
	StartedAt time.Time                 `json:"started_at"`
	Reminders []string                  `json:"reminders,omitempty"`
	Log       []interview.AskedQuestion `json:"log,omitempty"`
}

func viewOf(sess *interview.Session) sessionView {
	c := sess.Case()
	return sessionView{
		SessionID: sess.ID(),
		Case:      caseView{ID: c.ID, Title: c.Title, ChiefComplaint: c.ChiefComplaint, Age: c.Age, Sex: c.Sex},
		PersonaID: sess.Persona().ID,
		Seed:      sess.Seed(),
		Phase:     sess.Phase().String(),
		StartedAt: sess.StartedAt(),
		Reminders: sess.Reminders(),
		Log:       sess.Log(),
	}
}

func (s *Server) startSession(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := decode(r, &req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.CaseID == "" {
		Error(w, http.StatusBadRequest, "case_id is required")
		return
	}

	sess, err := s.engine.Start(r.Context(), interview.StartOptions{
		CaseID:    req.CaseID,
		PersonaID: req.PersonaID,
		Seed:      req.Seed,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	JSON(w, http.StatusCreated, viewOf(sess))
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.engine.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	JSON(w, http.StatusOK, viewOf(sess))
}

type askRequest struct {
	Text string `json:"text"`
}

func (s *Server) ask(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := decode(r, &req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	id := chi.URLParam(r, "id")
	reply, err := s.engine.Ask(r.Context(), id, req.Text)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if reply.NoMatch && s.freeform != nil {
		if sess, err := s.engine.Get(id); err == nil {
			freeform.Complete(r.Context(), s.freeform, sess, req.Text, reply)
		}
	}
	JSON(w, http.StatusOK, reply)
}

func (s *Server) coverage(w http.ResponseWriter, r *http.Request) {
	report, err := s.engine.Coverage(chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	JSON(w, http.StatusOK, report)
}

type closeRequest struct {
	Reflection string `json:"reflection,omitempty"`
}

func (s *Server) closeSession(w http.ResponseWriter, r *http.Request) {
	var req closeRequest
	if err := decode(r, &req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	summary, err := s.engine.Close(r.Context(), chi.URLParam(r, "id"), req.Reflection)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	JSON(w, http.StatusOK, summary)
}
