package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/nikhilbhutani/swasthlog/internal/auth"
	"github.com/nikhilbhutani/swasthlog/internal/export"
	"github.com/nikhilbhutani/swasthlog/internal/models"
	"github.com/nikhilbhutani/swasthlog/internal/pipeline"
)

const docxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

type SubmissionHandler struct {
	svc       *pipeline.Service
	maxUpload int64
}

func NewSubmissionHandler(svc *pipeline.Service, maxUpload int64) *SubmissionHandler {
	return &SubmissionHandler{svc: svc, maxUpload: maxUpload}
}

type slotView struct {
	OriginalName string `json:"original_name"`
	Outcome      string `json:"outcome"`
	DraftText    string `json:"draft_text"`
	FinalText    string `json:"final_text"`
	Reviewed     bool   `json:"reviewed"`
}

type submissionView struct {
	ID        uuid.UUID           `json:"id"`
	TimeOfDay models.TimeOfDay    `json:"time_of_day"`
	State     models.State        `json:"state"`
	CreatedAt time.Time           `json:"created_at"`
	Slots     map[string]slotView `json:"slots"`
}

func viewOf(sub *pipeline.Submission) submissionView {
	v := submissionView{
		ID:        sub.ID,
		TimeOfDay: sub.TimeOfDay,
		State:     sub.State,
		CreatedAt: sub.CreatedAt,
		Slots:     make(map[string]slotView, len(sub.Slots)),
	}
	for role, slot := range sub.Slots {
		v.Slots[string(role)] = slotView{
			OriginalName: slot.Blob.OriginalName,
			Outcome:      string(slot.Transcript.Outcome),
			DraftText:    slot.Transcript.DisplayText(),
			FinalText:    slot.DisplayText(),
			Reviewed:     slot.Reviewed,
		}
	}
	return v
}

// Create opens a new submission for the selected time of day.
func (h *SubmissionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TimeOfDay string `json:"time_of_day"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	tod, err := models.ParseTimeOfDay(req.TimeOfDay)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	sub := h.svc.Create(r.Context(), auth.IdentityFromContext(r.Context()), tod)
	writeJSON(w, http.StatusCreated, viewOf(sub))
}

// Upload attaches one file to a slot and runs its leg of the pipeline
// synchronously. The response carries the draft text for review; recognition
// failures come back with outcome tags and their human-readable rendering,
// not as HTTP errors.
func (h *SubmissionHandler) Upload(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid submission ID"})
		return
	}

	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid multipart form"})
		return
	}

	role, err := models.ParseRole(r.FormValue("role"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "file required"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "could not read upload"})
		return
	}

	blob := models.NewMediaBlob(header.Filename, data)
	slot, err := h.svc.Attach(r.Context(), auth.IdentityFromContext(r.Context()), id, role, blob)
	if err != nil {
		writeJSON(w, errStatus(err), map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"role":       role,
		"outcome":    slot.Transcript.Outcome,
		"draft_text": slot.Transcript.DisplayText(),
	})
}

func (h *SubmissionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid submission ID"})
		return
	}

	sub, err := h.svc.Get(r.Context(), auth.IdentityFromContext(r.Context()), id)
	if err != nil {
		writeJSON(w, errStatus(err), map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, viewOf(sub))
}

// Review replaces a slot's draft with the user's edited text.
func (h *SubmissionHandler) Review(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid submission ID"})
		return
	}

	var req struct {
		Role string `json:"role"`
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	role, err := models.ParseRole(req.Role)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	owner := auth.IdentityFromContext(r.Context())
	if err := h.svc.Review(r.Context(), owner, id, role, req.Text); err != nil {
		writeJSON(w, errStatus(err), map[string]string{"error": err.Error()})
		return
	}

	sub, err := h.svc.Get(r.Context(), owner, id)
	if err != nil {
		writeJSON(w, errStatus(err), map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, viewOf(sub))
}

// Submit archives both originals and echoes the stored names with the final
// text pair. Missing either upload rejects the submission with no writes.
func (h *SubmissionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid submission ID"})
		return
	}

	receipt, err := h.svc.Submit(r.Context(), auth.IdentityFromContext(r.Context()), id)
	if err != nil {
		writeJSON(w, errStatus(err), map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"voice_file":       receipt.Voice.StoredName,
		"condition_file":   receipt.Condition.StoredName,
		"food_intake_text": receipt.VoiceText,
		"condition_text":   receipt.ConditionText,
	})
}

// ExportDocx renders the transcript pair as a .docx and streams it. The
// document is generated per request and never written to the archive.
func (h *SubmissionHandler) ExportDocx(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid submission ID"})
		return
	}

	sub, err := h.svc.Get(r.Context(), auth.IdentityFromContext(r.Context()), id)
	if err != nil {
		writeJSON(w, errStatus(err), map[string]string{"error": err.Error()})
		return
	}

	var sections []export.Section
	for _, role := range []models.Role{models.RoleVoice, models.RoleCondition} {
		slot, ok := sub.Slots[role]
		if !ok {
			continue
		}
		heading := "Food Intake"
		if role == models.RoleCondition {
			heading = "System Condition"
		}
		sections = append(sections, export.Section{Heading: heading, Body: slot.DisplayText()})
	}
	if len(sections) == 0 {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": models.ErrSlotEmpty.Error()})
		return
	}

	title := fmt.Sprintf("Transcript %s (%s)", sub.CreatedAt.Format("2006-01-02"), sub.TimeOfDay)
	data, err := export.TranscriptDocx(title, sections)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	w.Header().Set("Content-Type", docxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "transcript_"+sub.ID.String()+".docx"))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func errStatus(err error) int {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrAuthFailure):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrMissingUpload),
		errors.Is(err, models.ErrDecode),
		errors.Is(err, models.ErrSlotEmpty):
		return http.StatusUnprocessableEntity
	case errors.Is(err, models.ErrAlreadySubmitted):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
