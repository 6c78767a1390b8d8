package habit

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/saulo-duarte/chronos-habits/internal/auth"
	"github.com/saulo-duarte/chronos-habits/internal/config"
	util "github.com/saulo-duarte/chronos-habits/internal/utils"
)

type Handler struct {
	service Service
	today   func() util.Date
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service, today: config.Today}
}

func (h *Handler) userID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	claims, err := auth.GetUserClaimsFromContext(r.Context())
	if err != nil {
		config.WithContext(r.Context()).Warn("User not authenticated")
		config.Error(w, http.StatusUnauthorized, "unauthorized")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		config.Error(w, http.StatusUnauthorized, "unauthorized")
		return uuid.Nil, false
	}
	return id, true
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		config.Error(w, http.StatusBadRequest, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

func decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		config.WithContext(r.Context()).WithError(err).Warn("Invalid request body")
		config.Error(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// dateValue parses raw, falling back to def when raw is empty.
func dateValue(w http.ResponseWriter, raw string, def util.Date) (util.Date, bool) {
	if raw == "" {
		return def, true
	}
	d, err := util.ParseDate(raw)
	if err != nil {
		config.Error(w, http.StatusBadRequest, err.Error())
		return util.Date{}, false
	}
	return d, true
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *ValidationError
	switch {
	case errors.Is(err, ErrHabitNotFound), errors.Is(err, ErrSubHabitNotFound):
		config.Error(w, http.StatusNotFound, err.Error())
	case errors.As(err, &ve):
		config.Error(w, http.StatusBadRequest, ve.Error())
	case errors.Is(err, ErrUnauthorized):
		config.Error(w, http.StatusUnauthorized, "unauthorized")
	default:
		config.WithContext(r.Context()).WithError(err).Error("Habit request failed")
		config.Error(w, http.StatusInternalServerError, "internal server error")
	}
}

func (h *Handler) CreateHabit(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var dto CreateHabitDTO
	if !decode(w, r, &dto) {
		return
	}

	habit, err := h.service.CreateHabit(r.Context(), userID, dto)
	if err != nil {
		writeError(w, r, err)
		return
	}
	config.JSON(w, http.StatusCreated, habit)
}

func (h *Handler) ListHabits(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	habits, err := h.service.ListHabits(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	config.JSON(w, http.StatusOK, habits)
}

func (h *Handler) GetHabit(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	habitID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	habit, err := h.service.GetHabit(r.Context(), userID, habitID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	config.JSON(w, http.StatusOK, habit)
}

func (h *Handler) UpdateHabit(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	habitID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var dto UpdateHabitDTO
	if !decode(w, r, &dto) {
		return
	}

	habit, err := h.service.UpdateHabit(r.Context(), userID, habitID, dto)
	if err != nil {
		writeError(w, r, err)
		return
	}
	config.JSON(w, http.StatusOK, habit)
}

func (h *Handler) setStatus(status Status) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := h.userID(w, r)
		if !ok {
			return
		}
		habitID, ok := pathID(w, r, "id")
		if !ok {
			return
		}

		habit, err := h.service.SetStatus(r.Context(), userID, habitID, status)
		if err != nil {
			writeError(w, r, err)
			return
		}
		config.JSON(w, http.StatusOK, habit)
	}
}

func (h *Handler) PauseHabit(w http.ResponseWriter, r *http.Request) {
	h.setStatus(StatusPaused)(w, r)
}

func (h *Handler) ResumeHabit(w http.ResponseWriter, r *http.Request) {
	h.setStatus(StatusActive)(w, r)
}

func (h *Handler) DeleteHabit(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	habitID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteHabit(r.Context(), userID, habitID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Today(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	today, ok := dateValue(w, r.URL.Query().Get("date"), h.today())
	if !ok {
		return
	}

	resp, err := h.service.Today(r.Context(), userID, today)
	if err != nil {
		writeError(w, r, err)
		return
	}
	config.JSON(w, http.StatusOK, resp)
}

func (h *Handler) Calendar(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	start, ok := dateValue(w, q.Get("start"), util.Date{})
	if !ok {
		return
	}
	end, ok := dateValue(w, q.Get("end"), util.Date{})
	if !ok {
		return
	}

	resp, err := h.service.BuildCalendar(r.Context(), userID, start, end)
	if err != nil {
		writeError(w, r, err)
		return
	}
	config.JSON(w, http.StatusOK, resp)
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	habitID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	q := r.URL.Query()
	windowDays := DefaultWindowDays
	if raw := q.Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			config.Error(w, http.StatusBadRequest, "days must be an integer")
			return
		}
		windowDays = n
	}
	today, ok := dateValue(w, q.Get("today"), h.today())
	if !ok {
		return
	}

	resp, err := h.service.GetHistory(r.Context(), userID, habitID, windowDays, today)
	if err != nil {
		writeError(w, r, err)
		return
	}
	config.JSON(w, http.StatusOK, resp)
}

func (h *Handler) SetHabitCompletion(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	habitID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	date, err := util.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		config.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	var dto SetCompletionDTO
	if !decode(w, r, &dto) {
		return
	}
	if err := validateStruct(dto); err != nil {
		writeError(w, r, err)
		return
	}

	completion, err := h.service.SetHabitCompletion(r.Context(), userID, habitID, date, *dto.Completed)
	if err != nil {
		writeError(w, r, err)
		return
	}
	config.JSON(w, http.StatusOK, completion)
}

func (h *Handler) CreateSubHabit(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	habitID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var dto CreateSubHabitDTO
	if !decode(w, r, &dto) {
		return
	}

	sub, err := h.service.CreateSubHabit(r.Context(), userID, habitID, dto)
	if err != nil {
		writeError(w, r, err)
		return
	}
	config.JSON(w, http.StatusCreated, sub)
}

func (h *Handler) UpdateSubHabit(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	subHabitID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var dto UpdateSubHabitDTO
	if !decode(w, r, &dto) {
		return
	}

	sub, err := h.service.UpdateSubHabit(r.Context(), userID, subHabitID, dto)
	if err != nil {
		writeError(w, r, err)
		return
	}
	config.JSON(w, http.StatusOK, sub)
}

func (h *Handler) DeleteSubHabit(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	subHabitID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteSubHabit(r.Context(), userID, subHabitID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) SetSubHabitCompletion(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	subHabitID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	date, err := util.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		config.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	var dto SetCompletionDTO
	if !decode(w, r, &dto) {
		return
	}
	if err := validateStruct(dto); err != nil {
		writeError(w, r, err)
		return
	}

	completion, err := h.service.SetSubHabitCompletion(r.Context(), userID, subHabitID, date, *dto.Completed)
	if err != nil {
		writeError(w, r, err)
		return
	}
	config.JSON(w, http.StatusOK, completion)
}
