package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type ScheduleHandler interface {
	GetWeek(w http.ResponseWriter, r *http.Request)
	Previous(w http.ResponseWriter, r *http.Request)
	Next(w http.ResponseWriter, r *http.Request)
	CreateEvent(w http.ResponseWriter, r *http.Request)
	UpdateEvent(w http.ResponseWriter, r *http.Request)
	DeleteEvent(w http.ResponseWriter, r *http.Request)
	Commit(w http.ResponseWriter, r *http.Request)
	Discard(w http.ResponseWriter, r *http.Request)
}

type scheduleHandlerImpl struct {
	scheduleService schedule.ScheduleService
	location        *time.Location
}

func NewScheduleHandler(scheduleService schedule.ScheduleService, location *time.Location) ScheduleHandler {
	return &scheduleHandlerImpl{
		scheduleService: scheduleService,
		location:        location,
	}
}

// writeView answers with the editor state or the mapped error.
func writeView(w http.ResponseWriter, view schedule.WeekView, err error) {
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, view)
}

// GetWeek implements ScheduleHandler. ?date=YYYY-MM-DD jumps to that date's week.
func (h *scheduleHandlerImpl) GetWeek(w http.ResponseWriter, r *http.Request) {
	date, err := schedule.ParseDate(r.URL.Query().Get("date"), h.location)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	view, err := h.scheduleService.GetWeek(r.Context(), chi.URLParam(r, "id"), date)
	writeView(w, view, err)
}

func (h *scheduleHandlerImpl) Previous(w http.ResponseWriter, r *http.Request) {
	view, err := h.scheduleService.PreviousWeek(r.Context(), chi.URLParam(r, "id"))
	writeView(w, view, err)
}

func (h *scheduleHandlerImpl) Next(w http.ResponseWriter, r *http.Request) {
	view, err := h.scheduleService.NextWeek(r.Context(), chi.URLParam(r, "id"))
	writeView(w, view, err)
}

func (h *scheduleHandlerImpl) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req schedule.CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "요청 형식이 올바르지 않습니다", nil)
		return
	}
	view, err := h.scheduleService.CreateEvent(r.Context(), chi.URLParam(r, "id"), req)
	writeView(w, view, err)
}

func (h *scheduleHandlerImpl) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	var req schedule.UpdateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "요청 형식이 올바르지 않습니다", nil)
		return
	}
	view, err := h.scheduleService.UpdateEvent(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "eventID"), req)
	writeView(w, view, err)
}

// DeleteEvent implements ScheduleHandler. Deletion needs ?confirm=true.
func (h *scheduleHandlerImpl) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	confirmed := getBoolQueryParam(r, "confirm", false)
	view, err := h.scheduleService.DeleteEvent(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "eventID"), confirmed)
	writeView(w, view, err)
}

func (h *scheduleHandlerImpl) Commit(w http.ResponseWriter, r *http.Request) {
	resp, err := h.scheduleService.Commit(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if resp.Count == 0 && len(resp.Removed) == 0 {
		response.SuccessWithMessage(w, "제출할 변경 사항이 없습니다", resp)
		return
	}
	response.SuccessWithMessage(w, "일정 변경 요청이 제출되었습니다", resp)
}

func (h *scheduleHandlerImpl) Discard(w http.ResponseWriter, r *http.Request) {
	view, err := h.scheduleService.Discard(r.Context(), chi.URLParam(r, "id"))
	writeView(w, view, err)
}
