package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/member"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

const (
	maxImageUpload = 5 << 20
	maxSheetUpload = 10 << 20
)

type MemberHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	Import(w http.ResponseWriter, r *http.Request)
	ImportSpreadsheet(w http.ResponseWriter, r *http.Request)
	ExportSpreadsheet(w http.ResponseWriter, r *http.Request)
	Metadata(w http.ResponseWriter, r *http.Request)
	UploadImage(w http.ResponseWriter, r *http.Request)
}

type memberHandlerImpl struct {
	memberService member.MemberService
}

func NewMemberHandler(memberService member.MemberService) MemberHandler {
	return &memberHandlerImpl{memberService: memberService}
}

// List implements MemberHandler.
func (h *memberHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	members, err := h.memberService.ListMembers(r.Context(), member.MemberFilter{
		Organization: query.Get("organization"),
		Team:         query.Get("team"),
		Query:        query.Get("q"),
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Keyed(w, http.StatusOK, "members", members)
}

// Get implements MemberHandler.
func (h *memberHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	m, err := h.memberService.GetMember(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Keyed(w, http.StatusOK, "member", m)
}

// Create implements MemberHandler.
func (h *memberHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req member.CreateMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "요청 형식이 올바르지 않습니다", nil)
		return
	}

	created, err := h.memberService.CreateMember(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Keyed(w, http.StatusOK, "member", created)
}

// Update implements MemberHandler. The id travels in the body.
func (h *memberHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req member.UpdateMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "요청 형식이 올바르지 않습니다", nil)
		return
	}

	updated, err := h.memberService.UpdateMember(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Keyed(w, http.StatusOK, "member", updated)
}

// Delete implements MemberHandler. The id travels in the query string.
func (h *memberHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if err := h.memberService.DeleteMember(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}
	response.Keyed(w, http.StatusOK, "id", id)
}

// Import implements MemberHandler.
func (h *memberHandlerImpl) Import(w http.ResponseWriter, r *http.Request) {
	var req member.BulkImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "요청 형식이 올바르지 않습니다", nil)
		return
	}

	count, err := h.memberService.ImportMembers(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Keyed(w, http.StatusOK, "count", count)
}

// ImportSpreadsheet implements MemberHandler.
func (h *memberHandlerImpl) ImportSpreadsheet(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxSheetUpload)
	if err := r.ParseMultipartForm(maxSheetUpload); err != nil {
		slog.Error("Failed to parse multipart form", "error", err)
		response.BadRequest(w, "파일을 읽을 수 없습니다", nil)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			response.BadRequest(w, "file 항목은 필수입니다", nil)
			return
		}
		response.BadRequest(w, "파일을 읽을 수 없습니다", nil)
		return
	}
	defer file.Close()

	count, err := h.memberService.ImportSpreadsheet(r.Context(), file)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Keyed(w, http.StatusOK, "count", count)
}

// ExportSpreadsheet implements MemberHandler.
func (h *memberHandlerImpl) ExportSpreadsheet(w http.ResponseWriter, r *http.Request) {
	filename := fmt.Sprintf("members-%s.xlsx", time.Now().Format("20060102"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := h.memberService.ExportSpreadsheet(r.Context(), w); err != nil {
		// Headers may already be out; log and give up.
		slog.Error("Failed to export members", "error", err)
	}
}

// Metadata implements MemberHandler.
func (h *memberHandlerImpl) Metadata(w http.ResponseWriter, r *http.Request) {
	meta, err := h.memberService.Metadata(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, meta)
}

// UploadImage implements MemberHandler.
func (h *memberHandlerImpl) UploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImageUpload+(1<<20))
	if err := r.ParseMultipartForm(maxImageUpload); err != nil {
		slog.Error("Failed to parse multipart form", "error", err)
		response.BadRequest(w, "이미지 파일은 5MB 이하여야 합니다", nil)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			response.BadRequest(w, "image 항목은 필수입니다", nil)
			return
		}
		response.BadRequest(w, "파일을 읽을 수 없습니다", nil)
		return
	}
	defer file.Close()

	updated, err := h.memberService.UploadImage(r.Context(), member.UploadImageRequest{
		MemberID:    chi.URLParam(r, "id"),
		File:        file,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Keyed(w, http.StatusOK, "member", updated)
}
