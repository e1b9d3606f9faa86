package http

import (
	"net/http"

	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/organization"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type OrganizationHandler interface {
	Tree(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Search(w http.ResponseWriter, r *http.Request)
}

type organizationHandlerImpl struct {
	orgService organization.OrganizationService
}

func NewOrganizationHandler(orgService organization.OrganizationService) OrganizationHandler {
	return &organizationHandlerImpl{orgService: orgService}
}

func (h *organizationHandlerImpl) Tree(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.orgService.Tree())
}

func (h *organizationHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	node, err := h.orgService.Find(chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, node)
}

func (h *organizationHandlerImpl) Search(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.orgService.Search(r.URL.Query().Get("q")))
}
