package handlers

import (
	"net/http"

	"turnos/models"
	"turnos/services/directory"
	"turnos/utils"

	"github.com/gin-gonic/gin"
)

type DirectoryHandler struct {
	Directory directory.Service
}

func NewDirectoryHandler(svc directory.Service) *DirectoryHandler {
	return &DirectoryHandler{Directory: svc}
}

func (h *DirectoryHandler) ListProvinces(c *gin.Context) {
	provinces, err := h.Directory.ListProvinces(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.JSONOK(c, http.StatusOK, provinces, "")
}

func (h *DirectoryHandler) GetProvince(c *gin.Context) {
	p, err := h.Directory.GetProvince(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.JSONOK(c, http.StatusOK, p, "")
}

func (h *DirectoryHandler) CreateProvince(c *gin.Context) {
	var req models.CreateProvinceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid province request", utils.ValidationMessage(err))
		return
	}
	p, err := h.Directory.CreateProvince(c.Request.Context(), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.JSONOK(c, http.StatusCreated, p, "Province created")
}

func (h *DirectoryHandler) ListBranchesByProvince(c *gin.Context) {
	branches, err := h.Directory.ListBranchesByProvince(c.Request.Context(), c.Param("provinceId"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.JSONOK(c, http.StatusOK, branches, "")
}

func (h *DirectoryHandler) GetBranch(c *gin.Context) {
	b, err := h.Directory.GetBranch(c.Request.Context(), c.Param("branchId"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.JSONOK(c, http.StatusOK, b, "")
}

func (h *DirectoryHandler) CreateBranch(c *gin.Context) {
	var req models.CreateBranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid branch request", utils.ValidationMessage(err))
		return
	}
	b, err := h.Directory.CreateBranch(c.Request.Context(), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.JSONOK(c, http.StatusCreated, b, "Branch created")
}

func (h *DirectoryHandler) ListProfessionalsByBranch(c *gin.Context) {
	pros, err := h.Directory.ListProfessionalsByBranch(c.Request.Context(), c.Param("branchId"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.JSONOK(c, http.StatusOK, pros, "")
}

func (h *DirectoryHandler) GetProfessional(c *gin.Context) {
	p, err := h.Directory.GetProfessional(c.Request.Context(), c.Param("professionalId"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.JSONOK(c, http.StatusOK, p, "")
}

func (h *DirectoryHandler) CreateProfessional(c *gin.Context) {
	var req models.CreateProfessionalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid professional request", utils.ValidationMessage(err))
		return
	}
	p, err := h.Directory.CreateProfessional(c.Request.Context(), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.JSONOK(c, http.StatusCreated, p, "Professional created")
}
