package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	catalogdomain "github.com/ridewell/motorbill/internal/catalog/domain"
)

type createModelRequest struct {
	Name          string                     `json:"name"`
	BasePrice     int64                      `json:"base_price"`
	Class         catalogdomain.VehicleClass `json:"class"`
	LeaseEligible bool                       `json:"lease_eligible"`
}

func (s *Server) CreateVehicleModel(c *gin.Context) {
	var req createModelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	model, err := s.catalogSvc.Create(c.Request.Context(), catalogdomain.CreateModelRequest{
		Name:          req.Name,
		BasePrice:     req.BasePrice,
		Class:         req.Class,
		LeaseEligible: req.LeaseEligible,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": model})
}

func (s *Server) ListVehicleModels(c *gin.Context) {
	models, err := s.catalogSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": models})
}

func (s *Server) GetVehicleModel(c *gin.Context) {
	model, err := s.catalogSvc.FindByName(c.Request.Context(), c.Param("name"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": model})
}

type updateModelRequest struct {
	BasePrice     *int64                      `json:"base_price"`
	Class         *catalogdomain.VehicleClass `json:"class"`
	LeaseEligible *bool                       `json:"lease_eligible"`
}

func (s *Server) UpdateVehicleModel(c *gin.Context) {
	var req updateModelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	model, err := s.catalogSvc.Update(c.Request.Context(), catalogdomain.UpdateModelRequest{
		Name:          c.Param("name"),
		BasePrice:     req.BasePrice,
		Class:         req.Class,
		LeaseEligible: req.LeaseEligible,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": model})
}

func (s *Server) DeleteVehicleModel(c *gin.Context) {
	if err := s.catalogSvc.Delete(c.Request.Context(), c.Param("name")); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
