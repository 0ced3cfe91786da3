package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	billdomain "github.com/ridewell/motorbill/internal/bill/domain"
	"github.com/ridewell/motorbill/internal/document"
	"github.com/ridewell/motorbill/internal/pricing"
)

type createBillRequest struct {
	Channel    pricing.Channel    `json:"channel"`
	Settlement pricing.Settlement `json:"settlement"`

	CustomerName    string `json:"customer_name"`
	CustomerNIC     string `json:"customer_nic"`
	CustomerAddress string `json:"customer_address"`

	ModelName string `json:"model_name"`
	MotorNo   string `json:"motor_no"`
	ChassisNo string `json:"chassis_no"`

	DownPayment           int64      `json:"down_payment"`
	AdvanceAmount         int64      `json:"advance_amount"`
	EstimatedDeliveryDate *time.Time `json:"estimated_delivery_date"`
}

func (s *Server) CreateBill(c *gin.Context) {
	var req createBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	bill, err := s.billSvc.Create(c.Request.Context(), billdomain.CreateBillRequest{
		Channel:               req.Channel,
		Settlement:            req.Settlement,
		CustomerName:          req.CustomerName,
		CustomerNIC:           req.CustomerNIC,
		CustomerAddress:       req.CustomerAddress,
		ModelName:             req.ModelName,
		MotorNo:               req.MotorNo,
		ChassisNo:             req.ChassisNo,
		DownPayment:           req.DownPayment,
		AdvanceAmount:         req.AdvanceAmount,
		EstimatedDeliveryDate: req.EstimatedDeliveryDate,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": bill})
}

func (s *Server) GetBill(c *gin.Context) {
	bill, err := s.billSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": bill})
}

func (s *Server) ListBills(c *gin.Context) {
	bills, err := s.billSvc.List(c.Request.Context(), billdomain.ListBillRequest{
		Status:    billdomain.BillStatus(strings.ToUpper(strings.TrimSpace(c.Query("status")))),
		Channel:   pricing.Channel(strings.ToUpper(strings.TrimSpace(c.Query("channel")))),
		ModelName: c.Query("model_name"),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": bills})
}

func (s *Server) CompleteBill(c *gin.Context) {
	bill, err := s.billSvc.Complete(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": bill})
}

type convertBillRequest struct {
	Settlement  pricing.Settlement `json:"settlement"`
	DownPayment int64              `json:"down_payment"`
	Resnapshot  bool               `json:"resnapshot"`
}

func (s *Server) ConvertBill(c *gin.Context) {
	var req convertBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.billSvc.Convert(c.Request.Context(), billdomain.ConvertBillRequest{
		ID:          c.Param("id"),
		Settlement:  req.Settlement,
		DownPayment: req.DownPayment,
		Resnapshot:  req.Resnapshot,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) CancelBill(c *gin.Context) {
	bill, err := s.billSvc.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": bill})
}

func (s *Server) DeleteBill(c *gin.Context) {
	if err := s.billSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

const (
	contentTypePDF  = "application/pdf"
	contentTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

func (s *Server) RenderBillDocument(c *gin.Context) {
	format := document.Format(strings.ToLower(c.DefaultQuery("format", string(document.FormatPDF))))
	if !format.Valid() {
		AbortWithError(c, document.ErrUnknownFormat)
		return
	}

	bill, err := s.billSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	out, err := s.renderer.Render(bill, bill.Breakdown(), format)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	contentType := contentTypePDF
	if format == document.FormatDOCX {
		contentType = contentTypeDOCX
	}
	filename := bill.DisplayNumber + "." + string(format)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, out)
}

func (s *Server) RunReconcile(c *gin.Context) {
	result, err := s.reconcileSvc.Run(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}
