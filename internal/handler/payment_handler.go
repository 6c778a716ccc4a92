package handler

import (
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academia-api/internal/service"
	appErrors "github.com/noah-isme/academia-api/pkg/errors"
	"github.com/noah-isme/academia-api/pkg/response"
)

// PaymentHandler exposes payment plans, voucher upload and review.
type PaymentHandler struct {
	payments     *service.PaymentService
	maxUpload    int64
	downloadPath string
}

// NewPaymentHandler constructs PaymentHandler. downloadPath is the public route serving signed vouchers.
func NewPaymentHandler(payments *service.PaymentService, maxUpload int64, downloadPath string) *PaymentHandler {
	if maxUpload <= 0 {
		maxUpload = 5 << 20
	}
	return &PaymentHandler{payments: payments, maxUpload: maxUpload, downloadPath: downloadPath}
}

// PlanByEnrollment godoc
// @Summary Payment plan of an enrollment
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Enrollment ID"
// @Success 200 {object} response.Envelope
// @Router /enrollments/{id}/payment-plan [get]
func (h *PaymentHandler) PlanByEnrollment(c *gin.Context) {
	plan, err := h.payments.PlanByEnrollment(c.Request.Context(), claimsFromContext(c), c.Param("id"))
	respond(c, plan, err)
}

// SubmitVoucher godoc
// @Summary Upload a payment voucher
// @Description Accepts JPEG, PNG or PDF under the configured size limit
// @Tags Payments
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "Installment ID"
// @Param file formData file true "Voucher"
// @Success 200 {object} response.Envelope
// @Failure 413 {object} response.Envelope
// @Router /installments/{id}/voucher [post]
func (h *PaymentHandler) SubmitVoucher(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "file is required"))
		return
	}
	if header.Size > h.maxUpload {
		response.Error(c, appErrors.ErrPayloadTooLarge)
		return
	}
	file, err := header.Open()
	if err != nil {
		response.Error(c, appErrors.Internal(err, "failed to read upload"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxUpload+1))
	if err != nil {
		response.Error(c, appErrors.Internal(err, "failed to read upload"))
		return
	}
	inst, err := h.payments.SubmitVoucher(c.Request.Context(), claimsFromContext(c), c.Param("id"), service.VoucherUpload{
		Filename: header.Filename,
		Data:     data,
	})
	respond(c, inst, err)
}

// Approve godoc
// @Summary Approve an installment voucher
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Installment ID"
// @Success 200 {object} response.Envelope
// @Router /installments/{id}/approve [post]
func (h *PaymentHandler) Approve(c *gin.Context) {
	inst, err := h.payments.Approve(c.Request.Context(), c.Param("id"))
	respond(c, inst, err)
}

// Reject godoc
// @Summary Reject an installment voucher
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Installment ID"
// @Success 200 {object} response.Envelope
// @Router /installments/{id}/reject [post]
func (h *PaymentHandler) Reject(c *gin.Context) {
	inst, err := h.payments.Reject(c.Request.Context(), c.Param("id"))
	respond(c, inst, err)
}

// ListPending godoc
// @Summary Installments awaiting review
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /installments/pending [get]
func (h *PaymentHandler) ListPending(c *gin.Context) {
	items, err := h.payments.ListPending(c.Request.Context())
	respond(c, items, err)
}

// VoucherLink godoc
// @Summary Signed download link for a voucher
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Installment ID"
// @Success 200 {object} response.Envelope
// @Router /installments/{id}/voucher-link [get]
func (h *PaymentHandler) VoucherLink(c *gin.Context) {
	link, err := h.payments.VoucherLink(c.Request.Context(), claimsFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{
		"token":      link.Token,
		"expires_at": link.ExpiresAt,
		"url":        h.downloadPath + "?token=" + url.QueryEscape(link.Token),
	})
}

// DownloadVoucher godoc
// @Summary Download a voucher with a signed token
// @Tags Payments
// @Produce octet-stream
// @Param token query string true "Signed token"
// @Success 200 {file} file
// @Failure 403 {object} response.Envelope
// @Router /vouchers/download [get]
func (h *PaymentHandler) DownloadVoucher(c *gin.Context) {
	voucher, err := h.payments.OpenVoucher(c.Request.Context(), c.Query("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer voucher.File.Close()

	info, err := voucher.File.Stat()
	if err != nil {
		response.Error(c, appErrors.Internal(err, "failed to read voucher"))
		return
	}
	c.DataFromReader(http.StatusOK, info.Size(), voucher.ContentType, voucher.File, map[string]string{
		"Content-Disposition": fmt.Sprintf("inline; filename=%q", voucher.Filename),
	})
}

// Receipt godoc
// @Summary PDF receipt of a paid installment
// @Tags Payments
// @Produce application/pdf
// @Security BearerAuth
// @Param id path string true "Installment ID"
// @Success 200 {file} file
// @Failure 412 {object} response.Envelope
// @Router /installments/{id}/receipt [get]
func (h *PaymentHandler) Receipt(c *gin.Context) {
	id := c.Param("id")
	body, err := h.payments.Receipt(c.Request.Context(), claimsFromContext(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, fmt.Sprintf("receipt-%s.pdf", id), "application/pdf", body)
}
