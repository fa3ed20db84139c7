package controller

import (
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"china-one/internal/account"
	apperrors "china-one/internal/errors"
	"china-one/internal/reporting"
	"china-one/internal/server"
)

const sessionHeader = "X-Session-Token"

type ReportingController struct {
	reports  *reporting.Service
	sessions *account.Service
	logger   *zap.Logger
}

func NewReportingController(reports *reporting.Service, sessions *account.Service, logger *zap.Logger) *ReportingController {
	return &ReportingController{reports: reports, sessions: sessions, logger: logger}
}

func (c *ReportingController) Summary(w http.ResponseWriter, r *http.Request) {
	logger := c.logger.With(zap.String("traceId", uuid.New().String()))

	if err := c.requireStaff(r); err != nil {
		server.WriteError(w, logger, err)
		return
	}

	summary, err := c.reports.Summary(r.Context())
	if err != nil {
		server.WriteError(w, logger, err)
		return
	}
	server.WriteJSON(w, logger, http.StatusOK, summary)
}

func (c *ReportingController) TopItems(w http.ResponseWriter, r *http.Request) {
	logger := c.logger.With(zap.String("traceId", uuid.New().String()))

	if err := c.requireStaff(r); err != nil {
		server.WriteError(w, logger, err)
		return
	}

	items, err := c.reports.TopItems(r.Context())
	if err != nil {
		server.WriteError(w, logger, err)
		return
	}
	server.WriteJSON(w, logger, http.StatusOK, items)
}

func (c *ReportingController) Customers(w http.ResponseWriter, r *http.Request) {
	logger := c.logger.With(zap.String("traceId", uuid.New().String()))

	if err := c.requireStaff(r); err != nil {
		server.WriteError(w, logger, err)
		return
	}

	stats, err := c.reports.CustomerStats(r.Context())
	if err != nil {
		server.WriteError(w, logger, err)
		return
	}
	server.WriteJSON(w, logger, http.StatusOK, stats)
}

func (c *ReportingController) requireStaff(r *http.Request) error {
	session, err := c.sessions.CurrentSession(r.Header.Get(sessionHeader))
	if err != nil {
		return err
	}
	if session.Kind != account.SessionAdmin {
		return apperrors.NewUnauthenticatedError("staff session required")
	}
	return nil
}
