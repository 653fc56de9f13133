// Package http exposes the orchestrator's REST API: customer request
// lifecycle, admin operations, robot telemetry ingest, and the read-side
// queries. Every route delegates to a command or query handler; the server
// itself only binds, validates transport-level input, and maps errors to
// status codes.
package http

import (
	"errors"
	"net/http"
	"strconv"

	"laundrybot/internal/adapters/out/notify"
	"laundrybot/internal/core/application/usecases/commands"
	"laundrybot/internal/core/application/usecases/queries"
	"laundrybot/internal/core/domain/model/payment"
	"laundrybot/internal/core/domain/model/request"
	"laundrybot/internal/core/domain/model/robot"
	"laundrybot/internal/core/registry"
	"laundrybot/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Server wires the HTTP routes to the application use cases.
type Server struct {
	// Command handlers
	submitRequestHandler     commands.SubmitRequestCommandHandler
	acceptRequestHandler     commands.AcceptRequestCommandHandler
	declineRequestHandler    commands.DeclineRequestCommandHandler
	dispatchRobotHandler     commands.DispatchRobotCommandHandler
	reportStageHandler       commands.ReportStageCommandHandler
	recordWeightHandler      commands.RecordWeightCommandHandler
	recordPaymentHandler     commands.RecordPaymentCommandHandler
	cancelRequestHandler     commands.CancelRequestCommandHandler
	recordAdjustmentHandler  commands.RecordAdjustmentCommandHandler
	registerBeaconHandler    commands.RegisterBeaconCommandHandler
	registerHeartbeatHandler commands.RegisterHeartbeatCommandHandler
	beaconProximityHandler   commands.BeaconProximityCommandHandler

	// Query handlers
	getRequestHandler        queries.GetRequestQueryHandler
	getActiveRequestHandler  queries.GetActiveRequestQueryHandler
	getRequestHistoryHandler queries.GetRequestHistoryQueryHandler
	getFleetSummaryHandler   queries.GetFleetSummaryQueryHandler
	getBeaconsHandler        queries.GetBeaconsQueryHandler

	fleet         *registry.Registry
	subscriptions *notify.SubscriptionStore
}

// Handlers groups the use case dependencies so NewServer stays readable.
type Handlers struct {
	SubmitRequest     commands.SubmitRequestCommandHandler
	AcceptRequest     commands.AcceptRequestCommandHandler
	DeclineRequest    commands.DeclineRequestCommandHandler
	DispatchRobot     commands.DispatchRobotCommandHandler
	ReportStage       commands.ReportStageCommandHandler
	RecordWeight      commands.RecordWeightCommandHandler
	RecordPayment     commands.RecordPaymentCommandHandler
	CancelRequest     commands.CancelRequestCommandHandler
	RecordAdjustment  commands.RecordAdjustmentCommandHandler
	RegisterBeacon    commands.RegisterBeaconCommandHandler
	RegisterHeartbeat commands.RegisterHeartbeatCommandHandler
	BeaconProximity   commands.BeaconProximityCommandHandler

	GetRequest        queries.GetRequestQueryHandler
	GetActiveRequest  queries.GetActiveRequestQueryHandler
	GetRequestHistory queries.GetRequestHistoryQueryHandler
	GetFleetSummary   queries.GetFleetSummaryQueryHandler
	GetBeacons        queries.GetBeaconsQueryHandler
}

// NewServer creates the HTTP server facade.
func NewServer(handlers Handlers, fleet *registry.Registry, subscriptions *notify.SubscriptionStore) *Server {
	return &Server{
		submitRequestHandler:     handlers.SubmitRequest,
		acceptRequestHandler:     handlers.AcceptRequest,
		declineRequestHandler:    handlers.DeclineRequest,
		dispatchRobotHandler:     handlers.DispatchRobot,
		reportStageHandler:       handlers.ReportStage,
		recordWeightHandler:      handlers.RecordWeight,
		recordPaymentHandler:     handlers.RecordPayment,
		cancelRequestHandler:     handlers.CancelRequest,
		recordAdjustmentHandler:  handlers.RecordAdjustment,
		registerBeaconHandler:    handlers.RegisterBeacon,
		registerHeartbeatHandler: handlers.RegisterHeartbeat,
		beaconProximityHandler:   handlers.BeaconProximity,
		getRequestHandler:        handlers.GetRequest,
		getActiveRequestHandler:  handlers.GetActiveRequest,
		getRequestHistoryHandler: handlers.GetRequestHistory,
		getFleetSummaryHandler:   handlers.GetFleetSummary,
		getBeaconsHandler:        handlers.GetBeacons,
		fleet:                    fleet,
		subscriptions:            subscriptions,
	}
}

// RegisterRoutes attaches every route. The ingest middleware throttles the
// robot telemetry endpoints; the cache middleware shields the polled query
// endpoints.
func (s *Server) RegisterRoutes(e *echo.Echo, ingestLimit echo.MiddlewareFunc, queryCache echo.MiddlewareFunc) {
	api := e.Group("/api/v1")

	// Customer
	api.POST("/requests", s.SubmitRequest)
	api.GET("/requests/:id", s.GetRequest, queryCache)
	api.POST("/requests/:id/cancel", s.CancelRequest)
	api.GET("/customers/:customerId/requests/active", s.GetActiveRequest, queryCache)
	api.GET("/customers/:customerId/requests", s.GetRequestHistory, queryCache)
	api.POST("/subscriptions", s.RegisterSubscription)

	// Admin
	api.POST("/requests/:id/accept", s.AcceptRequest)
	api.POST("/requests/:id/decline", s.DeclineRequest)
	api.POST("/requests/:id/dispatch", s.DispatchRobot)
	api.POST("/requests/:id/stage", s.ReportStage)
	api.POST("/requests/:id/weight", s.RecordWeight)
	api.POST("/requests/:id/payment", s.RecordPayment)
	api.POST("/requests/:id/adjustments", s.RecordAdjustment)
	api.GET("/fleet", s.GetFleetSummary)
	api.PUT("/robots/:name/active", s.SetRobotActive)
	api.PUT("/robots/:name/accepts-requests", s.SetRobotAcceptsRequests)
	api.POST("/beacons", s.RegisterBeacon)
	api.GET("/beacons", s.GetBeacons, queryCache)

	// Robot telemetry ingest (HTTP mirror of the MQTT topics)
	api.POST("/robots/:name/heartbeat", s.RobotHeartbeat, ingestLimit)
	api.POST("/robots/:name/beacon", s.RobotBeacon, ingestLimit)
}

// errorBody is the uniform error payload.
type errorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// fail maps an application error to a status code. Validation problems are
// the client's fault, lifecycle conflicts are state the client raced with,
// everything else is ours.
func fail(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		status = http.StatusNotFound
	case errors.Is(err, request.ErrInvalidTransition),
		errors.Is(err, request.ErrAlreadyInState),
		errors.Is(err, commands.ErrRefundRequired),
		errors.Is(err, commands.ErrNoRobotAvailable),
		errors.Is(err, commands.ErrCustomerHasActiveRequest):
		status = http.StatusConflict
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		status = http.StatusBadRequest
	}
	return c.JSON(status, errorBody{Code: status, Message: err.Error()})
}

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, errorBody{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}

func requestID(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}

// SubmitRequest handles POST /api/v1/requests.
func (s *Server) SubmitRequest(c echo.Context) error {
	var body struct {
		CustomerID   string `json:"customer_id"`
		CustomerName string `json:"customer_name"`
		Flow         string `json:"flow"`
		Room         string `json:"room"`
	}
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}

	flow, err := request.FlowFromString(body.Flow)
	if err != nil {
		return fail(c, err)
	}

	cmd, err := commands.NewSubmitRequestCommand(body.CustomerID, body.CustomerName, flow, body.Room)
	if err != nil {
		return badRequest(c, err.Error())
	}

	id, err := s.submitRequestHandler.Handle(c.Request().Context(), cmd)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]int64{"id": id})
}

// AcceptRequest handles POST /api/v1/requests/:id/accept.
func (s *Server) AcceptRequest(c echo.Context) error {
	id, err := requestID(c)
	if err != nil {
		return badRequest(c, "Invalid request id")
	}

	var body struct {
		PricePerKgCents    int64 `json:"price_per_kg_cents"`
		MinimumChargeCents int64 `json:"minimum_charge_cents"`
	}
	if err = c.Bind(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}

	cmd, err := commands.NewAcceptRequestCommand(id, body.PricePerKgCents, body.MinimumChargeCents)
	if err != nil {
		return badRequest(c, err.Error())
	}

	if err = s.acceptRequestHandler.Handle(c.Request().Context(), cmd); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// DeclineRequest handles POST /api/v1/requests/:id/decline.
func (s *Server) DeclineRequest(c echo.Context) error {
	id, err := requestID(c)
	if err != nil {
		return badRequest(c, "Invalid request id")
	}

	var body struct {
		Reason string `json:"reason"`
	}
	if err = c.Bind(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}

	cmd, err := commands.NewDeclineRequestCommand(id, body.Reason)
	if err != nil {
		return badRequest(c, err.Error())
	}

	if err = s.declineRequestHandler.Handle(c.Request().Context(), cmd); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// DispatchRobot handles POST /api/v1/requests/:id/dispatch. The dispatch
// job does this automatically; the endpoint exists so an operator can force
// a retry without waiting for the next tick.
func (s *Server) DispatchRobot(c echo.Context) error {
	id, err := requestID(c)
	if err != nil {
		return badRequest(c, "Invalid request id")
	}

	cmd, err := commands.NewDispatchRobotCommand(id)
	if err != nil {
		return badRequest(c, err.Error())
	}

	if err = s.dispatchRobotHandler.Handle(c.Request().Context(), cmd); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ReportStage handles POST /api/v1/requests/:id/stage.
func (s *Server) ReportStage(c echo.Context) error {
	id, err := requestID(c)
	if err != nil {
		return badRequest(c, "Invalid request id")
	}

	var body struct {
		Action string `json:"action"`
	}
	if err = c.Bind(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}

	action, err := commands.StageActionFromString(body.Action)
	if err != nil {
		return fail(c, err)
	}

	cmd, err := commands.NewReportStageCommand(id, action)
	if err != nil {
		return badRequest(c, err.Error())
	}

	if err = s.reportStageHandler.Handle(c.Request().Context(), cmd); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// RecordWeight handles POST /api/v1/requests/:id/weight.
func (s *Server) RecordWeight(c echo.Context) error {
	id, err := requestID(c)
	if err != nil {
		return badRequest(c, "Invalid request id")
	}

	var body struct {
		WeightKg float64 `json:"weight_kg"`
	}
	if err = c.Bind(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}

	cmd, err := commands.NewRecordWeightCommand(id, body.WeightKg)
	if err != nil {
		return badRequest(c, err.Error())
	}

	if err = s.recordWeightHandler.Handle(c.Request().Context(), cmd); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// RecordPayment handles POST /api/v1/requests/:id/payment.
func (s *Server) RecordPayment(c echo.Context) error {
	id, err := requestID(c)
	if err != nil {
		return badRequest(c, "Invalid request id")
	}

	var body struct {
		Method    string `json:"method"`
		Reference string `json:"reference"`
		Notes     string `json:"notes"`
	}
	if err = c.Bind(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}

	cmd, err := commands.NewRecordPaymentCommand(id, body.Method, body.Reference, body.Notes)
	if err != nil {
		return badRequest(c, err.Error())
	}

	if err = s.recordPaymentHandler.Handle(c.Request().Context(), cmd); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// CancelRequest handles POST /api/v1/requests/:id/cancel.
func (s *Server) CancelRequest(c echo.Context) error {
	id, err := requestID(c)
	if err != nil {
		return badRequest(c, "Invalid request id")
	}

	var body struct {
		Reason       string `json:"reason"`
		Actor        string `json:"actor"`
		RefundCents  int64  `json:"refund_cents"`
		RefundReason string `json:"refund_reason"`
	}
	if err = c.Bind(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}

	cmd, err := commands.NewCancelRequestCommand(id, body.Reason, body.Actor, body.RefundCents, body.RefundReason)
	if err != nil {
		return badRequest(c, err.Error())
	}

	if err = s.cancelRequestHandler.Handle(c.Request().Context(), cmd); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// RecordAdjustment handles POST /api/v1/requests/:id/adjustments.
func (s *Server) RecordAdjustment(c echo.Context) error {
	id, err := requestID(c)
	if err != nil {
		return badRequest(c, "Invalid request id")
	}

	var body struct {
		Kind        string `json:"kind"`
		AmountCents int64  `json:"amount_cents"`
		Reason      string `json:"reason"`
		Actor       string `json:"actor"`
	}
	if err = c.Bind(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}

	kind, err := payment.KindFromString(body.Kind)
	if err != nil {
		return fail(c, err)
	}

	cmd, err := commands.NewRecordAdjustmentCommand(id, kind, body.AmountCents, body.Reason, body.Actor)
	if err != nil {
		return badRequest(c, err.Error())
	}

	if err = s.recordAdjustmentHandler.Handle(c.Request().Context(), cmd); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusCreated)
}

// RegisterBeacon handles POST /api/v1/beacons.
func (s *Server) RegisterBeacon(c echo.Context) error {
	var body struct {
		Mac           string `json:"mac"`
		Room          string `json:"room"`
		RssiThreshold int    `json:"rssi_threshold"`
		IsBase        bool   `json:"is_base"`
	}
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}

	cmd, err := commands.NewRegisterBeaconCommand(body.Mac, body.Room, body.RssiThreshold, body.IsBase)
	if err != nil {
		return badRequest(c, err.Error())
	}

	if err = s.registerBeaconHandler.Handle(c.Request().Context(), cmd); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusCreated)
}

// RobotHeartbeat handles POST /api/v1/robots/:name/heartbeat.
func (s *Server) RobotHeartbeat(c echo.Context) error {
	var body struct {
		Task         string  `json:"task"`
		Beacon       string  `json:"beacon"`
		LinePosition float64 `json:"line_position"`
		IP           string  `json:"ip"`
		Faulted      bool    `json:"faulted"`
	}
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}

	cmd, err := commands.NewRegisterHeartbeatCommand(c.Param("name"), robot.Heartbeat{
		CurrentTask:   body.Task,
		LastBeaconMac: body.Beacon,
		LinePosition:  body.LinePosition,
		IP:            body.IP,
	}, body.Faulted)
	if err != nil {
		return badRequest(c, err.Error())
	}

	if err = s.registerHeartbeatHandler.Handle(c.Request().Context(), cmd); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// RobotBeacon handles POST /api/v1/robots/:name/beacon.
func (s *Server) RobotBeacon(c echo.Context) error {
	var body struct {
		Mac  string `json:"mac"`
		Rssi int    `json:"rssi"`
	}
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}

	cmd, err := commands.NewBeaconProximityCommand(c.Param("name"), body.Mac, body.Rssi)
	if err != nil {
		return badRequest(c, err.Error())
	}

	if err = s.beaconProximityHandler.Handle(c.Request().Context(), cmd); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// SetRobotActive handles PUT /api/v1/robots/:name/active.
func (s *Server) SetRobotActive(c echo.Context) error {
	var body struct {
		Active bool `json:"active"`
	}
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := s.fleet.SetActive(c.Request().Context(), c.Param("name"), body.Active); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// SetRobotAcceptsRequests handles PUT /api/v1/robots/:name/accepts-requests.
func (s *Server) SetRobotAcceptsRequests(c echo.Context) error {
	var body struct {
		Accept bool `json:"accept"`
	}
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := s.fleet.SetAcceptsRequests(c.Request().Context(), c.Param("name"), body.Accept); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// RegisterSubscription handles POST /api/v1/subscriptions.
func (s *Server) RegisterSubscription(c echo.Context) error {
	var body struct {
		CustomerID string `json:"customer_id"`
		Endpoint   string `json:"endpoint"`
		P256dh     string `json:"p256dh"`
		Auth       string `json:"auth"`
	}
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if body.CustomerID == "" || body.Endpoint == "" || body.P256dh == "" || body.Auth == "" {
		return badRequest(c, "customer_id, endpoint, p256dh and auth are required")
	}

	err := s.subscriptions.Save(c.Request().Context(), notify.SubscriptionDTO{
		Endpoint:   body.Endpoint,
		CustomerID: body.CustomerID,
		P256dh:     body.P256dh,
		Auth:       body.Auth,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusCreated)
}

// GetRequest handles GET /api/v1/requests/:id.
func (s *Server) GetRequest(c echo.Context) error {
	id, err := requestID(c)
	if err != nil {
		return badRequest(c, "Invalid request id")
	}

	query, err := queries.NewGetRequestQuery(id)
	if err != nil {
		return badRequest(c, err.Error())
	}

	result, err := s.getRequestHandler.Handle(c.Request().Context(), query)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// GetActiveRequest handles GET /api/v1/customers/:customerId/requests/active.
func (s *Server) GetActiveRequest(c echo.Context) error {
	query, err := queries.NewGetActiveRequestQuery(c.Param("customerId"))
	if err != nil {
		return badRequest(c, err.Error())
	}

	result, err := s.getActiveRequestHandler.Handle(c.Request().Context(), query)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// GetRequestHistory handles GET /api/v1/customers/:customerId/requests.
func (s *Server) GetRequestHistory(c echo.Context) error {
	query, err := queries.NewGetRequestHistoryQuery(c.Param("customerId"))
	if err != nil {
		return badRequest(c, err.Error())
	}

	result, err := s.getRequestHistoryHandler.Handle(c.Request().Context(), query)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// GetFleetSummary handles GET /api/v1/fleet.
func (s *Server) GetFleetSummary(c echo.Context) error {
	result, err := s.getFleetSummaryHandler.Handle(c.Request().Context(), queries.GetFleetSummaryQuery{})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// GetBeacons handles GET /api/v1/beacons.
func (s *Server) GetBeacons(c echo.Context) error {
	result, err := s.getBeaconsHandler.Handle(c.Request().Context(), queries.GetBeaconsQuery{})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, result)
}
