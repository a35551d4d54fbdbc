package transfers

import (
	"errors"
	"strings"

	authsvc "clubhub-backend/internal/application/auth"
	transfersvc "clubhub-backend/internal/application/transfers"
	"clubhub-backend/internal/domain"
	"clubhub-backend/internal/middleware"
	"clubhub-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

type Handlers struct {
	Service *transfersvc.Service
}

// transferIDBody is the body shared by approve, purchase, cancel and reconcile.
type transferIDBody struct {
	TransferID string `json:"transfer_id"`
}

// getActor builds the engine identity from the session user.
func getActor(c *fiber.Ctx) (transfersvc.Actor, bool) {
	user, err := authsvc.VerifyUser(middleware.GetUser(c))
	if err != nil {
		return transfersvc.Actor{}, false
	}
	actor, err := user.Actor()
	if err != nil {
		return transfersvc.Actor{}, false
	}
	return actor, true
}

func parseUUID(field, raw string) (uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uuid.Nil, errors.New("Missing required field: " + field)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errors.New("Invalid UUID format for " + field)
	}
	return id, nil
}

// statusFilter reads ?status=; empty means no filter.
func statusFilter(c *fiber.Ctx) (domain.TransferStatus, error) {
	raw := strings.ToUpper(strings.TrimSpace(c.Query("status")))
	if raw == "" {
		return "", nil
	}
	st := domain.TransferStatus(raw)
	if !st.Valid() {
		return "", errors.New("Invalid status filter: " + raw)
	}
	return st, nil
}

// writeError maps engine error kinds onto HTTP statuses.
func writeError(c *fiber.Ctx, err error) error {
	var e *transfersvc.Error
	if !errors.As(err, &e) {
		log.Error().Err(err).Str("trace_id", middleware.GetTraceID(c)).Str("path", c.Path()).Msg("transfer request failed")
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	switch e.Kind {
	case transfersvc.KindValidation:
		return response.Error(c, e.Message, fiber.StatusBadRequest, nil)
	case transfersvc.KindAuthorization:
		return response.Forbidden(c, e.Message)
	case transfersvc.KindNotFound:
		return response.Error(c, e.Message, fiber.StatusNotFound, nil)
	case transfersvc.KindInvalidState:
		return response.Error(c, e.Message, fiber.StatusConflict, nil)
	case transfersvc.KindTimeout:
		return response.Error(c, e.Message, fiber.StatusGatewayTimeout, nil)
	case transfersvc.KindPartialFailure:
		return response.Error(c, e.Message, fiber.StatusInternalServerError, fiber.Map{"reconciliation_required": true})
	}
	log.Error().Err(err).Str("trace_id", middleware.GetTraceID(c)).Msg("unmapped transfer error")
	return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
}

// SubmitTransfer POST /api/v1/transfers/submit-transfer
func (h *Handlers) SubmitTransfer(c *fiber.Ctx) error {
	actor, ok := getActor(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}
	var body struct {
		PlayerID          string `json:"player_id"`
		SourceClubID      string `json:"source_club_id"`
		DestinationClubID string `json:"destination_club_id"`
		Remarks           string `json:"remarks"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	// players submit for themselves unless the body says otherwise
	if body.PlayerID == "" && actor.PlayerID != nil {
		body.PlayerID = actor.PlayerID.String()
	}
	playerID, err := parseUUID("player_id", body.PlayerID)
	if err != nil {
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	}
	sourceClubID, err := parseUUID("source_club_id", body.SourceClubID)
	if err != nil {
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	}
	in := transfersvc.SubmitInput{PlayerID: playerID, SourceClubID: sourceClubID, Remarks: body.Remarks}
	if body.DestinationClubID != "" {
		dest, err := parseUUID("destination_club_id", body.DestinationClubID)
		if err != nil {
			return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
		}
		in.DestinationClubID = &dest
	}

	view, err := h.Service.Submit(c.UserContext(), actor, in)
	if err != nil {
		return writeError(c, err)
	}
	return response.SuccessCreated(c, "Transfer request submitted", view, nil)
}

// ApproveTransfer POST /api/v1/transfers/approve-transfer
func (h *Handlers) ApproveTransfer(c *fiber.Ctx) error {
	actor, ok := getActor(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}
	var body struct {
		transferIDBody
		ReleaseFee *decimal.Decimal `json:"release_fee"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	id, err := parseUUID("transfer_id", body.TransferID)
	if err != nil {
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	}
	if body.ReleaseFee == nil {
		return response.Error(c, "Missing required field: release_fee", fiber.StatusBadRequest, nil)
	}

	view, err := h.Service.Approve(c.UserContext(), actor, id, *body.ReleaseFee)
	if err != nil {
		return writeError(c, err)
	}
	return response.Success(c, "Transfer request approved", view, nil)
}

// PurchaseTransfer POST /api/v1/transfers/purchase-transfer
func (h *Handlers) PurchaseTransfer(c *fiber.Ctx) error {
	actor, ok := getActor(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}
	var body struct {
		transferIDBody
		TransferFee *decimal.Decimal `json:"transfer_fee"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	id, err := parseUUID("transfer_id", body.TransferID)
	if err != nil {
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	}

	view, err := h.Service.Purchase(c.UserContext(), actor, id, transfersvc.PurchaseInput{TransferFee: body.TransferFee})
	if err != nil {
		return writeError(c, err)
	}
	return response.Success(c, "Transfer completed", view, nil)
}

// CancelTransfer POST /api/v1/transfers/cancel-transfer
func (h *Handlers) CancelTransfer(c *fiber.Ctx) error {
	actor, ok := getActor(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}
	var body transferIDBody
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	id, err := parseUUID("transfer_id", body.TransferID)
	if err != nil {
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	}

	view, err := h.Service.Cancel(c.UserContext(), actor, id)
	if err != nil {
		return writeError(c, err)
	}
	return response.Success(c, "Transfer request cancelled", view, nil)
}

// ReconcileTransfer POST /api/v1/transfers/reconcile-transfer
func (h *Handlers) ReconcileTransfer(c *fiber.Ctx) error {
	actor, ok := getActor(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}
	var body transferIDBody
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	id, err := parseUUID("transfer_id", body.TransferID)
	if err != nil {
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	}

	view, err := h.Service.Reconcile(c.UserContext(), actor, id)
	if err != nil {
		return writeError(c, err)
	}
	return response.Success(c, "Transfer reconciled", view, nil)
}

// Market GET /api/v1/transfers/market
func (h *Handlers) Market(c *fiber.Ctx) error {
	actor, ok := getActor(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}
	listings, err := h.Service.ListInMarket(c.UserContext(), actor)
	if err != nil {
		return writeError(c, err)
	}
	return response.Success(c, "Market listings fetched successfully", listings, fiber.Map{"count": len(listings)})
}

// ClubTransfers GET /api/v1/transfers/club-transfers?status=
// Staff see their own club; admins may pass ?club_id=.
func (h *Handlers) ClubTransfers(c *fiber.Ctx) error {
	actor, ok := getActor(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}
	status, err := statusFilter(c)
	if err != nil {
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	}

	var clubID uuid.UUID
	switch {
	case actor.IsAdmin() && c.Query("club_id") != "":
		if clubID, err = parseUUID("club_id", c.Query("club_id")); err != nil {
			return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
		}
	case actor.IsClubStaff():
		clubID = *actor.ClubID
	default:
		return response.Forbidden(c, "Only club staff can view club transfers")
	}

	views, err := h.Service.ListForClub(c.UserContext(), clubID)
	if err != nil {
		return writeError(c, err)
	}
	views = transfersvc.FilterByStatus(views, status)
	return response.Success(c, "Club transfers fetched successfully", views, fiber.Map{"count": len(views)})
}

// PlayerTransfers GET /api/v1/transfers/player-transfers/:player_id?status=
// Players may only read their own history.
func (h *Handlers) PlayerTransfers(c *fiber.Ctx) error {
	actor, ok := getActor(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}
	playerID, err := parseUUID("player_id", c.Params("player_id"))
	if err != nil {
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	}
	status, err := statusFilter(c)
	if err != nil {
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	}
	if actor.PlayerID != nil && !actor.IsPlayer(playerID) {
		return response.Forbidden(c, "Players can only view their own transfers")
	}

	views, err := h.Service.ListForPlayer(c.UserContext(), playerID)
	if err != nil {
		return writeError(c, err)
	}
	views = transfersvc.FilterByStatus(views, status)
	return response.Success(c, "Player transfers fetched successfully", views, fiber.Map{"count": len(views)})
}

// AllTransfers GET /api/v1/transfers/all-transfers?status=
func (h *Handlers) AllTransfers(c *fiber.Ctx) error {
	actor, ok := getActor(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}
	status, err := statusFilter(c)
	if err != nil {
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	}
	views, err := h.Service.ListAll(c.UserContext(), actor)
	if err != nil {
		return writeError(c, err)
	}
	views = transfersvc.FilterByStatus(views, status)
	return response.Success(c, "Transfers fetched successfully", views, fiber.Map{"count": len(views)})
}

// GetTransfer GET /api/v1/transfers/get-transfer/:transfer_id
func (h *Handlers) GetTransfer(c *fiber.Ctx) error {
	actor, ok := getActor(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}
	id, err := parseUUID("transfer_id", c.Params("transfer_id"))
	if err != nil {
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	}
	view, err := h.Service.Get(c.UserContext(), actor, id)
	if err != nil {
		return writeError(c, err)
	}
	return response.Success(c, "Transfer fetched successfully", view, nil)
}

// History GET /api/v1/transfers/history/:transfer_id
func (h *Handlers) History(c *fiber.Ctx) error {
	actor, ok := getActor(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}
	id, err := parseUUID("transfer_id", c.Params("transfer_id"))
	if err != nil {
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	}
	events, err := h.Service.History(c.UserContext(), actor, id)
	if err != nil {
		return writeError(c, err)
	}
	return response.Success(c, "Transfer history fetched successfully", events, fiber.Map{"count": len(events)})
}
