package directory

import (
	"errors"
	"strings"

	authsvc "clubhub-backend/internal/application/auth"
	dirsvc "clubhub-backend/internal/application/directory"
	"clubhub-backend/internal/application/policies"
	"clubhub-backend/internal/middleware"
	"clubhub-backend/internal/pkg/constants"
	"clubhub-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Handlers serves clubs, players and account administration.
type Handlers struct {
	Service *dirsvc.Service
	DB      *gorm.DB
	Rdb     *redis.Client
}

func optionalUUID(field, raw string) (*uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, errors.New("Invalid UUID format for " + field)
	}
	return &id, nil
}

func directoryStatus(err error) int {
	switch {
	case errors.Is(err, dirsvc.ErrClubNotFound), errors.Is(err, dirsvc.ErrPlayerNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, dirsvc.ErrClubExists):
		return fiber.StatusConflict
	case errors.Is(err, dirsvc.ErrClubNameRequired), errors.Is(err, dirsvc.ErrPlayerNameRequired),
		errors.Is(err, dirsvc.ErrInvalidPlayerName), errors.Is(err, dirsvc.ErrInvalidPosition),
		errors.Is(err, dirsvc.ErrInvalidAge), errors.Is(err, dirsvc.ErrInvalidJersey):
		return fiber.StatusBadRequest
	}
	return fiber.StatusInternalServerError
}

func writeDirectoryError(c *fiber.Ctx, err error) error {
	status := directoryStatus(err)
	if status == fiber.StatusInternalServerError {
		log.Error().Err(err).Str("trace_id", middleware.GetTraceID(c)).Str("path", c.Path()).Msg("directory request failed")
		return response.Error(c, "Internal Server Error", status, nil)
	}
	return response.Error(c, err.Error(), status, nil)
}

// CreateClub POST /api/v1/clubs/create-club
func (h *Handlers) CreateClub(c *fiber.Ctx) error {
	var body struct {
		ClubName string `json:"club_name"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	club, err := h.Service.CreateClub(c.UserContext(), body.ClubName)
	if err != nil {
		return writeDirectoryError(c, err)
	}
	return response.SuccessCreated(c, "Club created successfully", club, nil)
}

// ListClubs GET /api/v1/clubs/get-all-clubs
func (h *Handlers) ListClubs(c *fiber.Ctx) error {
	clubs, err := h.Service.ListClubs(c.UserContext())
	if err != nil {
		return writeDirectoryError(c, err)
	}
	return response.Success(c, "Clubs fetched successfully", clubs, fiber.Map{"count": len(clubs)})
}

// GetClub GET /api/v1/clubs/get-club/:club_id
func (h *Handlers) GetClub(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("club_id"))
	if err != nil {
		return response.Error(c, "Invalid UUID format for club_id", fiber.StatusBadRequest, nil)
	}
	club, err := h.Service.GetClub(c.UserContext(), id)
	if err != nil {
		return writeDirectoryError(c, err)
	}
	return response.Success(c, "Club fetched successfully", club, nil)
}

// CreatePlayer POST /api/v1/players/create-player. Club owners may only sign
// players into their own club.
func (h *Handlers) CreatePlayer(c *fiber.Ctx) error {
	user, err := authsvc.VerifyUser(middleware.GetUser(c))
	if err != nil {
		return response.Unauthorized(c, "Not authenticated")
	}
	var body struct {
		Name     string `json:"name"`
		Age      int    `json:"age"`
		Jersey   int    `json:"jersey"`
		Position string `json:"position"`
		Injured  bool   `json:"injured"`
		ClubID   string `json:"club_id"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	clubID, err := optionalUUID("club_id", body.ClubID)
	if err != nil {
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	}
	if user.Role != constants.SystemAdmin {
		if clubID == nil || user.ClubID == nil || *user.ClubID != clubID.String() {
			return response.Forbidden(c, "Club owners can only add players to their own club")
		}
	}

	p, err := h.Service.CreatePlayer(c.UserContext(), dirsvc.CreatePlayerInput{
		Name:     body.Name,
		Age:      body.Age,
		Jersey:   body.Jersey,
		Position: body.Position,
		Injured:  body.Injured,
		ClubID:   clubID,
	})
	if err != nil {
		return writeDirectoryError(c, err)
	}
	return response.SuccessCreated(c, "Player created successfully", p, nil)
}

// ListPlayers GET /api/v1/players/get-all-players?club_id=
func (h *Handlers) ListPlayers(c *fiber.Ctx) error {
	clubID, err := optionalUUID("club_id", c.Query("club_id"))
	if err != nil {
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	}
	players, err := h.Service.ListPlayers(c.UserContext(), clubID)
	if err != nil {
		return writeDirectoryError(c, err)
	}
	return response.Success(c, "Players fetched successfully", players, fiber.Map{"count": len(players)})
}

// GetPlayer GET /api/v1/players/get-player/:player_id
func (h *Handlers) GetPlayer(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("player_id"))
	if err != nil {
		return response.Error(c, "Invalid UUID format for player_id", fiber.StatusBadRequest, nil)
	}
	p, err := h.Service.GetPlayer(c.UserContext(), id)
	if err != nil {
		return writeDirectoryError(c, err)
	}
	return response.Success(c, "Player fetched successfully", p, nil)
}

// CreateUser POST /api/v1/users/create-user
func (h *Handlers) CreateUser(c *fiber.Ctx) error {
	var body struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
		ClubID   string `json:"club_id"`
		PlayerID string `json:"player_id"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	clubID, err := optionalUUID("club_id", body.ClubID)
	if err != nil {
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	}
	playerID, err := optionalUUID("player_id", body.PlayerID)
	if err != nil {
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	}
	if clubID != nil {
		if _, err := h.Service.GetClub(c.UserContext(), *clubID); err != nil {
			return writeDirectoryError(c, err)
		}
	}
	if playerID != nil {
		if _, err := h.Service.GetPlayer(c.UserContext(), *playerID); err != nil {
			return writeDirectoryError(c, err)
		}
	}

	u, err := authsvc.CreateUser(c.UserContext(), h.DB, authsvc.CreateUserInput{
		Username: body.Username,
		Email:    body.Email,
		Password: body.Password,
		Role:     body.Role,
		ClubID:   clubID,
		PlayerID: playerID,
	})
	switch {
	case err == nil:
	case errors.Is(err, authsvc.ErrUserExists):
		return response.Error(c, err.Error(), fiber.StatusConflict, nil)
	case errors.Is(err, authsvc.ErrCredentialsRequired), errors.Is(err, authsvc.ErrInvalidRole),
		errors.Is(err, authsvc.ErrRoleNeedsClub), errors.Is(err, authsvc.ErrRoleNeedsPlayer),
		errors.Is(err, authsvc.ErrEmailRequired), errors.Is(err, authsvc.ErrInvalidEmail),
		errors.Is(err, authsvc.ErrInvalidUsername), errors.Is(err, authsvc.ErrWeakPassword):
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	default:
		log.Error().Err(err).Msg("create user failed")
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}

	log.Info().Str("user_id", u.UserID.String()).Str("role", u.Role).Msg("user created")
	return response.SuccessCreated(c, "User created successfully", fiber.Map{
		"user_id":   u.UserID,
		"username":  u.Username,
		"email":     u.Email,
		"role":      u.Role,
		"club_id":   u.ClubID,
		"player_id": u.PlayerID,
	}, nil)
}

func policyStatus(err error) int {
	switch {
	case errors.Is(err, policies.ErrTargetUserNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, policies.ErrUsersCannotModifyOwnRole), errors.Is(err, policies.ErrCannotRemoveYourself):
		return fiber.StatusForbidden
	case errors.Is(err, policies.ErrMustKeepOneAdmin):
		return fiber.StatusConflict
	case errors.Is(err, policies.ErrInvalidTargetRole), errors.Is(err, policies.ErrRoleChangeNeedsClub),
		errors.Is(err, policies.ErrRoleChangeNeedsPlayer):
		return fiber.StatusBadRequest
	}
	return fiber.StatusInternalServerError
}

func writePolicyError(c *fiber.Ctx, err error) error {
	status := policyStatus(err)
	if status == fiber.StatusInternalServerError {
		log.Error().Err(err).Str("trace_id", middleware.GetTraceID(c)).Str("path", c.Path()).Msg("account update failed")
		return response.Error(c, "Internal Server Error", status, nil)
	}
	return response.Error(c, err.Error(), status, nil)
}

// UpdateRole PATCH /api/v1/users/update-role. The target is logged out everywhere.
func (h *Handlers) UpdateRole(c *fiber.Ctx) error {
	actor, err := authsvc.VerifyUser(middleware.GetUser(c))
	if err != nil {
		return response.Unauthorized(c, "Not authenticated")
	}
	var body struct {
		UserID   string `json:"user_id"`
		Role     string `json:"role"`
		ClubID   string `json:"club_id"`
		PlayerID string `json:"player_id"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	targetID, err := uuid.Parse(body.UserID)
	if err != nil {
		return response.Error(c, "Invalid UUID format for user_id", fiber.StatusBadRequest, nil)
	}
	actorID, _ := uuid.Parse(actor.UserID)
	clubID, err := optionalUUID("club_id", body.ClubID)
	if err != nil {
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	}
	playerID, err := optionalUUID("player_id", body.PlayerID)
	if err != nil {
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	}
	if clubID != nil {
		if _, err := h.Service.GetClub(c.UserContext(), *clubID); err != nil {
			return writeDirectoryError(c, err)
		}
	}
	if playerID != nil {
		if _, err := h.Service.GetPlayer(c.UserContext(), *playerID); err != nil {
			return writeDirectoryError(c, err)
		}
	}

	target, err := policies.ValidateRoleAssignment(c.UserContext(), h.DB, policies.RoleAssignment{
		ActorUserID:  actorID,
		TargetUserID: targetID,
		TargetRole:   strings.ToUpper(strings.TrimSpace(body.Role)),
		ClubID:       clubID,
		PlayerID:     playerID,
	})
	if err != nil {
		return writePolicyError(c, err)
	}
	if err := h.DB.WithContext(c.UserContext()).Model(target).Select("role", "club_id", "player_id").
		Updates(map[string]interface{}{"role": target.Role, "club_id": target.ClubID, "player_id": target.PlayerID}).Error; err != nil {
		return writePolicyError(c, err)
	}
	policies.DestroyUserSessions(c.UserContext(), h.Rdb, target.UserID.String())

	log.Info().Str("user_id", target.UserID.String()).Str("role", target.Role).Str("by", actor.UserID).Msg("user role updated")
	return response.Success(c, "User role updated successfully", fiber.Map{
		"user_id":   target.UserID,
		"role":      target.Role,
		"club_id":   target.ClubID,
		"player_id": target.PlayerID,
	}, nil)
}

// RemoveUser DELETE /api/v1/users/remove-user/:user_id soft-deletes the account.
func (h *Handlers) RemoveUser(c *fiber.Ctx) error {
	actor, err := authsvc.VerifyUser(middleware.GetUser(c))
	if err != nil {
		return response.Unauthorized(c, "Not authenticated")
	}
	targetID, err := uuid.Parse(c.Params("user_id"))
	if err != nil {
		return response.Error(c, "Invalid UUID format for user_id", fiber.StatusBadRequest, nil)
	}
	actorID, _ := uuid.Parse(actor.UserID)

	target, err := policies.ValidateRemoval(c.UserContext(), h.DB, actorID, targetID)
	if err != nil {
		return writePolicyError(c, err)
	}
	if err := h.DB.WithContext(c.UserContext()).Delete(target).Error; err != nil {
		return writePolicyError(c, err)
	}
	policies.DestroyUserSessions(c.UserContext(), h.Rdb, target.UserID.String())

	log.Info().Str("user_id", target.UserID.String()).Str("by", actor.UserID).Msg("user removed")
	return response.Success(c, "User removed successfully", nil, nil)
}
