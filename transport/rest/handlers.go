package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rocketscienceinc/boardgame-backend/internal/apperror"
	"github.com/rocketscienceinc/boardgame-backend/internal/entity"
)

type arbiterService interface {
	CreateInstance(ctx context.Context, gameType, firstUser string) (*entity.GameInstance, error)
	GetInstance(ctx context.Context, id string) (*entity.GameInstance, error)
	ListInstances(ctx context.Context) ([]*entity.GameInstance, error)

	Join(ctx context.Context, id, user string) (*entity.GameInstance, error)
	AssignCurrentPlayer(ctx context.Context, id, user string) (*entity.GameInstance, error)
	ApplyMove(ctx context.Context, id, user string, payload json.RawMessage, moveTime int) (*entity.GameInstance, error)
	Leave(ctx context.Context, id, user string) (*entity.GameInstance, error)

	DeleteInstance(ctx context.Context, id string) error
}

type matchmakingService interface {
	FindOrCreate(ctx context.Context, gameType, user string) (*entity.GameInstance, error)
}

type gameTypeService interface {
	CreateType(ctx context.Context, gameType *entity.GameType) error
	GetType(ctx context.Context, name string) (*entity.GameType, error)
	ListTypes(ctx context.Context) ([]*entity.GameType, error)
	DeleteType(ctx context.Context, name string) error
}

type userService interface {
	Register(ctx context.Context, name, password string) (*entity.User, error)
	GetByName(ctx context.Context, name string) (*entity.User, error)
	List(ctx context.Context) ([]*entity.User, error)
}

type authService interface {
	Authenticate(ctx context.Context, name, password string) (*entity.User, error)
	IsAdmin(apiKey string) bool

	GenerateToken(name string) (string, error)
	VerifyToken(token string) (string, error)
}

type Handlers struct {
	logger *slog.Logger

	arbiter     arbiterService
	matchmaking matchmakingService
	gameTypes   gameTypeService
	users       userService
	auth        authService
}

func NewHandlers(logger *slog.Logger, arbiter arbiterService, matchmaking matchmakingService, gameTypes gameTypeService, users userService, auth authService) *Handlers {
	return &Handlers{
		logger: logger,

		arbiter:     arbiter,
		matchmaking: matchmaking,
		gameTypes:   gameTypes,
		users:       users,
		auth:        auth,
	}
}

func (that *Handlers) Ping(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// CreateGame - POST /api/games, admin only. 409 when the type is unknown.
func (that *Handlers) CreateGame(w http.ResponseWriter, r *http.Request) {
	var request createGameRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		that.writeError(w, apperror.ErrInvalidInput)
		return
	}

	instance, err := that.arbiter.CreateInstance(r.Context(), request.Type, request.User)
	if errors.Is(err, apperror.ErrGameTypeNotFound) {
		that.writeJSON(w, http.StatusConflict, errorResponse{Error: "this game type does not exist"})
		return
	}
	if err != nil {
		that.writeError(w, err)
		return
	}

	w.Header().Set("Location", "/api/games/"+instance.ID)
	that.writeJSON(w, http.StatusCreated, instance)
}

func (that *Handlers) GetGame(w http.ResponseWriter, r *http.Request) {
	instance, err := that.arbiter.GetInstance(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, instance)
}

func (that *Handlers) ListGames(w http.ResponseWriter, r *http.Request) {
	instances, err := that.arbiter.ListInstances(r.Context())
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, instances)
}

func (that *Handlers) JoinGame(w http.ResponseWriter, r *http.Request) {
	user := loggedInUser(r.Context())

	instance, err := that.arbiter.Join(r.Context(), chi.URLParam(r, "id"), user)
	if err != nil {
		that.writeError(w, err)
		return
	}

	w.Header().Set("Location", "/api/games/"+instance.ID)
	that.writeJSON(w, http.StatusOK, instance)
}

func (that *Handlers) AssignCurrentPlayer(w http.ResponseWriter, r *http.Request) {
	var request assignPlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || request.CurrentPlayer == "" {
		that.writeError(w, apperror.ErrInvalidInput)
		return
	}

	instance, err := that.arbiter.AssignCurrentPlayer(r.Context(), chi.URLParam(r, "id"), request.CurrentPlayer)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, instance)
}

// ApplyMove - POST /api/games/{id}/moves. An empty-string move lets the
// current player hand the turn back without playing.
func (that *Handlers) ApplyMove(w http.ResponseWriter, r *http.Request) {
	user := loggedInUser(r.Context())
	gameID := chi.URLParam(r, "id")

	var request moveRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || len(request.Move) == 0 {
		that.writeError(w, apperror.ErrInvalidInput)
		return
	}

	var instance *entity.GameInstance
	var err error
	if bytes.Equal(request.Move, []byte(`""`)) {
		instance, err = that.arbiter.Leave(r.Context(), gameID, user)
	} else {
		instance, err = that.arbiter.ApplyMove(r.Context(), gameID, user, request.Move, request.MoveTime)
	}
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, instance)
}

func (that *Handlers) GetMoveHistory(w http.ResponseWriter, r *http.Request) {
	instance, err := that.arbiter.GetInstance(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, err)
		return
	}

	moves := instance.Moves
	if moves == nil {
		moves = []entity.Move{}
	}

	that.writeJSON(w, http.StatusOK, moves)
}

func (that *Handlers) DeleteGame(w http.ResponseWriter, r *http.Request) {
	if err := that.arbiter.DeleteInstance(r.Context(), chi.URLParam(r, "id")); err != nil {
		that.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// RandomGame - GET /api/gametypes/{name}/random. Redirect-style: responds
// with the Location of an open instance, creating a fresh one when none is
// available. The instance is a hint; the follow-up join may still race.
func (that *Handlers) RandomGame(w http.ResponseWriter, r *http.Request) {
	user := loggedInUser(r.Context())

	instance, err := that.matchmaking.FindOrCreate(r.Context(), chi.URLParam(r, "name"), user)
	if err != nil {
		that.writeError(w, err)
		return
	}

	w.Header().Set("Location", "/api/games/"+instance.ID)
	that.writeJSON(w, http.StatusOK, instance)
}

func (that *Handlers) CreateGameType(w http.ResponseWriter, r *http.Request) {
	var gameType entity.GameType
	if err := json.NewDecoder(r.Body).Decode(&gameType); err != nil {
		that.writeError(w, apperror.ErrInvalidInput)
		return
	}

	if err := that.gameTypes.CreateType(r.Context(), &gameType); err != nil {
		that.writeError(w, err)
		return
	}

	w.Header().Set("Location", "/api/gametypes/"+gameType.Name)
	that.writeJSON(w, http.StatusCreated, gameType)
}

func (that *Handlers) GetGameType(w http.ResponseWriter, r *http.Request) {
	gameType, err := that.gameTypes.GetType(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, gameType)
}

func (that *Handlers) ListGameTypes(w http.ResponseWriter, r *http.Request) {
	gameTypes, err := that.gameTypes.ListTypes(r.Context())
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, gameTypes)
}

func (that *Handlers) DeleteGameType(w http.ResponseWriter, r *http.Request) {
	if err := that.gameTypes.DeleteType(r.Context(), chi.URLParam(r, "name")); err != nil {
		that.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (that *Handlers) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var request registerUserRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		that.writeError(w, apperror.ErrInvalidInput)
		return
	}

	user, err := that.users.Register(r.Context(), request.Name, request.Password)
	if err != nil {
		that.writeError(w, err)
		return
	}

	w.Header().Set("Location", "/api/users/"+user.Name)
	that.writeJSON(w, http.StatusCreated, user)
}

func (that *Handlers) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := that.users.GetByName(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, user)
}

func (that *Handlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := that.users.List(r.Context())
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, users)
}

func (that *Handlers) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to encode response", "error", err)
	}
}

// writeError - maps the error taxonomy to HTTP statuses.
func (that *Handlers) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, apperror.ErrNotFound),
		errors.Is(err, apperror.ErrGameTypeNotFound),
		errors.Is(err, apperror.ErrNoOpenGames):
		status = http.StatusNotFound
	case errors.Is(err, apperror.ErrAlreadyFull),
		errors.Is(err, apperror.ErrConflict),
		errors.Is(err, apperror.ErrGameFinished):
		status = http.StatusConflict
	case errors.Is(err, apperror.ErrNotYourTurn),
		errors.Is(err, apperror.ErrUnauthorized):
		status = http.StatusForbidden
	case errors.Is(err, apperror.ErrIllegalMove),
		errors.Is(err, apperror.ErrInvalidPlayer),
		errors.Is(err, apperror.ErrInvalidInput):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		that.logger.Error("request failed", "error", err)
		that.writeJSON(w, status, errorResponse{Error: "internal server error"})
		return
	}

	that.writeJSON(w, status, errorResponse{Error: err.Error()})
}
