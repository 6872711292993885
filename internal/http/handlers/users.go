package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Vaibhav-crux/users-assignment/internal/domain/user"
	"github.com/gin-gonic/gin"
)

const userNotFoundMessage = "User not found"

// UsersService is what the handlers need from the user service.
type UsersService interface {
	List(ctx context.Context) ([]user.Public, error)
	Get(ctx context.Context, id string) (user.Public, error)
	Create(ctx context.Context, req user.CreateUserRequest) (user.Public, error)
	Update(ctx context.Context, id string, req user.UpdateUserRequest) (user.Public, error)
	Delete(ctx context.Context, id string) error
}

type UsersHandler struct {
	svc UsersService
}

func NewUsersHandler(svc UsersService) *UsersHandler {
	return &UsersHandler{svc: svc}
}

// one DB round trip plus (on create) a bcrypt hash
const opTimeout = 3 * time.Second

func opContext(ctx *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx.Request.Context(), opTimeout)
}

func (h *UsersHandler) ListUsers(ctx *gin.Context) {
	cctx, cancel := opContext(ctx)
	defer cancel()

	users, err := h.svc.List(cctx)

	if err != nil {
		RespondInternal(ctx)
		return
	}

	ctx.JSON(http.StatusOK, users)
}

func (h *UsersHandler) GetUserById(ctx *gin.Context) {
	cctx, cancel := opContext(ctx)
	defer cancel()

	id := ctx.Param("id")

	u, err := h.svc.Get(cctx, id)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			RespondNotFound(ctx, userNotFoundMessage)
			return
		}

		RespondInternal(ctx)
		return
	}

	ctx.JSON(http.StatusOK, u)
}

func (h *UsersHandler) CreateUser(ctx *gin.Context) {
	var req user.CreateUserRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := opContext(ctx)
	defer cancel()

	u, err := h.svc.Create(cctx, req)

	if err != nil {
		var validationError *user.ValidationError

		switch {
		case errors.As(err, &validationError):
			RespondBadRequest(ctx, validationError.Reason)
		case errors.Is(err, user.ErrEmailExists):
			RespondBadRequest(ctx, "Email already exists")
		default:
			RespondInternal(ctx)
		}
		return
	}

	ctx.JSON(http.StatusCreated, u)
}

func (h *UsersHandler) UpdateUser(ctx *gin.Context) {
	var req user.UpdateUserRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := opContext(ctx)
	defer cancel()

	id := ctx.Param("id")

	u, err := h.svc.Update(cctx, id, req)

	if err != nil {
		switch {
		case errors.Is(err, user.ErrNotFound):
			RespondNotFound(ctx, userNotFoundMessage)
		case errors.Is(err, user.ErrEmailInUse):
			RespondBadRequest(ctx, "Email already in use")
		default:
			RespondInternal(ctx)
		}
		return
	}

	ctx.JSON(http.StatusOK, u)
}

func (h *UsersHandler) DeleteUser(ctx *gin.Context) {
	cctx, cancel := opContext(ctx)
	defer cancel()

	id := ctx.Param("id")

	err := h.svc.Delete(cctx, id)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			RespondNotFound(ctx, userNotFoundMessage)
			return
		}

		RespondInternal(ctx)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}
