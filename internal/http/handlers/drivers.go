package handlers

import (
	"context"
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ntokozo078/logistics-fleet-manager/internal/config"
	"github.com/ntokozo078/logistics-fleet-manager/internal/domain/user"
	"github.com/ntokozo078/logistics-fleet-manager/internal/repo/postgres"
	"github.com/ntokozo078/logistics-fleet-manager/internal/security"
	"github.com/ntokozo078/logistics-fleet-manager/internal/upload"
)

// Stock avatar used when a driver is created without a photo.
const defaultDriverImageURL = "https://images.unsplash.com/photo-1633332755192-727a05c4013d?fit=crop&w=100&h=100"

type UserWriter interface {
	Create(ctx context.Context, u user.User) (user.User, error)
}

type DriverPhotoSaver interface {
	SaveDriverPhoto(file *multipart.FileHeader, username string) (string, error)
}

type DriversHandler struct {
	users   UserWriter
	uploads DriverPhotoSaver
}

func NewDriversHandler(users UserWriter, uploads DriverPhotoSaver) *DriversHandler {
	return &DriversHandler{
		users:   users,
		uploads: uploads,
	}
}

type createDriverRequest struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

// GET /create_driver
func (h *DriversHandler) CreateDriverPage(ctx *gin.Context) {
	ctx.HTML(http.StatusOK, "create_driver.html", gin.H{})
}

// POST /create_driver
// Admin only (enforced by the route). A duplicate username is reported in
// the body with status 200; the page shows the message inline.
func (h *DriversHandler) CreateDriver(ctx *gin.Context) {
	var req createDriverRequest

	if err := ctx.ShouldBind(&req); err != nil {
		ctx.Redirect(http.StatusFound, "/create_driver")
		return
	}

	imageURL := defaultDriverImageURL

	file, err := ctx.FormFile("driver_photo")

	if err == nil && file != nil {
		url, serr := h.uploads.SaveDriverPhoto(file, req.Username)

		if serr == nil {
			imageURL = url
		} else if !errors.Is(serr, upload.ErrDisallowedExtension) {
			slog.Default().Warn("driver photo upload failed", "username", req.Username, "err", serr)
		}
	}

	hash, err := security.HashPassword(req.Password)

	if err != nil {
		RespondInternal(ctx)
		return
	}

	now := time.Now().UTC()

	newDriver := user.User{
		ID:           uuid.NewString(),
		Username:     req.Username,
		PasswordHash: hash,
		Role:         user.RoleDriver,
		ImageURL:     &imageURL,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	_, err = h.users.Create(cctx, newDriver)

	if err != nil {
		if errors.Is(err, postgres.ErrUsernameTaken) {
			ctx.String(http.StatusOK, "Error: Username already exists!")
			return
		}

		RespondInternal(ctx)
		return
	}

	RedirectToDashboard(ctx)
}
