package handlers

import (
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"github.com/cloudbox/backend/internal/middleware"
	"github.com/cloudbox/backend/internal/services"
	"github.com/cloudbox/backend/pkg/logger"
	"github.com/cloudbox/backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

type FilesHandler struct {
	Files          *services.FileService
	Audit          *services.AuditService
	MaxUploadBytes int64
}

func NewFilesHandler(files *services.FileService, audit *services.AuditService, maxUploadBytes int64) *FilesHandler {
	return &FilesHandler{Files: files, Audit: audit, MaxUploadBytes: maxUploadBytes}
}

func (h *FilesHandler) Upload(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	folderID, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid folder id")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "file is required")
	}

	if h.MaxUploadBytes > 0 && fileHeader.Size > h.MaxUploadBytes {
		return utils.Error(c, fiber.StatusRequestEntityTooLarge,
			fmt.Sprintf("file exceeds the %d byte upload limit", h.MaxUploadBytes))
	}

	filename := filepath.Base(strings.TrimSpace(fileHeader.Filename))
	if filename == "" || filename == "." {
		return utils.Error(c, fiber.StatusBadRequest, "invalid filename")
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = mime.TypeByExtension(filepath.Ext(filename))
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	stream, err := fileHeader.Open()
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed opening uploaded file")
	}
	defer stream.Close()

	content, err := io.ReadAll(stream)
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed reading uploaded file")
	}

	summary, err := h.Files.Upload(c.Context(), currentUser, folderID, services.UploadInput{
		Name:        filename,
		ContentType: contentType,
		Content:     content,
	})
	if err != nil {
		return serviceError(c, err)
	}

	logger.InfoWithUser(currentUser.ID.String(), "file_uploaded", map[string]interface{}{
		"file_id":      summary.ID.String(),
		"file_name":    summary.Name,
		"file_size":    summary.Size,
		"content_type": summary.ContentType,
		"folder_id":    folderID.String(),
	})
	h.Audit.LogAsync(services.AuditEntry{
		UserID:       &currentUser.ID,
		Action:       "file.upload",
		ResourceType: "file",
		ResourceID:   &summary.ID,
		Details:      map[string]interface{}{"file_name": summary.Name},
		IPAddress:    c.IP(),
	})

	return utils.Success(c, fiber.StatusCreated, summary)
}

func (h *FilesHandler) Download(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	fileID, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid file id")
	}

	result, err := h.Files.Download(c.Context(), currentUser, fileID)
	if err != nil {
		return serviceError(c, err)
	}

	h.Audit.LogAsync(services.AuditEntry{
		UserID:       &currentUser.ID,
		Action:       "file.download",
		ResourceType: "file",
		ResourceID:   &fileID,
		Details:      map[string]interface{}{"file_name": result.Name},
		IPAddress:    c.IP(),
	})

	c.Set(fiber.HeaderContentType, result.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", result.Name))
	return c.Status(fiber.StatusOK).Send(result.Content)
}

func (h *FilesHandler) Delete(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	fileID, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid file id")
	}

	if err := h.Files.Delete(c.Context(), currentUser, fileID); err != nil {
		return serviceError(c, err)
	}

	h.Audit.LogAsync(services.AuditEntry{
		UserID:       &currentUser.ID,
		Action:       "file.delete",
		ResourceType: "file",
		ResourceID:   &fileID,
		IPAddress:    c.IP(),
	})

	return utils.Success(c, fiber.StatusOK, fiber.Map{"message": "file deleted"})
}

type moveFileRequest struct {
	DestinationFolderID string `json:"destinationFolderID"`
}

func (h *FilesHandler) Move(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	fileID, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid file id")
	}

	var req moveFileRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	destinationID, err := parseUUID(req.DestinationFolderID)
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid destinationFolderID")
	}

	summary, err := h.Files.Move(c.Context(), currentUser, fileID, destinationID)
	if err != nil {
		return serviceError(c, err)
	}

	h.Audit.LogAsync(services.AuditEntry{
		UserID:       &currentUser.ID,
		Action:       "file.move",
		ResourceType: "file",
		ResourceID:   &fileID,
		Details:      map[string]interface{}{"destination_id": destinationID.String()},
		IPAddress:    c.IP(),
	})

	return utils.Success(c, fiber.StatusOK, summary)
}

func (h *FilesHandler) ListByFolder(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	folderID, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid folder id")
	}

	p := utils.ParsePagination(c)
	files, total, err := h.Files.ListByFolder(c.Context(), currentUser, folderID, p)
	if err != nil {
		return serviceError(c, err)
	}

	return utils.Paginated(c, files, p, total)
}
