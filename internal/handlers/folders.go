package handlers

import (
	"github.com/cloudbox/backend/internal/middleware"
	"github.com/cloudbox/backend/internal/services"
	"github.com/cloudbox/backend/pkg/logger"
	"github.com/cloudbox/backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

type FoldersHandler struct {
	Folders *services.FolderService
	Audit   *services.AuditService
}

func NewFoldersHandler(folders *services.FolderService, audit *services.AuditService) *FoldersHandler {
	return &FoldersHandler{Folders: folders, Audit: audit}
}

type createFolderRequest struct {
	Name           string `json:"name"`
	ParentFolderID string `json:"parentFolderID"`
}

func (h *FoldersHandler) Create(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var req createFolderRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	parentID, err := parseUUID(req.ParentFolderID)
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid parentFolderID")
	}

	folder, err := h.Folders.CreateChild(c.Context(), currentUser, parentID, req.Name)
	if err != nil {
		return serviceError(c, err)
	}

	logger.InfoWithUser(currentUser.ID.String(), "folder_created", map[string]interface{}{
		"folder_id":   folder.ID.String(),
		"folder_name": folder.Name,
		"parent_id":   parentID.String(),
	})
	h.Audit.LogAsync(services.AuditEntry{
		UserID:       &currentUser.ID,
		Action:       "folder.create",
		ResourceType: "folder",
		ResourceID:   &folder.ID,
		Details:      map[string]interface{}{"folder_name": folder.Name},
		IPAddress:    c.IP(),
	})

	return utils.Success(c, fiber.StatusCreated, folder.Summary())
}

func (h *FoldersHandler) ListChildren(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	folderID, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid folder id")
	}

	children, err := h.Folders.ListChildren(c.Context(), currentUser, folderID)
	if err != nil {
		return serviceError(c, err)
	}

	return utils.Success(c, fiber.StatusOK, children)
}

type renameFolderRequest struct {
	Name string `json:"name"`
}

func (h *FoldersHandler) Rename(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	folderID, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid folder id")
	}

	var req renameFolderRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	summary, err := h.Folders.Rename(c.Context(), currentUser, folderID, req.Name)
	if err != nil {
		return serviceError(c, err)
	}

	h.Audit.LogAsync(services.AuditEntry{
		UserID:       &currentUser.ID,
		Action:       "folder.rename",
		ResourceType: "folder",
		ResourceID:   &folderID,
		Details:      map[string]interface{}{"folder_name": summary.Name},
		IPAddress:    c.IP(),
	})

	return utils.Success(c, fiber.StatusOK, summary)
}

func (h *FoldersHandler) Delete(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	folderID, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid folder id")
	}

	if err := h.Folders.Delete(c.Context(), currentUser, folderID); err != nil {
		return serviceError(c, err)
	}

	h.Audit.LogAsync(services.AuditEntry{
		UserID:       &currentUser.ID,
		Action:       "folder.delete",
		ResourceType: "folder",
		ResourceID:   &folderID,
		IPAddress:    c.IP(),
	})

	return utils.Success(c, fiber.StatusOK, fiber.Map{"message": "folder deleted"})
}
