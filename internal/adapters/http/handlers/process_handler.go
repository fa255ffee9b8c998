package handlers

import (
	"errors"
	"strconv"

	"procflow/internal/core/domain"
	"procflow/internal/core/services"
	"procflow/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ProcessHandler handles process directory endpoints
type ProcessHandler struct {
	processService *services.ProcessService
}

// NewProcessHandler creates a new process handler
func NewProcessHandler(processService *services.ProcessService) *ProcessHandler {
	return &ProcessHandler{processService: processService}
}

// ListProcesses lists the processes visible to the caller's role
// @Summary List processes
// @Description Visibility-filtered list with optional keyword search, category filter and grouping
// @Tags Processes
// @Produce json
// @Security BearerAuth
// @Param keyword query string false "Search keyword"
// @Param category query string false "Category filter ('all' passes through)"
// @Param group query string false "Group results: category or subcategory"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /processes [get]
func (h *ProcessHandler) ListProcesses(c *fiber.Ctx) error {
	actor := actorFromCtx(c)

	processes := h.processService.List(&services.ListInput{
		Role:     string(actor.Role),
		Keyword:  c.Query("keyword"),
		Category: c.Query("category"),
	})

	if group := c.Query("group"); group != "" {
		groups := h.processService.Grouped(processes, group)
		return response.Success(c, "Processes retrieved successfully", fiber.Map{
			"groups": groups,
			"total":  len(processes),
		})
	}

	return response.Success(c, "Processes retrieved successfully", fiber.Map{
		"processes": processes,
		"total":     len(processes),
	})
}

// GetProcess returns one process
// @Summary Get process by ID
// @Tags Processes
// @Produce json
// @Security BearerAuth
// @Param id path int true "Process ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /processes/{id} [get]
func (h *ProcessHandler) GetProcess(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid process ID")
	}

	actor := actorFromCtx(c)
	process, err := h.processService.Get(actor.Role, uint(id))
	if err != nil {
		if errors.Is(err, domain.ErrProcessNotFound) {
			return response.NotFound(c, "Process not found")
		}
		return response.InternalServerError(c, "Failed to get process")
	}

	return response.Success(c, "Process retrieved successfully", fiber.Map{
		"process": process,
	})
}

// CreateProcess handles creating a process (Admin/Manager)
// @Summary Create process
// @Tags Processes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateProcessInput true "Process data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /processes [post]
func (h *ProcessHandler) CreateProcess(c *fiber.Ctx) error {
	var input services.CreateProcessInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	process, err := h.processService.Create(&input)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return response.BadRequest(c, err.Error())
		}
		return response.InternalServerError(c, "Failed to create process")
	}

	return response.Created(c, "Process created successfully", fiber.Map{
		"process": process,
	})
}

// UpdateProcess handles a partial process update (Admin/Manager)
// @Summary Update process
// @Description Merge the provided fields onto the process record
// @Tags Processes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Process ID"
// @Param body body domain.ProcessPatch true "Fields to update"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /processes/{id} [put]
func (h *ProcessHandler) UpdateProcess(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid process ID")
	}

	var patch domain.ProcessPatch
	if err := c.BodyParser(&patch); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	process, err := h.processService.Update(uint(id), &patch)
	if err != nil {
		if errors.Is(err, domain.ErrProcessNotFound) {
			return response.NotFound(c, "Process not found")
		}
		return response.InternalServerError(c, "Failed to update process")
	}

	return response.Success(c, "Process updated successfully", fiber.Map{
		"process": process,
	})
}

// DeleteProcess handles permanently deleting a process (Admin only)
// @Summary Delete process
// @Tags Processes
// @Produce json
// @Security BearerAuth
// @Param id path int true "Process ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /processes/{id} [delete]
func (h *ProcessHandler) DeleteProcess(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid process ID")
	}

	if err := h.processService.Delete(uint(id)); err != nil {
		if errors.Is(err, domain.ErrProcessNotFound) {
			return response.NotFound(c, "Process not found")
		}
		return response.InternalServerError(c, "Failed to delete process")
	}

	return response.Success(c, "Process deleted successfully", nil)
}
