package handlers

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"queuewise/internal/lock"
	"queuewise/internal/models"
	"queuewise/internal/response"
	"queuewise/internal/rules"
	"queuewise/internal/service"
	"queuewise/internal/storage"
)

type queueService interface {
	ListQueues(ctx context.Context) ([]service.QueueListItem, error)
	CreateQueue(ctx context.Context, name string) (*service.CreatedQueue, error)
	Join(ctx context.Context, queueID uint, userName string) (*service.JoinResult, error)
	DryRunJoin(ctx context.Context, queueID uint, userName string) (*service.DryRunResult, error)
	ServeNext(ctx context.Context, queueID uint) (*service.EntryResult, error)
	DryRunServe(ctx context.Context, queueID uint) (*service.DryRunResult, error)
	SkipEntry(ctx context.Context, queueID, entryID uint) (*service.EntryResult, error)
	SkipNext(ctx context.Context, queueID uint) (*service.EntryResult, error)
	DryRunSkip(ctx context.Context, queueID uint) (*service.DryRunResult, error)
	GetStatus(ctx context.Context, queueID uint) (*service.StatusResult, error)
	GetSummary(ctx context.Context, queueID uint) (*service.SummaryResult, error)
	PreviewNextAction(ctx context.Context, queueID uint) (*service.PreviewResult, error)
	Pause(ctx context.Context, queueID uint) (*service.QueueStateResult, error)
	Resume(ctx context.Context, queueID uint) (*service.QueueStateResult, error)
	Events(ctx context.Context, queueID uint, limit int) ([]models.QueueEvent, error)
}

type QueueHandler struct {
	service queueService
	logger  *logrus.Logger
}

func NewQueueHandler(svc queueService, logger *logrus.Logger) *QueueHandler {
	return &QueueHandler{service: svc, logger: logger}
}

type CreateQueueRequest struct {
	Name string `json:"name" binding:"required,notblank,max=120" example:"Clinic A"`
}

type JoinQueueRequest struct {
	UserName string `json:"user_name" binding:"required,min=2,max=120" example:"Alice"`
}

// bindJSON treats an empty body as an empty object so that missing fields are
// reported per field.
func bindJSON(c *gin.Context, req interface{}) bool {
	err := c.ShouldBindJSON(req)
	if errors.Is(err, io.EOF) {
		err = binding.Validator.ValidateStruct(req)
	}
	if err != nil {
		response.AbortWithValidation(c, err)
		return false
	}
	return true
}

func pathID(c *gin.Context, param, code string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, response.ErrorResponse{
			Code:    code,
			Message: "Invalid " + strings.ReplaceAll(param, "_", " "),
		})
		return 0, false
	}
	return uint(id), true
}

func queueID(c *gin.Context) (uint, bool) {
	return pathID(c, "id", "INVALID_QUEUE_ID")
}

func dryRun(c *gin.Context) bool {
	return strings.EqualFold(c.Query("dry_run"), "true")
}

// fail writes err. Rule violations on read endpoints are all 404; on mutations only
// the not-found codes are.
func (h *QueueHandler) fail(c *gin.Context, err error, readOnly bool) {
	if v, ok := rules.AsViolation(err); ok {
		status := http.StatusConflict
		if readOnly || v.Code.NotFound() {
			status = http.StatusNotFound
		}
		response.AbortWithViolation(c, status, v)
		return
	}

	entry := h.logger.WithContext(c.Request.Context()).WithError(err).WithField("path", c.FullPath())
	switch {
	case errors.Is(err, lock.ErrNotAcquired):
		entry.Warn("queue lock not acquired")
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, response.ErrorResponse{
			Code:    "QUEUE_BUSY",
			Message: "The queue is busy, try again",
		})
	case errors.Is(err, storage.ErrStale):
		entry.Warn("queue changed concurrently")
		c.AbortWithStatusJSON(http.StatusConflict, response.ErrorResponse{
			Code:    "CONCURRENT_UPDATE",
			Message: "The queue changed while the request was processed, try again",
		})
	default:
		entry.Error("request failed")
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.ErrorResponse{
			Code:    "DB_ERROR",
			Message: "Failed to process the request",
		})
	}
}

// ListQueues
// @Summary		List queues
// @Description	All queues, newest first, with live waiting and total counts
// @Tags			queues
// @Produce		json
// @Success		200	{array}		service.QueueListItem
// @Failure		500	{object}	response.ErrorResponse	"DB_ERROR"
// @Router			/queues [get]
func (h *QueueHandler) ListQueues(c *gin.Context) {
	queues, err := h.service.ListQueues(c.Request.Context())
	if err != nil {
		h.fail(c, err, true)
		return
	}
	c.JSON(http.StatusOK, queues)
}

// CreateQueue
// @Summary		Create a queue
// @Tags			queues
// @Accept			json
// @Produce		json
// @Param			body	body		CreateQueueRequest	true	"Queue"
// @Success		201		{object}	service.CreatedQueue
// @Failure		400		{object}	response.ValidationErrors
// @Failure		500		{object}	response.ErrorResponse	"DB_ERROR"
// @Router			/queues [post]
func (h *QueueHandler) CreateQueue(c *gin.Context) {
	var req CreateQueueRequest
	if !bindJSON(c, &req) {
		return
	}

	queue, err := h.service.CreateQueue(c.Request.Context(), req.Name)
	if err != nil {
		h.fail(c, err, false)
		return
	}
	c.JSON(http.StatusCreated, queue)
}

// JoinQueue
// @Summary		Join a queue
// @Description	Appends a WAITING entry. With dry_run=true the rules are evaluated and nothing is stored.
// @Tags			queues
// @Accept			json
// @Produce		json
// @Param			id		path		int					true	"Queue ID"
// @Param			dry_run	query		bool				false	"Simulate only"
// @Param			body	body		JoinQueueRequest	true	"Who joins"
// @Success		201		{object}	service.JoinResult
// @Success		200		{object}	service.DryRunResult	"dry run"
// @Failure		400		{object}	response.ValidationErrors
// @Failure		404		{object}	response.RuleError	"QUEUE_NOT_FOUND"
// @Failure		409		{object}	response.RuleError	"INVALID_NAME, QUEUE_PAUSED, DUPLICATE_JOIN"
// @Router			/queues/{id}/join [post]
func (h *QueueHandler) JoinQueue(c *gin.Context) {
	id, ok := queueID(c)
	if !ok {
		return
	}
	var req JoinQueueRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	if dryRun(c) {
		res, err := h.service.DryRunJoin(ctx, id, req.UserName)
		if err != nil {
			h.fail(c, err, false)
			return
		}
		c.JSON(http.StatusOK, res)
		return
	}

	res, err := h.service.Join(ctx, id, req.UserName)
	if err != nil {
		h.fail(c, err, false)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// ServeNext
// @Summary		Serve the first waiting entry
// @Tags			queues
// @Produce		json
// @Param			id		path		int		true	"Queue ID"
// @Param			dry_run	query		bool	false	"Simulate only"
// @Success		200		{object}	service.EntryResult
// @Failure		404		{object}	response.RuleError	"QUEUE_NOT_FOUND"
// @Failure		409		{object}	response.RuleError	"EMPTY_QUEUE, ALREADY_SERVED"
// @Router			/queues/{id}/serve [patch]
func (h *QueueHandler) ServeNext(c *gin.Context) {
	id, ok := queueID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if dryRun(c) {
		res, err := h.service.DryRunServe(ctx, id)
		if err != nil {
			h.fail(c, err, false)
			return
		}
		c.JSON(http.StatusOK, res)
		return
	}

	res, err := h.service.ServeNext(ctx, id)
	if err != nil {
		h.fail(c, err, false)
		return
	}
	c.JSON(http.StatusOK, res)
}

// SkipEntry
// @Summary		Skip a specific entry
// @Tags			queues
// @Produce		json
// @Param			id			path		int	true	"Queue ID"
// @Param			entry_id	path		int	true	"Entry ID"
// @Success		200			{object}	service.EntryResult
// @Failure		404			{object}	response.RuleError	"QUEUE_NOT_FOUND, ENTRY_NOT_FOUND"
// @Failure		409			{object}	response.RuleError	"NOT_WAITING"
// @Router			/queues/{id}/skip/{entry_id} [patch]
func (h *QueueHandler) SkipEntry(c *gin.Context) {
	id, ok := queueID(c)
	if !ok {
		return
	}
	entryID, ok := pathID(c, "entry_id", "INVALID_ENTRY_ID")
	if !ok {
		return
	}

	res, err := h.service.SkipEntry(c.Request.Context(), id, entryID)
	if err != nil {
		h.fail(c, err, false)
		return
	}
	c.JSON(http.StatusOK, res)
}

// SkipNext
// @Summary		Skip the first waiting entry
// @Tags			queues
// @Produce		json
// @Param			id		path		int		true	"Queue ID"
// @Param			dry_run	query		bool	false	"Simulate only"
// @Success		200		{object}	service.EntryResult
// @Failure		404		{object}	response.RuleError	"QUEUE_NOT_FOUND"
// @Failure		409		{object}	response.RuleError	"EMPTY_QUEUE"
// @Router			/queues/{id}/skip [patch]
func (h *QueueHandler) SkipNext(c *gin.Context) {
	id, ok := queueID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if dryRun(c) {
		res, err := h.service.DryRunSkip(ctx, id)
		if err != nil {
			h.fail(c, err, false)
			return
		}
		c.JSON(http.StatusOK, res)
		return
	}

	res, err := h.service.SkipNext(ctx, id)
	if err != nil {
		h.fail(c, err, false)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GetStatus
// @Summary		Queue state with explanations
// @Tags			queues
// @Produce		json
// @Param			id	path		int	true	"Queue ID"
// @Success		200	{object}	service.StatusResult
// @Failure		404	{object}	response.RuleError	"QUEUE_NOT_FOUND"
// @Router			/queues/{id}/status [get]
func (h *QueueHandler) GetStatus(c *gin.Context) {
	id, ok := queueID(c)
	if !ok {
		return
	}
	res, err := h.service.GetStatus(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, true)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GetSummary
// @Summary		Queue counts and estimated wait
// @Tags			queues
// @Produce		json
// @Param			id	path		int	true	"Queue ID"
// @Success		200	{object}	service.SummaryResult
// @Failure		404	{object}	response.RuleError	"QUEUE_NOT_FOUND"
// @Router			/queues/{id}/summary [get]
func (h *QueueHandler) GetSummary(c *gin.Context) {
	id, ok := queueID(c)
	if !ok {
		return
	}
	res, err := h.service.GetSummary(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, true)
		return
	}
	c.JSON(http.StatusOK, res)
}

// PreviewNextAction
// @Summary		Preview the next serve or skip
// @Description	Read only. An empty queue is reported as 404.
// @Tags			queues
// @Produce		json
// @Param			id	path		int	true	"Queue ID"
// @Success		200	{object}	service.PreviewResult
// @Failure		404	{object}	response.RuleError	"QUEUE_NOT_FOUND, EMPTY_QUEUE"
// @Router			/queues/{id}/preview [get]
func (h *QueueHandler) PreviewNextAction(c *gin.Context) {
	id, ok := queueID(c)
	if !ok {
		return
	}
	res, err := h.service.PreviewNextAction(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, true)
		return
	}
	c.JSON(http.StatusOK, res)
}

// PauseQueue
// @Summary		Pause a queue
// @Tags			queues
// @Produce		json
// @Param			id	path		int	true	"Queue ID"
// @Success		200	{object}	service.QueueStateResult
// @Failure		404	{object}	response.RuleError	"QUEUE_NOT_FOUND"
// @Failure		409	{object}	response.RuleError	"ALREADY_PAUSED"
// @Router			/queues/{id}/pause [patch]
func (h *QueueHandler) PauseQueue(c *gin.Context) {
	id, ok := queueID(c)
	if !ok {
		return
	}
	res, err := h.service.Pause(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, false)
		return
	}
	c.JSON(http.StatusOK, res)
}

// ResumeQueue
// @Summary		Resume a paused queue
// @Tags			queues
// @Produce		json
// @Param			id	path		int	true	"Queue ID"
// @Success		200	{object}	service.QueueStateResult
// @Failure		404	{object}	response.RuleError	"QUEUE_NOT_FOUND"
// @Failure		409	{object}	response.RuleError	"ALREADY_ACTIVE"
// @Router			/queues/{id}/resume [patch]
func (h *QueueHandler) ResumeQueue(c *gin.Context) {
	id, ok := queueID(c)
	if !ok {
		return
	}
	res, err := h.service.Resume(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, false)
		return
	}
	c.JSON(http.StatusOK, res)
}

// ListEvents
// @Summary		Queue event timeline
// @Tags			queues
// @Produce		json
// @Param			id		path		int	true	"Queue ID"
// @Param			limit	query		int	false	"Max events (0..100, default 50)"
// @Success		200		{array}		models.QueueEvent
// @Failure		404		{object}	response.RuleError	"QUEUE_NOT_FOUND"
// @Router			/queues/{id}/events [get]
func (h *QueueHandler) ListEvents(c *gin.Context) {
	id, ok := queueID(c)
	if !ok {
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(service.DefaultEventLimit)))
	if err != nil {
		limit = service.DefaultEventLimit
	}

	events, err := h.service.Events(c.Request.Context(), id, limit)
	if err != nil {
		h.fail(c, err, true)
		return
	}
	c.JSON(http.StatusOK, events)
}
