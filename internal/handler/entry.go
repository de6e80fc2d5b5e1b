package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/raaghavgupta2020/budget-app/internal/models"
	"github.com/raaghavgupta2020/budget-app/internal/store"
	"github.com/raaghavgupta2020/budget-app/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// EntryHandler serves the per-user ledger endpoints. Ownership is enforced
// by middleware before any of these run, so the path username is trusted
// to equal the authenticated identity.
type EntryHandler struct {
	Entries *store.EntryStore
	Log     *zap.Logger
}

func NewEntryHandler(entries *store.EntryStore, log *zap.Logger) *EntryHandler {
	return &EntryHandler{Entries: entries, Log: log}
}

// GetAll handles GET /:username/entry/getAll?sort=field,order
func (h *EntryHandler) GetAll(c *gin.Context) {
	username := c.Param("username")

	// sort arrives as a single "field,order" pair, e.g. "amount,desc"
	var sortBy, sortOrder string
	if sort := c.Query("sort"); sort != "" {
		parts := strings.Split(sort, ",")
		if len(parts) == 2 {
			sortBy, sortOrder = parts[0], parts[1]
		}
	}

	entries, err := h.Entries.List(c.Request.Context(), username, sortBy, sortOrder)
	if err != nil {
		if errors.Is(err, store.ErrInvalidSortField) {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "sort field must be 'date' or 'amount'")
			return
		}
		h.Log.Error("list entries failed", zap.Error(err))
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to list entries")
		return
	}

	c.JSON(http.StatusOK, entries)
}

// GetFiltered handles GET /:username/entry/getFiltered?type&search&sort_by&sort_order
func (h *EntryHandler) GetFiltered(c *gin.Context) {
	username := c.Param("username")

	entryType := c.Query("type")
	if entryType != "" && entryType != models.TypeIncome && entryType != models.TypeExpense {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "type must be either 'Income' or 'Expense'")
		return
	}

	filter := models.EntryFilter{
		Type:      entryType,
		Search:    c.Query("search"),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}

	entries, err := h.Entries.ListFiltered(c.Request.Context(), username, filter)
	if err != nil {
		if errors.Is(err, store.ErrInvalidSortField) {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "sort field must be 'date' or 'amount'")
			return
		}
		h.Log.Error("filter entries failed", zap.Error(err))
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to list entries")
		return
	}

	c.JSON(http.StatusOK, entries)
}

// AddNew handles POST /:username/entry/addNew
func (h *EntryHandler) AddNew(c *gin.Context) {
	username := c.Param("username")

	var draft models.EntryDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid entry payload")
		return
	}

	entry, err := h.Entries.Create(c.Request.Context(), username, draft)
	if err != nil {
		h.Log.Error("create entry failed", zap.Error(err))
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to create entry")
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// Edit handles PUT /:username/entry/:id/edit. Updates replace every
// mutable field, there is no partial patch.
func (h *EntryHandler) Edit(c *gin.Context) {
	username := c.Param("username")
	id := c.Param("id")

	var draft models.EntryDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid entry payload")
		return
	}

	entry, err := h.Entries.Update(c.Request.Context(), username, id, draft)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "entry not found")
			return
		}
		h.Log.Error("update entry failed", zap.Error(err))
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to update entry")
		return
	}

	c.JSON(http.StatusOK, entry)
}

// Delete handles DELETE /:username/entry/:id
func (h *EntryHandler) Delete(c *gin.Context) {
	username := c.Param("username")
	id := c.Param("id")

	if err := h.Entries.Delete(c.Request.Context(), username, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "entry not found")
			return
		}
		h.Log.Error("delete entry failed", zap.Error(err))
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to delete entry")
		return
	}

	c.Status(http.StatusNoContent)
}

// Summary handles GET /:username/entry/summary
func (h *EntryHandler) Summary(c *gin.Context) {
	username := c.Param("username")

	summary, err := h.Entries.Summarize(c.Request.Context(), username)
	if err != nil {
		h.Log.Error("summarize failed", zap.Error(err))
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to summarize entries")
		return
	}

	c.JSON(http.StatusOK, summary)
}
