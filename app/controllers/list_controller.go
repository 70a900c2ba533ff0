package controllers

import (
	"net/http"
	"strconv"

	"todo-lists/app/models"
	"todo-lists/app/services"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
)

const (
	defaultLimit  = 10
	defaultOffset = 0
)

// ListController handles HTTP requests for todo lists.
type ListController struct {
	Store services.Store
}

// NewListController creates a new ListController.
func NewListController(store services.Store) *ListController {
	return &ListController{Store: store}
}

// GetLists handles GET /lists/?limit=10&offset=0.
func (c *ListController) GetLists(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", defaultLimit)
	if err != nil {
		writeAborted(w, r, err)
		return
	}
	offset, err := queryInt(r, "offset", defaultOffset)
	if err != nil {
		writeAborted(w, r, err)
		return
	}

	lists, err := c.Store.FindLists(r.Context(), offset, limit)
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, lists)
}

// CreateList handles POST /lists/.
func (c *ListController) CreateList(w http.ResponseWriter, r *http.Request) {
	var req models.CreateListRequest
	if err := decodeBody(r, &req); err != nil {
		writeAborted(w, r, err)
		return
	}

	list, err := c.Store.CreateList(r.Context(), *req.Title)
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	if list == nil {
		NotFound(w, r)
		return
	}
	writeJSON(w, r, http.StatusCreated, list)
}

// GetList handles GET /lists/{id}. A missing list is answered with null.
func (c *ListController) GetList(w http.ResponseWriter, r *http.Request) {
	id, err := models.ParseObjectID(mux.Vars(r)["id"])
	if err != nil {
		writeInternalError(w, r, err)
		return
	}

	list, err := c.Store.FindList(r.Context(), id)
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, list)
}

// UpdateList handles PUT /lists/{id}.
func (c *ListController) UpdateList(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateListRequest
	if err := decodeBody(r, &req); err != nil {
		writeAborted(w, r, err)
		return
	}
	id, err := models.ParseObjectID(mux.Vars(r)["id"])
	if err != nil {
		writeInternalError(w, r, err)
		return
	}

	list, err := c.Store.UpdateListTitle(r.Context(), id, *req.Title)
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, list)
}

// DeleteList handles DELETE /lists/{id}. Deleting a missing list is not an
// error.
func (c *ListController) DeleteList(w http.ResponseWriter, r *http.Request) {
	id, err := models.ParseObjectID(mux.Vars(r)["id"])
	if err != nil {
		writeInternalError(w, r, err)
		return
	}

	count, err := c.Store.DeleteList(r.Context(), id)
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	writeDeleted(w, r, count)
}

// queryInt reads a non-negative integer query parameter.
func queryInt(r *http.Request, name string, def int64) (int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "parsing '%s'", name)
	}
	if n < 0 {
		return 0, errors.Errorf("'%s' must not be negative", name)
	}
	return n, nil
}
