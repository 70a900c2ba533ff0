package controllers

import (
	"net/http"

	"todo-lists/app/models"
	"todo-lists/app/services"

	"github.com/gorilla/mux"
)

// ItemController handles HTTP requests for items embedded in lists.
type ItemController struct {
	Store services.Store
}

// NewItemController creates a new ItemController.
func NewItemController(store services.Store) *ItemController {
	return &ItemController{Store: store}
}

// CreateItem handles POST /items/. The response is the whole parent list,
// or null when the parent does not exist.
func (c *ItemController) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req models.CreateItemRequest
	if err := decodeBody(r, &req); err != nil {
		writeAborted(w, r, err)
		return
	}
	parentID, err := models.ParseObjectID(*req.ParentID)
	if err != nil {
		writeInternalError(w, r, err)
		return
	}

	list, err := c.Store.PushItem(r.Context(), parentID, req.Item())
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, list)
}

// UpdateItem handles PUT /items/{id}. Only truthy fields are written.
func (c *ItemController) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateItemRequest
	if err := decodeBody(r, &req); err != nil {
		writeAborted(w, r, err)
		return
	}
	id, err := models.ParseObjectID(mux.Vars(r)["id"])
	if err != nil {
		writeInternalError(w, r, err)
		return
	}

	list, err := c.Store.UpdateItem(r.Context(), id, req.ItemUpdate())
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, list)
}

// DeleteItem handles DELETE /items/{id}. A malformed id is reported in the
// body with status 200.
func (c *ItemController) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := models.ParseObjectID(mux.Vars(r)["id"])
	if err != nil {
		writeJSON(w, r, http.StatusOK, errorResponse{Error: err.Error()})
		return
	}

	count, err := c.Store.PullItem(r.Context(), id)
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	writeDeleted(w, r, count)
}
