package routes

import (
	"net/http"

	"todo-lists/app/controllers"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Controllers groups the handlers served by the router.
type Controllers struct {
	Lists  *controllers.ListController
	Items  *controllers.ItemController
	Health *controllers.HealthController
}

// RegisterRoutes sets up all routes for the application.
func RegisterRoutes(router *mux.Router, c Controllers) {
	router.Use(recoverPanics, jsonContentType, tagRequest, instrument)

	router.HandleFunc("/lists/", c.Lists.GetLists).Methods(http.MethodGet)
	router.HandleFunc("/lists/", c.Lists.CreateList).Methods(http.MethodPost)
	router.HandleFunc("/lists/{id}", c.Lists.GetList).Methods(http.MethodGet)
	router.HandleFunc("/lists/{id}", c.Lists.UpdateList).Methods(http.MethodPut)
	router.HandleFunc("/lists/{id}", c.Lists.DeleteList).Methods(http.MethodDelete)

	router.HandleFunc("/items/", c.Items.CreateItem).Methods(http.MethodPost)
	router.HandleFunc("/items/{id}", c.Items.UpdateItem).Methods(http.MethodPut)
	router.HandleFunc("/items/{id}", c.Items.DeleteItem).Methods(http.MethodDelete)

	router.HandleFunc("/healthz", c.Health.Health).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	router.NotFoundHandler = http.HandlerFunc(controllers.NotFound)
	router.MethodNotAllowedHandler = http.HandlerFunc(controllers.MethodNotAllowed)
}
