// Package metrics declares the Prometheus collectors the service exports.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersDispatched = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "menu_orders_dispatched_total",
		Help: "Order deep-links handed to the customer, by surface.",
	}, []string{"surface"})

	OrdersRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "menu_orders_rejected_total",
		Help: "Checkout attempts refused before dispatch, by reason.",
	}, []string{"reason"})

	CatalogSaves = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "menu_catalog_saves_total",
		Help: "Catalog persistence attempts, by result.",
	}, []string{"result"})

	CatalogLoadFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "menu_catalog_load_fallbacks_total",
		Help: "Startups that fell back to the built-in catalog because stored data was unreadable.",
	})

	Searches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "menu_searches_total",
		Help: "Menu searches, by surface.",
	}, []string{"surface"})
)
