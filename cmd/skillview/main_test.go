package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/skillview/internal/config"
	"github.com/okian/skillview/internal/session"
	"github.com/okian/skillview/pkg/logger"
	"github.com/okian/skillview/pkg/metrics"
)

func TestNewHandler(t *testing.T) {
	convey.Convey("Given the default configuration", t, func() {
		cfg := config.New()
		m := metrics.NewManager(metrics.WithPrometheusRegistry(prometheus.NewRegistry()))
		handler, dash := newHandler(cfg, session.NewMemory(), logger.Nop(), m)

		convey.So(handler, convey.ShouldNotBeNil)
		convey.So(dash.Projects, convey.ShouldNotBeNil)
		convey.So(dash.Skills, convey.ShouldNotBeNil)
		convey.So(dash.Quiz, convey.ShouldNotBeNil)

		convey.Convey("When the health endpoint is requested", func() {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

			convey.Convey("Then it answers OK", func() {
				convey.So(rec.Code, convey.ShouldEqual, http.StatusOK)
			})
		})

		convey.Convey("When the dashboard is requested without a session", func() {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			convey.Convey("Then the login page is next", func() {
				convey.So(rec.Code, convey.ShouldEqual, http.StatusSeeOther)
				convey.So(rec.Header().Get("Location"), convey.ShouldEqual, "/login")
			})
		})

		convey.Convey("When metrics are enabled", func() {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

			convey.Convey("Then the registry is served", func() {
				convey.So(rec.Code, convey.ShouldEqual, http.StatusOK)
			})
		})
	})

	convey.Convey("Given metrics exposure disabled", t, func() {
		cfg := config.New()
		cfg.MetricsEnabled = false
		m := metrics.NewManager(metrics.WithPrometheusRegistry(prometheus.NewRegistry()))
		handler, _ := newHandler(cfg, session.NewMemory(), logger.Nop(), m)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		convey.So(rec.Code, convey.ShouldEqual, http.StatusNotFound)
	})
}
