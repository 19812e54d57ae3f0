package controllers

import (
	"net/http"

	"github.com/pusdatin-klh/sinta-admin-web/internal/activity"
	"github.com/pusdatin-klh/sinta-admin-web/internal/dashboard"
)

type pusdatinDashboardPage struct {
	Stats  dashboard.Stats
	Recent []activity.Entry
}

// PusdatinDashboard mirrors the admin summary for the central data team.
func (c *Controllers) PusdatinDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stats, err := c.dashboardService(r).Summary(ctx)
	if err != nil {
		c.renderError(w, r, err)
		return
	}

	recent, err := c.activityService(r).System(ctx, 5)
	if err != nil {
		recent = nil
	}

	page := c.page(w, r, "Dashboard Pusdatin", "dashboard")
	page.Data = pusdatinDashboardPage{Stats: stats, Recent: recent}
	c.Views.Render(w, r, http.StatusOK, "pusdatin_dashboard.tmpl", page)
}

// DinasDashboard is the shared landing page for province and regency DLH
// accounts. It renders from the session record alone.
func (c *Controllers) DinasDashboard(w http.ResponseWriter, r *http.Request) {
	page := c.page(w, r, "Dashboard Dinas", "dashboard")
	c.Views.Render(w, r, http.StatusOK, "dinas_dashboard.tmpl", page)
}
