package controllers

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/pusdatin-klh/sinta-admin-web/internal/activity"
	"github.com/pusdatin-klh/sinta-admin-web/internal/dashboard"
	"github.com/pusdatin-klh/sinta-admin-web/internal/listview"
	"github.com/pusdatin-klh/sinta-admin-web/internal/users"
	"github.com/pusdatin-klh/sinta-admin-web/pkg/enums"
	pkgerrors "github.com/pusdatin-klh/sinta-admin-web/pkg/errors"
	"github.com/pusdatin-klh/sinta-admin-web/pkg/pagination"
	"github.com/pusdatin-klh/sinta-admin-web/web/forms"
	"github.com/pusdatin-klh/sinta-admin-web/web/middleware"
)

type tab struct {
	Key   string
	Label string
}

var activeTabs = []tab{
	{Key: "", Label: "Semua"},
	{Key: "dlh", Label: "DLH"},
	{Key: "pusdatin", Label: "Pusdatin"},
	{Key: "admin", Label: "Admin"},
}

var dlhSubTabs = []tab{
	{Key: "provinsi", Label: "Provinsi"},
	{Key: "kabkota", Label: "Kabupaten/Kota"},
}

type adminDashboardPage struct {
	Stats     dashboard.Stats
	StorageGB float64
	Recent    []activity.Entry
}

// AdminDashboard shows the summary tiles and the latest activity.
func (c *Controllers) AdminDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stats, err := c.dashboardService(r).Summary(ctx)
	if err != nil {
		c.renderError(w, r, err)
		return
	}

	recent, err := c.activityService(r).System(ctx, 5)
	if err != nil {
		// The dashboard stays useful without the activity strip.
		recent = nil
	}

	page := c.page(w, r, "Dashboard Admin", "dashboard")
	page.Data = adminDashboardPage{
		Stats:     stats,
		StorageGB: stats.UsedGB(),
		Recent:    recent,
	}
	c.Views.Render(w, r, http.StatusOK, "admin_dashboard.tmpl", page)
}

type usersActivePage struct {
	Stats        users.Stats
	Tabs         []tab
	SubTabs      []tab
	Query        listview.Query
	ShowLocation bool
	Rows         []users.Row
	Pager        Pager
}

// UsersActive lists every approved account. The whole set is fetched in one
// call and filtered locally, with the tab tiles computed from the unfiltered
// set.
func (c *Controllers) UsersActive(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := middleware.SessionFromContext(ctx)

	q := listview.ParseQuery(r.URL.Query().Get, c.Cfg.Lists.ActivePerPage)
	q = c.States.Reconcile(ctx, sess.ID, "users-active", q)

	all, err := c.usersService(r).AllApproved(ctx, c.Cfg.Lists.ActiveFetchCap)
	if err != nil {
		c.renderError(w, r, err)
		return
	}

	filtered := users.FilterApproved(all, q.Tab, q.SubTab, q.Search)
	result := pagination.Paginate(filtered, q.Page, q.PerPage)

	rows := make([]users.Row, 0, len(result.Data))
	for _, u := range result.Data {
		rows = append(rows, u.ToRow("Aktif"))
	}

	filters := url.Values{}
	if q.Tab != "" {
		filters.Set("tab", q.Tab)
	}
	if q.SubTab != "" {
		filters.Set("subtab", q.SubTab)
	}
	if q.Search != "" {
		filters.Set("search", q.Search)
	}

	data := usersActivePage{
		Stats:        users.CountStats(all),
		Tabs:         activeTabs,
		Query:        q,
		ShowLocation: q.Tab == "dlh",
		Rows:         rows,
		Pager:        newPager(result.CurrentPage, result.LastPage, filters),
	}
	if q.Tab == "dlh" {
		data.SubTabs = dlhSubTabs
	}

	page := c.page(w, r, "Pengguna Aktif", "users-aktif")
	page.Data = data
	c.Views.Render(w, r, http.StatusOK, "users_active.tmpl", page)
}

type usersPendingPage struct {
	Query       listview.Query
	Counts      users.Stats
	ShowRegency bool
	Rows        []users.Row
	Pager       Pager
}

// UsersPending lists registrations awaiting approval, split by DLH level.
func (c *Controllers) UsersPending(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := middleware.SessionFromContext(ctx)

	q := listview.ParseQuery(r.URL.Query().Get, c.Cfg.Lists.PendingPerPage)
	if q.SubTab == "" {
		q.SubTab = "provinsi"
	}
	q = c.States.Reconcile(ctx, sess.ID, "users-pending", q)

	role := enums.RoleProvince
	if q.SubTab == "kabupaten" {
		role = enums.RoleRegency
	}

	svc := c.usersService(r)
	result, err := svc.Pending(ctx, role, q.Params())
	if err != nil {
		c.renderError(w, r, err)
		return
	}

	provinceCount, regencyCount, err := svc.PendingCounts(ctx)
	if err != nil {
		provinceCount, regencyCount = 0, 0
	}

	rows := make([]users.Row, 0, len(result.Data))
	for _, u := range result.Data {
		rows = append(rows, u.ToRow("Menunggu"))
	}

	filters := url.Values{}
	filters.Set("subtab", q.SubTab)

	page := c.page(w, r, "Persetujuan Pendaftaran", "users-pending")
	page.Data = usersPendingPage{
		Query:       q,
		Counts:      users.Stats{Province: provinceCount, Regency: regencyCount},
		ShowRegency: role == enums.RoleRegency,
		Rows:        rows,
		Pager:       newPager(result.CurrentPage, result.LastPage, filters),
	}
	c.Views.Render(w, r, http.StatusOK, "users_pending.tmpl", page)
}

// ApproveUser activates a pending registration, then returns to the list so
// it re-fetches. No optimistic row removal.
func (c *Controllers) ApproveUser(w http.ResponseWriter, r *http.Request) {
	c.mutateUser(w, r, "approve", func(svc users.Service, id int) error {
		return svc.Approve(r.Context(), id)
	}, "/admin/users/pending", "Pendaftaran disetujui.")
}

// RejectUser removes a pending registration.
func (c *Controllers) RejectUser(w http.ResponseWriter, r *http.Request) {
	c.mutateUser(w, r, "reject", func(svc users.Service, id int) error {
		return svc.Reject(r.Context(), id)
	}, "/admin/users/pending", "Pendaftaran ditolak.")
}

// DeleteUser removes an active account.
func (c *Controllers) DeleteUser(w http.ResponseWriter, r *http.Request) {
	c.mutateUser(w, r, "delete", func(svc users.Service, id int) error {
		return svc.Delete(r.Context(), id)
	}, "/admin/users/aktif", "Pengguna dihapus.")
}

// DeletePusdatin removes a pusdatin account from the settings page.
func (c *Controllers) DeletePusdatin(w http.ResponseWriter, r *http.Request) {
	c.mutateUser(w, r, "delete", func(svc users.Service, id int) error {
		return svc.Delete(r.Context(), id)
	}, "/admin/settings", "Akun Pusdatin dihapus.")
}

// mutateUser runs one guarded mutation: the per-session lock rejects a
// double submit while the first request is still in flight.
func (c *Controllers) mutateUser(w http.ResponseWriter, r *http.Request, action string, fn func(users.Service, int) error, backTo, notice string) {
	ctx := r.Context()
	sess := middleware.SessionFromContext(ctx)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		c.renderError(w, r, pkgerrors.New(pkgerrors.CodeValidation, "ID pengguna tidak valid."))
		return
	}

	release, err := c.Guard.Acquire(ctx, sess.ID, action+":"+strconv.Itoa(id))
	if err != nil {
		c.renderError(w, r, err)
		return
	}
	defer release()

	if err := fn(c.usersService(r), id); err != nil {
		c.renderError(w, r, err)
		return
	}

	if subtab := r.URL.Query().Get("subtab"); subtab != "" {
		backTo += "?subtab=" + url.QueryEscape(subtab)
	}
	c.redirectWithFlash(w, r, backTo, notice)
}

type logsPage struct {
	Stats   activity.Stats
	Query   listview.Query
	Entries []activity.Entry
	Pager   Pager
}

// ActivityLogs shows the system log with actor-category tabs. One bounded
// fetch, then local filtering and paging.
func (c *Controllers) ActivityLogs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := middleware.SessionFromContext(ctx)

	q := listview.ParseQuery(r.URL.Query().Get, c.Cfg.Lists.LogsPerPage)
	q = c.States.Reconcile(ctx, sess.ID, "logs", q)

	entries, err := c.activityService(r).System(ctx, c.Cfg.Lists.LogsFetchLimit)
	if err != nil {
		c.renderError(w, r, err)
		return
	}

	filtered := activity.Filter(entries, q.Tab, q.SubTab)
	result := pagination.Paginate(filtered, q.Page, q.PerPage)

	filters := url.Values{}
	if q.Tab != "" {
		filters.Set("tab", q.Tab)
	}
	if q.SubTab != "" {
		filters.Set("subtab", q.SubTab)
	}

	page := c.page(w, r, "Log Aktivitas", "logs")
	page.Data = logsPage{
		Stats:   activity.CountStats(entries),
		Query:   q,
		Entries: result.Data,
		Pager:   newPager(result.CurrentPage, result.LastPage, filters),
	}
	c.Views.Render(w, r, http.StatusOK, "logs.tmpl", page)
}

type settingsPage struct {
	Query listview.Query
	Rows  []users.User
	Pager Pager
}

// Settings lists the pusdatin accounts with server-side pagination.
func (c *Controllers) Settings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := middleware.SessionFromContext(ctx)

	q := listview.ParseQuery(r.URL.Query().Get, c.Cfg.Lists.PusdatinPerPage)
	q = c.States.Reconcile(ctx, sess.ID, "settings", q)

	result, err := c.usersService(r).ApprovedPusdatin(ctx, q.Params())
	if err != nil {
		c.renderError(w, r, err)
		return
	}

	filters := url.Values{}
	if q.Search != "" {
		filters.Set("search", q.Search)
	}

	page := c.page(w, r, "Pengaturan", "settings")
	page.Data = settingsPage{
		Query: q,
		Rows:  result.Data,
		Pager: newPager(result.CurrentPage, result.LastPage, filters),
	}
	c.Views.Render(w, r, http.StatusOK, "settings.tmpl", page)
}

type settingsAddPage struct {
	Form users.CreatePusdatinRequest
}

// SettingsAddForm renders the pusdatin account creation form.
func (c *Controllers) SettingsAddForm(w http.ResponseWriter, r *http.Request) {
	page := c.page(w, r, "Tambah Akun Pusdatin", "settings")
	page.Data = settingsAddPage{}
	c.Views.Render(w, r, http.StatusOK, "settings_add.tmpl", page)
}

// SettingsAdd creates the pusdatin account.
func (c *Controllers) SettingsAdd(w http.ResponseWriter, r *http.Request) {
	if err := forms.ParseForm(r); err != nil {
		c.renderError(w, r, err)
		return
	}

	req := users.CreatePusdatinRequest{
		Name:                 r.PostFormValue("name"),
		Email:                r.PostFormValue("email"),
		Password:             r.PostFormValue("password"),
		PasswordConfirmation: r.PostFormValue("password_confirmation"),
		Phone:                r.PostFormValue("nomor_telepon"),
	}

	rerender := func(status int, err error) {
		banner, fields := formFailure(err)
		page := c.page(w, r, "Tambah Akun Pusdatin", "settings")
		page.Error = banner
		page.Fields = fields
		page.Data = settingsAddPage{Form: req}
		c.Views.Render(w, r, status, "settings_add.tmpl", page)
	}

	if err := forms.Validate(req); err != nil {
		rerender(pkgerrors.MetadataFor(pkgerrors.CodeOf(err)).HTTPStatus, err)
		return
	}

	sess := middleware.SessionFromContext(r.Context())
	release, err := c.Guard.Acquire(r.Context(), sess.ID, "create-pusdatin")
	if err != nil {
		rerender(http.StatusConflict, err)
		return
	}
	defer release()

	if err := c.usersService(r).CreatePusdatin(r.Context(), req); err != nil {
		rerender(pkgerrors.MetadataFor(pkgerrors.CodeOf(err)).HTTPStatus, err)
		return
	}

	c.redirectWithFlash(w, r, "/admin/settings", "Akun Pusdatin berhasil dibuat.")
}
