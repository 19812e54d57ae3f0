package controllers

import (
	"net/http"

	"github.com/pusdatin-klh/sinta-admin-web/internal/profile"
	pkgerrors "github.com/pusdatin-klh/sinta-admin-web/pkg/errors"
	"github.com/pusdatin-klh/sinta-admin-web/web/forms"
	"github.com/pusdatin-klh/sinta-admin-web/web/middleware"
)

type profilePage struct {
	Form profile.UpdateRequest
}

func profileFormFromSession(r *http.Request) profile.UpdateRequest {
	sess := middleware.SessionFromContext(r.Context())
	return profile.UpdateRequest{
		Name:        sess.User.Name,
		DisplayName: sess.User.DisplayName,
		Email:       sess.User.Email,
		Phone:       sess.User.Phone,
	}
}

// Profile renders the account form prefilled from the session record.
func (c *Controllers) Profile(w http.ResponseWriter, r *http.Request) {
	page := c.page(w, r, "Profil", "profile")
	page.Data = profilePage{Form: profileFormFromSession(r)}
	c.Views.Render(w, r, http.StatusOK, "profile.tmpl", page)
}

// ProfileUpdate saves the editable fields and rehydrates the session record
// from the refreshed account.
func (c *Controllers) ProfileUpdate(w http.ResponseWriter, r *http.Request) {
	if err := forms.ParseForm(r); err != nil {
		c.renderError(w, r, err)
		return
	}

	req := profile.UpdateRequest{
		Name:        r.PostFormValue("name"),
		DisplayName: r.PostFormValue("display_name"),
		Email:       r.PostFormValue("email"),
		Phone:       r.PostFormValue("nomor_telepon"),
	}

	rerender := func(status int, err error) {
		banner, fields := formFailure(err)
		page := c.page(w, r, "Profil", "profile")
		page.Error = banner
		page.Fields = fields
		page.Data = profilePage{Form: req}
		c.Views.Render(w, r, status, "profile.tmpl", page)
	}

	if err := forms.Validate(req); err != nil {
		rerender(pkgerrors.MetadataFor(pkgerrors.CodeOf(err)).HTTPStatus, err)
		return
	}

	updated, err := c.profileService(r).Update(r.Context(), req)
	if err != nil {
		rerender(pkgerrors.MetadataFor(pkgerrors.CodeOf(err)).HTTPStatus, err)
		return
	}

	sess := middleware.SessionFromContext(r.Context())
	if err := c.Sessions.UpdateUser(r.Context(), sess, updated); err != nil && c.Logg != nil {
		c.Logg.Error(r.Context(), "session.rehydrate.failed", err)
	}

	c.redirectWithFlash(w, r, "/profile", "Profil berhasil diperbarui.")
}

// ProfilePassword rotates the password.
func (c *Controllers) ProfilePassword(w http.ResponseWriter, r *http.Request) {
	if err := forms.ParseForm(r); err != nil {
		c.renderError(w, r, err)
		return
	}

	req := profile.PasswordRequest{
		Current:      r.PostFormValue("current_password"),
		New:          r.PostFormValue("password"),
		Confirmation: r.PostFormValue("password_confirmation"),
	}

	rerender := func(status int, err error) {
		banner, fields := formFailure(err)
		page := c.page(w, r, "Profil", "profile")
		page.Error = banner
		page.Fields = fields
		page.Data = profilePage{Form: profileFormFromSession(r)}
		c.Views.Render(w, r, status, "profile.tmpl", page)
	}

	if err := forms.Validate(req); err != nil {
		rerender(pkgerrors.MetadataFor(pkgerrors.CodeOf(err)).HTTPStatus, err)
		return
	}

	if err := c.profileService(r).ChangePassword(r.Context(), req); err != nil {
		rerender(pkgerrors.MetadataFor(pkgerrors.CodeOf(err)).HTTPStatus, err)
		return
	}

	c.redirectWithFlash(w, r, "/profile", "Password berhasil diganti.")
}
