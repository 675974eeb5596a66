package web

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ericfisherdev/folio/internal/adapter/driving/web/templates/pages"
	vm "github.com/ericfisherdev/folio/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/folio/internal/application"
	"github.com/ericfisherdev/folio/internal/domain/model"
	"github.com/ericfisherdev/folio/internal/domain/port/driven"
)

const (
	loginPath     = "/admin"
	dashboardPath = "/admin/dashboard"

	// maxUploadBytes bounds a vault upload, file and form fields together.
	maxUploadBytes = 32 << 20

	accessDeniedMessage = "Access Denied: Invalid Credentials"
)

// LoginForm renders the admin login form, or goes straight to the dashboard
// when a session is already held.
func (h *Handler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if h.authorized(r) {
		http.Redirect(w, r, dashboardPath, http.StatusSeeOther)
		return
	}

	data := vm.LoginViewModel{CSRFToken: formToken(r)}
	h.render(w, r, page{title: "Admin", csrf: data.CSRFToken, body: pages.Login(data)})
}

// Login exchanges the submitted credentials for a session bound to this
// browser by a session cookie. Every failure shows the same message.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if !submittedCSRF(r) {
		http.Error(w, "invalid CSRF token", http.StatusForbidden)
		return
	}

	data := vm.LoginViewModel{
		Username:  r.FormValue("username"),
		CSRFToken: formToken(r),
	}

	if ok, retry := allow(h.loginRL, r); !ok {
		setRetryAfter(w, retry)
		data.Flash = &vm.Flash{Kind: "error", Message: "Too many attempts. Please wait and try again."}
		h.render(w, r, page{status: http.StatusTooManyRequests, title: "Admin", csrf: data.CSRFToken, body: pages.Login(data)})
		return
	}

	session, err := h.auth.Login(r.Context(), data.Username, r.FormValue("password"))
	if err != nil {
		data.Flash = &vm.Flash{Kind: "error", Message: accessDeniedMessage}
		h.render(w, r, page{status: http.StatusUnauthorized, title: "Admin", csrf: data.CSRFToken, body: pages.Login(data)})
		return
	}

	setSessionCookie(w, session)
	http.Redirect(w, r, dashboardPath, http.StatusSeeOther)
}

// Logout discards the session and returns to the home page with a full load.
// Only the owning browser can end the session; any caller loses its cookie.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if !submittedCSRF(r) {
		http.Error(w, "invalid CSRF token", http.StatusForbidden)
		return
	}

	if h.authorized(r) {
		if err := h.auth.Logout(r.Context()); err != nil {
			h.logger.Error("logout failed", "error", err)
		}
		h.logger.Info("admin logged out")
	}
	clearSessionCookie(w)

	if isHTMX(r) {
		w.Header().Set("HX-Redirect", "/")
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Dashboard renders analytics and the vault. The two load independently; a
// failed stats join never hides the vault.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	csrf := formToken(r)

	dash := application.Load(r.Context(), h.admin.Dashboard)
	files := application.Load(r.Context(), h.admin.VaultFiles)

	if errors.Is(dash.Err, driven.ErrUnauthorized) || errors.Is(files.Err, driven.ErrUnauthorized) {
		h.sessionExpired(w, r)
		return
	}

	data := vm.DashboardViewModel{Errored: true}
	status := http.StatusOK
	if dash.Loaded() {
		data = toDashboardViewModel(dash.Data, h.now())
	} else {
		h.logger.Warn("dashboard fetch failed", "error", dash.Err)
		status = http.StatusBadGateway
	}

	data.Vault = h.vaultViewModel(files, csrf, popFlash(w, r))

	info := h.auth.SessionInfo()
	data.Subject = info.Subject
	data.ExpiresAt = info.ExpiresAt
	data.Persistent = info.Persistent
	data.CSRFToken = csrf

	h.render(w, r, page{status: status, title: "Dashboard", csrf: csrf, body: pages.Dashboard(data)})
}

// UploadVaultFile stores a file and shows the re-listed vault.
func (h *Handler) UploadVaultFile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		h.vaultResult(w, r, nil, &vm.Flash{Kind: "error", Message: "Upload Failed: " + uploadParseMessage(err)})
		return
	}
	if !submittedCSRF(r) {
		http.Error(w, "invalid CSRF token", http.StatusForbidden)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.vaultResult(w, r, nil, &vm.Flash{Kind: "error", Message: "Upload Failed: choose a file to upload"})
		return
	}
	defer file.Close()

	name := strings.TrimSpace(r.FormValue("name"))
	if base := filepath.Base(header.Filename); name == "" && base != "." && base != string(filepath.Separator) {
		name = base
	}
	category := model.ParseVaultCategory(r.FormValue("category"))

	files, err := h.admin.UploadVaultFile(r.Context(), name, category, file)
	if err != nil {
		if errors.Is(err, driven.ErrUnauthorized) {
			h.sessionExpired(w, r)
			return
		}
		h.logger.Warn("vault upload failed", "name", name, "error", err)
		h.vaultResult(w, r, nil, &vm.Flash{Kind: "error", Message: "Upload Failed: " + failureDetail(err)})
		return
	}

	h.vaultResult(w, r, files, &vm.Flash{Kind: "success", Message: "Uploaded " + name})
}

// DeleteVaultFile removes a file. The listing shown afterwards comes from the
// backend, so a failed delete leaves the entry in place.
func (h *Handler) DeleteVaultFile(w http.ResponseWriter, r *http.Request) {
	if !submittedCSRF(r) {
		http.Error(w, "invalid CSRF token", http.StatusForbidden)
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		h.vaultResult(w, r, nil, &vm.Flash{Kind: "error", Message: "Could not delete file."})
		return
	}

	if err := h.admin.DeleteVaultFile(r.Context(), id); err != nil {
		if errors.Is(err, driven.ErrUnauthorized) {
			h.sessionExpired(w, r)
			return
		}
		h.logger.Warn("vault delete failed", "id", id, "error", err)
		h.vaultResult(w, r, nil, &vm.Flash{Kind: "error", Message: "Could not delete file."})
		return
	}

	h.vaultResult(w, r, nil, &vm.Flash{Kind: "success", Message: "File deleted."})
}

// vaultResult finishes a vault action. HTMX requests get the refreshed vault
// panel; plain form posts are redirected to the dashboard with a flash.
// files is nil when the listing still has to be fetched.
func (h *Handler) vaultResult(w http.ResponseWriter, r *http.Request, files []model.VaultFile, flash *vm.Flash) {
	if !isHTMX(r) {
		setFlash(w, *flash)
		http.Redirect(w, r, dashboardPath, http.StatusSeeOther)
		return
	}

	res := application.Result[[]model.VaultFile]{State: model.ViewStateLoaded, Data: files}
	if files == nil {
		res = application.Load(r.Context(), h.admin.VaultFiles)
	}
	h.write(w, r, http.StatusOK, pages.Vault(h.vaultViewModel(res, formToken(r), flash)))
}

func (h *Handler) vaultViewModel(res application.Result[[]model.VaultFile], csrf string, flash *vm.Flash) vm.VaultViewModel {
	if !res.Loaded() {
		h.logger.Warn("vault fetch failed", "error", res.Err)
		out := toVaultViewModel(nil, csrf, flash)
		out.Errored = true
		return out
	}
	return toVaultViewModel(res.Data, csrf, flash)
}

// sessionExpired handles a privileged call rejected by the backend after the
// refresh attempt; the credential store has already been cleared.
func (h *Handler) sessionExpired(w http.ResponseWriter, r *http.Request) {
	h.logger.Info("admin session rejected by backend", "path", r.URL.Path)
	redirectToLogin(w, r)
}

// failureDetail prefers the backend's message over the transport error.
func failureDetail(err error) string {
	if d := driven.ErrorDetail(err); d != "" {
		return d
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "the server took too long to respond"
	}
	return err.Error()
}

func uploadParseMessage(err error) string {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return "file is larger than " + strconv.Itoa(maxUploadBytes>>20) + " MB"
	}
	return "malformed upload"
}
