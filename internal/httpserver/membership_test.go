package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kotenkov/event_market/internal/auth"
	"github.com/kotenkov/event_market/internal/config"
	"github.com/kotenkov/event_market/internal/models"
	"github.com/kotenkov/event_market/internal/repo"
	"github.com/kotenkov/event_market/internal/service"
	"github.com/kotenkov/event_market/internal/transport"
)

func newTestDB(t *testing.T) *repo.GormRepo {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to connect to in-memory db")
	require.NoError(t, config.Migrate(db), "failed to migrate tables")
	return repo.New(db)
}

func newContext(t *testing.T, method, path string, body any, p *auth.Principal) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	e := echo.New()
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if p != nil {
		auth.SetPrincipal(c, *p)
	}
	return c, rec
}

func seedActiveVendor(t *testing.T, r *repo.GormRepo) *models.Vendor {
	t.Helper()

	user := models.User{
		LoginID:      "vendor_login",
		Name:         "Best Cakes",
		Email:        "cakes@example.com",
		PasswordHash: "x",
		Role:         models.RoleVendor,
		Active:       true,
	}
	require.NoError(t, r.DB.Create(&user).Error)

	vendor := models.Vendor{
		UserID:     user.ID,
		VendorName: "Best Cakes",
		Category:   "Catering",
		Email:      user.Email,
		Phone:      "1234567890",
		Status:     models.VendorActive,
	}
	require.NoError(t, r.DB.Create(&vendor).Error)
	return &vendor
}

func TestMembershipAddHandler(t *testing.T) {
	r := newTestDB(t)
	h := &MembershipHandler{Svc: &service.MembershipService{Repo: r}}
	admin := &auth.Principal{UserID: 1, Name: "Root", Role: models.RoleAdmin}
	vendor := seedActiveVendor(t, r)

	c, rec := newContext(t, http.MethodPost, "/admin/memberships",
		transport.AddMembershipRequest{VendorID: vendor.ID, MembershipDuration: "6_months"}, admin)

	require.NoError(t, h.Add(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp transport.AddMembershipResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Regexp(t, `^MEM-\d{8}-\d{3}$`, resp.MembershipNo)
	require.True(t, resp.EndDate.After(resp.StartDate))
}

func TestMembershipAddHandlerMissingFields(t *testing.T) {
	r := newTestDB(t)
	h := &MembershipHandler{Svc: &service.MembershipService{Repo: r}}
	admin := &auth.Principal{UserID: 1, Name: "Root", Role: models.RoleAdmin}

	c, _ := newContext(t, http.MethodPost, "/admin/memberships",
		transport.AddMembershipRequest{VendorID: 0, MembershipDuration: ""}, admin)

	err := h.Add(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusBadRequest, he.Code)
	require.Equal(t, "all fields are required", he.Message)
}

func TestMembershipAddHandlerConflict(t *testing.T) {
	r := newTestDB(t)
	h := &MembershipHandler{Svc: &service.MembershipService{Repo: r}}
	admin := &auth.Principal{UserID: 1, Name: "Root", Role: models.RoleAdmin}
	vendor := seedActiveVendor(t, r)

	c, _ := newContext(t, http.MethodPost, "/admin/memberships",
		transport.AddMembershipRequest{VendorID: vendor.ID, MembershipDuration: "6_months"}, admin)
	require.NoError(t, h.Add(c))

	c, _ = newContext(t, http.MethodPost, "/admin/memberships",
		transport.AddMembershipRequest{VendorID: vendor.ID, MembershipDuration: "1_year"}, admin)
	err := h.Add(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusConflict, he.Code)
}

func TestMembershipUpdateHandlerInvalidAction(t *testing.T) {
	r := newTestDB(t)
	h := &MembershipHandler{Svc: &service.MembershipService{Repo: r}}
	admin := &auth.Principal{UserID: 1, Name: "Root", Role: models.RoleAdmin}

	c, _ := newContext(t, http.MethodPatch, "/admin/memberships",
		transport.UpdateMembershipRequest{MembershipID: 1, Action: "renew"}, admin)

	err := h.Update(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusBadRequest, he.Code)
	require.Equal(t, "invalid action", he.Message)
}

func TestMembershipUpdateHandlerCancelFlow(t *testing.T) {
	r := newTestDB(t)
	svc := &service.MembershipService{Repo: r}
	h := &MembershipHandler{Svc: svc}
	admin := &auth.Principal{UserID: 1, Name: "Root", Role: models.RoleAdmin}
	vendor := seedActiveVendor(t, r)

	m, err := svc.Create(context.Background(), vendor.ID, "6_months", admin.UserID)
	require.NoError(t, err)

	c, rec := newContext(t, http.MethodPatch, "/admin/memberships",
		transport.UpdateMembershipRequest{MembershipID: m.ID, Action: "cancel", CancellationReason: "client request"}, admin)
	require.NoError(t, h.Update(c))
	require.Equal(t, http.StatusOK, rec.Code)

	c, _ = newContext(t, http.MethodPatch, "/admin/memberships",
		transport.UpdateMembershipRequest{MembershipID: m.ID, Action: "extend", ExtensionDuration: "1_year"}, admin)
	updateErr := h.Update(c)
	he, ok := updateErr.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusConflict, he.Code)
}

func TestMembershipHandlerUnauthenticated(t *testing.T) {
	r := newTestDB(t)
	h := &MembershipHandler{Svc: &service.MembershipService{Repo: r}}

	c, _ := newContext(t, http.MethodPost, "/admin/memberships",
		transport.AddMembershipRequest{VendorID: 1, MembershipDuration: "6_months"}, nil)

	err := h.Add(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusUnauthorized, he.Code)
}
