package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/champcode/academy-api/internal/middleware"
	"github.com/champcode/academy-api/internal/models"
	appErrors "github.com/champcode/academy-api/pkg/errors"
	"github.com/champcode/academy-api/pkg/response"
)

type fakeParentSrv struct {
	dashboard    *models.ParentDashboard
	dashboardErr error
	lessonsErr   error
	linkErr      error
	lastEmail    string
	lastChildID  string
}

func (f *fakeParentSrv) Dashboard(_ context.Context, parentEmail string) (*models.ParentDashboard, error) {
	f.lastEmail = parentEmail
	return f.dashboard, f.dashboardErr
}

func (f *fakeParentSrv) Children(_ context.Context, parentEmail string) ([]models.Child, error) {
	f.lastEmail = parentEmail
	return nil, nil
}

func (f *fakeParentSrv) LinkChild(_ context.Context, parentEmail string, req models.LinkChildRequest) (*models.ParentChildLink, error) {
	f.lastEmail = parentEmail
	if f.linkErr != nil {
		return nil, f.linkErr
	}
	return &models.ParentChildLink{ParentEmail: parentEmail, ChildID: req.ChildID}, nil
}

func (f *fakeParentSrv) ChildLessons(_ context.Context, parentEmail, childID string) (*models.ChildOverview, error) {
	f.lastEmail = parentEmail
	f.lastChildID = childID
	if f.lessonsErr != nil {
		return nil, f.lessonsErr
	}
	return &models.ChildOverview{Child: models.Child{ID: childID}}, nil
}

func parentContext(rec *httptest.ResponseRecorder, method, target string, body []byte) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(rec)
	var reader *bytes.Reader
	if body == nil {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader(body)
	}
	c.Request = httptest.NewRequest(method, target, reader)
	c.Set(middleware.ContextClaimsKey, &models.JWTClaims{
		UserID:   "u-1",
		Email:    "amina@example.com",
		FullName: "Amina Yusuf",
		Role:     models.RoleParent,
	})
	return c
}

func TestParentHandlerDashboard(t *testing.T) {
	srv := &fakeParentSrv{dashboard: &models.ParentDashboard{
		Credits: models.ParentCredits{ParentEmail: "amina@example.com", Balance: 6},
	}}
	handler := NewParentHandler(srv)

	rec := httptest.NewRecorder()
	c := parentContext(rec, http.MethodGet, "/parent/dashboard", nil)

	handler.Dashboard(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "amina@example.com", srv.lastEmail)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Nil(t, envelope.Error)
}

func TestParentHandlerDashboardWithoutClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewParentHandler(&fakeParentSrv{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/parent/dashboard", nil)

	handler.Dashboard(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestParentHandlerChildLessonsForbidden(t *testing.T) {
	srv := &fakeParentSrv{lessonsErr: appErrors.Clone(appErrors.ErrForbidden, "child is not linked to this account")}
	handler := NewParentHandler(srv)

	rec := httptest.NewRecorder()
	c := parentContext(rec, http.MethodGet, "/parent/children/c-9/lessons", nil)
	c.Params = gin.Params{{Key: "id", Value: "c-9"}}

	handler.ChildLessons(c)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "c-9", srv.lastChildID)
}

func TestParentHandlerLinkChildConflict(t *testing.T) {
	srv := &fakeParentSrv{linkErr: appErrors.Clone(appErrors.ErrConflict, "child is already linked")}
	handler := NewParentHandler(srv)

	rec := httptest.NewRecorder()
	body, _ := json.Marshal(models.LinkChildRequest{ChildID: "c-1"})
	c := parentContext(rec, http.MethodPost, "/parent/children/link", body)

	handler.LinkChild(c)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestParentHandlerLinkChildBadPayload(t *testing.T) {
	handler := NewParentHandler(&fakeParentSrv{})

	rec := httptest.NewRecorder()
	c := parentContext(rec, http.MethodPost, "/parent/children/link", []byte("{not json"))

	handler.LinkChild(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
