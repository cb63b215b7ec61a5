package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/pianostudio-backend/internal/data/repos"
	"github.com/yungbote/pianostudio-backend/internal/data/repos/testutil"
	"github.com/yungbote/pianostudio-backend/internal/http/response"
	"github.com/yungbote/pianostudio-backend/internal/platform/identity"
	"github.com/yungbote/pianostudio-backend/internal/platform/identity/identitytest"
	"github.com/yungbote/pianostudio-backend/internal/services"
)

func newAuthRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := testutil.Logger(t)
	rs := repos.New(testutil.DB(t), log)
	idp := identitytest.NewStatic().
		Add("owner", &identity.Identity{ID: uuid.New(), Email: "owner@studio.test"}).
		Add("student", &identity.Identity{ID: uuid.New(), Email: "student@studio.test"})
	am := NewAuthMiddleware(log, services.NewOwnerService(log, idp, rs.Profiles, "owner@studio.test"))

	r := gin.New()
	echo := func(c *gin.Context) {
		id := SessionIdentity(c)
		c.JSON(http.StatusOK, gin.H{"email": id.Email})
	}
	r.GET("/user", am.RequireAuth(), echo)
	r.GET("/owner", am.RequireOwner(), echo)
	return r
}

func TestAuthMiddleware(t *testing.T) {
	r := newAuthRouter(t)

	cases := []struct {
		path   string
		header string
		status int
		code   string
	}{
		{"/user", "", http.StatusUnauthorized, "unauthorized"},
		{"/user", "Bearer nope", http.StatusUnauthorized, "unauthorized"},
		{"/user", "Basic student", http.StatusUnauthorized, "unauthorized"},
		{"/user", "Bearer student", http.StatusOK, ""},
		{"/owner", "", http.StatusUnauthorized, "unauthorized"},
		{"/owner", "Bearer student", http.StatusForbidden, "forbidden"},
		{"/owner", "bearer owner", http.StatusOK, ""},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, tc.path, nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != tc.status {
			t.Fatalf("%s %q: status got=%d want=%d body=%s", tc.path, tc.header, rec.Code, tc.status, rec.Body.String())
		}
		if tc.code == "" {
			continue
		}
		var env response.ErrorEnvelope
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode envelope: %v", err)
		}
		if env.Error.Code != tc.code || env.Error.Message == "" {
			t.Fatalf("%s %q: envelope=%+v", tc.path, tc.header, env)
		}
	}
}
