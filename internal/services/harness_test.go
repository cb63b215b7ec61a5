package services

import (
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/pianostudio-backend/internal/data/repos"
	"github.com/yungbote/pianostudio-backend/internal/data/repos/testutil"
	"github.com/yungbote/pianostudio-backend/internal/platform/cache"
	"github.com/yungbote/pianostudio-backend/internal/platform/gcp/gcptest"
	"github.com/yungbote/pianostudio-backend/internal/platform/identity"
	"github.com/yungbote/pianostudio-backend/internal/platform/identity/identitytest"
)

const testOwnerEmail = "owner@studio.test"

type harness struct {
	db       *gorm.DB
	repos    repos.Repos
	bucket   *gcptest.Bucket
	idp      *identitytest.Static
	cache    cache.Cache
	owners   OwnerService
	catalog  CatalogService
	content  ContentService
	counters CounterService
	comments CommentService
	uploads  UploadService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	log := testutil.Logger(t)
	db := testutil.DB(t)
	rs := repos.New(db, log)
	bucket := gcptest.NewBucket("content")
	idp := identitytest.NewStatic()
	c := cache.NewMemory()

	owners := NewOwnerService(log, idp, rs.Profiles, testOwnerEmail)
	catalog := NewCatalogService(log, rs.Items, c, 0, nil)
	return &harness{
		db:       db,
		repos:    rs,
		bucket:   bucket,
		idp:      idp,
		cache:    c,
		owners:   owners,
		catalog:  catalog,
		content:  NewContentService(db, log, rs.Items, rs.UploadSlots, bucket, catalog, nil, nil),
		counters: NewCounterService(log, rs.Items, rs.Saved, catalog, nil),
		comments: NewCommentService(log, rs.Comments, rs.Items, rs.Profiles, owners),
		uploads:  NewUploadService(log, bucket, rs.UploadSlots, nil, 0),
	}
}

// user registers a token for a fresh identity.
func (h *harness) user(token, email string) *identity.Identity {
	id := &identity.Identity{ID: uuid.New(), Email: email, FullName: "Test " + token}
	h.idp.Add(token, id)
	return id
}
