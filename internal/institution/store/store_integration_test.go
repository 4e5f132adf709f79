//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"credverify/internal/institution/models"
	"credverify/internal/institution/store"
	id "credverify/pkg/domain"
	"credverify/pkg/platform/sentinel"
	"credverify/pkg/testutil/containers"
)

type InstitutionStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	redis    *containers.RedisContainer
	store    *store.Postgres
	cache    *store.RedisCache
}

func TestInstitutionStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(InstitutionStoreSuite))
}

func (s *InstitutionStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.redis = mgr.GetRedis(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
	s.cache = store.NewRedisCache(s.redis.Client, store.WithCacheTTL(time.Minute))
}

func (s *InstitutionStoreSuite) SetupTest() {
	ctx := context.Background()
	s.Require().NoError(s.postgres.TruncateTables(ctx, "institutions"))
	s.Require().NoError(s.redis.FlushAll(ctx))
}

func (s *InstitutionStoreSuite) newInstitution(api *models.APIConfig) *models.Institution {
	inst, err := models.NewInstitution(id.InstitutionID(uuid.New()), "Harbour College", 20, models.ProcessAuto, models.ConnectionAPI, api, time.Now().UTC().Truncate(time.Microsecond))
	s.Require().NoError(err)
	return inst
}

func (s *InstitutionStoreSuite) TestPostgresRoundTrip() {
	ctx := context.Background()
	inst := s.newInstitution(&models.APIConfig{
		Endpoint:      "https://registry.harbour.example/verify",
		AuthMethod:    models.AuthBasic,
		Username:      "svc",
		Password:      "pw",
		Timeout:       10 * time.Second,
		RetryAttempts: 2,
	})
	s.Require().NoError(inst.SetWebhookSecret("secret"))
	s.Require().NoError(s.store.Upsert(ctx, inst))

	got, err := s.store.FindByID(ctx, inst.ID)
	s.Require().NoError(err)
	s.Equal(inst.Name, got.Name)
	s.Equal(models.ProcessAuto, got.Process)
	s.Require().NotNil(got.API)
	s.Equal(10*time.Second, got.API.Timeout)
	s.Equal(2, got.API.RetryAttempts)
	s.True(got.HasAPICredentials())
	s.True(got.VerifyWebhookSecret("secret"))

	inst.Active = false
	s.Require().NoError(s.store.Upsert(ctx, inst))
	got, err = s.store.FindByID(ctx, inst.ID)
	s.Require().NoError(err)
	s.False(got.Active)

	_, err = s.store.FindByID(ctx, id.InstitutionID(uuid.New()))
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *InstitutionStoreSuite) TestRedisCache() {
	ctx := context.Background()
	inst := s.newInstitution(nil)

	_, err := s.cache.Get(ctx, inst.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)

	s.Require().NoError(s.cache.Set(ctx, inst))
	got, err := s.cache.Get(ctx, inst.ID)
	s.Require().NoError(err)
	s.Equal(inst.ID, got.ID)
	s.Nil(got.API)

	s.Require().NoError(s.cache.Invalidate(ctx, inst.ID))
	_, err = s.cache.Get(ctx, inst.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)
}
