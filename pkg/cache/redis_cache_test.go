package cache

import (
	"net"
	"testing"
	"time"

	"jammanage-backend/internal/config"
	"jammanage-backend/internal/models"
	"jammanage-backend/pkg/redis"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newTestCache(t *testing.T) (*RedisListingCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	host, port, err := net.SplitHostPort(mr.Addr())
	require.NoError(t, err)

	client := redis.NewClient(config.RedisConfig{
		Host:        host,
		Port:        port,
		DialTimeout: time.Second,
		ReadTimeout: time.Second,
	}, zap.NewNop())
	t.Cleanup(func() { client.Close() })

	return NewRedisListingCache(client, DefaultCacheConfig(), zap.NewNop()), mr
}

func sampleVehicle() *models.PublicVehicle {
	return &models.PublicVehicle{
		ID:        primitive.NewObjectID(),
		Slug:      "2023-tata-lpt-3118-6x2-truck",
		Title:     "2023 Tata LPT 3118 6x2 Truck",
		Condition: "new",
		ModelYear: 2023,
		KeySpecs:  "5660cc • 6x2 • 31t GVW • BS6",
		Status:    "published",
	}
}

func TestDetailRoundTrip(t *testing.T) {
	c, _ := newTestCache(t)
	vehicle := sampleVehicle()

	require.NoError(t, c.SetDetail(vehicle.Slug, vehicle))

	got, err := c.GetDetail(vehicle.Slug)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, vehicle.ID, got.ID)
	assert.Equal(t, vehicle.Title, got.Title)
	assert.Equal(t, vehicle.KeySpecs, got.KeySpecs)
}

func TestDetailMissReturnsNil(t *testing.T) {
	c, _ := newTestCache(t)

	got, err := c.GetDetail("no-such-slug")
	require.NoError(t, err)
	assert.Nil(t, got)

	stats := c.GetCacheStats()
	assert.Equal(t, int64(1), stats.TotalMisses)
}

func TestInvalidateVehicleEvictsDetailByID(t *testing.T) {
	c, _ := newTestCache(t)
	vehicle := sampleVehicle()

	require.NoError(t, c.SetDetail(vehicle.Slug, vehicle))
	require.NoError(t, c.InvalidateVehicle(vehicle.ID.Hex()))

	got, err := c.GetDetail(vehicle.Slug)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestListingRoundTripAndInvalidate(t *testing.T) {
	c, _ := newTestCache(t)
	vehicles := []*models.PublicVehicle{sampleVehicle(), sampleVehicle()}

	require.NoError(t, c.SetListing("condition=new&page=1", vehicles))

	var got []*models.PublicVehicle
	hit, err := c.GetListing("condition=new&page=1", &got)
	require.NoError(t, err)
	require.True(t, hit)
	assert.Len(t, got, 2)

	require.NoError(t, c.InvalidateListings())

	got = nil
	hit, err = c.GetListing("condition=new&page=1", &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestInvalidateListingsLeavesDetails(t *testing.T) {
	c, _ := newTestCache(t)
	vehicle := sampleVehicle()

	require.NoError(t, c.SetDetail(vehicle.Slug, vehicle))
	require.NoError(t, c.SetListing("page=1", []*models.PublicVehicle{vehicle}))
	require.NoError(t, c.InvalidateListings())

	got, err := c.GetDetail(vehicle.Slug)
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestDetailExpires(t *testing.T) {
	c, mr := newTestCache(t)
	vehicle := sampleVehicle()

	require.NoError(t, c.SetDetail(vehicle.Slug, vehicle))
	mr.FastForward(DefaultCacheConfig().DetailTTL + time.Second)

	got, err := c.GetDetail(vehicle.Slug)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCacheStatsCountsHits(t *testing.T) {
	c, _ := newTestCache(t)
	vehicle := sampleVehicle()

	require.NoError(t, c.SetDetail(vehicle.Slug, vehicle))
	_, err := c.GetDetail(vehicle.Slug)
	require.NoError(t, err)
	_, err = c.GetDetail("miss")
	require.NoError(t, err)

	stats := c.GetCacheStats()
	assert.Equal(t, int64(1), stats.TotalHits)
	assert.Equal(t, int64(1), stats.TotalMisses)
	assert.InDelta(t, 0.5, stats.HitRate, 0.001)
}
