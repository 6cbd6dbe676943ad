package sqlstore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"order-dashboard/internal/config"
	"order-dashboard/internal/database"
	"order-dashboard/internal/models"
	"order-dashboard/internal/repositories"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()

	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)

	cm := database.NewConnectionManager(config.DatabaseConfig{
		Driver:       config.DriverSQLite,
		DSN:          filepath.Join(t.TempDir(), "store.db"),
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		AutoMigrate:  true,
	}, logger)
	require.NoError(t, cm.Connect(context.Background()))
	t.Cleanup(func() { cm.Close() })

	return NewStore(cm.GetDB(), config.DriverSQLite, logger)
}

func createMember(t *testing.T, s *Store, name, email string) *models.Member {
	t.Helper()
	m := models.NewMember(name, email, "")
	require.NoError(t, s.Members().Create(context.Background(), m))
	return m
}

func createAddress(t *testing.T, s *Store, memberID int64, label string) *models.ShippingAddress {
	t.Helper()
	a := models.NewShippingAddress(memberID, label)
	a.PostalCode = "100-0001"
	a.Address1 = "東京都千代田区"
	a.Address2 = "千代田1-1"
	a.RecipientName = "受取人 " + label
	require.NoError(t, s.ShippingAddresses().Create(context.Background(), a))
	return a
}

func TestDialect_Rebind(t *testing.T) {
	lite := dialect{driver: config.DriverSQLite}
	pg := dialect{driver: config.DriverPostgres}

	q := "SELECT * FROM members WHERE id = ? AND name = ?"
	assert.Equal(t, q, lite.rebind(q))
	assert.Equal(t, "SELECT * FROM members WHERE id = $1 AND name = $2", pg.rebind(q))
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, "%taro%", likePattern("Taro"))
	assert.Equal(t, `%100\%\_x%`, likePattern("100%_x"))
}

func TestMemberRepository_CRUD(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	m := createMember(t, s, "山田 太郎", "taro@example.com")
	assert.NotZero(t, m.ID)

	got, err := s.Members().GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "山田 太郎", got.Name)
	assert.True(t, got.IsActive)
	assert.WithinDuration(t, m.CreatedAt, got.CreatedAt, time.Second)

	byEmail, err := s.Members().GetByEmail(ctx, "TARO@example.com")
	require.NoError(t, err)
	assert.Equal(t, m.ID, byEmail.ID)

	got.IsActive = false
	got.Phone = "090-1111-2222"
	require.NoError(t, s.Members().Update(ctx, got))

	reloaded, err := s.Members().GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.IsActive)
	assert.Equal(t, "090-1111-2222", reloaded.Phone)

	_, err = s.Members().GetByID(ctx, 9999)
	assert.True(t, repositories.IsNotFound(err))

	_, err = s.Members().GetByEmail(ctx, "nobody@example.com")
	assert.True(t, repositories.IsNotFound(err))

	missing := models.NewMember("誰か", "x@example.com", "")
	missing.ID = 9999
	assert.True(t, repositories.IsNotFound(s.Members().Update(ctx, missing)))
}

func TestMemberRepository_Errors(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	createMember(t, s, "山田 太郎", "taro@example.com")

	err := s.Members().Create(ctx, models.NewMember("別人", "taro@example.com", ""))
	assert.True(t, repositories.IsDuplicate(err))

	err = s.Members().Create(ctx, models.NewMember("", "bad", ""))
	assert.True(t, repositories.IsValidation(err))
	fields := models.FieldErrors(err)
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "email")

	_, err = s.Members().GetByID(ctx, 0)
	assert.True(t, errors.Is(err, repositories.ErrInvalidID))
}

func TestMemberRepository_ListAndCount(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	createMember(t, s, "b-jiro", "jiro@example.com")
	createMember(t, s, "a-taro", "taro@example.com")
	hanako := createMember(t, s, "c-hanako", "hanako@example.com")
	hanako.IsActive = false
	require.NoError(t, s.Members().Update(ctx, hanako))

	all, err := s.Members().List(ctx, models.SearchFilters{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "a-taro", all[0].Name)
	assert.Equal(t, "c-hanako", all[2].Name)

	active := true
	onlyActive, err := s.Members().List(ctx, models.SearchFilters{Active: &active})
	require.NoError(t, err)
	assert.Len(t, onlyActive, 2)

	found, err := s.Members().List(ctx, models.SearchFilters{Query: "JIRO"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "b-jiro", found[0].Name)

	paged, err := s.Members().List(ctx, models.SearchFilters{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, paged, 1)
	assert.Equal(t, "b-jiro", paged[0].Name)

	n, err := s.Members().Count(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	n, err = s.Members().Count(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestMemberRepository_GetOrCreateByEmail(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	m, created, err := s.Members().GetOrCreateByEmail(ctx, models.NewMember("山田 太郎", "taro@example.com", ""))
	require.NoError(t, err)
	assert.True(t, created)

	again, created, err := s.Members().GetOrCreateByEmail(ctx, models.NewMember("別名", "Taro@example.com", ""))
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, m.ID, again.ID)
	assert.Equal(t, "山田 太郎", again.Name)
}

func TestShippingAddressRepository(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	taro := createMember(t, s, "山田 太郎", "taro@example.com")
	jiro := createMember(t, s, "佐藤 次郎", "jiro@example.com")

	home := createAddress(t, s, taro.ID, "自宅")
	createAddress(t, s, taro.ID, "実家")
	office := createAddress(t, s, jiro.ID, "オフィス")

	got, err := s.ShippingAddresses().GetByID(ctx, home.ID)
	require.NoError(t, err)
	assert.Equal(t, "山田 太郎", got.MemberName)
	assert.Equal(t, "100-0001", got.PostalCode)

	office.IsActive = false
	require.NoError(t, s.ShippingAddresses().Update(ctx, office))

	activeAll, err := s.ShippingAddresses().ListActive(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, activeAll, 2)

	forJiro, err := s.ShippingAddresses().ListActive(ctx, jiro.ID)
	require.NoError(t, err)
	assert.Empty(t, forJiro)

	byMember, err := s.ShippingAddresses().List(ctx, models.SearchFilters{MemberID: taro.ID})
	require.NoError(t, err)
	assert.Len(t, byMember, 2)

	n, err := s.ShippingAddresses().Count(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	bad := models.NewShippingAddress(9999, "どこか")
	bad.PostalCode, bad.Address1, bad.Address2, bad.RecipientName = "1", "a", "b", "c"
	assert.True(t, repositories.IsConstraint(s.ShippingAddresses().Create(ctx, bad)))

	existing, created, err := s.ShippingAddresses().GetOrCreate(ctx, models.NewShippingAddress(taro.ID, "自宅"))
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, home.ID, existing.ID)
}

func TestOrderRepository(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	taro := createMember(t, s, "山田 太郎", "taro@example.com")
	home := createAddress(t, s, taro.ID, "自宅")

	var ids []int64
	for i := 0; i < 7; i++ {
		o := models.NewOrder(taro.ID, home.ID)
		o.CreatedAt = time.Date(2024, 4, 1+i, 9, 0, 0, 0, time.UTC)
		require.NoError(t, s.Orders().Create(ctx, o))
		ids = append(ids, o.ID)
	}

	recent, err := s.Orders().Recent(ctx, models.RecentOrdersLimit)
	require.NoError(t, err)
	require.Len(t, recent, 5)
	assert.Equal(t, ids[6], recent[0].ID)
	assert.Equal(t, ids[2], recent[4].ID)
	assert.Equal(t, "山田 太郎", recent[0].MemberName)
	assert.Equal(t, "自宅", recent[0].ShippingAddressLabel)

	require.NoError(t, s.Orders().UpdateStatus(ctx, ids[0], models.StatusCompleted))
	got, err := s.Orders().GetByID(ctx, ids[0])
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, got.Status)

	err = s.Orders().UpdateStatus(ctx, ids[0], "shipped")
	assert.True(t, repositories.IsValidation(err))
	assert.True(t, repositories.IsNotFound(s.Orders().UpdateStatus(ctx, 9999, models.StatusCanceled)))

	done, err := s.Orders().List(ctx, models.SearchFilters{Status: string(models.StatusCompleted)})
	require.NoError(t, err)
	require.Len(t, done, 1)
	assert.Equal(t, ids[0], done[0].ID)

	n, err := s.Orders().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	bad := models.NewOrder(taro.ID, 9999)
	assert.True(t, repositories.IsConstraint(s.Orders().Create(ctx, bad)))
}

func TestUserRepository(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	u, err := models.NewUser("admin", "Admin@example.com", "correct horse")
	require.NoError(t, err)
	require.NoError(t, s.Users().Create(ctx, u))

	byName, err := s.Users().GetByLogin(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byName.ID)
	assert.Nil(t, byName.LastLogin)

	byEmail, err := s.Users().GetByLogin(ctx, "admin@EXAMPLE.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	_, err = s.Users().GetByLogin(ctx, "")
	assert.True(t, repositories.IsNotFound(err))

	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.Users().UpdateLastLogin(ctx, u.ID, at))
	got, err := s.Users().GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastLogin)
	assert.True(t, at.Equal(*got.LastLogin))

	dup, err := models.NewUser("admin", "", "another pass")
	require.NoError(t, err)
	assert.True(t, repositories.IsDuplicate(s.Users().Create(ctx, dup)))
}

func TestStore_WithTransaction(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	boom := errors.New("boom")
	err := s.WithTransaction(ctx, func(ctx context.Context) error {
		require.NoError(t, s.Members().Create(ctx, models.NewMember("一時", "tmp@example.com", "")))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	n, err := s.Members().Count(ctx, false)
	require.NoError(t, err)
	assert.Zero(t, n, "rolled back insert must not persist")

	err = s.WithTransaction(ctx, func(ctx context.Context) error {
		m := models.NewMember("山田 太郎", "taro@example.com", "")
		if err := s.Members().Create(ctx, m); err != nil {
			return err
		}
		return s.WithTransaction(ctx, func(ctx context.Context) error {
			return s.ShippingAddresses().Create(ctx, &models.ShippingAddress{
				MemberID: m.ID, Label: "自宅", PostalCode: "100-0001",
				Address1: "東京都", Address2: "千代田1-1", RecipientName: "山田 太郎", IsActive: true,
			})
		})
	})
	require.NoError(t, err)

	n, err = s.ShippingAddresses().Count(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	assert.Panics(t, func() {
		_ = s.WithTransaction(ctx, func(ctx context.Context) error {
			_ = s.Members().Create(ctx, models.NewMember("パニック", "panic@example.com", ""))
			panic("boom")
		})
	})
	_, err = s.Members().GetByEmail(ctx, "panic@example.com")
	assert.True(t, repositories.IsNotFound(err))
}
