package services

import (
	"context"
	"path/filepath"
	"testing"

	"order-dashboard/internal/config"
	"order-dashboard/internal/database"
	"order-dashboard/internal/models"
	"order-dashboard/internal/repositories"
	"order-dashboard/internal/repositories/sqlstore"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupServices(t *testing.T) (*ServiceContainer, repositories.RepositoryManager) {
	t.Helper()

	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)

	cm := database.NewConnectionManager(config.DatabaseConfig{
		Driver:       config.DriverSQLite,
		DSN:          filepath.Join(t.TempDir(), "services.db"),
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		AutoMigrate:  true,
	}, logger)
	require.NoError(t, cm.Connect(context.Background()))
	t.Cleanup(func() { cm.Close() })

	store := sqlstore.NewStore(cm.GetDB(), config.DriverSQLite, logger)
	container, err := NewServiceContainer(store, logger)
	require.NoError(t, err)
	require.NoError(t, container.Validate())
	return container, store
}

func boolPtr(b bool) *bool { return &b }

func TestNewServiceContainer_NilRepos(t *testing.T) {
	_, err := NewServiceContainer(nil, nil)
	assert.Error(t, err)
}

func TestMemberService(t *testing.T) {
	svc, _ := setupServices(t)
	ctx := context.Background()

	m, err := svc.Members.CreateMember(ctx, &MemberRequest{
		Name: " 山田 太郎 ", Email: "taro@EXAMPLE.com", Phone: "09011112222",
	})
	require.NoError(t, err)
	assert.Equal(t, "山田 太郎", m.Name)
	assert.Equal(t, "taro@example.com", m.Email)
	assert.Equal(t, "090-1111-2222", m.Phone)
	assert.True(t, m.IsActive)

	_, err = svc.Members.CreateMember(ctx, &MemberRequest{Name: "別人", Email: "TARO@example.com"})
	require.Error(t, err)
	assert.Equal(t, msgEmailTaken, models.FieldErrors(err)["email"])

	_, err = svc.Members.CreateMember(ctx, &MemberRequest{})
	fields := models.FieldErrors(err)
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "email")

	updated, err := svc.Members.UpdateMember(ctx, m.ID, &MemberRequest{
		Name: "山田 太郎", Email: "taro@example.com", IsActive: boolPtr(false),
	})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
	assert.Empty(t, updated.Phone)

	_, err = svc.Members.UpdateMember(ctx, 9999, &MemberRequest{Name: "x", Email: "x@example.com"})
	assert.True(t, repositories.IsNotFound(err))

	list, err := svc.Members.ListMembers(ctx, models.SearchFilters{Query: "山田"})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestShippingAddressService(t *testing.T) {
	svc, _ := setupServices(t)
	ctx := context.Background()

	m, err := svc.Members.CreateMember(ctx, &MemberRequest{Name: "山田 太郎", Email: "taro@example.com"})
	require.NoError(t, err)

	a, err := svc.ShippingAddresses.CreateAddress(ctx, &ShippingAddressRequest{
		MemberID: m.ID, Label: "自宅", PostalCode: "1000001",
		Address1: "東京都千代田区", Address2: "千代田1-1", RecipientName: "山田 太郎",
	})
	require.NoError(t, err)
	assert.Equal(t, "100-0001", a.PostalCode)
	assert.Equal(t, "山田 太郎", a.MemberName)
	assert.True(t, a.IsActive)

	_, err = svc.ShippingAddresses.CreateAddress(ctx, &ShippingAddressRequest{
		MemberID: 9999, Label: "どこか", PostalCode: "1000001",
		Address1: "a", Address2: "b", RecipientName: "c",
	})
	assert.Equal(t, msgInvalidChoice, models.FieldErrors(err)["member"])

	edited, err := svc.ShippingAddresses.UpdateAddress(ctx, a.ID, &ShippingAddressRequest{
		MemberID: m.ID, Label: "自宅", PostalCode: "100-0001",
		Address1: "東京都千代田区", Address2: "千代田2-2", RecipientName: "山田 太郎",
		IsActive: boolPtr(false),
	})
	require.NoError(t, err)
	assert.Equal(t, "千代田2-2", edited.Address2)
	assert.False(t, edited.IsActive)

	choices, err := svc.ShippingAddresses.MemberChoices(ctx)
	require.NoError(t, err)
	assert.Len(t, choices, 1)
}

func TestOrderService_CreateOrder(t *testing.T) {
	svc, _ := setupServices(t)
	ctx := context.Background()

	_, err := svc.Seeder.Seed(ctx, nil)
	require.NoError(t, err)

	members, err := svc.Members.ListMembers(ctx, models.SearchFilters{})
	require.NoError(t, err)
	byEmail := map[string]*models.Member{}
	for _, m := range members {
		byEmail[m.Email] = m
	}
	taro, jiro, hanako := byEmail["taro@example.com"], byEmail["jiro@example.com"], byEmail["hanako@example.com"]

	taroAddrs, err := svc.ShippingAddresses.ListAddresses(ctx, models.SearchFilters{MemberID: taro.ID})
	require.NoError(t, err)
	require.Len(t, taroAddrs, 2)
	jiroAddrs, err := svc.ShippingAddresses.ListAddresses(ctx, models.SearchFilters{MemberID: jiro.ID})
	require.NoError(t, err)
	require.Len(t, jiroAddrs, 1)

	order, err := svc.Orders.CreateOrder(ctx, &OrderRequest{
		MemberID: taro.ID, ShippingAddressID: taroAddrs[0].ID, Memo: " 午前指定 ",
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusReceived, order.Status)
	assert.Equal(t, "午前指定", order.Memo)
	assert.Equal(t, "山田 太郎", order.MemberName)

	_, err = svc.Orders.CreateOrder(ctx, &OrderRequest{MemberID: taro.ID, ShippingAddressID: jiroAddrs[0].ID})
	assert.Equal(t, msgForeignAddr, models.FieldErrors(err)["shipping_address"])

	_, err = svc.Members.UpdateMember(ctx, hanako.ID, &MemberRequest{
		Name: hanako.Name, Email: hanako.Email, IsActive: boolPtr(false),
	})
	require.NoError(t, err)
	_, err = svc.Orders.CreateOrder(ctx, &OrderRequest{MemberID: hanako.ID, ShippingAddressID: taroAddrs[0].ID})
	assert.Equal(t, msgInvalidChoice, models.FieldErrors(err)["member"])

	_, err = svc.ShippingAddresses.UpdateAddress(ctx, taroAddrs[1].ID, &ShippingAddressRequest{
		MemberID: taro.ID, Label: taroAddrs[1].Label, PostalCode: taroAddrs[1].PostalCode,
		Address1: taroAddrs[1].Address1, Address2: taroAddrs[1].Address2,
		RecipientName: taroAddrs[1].RecipientName, IsActive: boolPtr(false),
	})
	require.NoError(t, err)
	_, err = svc.Orders.CreateOrder(ctx, &OrderRequest{MemberID: taro.ID, ShippingAddressID: taroAddrs[1].ID})
	assert.Equal(t, msgInvalidChoice, models.FieldErrors(err)["shipping_address"])

	_, err = svc.Orders.CreateOrder(ctx, &OrderRequest{MemberID: taro.ID, ShippingAddressID: taroAddrs[0].ID, Status: "shipped"})
	assert.Contains(t, models.FieldErrors(err), "status")

	choices, err := svc.Orders.Choices(ctx)
	require.NoError(t, err)
	assert.Len(t, choices.Members, 2)
	assert.Len(t, choices.Addresses, 2)
	assert.Equal(t, models.OrderStatuses(), choices.Statuses)

	n, err := svc.Dashboard.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n.Orders)
}

func TestOrderService_UpdateOrderStatus(t *testing.T) {
	svc, _ := setupServices(t)
	ctx := context.Background()

	_, err := svc.Seeder.Seed(ctx, nil)
	require.NoError(t, err)
	addrs, err := svc.ShippingAddresses.ListAddresses(ctx, models.SearchFilters{Query: "オフィス"})
	require.NoError(t, err)
	require.Len(t, addrs, 1)

	order, err := svc.Orders.CreateOrder(ctx, &OrderRequest{MemberID: addrs[0].MemberID, ShippingAddressID: addrs[0].ID})
	require.NoError(t, err)

	updated, err := svc.Orders.UpdateOrderStatus(ctx, order.ID, models.StatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, updated.Status)
	assert.Equal(t, "オフィス", updated.ShippingAddressLabel)

	_, err = svc.Orders.UpdateOrderStatus(ctx, order.ID, "unknown")
	assert.Contains(t, models.FieldErrors(err), "status")

	_, err = svc.Orders.UpdateOrderStatus(ctx, 9999, models.StatusCompleted)
	assert.True(t, repositories.IsNotFound(err))

	_, err = svc.Orders.ListOrders(ctx, models.SearchFilters{Status: "unknown"})
	assert.Contains(t, models.FieldErrors(err), "status")

	inProgress, err := svc.Orders.ListOrders(ctx, models.SearchFilters{Status: string(models.StatusInProgress)})
	require.NoError(t, err)
	assert.Len(t, inProgress, 1)
}

func TestDashboardService_Summary(t *testing.T) {
	svc, _ := setupServices(t)
	ctx := context.Background()

	empty, err := svc.Dashboard.Summary(ctx)
	require.NoError(t, err)
	assert.Zero(t, empty.ActiveMembers)
	assert.Empty(t, empty.RecentOrders)

	_, err = svc.Seeder.Seed(ctx, nil)
	require.NoError(t, err)

	addrs, err := svc.ShippingAddresses.ListAddresses(ctx, models.SearchFilters{Query: "自宅"})
	require.NoError(t, err)
	require.Len(t, addrs, 1)
	var last int64
	for i := 0; i < 6; i++ {
		o, err := svc.Orders.CreateOrder(ctx, &OrderRequest{MemberID: addrs[0].MemberID, ShippingAddressID: addrs[0].ID})
		require.NoError(t, err)
		last = o.ID
	}

	summary, err := svc.Dashboard.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.ActiveMembers)
	assert.Equal(t, 3, summary.ActiveAddresses)
	assert.Equal(t, 6, summary.Orders)
	require.Len(t, summary.RecentOrders, models.RecentOrdersLimit)
	assert.Equal(t, last, summary.RecentOrders[0].ID)
}

func TestSeeder_Idempotent(t *testing.T) {
	svc, store := setupServices(t)
	ctx := context.Background()

	first, err := svc.Seeder.Seed(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, &SeedResult{MembersCreated: 3, AddressesCreated: 3}, first)

	second, err := svc.Seeder.Seed(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, &SeedResult{MembersExisting: 3}, second)

	n, err := store.ShippingAddresses().Count(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	taro, err := store.Members().GetByEmail(ctx, "taro@example.com")
	require.NoError(t, err)
	assert.Equal(t, "山田 太郎", taro.Name)
	assert.Equal(t, "090-1111-2222", taro.Phone)
}

func TestParseFixtures(t *testing.T) {
	f := DefaultFixtures()
	require.Len(t, f.Members, 3)
	assert.Equal(t, "taro@example.com", f.Members[0].Email)
	assert.Len(t, f.Members[0].Addresses, 2)
	assert.Empty(t, f.Members[2].Addresses)

	_, err := ParseFixtures([]byte("members: [unclosed"))
	assert.Error(t, err)
}

func TestAuthService(t *testing.T) {
	svc, _ := setupServices(t)
	ctx := context.Background()

	_, err := svc.Auth.CreateUser(ctx, "admin", "admin@example.com", "short")
	assert.Contains(t, models.FieldErrors(err), "password")

	user, err := svc.Auth.CreateUser(ctx, "admin", "admin@example.com", "correct horse")
	require.NoError(t, err)

	_, err = svc.Auth.CreateUser(ctx, "admin", "", "another horse")
	assert.Equal(t, msgUsernameTaken, models.FieldErrors(err)["username"])

	byName, err := svc.Auth.Authenticate(ctx, "admin", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byName.ID)
	require.NotNil(t, byName.LastLogin)

	byEmail, err := svc.Auth.Authenticate(ctx, "ADMIN@example.com", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	_, err = svc.Auth.Authenticate(ctx, "admin", "wrong horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Auth.Authenticate(ctx, "nobody", "correct horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	got, err := svc.Auth.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.NotNil(t, got.LastLogin)
}
