package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePostalCode(t *testing.T) {
	tests := map[string]string{
		"1000001":  "100-0001",
		"100-0001": "100-0001",
		"100 0001": "100-0001",
		"〒1500043": "150-0043",
		"12345":    "12345",
		"":         "",
		"abc":      "abc",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizePostalCode(in), "input %q", in)
	}
}

func TestNormalizePhone(t *testing.T) {
	tests := map[string]string{
		"09011112222":    "090-1111-2222",
		"090-1111-2222":  "090-1111-2222",
		"(090) 1111 2222": "090-1111-2222",
		"0451112222":     "045-111-2222",
		"12345":          "12345",
		"":               "",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizePhone(in), "input %q", in)
	}
}

func TestMember_NormalizeAndValidate(t *testing.T) {
	m := NewMember("  山田 太郎 ", " Taro@Example.COM ", "09011112222")
	m.Normalize()

	assert.Equal(t, "山田 太郎", m.Name)
	assert.Equal(t, "Taro@example.com", m.Email)
	assert.Equal(t, "090-1111-2222", m.Phone)
	assert.True(t, m.IsActive)
	require.NoError(t, m.Validate())

	bad := &Member{Name: strings.Repeat("長", 101), Email: "not-an-email"}
	err := bad.Validate()
	require.Error(t, err)
	assert.True(t, IsValidationError(err))

	fields := FieldErrors(err)
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "email")
	assert.NotContains(t, fields, "phone")
}

func TestShippingAddress_NormalizeAndValidate(t *testing.T) {
	a := NewShippingAddress(1, "自宅")
	a.PostalCode = "1000001"
	a.Address1 = "東京都千代田区"
	a.Address2 = "千代田1-1"
	a.RecipientName = "山田 太郎"
	a.Phone = "0451112222"
	a.Normalize()

	assert.Equal(t, "100-0001", a.PostalCode)
	assert.Equal(t, "045-111-2222", a.Phone)
	assert.Equal(t, "自宅 (山田 太郎)", a.String())
	require.NoError(t, a.Validate())

	empty := &ShippingAddress{}
	fields := FieldErrors(empty.Validate())
	for _, name := range []string{"member", "label", "postal_code", "address1", "address2", "recipient_name"} {
		assert.Contains(t, fields, name)
	}
}

func TestOrder_Status(t *testing.T) {
	o := NewOrder(1, 2)
	assert.Equal(t, StatusReceived, o.Status)
	require.NoError(t, o.Validate())

	o.Status = "shipped"
	assert.False(t, o.Status.Valid())
	fields := FieldErrors(o.Validate())
	assert.Contains(t, fields, "status")

	for _, s := range OrderStatuses() {
		assert.True(t, s.Valid())
		o.Status = s
		assert.NoError(t, o.Validate())
	}

	blank := &Order{MemberID: 1, ShippingAddressID: 1}
	blank.Normalize()
	assert.Equal(t, StatusReceived, blank.Status)
}

func TestUser_Password(t *testing.T) {
	_, err := NewUser("admin", "", "short")
	require.Error(t, err)
	assert.True(t, IsValidationError(err))

	u, err := NewUser("admin", "admin@example.com", "correct horse")
	require.NoError(t, err)
	require.NoError(t, u.Validate())

	assert.True(t, u.CheckPassword("correct horse"))
	assert.False(t, u.CheckPassword("wrong horse"))
	assert.NotContains(t, u.PasswordHash, "correct horse")

	assert.False(t, (&User{}).CheckPassword(""))
}
