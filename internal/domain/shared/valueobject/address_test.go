package valueobject

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validAddress() Address {
	return Address{
		FirstName: "Asha",
		LastName:  "Perera",
		Email:     "Asha@Example.com",
		Street:    "12 Galle Road",
		City:      "Colombo",
		State:     "Western",
		Zipcode:   "00300",
		Country:   "Sri Lanka",
		Phone:     "+94771234567",
	}
}

func TestNewAddress(t *testing.T) {
	t.Run("trims and lower-cases email", func(t *testing.T) {
		in := validAddress()
		in.City = "  Colombo "
		addr, err := NewAddress(in)
		require.NoError(t, err)
		assert.Equal(t, "Colombo", addr.City)
		assert.Equal(t, "asha@example.com", addr.Email)
	})

	tests := []struct {
		name        string
		mutate      func(a *Address)
		errContains string
	}{
		{"missing first name", func(a *Address) { a.FirstName = " " }, "firstName is required"},
		{"missing street", func(a *Address) { a.Street = "" }, "street is required"},
		{"missing phone", func(a *Address) { a.Phone = "" }, "phone is required"},
		{"invalid email", func(a *Address) { a.Email = "not-an-email" }, "email is invalid"},
		{"too long city", func(a *Address) { a.City = strings.Repeat("x", 201) }, "cannot exceed 200"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validAddress()
			tt.mutate(&in)
			_, err := NewAddress(in)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}

	t.Run("state is optional", func(t *testing.T) {
		in := validAddress()
		in.State = ""
		_, err := NewAddress(in)
		assert.NoError(t, err)
	})
}

func TestAddress_Lines(t *testing.T) {
	addr, err := NewAddress(validAddress())
	require.NoError(t, err)

	lines := addr.Lines()
	assert.Equal(t, "Asha Perera", lines[0])
	assert.Contains(t, lines, "Colombo, Western, 00300")
	assert.Contains(t, addr.String(), "Sri Lanka")
}

func TestAddress_ValueScan(t *testing.T) {
	addr, err := NewAddress(validAddress())
	require.NoError(t, err)

	v, err := addr.Value()
	require.NoError(t, err)

	var out Address
	require.NoError(t, out.Scan(v))
	assert.Equal(t, addr, out)

	require.NoError(t, out.Scan([]byte(v.(string))))
	assert.Equal(t, addr, out)

	require.NoError(t, out.Scan(nil))
	assert.True(t, out.IsEmpty())

	assert.Error(t, out.Scan(42))
}
