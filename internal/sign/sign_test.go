package sign

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalize(t *testing.T) {
	cases := []struct {
		name   string
		params map[string]string
		want   string
	}{
		{
			name:   "empty map",
			params: map[string]string{},
			want:   "",
		},
		{
			name:   "single pair",
			params: map[string]string{"pay_Amount": "10000000"},
			want:   "pay_Amount=10000000",
		},
		{
			name: "keys sorted bytewise",
			params: map[string]string{
				"pay_TxnRef":  "20240101-abc",
				"pay_Amount":  "10000000",
				"pay_Command": "pay",
			},
			want: "pay_Amount=10000000&pay_Command=pay&pay_TxnRef=20240101-abc",
		},
		{
			name: "signature field excluded",
			params: map[string]string{
				"pay_Amount":    "10000000",
				SecureHashField: "deadbeef",
			},
			want: "pay_Amount=10000000",
		},
		{
			name: "values not escaped",
			params: map[string]string{
				"pay_OrderInfo": "пакет удобрений & семена",
			},
			want: "pay_OrderInfo=пакет удобрений & семена",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, string(Canonicalize(c.params)))
		})
	}
}

func TestCanonicalizeInsertionOrderIndependent(t *testing.T) {
	a := map[string]string{"b": "2", "a": "1", "c": "3"}
	b := map[string]string{"c": "3", "a": "1", "b": "2"}
	assert.Equal(t, Canonicalize(a), Canonicalize(b))
}

func TestSignVerifyRoundTrip(t *testing.T) {
	secret := []byte("super secret key")
	params := map[string]string{
		"pay_Amount":  "10000000",
		"pay_TxnRef":  "20240101120000-a1b2c3",
		"pay_Command": "pay",
	}

	params[SecureHashField] = SignParams(params, secret)

	assert.True(t, Verify(params, secret))
	assert.False(t, Verify(params, []byte("another secret")))
}

func TestVerifyTamperedSignature(t *testing.T) {
	secret := []byte("super secret key")
	params := map[string]string{"pay_Amount": "10000000"}
	signature := SignParams(params, secret)
	require.NotEmpty(t, signature)

	// Порча любого одного символа подписи должна ронять проверку.
	for i := range signature {
		flipped := flipHexChar(signature[i])
		tampered := signature[:i] + string(flipped) + signature[i+1:]
		params[SecureHashField] = tampered
		assert.False(t, Verify(params, secret), "flipped char at %d", i)
	}
}

func TestVerifyTamperedValue(t *testing.T) {
	secret := []byte("super secret key")
	params := map[string]string{
		"pay_Amount": "10000000",
		"pay_TxnRef": "20240101120000-a1b2c3",
	}
	params[SecureHashField] = SignParams(params, secret)

	params["pay_Amount"] = "10000001"
	assert.False(t, Verify(params, secret))
}

func TestVerifyAbsentSignature(t *testing.T) {
	secret := []byte("super secret key")

	// Отсутствие подписи всегда невалидно, даже для пустого набора.
	assert.False(t, Verify(map[string]string{}, secret))
	assert.False(t, Verify(map[string]string{"pay_Amount": "100"}, secret))
	assert.False(t, Verify(map[string]string{SecureHashField: ""}, secret))
}

func TestVerifyUppercaseSignatureAccepted(t *testing.T) {
	secret := []byte("super secret key")
	params := map[string]string{"pay_Amount": "10000000"}
	params[SecureHashField] = strings.ToUpper(SignParams(params, secret))

	assert.True(t, Verify(params, secret))
}

func flipHexChar(c byte) byte {
	if c == 'a' {
		return 'b'
	}
	return 'a'
}
