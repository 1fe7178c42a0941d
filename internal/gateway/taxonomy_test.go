package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	cases := []struct {
		code         string
		wantSuccess  bool
		wantCategory Category
	}{
		{code: "00", wantSuccess: true, wantCategory: CategorySuccess},
		{code: "51", wantCategory: CategoryInsufficient},
		{code: "09", wantCategory: CategoryNotEnrolled},
		{code: "10", wantCategory: CategoryAuthFailureLimit},
		{code: "11", wantCategory: CategoryExpiredSession},
		{code: "12", wantCategory: CategoryAccountLocked},
		{code: "24", wantCategory: CategoryUserCancelled},
		{code: "65", wantCategory: CategoryDailyLimit},
		{code: "75", wantCategory: CategoryMaintenance},
		{code: "99", wantCategory: CategoryUnspecified},
	}

	for _, c := range cases {
		t.Run(c.code, func(t *testing.T) {
			outcome := Resolve(c.code)
			assert.Equal(t, c.wantSuccess, outcome.Success)
			assert.Equal(t, c.wantCategory, outcome.Category)
			assert.NotEmpty(t, outcome.Message)
		})
	}
}

// Неизвестный код никогда не трактуется как успех.
func TestResolveUnknownCode(t *testing.T) {
	for _, code := range []string{"", "42", "XX", "0", "000"} {
		outcome := Resolve(code)
		assert.False(t, outcome.Success, "code %q", code)
		assert.Equal(t, CategoryUnspecified, outcome.Category, "code %q", code)
	}
}
