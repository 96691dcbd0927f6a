package push

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestIsPermanentStatusCodes(t *testing.T) {
	cases := []struct {
		code      int
		permanent bool
	}{
		{http.StatusNotFound, true},
		{http.StatusGone, true},
		{http.StatusBadRequest, false},
		{http.StatusTooManyRequests, false},
		{http.StatusInternalServerError, false},
		{http.StatusBadGateway, false},
	}

	for _, tc := range cases {
		if got := IsPermanent(&StatusError{StatusCode: tc.code}); got != tc.permanent {
			t.Errorf("status %d: IsPermanent = %v, want %v", tc.code, got, tc.permanent)
		}
	}
}

func TestIsPermanentWrappedStatusError(t *testing.T) {
	err := fmt.Errorf("deliver to endpoint: %w", &StatusError{StatusCode: http.StatusGone})
	if !IsPermanent(err) {
		t.Fatal("wrapped 410 should still classify as permanent")
	}
}

func TestIsPermanentGenericErrors(t *testing.T) {
	if IsPermanent(errors.New("dial tcp: i/o timeout")) {
		t.Fatal("network errors are transient")
	}
	if IsPermanent(ErrChannelDisabled) {
		t.Fatal("a disabled channel is not a dead token")
	}
}
