package ymodem

import "testing"

func TestErrorPredicates(t *testing.T) {
	cases := []struct {
		err           error
		wantTimeout   bool
		wantCancelled bool
		wantExhausted bool
	}{
		{NewError(ErrTimeout, "x"), true, false, false},
		{NewError(ErrUserAbort, "x"), false, true, false},
		{NewError(ErrSenderAbort, "x"), false, true, false},
		{NewError(ErrRetryExhausted, "x"), false, false, true},
		{NewError(ErrCorrupt, "x"), false, false, false},
	}

	for _, c := range cases {
		if got := IsTimeout(c.err); got != c.wantTimeout {
			t.Errorf("IsTimeout(%v) = %v, want %v", c.err, got, c.wantTimeout)
		}
		if got := IsCancelled(c.err); got != c.wantCancelled {
			t.Errorf("IsCancelled(%v) = %v, want %v", c.err, got, c.wantCancelled)
		}
		if got := IsRetryExhausted(c.err); got != c.wantExhausted {
			t.Errorf("IsRetryExhausted(%v) = %v, want %v", c.err, got, c.wantExhausted)
		}
	}
}

func TestErrorMessageFormat(t *testing.T) {
	err := NewError(ErrCorrupt, "bad crc")
	want := "ymodem: corrupt packet: bad crc"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
