package authsvc_test

import (
	"testing"

	"github.com/red-safe/platform/internal/authsvc"
)

func TestSerialNumberRe(t *testing.T) {
	valid := []string{"RED-0A1B2C3D", "RED-FFFFFFFF"}
	invalid := []string{"red-0a1b2c3d", "RED-0A1B2C3", "RED-0A1B2C3G", "RED0A1B2C3D"}
	for _, v := range valid {
		if !authsvc.SerialNumberRe.MatchString(v) {
			t.Errorf("expected %q to match", v)
		}
	}
	for _, v := range invalid {
		if authsvc.SerialNumberRe.MatchString(v) {
			t.Errorf("expected %q not to match", v)
		}
	}
}

func TestPasswordRe(t *testing.T) {
	valid := []string{"Abcdef12", "Str0ngPassword"}
	invalid := []string{"abcdefgh", "ABCDEFGH", "Abcdefgh", "Ab1"}
	for _, v := range valid {
		if !authsvc.PasswordRe.MatchString(v) {
			t.Errorf("expected %q to match", v)
		}
	}
	for _, v := range invalid {
		if authsvc.PasswordRe.MatchString(v) {
			t.Errorf("expected %q not to match", v)
		}
	}
}

func TestUserNameRe(t *testing.T) {
	valid := []string{"alice", "a.b-c_d", "用户名"}
	invalid := []string{"", "this-name-is-too-long-to-pass", "bad name"}
	for _, v := range valid {
		if !authsvc.UserNameRe.MatchString(v) {
			t.Errorf("expected %q to match", v)
		}
	}
	for _, v := range invalid {
		if authsvc.UserNameRe.MatchString(v) {
			t.Errorf("expected %q not to match", v)
		}
	}
}

func TestEmailRe(t *testing.T) {
	if !authsvc.EmailRe.MatchString("a@b.co") {
		t.Error("expected a@b.co to match")
	}
	if authsvc.EmailRe.MatchString("not-an-email") {
		t.Error("expected not-an-email to fail")
	}
}

func TestAPNsTokenRe(t *testing.T) {
	valid := "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcd"
	if !authsvc.APNsTokenRe.MatchString(valid) {
		t.Errorf("expected %q to match", valid)
	}
	if authsvc.APNsTokenRe.MatchString("short") {
		t.Error("expected short token to fail")
	}
}
