package authsvc

import "regexp"

// Field validation regexes, authoritative per spec.md §4.5.
var (
	SerialNumberRe = regexp.MustCompile(`^RED-[0-9A-F]{8}$`)
	APNsTokenRe    = regexp.MustCompile(`^[0-9a-f]{64}$`)
	EmailRe        = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	PasswordRe     = passwordPolicy{}
	UserNameRe     = regexp.MustCompile(`^[A-Za-z0-9\x{4E00}-\x{9FFF}\-_\.]{1,16}$`)
	RefreshTokenRe = regexp.MustCompile(`^[0-9a-f]{64}$`)
)

// passwordPolicy checks ^(?=.*[a-z])(?=.*[A-Z])(?=.*\d)[A-Za-z\d]{8,}$.
// Go's RE2 engine has no lookahead, so each required class is its own regexp.
type passwordPolicy struct{}

var passwordClassRes = []*regexp.Regexp{
	regexp.MustCompile(`^[A-Za-z\d]{8,}$`), regexp.MustCompile(`[a-z]`),
	regexp.MustCompile(`[A-Z]`), regexp.MustCompile(`\d`),
}

func (passwordPolicy) MatchString(s string) bool {
	for _, re := range passwordClassRes {
		if !re.MatchString(s) {
			return false
		}
	}
	return true
}
