package google

// DefaultOAuthScopes are the Google OAuth scopes the availability tools
// need. Free/busy lookups only require read access to the calendar; the
// OpenID Connect scopes identify the authorized user.
var DefaultOAuthScopes = []string{
	"openid",
	"https://www.googleapis.com/auth/userinfo.email",

	"https://www.googleapis.com/auth/calendar.readonly",
}
