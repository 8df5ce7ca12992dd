package ports

// Token kinds carried inside the signed payload. The same key signs both, so
// the kind marker is the only way to tell them apart.
const (
	TokenKindAccess  = "access"
	TokenKindRefresh = "refresh"
)

// TokenClaims is what a successfully validated token proves.
type TokenClaims struct {
	Subject string // the user's email
	Role    string
	Kind    string // TokenKindAccess or TokenKindRefresh
}

// TokenService issues and validates signed, time-bounded tokens. Validity is
// purely a function of signature and expiry; nothing is persisted.
type TokenService interface {
	IssueAccessToken(subject, role string) (string, error)
	IssueRefreshToken(subject, role string) (string, error)
	Validate(token string) (*TokenClaims, error)
	// IsRefresh is a best-effort check: it returns false on any parse or
	// verification failure instead of an error.
	IsRefresh(token string) bool
}
