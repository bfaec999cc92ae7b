package auth

// Tokens is the parsed token-endpoint response. Fields are carried
// verbatim; nothing here is validated or decoded. An empty IDToken
// means the provider did not authenticate the visitor.
type Tokens struct {
	IDToken      string
	AccessToken  string
	RefreshToken string
	TokenType    string
}
