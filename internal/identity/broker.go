package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentity"
)

// API is the slice of the Cognito Identity client the broker needs.
type API interface {
	GetId(
		ctx context.Context,
		params *cognitoidentity.GetIdInput,
		optFns ...func(*cognitoidentity.Options),
	) (*cognitoidentity.GetIdOutput, error)

	GetCredentialsForIdentity(
		ctx context.Context,
		params *cognitoidentity.GetCredentialsForIdentityInput,
		optFns ...func(*cognitoidentity.Options),
	) (*cognitoidentity.GetCredentialsForIdentityOutput, error)
}

// Credentials are short-lived federated AWS credentials. They are
// re-derived on every authenticated inference call and must never be
// logged or written to a response.
type Credentials struct {
	AccessKeyID  string
	SecretKey    string
	SessionToken string
}

// Broker exchanges a provider-issued ID token for federated credentials
// scoped to one identity-pool identity.
type Broker struct {
	api            API
	identityPoolID string
	loginProvider  string // Logins map key for the user pool
}

func NewBroker(api API, identityPoolID string, loginProvider string) *Broker {
	return &Broker{
		api:            api,
		identityPoolID: identityPoolID,
		loginProvider:  loginProvider,
	}
}

// NewClient builds the region-scoped Cognito Identity client. GetId and
// GetCredentialsForIdentity are unsigned APIs, so anonymous credentials
// suffice.
func NewClient(region string) *cognitoidentity.Client {
	return cognitoidentity.New(cognitoidentity.Options{
		Region:      region,
		Credentials: aws.AnonymousCredentials{},
	})
}

// Federate resolves the identity for the ID token and then requests
// temporary credentials for it. Both calls are sequential; any failure
// fails the whole request, there is no fallback identity.
func (b *Broker) Federate(ctx context.Context, idToken string) (Credentials, error) {
	logins := map[string]string{b.loginProvider: idToken}

	idOut, err := b.api.GetId(ctx, &cognitoidentity.GetIdInput{
		IdentityPoolId: aws.String(b.identityPoolID),
		Logins:         logins,
	})
	if err != nil {
		return Credentials{}, fmt.Errorf("identity: get id failed: %w", err)
	}

	credsOut, err := b.api.GetCredentialsForIdentity(ctx, &cognitoidentity.GetCredentialsForIdentityInput{
		IdentityId: idOut.IdentityId,
		Logins:     logins,
	})
	if err != nil {
		return Credentials{}, fmt.Errorf("identity: get credentials failed: %w", err)
	}

	if credsOut.Credentials == nil {
		return Credentials{}, errors.New("identity: broker returned no credentials")
	}

	return Credentials{
		AccessKeyID:  aws.ToString(credsOut.Credentials.AccessKeyId),
		SecretKey:    aws.ToString(credsOut.Credentials.SecretKey),
		SessionToken: aws.ToString(credsOut.Credentials.SessionToken),
	}, nil
}
