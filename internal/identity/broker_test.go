package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentity"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentity/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCognitoAPI struct {
	getIdIn  *cognitoidentity.GetIdInput
	getIdOut *cognitoidentity.GetIdOutput
	getIdErr error

	credsIn  *cognitoidentity.GetCredentialsForIdentityInput
	credsOut *cognitoidentity.GetCredentialsForIdentityOutput
	credsErr error
}

func (f *fakeCognitoAPI) GetId(
	ctx context.Context,
	params *cognitoidentity.GetIdInput,
	optFns ...func(*cognitoidentity.Options),
) (*cognitoidentity.GetIdOutput, error) {
	f.getIdIn = params
	return f.getIdOut, f.getIdErr
}

func (f *fakeCognitoAPI) GetCredentialsForIdentity(
	ctx context.Context,
	params *cognitoidentity.GetCredentialsForIdentityInput,
	optFns ...func(*cognitoidentity.Options),
) (*cognitoidentity.GetCredentialsForIdentityOutput, error) {
	f.credsIn = params
	return f.credsOut, f.credsErr
}

func TestFederate(t *testing.T) {
	api := &fakeCognitoAPI{
		getIdOut: &cognitoidentity.GetIdOutput{
			IdentityId: aws.String("identity-1"),
		},
		credsOut: &cognitoidentity.GetCredentialsForIdentityOutput{
			Credentials: &types.Credentials{
				AccessKeyId:  aws.String("AKIA"),
				SecretKey:    aws.String("secret"),
				SessionToken: aws.String("session"),
			},
		},
	}

	broker := NewBroker(api, "pool-1", "user-pool-1")

	creds, err := broker.Federate(context.Background(), "id-token-1")
	require.NoError(t, err)

	assert.Equal(t, "AKIA", creds.AccessKeyID)
	assert.Equal(t, "secret", creds.SecretKey)
	assert.Equal(t, "session", creds.SessionToken)

	require.NotNil(t, api.getIdIn)
	assert.Equal(t, "pool-1", aws.ToString(api.getIdIn.IdentityPoolId))
	assert.Equal(t, map[string]string{"user-pool-1": "id-token-1"}, api.getIdIn.Logins)

	require.NotNil(t, api.credsIn)
	assert.Equal(t, "identity-1", aws.ToString(api.credsIn.IdentityId))
	assert.Equal(t, map[string]string{"user-pool-1": "id-token-1"}, api.credsIn.Logins)
}

func TestFederateGetIdFails(t *testing.T) {
	api := &fakeCognitoAPI{
		getIdErr: errors.New("token expired"),
	}

	broker := NewBroker(api, "pool-1", "user-pool-1")

	_, err := broker.Federate(context.Background(), "id-token-1")
	assert.Error(t, err)
	assert.Nil(t, api.credsIn, "second call must not happen when the first fails")
}

func TestFederateGetCredentialsFails(t *testing.T) {
	api := &fakeCognitoAPI{
		getIdOut: &cognitoidentity.GetIdOutput{
			IdentityId: aws.String("identity-1"),
		},
		credsErr: errors.New("broker unavailable"),
	}

	broker := NewBroker(api, "pool-1", "user-pool-1")

	_, err := broker.Federate(context.Background(), "id-token-1")
	assert.Error(t, err)
}

func TestFederateNoCredentials(t *testing.T) {
	api := &fakeCognitoAPI{
		getIdOut: &cognitoidentity.GetIdOutput{
			IdentityId: aws.String("identity-1"),
		},
		credsOut: &cognitoidentity.GetCredentialsForIdentityOutput{},
	}

	broker := NewBroker(api, "pool-1", "user-pool-1")

	_, err := broker.Federate(context.Background(), "id-token-1")
	assert.Error(t, err)
}
