package inference

import (
	"context"
	"errors"
	"fmt"

	"github.com/moritalous/gradiio-cognito-bedrock/internal/identity"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
)

const defaultModelID = "us.anthropic.claude-3-haiku-20240307-v1:0"

// ConverseAPI is the slice of the Bedrock runtime client the caller needs.
type ConverseAPI interface {
	Converse(
		ctx context.Context,
		params *bedrockruntime.ConverseInput,
		optFns ...func(*bedrockruntime.Options),
	) (*bedrockruntime.ConverseOutput, error)
}

// Bedrock invokes a single synchronous Converse operation per prompt.
// Each call builds a fresh client from the visitor's federated
// credentials; nothing is cached between requests.
type Bedrock struct {
	modelID   string
	newClient func(creds identity.Credentials) ConverseAPI
}

func NewBedrock(region string) *Bedrock {
	return &Bedrock{
		modelID: defaultModelID,
		newClient: func(creds identity.Credentials) ConverseAPI {
			return bedrockruntime.New(bedrockruntime.Options{
				Region: region,
				Credentials: credentials.NewStaticCredentialsProvider(
					creds.AccessKeyID,
					creds.SecretKey,
					creds.SessionToken,
				),
			})
		},
	}
}

// Converse sends the prompt as one user message and returns the first
// text block of the reply. Multi-segment, tool-call, and streaming
// responses are out of scope.
func (b *Bedrock) Converse(
	ctx context.Context,
	creds identity.Credentials,
	prompt string,
) (string, error) {

	client := b.newClient(creds)

	out, err := client.Converse(ctx, &bedrockruntime.ConverseInput{
		ModelId: aws.String(b.modelID),
		Messages: []types.Message{
			{
				Role: types.ConversationRoleUser,
				Content: []types.ContentBlock{
					&types.ContentBlockMemberText{Value: prompt},
				},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("inference: converse failed: %w", err)
	}

	msg, ok := out.Output.(*types.ConverseOutputMemberMessage)
	if !ok {
		return "", errors.New("inference: response missing message output")
	}

	for _, block := range msg.Value.Content {
		if text, ok := block.(*types.ContentBlockMemberText); ok {
			return text.Value, nil
		}
	}

	return "", errors.New("inference: response contained no text block")
}
