package config

import (
	"context"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// NewSSMClient builds a Parameter Store client from the default AWS credential chain.
func NewSSMClient(ctx context.Context) (*ssm.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return ssm.NewFromConfig(cfg), nil
}

// OverlaySSM copies every parameter stored under parameterPath into c, keyed
// by the last path segment (/honoriel/prod/SESSION_SECRET -> SESSION_SECRET).
// SecureString values are decrypted. Existing keys are overwritten.
func OverlaySSM(ctx context.Context, client ssm.GetParametersByPathAPIClient, parameterPath string, c map[string]string) (int, error) {
	paginator := ssm.NewGetParametersByPathPaginator(client, &ssm.GetParametersByPathInput{
		Path:           aws.String(parameterPath),
		Recursive:      aws.Bool(true),
		WithDecryption: aws.Bool(true),
	})

	count := 0
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return count, fmt.Errorf("read parameters under %s: %w", parameterPath, err)
		}
		for _, p := range page.Parameters {
			name := path.Base(aws.ToString(p.Name))
			if name == "" || name == "/" || name == "." {
				continue
			}
			c[name] = aws.ToString(p.Value)
			count++
		}
	}
	return count, nil
}
