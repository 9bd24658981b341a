package config

import (
	"context"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rs/zerolog/log"
)

// LoadSSMParameters merges every parameter stored under prefix in AWS Systems
// Manager into config. The last path segment becomes the key, and values
// already present in config win over the stored ones.
func LoadSSMParameters(ctx context.Context, prefix string, config map[string]string) error {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return errs.NewConfigError("aws", err)
	}
	return mergeParameters(ctx, ssm.NewFromConfig(awsCfg), prefix, config)
}

func mergeParameters(ctx context.Context, client ssm.GetParametersByPathAPIClient, prefix string, config map[string]string) error {
	paginator := ssm.NewGetParametersByPathPaginator(client, &ssm.GetParametersByPathInput{
		Path:           aws.String(prefix),
		Recursive:      aws.Bool(true),
		WithDecryption: aws.Bool(true),
	})

	loaded := 0
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return errs.NewConfigError("SSM parameters under "+prefix, err)
		}
		for _, p := range page.Parameters {
			key := path.Base(aws.ToString(p.Name))
			if key == "" || key == "." || key == "/" {
				continue
			}
			key = strings.ToUpper(key)
			if _, exists := config[key]; exists {
				continue
			}
			config[key] = aws.ToString(p.Value)
			loaded++
		}
	}

	log.Info().Str("path", prefix).Int("loaded", loaded).Msg("loaded parameters from SSM")
	return nil
}
